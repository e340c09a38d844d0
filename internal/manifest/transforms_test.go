package manifest

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestModifyURLPrefix tests prefix rewriting
func TestModifyURLPrefix(t *testing.T) {
	transform := ModifyURLPrefix(map[string]string{
		"static/": "/assets/",
		"media/":  "https://cdn.example.com/media/",
	})

	entries, err := transform([]Entry{
		Revisioned("static/app.js", "1"),
		Revisioned("media/logo.png", "2"),
		Revisioned("index.html", "3"),
	})
	require.NoError(t, err)

	assert.Equal(t, "/assets/app.js", entries[0].URL)
	assert.Equal(t, "https://cdn.example.com/media/logo.png", entries[1].URL)
	assert.Equal(t, "index.html", entries[2].URL)
}

// TestModifyURLPrefix_OneRewritePerEntry tests that at most one prefix applies
func TestModifyURLPrefix_OneRewritePerEntry(t *testing.T) {
	transform := ModifyURLPrefix(map[string]string{
		"a/":  "b/",
		"b/":  "c/",
	})

	entries, err := transform([]Entry{Revisioned("a/x.js", "1")})
	require.NoError(t, err)
	assert.Equal(t, "b/x.js", entries[0].URL)
}

// TestDontCacheBustURLsMatching tests revision clearing for hashed filenames
func TestDontCacheBustURLsMatching(t *testing.T) {
	transform := DontCacheBustURLsMatching(regexp.MustCompile(`\.[0-9a-f]{8}\.`))

	entries, err := transform([]Entry{
		Revisioned("app.12345678.js", "1"),
		Revisioned("plain.js", "2"),
	})
	require.NoError(t, err)

	assert.Nil(t, entries[0].Revision)
	require.NotNil(t, entries[1].Revision)
	assert.Equal(t, "2", *entries[1].Revision)
}

// TestApplyTransforms tests pipeline ordering and error propagation
func TestApplyTransforms(t *testing.T) {
	appendSuffix := func(s string) Transform {
		return func(entries []Entry) ([]Entry, error) {
			for i := range entries {
				entries[i].URL += s
			}
			return entries, nil
		}
	}

	entries, err := ApplyTransforms([]Entry{Revisioned("x", "1")}, []Transform{
		appendSuffix("-a"),
		appendSuffix("-b"),
	})
	require.NoError(t, err)
	assert.Equal(t, "x-a-b", entries[0].URL, "transforms run in order")

	boom := func([]Entry) ([]Entry, error) { return nil, errors.New("boom") }
	_, err = ApplyTransforms([]Entry{Revisioned("x", "1")}, []Transform{boom})
	assert.ErrorIs(t, err, ErrTransformFailed)
}
