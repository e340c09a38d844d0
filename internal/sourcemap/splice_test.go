package sourcemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSplice_NoMap tests the plain text substitution path
func TestSplice_NoMap(t *testing.T) {
	text := "precache(self.__WB_MANIFEST);"
	replacement := `[{'revision':'123','url':'a.js'}]`

	res, err := Splice(text, "self.__WB_MANIFEST", replacement, nil)
	require.NoError(t, err)

	assert.Nil(t, res.Map)
	assert.Equal(t, "precache("+replacement+");", res.Text)

	// Length invariant: len(result) = len(text) - len(search) + len(replacement)
	assert.Equal(t, len(text)-len("self.__WB_MANIFEST")+len(replacement), len(res.Text))

	// The replacement sits exactly where the marker started
	assert.Equal(t, strings.Index(text, "self.__WB_MANIFEST"), strings.Index(res.Text, replacement))
}

// TestSplice_SearchNotFound tests the missing-search error
func TestSplice_SearchNotFound(t *testing.T) {
	_, err := Splice("no marker here", "self.__WB_MANIFEST", "x", nil)
	assert.ErrorIs(t, err, ErrSearchNotFound)
}

// TestSplice_SameLineShift tests column shifting for a single-line edit
func TestSplice_SameLineShift(t *testing.T) {
	// Generated line 1 (0-based): "precache(MARKER);" with MARKER at col 9.
	// Segments: col 0 (kept), col 9 (inside span, dropped), col 27 (shifted).
	text := "// banner\nprecache(MARKER456789012345678);"
	marker := "MARKER456789012345678" // 21 chars, cols 9..29
	replacement := "[1,2,3]"           // 7 chars

	m := &Map{
		Version:  3,
		Sources:  []string{"sw.src.js"},
		Mappings: "AAAA;AACA," + vlq(9) + "AAA," + vlq(21) + "AAA",
	}

	res, err := Splice(text, marker, replacement, m)
	require.NoError(t, err)
	require.NotNil(t, res.Map)

	lines, err := decodeMappings(res.Map.Mappings)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// Line 0 untouched
	require.Len(t, lines[0], 1)
	assert.Equal(t, 0, lines[0][0].genCol)

	// Line 1: marker segment dropped, trailing segment shifted left by
	// len(marker) - len(replacement) = 14 columns: 30 - 14 = 16.
	require.Len(t, lines[1], 2)
	assert.Equal(t, 0, lines[1][0].genCol)
	assert.Equal(t, 16, lines[1][1].genCol)
}

// TestSplice_MultiLineShift tests line shifting when the replacement spans
// more lines than the search string
func TestSplice_MultiLineShift(t *testing.T) {
	text := "a();\nuse(MARK);\ndone();"
	replacement := "[1,\n2,\n3]" // adds two lines

	m := &Map{
		Version:  3,
		Sources:  []string{"sw.src.js"},
		Mappings: "AAAA;AACA;AACA", // one segment at col 0 of each line
	}

	res, err := Splice(text, "MARK", replacement, m)
	require.NoError(t, err)

	assert.Equal(t, "a();\nuse([1,\n2,\n3]);\ndone();", res.Text)

	lines, err := decodeMappings(res.Map.Mappings)
	require.NoError(t, err)
	require.Len(t, lines, 5)

	// Lines before and on the insertion line keep their positions
	require.Len(t, lines[0], 1)
	require.Len(t, lines[1], 1)
	// Lines strictly after the insertion shift down by exactly two lines
	assert.Empty(t, lines[2])
	assert.Empty(t, lines[3])
	require.Len(t, lines[4], 1)
	assert.Equal(t, 2, lines[4][0].srcLine, "shifted mapping keeps its source position")
}

// TestSplice_ShrinkingEdit tests a replacement that removes more lines than
// the sparse mappings string contains
func TestSplice_ShrinkingEdit(t *testing.T) {
	text := "MA\nR\nK; b();"
	m := &Map{
		Version:  3,
		Sources:  []string{"sw.src.js"},
		Mappings: "AAAA", // one line, edit spans three
	}

	res, err := Splice(text, "MA\nR\nK", "X", m)
	require.NoError(t, err)

	assert.Equal(t, "X; b();", res.Text)

	// The only mapping sat inside the replaced span, so nothing survives.
	lines, err := decodeMappings(res.Map.Mappings)
	require.NoError(t, err)
	for _, segs := range lines {
		assert.Empty(t, segs)
	}
}

// TestSplice_PreservesMapFields tests that non-mapping fields carry through
func TestSplice_PreservesMapFields(t *testing.T) {
	content := "self.__WB_MANIFEST"
	m := &Map{
		Version:        3,
		File:           "sw.js",
		SourceRoot:     "/src",
		Sources:        []string{"sw.src.js"},
		SourcesContent: []*string{&content},
		Names:          []string{"precache"},
		Mappings:       "AAAA",
	}

	res, err := Splice("self.__WB_MANIFEST", "self.__WB_MANIFEST", "[]", m)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Map.Version)
	assert.Equal(t, "/src", res.Map.SourceRoot)
	assert.Equal(t, []string{"sw.src.js"}, res.Map.Sources)
	assert.Equal(t, []string{"precache"}, res.Map.Names)

	// Input map untouched
	assert.Equal(t, "AAAA", m.Mappings)
}

// TestParse tests source map decoding and version validation
func TestParse(t *testing.T) {
	m, err := Parse([]byte(`{"version":3,"sources":["a.js"],"mappings":"AAAA"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js"}, m.Sources)

	_, err = Parse([]byte(`{"version":2,"mappings":""}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

// vlq encodes one value for building test mappings
func vlq(v int) string {
	return string(encodeVLQ(nil, v))
}
