// Package sourcemap implements the one source-map operation the injection
// engine needs: replacing a literal substring of generated text while
// shifting every mapping positioned after the edit so the map stays valid.
// It is deliberately not a general-purpose source-map library.
package sourcemap

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for the sourcemap package
var (
	// ErrSearchNotFound indicates the search string does not occur in the text
	ErrSearchNotFound = errors.New("search string not found in text")

	// ErrInvalidVLQ indicates a mappings string that is not valid base64 VLQ
	ErrInvalidVLQ = errors.New("invalid VLQ in mappings")
)

// Map is a version 3 source map. Fields beyond the mappings are carried
// through edits untouched; sourcesContent uses pointers so nulls survive a
// decode/encode round trip.
type Map struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names,omitempty"`
	Mappings       string    `json:"mappings"`
}

// Parse decodes a version 3 source map from its JSON form.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing source map: %w", err)
	}
	if m.Version != 3 {
		return nil, fmt.Errorf("unsupported source map version %d", m.Version)
	}
	return &m, nil
}

// Encode renders the map back to JSON.
func (m *Map) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// segment is one decoded mapping segment with absolute positions. A segment
// always has a generated column; source and name references are optional.
type segment struct {
	genCol    int
	hasSource bool
	srcIndex  int
	srcLine   int
	srcCol    int
	hasName   bool
	nameIndex int
}

// decodeMappings expands the relative VLQ mappings string into absolute
// segments grouped by generated line.
func decodeMappings(s string) ([][]segment, error) {
	var lines [][]segment
	var srcIndex, srcLine, srcCol, nameIndex int

	start := 0
	for start <= len(s) {
		end := start
		for end < len(s) && s[end] != ';' {
			end++
		}
		line, err := decodeLine(s[start:end], &srcIndex, &srcLine, &srcCol, &nameIndex)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		if end == len(s) {
			break
		}
		start = end + 1
	}
	return lines, nil
}

// decodeLine decodes one semicolon-delimited line. The generated column
// resets per line; the source and name fields carry across lines.
func decodeLine(s string, srcIndex, srcLine, srcCol, nameIndex *int) ([]segment, error) {
	if s == "" {
		return nil, nil
	}
	var segs []segment
	genCol := 0

	pos := 0
	for pos < len(s) {
		fields := make([]int, 0, 5)
		for pos < len(s) && s[pos] != ',' {
			v, next, err := decodeVLQ(s, pos)
			if err != nil {
				return nil, err
			}
			fields = append(fields, v)
			pos = next
		}
		if pos < len(s) {
			pos++ // skip comma
		}

		switch len(fields) {
		case 1, 4, 5:
		default:
			return nil, fmt.Errorf("%w: segment has %d fields", ErrInvalidVLQ, len(fields))
		}

		genCol += fields[0]
		seg := segment{genCol: genCol}
		if len(fields) >= 4 {
			*srcIndex += fields[1]
			*srcLine += fields[2]
			*srcCol += fields[3]
			seg.hasSource = true
			seg.srcIndex = *srcIndex
			seg.srcLine = *srcLine
			seg.srcCol = *srcCol
		}
		if len(fields) == 5 {
			*nameIndex += fields[4]
			seg.hasName = true
			seg.nameIndex = *nameIndex
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// encodeMappings converts absolute segments back to the relative VLQ form.
func encodeMappings(lines [][]segment) string {
	var b []byte
	var srcIndex, srcLine, srcCol, nameIndex int

	for i, line := range lines {
		if i > 0 {
			b = append(b, ';')
		}
		genCol := 0
		for j, seg := range line {
			if j > 0 {
				b = append(b, ',')
			}
			b = encodeVLQ(b, seg.genCol-genCol)
			genCol = seg.genCol
			if seg.hasSource {
				b = encodeVLQ(b, seg.srcIndex-srcIndex)
				b = encodeVLQ(b, seg.srcLine-srcLine)
				b = encodeVLQ(b, seg.srcCol-srcCol)
				srcIndex = seg.srcIndex
				srcLine = seg.srcLine
				srcCol = seg.srcCol
			}
			if seg.hasName {
				b = encodeVLQ(b, seg.nameIndex-nameIndex)
				nameIndex = seg.nameIndex
			}
		}
	}
	return string(b)
}
