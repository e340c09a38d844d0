package sourcemap

import (
	"fmt"
	"strings"
)

// SpliceResult is the outcome of a text substitution: the new text, plus the
// remapped source map when the input carried one.
type SpliceResult struct {
	Text string
	Map  *Map
}

// Splice replaces the first occurrence of search in text with replacement.
// When m is non-nil, a copy of m is returned whose mappings are rewritten so
// that every generated position after the edit is shifted by the exact line
// and column delta the edit introduced. Positions before the edit are left
// untouched; mappings inside the replaced span are dropped, since the span no
// longer corresponds to any original source.
//
// Positions are counted in bytes. The caller is responsible for guaranteeing
// that search occurs where it expects (the locator validates exactly-once
// occurrence before this runs); Splice itself only requires at least one
// occurrence.
func Splice(text, search, replacement string, m *Map) (*SpliceResult, error) {
	idx := strings.Index(text, search)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSearchNotFound, search)
	}

	out := &SpliceResult{
		Text: text[:idx] + replacement + text[idx+len(search):],
	}
	if m == nil {
		return out, nil
	}

	// Line and column of the edit, without assuming the search string
	// occupies its own line.
	startLine := strings.Count(text[:idx], "\n")
	startCol := idx - strings.LastIndexByte(text[:idx], '\n') - 1

	endLine, endCol := spanEnd(startLine, startCol, search)
	newEndLine, newEndCol := spanEnd(startLine, startCol, replacement)
	deltaLines := newEndLine - endLine

	lines, err := decodeMappings(m.Mappings)
	if err != nil {
		return nil, err
	}

	// Capacity ignores deltaLines: a shrinking edit may remove more lines
	// than the sparse mappings string even contains.
	shifted := make([][]segment, 0, len(lines))
	for line, segs := range lines {
		for _, seg := range segs {
			switch {
			case line < startLine || (line == startLine && seg.genCol < startCol):
				shifted = placeSegment(shifted, line, seg)
			case line < endLine || (line == endLine && seg.genCol < endCol):
				// inside the replaced span: dropped
			default:
				moved := seg
				if line == endLine {
					moved.genCol = newEndCol + (seg.genCol - endCol)
				}
				shifted = placeSegment(shifted, line+deltaLines, moved)
			}
		}
	}

	remapped := *m
	remapped.Mappings = encodeMappings(shifted)
	out.Map = &remapped
	return out, nil
}

// spanEnd returns the line and column just past a span of content beginning
// at (line, col).
func spanEnd(line, col int, content string) (int, int) {
	n := strings.Count(content, "\n")
	if n == 0 {
		return line, col + len(content)
	}
	return line + n, len(content) - strings.LastIndexByte(content, '\n') - 1
}

// placeSegment appends seg to the given line, growing the line slice as
// needed. Segments arrive in generated order, so per-line ordering holds.
func placeSegment(lines [][]segment, line int, seg segment) [][]segment {
	for len(lines) <= line {
		lines = append(lines, nil)
	}
	lines[line] = append(lines[line], seg)
	return lines
}
