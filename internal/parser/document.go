package parser

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrBadPosition is returned when a position argument cannot be parsed
var ErrBadPosition = errors.New("bad position")

// Document is a read-only snapshot of a notebook's text addressed by byte offset.
// Line starts are indexed once at construction; markers are classified lazily
// while scanning so queries only pay for the lines they visit.
type Document struct {
	text   string
	starts []int
}

// NewDocument indexes the line starts of text
func NewDocument(text string) *Document {
	starts := make([]int, 1, strings.Count(text, "\n")+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Document{text: text, starts: starts}
}

// Text returns the full document text
func (d *Document) Text() string { return d.text }

// Len returns the document length in bytes
func (d *Document) Len() int { return len(d.text) }

// LineCount returns the number of lines, counting a trailing empty line
func (d *Document) LineCount() int { return len(d.starts) }

// LineAt returns the index of the line containing pos.
// A newline belongs to the line it terminates.
func (d *Document) LineAt(pos int) int {
	pos = d.clamp(pos)
	return sort.Search(len(d.starts), func(i int) bool { return d.starts[i] > pos }) - 1
}

// LineStart returns the offset of the first byte of line i
func (d *Document) LineStart(i int) int {
	return d.starts[i]
}

// LineEnd returns the offset just past the last byte of line i, excluding its newline
func (d *Document) LineEnd(i int) int {
	if i+1 < len(d.starts) {
		return d.starts[i+1] - 1
	}
	return len(d.text)
}

// Line returns the text of line i without its newline
func (d *Document) Line(i int) string {
	return d.text[d.LineStart(i):d.LineEnd(i)]
}

// Slice returns the text in [start, end), clamped to the document
func (d *Document) Slice(start, end int) string {
	start, end = d.clamp(start), d.clamp(end)
	if end < start {
		return ""
	}
	return d.text[start:end]
}

// Position converts an offset to a 0-based line and byte column
func (d *Document) Position(pos int) (line, col int) {
	pos = d.clamp(pos)
	line = d.LineAt(pos)
	return line, pos - d.starts[line]
}

// Offset converts a 0-based line and byte column to an offset, clamping both
func (d *Document) Offset(line, col int) int {
	line = clamp(line, 0, len(d.starts)-1)
	start := d.starts[line]
	return clamp(start+col, start, d.LineEnd(line))
}

// marker classifies line i
func (d *Document) marker(i int) (MarkerKind, string) {
	return ClassifyLine(d.Line(i))
}

func (d *Document) clamp(pos int) int {
	return clamp(pos, 0, len(d.text))
}

// ParsePosition parses a position argument: either a byte offset ("42") or a
// 1-based line and column ("3:1"). The result is clamped to the document.
func ParsePosition(doc *Document, s string) (int, error) {
	s = strings.TrimSpace(s)
	if lineStr, colStr, found := strings.Cut(s, ":"); found {
		line, err := strconv.Atoi(lineStr)
		if err != nil || line < 1 {
			return 0, fmt.Errorf("%w: line %q", ErrBadPosition, lineStr)
		}
		col := 1
		if colStr != "" {
			col, err = strconv.Atoi(colStr)
			if err != nil || col < 1 {
				return 0, fmt.Errorf("%w: column %q", ErrBadPosition, colStr)
			}
		}
		return doc.Offset(line-1, col-1), nil
	}

	pos, err := strconv.Atoi(s)
	if err != nil || pos < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadPosition, s)
	}
	return doc.clamp(pos), nil
}

// clamp restricts v to the range [minV, maxV]
func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
