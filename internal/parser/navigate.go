package parser

import (
	"fmt"
	"strings"
)

// Direction names a side of a cell
type Direction int

const (
	None Direction = iota
	Forward
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "none"
	}
}

// ParseDirection parses "forward", "backward" or "auto" (also "" and "none")
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "none":
		return None, nil
	case "forward", "f", "next":
		return Forward, nil
	case "backward", "b", "prev":
		return Backward, nil
	default:
		return None, fmt.Errorf("unknown direction: %s (supported: auto, forward, backward)", s)
	}
}

// MoveMarkdownCell moves count markdown cells from pos and returns the offset
// just inside the body of the target cell. Moving forward from inside a
// markdown cell does not count the current cell.
func MoveMarkdownCell(doc *Document, pos, count int) (int, bool) {
	return moveMarkdownCell(doc, pos, count, newMarkdownIndex(doc))
}

// MoveCodeCell moves count code cells from pos. Forward moves land one byte
// into the target prompt line; backward moves land at the start of the line
// after the prompt. Moving backward from inside a code cell does not count
// the current cell. Prompts inside markdown cells are ignored.
func MoveCodeCell(doc *Document, pos, count int) (int, bool) {
	return moveCodeCell(doc, pos, count, newMarkdownIndex(doc))
}

// MoveCell moves |count| cells of either kind. Each step takes whichever of
// the markdown and code targets is nearer in the direction of travel.
// The whole move fails if any step fails.
func MoveCell(doc *Document, pos, count int) (int, bool) {
	return moveCell(doc, pos, count, newMarkdownIndex(doc))
}

func moveMarkdownCell(doc *Document, pos, count int, ix *markdownIndex) (int, bool) {
	from := pos
	switch {
	case count > 0:
		if _, ok := ix.at(pos); ok {
			count++
		}
	case count < 0:
		var ok bool
		if from, ok = lineAbove(doc, pos); !ok {
			return 0, false
		}
	}

	m, ok := FindNthMarker(doc, from, Kinds(MarkdownClose), count, closesMarkdownCell(ix))
	if !ok {
		return 0, false
	}
	cell, _ := ix.at(m.Start)
	return min(cell.Start+bodyOffset, doc.Len()), true
}

func moveCodeCell(doc *Document, pos, count int, ix *markdownIndex) (int, bool) {
	from := pos
	switch {
	case count > 0:
		var ok bool
		if from, ok = lineBelow(doc, pos); !ok {
			return 0, false
		}
	case count < 0:
		if _, ok := codeCellAt(doc, pos, ix); ok {
			count--
		}
	}

	m, ok := FindNthMarker(doc, from, Kinds(CodePrompt), count, outsideMarkdown(ix))
	if !ok {
		return 0, false
	}
	if count > 0 {
		return m.Start + 1, true
	}
	return min(m.End+1, doc.Len()), true
}

func moveCell(doc *Document, pos, count int, ix *markdownIndex) (int, bool) {
	if count == 0 {
		return 0, false
	}

	step, n := 1, count
	if count < 0 {
		step, n = -1, -count
	}

	for i := 0; i < n; i++ {
		md, mdOK := moveMarkdownCell(doc, pos, step, ix)
		code, codeOK := moveCodeCell(doc, pos, step, ix)

		switch {
		case mdOK && codeOK:
			if step > 0 {
				pos = min(md, code)
			} else {
				pos = max(md, code)
			}
		case mdOK:
			pos = md
		case codeOK:
			pos = code
		default:
			return 0, false
		}
	}
	return pos, true
}

// Closest returns the side of the cell nearer to pos; ties go backward
func (c Cell) Closest(pos int) Direction {
	if pos-c.Start > c.End-pos {
		return Forward
	}
	return Backward
}

// ClosestBoundary returns the nearer side of the cell enclosing pos, or None
// when pos is not inside a cell
func ClosestBoundary(doc *Document, pos int) Direction {
	cell, ok := CellAt(doc, pos)
	if !ok {
		return None
	}
	return cell.Closest(pos)
}

// SnapToBoundary moves pos just outside the enclosing cell on the side given
// by mode, or on the nearer side when mode is None. A position that is not
// inside any cell is returned unchanged whatever the mode.
func SnapToBoundary(doc *Document, pos int, mode Direction) int {
	cell, ok := CellAt(doc, pos)
	if !ok {
		return pos
	}
	if mode == None {
		mode = cell.Closest(pos)
	}

	switch mode {
	case Forward:
		return min(doc.Len(), cell.End+1)
	case Backward:
		return max(0, cell.Start-1)
	}
	return pos
}
