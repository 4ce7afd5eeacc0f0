package parser

import "fmt"

// CellKind distinguishes markdown cells from code cells
type CellKind int

const (
	Markdown CellKind = iota
	Code
)

func (k CellKind) String() string {
	if k == Code {
		return "code"
	}
	return "markdown"
}

// Cell is a contiguous span of a notebook. Start is the offset of the cell's
// first marker line; End is the last offset that belongs to the cell.
type Cell struct {
	Kind  CellKind
	Start int
	End   int
	Label string // prompt label, Code only
}

// Contains reports whether pos lies inside the cell span
func (c Cell) Contains(pos int) bool {
	return pos >= c.Start && pos <= c.End
}

// Within reports whether the whole cell lies inside [start, end]
func (c Cell) Within(start, end int) bool {
	return c.Start >= start && c.End <= end
}

func (c Cell) String() string {
	if c.Kind == Code {
		return fmt.Sprintf("code[%s] %d-%d", c.Label, c.Start, c.End)
	}
	return fmt.Sprintf("markdown %d-%d", c.Start, c.End)
}

// MarkdownCellAt returns the markdown cell enclosing pos. The nearest opening
// fence at or above pos and the nearest closing fence at or below pos must not
// have another fence line between them.
func MarkdownCellAt(doc *Document, pos int) (Cell, bool) {
	open, ok := FindNthMarker(doc, pos, Kinds(MarkdownOpen), -1, nil)
	if !ok {
		return Cell{}, false
	}
	closing, ok := FindNthMarker(doc, pos, Kinds(MarkdownClose), 1, nil)
	if !ok {
		return Cell{}, false
	}

	// The closing fence itself is the nearest; the next one up must be the opener.
	if prev, ok := FindNthMarker(doc, closing.Start, fenceKinds, -2, nil); ok && prev.Start > open.Start {
		return Cell{}, false
	}

	return Cell{Kind: Markdown, Start: open.Start, End: closing.End}, true
}

// CodeCellAt returns the code cell enclosing pos. Positions inside markdown
// never belong to a code cell, and a prompt that precedes the end of the
// previous markdown cell does not start one.
//
// A code cell runs up to the line before the next prompt, or up to the
// character before the newline that precedes the next markdown cell, so that
// newline separates the two cells. The last cell of a document runs to the
// end of the document.
func CodeCellAt(doc *Document, pos int) (Cell, bool) {
	return codeCellAt(doc, pos, newMarkdownIndex(doc))
}

// CellAt returns the markdown or code cell enclosing pos
func CellAt(doc *Document, pos int) (Cell, bool) {
	return cellAt(doc, pos, newMarkdownIndex(doc))
}

func cellAt(doc *Document, pos int, ix *markdownIndex) (Cell, bool) {
	if cell, ok := ix.at(pos); ok {
		return cell, true
	}
	return codeCellAt(doc, pos, ix)
}

func codeCellAt(doc *Document, pos int, ix *markdownIndex) (Cell, bool) {
	if _, ok := ix.at(pos); ok {
		return Cell{}, false
	}

	prompt, ok := FindNthMarker(doc, pos, Kinds(CodePrompt), -1, nil)
	if !ok {
		return Cell{}, false
	}
	if prev, ok := ix.endingBy(pos); ok && prompt.Start < prev.End {
		return Cell{}, false
	}

	end := doc.Len()
	if below, ok := lineBelow(doc, pos); ok {
		if next, ok := FindNthMarker(doc, below, Kinds(CodePrompt), 1, nil); ok {
			end = min(end, next.Start-1)
		}
	}
	if next, ok := ix.startingAfter(pos); ok {
		end = min(end, next.Start-2)
	}
	if pos > end {
		// The newline in front of a markdown cell
		return Cell{}, false
	}

	return Cell{Kind: Code, Start: prompt.Start, End: end, Label: prompt.Label}, true
}
