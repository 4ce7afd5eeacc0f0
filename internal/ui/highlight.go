package ui

import "github.com/gubarz/cellmd/internal/parser"

// highlightClass is the visual class a highlighted cell is drawn with
type highlightClass string

const (
	classNone     highlightClass = ""
	classCode     highlightClass = "code-cell"
	classMarkdown highlightClass = "markdown-cell"
)

// Highlight is the cell highlight owned by the view: either nothing, or the
// span of one cell together with the class chosen from its kind.
// The zero value is "no highlight".
type Highlight struct {
	cell   parser.Cell
	class  highlightClass
	active bool
}

// RefreshHighlight re-evaluates the highlight after a cursor movement.
// It clears when pos is not inside a cell or a text selection is active.
func RefreshHighlight(doc *parser.Document, pos int, selecting bool) Highlight {
	if doc == nil || selecting {
		return Highlight{}
	}
	cell, ok := parser.CellAt(doc, pos)
	if !ok {
		return Highlight{}
	}

	class := classCode
	if cell.Kind == parser.Markdown {
		class = classMarkdown
	}
	return Highlight{cell: cell, class: class, active: true}
}

// Active reports whether a cell is highlighted
func (h Highlight) Active() bool { return h.active }

// Cell returns the highlighted cell
func (h Highlight) Cell() (parser.Cell, bool) { return h.cell, h.active }

// Span returns the highlighted region; it is empty when nothing is highlighted
func (h Highlight) Span() (start, end int) {
	if !h.active {
		return 0, 0
	}
	return h.cell.Start, h.cell.End
}

// Class returns the visual class of the highlight
func (h Highlight) Class() highlightClass { return h.class }

// covers reports whether the highlight includes offset pos
func (h Highlight) covers(pos int) bool {
	return h.active && h.cell.Contains(pos)
}
