package parser

import "iter"

// CellsInRange yields, in document order, every cell lying wholly inside
// [start, end]. Enumeration stops at the first cell reaching end, or when no
// further cell exists. Each iteration re-scans the document from start.
func CellsInRange(doc *Document, start, end int) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		ix := newMarkdownIndex(doc)
		pos := start
		for pos <= doc.Len() {
			cell, ok := cellAt(doc, pos, ix)
			if !ok {
				next, ok := moveCell(doc, pos, 1, ix)
				if !ok || next <= pos {
					return
				}
				pos = next
				continue
			}

			if cell.End >= end {
				return
			}
			if cell.Within(start, end) && !yield(cell) {
				return
			}
			pos = cell.End + 1
		}
	}
}

// Cells yields every cell of the document
func Cells(doc *Document) iter.Seq[Cell] {
	return CellsInRange(doc, 0, doc.Len()+1)
}
