package parser

import "sort"

// markdownIndex lists the well-formed markdown cells of one document snapshot.
// It is built on first use and shared by every lookup of a single query, so
// membership tests made while scanning do not each re-scan the document.
type markdownIndex struct {
	doc   *Document
	cells []Cell
	built bool
}

func newMarkdownIndex(doc *Document) *markdownIndex {
	return &markdownIndex{doc: doc}
}

// build pairs each MarkdownOpen with a directly following MarkdownClose.
// A close preceded by another close, or an open followed by another open,
// forms no cell.
func (ix *markdownIndex) build() {
	if ix.built {
		return
	}
	ix.built = true

	prev, prevKind := -1, MarkerNone
	for i := 0; i < ix.doc.LineCount(); i++ {
		kind, _ := ix.doc.marker(i)
		if !fenceKinds.Has(kind) {
			continue
		}
		if kind == MarkdownClose && prevKind == MarkdownOpen {
			ix.cells = append(ix.cells, Cell{
				Kind:  Markdown,
				Start: ix.doc.LineStart(prev),
				End:   ix.doc.LineEnd(i),
			})
		}
		prev, prevKind = i, kind
	}
}

// at returns the markdown cell containing pos
func (ix *markdownIndex) at(pos int) (Cell, bool) {
	ix.build()
	i := sort.Search(len(ix.cells), func(i int) bool { return ix.cells[i].End >= pos })
	if i < len(ix.cells) && ix.cells[i].Start <= pos {
		return ix.cells[i], true
	}
	return Cell{}, false
}

// endingBy returns the last markdown cell whose close line is at or above
// the line containing pos
func (ix *markdownIndex) endingBy(pos int) (Cell, bool) {
	ix.build()
	limit := ix.doc.LineEnd(ix.doc.LineAt(pos))
	i := sort.Search(len(ix.cells), func(i int) bool { return ix.cells[i].End > limit })
	if i == 0 {
		return Cell{}, false
	}
	return ix.cells[i-1], true
}

// startingAfter returns the first markdown cell opening below the line
// containing pos
func (ix *markdownIndex) startingAfter(pos int) (Cell, bool) {
	ix.build()
	limit := ix.doc.LineEnd(ix.doc.LineAt(pos))
	i := sort.Search(len(ix.cells), func(i int) bool { return ix.cells[i].Start > limit })
	if i < len(ix.cells) {
		return ix.cells[i], true
	}
	return Cell{}, false
}
