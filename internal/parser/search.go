package parser

// BoundaryMatch is one marker line found by a directional search
type BoundaryMatch struct {
	Kind  MarkerKind
	Line  int    // 0-based line index
	Start int    // offset of the marker line
	End   int    // offset immediately after the marker line text
	Label string // prompt label, CodePrompt only
}

// Predicate decides whether a marker occurrence counts toward a search
type Predicate func(BoundaryMatch) bool

// FindNthMarker scans marker lines of the given kinds starting at the line
// containing from. A positive count scans downward, a negative count upward.
// Only occurrences accepted by pred (nil accepts all) are counted; the |count|-th
// accepted occurrence is returned. It reports false when the document edge is
// reached first or count is zero.
func FindNthMarker(doc *Document, from int, kinds KindSet, count int, pred Predicate) (BoundaryMatch, bool) {
	if count == 0 {
		return BoundaryMatch{}, false
	}

	step := 1
	if count < 0 {
		step, count = -1, -count
	}

	for line := doc.LineAt(from); line >= 0 && line < doc.LineCount(); line += step {
		kind, label := doc.marker(line)
		if !kinds.Has(kind) {
			continue
		}
		m := BoundaryMatch{
			Kind:  kind,
			Line:  line,
			Start: doc.LineStart(line),
			End:   doc.LineEnd(line),
			Label: label,
		}
		if pred != nil && !pred(m) {
			continue
		}
		if count--; count == 0 {
			return m, true
		}
	}
	return BoundaryMatch{}, false
}

// lineAbove returns the start of the line above the one containing pos
func lineAbove(doc *Document, pos int) (int, bool) {
	line := doc.LineAt(pos)
	if line == 0 {
		return 0, false
	}
	return doc.LineStart(line - 1), true
}

// lineBelow returns the start of the line below the one containing pos
func lineBelow(doc *Document, pos int) (int, bool) {
	line := doc.LineAt(pos)
	if line+1 >= doc.LineCount() {
		return 0, false
	}
	return doc.LineStart(line + 1), true
}

// closesMarkdownCell accepts a MarkdownClose that terminates a well-formed cell
func closesMarkdownCell(ix *markdownIndex) Predicate {
	return func(m BoundaryMatch) bool {
		_, ok := ix.at(m.Start)
		return ok
	}
}

// outsideMarkdown accepts occurrences that are not part of any markdown cell
func outsideMarkdown(ix *markdownIndex) Predicate {
	return func(m BoundaryMatch) bool {
		_, ok := ix.at(m.Start)
		return !ok
	}
}
