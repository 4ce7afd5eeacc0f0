package parser

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMarkdownIndexMatchesMarkdownCellAt(t *testing.T) {
	texts := []string{
		sampleNotebook,
		sampleNotebookNL,
		strayPrompt,
		extraFence,
		"\"\"\"\ntext\n",
		"\"\"\" #:md:\n\"\"\"\nx\n\"\"\" #:md:\n\"\"\" #:md:\n",
		"\"\"\"\r\n# x\r\n\"\"\" #:md:\r\n",
	}

	for _, text := range texts {
		doc := NewDocument(text)
		ix := newMarkdownIndex(doc)
		for pos := 0; pos <= doc.Len(); pos++ {
			want, wantOK := MarkdownCellAt(doc, pos)
			got, ok := ix.at(pos)
			if ok != wantOK {
				t.Fatalf("%q at %d: expected ok=%v, got %v", text, pos, wantOK, ok)
			}
			if diff := cmp.Diff(want, got); ok && diff != "" {
				t.Errorf("%q at %d mismatch (-want +got):\n%s", text, pos, diff)
			}
		}
	}
}

func TestMarkdownIndexNeighbours(t *testing.T) {
	doc := NewDocument(sampleNotebook)
	ix := newMarkdownIndex(doc)

	if _, ok := ix.endingBy(doc.LineStart(3)); ok {
		t.Errorf("expected no markdown cell closed above the close line")
	}
	if cell, ok := ix.endingBy(doc.LineStart(4)); !ok || cell != sampleMD {
		t.Errorf("expected markdown cell closed on line 4, got %v (ok=%v)", cell, ok)
	}
	if cell, ok := ix.startingAfter(0); !ok || cell != sampleMD {
		t.Errorf("expected markdown cell below the first line, got %v (ok=%v)", cell, ok)
	}
	if _, ok := ix.startingAfter(doc.LineStart(2)); ok {
		t.Errorf("expected no markdown cell opening below its own open line")
	}
}

// codeOnly builds a notebook of n code cells and no markdown
func codeOnly(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "# In[%d]\nx = %d\n", i, i)
	}
	return b.String()
}

func TestCellsCodeOnlyNotebook(t *testing.T) {
	doc := NewDocument(codeOnly(500))

	cells := slices.Collect(Cells(doc))
	if len(cells) != 500 {
		t.Fatalf("expected 500 cells, got %d", len(cells))
	}
	if cells[499].End != doc.Len() {
		t.Errorf("expected last cell to end at %d, got %d", doc.Len(), cells[499].End)
	}

	pos, ok := MoveCodeCell(doc, 0, 499)
	if !ok || pos != cells[499].Start+1 {
		t.Errorf("expected move to last prompt at %d, got %d (ok=%v)", cells[499].Start+1, pos, ok)
	}
}

func BenchmarkCellsCodeOnly(b *testing.B) {
	doc := NewDocument(codeOnly(2000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range Cells(doc) {
		}
	}
}
