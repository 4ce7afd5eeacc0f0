package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDocumentLines(t *testing.T) {
	doc := NewDocument(sampleNotebookNL)

	if got := doc.LineCount(); got != 8 {
		t.Errorf("expected 8 lines, got %d", got)
	}

	tests := []struct {
		pos  int
		line int
	}{
		{pos: 0, line: 0},
		{pos: 7, line: 0}, // newline belongs to the line it ends
		{pos: 8, line: 1},
		{pos: 70, line: 6},
		{pos: 71, line: 7},
		{pos: 500, line: 7},
		{pos: -3, line: 0},
	}
	for _, tt := range tests {
		if got := doc.LineAt(tt.pos); got != tt.line {
			t.Errorf("LineAt(%d): expected %d, got %d", tt.pos, tt.line, got)
		}
	}

	if got := doc.Line(3); got != "# Markdown" {
		t.Errorf("expected line 3 to be %q, got %q", "# Markdown", got)
	}
	if line, col := doc.Position(30); line != 3 || col != 3 {
		t.Errorf("expected position 3:3, got %d:%d", line, col)
	}
	if got := doc.Offset(3, 100); got != doc.LineEnd(3) {
		t.Errorf("expected column to clamp to line end %d, got %d", doc.LineEnd(3), got)
	}
}

func TestParsePosition(t *testing.T) {
	doc := NewDocument(sampleNotebookNL)

	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "2", want: 2},
		{in: " 27 ", want: 27},
		{in: "3:1", want: 23},
		{in: "3:", want: 23},
		{in: "4:3", want: 29},
		{in: "100:5", want: 71},
		{in: "9999", want: 71},
		{in: "0:1", wantErr: true},
		{in: "2:0", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "-1", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePosition(doc, tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrBadPosition) {
				t.Errorf("ParsePosition(%q): expected ErrBadPosition, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePosition(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePosition(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestBody(t *testing.T) {
	doc := NewDocument(sampleNotebook)

	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{name: "code", cell: firstCode, want: `print("hello")`},
		{name: "markdown", cell: sampleMD, want: "# Markdown"},
		{name: "last code", cell: secondCode, want: `print("world")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Body(doc, tt.cell); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	withNL := NewDocument(sampleNotebookNL)
	last, _ := CellAt(withNL, withNL.Len())
	if got := Body(withNL, last); got != `print("world")` {
		t.Errorf("expected trailing newline to be left out of the body, got %q", got)
	}

	bare := NewDocument("# In[1]")
	cell, ok := CellAt(bare, 0)
	if !ok {
		t.Fatalf("expected code cell in bare prompt document")
	}
	if got := Body(bare, cell); got != "" {
		t.Errorf("expected empty body, got %q", got)
	}

	unterminated := NewDocument("# In[1]\nx = 1")
	cell, _ = CellAt(unterminated, 9)
	if got := Body(unterminated, cell); got != "x = 1" {
		t.Errorf("expected body without trailing newline to keep its last byte, got %q", got)
	}
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("a.py", sampleNotebook)
	write("sub/b.PY", strayPrompt)
	write("notes.txt", sampleNotebook)
	write(".hidden/c.py", sampleNotebook)

	index, err := NewParser().ParseDirectory(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(index.Notebooks) != 2 {
		t.Fatalf("expected 2 notebooks, got %d", len(index.Notebooks))
	}

	nb, ok := index.ByPath[filepath.Join(dir, "a.py")]
	if !ok {
		t.Fatalf("expected a.py in index")
	}
	if code, md := nb.Counts(); code != 2 || md != 1 {
		t.Errorf("expected 2 code and 1 markdown cells, got %d and %d", code, md)
	}

	nb = index.ByPath[filepath.Join(dir, "sub", "b.PY")]
	if nb == nil {
		t.Fatalf("expected sub/b.PY in index")
	}
	if code, md := nb.Counts(); code != 1 || md != 1 {
		t.Errorf("expected 1 code and 1 markdown cell, got %d and %d", code, md)
	}
}

func TestParseSingleFileMissing(t *testing.T) {
	_, err := NewParser().ParseSingleFile(filepath.Join(t.TempDir(), "missing.py"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestNewParserNormalizesExtensions(t *testing.T) {
	p := NewParser("ipy", ".PY")
	if !p.accepts("x.ipy") || !p.accepts("y.py") {
		t.Errorf("expected both extensions to be accepted: %v", p.extensions)
	}
	if p.accepts("z.md") {
		t.Errorf("expected .md to be rejected")
	}
}
