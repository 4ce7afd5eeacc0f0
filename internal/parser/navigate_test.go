package parser

import "testing"

func TestMoveCell(t *testing.T) {
	doc := NewDocument(sampleNotebook)

	tests := []struct {
		name   string
		pos    int
		count  int
		want   int
		wantOK bool
	}{
		{name: "code into markdown body", pos: 8, count: 1, want: 27, wantOK: true},
		{name: "markdown into next code", pos: 27, count: 1, want: 49, wantOK: true},
		{name: "two forward", pos: 0, count: 2, want: 49, wantOK: true},
		{name: "past last cell", pos: 49, count: 1, wantOK: false},
		{name: "too many forward", pos: 0, count: 3, wantOK: false},
		{name: "code back into markdown", pos: 49, count: -1, want: 27, wantOK: true},
		{name: "markdown back into code", pos: 27, count: -1, want: 8, wantOK: true},
		{name: "two back", pos: 60, count: -2, want: 8, wantOK: true},
		{name: "before first cell", pos: 8, count: -1, wantOK: false},
		{name: "zero count", pos: 8, count: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MoveCell(doc, tt.pos, tt.count)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v (pos %d)", tt.wantOK, ok, got)
			}
			if ok && got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMoveMarkdownCell(t *testing.T) {
	doc := NewDocument(sampleNotebook)

	tests := []struct {
		name   string
		pos    int
		count  int
		want   int
		wantOK bool
	}{
		{name: "forward from code", pos: 0, count: 1, want: 27, wantOK: true},
		{name: "forward skips current cell", pos: 27, count: 1, wantOK: false},
		{name: "forward from close line skips current cell", pos: 40, count: 1, wantOK: false},
		{name: "backward from later code", pos: 60, count: -1, want: 27, wantOK: true},
		{name: "backward from close line skips current cell", pos: 40, count: -1, wantOK: false},
		{name: "backward from first line", pos: 3, count: -1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MoveMarkdownCell(doc, tt.pos, tt.count)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v (pos %d)", tt.wantOK, ok, got)
			}
			if ok && got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMoveCodeCell(t *testing.T) {
	doc := NewDocument(sampleNotebook)

	tests := []struct {
		name   string
		pos    int
		count  int
		want   int
		wantOK bool
	}{
		{name: "forward from prompt line", pos: 1, count: 1, want: 49, wantOK: true},
		{name: "forward from markdown", pos: 27, count: 1, want: 49, wantOK: true},
		{name: "backward skips current cell", pos: 60, count: -1, want: 8, wantOK: true},
		{name: "backward from prompt start", pos: 48, count: -1, want: 8, wantOK: true},
		{name: "backward from markdown", pos: 27, count: -1, want: 8, wantOK: true},
		{name: "backward from first cell", pos: 10, count: -1, wantOK: false},
		{name: "forward from last cell", pos: 60, count: 1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MoveCodeCell(doc, tt.pos, tt.count)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v (pos %d)", tt.wantOK, ok, got)
			}
			if ok && got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMoveCodeCellIgnoresPromptInMarkdown(t *testing.T) {
	doc := NewDocument(strayPrompt)

	if pos, ok := MoveCodeCell(doc, 0, 1); ok {
		t.Errorf("expected no code cell after the first, got %d", pos)
	}
	if pos, ok := MoveCell(doc, 8, 1); !ok || pos != 18 {
		t.Errorf("expected move into markdown body at 18, got %d (ok=%v)", pos, ok)
	}
}

func TestMoveCellRoundTrip(t *testing.T) {
	doc := NewDocument(sampleNotebook)

	for _, n := range []int{1, 2} {
		for pos := 0; pos <= doc.Len(); pos++ {
			origin, ok := CellAt(doc, pos)
			if !ok {
				continue
			}
			fwd, ok := MoveCell(doc, pos, n)
			if !ok {
				continue
			}
			back, ok := MoveCell(doc, fwd, -n)
			if !ok {
				continue
			}
			cell, ok := CellAt(doc, back)
			if !ok || cell != origin {
				t.Errorf("n=%d pos=%d: forward to %d, back to %d in %v; expected inside %v", n, pos, fwd, back, cell, origin)
			}
		}
	}
}

func TestClosest(t *testing.T) {
	cell := Cell{Kind: Code, Start: 10, End: 20}

	tests := []struct {
		pos  int
		want Direction
	}{
		{pos: 10, want: Backward},
		{pos: 14, want: Backward},
		{pos: 15, want: Backward},
		{pos: 16, want: Forward},
		{pos: 20, want: Forward},
	}

	for _, tt := range tests {
		if got := cell.Closest(tt.pos); got != tt.want {
			t.Errorf("Closest(%d): expected %v, got %v", tt.pos, tt.want, got)
		}
	}
}

func TestClosestBoundary(t *testing.T) {
	doc := NewDocument(sampleNotebook)

	if got := ClosestBoundary(doc, 5); got != Backward {
		t.Errorf("expected backward near cell start, got %v", got)
	}
	if got := ClosestBoundary(doc, 20); got != Forward {
		t.Errorf("expected forward near cell end, got %v", got)
	}
	if got := ClosestBoundary(doc, doc.LineEnd(1)); got != None {
		t.Errorf("expected none outside cells, got %v", got)
	}
}

func TestSnapToBoundary(t *testing.T) {
	doc := NewDocument(sampleNotebook)

	tests := []struct {
		name string
		pos  int
		mode Direction
		want int
	}{
		{name: "forward out of code", pos: 8, mode: Forward, want: 22},
		{name: "backward clamps to document start", pos: 8, mode: Backward, want: 0},
		{name: "closest in markdown", pos: 30, mode: None, want: 22},
		{name: "closest near end", pos: 45, mode: None, want: 48},
		{name: "forward clamps to document end", pos: 60, mode: Forward, want: doc.Len()},
		{name: "outside any cell", pos: 22, mode: Backward, want: 22},
		{name: "outside any cell forward", pos: 22, mode: Forward, want: 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SnapToBoundary(doc, tt.pos, tt.mode); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSnapToBoundaryIdempotent(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  int
		mode Direction
		want int
	}{
		{name: "code forward to markdown", text: sampleNotebook, pos: 8, mode: Forward, want: 22},
		{name: "markdown backward to code", text: sampleNotebook, pos: 30, mode: Backward, want: 22},
		{name: "markdown forward past stray prompt", text: strayPrompt, pos: 20, mode: Forward, want: 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument(tt.text)
			once := SnapToBoundary(doc, tt.pos, tt.mode)
			if once != tt.want {
				t.Fatalf("expected first snap to %d, got %d", tt.want, once)
			}
			if twice := SnapToBoundary(doc, once, tt.mode); twice != once {
				t.Errorf("expected second snap to stay at %d, got %d", once, twice)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "", want: None},
		{in: "auto", want: None},
		{in: "Forward", want: Forward},
		{in: "backward", want: Backward},
		{in: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q): unexpected error state %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
