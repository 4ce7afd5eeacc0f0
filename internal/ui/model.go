package ui

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/cellmd/internal/config"
	"github.com/gubarz/cellmd/internal/executor"
	"github.com/gubarz/cellmd/internal/parser"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Messages
// ============================================================================

// runResultMsg carries interpreter output for one or more cells
type runResultMsg struct {
	label  string
	output string
	err    error
}

// editorDoneMsg is sent when the external editor exits
type editorDoneMsg struct {
	err error
}

// ============================================================================
// Notebook Model
// ============================================================================

const maxOutputHeight = 8

// notebookModel is the Bubble Tea model for browsing one notebook.
// It owns the only cached Document; every query re-scans that snapshot.
type notebookModel struct {
	width    int
	height   int
	quitting bool

	path string
	doc  *parser.Document

	cursor    int
	offset    int // first visible line
	count     int // pending count prefix, 0 when none
	anchor    int
	selecting bool

	highlight   Highlight
	highlightOn bool

	prompting bool
	gotoInput textinput.Model

	output     viewport.Model
	showOutput bool

	status    string
	statusErr bool

	executor *executor.Executor
	runner   executor.Runner
	watcher  *fileWatcher
}

// newNotebookModel creates a model with the cursor at the start of the notebook
func newNotebookModel(path string, doc *parser.Document, exec *executor.Executor) notebookModel {
	ti := textinput.New()
	ti.Placeholder = "offset or line:col"
	ti.Prompt = ": "
	ti.CharLimit = 32
	ti.Width = 30

	m := notebookModel{
		path:        path,
		doc:         doc,
		gotoInput:   ti,
		output:      viewport.New(80, maxOutputHeight),
		highlightOn: config.GetHighlight(),
		executor:    exec,
		runner:      exec,
	}
	m.setCursor(0)
	return m
}

// Init implements tea.Model
func (m notebookModel) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.next()
	}
	return nil
}

// Update implements tea.Model
func (m notebookModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.output.Width = msg.Width
		m.output.Height = m.outputHeight()
		m.adjustOffset()
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.prompting {
			cmd = m.handleGotoKey(msg)
		} else {
			cmd = m.handleKey(msg)
		}
		return m, cmd

	case reloadMsg:
		m.replaceDocument(msg.doc)
		m.setStatus("reloaded", false)
		if m.watcher != nil {
			return m, m.watcher.next()
		}
		return m, nil

	case watchErrMsg:
		log.Printf("watch error: %v", msg.err)
		m.setStatus(fmt.Sprintf("watch: %v", msg.err), true)
		if m.watcher != nil {
			return m, m.watcher.next()
		}
		return m, nil

	case runResultMsg:
		if msg.err != nil {
			m.output.SetContent(msg.err.Error())
			m.setStatus(fmt.Sprintf("%s failed", msg.label), true)
		} else {
			m.output.SetContent(msg.output)
			m.setStatus(fmt.Sprintf("%s done", msg.label), false)
		}
		m.output.GotoTop()
		m.showOutput = true
		m.output.Height = m.outputHeight()
		return m, nil

	case editorDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("editor: %v", msg.err), true)
			return m, nil
		}
		if m.watcher == nil {
			if doc, err := parser.LoadDocument(m.path); err == nil {
				m.replaceDocument(doc)
			}
		}
		return m, nil
	}
	return m, nil
}

// handleKey processes keyboard input while browsing
func (m *notebookModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && (key != "0" || m.count > 0) {
		m.count = min(m.count*10+int(key[0]-'0'), 9999)
		return nil
	}
	n := m.takeCount()

	switch key {
	case "ctrl+c", "q", "esc":
		if key == "esc" && m.selecting {
			m.selecting = false
			m.refresh()
			return nil
		}
		m.quitting = true
		return tea.Quit

	// Plain motion
	case "j", "down":
		m.moveLines(n)
	case "k", "up":
		m.moveLines(-n)
	case "l", "right":
		m.moveRunes(n)
	case "h", "left":
		m.moveRunes(-n)
	case "0", "home":
		m.setCursor(m.doc.LineStart(m.doc.LineAt(m.cursor)))
	case "$", "end":
		m.setCursor(m.doc.LineEnd(m.doc.LineAt(m.cursor)))
	case "g":
		m.setCursor(0)
	case "G":
		m.setCursor(m.doc.Len())

	// Cell motion
	case "n", "tab":
		m.jump("cell", n, parser.MoveCell)
	case "p", "shift+tab":
		m.jump("cell", -n, parser.MoveCell)
	case "c":
		m.jump("code cell", n, parser.MoveCodeCell)
	case "C":
		m.jump("code cell", -n, parser.MoveCodeCell)
	case "m":
		m.jump("markdown cell", n, parser.MoveMarkdownCell)
	case "M":
		m.jump("markdown cell", -n, parser.MoveMarkdownCell)
	case "]":
		m.setCursor(parser.SnapToBoundary(m.doc, m.cursor, parser.Forward))
	case "[":
		m.setCursor(parser.SnapToBoundary(m.doc, m.cursor, parser.Backward))
	case "s":
		m.setCursor(parser.SnapToBoundary(m.doc, m.cursor, parser.None))

	// Selection and actions
	case "v":
		m.selecting = !m.selecting
		m.anchor = m.cursor
		m.refresh()
	case "H":
		m.highlightOn = !m.highlightOn
		m.refresh()
	case "y":
		m.copyTarget()
	case "enter", "r":
		return m.runTarget()
	case "o":
		m.showOutput = !m.showOutput
		m.output.Height = m.outputHeight()
	case "ctrl+d":
		m.output.HalfPageDown()
	case "ctrl+u":
		m.output.HalfPageUp()
	case ":":
		m.prompting = true
		m.gotoInput.SetValue("")
		return m.gotoInput.Focus()
	case "ctrl+o":
		return m.openInEditor()
	}
	return nil
}

// handleGotoKey processes keyboard input in the goto prompt
func (m *notebookModel) handleGotoKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.closePrompt()
		return nil
	case "enter":
		pos, err := parser.ParsePosition(m.doc, m.gotoInput.Value())
		m.closePrompt()
		if err != nil {
			m.setStatus(err.Error(), true)
			return nil
		}
		m.setCursor(pos)
		return nil
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return cmd
}

func (m *notebookModel) closePrompt() {
	m.prompting = false
	m.gotoInput.Blur()
}

// takeCount consumes the pending count prefix, defaulting to 1
func (m *notebookModel) takeCount() int {
	n := m.count
	m.count = 0
	if n == 0 {
		return 1
	}
	return n
}

// jump applies a cell motion; a failed motion leaves the cursor in place
func (m *notebookModel) jump(what string, count int, move func(*parser.Document, int, int) (int, bool)) {
	pos, ok := move(m.doc, m.cursor, count)
	if !ok {
		m.setStatus(fmt.Sprintf("no %s there", what), true)
		return
	}
	m.setCursor(pos)
}

// moveLines moves the cursor n lines, keeping the byte column where possible
func (m *notebookModel) moveLines(n int) {
	line, col := m.doc.Position(m.cursor)
	m.setCursor(m.doc.Offset(clamp(line+n, 0, m.doc.LineCount()-1), col))
}

// moveRunes moves the cursor n runes left or right
func (m *notebookModel) moveRunes(n int) {
	pos := m.cursor
	text := m.doc.Text()
	for ; n > 0 && pos < len(text); n-- {
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	for ; n < 0 && pos > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:pos])
		pos -= size
	}
	m.setCursor(pos)
}

// setCursor moves the cursor and re-evaluates the highlight
func (m *notebookModel) setCursor(pos int) {
	m.cursor = clamp(pos, 0, m.doc.Len())
	m.status, m.statusErr = "", false
	m.refresh()
	m.adjustOffset()
}

// refresh re-evaluates the cell highlight for the current cursor
func (m *notebookModel) refresh() {
	if !m.highlightOn {
		m.highlight = Highlight{}
		return
	}
	m.highlight = RefreshHighlight(m.doc, m.cursor, m.selecting)
}

// replaceDocument swaps in a new snapshot; all previously computed cells are stale
func (m *notebookModel) replaceDocument(doc *parser.Document) {
	m.doc = doc
	m.anchor = clamp(m.anchor, 0, doc.Len())
	m.setCursor(m.cursor)
}

// selection returns the selected byte range
func (m *notebookModel) selection() (start, end int) {
	return min(m.anchor, m.cursor), max(m.anchor, m.cursor)
}

// currentCell returns the cell under the cursor regardless of highlighting
func (m *notebookModel) currentCell() (parser.Cell, bool) {
	return parser.CellAt(m.doc, m.cursor)
}

// copyTarget copies the selection, or the current cell body, to the clipboard
func (m *notebookModel) copyTarget() {
	var text, what string
	if m.selecting {
		start, end := m.selection()
		text, what = m.doc.Slice(start, end), "selection"
	} else {
		cell, ok := m.currentCell()
		if !ok {
			m.setStatus("not inside a cell", true)
			return
		}
		text, what = parser.Body(m.doc, cell), cell.Kind.String()+" cell"
	}

	if err := m.executor.OutputWithMode(text, executor.OutputCopy); err != nil {
		m.setStatus(fmt.Sprintf("copy: %v", err), true)
		return
	}
	m.setStatus("copied "+what, false)
}

// runTarget runs the current code cell, or every code cell wholly inside the selection
func (m *notebookModel) runTarget() tea.Cmd {
	var cells []parser.Cell
	label := ""

	if m.selecting {
		start, end := m.selection()
		// A cell only counts once the range passes its End, and the last one ends at Len
		if end == m.doc.Len() {
			end++
		}
		for cell := range parser.CellsInRange(m.doc, start, end) {
			if cell.Kind == parser.Code {
				cells = append(cells, cell)
			}
		}
		label = fmt.Sprintf("%d cells", len(cells))
	} else if cell, ok := m.currentCell(); ok && cell.Kind == parser.Code {
		cells = append(cells, cell)
		label = fmt.Sprintf("In[%s]", cell.Label)
	}

	if len(cells) == 0 {
		m.setStatus("no code cell to run", true)
		return nil
	}

	bodies := make([]string, len(cells))
	for i, cell := range cells {
		bodies[i] = parser.Body(m.doc, cell)
	}
	source := strings.Join(bodies, "\n")
	m.setStatus("running "+label, false)

	runner := m.runner
	return func() tea.Msg {
		out, err := runner.Run(source)
		return runResultMsg{label: label, output: out, err: err}
	}
}

// openInEditor suspends the TUI and opens the notebook at the cursor line
func (m *notebookModel) openInEditor() tea.Cmd {
	editor := config.GetEditor()
	if editor == "" {
		m.setStatus("no editor configured", true)
		return nil
	}
	line, _ := m.doc.Position(m.cursor)
	args := append(strings.Fields(editor), fmt.Sprintf("+%d", line+1), m.path)
	cmd := exec.Command(args[0], args[1:]...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorDoneMsg{err: err}
	})
}

func (m *notebookModel) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// outputHeight returns the number of rows given to the output pane
func (m notebookModel) outputHeight() int {
	if !m.showOutput {
		return 0
	}
	return clamp(m.height/3, 1, maxOutputHeight)
}

// textHeight returns the number of rows available to notebook lines
func (m notebookModel) textHeight() int {
	chrome := 3 // divider + status + help
	if m.showOutput {
		chrome += 1 + m.outputHeight()
	}
	return max(max(m.height, 24)-chrome, 3)
}

// adjustOffset ensures the cursor line is visible
func (m *notebookModel) adjustOffset() {
	line := m.doc.LineAt(m.cursor)
	scrollWindow(line, m.doc.LineCount(), m.textHeight(), &m.offset)
}

// ============================================================================
// Rendering
// ============================================================================

// View implements tea.Model
func (m notebookModel) View() string {
	if m.quitting {
		return ""
	}

	width := max(m.width, 80)

	b := getBuilder()
	defer putBuilder(b)

	text := m.renderLines(width, m.textHeight())
	b.WriteString(text)
	b.WriteString(strings.Repeat("\n", max(m.textHeight()-countLines(text), 0)))

	if m.showOutput {
		b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
		b.WriteString("\n")
		b.WriteString(m.output.View())
		b.WriteString("\n")
	}

	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(m.renderStatus(width))
	b.WriteString("\n")
	if m.prompting {
		b.WriteString(m.gotoInput.View())
	} else {
		b.WriteString(styles.Dim.Render("n/p cell • c/C code • m/M markdown • [ ] s snap • v select • enter run • y copy • : goto • q quit"))
	}
	return b.String()
}

// renderLines renders the visible window of notebook lines
func (m *notebookModel) renderLines(width, height int) string {
	start, end := scrollWindow(m.doc.LineAt(m.cursor), m.doc.LineCount(), height, &m.offset)
	clip := lipgloss.NewStyle().MaxWidth(width)

	b := getBuilder()
	defer putBuilder(b)
	for i := start; i < end; i++ {
		b.WriteString(clip.Render(m.renderGutter(i) + m.renderLine(i)))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderGutter renders the line number and the highlight bar
func (m *notebookModel) renderGutter(i int) string {
	num := styles.LineNo.Render(fmt.Sprintf("%4d ", i+1))
	if m.highlight.covers(m.doc.LineStart(i)) {
		return num + styles.Gutter[m.highlight.Class()].Render("│") + " "
	}
	return num + "  "
}

// renderLine renders one line, splitting it where cursor and selection styles change
func (m *notebookModel) renderLine(i int) string {
	lineStart, lineEnd := m.doc.LineStart(i), m.doc.LineEnd(i)
	text := m.doc.Line(i)

	base := styles.Text
	if kind, _ := parser.ClassifyLine(text); kind != parser.MarkerNone {
		base = styles.Marker
	} else if m.highlight.covers(lineStart) {
		base = styles.ForClass(m.highlight.Class())
	}

	selStart, selEnd := -1, -1
	if m.selecting {
		s, e := m.selection()
		selStart, selEnd = clamp(s-lineStart, 0, len(text)), clamp(e-lineStart, 0, len(text))
	}

	cursorCol := -1
	if m.cursor >= lineStart && m.cursor <= lineEnd {
		cursorCol = m.cursor - lineStart
	}

	cuts := []int{0, len(text)}
	if selStart >= 0 {
		cuts = append(cuts, selStart, selEnd)
	}
	cursorEnd := -1
	if cursorCol >= 0 && cursorCol < len(text) {
		_, size := utf8.DecodeRuneInString(text[cursorCol:])
		cursorEnd = cursorCol + size
		cuts = append(cuts, cursorCol, cursorEnd)
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	b := getBuilder()
	defer putBuilder(b)
	for k := 0; k+1 < len(cuts); k++ {
		from, to := cuts[k], cuts[k+1]
		style := base
		switch {
		case from == cursorCol:
			style = styles.Cursor
		case from >= selStart && to <= selEnd && selStart < selEnd:
			style = styles.Selection.Inherit(base)
		}
		b.WriteString(style.Render(text[from:to]))
	}
	if cursorCol == len(text) {
		b.WriteString(styles.Cursor.Render(" "))
	}
	return b.String()
}

// renderStatus renders the position and cell summary line
func (m notebookModel) renderStatus(width int) string {
	line, col := m.doc.Position(m.cursor)

	where := "outside cells"
	if cell, ok := m.currentCell(); ok {
		where = cell.String()
	}
	if m.selecting {
		start, end := m.selection()
		where = fmt.Sprintf("selection %d-%d", start, end)
	}

	parts := []string{
		styles.Status.Render(m.path),
		fmt.Sprintf("%d:%d", line+1, col+1),
		fmt.Sprintf("@%d", m.cursor),
		where,
	}
	if m.count > 0 {
		parts = append(parts, fmt.Sprintf("%d…", m.count))
	}
	if m.status != "" {
		style := styles.Dim
		if m.statusErr {
			style = styles.Error
		}
		parts = append(parts, style.Render(m.status))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, " • "))
}

// ============================================================================
// Run TUI
// ============================================================================

// getTTY returns file handles for TUI input/output
// Uses /dev/tty to bypass shell pipes and command substitution
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	if fileInfo, _ := os.Stdout.Stat(); (fileInfo.Mode() & os.ModeCharDevice) == 0 {
		out, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			out = os.Stderr // Last resort fallback
		} else {
			closers = append(closers, func() { out.Close() })
		}

		in, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
		if err != nil {
			in = os.Stdin
		} else {
			closers = append(closers, func() { in.Close() })
		}

		// Tell lipgloss to use the TTY for color detection
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))

		return in, out, func() {
			for _, c := range closers {
				c()
			}
		}
	}

	return os.Stdin, os.Stdout, func() {}
}

// RunTUI opens the notebook at path in the interactive browser
func RunTUI(path string, exec *executor.Executor) error {
	if logFile := config.GetLogFile(); logFile != "" {
		f, err := tea.LogToFile(logFile, "cellmd")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	doc, err := parser.LoadDocument(path)
	if err != nil {
		return fmt.Errorf("load notebook: %w", err)
	}

	m := newNotebookModel(path, doc, exec)
	if config.GetWatch() {
		w, err := newFileWatcher(path)
		if err != nil {
			log.Printf("watch %s: %v", path, err)
		} else {
			m.watcher = w
			defer w.Close()
		}
	}

	ttyIn, ttyOut, cleanup := getTTY()
	RefreshStyles() // Refresh after getTTY sets up the renderer
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	_, err = p.Run()
	cleanup()
	return err
}

// ============================================================================
// Helpers
// ============================================================================

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

// countLines counts the number of lines in a string
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// scrollWindow calculates the visible range for a scrollable list
func scrollWindow(cursor, total, height int, offset *int) (start, end int) {
	if cursor < *offset {
		*offset = cursor
	}
	if cursor >= *offset+height {
		*offset = cursor - height + 1
	}
	maxOffset := max(0, total-height)
	*offset = clamp(*offset, 0, maxOffset)

	start = *offset
	end = min(start+height, total)
	return
}
