package executor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/gubarz/cellmd/internal/config"
	"github.com/gubarz/cellmd/internal/parser"
)

// ============================================================================
// Runner Interface
// ============================================================================

// Runner defines the interface for handing cell content to an interpreter
type Runner interface {
	Run(source string) (string, error)
	Execute(source string) error
}

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard using the platform clipboard
type systemClipboard struct {
	fallback io.Writer
}

// Copy copies text to the system clipboard
func (c *systemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		// No clipboard tool found, just print
		_, err := fmt.Fprintln(c.fallback, text)
		return err
	}
	return clipboard.WriteAll(text)
}

// ============================================================================
// Executor
// ============================================================================

// Executor hands cell content to the configured interpreter, clipboard or stdout
type Executor struct {
	interpreter []string
	clipboard   Clipboard
	stdout      io.Writer
	stderr      io.Writer
}

// NewExecutor creates a new executor using the configured interpreter
func NewExecutor() *Executor {
	return &Executor{
		interpreter: strings.Fields(config.GetInterpreter()),
		clipboard:   &systemClipboard{fallback: os.Stdout},
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (e *Executor) WithClipboard(c Clipboard) *Executor {
	e.clipboard = c
	return e
}

// WithOutput redirects printed output and interpreter output
func (e *Executor) WithOutput(stdout, stderr io.Writer) *Executor {
	e.stdout = stdout
	e.stderr = stderr
	return e
}

// WithInterpreter overrides the configured interpreter command line
func (e *Executor) WithInterpreter(command string) *Executor {
	e.interpreter = strings.Fields(command)
	return e
}

// Interpreter returns the interpreter command line
func (e *Executor) Interpreter() string {
	return strings.Join(e.interpreter, " ")
}

// ============================================================================
// Interpreter Execution
// ============================================================================

func (e *Executor) command() (*exec.Cmd, error) {
	if len(e.interpreter) == 0 {
		return nil, fmt.Errorf("no interpreter configured")
	}
	cmd := exec.Command(e.interpreter[0], e.interpreter[1:]...)
	cmd.Env = os.Environ()
	return cmd, nil
}

// Run feeds source to the interpreter on stdin and returns its stdout
func (e *Executor) Run(source string) (string, error) {
	cmd, err := e.command()
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("interpreter error: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimRight(stdout.String(), "\n"), nil
}

// Execute runs source through the interpreter with inherited output streams
func (e *Executor) Execute(source string) error {
	cmd, err := e.command()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(source)
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	return cmd.Run()
}

// ============================================================================
// Output Handling
// ============================================================================

// OutputMode represents how cell content should be handled
type OutputMode string

const (
	OutputPrint OutputMode = "print"
	OutputCopy  OutputMode = "copy"
	OutputExec  OutputMode = "exec"
)

// ParseOutputMode validates an output mode name
func ParseOutputMode(s string) (OutputMode, error) {
	switch mode := OutputMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case OutputPrint, OutputCopy, OutputExec:
		return mode, nil
	case "":
		return OutputPrint, nil
	default:
		return "", fmt.Errorf("unsupported output mode: %s (supported: print, copy, exec)", s)
	}
}

// Output handles cell content based on the configured mode
func (e *Executor) Output(doc *parser.Document, cell parser.Cell) error {
	mode, err := ParseOutputMode(config.GetOutput())
	if err != nil {
		return err
	}
	return e.OutputCell(doc, cell, mode)
}

// OutputCell handles a cell's body with an explicit mode. Markdown cells
// cannot be executed.
func (e *Executor) OutputCell(doc *parser.Document, cell parser.Cell, mode OutputMode) error {
	if mode == OutputExec && cell.Kind != parser.Code {
		return fmt.Errorf("cannot execute a %s cell", cell.Kind)
	}
	return e.OutputWithMode(parser.Body(doc, cell), mode)
}

// OutputWithMode handles text with an explicit mode
func (e *Executor) OutputWithMode(text string, mode OutputMode) error {
	switch mode {
	case OutputExec:
		return e.Execute(text)
	case OutputCopy:
		return e.clipboard.Copy(text)
	default: // print
		_, err := fmt.Fprintln(e.stdout, text)
		return err
	}
}
