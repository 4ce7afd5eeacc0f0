package parser

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Notebook is one plain-text notebook file and the cells found in it
type Notebook struct {
	File  string    // Source file path
	Doc   *Document // Snapshot the cells were computed from
	Cells []Cell    // Cells in document order
}

// Counts returns the number of code and markdown cells
func (n *Notebook) Counts() (code, markdown int) {
	for _, c := range n.Cells {
		if c.Kind == Code {
			code++
		} else {
			markdown++
		}
	}
	return code, markdown
}

// NotebookIndex holds every notebook found by a parse
type NotebookIndex struct {
	Notebooks []*Notebook
	ByPath    map[string]*Notebook
}

// NewNotebookIndex creates an empty notebook index
func NewNotebookIndex() *NotebookIndex {
	return &NotebookIndex{
		Notebooks: make([]*Notebook, 0),
		ByPath:    make(map[string]*Notebook),
	}
}

// Parser loads notebook files
type Parser struct {
	index      *NotebookIndex
	extensions []string
}

// NewParser creates a parser accepting files with the given extensions.
// With no extensions, ".py" is used.
func NewParser(extensions ...string) *Parser {
	if len(extensions) == 0 {
		extensions = []string{".py"}
	}
	exts := make([]string, len(extensions))
	for i, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[i] = ext
	}
	return &Parser{
		index:      NewNotebookIndex(),
		extensions: exts,
	}
}

// ParseDirectory recursively parses all notebook files under dir
func (p *Parser) ParseDirectory(dir string) (*NotebookIndex, error) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if p.accepts(path) {
			return p.parseFile(path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.index, nil
}

// ParseSingleFile parses a single notebook file regardless of its extension
func (p *Parser) ParseSingleFile(path string) (*NotebookIndex, error) {
	if err := p.parseFile(path); err != nil {
		return nil, err
	}
	return p.index, nil
}

func (p *Parser) accepts(path string) bool {
	return slices.Contains(p.extensions, strings.ToLower(filepath.Ext(path)))
}

func (p *Parser) parseFile(path string) error {
	doc, err := LoadDocument(path)
	if err != nil {
		return err
	}

	nb := &Notebook{
		File:  path,
		Doc:   doc,
		Cells: slices.Collect(Cells(doc)),
	}
	p.index.Notebooks = append(p.index.Notebooks, nb)
	p.index.ByPath[path] = nb
	return nil
}

// LoadDocument reads a file into a Document snapshot
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewDocument(string(data)), nil
}

// Body returns the content of a cell without its marker lines
func Body(doc *Document, cell Cell) string {
	start := doc.LineEnd(doc.LineAt(cell.Start)) + 1

	var end int
	switch cell.Kind {
	case Markdown:
		end = doc.LineStart(doc.LineAt(cell.End)) - 1
	default:
		// Leave out the newline that ends the cell, whichever side of End it is on
		end = cell.End
		switch {
		case end == doc.Len():
			if strings.HasSuffix(doc.Text(), "\n") {
				end--
			}
		case doc.Text()[end] != '\n':
			end++
		}
	}
	return doc.Slice(start, end)
}
