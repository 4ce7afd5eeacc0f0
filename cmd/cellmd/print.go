package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gubarz/cellmd/internal/config"
	"github.com/gubarz/cellmd/internal/parser"
	"github.com/spf13/cobra"
)

// cellRecord is the JSON form of a cell
type cellRecord struct {
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label,omitempty"`
	Line  int    `json:"line"`
}

// offsetRecord is the JSON form of a resolved position
type offsetRecord struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// notebookRecord is the JSON form of a listed notebook
type notebookRecord struct {
	File     string `json:"file"`
	Code     int    `json:"code"`
	Markdown int    `json:"markdown"`
}

// printer writes command results in the configured format
type printer struct {
	w    io.Writer
	json bool
}

func newPrinter(cmd *cobra.Command) *printer {
	return &printer{
		w:    cmd.OutOrStdout(),
		json: strings.EqualFold(config.GetFormat(), "json"),
	}
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) cells(doc *parser.Document, cells []parser.Cell) error {
	if p.json {
		records := make([]cellRecord, len(cells))
		for i, c := range cells {
			records[i] = cellRecord{
				Kind:  c.Kind.String(),
				Start: c.Start,
				End:   c.End,
				Label: c.Label,
				Line:  doc.LineAt(c.Start) + 1,
			}
		}
		return p.encode(records)
	}

	for _, c := range cells {
		if _, err := fmt.Fprintf(p.w, "%-4d %s\n", doc.LineAt(c.Start)+1, c); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) offset(doc *parser.Document, pos int) error {
	line, col := doc.Position(pos)
	if p.json {
		return p.encode(offsetRecord{Offset: pos, Line: line + 1, Column: col + 1})
	}
	_, err := fmt.Fprintf(p.w, "%d %d:%d\n", pos, line+1, col+1)
	return err
}

func (p *printer) notebooks(notebooks []*parser.Notebook) error {
	if p.json {
		records := make([]notebookRecord, len(notebooks))
		for i, nb := range notebooks {
			code, md := nb.Counts()
			records[i] = notebookRecord{File: nb.File, Code: code, Markdown: md}
		}
		return p.encode(records)
	}

	for _, nb := range notebooks {
		code, md := nb.Counts()
		if _, err := fmt.Fprintf(p.w, "%s\tcode=%d markdown=%d\n", nb.File, code, md); err != nil {
			return err
		}
	}
	return nil
}
