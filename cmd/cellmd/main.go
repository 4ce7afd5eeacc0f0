package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gubarz/cellmd/internal/config"
	"github.com/gubarz/cellmd/internal/executor"
	"github.com/gubarz/cellmd/internal/parser"
	"github.com/gubarz/cellmd/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "cellmd [path]",
	Short: "Navigate cells in plain-text notebooks",
	Long: `Cell navigator for plain-text notebooks.

Code cells start at "# In[N]" prompt lines; markdown cells are
wrapped in """ ... """ #:md: fences. Browse a notebook interactively,
jump between cells, and run or copy cell bodies.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

var cellsCmd = &cobra.Command{
	Use:   "cells FILE",
	Short: "List the cells of a notebook",
	Long: `Lists every cell lying wholly inside [--start, --end].
Without a range the whole notebook is listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runCells,
}

var atCmd = &cobra.Command{
	Use:   "at FILE POS",
	Short: "Show the cell enclosing a position",
	Long:  `POS is a byte offset ("42") or a 1-based line and column ("3:1").`,
	Args:  cobra.ExactArgs(2),
	RunE:  runAt,
}

var moveCmd = &cobra.Command{
	Use:   "move FILE POS COUNT",
	Short: "Move COUNT cells from a position",
	Long: `Moves COUNT cells forward (positive) or backward (negative) and
prints the resulting offset. Use --kind to restrict the move to code
or markdown cells.`,
	Args: cobra.ExactArgs(3),
	RunE: runMove,
}

var snapCmd = &cobra.Command{
	Use:   "snap FILE POS",
	Short: "Snap a position to the boundary of its cell",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnap,
}

var showCmd = &cobra.Command{
	Use:   "show FILE POS",
	Short: "Print, copy or execute the cell enclosing a position",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

var listCmd = &cobra.Command{
	Use:   "list [DIR]",
	Short: "List notebooks and their cell counts",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(cellsCmd, atCmd, moveCmd, snapCmd, showCmd, listCmd)

	rootCmd.PersistentFlags().StringP("output", "o", "", "Output mode: print, copy, exec")
	rootCmd.PersistentFlags().StringP("format", "f", "", "Output format: text, json")
	rootCmd.PersistentFlags().String("interpreter", "", "Interpreter command for exec mode")
	rootCmd.Flags().Bool("no-watch", false, "Do not reload the notebook when it changes on disk")

	cellsCmd.Flags().Int("start", 0, "Start offset of the range")
	cellsCmd.Flags().Int("end", -1, "End offset of the range (default: end of notebook)")
	moveCmd.Flags().StringP("kind", "k", "any", "Cell kind: any, code, markdown")
	snapCmd.Flags().StringP("mode", "m", "auto", "Snap direction: auto, forward, backward")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("interpreter", rootCmd.PersistentFlags().Lookup("interpreter"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// Determine path
	path := config.GetPath()
	if len(args) > 0 {
		path = args[0]
	}

	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		config.SetWatch(false)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("error resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("path error: %w", err)
	}

	if info.IsDir() {
		index, err := parser.NewParser(config.GetExtensions()...).ParseDirectory(absPath)
		if err != nil {
			return fmt.Errorf("parse error: %w", err)
		}
		switch len(index.Notebooks) {
		case 0:
			return fmt.Errorf("no notebooks found in %s", absPath)
		case 1:
			absPath = index.Notebooks[0].File
		default:
			files := make([]string, len(index.Notebooks))
			for i, nb := range index.Notebooks {
				files[i] = "  " + nb.File
			}
			return fmt.Errorf("%d notebooks found in %s, pick one:\n%s",
				len(files), absPath, strings.Join(files, "\n"))
		}
	}

	return ui.RunTUI(absPath, executor.NewExecutor())
}

// loadPosition reads a notebook and resolves a POS argument against it
func loadPosition(file, pos string) (*parser.Document, int, error) {
	doc, err := parser.LoadDocument(file)
	if err != nil {
		return nil, 0, fmt.Errorf("load notebook: %w", err)
	}
	offset, err := parser.ParsePosition(doc, pos)
	if err != nil {
		return nil, 0, err
	}
	return doc, offset, nil
}

func runCells(cmd *cobra.Command, args []string) error {
	doc, err := parser.LoadDocument(args[0])
	if err != nil {
		return fmt.Errorf("load notebook: %w", err)
	}

	start, _ := cmd.Flags().GetInt("start")
	end, _ := cmd.Flags().GetInt("end")
	if end < 0 {
		end = doc.Len() + 1
	}

	var cells []parser.Cell
	for cell := range parser.CellsInRange(doc, start, end) {
		cells = append(cells, cell)
	}
	return newPrinter(cmd).cells(doc, cells)
}

func runAt(cmd *cobra.Command, args []string) error {
	doc, pos, err := loadPosition(args[0], args[1])
	if err != nil {
		return err
	}

	cell, ok := parser.CellAt(doc, pos)
	if !ok {
		return fmt.Errorf("offset %d is not inside a cell", pos)
	}
	return newPrinter(cmd).cells(doc, []parser.Cell{cell})
}

func runMove(cmd *cobra.Command, args []string) error {
	doc, pos, err := loadPosition(args[0], args[1])
	if err != nil {
		return err
	}

	count, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", args[2], err)
	}

	kind, _ := cmd.Flags().GetString("kind")
	var move func(*parser.Document, int, int) (int, bool)
	switch strings.ToLower(kind) {
	case "", "any":
		move = parser.MoveCell
	case "code":
		move = parser.MoveCodeCell
	case "markdown", "md":
		move = parser.MoveMarkdownCell
	default:
		return fmt.Errorf("unsupported cell kind: %s (supported: any, code, markdown)", kind)
	}

	target, ok := move(doc, pos, count)
	if !ok {
		return fmt.Errorf("cannot move %d cells from offset %d", count, pos)
	}
	return newPrinter(cmd).offset(doc, target)
}

func runSnap(cmd *cobra.Command, args []string) error {
	doc, pos, err := loadPosition(args[0], args[1])
	if err != nil {
		return err
	}

	mode, _ := cmd.Flags().GetString("mode")
	dir, err := parser.ParseDirection(mode)
	if err != nil {
		return err
	}
	return newPrinter(cmd).offset(doc, parser.SnapToBoundary(doc, pos, dir))
}

func runShow(cmd *cobra.Command, args []string) error {
	doc, pos, err := loadPosition(args[0], args[1])
	if err != nil {
		return err
	}

	cell, ok := parser.CellAt(doc, pos)
	if !ok {
		return fmt.Errorf("offset %d is not inside a cell", pos)
	}

	exec := executor.NewExecutor().WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return exec.Output(doc, cell)
}

func runList(cmd *cobra.Command, args []string) error {
	dir := config.GetPath()
	if len(args) > 0 {
		dir = args[0]
	}

	index, err := parser.NewParser(config.GetExtensions()...).ParseDirectory(dir)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	return newPrinter(cmd).notebooks(index.Notebooks)
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
