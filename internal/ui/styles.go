package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gubarz/cellmd/internal/config"
)

// StyleManager encapsulates all TUI styles and provides methods for style operations
type StyleManager struct {
	// Notebook styles
	Text      lipgloss.Style
	Marker    lipgloss.Style
	LineNo    lipgloss.Style
	Cursor    lipgloss.Style
	Selection lipgloss.Style

	// Highlight classes
	CodeCell     lipgloss.Style
	MarkdownCell lipgloss.Style
	Gutter       map[highlightClass]lipgloss.Style

	// Chrome styles
	Status  lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
	Divider lipgloss.Style
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	s := &StyleManager{
		Text:         lipgloss.NewStyle(),
		Marker:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		LineNo:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Cursor:       lipgloss.NewStyle().Reverse(true),
		Selection:    lipgloss.NewStyle().Background(lipgloss.Color("238")),
		CodeCell:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		MarkdownCell: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		Status:       lipgloss.NewStyle().Bold(true),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Divider:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
	s.buildGutter()
	return s
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	codeColor := parseANSIColor(config.GetColorCode())
	mdColor := parseANSIColor(config.GetColorMarkdown())
	promptColor := parseANSIColor(config.GetColorPrompt())
	borderColor := lipgloss.Color(config.GetColorBorder())
	dimColor := lipgloss.Color(config.GetColorDim())
	cursorColor := lipgloss.Color(config.GetColorCursor())

	s.Marker = lipgloss.NewStyle().Foreground(promptColor).Bold(true)
	s.LineNo = lipgloss.NewStyle().Foreground(dimColor)
	s.Cursor = lipgloss.NewStyle().Reverse(true).Foreground(cursorColor)
	s.CodeCell = lipgloss.NewStyle().Foreground(codeColor)
	s.MarkdownCell = lipgloss.NewStyle().Foreground(mdColor)
	s.Dim = lipgloss.NewStyle().Foreground(dimColor)
	s.Divider = lipgloss.NewStyle().Foreground(borderColor)
	s.buildGutter()
}

// buildGutter derives the gutter bar style for each highlight class
func (s *StyleManager) buildGutter() {
	s.Gutter = map[highlightClass]lipgloss.Style{
		classNone:     s.Dim,
		classCode:     s.CodeCell.Bold(true),
		classMarkdown: s.MarkdownCell.Bold(true),
	}
}

// ForClass returns the body style of a highlight class
func (s *StyleManager) ForClass(class highlightClass) lipgloss.Style {
	switch class {
	case classCode:
		return s.CodeCell
	case classMarkdown:
		return s.MarkdownCell
	default:
		return s.Text
	}
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
