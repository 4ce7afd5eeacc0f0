package parser

import (
	"regexp"
	"strings"
)

// MarkerKind identifies which boundary marker a line carries
type MarkerKind int

const (
	MarkerNone MarkerKind = iota
	MarkdownOpen
	MarkdownClose
	CodePrompt
)

func (k MarkerKind) String() string {
	switch k {
	case MarkdownOpen:
		return "markdown-open"
	case MarkdownClose:
		return "markdown-close"
	case CodePrompt:
		return "code-prompt"
	default:
		return "none"
	}
}

// Fence is the markdown cell delimiter; MarkdownTag marks the closing fence.
const (
	Fence       = `"""`
	MarkdownTag = `#:md:`
)

// bodyOffset is how far past a markdown cell start its body begins
const bodyOffset = len(Fence) + 1

var (
	markdownOpenRe  = regexp.MustCompile(`^"""$`)
	markdownCloseRe = regexp.MustCompile(`^""" #:md:$`)
	codePromptRe    = regexp.MustCompile(`^# In\[([A-Za-z0-9 ]*)\]`)
)

// ClassifyLine reports the marker a single line carries, if any.
// The line must not contain its newline; a trailing carriage return is ignored.
// For CodePrompt the captured label is returned as well.
func ClassifyLine(line string) (MarkerKind, string) {
	line = strings.TrimSuffix(line, "\r")

	// Cheap rejection before any regex work
	if len(line) == 0 || (line[0] != '"' && line[0] != '#') {
		return MarkerNone, ""
	}

	if markdownOpenRe.MatchString(line) {
		return MarkdownOpen, ""
	}
	if markdownCloseRe.MatchString(line) {
		return MarkdownClose, ""
	}
	if matches := codePromptRe.FindStringSubmatch(line); matches != nil {
		return CodePrompt, matches[1]
	}
	return MarkerNone, ""
}

// KindSet is a small bitmask of marker kinds used by searches
type KindSet uint8

// Kinds builds a KindSet from individual marker kinds
func Kinds(kinds ...MarkerKind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << uint(k)
	}
	return s
}

// Has reports whether k is in the set
func (s KindSet) Has(k MarkerKind) bool {
	return k != MarkerNone && s&(1<<uint(k)) != 0
}

var fenceKinds = Kinds(MarkdownOpen, MarkdownClose)
