// Package template renders text reports with text/template.
package template

import (
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	titleCaser := cases.Title(language.English)
	printer := message.NewPrinter(language.English)
	return template.FuncMap{
		// String functions
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"title":     titleCaser.String,
		"trimSpace": strings.TrimSpace,
		"join":      strings.Join,

		// Formatting functions
		"pad":    pad,
		"indent": indent,
		"number": func(n int) string { return printer.Sprintf("%d", n) },
		"plural": plural,
	}
}

// pad left-justifies s in a column of width runes.
func pad(width int, s string) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// indent adds n spaces of indentation to each non-empty line.
func indent(n int, s string) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// plural returns word, with an s appended unless n is one.
func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
