// Package export renders parsed report content for human consumption.
// The methods blocks extracted from the report boilerplate are
// Markdown-flavoured text, so they convert cleanly to HTML.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/neurostack/prepreport/internal/report"
)

// MethodsMarkdown assembles the Methods group into one Markdown document.
func MethodsMarkdown(m report.Methods) string {
	var buf strings.Builder
	buf.WriteString("# Methods\n\n")
	buf.WriteString("## Anatomical data preprocessing\n\n")
	buf.WriteString(m.AnatomicalPreprocess)
	buf.WriteString("\n\n## Functional data preprocessing\n\n")
	buf.WriteString(m.FunctionalPreprocess)
	if len(m.Errors) > 0 {
		buf.WriteString("\n\n## Errors\n\n")
		for _, e := range m.Errors {
			buf.WriteString("- ")
			buf.WriteString(e)
			buf.WriteString("\n")
		}
	}
	buf.WriteString("\n\n## Copyright Waiver\n\n")
	buf.WriteString(m.Copyright)
	buf.WriteString("\n")
	return buf.String()
}

// MethodsHTML renders the Methods group as HTML.
func MethodsHTML(m report.Methods, w io.Writer) error {
	md := goldmark.New()
	if err := md.Convert([]byte(MethodsMarkdown(m)), w); err != nil {
		return fmt.Errorf("render methods: %w", err)
	}
	return nil
}
