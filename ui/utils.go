package ui

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderMarkdown converts a generated answer to HTML. Raw HTML in the
// answer is dropped and only http, https, mailto and relative links are
// rendered as anchors.
func renderMarkdown(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.Safelink | html.NofollowLinks | html.HrefTargetBlank,
	})
	return string(markdown.ToHTML([]byte(text), p, renderer))
}
