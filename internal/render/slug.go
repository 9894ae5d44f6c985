package render

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWordHyphen = regexp.MustCompile(`[^\w\-]+`)
	hyphenRun     = regexp.MustCompile(`\-\-+`)
)

// Slugify converts heading text into a URL-safe anchor id: lowercase,
// whitespace runs become single hyphens, "&" becomes "and", everything that
// is not a word character or hyphen is stripped, and hyphen runs collapse.
// It is a pure function and idempotent on already-normalized input.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = strings.ReplaceAll(s, "&", "-and-")
	s = nonWordHyphen.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return s
}

// headingText flattens heading content to plain text with a depth-first
// walk, concatenating text leaves in document order. Nodes without
// extractable text contribute nothing; no input shape is an error.
func headingText(n ast.Node, source []byte) string {
	var sb strings.Builder
	collectText(n, source, &sb)
	return sb.String()
}

func collectText(n ast.Node, source []byte, sb *strings.Builder) {
	switch t := n.(type) {
	case *ast.Text:
		sb.Write(t.Segment.Value(source))
	case *ast.String:
		sb.Write(t.Value)
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			collectText(c, source, sb)
		}
	}
}
