package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NodeKind names a recognized content-node category.
type NodeKind string

const (
	KindParagraph NodeKind = "paragraph"
	KindHeading   NodeKind = "heading"
	KindImage     NodeKind = "image"
	KindLink      NodeKind = "link"
	KindCodeSpan  NodeKind = "codespan"
	KindCodeBlock NodeKind = "codeblock"
	KindHTMLBlock NodeKind = "htmlblock"
	KindRawHTML   NodeKind = "rawhtml"
)

// TransformerFunc renders one node kind. It is goldmark's node renderer
// contract, so custom transformers drop straight into the parse walk.
type TransformerFunc = renderer.NodeRendererFunc

// TransformerMap pairs node kinds with their renderers. At most one entry
// per kind; an override replaces the default for that kind outright.
type TransformerMap map[NodeKind]TransformerFunc

// astKinds maps our kind names onto goldmark's AST kinds. Kinds absent here
// fall through to goldmark's stock HTML renderer.
var astKinds = map[NodeKind]ast.NodeKind{
	KindParagraph: ast.KindParagraph,
	KindHeading:   ast.KindHeading,
	KindImage:     ast.KindImage,
	KindLink:      ast.KindLink,
	KindCodeSpan:  ast.KindCodeSpan,
	KindCodeBlock: ast.KindFencedCodeBlock,
	KindHTMLBlock: ast.KindHTMLBlock,
	KindRawHTML:   ast.KindRawHTML,
}

// DefaultTransformers builds the stock transformer table. The logger is
// used by transformers that suppress broken nodes instead of failing.
func DefaultTransformers(logger *zap.Logger) TransformerMap {
	return TransformerMap{
		KindParagraph: renderParagraph,
		KindHeading:   renderHeading,
		KindImage:     newImageTransformer(logger),
		KindLink:      renderLink,
		KindCodeSpan:  renderCodeSpan,
		KindCodeBlock: renderFencedCode,
	}
}

func renderParagraph(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<p class="post-paragraph">`)
	} else {
		_, _ = w.WriteString("</p>\n")
	}
	return ast.WalkContinue, nil
}

func renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if !entering {
		_, _ = fmt.Fprintf(w, "</h%d>\n", n.Level)
		return ast.WalkContinue, nil
	}
	// The slug is recomputed from the heading content on every render, so
	// identical content always lands on the same anchor. An empty heading
	// gets no id at all rather than id="".
	slug := Slugify(headingText(n, source))
	if slug == "" {
		_, _ = fmt.Fprintf(w, "<h%d>", n.Level)
	} else {
		_, _ = fmt.Fprintf(w, `<h%d id="%s">`, n.Level, slug)
	}
	return ast.WalkContinue, nil
}

// newImageTransformer suppresses images without a source instead of
// failing the document: the node is logged and skipped, siblings render.
func newImageTransformer(logger *zap.Logger) TransformerFunc {
	return func(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		n := node.(*ast.Image)
		if len(n.Destination) == 0 {
			logger.Error("image node has no source, rendering nothing",
				zap.String("alt", headingText(n, source)))
			return ast.WalkSkipChildren, nil
		}
		_, _ = w.WriteString(`<img src="`)
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
		_, _ = w.WriteString(`" alt="`)
		_, _ = w.Write(util.EscapeHTML([]byte(headingText(n, source))))
		_, _ = w.WriteString(`" loading="lazy" />`)
		return ast.WalkSkipChildren, nil
	}
}

func renderLink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Link)
	dest := string(n.Destination)
	escaped := util.EscapeHTML(util.URLEscape(n.Destination, true))
	switch {
	case strings.HasPrefix(dest, "/"):
		_, _ = w.WriteString(`<a class="internal-link" href="`)
		_, _ = w.Write(escaped)
		_, _ = w.WriteString(`">`)
	case strings.HasPrefix(dest, "#"):
		// Same-page anchor: plain link, no new-tab behavior.
		_, _ = w.WriteString(`<a href="`)
		_, _ = w.Write(escaped)
		_, _ = w.WriteString(`">`)
	default:
		_, _ = w.WriteString(`<a href="`)
		_, _ = w.Write(escaped)
		_, _ = w.WriteString(`" target="_blank" rel="noopener noreferrer">`)
	}
	return ast.WalkContinue, nil
}

func renderCodeSpan(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<code class="inline-code">`)
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			_, _ = w.Write(util.EscapeHTML(t.Segment.Value(source)))
		}
	}
	_, _ = w.WriteString("</code>")
	return ast.WalkSkipChildren, nil
}

// codeLanguage normalizes a fence annotation to the bare language name.
// Content written the MDX way annotates fences with a class-style prefix
// ("language-python"); plain fences carry the name alone.
func codeLanguage(info string) string {
	return strings.TrimPrefix(info, "language-")
}

// codeLabel derives the human-readable label shown in the code block
// header, e.g. "python" -> "Python".
func codeLabel(lang string) string {
	return cases.Title(language.English).String(lang)
}

func renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	var code strings.Builder
	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		code.Write(line.Value(source))
	}
	langBytes := n.Language(source)
	if len(langBytes) == 0 {
		// No annotation: emit the raw block unprocessed beyond escaping.
		writePlainCode(w, code.String())
		return ast.WalkContinue, nil
	}
	lang := codeLanguage(string(langBytes))
	_, _ = w.WriteString(`<figure class="code-block" data-language="`)
	_, _ = w.Write(util.EscapeHTML([]byte(lang)))
	_, _ = w.WriteString("\">\n<figcaption><span class=\"code-label\">")
	_, _ = w.Write(util.EscapeHTML([]byte(codeLabel(lang))))
	_, _ = w.WriteString("</span><button type=\"button\" class=\"code-copy\" data-copy>Copy</button></figcaption>\n")
	if err := highlight(w, lang, code.String()); err != nil {
		writePlainCode(w, code.String())
	}
	_, _ = w.WriteString("</figure>\n")
	return ast.WalkContinue, nil
}

func writePlainCode(w util.BufWriter, code string) {
	_, _ = w.WriteString("<pre><code>")
	_, _ = w.Write(util.EscapeHTML([]byte(code)))
	_, _ = w.WriteString("</code></pre>\n")
}

func highlight(w io.Writer, lang, code string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return err
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	return formatter.Format(w, styles.Fallback, iterator)
}
