package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"
)

// Attrs holds the attributes written on a component tag in content.
type Attrs map[string]string

// Component renders a rich content element referenced by tag name.
type Component interface {
	Render(w io.Writer, attrs Attrs, children []byte) error
}

// ComponentFunc adapts a function to the Component interface.
type ComponentFunc func(w io.Writer, attrs Attrs, children []byte) error

func (f ComponentFunc) Render(w io.Writer, attrs Attrs, children []byte) error {
	return f(w, attrs, children)
}

// LazyComponent defers loading a component implementation until the first
// content render that references its tag. The resolved value, or the load
// failure, is memoized for the life of the process.
type LazyComponent struct {
	name string
	load func() (Component, error)
	once sync.Once
	comp Component
	err  error
}

func NewLazyComponent(name string, load func() (Component, error)) *LazyComponent {
	return &LazyComponent{name: name, load: load}
}

// Resolve runs the loader on first call and reuses the outcome after.
func (l *LazyComponent) Resolve() (Component, error) {
	l.once.Do(func() {
		l.comp, l.err = l.load()
	})
	if l.err != nil {
		return nil, fmt.Errorf("component %s: %w", l.name, l.err)
	}
	return l.comp, nil
}

// ComponentMap pairs MDX tag names with lazily-resolved components. Tag
// names are unique; entries are independent of each other.
type ComponentMap map[string]*LazyComponent

// templateComponent wraps an html/template body as a lazy component. The
// template is parsed on first use, not at registry construction.
func templateComponent(name, text string) *LazyComponent {
	return NewLazyComponent(name, func() (Component, error) {
		tmpl, err := template.New(name).Parse(text)
		if err != nil {
			return nil, err
		}
		return ComponentFunc(func(w io.Writer, attrs Attrs, children []byte) error {
			return tmpl.Execute(w, map[string]any{
				"Attrs":    attrs,
				"Children": template.HTML(children),
			})
		}), nil
	})
}

// DefaultComponents is the tag vocabulary content authors may reference
// without wiring anything up per page.
func DefaultComponents() ComponentMap {
	return ComponentMap{
		"Table":     templateComponent("Table", `<div class="table-scroll"><table class="content-table">{{.Children}}</table></div>`),
		"Card":      templateComponent("Card", `<div class="card{{with .Attrs.variant}} card-{{.}}{{end}}">{{with .Attrs.title}}<h3 class="card-title">{{.}}</h3>{{end}}{{.Children}}</div>`),
		"Grid":      templateComponent("Grid", `<div class="grid" style="--columns: {{or .Attrs.columns "2"}}">{{.Children}}</div>`),
		"Accordion": templateComponent("Accordion", `<details class="accordion"><summary>{{.Attrs.title}}</summary><div class="accordion-body">{{.Children}}</div></details>`),
		"Button":    templateComponent("Button", `<a class="button{{with .Attrs.variant}} button-{{.}}{{end}}" href="{{.Attrs.href}}">{{with .Attrs.label}}{{.}}{{else}}{{.Children}}{{end}}</a>`),
		"Callout":   templateComponent("Callout", `<aside class="callout{{with .Attrs.variant}} callout-{{.}}{{end}}">{{.Children}}</aside>`),
		"Media":     templateComponent("Media", `<figure class="media"><img src="{{.Attrs.src}}" alt="{{.Attrs.alt}}" loading="lazy" />{{with .Attrs.caption}}<figcaption>{{.}}</figcaption>{{end}}</figure>`),
	}
}

var (
	// Component tags follow the MDX convention: capitalized first letter.
	componentTag  = regexp.MustCompile(`^<([A-Z][A-Za-z0-9]*)\b`)
	componentAttr = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_-]*)\s*=\s*(?:"([^"]*)"|'([^']*)'|\{([^}]*)\})`)
)

// componentRenderer handles raw HTML nodes, dispatching capitalized
// component tags through the registry and passing plain HTML through
// untouched. Paired component tags must stand alone as blocks; inline
// usage supports the self-closing form.
type componentRenderer struct {
	components ComponentMap
	logger     *zap.Logger
}

func (c *componentRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.HTMLBlock)
	var raw bytes.Buffer
	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		raw.Write(line.Value(source))
	}
	if n.HasClosure() {
		raw.Write(n.ClosureLine.Value(source))
	}
	c.renderRaw(w, raw.Bytes())
	return ast.WalkContinue, nil
}

func (c *componentRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.RawHTML)
	var raw bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		raw.Write(seg.Value(source))
	}
	c.renderRaw(w, raw.Bytes())
	return ast.WalkSkipChildren, nil
}

func (c *componentRenderer) renderRaw(w util.BufWriter, raw []byte) {
	trimmed := bytes.TrimSpace(raw)
	m := componentTag.FindSubmatch(trimmed)
	if m == nil {
		_, _ = w.Write(raw)
		return
	}
	name := string(m[1])
	lazy, ok := c.components[name]
	if !ok {
		_, _ = w.Write(raw)
		return
	}
	attrs, children := parseTag(string(trimmed), name)
	comp, err := lazy.Resolve()
	if err != nil {
		c.logger.Error("component failed to load",
			zap.String("component", name), zap.Error(err))
		writeComponentError(w, name)
		return
	}
	// Render to a scratch buffer so a mid-render failure surfaces as the
	// error element instead of a torn fragment.
	var out bytes.Buffer
	if err := comp.Render(&out, attrs, children); err != nil {
		c.logger.Error("component failed to render",
			zap.String("component", name), zap.Error(err))
		writeComponentError(w, name)
		return
	}
	_, _ = w.Write(out.Bytes())
}

// writeComponentError emits the localized failure marker for one tag's
// usage site. The rest of the document is unaffected.
func writeComponentError(w util.BufWriter, name string) {
	_, _ = w.WriteString(`<div class="component-error" data-component="`)
	_, _ = w.WriteString(name)
	_, _ = w.WriteString(`">Could not render `)
	_, _ = w.WriteString(name)
	_, _ = w.WriteString(`</div>`)
}

// parseTag splits one component usage into its attributes and children.
// Attribute values may be double-quoted, single-quoted, or brace-wrapped.
func parseTag(s, name string) (Attrs, []byte) {
	attrs := Attrs{}
	openEnd := strings.Index(s, ">")
	if openEnd < 0 {
		return attrs, nil
	}
	openTag := s[:openEnd+1]
	for _, m := range componentAttr.FindAllStringSubmatch(openTag, -1) {
		val := m[2]
		if val == "" {
			if m[3] != "" {
				val = m[3]
			} else {
				val = m[4]
			}
		}
		attrs[m[1]] = val
	}
	if strings.HasSuffix(openTag, "/>") {
		return attrs, nil
	}
	closeTag := "</" + name + ">"
	if end := strings.LastIndex(s, closeTag); end > openEnd {
		return attrs, []byte(strings.TrimSpace(s[openEnd+1 : end]))
	}
	return attrs, nil
}
