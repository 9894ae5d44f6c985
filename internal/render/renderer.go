// Package render implements the content pipeline: MDX-flavoured markdown in,
// styled HTML out. Parsing is goldmark's job; this package supplies the
// per-node-kind rendering strategy (transformers), the slug deriver backing
// heading anchors, and the lazily-loaded component vocabulary for custom
// tags in content.
package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"
)

// Renderer converts raw content into HTML. The transformer and component
// tables are merged once at construction; Render itself keeps no mutable
// state, so one Renderer may serve any number of documents concurrently.
type Renderer struct {
	md goldmark.Markdown
}

// Option customizes a Renderer at construction time.
type Option func(*options)

type options struct {
	logger               *zap.Logger
	transformerOverrides TransformerMap
	componentOverrides   ComponentMap
}

// WithLogger sets the logger used when a node is suppressed or a component
// fails. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTransformers overrides node transformers per kind. A kind present in
// the override map replaces the default for that kind entirely.
func WithTransformers(t TransformerMap) Option {
	return func(o *options) {
		for k, fn := range t {
			o.transformerOverrides[k] = fn
		}
	}
}

// WithComponents overrides or extends the dynamic component vocabulary.
// An entry under an existing tag name replaces the default component.
func WithComponents(c ComponentMap) Option {
	return func(o *options) {
		for name, lc := range c {
			o.componentOverrides[name] = lc
		}
	}
}

// New builds a Renderer. Defaults come first, caller overrides win per
// kind and per tag; the merge happens here, never per node.
func New(opts ...Option) *Renderer {
	o := &options{
		logger:               zap.NewNop(),
		transformerOverrides: TransformerMap{},
		componentOverrides:   ComponentMap{},
	}
	for _, opt := range opts {
		opt(o)
	}

	components := DefaultComponents()
	for name, lc := range o.componentOverrides {
		components[name] = lc
	}

	transformers := DefaultTransformers(o.logger)
	cr := &componentRenderer{components: components, logger: o.logger}
	transformers[KindHTMLBlock] = cr.renderHTMLBlock
	transformers[KindRawHTML] = cr.renderRawHTML
	for k, fn := range o.transformerOverrides {
		transformers[k] = fn
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, emoji.Emoji),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(&nodeTransformers{table: transformers}, 100),
			),
			gmhtml.WithUnsafe(),
		),
	)
	return &Renderer{md: md}
}

// Render converts one document. Output is a pure function of the source
// and the tables merged at construction.
func (r *Renderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// nodeTransformers adapts a TransformerMap to goldmark's NodeRenderer
// registration. Registered at higher precedence than the stock HTML
// renderer, so table entries win; every other kind falls through.
type nodeTransformers struct {
	table TransformerMap
}

func (t *nodeTransformers) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	for kind, fn := range t.table {
		if astKind, ok := astKinds[kind]; ok {
			reg.Register(astKind, fn)
		}
	}
}
