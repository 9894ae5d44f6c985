package render

import (
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCalloutComponent(t *testing.T) {
	out := renderString(t, "<Callout variant=\"info\">\nHeads up!\n</Callout>")
	assert.Contains(t, out, `<aside class="callout callout-info">`)
	assert.Contains(t, out, "Heads up!")
}

func TestSelfClosingInlineComponent(t *testing.T) {
	out := renderString(t, `Click <Button href="/work" label="See work" /> to continue.`)
	assert.Contains(t, out, `<a class="button" href="/work">See work</a>`)
	assert.Contains(t, out, "to continue.")
}

func TestUnregisteredTagPassesThrough(t *testing.T) {
	out := renderString(t, "<Widget prop=\"x\" />\n")
	assert.Contains(t, out, "<Widget")
}

func TestPlainHTMLPassesThrough(t *testing.T) {
	out := renderString(t, "<div class=\"ok\">raw html</div>\n")
	assert.Contains(t, out, `<div class="ok">raw html</div>`)
}

func TestLazyComponentResolvesOnce(t *testing.T) {
	var loads atomic.Int32
	lazy := NewLazyComponent("Counter", func() (Component, error) {
		loads.Add(1)
		return ComponentFunc(func(w io.Writer, _ Attrs, _ []byte) error {
			_, err := w.Write([]byte(`<span class="counter"></span>`))
			return err
		}), nil
	})
	r := New(WithComponents(ComponentMap{"Counter": lazy}))

	// Nothing loads at registry construction.
	assert.Equal(t, int32(0), loads.Load())

	for i := 0; i < 3; i++ {
		out, err := r.Render([]byte("<Counter />\n"))
		require.NoError(t, err)
		assert.Contains(t, string(out), `<span class="counter"></span>`)
	}
	assert.Equal(t, int32(1), loads.Load())
}

func TestComponentLoadFailureIsLocalized(t *testing.T) {
	broken := NewLazyComponent("Boom", func() (Component, error) {
		return nil, errors.New("not available")
	})
	out := renderString(t,
		"before\n\n<Boom />\n\n<Callout>\nstill fine\n</Callout>\n\nafter",
		WithComponents(ComponentMap{"Boom": broken}))

	assert.Contains(t, out, `<div class="component-error" data-component="Boom">`)
	// The failure is scoped to the one tag; everything else renders.
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "after")
	assert.Contains(t, out, `<aside class="callout">`)
	assert.Contains(t, out, "still fine")
}

func TestComponentRenderFailureIsLocalized(t *testing.T) {
	flaky := NewLazyComponent("Flaky", func() (Component, error) {
		return ComponentFunc(func(w io.Writer, _ Attrs, _ []byte) error {
			_, _ = w.Write([]byte("partial"))
			return errors.New("mid-render failure")
		}), nil
	})
	out := renderString(t, "<Flaky />\n",
		WithComponents(ComponentMap{"Flaky": flaky}))

	assert.Contains(t, out, `data-component="Flaky"`)
	// No torn fragment from the failed render.
	assert.NotContains(t, out, "partial")
}

func TestComponentOverrideReplacesDefault(t *testing.T) {
	custom := NewLazyComponent("Callout", func() (Component, error) {
		return ComponentFunc(func(w io.Writer, _ Attrs, children []byte) error {
			_, _ = w.Write([]byte(`<div class="note">`))
			_, _ = w.Write(children)
			_, _ = w.Write([]byte(`</div>`))
			return nil
		}), nil
	})
	out := renderString(t, "<Callout>\ncontent\n</Callout>\n",
		WithComponents(ComponentMap{"Callout": custom}))

	assert.Contains(t, out, `<div class="note">`)
	assert.NotContains(t, out, "<aside")
}

func TestParseTag(t *testing.T) {
	t.Run("quoted and braced attributes", func(t *testing.T) {
		attrs, children := parseTag(`<Grid columns={3} gap="16" title='Shots'>inner</Grid>`, "Grid")
		assert.Equal(t, Attrs{"columns": "3", "gap": "16", "title": "Shots"}, attrs)
		assert.Equal(t, "inner", string(children))
	})
	t.Run("self closing", func(t *testing.T) {
		attrs, children := parseTag(`<Media src="/img.png" alt="cover" />`, "Media")
		assert.Equal(t, "/img.png", attrs["src"])
		assert.Nil(t, children)
	})
	t.Run("unterminated", func(t *testing.T) {
		attrs, children := parseTag(`<Card title="x"`, "Card")
		assert.Empty(t, attrs)
		assert.Nil(t, children)
	})
}

func TestDefaultComponentVocabulary(t *testing.T) {
	components := DefaultComponents()
	for _, name := range []string{"Table", "Card", "Grid", "Accordion", "Button", "Callout", "Media"} {
		require.Contains(t, components, name)
		comp, err := components[name].Resolve()
		require.NoError(t, err, "component %s must resolve", name)
		assert.NotNil(t, comp)
	}
}
