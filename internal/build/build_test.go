package build

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thanhhoan-v2/Personal-Porfolio/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newProject(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "layouts", "base.html"),
		`<!DOCTYPE html><html><body>{{.Content}}</body></html>`)
	writeFile(t, filepath.Join(dir, "layouts", "partials", "head.html"),
		`{{define "meta"}}<meta charset="utf-8">{{end}}`)
	writeFile(t, filepath.Join(dir, "layouts", "single.html"),
		`<!DOCTYPE html><html><head>{{template "meta"}}<title>{{.PageTitle}} | {{.SiteTitle}}</title></head><body><article>{{.Content}}</article></body></html>`)
	writeFile(t, filepath.Join(dir, "layouts", "list.html"),
		`<ul>{{range .Posts}}<li>{{.Metadata.Title}}</li>{{end}}</ul>`)

	writeFile(t, filepath.Join(dir, "content", "site.yaml"), `person:
  name: "Selene Yu"
nav:
  - label: "Blog"
    href: "/blog"
`)
	writeFile(t, filepath.Join(dir, "content", "blog", "newer.mdx"), `---
title: "Newer Post"
publishedAt: "2024-02-02"
---

# Getting Started

With [a link](/blog) inside.
`)
	writeFile(t, filepath.Join(dir, "content", "blog", "older.mdx"), `---
title: "Older Post"
publishedAt: "2023-01-01"
---

Older body.
`)
	writeFile(t, filepath.Join(dir, "static", "css", "site.css"), "body{}\n")

	return config.Config{
		SiteTitle:  "Test Site",
		OutputDir:  filepath.Join(dir, "public"),
		ContentDir: filepath.Join(dir, "content"),
		LayoutsDir: filepath.Join(dir, "layouts"),
		StaticDir:  filepath.Join(dir, "static"),
		SiteFile:   filepath.Join(dir, "content", "site.yaml"),
	}
}

func TestRunBuildsSite(t *testing.T) {
	cfg := newProject(t)
	data, err := Run(cfg, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, data.Posts, 2)
	assert.Equal(t, "newer", data.Posts[0].Slug, "posts must sort newest first")
	assert.Equal(t, "Selene Yu", data.Site.Person.Name)

	page, err := os.ReadFile(filepath.Join(cfg.OutputDir, "blog", "newer", "index.html"))
	require.NoError(t, err)
	html := string(page)
	assert.Contains(t, html, "<article>")
	assert.Contains(t, html, `<h1 id="getting-started">Getting Started</h1>`)
	assert.Contains(t, html, `<a class="internal-link" href="/blog">a link</a>`)
	assert.Contains(t, html, "Newer Post | Test Site")
	assert.Contains(t, html, `<meta charset="utf-8">`)
}

func TestRunWritesSectionIndex(t *testing.T) {
	cfg := newProject(t)
	_, err := Run(cfg, zap.NewNop())
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(cfg.OutputDir, "blog", "index.html"))
	require.NoError(t, err)
	listing := string(index)
	newer := strings.Index(listing, "Newer Post")
	older := strings.Index(listing, "Older Post")
	require.GreaterOrEqual(t, newer, 0)
	require.GreaterOrEqual(t, older, 0)
	assert.Less(t, newer, older, "listing must be publish-date descending")
}

func TestRunCopiesStaticAssets(t *testing.T) {
	cfg := newProject(t)
	_, err := Run(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "css", "site.css"))
	assert.NoError(t, err)
}

func TestRunRequiresLayouts(t *testing.T) {
	cfg := newProject(t)
	require.NoError(t, os.RemoveAll(cfg.LayoutsDir))

	_, err := Run(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layouts")
}

func TestRunRequiresBaseLayout(t *testing.T) {
	cfg := newProject(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.LayoutsDir, "base.html")))

	_, err := Run(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base.html")
}

func TestLayoutFrontmatterOverride(t *testing.T) {
	cfg := newProject(t)
	writeFile(t, filepath.Join(cfg.LayoutsDir, "special.html"),
		`<main class="special">{{.Content}}</main>`)
	writeFile(t, filepath.Join(cfg.ContentDir, "blog", "custom.mdx"), `---
title: "Custom Layout Post"
publishedAt: "2024-05-05"
layout: "special.html"
---

Body.
`)

	_, err := Run(cfg, zap.NewNop())
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(cfg.OutputDir, "blog", "custom", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `<main class="special">`)
}
