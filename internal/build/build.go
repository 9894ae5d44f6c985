// Package build runs the full site build: content in, static site out.
package build

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/thanhhoan-v2/Personal-Porfolio/internal/config"
	"github.com/thanhhoan-v2/Personal-Porfolio/internal/content"
	"github.com/thanhhoan-v2/Personal-Porfolio/internal/model"
	"github.com/thanhhoan-v2/Personal-Porfolio/internal/render"
)

const (
	baseLayout   = "base.html"
	singleLayout = "single.html"
	listLayout   = "list.html"
)

// Run executes a build: load site data and posts, render markdown, execute
// layouts, copy static assets. Returns the collected site data so serve
// mode and tests can inspect what was built.
func Run(cfg config.Config, logger *zap.Logger) (*model.SiteData, error) {
	if _, err := os.Stat(cfg.ContentDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("content directory %q not found", cfg.ContentDir)
	}
	if _, err := os.Stat(cfg.LayoutsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("layouts directory %q not found", cfg.LayoutsDir)
	}

	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("cleaning output directory %q: %w", cfg.OutputDir, err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %q: %w", cfg.OutputDir, err)
	}

	if _, err := os.Stat(cfg.StaticDir); err == nil {
		if err := copyDirContents(cfg.StaticDir, cfg.OutputDir); err != nil {
			return nil, fmt.Errorf("copying static assets: %w", err)
		}
		logger.Info("static assets copied", zap.String("from", cfg.StaticDir))
	}

	templates, err := loadLayouts(cfg.LayoutsDir)
	if err != nil {
		return nil, err
	}

	site, err := content.LoadSite(cfg.SiteFile)
	if err != nil {
		return nil, err
	}

	posts, err := content.LoadPosts(cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("loading posts: %w", err)
	}
	content.SortPosts(posts)
	logger.Info("content collected", zap.Int("posts", len(posts)))

	// Rendering is a pure per-document transformation, so independent
	// posts render in parallel. Each goroutine writes only its own post.
	renderer := render.New(render.WithLogger(logger))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, post := range posts {
		post := post
		g.Go(func() error {
			html, err := renderer.Render(post.Content)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", post.SourcePath, err)
			}
			post.ContentHTML = template.HTML(html)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := &model.SiteData{
		Site:      site,
		Posts:     posts,
		BySection: make(map[string][]*model.Post),
	}
	for _, post := range posts {
		data.BySection[post.Section] = append(data.BySection[post.Section], post)
	}

	for _, post := range posts {
		if err := writePost(cfg, templates, data, post, logger); err != nil {
			return nil, err
		}
	}
	if err := writeSectionIndexes(cfg, templates, data); err != nil {
		return nil, err
	}

	logger.Info("build complete",
		zap.Int("pages", len(posts)),
		zap.String("output", cfg.OutputDir))
	return data, nil
}

// loadLayouts parses base.html and partials first so page layouts can
// reference them, then the remaining page layouts.
func loadLayouts(dir string) (*template.Template, error) {
	var basePath string
	var partials, pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		switch {
		case d.Name() == baseLayout && filepath.Dir(path) == filepath.Clean(dir):
			basePath = path
		case strings.HasPrefix(path, filepath.Join(dir, "partials")):
			partials = append(partials, path)
		default:
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning layouts in %q: %w", dir, err)
	}
	if basePath == "" {
		return nil, fmt.Errorf("%s not found in layouts directory %q", baseLayout, dir)
	}

	templates, err := template.ParseFiles(append([]string{basePath}, partials...)...)
	if err != nil {
		return nil, fmt.Errorf("parsing %s and partials: %w", baseLayout, err)
	}
	if len(pages) > 0 {
		if templates, err = templates.ParseFiles(pages...); err != nil {
			return nil, fmt.Errorf("parsing page layouts: %w", err)
		}
	}
	return templates, nil
}

// layoutFor resolves one post's layout: frontmatter override, then the
// section-specific single layout, then single.html, then base.html.
func layoutFor(templates *template.Template, post *model.Post, logger *zap.Logger) (string, error) {
	candidates := []string{}
	if post.Metadata.Layout != "" {
		candidates = append(candidates, post.Metadata.Layout)
	}
	if post.Section != "" {
		candidates = append(candidates, "single-"+post.Section+".html")
	}
	candidates = append(candidates, singleLayout, baseLayout)
	for i, name := range candidates {
		if templates.Lookup(name) != nil {
			if i > 0 {
				logger.Debug("layout fallback",
					zap.String("post", post.Slug), zap.String("layout", name))
			}
			return name, nil
		}
	}
	return "", fmt.Errorf("no layout found for %q, not even %s", post.Slug, baseLayout)
}

func writePost(cfg config.Config, templates *template.Template, data *model.SiteData, post *model.Post, logger *zap.Logger) error {
	layout, err := layoutFor(templates, post, logger)
	if err != nil {
		return err
	}
	page := model.PageData{
		SiteTitle: cfg.SiteTitle,
		PageTitle: post.Metadata.Title,
		Summary:   post.Metadata.Summary,
		Content:   post.ContentHTML,
		BaseURL:   cfg.BaseURL,
		Date:      post.Metadata.PublishedAt,
		Site:      data.Site,
		Post:      post,
		Posts:     data.BySection[post.Section],
	}
	outPath := filepath.Join(cfg.OutputDir, post.Permalink, "index.html")
	return writePage(templates, layout, outPath, page)
}

// writeSectionIndexes generates one listing page per content section when a
// list layout exists. Listings observe the sorted order from Run.
func writeSectionIndexes(cfg config.Config, templates *template.Template, data *model.SiteData) error {
	if templates.Lookup(listLayout) == nil {
		return nil
	}
	for section, posts := range data.BySection {
		if section == "" {
			continue
		}
		page := model.PageData{
			SiteTitle: cfg.SiteTitle,
			PageTitle: cases.Title(language.English).String(section),
			BaseURL:   cfg.BaseURL,
			Site:      data.Site,
			Posts:     posts,
		}
		outPath := filepath.Join(cfg.OutputDir, section, "index.html")
		if err := writePage(templates, listLayout, outPath, page); err != nil {
			return err
		}
	}
	return nil
}

func writePage(templates *template.Template, layout, outPath string, page model.PageData) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating %q: %w", filepath.Dir(outPath), err)
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, layout, page); err != nil {
		return fmt.Errorf("executing layout %q for %q: %w", layout, outPath, err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", outPath, err)
	}
	return nil
}

func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, in)
		return err
	})
}
