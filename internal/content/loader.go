// Package content loads post records and site data from the content
// directory. It owns ordering; rendering is the render package's job.
package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/thanhhoan-v2/Personal-Porfolio/internal/model"
)

// LoadPosts walks dir for markdown content and returns one Post per file.
// The slug is derived from the source filename; a missing frontmatter
// title falls back to a title-cased form of it.
func LoadPosts(dir string) ([]*model.Post, error) {
	var posts []*model.Post
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("accessing %s: %w", path, walkErr)
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if d.IsDir() || (ext != ".md" && ext != ".mdx") {
			return nil
		}
		post, err := loadPost(dir, path)
		if err != nil {
			return err
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func loadPost(root, path string) (*model.Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var meta model.PostMetadata
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		// Absent or broken frontmatter is not fatal; treat the whole file
		// as body.
		body = raw
		meta = model.PostMetadata{}
	}
	name := filepath.Base(path)
	slug := strings.TrimSuffix(name, filepath.Ext(name))
	if meta.Title == "" {
		spaced := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
		meta.Title = cases.Title(language.English).String(spaced)
	}
	section := sectionOf(root, path)
	return &model.Post{
		Slug:       slug,
		Section:    section,
		SourcePath: path,
		Permalink:  permalink(section, slug),
		Metadata:   meta,
		Content:    body,
	}, nil
}

// sectionOf reports the top-level content subdirectory a file lives in,
// e.g. "blog" for content/blog/post.mdx. Files at the root have none.
func sectionOf(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ""
	}
	dir := filepath.Dir(rel)
	if dir == "." {
		return ""
	}
	return strings.Split(dir, string(filepath.Separator))[0]
}

func permalink(section, slug string) string {
	if section == "" {
		return "/" + slug + "/"
	}
	return "/" + section + "/" + slug + "/"
}

// SortPosts orders posts by publish date, newest first. Undated posts sort
// after every dated one.
func SortPosts(posts []*model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, tj := posts[i].PublishedTime(), posts[j].PublishedTime()
		if ti.IsZero() {
			return false
		}
		if tj.IsZero() {
			return true
		}
		return ti.After(tj)
	})
}

// LoadSite reads site-wide data (person, nav, socials) from a yaml file.
// A missing file yields an empty Site rather than an error.
func LoadSite(path string) (model.Site, error) {
	var site model.Site
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return site, nil
		}
		return site, fmt.Errorf("reading site data %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return site, fmt.Errorf("parsing site data %s: %w", path, err)
	}
	return site, nil
}
