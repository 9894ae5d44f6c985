package model

import (
	"html/template"
	"time"
)

// Post represents a single content record (blog post or project write-up).
// It is built once from its source file and never mutated afterwards.
type Post struct {
	Slug        string
	Section     string // top-level content directory, e.g. "blog" or "work"
	SourcePath  string
	Permalink   string
	Metadata    PostMetadata
	Content     []byte        // raw markdown body, frontmatter stripped
	ContentHTML template.HTML // filled in by the build step
}

// PostMetadata mirrors the frontmatter block of a content file.
type PostMetadata struct {
	Title         string       `yaml:"title"`
	Summary       string       `yaml:"summary"`
	PublishedAt   string       `yaml:"publishedAt"`
	Images        []string     `yaml:"images"`
	Team          []TeamMember `yaml:"team"`
	DeploymentURL string       `yaml:"deployment_url"`
	GithubURL     string       `yaml:"github_url"`
	Layout        string       `yaml:"layout"`
}

// TeamMember credits a collaborator on a project post.
type TeamMember struct {
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Avatar   string `yaml:"avatar"`
	LinkedIn string `yaml:"linkedIn"`
}

// PublishedTime parses the frontmatter date. A post with no date, or an
// unparseable one, reports the zero time and sorts after everything dated.
func (p *Post) PublishedTime() time.Time {
	formats := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}
	for _, f := range formats {
		if t, err := time.Parse(f, p.Metadata.PublishedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Site holds site-wide data loaded from site.yaml.
type Site struct {
	Person Person       `yaml:"person"`
	Nav    []NavItem    `yaml:"nav"`
	Social []SocialLink `yaml:"social"`
}

// Person describes the site owner.
type Person struct {
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Avatar   string `yaml:"avatar"`
	Location string `yaml:"location"`
}

type NavItem struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type SocialLink struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
	Link string `yaml:"link"`
}

// SiteData holds everything the build step accumulates before page generation.
type SiteData struct {
	Site  Site
	Posts []*Post
	// Posts partitioned by section, each slice kept in publish order.
	BySection map[string][]*Post
}
