package model

import "html/template"

// PageData is the view model handed to every layout template.
type PageData struct {
	SiteTitle string
	PageTitle string
	Summary   string
	Content   template.HTML
	BaseURL   string
	Date      string
	Site      Site
	Post      *Post   // nil on index pages
	Posts     []*Post // section listing, publish-date descending
}
