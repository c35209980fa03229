// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ContentKind distinguishes tutorials from blog articles. Both share the
// ContentRecord shape and are stored in separate JSON files.
type ContentKind string

const (
	KindTutorials ContentKind = "tutorials"
	KindArticles  ContentKind = "articles"
)

// Valid reports whether k is one of the known content kinds.
func (k ContentKind) Valid() bool {
	return k == KindTutorials || k == KindArticles
}

// Language is the canonical programming-language tag of a tutorial.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
	LanguageHTML       Language = "html"
	LanguageCSS        Language = "css"
	LanguageTS         Language = "ts"
	LanguageNode       Language = "node"
)

// ContentRecord is a tutorial or an article as stored in the content JSON
// files. Slug is the unique key within a store. Date is an ISO-8601 string
// compared lexicographically for ordering.
type ContentRecord struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Explain  string   `json:"explain,omitempty"`
	Content  string   `json:"content,omitempty"`
	Language Language `json:"language,omitempty"`
	Tags     []string `json:"tags"`
	Date     string   `json:"date"`

	// Article-only fields.
	ImageURL string `json:"imageUrl,omitempty"`
	ImageAlt string `json:"imageAlt,omitempty"`
	Author   string `json:"author,omitempty"`
	Link     string `json:"link,omitempty"`
}

// Image is a photo reference returned by the image search. Credit is empty
// for the placeholder.
type Image struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Credit string `json:"credit"`
}
