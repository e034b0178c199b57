package dto

import "time"

// PostSummary is the blog listing shape.
type PostSummary struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	ReadMinutes int       `json:"read_minutes"`
	Featured    bool      `json:"featured"`
	PublishedAt time.Time `json:"published_at"`
}

// PostResponse is the full article with rendered body.
type PostResponse struct {
	PostSummary
	BodyHTML string `json:"body_html"`
}
