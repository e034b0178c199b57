package domain

import "time"

// Post is a blog article. Body holds markdown; rendering happens at the
// service layer on read.
type Post struct {
	ID          string
	Slug        string
	Title       string
	Excerpt     string
	Body        string
	Author      string
	Category    string
	ImageURL    string
	ReadMinutes int
	Featured    bool
	PublishedAt time.Time
	CreatedAt   time.Time
}
