package dto

import "time"

// TeamMemberRequest payload for admin create/update.
type TeamMemberRequest struct {
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	Email        string  `json:"email"`
	IsLeader     bool    `json:"is_leader"`
	Description  *string `json:"description"`
	Phone        *string `json:"phone"`
	LinkedIn     *string `json:"linkedin"`
	Facebook     *string `json:"facebook"`
	DisplayOrder int     `json:"display_order"`
}

// TeamMemberResponse mirrors the public team member record.
type TeamMemberResponse struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Email        string    `json:"email"`
	PhotoURL     *string   `json:"photo_url"`
	IsLeader     bool      `json:"is_leader"`
	Description  *string   `json:"description"`
	Phone        *string   `json:"phone"`
	LinkedIn     *string   `json:"linkedin"`
	Facebook     *string   `json:"facebook"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
