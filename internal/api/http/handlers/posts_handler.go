package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/simplificateurs/advisory-api/internal/api/dto"
	"github.com/simplificateurs/advisory-api/internal/domain"
	"github.com/simplificateurs/advisory-api/internal/service"
)

// PostsHandler exposes the public blog.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(posts *service.PostService) *PostsHandler {
	return &PostsHandler{posts: posts}
}

// List handles GET /posts with an optional ?category= filter.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	var category *string
	if q := c.Query("category"); q != "" {
		category = &q
	}

	posts, err := h.posts.List(c.UserContext(), category)
	if err != nil {
		return err
	}

	resp := make([]dto.PostSummary, 0, len(posts))
	for i := range posts {
		resp = append(resp, postSummary(&posts[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetBySlug handles GET /posts/:slug.
func (h *PostsHandler) GetBySlug(c *fiber.Ctx) error {
	rendered, err := h.posts.Get(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PostResponse{
		PostSummary: postSummary(&rendered.Post),
		BodyHTML:    rendered.HTML,
	}})
}

func postSummary(post *domain.Post) dto.PostSummary {
	return dto.PostSummary{
		Slug:        post.Slug,
		Title:       post.Title,
		Excerpt:     post.Excerpt,
		Author:      post.Author,
		Category:    post.Category,
		ImageURL:    post.ImageURL,
		ReadMinutes: post.ReadMinutes,
		Featured:    post.Featured,
		PublishedAt: post.PublishedAt,
	}
}
