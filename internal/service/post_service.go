package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/simplificateurs/advisory-api/internal/domain"
	"github.com/simplificateurs/advisory-api/internal/repository"
	apperrors "github.com/simplificateurs/advisory-api/pkg/util"
)

// mdRenderer escapes raw HTML in post bodies (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkhtml.WithHardWraps(),
	),
)

// RenderedPost pairs a post with its body converted to HTML.
type RenderedPost struct {
	Post domain.Post
	HTML string
}

// PostService serves blog articles.
type PostService struct {
	posts  repository.PostRepository
	logger *zap.Logger
}

// NewPostService constructs the service.
func NewPostService(posts repository.PostRepository, logger *zap.Logger) *PostService {
	return &PostService{posts: posts, logger: logger}
}

// List returns published posts, newest first, optionally by category.
func (s *PostService) List(ctx context.Context, category *string) ([]domain.Post, error) {
	result, err := s.posts.List(ctx, category)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Get fetches one post with its markdown body rendered to HTML.
func (s *PostService) Get(ctx context.Context, slug string) (*RenderedPost, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", map[string]any{"slug": slug})
		}
		return nil, apperrors.MapError(err)
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(post.Body), &buf); err != nil {
		s.logger.Warn("markdown render failed", zap.String("slug", slug), zap.Error(err))
		return &RenderedPost{Post: *post, HTML: ""}, nil
	}
	return &RenderedPost{Post: *post, HTML: buf.String()}, nil
}
