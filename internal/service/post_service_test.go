package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/simplificateurs/advisory-api/internal/domain"
	apperrors "github.com/simplificateurs/advisory-api/pkg/util"
)

type memPostRepo struct {
	posts []domain.Post
}

func (r *memPostRepo) List(_ context.Context, category *string) ([]domain.Post, error) {
	if category == nil {
		return r.posts, nil
	}
	var out []domain.Post
	for _, post := range r.posts {
		if post.Category == *category {
			out = append(out, post)
		}
	}
	return out, nil
}

func (r *memPostRepo) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	for i := range r.posts {
		if r.posts[i].Slug == slug {
			return &r.posts[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func TestPostListFiltersByCategory(t *testing.T) {
	repo := &memPostRepo{posts: []domain.Post{
		{Slug: "reer-ou-celi", Category: "epargne"},
		{Slug: "assurance-vie", Category: "assurance"},
		{Slug: "budget-familial", Category: "epargne"},
	}}
	svc := NewPostService(repo, zap.NewNop())

	all, err := svc.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("listed %d posts, want 3", len(all))
	}

	category := "epargne"
	filtered, err := svc.List(context.Background(), &category)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("filtered %d posts, want 2", len(filtered))
	}
}

func TestPostGetRendersMarkdown(t *testing.T) {
	repo := &memPostRepo{posts: []domain.Post{{
		Slug:  "reer-ou-celi",
		Title: "REER ou CELI?",
		Body:  "## Comparons\n\nLe **REER** reporte l'impot.",
	}}}
	svc := NewPostService(repo, zap.NewNop())

	rendered, err := svc.Get(context.Background(), "reer-ou-celi")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(rendered.HTML, "<h2") || !strings.Contains(rendered.HTML, "<strong>REER</strong>") {
		t.Fatalf("markdown not rendered: %q", rendered.HTML)
	}
}

func TestPostGetEscapesRawHTML(t *testing.T) {
	repo := &memPostRepo{posts: []domain.Post{{
		Slug: "sournois",
		Body: "<script>alert('x')</script>",
	}}}
	svc := NewPostService(repo, zap.NewNop())

	rendered, err := svc.Get(context.Background(), "sournois")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.Contains(rendered.HTML, "<script>") {
		t.Fatalf("raw html passed through: %q", rendered.HTML)
	}
}

func TestPostGetUnknownSlug(t *testing.T) {
	svc := NewPostService(&memPostRepo{}, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("missing post returned no error")
	}
	if code := apperrors.ToDomainError(err).Code; code != "NOT_FOUND" {
		t.Fatalf("error code %q, want NOT_FOUND", code)
	}
}
