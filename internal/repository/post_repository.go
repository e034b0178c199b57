package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simplificateurs/advisory-api/internal/domain"
)

// PostRepository reads blog articles.
type PostRepository interface {
	List(ctx context.Context, category *string) ([]domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository instantiates the repository.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

const postColumns = `id, slug, title, excerpt, body, author, category, image_url, read_minutes, featured, published_at, created_at`

func (r *postRepository) List(ctx context.Context, category *string) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	args := []any{}
	if category != nil && *category != "" {
		args = append(args, *category)
		query += ` WHERE category=$1`
	}
	query += ` ORDER BY published_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Post
	for rows.Next() {
		var post domain.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	return result, rows.Err()
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	const query = `SELECT ` + postColumns + ` FROM posts WHERE slug=$1`

	var post domain.Post
	if err := scanPost(r.pool.QueryRow(ctx, query, slug), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func scanPost(row pgx.Row, post *domain.Post) error {
	return row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Excerpt,
		&post.Body,
		&post.Author,
		&post.Category,
		&post.ImageURL,
		&post.ReadMinutes,
		&post.Featured,
		&post.PublishedAt,
		&post.CreatedAt,
	)
}
