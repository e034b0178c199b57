package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simplificateurs/advisory-api/internal/domain"
)

// AdvisorRepository handles persistence for team member records. List always
// returns the full pool ordered by display_order; this order is what the
// rotation assigner cycles through.
type AdvisorRepository interface {
	Create(ctx context.Context, advisor *domain.Advisor) error
	Update(ctx context.Context, advisor *domain.Advisor) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Advisor, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Advisor, error)
	List(ctx context.Context) ([]domain.Advisor, error)
}

type advisorRepository struct {
	pool *pgxpool.Pool
}

// NewAdvisorRepository instantiates the repository.
func NewAdvisorRepository(pool *pgxpool.Pool) AdvisorRepository {
	return &advisorRepository{pool: pool}
}

const advisorColumns = `id, slug, name, role, email, photo_url, is_leader, description, phone, linkedin, facebook, display_order, created_at, updated_at`

func (r *advisorRepository) Create(ctx context.Context, advisor *domain.Advisor) error {
	const query = `
        INSERT INTO team_members (slug, name, role, email, photo_url, is_leader, description, phone, linkedin, facebook, display_order)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		advisor.Slug,
		advisor.Name,
		advisor.Role,
		advisor.Email,
		advisor.PhotoURL,
		advisor.IsLeader,
		advisor.Description,
		advisor.Phone,
		advisor.LinkedIn,
		advisor.Facebook,
		advisor.DisplayOrder,
	).Scan(&advisor.ID, &advisor.CreatedAt, &advisor.UpdatedAt)
}

func (r *advisorRepository) Update(ctx context.Context, advisor *domain.Advisor) error {
	const query = `
        UPDATE team_members
        SET slug=$1, name=$2, role=$3, email=$4, photo_url=$5, is_leader=$6, description=$7, phone=$8, linkedin=$9, facebook=$10, display_order=$11, updated_at=NOW()
        WHERE id=$12`

	cmd, err := r.pool.Exec(ctx, query,
		advisor.Slug,
		advisor.Name,
		advisor.Role,
		advisor.Email,
		advisor.PhotoURL,
		advisor.IsLeader,
		advisor.Description,
		advisor.Phone,
		advisor.LinkedIn,
		advisor.Facebook,
		advisor.DisplayOrder,
		advisor.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *advisorRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *advisorRepository) GetByID(ctx context.Context, id string) (*domain.Advisor, error) {
	const query = `SELECT ` + advisorColumns + ` FROM team_members WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *advisorRepository) GetBySlug(ctx context.Context, slug string) (*domain.Advisor, error) {
	const query = `SELECT ` + advisorColumns + ` FROM team_members WHERE slug=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, slug))
}

func (r *advisorRepository) List(ctx context.Context) ([]domain.Advisor, error) {
	const query = `SELECT ` + advisorColumns + ` FROM team_members ORDER BY display_order, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Advisor
	for rows.Next() {
		var advisor domain.Advisor
		if err := rows.Scan(
			&advisor.ID,
			&advisor.Slug,
			&advisor.Name,
			&advisor.Role,
			&advisor.Email,
			&advisor.PhotoURL,
			&advisor.IsLeader,
			&advisor.Description,
			&advisor.Phone,
			&advisor.LinkedIn,
			&advisor.Facebook,
			&advisor.DisplayOrder,
			&advisor.CreatedAt,
			&advisor.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, advisor)
	}
	return result, rows.Err()
}

func (r *advisorRepository) scanOne(row pgx.Row) (*domain.Advisor, error) {
	var advisor domain.Advisor
	if err := row.Scan(
		&advisor.ID,
		&advisor.Slug,
		&advisor.Name,
		&advisor.Role,
		&advisor.Email,
		&advisor.PhotoURL,
		&advisor.IsLeader,
		&advisor.Description,
		&advisor.Phone,
		&advisor.LinkedIn,
		&advisor.Facebook,
		&advisor.DisplayOrder,
		&advisor.CreatedAt,
		&advisor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &advisor, nil
}
