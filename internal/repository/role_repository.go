package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simplificateurs/advisory-api/internal/domain"
)

// RoleRepository answers role-membership questions. HasRole is the
// server-side authority behind every admin check.
type RoleRepository interface {
	Grant(ctx context.Context, userID string, role domain.Role) error
	HasRole(ctx context.Context, userID string, role domain.Role) (bool, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository instantiates the repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Grant(ctx context.Context, userID string, role domain.Role) error {
	const query = `
        INSERT INTO user_roles (user_id, role)
        VALUES ($1, $2)
        ON CONFLICT (user_id, role) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, userID, role)
	return err
}

func (r *roleRepository) HasRole(ctx context.Context, userID string, role domain.Role) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id=$1 AND role=$2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, role).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
