package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simplificateurs/advisory-api/internal/domain"
)

// AppointmentRepository persists consultation leads.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	List(ctx context.Context, limit, offset int) ([]domain.Appointment, error)
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates the repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (name, email, phone, service, message, advisor_id, advisor_slug, assigned_via)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		appointment.Name,
		appointment.Email,
		appointment.Phone,
		appointment.Service,
		appointment.Message,
		appointment.AdvisorID,
		appointment.AdvisorSlug,
		appointment.AssignedVia,
	).Scan(&appointment.ID, &appointment.CreatedAt)
}

func (r *appointmentRepository) List(ctx context.Context, limit, offset int) ([]domain.Appointment, error) {
	query := `
        SELECT id, name, email, phone, service, message, advisor_id, advisor_slug, assigned_via, created_at
        FROM appointments ORDER BY created_at DESC`

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Appointment
	for rows.Next() {
		var appointment domain.Appointment
		if err := rows.Scan(
			&appointment.ID,
			&appointment.Name,
			&appointment.Email,
			&appointment.Phone,
			&appointment.Service,
			&appointment.Message,
			&appointment.AdvisorID,
			&appointment.AdvisorSlug,
			&appointment.AssignedVia,
			&appointment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, appointment)
	}
	return result, rows.Err()
}
