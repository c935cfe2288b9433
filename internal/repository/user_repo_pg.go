package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyaid/airambulance/internal/domain"
)

type UserRepository interface {
	ActiveByRoles(ctx context.Context, roles []domain.Role) ([]domain.Actor, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

// ActiveByRoles returns all active users holding any of the given roles.
// Used for notification recipient resolution.
func (r *PGUserRepository) ActiveByRoles(ctx context.Context, roles []domain.Role) ([]domain.Actor, error) {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}

	rows, err := r.db.Query(ctx, `SELECT id, email, full_name, coalesce(phone, ''), role, is_active
		FROM users WHERE role = ANY($1) AND is_active`, names)
	if err != nil {
		return nil, fmt.Errorf("%w: query users: %v", domain.ErrDependencyUnavailable, err)
	}
	defer rows.Close()

	users := make([]domain.Actor, 0)
	for rows.Next() {
		var u domain.Actor
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.IsActive); err != nil {
			return nil, fmt.Errorf("%w: scan user: %v", domain.ErrDependencyUnavailable, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query users: %v", domain.ErrDependencyUnavailable, err)
	}
	return users, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
