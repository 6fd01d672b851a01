package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/24BytesCo/workitem-service/internal/domain"
)

// RoleRepository exposes the fixed role catalog.
type RoleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByCode(ctx context.Context, code domain.RoleCode) (*domain.Role, error)
	ListAll(ctx context.Context) ([]domain.Role, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository instantiates the repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	const query = `SELECT id, name, code FROM roles WHERE id=$1`
	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, id).Scan(&role.ID, &role.Name, &role.Code); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetByCode(ctx context.Context, code domain.RoleCode) (*domain.Role, error) {
	const query = `SELECT id, name, code FROM roles WHERE code=$1`
	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, code).Scan(&role.ID, &role.Name, &role.Code); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, code FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Code); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}
