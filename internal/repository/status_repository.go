package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/24BytesCo/workitem-service/internal/domain"
)

// StatusRepository exposes the fixed work-item status catalog.
type StatusRepository interface {
	GetByID(ctx context.Context, id string) (*domain.WorkItemStatus, error)
	GetByCode(ctx context.Context, code domain.StatusCode) (*domain.WorkItemStatus, error)
	ListAll(ctx context.Context) ([]domain.WorkItemStatus, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository instantiates the repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) GetByID(ctx context.Context, id string) (*domain.WorkItemStatus, error) {
	const query = `SELECT id, name, code, description FROM work_item_statuses WHERE id=$1`
	var status domain.WorkItemStatus
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&status.ID,
		&status.Name,
		&status.Code,
		&status.Description,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) GetByCode(ctx context.Context, code domain.StatusCode) (*domain.WorkItemStatus, error) {
	const query = `SELECT id, name, code, description FROM work_item_statuses WHERE code=$1`
	var status domain.WorkItemStatus
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&status.ID,
		&status.Name,
		&status.Code,
		&status.Description,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) ListAll(ctx context.Context) ([]domain.WorkItemStatus, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, code, description FROM work_item_statuses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkItemStatus
	for rows.Next() {
		var status domain.WorkItemStatus
		if err := rows.Scan(&status.ID, &status.Name, &status.Code, &status.Description); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}
