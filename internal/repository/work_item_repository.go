package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/24BytesCo/workitem-service/internal/domain"
)

// ErrVersionConflict reports a concurrent modification detected by the
// version-guarded update; callers should reload and resubmit.
var ErrVersionConflict = errors.New("work item modified concurrently")

// WorkItemFilter captures list and search parameters. AssignedUserID narrows
// the visible scope; SearchTerm adds a substring match over title,
// description and assignee full name.
type WorkItemFilter struct {
	AssignedUserID *string
	SearchTerm     *string
	Limit          int
	Offset         int
}

// WorkItemRepository encapsulates work-item persistence.
type WorkItemRepository interface {
	Create(ctx context.Context, item *domain.WorkItem) error
	Update(ctx context.Context, item *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter WorkItemFilter) ([]domain.WorkItem, int, error)
}

type workItemRepository struct {
	pool *pgxpool.Pool
}

// NewWorkItemRepository instantiates the repository.
func NewWorkItemRepository(pool *pgxpool.Pool) WorkItemRepository {
	return &workItemRepository{pool: pool}
}

func (r *workItemRepository) Create(ctx context.Context, item *domain.WorkItem) error {
	const query = `
        INSERT INTO work_items (title, description, assigned_user_id, created_by_user_id, status_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.Title,
		item.Description,
		item.AssignedUserID,
		item.CreatedByUserID,
		item.StatusID,
	).Scan(&item.ID, &item.Version, &item.CreatedAt, &item.UpdatedAt)
}

// Update persists the full mutable field set, guarded by the version the
// item was read at. A zero-row result on an existing item means another
// writer got there first.
func (r *workItemRepository) Update(ctx context.Context, item *domain.WorkItem) error {
	const query = `
        UPDATE work_items SET title=$1, description=$2, assigned_user_id=$3, status_id=$4,
            version=version+1, updated_at=NOW()
        WHERE id=$5 AND version=$6`
	cmd, err := r.pool.Exec(ctx, query,
		item.Title,
		item.Description,
		item.AssignedUserID,
		item.StatusID,
		item.ID,
		item.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM work_items WHERE id=$1)`, item.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrVersionConflict
		}
		return pgx.ErrNoRows
	}
	item.Version++
	return nil
}

func (r *workItemRepository) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	const query = `
        SELECT id, title, description, assigned_user_id, created_by_user_id, status_id, version, created_at, updated_at
        FROM work_items WHERE id=$1`
	var item domain.WorkItem
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.AssignedUserID,
		&item.CreatedByUserID,
		&item.StatusID,
		&item.Version,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *workItemRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM work_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// List returns one page plus the total count of the scoped and matched set
// before pagination. Ordering is created_at then id, ascending, so pages are
// stable across calls with no intervening writes.
func (r *workItemRepository) List(ctx context.Context, filter WorkItemFilter) ([]domain.WorkItem, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AssignedUserID != nil {
		args = append(args, *filter.AssignedUserID)
		clauses = append(clauses, fmt.Sprintf("w.assigned_user_id=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(w.title) LIKE %s OR LOWER(w.description) LIKE %s OR LOWER(u.first_name || ' ' || u.last_name) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")
	countQuery := fmt.Sprintf(`
        SELECT COUNT(*)
        FROM work_items w
        JOIN users u ON u.id = w.assigned_user_id
        WHERE %s`, where)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT w.id, w.title, w.description, w.assigned_user_id, w.created_by_user_id, w.status_id,
               w.version, w.created_at, w.updated_at
        FROM work_items w
        JOIN users u ON u.id = w.assigned_user_id
        WHERE %s ORDER BY w.created_at, w.id LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := scanWorkItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func scanWorkItems(rows pgx.Rows) ([]domain.WorkItem, error) {
	var result []domain.WorkItem
	for rows.Next() {
		var item domain.WorkItem
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Description,
			&item.AssignedUserID,
			&item.CreatedByUserID,
			&item.StatusID,
			&item.Version,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
