package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/24BytesCo/workitem-service/internal/domain"
	"github.com/24BytesCo/workitem-service/internal/repository"
)

// In-memory repository fakes mirroring the Postgres implementations'
// contracts: pgx.ErrNoRows for missing rows, version-guarded updates, and
// created_at/id ordering for listings.

type fakeUserRepo struct {
	users []domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	for i := range f.users {
		if f.users[i].ID == user.ID {
			f.users[i] = *user
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, int, error) {
	total := len(f.users)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]domain.User, end-offset)
	copy(page, f.users[offset:end])
	return page, total, nil
}

func (f *fakeUserRepo) Search(_ context.Context, term string, limit, offset int) ([]domain.User, int, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	matched := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		haystack := strings.ToLower(user.FullName() + " " + user.Email)
		if strings.Contains(haystack, needle) {
			matched = append(matched, user)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeRoleRepo struct {
	roles []domain.Role
}

func (f *fakeRoleRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	for i := range f.roles {
		if f.roles[i].ID == id {
			role := f.roles[i]
			return &role, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeRoleRepo) GetByCode(_ context.Context, code domain.RoleCode) (*domain.Role, error) {
	for i := range f.roles {
		if f.roles[i].Code == code {
			role := f.roles[i]
			return &role, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeRoleRepo) ListAll(_ context.Context) ([]domain.Role, error) {
	return append([]domain.Role{}, f.roles...), nil
}

type fakeStatusRepo struct {
	statuses []domain.WorkItemStatus
}

func (f *fakeStatusRepo) GetByID(_ context.Context, id string) (*domain.WorkItemStatus, error) {
	for i := range f.statuses {
		if f.statuses[i].ID == id {
			status := f.statuses[i]
			return &status, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStatusRepo) GetByCode(_ context.Context, code domain.StatusCode) (*domain.WorkItemStatus, error) {
	for i := range f.statuses {
		if f.statuses[i].Code == code {
			status := f.statuses[i]
			return &status, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStatusRepo) ListAll(_ context.Context) ([]domain.WorkItemStatus, error) {
	return append([]domain.WorkItemStatus{}, f.statuses...), nil
}

type fakeWorkItemRepo struct {
	items []domain.WorkItem
	users *fakeUserRepo
	clock time.Time

	// conflictNext makes the next Update fail as if a concurrent writer
	// committed between read and write.
	conflictNext bool
}

func (f *fakeWorkItemRepo) Create(_ context.Context, item *domain.WorkItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	f.clock = f.clock.Add(time.Second)
	item.Version = 1
	item.CreatedAt = f.clock
	item.UpdatedAt = f.clock
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeWorkItemRepo) Update(_ context.Context, item *domain.WorkItem) error {
	if f.conflictNext {
		f.conflictNext = false
		return repository.ErrVersionConflict
	}
	for i := range f.items {
		if f.items[i].ID == item.ID {
			if f.items[i].Version != item.Version {
				return repository.ErrVersionConflict
			}
			item.Version++
			item.UpdatedAt = time.Now()
			f.items[i] = *item
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeWorkItemRepo) GetByID(_ context.Context, id string) (*domain.WorkItem, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeWorkItemRepo) Delete(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeWorkItemRepo) List(_ context.Context, filter repository.WorkItemFilter) ([]domain.WorkItem, int, error) {
	matched := make([]domain.WorkItem, 0, len(f.items))
	for _, item := range f.items {
		if filter.AssignedUserID != nil && item.AssignedUserID != *filter.AssignedUserID {
			continue
		}
		if filter.SearchTerm != nil && !f.matches(item, *filter.SearchTerm) {
			continue
		}
		matched = append(matched, item)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := len(matched)
	offset := filter.Offset
	if offset >= total {
		return nil, total, nil
	}
	end := offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeWorkItemRepo) matches(item domain.WorkItem, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(item.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Description), needle) {
		return true
	}
	if user, err := f.users.GetByID(context.Background(), item.AssignedUserID); err == nil {
		return strings.Contains(strings.ToLower(user.FullName()), needle)
	}
	return false
}
