package service

import (
	"context"

	"github.com/24BytesCo/workitem-service/internal/domain"
	"github.com/24BytesCo/workitem-service/internal/repository"
	apperrors "github.com/24BytesCo/workitem-service/pkg/util"
)

// CatalogService serves the role and status catalogs for pickers.
type CatalogService struct {
	roles    repository.RoleRepository
	statuses repository.StatusRepository
}

// NewCatalogService constructs the service.
func NewCatalogService(roles repository.RoleRepository, statuses repository.StatusRepository) *CatalogService {
	return &CatalogService{roles: roles, statuses: statuses}
}

// ListRoles returns every role.
func (s *CatalogService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return roles, nil
}

// ListStatuses returns every work-item status.
func (s *CatalogService) ListStatuses(ctx context.Context) ([]domain.WorkItemStatus, error) {
	statuses, err := s.statuses.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return statuses, nil
}
