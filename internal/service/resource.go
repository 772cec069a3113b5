package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/carbook/backend/internal/domain"
	"github.com/pkordes/carbook/backend/internal/repo"
)

// ResourceService implements the administrative operations on bookable
// resources. Operational status is a maintenance concern, independent of the
// booking calendar; the directory filter in ListCandidates is where a
// suspension takes effect.
type ResourceService struct {
	resources repo.ResourceRepo
}

// NewResourceService constructs a ResourceService backed by the provided repo.
func NewResourceService(resources repo.ResourceRepo) *ResourceService {
	return &ResourceService{resources: resources}
}

// Create validates and persists a new resource in available status.
func (s *ResourceService) Create(ctx context.Context, rtype domain.ResourceType, name string) (domain.Resource, error) {
	if _, err := domain.ParseResourceType(string(rtype)); err != nil {
		return domain.Resource{}, err
	}
	if strings.TrimSpace(name) == "" {
		return domain.Resource{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	created, err := s.resources.Create(ctx, domain.Resource{
		Type:              rtype,
		Name:              strings.TrimSpace(name),
		OperationalStatus: domain.OpAvailable,
	})
	if err != nil {
		return domain.Resource{}, fmt.Errorf("service.ResourceService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single resource by ID.
func (s *ResourceService) GetByID(ctx context.Context, id uuid.UUID) (domain.Resource, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return domain.Resource{}, fmt.Errorf("service.ResourceService.GetByID: %w", err)
	}
	return resource, nil
}

// SetOperationalStatus updates a resource's administrative status.
func (s *ResourceService) SetOperationalStatus(ctx context.Context, id uuid.UUID, status domain.OperationalStatus) (domain.Resource, error) {
	if _, err := domain.ParseOperationalStatus(string(status)); err != nil {
		return domain.Resource{}, err
	}

	updated, err := s.resources.UpdateOperationalStatus(ctx, id, status)
	if err != nil {
		return domain.Resource{}, fmt.Errorf("service.ResourceService.SetOperationalStatus: %w", err)
	}
	return updated, nil
}
