package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/model"
	"github.com/danieln3m0/POSLas4as/internal/repository"

	"github.com/google/uuid"
)

type LocationService interface {
	CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error)
	ListLocations(ctx context.Context) ([]dto.LocationResponse, error)
}

type locationService struct {
	repo repository.LocationRepository
}

func NewLocationService(repo repository.LocationRepository) LocationService {
	return &locationService{repo: repo}
}

func (s *locationService) CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	kind := model.LocationType(strings.ToUpper(req.Type))
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown location type %s", model.ErrValidation, req.Type)
	}
	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.Conflict("location %s already exists", name)
	}

	l := &model.Location{
		ID:          uuid.New(),
		Name:        name,
		Type:        kind,
		Address:     req.Address,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	resp := locationToResponse(l)
	return &resp, nil
}

func (s *locationService) ListLocations(ctx context.Context) ([]dto.LocationResponse, error) {
	locations, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, locationToResponse(&locations[i]))
	}
	return out, nil
}
