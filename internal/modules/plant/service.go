package plant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service defines plant catalog business logic.
type Service interface {
	// CreatePlant adds a new plant with its per-size prices and opening stock.
	CreatePlant(ctx context.Context, req CreatePlantRequest) (*Plant, error)

	// GetPlant retrieves a plant by UUID.
	GetPlant(ctx context.Context, id string) (*Plant, error)

	// ListPlants returns the catalog, optionally filtered by category.
	ListPlants(ctx context.Context, category string) ([]*Plant, error)

	// UpdatePlant edits catalog fields of an existing plant.
	UpdatePlant(ctx context.Context, id string, req UpdatePlantRequest) (*Plant, error)

	// DeletePlant removes a plant from the catalog.
	DeletePlant(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService creates a new plant service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreatePlant(ctx context.Context, req CreatePlantRequest) (*Plant, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Category == "" {
		return nil, fmt.Errorf("category is required")
	}
	if req.Prices.Small <= 0 || req.Prices.Medium <= 0 || req.Prices.Large <= 0 {
		return nil, fmt.Errorf("all size prices must be positive")
	}
	if req.Stock.Small < 0 || req.Stock.Medium < 0 || req.Stock.Large < 0 {
		return nil, fmt.Errorf("stock quantities cannot be negative")
	}
	if req.Rating < 0 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 0 and 5")
	}

	p := &Plant{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Rating:      req.Rating,
		Prices:      req.Prices,
		Stock:       req.Stock,
	}
	if err := s.repo.CreatePlant(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetPlant(ctx context.Context, id string) (*Plant, error) {
	return s.repo.GetPlantByID(ctx, id)
}

func (s *service) ListPlants(ctx context.Context, category string) ([]*Plant, error) {
	return s.repo.ListPlants(ctx, category)
}

func (s *service) UpdatePlant(ctx context.Context, id string, req UpdatePlantRequest) (*Plant, error) {
	p, err := s.repo.GetPlantByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.ImageURL != "" {
		p.ImageURL = req.ImageURL
	}
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 5 {
			return nil, fmt.Errorf("rating must be between 0 and 5")
		}
		p.Rating = *req.Rating
	}
	if req.Prices != nil {
		if req.Prices.Small <= 0 || req.Prices.Medium <= 0 || req.Prices.Large <= 0 {
			return nil, fmt.Errorf("all size prices must be positive")
		}
		p.Prices = *req.Prices
	}
	if err := s.repo.UpdatePlant(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeletePlant(ctx context.Context, id string) error {
	return s.repo.DeletePlant(ctx, id)
}
