package waste

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
	"github.com/sirupsen/logrus"
)

// Service defines waste recording business logic.
type Service interface {
	// RecordWaste validates the request, decrements stock (rejecting
	// underflow), and persists the record atomically.
	RecordWaste(ctx context.Context, req RecordWasteRequest) (*Waste, *plant.Plant, error)

	// ListWaste returns all waste records, newest first.
	ListWaste(ctx context.Context) ([]*Waste, error)

	// MonthlyReport renders a plain-text report of a calendar month's waste.
	MonthlyReport(ctx context.Context, year, month int) (string, error)
}

type service struct {
	repo Repository
	log  *logrus.Logger
}

// NewService creates a new waste service.
func NewService(repo Repository, log *logrus.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) RecordWaste(ctx context.Context, req RecordWasteRequest) (*Waste, *plant.Plant, error) {
	if req.PlantID == "" {
		return nil, nil, fmt.Errorf("plant_id is required")
	}
	size := plant.Size(req.Size)
	if !plant.ValidSize(size) {
		return nil, nil, fmt.Errorf("%w: allowed sizes are small, medium, large", plant.ErrInvalidSize)
	}
	if req.Quantity <= 0 {
		return nil, nil, fmt.Errorf("quantity must be a positive number")
	}
	plantID, err := uuid.Parse(req.PlantID)
	if err != nil {
		return nil, nil, plant.ErrPlantNotFound
	}

	w := &Waste{
		ID:       uuid.New(),
		PlantID:  plantID,
		Size:     size,
		Quantity: req.Quantity,
		Reason:   req.Reason,
	}
	updated, err := s.repo.RecordWaste(ctx, w)
	if err != nil {
		return nil, nil, err
	}
	s.log.Infof("waste %s recorded: -%d %s of plant %s (%s)",
		w.ID, w.Quantity, w.Size, w.PlantID, w.Reason)
	return w, updated, nil
}

func (s *service) ListWaste(ctx context.Context) ([]*Waste, error) {
	return s.repo.ListWaste(ctx)
}

func (s *service) MonthlyReport(ctx context.Context, year, month int) (string, error) {
	if month < 1 || month > 12 {
		return "", fmt.Errorf("invalid year or month")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	records, err := s.repo.ListWasteBetween(ctx, start, end)
	if err != nil {
		return "", err
	}
	return renderMonthlyReport(records, year, month), nil
}
