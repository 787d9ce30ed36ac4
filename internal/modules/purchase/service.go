package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
	"github.com/sirupsen/logrus"
)

// Service defines purchase recording business logic.
type Service interface {
	// RecordPurchase validates the request, increments stock, and persists
	// the purchase atomically. Returns the record and the updated plant.
	RecordPurchase(ctx context.Context, req RecordPurchaseRequest) (*Purchase, *plant.Plant, error)

	// ListPurchases returns all purchases, newest first.
	ListPurchases(ctx context.Context) ([]*Purchase, error)

	// Receipt renders a plain-text receipt for a recorded purchase.
	Receipt(ctx context.Context, id string) (string, error)

	// MonthlyReport renders a plain-text report of a calendar month's purchases.
	MonthlyReport(ctx context.Context, year, month int) (string, error)
}

type service struct {
	repo      Repository
	plantRepo plant.Repository
	log       *logrus.Logger
}

// NewService creates a new purchase service.
func NewService(repo Repository, plantRepo plant.Repository, log *logrus.Logger) Service {
	return &service{repo: repo, plantRepo: plantRepo, log: log}
}

func (s *service) RecordPurchase(ctx context.Context, req RecordPurchaseRequest) (*Purchase, *plant.Plant, error) {
	if req.PlantID == "" || req.NurseryName == "" {
		return nil, nil, fmt.Errorf("plant_id and nursery_name are required")
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

	p := &Purchase{
		ID:          uuid.New(),
		PlantID:     plantID,
		NurseryName: req.NurseryName,
		Size:        size,
		Quantity:    req.Quantity,
	}
	updated, err := s.repo.RecordPurchase(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	s.log.Infof("purchase %s recorded: +%d %s of plant %s from %s",
		p.ID, p.Quantity, p.Size, p.PlantID, p.NurseryName)
	return p, updated, nil
}

func (s *service) ListPurchases(ctx context.Context) ([]*Purchase, error) {
	return s.repo.ListPurchases(ctx)
}

func (s *service) Receipt(ctx context.Context, id string) (string, error) {
	p, err := s.repo.GetPurchaseByID(ctx, id)
	if err != nil {
		return "", err
	}
	pl, err := s.plantRepo.GetPlantByID(ctx, p.PlantID.String())
	if err != nil {
		return "", err
	}
	return renderReceipt(p, pl), nil
}

func (s *service) MonthlyReport(ctx context.Context, year, month int) (string, error) {
	if month < 1 || month > 12 {
		return "", fmt.Errorf("invalid year or month")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	purchases, err := s.repo.ListPurchasesBetween(ctx, start, end)
	if err != nil {
		return "", err
	}
	return renderMonthlyReport(purchases, year, month), nil
}
