package cart

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

// Service defines cart business logic.
type Service interface {
	// GetCart returns the user's cart with live prices and totals.
	GetCart(ctx context.Context, userID string) (*Cart, error)

	// AddItem adds quantity of a plant size to the cart after checking
	// that the combined quantity is in stock.
	AddItem(ctx context.Context, userID string, req AddItemRequest) (*Cart, error)

	// UpdateItem sets a line's quantity, stock-checked. Zero removes
	// the line.
	UpdateItem(ctx context.Context, userID, plantID, size string, req UpdateItemRequest) (*Cart, error)

	// RemoveItem deletes a line.
	RemoveItem(ctx context.Context, userID, plantID, size string) (*Cart, error)

	// ClearCart empties the cart.
	ClearCart(ctx context.Context, userID string) error
}

type service struct {
	repo      Repository
	plantRepo plant.Repository
}

func NewService(repo Repository, plantRepo plant.Repository) Service {
	return &service{repo: repo, plantRepo: plantRepo}
}

func (s *service) GetCart(ctx context.Context, userID string) (*Cart, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id")
	}
	items, err := s.repo.ListItems(ctx, uid)
	if err != nil {
		return nil, err
	}
	cart := &Cart{UserID: uid, Items: items}
	if cart.Items == nil {
		cart.Items = []*CartItem{}
	}
	for _, item := range cart.Items {
		cart.Subtotal += item.LineTotal
		cart.Count += item.Quantity
	}
	cart.Subtotal = math.Round(cart.Subtotal*100) / 100
	return cart, nil
}

func (s *service) AddItem(ctx context.Context, userID string, req AddItemRequest) (*Cart, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id")
	}
	size := plant.Size(req.Size)
	if !plant.ValidSize(size) {
		return nil, fmt.Errorf("%w: allowed sizes are small, medium, large", plant.ErrInvalidSize)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be a positive number")
	}
	plantID, err := uuid.Parse(req.PlantID)
	if err != nil {
		return nil, plant.ErrPlantNotFound
	}
	p, err := s.plantRepo.GetPlantByID(ctx, req.PlantID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetQuantity(ctx, uid, plantID, size)
	if err != nil && err != ErrItemNotFound {
		return nil, err
	}
	if current+req.Quantity > p.Stock.For(size) {
		return nil, fmt.Errorf("%w: only %d %s available", plant.ErrInsufficientStock, p.Stock.For(size), size)
	}

	if err := s.repo.UpsertItem(ctx, uid, plantID, size, req.Quantity); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *service) UpdateItem(ctx context.Context, userID, plantIDStr, sizeStr string, req UpdateItemRequest) (*Cart, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id")
	}
	size := plant.Size(sizeStr)
	if !plant.ValidSize(size) {
		return nil, fmt.Errorf("%w: allowed sizes are small, medium, large", plant.ErrInvalidSize)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}
	plantID, err := uuid.Parse(plantIDStr)
	if err != nil {
		return nil, plant.ErrPlantNotFound
	}

	if req.Quantity == 0 {
		if err := s.repo.RemoveItem(ctx, uid, plantID, size); err != nil {
			return nil, err
		}
		return s.GetCart(ctx, userID)
	}

	p, err := s.plantRepo.GetPlantByID(ctx, plantIDStr)
	if err != nil {
		return nil, err
	}
	if req.Quantity > p.Stock.For(size) {
		return nil, fmt.Errorf("%w: only %d %s available", plant.ErrInsufficientStock, p.Stock.For(size), size)
	}
	if err := s.repo.SetQuantity(ctx, uid, plantID, size, req.Quantity); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, plantIDStr, sizeStr string) (*Cart, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id")
	}
	size := plant.Size(sizeStr)
	if !plant.ValidSize(size) {
		return nil, fmt.Errorf("%w: allowed sizes are small, medium, large", plant.ErrInvalidSize)
	}
	plantID, err := uuid.Parse(plantIDStr)
	if err != nil {
		return nil, plant.ErrPlantNotFound
	}
	if err := s.repo.RemoveItem(ctx, uid, plantID, size); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *service) ClearCart(ctx context.Context, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id")
	}
	return s.repo.ClearCart(ctx, uid)
}
