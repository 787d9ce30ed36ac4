package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineKey struct {
	userID  uuid.UUID
	plantID uuid.UUID
	size    plant.Size
}

type fakeRepo struct {
	lines  map[lineKey]int
	plants map[uuid.UUID]*plant.Plant
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{lines: map[lineKey]int{}, plants: map[uuid.UUID]*plant.Plant{}}
}

func (r *fakeRepo) UpsertItem(ctx context.Context, userID, plantID uuid.UUID, size plant.Size, quantity int) error {
	r.lines[lineKey{userID, plantID, size}] += quantity
	return nil
}

func (r *fakeRepo) SetQuantity(ctx context.Context, userID, plantID uuid.UUID, size plant.Size, quantity int) error {
	key := lineKey{userID, plantID, size}
	if _, ok := r.lines[key]; !ok {
		return ErrItemNotFound
	}
	r.lines[key] = quantity
	return nil
}

func (r *fakeRepo) RemoveItem(ctx context.Context, userID, plantID uuid.UUID, size plant.Size) error {
	key := lineKey{userID, plantID, size}
	if _, ok := r.lines[key]; !ok {
		return ErrItemNotFound
	}
	delete(r.lines, key)
	return nil
}

func (r *fakeRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	for key := range r.lines {
		if key.userID == userID {
			delete(r.lines, key)
		}
	}
	return nil
}

func (r *fakeRepo) ListItems(ctx context.Context, userID uuid.UUID) ([]*CartItem, error) {
	var items []*CartItem
	for key, qty := range r.lines {
		if key.userID != userID {
			continue
		}
		p := r.plants[key.plantID]
		items = append(items, &CartItem{
			PlantID:   key.plantID,
			Name:      p.Name,
			Size:      key.size,
			Quantity:  qty,
			Price:     p.Prices.For(key.size),
			Available: p.Stock.For(key.size),
			LineTotal: p.Prices.For(key.size) * float64(qty),
		})
	}
	return items, nil
}

func (r *fakeRepo) GetQuantity(ctx context.Context, userID, plantID uuid.UUID, size plant.Size) (int, error) {
	qty, ok := r.lines[lineKey{userID, plantID, size}]
	if !ok {
		return 0, ErrItemNotFound
	}
	return qty, nil
}

type fakePlantRepo struct{ plants map[uuid.UUID]*plant.Plant }

func (r *fakePlantRepo) CreatePlant(ctx context.Context, p *plant.Plant) error { return nil }
func (r *fakePlantRepo) GetPlantByID(ctx context.Context, id string) (*plant.Plant, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, plant.ErrPlantNotFound
	}
	p, ok := r.plants[uid]
	if !ok {
		return nil, plant.ErrPlantNotFound
	}
	return p, nil
}
func (r *fakePlantRepo) ListPlants(ctx context.Context, category string) ([]*plant.Plant, error) {
	return nil, nil
}
func (r *fakePlantRepo) UpdatePlant(ctx context.Context, p *plant.Plant) error { return nil }
func (r *fakePlantRepo) DeletePlant(ctx context.Context, id string) error      { return nil }
func (r *fakePlantRepo) AdjustStock(ctx context.Context, id string, size plant.Size, delta int) (*plant.Plant, error) {
	return nil, nil
}
func (r *fakePlantRepo) CountPlants(ctx context.Context) (int, error) { return len(r.plants), nil }

func newTestService(t *testing.T) (Service, uuid.UUID, string) {
	t.Helper()
	p := &plant.Plant{
		ID:     uuid.New(),
		Name:   "Peace Lily",
		Prices: plant.PriceSet{Small: 80, Medium: 160, Large: 320},
		Stock:  plant.StockSet{Small: 3, Medium: 1},
	}
	repo := newFakeRepo()
	repo.plants[p.ID] = p
	svc := NewService(repo, &fakePlantRepo{plants: repo.plants})
	return svc, p.ID, uuid.New().String()
}

func TestAddItemAndTotals(t *testing.T) {
	svc, plantID, userID := newTestService(t)

	cart, err := svc.AddItem(context.Background(), userID, AddItemRequest{
		PlantID: plantID.String(), Size: "small", Quantity: 2,
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Count)
	assert.Equal(t, 160.0, cart.Subtotal)
	assert.Equal(t, 160.0, cart.Items[0].LineTotal)
}

func TestAddItemChecksStock(t *testing.T) {
	svc, plantID, userID := newTestService(t)

	_, err := svc.AddItem(context.Background(), userID, AddItemRequest{
		PlantID: plantID.String(), Size: "small", Quantity: 4,
	})
	require.ErrorIs(t, err, plant.ErrInsufficientStock)
}

func TestAddItemChecksCombinedQuantity(t *testing.T) {
	svc, plantID, userID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, AddItemRequest{
		PlantID: plantID.String(), Size: "small", Quantity: 2,
	})
	require.NoError(t, err)

	// 2 in the cart + 2 more would exceed the 3 in stock
	_, err = svc.AddItem(ctx, userID, AddItemRequest{
		PlantID: plantID.String(), Size: "small", Quantity: 2,
	})
	require.ErrorIs(t, err, plant.ErrInsufficientStock)

	cart, err := svc.AddItem(ctx, userID, AddItemRequest{
		PlantID: plantID.String(), Size: "small", Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Count)
}

func TestUpdateItemZeroRemoves(t *testing.T) {
	svc, plantID, userID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, AddItemRequest{
		PlantID: plantID.String(), Size: "small", Quantity: 2,
	})
	require.NoError(t, err)

	cart, err := svc.UpdateItem(ctx, userID, plantID.String(), "small", UpdateItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Subtotal)
}

func TestUpdateItemChecksStock(t *testing.T) {
	svc, plantID, userID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, AddItemRequest{
		PlantID: plantID.String(), Size: "medium", Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, userID, plantID.String(), "medium", UpdateItemRequest{Quantity: 2})
	require.ErrorIs(t, err, plant.ErrInsufficientStock)
}

func TestRemoveUnknownItem(t *testing.T) {
	svc, plantID, userID := newTestService(t)

	_, err := svc.RemoveItem(context.Background(), userID, plantID.String(), "large")
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestClearCart(t *testing.T) {
	svc, plantID, userID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, AddItemRequest{
		PlantID: plantID.String(), Size: "small", Quantity: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, userID))

	cart, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
