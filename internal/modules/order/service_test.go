package order

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlantRepo struct {
	plants map[uuid.UUID]*plant.Plant
}

func newFakePlantRepo() *fakePlantRepo {
	return &fakePlantRepo{plants: map[uuid.UUID]*plant.Plant{}}
}

func (r *fakePlantRepo) CreatePlant(ctx context.Context, p *plant.Plant) error {
	r.plants[p.ID] = p
	return nil
}

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
	var out []*plant.Plant
	for _, p := range r.plants {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePlantRepo) UpdatePlant(ctx context.Context, p *plant.Plant) error { return nil }
func (r *fakePlantRepo) DeletePlant(ctx context.Context, id string) error      { return nil }
func (r *fakePlantRepo) CountPlants(ctx context.Context) (int, error)          { return len(r.plants), nil }

func (r *fakePlantRepo) AdjustStock(ctx context.Context, id string, size plant.Size, delta int) (*plant.Plant, error) {
	p, err := r.GetPlantByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Stock.For(size)+delta < 0 {
		return nil, plant.ErrInsufficientStock
	}
	setStock(p, size, p.Stock.For(size)+delta)
	return p, nil
}

func setStock(p *plant.Plant, size plant.Size, qty int) {
	switch size {
	case plant.SizeSmall:
		p.Stock.Small = qty
	case plant.SizeMedium:
		p.Stock.Medium = qty
	case plant.SizeLarge:
		p.Stock.Large = qty
	}
}

// fakeOrderRepo mutates the shared fakePlantRepo's stock the way the
// real repository does: every line must clear its guard or the whole
// order is rejected with the failing lines.
type fakeOrderRepo struct {
	plants *fakePlantRepo
	orders map[uuid.UUID]*Order
}

func newFakeOrderRepo(plants *fakePlantRepo) *fakeOrderRepo {
	return &fakeOrderRepo{plants: plants, orders: map[uuid.UUID]*Order{}}
}

func (r *fakeOrderRepo) CreateOrder(ctx context.Context, o *Order) error {
	var oos []OutOfStockItem
	for _, item := range o.Items {
		p, ok := r.plants.plants[item.PlantID]
		if !ok {
			return plant.ErrPlantNotFound
		}
		if p.Stock.For(item.Size) < item.Quantity {
			oos = append(oos, OutOfStockItem{
				PlantID:   item.PlantID,
				Name:      item.Name,
				Size:      item.Size,
				Requested: item.Quantity,
				Available: p.Stock.For(item.Size),
			})
		}
	}
	if len(oos) > 0 {
		return &OutOfStockError{Items: oos}
	}
	for _, item := range o.Items {
		p := r.plants.plants[item.PlantID]
		setStock(p, item.Size, p.Stock.For(item.Size)-item.Quantity)
	}
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	o, ok := r.orders[uid]
	if !ok {
		return nil, ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *fakeOrderRepo) ListOrders(ctx context.Context, f Filter) ([]*Order, int, error) {
	var out []*Order
	for _, o := range r.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) ListOrdersByUser(ctx context.Context, userID string, page, limit int) ([]*Order, int, error) {
	var out []*Order
	for _, o := range r.orders {
		if o.UserID.String() == userID {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id string, from, to OrderStatus, trackingNumber, notes string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrOrderNotFound
	}
	o, ok := r.orders[uid]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Status != from {
		return &InvalidTransitionError{From: o.Status, To: to, Allowed: AllowedNext(o.Status)}
	}
	o.Status = to
	if trackingNumber != "" {
		o.TrackingNumber = trackingNumber
	}
	return nil
}

func (r *fakeOrderRepo) CancelOrder(ctx context.Context, o *Order) error {
	stored, ok := r.orders[o.ID]
	if !ok {
		return ErrOrderNotFound
	}
	if stored.Status != o.Status {
		return &InvalidTransitionError{From: stored.Status, To: StatusCancelled, Allowed: AllowedNext(stored.Status)}
	}
	for _, item := range stored.Items {
		p := r.plants.plants[item.PlantID]
		setStock(p, item.Size, p.Stock.For(item.Size)+item.Quantity)
	}
	stored.Status = StatusCancelled
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(t *testing.T) (Service, *fakePlantRepo, *fakeOrderRepo, uuid.UUID) {
	t.Helper()
	plants := newFakePlantRepo()
	p := &plant.Plant{
		ID:       uuid.New(),
		Name:     "Monstera Deliciosa",
		Category: "indoor",
		Prices:   plant.PriceSet{Small: 100, Medium: 250, Large: 500},
		Stock:    plant.StockSet{Small: 10, Medium: 5, Large: 2},
	}
	plants.plants[p.ID] = p
	repo := newFakeOrderRepo(plants)
	return NewService(repo, plants, nil, testLogger()), plants, repo, p.ID
}

func validRequest(plantID uuid.UUID, size string, qty int, method string) PlaceOrderRequest {
	req := PlaceOrderRequest{
		Items: []ItemRequest{{PlantID: plantID.String(), Size: size, Quantity: qty}},
		UserDetails: UserDetails{
			FirstName: "Ayesha", LastName: "Khan",
			Email: "ayesha@example.com", Phone: "03001234567",
		},
		ShippingAddress: ShippingAddress{
			Street: "12 Garden Road", City: "Lahore", ZipCode: "54000", Country: "PK",
		},
		PaymentMethod: method,
	}
	if method != "cod" {
		req.PaymentDetails = PaymentDetails{Number: "03001234567"}
	}
	return req
}

func TestPlaceOrderTotalsCOD(t *testing.T) {
	svc, _, _, plantID := newTestService(t)

	// 10 small at 100 each: subtotal 1000, shipping 200, cod 2% = 20
	o, err := svc.PlaceOrder(context.Background(), uuid.New().String(),
		validRequest(plantID, "small", 10, "cod"))
	require.NoError(t, err)

	assert.Equal(t, 1000.0, o.Subtotal)
	assert.Equal(t, 200.0, o.ShippingFee)
	assert.Equal(t, 20.0, o.CODCharges)
	assert.Equal(t, 1220.0, o.TotalAmount)
	assert.Equal(t, StatusPending, o.Status)
}

func TestPlaceOrderTotalsNonCOD(t *testing.T) {
	svc, _, _, plantID := newTestService(t)

	o, err := svc.PlaceOrder(context.Background(), uuid.New().String(),
		validRequest(plantID, "small", 10, "jazzcash"))
	require.NoError(t, err)

	assert.Equal(t, 1000.0, o.Subtotal)
	assert.Equal(t, 0.0, o.CODCharges)
	assert.Equal(t, 1200.0, o.TotalAmount)
}

func TestPlaceOrderDecrementsStock(t *testing.T) {
	svc, plants, _, plantID := newTestService(t)

	_, err := svc.PlaceOrder(context.Background(), uuid.New().String(),
		validRequest(plantID, "small", 4, "cod"))
	require.NoError(t, err)

	assert.Equal(t, 6, plants.plants[plantID].Stock.Small)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	svc, plants, repo, plantID := newTestService(t)

	_, err := svc.PlaceOrder(context.Background(), uuid.New().String(),
		validRequest(plantID, "small", 11, "cod"))
	require.ErrorIs(t, err, ErrOutOfStock)

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	require.Len(t, oos.Items, 1)
	assert.Equal(t, 11, oos.Items[0].Requested)
	assert.Equal(t, 10, oos.Items[0].Available)

	assert.Equal(t, 10, plants.plants[plantID].Stock.Small, "stock must be unchanged")
	assert.Empty(t, repo.orders, "no order may be persisted")
}

func TestPlaceOrderAllOrNothing(t *testing.T) {
	svc, plants, repo, plantID := newTestService(t)

	req := validRequest(plantID, "small", 2, "cod")
	req.Items = append(req.Items, ItemRequest{PlantID: plantID.String(), Size: "large", Quantity: 3})

	_, err := svc.PlaceOrder(context.Background(), uuid.New().String(), req)
	require.ErrorIs(t, err, ErrOutOfStock)

	assert.Equal(t, 10, plants.plants[plantID].Stock.Small)
	assert.Equal(t, 2, plants.plants[plantID].Stock.Large)
	assert.Empty(t, repo.orders)
}

func TestPurchaseThenOrderDrainsStock(t *testing.T) {
	svc, plants, _, plantID := newTestService(t)
	ctx := context.Background()

	plants.plants[plantID].Stock.Small = 5
	_, err := plants.AdjustStock(ctx, plantID.String(), plant.SizeSmall, 3)
	require.NoError(t, err)
	require.Equal(t, 8, plants.plants[plantID].Stock.Small)

	_, err = svc.PlaceOrder(ctx, uuid.New().String(), validRequest(plantID, "small", 8, "cod"))
	require.NoError(t, err)
	assert.Equal(t, 0, plants.plants[plantID].Stock.Small)

	_, err = svc.PlaceOrder(ctx, uuid.New().String(), validRequest(plantID, "small", 1, "cod"))
	require.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 0, plants.plants[plantID].Stock.Small)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, _, _, plantID := newTestService(t)
	userID := uuid.New().String()

	cases := []struct {
		name   string
		mutate func(*PlaceOrderRequest)
	}{
		{"no items", func(r *PlaceOrderRequest) { r.Items = nil }},
		{"bad size", func(r *PlaceOrderRequest) { r.Items[0].Size = "gigantic" }},
		{"zero quantity", func(r *PlaceOrderRequest) { r.Items[0].Quantity = 0 }},
		{"negative quantity", func(r *PlaceOrderRequest) { r.Items[0].Quantity = -2 }},
		{"missing email", func(r *PlaceOrderRequest) { r.UserDetails.Email = "" }},
		{"bad email", func(r *PlaceOrderRequest) { r.UserDetails.Email = "not-an-email" }},
		{"missing street", func(r *PlaceOrderRequest) { r.ShippingAddress.Street = "" }},
		{"bad payment method", func(r *PlaceOrderRequest) { r.PaymentMethod = "bitcoin" }},
		{"wallet without number", func(r *PlaceOrderRequest) {
			r.PaymentMethod = "easypaisa"
			r.PaymentDetails.Number = ""
		}},
		{"negative discount", func(r *PlaceOrderRequest) { r.Discount = -5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest(plantID, "small", 1, "cod")
			tc.mutate(&req)
			_, err := svc.PlaceOrder(context.Background(), userID, req)
			assert.Error(t, err)
		})
	}
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusShipped, StatusPending, false},
		{StatusDelivered, StatusRefunded, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusRefunded, StatusPending, false},
		{StatusConfirmed, StatusProcessing, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestChangeStatusSequence(t *testing.T) {
	svc, _, _, plantID := newTestService(t)
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, uuid.New().String(), validRequest(plantID, "small", 1, "cod"))
	require.NoError(t, err)
	id := o.ID.String()

	// pending may not jump straight to delivered
	_, err = svc.ChangeStatus(ctx, id, UpdateStatusRequest{Status: "delivered"})
	require.ErrorIs(t, err, ErrInvalidTransition)

	o, err = svc.ChangeStatus(ctx, id, UpdateStatusRequest{Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, o.Status)

	// processing must pass through shipped
	_, err = svc.ChangeStatus(ctx, id, UpdateStatusRequest{Status: "delivered"})
	require.ErrorIs(t, err, ErrInvalidTransition)

	o, err = svc.ChangeStatus(ctx, id, UpdateStatusRequest{Status: "shipped", TrackingNumber: "TRK-1"})
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, o.Status)

	o, err = svc.ChangeStatus(ctx, id, UpdateStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, o.Status)

	// delivered only refunds
	_, err = svc.ChangeStatus(ctx, id, UpdateStatusRequest{Status: "shipped"})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestChangeStatusNamesAllowedSet(t *testing.T) {
	svc, _, _, plantID := newTestService(t)
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, uuid.New().String(), validRequest(plantID, "small", 1, "cod"))
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, o.ID.String(), UpdateStatusRequest{Status: "shipped"})
	var it *InvalidTransitionError
	require.ErrorAs(t, err, &it)
	assert.Equal(t, StatusPending, it.From)
	assert.Equal(t, StatusShipped, it.To)
	assert.ElementsMatch(t, []OrderStatus{StatusProcessing, StatusCancelled}, it.Allowed)
}

func TestCancelRestoresStock(t *testing.T) {
	svc, plants, _, plantID := newTestService(t)
	ctx := context.Background()
	userID := uuid.New().String()

	o, err := svc.PlaceOrder(ctx, userID, validRequest(plantID, "small", 4, "cod"))
	require.NoError(t, err)
	require.Equal(t, 6, plants.plants[plantID].Stock.Small)

	cancelled, err := svc.CancelOrder(ctx, o.ID.String(), userID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, 10, plants.plants[plantID].Stock.Small)

	// terminal: nothing moves out of cancelled
	_, err = svc.ChangeStatus(ctx, o.ID.String(), UpdateStatusRequest{Status: "pending"})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelViaChangeStatusRestoresStock(t *testing.T) {
	svc, plants, _, plantID := newTestService(t)
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, uuid.New().String(), validRequest(plantID, "small", 3, "cod"))
	require.NoError(t, err)
	require.Equal(t, 7, plants.plants[plantID].Stock.Small)

	cancelled, err := svc.ChangeStatus(ctx, o.ID.String(), UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, 10, plants.plants[plantID].Stock.Small)
}

func TestRacingCancelRestoresStockOnce(t *testing.T) {
	svc, plants, repo, plantID := newTestService(t)
	ctx := context.Background()
	userID := uuid.New().String()

	o, err := svc.PlaceOrder(ctx, userID, validRequest(plantID, "small", 4, "cod"))
	require.NoError(t, err)
	require.Equal(t, 6, plants.plants[plantID].Stock.Small)

	// A second cancel that read the order before the first one committed
	// carries a stale pending snapshot.
	stale, err := repo.GetOrderByID(ctx, o.ID.String())
	require.NoError(t, err)
	require.Equal(t, StatusPending, stale.Status)

	_, err = svc.CancelOrder(ctx, o.ID.String(), userID, false)
	require.NoError(t, err)
	require.Equal(t, 10, plants.plants[plantID].Stock.Small)

	err = repo.CancelOrder(ctx, stale)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 10, plants.plants[plantID].Stock.Small, "stock must be restored exactly once")
}

func TestStaleStatusUpdateRejected(t *testing.T) {
	svc, _, repo, plantID := newTestService(t)
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, uuid.New().String(), validRequest(plantID, "small", 1, "cod"))
	require.NoError(t, err)
	id := o.ID.String()

	_, err = svc.ChangeStatus(ctx, id, UpdateStatusRequest{Status: "processing"})
	require.NoError(t, err)

	// A writer that still believes the order is pending loses the race.
	err = repo.UpdateStatus(ctx, id, StatusPending, StatusCancelled, "", "")
	require.ErrorIs(t, err, ErrInvalidTransition)

	current, err := repo.GetOrderByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, current.Status)
}

func TestGetOrderOwnership(t *testing.T) {
	svc, _, _, plantID := newTestService(t)
	ctx := context.Background()
	owner := uuid.New().String()

	o, err := svc.PlaceOrder(ctx, owner, validRequest(plantID, "small", 1, "cod"))
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, o.ID.String(), owner, false)
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, o.ID.String(), uuid.New().String(), false)
	require.ErrorIs(t, err, ErrNotOrderOwner)

	_, err = svc.GetOrder(ctx, o.ID.String(), uuid.New().String(), true)
	require.NoError(t, err, "admins read any order")
}

func TestCancelOrderOwnership(t *testing.T) {
	svc, _, _, plantID := newTestService(t)
	ctx := context.Background()
	owner := uuid.New().String()

	o, err := svc.PlaceOrder(ctx, owner, validRequest(plantID, "small", 1, "cod"))
	require.NoError(t, err)

	_, err = svc.CancelOrder(ctx, o.ID.String(), uuid.New().String(), false)
	require.ErrorIs(t, err, ErrNotOrderOwner)
}
