package analytics

import (
	"context"
	"math"
	"time"

	"github.com/plantheaven/nursery-backend/internal/modules/order"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
	"github.com/plantheaven/nursery-backend/internal/modules/user"
)

const recentOrdersLimit = 10

// timeBuckets lists every time-of-day bucket so the payload is fully
// keyed even with no orders.
var timeBuckets = []string{"morning", "afternoon", "evening", "night"}

var allStatuses = []order.OrderStatus{
	order.StatusPending, order.StatusConfirmed, order.StatusProcessing,
	order.StatusShipped, order.StatusDelivered, order.StatusCancelled,
	order.StatusRefunded,
}

// Service computes the admin dashboard stats.
type Service interface {
	// OrderStats aggregates order, user, and catalog counts. It never
	// mutates anything; calling it twice with no writes in between
	// returns identical results.
	OrderStats(ctx context.Context, start, end *time.Time) (*Stats, error)
}

type service struct {
	repo      Repository
	userRepo  user.Repository
	plantRepo plant.Repository
}

func NewService(repo Repository, userRepo user.Repository, plantRepo plant.Repository) Service {
	return &service{repo: repo, userRepo: userRepo, plantRepo: plantRepo}
}

func (s *service) OrderStats(ctx context.Context, start, end *time.Time) (*Stats, error) {
	stats := &Stats{
		StatusCounts:    map[order.OrderStatus]int{},
		StatusPercent:   map[order.OrderStatus]int{},
		DailySales:      []DailySale{},
		RecentOrders:    []RecentOrder{},
		TimeBasedOrders: map[string]int{},
	}
	for _, st := range allStatuses {
		stats.StatusCounts[st] = 0
	}
	for _, b := range timeBuckets {
		stats.TimeBasedOrders[b] = 0
	}

	counts, err := s.repo.StatusCounts(ctx, start, end)
	if err != nil {
		return nil, err
	}
	total := 0
	for st, n := range counts {
		stats.StatusCounts[st] = n
		total += n
	}
	stats.TotalOrders = total
	for st, n := range stats.StatusCounts {
		if total > 0 {
			stats.StatusPercent[st] = int(math.Round(float64(n) / float64(total) * 100))
		} else {
			stats.StatusPercent[st] = 0
		}
	}

	if sales, err := s.repo.DailySales(ctx, start, end); err != nil {
		return nil, err
	} else if sales != nil {
		stats.DailySales = sales
	}

	if recent, err := s.repo.RecentOrders(ctx, recentOrdersLimit); err != nil {
		return nil, err
	} else if recent != nil {
		stats.RecentOrders = recent
	}

	buckets, err := s.repo.TimeBasedCounts(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for b, n := range buckets {
		stats.TimeBasedOrders[b] = n
	}

	if stats.TotalUsers, err = s.userRepo.CountUsers(ctx); err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = s.plantRepo.CountPlants(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
