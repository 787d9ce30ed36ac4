package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/plantheaven/nursery-backend/internal/config"
	"github.com/plantheaven/nursery-backend/internal/modules/analytics"
	"github.com/plantheaven/nursery-backend/internal/modules/auth"
	"github.com/plantheaven/nursery-backend/internal/modules/booking"
	"github.com/plantheaven/nursery-backend/internal/modules/cart"
	"github.com/plantheaven/nursery-backend/internal/modules/notification"
	"github.com/plantheaven/nursery-backend/internal/modules/order"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
	"github.com/plantheaven/nursery-backend/internal/modules/purchase"
	"github.com/plantheaven/nursery-backend/internal/modules/user"
	"github.com/plantheaven/nursery-backend/internal/modules/waste"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("database ping: %v", err)
	}
	log.Info("connected to the database")

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	secret := []byte(cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(secret)
	requireAuth := authMiddleware.RequireAuth
	requireAdmin := authMiddleware.RequireAdmin

	// Identity
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router, requireAuth, requireAdmin)

	authService := auth.NewService(userRepo, secret)
	auth.NewHandler(authService).RegisterRoutes(router)

	// Catalog & stock
	plantRepo := plant.NewPostgresRepository(db)
	plantService := plant.NewService(plantRepo)
	plant.NewHandler(plantService).RegisterRoutes(router, requireAuth, requireAdmin)

	purchaseRepo := purchase.NewPostgresRepository(db)
	purchaseService := purchase.NewService(purchaseRepo, plantRepo, log)
	purchase.NewHandler(purchaseService).RegisterRoutes(router, requireAuth, requireAdmin)

	wasteRepo := waste.NewPostgresRepository(db)
	wasteService := waste.NewService(wasteRepo, log)
	waste.NewHandler(wasteService).RegisterRoutes(router, requireAuth, requireAdmin)

	// Orders
	notificationRepo := notification.NewPostgresRepository(db)
	notificationService := notification.NewService(notificationRepo, log)
	notification.NewHandler(notificationService).RegisterRoutes(router, requireAuth, requireAdmin)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, plantRepo, notificationService, log)
	order.NewHandler(orderService).RegisterRoutes(router, requireAuth, requireAdmin)

	cartRepo := cart.NewPostgresRepository(db)
	cartService := cart.NewService(cartRepo, plantRepo)
	cart.NewHandler(cartService).RegisterRoutes(router, requireAuth)

	// Dashboard & services
	analyticsRepo := analytics.NewPostgresRepository(db)
	analyticsService := analytics.NewService(analyticsRepo, userRepo, plantRepo)
	analytics.NewHandler(analyticsService).RegisterRoutes(router, requireAuth, requireAdmin)

	bookingRepo := booking.NewPostgresRepository(db)
	bookingService := booking.NewService(bookingRepo, log)
	booking.NewHandler(bookingService).RegisterRoutes(router, requireAuth, requireAdmin)

	log.Infof("nursery API server starting on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
