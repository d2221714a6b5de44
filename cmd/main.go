package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-rental-admin/internal/admin"
	"github.com/ukydev/car-rental-admin/internal/auth"
	"github.com/ukydev/car-rental-admin/internal/availability"
	"github.com/ukydev/car-rental-admin/internal/cars"
	"github.com/ukydev/car-rental-admin/internal/config"
	"github.com/ukydev/car-rental-admin/internal/db"
	"github.com/ukydev/car-rental-admin/internal/handlers"
	"github.com/ukydev/car-rental-admin/internal/middleware"
	"github.com/ukydev/car-rental-admin/internal/reminder"
	"github.com/ukydev/car-rental-admin/internal/rental"
	"github.com/ukydev/car-rental-admin/internal/storage"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.WithError(err).Error("Failed to disconnect from MongoDB")
		}
	}()
	log.WithField("db", cfg.MongoDB).Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	carCol := &db.MongoCarCollection{Collection: database.Collection("cars")}
	rentalCol := &db.MongoRentalCollection{Collection: database.Collection("rentals")}
	reminderCol := &db.MongoReminderCollection{Collection: database.Collection("reminders")}
	userCol := &db.MongoUserCollection{Collection: database.Collection("users")}

	fileStore, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to prepare upload directory")
	}

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	reminderService := reminder.NewService(reminderCol, carCol, rentalCol)
	carService := cars.NewService(carCol, rentalCol, reminderService, fileStore)
	rentalService := rental.NewService(carCol, rentalCol)
	availabilityService := availability.NewService(carCol, rentalCol)
	adminService := admin.NewService(carCol, rentalCol, reminderCol)

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:       handlers.NewAuthHandler(authService, userCol),
		Cars:       handlers.NewCarHandler(carService, availabilityService, fileStore),
		Rentals:    handlers.NewRentalHandler(rentalService, fileStore),
		Reminders:  handlers.NewReminderHandler(reminderService),
		Dashboard:  handlers.NewDashboardHandler(availabilityService),
		Admin:      handlers.NewAdminHandler(adminService),
		AuthMW:     middleware.NewAuthMiddleware(authService),
		RateLimit:  middleware.NewRateLimitMiddleware(),
		RateMax:    cfg.RateLimitMax,
		RateWindow: cfg.RateLimitWindow,
		Timeout:    time.Duration(cfg.RequestTimeout) * time.Second,
		UploadDir:  cfg.UploadDir,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
