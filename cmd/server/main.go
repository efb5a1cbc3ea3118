package main

import (
	"context"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"carrental/internal/api"
	"carrental/internal/config"
	"carrental/internal/service"
	"carrental/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	st, err := openStore(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer st.Close()
	log.WithField("driver", cfg.DBDriver).Info("store opened")

	notify := service.NewNotifyService(cfg, log)
	cars := service.NewCarService(st, log)
	rentals := service.NewRentalService(st, notify, log)
	adminAuth := service.NewAdminAuthService(st, cfg.JWTSecret, log)
	jobs := service.NewJobService(st, log)

	if err := adminAuth.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.WithError(err).Fatal("failed to seed admin account")
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@daily", func() {
		if err := jobs.ReportOverdueRentals(context.Background()); err != nil {
			log.WithError(err).Error("overdue rental sweep failed")
		}
	}); err != nil {
		log.WithError(err).Fatal("failed to schedule overdue sweep")
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := api.NewRouter(cars, rentals, adminAuth, cfg.JWTSecret, log)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{cfg.AllowedOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	server := handlers.LoggingHandler(log.Writer(), cors(router))

	log.WithField("port", cfg.Port).Info("server listening")
	if err := http.ListenAndServe(":"+cfg.Port, server); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DBDriver == config.DriverSQLite {
		return store.OpenSQLite(cfg.SQLitePath)
	}
	return store.OpenPostgres(cfg.DatabaseURL)
}
