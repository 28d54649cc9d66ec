package main

import (
	"fmt"
	"os"

	"github.com/lancebay/contracts-service/internal/auth"
	"github.com/lancebay/contracts-service/internal/config"
	"github.com/lancebay/contracts-service/internal/db"
	"github.com/lancebay/contracts-service/internal/excel"
	httphandler "github.com/lancebay/contracts-service/internal/http"
	"github.com/lancebay/contracts-service/internal/http/middleware"
	"github.com/lancebay/contracts-service/internal/logger"
	"github.com/lancebay/contracts-service/internal/pdf"
	"github.com/lancebay/contracts-service/internal/repository"
	"github.com/lancebay/contracts-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	store := repository.NewStore(database)
	contractService := service.NewContractService(store, pdf.NewGenerator(), excel.NewGenerator())
	notificationService := service.NewNotificationService(store)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, notificationService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contracts service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
