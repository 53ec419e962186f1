package main

import (
	"fmt"
	"os"

	"github.com/aldanj/msp-engagements/internal/auth"
	"github.com/aldanj/msp-engagements/internal/config"
	"github.com/aldanj/msp-engagements/internal/customfields"
	"github.com/aldanj/msp-engagements/internal/db"
	"github.com/aldanj/msp-engagements/internal/excel"
	httphandler "github.com/aldanj/msp-engagements/internal/http"
	"github.com/aldanj/msp-engagements/internal/http/middleware"
	"github.com/aldanj/msp-engagements/internal/logger"
	"github.com/aldanj/msp-engagements/internal/pdf"
	"github.com/aldanj/msp-engagements/internal/repository"
	"github.com/aldanj/msp-engagements/internal/service"
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

	contractRepo := repository.NewContractRepository(database)
	scopeRepo := repository.NewScopeRepository(database)
	proposalRepo := repository.NewProposalRepository(database)
	lookupRepo := repository.NewLookupRepository(database)
	fieldCatalog := customfields.NewCatalog(database)

	contractService := service.NewContractService(contractRepo, lookupRepo, cfg, log)
	scopeService := service.NewScopeService(scopeRepo, contractRepo, proposalRepo, lookupRepo, fieldCatalog, cfg, log)
	proposalService := service.NewProposalService(proposalRepo, scopeRepo, lookupRepo, fieldCatalog, cfg, log)

	excelGenerator := excel.NewGenerator()
	pdfGenerator := pdf.NewGenerator()

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, scopeService, proposalService, excelGenerator, pdfGenerator, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting engagements service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
