package main

import (
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"agilemate/internal/config"
	"agilemate/internal/handler"
	"agilemate/internal/logger"
	"agilemate/internal/model"
	"agilemate/internal/service"

	"github.com/gin-gonic/gin"
	sdk "github.com/matrixorigin/moi-go-sdk"
)

//go:embed dist/*
var staticFS embed.FS

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Init(cfg.Log, cfg.Server.Env)
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := cfg.OpenGormDB()
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(model.All()...); err != nil {
			logger.Error("auto migrate failed", "err", err)
			os.Exit(1)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("db handle failed", "err", err)
		os.Exit(1)
	}

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.TokenTTL())
	aiSvc := service.NewAIService(service.AIConfig{
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		KeyHeader: cfg.LLM.KeyHeader,
		Model:     cfg.LLM.Model,
		Timeout:   cfg.LLMTimeout(),
	})
	if cfg.LLM.APIKey == "" {
		logger.Warn("LLM_API_KEY is empty; summaries will fail until it is set")
	}
	projectSvc := service.NewProjectService(db)
	dailySvc := service.NewDailyService(db)
	summarySvc := service.NewSummaryService(projectSvc, dailySvc, aiSvc, cfg.Summary.Coalesce)

	deps := handler.Deps{
		Env:         cfg.Server.Env,
		DatabaseID:  cfg.Database.Name,
		CORSOrigins: cfg.Server.CORSOrigins,
		DB:          sqlDB,
		Verifier:    tokens,
		Tokens:      tokens,
		Accounts:    service.NewAuthService(db),
		Projects:    projectSvc,
		Updates:     dailySvc,
		Summary:     summarySvc,
	}

	if cfg.CatalogEnabled() {
		raw, err := cfg.NewRawClient()
		if err != nil {
			logger.Warn("sdk client init failed, catalog sync disabled", "err", err)
		} else {
			deps.Mirror = service.NewCatalogSync(raw, service.CatalogTables{
				DatabaseID: sdk.DatabaseID(cfg.MOI.DatabaseID),
				Projects:   sdk.TableID(cfg.MOI.ProjectsTableID),
				Updates:    sdk.TableID(cfg.MOI.UpdatesTableID),
			})
			logger.Info("catalog sync enabled", "database_id", cfg.MOI.DatabaseID)
		}
	}

	distFS, err := fs.Sub(staticFS, "dist")
	if err == nil {
		deps.Static = http.FS(distFS)
	}

	r := handler.NewRouter(deps)
	logger.Info("server starting", "addr", cfg.Addr(), "coalesce", cfg.Summary.Coalesce)
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
