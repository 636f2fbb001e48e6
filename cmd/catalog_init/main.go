package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"agilemate/internal/config"
	"agilemate/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Init(config.LogConfig{Level: "info", Console: true}, cfg.Server.Env)

	client, err := cfg.NewRawClient()
	if err != nil {
		logger.Error("moi client init failed", "err", err)
		os.Exit(1)
	}
	ctx := context.Background()
	catalogID := sdk.CatalogID(cfg.MOI.CatalogID)
	if catalogID == 0 {
		catalogID = 1
	}

	// Step 1: catalog database + tables
	ids, err := initCatalog(ctx, client, catalogID, cfg.Database.Name)
	if err != nil {
		logger.Error("catalog init failed", "err", err)
		os.Exit(1)
	}
	// The server mirrors into these tables once they are configured.
	logger.Info("catalog ready",
		"MOI_DATABASE_ID", ids.DatabaseID,
		"MOI_PROJECTS_TABLE_ID", ids.Projects,
		"MOI_UPDATES_TABLE_ID", ids.Updates)

	// Step 2: NL2SQL knowledge
	if err := initKnowledge(ctx, client); err != nil {
		logger.Error("knowledge init failed", "err", err)
		os.Exit(1)
	}

	logger.Info("=== all done ===")
}
