// Crafting cost MCP server: prices crafted items against live auction data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wowcraft/craftcost-server/internal/craftcost/config"
	"github.com/wowcraft/craftcost-server/internal/craftcost/db"
	"github.com/wowcraft/craftcost-server/internal/craftcost/engine"
	"github.com/wowcraft/craftcost-server/internal/craftcost/itemdb"
	"github.com/wowcraft/craftcost-server/internal/craftcost/market"
	"github.com/wowcraft/craftcost-server/internal/craftcost/mcp"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "craftcost.yaml", "Path to YAML config file")
	dbPath := flag.String("db", "", "Path to SQLite database (overrides config)")
	itemsPath := flag.String("items", "", "Path to the item database JSON (overrides config)")
	restore := flag.Bool("restore", true, "Re-select the last used realm on startup")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Optional .env, then config file; flags and env win over both
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *itemsPath != "" {
		cfg.ItemsPath = *itemsPath
	}
	if baseURL := os.Getenv("NEXUSHUB_BASE_URL"); baseURL != "" {
		cfg.Nexushub.BaseURL = baseURL
	}

	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
	}()

	// Open database
	database, err := db.OpenAndInit(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	// Load the static item database
	items, err := itemdb.Load(cfg.ItemsPath)
	if err != nil {
		logger.Error("failed to load item database", "path", cfg.ItemsPath, "error", err)
		os.Exit(1)
	}
	logger.Info("item database loaded", "path", cfg.ItemsPath, "items", len(items))

	// Wire market data source and engine
	client := market.NewClient(cfg.Nexushub.BaseURL)
	loader := market.NewLoader(client, db.NewSnapshotStore(database), cfg.Nexushub.CacheTTL(), logger)
	eng := engine.New(items, client, loader, database, logger)

	if *restore {
		if err := eng.RestoreLastRealm(ctx); err != nil {
			logger.Warn("failed to restore last realm", "error", err)
		}
	}

	// Run MCP server
	server := mcp.NewServer(eng, logger)
	logger.Info("starting MCP server", "db", cfg.DBPath)
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "server stopped")
}
