// cmd/agentos/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/agentos-lite/internal/agentclient"
	"github.com/codr1/agentos-lite/internal/app"
	"github.com/codr1/agentos-lite/internal/config"
	"github.com/codr1/agentos-lite/internal/db"
	"github.com/codr1/agentos-lite/internal/prefs"
)

// setupLogger sends logs to a file so they do not interleave with the chat.
func setupLogger(cfg *config.Config) (func(), error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if cfg.IsDevelopment() {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	dir := filepath.Dir(cfg.Storage.Filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "agentos.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { f.Close() }, nil
}

func openPrefs(cfg *config.Config) (prefs.Store, func(), error) {
	if cfg.Storage.Driver == "memory" {
		return prefs.NewMemory(), func() {}, nil
	}
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return prefs.NewSQLite(database, cfg.Storage.Profile), func() { database.Close() }, nil
}

func main() {
	configPath := flag.String("config", "", "Path to config file")
	memory := flag.Bool("memory", false, "Keep preferences in memory only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *memory {
		cfg.Storage.Driver = "memory"
	}

	closeLog, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store, closeStore, err := openPrefs(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open preferences")
		fmt.Fprintf(os.Stderr, "Failed to open preferences: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := agentclient.New(cfg.Agent.BaseURL,
		agentclient.WithTimeout(time.Duration(cfg.Agent.TimeoutSeconds)*time.Second))
	log.Info().
		Str("base_url", client.BaseURL()).
		Str("storage", cfg.Storage.Driver).
		Str("profile", cfg.Storage.Profile).
		Msg("Starting chat client")

	a := app.New(ctx, app.Deps{
		Out:         os.Stdout,
		Prefs:       store,
		Querier:     client,
		PrefersDark: lipgloss.HasDarkBackground,
	})
	defer a.Close()

	if err := a.Run(ctx, os.Stdin); err != nil {
		log.Error().Err(err).Msg("Input loop failed")
	}
}
