package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gofinances/internal/api"
	"gofinances/internal/cache"
	"gofinances/internal/cli"
	"gofinances/internal/events"
	applog "gofinances/internal/log"
	"gofinances/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gofinances:", err)
		os.Exit(1)
	}
}

func run() error {
	cli.LoadEnvFile()
	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}

	logger, closer, err := cli.SetupFileLogger(cfg, "gofinances")
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := api.NewClient(cfg.APIBaseURL,
		api.WithTimeout(cfg.APITimeout),
		api.WithToken(cfg.APIToken),
		api.WithLogger(logger))
	if err != nil {
		return err
	}

	listCache := cache.NewLRUCache[api.TransactionList](1, cfg.ListCacheTTL)
	caches := cache.NewManager(logger)
	caches.Register(listCache)
	if cfg.ListCacheTTL > 0 {
		caches.StartCleanup(cfg.ListCacheTTL)
	}
	defer caches.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.New(ctx, tui.Config{
		Client: client,
		Broker: events.NewBroker(),
		Cache:  listCache,
		Logger: logger,
	})
	defer model.Close()

	logger.Info("Starting gofinances", "api", cfg.APIBaseURL)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		logger.Error("UI exited with error", applog.FieldError, err)
		return err
	}
	return nil
}
