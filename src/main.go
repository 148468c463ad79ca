package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"

	"tidyfold/src/features/config"
	"tidyfold/src/features/history"
	"tidyfold/src/features/hosting"
	"tidyfold/src/features/logging"
	"tidyfold/src/features/metrics"
	"tidyfold/src/features/monitoring"
	"tidyfold/src/infra/database"
	"tidyfold/src/infra/files"
	"tidyfold/src/infra/logsink"
	"tidyfold/src/infra/notify"
	"tidyfold/src/infra/watcher"
	"tidyfold/src/sorting"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Build the classification table from the configured categories
	rules := make([]sorting.Rule, 0, len(cfgManager.Get().Categories))
	for _, category := range cfgManager.Get().Categories {
		rules = append(rules, sorting.Rule{Name: category.Name, Extensions: category.Extensions})
	}
	table, err := sorting.NewTable(rules)
	if err != nil {
		log.Fatalf("invalid category configuration: %v", err)
	}

	// Create the move history store
	historyStore, err := database.NewSqliteHistory(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to open move history: %v", err)
	}
	defer historyStore.Close()

	// Wire the move event observers: plain-text log, history store, metrics
	hub := notify.NewHub()
	moveLog := logsink.New(cfgManager.Get().MoveLog.Path)
	hub.Subscribe(func(event sorting.MoveEvent) {
		if err := moveLog.Write(event); err != nil {
			slog.Error("Failed to append to move log", "error", err)
		}
	})
	hub.Subscribe(func(event sorting.MoveEvent) {
		record := sorting.Record{
			FileName: event.FileName,
			Category: event.Category,
			Source:   event.Source,
			Dest:     event.Dest,
			MovedAt:  event.Time,
		}
		if err := historyStore.AddMove(context.Background(), &record); err != nil {
			slog.Error("Failed to record move", "error", err)
		}
	})

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	hub.Subscribe(collector.RecordMove)

	// Create the monitoring service
	newWatcher := func(events chan<- monitoring.FileEvent) (monitoring.Watcher, error) {
		return watcher.New(events)
	}
	monitoringService := monitoring.NewService(cfgManager, table, files.NewMover(), hub, collector, newWatcher)

	historyService := history.NewService(historyStore)

	// Create and start the Telegram bot if enabled
	var telegramBot *hosting.TelegramBot
	if cfgManager.Get().Telegram.Enabled {
		var err error
		telegramBot, err = hosting.NewTelegramBot(cfgManager, monitoringService, historyService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			hub.Subscribe(telegramBot.NotifyMove)
			go telegramBot.Start()
			slog.Info("Telegram bot started")
		}
	}

	// Start monitoring right away when configured to
	if cfgManager.Get().Watch.AutoStart && cfgManager.Get().Watch.Root != "" {
		if err := monitoringService.Start(context.Background()); err != nil {
			slog.Error("Failed to auto-start monitoring", "error", err)
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, monitoringService, historyService, registry)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down server...")

	// Stop the active watcher session, if any
	if err := monitoringService.Stop(); err != nil && !errors.Is(err, monitoring.ErrNotRunning) {
		slog.Error("Failed to stop monitoring", "error", err)
	}

	// Shutdown the Telegram bot
	if telegramBot != nil {
		telegramBot.Stop()
		slog.Info("Telegram bot stopped")
	}

	// Shutdown the server
	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
