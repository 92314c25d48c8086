// Command alignd is the reminder daemon. It restores triggers for persisted
// active reminders, fires notifications when they come due, and rolls daily
// reminders over to their next occurrence.
//
// Usage:
//
//	./alignd                  # Run until SIGINT/SIGTERM
//	./alignd --help           # Show help
//
// SIGUSR1 forces a reconciliation pass that deactivates one-shot reminders
// whose time passed while the daemon was not running.
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

	"github.com/align-app/align/internal/api"
	"github.com/align-app/align/internal/config"
	"github.com/align-app/align/internal/notify"
	"github.com/align-app/align/internal/parse"
	"github.com/align-app/align/internal/reminder"
	"github.com/align-app/align/internal/schedule"
	"github.com/align-app/align/pkg/logger"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		log.WithError(err).Fatal("Failed to create data directory")
	}

	store, err := reminder.NewStore(cfg.Store.Path)
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	defer store.Close()

	// The daemon never resolves free text itself, but a configured provider
	// keeps the wiring identical across binaries.
	var provider api.Provider
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Warn("Model provider unavailable, using deterministic parsing only")
	} else {
		provider, err = api.NewProvider(cfg.GetProviderConfig())
		if err != nil {
			log.WithError(err).Warn("Failed to create provider, using deterministic parsing only")
			provider = nil
		}
	}
	if provider != nil {
		defer provider.Close()
	}

	var sink notify.Sink = notify.LogSink{Log: log}
	if cfg.Notify.Telegram.BotToken != "" && cfg.Notify.Telegram.ChatID != "" {
		sink = notify.NewTelegramSink(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
		log.Info("Delivering notifications via Telegram")
	}

	notifier := notify.NewLocalNotifier(sink, cfg.Notify.Enabled, notify.NewSetup(nil), log)
	defer notifier.Close()

	scheduler := schedule.New(notifier, log)
	resolver := parse.NewResolver(provider, cfg.GetProviderConfig().Model, log)
	service := reminder.NewService(store, scheduler, resolver, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := service.RestoreTriggers(ctx); err != nil {
		log.WithError(err).Error("Failed to restore triggers")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)

	log.Info("alignd running")

	for {
		select {
		case ev := <-notifier.Events():
			if err := service.OnTriggerFired(ctx, ev.Payload.ReminderID, ev.Payload.IsDaily); err != nil {
				log.WithError(err).WithField("reminder_id", ev.Payload.ReminderID).
					Error("Failed to handle fired trigger")
			}

		case sig := <-sigCh:
			if sig == syscall.SIGUSR1 {
				if err := service.ReconcileOnForeground(ctx, time.Now()); err != nil {
					log.WithError(err).Error("Reconciliation failed")
				}
				continue
			}

			log.WithField("signal", sig.String()).Info("Shutting down")
			return
		}
	}
}
