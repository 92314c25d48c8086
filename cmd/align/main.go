// Command align is the interactive reminder client. Plain input is parsed
// into a scheduled reminder, with a model-backed resolver when configured
// and a deterministic fallback otherwise.
//
// Usage:
//
//	./align                       # Start interactive session
//	./align --provider ollama     # Override the configured model provider
//	./align --no-color            # Disable colored output
//
// Environment:
//
//	DEEPSEEK_API_KEY   API key for the deepseek provider
//	ALIGN_DB_PATH      Path to SQLite database (default: ~/.align/reminders.db)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/align-app/align/internal/api"
	"github.com/align-app/align/internal/config"
	"github.com/align-app/align/internal/notify"
	"github.com/align-app/align/internal/parse"
	"github.com/align-app/align/internal/reminder"
	"github.com/align-app/align/internal/repl"
	"github.com/align-app/align/internal/schedule"
	"github.com/align-app/align/pkg/logger"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	providerName := flag.String("provider", "", "Provider to use (deepseek, ollama)")
	modelName := flag.String("model", "", "Model name (overrides config)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI flag overrides
	if *providerName != "" {
		cfg.Provider = *providerName
	}
	if *modelName != "" {
		cfg.Model.Name = *modelName
	}

	log := logger.New(cfg.Log.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	store, err := reminder.NewStore(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Text still parses without a provider; the resolver falls back to its
	// deterministic path.
	var provider api.Provider
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: %v; parsing text without the model\n", err)
		if cfg.Provider == config.ProviderDeepSeek {
			fmt.Fprintf(os.Stderr, "Tip: Set DEEPSEEK_API_KEY environment variable or add it to config file\n")
		}
	} else {
		provider, err = api.NewProvider(cfg.GetProviderConfig())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Note: failed to create provider (%v); parsing text without the model\n", err)
			provider = nil
		}
	}
	if provider != nil {
		defer provider.Close()
	}

	var sink notify.Sink = notify.LogSink{Log: log}
	if cfg.Notify.Telegram.BotToken != "" && cfg.Notify.Telegram.ChatID != "" {
		sink = notify.NewTelegramSink(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
	}

	notifier := notify.NewLocalNotifier(sink, cfg.Notify.Enabled, notify.NewSetup(nil), log)
	defer notifier.Close()

	scheduler := schedule.New(notifier, log)
	resolver := parse.NewResolver(provider, cfg.GetProviderConfig().Model, log)
	service := reminder.NewService(store, scheduler, resolver, log)

	ctx := context.Background()

	// Catch up on anything that came due since the last session, then
	// re-arm what remains.
	if err := service.RestoreTriggers(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to restore triggers: %v\n", err)
	}

	// Fired triggers during the session feed back into the lifecycle so
	// daily reminders roll over and one-shots deactivate.
	go func() {
		for ev := range notifier.Events() {
			if err := service.OnTriggerFired(ctx, ev.Payload.ReminderID, ev.Payload.IsDaily); err != nil {
				log.WithError(err).Error("Failed to handle fired trigger")
			}
		}
	}()

	r, err := repl.NewREPL(service, !*noColor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating REPL: %v\n", err)
		os.Exit(1)
	}

	if err := r.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
