// Command align-mcp provides an MCP server for reminder management.
//
// The server exposes tools for creating reminders from explicit fields or
// natural language, listing, searching, toggling, editing, and deleting
// them. All tools go through the same lifecycle rules as the interactive
// client.
//
// Usage:
//
//	./align-mcp          # Start MCP server (stdio)
//	./align-mcp --help   # Show help
//
// Environment:
//
//	ALIGN_DB_PATH     Path to SQLite database (default: ~/.align/reminders.db)
//	DEEPSEEK_API_KEY  API key enabling model-backed text parsing
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/align-app/align/internal/api"
	"github.com/align-app/align/internal/config"
	"github.com/align-app/align/internal/notify"
	"github.com/align-app/align/internal/parse"
	"github.com/align-app/align/internal/reminder"
	"github.com/align-app/align/internal/schedule"
	"github.com/align-app/align/pkg/logger"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	cfg, err := config.Load(config.GetDefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
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

	var provider api.Provider
	if err := cfg.Validate(); err == nil {
		provider, _ = api.NewProvider(cfg.GetProviderConfig())
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

	s := reminder.NewServer(service)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Reminder Server - reminder management via MCP protocol

USAGE:
    align-mcp          Start MCP server (communicates via stdio)
    align-mcp --help   Show this help

ENVIRONMENT:
    ALIGN_DB_PATH     Path to SQLite database file
                      Default: ~/.align/reminders.db
    DEEPSEEK_API_KEY  API key enabling model-backed text parsing

TOOLS:
    create_reminder    Create a reminder from explicit fields
    create_from_text   Create a reminder from natural language
    list_reminders     List reminders (optional active/inactive filter)
    search_reminders   Search reminders by title or description
    toggle_reminder    Activate or deactivate a reminder
    edit_reminder      Rewrite a reminder's fields
    delete_reminder    Delete a reminder permanently

CONFIGURATION:
    Add to your MCP client configuration:
    {
      "mcpServers": {
        "align-reminders": {
          "command": "/path/to/align-mcp",
          "args": []
        }
      }
    }`)
}
