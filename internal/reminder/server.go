package reminder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "align-reminders"
	serverVersion = "1.0.0"
)

// Server is the MCP server exposing reminder management tools. All tools
// route through the lifecycle Service so MCP clients observe the same
// activation and scheduling rules as the interactive client.
type Server struct {
	mcpServer *server.MCPServer
	service   *Service
}

// NewServer creates the reminder MCP server backed by the given service.
func NewServer(service *Service) *Server {
	s := &Server{
		service: service,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	// create_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("create_reminder",
			mcp.WithDescription("Create a reminder from explicit fields"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
			mcp.WithString("date", mcp.Required(), mcp.Description("Date in YYYY-MM-DD format")),
			mcp.WithString("time", mcp.Required(), mcp.Description("Time of day in 24-hour HH:MM format")),
			mcp.WithString("description", mcp.Description("Optional description")),
			mcp.WithBoolean("daily", mcp.Description("Repeat every day at the given time (default: false)")),
		),
		s.handleCreateReminder,
	)

	// create_from_text
	s.mcpServer.AddTool(
		mcp.NewTool("create_from_text",
			mcp.WithDescription("Create a reminder from natural language, e.g. 'Call mom tomorrow at 3pm' or 'Exercise every day at 7am'"),
			mcp.WithString("text", mcp.Required(), mcp.Description("Free-form reminder text")),
		),
		s.handleCreateFromText,
	)

	// list_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List reminders, optionally filtered by status (active or inactive)"),
			mcp.WithString("status", mcp.Description("Filter by status: active, inactive, or empty for all")),
		),
		s.handleListReminders,
	)

	// search_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("search_reminders",
			mcp.WithDescription("Search reminders by title or description, case-insensitive"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
		),
		s.handleSearchReminders,
	)

	// toggle_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("toggle_reminder",
			mcp.WithDescription("Activate or deactivate a reminder"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithBoolean("active", mcp.Required(), mcp.Description("true to activate, false to deactivate")),
		),
		s.handleToggleReminder,
	)

	// edit_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("edit_reminder",
			mcp.WithDescription("Rewrite a reminder's fields"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("title", mcp.Required(), mcp.Description("New title")),
			mcp.WithString("date", mcp.Required(), mcp.Description("New date in YYYY-MM-DD format")),
			mcp.WithString("time", mcp.Required(), mcp.Description("New time of day in 24-hour HH:MM format")),
			mcp.WithString("description", mcp.Description("New description")),
			mcp.WithBoolean("daily", mcp.Description("Repeat every day at the given time")),
		),
		s.handleEditReminder,
	)

	// delete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)
}

func formFromRequest(req mcp.CallToolRequest) FormData {
	return FormData{
		Title:       req.GetString("title", ""),
		Description: req.GetString("description", ""),
		Date:        req.GetString("date", ""),
		Clock:       req.GetString("time", ""),
		RepeatDaily: req.GetBool("daily", false),
	}
}

func (s *Server) handleCreateReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, err := s.service.CreateFromForm(ctx, formFromRequest(req))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create reminder: %v", err)), nil
	}

	output, _ := json.MarshalIndent(r, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleCreateFromText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	r, fields, err := s.service.ConfirmText(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create reminder: %v", err)), nil
	}

	result := struct {
		Reminder     *Reminder `json:"reminder"`
		UsedFallback bool      `json:"usedFallback"`
	}{r, fields.UsedFallback}

	output, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := req.GetString("status", "")

	var (
		reminders []*Reminder
		err       error
	)
	switch status {
	case "active":
		reminders, err = s.service.ListActive(ctx)
	case "inactive":
		reminders, err = s.service.ListInactive(ctx)
	case "":
		reminders, err = s.service.Search(ctx, "")
	default:
		return mcp.NewToolResultError("status must be active, inactive, or empty"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	output, _ := json.MarshalIndent(reminders, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleSearchReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	reminders, err := s.service.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to search reminders: %v", err)), nil
	}

	if len(reminders) == 0 {
		return mcp.NewToolResultText("No matching reminders."), nil
	}

	output, _ := json.MarshalIndent(reminders, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleToggleReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	active := req.GetBool("active", false)

	r, err := s.service.Toggle(ctx, id, active)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle reminder: %v", err)), nil
	}

	output, _ := json.MarshalIndent(r, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleEditReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	r, err := s.service.Edit(ctx, id, formFromRequest(req))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to edit reminder: %v", err)), nil
	}

	output, _ := json.MarshalIndent(r, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleDeleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.service.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s deleted.", id)), nil
}
