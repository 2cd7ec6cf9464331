package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aki/sqlmux/internal/dispatch"
	"github.com/aki/sqlmux/internal/session"
	"github.com/aki/sqlmux/internal/textunit"
)

// registerTools registers all sqlmux tools
func (s *Server) registerTools() {
	// sql_exec tool
	s.mcpServer.AddTool(mcp.NewTool("sql_exec",
		mcp.WithDescription("Execute a unit of SQL from a document. Resolves the statement, paragraph, region, or whole buffer around the cursor and sends it to the surface's session."),
		mcp.WithString("surface",
			mcp.Description("Edit surface identity, e.g. the document path"),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("Full document text"),
			mcp.Required(),
		),
		mcp.WithString("unit",
			mcp.Description("Unit to execute (default: statement)"),
			mcp.Enum("statement", "paragraph", "region", "buffer"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Cursor byte offset in the document"),
		),
		mcp.WithNumber("region_start",
			mcp.Description("Region start offset (unit=region)"),
		),
		mcp.WithNumber("region_end",
			mcp.Description("Region end offset (unit=region)"),
		),
		mcp.WithBoolean("persist",
			mcp.Description("Bind the resolved session to the surface"),
		),
	), s.handleSQLExec)

	// session_list tool
	s.mcpServer.AddTool(mcp.NewTool("session_list",
		mcp.WithDescription("List registered database sessions, most recent first. Unbound surfaces route to the first entry."),
	), s.handleSessionList)

	// session_register tool
	s.mcpServer.AddTool(mcp.NewTool("session_register",
		mcp.WithDescription("Register a database session so it becomes discoverable for routing."),
		mcp.WithString("label",
			mcp.Description("Display label, e.g. the database name"),
			mcp.Required(),
		),
		mcp.WithString("driver",
			mcp.Description("Database driver (pgx, sqlite3, ...)"),
			mcp.Required(),
		),
		mcp.WithString("dsn",
			mcp.Description("Connection string"),
			mcp.Required(),
		),
	), s.handleSessionRegister)

	// session_bind tool
	s.mcpServer.AddTool(mcp.NewTool("session_bind",
		mcp.WithDescription("Explicitly bind a surface to a session. The binding is sticky: later dispatches from the surface skip discovery."),
		mcp.WithString("surface",
			mcp.Description("Edit surface identity"),
			mcp.Required(),
		),
		mcp.WithString("session",
			mcp.Description("Session ID or label"),
			mcp.Required(),
		),
	), s.handleSessionBind)

	// table_lookup tool
	s.mcpServer.AddTool(mcp.NewTool("table_lookup",
		mcp.WithDescription("Verify a name (e.g. the identifier under the cursor) refers to a table in the surface's session. Matches on the unqualified table name."),
		mcp.WithString("surface",
			mcp.Description("Edit surface identity"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Table name, qualified or unqualified"),
			mcp.Required(),
		),
	), s.handleTableLookup)
}

// handleSQLExec handles the sql_exec tool
func (s *Server) handleSQLExec(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	surface, ok := args["surface"].(string)
	if !ok || surface == "" {
		return nil, fmt.Errorf("invalid or missing surface argument")
	}
	text, ok := args["text"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid or missing text argument")
	}

	unit := textunit.KindStatement
	if raw, ok := args["unit"].(string); ok && raw != "" {
		parsed, err := textunit.ParseKind(raw)
		if err != nil {
			return nil, err
		}
		unit = parsed
	}

	req := dispatch.Request{
		Surface:     surface,
		Unit:        unit,
		Text:        text,
		Offset:      intArg(args, "offset"),
		RegionStart: intArg(args, "region_start"),
		RegionEnd:   intArg(args, "region_end"),
	}
	if persist, ok := args["persist"].(bool); ok {
		req.Persist = persist
	}

	result, err := s.dispatcher.Run(ctx, req)
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			return nil, fmt.Errorf("no active session; register one with session_register")
		}
		return nil, err
	}

	return jsonResult(result)
}

// handleSessionList handles the session_list tool
func (s *Server) handleSessionList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}

	bindings := s.router.Bindings()
	surfaces := make(map[string][]string)
	for surface, h := range bindings {
		surfaces[h.ID] = append(surfaces[h.ID], surface)
	}

	type entry struct {
		ID            string   `json:"id"`
		Label         string   `json:"label"`
		Driver        string   `json:"driver"`
		RegisteredAt  string   `json:"registered_at"`
		BoundSurfaces []string `json:"bound_surfaces,omitempty"`
	}

	entries := make([]entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, entry{
			ID:            rec.ID,
			Label:         rec.Label,
			Driver:        rec.Driver,
			RegisteredAt:  rec.RegisteredAt.Format("2006-01-02T15:04:05Z07:00"),
			BoundSurfaces: surfaces[rec.ID],
		})
	}

	return jsonResult(map[string]any{"sessions": entries})
}

// handleSessionRegister handles the session_register tool
func (s *Server) handleSessionRegister(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	label, ok := args["label"].(string)
	if !ok || label == "" {
		return nil, fmt.Errorf("invalid or missing label argument")
	}
	driver, ok := args["driver"].(string)
	if !ok || driver == "" {
		return nil, fmt.Errorf("invalid or missing driver argument")
	}
	dsn, ok := args["dsn"].(string)
	if !ok || dsn == "" {
		return nil, fmt.Errorf("invalid or missing dsn argument")
	}

	rec, err := s.registry.Register(ctx, session.Record{Label: label, Driver: driver, DSN: dsn})
	if err != nil {
		return nil, err
	}

	return jsonResult(map[string]string{"id": rec.ID, "label": rec.Label})
}

// handleSessionBind handles the session_bind tool
func (s *Server) handleSessionBind(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	surface, ok := args["surface"].(string)
	if !ok || surface == "" {
		return nil, fmt.Errorf("invalid or missing surface argument")
	}
	identifier, ok := args["session"].(string)
	if !ok || identifier == "" {
		return nil, fmt.Errorf("invalid or missing session argument")
	}

	rec, err := s.registry.Find(ctx, identifier)
	if err != nil {
		return nil, err
	}

	h := rec.Handle()
	s.router.Bind(surface, h)
	if s.bindings != nil {
		if err := s.bindings.Put(ctx, surface, h); err != nil {
			return nil, err
		}
	}

	return jsonResult(map[string]string{"surface": surface, "session": h.Label})
}

// handleTableLookup handles the table_lookup tool
func (s *Server) handleTableLookup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	surface, ok := args["surface"].(string)
	if !ok || surface == "" {
		return nil, fmt.Errorf("invalid or missing surface argument")
	}
	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("invalid or missing name argument")
	}

	h, matched, err := s.dispatcher.LookupTable(ctx, surface, name)
	if err != nil {
		return nil, err
	}

	return jsonResult(map[string]string{"table": matched, "session": h.Label})
}

// intArg extracts a JSON number argument as an int
func intArg(args map[string]interface{}, key string) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return 0
}

// jsonResult builds a text tool result from JSON-marshalled content
func jsonResult(content interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(data),
			},
		},
	}, nil
}
