// Package mcp provides the stdio MCP server exposing project-root tools for
// coding agents.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/projroot/internal/buildinfo"
	"github.com/go-ports/projroot/internal/logger"
	"github.com/go-ports/projroot/internal/models"
	"github.com/go-ports/projroot/internal/resolver"
	"github.com/go-ports/projroot/internal/service"
)

const projectRootDescription = `Resolve the project root for a file in this workspace. The root is the nearest directory at or above the document that contains the project marker (Cargo.toml by default). When no document is given, or the document has no marker above it, the last successfully resolved root is reused, then the workspace root itself. Call this before running cargo or any tool that must start in the crate directory.` //nolint:lll

const toolPathsDescription = `List where the Rust tools live: racer, rustfmt, rustsym, cargo, rustc, the standard library source (RUST_SRC_PATH) and CARGO_HOME. Configured paths win over the environment; unset commands fall back to their bare names.` //nolint:lll

const sysrootDescription = `Ask the configured compiler for its sysroot ("rustc --print sysroot"). Fails if the compiler cannot be started, exits non-zero, or does not answer within the configured timeout.` //nolint:lll

const historyDescription = `Show recent project-root resolutions for this workspace, newest first, including failed ones and which strategy (document, remembered, workspace) produced each root.` //nolint:lll

// NewServer creates and registers all project-root tools on a new MCP server.
// It is intentionally separate from Serve so that tests and other callers can
// obtain a fully configured server without committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("projroot", buildinfo.Version, mcpserver.WithRecovery())
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server for workspace, blocking until stdin
// closes or ctx is cancelled.
func Serve(ctx context.Context, home, workspace string) error {
	svc, err := service.New(home, workspace, service.Options{})
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer svc.Close()

	logger.Info().Str("workspace", svc.Workspace()).Msg("mcp: serving on stdio")
	return mcpserver.NewStdioServer(NewServer(svc)).Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools wires all four MCP tools into the server.
func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("project_root",
		mcp.WithDescription(projectRootDescription),
		mcp.WithString("document",
			mcp.Description("Path of the file being worked on. Relative paths are taken from the workspace root. Omit when no file is open."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleProjectRoot(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("tool_paths",
		mcp.WithDescription(toolPathsDescription),
	), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.ToolPaths())
	})

	s.AddTool(mcp.NewTool("toolchain_sysroot",
		mcp.WithDescription(sysrootDescription),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sysroot, err := svc.Sysroot(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"sysroot": sysroot})
	})

	s.AddTool(mcp.NewTool("resolution_history",
		mcp.WithDescription(historyDescription),
		mcp.WithNumber("limit",
			mcp.Description("Max records (default from history.limit, 20; at most 1000)"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleHistory(ctx, svc, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleProjectRoot(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := svc.ResolveRoot(ctx, req.GetString("document", ""))
	if err != nil {
		return mcp.NewToolResultError(failureText(err)), nil
	}
	return jsonResult(map[string]any{
		"root":      res.Root,
		"strategy":  res.Strategy,
		"document":  res.Document,
		"workspace": res.Workspace,
	})
}

func handleHistory(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := svc.History(ctx, req.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if recs == nil {
		recs = make([]*models.Record, 0)
	}
	return jsonResult(map[string]any{
		"workspace": svc.Workspace(),
		"showing":   len(recs),
		"records":   recs,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// failureText renders a resolution failure with every strategy that was tried.
func failureText(err error) string {
	var rerr *resolver.ResolutionError
	if !errors.As(err, &rerr) || len(rerr.Attempts) == 0 {
		return err.Error()
	}
	return err.Error() + " (tried " + rerr.Trail() + ")"
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
