// Package service wires configuration, the root resolver, the resolution
// journal and the toolchain accessors into one session-scoped object.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/go-ports/projroot/internal/config"
	"github.com/go-ports/projroot/internal/history"
	"github.com/go-ports/projroot/internal/logger"
	"github.com/go-ports/projroot/internal/models"
	"github.com/go-ports/projroot/internal/resolver"
	"github.com/go-ports/projroot/internal/toolchain"
)

// Session is the editor-facing state: one fixed workspace root and whichever
// document currently has focus.
type Session struct {
	mu        sync.RWMutex
	workspace string
	document  string
}

// CurrentDocument implements resolver.DocumentProvider.
func (s *Session) CurrentDocument() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document, s.document != ""
}

// WorkspaceRoot implements resolver.WorkspaceProvider.
func (s *Session) WorkspaceRoot() string { return s.workspace }

// Focus sets the active document. An empty path means nothing has focus.
func (s *Session) Focus(document string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = document
}

// Service orchestrates root resolution for one workspace.
type Service struct {
	Home    string
	Config  *config.Config
	Session *Session

	resolver *resolver.Resolver
	tools    *toolchain.Accessors
	journal  *history.DB // nil when history is disabled

	// mu makes focus+resolve atomic for concurrent MCP calls.
	mu sync.Mutex
}

// Options tune New. The zero value uses the OS filesystem and environment.
type Options struct {
	FS     afero.Fs
	Getenv func(string) string
}

// New initialises a Service rooted at home for the given workspace.
// If home is empty it is resolved via config.GetHome; an empty workspace
// means the current directory.
func New(home, workspace string, opts Options) (*Service, error) {
	if home == "" {
		home = config.GetHome()
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	if workspace == "" {
		if workspace, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("service.New: workspace: %w", err)
		}
	}
	workspace, err = filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("service.New: workspace: %w", err)
	}

	s := &Service{
		Home:    home,
		Config:  cfg,
		Session: &Session{workspace: workspace},
		tools:   toolchain.NewAccessors(cfg.Tools, opts.Getenv),
	}
	s.resolver = resolver.New(s.Session, s.Session, opts.FS, resolver.WithMarker(cfg.Project.Marker))

	if cfg.History.Enabled {
		journal, err := history.Open(filepath.Join(home, "history.db"))
		if err != nil {
			return nil, fmt.Errorf("service.New: open history: %w", err)
		}
		s.journal = journal
	}
	return s, nil
}

// Close releases all resources held by the service.
func (s *Service) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}

// Workspace returns the absolute workspace root.
func (s *Service) Workspace() string { return s.Session.WorkspaceRoot() }

// Remembered exposes the resolver's remembered root.
func (s *Service) Remembered() (string, bool) { return s.resolver.Remembered() }

// ---------------------------------------------------------------------------
// Resolution
// ---------------------------------------------------------------------------

// ResolveRoot focuses document (empty for none) and resolves the project root.
// Every outcome is journaled; journal failures are logged and never fail the call.
func (s *Service) ResolveRoot(ctx context.Context, document string) (*resolver.Resolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if document != "" && !filepath.IsAbs(document) {
		document = filepath.Join(s.Workspace(), document)
	}
	s.Session.Focus(document)

	res, err := s.resolver.Resolve(ctx)
	if err != nil {
		var rerr *resolver.ResolutionError
		if errors.As(err, &rerr) {
			logger.Debug().Str("document", document).Str("attempts", rerr.Trail()).Msg("no project root")
		}
		s.record(ctx, models.NewFailed(s.Workspace(), document, err))
		return nil, err
	}

	logger.Debug().Str("root", res.Root).Str("strategy", string(res.Strategy)).Msg("project root resolved")
	s.record(ctx, models.NewResolved(res.Workspace, res.Document, res.Root, string(res.Strategy)))
	return res, nil
}

// record journals rec when history is enabled (non-fatal).
func (s *Service) record(ctx context.Context, rec *models.Record) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, rec); err != nil {
		logger.Warn().Err(err).Msg("history: record failed")
	}
}

// ---------------------------------------------------------------------------
// Toolchain
// ---------------------------------------------------------------------------

// ToolPaths returns every configured tool location.
func (s *Service) ToolPaths() toolchain.Paths { return s.tools.All() }

// Sysroot asks the configured compiler for its sysroot.
func (s *Service) Sysroot(ctx context.Context) (string, error) {
	return toolchain.Sysroot(ctx, s.tools.RustcPath(), s.Config.Sysroot.Timeout)
}

// ---------------------------------------------------------------------------
// History
// ---------------------------------------------------------------------------

// ErrHistoryDisabled is returned by history operations when the journal is off.
var ErrHistoryDisabled = errors.New("history is disabled (history.enabled: false)")

// History returns recent resolutions for this workspace, newest first.
// A non-positive limit uses history.limit from config.
func (s *Service) History(ctx context.Context, limit int) ([]*models.Record, error) {
	if s.journal == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = s.Config.History.Limit
	}
	return s.journal.Recent(ctx, limit, s.Workspace())
}

// ClearHistory deletes every journaled resolution.
func (s *Service) ClearHistory(ctx context.Context) (int64, error) {
	if s.journal == nil {
		return 0, ErrHistoryDisabled
	}
	return s.journal.Clear(ctx)
}
