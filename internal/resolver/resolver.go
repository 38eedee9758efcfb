// Package resolver decides which directory is the project root for a
// workspace, falling back from the active document to the last good root to
// the workspace root itself.
package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/go-ports/projroot/internal/logger"
	"github.com/go-ports/projroot/internal/marker"
)

// DefaultMarker is the file whose presence makes a directory a project root.
const DefaultMarker = "Cargo.toml"

// Strategy names one link of the fallback chain.
type Strategy string

const (
	StrategyDocument   Strategy = "document"
	StrategyRemembered Strategy = "remembered"
	StrategyWorkspace  Strategy = "workspace"
)

// DocumentProvider reports the document currently in focus, if any.
type DocumentProvider interface {
	CurrentDocument() (string, bool)
}

// WorkspaceProvider reports the single workspace root.
type WorkspaceProvider interface {
	WorkspaceRoot() string
}

// PathChecker is the existence predicate used for direct marker checks.
type PathChecker interface {
	Exists(path string) bool
}

// MarkerFinder performs the ascending marker search.
type MarkerFinder interface {
	FindUpward(startDir, name, ceiling string) (string, bool)
}

// DocumentFunc adapts a function to DocumentProvider.
type DocumentFunc func() (string, bool)

// CurrentDocument calls f.
func (f DocumentFunc) CurrentDocument() (string, bool) { return f() }

// WorkspaceFunc adapts a function to WorkspaceProvider.
type WorkspaceFunc func() string

// WorkspaceRoot calls f.
func (f WorkspaceFunc) WorkspaceRoot() string { return f() }

// Resolution is a successfully resolved root and how it was found.
type Resolution struct {
	Root      string
	Strategy  Strategy
	Document  string
	Workspace string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMarker overrides DefaultMarker.
func WithMarker(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.marker = name
		}
	}
}

// WithFinder replaces the ascending search primitive.
func WithFinder(f MarkerFinder) Option {
	return func(r *Resolver) { r.finder = f }
}

// WithPathChecker replaces the existence predicate.
func WithPathChecker(p PathChecker) Option {
	return func(r *Resolver) { r.checker = p }
}

// Resolver runs the fallback chain and owns the remembered root.
// A Resolver is meant to live as long as the host session.
type Resolver struct {
	docs    DocumentProvider
	ws      WorkspaceProvider
	finder  MarkerFinder
	checker PathChecker
	marker  string

	mu         sync.Mutex
	remembered string
}

// New creates a Resolver. fs backs the default finder and checker; nil means
// the OS filesystem.
func New(docs DocumentProvider, ws WorkspaceProvider, fs afero.Fs, opts ...Option) *Resolver {
	f := marker.NewFinder(fs)
	r := &Resolver{
		docs:    docs,
		ws:      ws,
		finder:  f,
		checker: f,
		marker:  DefaultMarker,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Marker returns the marker file name in use.
func (r *Resolver) Marker() string { return r.marker }

// Remembered returns the last root derived from an active document.
func (r *Resolver) Remembered() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remembered, r.remembered != ""
}

// ResolveRoot returns the project root directory.
func (r *Resolver) ResolveRoot(ctx context.Context) (string, error) {
	res, err := r.Resolve(ctx)
	if err != nil {
		return "", err
	}
	return res.Root, nil
}

type state int

const (
	stateTryDocument state = iota
	stateTryRemembered
	stateTryWorkspace
	stateResolved
	stateFailed
)

// Resolve runs the chain: active document, then remembered root, then the
// workspace root. The first success wins. On total failure the returned
// *ResolutionError carries the active-document diagnosis as its Cause.
// Resolutions are serialised; once started one runs to completion.
func (r *Resolver) Resolve(ctx context.Context) (*Resolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// An empty or relative workspace root would resolve against the process
	// working directory; treat it as no workspace at all.
	workspace := r.ws.WorkspaceRoot()
	if workspace != "" && filepath.IsAbs(workspace) {
		workspace = filepath.Clean(workspace)
	} else {
		workspace = ""
	}
	doc, ok := r.docs.CurrentDocument()
	if !ok {
		doc = ""
	}

	var (
		st       = stateTryDocument
		root     string
		strategy Strategy
		attempts []Attempt
	)
	fail := func(s Strategy, err error) {
		logger.Debug().Str("strategy", string(s)).Err(err).Msg("strategy failed")
		attempts = append(attempts, Attempt{Strategy: s, Err: err})
	}

	for st != stateResolved && st != stateFailed {
		switch st {
		case stateTryDocument:
			found, err := r.fromDocument(doc, workspace)
			if err != nil {
				fail(StrategyDocument, err)
				st = stateTryRemembered
				continue
			}
			r.remembered = found
			root, strategy, st = found, StrategyDocument, stateResolved

		case stateTryRemembered:
			if r.remembered == "" {
				fail(StrategyRemembered, ErrNoRememberedRoot)
				st = stateTryWorkspace
				continue
			}
			if !r.checker.Exists(filepath.Join(r.remembered, r.marker)) {
				fail(StrategyRemembered, fmt.Errorf("%w: %s", ErrRememberedRootStale, r.remembered))
				st = stateTryWorkspace
				continue
			}
			root, strategy, st = r.remembered, StrategyRemembered, stateResolved

		case stateTryWorkspace:
			if workspace == "" {
				fail(StrategyWorkspace, fmt.Errorf("%w: no absolute workspace root", ErrWorkspaceMarkerAbsent))
				st = stateFailed
				continue
			}
			if !r.checker.Exists(filepath.Join(workspace, r.marker)) {
				fail(StrategyWorkspace, fmt.Errorf("%w: %s", ErrWorkspaceMarkerAbsent, workspace))
				st = stateFailed
				continue
			}
			root, strategy, st = workspace, StrategyWorkspace, stateResolved
		}
	}

	if st == stateFailed {
		return nil, &ResolutionError{Cause: attempts[0].Err, Attempts: attempts}
	}
	return &Resolution{Root: root, Strategy: strategy, Document: doc, Workspace: workspace}, nil
}

// fromDocument derives a root from the active document; "" means none.
func (r *Resolver) fromDocument(doc, workspace string) (string, error) {
	if doc == "" {
		return "", ErrNoActiveDocument
	}
	if workspace == "" {
		return "", fmt.Errorf("%w: no absolute workspace root", ErrDocumentOutsideWorkspace)
	}
	doc = filepath.Clean(doc)
	if !marker.Within(workspace, doc) {
		return "", fmt.Errorf("%w: %s is not under %s", ErrDocumentOutsideWorkspace, doc, workspace)
	}
	found, ok := r.finder.FindUpward(filepath.Dir(doc), r.marker, workspace)
	if !ok {
		return "", fmt.Errorf("%w: no %s above %s", ErrMarkerNotFound, r.marker, doc)
	}
	if !marker.Within(workspace, found) {
		return "", fmt.Errorf("%w: %s", ErrMarkerOutsideWorkspace, found)
	}
	return found, nil
}
