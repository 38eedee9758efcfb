// Package shared holds the context passed to all CLI commands.
package shared

import (
	"os"
	"path/filepath"

	"github.com/go-ports/projroot/internal/config"
	"github.com/go-ports/projroot/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// Home overrides the projroot home directory.
	// When empty, resolution falls through to PROJROOT_HOME env var → persisted config → ~/.projroot.
	Home string

	// Workspace is the workspace root. Empty means the current directory.
	Workspace string

	// Debug enables debug logging regardless of logging.debug in config.
	Debug bool
}

// HomeDir returns the effective home directory and where it came from.
func (c *Context) HomeDir() (path, source string) {
	if c.Home != "" {
		return c.Home, "flag"
	}
	return config.ResolveHome()
}

// OpenService opens a Service for the effective home and workspace.
// Callers must Close it.
func (c *Context) OpenService() (*service.Service, error) {
	home, _ := c.HomeDir()
	return service.New(home, c.Workspace, service.Options{})
}

// WorkspaceDir returns the workspace flag or, when unset, the current directory.
func (c *Context) WorkspaceDir() string {
	if c.Workspace != "" {
		return c.Workspace
	}
	cwd, _ := os.Getwd()
	return cwd
}

// AgentDir picks the agent configuration directory for setup and uninstall:
// an explicit configDir, <workspace>/<dotDir> for project scope, or
// ~/<dotDir> otherwise.
//
//revive:disable:flag-parameter
func (c *Context) AgentDir(dotDir, configDir string, project bool) string {
	if configDir != "" {
		return configDir
	}
	if project {
		return filepath.Join(c.WorkspaceDir(), dotDir)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dotDir)
}

//revive:enable:flag-parameter
