// Package setupcmd implements the `projroot setup` command group.
package setupcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/projroot/cmd/projroot/shared"
	"github.com/go-ports/projroot/internal/setup"
)

// Command implements `projroot setup`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the setup command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "setup",
		Short: "Register the projroot MCP server with a coding agent",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	for _, a := range Agents {
		c.cmd.AddCommand(a.Command(ctx, "Register projroot with", a.Setup))
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

// Agent is one supported coding agent.
type Agent struct {
	Name      string
	Title     string
	DotDir    string // config directory name under $HOME or the workspace
	Setup     func(dir string, project bool) setup.Result
	Uninstall func(dir string, project bool) setup.Result
}

// Agents lists every agent `setup` and `uninstall` know about.
var Agents = []Agent{
	{
		Name:      "claude-code",
		Title:     "Claude Code",
		DotDir:    ".claude",
		Setup:     setup.SetupClaudeCode,
		Uninstall: setup.UninstallClaudeCode,
	},
	{
		Name:      "cursor",
		Title:     "Cursor",
		DotDir:    ".cursor",
		Setup:     func(dir string, _ bool) setup.Result { return setup.SetupCursor(dir) },
		Uninstall: func(dir string, _ bool) setup.Result { return setup.UninstallCursor(dir) },
	},
	{
		Name:      "codex",
		Title:     "Codex",
		DotDir:    ".codex",
		Setup:     func(dir string, _ bool) setup.Result { return setup.SetupCodex(dir) },
		Uninstall: func(dir string, _ bool) setup.Result { return setup.UninstallCodex(dir) },
	},
	{
		Name:      "opencode",
		Title:     "OpenCode",
		Setup:     func(dir string, _ bool) setup.Result { return setup.SetupOpencode(dir) },
		Uninstall: func(dir string, _ bool) setup.Result { return setup.UninstallOpencode(dir) },
	},
}

// dir resolves where the agent keeps its config. OpenCode has no dot
// directory: project scope is the workspace itself.
//
//revive:disable:flag-parameter
func (a Agent) dir(ctx *shared.Context, configDir string, project bool) string {
	if a.DotDir != "" {
		return ctx.AgentDir(a.DotDir, configDir, project)
	}
	switch {
	case configDir != "":
		return configDir
	case project:
		return ctx.WorkspaceDir()
	default:
		return setup.DefaultOpencodeDir()
	}
}

//revive:enable:flag-parameter

// Command builds the subcommand running fn for this agent. It is shared with
// the uninstall command group.
func (a Agent) Command(ctx *shared.Context, verb string, fn func(dir string, project bool) setup.Result) *cobra.Command {
	var configDir string
	var project bool
	cmd := &cobra.Command{
		Use:   a.Name,
		Short: fmt.Sprintf("%s %s", verb, a.Title),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result := fn(a.dir(ctx, configDir, project), project)
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			if result.Status != "ok" {
				return fmt.Errorf("%s: %s", a.Name, result.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Agent configuration directory")
	cmd.Flags().BoolVar(&project, "project", false, "Use the workspace instead of the global configuration")
	return cmd
}
