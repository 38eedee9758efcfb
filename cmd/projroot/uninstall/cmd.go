// Package uninstallcmd implements the `projroot uninstall` command group.
package uninstallcmd

import (
	"github.com/spf13/cobra"

	setupcmd "github.com/go-ports/projroot/cmd/projroot/setup"
	"github.com/go-ports/projroot/cmd/projroot/shared"
)

// Command implements `projroot uninstall`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the uninstall command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the projroot MCP server from a coding agent",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	for _, a := range setupcmd.Agents {
		c.cmd.AddCommand(a.Command(ctx, "Remove projroot from", a.Uninstall))
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }
