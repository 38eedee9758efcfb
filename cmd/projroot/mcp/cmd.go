// Package mcpcmd implements the `projroot mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/projroot/cmd/projroot/shared"
	internalmcp "github.com/go-ports/projroot/internal/mcp"
)

// Command implements `projroot mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Start the projroot MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	home, _ := c.ctx.HomeDir()
	return internalmcp.Serve(cmd.Context(), home, c.ctx.Workspace)
}
