// Package initcmd implements the `projroot init` command.
package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-ports/projroot/cmd/projroot/shared"
	"github.com/go-ports/projroot/internal/config"
)

// Command implements `projroot init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize the projroot home (config.yaml and history journal)",
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	home, _ := c.ctx.HomeDir()
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	out := cmd.OutOrStdout()
	cfgPath := filepath.Join(home, "config.yaml")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := os.WriteFile(cfgPath, []byte(config.Template), 0o600); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n", cfgPath)
	}

	// Opening the service creates history.db when history is enabled.
	svc, err := c.ctx.OpenService()
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer svc.Close()

	fmt.Fprintf(out, "projroot home initialized at %s\n", home)
	return nil
}
