// Package sysrootcmd implements the `projroot sysroot` command.
package sysrootcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/projroot/cmd/projroot/shared"
)

// Command implements `projroot sysroot`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the sysroot command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "sysroot",
		Short: "Print the compiler sysroot (rustc --print sysroot)",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.OpenService()
	if err != nil {
		return err
	}
	defer svc.Close()

	sysroot, err := svc.Sysroot(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), sysroot)
	return nil
}
