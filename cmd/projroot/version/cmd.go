// Package versioncmd implements the `projroot version` command.
package versioncmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/go-ports/projroot/cmd/projroot/shared"
	"github.com/go-ports/projroot/internal/buildinfo"
)

// Command implements `projroot version`.
type Command struct {
	ctx   *shared.Context
	cmd   *cobra.Command
	short bool
}

// New creates the version command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.short, "short", false, "Print only the version")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if c.short {
		fmt.Fprintln(out, buildinfo.Version)
		return nil
	}
	fmt.Fprintf(out, "projroot %s\n", buildinfo.Version)
	fmt.Fprintf(out, "  commit:  %s (%s)\n", buildinfo.GitCommit, buildinfo.GitBranch)
	fmt.Fprintf(out, "  built:   %s\n", buildinfo.BuildDate)
	fmt.Fprintf(out, "  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
