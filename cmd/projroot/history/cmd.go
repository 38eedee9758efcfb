// Package historycmd implements the `projroot history` command.
package historycmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/projroot/cmd/projroot/shared"
	"github.com/go-ports/projroot/internal/models"
)

// Command implements `projroot history`.
type Command struct {
	ctx   *shared.Context
	cmd   *cobra.Command
	limit int
	clear bool
}

// New creates the history command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "history",
		Short: "List recent project-root resolutions for the workspace",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.IntVar(&c.limit, "limit", 0, "Maximum number of records (default: history.limit from config)")
	f.BoolVar(&c.clear, "clear", false, "Delete every journaled resolution")

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

	out := cmd.OutOrStdout()

	if c.clear {
		n, err := svc.ClearHistory(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared %d record(s).\n", n)
		return nil
	}

	recs, err := svc.History(cmd.Context(), c.limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(out, "No resolutions recorded.")
		return nil
	}

	fmt.Fprintf(out, "\nResolutions in %s:\n", svc.Workspace())
	for _, r := range recs {
		at := r.ResolvedAt.Local().Format("2006-01-02 15:04:05")
		if r.Outcome == models.OutcomeFailed {
			fmt.Fprintf(out, "  %s | failed     | %s\n", at, r.Error)
			continue
		}
		fmt.Fprintf(out, "  %s | %-10s | %s\n", at, r.Strategy, r.Root)
	}
	return nil
}
