// Package resolvecmd implements the `projroot resolve` command.
package resolvecmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/projroot/cmd/projroot/shared"
	"github.com/go-ports/projroot/internal/resolver"
)

// Command implements `projroot resolve`.
type Command struct {
	ctx      *shared.Context
	cmd      *cobra.Command
	document string
	asJSON   bool
}

// New creates the resolve command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "resolve",
		Short: "Print the project root for a document (or the workspace)",
		Long: `Print the project root.

The root is the nearest directory at or above --document that contains the
project marker (Cargo.toml unless project.marker says otherwise), provided it
lies inside the workspace. Without a usable document the workspace root is
used when it contains the marker.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	c.cmd.Flags().StringVarP(&c.document, "document", "d", "", "Active document (absolute or relative to the workspace)")
	c.cmd.Flags().BoolVar(&c.asJSON, "json", false, "Print root, strategy, document and workspace as JSON")
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

	res, err := svc.ResolveRoot(cmd.Context(), c.document)
	if err != nil {
		var rerr *resolver.ResolutionError
		if errors.As(err, &rerr) {
			for _, a := range rerr.Attempts {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", a.Strategy, a.Err)
			}
		}
		return err
	}

	out := cmd.OutOrStdout()
	if !c.asJSON {
		fmt.Fprintln(out, res.Root)
		return nil
	}
	b, err := json.MarshalIndent(map[string]any{
		"root":      res.Root,
		"strategy":  res.Strategy,
		"document":  res.Document,
		"workspace": res.Workspace,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(b))
	return nil
}
