// Package toolscmd implements the `projroot tools` command.
package toolscmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/projroot/cmd/projroot/shared"
	"github.com/go-ports/projroot/internal/toolchain"
)

// Command implements `projroot tools`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the tools command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "tools [name]",
		Short: "Show where racer, rustfmt, rustsym, cargo, rustc and the Rust sources live",
		Long: `Show tool locations.

Each value comes from the tools section of config.yaml, then the environment
(RUST_SRC_PATH, CARGO_HOME), then the bare command name. With a name argument
only that value is printed.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names(),
		RunE:      c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func byName(p toolchain.Paths) map[string]string {
	return map[string]string{
		"racer":      p.Racer,
		"rustfmt":    p.Rustfmt,
		"rustsym":    p.Rustsym,
		"cargo":      p.Cargo,
		"rustc":      p.Rustc,
		"rust_src":   p.RustSrc,
		"cargo_home": p.CargoHome,
	}
}

func names() []string {
	out := make([]string, 0, 7)
	for k := range byName(toolchain.Paths{}) {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.OpenService()
	if err != nil {
		return err
	}
	defer svc.Close()

	paths := svc.ToolPaths()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		v, ok := byName(paths)[args[0]]
		if !ok {
			return fmt.Errorf("unknown tool %q (want one of: %s)", args[0], strings.Join(names(), ", "))
		}
		fmt.Fprintln(out, v)
		return nil
	}

	b, err := yaml.Marshal(paths)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(b))
	return nil
}
