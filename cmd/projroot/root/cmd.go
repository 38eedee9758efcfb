// Package rootcmd wires the root cobra.Command for the projroot CLI binary.
package rootcmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	configcmd "github.com/go-ports/projroot/cmd/projroot/config"
	historycmd "github.com/go-ports/projroot/cmd/projroot/history"
	initcmd "github.com/go-ports/projroot/cmd/projroot/init"
	mcpcmd "github.com/go-ports/projroot/cmd/projroot/mcp"
	resolvecmd "github.com/go-ports/projroot/cmd/projroot/resolve"
	setupcmd "github.com/go-ports/projroot/cmd/projroot/setup"
	"github.com/go-ports/projroot/cmd/projroot/shared"
	sysrootcmd "github.com/go-ports/projroot/cmd/projroot/sysroot"
	toolscmd "github.com/go-ports/projroot/cmd/projroot/tools"
	uninstallcmd "github.com/go-ports/projroot/cmd/projroot/uninstall"
	versioncmd "github.com/go-ports/projroot/cmd/projroot/version"
	"github.com/go-ports/projroot/internal/config"
	"github.com/go-ports/projroot/internal/logger"
)

// New creates and returns the root cobra.Command for the projroot CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "projroot",
		Short:         "projroot: find the Cargo project root for the file you are editing",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			initLogging(ctx)
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return logger.CloseFileWriter()
		},
	}

	root.PersistentFlags().StringVar(
		&ctx.Home, "home", "",
		"Override projroot home directory (default: $PROJROOT_HOME env → persisted config → ~/.projroot)",
	)
	root.PersistentFlags().StringVar(
		&ctx.Workspace, "workspace", "",
		"Workspace root (default: current directory)",
	)
	root.PersistentFlags().BoolVar(&ctx.Debug, "debug", false, "Enable debug logging on stderr")

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		resolvecmd.New(ctx).Cmd(),
		toolscmd.New(ctx).Cmd(),
		sysrootcmd.New(ctx).Cmd(),
		historycmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		setupcmd.New(ctx).Cmd(),
		uninstallcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}

// initLogging configures the global logger from the flags and the logging
// section of <home>/config.yaml. A broken config only costs the file log; the
// command that needs the config reports the error itself.
func initLogging(ctx *shared.Context) {
	home, _ := ctx.HomeDir()
	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		cfg = config.Default()
	}
	debug := ctx.Debug || cfg.Logging.Debug

	logger.Init(debug)
	if cfg.Logging.FileEnabled {
		fileCfg := &logger.FileConfig{
			Enabled:    true,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			MaxBackups: cfg.Logging.MaxBackups,
		}
		if err := logger.InitWithFile(debug, filepath.Join(home, "logs"), fileCfg); err != nil {
			logger.Warn().Err(err).Msg("file logging disabled")
		}
	}
	logger.SetWorkspace(ctx.Workspace)
}
