// Package config handles configuration loading and projroot home resolution.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// ProjectConfig controls what marks a directory as a project root.
type ProjectConfig struct {
	Marker string `mapstructure:"marker" yaml:"marker"`
}

// ToolsConfig holds user overrides for external tool locations.
// Empty values fall through to environment variables or bare command names.
type ToolsConfig struct {
	RacerPath     string `mapstructure:"racer_path" yaml:"racer_path"`
	RustfmtPath   string `mapstructure:"rustfmt_path" yaml:"rustfmt_path"`
	RustsymPath   string `mapstructure:"rustsym_path" yaml:"rustsym_path"`
	RustSrcPath   string `mapstructure:"rust_src_path" yaml:"rust_src_path"`
	CargoPath     string `mapstructure:"cargo_path" yaml:"cargo_path"`
	CargoHomePath string `mapstructure:"cargo_home_path" yaml:"cargo_home_path"`
	RustcPath     string `mapstructure:"rustc_path" yaml:"rustc_path"`
}

// SysrootConfig bounds the compiler invocation used for sysroot discovery.
type SysrootConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// HistoryConfig controls the resolution journal.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Limit   int  `mapstructure:"limit" yaml:"limit"` // default rows shown by `history`
}

// LoggingConfig controls log verbosity and the rotated log file.
type LoggingConfig struct {
	Debug       bool `mapstructure:"debug" yaml:"debug"`
	FileEnabled bool `mapstructure:"file_enabled" yaml:"file_enabled"`
	MaxSizeMB   int  `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxAgeDays  int  `mapstructure:"max_age_days" yaml:"max_age_days"`
	MaxBackups  int  `mapstructure:"max_backups" yaml:"max_backups"`
}

// Config is the per-home configuration.
type Config struct {
	Project ProjectConfig `mapstructure:"project" yaml:"project"`
	Tools   ToolsConfig   `mapstructure:"tools" yaml:"tools"`
	Sysroot SysrootConfig `mapstructure:"sysroot" yaml:"sysroot"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{Marker: "Cargo.toml"},
		Sysroot: SysrootConfig{Timeout: 10 * time.Second},
		History: HistoryConfig{Enabled: true, Limit: 20},
		Logging: LoggingConfig{
			FileEnabled: false,
			MaxSizeMB:   10,
			MaxAgeDays:  7,
			MaxBackups:  3,
		},
	}
}

// envBindings maps non-tool keys to environment overrides. Tool paths are
// deliberately absent: for those an explicit config value beats the
// environment, which viper's precedence cannot express.
var envBindings = map[string]string{
	"logging.debug":   "PROJROOT_DEBUG",
	"sysroot.timeout": "PROJROOT_SYSROOT_TIMEOUT",
	"history.enabled": "PROJROOT_HISTORY",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	d := Default()
	v.SetDefault("project.marker", d.Project.Marker)
	v.SetDefault("sysroot.timeout", d.Sysroot.Timeout)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.limit", d.History.Limit)
	v.SetDefault("logging.debug", d.Logging.Debug)
	v.SetDefault("logging.file_enabled", d.Logging.FileEnabled)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	for _, key := range []string{
		"tools.racer_path", "tools.rustfmt_path", "tools.rustsym_path",
		"tools.rust_src_path", "tools.cargo_path", "tools.cargo_home_path", "tools.rustc_path",
	} {
		v.SetDefault(key, "")
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			panic(fmt.Sprintf("config: BindEnv(%q, %q) failed: %v", key, env, err))
		}
	}
	return v
}

// Load reads a per-home config.yaml from path.
// If the file does not exist it returns defaults (plus env overrides) with no error.
// Missing keys retain their default values.
func Load(path string) (*Config, error) {
	v := newViper()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: decode: %w", err)
	}
	if cfg.Project.Marker == "" {
		cfg.Project.Marker = Default().Project.Marker
	}
	return cfg, nil
}

// Template is the starter config written by `projroot config init`.
const Template = `# projroot configuration

# File whose presence marks a directory as a project root.
project:
  marker: Cargo.toml

# Tool locations. Empty values fall back to the environment
# (RUST_SRC_PATH, CARGO_HOME) or to the bare command name.
tools:
  racer_path: ""
  rustfmt_path: ""
  rustsym_path: ""
  rust_src_path: ""
  cargo_path: ""
  cargo_home_path: ""
  rustc_path: ""

# Upper bound on "rustc --print sysroot".
sysroot:
  timeout: 10s

# Journal of resolutions in history.db.
history:
  enabled: true
  limit: 20

logging:
  debug: false
  file_enabled: false
  max_size_mb: 10
  max_age_days: 7
  max_backups: 3
`
