// Package toolchain answers where the external Rust tools live and asks the
// compiler for its sysroot.
package toolchain

import (
	"os"
	"strings"

	"github.com/go-ports/projroot/internal/config"
)

// Literal defaults used when neither config nor environment supplies a value.
const (
	DefaultRacer   = "racer"
	DefaultRustfmt = "rustfmt"
	DefaultRustsym = "rustsym"
	DefaultCargo   = "cargo"
	DefaultRustc   = "rustc"
)

// Environment fallbacks.
const (
	EnvRustSrcPath = "RUST_SRC_PATH"
	EnvCargoHome   = "CARGO_HOME"
)

// Paths is a snapshot of every tool location.
type Paths struct {
	Racer     string `json:"racer" yaml:"racer"`
	Rustfmt   string `json:"rustfmt" yaml:"rustfmt"`
	Rustsym   string `json:"rustsym" yaml:"rustsym"`
	Cargo     string `json:"cargo" yaml:"cargo"`
	Rustc     string `json:"rustc" yaml:"rustc"`
	RustSrc   string `json:"rust_src" yaml:"rust_src"`
	CargoHome string `json:"cargo_home" yaml:"cargo_home"`
}

// Accessors resolves tool locations: explicit config, then environment, then
// the literal default.
type Accessors struct {
	tools  config.ToolsConfig
	getenv func(string) string
}

// NewAccessors returns Accessors over tools. A nil getenv means os.Getenv.
func NewAccessors(tools config.ToolsConfig, getenv func(string) string) *Accessors {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Accessors{tools: tools, getenv: getenv}
}

func pick(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// RacerPath is the completion engine.
func (a *Accessors) RacerPath() string { return pick(a.tools.RacerPath, DefaultRacer) }

// RustfmtPath is the formatter.
func (a *Accessors) RustfmtPath() string { return pick(a.tools.RustfmtPath, DefaultRustfmt) }

// RustsymPath is the symbol indexer.
func (a *Accessors) RustsymPath() string { return pick(a.tools.RustsymPath, DefaultRustsym) }

// CargoPath is the build tool.
func (a *Accessors) CargoPath() string { return pick(a.tools.CargoPath, DefaultCargo) }

// RustcPath is the compiler command used for sysroot discovery.
func (a *Accessors) RustcPath() string { return pick(a.tools.RustcPath, DefaultRustc) }

// RustSrcPath is the toolchain source tree. Empty when unknown.
func (a *Accessors) RustSrcPath() string {
	return pick(a.tools.RustSrcPath, a.getenv(EnvRustSrcPath))
}

// CargoHomePath is the build tool home. Empty when unknown.
func (a *Accessors) CargoHomePath() string {
	return pick(a.tools.CargoHomePath, a.getenv(EnvCargoHome))
}

// All returns every location at once.
func (a *Accessors) All() Paths {
	return Paths{
		Racer:     a.RacerPath(),
		Rustfmt:   a.RustfmtPath(),
		Rustsym:   a.RustsymPath(),
		Cargo:     a.CargoPath(),
		Rustc:     a.RustcPath(),
		RustSrc:   a.RustSrcPath(),
		CargoHome: a.CargoHomePath(),
	}
}
