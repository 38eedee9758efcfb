package setup_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/projroot/internal/checkers"
	"github.com/go-ports/projroot/internal/setup"
)

func readFile(c *qt.C, path string) string {
	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	return string(data)
}

// ---------------------------------------------------------------------------
// SetupClaudeCode / UninstallClaudeCode
// ---------------------------------------------------------------------------

func TestSetupClaudeCode_HappyPath(t *testing.T) {
	c := qt.New(t)

	// project=true writes <parent of claudeHome>/.mcp.json, which keeps the
	// tests inside a temp dir.

	c.Run("first install creates .mcp.json with projroot entry", func(c *qt.C) {
		tmp := t.TempDir()
		claudeHome := filepath.Join(tmp, ".claude")

		result := setup.SetupClaudeCode(claudeHome, true)
		c.Assert(result.Status, qt.Equals, "ok")
		c.Assert(result.Message, qt.Equals, "Installed: mcpServers in .mcp.json")

		data := readFile(c, filepath.Join(tmp, ".mcp.json"))
		c.Assert(data, checkers.JSONPathEquals("$.mcpServers.projroot.command"), "projroot")
		c.Assert(data, checkers.JSONPathEquals("$.mcpServers.projroot.args[0]"), "mcp")
		c.Assert(data, checkers.JSONPathEquals("$.mcpServers.projroot.type"), "stdio")
	})

	c.Run("second install is idempotent", func(c *qt.C) {
		claudeHome := filepath.Join(t.TempDir(), ".claude")

		setup.SetupClaudeCode(claudeHome, true)
		result := setup.SetupClaudeCode(claudeHome, true)
		c.Assert(result.Status, qt.Equals, "ok")
		c.Assert(result.Message, qt.Equals, "Already installed")
	})

	c.Run("other servers are preserved", func(c *qt.C) {
		tmp := t.TempDir()
		existing := `{"mcpServers":{"other":{"command":"other"}},"theme":"dark"}`
		c.Assert(os.WriteFile(filepath.Join(tmp, ".mcp.json"), []byte(existing), 0o600), qt.IsNil)

		setup.SetupClaudeCode(filepath.Join(tmp, ".claude"), true)

		data := readFile(c, filepath.Join(tmp, ".mcp.json"))
		c.Assert(data, checkers.JSONPathEquals("$.mcpServers.other.command"), "other")
		c.Assert(data, checkers.JSONPathEquals("$.mcpServers.projroot.command"), "projroot")
		c.Assert(data, checkers.JSONPathEquals("$.theme"), "dark")
	})
}

func TestUninstallClaudeCode_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("sole entry removal deletes the file", func(c *qt.C) {
		tmp := t.TempDir()
		claudeHome := filepath.Join(tmp, ".claude")

		setup.SetupClaudeCode(claudeHome, true)
		result := setup.UninstallClaudeCode(claudeHome, true)
		c.Assert(result.Message, qt.Equals, "Removed: mcpServers from .mcp.json")

		_, err := os.Stat(filepath.Join(tmp, ".mcp.json"))
		c.Assert(os.IsNotExist(err), qt.IsTrue)
	})

	c.Run("other servers survive uninstall", func(c *qt.C) {
		tmp := t.TempDir()
		existing := `{"mcpServers":{"other":{"command":"other"}}}`
		c.Assert(os.WriteFile(filepath.Join(tmp, ".mcp.json"), []byte(existing), 0o600), qt.IsNil)
		claudeHome := filepath.Join(tmp, ".claude")

		setup.SetupClaudeCode(claudeHome, true)
		setup.UninstallClaudeCode(claudeHome, true)

		data := readFile(c, filepath.Join(tmp, ".mcp.json"))
		c.Assert(data, checkers.JSONPathEquals("$.mcpServers.other.command"), "other")
		c.Assert(strings.Contains(data, "projroot"), qt.IsFalse)
	})

	c.Run("nothing to remove when not installed", func(c *qt.C) {
		result := setup.UninstallClaudeCode(filepath.Join(t.TempDir(), ".claude"), true)
		c.Assert(result.Status, qt.Equals, "ok")
		c.Assert(result.Message, qt.Equals, "Nothing to remove")
	})

	c.Run("reinstall succeeds after uninstall", func(c *qt.C) {
		claudeHome := filepath.Join(t.TempDir(), ".claude")

		setup.SetupClaudeCode(claudeHome, true)
		setup.UninstallClaudeCode(claudeHome, true)
		result := setup.SetupClaudeCode(claudeHome, true)
		c.Assert(result.Message, qt.Contains, "Installed")
	})
}

// ---------------------------------------------------------------------------
// SetupCursor / UninstallCursor
// ---------------------------------------------------------------------------

func TestCursor_RoundTrip(t *testing.T) {
	c := qt.New(t)
	tmp := t.TempDir()

	result := setup.SetupCursor(tmp)
	c.Assert(result.Message, qt.Equals, "Installed: mcpServers")
	c.Assert(readFile(c, filepath.Join(tmp, "mcp.json")), checkers.JSONPathEquals("$.mcpServers.projroot.command"), "projroot")

	c.Assert(setup.SetupCursor(tmp).Message, qt.Equals, "Already installed")
	c.Assert(setup.UninstallCursor(tmp).Message, qt.Equals, "Removed: mcpServers")
	c.Assert(setup.UninstallCursor(tmp).Message, qt.Equals, "Nothing to remove")
}

func TestSetupCursor_FailurePath(t *testing.T) {
	c := qt.New(t)

	// A regular file where the cursor home directory should be.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	c.Assert(os.WriteFile(blocker, nil, 0o600), qt.IsNil)

	result := setup.SetupCursor(blocker)
	c.Assert(result.Status, qt.Equals, "error")
	c.Assert(result.Message, qt.Contains, "Could not update mcp.json")
}

// ---------------------------------------------------------------------------
// Unreadable JSON configs
// ---------------------------------------------------------------------------

func TestJSONConfig_MalformedLeftUntouched(t *testing.T) {
	c := qt.New(t)

	agents := []struct {
		name      string
		file      string // relative to the temp dir
		setup     func(dir string) setup.Result
		uninstall func(dir string) setup.Result
	}{
		{
			name:      "claude code",
			file:      ".mcp.json",
			setup:     func(dir string) setup.Result { return setup.SetupClaudeCode(filepath.Join(dir, ".claude"), true) },
			uninstall: func(dir string) setup.Result { return setup.UninstallClaudeCode(filepath.Join(dir, ".claude"), true) },
		},
		{
			name:      "cursor",
			file:      "mcp.json",
			setup:     setup.SetupCursor,
			uninstall: setup.UninstallCursor,
		},
		{
			name:      "opencode",
			file:      "opencode.json",
			setup:     setup.SetupOpencode,
			uninstall: setup.UninstallOpencode,
		},
	}
	contents := []struct {
		name string
		body string
	}{
		{"comments", "{\n  // keep me\n  \"mcpServers\": {\"projroot\": {}}, \"mcp\": {\"projroot\": {}}\n}\n"},
		{"trailing comma", `{"theme": "dark",}`},
		{"top-level array", `[1, 2, 3]`},
		{"container not an object", `{"mcpServers": ["x"], "mcp": "x"}`},
	}

	for _, agent := range agents {
		for _, content := range contents {
			c.Run(agent.name+"/"+content.name, func(c *qt.C) {
				tmp := t.TempDir()
				path := filepath.Join(tmp, agent.file)
				c.Assert(os.WriteFile(path, []byte(content.body), 0o600), qt.IsNil)

				result := agent.setup(tmp)
				c.Assert(result.Status, qt.Equals, "error")
				c.Assert(result.Message, qt.Contains, "Could not update")
				c.Assert(readFile(c, path), qt.Equals, content.body)

				result = agent.uninstall(tmp)
				c.Assert(result.Status, qt.Equals, "error")
				c.Assert(readFile(c, path), qt.Equals, content.body)
			})
		}
	}
}

func TestJSONConfig_EmptyFileTreatedAsEmptyObject(t *testing.T) {
	c := qt.New(t)
	tmp := t.TempDir()
	path := filepath.Join(tmp, "mcp.json")
	c.Assert(os.WriteFile(path, []byte("\n"), 0o600), qt.IsNil)

	result := setup.SetupCursor(tmp)
	c.Assert(result.Status, qt.Equals, "ok")
	c.Assert(readFile(c, path), checkers.JSONPathEquals("$.mcpServers.projroot.command"), "projroot")
}

func TestUninstallCursor_FailurePath(t *testing.T) {
	c := qt.New(t)
	tmp := t.TempDir()
	// A directory where mcp.json should be cannot be read as a file.
	c.Assert(os.Mkdir(filepath.Join(tmp, "mcp.json"), 0o755), qt.IsNil)

	result := setup.UninstallCursor(tmp)
	c.Assert(result.Status, qt.Equals, "error")
	c.Assert(result.Message, qt.Contains, "Could not update mcp.json")
}

// ---------------------------------------------------------------------------
// SetupCodex / UninstallCodex
// ---------------------------------------------------------------------------

func TestSetupCodex_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("fresh install writes config.toml and AGENTS.md", func(c *qt.C) {
		tmp := t.TempDir()

		result := setup.SetupCodex(tmp)
		c.Assert(result.Message, qt.Equals, "Installed: config.toml, AGENTS.md")

		toml := readFile(c, filepath.Join(tmp, "config.toml"))
		c.Assert(toml, qt.Contains, "[mcp_servers.projroot]")
		c.Assert(toml, qt.Contains, `command = "projroot"`)
		c.Assert(readFile(c, filepath.Join(tmp, "AGENTS.md")), qt.Contains, "projroot resolve --document")
	})

	c.Run("existing content is kept and install is idempotent", func(c *qt.C) {
		tmp := t.TempDir()
		c.Assert(os.WriteFile(filepath.Join(tmp, "config.toml"), []byte("model = \"o3\"\n"), 0o600), qt.IsNil)
		c.Assert(os.WriteFile(filepath.Join(tmp, "AGENTS.md"), []byte("# Rules\n\nBe nice.\n"), 0o600), qt.IsNil)

		setup.SetupCodex(tmp)
		c.Assert(setup.SetupCodex(tmp).Message, qt.Equals, "Already installed")

		toml := readFile(c, filepath.Join(tmp, "config.toml"))
		c.Assert(strings.HasPrefix(toml, "model = \"o3\"\n"), qt.IsTrue)
		c.Assert(strings.Count(toml, "[mcp_servers.projroot]"), qt.Equals, 1)
		c.Assert(strings.HasPrefix(readFile(c, filepath.Join(tmp, "AGENTS.md")), "# Rules"), qt.IsTrue)
	})
}

func TestUninstallCodex_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("neighbouring tables and headings survive", func(c *qt.C) {
		tmp := t.TempDir()
		c.Assert(os.WriteFile(filepath.Join(tmp, "config.toml"), []byte("model = \"o3\"\n"), 0o600), qt.IsNil)
		c.Assert(os.WriteFile(filepath.Join(tmp, "AGENTS.md"), []byte("# Rules\n"), 0o600), qt.IsNil)
		setup.SetupCodex(tmp)

		f, err := os.OpenFile(filepath.Join(tmp, "config.toml"), os.O_APPEND|os.O_WRONLY, 0o600)
		c.Assert(err, qt.IsNil)
		_, err = f.WriteString("\n[mcp_servers.other]\ncommand = \"other\"\n")
		c.Assert(err, qt.IsNil)
		c.Assert(f.Close(), qt.IsNil)

		f, err = os.OpenFile(filepath.Join(tmp, "AGENTS.md"), os.O_APPEND|os.O_WRONLY, 0o600)
		c.Assert(err, qt.IsNil)
		_, err = f.WriteString("\n## Testing\n\nRun make test.\n")
		c.Assert(err, qt.IsNil)
		c.Assert(f.Close(), qt.IsNil)

		result := setup.UninstallCodex(tmp)
		c.Assert(result.Message, qt.Equals, "Removed: config.toml, AGENTS.md")

		toml := readFile(c, filepath.Join(tmp, "config.toml"))
		c.Assert(toml, qt.Not(qt.Contains), "mcp_servers.projroot")
		c.Assert(toml, qt.Contains, "[mcp_servers.other]")
		c.Assert(toml, qt.Contains, "model = \"o3\"")

		agents := readFile(c, filepath.Join(tmp, "AGENTS.md"))
		c.Assert(agents, qt.Not(qt.Contains), "## projroot")
		c.Assert(agents, qt.Contains, "# Rules")
		c.Assert(agents, qt.Contains, "## Testing\n\nRun make test.")
	})

	c.Run("AGENTS.md holding only our notes is deleted", func(c *qt.C) {
		tmp := t.TempDir()
		setup.SetupCodex(tmp)
		setup.UninstallCodex(tmp)

		_, err := os.Stat(filepath.Join(tmp, "AGENTS.md"))
		c.Assert(os.IsNotExist(err), qt.IsTrue)
	})

	c.Run("nothing to remove", func(c *qt.C) {
		c.Assert(setup.UninstallCodex(t.TempDir()).Message, qt.Equals, "Nothing to remove")
	})
}

func TestCodex_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("codex home is a regular file", func(c *qt.C) {
		blocker := filepath.Join(t.TempDir(), "not-a-dir")
		c.Assert(os.WriteFile(blocker, nil, 0o600), qt.IsNil)

		result := setup.SetupCodex(blocker)
		c.Assert(result.Status, qt.Equals, "error")
		c.Assert(result.Message, qt.Contains, "config.toml")

		result = setup.UninstallCodex(blocker)
		c.Assert(result.Status, qt.Equals, "error")
		c.Assert(result.Message, qt.Contains, "config.toml")
	})

	c.Run("AGENTS.md is a directory", func(c *qt.C) {
		tmp := t.TempDir()
		c.Assert(os.Mkdir(filepath.Join(tmp, "AGENTS.md"), 0o755), qt.IsNil)

		result := setup.SetupCodex(tmp)
		c.Assert(result.Status, qt.Equals, "error")
		c.Assert(result.Message, qt.Contains, "AGENTS.md")
		// The TOML table written before the failure stays in place.
		c.Assert(readFile(c, filepath.Join(tmp, "config.toml")), qt.Contains, "[mcp_servers.projroot]")

		result = setup.UninstallCodex(tmp)
		c.Assert(result.Status, qt.Equals, "error")
		c.Assert(result.Message, qt.Contains, "AGENTS.md")
	})

	c.Run("read-only codex home", func(c *qt.C) {
		if os.Geteuid() == 0 {
			c.Skip("permission bits are not enforced for root")
		}
		tmp := t.TempDir()
		c.Assert(os.Chmod(tmp, 0o500), qt.IsNil)
		c.Cleanup(func() { _ = os.Chmod(tmp, 0o755) })

		result := setup.SetupCodex(tmp)
		c.Assert(result.Status, qt.Equals, "error")
		c.Assert(result.Message, qt.Contains, "Could not update config.toml")
	})

	c.Run("read-only files block uninstall", func(c *qt.C) {
		if os.Geteuid() == 0 {
			c.Skip("permission bits are not enforced for root")
		}
		tmp := t.TempDir()
		c.Assert(setup.SetupCodex(tmp).Status, qt.Equals, "ok")
		toml := filepath.Join(tmp, "config.toml")
		c.Assert(os.Chmod(toml, 0o400), qt.IsNil)

		result := setup.UninstallCodex(tmp)
		c.Assert(result.Status, qt.Equals, "error")
		c.Assert(result.Message, qt.Contains, "Could not update config.toml")
		c.Assert(readFile(c, toml), qt.Contains, "[mcp_servers.projroot]")
	})
}

// ---------------------------------------------------------------------------
// SetupOpencode / UninstallOpencode
// ---------------------------------------------------------------------------

func TestOpencode_RoundTrip(t *testing.T) {
	c := qt.New(t)
	tmp := t.TempDir()
	path := filepath.Join(tmp, "opencode.json")

	result := setup.SetupOpencode(tmp)
	c.Assert(result.Message, qt.Equals, "Installed: mcp in "+path)

	data := readFile(c, path)
	c.Assert(data, checkers.JSONPathEquals("$.mcp.projroot.type"), "local")
	c.Assert(data, checkers.JSONPathEquals("$.mcp.projroot.command"), []any{"projroot", "mcp"})

	c.Assert(setup.SetupOpencode(tmp).Message, qt.Equals, "Already installed")
	c.Assert(setup.UninstallOpencode(tmp).Message, qt.Equals, "Removed: mcp from "+path)
	c.Assert(setup.UninstallOpencode(tmp).Message, qt.Equals, "Nothing to remove")
}
