// Package setup registers and unregisters the projroot MCP server with
// supported coding agents (Claude Code, Cursor, Codex, OpenCode).
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ServerName is the key the MCP server is registered under in every agent.
const ServerName = "projroot"

// Result is the return value from all Setup/Uninstall functions.
type Result struct {
	Status  string // "ok" or "error"
	Message string
}

func ok(msg string) Result          { return Result{Status: "ok", Message: msg} }
func okf(f string, a ...any) Result { return ok(fmt.Sprintf(f, a...)) }

func failf(f string, a ...any) Result { return Result{Status: "error", Message: fmt.Sprintf(f, a...)} }

// summarise turns the list of touched files into a Result.
func summarise(verb, none string, items []string) Result {
	if len(items) == 0 {
		return ok(none)
	}
	return okf("%s: %s", verb, strings.Join(items, ", "))
}

// ---------------------------------------------------------------------------
// Default locations
// ---------------------------------------------------------------------------

func userDir(parts ...string) string {
	home, _ := os.UserHomeDir()
	return filepath.Join(append([]string{home}, parts...)...)
}

// DefaultClaudeHome returns the default ~/.claude directory.
func DefaultClaudeHome() string { return userDir(".claude") }

// DefaultCursorHome returns the default ~/.cursor directory.
func DefaultCursorHome() string { return userDir(".cursor") }

// DefaultCodexHome returns the default ~/.codex directory.
func DefaultCodexHome() string { return userDir(".codex") }

// DefaultOpencodeDir returns the directory holding the global opencode.json.
func DefaultOpencodeDir() string { return userDir(".config", "opencode") }

// ---------------------------------------------------------------------------
// JSON registrations
// ---------------------------------------------------------------------------

// jsonEntry describes where an agent keeps its MCP servers in a JSON file.
type jsonEntry struct {
	container string // top-level key holding the server map
	value     map[string]any
}

var (
	// Claude Code and Cursor.
	mcpServersEntry = jsonEntry{
		container: "mcpServers",
		value: map[string]any{
			"command": "projroot",
			"args":    []any{"mcp"},
			"type":    "stdio",
		},
	}
	opencodeEntry = jsonEntry{
		container: "mcp",
		value: map[string]any{
			"type":    "local",
			"command": []any{"projroot", "mcp"},
		},
	}
)

// readJSON loads an agent config file. A missing file reads as an empty
// object; anything that does not decode to an object is an error so the
// caller never rewrites a file it could not understand.
func readJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return make(map[string]any), nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if m == nil {
		return nil, fmt.Errorf("parse %s: top-level value is not an object", path)
	}
	return m, nil
}

// servers returns the container map, or an error when the key holds
// something other than an object.
func (e jsonEntry) servers(path string, data map[string]any) (map[string]any, error) {
	raw, present := data[e.container]
	if !present || raw == nil {
		return nil, nil
	}
	m, isMap := raw.(map[string]any)
	if !isMap {
		return nil, fmt.Errorf("parse %s: %q is not an object", path, e.container)
	}
	return m, nil
}

func writeJSON(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644) // #nosec G306 -- agent config files (MCP server entries) do not contain secrets
}

// install adds the server under e.container in path. It reports false when
// an entry already exists; other keys in the file are preserved.
func (e jsonEntry) install(path string) (bool, error) {
	data, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, err := e.servers(path, data)
	if err != nil {
		return false, err
	}
	if servers == nil {
		servers = make(map[string]any)
		data[e.container] = servers
	}
	if _, exists := servers[ServerName]; exists {
		return false, nil
	}
	servers[ServerName] = e.value
	return true, writeJSON(path, data)
}

// uninstall removes the server entry, dropping the container and then the
// file itself once they are empty.
func (e jsonEntry) uninstall(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	data, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, err := e.servers(path, data)
	if err != nil {
		return false, err
	}
	if _, exists := servers[ServerName]; !exists {
		return false, nil
	}
	delete(servers, ServerName)
	if len(servers) == 0 {
		delete(data, e.container)
	}
	if len(data) == 0 {
		return true, os.Remove(path)
	}
	return true, writeJSON(path, data)
}

// ---------------------------------------------------------------------------
// TOML registration (Codex); text-based, only touches our own table
// ---------------------------------------------------------------------------

const (
	tomlHeader  = "[mcp_servers." + ServerName + "]"
	tomlSection = "\n" + tomlHeader + "\ncommand = \"projroot\"\nargs = [\"mcp\"]\n"
)

func hasTOMLSection(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == tomlHeader {
			return true
		}
	}
	return false
}

func appendTOMLSection(path string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if hasTOMLSection(string(existing)) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	_, err = f.WriteString(tomlSection)
	return err == nil, err
}

// removeTOMLSection drops our table header and its keys up to the next
// table header or EOF.
func removeTOMLSection(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !hasTOMLSection(string(data)) {
		return false, nil
	}
	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	skipping := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == tomlHeader:
			skipping = true
			continue
		case skipping && strings.HasPrefix(trimmed, "["):
			skipping = false
		}
		if !skipping {
			kept = append(kept, line)
		}
	}
	cleaned := strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n"
	return true, os.WriteFile(path, []byte(cleaned), 0o644) // #nosec G306 -- agent TOML config is not a sensitive credential file
}

// ---------------------------------------------------------------------------
// Claude Code
// ---------------------------------------------------------------------------

// claudeMCPPath is <parent of claudeHome>/.mcp.json for a project install and
// ~/.claude.json otherwise.
//
//revive:disable:flag-parameter
func claudeMCPPath(claudeHome string, project bool) string {
	if project {
		return filepath.Join(filepath.Dir(claudeHome), ".mcp.json")
	}
	return userDir(".claude.json")
}

//revive:enable:flag-parameter

// SetupClaudeCode registers the server with Claude Code.
// claudeHome defaults to ~/.claude when empty.
//
//revive:disable:flag-parameter
func SetupClaudeCode(claudeHome string, project bool) Result {
	if claudeHome == "" {
		claudeHome = DefaultClaudeHome()
	}
	path := claudeMCPPath(claudeHome, project)
	added, err := mcpServersEntry.install(path)
	if err != nil {
		return failf("Could not update %s: %v", path, err)
	}
	if !added {
		return ok("Already installed")
	}
	scope := ".mcp.json"
	if !project {
		scope = "~/.claude.json"
	}
	return okf("Installed: mcpServers in %s", scope)
}

// UninstallClaudeCode removes the server from Claude Code.
func UninstallClaudeCode(claudeHome string, project bool) Result {
	if claudeHome == "" {
		claudeHome = DefaultClaudeHome()
	}
	path := claudeMCPPath(claudeHome, project)
	done, err := mcpServersEntry.uninstall(path)
	if err != nil {
		return failf("Could not update %s: %v", path, err)
	}
	if !done {
		return ok("Nothing to remove")
	}
	return okf("Removed: mcpServers from %s", filepath.Base(path))
}

//revive:enable:flag-parameter

// ---------------------------------------------------------------------------
// Cursor
// ---------------------------------------------------------------------------

// SetupCursor registers the server with Cursor.
// cursorHome defaults to ~/.cursor when empty.
func SetupCursor(cursorHome string) Result {
	if cursorHome == "" {
		cursorHome = DefaultCursorHome()
	}
	added, err := mcpServersEntry.install(filepath.Join(cursorHome, "mcp.json"))
	if err != nil {
		return failf("Could not update mcp.json: %v", err)
	}
	if !added {
		return ok("Already installed")
	}
	return ok("Installed: mcpServers")
}

// UninstallCursor removes the server from Cursor.
func UninstallCursor(cursorHome string) Result {
	if cursorHome == "" {
		cursorHome = DefaultCursorHome()
	}
	done, err := mcpServersEntry.uninstall(filepath.Join(cursorHome, "mcp.json"))
	if err != nil {
		return failf("Could not update mcp.json: %v", err)
	}
	if !done {
		return ok("Nothing to remove")
	}
	return ok("Removed: mcpServers")
}

// ---------------------------------------------------------------------------
// Codex
// ---------------------------------------------------------------------------

const agentsHeading = "## projroot"

const codexAgentsSection = `
` + agentsHeading + ` (project root)

This workspace may hold several Cargo crates. Before running cargo, rustfmt or
any tool that must start in a crate directory, find the crate root:

` + "```bash\nprojroot resolve --document <file you are editing>\n```" + `

Tool locations (racer, rustfmt, cargo, rustc, RUST_SRC_PATH, CARGO_HOME):

` + "```bash\nprojroot tools\n```" + `
`

var agentsSectionRe = regexp.MustCompile(`(?s)\n*## projroot[^\n]*\n.*?(?:(\n## )|\z)`)

// removeAgentsSection strips our block from AGENTS.md content, keeping any
// heading that follows it. It reports whether anything changed.
func removeAgentsSection(content string) (string, bool) {
	if !strings.Contains(content, agentsHeading) {
		return content, false
	}
	cleaned := agentsSectionRe.ReplaceAllString(content, "$1")
	cleaned = strings.TrimLeft(cleaned, "\n")
	if strings.TrimSpace(cleaned) == "" {
		return "", true
	}
	return strings.TrimRight(cleaned, "\n") + "\n", true
}

// SetupCodex registers the server in Codex config.toml and adds usage notes
// to AGENTS.md. codexHome defaults to ~/.codex when empty. The first failing
// write is reported; anything already installed stays in place.
func SetupCodex(codexHome string) Result {
	if codexHome == "" {
		codexHome = DefaultCodexHome()
	}
	var installed []string

	tomlPath := filepath.Join(codexHome, "config.toml")
	added, err := appendTOMLSection(tomlPath)
	if err != nil {
		return failf("Could not update config.toml: %v", err)
	}
	if added {
		installed = append(installed, "config.toml")
	}

	agentsPath := filepath.Join(codexHome, "AGENTS.md")
	existing, err := os.ReadFile(agentsPath)
	if err != nil && !os.IsNotExist(err) {
		return failf("Could not read AGENTS.md: %v", err)
	}
	if !strings.Contains(string(existing), agentsHeading) {
		content := strings.TrimRight(string(existing), "\n") + "\n" + codexAgentsSection
		if err := os.MkdirAll(codexHome, 0o755); err != nil {
			return failf("Could not update AGENTS.md: %v", err)
		}
		if err := os.WriteFile(agentsPath, []byte(content), 0o644); err != nil { // #nosec G306 -- AGENTS.md does not contain secrets
			return failf("Could not update AGENTS.md: %v", err)
		}
		installed = append(installed, "AGENTS.md")
	}

	return summarise("Installed", "Already installed", installed)
}

// UninstallCodex removes the config.toml table and the AGENTS.md notes.
func UninstallCodex(codexHome string) Result {
	if codexHome == "" {
		codexHome = DefaultCodexHome()
	}
	var removed []string

	done, err := removeTOMLSection(filepath.Join(codexHome, "config.toml"))
	if err != nil {
		return failf("Could not update config.toml: %v", err)
	}
	if done {
		removed = append(removed, "config.toml")
	}

	agentsPath := filepath.Join(codexHome, "AGENTS.md")
	data, err := os.ReadFile(agentsPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return failf("Could not read AGENTS.md: %v", err)
	default:
		if cleaned, changed := removeAgentsSection(string(data)); changed {
			if cleaned == "" {
				err = os.Remove(agentsPath)
			} else {
				err = os.WriteFile(agentsPath, []byte(cleaned), 0o644) // #nosec G306 -- AGENTS.md does not contain secrets
			}
			if err != nil {
				return failf("Could not update AGENTS.md: %v", err)
			}
			removed = append(removed, "AGENTS.md")
		}
	}

	return summarise("Removed", "Nothing to remove", removed)
}

// ---------------------------------------------------------------------------
// OpenCode
// ---------------------------------------------------------------------------

// SetupOpencode registers the server in <dir>/opencode.json. An empty dir
// means the global ~/.config/opencode.
func SetupOpencode(dir string) Result {
	if dir == "" {
		dir = DefaultOpencodeDir()
	}
	added, err := opencodeEntry.install(filepath.Join(dir, "opencode.json"))
	if err != nil {
		return failf("Could not update opencode.json: %v", err)
	}
	if !added {
		return ok("Already installed")
	}
	return okf("Installed: mcp in %s", filepath.Join(dir, "opencode.json"))
}

// UninstallOpencode removes the server from <dir>/opencode.json.
func UninstallOpencode(dir string) Result {
	if dir == "" {
		dir = DefaultOpencodeDir()
	}
	path := filepath.Join(dir, "opencode.json")
	done, err := opencodeEntry.uninstall(path)
	if err != nil {
		return failf("Could not update opencode.json: %v", err)
	}
	if !done {
		return ok("Nothing to remove")
	}
	return okf("Removed: mcp from %s", path)
}
