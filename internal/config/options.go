package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mithrel/tablemark/internal/render"
	"github.com/mithrel/tablemark/internal/table"
)

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// DefaultMaxBodyBytes matches the 16 MiB upload limit of the review service.
const DefaultMaxBodyBytes = 16 << 20

const dbFile = "tablemark.db"

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	classes := render.DefaultClasses()
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; archive DB is data_dir/" + dbFile},
		{Key: "output", Default: "html", Comment: "Default output mode: html|pretty|table|plain|json|ndjson|xlsx|tui"},
		{Key: "rules", Default: table.DefaultRules().Strings(), Comment: "Emphasis rules as keyword=negative|positive|caution; first match wins"},
		{Key: "verbose", Default: false, Comment: "Log to stderr from CLI commands"},
		{Key: "http_addr", Default: ":8080", Comment: "Listen address for the preview server"},

		{Key: "html.wrapper_class", Default: classes.Wrapper, Comment: "Class of the element wrapping each table"},
		{Key: "html.table_class", Default: classes.Table, Comment: "Class of each table element"},
		{Key: "html.negative_class", Default: classes.Negative, Comment: "Class of cells matching a negative rule"},
		{Key: "html.positive_class", Default: classes.Positive, Comment: "Class of cells matching a positive rule"},
		{Key: "html.caution_class", Default: classes.Caution, Comment: "Class of cells matching a caution rule"},
		{Key: "html.escape", Default: true, Comment: "Escape cell text; false inserts it as markup and sanitizes the result"},

		{Key: "auth.token", Default: "", Comment: "Bearer token required by the preview server; empty disables auth"},
		{Key: "http.max_body_bytes", Default: DefaultMaxBodyBytes, Comment: "Largest accepted request body in bytes"},
		{Key: "tls.domains", Default: []string{}, Comment: "Serve HTTPS with ACME certificates for these domains"},
		{Key: "tls.email", Default: "", Comment: "ACME account email"},
		{Key: "tls.cert_file", Default: "", Comment: "PEM certificate for HTTPS without ACME; needs tls.key_file"},
		{Key: "tls.key_file", Default: "", Comment: "PEM private key matching tls.cert_file"},
		{Key: "archive.enabled", Default: true, Comment: "Keep rendered output in the local archive"},
	}
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/tablemark or ~/.local/share/tablemark
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tablemark")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tablemark")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "tablemark", "config.toml")
}

// ResolveDBPath returns the archive DB file path under data_dir.
func ResolveDBPath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	// Expand ~ for convenience
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, dbFile)
}
