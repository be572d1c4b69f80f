package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tablemark/internal/table"
)

func TestCheckConfigValidityValid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("data_dir", "/tmp/tablemark")

	if err := CheckConfigValidity(v); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("data_dir", "")
	v.Set("output", "yaml")
	v.Set("rules", []string{"拒绝=negative", "oops"})
	v.Set("html.table_class", "")
	v.Set("http.max_body_bytes", 0)
	v.Set("tls.domains", []string{"example.com/x"})
	v.Set("tls.cert_file", "cert.pem")

	err := CheckConfigValidity(v)
	if err == nil {
		t.Fatalf("expected error for invalid config")
	}

	msg := err.Error()
	expected := []string{
		"data_dir is required",
		`output "yaml" is not a known mode`,
		`rules: rule "oops"`,
		"html: table class is empty",
		"http.max_body_bytes must be greater than 0",
		"auth.token is required when tls.domains is set",
		`tls.domains entry "example.com/x"`,
		"tls.cert_file and tls.key_file must be set together",
		"tls.cert_file cannot be combined with tls.domains",
	}
	for _, want := range expected {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error to contain %q, got %q", want, msg)
		}
	}
}

// isolate points config and data lookups at a fresh directory and runs the
// test from it.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)
	v := viper.New()
	require.NoError(t, Load(context.Background(), v))

	assert.Equal(t, "html", v.GetString("output"))
	assert.True(t, v.GetBool("html.escape"))
	assert.Equal(t, int64(DefaultMaxBodyBytes), v.GetInt64("http.max_body_bytes"))
	assert.Equal(t, filepath.Join(dir, "data", "tablemark"), v.GetString("data_dir"))
	assert.Equal(t, filepath.Join(dir, "data", "tablemark", "tablemark.db"), ResolveDBPath(v))

	rules, err := Rules(v)
	require.NoError(t, err)
	assert.Equal(t, table.DefaultRules(), rules)
	assert.NoError(t, CheckConfigValidity(v))
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)
	cfgDir := filepath.Join(dir, "config", "tablemark")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.toml"),
		[]byte("output = \"table\"\nhttp_addr = \":7000\"\n\n[html]\nescape = false\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("TABLEMARK_TLS_EMAIL=ops@example.com\nTABLEMARK_HTTP_ADDR=:1\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("TABLEMARK_TLS_EMAIL") })

	t.Setenv("TABLEMARK_HTTP_ADDR", ":9999")
	t.Setenv("TABLEMARK_RULES", "nope=negative, ok = positive ,")
	t.Setenv("TABLEMARK_TLS_DOMAINS", "a.example.com,b.example.com")

	v := viper.New()
	require.NoError(t, Load(context.Background(), v))

	assert.Equal(t, "table", v.GetString("output"))
	assert.False(t, v.GetBool("html.escape"))
	assert.Equal(t, ":9999", v.GetString("http_addr"))
	assert.Equal(t, "ops@example.com", v.GetString("tls.email"))
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, v.GetStringSlice("tls.domains"))

	rules, err := Rules(v)
	require.NoError(t, err)
	assert.Equal(t, table.Rules{
		{Keyword: "nope", Emphasis: table.EmphasisNegative},
		{Keyword: "ok", Emphasis: table.EmphasisPositive},
	}, rules)
}

func TestLoadMalformedConfig(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("output = \n"), 0o644))

	err := Load(context.Background(), viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "TABLEMARK_HTML_ESCAPE", EnvName("html.escape"))
	assert.Equal(t, "TABLEMARK_RULES", EnvName("rules"))
}
