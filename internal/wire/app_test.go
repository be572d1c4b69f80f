package wire

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tablemark/internal/render"
	"github.com/mithrel/tablemark/internal/table"
	"github.com/mithrel/tablemark/pkg/api"
)

func defaults(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.Set("data_dir", t.TempDir())
	v.Set("output", "html")
	v.Set("rules", table.DefaultRules().Strings())
	c := render.DefaultClasses()
	v.Set("html.wrapper_class", c.Wrapper)
	v.Set("html.table_class", c.Table)
	v.Set("html.negative_class", c.Negative)
	v.Set("html.positive_class", c.Positive)
	v.Set("html.caution_class", c.Caution)
	v.Set("html.escape", true)
	v.Set("http_addr", ":0")
	v.Set("http.max_body_bytes", 1024)
	return v
}

func TestBuildAppArchive(t *testing.T) {
	ctx := context.Background()
	v := defaults(t)
	v.Set("archive.enabled", true)

	app, err := BuildApp(ctx, v)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	assert.True(t, app.Archiving())

	dbPath := filepath.Join(v.GetString("data_dir"), "tablemark.db")
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "archive opens lazily")

	a, err := app.Archive(ctx)
	require.NoError(t, err)
	_, err = a.Put(ctx, api.Render{ID: api.ContentHash("x")})
	require.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	again, err := app.Archive(ctx)
	require.NoError(t, err)
	assert.Same(t, a, again)
}

func TestBuildAppMemArchive(t *testing.T) {
	v := defaults(t)
	v.Set("archive.enabled", false)
	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)
	assert.False(t, app.Archiving())
	assert.Contains(t, app.Renderer.Render("| a | b |\n| 1 | 拒绝 |"), "text-danger fw-bold")
}

func TestBuildAppInvalid(t *testing.T) {
	v := defaults(t)
	v.Set("rules", []string{"broken"})
	_, err := BuildApp(context.Background(), v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
