package wire

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/spf13/viper"

	"github.com/mithrel/tablemark/internal/config"
	"github.com/mithrel/tablemark/internal/db"
	"github.com/mithrel/tablemark/internal/render"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *log.Logger
	Renderer *render.Renderer

	archiveURL string
	once       sync.Once
	archive    db.Archive
	archiveErr error
}

// BuildApp validates the loaded config and wires dependencies from it.
// Logs are discarded unless verbose is set.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	if err := config.CheckConfigValidity(v); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	var out io.Writer = io.Discard
	if v.GetBool("verbose") {
		out = os.Stderr
	}
	logger := log.New(out, "tablemark ", log.LstdFlags)

	opts, err := config.RenderOptions(v, logger)
	if err != nil {
		return nil, err
	}
	renderer, err := render.New(opts)
	if err != nil {
		return nil, err
	}

	url := "mem://"
	if v.GetBool("archive.enabled") {
		url = "sqlite://" + config.ResolveDBPath(v)
	}
	return &App{
		Cfg:        v,
		Log:        logger,
		Renderer:   renderer,
		archiveURL: url,
	}, nil
}

// Archiving reports whether renders are kept across runs.
func (a *App) Archiving() bool { return a.archiveURL != "mem://" }

// Archive opens the render archive on first use.
func (a *App) Archive(ctx context.Context) (db.Archive, error) {
	a.once.Do(func() {
		a.archive, a.archiveErr = db.Open(ctx, a.archiveURL)
		if a.archiveErr == nil {
			a.Log.Printf("archive: opened %s", a.archiveURL)
		}
	})
	return a.archive, a.archiveErr
}

// Close releases the archive if it was opened.
func (a *App) Close() error {
	if a.archive == nil {
		return nil
	}
	return a.archive.Close()
}
