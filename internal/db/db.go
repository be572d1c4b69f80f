// Package db keeps an archive of rendered documents.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mithrel/tablemark/pkg/api"
)

// Archive stores renders keyed by the content hash of their input.
type Archive interface {
	// Put stores r unless a render with the same ID exists. It reports
	// whether a new record was written.
	Put(ctx context.Context, r api.Render) (bool, error)
	// Get returns the render whose ID equals or uniquely starts with id.
	Get(ctx context.Context, id string) (api.Render, error)
	// List returns up to limit renders, newest first, without bodies.
	List(ctx context.Context, limit int) ([]api.Render, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

// DefaultListLimit applies when List is called with a non-positive limit.
const DefaultListLimit = 50

// minPrefix is the shortest id prefix Get accepts.
const minPrefix = 4

// Open returns an Archive for a URL: sqlite://path or mem://.
func Open(ctx context.Context, url string) (Archive, error) {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		return openSQLite(ctx, strings.TrimPrefix(url, "sqlite://"))
	case strings.HasPrefix(url, "mem://"):
		return newMemArchive(), nil
	default:
		return nil, fmt.Errorf("unsupported archive url %q", url)
	}
}

func checkID(id string) error {
	if len(id) < minPrefix {
		return fmt.Errorf("id %q: need at least %d characters", id, minPrefix)
	}
	return nil
}
