package db

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mithrel/tablemark/pkg/api"
)

type memArchive struct {
	mu   sync.RWMutex
	seq  int
	byID map[string]memRecord
}

type memRecord struct {
	seq int
	r   api.Render
}

func newMemArchive() *memArchive {
	return &memArchive{byID: make(map[string]memRecord)}
}

func (m *memArchive) Put(ctx context.Context, r api.Render) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[r.ID]; ok {
		return false, nil
	}
	m.seq++
	r.CreatedAt = r.CreatedAt.UTC()
	m.byID[r.ID] = memRecord{seq: m.seq, r: r}
	return true, nil
}

func (m *memArchive) Get(ctx context.Context, id string) (api.Render, error) {
	if err := checkID(id); err != nil {
		return api.Render{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.byID[id]; ok {
		return rec.r, nil
	}
	var found []api.Render
	for k, rec := range m.byID {
		if strings.HasPrefix(k, id) {
			found = append(found, rec.r)
		}
	}
	switch len(found) {
	case 0:
		return api.Render{}, ErrNotFound
	case 1:
		return found[0], nil
	default:
		return api.Render{}, ErrAmbiguous
	}
}

func (m *memArchive) List(ctx context.Context, limit int) ([]api.Render, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	m.mu.RLock()
	recs := make([]memRecord, 0, len(m.byID))
	for _, rec := range m.byID {
		recs = append(recs, rec)
	}
	m.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.r.CreatedAt.Equal(b.r.CreatedAt) {
			return a.r.CreatedAt.After(b.r.CreatedAt)
		}
		return a.seq > b.seq
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	out := make([]api.Render, len(recs))
	for i, rec := range recs {
		out[i] = summary(rec.r)
	}
	return out, nil
}

func (m *memArchive) Delete(ctx context.Context, id string) error {
	r, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, r.ID)
	return nil
}

func (m *memArchive) Close() error { return nil }

func summary(r api.Render) api.Render {
	r.Markdown = ""
	r.HTML = ""
	return r
}
