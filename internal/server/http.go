package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/mithrel/tablemark/internal/db"
	"github.com/mithrel/tablemark/internal/render"
	"github.com/mithrel/tablemark/pkg/api"
)

const (
	defaultListLimit = 20
	maxListLimit     = 1000
	requestIDHeader  = "X-Request-ID"
)

// Server serves the preview API. archive may be nil, in which case nothing
// is stored and listings are empty.
type Server struct {
	cfg      *viper.Viper
	renderer *render.Renderer
	archive  db.Archive
	log      *log.Logger
	now      func() time.Time
}

func New(cfg *viper.Viper, renderer *render.Renderer, archive db.Archive, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{cfg: cfg, renderer: renderer, archive: archive, log: logger, now: time.Now}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /v1/render", s.auth(s.handleRender))
	mux.HandleFunc("POST /v1/result", s.auth(s.handleResult))
	mux.HandleFunc("GET /v1/rules", s.auth(s.handleRules))
	mux.HandleFunc("GET /v1/renders", s.auth(s.handleListRenders))
	mux.HandleFunc("GET /v1/renders/{id}", s.auth(s.handleGetRender))
	return s.withRequestID(mux)
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimSpace(s.cfg.GetString("auth.token"))
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get("Authorization")
		if !strings.HasPrefix(got, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(got, "Bearer ")) != tok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := s.now()
		next.ServeHTTP(rec, r)
		s.log.Printf("http: id=%s %s %s status=%d dur=%s", id, r.Method, r.URL.Path, rec.status, s.now().Sub(start))
	})
}

// readBody reads the limited request body, answering 413 or 400 itself
// when it fails.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	limit := s.cfg.GetInt64("http.max_body_bytes")
	if limit <= 0 {
		limit = 16 << 20
	}
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds "+strconv.FormatInt(limit, 10)+" bytes")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "failed to read body")
		return nil, false
	}
	return b, true
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	markdown := string(body)
	if isJSON(r) {
		var req api.RenderRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		markdown = req.Markdown
	}

	id := s.renderer.ID(markdown)
	etag := `"` + id + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Render-ID", id)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	rec, _ := s.renderer.Record(markdown, s.now())
	s.store(r.Context(), rec)
	writeHTML(w, http.StatusOK, rec.HTML)
}

func (s *Server) store(ctx context.Context, rec api.Render) {
	if s.archive == nil {
		return
	}
	created, err := s.archive.Put(ctx, rec)
	if err != nil {
		s.log.Printf("archive: put %s: %v", api.ShortID(rec.ID), err)
		return
	}
	if created {
		s.log.Printf("archive: stored %s tables=%d", api.ShortID(rec.ID), rec.Tables)
	}
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	var res api.ReviewResult
	if err := json.Unmarshal(body, &res); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	writeHTML(w, http.StatusOK, s.renderer.Result(res))
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.renderer.Rules())
}

func (s *Server) handleListRenders(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if ls := strings.TrimSpace(r.URL.Query().Get("limit")); ls != "" {
		n, err := strconv.Atoi(ls)
		if err != nil || n <= 0 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxListLimit))
			return
		}
		limit = n
	}
	out := []api.Render{}
	if s.archive != nil {
		list, err := s.archive.List(r.Context(), limit)
		if err != nil {
			s.log.Printf("archive: list: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to list renders")
			return
		}
		out = append(out, list...)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, "archive disabled")
		return
	}
	rec, err := s.archive.Get(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
		return
	case errors.Is(err, db.ErrAmbiguous):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, rec)
		return
	}
	w.Header().Set("ETag", `"`+rec.ID+`"`)
	writeHTML(w, http.StatusOK, rec.HTML)
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, part := range strings.Split(header, ",") {
		p := strings.TrimSpace(part)
		p = strings.TrimPrefix(p, "W/")
		if p == "*" || p == etag {
			return true
		}
	}
	return false
}

func writeHTML(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, html)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}
