// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the data source tracker form: an HTML page for
// recording data pulls, a listing of tracked sources, and a JSON API.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pdiddy/datapacket/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sources is the tracker storage the server needs.
type Sources interface {
	Add(ctx context.Context, src types.DataSource) (types.DataSource, error)
	List(ctx context.Context) ([]types.DataSource, error)
	Count(ctx context.Context) (int, error)
}

// Server handles tracker HTTP requests.
type Server struct {
	sources Sources
	flash   *flasher
	log     *zap.Logger
	tmpl    *template.Template
	now     func() time.Time
}

// NewServer returns a server storing into sources. key signs flash
// cookies and must not be empty.
func NewServer(sources Sources, key []byte, log *zap.Logger) (*Server, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("session key is empty")
	}
	if log == nil {
		log = zap.NewNop()
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"date":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"count": formatCount,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Server{
		sources: sources,
		flash:   newFlasher(key),
		log:     log,
		tmpl:    tmpl,
		now:     time.Now,
	}, nil
}

// Routes returns the router for the tracker.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/add", s.handleAdd)
	r.Get("/sources", s.handleSources)
	r.Get("/api/sources", s.handleAPISources)
	return r
}

// requestLogger logs one line per request through log.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// ListenAndServe serves the tracker on addr until ctx is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("tracker listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

func formatCount(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%d", *n)
}
