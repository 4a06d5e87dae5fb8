// Package console serves the configured tables of the
// admin console as interactive HTML grids.
//
// Every browser session gets its own grid per table holding
// query, sort, page and selection, while the records of a table
// are loaded once and shared until the table is reloaded.
// All grid state lives on the server: links and forms rendered
// by htmltable.GridWriter change it and are redirected back
// to the table page.
package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hemolink/retable/config"
	"github.com/hemolink/retable/grid"
	"github.com/hemolink/retable/source"
)

// AuditLogSize is the number of audit entries kept by a Server.
const AuditLogSize = 100

// Server is the http.Handler of the admin console.
type Server struct {
	config *config.Config
	loader *source.Loader
	logger *zap.Logger
	audit  *AuditLog
	tables map[string]*table
	mux    *http.ServeMux

	mu       sync.Mutex
	sessions map[string]*session
}

// NewServer returns a Server for the tables of cfg.
// A nil loader loads with source.NewLoader,
// a nil logger disables logging.
func NewServer(cfg *config.Config, loader *source.Loader, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loader == nil {
		loader = source.NewLoader(nil, logger)
	}
	s := &Server{
		config:   cfg,
		loader:   loader,
		logger:   logger,
		audit:    NewAuditLog(AuditLogSize),
		tables:   make(map[string]*table, len(cfg.Tables)),
		mux:      http.NewServeMux(),
		sessions: make(map[string]*session),
	}
	for i := range cfg.Tables {
		t, err := newTable(&cfg.Tables[i])
		if err != nil {
			return nil, err
		}
		s.tables[t.config.Name] = t
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /tables/{name}", s.handleTable)
	s.mux.HandleFunc("POST /tables/{name}/select", s.handleSelect)
	s.mux.HandleFunc("POST /tables/{name}/rows/{index}/click", s.handleRowClick)
	s.mux.HandleFunc("POST /tables/{name}/actions/{label}/{index}", s.handleAction)
	s.mux.HandleFunc("GET /tables/{name}/export.csv", s.handleExportCSV)
	s.mux.HandleFunc("GET /tables/{name}/export.xlsx", s.handleExportXLSX)
	s.mux.HandleFunc("POST /tables/{name}/reload", s.handleReload)
	return s, nil
}

// Audit returns the log of invoked row actions.
func (s *Server) Audit() *AuditLog { return s.audit }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured listen
// address until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.Server.Listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()
	s.logger.Info("Serving admin console",
		zap.String("listen", server.Addr),
		zap.Int("tables", len(s.tables)),
	)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down admin console")
		return server.Shutdown(shutdownCtx)
	}
}

// withView calls handle with the grid of the requested
// table for the session of the request.
func (s *Server) withView(w http.ResponseWriter, r *http.Request, handle func(t *table, v *tableView) error) {
	t, ok := s.tables[r.PathValue("name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	sess := s.session(w, r)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	v, err := s.tableView(r.Context(), sess, t)
	if err == nil {
		err = handle(t, v)
	}
	if err != nil {
		s.writeError(w, r, err)
	}
}

type statusError struct {
	status int
	err    error
}

func badRequest(format string, args ...any) error {
	return &statusError{status: http.StatusBadRequest, err: fmt.Errorf(format, args...)}
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func errorStatus(err error) int {
	var se *statusError
	switch {
	case errors.As(err, &se):
		return se.status
	case errors.Is(err, grid.ErrUnknownAction):
		return http.StatusNotFound
	case errors.Is(err, grid.ErrRowOutOfRange),
		errors.Is(err, grid.ErrInvalidPage),
		errors.Is(err, grid.ErrInvalidPageSize):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	http.Error(w, err.Error(), status)
}
