package console

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hemolink/retable/config"
	"github.com/hemolink/retable/grid"
	"github.com/hemolink/retable/source"
)

// SessionIdleTimeout is the time after which
// an unused session and its grids are dropped.
const SessionIdleTimeout = 12 * time.Hour

// session holds the grids of a browser session.
// mu serialises all access to the grids.
type session struct {
	id       string
	lastSeen time.Time // guarded by Server.mu

	mu    sync.Mutex
	views map[string]*tableView
}

// tableView is the grid of a table within a session.
type tableView struct {
	grid    *grid.Grid[source.Record]
	version int
	// detail is the record of the last clicked row.
	detail source.Record
	// flash is shown once on the next rendered page.
	flash string
}

// session returns the session of the request's cookie
// or starts a new session and sets its cookie.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if cookie, err := r.Cookie(s.config.Server.SessionCookie); err == nil {
		if sess, ok := s.sessions[cookie.Value]; ok {
			sess.lastSeen = now
			return sess
		}
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > SessionIdleTimeout {
			delete(s.sessions, id)
		}
	}
	sess := &session{
		id:       uuid.NewString(),
		lastSeen: now,
		views:    make(map[string]*tableView),
	}
	s.sessions[sess.id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Server.SessionCookie,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.Server.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("Started session", zap.String("session", sess.id), zap.Int("sessions", len(s.sessions)))
	return sess
}

// tableView returns the grid of t for sess, creating it on first use.
// Grids of an older version of the records get the current
// records and the columns derived from them.
// The caller must hold sess.mu.
func (s *Server) tableView(ctx context.Context, sess *session, t *table) (*tableView, error) {
	records, version, err := t.data(ctx, s.loader)
	if err != nil {
		return nil, &statusError{status: http.StatusBadGateway, err: err}
	}
	v, ok := sess.views[t.config.Name]
	if !ok {
		v, err = s.newTableView(sess, t, records, version)
		if err != nil {
			return nil, err
		}
		sess.views[t.config.Name] = v
		return v, nil
	}
	if v.version != version {
		v.grid.SetColumns(GridColumns(t.config, records))
		v.grid.SetData(records)
		v.version = version
		v.detail = nil
	}
	return v, nil
}

func (s *Server) newTableView(sess *session, t *table, records []source.Record, version int) (*tableView, error) {
	cfg := t.config
	v := &tableView{version: version}
	g, err := NewGrid(cfg, records, GridHooks{
		OnAction: func(action config.ActionConfig, record source.Record) {
			key := RecordKey(record, v.grid.RowKey())
			s.audit.Add(AuditEntry{
				Time:    time.Now(),
				Session: sess.id,
				Table:   cfg.Name,
				Action:  action.Label,
				RowKey:  key,
			})
			s.logger.Info("Invoked row action",
				zap.String("session", sess.id),
				zap.String("table", cfg.Name),
				zap.String("action", action.Label),
				zap.String("row", key),
			)
			v.flash = fmt.Sprintf("%s: %s", action.Label, key)
		},
		OnRowClick: func(record source.Record) {
			v.detail = record
		},
		OnSelectionChange: func(keys []string) {
			s.logger.Debug("Changed selection",
				zap.String("session", sess.id),
				zap.String("table", cfg.Name),
				zap.Int("selected", len(keys)),
			)
		},
	})
	if err != nil {
		return nil, err
	}
	v.grid = g
	return v, nil
}
