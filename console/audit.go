package console

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/hemolink/retable"
	"github.com/hemolink/retable/htmltable"
)

// AuditEntry records a row action invoked from the browser.
type AuditEntry struct {
	Time    time.Time `col:"Time"`
	Session string    `col:"-"`
	Table   string    `col:"Table"`
	Action  string    `col:"Action"`
	RowKey  string    `col:"Row"`
}

// AuditLog keeps the most recent audit entries in memory.
// It is safe for concurrent use.
type AuditLog struct {
	mu      sync.Mutex
	size    int
	entries []AuditEntry
}

// NewAuditLog returns an AuditLog keeping up to size entries.
func NewAuditLog(size int) *AuditLog {
	return &AuditLog{size: max(size, 1)}
}

// Add appends entry and drops the oldest
// entry if the log is full.
func (l *AuditLog) Add(entry AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == l.size {
		l.entries = slices.Delete(l.entries, 0, 1)
	}
	l.entries = append(l.entries, entry)
}

// Entries returns the entries, newest first.
func (l *AuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := slices.Clone(l.entries)
	slices.Reverse(entries)
	return entries
}

// View returns the entries, newest first, as retable.View.
func (l *AuditLog) View() retable.View {
	return retable.NewRecordsView("Recent actions", l.Entries(), &retable.DefaultStructFieldNaming)
}

var auditWriter = htmltable.NewWriter().
	WithTableClass("audit").
	WithHeaderRow(true).
	WithTypeFormatter(reflect.TypeFor[time.Time](), retable.CellFormatterFunc(formatTime))

func formatTime(ctx context.Context, view retable.View, row, col int) (string, bool, error) {
	t, ok := view.Cell(row, col).(time.Time)
	if !ok || t.IsZero() {
		return "", false, errors.ErrUnsupported
	}
	return t.Format(time.DateTime), false, nil
}
