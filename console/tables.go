package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/hemolink/retable"
	"github.com/hemolink/retable/config"
	"github.com/hemolink/retable/geo"
	"github.com/hemolink/retable/grid"
	"github.com/hemolink/retable/htmltable"
	"github.com/hemolink/retable/source"
)

// table holds the records of a configured table,
// shared by the grids of all sessions.
type table struct {
	config *config.TableConfig
	writer *htmltable.GridWriter[source.Record]

	mu      sync.Mutex
	loaded  bool
	records []source.Record
	version int
}

func newTable(cfg *config.TableConfig) (*table, error) {
	writer := htmltable.NewGridWriter[source.Record]().WithTableClass("retable")
	for _, col := range cfg.Columns {
		formatter, err := htmltable.FormatterByName(col.Format)
		if err != nil {
			return nil, fmt.Errorf("table %s column %s: %w", cfg.Name, col.Key, err)
		}
		if formatter != nil {
			writer = writer.WithColumnFormatter(col.Key, formatter)
		}
	}
	return &table{config: cfg, writer: writer}, nil
}

func (t *table) url() string {
	return "/tables/" + t.config.Name
}

// data returns the records and their version,
// loading them on first use.
func (t *table) data(ctx context.Context, loader *source.Loader) ([]source.Record, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.loaded {
		if err := t.load(ctx, loader); err != nil {
			return nil, 0, err
		}
	}
	return t.records, t.version, nil
}

// reload loads the records again and returns their number.
func (t *table) reload(ctx context.Context, loader *source.Loader) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.load(ctx, loader); err != nil {
		return 0, err
	}
	return len(t.records), nil
}

func (t *table) load(ctx context.Context, loader *source.Loader) error {
	records, err := loader.Load(ctx, t.config.Source)
	if err != nil {
		return err
	}
	t.records = records
	t.loaded = true
	t.version++
	return nil
}

// GridColumns returns the grid columns of a table configuration.
// Without configured columns every key of the records becomes
// a sortable column, so the columns are derived again whenever
// the records change. A configured distance column is appended.
func GridColumns(cfg *config.TableConfig, records []source.Record) []grid.Column[source.Record] {
	var columns []grid.Column[source.Record]
	if len(cfg.Columns) == 0 {
		for _, key := range retable.NewRecordsView(cfg.Title, records, nil).Columns() {
			columns = append(columns, grid.Column[source.Record]{Key: key, Sortable: true})
		}
	}
	for _, col := range cfg.Columns {
		columns = append(columns, grid.Column[source.Record]{
			Key:           col.Key,
			Title:         col.Title,
			Sortable:      col.Sortable,
			ClassName:     col.Class,
			CellClassName: col.CellClass,
		})
	}
	if d := cfg.Distance; d != nil {
		origin := geo.Point{Lat: d.Lat, Lng: d.Lng}
		columns = append(columns, geo.DistanceColumn(d.Key, d.Title, origin, geo.LocateFields[source.Record](d.LatKey, d.LngKey, nil)))
	}
	return columns
}

// GridHooks receives the events of a grid created by NewGrid.
// Nil hooks are ignored.
type GridHooks struct {
	OnAction          func(action config.ActionConfig, record source.Record)
	OnRowClick        func(record source.Record)
	OnSelectionChange func(keys []string)
}

// NewGrid returns the grid of a table configuration
// showing records with the configured columns and actions.
func NewGrid(cfg *config.TableConfig, records []source.Record, hooks GridHooks) (*grid.Grid[source.Record], error) {
	actions := make([]grid.Action[source.Record], len(cfg.Actions))
	for i, action := range cfg.Actions {
		actions[i] = grid.Action[source.Record]{
			Label:     action.Label,
			Icon:      action.Icon,
			ClassName: action.Class,
		}
		if hooks.OnAction != nil {
			actions[i].OnClick = func(record source.Record) {
				hooks.OnAction(action, record)
			}
		}
	}
	g, err := grid.New(grid.Config[source.Record]{
		Title:             cfg.Title,
		Columns:           GridColumns(cfg, records),
		Data:              records,
		PageSizeOptions:   cfg.PageSizes,
		InitialPageSize:   cfg.InitialPageSize,
		RowKey:            cfg.RowKey,
		Selectable:        cfg.Selectable,
		Locale:            cfg.Locale,
		Actions:           actions,
		OnSelectionChange: hooks.OnSelectionChange,
		OnRowClick:        hooks.OnRowClick,
	})
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", cfg.Name, err)
	}
	return g, nil
}

// RecordKey returns the row key of record as string.
// An empty rowKey means grid.DefaultRowKey.
func RecordKey(record source.Record, rowKey string) string {
	if rowKey == "" {
		rowKey = grid.DefaultRowKey
	}
	value, _ := retable.RecordField(record, rowKey, nil)
	return retable.CellString(value)
}
