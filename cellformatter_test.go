package retable

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatCell(t *testing.T) {
	ctx := context.Background()
	view := &AnyValuesView{
		Cols: []string{"units", "note"},
		Rows: [][]any{{12, nil}},
	}
	unsupported := CellFormatterFunc(func(context.Context, View, int, int) (string, bool, error) {
		return "", false, errors.ErrUnsupported
	})
	failing := CellFormatterFunc(func(context.Context, View, int, int) (string, bool, error) {
		return "", false, errors.New("broken")
	})

	tests := []struct {
		name       string
		col        int
		formatters []CellFormatter
		wantStr    string
		wantRaw    bool
		wantErr    error
	}{
		{name: "printf", col: 0, formatters: []CellFormatter{PrintfCellFormatter("%d units")}, wantStr: "12 units"},
		{name: "printf raw", col: 0, formatters: []CellFormatter{PrintfRawCellFormatter("<b>%d</b>")}, wantStr: "<b>12</b>", wantRaw: true},
		{name: "raw string", col: 1, formatters: []CellFormatter{RawCellString("&ndash;")}, wantStr: "&ndash;", wantRaw: true},
		{name: "nil and unsupported are skipped", col: 0, formatters: []CellFormatter{nil, unsupported, CellStringFormatter{}}, wantStr: "12"},
		{name: "null-like unsupported", col: 1, formatters: []CellFormatter{CellStringFormatter{}}, wantErr: errors.ErrUnsupported},
		{name: "no formatters", col: 0, formatters: nil, wantErr: errors.ErrUnsupported},
		{name: "error stops", col: 0, formatters: []CellFormatter{failing, CellStringFormatter{}}, wantErr: errors.New("broken")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str, raw, err := FormatCell(ctx, view, 0, tt.col, tt.formatters...)
			if tt.wantErr != nil {
				require.EqualError(t, err, tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantStr, str)
			require.Equal(t, tt.wantRaw, raw)
		})
	}
}
