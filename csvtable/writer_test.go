package csvtable

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hemolink/retable"
)

func TestWriter_WriteView(t *testing.T) {
	simpleView := &retable.AnyValuesView{
		Cols: []string{"id", "city", "units"},
		Rows: [][]any{
			{1, "Ikeja", nil},
			{2, "Ibadan", new(float64)},
		},
	}
	paddedView := &retable.AnyValuesView{
		Cols: []string{"A", "B", "Unit"},
		Rows: [][]any{
			{1, "Ikeja", nil},
			{123, "Ibadan", new(float64)},
		},
	}
	tests := []struct {
		name     string
		writer   *Writer
		view     retable.View
		wantDest string
	}{
		{
			name:     "empty view",
			writer:   NewWriter(),
			view:     &retable.AnyValuesView{},
			wantDest: ``,
		},
		{
			name:   "simple",
			writer: NewWriter().WithHeaderRow(true),
			view:   simpleView,
			wantDest: "" +
				`id;city;units` + "\r\n" +
				`1;Ikeja;` + "\r\n" +
				`2;Ibadan;0` + "\r\n",
		},
		{
			name:   "simple no header",
			writer: NewWriter().WithHeaderRow(true).WithHeaderRow(false),
			view:   simpleView,
			wantDest: "" +
				`1;Ikeja;` + "\r\n" +
				`2;Ibadan;0` + "\r\n",
		},
		{
			name:   "padded align left",
			writer: NewWriter().WithHeaderRow(true).WithDelimiter('|').WithPadding(AlignLeft),
			view:   paddedView,
			wantDest: "" +
				`A  |B     |Unit` + "\r\n" +
				`1  |Ikeja |    ` + "\r\n" +
				`123|Ibadan|0   ` + "\r\n",
		},
		{
			name:   "padded align center",
			writer: NewWriter().WithHeaderRow(true).WithDelimiter('|').WithPadding(AlignCenter),
			view:   paddedView,
			wantDest: "" +
				` A |  B   |Unit` + "\r\n" +
				` 1 |Ikeja |    ` + "\r\n" +
				`123|Ibadan| 0  ` + "\r\n",
		},
		{
			name:   "padded align right",
			writer: NewWriter().WithHeaderRow(true).WithDelimiter('|').WithPadding(AlignRight),
			view:   paddedView,
			wantDest: "" +
				`  A|     B|Unit` + "\r\n" +
				`  1| Ikeja|    ` + "\r\n" +
				`123|Ibadan|   0` + "\r\n",
		},
		{
			name:   "comma and quoted fields",
			writer: NewWriter().WithHeaderRow(true).WithDelimiter(',').WithQuoteAllFields(true),
			view:   &retable.AnyValuesView{Cols: []string{" id ", "city", "units"}, Rows: simpleView.Rows},
			wantDest: "" +
				`" id ","city","units"` + "\r\n" +
				`"1","Ikeja",""` + "\r\n" +
				`"2","Ibadan","0"` + "\r\n",
		},
		{
			name:   "quoting as needed",
			writer: NewWriter().WithDelimiter(',').WithNewLine("\n").WithNilValue("NULL").WithQuoteEmptyFields(true),
			view: &retable.AnyValuesView{
				Cols: []string{"name", "note", "units"},
				Rows: [][]any{
					{"Okafor, Ada", `said "urgent"`, nil},
					{"", "two\r\nlines", 3},
				},
			},
			wantDest: "" +
				`"Okafor, Ada","said ""urgent""",NULL` + "\n" +
				`"","two` + "\n" + `lines",3` + "\n",
		},
		{
			name:     "column formatter",
			writer:   NewWriter().WithColumnFormatter(1, retable.PrintfCellFormatter("%d ml")),
			view:     &retable.AnyValuesView{Cols: []string{"group", "volume"}, Rows: [][]any{{"O+", 450}}},
			wantDest: "O+;450 ml\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dest bytes.Buffer
			err := tt.writer.WriteView(context.Background(), &dest, tt.view)
			require.NoError(t, err)
			require.Equal(t, tt.wantDest, dest.String())
		})
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	view := &retable.AnyValuesView{
		Cols: []string{"Donor", "City", "Note"},
		Rows: [][]any{
			{"Adébáyọ̀", "Ìbàdàn", "first; donation"},
			{"Zoë", "Abuja", `"walk-in"`},
		},
	}
	format := &Format{Encoding: "UTF-8", Separator: ";", Newline: "\r\n"}
	w, err := NewWriterForFormat(format)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = w.WithHeaderRow(true).WriteView(context.Background(), &buf, view)
	require.NoError(t, err)

	parsed, err := ReadWithFormat(buf.Bytes(), "donors", format)
	require.NoError(t, err)
	require.Equal(t, view.Cols, parsed.Cols)
	require.Equal(t, [][]string{
		{"Adébáyọ̀", "Ìbàdàn", "first; donation"},
		{"Zoë", "Abuja", `"walk-in"`},
	}, parsed.Rows)
}

func TestWriter_WithEncoding(t *testing.T) {
	w, err := NewWriter().WithEncoding("UTF-8")
	require.NoError(t, err)
	require.Nil(t, w.encoding)

	_, err = NewWriter().WithEncoding("no such charset")
	require.Error(t, err)
}
