package htmltable

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hemolink/retable"
)

func singleCellView(val any) retable.View {
	return &retable.AnyValuesView{Cols: []string{"value"}, Rows: [][]any{{val}}}
}

func TestJSONCellFormatter_FormatCell(t *testing.T) {
	tests := []struct {
		name        string
		fmt         JSONCellFormatter
		val         any
		wantStr     string
		wantRaw     bool
		unsupported bool
		wantErr     bool
	}{
		{name: "nil", val: nil, unsupported: true},
		{name: "empty string", val: "", unsupported: true},
		{name: "nil pointer", val: (*int)(nil), unsupported: true},
		{name: "compact string JSON", val: `{"1": 1}`, wantStr: `<pre>{&#34;1&#34;:1}</pre>`, wantRaw: true},
		{name: "compact []byte JSON", val: []byte(`{"1": 1}`), wantStr: `<pre>{&#34;1&#34;:1}</pre>`, wantRaw: true},
		{name: "compact RawMessage JSON", val: json.RawMessage(`{"1": 1}`), wantStr: `<pre>{&#34;1&#34;:1}</pre>`, wantRaw: true},
		{name: "marshalled int", val: 7, wantStr: `<pre>7</pre>`, wantRaw: true},
		{name: "indented", fmt: " ", val: `[1]`, wantStr: "<pre>[\n 1\n]</pre>", wantRaw: true},
		{name: "invalid JSON", val: `{`, wantStr: `<pre>{</pre>`, wantRaw: true},
		{name: "free text", val: "call <donor> first", wantStr: `<pre>call &lt;donor&gt; first</pre>`, wantRaw: true},
		{name: "unmarshallable", val: make(chan int), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str, raw, err := tt.fmt.FormatCell(context.Background(), singleCellView(tt.val), 0, 0)
			if tt.unsupported {
				require.ErrorIs(t, err, errors.ErrUnsupported)
				return
			}
			require.Equal(t, tt.wantErr, err != nil, "err result: %v", err)
			require.Equal(t, tt.wantStr, str, "str result")
			require.Equal(t, tt.wantRaw, raw, "raw result")
		})
	}
}

func TestHTMLCellFormatters(t *testing.T) {
	ctx := context.Background()
	view := singleCellView("<b>O+</b>")

	str, raw, err := HTMLPreCellFormatter.FormatCell(ctx, view, 0, 0)
	require.NoError(t, err)
	require.True(t, raw)
	require.Equal(t, "<pre>&lt;b&gt;O+&lt;/b&gt;</pre>", str)

	str, _, err = HTMLCodeCellFormatter.FormatCell(ctx, singleCellView("A-"), 0, 0)
	require.NoError(t, err)
	require.Equal(t, "<code>A-</code>", str)

	str, _, err = ValueAsHTMLAnchorCellFormatter.FormatCell(ctx, singleCellView("d-1"), 0, 0)
	require.NoError(t, err)
	require.Equal(t, "<a id='d-1'>d-1</a>", str)

	str, _, err = HTMLSpanClassCellFormatter("badge urgent").FormatCell(ctx, singleCellView("critical"), 0, 0)
	require.NoError(t, err)
	require.Equal(t, "<span class='badge urgent'>critical</span>", str)

	_, _, err = HTMLSpanClassCellFormatter("badge").FormatCell(ctx, singleCellView(nil), 0, 0)
	require.ErrorIs(t, err, errors.ErrUnsupported)
}

func TestFormatterByName(t *testing.T) {
	for _, name := range []string{"pre", "code", "anchor", "json", "span:status"} {
		t.Run(name, func(t *testing.T) {
			f, err := FormatterByName(name)
			require.NoError(t, err)
			require.NotNil(t, f)
		})
	}

	f, err := FormatterByName("")
	require.NoError(t, err)
	require.Nil(t, f)

	_, err = FormatterByName("span:")
	require.Error(t, err)
	_, err = FormatterByName("markdown")
	require.Error(t, err)
}
