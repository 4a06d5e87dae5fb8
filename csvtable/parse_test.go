package csvtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDetectFormat(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		wantRows   [][]string
		wantFormat *Format
	}{
		{
			name:       "semicolon CRLF",
			csv:        "Name;Age\r\nJohn;30\r\nJane;25",
			wantRows:   [][]string{{"Name", "Age"}, {"John", "30"}, {"Jane", "25"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: ";", Newline: "\r\n"},
		},
		{
			name:       "comma LF with trailing newline",
			csv:        "id,group\nd1,O+\n",
			wantRows:   [][]string{{"id", "group"}, {"d1", "O+"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
		},
		{
			name:       "tabs",
			csv:        "a\tb\tc\n1\t2\t3",
			wantRows:   [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: "\t", Newline: "\n"},
		},
		{
			name:       "quoted separators are not counted",
			csv:        "\"a;b;c\",d\n\"e;f\",g",
			wantRows:   [][]string{{"a;b;c", "d"}, {"e;f", "g"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
		},
		{
			name:       "sep header line",
			csv:        "sep=;\nname;note\nAda;a,b,c",
			wantRows:   [][]string{{"name", "note"}, {"Ada", "a,b,c"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: ";", Newline: "\n"},
		},
		{
			name:       "empty lines are nil rows",
			csv:        "a,b\n\n1,2",
			wantRows:   [][]string{{"a", "b"}, nil, {"1", "2"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
		},
		{
			name:       "multi line quoted field",
			csv:        "name,address\r\nJohn,\"12 Marina\r\nLagos\"\r\n",
			wantRows:   [][]string{{"name", "address"}, {"John", "12 Marina\nLagos"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: ",", Newline: "\r\n"},
		},
		{
			name:       "escaped quotes",
			csv:        "a,b\n\"He said \"\"Hello\"\"\",x\"y",
			wantRows:   [][]string{{"a", "b"}, {`He said "Hello"`, `x"y`}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, format, err := ParseDetectFormat([]byte(tt.csv), nil)
			require.NoError(t, err)
			require.Equal(t, tt.wantFormat.Separator, format.Separator, "separator")
			require.Equal(t, tt.wantFormat.Newline, format.Newline, "newline")
			require.NoError(t, format.Validate())
			require.Equal(t, tt.wantRows, rows)
		})
	}
}

func TestParseWithFormat(t *testing.T) {
	format := NewFormat(";")

	rows, err := ParseWithFormat([]byte("\xEF\xBB\xBFsep=;\r\na;b\r\n1;\"\""), format)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b"}, {"1", ""}}, rows)

	_, err = ParseWithFormat([]byte("sep=,\r\na,b"), format)
	require.Error(t, err)

	_, err = ParseWithFormat([]byte("a;\"b"), format)
	require.ErrorIs(t, err, ErrUnterminatedQuote)

	_, err = ParseWithFormat(nil, &Format{Encoding: "UTF-8", Separator: ";;", Newline: "\n"})
	require.Error(t, err)
}

func TestParseSepHeaderLine(t *testing.T) {
	require.Equal(t, ",", parseSepHeaderLine("sep=,"))
	require.Equal(t, ";", parseSepHeaderLine("SEP=;"))
	require.Equal(t, "\t", parseSepHeaderLine("\"sep=\t\""))
	require.Equal(t, "", parseSepHeaderLine("Name,Age"))
	require.Equal(t, "", parseSepHeaderLine("sep=,;"))
}

func TestReadDetectFormat(t *testing.T) {
	view, format, err := ReadDetectFormat([]byte("\n id ; group ;\nd1;O+;\n;;\nd2;A-;\n"), "donors", nil)
	require.NoError(t, err)
	require.Equal(t, ";", format.Separator)
	require.Equal(t, "donors", view.Title())
	require.Equal(t, []string{"id", "group"}, view.Columns())
	require.Equal(t, 2, view.NumRows())
	require.Equal(t, "A-", view.Cell(1, 1))

	_, _, err = ReadDetectFormat([]byte("\n;;\n"), "", nil)
	require.ErrorIs(t, err, ErrNoHeaderRow)
}
