package csvtable

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/domonda/go-types/charset"
)

// ErrUnterminatedQuote is returned when a quoted
// field is not closed before the end of the data.
var ErrUnterminatedQuote = errors.New("unterminated quoted CSV field")

// ParseDetectFormat detects the encoding, newline and separator
// of csv and parses it into rows of fields.
//
// The encoding is the first of config.Encodings that
// charset.AutoDecode accepts, falling back to UTF-8.
// Newlines are "\r\n" if the data contains any, else "\n".
// The separator is taken from an Excel style "sep=;" first line
// or else is the most frequent unquoted one of ',' ';' and '\t',
// with ',' winning ties.
//
// Empty lines result in nil rows.
// If config is nil then NewDefaultFormatDetectionConfig is used.
func ParseDetectFormat(csv []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}
	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}

	format = new(Format)
	csv, format.Encoding, err = charset.AutoDecode(csv, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	data := string(sanitizeUTF8(csv))

	if strings.Contains(data, "\r\n") {
		format.Newline = "\r\n"
	} else {
		format.Newline = "\n"
	}

	firstLine, rest, _ := strings.Cut(data, format.Newline)
	if sep := parseSepHeaderLine(firstLine); sep != "" {
		format.Separator = sep
		data = rest
	} else {
		format.Separator = detectSeparator(data)
	}

	rows, err = parseRows(data, format.Separator[0], format.Newline)
	return rows, format, err
}

// ParseWithFormat parses csv encoded as described by format
// into rows of fields. An Excel style "sep=;" first line
// must match format.Separator and is skipped.
//
// Empty lines result in nil rows.
func ParseWithFormat(csv []byte, format *Format) (rows [][]string, err error) {
	err = format.Validate()
	if err != nil {
		return nil, err
	}
	if format.Encoding == "UTF-8" {
		csv = charset.TrimBOM(csv, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		csv, err = enc.Decode(csv)
		if err != nil {
			return nil, err
		}
	}
	data := string(sanitizeUTF8(csv))

	firstLine, rest, _ := strings.Cut(data, format.Newline)
	if sep := parseSepHeaderLine(firstLine); sep != "" {
		if sep != format.Separator {
			return nil, fmt.Errorf("separator %q in header line is different from format separator %q", sep, format.Separator)
		}
		data = rest
	}
	return parseRows(data, format.Separator[0], format.Newline)
}

// parseSepHeaderLine returns the separator of a
// "sep=X" or "SEP=X" line, optionally in double quotes.
func parseSepHeaderLine(line string) string {
	line = strings.TrimSuffix(line, "\r")
	if len(line) == 7 && line[0] == '"' && line[6] == '"' {
		line = line[1:6]
	}
	if len(line) != 5 {
		return ""
	}
	if !strings.HasPrefix(line, "sep=") && !strings.HasPrefix(line, "SEP=") {
		return ""
	}
	return line[4:5]
}

func detectSeparator(data string) string {
	var commas, semicolons, tabs int
	inQuotes := false
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semicolons++
			}
		case '\t':
			if !inQuotes {
				tabs++
			}
		}
	}
	switch {
	case semicolons > commas && semicolons >= tabs:
		return ";"
	case tabs > commas && tabs > semicolons:
		return "\t"
	default:
		return ","
	}
}

// parseRows splits data into rows and fields following RFC 4180.
// Newlines within quoted fields are normalized to "\n".
// Quotes within unquoted fields and quotes within quoted fields
// that are not doubled and not followed by a separator or newline
// are kept literally.
func parseRows(data string, sep byte, newline string) (rows [][]string, err error) {
	var (
		row      []string
		field    strings.Builder
		inQuotes bool
		quoted   bool // field started with a quote
		empty    = true
	)
	endField := func() {
		row = append(row, field.String())
		field.Reset()
		quoted = false
		empty = false
	}
	endRow := func() {
		if empty {
			rows = append(rows, nil)
		} else {
			endField()
			rows = append(rows, row)
		}
		row = nil
		empty = true
	}

	for i := 0; i < len(data); {
		c := data[i]
		if inQuotes {
			switch {
			case c == '"' && i+1 < len(data) && data[i+1] == '"':
				field.WriteByte('"')
				i += 2
			case c == '"' && (i+1 == len(data) || data[i+1] == sep || strings.HasPrefix(data[i+1:], newline)):
				inQuotes = false
				i++
			case c == '\r' && i+1 < len(data) && data[i+1] == '\n',
				c == '\n' && i+1 < len(data) && data[i+1] == '\r':
				field.WriteByte('\n')
				i += 2
			default:
				field.WriteByte(c)
				i++
			}
			continue
		}

		switch {
		case strings.HasPrefix(data[i:], newline):
			endRow()
			i += len(newline)
		case c == sep:
			endField()
			i++
		case c == '"' && field.Len() == 0 && !quoted:
			inQuotes = true
			quoted = true
			empty = false
			i++
		default:
			field.WriteByte(c)
			empty = false
			i++
		}
	}
	if inQuotes {
		return nil, ErrUnterminatedQuote
	}
	if !empty {
		endRow()
	}
	return rows, nil
}

// sanitizeUTF8 replaces the unicode replacement character
// and non-breaking spaces with regular spaces.
func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			case '�', '\u00a0':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}
