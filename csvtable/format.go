// Package csvtable parses CSV data of unknown encoding and format
// into table rows and writes retable.View tables as CSV.
package csvtable

import (
	"errors"
	"fmt"
	"strings"
)

// Format is the encoding and structure of CSV data.
type Format struct {
	// Encoding is a charset name known to
	// github.com/domonda/go-types/charset like
	// "UTF-8", "UTF-16LE" or "Windows 1252".
	Encoding string `json:"encoding"`
	// Separator is the single character field delimiter.
	Separator string `json:"separator"`
	// Newline is one of "\n", "\r\n" or "\n\r".
	Newline string `json:"newline"`
}

// NewFormat returns a UTF-8 Format with separator and "\r\n" newlines.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate returns an error if f is nil or incomplete.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csvtable.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

// FormatDetectionConfig configures ParseDetectFormat.
type FormatDetectionConfig struct {
	// Encodings are tried in order.
	Encodings []string `json:"encodings"`
	// EncodingTests are strings with characters that are encoded
	// differently by the Encodings and are expected to show up
	// in correctly decoded data.
	EncodingTests []string `json:"encodingTests"`
}

// NewDefaultFormatDetectionConfig returns a FormatDetectionConfig
// for UTF-8, UTF-16LE and the common western single byte encodings
// that exports of spreadsheet applications use.
func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252",
			"Macintosh",
		},
		EncodingTests: []string{
			"é", "É", "è", "ê", "à", "ç", "ô", // French names
			"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß",
			"ñ", "ã", "õ", // Portuguese and Spanish
			"ẹ", "ọ", "ṣ", "Ẹ", "Ọ", "Ṣ", // Yoruba
			"€", "£", "§",
		},
	}
}

// EscapeQuotes doubles every double quote of val.
func EscapeQuotes(val string) string {
	return strings.ReplaceAll(val, `"`, `""`)
}
