// Package source loads the records shown by the admin console
// from JSON files and REST endpoints, CSV and XLSX files
// and SQLite databases.
package source

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	fs "github.com/ungerik/go-fs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/hemolink/retable"
	"github.com/hemolink/retable/csvtable"
	"github.com/hemolink/retable/exceltable"
	"github.com/hemolink/retable/sqltable"
)

// Kind of a record source.
type Kind string

const (
	KindJSON   Kind = "json"
	KindCSV    Kind = "csv"
	KindXLSX   Kind = "xlsx"
	KindSQLite Kind = "sqlite"
)

var (
	ErrUnknownKind  = errors.New("unknown source kind")
	ErrNotFound     = errors.New("source not found")
	ErrNotARecord   = errors.New("JSON value is not an object")
	ErrMissingQuery = errors.New("sqlite source needs a query")
)

// Record is the dynamically shaped record loaded from a source.
type Record = map[string]any

// Spec describes where to load records from.
type Spec struct {
	// Kind is detected from the Location extension if empty.
	Kind Kind `yaml:"kind"`
	// Location is a file path, an http(s) URL for
	// json, csv and xlsx or a SQLite database file.
	Location string `yaml:"location"`
	// Query selects the records of a sqlite source.
	Query string `yaml:"query"`
	// Sheet of an xlsx source, the first sheet if empty.
	Sheet string `yaml:"sheet"`
	// Headers are sent with http(s) requests.
	Headers map[string]string `yaml:"headers"`
}

func (s *Spec) String() string {
	return fmt.Sprintf("%s:%s", s.DetectKind(), s.Location)
}

// IsURL returns true if Location is an http(s) URL.
func (s *Spec) IsURL() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

// DetectKind returns Kind or the kind
// matching the extension of Location.
// REST endpoints default to json.
func (s *Spec) DetectKind() Kind {
	if s.Kind != "" {
		return s.Kind
	}
	var ext string
	if s.IsURL() {
		location, _, _ := strings.Cut(s.Location, "?")
		ext = path.Ext(location)
	} else {
		ext = fs.File(s.Location).Ext()
	}
	switch strings.ToLower(ext) {
	case ".csv", ".tsv", ".txt":
		return KindCSV
	case ".xlsx":
		return KindXLSX
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	case ".json":
		return KindJSON
	}
	if s.IsURL() {
		return KindJSON
	}
	return ""
}

// Validate returns an error if the Spec can't be loaded.
func (s *Spec) Validate() error {
	if s.Location == "" {
		return errors.New("missing source location")
	}
	switch s.DetectKind() {
	case KindJSON, KindCSV, KindXLSX:
		return nil
	case KindSQLite:
		if s.IsURL() {
			return fmt.Errorf("sqlite source can't be an URL: %s", s.Location)
		}
		if s.Query == "" {
			return ErrMissingQuery
		}
		return nil
	}
	return fmt.Errorf("%w %q for %s", ErrUnknownKind, s.Kind, s.Location)
}

// Loader loads records from sources.
type Loader struct {
	client *http.Client
	logger *zap.Logger
}

// NewLoader returns a Loader using client for
// REST endpoints and logging to logger.
// Nil arguments use http.DefaultClient and a no-op logger.
func NewLoader(client *http.Client, logger *zap.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{client: client, logger: logger}
}

// Load loads the records of spec with a default Loader.
func Load(ctx context.Context, spec Spec) ([]Record, error) {
	return NewLoader(nil, nil).Load(ctx, spec)
}

// Load loads the records of spec.
func (l *Loader) Load(ctx context.Context, spec Spec) (records []Record, err error) {
	if err = spec.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	kind := spec.DetectKind()
	switch kind {
	case KindSQLite:
		records, err = l.loadSQLite(ctx, &spec)
	default:
		var data []byte
		data, err = l.read(ctx, &spec)
		if err != nil {
			break
		}
		switch kind {
		case KindJSON:
			records, err = ParseJSON(data)
		case KindCSV:
			records, err = parseCSV(data)
		case KindXLSX:
			records, err = parseXLSX(data, spec.Sheet)
		}
	}
	if err != nil {
		l.logger.Error("Failed to load records",
			zap.String("kind", string(kind)),
			zap.String("location", spec.Location),
			zap.Error(err),
		)
		return nil, fmt.Errorf("can't load %s: %w", spec.String(), err)
	}
	l.logger.Info("Loaded records",
		zap.String("kind", string(kind)),
		zap.String("location", spec.Location),
		zap.Int("records", len(records)),
		zap.Duration("duration", time.Since(start)),
	)
	return records, nil
}

func (l *Loader) read(ctx context.Context, spec *Spec) ([]byte, error) {
	if !spec.IsURL() {
		file := fs.File(spec.Location)
		if !file.Exists() {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, spec.Location)
		}
		return file.ReadAll()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, spec.Location, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json, text/csv, */*")
	for key, val := range spec.Headers {
		request.Header.Set(key, val)
	}
	response, err := l.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, spec.Location)
	case response.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected HTTP status %s from %s", response.Status, spec.Location)
	}
	return io.ReadAll(response.Body)
}

// ParseJSON parses a JSON array of objects or an object
// with the array under the "data" key as REST APIs return it.
// Integer numbers are returned as int64, other numbers as float64.
func ParseJSON(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if obj, ok := doc.(map[string]any); ok {
		if d, ok := obj["data"]; ok {
			doc = d
		}
	}
	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON array of records, got %T", doc)
	}
	records := make([]Record, len(items))
	for i, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record %d is %T", ErrNotARecord, i, item)
		}
		for key, val := range record {
			record[key] = jsonNumber(val)
		}
		records[i] = record
	}
	return records, nil
}

func jsonNumber(val any) any {
	num, ok := val.(json.Number)
	if !ok {
		return val
	}
	if i, err := num.Int64(); err == nil {
		return i
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}

func parseCSV(data []byte) ([]Record, error) {
	view, _, err := csvtable.ReadDetectFormat(data, "", nil)
	if err != nil {
		return nil, err
	}
	return retable.RecordsFromView(view), nil
}

func parseXLSX(data []byte, sheet string) ([]Record, error) {
	view, err := exceltable.ReadSheet(bytes.NewReader(data), sheet, false)
	if err != nil {
		return nil, err
	}
	return retable.RecordsFromView(view), nil
}

func (l *Loader) loadSQLite(ctx context.Context, spec *Spec) (records []Record, err error) {
	if !fs.File(spec.Location).Exists() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, spec.Location)
	}
	db, err := sql.Open("sqlite", spec.Location)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	view, err := sqltable.QueryView(ctx, db, "", spec.Query)
	if err != nil {
		return nil, err
	}
	records = retable.RecordsFromView(view)
	for _, record := range records {
		for key, val := range record {
			if b, ok := val.([]byte); ok && utf8.Valid(b) {
				record[key] = string(b)
			}
		}
	}
	return records, nil
}
