// Package config loads the YAML configuration of the admin console.
//
// The configuration file is specified by the RETABLE_CONFIG
// environment variable or the --config flag of the command.
//
// The file may contain development and production sections
// that override server and log settings when the
// environment matches.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/hemolink/retable/htmltable"
	"github.com/hemolink/retable/source"
)

// EnvConfig is the environment variable holding the config file path.
const EnvConfig = "RETABLE_CONFIG"

// Environment is the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// DefaultPageSizes is used for tables without page_sizes.
var DefaultPageSizes = []int{10, 25, 50}

// Config is the configuration of the admin console.
type Config struct {
	Environment Environment `yaml:"environment"`

	Server ServerConfig  `yaml:"server"`
	Log    LogConfig     `yaml:"log"`
	Tables []TableConfig `yaml:"tables"`

	// Overrides applied after loading
	// if Environment matches.
	Development *Overrides `yaml:"development,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides contains the settings that
// can be overridden per environment.
type Overrides struct {
	Server *ServerOverrides `yaml:"server,omitempty"`
	Log    *LogConfig       `yaml:"log,omitempty"`
}

// ServerOverrides overrides the ServerConfig fields that are set.
type ServerOverrides struct {
	Listen        string `yaml:"listen,omitempty"`
	SessionCookie string `yaml:"session_cookie,omitempty"`
	SecureCookie  *bool  `yaml:"secure_cookie,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Listen is the TCP address to listen on.
	// Default: :8080
	Listen string `yaml:"listen"`
	// SessionCookie is the name of the session id cookie.
	// Default: retable_session
	SessionCookie string `yaml:"session_cookie"`
	// SecureCookie marks the session cookie as HTTPS only.
	SecureCookie bool `yaml:"secure_cookie"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
	// Encoding is json or console.
	// Default: json
	Encoding string `yaml:"encoding"`
}

// TableConfig configures a table of the console.
type TableConfig struct {
	// Name is the URL path segment of the table.
	Name   string      `yaml:"name"`
	Title  string      `yaml:"title"`
	Source source.Spec `yaml:"source"`

	RowKey          string `yaml:"row_key"`
	PageSizes       []int  `yaml:"page_sizes"`
	InitialPageSize int    `yaml:"initial_page_size"`
	Selectable      bool   `yaml:"selectable"`
	// Locale is a BCP 47 tag for sorting strings.
	Locale string `yaml:"locale"`

	Columns  []ColumnConfig  `yaml:"columns"`
	Actions  []ActionConfig  `yaml:"actions"`
	Distance *DistanceConfig `yaml:"distance,omitempty"`
}

// ColumnConfig configures a column of a table.
type ColumnConfig struct {
	Key       string `yaml:"key"`
	Title     string `yaml:"title"`
	Sortable  bool   `yaml:"sortable"`
	Class     string `yaml:"class"`
	CellClass string `yaml:"cell_class"`
	// Format is a cell format name of htmltable.FormatterByName.
	Format string `yaml:"format"`
}

// ActionConfig configures a row action of a table.
type ActionConfig struct {
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
	Class string `yaml:"class"`
}

// DistanceConfig adds a sortable column with the
// distance of every record from an origin.
type DistanceConfig struct {
	Key    string  `yaml:"key"`
	Title  string  `yaml:"title"`
	Lat    float64 `yaml:"lat"`
	Lng    float64 `yaml:"lng"`
	LatKey string  `yaml:"lat_key"`
	LngKey string  `yaml:"lng_key"`
}

// Default returns the configuration
// that the config file is merged into.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: ServerConfig{
			Listen:        ":8080",
			SessionCookie: "retable_session",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Load loads the configuration file named by
// the RETABLE_CONFIG environment variable.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your config file, or use --config flag", EnvConfig)
	}
	return LoadFile(path)
}

// LoadFile loads and validates the configuration file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	cfg.applyTableDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		if overrides == nil {
			secure := true
			overrides = &Overrides{
				Server: &ServerOverrides{SecureCookie: &secure},
			}
		}
	}
	if overrides == nil {
		return
	}

	if overrides.Server != nil {
		if overrides.Server.Listen != "" {
			c.Server.Listen = overrides.Server.Listen
		}
		if overrides.Server.SessionCookie != "" {
			c.Server.SessionCookie = overrides.Server.SessionCookie
		}
		if overrides.Server.SecureCookie != nil {
			c.Server.SecureCookie = *overrides.Server.SecureCookie
		}
	}
	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
		if overrides.Log.Encoding != "" {
			c.Log.Encoding = overrides.Log.Encoding
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default}
// in source locations and headers so that
// credentials can be kept out of the file.
func (c *Config) expandVariables() {
	for i := range c.Tables {
		src := &c.Tables[i].Source
		src.Location = expandVars(src.Location)
		for key, val := range src.Headers {
			src.Headers[key] = expandVars(val)
		}
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

func (c *Config) applyTableDefaults() {
	for i := range c.Tables {
		table := &c.Tables[i]
		if table.Title == "" {
			table.Title = table.Name
		}
		if len(table.PageSizes) == 0 {
			table.PageSizes = slices.Clone(DefaultPageSizes)
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen is required"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		errs = append(errs, fmt.Errorf("invalid log.encoding: %s", c.Log.Encoding))
	}
	if len(c.Tables) == 0 {
		errs = append(errs, errors.New("no tables configured"))
	}

	names := make(map[string]bool)
	for i := range c.Tables {
		table := &c.Tables[i]
		if err := table.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("tables[%d]: %w", i, err))
		}
		if names[table.Name] {
			errs = append(errs, fmt.Errorf("tables[%d]: duplicate name %q", i, table.Name))
		}
		names[table.Name] = true
	}

	return errors.Join(errs...)
}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate checks the table configuration for errors.
func (t *TableConfig) Validate() error {
	var errs []error
	if !namePattern.MatchString(t.Name) {
		errs = append(errs, fmt.Errorf("invalid name %q", t.Name))
	}
	if err := t.Source.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("source: %w", err))
	}
	for _, size := range t.PageSizes {
		if size <= 0 {
			errs = append(errs, fmt.Errorf("invalid page size %d", size))
		}
	}
	if t.InitialPageSize != 0 && !slices.Contains(t.PageSizes, t.InitialPageSize) {
		errs = append(errs, fmt.Errorf("initial_page_size %d is not one of page_sizes", t.InitialPageSize))
	}
	keys := make(map[string]bool)
	for _, col := range t.Columns {
		if col.Key == "" {
			errs = append(errs, errors.New("column without key"))
		}
		if keys[col.Key] {
			errs = append(errs, fmt.Errorf("duplicate column %q", col.Key))
		}
		keys[col.Key] = true
		if _, err := htmltable.FormatterByName(col.Format); err != nil {
			errs = append(errs, fmt.Errorf("column %q: %w", col.Key, err))
		}
	}
	labels := make(map[string]bool)
	for _, action := range t.Actions {
		if action.Label == "" || labels[action.Label] {
			errs = append(errs, fmt.Errorf("invalid or duplicate action label %q", action.Label))
		}
		labels[action.Label] = true
	}
	if d := t.Distance; d != nil {
		if d.Key == "" || d.LatKey == "" || d.LngKey == "" {
			errs = append(errs, errors.New("distance needs key, lat_key and lng_key"))
		}
		if keys[d.Key] {
			errs = append(errs, fmt.Errorf("distance key %q is also a column", d.Key))
		}
	}
	return errors.Join(errs...)
}

// Table returns the configuration of the table with name.
func (c *Config) Table(name string) (*TableConfig, bool) {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i], true
		}
	}
	return nil, false
}

// NewLogger returns a zap production logger
// with the configured level and encoding.
func (l *LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = l.Encoding
	if l.Encoding == "console" {
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return cfg.Build()
}
