// retable-console serves the tables of the blood-donation admin
// console to the browser or browses a single table in the terminal.
//
// Both commands read the YAML configuration from --config or the
// file named by the RETABLE_CONFIG environment variable.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hemolink/retable/config"
	"github.com/hemolink/retable/console"
	"github.com/hemolink/retable/source"
	"github.com/hemolink/retable/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return errors.New("missing command")
	}
	switch args[0] {
	case "serve":
		return runServe(args[1:])
	case "browse":
		return runBrowse(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	}
	printUsage()
	return fmt.Errorf("unknown command %q", args[0])
}

func printUsage() {
	fmt.Fprint(os.Stderr, `retable-console serves and browses the tables of the admin console.

Usage:
  retable-console serve  [--config FILE] [--listen ADDR]
  retable-console browse [--config FILE] --table NAME [--log-output FILE]

The configuration file defaults to $RETABLE_CONFIG.
`)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

func parseFlags(flagSet *pflag.FlagSet, args []string) (help bool, err error) {
	err = flagSet.Parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return false, fmt.Errorf("unexpected argument: %s", extra[0])
	}
	return false, nil
}

func runServe(args []string) error {
	var configPath, listen string
	flagSet := pflag.NewFlagSet("retable-console serve", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the YAML config file (default: $RETABLE_CONFIG)")
	flagSet.StringVar(&listen, "listen", "", "listen address, overrides server.listen of the config")
	if help, err := parseFlags(flagSet, args); help || err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}
	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return fmt.Errorf("can't create logger: %w", err)
	}
	defer logger.Sync()

	server, err := console.NewServer(cfg, source.NewLoader(nil, logger), logger)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = server.ListenAndServe(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func runBrowse(args []string) error {
	var configPath, tableName, logOutput string
	flagSet := pflag.NewFlagSet("retable-console browse", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the YAML config file (default: $RETABLE_CONFIG)")
	flagSet.StringVar(&tableName, "table", "", "name of the table to browse")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	if help, err := parseFlags(flagSet, args); help || err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	tableCfg, ok := cfg.Table(tableName)
	if !ok {
		return fmt.Errorf("unknown table %q", tableName)
	}

	// The terminal is owned by the viewer, so logs go to a file or nowhere.
	logger := zap.NewNop()
	if logOutput != "" {
		logConfig := zap.NewProductionConfig()
		logConfig.OutputPaths = []string{logOutput}
		logConfig.ErrorOutputPaths = []string{logOutput}
		logger, err = logConfig.Build()
		if err != nil {
			return fmt.Errorf("can't open log file %s: %w", logOutput, err)
		}
		defer logger.Sync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	records, err := source.NewLoader(nil, logger).Load(ctx, tableCfg.Source)
	if err != nil {
		return err
	}

	g, err := console.NewGrid(tableCfg, records, console.GridHooks{
		OnAction: func(action config.ActionConfig, record source.Record) {
			logger.Info("Invoked row action",
				zap.String("table", tableCfg.Name),
				zap.String("action", action.Label),
				zap.String("row", console.RecordKey(record, tableCfg.RowKey)),
			)
		},
		OnRowClick: func(record source.Record) {
			logger.Info("Opened record", zap.String("table", tableCfg.Name), zap.Any("record", record))
		},
	})
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(tui.New(g, tui.Options{}), tea.WithAltScreen()).Run()
	return err
}
