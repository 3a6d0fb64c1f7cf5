package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equitybins/internal/app"
	"equitybins/internal/config"
	apperrors "equitybins/internal/errors"
	"equitybins/internal/infrastructure"
	"equitybins/internal/selection"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the command-line flags; zero values leave the configuration as loaded
type options struct {
	configFile     string
	dataDir        string
	file           string
	factor         string
	bins           int
	logLevel       string
	nonInteractive bool
	listFactors    bool
	version        bool
}

func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	opts := &options{}
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configFile, "config", "", "path to a YAML config file (defaults to config.yaml if present)")
	fs.StringVar(&opts.dataDir, "data-dir", "", "directory holding the input table (default data)")
	fs.StringVar(&opts.file, "file", "", "input table, .csv or .xlsx, relative to the data directory (default equity_data.csv)")
	fs.StringVar(&opts.factor, "factor", "", "factor column to bin by (default Mkt Cap)")
	fs.IntVar(&opts.bins, "bins", 0, "number of equal-width bins (default 5)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&opts.nonInteractive, "non-interactive", false, "never prompt, use flags and configuration only")
	fs.BoolVar(&opts.listFactors, "list-factors", false, "print the eligible factors and exit")
	fs.BoolVar(&opts.version, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set, nil
}

// applyFlags overrides cfg with the flags given on the command line
func applyFlags(cfg *config.Config, opts *options, set map[string]bool) {
	if set["data-dir"] {
		cfg.Data.Dir = opts.dataDir
	}
	if set["file"] {
		cfg.Data.FileName = opts.file
	}
	if set["factor"] {
		cfg.Analysis.Factor = opts.factor
	}
	if set["bins"] {
		cfg.Analysis.Bins = opts.bins
	}
	if set["log-level"] {
		cfg.Logging.Level = opts.logLevel
	}
	// choosing either on the command line means the caller has decided
	if opts.nonInteractive || set["factor"] || set["bins"] {
		cfg.Analysis.Interactive = false
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, set, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return apperrors.ExitOK
		}
		return apperrors.ExitFailure
	}

	if opts.version {
		fmt.Fprintf(stdout, "%s %s\n", config.AppName, config.AppVersion)
		return apperrors.ExitOK
	}

	bootstrap := apperrors.NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), stderr)

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return bootstrap.Handle(ctx, err)
	}
	applyFlags(cfg, opts, set)
	if err := cfg.Validate(); err != nil {
		return bootstrap.Handle(ctx, err)
	}

	logger, closeLog, err := infrastructure.InitializeLogger(cfg.Logging, stderr)
	if err != nil {
		return bootstrap.Handle(ctx, apperrors.NewConfigError("failed to initialize logger", err))
	}
	defer closeLog()

	ctx = infrastructure.EnsureRunID(ctx)
	handler := apperrors.NewErrorHandler(logger, stderr)

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger, stderr)
	if err != nil {
		return handler.Handle(ctx, apperrors.NewConfigError("failed to initialize telemetry", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	var sel selection.Selector = selection.NewStaticSelector(cfg.Analysis.Factor, cfg.Analysis.Bins)
	if cfg.Analysis.Interactive && stdin == os.Stdin && selection.StdinIsTerminal() {
		sel = selection.NewTerminalSelector(stdin, stdout)
	}

	pipeline, err := app.NewPipeline(cfg, app.Dependencies{
		Selector:  sel,
		Telemetry: tel,
		Logger:    logger,
		Out:       stdout,
	})
	if err != nil {
		return handler.Handle(ctx, err)
	}

	if opts.listFactors {
		factors, err := pipeline.Factors(ctx)
		if err != nil {
			return handler.Handle(ctx, err)
		}
		for _, f := range factors {
			fmt.Fprintln(stdout, f)
		}
		return apperrors.ExitOK
	}

	if _, err := pipeline.Run(ctx); err != nil {
		return handler.Handle(ctx, err)
	}
	return apperrors.ExitOK
}
