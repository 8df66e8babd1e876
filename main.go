package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/status-im/token-supply/config"
	"github.com/status-im/token-supply/core"
	"github.com/status-im/token-supply/logging"
	"github.com/status-im/token-supply/metrics"
	"github.com/status-im/token-supply/report"
)

const usage = `Usage:
  token-supply [flags] <mirror host> <token id> [<treasury id> ...]
  token-supply [flags] -preset <name>
  token-supply [flags] -serve`

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	envFile    string
	format     string
	preset     string
	serve      bool
	args       []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("token-supply", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", config.DefaultPath, "Path to the YAML configuration file")
	fs.StringVar(&opts.envFile, "env", ".env", "Path to a .env file loaded before the configuration")
	fs.StringVar(&opts.format, "format", report.FormatCSV, "Output format: csv or json")
	fs.StringVar(&opts.preset, "preset", "", "Aggregate a preset from the configuration")
	fs.BoolVar(&opts.serve, "serve", false, "Run the HTTP API and the preset monitor")
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.args = fs.Args()

	switch {
	case opts.serve:
		if len(opts.args) > 0 || opts.preset != "" {
			return nil, errUsage
		}
	case opts.preset != "":
		if len(opts.args) > 0 {
			return nil, errUsage
		}
	case len(opts.args) < 2:
		return nil, errUsage
	}

	if opts.format != report.FormatCSV && opts.format != report.FormatJSON {
		return nil, fmt.Errorf("unsupported format %q", opts.format)
	}

	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
		}
		fmt.Fprintln(stderr, usage)
		return 1
	}

	if err := config.LoadEnv(opts.envFile); err != nil {
		fmt.Fprintln(stderr, "Error loading environment:", err)
		return 1
	}

	cfg, err := config.LoadConfigOrDefault(opts.configPath)
	if err != nil {
		fmt.Fprintln(stderr, "Error loading config:", err)
		return 1
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintln(stderr, "Error applying environment:", err)
		return 1
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(stderr, "Error creating logger:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.serve {
		return serve(ctx, cfg, logger, stderr)
	}

	var source, token string
	var treasuries []string
	if opts.preset != "" {
		preset, ok := cfg.Preset(opts.preset)
		if !ok {
			fmt.Fprintf(stderr, "Unknown preset %q\n", opts.preset)
			return 1
		}
		source, token, treasuries = preset.Source, preset.Token, preset.Treasuries
	} else {
		source, token, treasuries = opts.args[0], opts.args[1], opts.args[2:]
	}

	aggregator := core.NewAggregator(cfg, metrics.ServiceCLI, logger)
	result, err := aggregator.Aggregate(ctx, source, token, treasuries)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	if err := report.Write(stdout, opts.format, result); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, stderr io.Writer) int {
	app := core.Setup(cfg, logger)

	if err := app.Registry.StartAll(ctx); err != nil {
		fmt.Fprintln(stderr, "Failed to start services:", err)
		return 1
	}

	<-ctx.Done()
	logger.Info("received shutdown signal, stopping services")
	app.Registry.StopAll()
	return 0
}
