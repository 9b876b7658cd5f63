package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"atscli/internal/config"
	"atscli/internal/infrastructure"
	"atscli/internal/report"
	"atscli/internal/table"
	"atscli/internal/validation"
)

// options holds the global command-line flags
type options struct {
	root        string
	configFile  string
	head        int
	fillMissing bool
}

// app carries the state shared by every command of one run
type app struct {
	opts      options
	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close()

	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Load the ATS documents and measures datasets",
		Long: `atsreport loads the processed ATS document datasets from the project
root and prints a short description of each table.

The project root is found by walking up from the working directory until a
marker such as .git or .env is present, unless --root is given. Both tables
are read from data/processed/documents/ under that root.`,
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loadDatasets(cmd.Context())
			if err != nil {
				return err
			}
			return ds.Describe(cmd.OutOrStdout(), a.opts.head)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.opts.root, "root", "", "project root (default: discovered from the working directory)")
	flags.StringVar(&a.opts.configFile, "config", "", "configuration file (default: atscli.yaml or configs/atscli.yaml)")
	flags.BoolVar(&a.opts.fillMissing, "fill-missing", false, "pad rows with missing fields with nulls instead of failing")
	cmd.Flags().IntVar(&a.opts.head, "head", report.DefaultHead, "number of preview rows per dataset")

	cmd.AddCommand(newPathsCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newExportCmd(a))

	return cmd
}

// setup loads configuration, resolves paths and starts logging and telemetry
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.configFile)
	if err != nil {
		return err
	}
	if a.opts.root != "" {
		cfg.Paths.ProjectRoot = a.opts.root
	}
	if a.opts.fillMissing {
		cfg.Loader.MissingFields = config.MissingFieldsFill
	}

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, cfg.LogFilePath(paths), cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.Telemetry.MetricsFile != "" && !filepath.IsAbs(cfg.Telemetry.MetricsFile) {
		cfg.Telemetry.MetricsFile = config.ResolvePath(paths.ProjectRoot, cfg.Telemetry.MetricsFile)
	}
	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, cmd.ErrOrStderr(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	ctx := infrastructure.EnsureTraceID(cmd.Context())
	cmd.SetContext(ctx)

	a.cfg, a.paths, a.logger, a.telemetry = cfg, paths, logger, tel

	logger.DebugContext(ctx, "Configuration loaded", slog.String("config", cfg.String()))
	paths.LogPathResolution(logger)
	return nil
}

// close flushes metrics and spans and releases the log file
func (a *app) close() {
	if a.telemetry != nil {
		if err := a.telemetry.WriteMetrics(); err != nil && a.logger != nil {
			a.logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.telemetry.Shutdown(ctx); err != nil && a.logger != nil {
			a.logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}
	infrastructure.CloseLogFile()
}

func (a *app) newLoader() (*table.Loader, error) {
	opts, err := table.OptionsFromConfig(a.cfg.Loader)
	if err != nil {
		return nil, err
	}
	return table.NewLoader(opts, a.logger), nil
}

func (a *app) loadDatasets(ctx context.Context) (*report.Datasets, error) {
	if err := validation.NewFileValidator(a.logger).ValidateInputDirectory(a.paths.DocumentsDir); err != nil {
		return nil, err
	}
	loader, err := a.newLoader()
	if err != nil {
		return nil, err
	}
	return report.Load(ctx, a.paths, loader, a.logger)
}
