package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/david672orford/htmlcheck/internal/checker"
	"github.com/david672orford/htmlcheck/internal/config"
	"github.com/david672orford/htmlcheck/internal/history"
	"github.com/david672orford/htmlcheck/internal/htmldoc"
	"github.com/david672orford/htmlcheck/internal/log"
	"github.com/david672orford/htmlcheck/internal/model"
	"github.com/david672orford/htmlcheck/internal/report"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [document]...",
		Short: "Check HTML documents against the site conventions",
		Long: `Check validates one or more HTML documents against the site's structural
and style conventions.

Documents are checked strictly sequentially in command-line order, and
warnings are printed as they are found. Hyperlinks to other local documents
are followed: the link text must repeat the target's title, and fragment
identifiers must exist in the target.

Executable documents (or any file with a .cgi extension) are run as CGI
scripts and their output is checked instead.

Examples:
  # Check documents relative to the current directory
  htmlcheck check index.html Recordings/index.html

  # Check against an explicit site root
  htmlcheck check --root /var/www/site /var/www/site/index.html

  # Output a JSON report to a file
  htmlcheck check --json -o report.json index.html

  # Scan referenced images for embedded EXIF metadata
  htmlcheck check --exif index.html

Configuration file (.htmlcheck) example:
  site_root: /var/www/site
  exif_audit: true
  site:
    slides_prefix: "../Slides/"
    analytics_version: "-v4."`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	cmd.Flags().StringP("root", "r", "",
		"Site root directory that \"/\"-prefixed URLs resolve against (default: current directory)")
	cmd.Flags().BoolP("debug", "d", false,
		"Log every element as it is examined")
	cmd.Flags().BoolP("exif", "e", false,
		"Scan referenced JPEG/TIFF images for embedded EXIF metadata")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .htmlcheck in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with site-relative paths
	verbose := getVerboseFlag(cmd) || cfg.Debug
	logger := log.NewSiteLogger(cmd.ErrOrStderr(), cfg.SiteRoot, verbose)
	slog.SetDefault(logger)

	return runCheck(cmd.Context(), cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load settings from the config file before applying flags, so explicit
	// flags win. If the user named a config file that doesn't exist, that is
	// an error; a missing default config file is not.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return nil, err
	}
	if root != "" {
		cfg.SiteRoot = root
	}

	cfg.Debug, err = cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, err
	}

	exif, err := cmd.Flags().GetBool("exif")
	if err != nil {
		return nil, err
	}
	if exif {
		cfg.EXIFAudit = true
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are the documents to check
	cfg.Targets = args

	return cfg, nil
}

// runCheck checks every target sequentially and writes the report.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	logger.Info("starting check",
		"targets", len(cfg.Targets),
		"siteRoot", cfg.SiteRoot,
		"exifAudit", cfg.EXIFAudit,
	)

	run := model.NewRunReport()

	// Stream findings to the terminal as they are raised, so a long run
	// shows progress and the printed order matches document order.
	c := checker.New(cfg,
		checker.WithLogger(logger),
		checker.WithSink(func(f model.Finding) {
			fmt.Fprintf(out, "%s: %s: %s\n", severityLabel(f.Severity), f.Location, f.Message)
		}),
	)

	// Documents are checked strictly sequentially: the cross-document title
	// and fragment lookups read the same tree the earlier documents came
	// from, and interleaved output would be useless.
	for _, target := range cfg.Targets {
		doc, err := c.CheckDocument(target)
		if err != nil {
			var serr *htmldoc.StructureError
			if errors.As(err, &serr) {
				return fmt.Errorf("structural error: %w", err)
			}
			return err
		}
		run.AddDocument(doc)
	}

	if cfg.SaveHistory {
		if err := saveHistory(ctx, cfg, run, logger); err != nil {
			// History is a convenience; a broken database should not turn a
			// successful check into a failure.
			logger.Warn("failed to save run history", "error", err)
		}
	}

	return writeReport(cfg, run, out)
}

// severityLabel formats a severity for the live finding stream.
func severityLabel(s model.Severity) string {
	switch s {
	case model.SeverityInfo:
		return "Info"
	case model.SeverityStructure:
		return "Error"
	default:
		return "Warning"
	}
}

// saveHistory records the run in the history database.
func saveHistory(ctx context.Context, cfg *config.Config, run *model.RunReport, logger *slog.Logger) error {
	siteRoot, err := filepath.Abs(cfg.SiteRoot)
	if err != nil {
		siteRoot = cfg.SiteRoot
	}

	db, err := history.Open(cfg.DBDir, history.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveRunReport(ctx, siteRoot, run); err != nil {
		return err
	}
	logger.Info("run history saved", "dir", cfg.DBDir, "siteRoot", siteRoot)
	return nil
}

// writeReport writes the run report in the configured format.
func writeReport(cfg *config.Config, run *model.RunReport, out io.Writer) error {
	output := out
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // user-requested report path
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}

	if _, err := w.Write(run); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
