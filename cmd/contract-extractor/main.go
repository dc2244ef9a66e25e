package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a3tai/contract-data-extractor/internal/config"
	"github.com/a3tai/contract-data-extractor/internal/dashboard"
	"github.com/a3tai/contract-data-extractor/internal/extract"
	"github.com/a3tai/contract-data-extractor/internal/logging"
	"github.com/a3tai/contract-data-extractor/internal/mcp"
	"github.com/a3tai/contract-data-extractor/internal/output"
	"github.com/a3tai/contract-data-extractor/internal/pdf"
	"github.com/a3tai/contract-data-extractor/internal/pipeline"
	"github.com/a3tai/contract-data-extractor/internal/profile"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

var errInvalidRoot = errors.New("invalid root directory")

// app carries what every command needs once flags are parsed
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{stdout: stdout}

	root := &cobra.Command{
		Use:   "contract-extractor [root-dir]",
		Short: "Extract line items and modification deltas from contract PDFs",
		Long: `contract-extractor walks a directory tree for award and modification PDFs,
reads their fields by position and writes one table per document.

Award documents produce a line-item table named "Award <contract> Order <order>".
Modification documents produce an amount-delta table named "Mod-<contract>".

Use the dashboard command to browse the tables and the mcp command to expose
the extractor to MCP clients over stdio.`,
		Args:         cobra.ExactArgs(1),
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd.Context(), args[0])
		},
	}
	root.SetOut(stdout)
	root.SetVersionTemplate(versionText())
	config.RegisterFlags(root.PersistentFlags(), config.DefaultConfig())

	root.AddCommand(
		&cobra.Command{
			Use:   "dashboard",
			Short: "Serve the table dashboard for the output directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runDashboard(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "mcp [root-dir]",
			Short: "Serve the extractor as MCP tools over stdio",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					a.cfg.RootDir = args[0]
				}
				return a.runMCP(cmd.Context())
			},
		},
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("configuration loaded", zap.Stringer("config", cfg))
	return nil
}

// processor wires the reader, profile, search and writer from the
// configuration
func (a *app) processor() (*pipeline.Processor, error) {
	p := profile.Default()
	if a.cfg.ProfilePath != "" {
		loaded, err := profile.Load(a.cfg.ProfilePath)
		if err != nil {
			return nil, err
		}
		p = loaded
	}
	a.logger.Debug("using profile", zap.String("profile", p.Name))

	return pipeline.NewProcessor(pipeline.Options{
		Opener:     pdf.NewReader(a.cfg.MaxFileSize, a.logger),
		Search:     pdf.NewSearch(a.cfg.Keywords),
		Extractor:  extract.New(p, a.logger),
		Writer:     output.NewWriter(a.cfg.OutputDir, a.cfg.Format),
		Provenance: a.cfg.Provenance,
		Logger:     a.logger,
	}), nil
}

func (a *app) runExtract(ctx context.Context, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", errInvalidRoot, root)
	}
	a.cfg.RootDir = root

	processor, err := a.processor()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(ctx)
	defer stop()

	summary, err := processor.Run(ctx, root)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if summary != nil {
		fmt.Fprintf(a.stdout, "Processed %d of %d PDFs (%d skipped, %d rows). Tables saved to %s\n",
			summary.Processed, summary.Found, summary.Skipped, summary.Rows, a.cfg.OutputDir)
	}

	if !a.cfg.Watch || ctx.Err() != nil {
		return nil
	}

	watcher, err := processor.NewWatcher(root, a.cfg.Debounce)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Watching %s for new PDFs. Press Ctrl+C to stop.\n", root)
	return watcher.Run(ctx)
}

func (a *app) runDashboard(ctx context.Context) error {
	srv, err := dashboard.NewServer(a.cfg.OutputDir, a.logger)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(ctx)
	defer stop()

	fmt.Fprintf(a.stdout, "Dashboard for %s at http://%s/\n", a.cfg.OutputDir, a.cfg.Address())
	return srv.Run(ctx, a.cfg.Address())
}

func (a *app) runMCP(ctx context.Context) error {
	processor, err := a.processor()
	if err != nil {
		return err
	}

	srv, err := mcp.NewServer(a.cfg, processor, a.logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

func versionText() string {
	return fmt.Sprintf("Contract Data Extractor\nVersion: %s\nBuild Time: %s\nGit Commit: %s\nBuilt with: %s\n",
		version, buildTime, gitCommit, runtime.Version())
}
