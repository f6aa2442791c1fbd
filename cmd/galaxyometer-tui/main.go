package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/roshda/galaxy-o-meter/internal/app"
	"github.com/roshda/galaxy-o-meter/internal/catalog"
	"github.com/roshda/galaxy-o-meter/internal/platform/logging"
	"github.com/roshda/galaxy-o-meter/internal/platform/version"
	"github.com/roshda/galaxy-o-meter/internal/tui"
	"github.com/roshda/galaxy-o-meter/web"
	"github.com/spf13/cobra"
)

type options struct {
	source        string
	logFile       string
	logLevel      string
	searchURLBase string
	analyzedAsOf  string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "galaxyometer-tui",
		Short: "Show fan sentiment for Star Wars shows in the terminal",
		Long: `Show the positive, neutral and negative sentiment bars in the terminal.

Hover a bar segment with the mouse to see its tweet count.
Press n or space to toggle the neutral segment, q to quit.

Examples:
  galaxyometer-tui
  galaxyometer-tui --source ./averageSentiment.json
  galaxyometer-tui --source https://example.com/averageSentiment.json --log-file tui.log`,
		Version:      version.Get().Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "sentiment artifact URL or path (default: embedded artifact)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file (default: discard)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	cmd.Flags().StringVar(&opts.searchURLBase, "search-url", app.DefaultSearchURLBase, "base URL of the per show search link")
	cmd.Flags().StringVar(&opts.analyzedAsOf, "as-of", app.DefaultAnalyzedAsOf, "date shown in the caption")

	return cmd
}

// openLog returns the log destination. The terminal belongs to the UI, so logs
// never go to stdout.
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func run(ctx context.Context, opts options) error {
	w, closeLog, err := openLog(opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logging.InitLoggerTo(w, opts.logLevel, "json")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	embedded := catalog.FSSource{FS: web.StaticFiles, Path: web.ArtifactPath}
	source := catalog.NewSource(opts.source, &http.Client{}, embedded)
	loader := app.NewLoader(source, app.LogSink{}, clockwork.NewRealClock())
	loader.Start(ctx)
	defer loader.Stop()

	presenter := app.NewPresenter(app.PresenterConfig{
		SearchURLBase: opts.searchURLBase,
		AnalyzedAsOf:  opts.analyzedAsOf,
	})

	slog.InfoContext(ctx, "Terminal view starting", "source", source.String())
	p := tea.NewProgram(tui.New(loader, presenter),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal view: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
