// Command ls-ephemeris computes rise and set times, twilight, seasons, moon
// phase and sky positions for an observer, as tables, JSON, an HTTP API
// or a terminal UI.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/litescript/ls-ephemeris/internal/almanac"
	"github.com/litescript/ls-ephemeris/internal/api"
	"github.com/litescript/ls-ephemeris/internal/config"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/logging"
	"github.com/litescript/ls-ephemeris/internal/ui"
	"github.com/litescript/ls-ephemeris/internal/version"
)

const usageText = `Usage: ls-ephemeris [flags] <command> [args]

Commands:
  sky                 Live sky (TUI on a terminal, table otherwise)
  sun                 Sunrise and sunset
  moon                Moonrise, moonset and phase
  planet <name>       Rise and set of a planet
  planets             Rise and set of every planet
  phase               Moon phase at local noon
  twilight            Twilight transitions from noon to noon
  seasons [year]      Equinoxes and solstices
  position <body>     Apparent altitude and azimuth
  path <body>         Altitude and azimuth through the day
  observer            Observer site
  check               Compare sunrise and sunset with go-sunrise
  serve               Run the HTTP API
  version             Print the version

Flags:
`

// cliOptions are the flags that select what to compute rather than how.
type cliOptions struct {
	json    bool
	date    string
	at      string
	timeout time.Duration
}

func main() {
	fs := pflag.NewFlagSet("ls-ephemeris", pflag.ContinueOnError)
	config.RegisterFlags(fs)

	var opts cliOptions
	fs.BoolVar(&opts.json, "json", false, "Print JSON instead of tables")
	fs.StringVar(&opts.date, "date", "", "Local date YYYY-MM-DD (default today)")
	fs.StringVar(&opts.at, "time", "", "Instant in RFC 3339 (default now)")
	fs.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall timeout for one-shot commands")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if err := run(fs, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(fs *pflag.FlagSet, opts cliOptions) error {
	args := fs.Args()
	cmd := "sky"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	if cmd == "version" {
		fmt.Println(version.UserAgent)
		return nil
	}

	path, _ := fs.GetString("config")
	cfg, err := config.Load(path, fs)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Logging.NewLogger()
	logger.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithContext(ctx, logger)

	provider := newProvider(cfg, logger)
	defer provider.Cache().Close()

	eph, err := almanac.New(cfg.Observer.Site(), cfg.Observer.Timezone,
		almanac.ProviderSource(provider, cfg.Ephemeris.Dataset),
		almanac.WithPathStep(cfg.Path.Step),
		almanac.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	switch cmd {
	case "serve":
		return serve(ctx, cfg.Server.Addr, eph, provider.Cache(), logger)
	case "sky":
		if !opts.json && term.IsTerminal(int(os.Stdout.Fd())) {
			return runTUI(ctx, eph)
		}
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	c := &cli{eph: eph, opts: opts, out: os.Stdout, now: time.Now}
	return c.dispatch(ctx, cmd, args)
}

func newProvider(cfg *config.Config, logger *logging.Logger) *ephem.Provider {
	var fetcher *ephem.Fetcher
	if cfg.Ephemeris.Fetch {
		fetcher = ephem.NewFetcher(
			ephem.WithBaseURL(cfg.Ephemeris.BaseURL),
			ephem.WithTimeout(cfg.Ephemeris.FetchTimeout),
		)
	}
	return ephem.NewProvider(
		ephem.WithDir(cfg.Ephemeris.Dir),
		ephem.WithFetcher(fetcher),
		ephem.WithLogger(logger),
	)
}

func serve(ctx context.Context, addr string, eph *almanac.Ephemeris, cache *ephem.Cache, logger *logging.Logger) error {
	srv := api.NewServer(addr, eph, logger, api.WithCache(cache))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runTUI(ctx context.Context, eph *almanac.Ephemeris) error {
	p := tea.NewProgram(ui.New(eph), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
