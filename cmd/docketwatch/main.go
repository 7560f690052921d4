package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/docketwatch/internal/backend"
	"github.com/mmcdole/docketwatch/internal/config"
	"github.com/mmcdole/docketwatch/internal/dashboard"
	"github.com/mmcdole/docketwatch/internal/log"
	"github.com/mmcdole/docketwatch/internal/scan"
	"github.com/mmcdole/docketwatch/internal/scheduler"
	"github.com/mmcdole/docketwatch/internal/store"
	"github.com/mmcdole/docketwatch/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// errScanFailed makes the process exit non-zero without printing twice
var errScanFailed = errors.New("scan failed")

type options struct {
	configPath string
	setup      bool
	headless   bool
	scanKind   string
	company    string
	from       string
	to         string
	watch      bool
}

func main() {
	var (
		showVersion bool
		opts        options
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/docketwatch/config.yaml)")
	flag.BoolVar(&opts.setup, "setup", false, "configure the tracker URL and token")
	flag.BoolVar(&opts.headless, "headless", false, "print progress lines instead of starting the dashboard")
	flag.StringVar(&opts.scanKind, "scan", "", "run one scan: full or target")
	flag.StringVar(&opts.company, "company", "", "company id for -scan target")
	flag.StringVar(&opts.from, "from", "", "earliest filing date to search (YYYY-MM-DD)")
	flag.StringVar(&opts.to, "to", "", "latest filing date to search (YYYY-MM-DD)")
	flag.BoolVar(&opts.watch, "watch", false, "run full scans on scan.schedule")
	flag.Parse()

	if showVersion {
		fmt.Printf("docketwatch %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		if !errors.Is(err, errScanFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfigFile(path)
	}
	return config.LoadConfig()
}

func run(opts options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if opts.setup {
		return runSetupFlow(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Setup logger
	logger, closer, err := log.Setup(cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting docketwatch", "version", Version, "server", cfg.Server.URL)

	dateRange, err := parseRange(opts.from, opts.to)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := backend.NewClient(cfg.Server.URL, cfg.Server.Token, logger)

	st, err := store.NewCaseStore(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		logger.Warn("cache unavailable, continuing in memory", "error", err)
		st, _ = store.NewCaseStore("", "")
	}
	defer st.Close()

	dash := dashboard.NewService(client, st, logger)
	dash.SetFilter(cfg.Filter())

	scanOpts := scan.Options{
		FullHoursBack:   cfg.Scan.FullHoursBack,
		TargetHoursBack: cfg.Scan.TargetHoursBack,
		SettleDelay:     cfg.Scan.SettleDelay,
		Finished: func(s scan.Snapshot) {
			dash.RecordScan(s.Record())
		},
		Diagnostics: func(line string, err error) {
			logger.Debug("unrecognized scan event", "line", line, "error", err)
		},
		Logger: logger,
	}

	headless := opts.headless || opts.scanKind != "" || !term.IsTerminal(int(os.Stdout.Fd()))
	if headless {
		return runHeadless(ctx, cfg, opts, dateRange, client, dash, scanOpts, logger)
	}
	return runTUI(ctx, cfg, opts, client, dash, scanOpts, logger)
}

func runTUI(
	ctx context.Context,
	cfg *config.Config,
	opts options,
	client *backend.Client,
	dash *dashboard.Service,
	scanOpts scan.Options,
	logger *slog.Logger,
) error {
	obs := tui.NewChannelObserver(dash)
	scanOpts.Observer = obs.OnSnapshot
	scanOpts.Refresh = obs.Refresh
	ctrl := scan.NewController(client, scanOpts)

	if opts.watch {
		sched, err := startSchedule(ctx, cfg, ctrl, logger)
		if err != nil {
			return err
		}
		defer sched.Stop()
	}

	model := tui.NewModel(ctx, dash, ctrl, obs, cfg.Filter())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Info("starting TUI")

	_, err := p.Run()

	// Quitting abandons any running scan
	ctrl.Cancel()
	ctrl.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func startSchedule(ctx context.Context, cfg *config.Config, ctrl *scan.Controller, logger *slog.Logger) (*scheduler.Scheduler, error) {
	if cfg.Scan.Schedule == "" {
		return nil, errors.New("-watch needs scan.schedule in the config")
	}
	sched, err := scheduler.New(cfg.Scan.Schedule, ctrl, logger)
	if err != nil {
		return nil, err
	}
	if err := sched.Start(ctx); err != nil {
		return nil, err
	}
	return sched, nil
}

// parseRange builds a date range from the -from/-to flags. Both or neither
// must be given.
func parseRange(from, to string) (*scan.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, errors.New("-from and -to must be given together")
	}
	start, err := time.ParseInLocation("2006-01-02", from, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid -from: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", to, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid -to: %w", err)
	}
	return &scan.DateRange{From: start, To: end}, nil
}

// runSetupFlow prompts for the tracker URL and token and saves them
func runSetupFlow(cfg *config.Config) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println()
	fmt.Println("Welcome to docketwatch!")
	fmt.Println()

	for {
		fmt.Printf("Tracker API URL [%s]: ", cfg.Server.URL)
		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if url := strings.TrimSpace(input); url != "" {
			cfg.Server.URL = url
		}
		if err := cfg.Validate(); err != nil {
			fmt.Printf("✗ %v\n", err)
			continue
		}
		break
	}

	fmt.Print("API token (leave empty if none): ")
	var token string
	if term.IsTerminal(int(os.Stdin.Fd())) {
		tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = string(tokenBytes)
	} else {
		input, _ := reader.ReadString('\n')
		token = input
	}
	cfg.Server.Token = strings.TrimSpace(token)

	// Check the settings before saving them
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	client := backend.NewClient(cfg.Server.URL, cfg.Server.Token, log.NullLogger())
	if _, err := client.GetStats(ctx); err != nil {
		fmt.Printf("\n! Could not reach the tracker: %v\n", err)
		fmt.Println("Saving anyway; check the URL and token if this persists.")
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run docketwatch again to start the dashboard.")
	return nil
}
