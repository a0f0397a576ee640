package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/robofuse/termbar/internal/config"
	"github.com/robofuse/termbar/internal/console"
	"github.com/robofuse/termbar/internal/logger"
	"github.com/robofuse/termbar/pkg/progress"
	"github.com/robofuse/termbar/pkg/worker"
	"golang.org/x/time/rate"
)

const version = "1.0"

func main() {
	var (
		configPath string
		logLevel   string
		showHelp   bool
		showVer    bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&configPath, "c", "", "Path to config file (shorthand)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showHelp, "help", false, "Show help")
	flag.BoolVar(&showHelp, "h", false, "Show help (shorthand)")
	flag.BoolVar(&showVer, "version", false, "Show version")
	flag.BoolVar(&showVer, "v", false, "Show version (shorthand)")

	flag.Parse()

	if showVer {
		fmt.Printf("termbar v%s\n", version)
		os.Exit(0)
	}

	if showHelp || len(flag.Args()) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := strings.ToLower(flag.Arg(0))

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if logLevel != "" {
		logger.SetLogLevel(logLevel)
	} else if cfg.LogLevel != "" {
		logger.SetLogLevel(cfg.LogLevel)
	}
	logger.SetLogPath(cfg.LogDir)
	config.SetInstance(cfg)

	log := logger.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch command {
	case "demo":
		log.Info().Msg("Running demo bars...")
		runDemo(ctx)

	case "run":
		if err := runWork(ctx, os.Stderr); err != nil {
			log.Error().Err(err).Msg("Run failed")
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`termbar v%s - single-line terminal progress bar

Usage: termbar [options] <command>

Commands:
  demo      Draw the built-in example bars
  run       Drive a bar over simulated work using the config file

Options:
  -c, --config <path>    Path to config file
  --log-level <level>    Log level (debug, info, warn, error)
  -v, --version          Show version
  -h, --help             Show this help

Styles:
  %s

Examples:
  termbar demo
  termbar --config /path/to/termbar.json run
`, version, strings.Join(progress.StyleNames(), ", "))
}

// demoStep describes one of the example bars shown by the demo command.
type demoStep struct {
	description string
	total       uint64
	timeout     time.Duration
	style       progress.Style
	delay       time.Duration
}

func demoSteps() []demoStep {
	custom := progress.DefaultStyle
	custom.Empty = "-"
	custom.Full = "█"

	return []demoStep{
		{"Example #1", 90, 50 * time.Millisecond, progress.LineUTF8, 10 * time.Millisecond},
		{"Example #2", 1500, 50 * time.Millisecond, progress.FilledUTF8, time.Millisecond},
		{"Example #3", 100, progress.DefaultTimeout, custom, 40 * time.Millisecond},
	}
}

func runDemo(ctx context.Context) {
	for _, step := range demoSteps() {
		bar := progress.New(
			progress.WithDescription(step.description),
			progress.WithTotal(step.total),
			progress.WithTimeout(step.timeout),
			progress.WithStyle(step.style),
			progress.WithLogger(logger.New("progress")),
		)

		err := progress.Run(bar, func(b *progress.Bar) error {
			for i := uint64(0); i < step.total; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(step.delay):
				}
				b.Increment()
			}
			return nil
		})
		finishLine(os.Stderr)
		if err != nil {
			return
		}
	}
}

// runWork drives a bar over the configured number of simulated items,
// drawing it to sink.
func runWork(ctx context.Context, sink io.Writer) error {
	cfg := config.Get()
	log := logger.Default()

	log.Info().
		Str("description", cfg.Description).
		Uint64("total", cfg.Total).
		Int("workers", cfg.Workers).
		Str("style", cfg.Style).
		Str("config_dir", cfg.Path).
		Str("log_file", logger.GetLogPath()).
		Msg("Starting run...")

	var limiter *rate.Limiter
	if cfg.ItemsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ItemsPerSecond), 1)
	}

	items := make([]uint64, cfg.Total)
	for i := range items {
		items[i] = uint64(i)
	}

	bar := progress.New(
		progress.WithDescription(cfg.Description),
		progress.WithTotal(cfg.Total),
		progress.WithTimeout(cfg.Timeout()),
		progress.WithStyle(cfg.BarStyle()),
		progress.WithSink(sink),
		progress.WithLogger(logger.New("progress")),
	)

	start := time.Now()
	var failed int
	err := progress.Run(bar, func(b *progress.Bar) error {
		_, errs := worker.ProcessWithProgress(ctx, items, cfg.Workers, limiter,
			func(ctx context.Context, n uint64) (uint64, error) {
				return n, nil
			},
			func(completed, total int) {
				b.Increment()
			},
		)
		failed = len(errs)
		return ctx.Err()
	})
	finishLine(sink)

	log.Info().
		Uint64("completed", bar.Progress()).
		Int("failed", failed).
		Bool("terminal", console.IsTerminal(sink)).
		Dur("duration", time.Since(start).Round(time.Millisecond)).
		Msg("Run complete")

	if err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}
	return nil
}

// finishLine moves past the bar so following output starts on a fresh line.
func finishLine(w io.Writer) {
	fmt.Fprintln(w)
}
