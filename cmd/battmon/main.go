package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/battmon/internal/config"
	"codeberg.org/mutker/battmon/internal/errors"
	"codeberg.org/mutker/battmon/internal/logger"
	"codeberg.org/mutker/battmon/internal/power"
	"codeberg.org/mutker/battmon/internal/telemetry"
	"codeberg.org/mutker/battmon/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	headless := cfg.Monitor || !logger.IsTerminal(os.Stdout)

	logFile, err := initLogger(cfg, headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.Debug().Str("config_file", cfg.ConfigFile).Bool("headless", headless).Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	src, err := power.NewUPower(ctx)
	if err != nil {
		fail("failed to initialize power source", err)
	}

	sampler, err := telemetry.NewSampler(src, cfg.Sampler(), time.Now())
	if err != nil {
		_ = src.Close()
		fail("failed to initialize sampler", err)
	}

	if headless {
		err = loop(ctx, sampler, cfg.TickInterval)
	} else {
		err = runUI(ctx, sampler, cfg.TickInterval)
	}

	if cerr := src.Close(); cerr != nil {
		logger.Error().Err(cerr).Msg("failed to close power source")
	}

	if err != nil {
		fail("battery sampling failed", err)
	}
	logger.Info().Msg("Exiting...")
}

// initLogger sends logs to stdout in headless mode and to the log file
// when the terminal belongs to the UI.
func initLogger(cfg *config.Config, headless bool) (io.Closer, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if headless {
		// samples are logged at info
		if config.LogLevel(cfg.LogLevel) == config.DefaultLogLevel {
			level = logger.InfoLevel
		}
		logger.Init(logger.Options{Level: level, Service: logger.IsService()})
		return nil, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrOpenLogFile, err).WithData(cfg.LogFile)
	}
	logger.Init(logger.Options{Level: level, Output: f, NoColor: true})

	return f, nil
}

func fail(msg string, err error) {
	var e errors.Error
	if errors.As(err, &e) {
		logger.ErrorWithCode(e).Msg(msg)
	} else {
		logger.Error().Err(err).Msg(msg)
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

func runUI(ctx context.Context, sampler *telemetry.Sampler, tick time.Duration) error {
	p := tea.NewProgram(ui.NewModel(ctx, sampler, tick), tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return errors.New().Wrap(errors.ErrRunUI, err)
	}

	if m, ok := final.(ui.Model); ok {
		return m.Err()
	}

	return nil
}

// loop drives the sampler from a ticker until ctx is done or a sampling
// pass fails.
func loop(ctx context.Context, sampler *telemetry.Sampler, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	logger.Info().Msg("Monitor mode activated. Logging battery status...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			sample, ok, err := sampler.MaybeSample(ctx, now)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New().Wrap(errors.ErrMainLoop, err)
			}
			if ok {
				logSample(sample)
			}
		}
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func logSample(sample telemetry.Sample) {
	if len(sample.Readings) == 0 {
		logger.Info().Msg("No batteries detected")
		return
	}

	event := logger.Info().Int("devices", len(sample.Readings))
	if sample.Aggregated {
		event = event.Float64("mean_rate_w", sample.Aggregate)
	}
	event.Msg("Sampled batteries")

	for _, r := range sample.Readings {
		logger.Info().
			Str("battery", r.Name).
			Str("state", r.State.String()).
			Float64("rate_w", r.EnergyRate).
			Float64("percentage", r.Percentage).
			Float64("voltage_v", r.Voltage).
			Msg("Battery status")
	}
}
