package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"baristasim/internal/agent"
	"baristasim/internal/config"
	"baristasim/internal/logging"
	"baristasim/internal/metrics"
	"baristasim/internal/present"
	"baristasim/internal/session"
)

func runShift(cmd *cobra.Command, args []string) error {
	cfgPath := config.ConfigPath(workspace)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if provider != "" {
		cfg.Provider = provider
	}
	if verbose {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logging.Configure(workspace, logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Categories: cfg.Logging.Categories,
	})
	logging.Boot("shift starting: provider=%s customers=%d", cfg.Provider, len(cfg.Customers))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Only the logging section is applied mid-run; roster and provider
	// changes take effect on the next shift.
	watcher, err := config.NewWatcher(cfgPath, func(next *config.Config) {
		logging.Configure(workspace, logging.Options{
			DebugMode:  next.Logging.DebugMode,
			Level:      next.Logging.Level,
			Categories: next.Logging.Categories,
		})
		logger.Info("config reloaded", zap.String("path", cfgPath))
	})
	if err != nil {
		logger.Warn("config watcher unavailable", zap.Error(err))
	} else {
		_ = watcher.Start(ctx)
		defer watcher.Stop()
	}

	client, err := agent.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("building agent provider: %w", err)
	}
	logger.Info("agent provider ready", zap.String("provider", client.Name()))

	controller := agent.NewController(client, agent.OptionsForProvider(cfg.Provider))
	recorder := &choiceCountingRecorder{Recorder: metrics.NewRecorder()}
	meter := present.NewMeter(cfg.Satisfaction, recorder.SetSatisfaction)
	owner := &shiftOwner{out: os.Stdout, meter: meter, total: len(cfg.Customers)}

	orch := session.New(session.Config{
		Customers:    cfg.Customers,
		Timeouts:     cfg.Timeouts,
		MaxExchanges: cfg.MaxComplaintExchanges,
	}, session.Deps{
		Agents:       controller,
		Choices:      present.NewTerminalChoices(os.Stdin, os.Stdout),
		Satisfaction: meter,
		Metrics:      recorder,
		Fades:        present.NewFader(os.Stdout, cfg.Timeouts.FadeDuration),
		Owner:        owner,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.ListenAddr, recorder.Recorder)
		g.Go(func() error { return srv.Run(gctx) })
		logger.Info("metrics exposition up", zap.String("addr", cfg.Metrics.ListenAddr))
	}

	start := time.Now()
	runErr := orch.Run(runCtx)
	cancel()
	if err := g.Wait(); err != nil {
		logger.Warn("metrics server error", zap.Error(err))
	}

	summary := present.Summary{
		CustomersServed: owner.servedCount(),
		CustomersTotal:  len(cfg.Customers),
		ChoicesMade:     int(recorder.choices.Load()),
		Satisfaction:    meter.Value(),
		Elapsed:         time.Since(start),
	}
	fmt.Fprintf(os.Stdout, "\n%s\n", summary.Render())

	if errors.Is(runErr, context.Canceled) {
		fmt.Fprintln(os.Stdout, "shift interrupted")
		return nil
	}
	return runErr
}

// shiftOwner receives run progress and keeps the operator oriented between
// customers.
type shiftOwner struct {
	out   *os.File
	meter *present.Meter
	total int

	mu     sync.Mutex
	served int
}

func (o *shiftOwner) CustomerServed(index int) {
	o.mu.Lock()
	o.served++
	served := o.served
	o.mu.Unlock()

	fmt.Fprintf(o.out, "\ncustomer %d of %d done  %s\n", served, o.total, o.meter.Render())
}

func (o *shiftOwner) AllCustomersComplete() {
	fmt.Fprintf(o.out, "\nthat was the last customer\n")
}

func (o *shiftOwner) servedCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.served
}

// choiceCountingRecorder adds a readable choice count on top of the
// Prometheus recorder for the end-of-shift summary.
type choiceCountingRecorder struct {
	*metrics.Recorder
	choices atomic.Int64
}

func (r *choiceCountingRecorder) RecordChoice() {
	r.choices.Add(1)
	r.Recorder.RecordChoice()
}
