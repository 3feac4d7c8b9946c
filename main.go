package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/sadewadee/linkedin-jobs-scraper/runner"
	"github.com/sadewadee/linkedin-jobs-scraper/runner/searchrunner"
	"github.com/sadewadee/linkedin-jobs-scraper/runner/serverrunner"
	"github.com/sadewadee/linkedin-jobs-scraper/runner/sweeprunner"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner.Banner()

	log.Println("Starting application...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan

		log.Println("Received signal, shutting down...")

		cancel()
	}()

	cfg := runner.ParseConfig()

	log.Printf("RunMode: %d (Worker=%v, SweepOnce=%v)", cfg.RunMode, cfg.WorkerMode, cfg.SweepOnce)

	runnerInstance, err := runnerFactory(ctx, cfg)
	if err != nil {
		cancel()
		os.Stderr.WriteString(err.Error() + "\n")

		runner.Telemetry().Close()

		os.Exit(1)
	}

	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		if err := runnerInstance.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := egroup.Wait(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		_ = runnerInstance.Close(ctx)
		runner.Telemetry().Close()
		os.Exit(1)
	}

	_ = runnerInstance.Close(ctx)
	runner.Telemetry().Close()

	os.Exit(0)
}

func runnerFactory(ctx context.Context, cfg *runner.Config) (runner.Runner, error) {
	switch cfg.RunMode {
	case runner.RunModeServer:
		return serverrunner.New(ctx, cfg)
	case runner.RunModeWorker, runner.RunModeSweep, runner.RunModeClear:
		return sweeprunner.New(ctx, cfg)
	case runner.RunModeSearch:
		return searchrunner.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}
}
