package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"goal-roadmap/internal/client"
	"goal-roadmap/internal/config"
	"goal-roadmap/internal/domain"
	"goal-roadmap/internal/input"
)

const inputLabel = "What do you want to learn? > "

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.LoadClientConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	observer := client.MultiObserver{
		client.NewLogObserver(logger),
		client.ObserverFunc{Success: printRoadmap},
	}
	submitter := client.NewSubmitter(logger, client.OptionsFromConfig(cfg), client.StaticIdentity(cfg.UserID), observer)
	dispatcher := client.NewDispatcher(logger, submitter, cfg.Supersede)

	if cfg.BootstrapEnabled {
		bootstrapper := client.NewBootstrapper(logger, submitter, cfg.BootstrapMode, cfg.BootstrapGoal)
		if err := bootstrapper.Run(ctx); err != nil {
			logger.Warn("continuing without bootstrap", zap.Error(err))
		}
	}

	capture := input.NewCapture(logger, os.Stdin, func(goal string) {
		dispatcher.Dispatch(ctx, goal)
	}).WithLabel(os.Stdout, inputLabel)

	done := make(chan error, 1)
	go func() { done <- capture.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("input closed", zap.Error(err))
		}
		dispatcher.Wait()
	case <-ctx.Done():
		logger.Info("interrupted, cancelling pending requests")
		dispatcher.Close()
	}
}

// newLogger arma un logger de desarrollo con el nivel pedido.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

func printRoadmap(goal string, resp domain.GoalResponse) {
	if resp.Roadmap == nil {
		return
	}
	fmt.Printf("\nRoadmap for %q (%d topics)\n", goal, len(resp.Roadmap.Topics))
	for i, t := range resp.Roadmap.Topics {
		fmt.Printf("%2d. %s [%s]\n", i+1, t.Title, t.Difficulty)
		for _, s := range t.Sources {
			fmt.Printf("      - %s\n", s.URL)
		}
	}
}
