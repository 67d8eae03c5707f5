package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
)

// buildRunCmd creates the "run" command: connect, stand up a pool, drive
// a burst of concurrent acquires against it, then drain before exiting.
func buildRunCmd() *cobra.Command {
	var configPath string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to AMQP, drive concurrent acquires against a pool, then drain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPool(cmd.Context(), configPath, concurrency)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML pool configuration file")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "n", 4, "Number of concurrent acquirers")
	return cmd
}

// buildDrainCmd creates the "drain" command: connect, stand up a pool
// with nothing acquiring it, and immediately drain — useful for checking
// that a configuration's factory can tear itself down cleanly.
func buildDrainCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Stand up a pool and immediately drain it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrainOnly(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML pool configuration file")
	return cmd
}

func runPool(ctx context.Context, configPath string, concurrency int) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadPoolConfig(configPath)
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}
	defer conn.Close()

	p := newChannelPool(cfg, conn, logger)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			ch, err := p.Acquire(ctx)
			if err != nil {
				logger.Error("acquire failed", "worker", worker, "error", err)
				return
			}
			defer p.Release(ch)
			logger.Info("acquired channel", "worker", worker)
		}(i)
	}
	wg.Wait()

	drainCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return p.Drain(drainCtx)
}

func runDrainOnly(ctx context.Context, configPath string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadPoolConfig(configPath)
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}
	defer conn.Close()

	p := newChannelPool(cfg, conn, logger)
	drainCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return p.Drain(drainCtx)
}
