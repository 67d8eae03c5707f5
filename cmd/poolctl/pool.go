package main

import (
	"context"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	pool "github.com/posidoni/resource-pool"
	"github.com/posidoni/resource-pool/metrics"
)

func newChannelPool(cfg poolConfig, conn *amqp.Connection, logger *slog.Logger) *pool.Pool[*amqp.Channel] {
	factory := pool.Factory[*amqp.Channel]{
		Create: func(ctx context.Context) (*amqp.Channel, error) {
			return conn.Channel()
		},
		Destroy: func(ctx context.Context, ch *amqp.Channel) {
			_ = ch.Close()
		},
		Validate: func(ch *amqp.Channel) bool {
			return !ch.IsClosed()
		},
		Backoff: func() time.Duration { return 500 * time.Millisecond },
	}

	opts := []pool.Option{
		pool.WithMin(cfg.Min),
		pool.WithMax(cfg.Max),
		pool.WithMaxCreating(cfg.MaxCreating),
		pool.WithAcquireTimeout(cfg.AcquireTimeout),
		pool.WithIdleTimeout(cfg.IdleTimeout),
		pool.WithLogger(pool.NewSlogLogger(logger)),
		pool.WithEventListener(metrics.NewRecorder("poolctl")),
	}
	if cfg.MaintenanceInterval > 0 {
		opts = append(opts, pool.WithMaintenanceInterval(cfg.MaintenanceInterval))
	}

	return pool.New(factory, opts...)
}
