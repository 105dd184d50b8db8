package relay

import (
	"context"
	"time"

	"github.com/goodnatureofminers/bridge-relay/internal/clock"
	"go.uber.org/zap"
)

type queueLogger struct {
	queues   []*bundleQueue
	interval time.Duration
	sleep    clock.Sleeper
	logger   *zap.Logger
	metrics  Metrics
}

func (l *queueLogger) Run(ctx context.Context) error {
	sleep := l.sleep.OrDefault()
	for {
		l.report()
		if err := sleep(ctx, l.interval); err != nil {
			return err
		}
	}
}

func (l *queueLogger) report() {
	fields := make([]zap.Field, 0, len(l.queues))
	for _, q := range l.queues {
		n := q.Len()
		l.metrics.ObserveQueueLength(q.Name(), n)
		fields = append(fields, zap.Int(q.Name(), n))
	}
	l.logger.Info("queue status", fields...)
}
