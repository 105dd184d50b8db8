package relay

import (
	"context"
	"time"

	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/clock"
	"go.uber.org/zap"
)

type bundleQueue = Queue[*model.StatefulBundle]

// pipe connects a stage to its queues and applies downstream backpressure.
type pipe struct {
	in      *bundleQueue
	out     *bundleQueue
	reserve int
	delay   time.Duration
	sleep   clock.Sleeper
}

// waitForRoom returns once out has at least reserve free slots.
func (p pipe) waitForRoom(ctx context.Context) error {
	for p.out.Free() < p.reserve {
		if err := p.sleep(ctx, p.delay); err != nil {
			return err
		}
	}
	return nil
}

// next takes the next bundle from in once out has room for it.
func (p pipe) next(ctx context.Context) (*model.StatefulBundle, error) {
	if err := p.waitForRoom(ctx); err != nil {
		return nil, err
	}
	return p.in.Take(ctx)
}

func bundleFields(b *model.StatefulBundle) []zap.Field {
	fields := []zap.Field{
		zap.Uint64("bundle_id", b.BundleID),
		zap.Uint64("source_block_number", b.SourceBlockNumber),
		zap.Uint32("index_in_block", b.IndexInSourceBlock),
		zap.Int("transfers", len(b.Transfers)),
		zap.Stringer("state", b.State()),
	}
	if sub := b.Submitted(); sub != nil {
		fields = append(fields, zap.String("tx_hash", sub.TxHash.Hex()))
	}
	return fields
}

// fatal logs err once with the bundle context and returns it.
func fatal(logger *zap.Logger, b *model.StatefulBundle, msg string, err error) error {
	logger.Error(msg, append(bundleFields(b), zap.Error(err))...)
	return err
}
