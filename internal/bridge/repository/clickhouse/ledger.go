package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/relay"
	"github.com/goodnatureofminers/bridge-relay/pkg/batcher"
	"go.uber.org/zap"
)

const (
	DefaultFlushSize     = 1000
	DefaultFlushInterval = 5 * time.Second
	DefaultFlushRPS      = 5
)

type LedgerConfig struct {
	Writer        TransferWriter
	FlushSize     int
	FlushInterval time.Duration
	RPS           int
	Logger        *zap.Logger
}

// Ledger turns finalized bundles into transfer rows and writes them in
// rate limited batches.
type Ledger struct {
	batcher *batcher.Batcher[TransferRow]
	now     func() time.Time
	logger  *zap.Logger
}

var _ relay.FinalizedObserver = (*Ledger)(nil)

func NewLedger(cfg LedgerConfig) (*Ledger, error) {
	if cfg.Writer == nil {
		return nil, errors.New("transfer writer is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("ledger")

	b, err := batcher.New(batcher.Config[TransferRow]{
		Flush:         cfg.Writer.InsertTransfers,
		FlushSize:     orDefault(cfg.FlushSize, DefaultFlushSize),
		FlushInterval: orDefault(cfg.FlushInterval, DefaultFlushInterval),
		RPS:           orDefault(cfg.RPS, DefaultFlushRPS),
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("ledger batcher: %w", err)
	}
	return &Ledger{batcher: b, now: time.Now, logger: logger}, nil
}

// Run flushes queued rows until ctx is done, then drains what is left.
func (l *Ledger) Run(ctx context.Context) error {
	return l.batcher.Run(ctx)
}

func (l *Ledger) OnFinalized(ctx context.Context, bundles []*model.StatefulBundle) error {
	finalizedAt := l.now().UTC()
	var rows []TransferRow
	for _, b := range bundles {
		bundleRows, err := transferRows(b, finalizedAt)
		if err != nil {
			return err
		}
		rows = append(rows, bundleRows...)
	}
	if err := l.batcher.Add(ctx, rows...); err != nil {
		return fmt.Errorf("queue %d ledger rows: %w", len(rows), err)
	}
	l.logger.Debug("ledger rows queued", zap.Int("bundles", len(bundles)), zap.Int("rows", len(rows)))
	return nil
}

func transferRows(b *model.StatefulBundle, finalizedAt time.Time) ([]TransferRow, error) {
	receipt := b.Receipt()
	if receipt == nil {
		return nil, fmt.Errorf("bundle %d has no destination receipt", b.BundleID)
	}
	rows := make([]TransferRow, 0, len(b.Transfers))
	for _, t := range b.Transfers {
		rows = append(rows, TransferRow{
			BundleID:               b.BundleID,
			BundleHash:             b.Hash.Hex(),
			SourceBlockNumber:      b.SourceBlockNumber,
			SourceTxHash:           t.SourceTxHash().Hex(),
			Recipient:              t.Recipient().Hex(),
			Amount:                 t.Amount().Big(),
			DestinationTxHash:      receipt.TxHash.Hex(),
			DestinationBlockNumber: receipt.BlockNumber,
			DestinationBlockHash:   receipt.BlockHash.Hex(),
			FinalizedAt:            finalizedAt,
		})
	}
	return rows, nil
}

func orDefault[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}
