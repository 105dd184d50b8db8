// Package oracle scans a chain below its tip and hands contiguous runs of
// finalized blocks with matching logs to a sink.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/chain"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/clock"
	"github.com/goodnatureofminers/bridge-relay/pkg/workerpool"
	"go.uber.org/zap"
)

// Config wires an Oracle. Zero numeric fields take their defaults.
type Config[A model.Address] struct {
	Name        string
	Connection  Connection[A]
	EventFilter model.EventFilter[A]
	Sink        Sink[A]

	TipDistance          uint64
	BlockBatchSize       uint64
	ReceiptBatchSize     int
	ReceiptWorkers       int
	HaltDelay            time.Duration
	ErrorDelay           time.Duration
	MaxConsecutiveErrors int

	Logger  *zap.Logger
	Metrics Metrics
	Hooks   Hooks
}

// Oracle follows one chain. It is not safe to Run twice concurrently.
type Oracle[A model.Address] struct {
	conn      Connection[A]
	sink      Sink[A]
	processor *BlockProcessor[A]
	logger    *zap.Logger
	metrics   Metrics
	hooks     Hooks
	sleep     clock.Sleeper

	tipDistance          uint64
	blockBatchSize       uint64
	receiptBatchSize     int
	receiptWorkers       int
	haltDelay            time.Duration
	errorDelay           time.Duration
	maxConsecutiveErrors int
}

func New[A model.Address](cfg Config[A]) (*Oracle[A], error) {
	if cfg.Connection == nil {
		return nil, errors.New("oracle connection is required")
	}
	if cfg.Sink == nil {
		return nil, errors.New("oracle sink is required")
	}
	if cfg.Metrics == nil {
		return nil, errors.New("oracle metrics is required")
	}
	var zero A
	if cfg.EventFilter.ContractAddress() == zero || cfg.EventFilter.EventHash() == (common.Hash{}) {
		return nil, errors.New("oracle event filter is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Name != "" {
		logger = logger.With(zap.String("chain", cfg.Name))
	}

	o := &Oracle[A]{
		conn:                 cfg.Connection,
		sink:                 cfg.Sink,
		processor:            NewBlockProcessor(cfg.EventFilter),
		logger:               logger.Named("oracle"),
		metrics:              cfg.Metrics,
		hooks:                cfg.Hooks,
		sleep:                clock.SleepWithContext,
		tipDistance:          cfg.TipDistance,
		blockBatchSize:       cfg.BlockBatchSize,
		receiptBatchSize:     cfg.ReceiptBatchSize,
		receiptWorkers:       cfg.ReceiptWorkers,
		haltDelay:            cfg.HaltDelay,
		errorDelay:           cfg.ErrorDelay,
		maxConsecutiveErrors: cfg.MaxConsecutiveErrors,
	}
	if o.tipDistance == 0 {
		o.tipDistance = defaultTipDistance
	}
	if o.blockBatchSize == 0 {
		o.blockBatchSize = defaultBlockBatchSize
	}
	if o.receiptBatchSize <= 0 {
		o.receiptBatchSize = defaultReceiptBatchSize
	}
	if o.receiptWorkers <= 0 {
		o.receiptWorkers = defaultReceiptWorkers
	}
	if o.haltDelay <= 0 {
		o.haltDelay = defaultHaltDelay
	}
	if o.errorDelay <= 0 {
		o.errorDelay = defaultErrorDelay
	}
	if o.maxConsecutiveErrors <= 0 {
		o.maxConsecutiveErrors = defaultMaxConsecutiveErrors
	}
	return o, nil
}

// Run scans until the context is cancelled, a sink call fails or too many
// consecutive iterations fail.
func (o *Oracle[A]) Run(ctx context.Context) error {
	consecutive := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		started := time.Now()
		delay, err := o.iterate(ctx)
		o.metrics.ObserveIteration(err, started)

		switch {
		case err == nil:
			consecutive = 0
		case ctx.Err() != nil:
			return ctx.Err()
		case isFatal(err):
			o.logger.Error("oracle stopped", zap.Error(err))
			return err
		default:
			consecutive++
			if consecutive >= o.maxConsecutiveErrors {
				o.logger.Error("oracle gave up", zap.Error(err), zap.Int("consecutive_errors", consecutive))
				return fmt.Errorf("%w (%d): %w", ErrTooManyErrors, consecutive, err)
			}
			o.logger.Warn("run iteration failed, backing off",
				zap.Error(err),
				zap.Int("consecutive_errors", consecutive),
				zap.Duration("sleep", o.errorDelay))
			delay = o.errorDelay
		}

		if delay > 0 {
			if err := o.sleep(ctx, delay); err != nil {
				return err
			}
		}
	}
}

// iterate runs one scan and returns how long to wait before the next one.
func (o *Oracle[A]) iterate(ctx context.Context) (time.Duration, error) {
	historyHead, err := o.sink.LatestBlock(ctx)
	if err != nil {
		return 0, fatalError{fmt.Errorf("read history head: %w", err)}
	}
	latest, ok, err := o.conn.LatestBlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("latest block number: %w", err)
	}
	if !ok {
		return 0, errNoBlockNumber
	}

	var chainHead uint64
	if latest > o.tipDistance {
		chainHead = latest - o.tipDistance
	}
	o.metrics.ObserveHeads(historyHead.Number, chainHead)
	notify(o.hooks.HistoryHead, historyHead)
	notify(o.hooks.ChainHead, chainHead)

	switch {
	case chainHead == historyHead.Number:
		o.logger.Debug("caught up", zap.Uint64("chain_head", chainHead))
		return o.haltDelay, nil
	case chainHead < historyHead.Number:
		o.logger.Error("chain head behind history head",
			zap.Uint64("chain_head", chainHead),
			zap.Stringer("history_head", historyHead))
		return o.errorDelay, o.reorganize(ctx, historyHead, chainHead)
	}

	start := historyHead.Number + 1
	end := min(start+o.blockBatchSize-1, chainHead)

	fetched := time.Now()
	blocks, err := o.conn.BlocksRangeClosed(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("blocks [%d, %d]: %w", start, end, err)
	}
	if len(blocks) == 0 {
		return 0, fmt.Errorf("blocks [%d, %d]: empty response", start, end)
	}
	o.logger.Debug("block range retrieved",
		zap.Uint64("start", start),
		zap.Uint64("end", end),
		zap.Duration("took", time.Since(fetched)))

	if blocks[0].ParentHash != historyHead.Hash {
		o.logger.Error("block range does not extend history head",
			zap.Stringer("history_head", historyHead),
			zap.String("parent_hash", blocks[0].ParentHash.Hex()))
		return o.errorDelay, o.reorganize(ctx, historyHead, chainHead)
	}

	rs := NewResultSet[A]()
	candidates := make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		if o.processor.FilterBlock(b) {
			candidates = append(candidates, b)
			continue
		}
		if err := rs.AppendEmptyBlock(b); err != nil {
			return 0, err
		}
	}

	withReceipts, err := o.receiptsForBlocks(ctx, candidates)
	if err != nil {
		return 0, err
	}
	for _, bwr := range withReceipts {
		filtered, err := o.processor.FilterReceipts(bwr.Block, bwr.Receipts)
		if err != nil {
			return 0, err
		}
		if len(filtered) == 0 {
			err = rs.AppendEmptyBlock(bwr.Block)
		} else {
			err = rs.AppendFilledBlock(model.BlockWithReceipts[A]{Block: bwr.Block, Receipts: filtered})
		}
		if err != nil {
			return 0, err
		}
	}

	if err := rs.Seal(); err != nil {
		return 0, err
	}
	if first := rs.First(); first.Number != start || rs.Head().Number != end {
		return 0, fmt.Errorf("%w: sealed [%d, %d], requested [%d, %d]", ErrIntegrity, first.Number, rs.Head().Number, start, end)
	}

	if err := o.sink.Publish(ctx, rs); err != nil {
		return 0, fatalError{fmt.Errorf("publish [%d, %d]: %w", start, end, err)}
	}

	summary := rs.summary()
	o.logger.Info("published result set",
		zap.Stringer("first", summary.First),
		zap.Stringer("last", summary.Last),
		zap.Int("filled_blocks", summary.FilledBlocks),
		zap.Int("receipts", summary.Receipts))
	notify(o.hooks.Published, summary)
	return 0, nil
}

func (o *Oracle[A]) reorganize(ctx context.Context, historyHead model.ChainLink, chainHead uint64) error {
	actual, err := o.conn.Block(ctx, historyHead.Number)
	switch {
	case errors.Is(err, chain.ErrBlockNotFound):
		actual = nil
	case err != nil:
		return fmt.Errorf("block at history head %d: %w", historyHead.Number, err)
	}
	if err := o.sink.Reorganize(ctx, historyHead, chainHead, actual); err != nil {
		return fatalError{fmt.Errorf("reorganize at %s: %w", historyHead, err)}
	}
	return nil
}

// receiptGroups splits blocks so that each group's transaction count stays
// within the batch size. A single block larger than the batch gets its own group.
func receiptGroups(blocks []model.Block, batchSize int) [][]model.Block {
	var (
		groups  [][]model.Block
		current []model.Block
		txCount int
	)
	for _, b := range blocks {
		if len(current) > 0 && txCount+len(b.Transactions) > batchSize {
			groups = append(groups, current)
			current, txCount = nil, 0
		}
		current = append(current, b)
		txCount += len(b.Transactions)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func (o *Oracle[A]) receiptsForBlocks(ctx context.Context, blocks []model.Block) ([]model.BlockWithReceipts[A], error) {
	if len(blocks) == 0 {
		return nil, nil
	}

	groups := receiptGroups(blocks, o.receiptBatchSize)
	results, err := workerpool.Map(ctx, o.receiptWorkers, groups, func(ctx context.Context, group []model.Block) ([]model.BlockWithReceipts[A], error) {
		txs := 0
		for _, b := range group {
			txs += len(b.Transactions)
		}
		res, err := o.conn.ReceiptsForBlocks(ctx, group)
		o.metrics.ObserveReceiptBatch(err, txs)
		if err != nil {
			return nil, fmt.Errorf("receipts for %d blocks from %d: %w", len(group), group[0].Number, err)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	requested := make(map[common.Hash]struct{}, len(blocks))
	for _, b := range blocks {
		requested[b.Hash] = struct{}{}
	}
	var out []model.BlockWithReceipts[A]
	for _, res := range results {
		for _, bwr := range res {
			if _, ok := requested[bwr.Block.Hash]; !ok {
				return nil, fmt.Errorf("%w: unexpected block %s in response", ErrMissingReceipts, bwr.Block.Link())
			}
			delete(requested, bwr.Block.Hash)
			out = append(out, bwr)
		}
	}
	if len(requested) != 0 {
		return nil, fmt.Errorf("%w: %d requested blocks missing from response", ErrMissingReceipts, len(requested))
	}
	return out, nil
}
