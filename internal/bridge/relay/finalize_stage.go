package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/policy"
	"github.com/goodnatureofminers/bridge-relay/internal/clock"
	"go.uber.org/zap"
)

// FinalizeStage evicts SEALED bundles from QD once their receipt is
// FinalizationDepth deep and still reproduces the bundle.
type FinalizeStage struct {
	in                *bundleQueue
	chain             DestinationChain
	tip               TipReader
	store             DataStore
	unbundling        *policy.DestinationUnbundlingPolicy
	observers         []FinalizedObserver
	finalizationDepth uint64
	pollDelay         time.Duration
	retry             Retry
	sleep             clock.Sleeper
	logger            *zap.Logger
	metrics           Metrics
}

type FinalizeConfig struct {
	In                *bundleQueue
	Chain             DestinationChain
	Tip               TipReader
	Store             DataStore
	Unbundling        *policy.DestinationUnbundlingPolicy
	Observers         []FinalizedObserver
	FinalizationDepth uint64
	Logger            *zap.Logger
	Metrics           Metrics
}

func NewFinalizeStage(cfg FinalizeConfig) (*FinalizeStage, error) {
	switch {
	case cfg.In == nil:
		return nil, errors.New("finalize stage queue is required")
	case cfg.Chain == nil:
		return nil, errors.New("destination chain is required")
	case cfg.Tip == nil:
		return nil, errors.New("tip reader is required")
	case cfg.Store == nil:
		return nil, errors.New("data store is required")
	case cfg.Unbundling == nil:
		return nil, errors.New("unbundling policy is required")
	case cfg.Metrics == nil:
		return nil, errors.New("finalize stage metrics is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named(stageFinalize)
	return &FinalizeStage{
		in:                cfg.In,
		chain:             cfg.Chain,
		tip:               cfg.Tip,
		store:             cfg.Store,
		unbundling:        cfg.Unbundling,
		observers:         cfg.Observers,
		finalizationDepth: cfg.FinalizationDepth,
		pollDelay:         defaultPollDelay,
		retry:             NewRetry(defaultRetryAttempts, defaultReceiptRetryDelay, logger, cfg.Metrics),
		sleep:             clock.SleepWithContext,
		logger:            logger,
		metrics:           cfg.Metrics,
	}, nil
}

func (s *FinalizeStage) Run(ctx context.Context) error {
	for {
		if err := s.iterate(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if err := s.sleep(ctx, s.pollDelay); err != nil {
			return err
		}
	}
}

func (s *FinalizeStage) iterate(ctx context.Context) error {
	started := time.Now()
	finalized, err := s.sweep(ctx)
	if err != nil {
		return err
	}
	if len(finalized) == 0 {
		return nil
	}

	records := make([]model.FinalizedBundle, 0, len(finalized))
	for _, b := range finalized {
		r := b.Receipt()
		records = append(records, model.FinalizedBundle{
			BundleID:    b.BundleID,
			BundleHash:  b.Hash,
			TxHash:      r.TxHash,
			BlockNumber: r.BlockNumber,
			BlockHash:   r.BlockHash,
		})
	}
	last := finalized[len(finalized)-1]
	if err := s.store.StoreDestinationFinalizedBundles(ctx, records, last.Receipt().Link()); err != nil {
		err = fmt.Errorf("%w: store destination finalized bundles: %w", ErrPersistence, err)
		s.metrics.ObserveStage(stageFinalize, err, started)
		return fatal(s.logger, last, "finalize stage failed", err)
	}
	s.metrics.ObserveStage(stageFinalize, nil, started)
	s.logger.Info("bundles finalized",
		zap.Int("bundles", len(finalized)),
		zap.Uint64("first_bundle_id", finalized[0].BundleID),
		zap.Uint64("last_bundle_id", last.BundleID))

	for _, o := range s.observers {
		if err := o.OnFinalized(ctx, finalized); err != nil {
			s.logger.Warn("finalized observer failed", zap.Error(err), zap.Int("bundles", len(finalized)))
		}
	}
	return nil
}

// sweep finalizes bundles from the head of QD until one is not deep enough.
func (s *FinalizeStage) sweep(ctx context.Context) ([]*model.StatefulBundle, error) {
	var finalized []*model.StatefulBundle
	for {
		b, ok := s.in.Peek()
		if !ok {
			return finalized, nil
		}
		tip, ok := s.tip.BlockNumber()
		if !ok {
			return finalized, nil
		}
		done, err := s.finalize(ctx, b, tip)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.metrics.ObserveStage(stageFinalize, err, time.Now())
			return nil, fatal(s.logger, b, "finalize stage failed", err)
		}
		if !done {
			return finalized, nil
		}
		finalized = append(finalized, b)
	}
}

func (s *FinalizeStage) finalize(ctx context.Context, b *model.StatefulBundle, tip uint64) (bool, error) {
	sub, sealed := b.Submitted(), b.Receipt()
	if b.State() != model.StateSealed || sub == nil || sealed == nil {
		return false, fmt.Errorf("%w: finalize stage received a %s bundle", model.ErrInvalidTransition, b.State())
	}

	receipt, err := fetchReceipt(ctx, s.retry, s.chain, sub.TxHash)
	if err != nil {
		return false, err
	}
	if receipt == nil {
		return false, fmt.Errorf("%w: tx %s, possible deep reorganization", ErrReceiptNotFound, sub.TxHash.Hex())
	}
	if tip < receipt.BlockNumber {
		return false, fmt.Errorf("%w: receipt block %d, tip %d", ErrReceiptAboveTip, receipt.BlockNumber, tip)
	}
	if tip-receipt.BlockNumber < s.finalizationDepth {
		return false, nil
	}

	if !receipt.Equal(*sealed) {
		s.logger.Info("receipt changed since sealing",
			zap.Uint64("bundle_id", b.BundleID),
			zap.Stringer("sealed_block", sealed.Link()),
			zap.Stringer("found_block", receipt.Link()))
		if err := b.ResetSealed(*receipt); err != nil {
			return false, err
		}
	}
	if !receipt.Status {
		return false, fmt.Errorf("%w: tx %s", ErrReceiptFailed, receipt.TxHash.Hex())
	}
	if err := verifyReceipt(s.unbundling, *b.Receipt(), b.Bundle); err != nil {
		return false, err
	}

	if _, err := s.in.Take(ctx); err != nil {
		return false, err
	}
	if err := b.SetFinalized(); err != nil {
		return false, err
	}
	return true, nil
}
