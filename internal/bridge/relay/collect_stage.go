package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/aion"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/policy"
	"github.com/goodnatureofminers/bridge-relay/internal/clock"
	"go.uber.org/zap"
)

const successfulTxHashTopics = 2

// CollectStage waits for the receipt of each SUBMITTED bundle in QC and
// moves the bundle to QD once the receipt is MinDepth deep and verified.
type CollectStage struct {
	pipe
	chain            DestinationChain
	tip              TipReader
	unbundling       *policy.DestinationUnbundlingPolicy
	successfulTxHash model.EventFilter[common.Hash]
	contract         common.Hash
	minDepth         uint64
	pollDelay        time.Duration
	retry            Retry
	logger           *zap.Logger
	metrics          Metrics
}

type CollectConfig struct {
	In, Out                *bundleQueue
	Chain                  DestinationChain
	Tip                    TipReader
	Unbundling             *policy.DestinationUnbundlingPolicy
	SuccessfulTxHashFilter model.EventFilter[common.Hash]
	MinDepth               uint64
	Logger                 *zap.Logger
	Metrics                Metrics
}

func NewCollectStage(cfg CollectConfig) (*CollectStage, error) {
	switch {
	case cfg.In == nil || cfg.Out == nil:
		return nil, errors.New("collect stage queues are required")
	case cfg.Chain == nil:
		return nil, errors.New("destination chain is required")
	case cfg.Tip == nil:
		return nil, errors.New("tip reader is required")
	case cfg.Unbundling == nil:
		return nil, errors.New("unbundling policy is required")
	case cfg.SuccessfulTxHashFilter.ContractAddress() == (common.Hash{}):
		return nil, errors.New("successful tx hash filter is required")
	case cfg.Metrics == nil:
		return nil, errors.New("collect stage metrics is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named(stageCollect)
	return &CollectStage{
		pipe:             pipe{in: cfg.In, out: cfg.Out, reserve: 1, delay: defaultPollDelay, sleep: clock.SleepWithContext},
		chain:            cfg.Chain,
		tip:              cfg.Tip,
		unbundling:       cfg.Unbundling,
		successfulTxHash: cfg.SuccessfulTxHashFilter,
		contract:         cfg.SuccessfulTxHashFilter.ContractAddress(),
		minDepth:         cfg.MinDepth,
		pollDelay:        defaultPollDelay,
		retry:            NewRetry(defaultRetryAttempts, defaultReceiptRetryDelay, logger, cfg.Metrics),
		logger:           logger,
		metrics:          cfg.Metrics,
	}, nil
}

func (s *CollectStage) Run(ctx context.Context) error {
	for {
		if err := s.waitForRoom(ctx); err != nil {
			return err
		}
		b, ok := s.in.Peek()
		if !ok {
			if err := s.sleep(ctx, s.pollDelay); err != nil {
				return err
			}
			continue
		}

		started := time.Now()
		sealed, err := s.process(ctx, b)
		if err != nil {
			s.metrics.ObserveStage(stageCollect, err, started)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fatal(s.logger, b, "collect stage failed", err)
		}
		if sealed {
			s.metrics.ObserveStage(stageCollect, nil, started)
			continue
		}
		if err := s.sleep(ctx, s.pollDelay); err != nil {
			return err
		}
	}
}

// process handles the head of QC. It reports false when the bundle has to wait.
func (s *CollectStage) process(ctx context.Context, b *model.StatefulBundle) (bool, error) {
	sub := b.Submitted()
	if b.State() != model.StateSubmitted || sub == nil {
		return false, fmt.Errorf("%w: collect stage received a %s bundle", model.ErrInvalidTransition, b.State())
	}
	tip, ok := s.tip.BlockNumber()
	if !ok || tip < sub.DestinationBlockNumber+s.minDepth {
		return false, nil
	}

	receipt, err := fetchReceipt(ctx, s.retry, s.chain, sub.TxHash)
	if err != nil {
		return false, err
	}
	if receipt == nil {
		return false, s.redirectToIncludedTx(ctx, b)
	}
	if tip < receipt.BlockNumber+s.minDepth {
		return false, nil
	}

	if _, err := s.in.Take(ctx); err != nil {
		return false, err
	}
	if !receipt.Status {
		return false, fmt.Errorf("%w: tx %s", ErrReceiptFailed, receipt.TxHash.Hex())
	}

	switch {
	case len(receipt.Logs) == len(b.Transfers)+1:
		if err := verifyReceipt(s.unbundling, *receipt, b.Bundle); err != nil {
			return false, err
		}
	case s.isSuccessfulTxHash(*receipt):
		original := receipt.Logs[0].Topics[1]
		s.logger.Info("bundle was included by an earlier transaction",
			zap.Uint64("bundle_id", b.BundleID),
			zap.String("tx_hash", original.Hex()))
		sub.SetTxHash(original)
		receipt, err = fetchReceipt(ctx, s.retry, s.chain, original)
		if err != nil {
			return false, err
		}
		if receipt == nil {
			return false, fmt.Errorf("%w: original tx %s", ErrReceiptNotFound, original.Hex())
		}
	default:
		return false, fmt.Errorf("%w: %d logs for %d transfers", ErrBundleMismatch, len(receipt.Logs), len(b.Transfers))
	}

	if err := b.SetSealed(*receipt); err != nil {
		return false, err
	}
	s.logger.Info("bundle sealed",
		zap.Uint64("bundle_id", b.BundleID),
		zap.Uint64("block_number", receipt.BlockNumber))
	return true, s.out.Offer(ctx, b)
}

// redirectToIncludedTx asks the bridge contract whether the bundle was
// processed by another transaction and follows it when it was.
func (s *CollectStage) redirectToIncludedTx(ctx context.Context, b *model.StatefulBundle) error {
	out, err := s.chain.ContractCall(ctx, s.contract, aion.EncodeActionMap(b.Hash))
	if err != nil {
		return fmt.Errorf("%w: actionMap: %w", ErrReceiptNotFound, err)
	}
	txHash, err := aion.DecodeBytes32(out)
	if err != nil {
		return fmt.Errorf("%w: actionMap: %w", ErrReceiptNotFound, err)
	}
	if txHash == (common.Hash{}) {
		return fmt.Errorf("%w: bundle %s not processed by the contract", ErrReceiptNotFound, b.Hash.Hex())
	}
	s.logger.Info("receipt missing but bundle already included",
		zap.Uint64("bundle_id", b.BundleID),
		zap.String("tx_hash", txHash.Hex()))
	b.Submitted().SetTxHash(txHash)
	return nil
}

func (s *CollectStage) isSuccessfulTxHash(r model.DestinationReceipt) bool {
	return s.successfulTxHash.Matches(r.LogsBloom) &&
		r.To == s.contract &&
		len(r.Logs) > 0 &&
		len(r.Logs[0].Topics) == successfulTxHashTopics &&
		r.Logs[0].Topics[0] == s.successfulTxHash.EventHash()
}

// fetchReceipt retries missing receipts. It returns nil without error once the attempts ran out.
func fetchReceipt(ctx context.Context, retry Retry, chain DestinationChain, txHash common.Hash) (*model.DestinationReceipt, error) {
	receipt, err := Do(ctx, retry, "get_receipt", func(ctx context.Context) (*model.DestinationReceipt, error) {
		r, err := chain.Receipt(ctx, txHash)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, ErrReceiptNotFound
		}
		return r, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		retry.logger.Warn("receipt not available", zap.String("tx_hash", txHash.Hex()), zap.Error(err))
		return nil, nil
	}
	return receipt, nil
}

func verifyReceipt(unbundling *policy.DestinationUnbundlingPolicy, receipt model.DestinationReceipt, bundle model.Bundle) error {
	dst, err := unbundling.FromReceipts([]model.DestinationReceipt{receipt})
	if err != nil {
		return err
	}
	if !unbundling.Matches(dst, bundle) {
		return fmt.Errorf("%w: tx %s", ErrBundleMismatch, receipt.TxHash.Hex())
	}
	return nil
}
