package relay

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/aion"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/chain"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/clock"
	"go.uber.org/zap"
)

// BroadcastStage submits SIGNED bundles to the bridge contract and moves them from QB to QC.
type BroadcastStage struct {
	pipe
	chain    DestinationChain
	signer   TxSigner
	nonces   *NonceManager
	tip      TipReader
	contract common.Hash
	retry    Retry
	logger   *zap.Logger
	metrics  Metrics
}

type BroadcastConfig struct {
	In, Out        *bundleQueue
	NumSlotReserve int
	Chain          DestinationChain
	Signer         TxSigner
	Nonces         *NonceManager
	Tip            TipReader
	BridgeContract common.Hash
	Logger         *zap.Logger
	Metrics        Metrics
}

func NewBroadcastStage(cfg BroadcastConfig) (*BroadcastStage, error) {
	switch {
	case cfg.In == nil || cfg.Out == nil:
		return nil, errors.New("broadcast stage queues are required")
	case cfg.Chain == nil:
		return nil, errors.New("destination chain is required")
	case cfg.Signer == nil:
		return nil, errors.New("tx signer is required")
	case cfg.Nonces == nil:
		return nil, errors.New("nonce manager is required")
	case cfg.Tip == nil:
		return nil, errors.New("tip reader is required")
	case cfg.BridgeContract == (common.Hash{}):
		return nil, errors.New("bridge contract is required")
	case cfg.Metrics == nil:
		return nil, errors.New("broadcast stage metrics is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named(stageBroadcast)
	return &BroadcastStage{
		pipe:     pipe{in: cfg.In, out: cfg.Out, reserve: cfg.NumSlotReserve, delay: defaultBackpressureDelay, sleep: clock.SleepWithContext},
		chain:    cfg.Chain,
		signer:   cfg.Signer,
		nonces:   cfg.Nonces,
		tip:      cfg.Tip,
		contract: cfg.BridgeContract,
		retry:    NewRetry(defaultRetryAttempts, defaultSendRetryDelay, logger, cfg.Metrics),
		logger:   logger,
		metrics:  cfg.Metrics,
	}, nil
}

func (s *BroadcastStage) Run(ctx context.Context) error {
	for {
		b, err := s.next(ctx)
		if err != nil {
			return err
		}
		started := time.Now()
		err = s.process(ctx, b)
		s.metrics.ObserveStage(stageBroadcast, err, started)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fatal(s.logger, b, "broadcast stage failed", err)
		}
	}
}

func (s *BroadcastStage) process(ctx context.Context, b *model.StatefulBundle) error {
	if b.State() != model.StateSigned {
		return fmt.Errorf("%w: broadcast stage received a %s bundle", model.ErrInvalidTransition, b.State())
	}
	data, err := aion.EncodeSubmitBundle(b.Bundle, b.Signatures())
	if err != nil {
		return fmt.Errorf("encode submitBundle: %w", err)
	}

	// one nonce per bundle, reused by every attempt
	nonce := s.nonces.Next()
	submitted, err := Do(ctx, s.retry, "send_bundle", func(ctx context.Context) (model.SubmittedTx, error) {
		return s.send(ctx, nonce, data)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStageFatal, err)
	}
	if err := b.SetSubmitted(submitted); err != nil {
		return err
	}
	s.logger.Info("bundle submitted",
		zap.Uint64("bundle_id", b.BundleID),
		zap.Uint64("nonce", nonce),
		zap.String("tx_hash", submitted.TxHash.Hex()))
	return s.out.Offer(ctx, b)
}

func (s *BroadcastStage) send(ctx context.Context, nonce uint64, data []byte) (model.SubmittedTx, error) {
	price, err := s.gasPrice(ctx)
	if err != nil {
		return model.SubmittedTx{}, err
	}
	signed, err := s.signer.Sign(ctx, aion.Transaction{
		Nonce:       nonce,
		To:          s.contract,
		Value:       new(big.Int),
		Data:        data,
		EnergyPrice: price,
	})
	if err != nil {
		return model.SubmittedTx{}, fmt.Errorf("sign transaction: %w", err)
	}
	hash, err := s.chain.SendRawTransaction(ctx, signed.Raw)
	if err != nil {
		return model.SubmittedTx{}, fmt.Errorf("send transaction: %w", err)
	}
	tip, ok := s.tip.BlockNumber()
	if !ok {
		return model.SubmittedTx{}, errTipUnknown
	}
	return model.SubmittedTx{
		From:                   s.signer.Sender(),
		Nonce:                  nonce,
		DestinationBlockNumber: tip,
		TxHash:                 hash,
	}, nil
}

// gasPrice falls back to the default when the endpoints do not agree on a price.
func (s *BroadcastStage) gasPrice(ctx context.Context) (uint64, error) {
	price, err := s.chain.GasPrice(ctx)
	if errors.Is(err, chain.ErrQuorumNotAvailable) {
		s.logger.Debug("gas price not agreed, using default", zap.Uint64("price", defaultGasPrice))
		return defaultGasPrice, nil
	}
	if err != nil {
		return 0, fmt.Errorf("gas price: %w", err)
	}
	if !price.IsUint64() {
		return 0, fmt.Errorf("gas price %s out of range", price)
	}
	return price.Uint64(), nil
}
