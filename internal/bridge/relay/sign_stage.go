package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/clock"
	"go.uber.org/zap"
)

// SignStage moves STORED bundles from QA to QB once a signatory quorum signed them.
type SignStage struct {
	pipe
	signatories SignatoryCollector
	retry       Retry
	logger      *zap.Logger
	metrics     Metrics
}

func NewSignStage(in, out *bundleQueue, reserve int, signatories SignatoryCollector, logger *zap.Logger, metrics Metrics) (*SignStage, error) {
	if in == nil || out == nil {
		return nil, errors.New("sign stage queues are required")
	}
	if signatories == nil {
		return nil, errors.New("signatory collector is required")
	}
	if metrics == nil {
		return nil, errors.New("sign stage metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named(stageSign)
	return &SignStage{
		pipe:        pipe{in: in, out: out, reserve: reserve, delay: defaultBackpressureDelay, sleep: clock.SleepWithContext},
		signatories: signatories,
		retry:       NewRetry(defaultRetryAttempts, defaultSignRetryDelay, logger, metrics),
		logger:      logger,
		metrics:     metrics,
	}, nil
}

func (s *SignStage) Run(ctx context.Context) error {
	for {
		b, err := s.next(ctx)
		if err != nil {
			return err
		}
		started := time.Now()
		err = s.process(ctx, b)
		s.metrics.ObserveStage(stageSign, err, started)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fatal(s.logger, b, "sign stage failed", err)
		}
	}
}

func (s *SignStage) process(ctx context.Context, b *model.StatefulBundle) error {
	if b.State() != model.StateStored {
		return fmt.Errorf("%w: sign stage received a %s bundle", model.ErrInvalidTransition, b.State())
	}

	signatures, err := Do(ctx, s.retry, "sign_bundle", func(ctx context.Context) ([]model.Signature, error) {
		signatures, err := s.signatories.Sign(ctx, b.Bundle)
		if err != nil {
			return nil, err
		}
		if err := ValidateSignatures(signatures, b.Hash); err != nil {
			return nil, err
		}
		return signatures, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStageFatal, err)
	}
	if err := b.SetSigned(signatures); err != nil {
		return err
	}
	s.logger.Debug("bundle signed", zap.Uint64("bundle_id", b.BundleID), zap.Int("signatures", len(signatures)))
	return s.out.Offer(ctx, b)
}

// ValidateSignatures rejects empty sets, repeated signers and signatures that
// do not verify against the bundle hash.
func ValidateSignatures(signatures []model.Signature, bundleHash common.Hash) error {
	if len(signatures) == 0 {
		return fmt.Errorf("%w: no signatures", ErrInvalidSignatureSet)
	}
	seen := make(map[common.Hash]struct{}, len(signatures))
	for _, sig := range signatures {
		if sig.IsZero() {
			return fmt.Errorf("%w: zero signature", ErrInvalidSignatureSet)
		}
		if _, ok := seen[sig.PublicKey]; ok {
			return fmt.Errorf("%w: duplicate signer %s", ErrInvalidSignatureSet, sig.PublicKey.Hex())
		}
		seen[sig.PublicKey] = struct{}{}
		if !sig.Verify(bundleHash.Bytes()) {
			return fmt.Errorf("%w: signature by %s does not verify", ErrInvalidSignatureSet, sig.PublicKey.Hex())
		}
	}
	return nil
}
