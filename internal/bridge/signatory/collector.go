package signatory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/bridge-relay/internal/bridge/chain"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/relay"
	"go.uber.org/zap"
)

type CollectorConfig struct {
	Signers []BundleSigner
	Quorum  int
	Timeout time.Duration
	Logger  *zap.Logger
	Metrics chain.Metrics
}

// Collector asks every signatory for a signature and returns once a quorum
// answered with signatures that verify.
type Collector struct {
	quorum *chain.Quorum[BundleSigner]
	logger *zap.Logger
}

var _ relay.SignatoryCollector = (*Collector)(nil)

func NewCollector(cfg CollectorConfig) (*Collector, error) {
	if len(cfg.Signers) == 0 {
		return nil, errors.New("at least one signatory is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	q, err := chain.NewQuorum(chain.QuorumConfig[BundleSigner]{
		Name:        "signatory",
		Connections: cfg.Signers,
		Quorum:      cfg.Quorum,
		Timeout:     cfg.Timeout,
		Logger:      logger,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("signatory quorum: %w", err)
	}
	return &Collector{quorum: q, logger: logger.Named("signatory_collector")}, nil
}

func (c *Collector) Sign(ctx context.Context, bundle model.Bundle) ([]model.Signature, error) {
	summary := SummaryOf(bundle)
	signatures, err := chain.Collect(ctx, c.quorum, "sign_bundle", func(ctx context.Context, s BundleSigner) (model.Signature, error) {
		sig, err := s.SignBundle(ctx, summary)
		if err != nil {
			return model.Signature{}, err
		}
		if !sig.Verify(bundle.Hash.Bytes()) {
			c.logger.Warn("discarding signature",
				zap.String("bundle_hash", bundle.Hash.Hex()),
				zap.String("public_key", sig.PublicKey.Hex()))
			return model.Signature{}, fmt.Errorf("%w: key %s", ErrSignatureInvalid, sig.PublicKey.Hex())
		}
		return sig, nil
	}, true)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("signatures collected",
		zap.String("bundle_hash", bundle.Hash.Hex()),
		zap.Int("signatures", len(signatures)),
		zap.Int("signatories", c.quorum.Size()))
	return signatures, nil
}
