package signatory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/bridge-relay/internal/bridge/chain"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/oracle"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/policy"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const DefaultValidationCacheSize = 4096

type ValidatorConfig struct {
	Source    SourceChain
	Bundling  *policy.SourceBundlingPolicy
	CacheSize int
	Logger    *zap.Logger
	Metrics   Metrics
}

// Validator rebuilds bundles from the source chain. Summaries that validated
// once are remembered.
type Validator struct {
	source   SourceChain
	bundling *policy.SourceBundlingPolicy
	valid    *lru.Cache[BundleSummary, struct{}]
	logger   *zap.Logger
	metrics  Metrics
}

var _ BundleValidator = (*Validator)(nil)

func NewValidator(cfg ValidatorConfig) (*Validator, error) {
	switch {
	case cfg.Source == nil:
		return nil, errors.New("source chain is required")
	case cfg.Bundling == nil:
		return nil, errors.New("bundling policy is required")
	case cfg.Metrics == nil:
		return nil, errors.New("validator metrics is required")
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultValidationCacheSize
	}
	cache, err := lru.New[BundleSummary, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("validation cache: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		source:   cfg.Source,
		bundling: cfg.Bundling,
		valid:    cache,
		logger:   logger.Named("validator"),
		metrics:  cfg.Metrics,
	}, nil
}

func (v *Validator) Validate(ctx context.Context, summary BundleSummary) (err error) {
	started := time.Now()
	if v.valid.Contains(summary) {
		v.metrics.ObserveValidation(nil, true, started)
		return nil
	}
	defer func() {
		v.metrics.ObserveValidation(err, false, started)
	}()

	bundle, err := v.rebuild(ctx, summary)
	if err != nil {
		return err
	}
	if bundle.Hash != summary.BundleHash {
		return fmt.Errorf("%w: bundle %d of block %d hashes to %s", ErrBundleInvalid,
			summary.IndexInSourceBlock, summary.SourceBlockNumber, bundle.Hash.Hex())
	}

	v.valid.Add(summary, struct{}{})
	v.logger.Debug("bundle validated",
		zap.Uint64("source_block_number", summary.SourceBlockNumber),
		zap.Uint32("index_in_block", summary.IndexInSourceBlock),
		zap.String("bundle_hash", summary.BundleHash.Hex()))
	return nil
}

func (v *Validator) rebuild(ctx context.Context, summary BundleSummary) (model.Bundle, error) {
	block, err := v.source.Block(ctx, summary.SourceBlockNumber)
	if err != nil && !errors.Is(err, chain.ErrBlockNotFound) {
		return model.Bundle{}, fmt.Errorf("source block %d: %w", summary.SourceBlockNumber, err)
	}
	if block == nil {
		return model.Bundle{}, fmt.Errorf("%w: block %d not found", ErrBundleInvalid, summary.SourceBlockNumber)
	}
	if block.Hash != summary.SourceBlockHash {
		return model.Bundle{}, fmt.Errorf("%w: block %d is %s, not %s", ErrBundleInvalid,
			block.Number, block.Hash.Hex(), summary.SourceBlockHash.Hex())
	}

	withReceipts, err := v.source.ReceiptsForBlocks(ctx, []model.Block{*block})
	if err != nil {
		return model.Bundle{}, fmt.Errorf("receipts of block %s: %w", block.Link(), err)
	}
	if len(withReceipts) != 1 || withReceipts[0].Block.Hash != block.Hash {
		return model.Bundle{}, fmt.Errorf("receipts of block %s: got %d groups", block.Link(), len(withReceipts))
	}

	bundles, err := v.bundling.FromUnfilteredBlock(*block, withReceipts[0].Receipts)
	switch {
	case errors.Is(err, oracle.ErrMissingReceipts):
		return model.Bundle{}, err
	case err != nil:
		return model.Bundle{}, fmt.Errorf("%w: %w", ErrBundleInvalid, err)
	}
	if int(summary.IndexInSourceBlock) >= len(bundles) {
		return model.Bundle{}, fmt.Errorf("%w: block %s has %d bundles, index %d requested", ErrBundleInvalid,
			block.Link(), len(bundles), summary.IndexInSourceBlock)
	}
	return bundles[summary.IndexInSourceBlock], nil
}
