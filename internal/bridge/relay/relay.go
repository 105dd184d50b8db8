// Package relay moves bundles from the source chain history through signing,
// submission and finalization on the destination chain.
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/oracle"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/policy"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// QueueSizes are the capacities of QA..QD. Zero takes the default.
type QueueSizes struct {
	Stored    int
	Signed    int
	Submitted int
	Sealed    int
}

// SourceConfig describes how the source chain is scanned.
type SourceConfig struct {
	Connection       oracle.Connection[common.Address]
	Bundling         *policy.SourceBundlingPolicy
	StartBlock       model.ChainLink
	TipDistance      uint64
	BlockBatchSize   uint64
	ReceiptBatchSize int
	Metrics          oracle.Metrics
	Hooks            oracle.Hooks
}

// DestinationConfig describes the destination chain side of the pipeline.
type DestinationConfig struct {
	Chain                  DestinationChain
	Tip                    TipSource
	BridgeContract         common.Hash
	Unbundling             *policy.DestinationUnbundlingPolicy
	SuccessfulTxHashFilter model.EventFilter[common.Hash]
	MinDepth               uint64
	FinalizationDepth      uint64
}

type Config struct {
	Store       DataStore
	Source      SourceConfig
	Destination DestinationConfig
	Signatories SignatoryCollector
	TxSigner    TxSigner
	Observers   []FinalizedObserver

	QueueSizes      QueueSizes
	NumSlotReserve  int
	ShutdownTimeout time.Duration

	Logger  *zap.Logger
	Metrics Metrics
}

type worker interface {
	Run(ctx context.Context) error
}

// Relay owns the queues and runs every worker of one relay instance.
type Relay struct {
	cfg    Config
	logger *zap.Logger

	stored    *bundleQueue
	signed    *bundleQueue
	submitted *bundleQueue
	sealed    *bundleQueue

	tip     *TipState
	history *PersistentChainHistory
	oracle  *oracle.Oracle[common.Address]

	shutdownTimeout time.Duration
}

func NewRelay(cfg Config) (*Relay, error) {
	switch {
	case cfg.Store == nil:
		return nil, errors.New("data store is required")
	case cfg.Source.Connection == nil:
		return nil, errors.New("source connection is required")
	case cfg.Source.Bundling == nil:
		return nil, errors.New("bundling policy is required")
	case cfg.Source.Metrics == nil:
		return nil, errors.New("source oracle metrics is required")
	case cfg.Destination.Chain == nil:
		return nil, errors.New("destination chain is required")
	case cfg.Destination.Tip == nil:
		return nil, errors.New("destination tip source is required")
	case cfg.Destination.Unbundling == nil:
		return nil, errors.New("unbundling policy is required")
	case cfg.Destination.BridgeContract == (common.Hash{}):
		return nil, errors.New("bridge contract is required")
	case cfg.Signatories == nil:
		return nil, errors.New("signatory collector is required")
	case cfg.TxSigner == nil:
		return nil, errors.New("tx signer is required")
	case cfg.Metrics == nil:
		return nil, errors.New("relay metrics is required")
	case cfg.NumSlotReserve < 0:
		return nil, fmt.Errorf("num slot reserve must not be negative, got %d", cfg.NumSlotReserve)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.NumSlotReserve == 0 {
		cfg.NumSlotReserve = DefaultNumSlotReserve
	}

	r := &Relay{
		cfg:             cfg,
		logger:          cfg.Logger.Named("relay"),
		stored:          NewQueue[*model.StatefulBundle]("qa_stored", orDefault(cfg.QueueSizes.Stored, DefaultQueueA)),
		signed:          NewQueue[*model.StatefulBundle]("qb_signed", orDefault(cfg.QueueSizes.Signed, DefaultQueueB)),
		submitted:       NewQueue[*model.StatefulBundle]("qc_submitted", orDefault(cfg.QueueSizes.Submitted, DefaultQueueC)),
		sealed:          NewQueue[*model.StatefulBundle]("qd_sealed", orDefault(cfg.QueueSizes.Sealed, DefaultQueueD)),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if r.shutdownTimeout <= 0 {
		r.shutdownTimeout = defaultShutdownTimeout
	}

	var err error
	if r.tip, err = NewTipState(cfg.Destination.Tip, cfg.Store, cfg.Logger, cfg.Metrics); err != nil {
		return nil, err
	}
	if r.history, err = NewPersistentChainHistory(cfg.Store, r.stored, cfg.Source.Bundling, cfg.Source.StartBlock, cfg.Logger); err != nil {
		return nil, err
	}
	r.oracle, err = oracle.New(oracle.Config[common.Address]{
		Name:             "source",
		Connection:       cfg.Source.Connection,
		EventFilter:      cfg.Source.Bundling.Filter(),
		Sink:             r.history,
		TipDistance:      cfg.Source.TipDistance,
		BlockBatchSize:   cfg.Source.BlockBatchSize,
		ReceiptBatchSize: cfg.Source.ReceiptBatchSize,
		Logger:           cfg.Logger,
		Metrics:          cfg.Source.Metrics,
		Hooks:            cfg.Source.Hooks,
	})
	if err != nil {
		return nil, fmt.Errorf("source oracle: %w", err)
	}
	return r, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Tip exposes the destination tip snapshot.
func (r *Relay) Tip() TipReader { return r.tip }

// InitializeQueues re-queues the bundles that were stored on the source side
// but not yet finalized on the destination side.
func (r *Relay) InitializeQueues(ctx context.Context) (int, error) {
	sourceID, found, err := r.cfg.Store.SourceFinalizedBundleID(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: source finalized bundle id: %w", ErrPersistence, err)
	}
	if !found {
		return 0, nil
	}
	destinationID, _, err := r.cfg.Store.DestinationFinalizedBundleID(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: destination finalized bundle id: %w", ErrPersistence, err)
	}
	if destinationID >= sourceID {
		return 0, nil
	}

	bundles, err := r.cfg.Store.BundleRangeClosed(ctx, destinationID+1, sourceID)
	if err != nil {
		return 0, fmt.Errorf("%w: bundles (%d, %d]: %w", ErrPersistence, destinationID, sourceID, err)
	}
	if want := sourceID - destinationID; uint64(len(bundles)) != want {
		return 0, fmt.Errorf("%w: expected %d bundles in (%d, %d], got %d", oracle.ErrIntegrity, want, destinationID, sourceID, len(bundles))
	}
	if len(bundles) > r.stored.Free() {
		return 0, fmt.Errorf("%d pending bundles exceed the stored queue capacity %d", len(bundles), r.stored.Cap())
	}
	for i, b := range bundles {
		if b.BundleID != destinationID+uint64(i)+1 {
			return 0, fmt.Errorf("%w: bundle %d out of order", oracle.ErrIntegrity, b.BundleID)
		}
		if err := r.stored.Offer(ctx, model.NewStoredBundle(b)); err != nil {
			return 0, err
		}
	}
	r.logger.Info("queues initialized",
		zap.Int("bundles", len(bundles)),
		zap.Uint64("from_bundle_id", destinationID+1),
		zap.Uint64("to_bundle_id", sourceID))
	return len(bundles), nil
}

// workers builds every long running worker. The nonce manager needs the chain,
// so this happens at Run time.
func (r *Relay) workers(ctx context.Context) ([]worker, error) {
	cfg := r.cfg
	dst := cfg.Destination

	nonces, err := NewNonceManager(ctx, dst.Chain, cfg.TxSigner.Sender())
	if err != nil {
		return nil, err
	}
	balances, err := NewBalanceState(dst.Chain, r.tip, cfg.Store, dst.BridgeContract, cfg.TxSigner.Sender(), cfg.Logger, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	sign, err := NewSignStage(r.stored, r.signed, cfg.NumSlotReserve, cfg.Signatories, cfg.Logger, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	broadcast, err := NewBroadcastStage(BroadcastConfig{
		In:             r.signed,
		Out:            r.submitted,
		NumSlotReserve: cfg.NumSlotReserve,
		Chain:          dst.Chain,
		Signer:         cfg.TxSigner,
		Nonces:         nonces,
		Tip:            r.tip,
		BridgeContract: dst.BridgeContract,
		Logger:         cfg.Logger,
		Metrics:        cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	collect, err := NewCollectStage(CollectConfig{
		In:                     r.submitted,
		Out:                    r.sealed,
		Chain:                  dst.Chain,
		Tip:                    r.tip,
		Unbundling:             dst.Unbundling,
		SuccessfulTxHashFilter: dst.SuccessfulTxHashFilter,
		MinDepth:               dst.MinDepth,
		Logger:                 cfg.Logger,
		Metrics:                cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	finalize, err := NewFinalizeStage(FinalizeConfig{
		In:                r.sealed,
		Chain:             dst.Chain,
		Tip:               r.tip,
		Store:             cfg.Store,
		Unbundling:        dst.Unbundling,
		Observers:         cfg.Observers,
		FinalizationDepth: dst.FinalizationDepth,
		Logger:            cfg.Logger,
		Metrics:           cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	queues := &queueLogger{
		queues:   []*bundleQueue{r.stored, r.signed, r.submitted, r.sealed},
		interval: defaultQueueLogPeriod,
		logger:   r.logger,
		metrics:  cfg.Metrics,
	}
	return []worker{r.tip, balances, r.oracle, sign, broadcast, collect, finalize, queues}, nil
}

// Run initializes the queues and runs every worker until ctx is done or one
// of them fails. The first failure cancels all others.
func (r *Relay) Run(ctx context.Context) error {
	if _, err := r.InitializeQueues(ctx); err != nil {
		return fmt.Errorf("initialize queues: %w", err)
	}
	workers, err := r.workers(ctx)
	if err != nil {
		return fmt.Errorf("build workers: %w", err)
	}
	return r.run(ctx, workers)
}

func (r *Relay) run(ctx context.Context, workers []worker) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-gctx.Done():
		timer := time.NewTimer(r.shutdownTimeout)
		defer timer.Stop()
		select {
		case err = <-done:
		case <-timer.C:
			r.logger.Error("workers did not stop in time", zap.Duration("timeout", r.shutdownTimeout))
			err = multierr.Append(context.Cause(gctx), ErrShutdownTimeout)
		}
	}

	if ctx.Err() != nil && errors.Is(err, context.Canceled) && !errors.Is(err, ErrShutdownTimeout) {
		r.logger.Info("relay stopped")
		return nil
	}
	if err != nil {
		r.logger.Error("relay failed", zap.Error(err))
	}
	return err
}
