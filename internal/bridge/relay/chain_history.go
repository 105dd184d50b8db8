package relay

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/oracle"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/policy"
	"go.uber.org/zap"
)

var (
	_ oracle.Sink[common.Address] = (*PersistentChainHistory)(nil)
	_ oracle.Sink[common.Address] = (*NonPersistentChainHistory)(nil)
)

// PersistentChainHistory is the source oracle sink. It bundles every published
// result set, stores it and hands the stored bundles to QA.
type PersistentChainHistory struct {
	store    DataStore
	queue    *bundleQueue
	bundling *policy.SourceBundlingPolicy
	start    model.ChainLink
	logger   *zap.Logger
}

// NewPersistentChainHistory builds the sink. start is the history head used
// while the DataStore holds no finalized source block.
func NewPersistentChainHistory(store DataStore, queue *bundleQueue, bundling *policy.SourceBundlingPolicy, start model.ChainLink, logger *zap.Logger) (*PersistentChainHistory, error) {
	if store == nil {
		return nil, errors.New("data store is required")
	}
	if queue == nil {
		return nil, errors.New("bundle queue is required")
	}
	if bundling == nil {
		return nil, errors.New("bundling policy is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersistentChainHistory{
		store:    store,
		queue:    queue,
		bundling: bundling,
		start:    start,
		logger:   logger.Named("chain_history"),
	}, nil
}

func (h *PersistentChainHistory) LatestBlock(ctx context.Context) (model.ChainLink, error) {
	link, found, err := h.store.SourceFinalizedBlock(ctx)
	if err != nil {
		return model.ChainLink{}, fmt.Errorf("%w: source finalized block: %w", ErrPersistence, err)
	}
	if !found {
		return h.start, nil
	}
	return link, nil
}

func (h *PersistentChainHistory) Reorganize(_ context.Context, historyHead model.ChainLink, chainHead uint64, actual *model.Block) error {
	return reorganization(h.logger, historyHead, chainHead, actual)
}

func (h *PersistentChainHistory) Publish(ctx context.Context, rs *oracle.ResultSet[common.Address]) error {
	if !rs.IsSealed() {
		return fmt.Errorf("%w: result set is not sealed", oracle.ErrIntegrity)
	}
	blocks := rs.Blocks()

	finalized, found, err := h.store.SourceFinalizedBlock(ctx)
	if err != nil {
		return fmt.Errorf("%w: source finalized block: %w", ErrPersistence, err)
	}
	if found && blocks[0].Block.ParentHash != finalized.Hash {
		h.logger.Error("break in source chain",
			zap.Stringer("finalized", finalized),
			zap.Stringer("next", blocks[0].Block.Link()))
		return fmt.Errorf("%w: block %s does not extend finalized %s", oracle.ErrIntegrity, blocks[0].Block.Link(), finalized)
	}

	var (
		bundles []model.Bundle
		senders = make(map[common.Hash]common.Address)
	)
	for _, b := range rs.FilledBlocks() {
		produced, err := h.bundling.FromFilteredBlock(b.Block, b.Receipts)
		if err != nil {
			return fmt.Errorf("bundle block %s: %w", b.Block.Link(), err)
		}
		bundles = append(bundles, produced...)
		for tx, from := range policy.SourceAddressIndex(b.Receipts) {
			if _, dup := senders[tx]; dup {
				return fmt.Errorf("%w: transaction %s reported twice", oracle.ErrIntegrity, tx.Hex())
			}
			senders[tx] = from
		}
	}
	slices.SortStableFunc(bundles, model.Bundle.Compare)

	lastID, _, err := h.store.SourceFinalizedBundleID(ctx)
	if err != nil {
		return fmt.Errorf("%w: source finalized bundle id: %w", ErrPersistence, err)
	}
	persistent := make([]model.PersistentBundle, len(bundles))
	for i, b := range bundles {
		persistent[i] = model.PersistentBundle{BundleID: lastID + uint64(i) + 1, Bundle: b}
	}

	head := rs.Head()
	if len(persistent) == 0 {
		err = h.store.StoreSourceChainHistory(ctx, head)
	} else {
		err = h.store.StoreSourceFinalizedBundles(ctx, persistent, head, senders)
	}
	if err != nil {
		return fmt.Errorf("%w: store source history at %s: %w", ErrPersistence, head, err)
	}
	if len(persistent) > 0 {
		h.logger.Info("bundles stored",
			zap.Int("bundles", len(persistent)),
			zap.Uint64("first_bundle_id", persistent[0].BundleID),
			zap.Stringer("head", head))
	}

	for _, pb := range persistent {
		sb := model.NewStatefulBundle(pb)
		if err := sb.SetStored(); err != nil {
			return err
		}
		if err := h.queue.Offer(ctx, sb); err != nil {
			return err
		}
	}
	return nil
}

// NonPersistentChainHistory keeps the history head in memory and drops results.
type NonPersistentChainHistory struct {
	head   model.ChainLink
	logger *zap.Logger
}

func NewNonPersistentChainHistory(start model.ChainLink, logger *zap.Logger) *NonPersistentChainHistory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NonPersistentChainHistory{head: start, logger: logger.Named("chain_history")}
}

func (h *NonPersistentChainHistory) LatestBlock(context.Context) (model.ChainLink, error) {
	return h.head, nil
}

func (h *NonPersistentChainHistory) Publish(_ context.Context, rs *oracle.ResultSet[common.Address]) error {
	if !rs.IsSealed() {
		return fmt.Errorf("%w: result set is not sealed", oracle.ErrIntegrity)
	}
	h.head = rs.Head()
	h.logger.Debug("history advanced", zap.Stringer("head", h.head), zap.Int("filled_blocks", len(rs.FilledBlocks())))
	return nil
}

func (h *NonPersistentChainHistory) Reorganize(_ context.Context, historyHead model.ChainLink, chainHead uint64, actual *model.Block) error {
	return reorganization(h.logger, historyHead, chainHead, actual)
}

// reorganization is fatal: finalized history never moves backwards.
func reorganization(logger *zap.Logger, historyHead model.ChainLink, chainHead uint64, actual *model.Block) error {
	fields := []zap.Field{zap.Stringer("history_head", historyHead), zap.Uint64("chain_head", chainHead)}
	if actual != nil {
		fields = append(fields, zap.Stringer("found", actual.Link()))
	}
	logger.Error("reorganization of finalized blocks", fields...)
	return fmt.Errorf("%w: history head %s, chain head %d", oracle.ErrReorganization, historyHead, chainHead)
}
