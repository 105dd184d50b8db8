package mysql

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreSourceFinalizedBundles stores bundles with their transfers and moves
// the source status to the last bundle and tip in one transaction.
func (r *Repository) StoreSourceFinalizedBundles(ctx context.Context, bundles []model.PersistentBundle, tip model.ChainLink, senders map[common.Hash]common.Address) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("store_source_finalized_bundles", err, started)
	}()

	if len(bundles) == 0 {
		return errors.New("no bundles to store")
	}

	bundleRows := make([]sourceBundleRow, 0, len(bundles))
	var transferRows []sourceTransferRow
	for _, b := range bundles {
		row, err := newSourceBundleRow(b)
		if err != nil {
			return err
		}
		bundleRows = append(bundleRows, row)

		rows, err := newSourceTransferRows(b, senders)
		if err != nil {
			return fmt.Errorf("bundle %d: %w", b.BundleID, err)
		}
		transferRows = append(transferRows, rows...)
	}
	last := bundles[len(bundles)-1]

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(bundleRows, defaultInsertBatchSize).Error; err != nil {
			return fmt.Errorf("insert source bundles: %w", err)
		}
		if len(transferRows) > 0 {
			if err := tx.CreateInBatches(transferRows, defaultInsertBatchSize).Error; err != nil {
				return fmt.Errorf("insert source transfers: %w", err)
			}
		}
		if err := upsertStatus(tx, tableStatusSourceFinalizedBundle, &statusBundleRow{
			IntegrityKeeper: integrityKeeper,
			BundleID:        last.BundleID,
			BundleHash:      last.Hash.Hex(),
		}); err != nil {
			return err
		}
		return upsertStatus(tx, tableStatusSourceFinalizedBlock, newStatusBlockRow(tip))
	})
}

// StoreSourceChainHistory moves the source finalized block without new bundles.
func (r *Repository) StoreSourceChainHistory(ctx context.Context, tip model.ChainLink) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("store_source_chain_history", err, started)
	}()

	return upsertStatus(r.db.WithContext(ctx), tableStatusSourceFinalizedBlock, newStatusBlockRow(tip))
}

// StoreDestinationFinalizedBundles records where bundles became final and
// moves the destination status to the last of them.
func (r *Repository) StoreDestinationFinalizedBundles(ctx context.Context, bundles []model.FinalizedBundle, tip model.ChainLink) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("store_destination_finalized_bundles", err, started)
	}()

	if len(bundles) == 0 {
		return errors.New("no bundles to store")
	}
	rows := make([]destinationBundleRow, 0, len(bundles))
	for _, b := range bundles {
		rows = append(rows, newDestinationBundleRow(b))
	}
	last := bundles[len(bundles)-1]

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(rows, defaultInsertBatchSize).Error; err != nil {
			return fmt.Errorf("insert destination bundles: %w", err)
		}
		if err := upsertStatus(tx, tableStatusDestinationFinalizedBundle, &statusBundleRow{
			IntegrityKeeper: integrityKeeper,
			BundleID:        last.BundleID,
			BundleHash:      last.BundleHash.Hex(),
		}); err != nil {
			return err
		}
		return upsertStatus(tx, tableStatusDestinationFinalizedBlock, newStatusBlockRow(tip))
	})
}

func (r *Repository) StoreDestinationChainHistory(ctx context.Context, tip model.ChainLink) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("store_destination_chain_history", err, started)
	}()

	return upsertStatus(r.db.WithContext(ctx), tableStatusDestinationFinalizedBlock, newStatusBlockRow(tip))
}

func (r *Repository) StoreLatestBlock(ctx context.Context, number uint64) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("store_latest_block", err, started)
	}()

	return upsertStatus(r.db.WithContext(ctx), tableStatusDestinationLatestBlock, &statusLatestBlockRow{
		IntegrityKeeper: integrityKeeper,
		BlockNumber:     number,
	})
}

// StoreEntityBalance keeps one balance row per entity ("bridge", "relayer").
func (r *Repository) StoreEntityBalance(ctx context.Context, entity string, balance *big.Int, blockNumber uint64) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("store_entity_balance", err, started)
	}()

	if entity == "" {
		return errors.New("entity is required")
	}
	value, err := formatBalance(balance)
	if err != nil {
		return err
	}
	return upsertStatus(r.db.WithContext(ctx), tableStatusDestinationBalance, &balanceRow{
		Entity:      entity,
		Balance:     value,
		BlockNumber: blockNumber,
	})
}

func newStatusBlockRow(link model.ChainLink) *statusBlockRow {
	return &statusBlockRow{
		IntegrityKeeper: integrityKeeper,
		BlockNumber:     link.Number,
		BlockHash:       link.Hash.Hex(),
	}
}

func upsertStatus(db *gorm.DB, table string, row any) error {
	if err := db.Table(table).Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}
