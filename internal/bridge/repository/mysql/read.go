package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/oracle"
	"gorm.io/gorm"
)

// BundleRangeClosed returns the source bundles with ids in [start, end], ordered by id.
func (r *Repository) BundleRangeClosed(ctx context.Context, start, end uint64) (bundles []model.PersistentBundle, err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("bundle_range_closed", err, started)
	}()

	if start > end {
		return nil, fmt.Errorf("bundle range [%d, %d] is empty", start, end)
	}

	var rows []sourceBundleRow
	if err = r.db.WithContext(ctx).
		Where("bundle_id BETWEEN ? AND ?", start, end).
		Order("bundle_id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query bundles [%d, %d]: %w", start, end, err)
	}

	bundles = make([]model.PersistentBundle, 0, len(rows))
	for _, row := range rows {
		b, err := row.persistentBundle()
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

func (r *Repository) SourceFinalizedBundleID(ctx context.Context) (uint64, bool, error) {
	return r.bundleID(ctx, "source_finalized_bundle_id", tableStatusSourceFinalizedBundle)
}

func (r *Repository) DestinationFinalizedBundleID(ctx context.Context) (uint64, bool, error) {
	return r.bundleID(ctx, "destination_finalized_bundle_id", tableStatusDestinationFinalizedBundle)
}

func (r *Repository) SourceFinalizedBlock(ctx context.Context) (model.ChainLink, bool, error) {
	return r.finalizedBlock(ctx, "source_finalized_block", tableStatusSourceFinalizedBlock)
}

func (r *Repository) DestinationFinalizedBlock(ctx context.Context) (model.ChainLink, bool, error) {
	return r.finalizedBlock(ctx, "destination_finalized_block", tableStatusDestinationFinalizedBlock)
}

// LatestBlock returns the last destination tip written by StoreLatestBlock.
func (r *Repository) LatestBlock(ctx context.Context) (number uint64, found bool, err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("latest_block", err, started)
	}()

	row, found, err := readStatus[statusLatestBlockRow](r.db.WithContext(ctx), tableStatusDestinationLatestBlock)
	return row.BlockNumber, found, err
}

func (r *Repository) bundleID(ctx context.Context, operation, table string) (id uint64, found bool, err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe(operation, err, started)
	}()

	row, found, err := readStatus[statusBundleRow](r.db.WithContext(ctx), table)
	return row.BundleID, found, err
}

func (r *Repository) finalizedBlock(ctx context.Context, operation, table string) (link model.ChainLink, found bool, err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe(operation, err, started)
	}()

	row, found, err := readStatus[statusBlockRow](r.db.WithContext(ctx), table)
	if err != nil || !found {
		return model.ChainLink{}, found, err
	}
	link, err = row.link()
	if err != nil {
		return model.ChainLink{}, false, fmt.Errorf("%s: %w", table, err)
	}
	return link, true, nil
}

// readStatus reads a singleton status table. More than one row breaks the
// table's invariant and is reported as an integrity failure.
func readStatus[T any](db *gorm.DB, table string) (T, bool, error) {
	var zero T
	var rows []T
	if err := db.Table(table).Limit(2).Find(&rows).Error; err != nil {
		return zero, false, fmt.Errorf("query %s: %w", table, err)
	}
	switch len(rows) {
	case 0:
		return zero, false, nil
	case 1:
		return rows[0], true, nil
	default:
		return zero, false, fmt.Errorf("%w: %s holds more than one row", oracle.ErrIntegrity, table)
	}
}
