package clickhouse

import (
	"context"
	"fmt"
	"math/big"
	"time"
)

// TransferRow is one finalized transfer as the ledger stores it.
type TransferRow struct {
	BundleID               uint64
	BundleHash             string
	SourceBlockNumber      uint64
	SourceTxHash           string
	Recipient              string
	Amount                 *big.Int
	DestinationTxHash      string
	DestinationBlockNumber uint64
	DestinationBlockHash   string
	FinalizedAt            time.Time
}

var _ TransferWriter = (*Repository)(nil)

// InsertTransfers appends ledger rows. Rows are deduplicated by
// (bundle_id, source_tx_hash) when ClickHouse merges parts.
func (r *Repository) InsertTransfers(ctx context.Context, rows []TransferRow) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_transfers", err, start)
	}()

	if len(rows) == 0 {
		return nil
	}

	const query = `
INSERT INTO bridge_finalized_transfers (
	bundle_id,
	bundle_hash,
	source_block_number,
	source_tx_hash,
	recipient,
	amount,
	destination_tx_hash,
	destination_block_number,
	destination_block_hash,
	finalized_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare transfers batch: %w", err)
	}

	for _, row := range rows {
		if err = batch.Append(
			row.BundleID,
			row.BundleHash,
			row.SourceBlockNumber,
			row.SourceTxHash,
			row.Recipient,
			row.Amount,
			row.DestinationTxHash,
			row.DestinationBlockNumber,
			row.DestinationBlockHash,
			row.FinalizedAt,
		); err != nil {
			return fmt.Errorf("append transfer: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transfers: %w", err)
	}
	return nil
}

// TransfersByBundle returns the ledger rows of one bundle ordered by source transaction.
func (r *Repository) TransfersByBundle(ctx context.Context, bundleID uint64) (out []TransferRow, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("transfers_by_bundle", err, start)
	}()

	const query = `
SELECT
	bundle_id,
	bundle_hash,
	source_block_number,
	source_tx_hash,
	recipient,
	amount,
	destination_tx_hash,
	destination_block_number,
	destination_block_hash,
	finalized_at
FROM bridge_finalized_transfers FINAL
WHERE bundle_id = ?
ORDER BY source_tx_hash`

	rows, err := r.conn.Query(ctx, query, bundleID)
	if err != nil {
		return nil, fmt.Errorf("query transfers of bundle %d: %w", bundleID, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		row := TransferRow{Amount: new(big.Int)}
		if err = rows.Scan(
			&row.BundleID,
			&row.BundleHash,
			&row.SourceBlockNumber,
			&row.SourceTxHash,
			&row.Recipient,
			row.Amount,
			&row.DestinationTxHash,
			&row.DestinationBlockNumber,
			&row.DestinationBlockHash,
			&row.FinalizedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfers: %w", err)
	}
	return out, nil
}
