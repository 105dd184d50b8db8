package mysql

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/oracle"
)

const (
	tableSourceFinalizedBundle            = "source_finalized_bundle"
	tableSourceTransfer                   = "source_transfer"
	tableDestinationFinalizedBundle       = "destination_finalized_bundle"
	tableStatusSourceFinalizedBlock       = "status_source_finalized_block"
	tableStatusSourceFinalizedBundle      = "status_source_finalized_bundle"
	tableStatusDestinationFinalizedBlock  = "status_destination_finalized_block"
	tableStatusDestinationFinalizedBundle = "status_destination_finalized_bundle"
	tableStatusDestinationLatestBlock     = "status_destination_latest_block"
	tableStatusDestinationBalance         = "status_destination_balance"

	// integrityKeeper is the only key a singleton status table may hold.
	integrityKeeper = "status"
)

type sourceBundleRow struct {
	BundleID           uint64 `gorm:"primaryKey;autoIncrement:false"`
	BundleHash         string
	SourceBlockNumber  uint64
	SourceBlockHash    string
	IndexInSourceBlock uint32
	Transfers          string
}

func (sourceBundleRow) TableName() string { return tableSourceFinalizedBundle }

type sourceTransferRow struct {
	SourceTxHash  string `gorm:"primaryKey"`
	BundleID      uint64
	BundleHash    string
	SourceAddress string
	Recipient     string
	Amount        string
}

func (sourceTransferRow) TableName() string { return tableSourceTransfer }

type destinationBundleRow struct {
	BundleID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	BundleHash  string
	TxHash      string
	BlockNumber uint64
	BlockHash   string
}

func (destinationBundleRow) TableName() string { return tableDestinationFinalizedBundle }

type statusBlockRow struct {
	IntegrityKeeper string `gorm:"primaryKey"`
	BlockNumber     uint64
	BlockHash       string
}

type statusBundleRow struct {
	IntegrityKeeper string `gorm:"primaryKey"`
	BundleID        uint64
	BundleHash      string
}

type statusLatestBlockRow struct {
	IntegrityKeeper string `gorm:"primaryKey"`
	BlockNumber     uint64
}

type balanceRow struct {
	Entity      string `gorm:"primaryKey"`
	Balance     string
	BlockNumber uint64
}

func newSourceBundleRow(b model.PersistentBundle) (sourceBundleRow, error) {
	transfers, err := json.Marshal(b.Transfers)
	if err != nil {
		return sourceBundleRow{}, fmt.Errorf("encode transfers of bundle %d: %w", b.BundleID, err)
	}
	return sourceBundleRow{
		BundleID:           b.BundleID,
		BundleHash:         b.Hash.Hex(),
		SourceBlockNumber:  b.SourceBlockNumber,
		SourceBlockHash:    b.SourceBlockHash.Hex(),
		IndexInSourceBlock: b.IndexInSourceBlock,
		Transfers:          string(transfers),
	}, nil
}

// persistentBundle rebuilds the bundle and checks it still hashes to the stored value.
func (r sourceBundleRow) persistentBundle() (model.PersistentBundle, error) {
	blockHash, err := parseHash(r.SourceBlockHash)
	if err != nil {
		return model.PersistentBundle{}, fmt.Errorf("bundle %d source block hash: %w", r.BundleID, err)
	}
	storedHash, err := parseHash(r.BundleHash)
	if err != nil {
		return model.PersistentBundle{}, fmt.Errorf("bundle %d hash: %w", r.BundleID, err)
	}
	var transfers []model.Transfer
	if err := json.Unmarshal([]byte(r.Transfers), &transfers); err != nil {
		return model.PersistentBundle{}, fmt.Errorf("decode transfers of bundle %d: %w", r.BundleID, err)
	}

	b := model.NewBundle(r.SourceBlockNumber, blockHash, r.IndexInSourceBlock, transfers)
	if b.Hash != storedHash {
		return model.PersistentBundle{}, fmt.Errorf("%w: bundle %d hashes to %s, stored %s",
			oracle.ErrIntegrity, r.BundleID, b.Hash.Hex(), r.BundleHash)
	}
	return model.PersistentBundle{BundleID: r.BundleID, Bundle: b}, nil
}

func newSourceTransferRows(b model.PersistentBundle, senders map[common.Hash]common.Address) ([]sourceTransferRow, error) {
	rows := make([]sourceTransferRow, 0, len(b.Transfers))
	for _, t := range b.Transfers {
		sender, ok := senders[t.SourceTxHash()]
		if !ok {
			return nil, fmt.Errorf("sender of transaction %s is unknown", t.SourceTxHash().Hex())
		}
		rows = append(rows, sourceTransferRow{
			SourceTxHash:  t.SourceTxHash().Hex(),
			BundleID:      b.BundleID,
			BundleHash:    b.Hash.Hex(),
			SourceAddress: sender.Hex(),
			Recipient:     t.Recipient().Hex(),
			Amount:        t.Amount().String(),
		})
	}
	return rows, nil
}

func newDestinationBundleRow(b model.FinalizedBundle) destinationBundleRow {
	return destinationBundleRow{
		BundleID:    b.BundleID,
		BundleHash:  b.BundleHash.Hex(),
		TxHash:      b.TxHash.Hex(),
		BlockNumber: b.BlockNumber,
		BlockHash:   b.BlockHash.Hex(),
	}
}

func (r statusBlockRow) link() (model.ChainLink, error) {
	h, err := parseHash(r.BlockHash)
	if err != nil {
		return model.ChainLink{}, fmt.Errorf("status block hash: %w", err)
	}
	return model.ChainLink{Number: r.BlockNumber, Hash: h}, nil
}

func parseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, err
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("hash %q is %d bytes", s, len(b))
	}
	return common.BytesToHash(b), nil
}

func formatBalance(v *big.Int) (string, error) {
	if v == nil || v.Sign() < 0 {
		return "", fmt.Errorf("balance %v must be non-negative", v)
	}
	return v.String(), nil
}
