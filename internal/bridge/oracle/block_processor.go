package oracle

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
)

// BlockProcessor narrows blocks and receipts down to the logs an event filter selects.
type BlockProcessor[A model.Address] struct {
	filter model.EventFilter[A]
}

func NewBlockProcessor[A model.Address](filter model.EventFilter[A]) *BlockProcessor[A] {
	return &BlockProcessor[A]{filter: filter}
}

func (p *BlockProcessor[A]) Filter() model.EventFilter[A] { return p.filter }

// FilterBlock reports whether the block bloom may contain a matching log.
func (p *BlockProcessor[A]) FilterBlock(block model.Block) bool {
	return p.filter.Matches(block.LogsBloom)
}

// FilterReceipts checks that receipts are exactly the block's transactions and
// returns the receipts that carry matching logs, with every other log removed.
func (p *BlockProcessor[A]) FilterReceipts(block model.Block, receipts []model.Receipt[A]) ([]model.Receipt[A], error) {
	requested := make(map[common.Hash]struct{}, len(block.Transactions))
	for _, tx := range block.Transactions {
		requested[tx] = struct{}{}
	}

	var filtered []model.Receipt[A]
	for _, r := range receipts {
		if _, ok := requested[r.TxHash]; !ok {
			return nil, fmt.Errorf("%w: receipt %s is not part of block %s", ErrMissingReceipts, r.TxHash.Hex(), block.Link())
		}
		delete(requested, r.TxHash)

		if !p.filter.Matches(r.LogsBloom) {
			continue
		}
		var logs []model.Log[A]
		for _, l := range r.Logs {
			if p.filter.MatchesLog(l) {
				logs = append(logs, l)
			}
		}
		if len(logs) == 0 {
			continue
		}
		r.Logs = logs
		filtered = append(filtered, r)
	}

	if len(requested) != 0 {
		return nil, fmt.Errorf("%w: %d transactions of block %s have no receipt", ErrMissingReceipts, len(requested), block.Link())
	}
	return filtered, nil
}
