package policy

import (
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/oracle"
	"github.com/goodnatureofminers/bridge-relay/pkg/safe"
)

// decimalShift converts 18 decimal token units to 18+10 decimal coin units.
var decimalShift = new(big.Int).Exp(big.NewInt(10), big.NewInt(10), nil)

type sourceTransfer struct {
	transfer model.Transfer
	txIndex  uint64
}

// SourceBundlingPolicy groups source chain transfer events into bundles.
type SourceBundlingPolicy struct {
	processor  *oracle.BlockProcessor[common.Address]
	bundleSize int
}

func NewSourceBundlingPolicy(filter model.EventFilter[common.Address], bundleSize int) (*SourceBundlingPolicy, error) {
	if bundleSize <= 0 {
		return nil, errors.New("bundle size must be positive")
	}
	return &SourceBundlingPolicy{
		processor:  oracle.NewBlockProcessor(filter),
		bundleSize: bundleSize,
	}, nil
}

func (p *SourceBundlingPolicy) Filter() model.EventFilter[common.Address] { return p.processor.Filter() }

// FromFilteredBlock bundles the transfers of receipts already narrowed to the bridge event.
func (p *SourceBundlingPolicy) FromFilteredBlock(block model.Block, receipts []model.Receipt[common.Address]) ([]model.Bundle, error) {
	var transfers []sourceTransfer
	for _, r := range receipts {
		for _, l := range r.Logs {
			if !p.processor.Filter().MatchesLog(l) {
				continue
			}
			t, ok, err := transferFromLog(r, l)
			if err != nil {
				return nil, fmt.Errorf("block %s: %w", block.Link(), err)
			}
			if ok {
				transfers = append(transfers, sourceTransfer{transfer: t, txIndex: r.TxIndex})
			}
		}
	}
	if len(transfers) == 0 {
		return nil, nil
	}

	slices.SortStableFunc(transfers, func(a, b sourceTransfer) int {
		switch {
		case a.txIndex < b.txIndex:
			return -1
		case a.txIndex > b.txIndex:
			return 1
		}
		return 0
	})

	bundles := make([]model.Bundle, 0, (len(transfers)+p.bundleSize-1)/p.bundleSize)
	for start := 0; start < len(transfers); start += p.bundleSize {
		end := min(start+p.bundleSize, len(transfers))
		group := make([]model.Transfer, 0, end-start)
		for _, st := range transfers[start:end] {
			group = append(group, st.transfer)
		}
		index, err := safe.Uint32(len(bundles))
		if err != nil {
			return nil, fmt.Errorf("bundle index: %w", err)
		}
		bundles = append(bundles, model.NewBundle(block.Number, block.Hash, index, group))
	}
	return bundles, nil
}

// FromUnfilteredBlock filters the block's full receipt list before bundling it.
func (p *SourceBundlingPolicy) FromUnfilteredBlock(block model.Block, receipts []model.Receipt[common.Address]) ([]model.Bundle, error) {
	if !p.processor.FilterBlock(block) {
		return nil, nil
	}
	filtered, err := p.processor.FilterReceipts(block, receipts)
	if err != nil {
		return nil, err
	}
	return p.FromFilteredBlock(block, filtered)
}

// SourceAddressIndex maps each receipt's transaction hash to its sender.
func SourceAddressIndex(receipts []model.Receipt[common.Address]) map[common.Hash]common.Address {
	index := make(map[common.Hash]common.Address, len(receipts))
	for _, r := range receipts {
		index[r.TxHash] = r.From
	}
	return index
}

func transferFromLog(r model.Receipt[common.Address], l model.Log[common.Address]) (model.Transfer, bool, error) {
	if len(l.Data) != sourceDataLength {
		return model.Transfer{}, false, fmt.Errorf("%w: tx %s data is %d bytes", ErrMalformedLog, r.TxHash.Hex(), len(l.Data))
	}
	if len(l.Topics) < sourceMinTopics {
		return model.Transfer{}, false, fmt.Errorf("%w: tx %s has %d topics", ErrMalformedLog, r.TxHash.Hex(), len(l.Topics))
	}

	value := new(big.Int).SetBytes(l.Data)
	if value.Sign() == 0 {
		return model.Transfer{}, false, nil
	}
	if new(big.Int).SetBytes(l.Data[:16]).Sign() != 0 {
		return model.Transfer{}, false, fmt.Errorf("%w: tx %s amount exceeds 128 bits", ErrMalformedLog, r.TxHash.Hex())
	}

	amount, err := model.AmountFromBig(value.Mul(value, decimalShift))
	if err != nil {
		return model.Transfer{}, false, fmt.Errorf("%w: tx %s: %w", ErrMalformedLog, r.TxHash.Hex(), err)
	}
	return model.NewTransfer(r.TxHash, l.Topics[2], amount), true, nil
}
