package policy

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"go.uber.org/zap"
)

// DestinationUnbundlingPolicy rebuilds bundles from the bridge contract's destination events.
type DestinationUnbundlingPolicy struct {
	processed   model.EventFilter[common.Hash]
	distributed model.EventFilter[common.Hash]
	logger      *zap.Logger
}

func NewDestinationUnbundlingPolicy(processed, distributed model.EventFilter[common.Hash], logger *zap.Logger) *DestinationUnbundlingPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DestinationUnbundlingPolicy{
		processed:   processed,
		distributed: distributed,
		logger:      logger.Named("unbundling"),
	}
}

// FromReceipts rebuilds one bundle per receipt.
func (p *DestinationUnbundlingPolicy) FromReceipts(receipts []model.DestinationReceipt) ([]model.DestinationBundle, error) {
	bundles := make([]model.DestinationBundle, 0, len(receipts))
	for _, r := range receipts {
		b, err := p.fromReceipt(r)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

func (p *DestinationUnbundlingPolicy) fromReceipt(r model.DestinationReceipt) (model.DestinationBundle, error) {
	var (
		b         model.DestinationBundle
		processed bool
	)
	for _, l := range r.Logs {
		if l.Address != p.processed.ContractAddress() || len(l.Topics) == 0 {
			continue
		}
		switch l.Topics[0] {
		case p.processed.EventHash():
			if len(l.Topics) != processedTopicCount {
				return model.DestinationBundle{}, fmt.Errorf("%w: processed event in tx %s has %d topics", ErrProtocolViolation, r.TxHash.Hex(), len(l.Topics))
			}
			b.SourceBlockHash = l.Topics[1]
			b.BundleHash = l.Topics[2]
			processed = true
		case p.distributed.EventHash():
			if len(l.Topics) != distributedTopicCount {
				return model.DestinationBundle{}, fmt.Errorf("%w: distributed event in tx %s has %d topics", ErrProtocolViolation, r.TxHash.Hex(), len(l.Topics))
			}
			var amount model.Amount
			copy(amount[:], l.Topics[3][common.HashLength-model.AmountLength:])
			b.Transfers = append(b.Transfers, model.NewTransfer(l.Topics[1], l.Topics[2], amount))
		default:
			p.logger.Warn("unknown event signature", zap.String("tx_hash", r.TxHash.Hex()), zap.String("topic", l.Topics[0].Hex()))
		}
	}
	if !processed {
		return model.DestinationBundle{}, fmt.Errorf("%w: tx %s has no processed event", ErrProtocolViolation, r.TxHash.Hex())
	}
	return b, nil
}

// Matches reports whether the destination rebuilt exactly the submitted bundle.
func (p *DestinationUnbundlingPolicy) Matches(dst []model.DestinationBundle, bundle model.Bundle) bool {
	if len(dst) != 1 {
		return false
	}
	got := dst[0]
	if got.BundleHash != bundle.Hash || got.SourceBlockHash != bundle.SourceBlockHash {
		return false
	}
	if len(got.Transfers) != len(bundle.Transfers) {
		return false
	}
	recorded := make(map[common.Hash]struct{}, len(got.Transfers))
	for _, t := range got.Transfers {
		recorded[t.Hash()] = struct{}{}
	}
	for _, t := range bundle.Transfers {
		if _, ok := recorded[t.Hash()]; !ok {
			return false
		}
	}
	return true
}
