package relay

import (
	"context"
	"crypto/ed25519"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/aion"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/policy"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

var (
	bridgeContract    = common.HexToHash("0xa0000000000000000000000000000000000000000000000000000000000b21d6")
	relayerAccount    = common.HexToHash("0xa0000000000000000000000000000000000000000000000000000000000001e1")
	processedFilter   = aion.NewEventFilter(bridgeContract, aion.DefaultProcessedEvent)
	distributedFilter = aion.NewEventFilter(bridgeContract, aion.DefaultDistributedEvent)
	successfulFilter  = aion.NewEventFilter(bridgeContract, aion.DefaultSuccessfulTxHashEvent)
)

// manualTip is a TipReader the test moves by hand.
type manualTip struct {
	number atomic.Uint64
	known  atomic.Bool
}

func tipAt(n uint64) *manualTip {
	t := &manualTip{}
	t.set(n)
	return t
}

func (t *manualTip) set(n uint64) {
	t.number.Store(n)
	t.known.Store(true)
}

func (t *manualTip) BlockNumber() (uint64, bool) {
	return t.number.Load(), t.known.Load()
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func noRetry(r Retry) Retry {
	r.sleep = noSleep
	return r
}

func allowMetrics(ctrl *gomock.Controller) *MockMetrics {
	m := NewMockMetrics(ctrl)
	m.EXPECT().ObserveStage(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	m.EXPECT().ObserveRetry(gomock.Any()).AnyTimes()
	m.EXPECT().ObserveQueueLength(gomock.Any(), gomock.Any()).AnyTimes()
	m.EXPECT().ObserveTip(gomock.Any()).AnyTimes()
	m.EXPECT().ObserveBalance(gomock.Any(), gomock.Any()).AnyTimes()
	return m
}

func testUnbundling() *policy.DestinationUnbundlingPolicy {
	return policy.NewDestinationUnbundlingPolicy(processedFilter, distributedFilter, nil)
}

func testBundle(id uint64) model.PersistentBundle {
	block := common.BigToHash(new(big.Int).SetUint64(0xb000 + id))
	transfers := []model.Transfer{
		model.NewTransfer(common.BigToHash(new(big.Int).SetUint64(0x7000+id)), common.HexToHash("0xa1"), model.AmountFromUint64(10*id+1)),
		model.NewTransfer(common.BigToHash(new(big.Int).SetUint64(0x8000+id)), common.HexToHash("0xa2"), model.AmountFromUint64(10*id+2)),
	}
	return model.PersistentBundle{BundleID: id, Bundle: model.NewBundle(100+id, block, 0, transfers)}
}

func signBundle(t *testing.T, hash common.Hash, signers int) []model.Signature {
	t.Helper()
	sigs := make([]model.Signature, 0, signers)
	for range signers {
		pub, key, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		sig, err := model.NewSignature(ed25519.Sign(key, hash.Bytes()), common.BytesToHash(pub))
		require.NoError(t, err)
		sigs = append(sigs, sig)
	}
	return sigs
}

func txHashFor(id uint64) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(0xd000 + id))
}

// bundleReceipt is the receipt the bridge contract emits for a processed bundle.
func bundleReceipt(b model.Bundle, txHash common.Hash, blockNumber uint64) model.DestinationReceipt {
	r := model.DestinationReceipt{
		TxHash:      txHash,
		BlockNumber: blockNumber,
		BlockHash:   common.BigToHash(new(big.Int).SetUint64(0xe000 + blockNumber)),
		From:        relayerAccount,
		To:          bridgeContract,
		Status:      true,
	}
	for _, t := range b.Transfers {
		amount := t.Amount()
		r.Logs = append(r.Logs, model.Log[common.Hash]{
			Address: bridgeContract,
			Topics:  []common.Hash{distributedFilter.EventHash(), t.SourceTxHash(), t.Recipient(), common.BytesToHash(amount[:])},
		})
	}
	r.Logs = append(r.Logs, model.Log[common.Hash]{
		Address: bridgeContract,
		Topics:  []common.Hash{processedFilter.EventHash(), b.SourceBlockHash, b.Hash},
	})
	return r
}

func storedBundle(id uint64) *model.StatefulBundle {
	return model.NewStoredBundle(testBundle(id))
}

func signedBundle(t *testing.T, id uint64) *model.StatefulBundle {
	t.Helper()
	b := storedBundle(id)
	require.NoError(t, b.SetSigned(signBundle(t, b.Hash, 2)))
	return b
}

func submittedBundle(t *testing.T, id, destinationBlock uint64) *model.StatefulBundle {
	t.Helper()
	b := signedBundle(t, id)
	require.NoError(t, b.SetSubmitted(model.SubmittedTx{
		From:                   relayerAccount,
		Nonce:                  id,
		DestinationBlockNumber: destinationBlock,
		TxHash:                 txHashFor(id),
	}))
	return b
}

func sealedBundle(t *testing.T, id, destinationBlock uint64) (*model.StatefulBundle, model.DestinationReceipt) {
	t.Helper()
	b := submittedBundle(t, id, destinationBlock)
	r := bundleReceipt(b.Bundle, txHashFor(id), destinationBlock)
	require.NoError(t, b.SetSealed(r))
	return b, r
}

func receiptPtr(r model.DestinationReceipt) *model.DestinationReceipt { return &r }
