package oracle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/chain"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
)

var (
	testContract = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	testFilter   = model.NewEventFilter(testContract, "Burn(address,bytes32,uint256)", model.KeccakHasher)
)

// testChain builds length parent-linked blocks starting at number 0.
// Blocks listed in filled carry one receipt with a matching log.
func testChain(length int, filled ...uint64) ([]model.Block, map[common.Hash][]model.Receipt[common.Address]) {
	isFilled := make(map[uint64]bool, len(filled))
	for _, n := range filled {
		isFilled[n] = true
	}

	blocks := make([]model.Block, length)
	receipts := make(map[common.Hash][]model.Receipt[common.Address], length)
	parent := common.Hash{}
	for i := range blocks {
		n := uint64(i)
		b := model.Block{
			Number:       n,
			Hash:         common.Hash{0xb0, byte(n >> 8), byte(n)},
			ParentHash:   parent,
			Transactions: []common.Hash{{0x70, byte(n >> 8), byte(n)}},
		}
		r := model.Receipt[common.Address]{
			TxHash:      b.Transactions[0],
			BlockHash:   b.Hash,
			BlockNumber: n,
			Status:      true,
		}
		if isFilled[n] {
			b.LogsBloom = testFilter.Bloom()
			r.LogsBloom = testFilter.Bloom()
			r.Logs = []model.Log[common.Address]{
				{Address: testContract, Topics: []common.Hash{testFilter.EventHash()}},
				{Address: common.HexToAddress("0xdead"), Topics: []common.Hash{testFilter.EventHash()}},
			}
		}
		blocks[i] = b
		receipts[b.Hash] = []model.Receipt[common.Address]{r}
		parent = b.Hash
	}
	return blocks, receipts
}

type fakeConnection struct {
	mu         sync.Mutex
	blocks     []model.Block
	receipts   map[common.Hash][]model.Receipt[common.Address]
	latest     uint64
	latestOK   bool
	latestErr  error
	rangeCalls int
	batches    [][]model.Block
}

func (c *fakeConnection) LatestBlockNumber(context.Context) (uint64, bool, error) {
	return c.latest, c.latestOK, c.latestErr
}

func (c *fakeConnection) Block(_ context.Context, number uint64) (*model.Block, error) {
	if number >= uint64(len(c.blocks)) {
		return nil, fmt.Errorf("%w: %d", chain.ErrBlockNotFound, number)
	}
	b := c.blocks[number]
	return &b, nil
}

func (c *fakeConnection) BlocksRangeClosed(_ context.Context, start, end uint64) ([]model.Block, error) {
	c.mu.Lock()
	c.rangeCalls++
	c.mu.Unlock()
	if end >= uint64(len(c.blocks)) || start > end {
		return nil, errors.New("range out of bounds")
	}
	return append([]model.Block(nil), c.blocks[start:end+1]...), nil
}

func (c *fakeConnection) ReceiptsForBlocks(_ context.Context, blocks []model.Block) ([]model.BlockWithReceipts[common.Address], error) {
	c.mu.Lock()
	c.batches = append(c.batches, blocks)
	c.mu.Unlock()
	out := make([]model.BlockWithReceipts[common.Address], 0, len(blocks))
	for _, b := range blocks {
		out = append(out, model.BlockWithReceipts[common.Address]{Block: b, Receipts: c.receipts[b.Hash]})
	}
	return out, nil
}

type reorgCall struct {
	historyHead model.ChainLink
	chainHead   uint64
	actual      *model.Block
}

type fakeSink struct {
	head       model.ChainLink
	headErr    error
	publishErr error
	reorgErr   error
	published  []*ResultSet[common.Address]
	reorgs     []reorgCall
}

func (s *fakeSink) LatestBlock(context.Context) (model.ChainLink, error) {
	return s.head, s.headErr
}

func (s *fakeSink) Publish(_ context.Context, rs *ResultSet[common.Address]) error {
	if s.publishErr != nil {
		return s.publishErr
	}
	s.published = append(s.published, rs)
	s.head = rs.Head()
	return nil
}

func (s *fakeSink) Reorganize(_ context.Context, historyHead model.ChainLink, chainHead uint64, actual *model.Block) error {
	s.reorgs = append(s.reorgs, reorgCall{historyHead: historyHead, chainHead: chainHead, actual: actual})
	return s.reorgErr
}

type nopMetrics struct{}

func (nopMetrics) ObserveIteration(error, time.Time) {}
func (nopMetrics) ObserveReceiptBatch(error, int)    {}
func (nopMetrics) ObserveHeads(uint64, uint64)       {}
