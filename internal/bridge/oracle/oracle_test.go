package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testHaltDelay  = 50 * time.Millisecond
	testErrorDelay = 7 * time.Millisecond
)

type sleepRecorder struct {
	delays []time.Duration
	stopAt int
	cancel context.CancelFunc
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	if len(r.delays) >= r.stopAt {
		r.cancel()
	}
	return ctx.Err()
}

func newTestOracle(t *testing.T, conn *fakeConnection, sink *fakeSink, mutate func(*Config[common.Address])) *Oracle[common.Address] {
	t.Helper()
	cfg := Config[common.Address]{
		Name:                 "test",
		Connection:           conn,
		EventFilter:          testFilter,
		Sink:                 sink,
		TipDistance:          2,
		ReceiptBatchSize:     1,
		ReceiptWorkers:       2,
		HaltDelay:            testHaltDelay,
		ErrorDelay:           testErrorDelay,
		MaxConsecutiveErrors: 3,
		Logger:               zap.NewNop(),
		Metrics:              nopMetrics{},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	o, err := New(cfg)
	require.NoError(t, err)
	return o
}

func runUntilSleeps(t *testing.T, o *Oracle[common.Address], sleeps int) (*sleepRecorder, error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	rec := &sleepRecorder{stopAt: sleeps, cancel: cancel}
	o.sleep = rec.sleep
	return rec, o.Run(ctx)
}

func TestNew_Validation(t *testing.T) {
	conn := &fakeConnection{}
	sink := &fakeSink{}

	tests := []struct {
		name string
		cfg  Config[common.Address]
	}{
		{name: "missing connection", cfg: Config[common.Address]{EventFilter: testFilter, Sink: sink, Metrics: nopMetrics{}}},
		{name: "missing sink", cfg: Config[common.Address]{Connection: conn, EventFilter: testFilter, Metrics: nopMetrics{}}},
		{name: "missing metrics", cfg: Config[common.Address]{Connection: conn, EventFilter: testFilter, Sink: sink}},
		{name: "missing filter", cfg: Config[common.Address]{Connection: conn, Sink: sink, Metrics: nopMetrics{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
		})
	}

	o, err := New(Config[common.Address]{Connection: conn, EventFilter: testFilter, Sink: sink, Metrics: nopMetrics{}})
	require.NoError(t, err)
	assert.Equal(t, uint64(defaultTipDistance), o.tipDistance)
	assert.Equal(t, uint64(defaultBlockBatchSize), o.blockBatchSize)
	assert.Equal(t, defaultReceiptBatchSize, o.receiptBatchSize)
	assert.Equal(t, defaultMaxConsecutiveErrors, o.maxConsecutiveErrors)
}

func TestOracle_PublishesFinalizedRange(t *testing.T) {
	blocks, receipts := testChain(11, 3, 5)
	conn := &fakeConnection{blocks: blocks, receipts: receipts, latest: 10, latestOK: true}
	sink := &fakeSink{head: blocks[0].Link()}

	published := make(chan Summary, 1)
	historyHeads := make(chan model.ChainLink, 1)
	o := newTestOracle(t, conn, sink, func(cfg *Config[common.Address]) {
		cfg.Hooks = Hooks{Published: published, HistoryHead: historyHeads}
	})

	rec, err := runUntilSleeps(t, o, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []time.Duration{testHaltDelay}, rec.delays)

	require.Len(t, sink.published, 1)
	rs := sink.published[0]
	assert.True(t, rs.IsSealed())
	assert.Equal(t, 8, rs.Len())
	assert.Equal(t, blocks[1].Link(), rs.First())
	assert.Equal(t, blocks[8].Link(), rs.Head())

	filled := rs.FilledBlocks()
	require.Len(t, filled, 2)
	assert.Equal(t, uint64(3), filled[0].Block.Number)
	assert.Equal(t, uint64(5), filled[1].Block.Number)
	for _, b := range filled {
		require.Len(t, b.Receipts, 1)
		require.Len(t, b.Receipts[0].Logs, 1)
		assert.Equal(t, testContract, b.Receipts[0].Logs[0].Address)
	}

	// only bloom candidates are fetched, one block per group at batch size 1
	assert.Len(t, conn.batches, 2)
	assert.Empty(t, sink.reorgs)

	assert.Equal(t, Summary{
		First:        blocks[1].Link(),
		Last:         blocks[8].Link(),
		Blocks:       8,
		FilledBlocks: 2,
		Receipts:     2,
	}, <-published)
	assert.Equal(t, blocks[0].Link(), <-historyHeads)
}

func TestOracle_RespectsBlockBatchSize(t *testing.T) {
	blocks, receipts := testChain(11)
	conn := &fakeConnection{blocks: blocks, receipts: receipts, latest: 10, latestOK: true}
	sink := &fakeSink{head: blocks[0].Link()}
	o := newTestOracle(t, conn, sink, func(cfg *Config[common.Address]) {
		cfg.BlockBatchSize = 3
	})

	_, err := runUntilSleeps(t, o, 1)
	require.ErrorIs(t, err, context.Canceled)

	var ranges [][2]uint64
	for _, rs := range sink.published {
		ranges = append(ranges, [2]uint64{rs.First().Number, rs.Head().Number})
		assert.Empty(t, rs.FilledBlocks())
	}
	assert.Equal(t, [][2]uint64{{1, 3}, {4, 6}, {7, 8}}, ranges)
	assert.Empty(t, conn.batches)
}

func TestOracle_Reorganization(t *testing.T) {
	blocks, receipts := testChain(11)
	stale := model.ChainLink{Number: 4, Hash: common.HexToHash("0x5a1e")}
	unknown := model.ChainLink{Number: 20, Hash: common.HexToHash("0x5a1e")}

	tests := []struct {
		name       string
		head       model.ChainLink
		latest     uint64
		wantChain  uint64
		wantActual *model.Block
	}{
		{name: "range does not extend head", head: stale, latest: 10, wantChain: 8, wantActual: &blocks[4]},
		{name: "chain head behind history head", head: blocks[9].Link(), latest: 6, wantChain: 4, wantActual: &blocks[9]},
		{name: "history head block unknown to chain", head: unknown, latest: 6, wantChain: 4, wantActual: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConnection{blocks: blocks, receipts: receipts, latest: tt.latest, latestOK: true}
			sink := &fakeSink{head: tt.head}
			o := newTestOracle(t, conn, sink, nil)

			rec, err := runUntilSleeps(t, o, 1)
			require.ErrorIs(t, err, context.Canceled)
			assert.Equal(t, []time.Duration{testErrorDelay}, rec.delays)
			assert.Empty(t, sink.published)

			require.Len(t, sink.reorgs, 1)
			call := sink.reorgs[0]
			assert.Equal(t, tt.head, call.historyHead)
			assert.Equal(t, tt.wantChain, call.chainHead)
			assert.Equal(t, tt.wantActual, call.actual)
		})
	}
}

func TestOracle_FatalSinkErrors(t *testing.T) {
	blocks, receipts := testChain(11, 2)
	sinkErr := errors.New("store unavailable")

	tests := []struct {
		name string
		sink *fakeSink
	}{
		{name: "history head", sink: &fakeSink{headErr: sinkErr}},
		{name: "publish", sink: &fakeSink{head: blocks[0].Link(), publishErr: sinkErr}},
		{name: "reorganize", sink: &fakeSink{head: model.ChainLink{Number: 0, Hash: common.HexToHash("0x01")}, reorgErr: sinkErr}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConnection{blocks: blocks, receipts: receipts, latest: 10, latestOK: true}
			o := newTestOracle(t, conn, tt.sink, nil)

			rec, err := runUntilSleeps(t, o, 100)
			require.ErrorIs(t, err, sinkErr)
			assert.Empty(t, rec.delays)
		})
	}
}

func TestOracle_TransientErrorBudget(t *testing.T) {
	blocks, receipts := testChain(11, 4)
	rpcErr := errors.New("connection refused")

	tests := []struct {
		name    string
		conn    func() *fakeConnection
		wantErr error
	}{
		{
			name: "latest block number fails",
			conn: func() *fakeConnection {
				return &fakeConnection{blocks: blocks, receipts: receipts, latestErr: rpcErr}
			},
			wantErr: rpcErr,
		},
		{
			name: "tip not agreed",
			conn: func() *fakeConnection {
				return &fakeConnection{blocks: blocks, receipts: receipts}
			},
			wantErr: errNoBlockNumber,
		},
		{
			name: "receipts missing",
			conn: func() *fakeConnection {
				missing := make(map[common.Hash][]model.Receipt[common.Address], len(receipts))
				for h, r := range receipts {
					missing[h] = r
				}
				delete(missing, blocks[4].Hash)
				return &fakeConnection{blocks: blocks, receipts: missing, latest: 10, latestOK: true}
			},
			wantErr: ErrMissingReceipts,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{head: blocks[0].Link()}
			o := newTestOracle(t, tt.conn(), sink, nil)

			rec, err := runUntilSleeps(t, o, 100)
			require.ErrorIs(t, err, ErrTooManyErrors)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, []time.Duration{testErrorDelay, testErrorDelay}, rec.delays)
			assert.Empty(t, sink.published)
		})
	}
}

func TestReceiptGroups(t *testing.T) {
	block := func(n uint64, txs int) model.Block {
		return model.Block{Number: n, Transactions: make([]common.Hash, txs)}
	}
	numbers := func(groups [][]model.Block) [][]uint64 {
		var out [][]uint64
		for _, g := range groups {
			var ns []uint64
			for _, b := range g {
				ns = append(ns, b.Number)
			}
			out = append(out, ns)
		}
		return out
	}

	tests := []struct {
		name   string
		blocks []model.Block
		batch  int
		want   [][]uint64
	}{
		{name: "empty", batch: 10},
		{name: "fits one group", blocks: []model.Block{block(1, 3), block(2, 4)}, batch: 10, want: [][]uint64{{1, 2}}},
		{name: "splits on overflow", blocks: []model.Block{block(1, 6), block(2, 5), block(3, 4)}, batch: 10, want: [][]uint64{{1}, {2, 3}}},
		{name: "oversized block alone", blocks: []model.Block{block(1, 2), block(2, 30), block(3, 1)}, batch: 10, want: [][]uint64{{1}, {2}, {3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numbers(receiptGroups(tt.blocks, tt.batch)))
		})
	}
}
