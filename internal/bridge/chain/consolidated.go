package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
)

// ConsolidatedConnection exposes a quorum of connections as a single Connection.
// Every call succeeds only with a quorum-agreed value.
type ConsolidatedConnection[A model.Address] struct {
	quorum       *Quorum[Connection[A]]
	blockNumbers *BlockNumberCollector[Connection[A]]
}

var _ Connection[common.Hash] = (*ConsolidatedConnection[common.Hash])(nil)

// NewConsolidatedConnection wraps q.
func NewConsolidatedConnection[A model.Address](q *Quorum[Connection[A]]) *ConsolidatedConnection[A] {
	return &ConsolidatedConnection[A]{
		quorum:       q,
		blockNumbers: NewBlockNumberCollector(q),
	}
}

func (c *ConsolidatedConnection[A]) Name() string {
	return c.quorum.Name()
}

// LatestBlockNumber exposes the collector's tip together with whether it is known yet.
func (c *ConsolidatedConnection[A]) LatestBlockNumber(ctx context.Context) (uint64, bool, error) {
	return c.blockNumbers.LatestBlockNumber(ctx)
}

func (c *ConsolidatedConnection[A]) BlockNumber(ctx context.Context) (uint64, error) {
	n, ok, err := c.blockNumbers.LatestBlockNumber(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: block_number: no agreeing window yet", ErrQuorumNotAvailable)
	}
	return n, nil
}

// Block treats "not found" as a vote, so a quorum of connections without the
// block yields ErrBlockNotFound rather than a missing quorum.
func (c *ConsolidatedConnection[A]) Block(ctx context.Context, number uint64) (*model.Block, error) {
	block, err := Consolidate(ctx, c.quorum, "get_block", func(ctx context.Context, conn Connection[A]) (*model.Block, error) {
		b, err := conn.Block(ctx, number)
		if errors.Is(err, ErrBlockNotFound) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, fmt.Errorf("%w: %d", ErrBlockNotFound, number)
	}
	return block, nil
}

func (c *ConsolidatedConnection[A]) BlocksRangeClosed(ctx context.Context, start, end uint64) ([]model.Block, error) {
	return Consolidate(ctx, c.quorum, "get_blocks_range", func(ctx context.Context, conn Connection[A]) ([]model.Block, error) {
		return conn.BlocksRangeClosed(ctx, start, end)
	})
}

func (c *ConsolidatedConnection[A]) ReceiptsForBlocks(ctx context.Context, blocks []model.Block) ([]model.BlockWithReceipts[A], error) {
	return Consolidate(ctx, c.quorum, "get_receipts", func(ctx context.Context, conn Connection[A]) ([]model.BlockWithReceipts[A], error) {
		return conn.ReceiptsForBlocks(ctx, blocks)
	})
}

func (c *ConsolidatedConnection[A]) Receipt(ctx context.Context, txHash common.Hash) (*model.Receipt[A], error) {
	return Consolidate(ctx, c.quorum, "get_receipt", func(ctx context.Context, conn Connection[A]) (*model.Receipt[A], error) {
		return conn.Receipt(ctx, txHash)
	})
}

func (c *ConsolidatedConnection[A]) Balance(ctx context.Context, address A) (*big.Int, error) {
	return consolidateBig(ctx, c.quorum, "get_balance", func(ctx context.Context, conn Connection[A]) (*big.Int, error) {
		return conn.Balance(ctx, address)
	})
}

func (c *ConsolidatedConnection[A]) Nonce(ctx context.Context, address A) (uint64, error) {
	return Consolidate(ctx, c.quorum, "get_nonce", func(ctx context.Context, conn Connection[A]) (uint64, error) {
		return conn.Nonce(ctx, address)
	})
}

func (c *ConsolidatedConnection[A]) GasPrice(ctx context.Context) (*big.Int, error) {
	return consolidateBig(ctx, c.quorum, "get_gas_price", func(ctx context.Context, conn Connection[A]) (*big.Int, error) {
		return conn.GasPrice(ctx)
	})
}

func (c *ConsolidatedConnection[A]) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	return Consolidate(ctx, c.quorum, "send_raw_transaction", func(ctx context.Context, conn Connection[A]) (common.Hash, error) {
		return conn.SendRawTransaction(ctx, raw)
	})
}

func (c *ConsolidatedConnection[A]) ContractCall(ctx context.Context, to A, data []byte) ([]byte, error) {
	return Consolidate(ctx, c.quorum, "contract_call", func(ctx context.Context, conn Connection[A]) ([]byte, error) {
		return conn.ContractCall(ctx, to, data)
	})
}

// consolidateBig votes on the decimal form, since equal big.Int values may differ in internal layout.
func consolidateBig[C any](ctx context.Context, q *Quorum[C], op string, call func(context.Context, C) (*big.Int, error)) (*big.Int, error) {
	agreed, err := Consolidate(ctx, q, op, func(ctx context.Context, conn C) (string, error) {
		v, err := call(ctx, conn)
		if err != nil {
			return "", err
		}
		if v == nil {
			return "", fmt.Errorf("%s: empty value", op)
		}
		return v.String(), nil
	})
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(agreed, 10)
	if !ok {
		return nil, fmt.Errorf("%s: parse agreed value %q", op, agreed)
	}
	return v, nil
}
