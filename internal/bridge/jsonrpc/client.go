// Package jsonrpc implements chain connections over Ethereum-style JSON-RPC.
package jsonrpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/chain"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
)

// Client is one JSON-RPC endpoint of a chain whose accounts are of type A.
type Client[A model.Address] struct {
	name    string
	rpc     RPC
	metrics Metrics
}

var (
	_ chain.Connection[common.Address] = (*Client[common.Address])(nil)
	_ chain.Connection[common.Hash]    = (*Client[common.Hash])(nil)
)

// Dial connects to url and names the connection after it.
func Dial[A model.Address](ctx context.Context, name, url string, metrics Metrics) (*Client[A], error) {
	if url == "" {
		return nil, errors.New("rpc url is required")
	}
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", name, err)
	}
	return New[A](name, c, metrics)
}

// New wraps an existing RPC client.
func New[A model.Address](name string, r RPC, metrics Metrics) (*Client[A], error) {
	if r == nil {
		return nil, errors.New("rpc client is required")
	}
	if metrics == nil {
		return nil, errors.New("rpc metrics is required")
	}
	return &Client[A]{name: name, rpc: r, metrics: metrics}, nil
}

func (c *Client[A]) Name() string { return c.name }

// Close releases the underlying transport.
func (c *Client[A]) Close() { c.rpc.Close() }

func (c *Client[A]) call(ctx context.Context, result any, method string, args ...any) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe(c.name, method, err, started)
	}()
	if err = c.rpc.CallContext(ctx, result, method, args...); err != nil {
		return fmt.Errorf("%s %s: %w", c.name, method, err)
	}
	return nil
}

func (c *Client[A]) batch(ctx context.Context, method string, elems []rpc.BatchElem) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe(c.name, method, err, started)
	}()
	if len(elems) == 0 {
		return nil
	}
	if err = c.rpc.BatchCallContext(ctx, elems); err != nil {
		return fmt.Errorf("%s batch %s: %w", c.name, method, err)
	}
	for i := range elems {
		if elems[i].Error != nil {
			err = fmt.Errorf("%s batch %s item %d: %w", c.name, method, i, elems[i].Error)
			return err
		}
	}
	return nil
}

func (c *Client[A]) BlockNumber(ctx context.Context) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (c *Client[A]) Block(ctx context.Context, number uint64) (*model.Block, error) {
	var raw *rpcBlock
	if err := c.call(ctx, &raw, "eth_getBlockByNumber", hexutil.EncodeUint64(number), false); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %d", chain.ErrBlockNotFound, number)
	}
	b := raw.toModel()
	return &b, nil
}

func (c *Client[A]) BlocksRangeClosed(ctx context.Context, start, end uint64) ([]model.Block, error) {
	if start > end {
		return nil, fmt.Errorf("invalid range [%d, %d]", start, end)
	}

	raws := make([]*rpcBlock, end-start+1)
	elems := make([]rpc.BatchElem, len(raws))
	for i := range elems {
		elems[i] = rpc.BatchElem{
			Method: "eth_getBlockByNumber",
			Args:   []any{hexutil.EncodeUint64(start + uint64(i)), false},
			Result: &raws[i],
		}
	}
	if err := c.batch(ctx, "eth_getBlockByNumber", elems); err != nil {
		return nil, err
	}

	blocks := make([]model.Block, 0, len(raws))
	for i, raw := range raws {
		want := start + uint64(i)
		if raw == nil {
			return nil, fmt.Errorf("%w: block %d missing from range [%d, %d]", chain.ErrIncompleteResponse, want, start, end)
		}
		b := raw.toModel()
		if b.Number != want {
			return nil, fmt.Errorf("%w: expected block %d, got %d", chain.ErrIncompleteResponse, want, b.Number)
		}
		if i > 0 && b.ParentHash != blocks[i-1].Hash {
			return nil, fmt.Errorf("%w: block %d does not link to %s", chain.ErrIncompleteResponse, b.Number, blocks[i-1].Hash.Hex())
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (c *Client[A]) ReceiptsForBlocks(ctx context.Context, blocks []model.Block) ([]model.BlockWithReceipts[A], error) {
	type slot struct {
		block int
		tx    common.Hash
	}

	var (
		elems []rpc.BatchElem
		slots []slot
	)
	for bi, b := range blocks {
		for _, tx := range b.Transactions {
			elems = append(elems, rpc.BatchElem{
				Method: "eth_getTransactionReceipt",
				Args:   []any{tx},
				Result: new(*rpcReceipt[A]),
			})
			slots = append(slots, slot{block: bi, tx: tx})
		}
	}
	if err := c.batch(ctx, "eth_getTransactionReceipt", elems); err != nil {
		return nil, err
	}

	out := make([]model.BlockWithReceipts[A], len(blocks))
	for i, b := range blocks {
		out[i] = model.BlockWithReceipts[A]{Block: b, Receipts: make([]model.Receipt[A], 0, len(b.Transactions))}
	}
	for i, elem := range elems {
		raw := *elem.Result.(**rpcReceipt[A])
		s := slots[i]
		if raw == nil {
			return nil, fmt.Errorf("%w: receipt %s missing", chain.ErrIncompleteResponse, s.tx.Hex())
		}
		if raw.BlockHash != blocks[s.block].Hash || raw.TransactionHash != s.tx {
			return nil, fmt.Errorf("%w: receipt %s not in block %s", chain.ErrIncompleteResponse, s.tx.Hex(), blocks[s.block].Hash.Hex())
		}
		out[s.block].Receipts = append(out[s.block].Receipts, raw.toModel())
	}
	return out, nil
}

func (c *Client[A]) Receipt(ctx context.Context, txHash common.Hash) (*model.Receipt[A], error) {
	var raw *rpcReceipt[A]
	if err := c.call(ctx, &raw, "eth_getTransactionReceipt", txHash); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	r := raw.toModel()
	return &r, nil
}

func (c *Client[A]) Balance(ctx context.Context, address A) (*big.Int, error) {
	var balance hexutil.Big
	if err := c.call(ctx, &balance, "eth_getBalance", address, "latest"); err != nil {
		return nil, err
	}
	return balance.ToInt(), nil
}

func (c *Client[A]) Nonce(ctx context.Context, address A) (uint64, error) {
	var nonce hexutil.Uint64
	if err := c.call(ctx, &nonce, "eth_getTransactionCount", address, "latest"); err != nil {
		return 0, err
	}
	return uint64(nonce), nil
}

func (c *Client[A]) GasPrice(ctx context.Context) (*big.Int, error) {
	var price hexutil.Big
	if err := c.call(ctx, &price, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return price.ToInt(), nil
}

func (c *Client[A]) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.call(ctx, &hash, "eth_sendRawTransaction", hexutil.Bytes(raw)); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (c *Client[A]) ContractCall(ctx context.Context, to A, data []byte) ([]byte, error) {
	var out hexutil.Bytes
	msg := map[string]any{"to": to, "data": hexutil.Bytes(data)}
	if err := c.call(ctx, &out, "eth_call", msg, "latest"); err != nil {
		return nil, err
	}
	return out, nil
}
