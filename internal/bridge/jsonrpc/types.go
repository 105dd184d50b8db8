package jsonrpc

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
)

type (
	// RPC is the subset of *rpc.Client the connection uses.
	RPC interface {
		CallContext(ctx context.Context, result any, method string, args ...any) error
		BatchCallContext(ctx context.Context, b []rpc.BatchElem) error
		Close()
	}

	Metrics interface {
		Observe(endpoint, method string, err error, started time.Time)
	}
)

type rpcBlock struct {
	Number       hexutil.Uint64 `json:"number"`
	Hash         common.Hash    `json:"hash"`
	ParentHash   common.Hash    `json:"parentHash"`
	LogsBloom    model.Bloom    `json:"logsBloom"`
	Timestamp    hexutil.Uint64 `json:"timestamp"`
	Transactions []common.Hash  `json:"transactions"`
}

func (b *rpcBlock) toModel() model.Block {
	txs := make([]common.Hash, len(b.Transactions))
	copy(txs, b.Transactions)
	return model.Block{
		Number:       uint64(b.Number),
		Hash:         b.Hash,
		ParentHash:   b.ParentHash,
		LogsBloom:    b.LogsBloom,
		Timestamp:    uint64(b.Timestamp),
		Transactions: txs,
	}
}

type rpcLog[A model.Address] struct {
	Address A             `json:"address"`
	Topics  []common.Hash `json:"topics"`
	Data    hexutil.Bytes `json:"data"`
}

type rpcReceipt[A model.Address] struct {
	TransactionHash  common.Hash    `json:"transactionHash"`
	TransactionIndex hexutil.Uint64 `json:"transactionIndex"`
	BlockHash        common.Hash    `json:"blockHash"`
	BlockNumber      hexutil.Uint64 `json:"blockNumber"`
	From             A              `json:"from"`
	To               *A             `json:"to"`
	Status           hexutil.Uint64 `json:"status"`
	LogsBloom        model.Bloom    `json:"logsBloom"`
	Logs             []rpcLog[A]    `json:"logs"`
}

func (r *rpcReceipt[A]) toModel() model.Receipt[A] {
	out := model.Receipt[A]{
		TxHash:      r.TransactionHash,
		TxIndex:     uint64(r.TransactionIndex),
		BlockHash:   r.BlockHash,
		BlockNumber: uint64(r.BlockNumber),
		From:        r.From,
		Status:      r.Status == 1,
		LogsBloom:   r.LogsBloom,
		Logs:        make([]model.Log[A], 0, len(r.Logs)),
	}
	if r.To != nil {
		out.To = *r.To
	}
	for _, l := range r.Logs {
		topics := make([]common.Hash, len(l.Topics))
		copy(topics, l.Topics)
		out.Logs = append(out.Logs, model.Log[A]{Address: l.Address, Topics: topics, Data: append([]byte(nil), l.Data...)})
	}
	return out
}
