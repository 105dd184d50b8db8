package chain

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
)

var (
	// ErrQuorumNotAvailable means not enough connections agreed before the deadline.
	ErrQuorumNotAvailable = errors.New("quorum not available")
	// ErrBlockNotFound is returned by connections for a block they do not know.
	ErrBlockNotFound = errors.New("block not found")
	// ErrIncompleteResponse is returned when a batched response misses requested items.
	ErrIncompleteResponse = errors.New("incomplete api response")
)

type (
	// Reader is the read side of a chain connection.
	Reader[A model.Address] interface {
		BlockNumber(ctx context.Context) (uint64, error)
		Block(ctx context.Context, number uint64) (*model.Block, error)
		// BlocksRangeClosed returns exactly end-start+1 ascending, parent-linked blocks or fails.
		BlocksRangeClosed(ctx context.Context, start, end uint64) ([]model.Block, error)
		// ReceiptsForBlocks returns every receipt of every requested block, grouped by block.
		ReceiptsForBlocks(ctx context.Context, blocks []model.Block) ([]model.BlockWithReceipts[A], error)
		// Receipt returns nil without error when the transaction is unknown.
		Receipt(ctx context.Context, txHash common.Hash) (*model.Receipt[A], error)
		Balance(ctx context.Context, address A) (*big.Int, error)
		Nonce(ctx context.Context, address A) (uint64, error)
		GasPrice(ctx context.Context) (*big.Int, error)
	}

	// Writer is the write side of a chain connection.
	Writer[A model.Address] interface {
		SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
		ContractCall(ctx context.Context, to A, data []byte) ([]byte, error)
	}

	// Connection is a single endpoint of a chain.
	Connection[A model.Address] interface {
		Reader[A]
		Writer[A]
		Name() string
	}

	// BlockNumberSource reports a chain tip.
	BlockNumberSource interface {
		BlockNumber(ctx context.Context) (uint64, error)
	}

	Metrics interface {
		ObserveCall(chain, operation string, err error, started time.Time)
		ObserveConnectionError(chain, operation string)
	}
)
