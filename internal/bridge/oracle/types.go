package oracle

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
)

var (
	// ErrMissingReceipts means receipts and block transactions do not line up.
	ErrMissingReceipts = errors.New("missing receipts")
	// ErrTooManyErrors terminates an oracle that could not make progress.
	ErrTooManyErrors = errors.New("too many consecutive errors")
	// ErrPersistence wraps sink storage failures.
	ErrPersistence = errors.New("persistence failure")
	// ErrReorganization is returned by sinks that refuse to rewind finalized history.
	ErrReorganization = errors.New("chain reorganization")
	// ErrIntegrity means a sealed result set is not contiguous and parent linked.
	ErrIntegrity = errors.New("result set integrity check failed")
	// ErrResultSetSealed is returned when appending to a sealed result set.
	ErrResultSetSealed = errors.New("result set is sealed")

	errNoBlockNumber = errors.New("latest block number not agreed yet")
)

type (
	// Connection is what the oracle reads a chain through, normally a chain.ConsolidatedConnection.
	Connection[A model.Address] interface {
		LatestBlockNumber(ctx context.Context) (uint64, bool, error)
		Block(ctx context.Context, number uint64) (*model.Block, error)
		BlocksRangeClosed(ctx context.Context, start, end uint64) ([]model.Block, error)
		ReceiptsForBlocks(ctx context.Context, blocks []model.Block) ([]model.BlockWithReceipts[A], error)
	}

	// Sink owns the history head and receives sealed result sets.
	// Every error it returns stops the oracle.
	Sink[A model.Address] interface {
		LatestBlock(ctx context.Context) (model.ChainLink, error)
		Publish(ctx context.Context, rs *ResultSet[A]) error
		// Reorganize is called when the chain no longer extends the history head.
		// actual is the block the chain now has at the history head number, nil if unknown.
		Reorganize(ctx context.Context, historyHead model.ChainLink, chainHead uint64, actual *model.Block) error
	}

	Metrics interface {
		ObserveIteration(err error, started time.Time)
		ObserveReceiptBatch(err error, receipts int)
		ObserveHeads(historyHead, chainHead uint64)
	}
)

type fatalError struct {
	err error
}

func (e fatalError) Error() string { return e.err.Error() }
func (e fatalError) Unwrap() error { return e.err }

func isFatal(err error) bool {
	var fe fatalError
	return errors.As(err, &fe)
}
