package relay

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/aion"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/oracle"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

var (
	// ErrPersistence wraps DataStore failures. It is the oracle's sentinel so
	// the source oracle stops on it as well.
	ErrPersistence = oracle.ErrPersistence
	// ErrStageFatal is returned by a stage that exhausted its retries.
	ErrStageFatal = errors.New("pipeline stage failed")
	// ErrReceiptFailed means the destination receipt reports a failed execution.
	ErrReceiptFailed = errors.New("destination receipt failed")
	// ErrReceiptNotFound means the destination chain does not know the bundle transaction.
	ErrReceiptNotFound = errors.New("destination receipt not found")
	// ErrReceiptAboveTip means a receipt is in a block the destination tip has not reached.
	ErrReceiptAboveTip = errors.New("receipt above destination tip")
	// ErrBundleMismatch means the destination events do not reproduce the submitted bundle.
	ErrBundleMismatch = errors.New("destination events do not match bundle")
	// ErrInvalidSignatureSet is returned for empty, duplicated or unverifiable signature sets.
	ErrInvalidSignatureSet = errors.New("invalid signature set")
	// ErrTooManyErrors stops a tracker that failed too often in a row.
	ErrTooManyErrors = errors.New("too many consecutive errors")
	// ErrShutdownTimeout is returned when workers did not stop within the shutdown timeout.
	ErrShutdownTimeout = errors.New("workers did not stop in time")

	errTipUnknown = errors.New("destination tip not known yet")
)

type (
	// DataStore is the durable state of the relay. Every write is atomic.
	DataStore interface {
		StoreSourceFinalizedBundles(ctx context.Context, bundles []model.PersistentBundle, tip model.ChainLink, senders map[common.Hash]common.Address) error
		StoreSourceChainHistory(ctx context.Context, tip model.ChainLink) error
		StoreDestinationFinalizedBundles(ctx context.Context, bundles []model.FinalizedBundle, tip model.ChainLink) error
		StoreDestinationChainHistory(ctx context.Context, tip model.ChainLink) error
		StoreLatestBlock(ctx context.Context, number uint64) error
		StoreEntityBalance(ctx context.Context, entity string, balance *big.Int, blockNumber uint64) error

		BundleRangeClosed(ctx context.Context, start, end uint64) ([]model.PersistentBundle, error)
		SourceFinalizedBundleID(ctx context.Context) (uint64, bool, error)
		DestinationFinalizedBundleID(ctx context.Context) (uint64, bool, error)
		SourceFinalizedBlock(ctx context.Context) (model.ChainLink, bool, error)
		DestinationFinalizedBlock(ctx context.Context) (model.ChainLink, bool, error)
	}

	// SignatoryCollector gathers a quorum of signatures over a bundle.
	SignatoryCollector interface {
		Sign(ctx context.Context, bundle model.Bundle) ([]model.Signature, error)
	}

	// DestinationChain is the consolidated destination connection as the pipeline uses it.
	DestinationChain interface {
		Receipt(ctx context.Context, txHash common.Hash) (*model.DestinationReceipt, error)
		Balance(ctx context.Context, address common.Hash) (*big.Int, error)
		Nonce(ctx context.Context, address common.Hash) (uint64, error)
		GasPrice(ctx context.Context) (*big.Int, error)
		SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
		ContractCall(ctx context.Context, to common.Hash, data []byte) ([]byte, error)
	}

	// TipSource reports the quorum agreed destination tip.
	TipSource interface {
		LatestBlockNumber(ctx context.Context) (uint64, bool, error)
	}

	// TipReader is the snapshot view of the destination tip.
	TipReader interface {
		BlockNumber() (uint64, bool)
	}

	// TxSigner builds signed destination transactions for the relayer account.
	TxSigner interface {
		Sender() common.Hash
		Sign(ctx context.Context, tx aion.Transaction) (aion.SignedTransaction, error)
	}

	// FinalizedObserver is told about bundles after they were persisted as final.
	FinalizedObserver interface {
		OnFinalized(ctx context.Context, bundles []*model.StatefulBundle) error
	}

	Metrics interface {
		ObserveStage(stage string, err error, started time.Time)
		ObserveRetry(operation string)
		ObserveQueueLength(queue string, length int)
		ObserveTip(number uint64)
		ObserveBalance(entity string, balance float64)
	}
)
