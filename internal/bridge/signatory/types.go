// Package signatory validates bundles against the source chain and signs
// them, and collects those signatures on the relay side over gRPC.
package signatory

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

var (
	// ErrBundleInvalid means the source chain does not produce the requested bundle.
	ErrBundleInvalid = errors.New("bundle does not match source chain")
	// ErrUnexpectedSigner means a signatory answered with a key other than the configured one.
	ErrUnexpectedSigner = errors.New("unexpected signatory public key")
	// ErrSignatureInvalid means a signatory returned a signature that does not verify over the bundle hash.
	ErrSignatureInvalid = errors.New("signature does not verify")
)

// BundleSummary identifies a bundle well enough for a signatory to rebuild it.
type BundleSummary struct {
	SourceBlockNumber  uint64      `json:"sourceBlockNumber"`
	SourceBlockHash    common.Hash `json:"sourceBlockHash"`
	IndexInSourceBlock uint32      `json:"indexInSourceBlock"`
	BundleHash         common.Hash `json:"bundleHash"`
}

func SummaryOf(b model.Bundle) BundleSummary {
	return BundleSummary{
		SourceBlockNumber:  b.SourceBlockNumber,
		SourceBlockHash:    b.SourceBlockHash,
		IndexInSourceBlock: b.IndexInSourceBlock,
		BundleHash:         b.Hash,
	}
}

type (
	// SourceChain is the part of the consolidated source connection the validator reads.
	SourceChain interface {
		Block(ctx context.Context, number uint64) (*model.Block, error)
		ReceiptsForBlocks(ctx context.Context, blocks []model.Block) ([]model.BlockWithReceipts[common.Address], error)
	}

	// Signer signs bundle hashes with the signatory key.
	Signer interface {
		PublicKey() common.Hash
		Sign(ctx context.Context, message []byte) ([]byte, error)
	}

	// BundleSigner is one remote signatory as the relay sees it.
	BundleSigner interface {
		SignBundle(ctx context.Context, summary BundleSummary) (model.Signature, error)
	}

	// BundleValidator decides whether a summary describes a real source bundle.
	BundleValidator interface {
		Validate(ctx context.Context, summary BundleSummary) error
	}

	Metrics interface {
		ObserveValidation(err error, cached bool, started time.Time)
	}
)
