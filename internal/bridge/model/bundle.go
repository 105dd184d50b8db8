package model

import (
	"cmp"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/blake2b"
)

// Bundle is an ordered group of transfers taken from one source block.
type Bundle struct {
	SourceBlockNumber  uint64
	SourceBlockHash    common.Hash
	IndexInSourceBlock uint32
	Transfers          []Transfer
	Hash               common.Hash
}

// NewBundle copies transfers and derives the bundle hash.
func NewBundle(sourceBlockNumber uint64, sourceBlockHash common.Hash, index uint32, transfers []Transfer) Bundle {
	owned := make([]Transfer, len(transfers))
	copy(owned, transfers)
	return Bundle{
		SourceBlockNumber:  sourceBlockNumber,
		SourceBlockHash:    sourceBlockHash,
		IndexInSourceBlock: index,
		Transfers:          owned,
		Hash:               BundleHash(sourceBlockHash, owned),
	}
}

// BundleHash is blake2b-256(sourceBlockHash || transfer bytes...).
func BundleHash(sourceBlockHash common.Hash, transfers []Transfer) common.Hash {
	h, _ := blake2b.New256(nil)
	h.Write(sourceBlockHash[:])
	for _, t := range transfers {
		h.Write(t.Bytes())
	}
	return common.BytesToHash(h.Sum(nil))
}

// Compare orders bundles by source block number, then by index in block.
func (b Bundle) Compare(o Bundle) int {
	if c := cmp.Compare(b.SourceBlockNumber, o.SourceBlockNumber); c != 0 {
		return c
	}
	return cmp.Compare(b.IndexInSourceBlock, o.IndexInSourceBlock)
}

// SameSlot reports whether both bundles occupy the same (block, index) position.
func (b Bundle) SameSlot(o Bundle) bool {
	return b.Compare(o) == 0
}

// ContainsTransfer reports whether a transfer with the same hash is part of the bundle.
func (b Bundle) ContainsTransfer(t Transfer) bool {
	for _, own := range b.Transfers {
		if own.Hash() == t.Hash() {
			return true
		}
	}
	return false
}

// PersistentBundle is a bundle with its durable id.
type PersistentBundle struct {
	BundleID uint64
	Bundle
}
