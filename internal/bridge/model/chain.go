package model

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ChainLink points at a block by number and hash.
type ChainLink struct {
	Number uint64
	Hash   common.Hash
}

// String renders the link for logs.
func (l ChainLink) String() string {
	return fmt.Sprintf("%d:%s", l.Number, l.Hash.Hex())
}

// Block is the chain-neutral header view the relay works with.
type Block struct {
	Number       uint64
	Hash         common.Hash
	ParentHash   common.Hash
	LogsBloom    Bloom
	Timestamp    uint64
	Transactions []common.Hash
}

// Link returns the block's own chain link.
func (b Block) Link() ChainLink {
	return ChainLink{Number: b.Number, Hash: b.Hash}
}

// Log is an event emitted during a transaction.
type Log[A Address] struct {
	Address A
	Topics  []common.Hash
	Data    []byte
}

// Equal compares logs field by field.
func (l Log[A]) Equal(o Log[A]) bool {
	if l.Address != o.Address || len(l.Topics) != len(o.Topics) || !bytes.Equal(l.Data, o.Data) {
		return false
	}
	for i := range l.Topics {
		if l.Topics[i] != o.Topics[i] {
			return false
		}
	}
	return true
}

// Receipt is the outcome of one transaction.
type Receipt[A Address] struct {
	TxHash      common.Hash
	TxIndex     uint64
	BlockHash   common.Hash
	BlockNumber uint64
	From        A
	To          A
	Status      bool
	LogsBloom   Bloom
	Logs        []Log[A]
}

// Link returns the block the receipt was included in.
func (r Receipt[A]) Link() ChainLink {
	return ChainLink{Number: r.BlockNumber, Hash: r.BlockHash}
}

// Equal compares receipts field by field, including logs.
func (r Receipt[A]) Equal(o Receipt[A]) bool {
	if r.TxHash != o.TxHash || r.TxIndex != o.TxIndex || r.BlockHash != o.BlockHash ||
		r.BlockNumber != o.BlockNumber || r.From != o.From || r.To != o.To ||
		r.Status != o.Status || r.LogsBloom != o.LogsBloom || len(r.Logs) != len(o.Logs) {
		return false
	}
	for i := range r.Logs {
		if !r.Logs[i].Equal(o.Logs[i]) {
			return false
		}
	}
	return true
}

// BlockWithReceipts pairs a block with the subset of its receipts that matter.
type BlockWithReceipts[A Address] struct {
	Block    Block
	Receipts []Receipt[A]
}

// IsEmpty reports whether no receipt is attached.
func (b BlockWithReceipts[A]) IsEmpty() bool {
	return len(b.Receipts) == 0
}
