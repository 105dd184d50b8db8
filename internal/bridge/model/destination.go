package model

import "github.com/ethereum/go-ethereum/common"

// SubmittedTx records the destination transaction that carried a bundle.
type SubmittedTx struct {
	From                   common.Hash
	Nonce                  uint64
	DestinationBlockNumber uint64
	TxHash                 common.Hash
}

// SetTxHash replaces the tracked hash when the bundle landed in an earlier transaction.
func (s *SubmittedTx) SetTxHash(h common.Hash) {
	s.TxHash = h
}

// DestinationReceipt is a receipt from the destination chain.
type DestinationReceipt = Receipt[common.Hash]

// DestinationBundle is a bundle rebuilt from destination chain events.
type DestinationBundle struct {
	BundleHash      common.Hash
	SourceBlockHash common.Hash
	Transfers       []Transfer
}

// FinalizedBundle is the persisted record of a bundle final on the destination chain.
type FinalizedBundle struct {
	BundleID    uint64
	BundleHash  common.Hash
	TxHash      common.Hash
	BlockNumber uint64
	BlockHash   common.Hash
}
