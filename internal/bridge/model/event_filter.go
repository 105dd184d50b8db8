package model

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Address is the account type of a chain: 20 bytes on the source chain, 32 on the destination.
type Address interface {
	comparable
	Bytes() []byte
	Hex() string
}

// EventHash returns the topic hash of an event signature such as "Burn(bytes32,uint256)".
func EventHash(signature string) common.Hash {
	return crypto.Keccak256Hash([]byte(signature))
}

// EventFilter selects logs of one event emitted by one contract.
type EventFilter[A Address] struct {
	contract  A
	eventHash common.Hash
	bloom     Bloom
}

// NewEventFilter builds a filter for the event signature emitted by contract.
func NewEventFilter[A Address](contract A, eventSignature string, hasher Hasher) EventFilter[A] {
	return NewEventFilterWithHash(contract, EventHash(eventSignature), hasher)
}

// NewEventFilterWithHash builds a filter for an already hashed event signature.
func NewEventFilterWithHash[A Address](contract A, eventHash common.Hash, hasher Hasher) EventFilter[A] {
	f := EventFilter[A]{contract: contract, eventHash: eventHash}
	f.bloom.Add(hasher, contract.Bytes())
	f.bloom.Add(hasher, eventHash.Bytes())
	return f
}

// ContractAddress is the emitting contract.
func (f EventFilter[A]) ContractAddress() A { return f.contract }

// EventHash is the expected first topic.
func (f EventFilter[A]) EventHash() common.Hash { return f.eventHash }

// Bloom returns the filter's own bloom pattern.
func (f EventFilter[A]) Bloom() Bloom { return f.bloom }

// Matches reports whether a block or receipt bloom may contain the event.
func (f EventFilter[A]) Matches(bloom Bloom) bool {
	return bloom.Has(f.bloom)
}

// MatchesLog reports whether the log was emitted by the contract with the event as topic 0.
func (f EventFilter[A]) MatchesLog(l Log[A]) bool {
	return l.Address == f.contract && len(l.Topics) > 0 && l.Topics[0] == f.eventHash
}
