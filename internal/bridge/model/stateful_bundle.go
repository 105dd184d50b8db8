package model

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a lifecycle method is called from the wrong state.
var ErrInvalidTransition = errors.New("invalid bundle state transition")

// BundleState is a step in a bundle's relay lifecycle.
type BundleState int

const (
	StateBundled BundleState = iota
	StateStored
	StateSigned
	StateSubmitted
	StateSealed
	StateFinalized
)

func (s BundleState) String() string {
	switch s {
	case StateBundled:
		return "BUNDLED"
	case StateStored:
		return "STORED"
	case StateSigned:
		return "SIGNED"
	case StateSubmitted:
		return "SUBMITTED"
	case StateSealed:
		return "SEALED"
	case StateFinalized:
		return "FINALIZED"
	default:
		return fmt.Sprintf("BundleState(%d)", int(s))
	}
}

// StatefulBundle tracks a bundle through the pipeline. Only the stage that
// currently holds it may call its mutators.
type StatefulBundle struct {
	PersistentBundle

	state      BundleState
	signatures []Signature
	submitted  *SubmittedTx
	receipt    *DestinationReceipt
}

// NewStatefulBundle wraps a freshly produced bundle in BUNDLED.
func NewStatefulBundle(b PersistentBundle) *StatefulBundle {
	return &StatefulBundle{PersistentBundle: b, state: StateBundled}
}

// NewStoredBundle wraps a bundle read back from storage in STORED.
func NewStoredBundle(b PersistentBundle) *StatefulBundle {
	return &StatefulBundle{PersistentBundle: b, state: StateStored}
}

func (b *StatefulBundle) State() BundleState           { return b.state }
func (b *StatefulBundle) Signatures() []Signature      { return b.signatures }
func (b *StatefulBundle) Submitted() *SubmittedTx      { return b.submitted }
func (b *StatefulBundle) Receipt() *DestinationReceipt { return b.receipt }

func (b *StatefulBundle) require(want BundleState, op string) error {
	if b.state != want {
		return fmt.Errorf("%w: %s requires %s, bundle %d is %s", ErrInvalidTransition, op, want, b.BundleID, b.state)
	}
	return nil
}

// SetStored marks the bundle as durably persisted.
func (b *StatefulBundle) SetStored() error {
	if err := b.require(StateBundled, "SetStored"); err != nil {
		return err
	}
	b.state = StateStored
	return nil
}

// SetSigned attaches the quorum signature set.
func (b *StatefulBundle) SetSigned(signatures []Signature) error {
	if err := b.require(StateStored, "SetSigned"); err != nil {
		return err
	}
	if len(signatures) == 0 {
		return fmt.Errorf("%w: SetSigned with no signatures", ErrInvalidTransition)
	}
	b.signatures = append([]Signature(nil), signatures...)
	b.state = StateSigned
	return nil
}

// SetSubmitted attaches the destination submission record.
func (b *StatefulBundle) SetSubmitted(tx SubmittedTx) error {
	if err := b.require(StateSigned, "SetSubmitted"); err != nil {
		return err
	}
	b.submitted = &tx
	b.state = StateSubmitted
	return nil
}

// SetSealed attaches the observed destination receipt.
func (b *StatefulBundle) SetSealed(receipt DestinationReceipt) error {
	if err := b.require(StateSubmitted, "SetSealed"); err != nil {
		return err
	}
	b.receipt = &receipt
	b.state = StateSealed
	return nil
}

// ResetSealed swaps the receipt after a destination reorg moved the transaction.
func (b *StatefulBundle) ResetSealed(receipt DestinationReceipt) error {
	if err := b.require(StateSealed, "ResetSealed"); err != nil {
		return err
	}
	b.receipt = &receipt
	return nil
}

// SetFinalized marks the receipt as deep enough and verified.
func (b *StatefulBundle) SetFinalized() error {
	if err := b.require(StateSealed, "SetFinalized"); err != nil {
		return err
	}
	b.state = StateFinalized
	return nil
}
