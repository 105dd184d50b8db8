package model

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/blake2b"
)

// TransferLength is the size of a transfer's canonical encoding.
const TransferLength = common.HashLength*2 + AmountLength

// Transfer is one value movement observed on the source chain.
// Its hash is fixed at construction.
type Transfer struct {
	sourceTxHash common.Hash
	recipient    common.Hash
	amount       Amount
	hash         common.Hash
}

// NewTransfer builds a transfer and derives its hash.
func NewTransfer(sourceTxHash, recipient common.Hash, amount Amount) Transfer {
	t := Transfer{sourceTxHash: sourceTxHash, recipient: recipient, amount: amount}
	t.hash = blake2b.Sum256(t.Bytes())
	return t
}

// ParseTransfer decodes the canonical encoding produced by Bytes.
func ParseTransfer(b []byte) (Transfer, error) {
	if len(b) != TransferLength {
		return Transfer{}, fmt.Errorf("transfer encoding must be %d bytes, got %d", TransferLength, len(b))
	}
	var amount Amount
	copy(amount[:], b[2*common.HashLength:])
	return NewTransfer(
		common.BytesToHash(b[:common.HashLength]),
		common.BytesToHash(b[common.HashLength:2*common.HashLength]),
		amount,
	), nil
}

func (t Transfer) SourceTxHash() common.Hash { return t.sourceTxHash }
func (t Transfer) Recipient() common.Hash    { return t.recipient }
func (t Transfer) Amount() Amount            { return t.amount }
func (t Transfer) Hash() common.Hash         { return t.hash }

// Bytes is sourceTxHash || recipient || amount.
func (t Transfer) Bytes() []byte {
	out := make([]byte, 0, TransferLength)
	out = append(out, t.sourceTxHash[:]...)
	out = append(out, t.recipient[:]...)
	return append(out, t.amount[:]...)
}

type transferJSON struct {
	SourceTxHash common.Hash `json:"sourceTxHash"`
	Recipient    common.Hash `json:"recipient"`
	Amount       Amount      `json:"amount"`
}

// MarshalJSON is the storage form of a transfer.
func (t Transfer) MarshalJSON() ([]byte, error) {
	return json.Marshal(transferJSON{SourceTxHash: t.sourceTxHash, Recipient: t.recipient, Amount: t.amount})
}

// UnmarshalJSON restores a transfer and recomputes its hash.
func (t *Transfer) UnmarshalJSON(input []byte) error {
	var dec transferJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	*t = NewTransfer(dec.SourceTxHash, dec.Recipient, dec.Amount)
	return nil
}
