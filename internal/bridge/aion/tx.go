package aion

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/pkg/safe"
	"golang.org/x/crypto/blake2b"
)

const (
	DefaultEnergy      = 1_000_000
	DefaultEnergyPrice = 10_000_000_000

	transactionType = 0x01
)

var ErrInvalidTransaction = errors.New("invalid transaction")

// TxSigner signs transaction hashes on behalf of the relayer account.
type TxSigner interface {
	PublicKey() common.Hash
	Sign(ctx context.Context, message []byte) ([]byte, error)
}

// Transaction is an unsigned destination chain transaction.
type Transaction struct {
	Nonce       uint64
	To          common.Hash
	Value       *big.Int
	Data        []byte
	Timestamp   uint64 // microseconds
	Energy      uint64
	EnergyPrice uint64
}

// SignedTransaction is ready to be sent with eth_sendRawTransaction.
type SignedTransaction struct {
	Raw  []byte
	Hash common.Hash
}

type rawTransaction struct {
	Nonce       uint64
	To          []byte
	Value       *big.Int
	Data        []byte
	Timestamp   uint64
	Energy      uint64
	EnergyPrice uint64
	Type        uint8
}

type signedTransaction struct {
	Nonce       uint64
	To          []byte
	Value       *big.Int
	Data        []byte
	Timestamp   uint64
	Energy      uint64
	EnergyPrice uint64
	Type        uint8
	Signature   []byte
}

// TxCodec encodes and signs destination chain transactions.
type TxCodec struct {
	signer TxSigner
	now    func() time.Time
}

func NewTxCodec(signer TxSigner) (*TxCodec, error) {
	if signer == nil {
		return nil, errors.New("tx signer is required")
	}
	return &TxCodec{signer: signer, now: time.Now}, nil
}

// Sender is the account the codec signs for.
func (c *TxCodec) Sender() common.Hash {
	return AddressFromPublicKey(c.signer.PublicKey())
}

// Sign encodes tx, signs the blake2b hash of the encoding and appends the
// public key and signature. A zero timestamp is replaced by the current time.
func (c *TxCodec) Sign(ctx context.Context, tx Transaction) (SignedTransaction, error) {
	if tx.Timestamp == 0 {
		ts, err := safe.Uint64(c.now().UnixMicro())
		if err != nil {
			return SignedTransaction{}, fmt.Errorf("timestamp: %w", err)
		}
		tx.Timestamp = ts
	}
	if tx.Energy == 0 {
		tx.Energy = DefaultEnergy
	}
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}

	raw, err := rlp.EncodeToBytes(rawTransaction{
		Nonce:       tx.Nonce,
		To:          tx.To.Bytes(),
		Value:       value,
		Data:        tx.Data,
		Timestamp:   tx.Timestamp,
		Energy:      tx.Energy,
		EnergyPrice: tx.EnergyPrice,
		Type:        transactionType,
	})
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("encode raw transaction: %w", err)
	}

	hash := blake2b.Sum256(raw)
	sig, err := c.signer.Sign(ctx, hash[:])
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("sign transaction: %w", err)
	}
	if len(sig) != model.SignatureLength {
		return SignedTransaction{}, fmt.Errorf("%w: signature is %d bytes", ErrInvalidTransaction, len(sig))
	}

	pkSig := make([]byte, 0, common.HashLength+model.SignatureLength)
	pkSig = append(pkSig, c.signer.PublicKey().Bytes()...)
	pkSig = append(pkSig, sig...)

	final, err := rlp.EncodeToBytes(signedTransaction{
		Nonce:       tx.Nonce,
		To:          tx.To.Bytes(),
		Value:       value,
		Data:        tx.Data,
		Timestamp:   tx.Timestamp,
		Energy:      tx.Energy,
		EnergyPrice: tx.EnergyPrice,
		Type:        transactionType,
		Signature:   pkSig,
	})
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("encode signed transaction: %w", err)
	}
	return SignedTransaction{Raw: final, Hash: hash}, nil
}

// DecodeTransaction parses a signed transaction and verifies its signature.
func DecodeTransaction(raw []byte) (Transaction, model.Signature, error) {
	var st signedTransaction
	if err := rlp.DecodeBytes(raw, &st); err != nil {
		return Transaction{}, model.Signature{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}
	if st.Type != transactionType || len(st.To) != common.HashLength {
		return Transaction{}, model.Signature{}, fmt.Errorf("%w: unexpected layout", ErrInvalidTransaction)
	}
	if len(st.Signature) != ed25519.PublicKeySize+model.SignatureLength {
		return Transaction{}, model.Signature{}, fmt.Errorf("%w: signature field is %d bytes", ErrInvalidTransaction, len(st.Signature))
	}

	tx := Transaction{
		Nonce:       st.Nonce,
		To:          common.BytesToHash(st.To),
		Value:       st.Value,
		Data:        st.Data,
		Timestamp:   st.Timestamp,
		Energy:      st.Energy,
		EnergyPrice: st.EnergyPrice,
	}
	sig, err := model.NewSignature(st.Signature[ed25519.PublicKeySize:], common.BytesToHash(st.Signature[:ed25519.PublicKeySize]))
	if err != nil {
		return Transaction{}, model.Signature{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	unsigned, err := rlp.EncodeToBytes(rawTransaction{
		Nonce:       st.Nonce,
		To:          st.To,
		Value:       st.Value,
		Data:        st.Data,
		Timestamp:   st.Timestamp,
		Energy:      st.Energy,
		EnergyPrice: st.EnergyPrice,
		Type:        st.Type,
	})
	if err != nil {
		return Transaction{}, model.Signature{}, fmt.Errorf("re-encode transaction: %w", err)
	}
	hash := blake2b.Sum256(unsigned)
	if !sig.Verify(hash[:]) {
		return Transaction{}, model.Signature{}, fmt.Errorf("%w: bad signature", ErrInvalidTransaction)
	}
	return tx, sig, nil
}
