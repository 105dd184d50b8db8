package aion

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
)

const (
	SubmitBundleSignature = "submitBundle(bytes32,bytes32[],address[],uint128[],bytes32[],bytes32[],bytes32[])"
	ActionMapSignature    = "actionMap(bytes32)"

	wordLength = 16
)

var ErrShortOutput = errors.New("contract output too short")

// Arg is one encoded FVM call argument.
type Arg struct {
	dynamic bool
	body    []byte
}

func Bytes32(h common.Hash) Arg { return Arg{body: h.Bytes()} }

func Address(a common.Hash) Arg { return Arg{body: a.Bytes()} }

func Uint128(a model.Amount) Arg { return Arg{body: a[:]} }

func Bytes32List(items []common.Hash) Arg {
	body := make([]byte, 0, len(items)*common.HashLength)
	for _, h := range items {
		body = append(body, h.Bytes()...)
	}
	return list(len(items), body)
}

func AddressList(items []common.Hash) Arg { return Bytes32List(items) }

func Uint128List(items []model.Amount) Arg {
	body := make([]byte, 0, len(items)*model.AmountLength)
	for _, a := range items {
		body = append(body, a[:]...)
	}
	return list(len(items), body)
}

func list(count int, elements []byte) Arg {
	body := make([]byte, 0, wordLength+len(elements))
	body = append(body, word(uint64(count))...)
	body = append(body, elements...)
	return Arg{dynamic: true, body: body}
}

func word(v uint64) []byte {
	w := make([]byte, wordLength)
	new(big.Int).SetUint64(v).FillBytes(w)
	return w
}

// Selector is the 4-byte function identifier of a call signature.
func Selector(signature string) [4]byte {
	var s [4]byte
	copy(s[:], crypto.Keccak256([]byte(signature))[:4])
	return s
}

// EncodeCall lays out static arguments in place and dynamic ones as offsets
// into a tail that follows the head.
func EncodeCall(signature string, args ...Arg) []byte {
	selector := Selector(signature)

	offset := 0
	tailLength := 0
	for _, a := range args {
		if a.dynamic {
			offset += wordLength
			tailLength += len(a.body)
		} else {
			offset += len(a.body)
		}
	}

	out := make([]byte, 0, len(selector)+offset+tailLength)
	out = append(out, selector[:]...)
	for _, a := range args {
		if !a.dynamic {
			out = append(out, a.body...)
			continue
		}
		out = append(out, word(uint64(offset))...)
		offset += len(a.body)
	}
	for _, a := range args {
		if a.dynamic {
			out = append(out, a.body...)
		}
	}
	return out
}

// EncodeSubmitBundle builds the call data that submits a signed bundle.
func EncodeSubmitBundle(bundle model.Bundle, signatures []model.Signature) ([]byte, error) {
	if len(signatures) == 0 {
		return nil, errors.New("bundle has no signatures")
	}

	var (
		txHashes   = make([]common.Hash, len(bundle.Transfers))
		recipients = make([]common.Hash, len(bundle.Transfers))
		amounts    = make([]model.Amount, len(bundle.Transfers))
		publicKeys = make([]common.Hash, len(signatures))
		sigHeads   = make([]common.Hash, len(signatures))
		sigTails   = make([]common.Hash, len(signatures))
	)
	for i, t := range bundle.Transfers {
		txHashes[i] = t.SourceTxHash()
		recipients[i] = t.Recipient()
		amounts[i] = t.Amount()
	}
	for i, s := range signatures {
		publicKeys[i] = s.PublicKey
		sigHeads[i], sigTails[i] = s.Halves()
	}

	return EncodeCall(SubmitBundleSignature,
		Bytes32(bundle.SourceBlockHash),
		Bytes32List(txHashes),
		AddressList(recipients),
		Uint128List(amounts),
		Bytes32List(publicKeys),
		Bytes32List(sigHeads),
		Bytes32List(sigTails),
	), nil
}

// EncodeActionMap builds the call data that looks up the transaction which
// processed a bundle.
func EncodeActionMap(bundleHash common.Hash) []byte {
	return EncodeCall(ActionMapSignature, Bytes32(bundleHash))
}

// DecodeBytes32 reads a single bytes32 return value.
func DecodeBytes32(output []byte) (common.Hash, error) {
	if len(output) < common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: %d bytes", ErrShortOutput, len(output))
	}
	return common.BytesToHash(output[:common.HashLength]), nil
}
