package model

import (
	"crypto/ed25519"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// SignatureLength is the size of an ed25519 signature.
const SignatureLength = ed25519.SignatureSize

// Signature is a signatory's attestation of a bundle hash.
type Signature struct {
	Signature [SignatureLength]byte
	PublicKey common.Hash
}

// NewSignature validates the raw signature length.
func NewSignature(sig []byte, publicKey common.Hash) (Signature, error) {
	if len(sig) != SignatureLength {
		return Signature{}, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	s := Signature{PublicKey: publicKey}
	copy(s.Signature[:], sig)
	return s, nil
}

// IsZero reports whether the signature or public key is unset.
func (s Signature) IsZero() bool {
	return s.Signature == [SignatureLength]byte{} || s.PublicKey == (common.Hash{})
}

// Verify checks the signature against message with the embedded public key.
func (s Signature) Verify(message []byte) bool {
	return ed25519.Verify(s.PublicKey.Bytes(), message, s.Signature[:])
}

// Halves splits the signature into the two 32-byte words the bridge contract expects.
func (s Signature) Halves() (common.Hash, common.Hash) {
	return common.BytesToHash(s.Signature[:32]), common.BytesToHash(s.Signature[32:])
}
