package model

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

const (
	// BloomLength is the size of a block or receipt bloom in bytes.
	BloomLength = 256

	bloomHashBytes = 6
	bloomBitMask   = 2047
)

// Hasher maps an element to the digest whose leading bytes select bloom bits.
type Hasher func([]byte) []byte

// KeccakHasher is used by the source chain.
func KeccakHasher(data []byte) []byte {
	return crypto.Keccak256(data)
}

// Blake2bHasher is used by the destination chain.
func Blake2bHasher(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// Bloom is a 2048-bit membership filter. Bit 0 is the lowest bit of the last byte.
type Bloom [BloomLength]byte

// BytesToBloom copies b into a bloom, rejecting payloads of the wrong length.
func BytesToBloom(b []byte) (Bloom, error) {
	var bloom Bloom
	if len(b) != BloomLength {
		return bloom, fmt.Errorf("bloom must be %d bytes, got %d", BloomLength, len(b))
	}
	copy(bloom[:], b)
	return bloom, nil
}

// Add hashes data with hasher and sets the three selected bits.
func (b *Bloom) Add(hasher Hasher, data []byte) {
	b.addHash(hasher(data))
}

func (b *Bloom) addHash(h []byte) {
	for i := 0; i < bloomHashBytes; i += 2 {
		bit := (uint(h[i])<<8 | uint(h[i+1])) & bloomBitMask
		b[BloomLength-1-bit/8] |= 1 << (bit % 8)
	}
}

// Or merges other into b in place.
func (b *Bloom) Or(other Bloom) {
	for i := range b {
		b[i] |= other[i]
	}
}

// Has reports whether every bit set in other is also set in b.
func (b Bloom) Has(other Bloom) bool {
	for i := range b {
		if b[i]&other[i] != other[i] {
			return false
		}
	}
	return true
}

// Test reports whether data may have been added to b.
func (b Bloom) Test(hasher Hasher, data []byte) bool {
	var probe Bloom
	probe.Add(hasher, data)
	return b.Has(probe)
}

// IsZero reports whether no bit is set.
func (b Bloom) IsZero() bool {
	return b == Bloom{}
}

// MarshalText encodes the bloom as 0x-prefixed hex.
func (b Bloom) MarshalText() ([]byte, error) {
	return hexutil.Bytes(b[:]).MarshalText()
}

// UnmarshalText decodes a 0x-prefixed hex bloom.
func (b *Bloom) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Bloom", input, b[:])
}
