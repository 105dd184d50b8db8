package signatory

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EnclaveSigner holds an ed25519 key in process. It serves both as the
// signatory key and as the relayer's transaction key.
type EnclaveSigner struct {
	key    ed25519.PrivateKey
	public common.Hash
}

func NewEnclaveSigner(seed []byte) (*EnclaveSigner, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	key := ed25519.NewKeyFromSeed(seed)
	return &EnclaveSigner{
		key:    key,
		public: common.BytesToHash(key.Public().(ed25519.PublicKey)),
	}, nil
}

// ParseEnclaveSigner reads a 0x-prefixed hex seed.
func ParseEnclaveSigner(hexSeed string) (*EnclaveSigner, error) {
	seed, err := hexutil.Decode(hexSeed)
	if err != nil {
		return nil, fmt.Errorf("decode ed25519 seed: %w", err)
	}
	return NewEnclaveSigner(seed)
}

func (s *EnclaveSigner) PublicKey() common.Hash { return s.public }

func (s *EnclaveSigner) Sign(ctx context.Context, message []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ed25519.Sign(s.key, message), nil
}
