package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// NonceManager hands out relayer nonces. It starts from the quorum account
// nonce and never reuses a value.
type NonceManager struct {
	mu   sync.Mutex
	next uint64
}

func NewNonceManager(ctx context.Context, chain DestinationChain, account common.Hash) (*NonceManager, error) {
	nonce, err := chain.Nonce(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("relayer nonce for %s: %w", account.Hex(), err)
	}
	return &NonceManager{next: nonce}, nil
}

// Next returns the current nonce and advances it.
func (m *NonceManager) Next() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.next
	m.next++
	return n
}

// Peek returns the nonce Next would hand out.
func (m *NonceManager) Peek() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next
}
