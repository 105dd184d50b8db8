// Package aion connects to the destination chain and encodes its transactions.
package aion

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/jsonrpc"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"golang.org/x/crypto/blake2b"
)

const (
	DefaultProcessedEvent        = "ProcessedBundle(bytes32,bytes32)"
	DefaultDistributedEvent      = "Distributed(bytes32,address,uint128)"
	DefaultSuccessfulTxHashEvent = "SuccessfulTxHash(bytes32)"

	accountAddressPrefix = 0xa0
)

// Client is a destination chain endpoint.
type Client = jsonrpc.Client[common.Hash]

// Dial opens a JSON-RPC connection to a destination chain node.
func Dial(ctx context.Context, name, url string, metrics jsonrpc.Metrics) (*Client, error) {
	return jsonrpc.Dial[common.Hash](ctx, name, url, metrics)
}

// NewEventFilter builds a filter for one of the bridge contract's events.
func NewEventFilter(contract common.Hash, eventSignature string) model.EventFilter[common.Hash] {
	return model.NewEventFilter(contract, eventSignature, model.Blake2bHasher)
}

// AddressFromPublicKey derives the account address owned by an ed25519 key.
func AddressFromPublicKey(publicKey common.Hash) common.Hash {
	h := blake2b.Sum256(publicKey.Bytes())
	h[0] = accountAddressPrefix
	return h
}
