// Package ethereum connects to the source chain.
package ethereum

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/jsonrpc"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
)

// DefaultBurnEvent is emitted by the source bridge contract for every transfer out.
const DefaultBurnEvent = "Burn(address,bytes32,uint256)"

// Client is a source chain endpoint.
type Client = jsonrpc.Client[common.Address]

// Dial opens a JSON-RPC connection to a source chain node.
func Dial(ctx context.Context, name, url string, metrics jsonrpc.Metrics) (*Client, error) {
	return jsonrpc.Dial[common.Address](ctx, name, url, metrics)
}

// NewEventFilter builds a filter for the bridge contract's burn event.
func NewEventFilter(contract common.Address, eventSignature string) model.EventFilter[common.Address] {
	return model.NewEventFilter(contract, eventSignature, model.KeccakHasher)
}
