package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/chain"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/jsonrpc"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/repository/clickhouse"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/signatory"
	"github.com/goodnatureofminers/bridge-relay/internal/metrics"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// dialQuorum opens every endpoint of one chain and consolidates them.
func dialQuorum[A model.Address](
	ctx context.Context,
	name string,
	urls []string,
	quorum int,
	timeout time.Duration,
	dial func(ctx context.Context, name, url string, metrics jsonrpc.Metrics) (*jsonrpc.Client[A], error),
	logger *zap.Logger,
	quorumMetrics chain.Metrics,
) (*chain.ConsolidatedConnection[A], func(), error) {
	rpcMetrics := metrics.NewRPCClient(name)
	clients := make([]*jsonrpc.Client[A], 0, len(urls))
	closeAll := func() {
		for _, c := range clients {
			c.Close()
		}
	}

	connections := make([]chain.Connection[A], 0, len(urls))
	for i, url := range urls {
		c, err := dial(ctx, fmt.Sprintf("%s-%d", name, i), url, rpcMetrics)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		clients = append(clients, c)
		connections = append(connections, c)
	}

	q, err := chain.NewQuorum(chain.QuorumConfig[chain.Connection[A]]{
		Name:        name,
		Connections: connections,
		Quorum:      quorum,
		Timeout:     timeout,
		Logger:      logger,
		Metrics:     quorumMetrics,
	})
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("%s quorum: %w", name, err)
	}
	logger.Info("chain quorum ready",
		zap.String("chain", name),
		zap.Int("endpoints", len(connections)),
		zap.Int("quorum", quorum))
	return chain.NewConsolidatedConnection(q), closeAll, nil
}

// dialSignatories connects to every pubkey@host:port endpoint.
func dialSignatories(endpoints []string, quorum int, timeout time.Duration, logger *zap.Logger, quorumMetrics chain.Metrics) (*signatory.Collector, func() error, error) {
	clients := make([]*signatory.Client, 0, len(endpoints))
	closeAll := func() error {
		var err error
		for _, c := range clients {
			err = multierr.Append(err, c.Close())
		}
		return err
	}

	signers := make([]signatory.BundleSigner, 0, len(endpoints))
	for _, endpoint := range endpoints {
		key, target, err := signatory.ParseEndpoint(endpoint)
		if err != nil {
			return nil, nil, multierr.Append(err, closeAll())
		}
		c, err := signatory.Dial(target, key, logger)
		if err != nil {
			return nil, nil, multierr.Append(err, closeAll())
		}
		clients = append(clients, c)
		signers = append(signers, c)
	}

	collector, err := signatory.NewCollector(signatory.CollectorConfig{
		Signers: signers,
		Quorum:  quorum,
		Timeout: timeout,
		Logger:  logger,
		Metrics: quorumMetrics,
	})
	if err != nil {
		return nil, nil, multierr.Append(err, closeAll())
	}
	return collector, closeAll, nil
}

func newLedger(dsn string, logger *zap.Logger) (*clickhouse.Ledger, func() error, error) {
	repo, err := clickhouse.NewRepository(dsn, metrics.NewRepository("clickhouse"))
	if err != nil {
		return nil, nil, err
	}
	ledger, err := clickhouse.NewLedger(clickhouse.LedgerConfig{Writer: repo, Logger: logger})
	if err != nil {
		return nil, nil, multierr.Append(err, repo.Close())
	}
	return ledger, repo.Close, nil
}

func parseSourceAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("source bridge %q is not a 20 byte address", s)
	}
	return common.HexToAddress(s), nil
}

func parseDestinationAddress(s string) (common.Hash, error) {
	raw, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("destination bridge: %w", err)
	}
	if len(raw) != common.HashLength {
		return common.Hash{}, fmt.Errorf("destination bridge must be %d bytes, got %d", common.HashLength, len(raw))
	}
	return common.BytesToHash(raw), nil
}

// startLink is the history head used when nothing was stored yet.
func startLink(number uint64, hash string) (model.ChainLink, error) {
	if hash == "" {
		if number != 0 {
			return model.ChainLink{}, errors.New("start hash is required with a start block")
		}
		return model.ChainLink{}, nil
	}
	raw, err := hexutil.Decode(hash)
	if err != nil {
		return model.ChainLink{}, fmt.Errorf("start hash: %w", err)
	}
	if len(raw) != common.HashLength {
		return model.ChainLink{}, fmt.Errorf("start hash must be %d bytes, got %d", common.HashLength, len(raw))
	}
	return model.ChainLink{Number: number, Hash: common.BytesToHash(raw)}, nil
}
