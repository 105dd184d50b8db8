// Command signatory validates bundles against the source chain and signs them.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/chain"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/ethereum"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/policy"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/signatory"
	"github.com/goodnatureofminers/bridge-relay/internal/metrics"
	"github.com/goodnatureofminers/bridge-relay/internal/ops"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	Addr          string        `long:"addr" env:"SIGNATORY_ADDR" default:":9000" description:"gRPC listen address"`
	OpsAddr       string        `long:"ops-addr" env:"SIGNATORY_OPS_ADDR" default:":9101" description:"metrics and health HTTP address"`
	SourceURLs    []string      `long:"source-url" env:"SIGNATORY_SOURCE_URLS" env-delim:"," required:"true" description:"source chain JSON-RPC endpoint, repeatable"`
	SourceQuorum  int           `long:"source-quorum" env:"SIGNATORY_SOURCE_QUORUM" default:"1" description:"agreeing source endpoints required"`
	SourceTimeout time.Duration `long:"source-timeout" env:"SIGNATORY_SOURCE_TIMEOUT" default:"30s" description:"source quorum deadline"`
	SourceBridge  string        `long:"source-bridge" env:"SIGNATORY_SOURCE_BRIDGE" required:"true" description:"source bridge contract address"`
	BurnEvent     string        `long:"burn-event" env:"SIGNATORY_BURN_EVENT" default:"Burn(address,bytes32,uint256)" description:"source bridge transfer event signature"`
	BundleSize    int           `long:"bundle-size" env:"SIGNATORY_BUNDLE_SIZE" default:"20" description:"transfers per bundle, must match the relay"`
	CacheSize     int           `long:"cache-size" env:"SIGNATORY_CACHE_SIZE" default:"4096" description:"validated bundles remembered"`
	Seed          string        `long:"seed" env:"SIGNATORY_SEED" required:"true" description:"hex ed25519 seed of the signatory key"`
	LogJSON       bool          `long:"log-json" env:"SIGNATORY_LOG_JSON" description:"production JSON logs"`
}

func main() {
	cfg := config{}
	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		log.Fatalf("failed to parse flags: %v", err)
	}

	var (
		logger *zap.Logger
		err    error
	)
	if cfg.LogJSON {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("signatory stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	if !common.IsHexAddress(cfg.SourceBridge) {
		return fmt.Errorf("source bridge %q is not a 20 byte address", cfg.SourceBridge)
	}
	bundling, err := policy.NewSourceBundlingPolicy(ethereum.NewEventFilter(common.HexToAddress(cfg.SourceBridge), cfg.BurnEvent), cfg.BundleSize)
	if err != nil {
		return err
	}
	key, err := signatory.ParseEnclaveSigner(cfg.Seed)
	if err != nil {
		return fmt.Errorf("signatory key: %w", err)
	}

	source, closeSource, err := dialSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	validator, err := signatory.NewValidator(signatory.ValidatorConfig{
		Source:    source,
		Bundling:  bundling,
		CacheSize: cfg.CacheSize,
		Logger:    logger,
		Metrics:   metrics.NewSignatory(),
	})
	if err != nil {
		return err
	}
	srv, err := signatory.NewServer(validator, key, logger)
	if err != nil {
		return err
	}
	grpcServer := signatory.NewGRPCServer(srv, logger)
	grpcPrometheus.EnableHandlingTimeHistogram()

	socket, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	logger.Info("signatory key", zap.String("public_key", key.PublicKey().Hex()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting gRPC server", zap.String("addr", cfg.Addr))
		return grpcServer.Serve(socket)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
		return nil
	})
	g.Go(func() error {
		return ops.Serve(gctx, cfg.OpsAddr, logger.Named("ops"))
	})
	return g.Wait()
}

func dialSource(ctx context.Context, cfg config, logger *zap.Logger) (*chain.ConsolidatedConnection[common.Address], func(), error) {
	rpcMetrics := metrics.NewRPCClient("source")
	clients := make([]*ethereum.Client, 0, len(cfg.SourceURLs))
	closeAll := func() {
		for _, c := range clients {
			c.Close()
		}
	}

	connections := make([]chain.Connection[common.Address], 0, len(cfg.SourceURLs))
	for i, url := range cfg.SourceURLs {
		c, err := ethereum.Dial(ctx, fmt.Sprintf("source-%d", i), url, rpcMetrics)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		clients = append(clients, c)
		connections = append(connections, c)
	}
	q, err := chain.NewQuorum(chain.QuorumConfig[chain.Connection[common.Address]]{
		Name:        "source",
		Connections: connections,
		Quorum:      cfg.SourceQuorum,
		Timeout:     cfg.SourceTimeout,
		Logger:      logger,
		Metrics:     metrics.NewQuorum(),
	})
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("source quorum: %w", err)
	}
	return chain.NewConsolidatedConnection(q), closeAll, nil
}
