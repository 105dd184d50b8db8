// Command relay moves finalized source chain transfers to the destination chain.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/aion"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/chain"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/ethereum"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/oracle"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/policy"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/relay"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/repository/mysql"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/signatory"
	"github.com/goodnatureofminers/bridge-relay/internal/metrics"
	"github.com/goodnatureofminers/bridge-relay/internal/ops"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/jessevdk/go-flags"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	SourceURLs    []string      `long:"source-url" env:"RELAY_SOURCE_URLS" env-delim:"," required:"true" description:"source chain JSON-RPC endpoint, repeatable"`
	SourceQuorum  int           `long:"source-quorum" env:"RELAY_SOURCE_QUORUM" default:"1" description:"agreeing source endpoints required"`
	SourceTimeout time.Duration `long:"source-timeout" env:"RELAY_SOURCE_TIMEOUT" default:"30s" description:"source quorum deadline"`
	SourceBridge  string        `long:"source-bridge" env:"RELAY_SOURCE_BRIDGE" required:"true" description:"source bridge contract address"`
	BurnEvent     string        `long:"burn-event" env:"RELAY_BURN_EVENT" default:"Burn(address,bytes32,uint256)" description:"source bridge transfer event signature"`
	StartBlock    uint64        `long:"start-block" env:"RELAY_START_BLOCK" description:"source block the history starts from when the store is empty"`
	StartHash     string        `long:"start-hash" env:"RELAY_START_HASH" description:"hash of the start block"`

	DestinationURLs    []string      `long:"destination-url" env:"RELAY_DESTINATION_URLS" env-delim:"," required:"true" description:"destination chain JSON-RPC endpoint, repeatable"`
	DestinationQuorum  int           `long:"destination-quorum" env:"RELAY_DESTINATION_QUORUM" default:"1" description:"agreeing destination endpoints required"`
	DestinationTimeout time.Duration `long:"destination-timeout" env:"RELAY_DESTINATION_TIMEOUT" default:"30s" description:"destination quorum deadline"`
	DestinationBridge  string        `long:"destination-bridge" env:"RELAY_DESTINATION_BRIDGE" required:"true" description:"destination bridge contract address (32 bytes)"`
	ProcessedEvent     string        `long:"processed-event" env:"RELAY_PROCESSED_EVENT" default:"ProcessedBundle(bytes32,bytes32)" description:"destination bundle processed event signature"`
	DistributedEvent   string        `long:"distributed-event" env:"RELAY_DISTRIBUTED_EVENT" default:"Distributed(bytes32,address,uint128)" description:"destination transfer distributed event signature"`
	SuccessfulTxEvent  string        `long:"successful-tx-event" env:"RELAY_SUCCESSFUL_TX_EVENT" default:"SuccessfulTxHash(bytes32)" description:"destination already processed event signature"`

	TipDistance  uint64 `long:"tip-distance" env:"RELAY_TIP_DISTANCE" default:"128" description:"source blocks kept between the tip and the history"`
	BlockBatch   uint64 `long:"block-batch" env:"RELAY_BLOCK_BATCH" default:"100" description:"source blocks fetched per iteration"`
	ReceiptBatch int    `long:"receipt-batch" env:"RELAY_RECEIPT_BATCH" default:"500" description:"source receipts fetched per request group"`
	BundleSize   int    `long:"bundle-size" env:"RELAY_BUNDLE_SIZE" default:"20" description:"transfers per bundle"`

	Signatories      []string      `long:"signatory" env:"RELAY_SIGNATORIES" env-delim:"," required:"true" description:"signatory endpoint as pubkey@host:port, repeatable"`
	SignatoryQuorum  int           `long:"signatory-quorum" env:"RELAY_SIGNATORY_QUORUM" default:"1" description:"signatures required per bundle"`
	SignatoryTimeout time.Duration `long:"signatory-timeout" env:"RELAY_SIGNATORY_TIMEOUT" default:"10s" description:"signature collection deadline"`
	RelayerSeed      string        `long:"relayer-seed" env:"RELAY_RELAYER_SEED" required:"true" description:"hex ed25519 seed of the relayer account"`

	MinDepth          uint64 `long:"min-depth" env:"RELAY_MIN_DEPTH" default:"2" description:"destination confirmations before a receipt is collected"`
	FinalizationDepth uint64 `long:"finalization-depth" env:"RELAY_FINALIZATION_DEPTH" default:"60" description:"destination confirmations before a bundle is final"`
	QueueStored       int    `long:"queue-stored" env:"RELAY_QUEUE_STORED" default:"5120" description:"stored queue capacity"`
	QueueSigned       int    `long:"queue-signed" env:"RELAY_QUEUE_SIGNED" default:"5120" description:"signed queue capacity"`
	QueueSubmitted    int    `long:"queue-submitted" env:"RELAY_QUEUE_SUBMITTED" default:"25600" description:"submitted queue capacity"`
	QueueSealed       int    `long:"queue-sealed" env:"RELAY_QUEUE_SEALED" default:"25600" description:"sealed queue capacity"`
	NumSlotReserve    int    `long:"num-slot-reserve" env:"RELAY_NUM_SLOT_RESERVE" default:"1" description:"free slots a stage waits for before taking work"`

	MySQLDSN      string `long:"mysql-dsn" env:"RELAY_MYSQL_DSN" description:"MySQL DSN of the relay state"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"RELAY_CLICKHOUSE_DSN" description:"optional ClickHouse DSN of the transfer ledger"`

	OpsAddr string `long:"ops-addr" env:"RELAY_OPS_ADDR" default:":9100" description:"metrics and health HTTP address"`
	LogJSON bool   `long:"log-json" env:"RELAY_LOG_JSON" description:"production JSON logs"`
	DryRun  bool   `long:"dry-run" env:"RELAY_DRY_RUN" description:"scan the source chain without storing or relaying anything"`
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

	logger, err := newLogger(cfg.LogJSON)
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
		logger.Fatal("relay stopped with error", zap.Error(err))
	}
}

func newLogger(json bool) (*zap.Logger, error) {
	if json {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg config, logger *zap.Logger) (err error) {
	sourceBridge, err := parseSourceAddress(cfg.SourceBridge)
	if err != nil {
		return err
	}
	destinationBridge, err := parseDestinationAddress(cfg.DestinationBridge)
	if err != nil {
		return err
	}
	start, err := startLink(cfg.StartBlock, cfg.StartHash)
	if err != nil {
		return err
	}
	bundling, err := policy.NewSourceBundlingPolicy(ethereum.NewEventFilter(sourceBridge, cfg.BurnEvent), cfg.BundleSize)
	if err != nil {
		return err
	}

	quorumMetrics := metrics.NewQuorum()
	source, closeSource, err := dialQuorum(ctx, "source", cfg.SourceURLs, cfg.SourceQuorum, cfg.SourceTimeout,
		ethereum.Dial, logger, quorumMetrics)
	if err != nil {
		return err
	}
	defer closeSource()

	if cfg.DryRun {
		return serve(ctx, cfg.OpsAddr, logger, func(ctx context.Context) error {
			return dryRun(ctx, cfg, source, bundling, start, logger)
		})
	}

	if cfg.MySQLDSN == "" {
		return errors.New("mysql dsn is required unless --dry-run is set")
	}
	store, err := mysql.NewRepository(mysql.Config{
		DSN:     cfg.MySQLDSN,
		Logger:  logger,
		Metrics: metrics.NewRepository("mysql"),
	})
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	destination, closeDestination, err := dialQuorum(ctx, "destination", cfg.DestinationURLs, cfg.DestinationQuorum, cfg.DestinationTimeout,
		aion.Dial, logger, quorumMetrics)
	if err != nil {
		return err
	}
	defer closeDestination()

	collector, closeSignatories, err := dialSignatories(cfg.Signatories, cfg.SignatoryQuorum, cfg.SignatoryTimeout, logger, quorumMetrics)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeSignatories())
	}()

	relayerKey, err := signatory.ParseEnclaveSigner(cfg.RelayerSeed)
	if err != nil {
		return fmt.Errorf("relayer key: %w", err)
	}
	txSigner, err := aion.NewTxCodec(relayerKey)
	if err != nil {
		return err
	}
	logger.Info("relayer account",
		zap.String("address", txSigner.Sender().Hex()),
		zap.String("public_key", relayerKey.PublicKey().Hex()))

	var (
		observers []relay.FinalizedObserver
		workers   []func(context.Context) error
	)
	if cfg.ClickhouseDSN != "" {
		ledger, closeLedger, ledgerErr := newLedger(cfg.ClickhouseDSN, logger)
		if ledgerErr != nil {
			return ledgerErr
		}
		defer func() {
			err = multierr.Append(err, closeLedger())
		}()
		observers = append(observers, ledger)
		workers = append(workers, ledger.Run)
	}

	r, err := relay.NewRelay(relay.Config{
		Store: store,
		Source: relay.SourceConfig{
			Connection:       source,
			Bundling:         bundling,
			StartBlock:       start,
			TipDistance:      cfg.TipDistance,
			BlockBatchSize:   cfg.BlockBatch,
			ReceiptBatchSize: cfg.ReceiptBatch,
			Metrics:          metrics.NewOracle("source"),
		},
		Destination: relay.DestinationConfig{
			Chain:                  destination,
			Tip:                    destination,
			BridgeContract:         destinationBridge,
			Unbundling:             policy.NewDestinationUnbundlingPolicy(aion.NewEventFilter(destinationBridge, cfg.ProcessedEvent), aion.NewEventFilter(destinationBridge, cfg.DistributedEvent), logger),
			SuccessfulTxHashFilter: aion.NewEventFilter(destinationBridge, cfg.SuccessfulTxEvent),
			MinDepth:               cfg.MinDepth,
			FinalizationDepth:      cfg.FinalizationDepth,
		},
		Signatories: collector,
		TxSigner:    txSigner,
		Observers:   observers,
		QueueSizes: relay.QueueSizes{
			Stored:    cfg.QueueStored,
			Signed:    cfg.QueueSigned,
			Submitted: cfg.QueueSubmitted,
			Sealed:    cfg.QueueSealed,
		},
		NumSlotReserve: cfg.NumSlotReserve,
		Logger:         logger,
		Metrics:        metrics.NewPipeline(),
	})
	if err != nil {
		return err
	}

	return serve(ctx, cfg.OpsAddr, logger, append(workers, r.Run)...)
}

// serve runs the ops server next to workers. The first failure stops all of them.
func serve(ctx context.Context, opsAddr string, logger *zap.Logger, workers ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ops.Serve(gctx, opsAddr, logger.Named("ops"))
	})
	for _, w := range workers {
		g.Go(func() error {
			return w(gctx)
		})
	}
	return g.Wait()
}

// dryRun follows the source chain into an in-memory history and logs every
// published result set.
func dryRun(ctx context.Context, cfg config, source oracle.Connection[common.Address], bundling *policy.SourceBundlingPolicy, start model.ChainLink, logger *zap.Logger) error {
	published := make(chan oracle.Summary, 16)
	o, err := oracle.New(oracle.Config[common.Address]{
		Name:             "source",
		Connection:       source,
		EventFilter:      bundling.Filter(),
		Sink:             relay.NewNonPersistentChainHistory(start, logger),
		TipDistance:      cfg.TipDistance,
		BlockBatchSize:   cfg.BlockBatch,
		ReceiptBatchSize: cfg.ReceiptBatch,
		Logger:           logger,
		Metrics:          metrics.NewOracle("source"),
		Hooks:            oracle.Hooks{Published: published},
	})
	if err != nil {
		return err
	}

	logger = logger.Named("dry_run")
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-published:
				logger.Info("result set published", zap.Any("summary", s))
			}
		}
	}()

	if err := o.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

var _ relay.DestinationChain = (*chain.ConsolidatedConnection[common.Hash])(nil)
