package relay

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/bridge-relay/internal/clock"
	"go.uber.org/zap"
)

// BalanceState records the destination balances of the bridge contract and the relayer.
type BalanceState struct {
	chain     DestinationChain
	tip       TipReader
	store     DataStore
	entities  map[string]common.Hash
	logger    *zap.Logger
	metrics   Metrics
	sleep     clock.Sleeper
	interval  time.Duration
	maxErrors int
}

func NewBalanceState(chain DestinationChain, tip TipReader, store DataStore, bridge, relayer common.Hash, logger *zap.Logger, metrics Metrics) (*BalanceState, error) {
	if chain == nil {
		return nil, errors.New("destination chain is required")
	}
	if tip == nil {
		return nil, errors.New("tip reader is required")
	}
	if store == nil {
		return nil, errors.New("data store is required")
	}
	if metrics == nil {
		return nil, errors.New("balance state metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BalanceState{
		chain:     chain,
		tip:       tip,
		store:     store,
		entities:  map[string]common.Hash{EntityBridge: bridge, EntityRelayer: relayer},
		logger:    logger.Named("balance_state"),
		metrics:   metrics,
		sleep:     clock.SleepWithContext,
		interval:  defaultBalanceInterval,
		maxErrors: defaultBalanceMaxErrs,
	}, nil
}

func (s *BalanceState) Run(ctx context.Context) error {
	consecutive := 0
	for {
		err := s.poll(ctx)
		switch {
		case err == nil:
			consecutive = 0
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, ErrPersistence):
			s.logger.Error("balance state stopped", zap.Error(err))
			return err
		default:
			consecutive++
			s.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", s.interval))
			if consecutive >= s.maxErrors {
				return fmt.Errorf("%w: balance state: %w", ErrTooManyErrors, err)
			}
		}

		if err := s.sleep(ctx, s.interval); err != nil {
			return err
		}
	}
}

func (s *BalanceState) poll(ctx context.Context) error {
	blockNumber, ok := s.tip.BlockNumber()
	if !ok {
		return errTipUnknown
	}
	for _, entity := range []string{EntityBridge, EntityRelayer} {
		balance, err := s.chain.Balance(ctx, s.entities[entity])
		if err != nil {
			return fmt.Errorf("%s balance: %w", entity, err)
		}
		if err := s.store.StoreEntityBalance(ctx, entity, balance, blockNumber); err != nil {
			return fmt.Errorf("%w: store %s balance: %w", ErrPersistence, entity, err)
		}
		f, _ := new(big.Float).SetInt(balance).Float64()
		s.metrics.ObserveBalance(entity, f)
	}
	return nil
}
