package relay

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/bridge-relay/internal/clock"
	"go.uber.org/zap"
)

// TipState polls the destination tip and publishes it as an atomic snapshot.
type TipState struct {
	source    TipSource
	store     DataStore
	logger    *zap.Logger
	metrics   Metrics
	sleep     clock.Sleeper
	interval  time.Duration
	maxErrors int

	latest atomic.Pointer[uint64]
}

var _ TipReader = (*TipState)(nil)

// NewTipState builds a tracker. store may be nil, in which case the tip is not persisted.
func NewTipState(source TipSource, store DataStore, logger *zap.Logger, metrics Metrics) (*TipState, error) {
	if source == nil {
		return nil, errors.New("tip source is required")
	}
	if metrics == nil {
		return nil, errors.New("tip state metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TipState{
		source:    source,
		store:     store,
		logger:    logger.Named("tip_state"),
		metrics:   metrics,
		sleep:     clock.SleepWithContext,
		interval:  defaultTipInterval,
		maxErrors: defaultTipMaxErrors,
	}, nil
}

// BlockNumber returns the last agreed tip, false before the first successful poll.
func (s *TipState) BlockNumber() (uint64, bool) {
	p := s.latest.Load()
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Run polls until ctx is done, the DataStore fails or the quorum is lost too often.
func (s *TipState) Run(ctx context.Context) error {
	consecutive := 0
	for {
		err := s.poll(ctx)
		switch {
		case err == nil:
			consecutive = 0
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, ErrPersistence):
			s.logger.Error("tip state stopped", zap.Error(err))
			return err
		default:
			consecutive++
			s.logger.Debug("tip poll failed", zap.Error(err), zap.Int("consecutive_errors", consecutive))
			if consecutive >= s.maxErrors {
				s.logger.Error("tip state gave up", zap.Error(err))
				return fmt.Errorf("%w: tip state: %w", ErrTooManyErrors, err)
			}
		}

		if err := s.sleep(ctx, s.interval); err != nil {
			return err
		}
	}
}

func (s *TipState) poll(ctx context.Context) error {
	number, ok, err := s.source.LatestBlockNumber(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errTipUnknown
	}
	s.latest.Store(&number)
	s.metrics.ObserveTip(number)

	if s.store != nil {
		if err := s.store.StoreLatestBlock(ctx, number); err != nil {
			return fmt.Errorf("%w: store latest block: %w", ErrPersistence, err)
		}
	}
	return nil
}
