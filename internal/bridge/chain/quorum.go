package chain

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// Quorum fans calls out to a fixed set of connections.
type Quorum[C any] struct {
	name        string
	connections []C
	quorum      int
	timeout     time.Duration
	logger      *zap.Logger
	metrics     Metrics
}

// QuorumConfig configures a Quorum. A zero Timeout disables the deadline.
type QuorumConfig[C any] struct {
	Name        string
	Connections []C
	Quorum      int
	Timeout     time.Duration
	Logger      *zap.Logger
	Metrics     Metrics
}

// NewQuorum validates cfg and builds a Quorum.
func NewQuorum[C any](cfg QuorumConfig[C]) (*Quorum[C], error) {
	if len(cfg.Connections) == 0 {
		return nil, errors.New("at least one connection is required")
	}
	if cfg.Quorum < 1 || cfg.Quorum > len(cfg.Connections) {
		return nil, fmt.Errorf("quorum %d must be between 1 and %d", cfg.Quorum, len(cfg.Connections))
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("timeout must not be negative")
	}
	if cfg.Metrics == nil {
		return nil, errors.New("quorum metrics is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		logger.Warn("quorum timeout disabled", zap.String("chain", cfg.Name))
	}

	connections := make([]C, len(cfg.Connections))
	copy(connections, cfg.Connections)

	return &Quorum[C]{
		name:        cfg.Name,
		connections: connections,
		quorum:      cfg.Quorum,
		timeout:     cfg.Timeout,
		logger:      logger.Named("quorum").With(zap.String("chain", cfg.Name)),
		metrics:     cfg.Metrics,
	}, nil
}

// Name identifies the chain the quorum talks to.
func (q *Quorum[C]) Name() string { return q.name }

// Size is the number of connections.
func (q *Quorum[C]) Size() int { return len(q.connections) }

// Threshold is the number of agreeing connections required.
func (q *Quorum[C]) Threshold() int { return q.quorum }

type response[T any] struct {
	index int
	value T
	err   error
}

type tally[T any] struct {
	value T
	votes int
}

// Consolidate calls every connection concurrently and returns the first value
// that q.Threshold() connections returned identically. Failed calls do not vote.
func Consolidate[C, T any](ctx context.Context, q *Quorum[C], op string, call func(context.Context, C) (T, error)) (result T, err error) {
	started := time.Now()
	defer func() {
		q.metrics.ObserveCall(q.name, op, err, started)
	}()

	parent := ctx
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	responses := dispatch(ctx, q, op, call)
	tallies := make([]tally[T], 0, len(q.connections))
	for received := 0; received < len(q.connections); {
		select {
		case <-ctx.Done():
			return result, q.expired(parent, op, received)
		case r := <-responses:
			received++
			if r.err != nil {
				continue
			}
			if value, ok := vote(&tallies, r.value, q.quorum); ok {
				return value, nil
			}
		}
	}

	return result, fmt.Errorf("%w: %s: %d responses without %d agreeing", ErrQuorumNotAvailable, op, len(q.connections), q.quorum)
}

// Collect gathers successful responses whether or not they agree. With
// stopAtQuorum it returns as soon as q.Threshold() responses arrived, otherwise
// it waits for every connection or the deadline.
func Collect[C, T any](ctx context.Context, q *Quorum[C], op string, call func(context.Context, C) (T, error), stopAtQuorum bool) (results []T, err error) {
	started := time.Now()
	defer func() {
		q.metrics.ObserveCall(q.name, op, err, started)
	}()

	parent := ctx
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	responses := dispatch(ctx, q, op, call)
	results = make([]T, 0, len(q.connections))

collect:
	for received := 0; received < len(q.connections); {
		select {
		case <-ctx.Done():
			if parent.Err() != nil {
				return nil, parent.Err()
			}
			break collect
		case r := <-responses:
			received++
			if r.err != nil {
				continue
			}
			results = append(results, r.value)
			if stopAtQuorum && len(results) >= q.quorum {
				break collect
			}
		}
	}

	if len(results) < q.quorum {
		return nil, fmt.Errorf("%w: %s: collected %d of %d", ErrQuorumNotAvailable, op, len(results), q.quorum)
	}
	return results, nil
}

func dispatch[C, T any](ctx context.Context, q *Quorum[C], op string, call func(context.Context, C) (T, error)) <-chan response[T] {
	responses := make(chan response[T], len(q.connections))
	for i, conn := range q.connections {
		go func(i int, conn C) {
			value, err := call(ctx, conn)
			if err != nil && ctx.Err() == nil {
				q.metrics.ObserveConnectionError(q.name, op)
				q.logger.Debug("connection call failed", zap.String("operation", op), zap.Int("connection", i), zap.Error(err))
			}
			responses <- response[T]{index: i, value: value, err: err}
		}(i, conn)
	}
	return responses
}

func vote[T any](tallies *[]tally[T], value T, quorum int) (T, bool) {
	for i := range *tallies {
		t := &(*tallies)[i]
		if reflect.DeepEqual(t.value, value) {
			t.votes++
			return t.value, t.votes >= quorum
		}
	}
	*tallies = append(*tallies, tally[T]{value: value, votes: 1})
	return value, quorum <= 1
}

func (q *Quorum[C]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, q.timeout)
}

func (q *Quorum[C]) expired(parent context.Context, op string, received int) error {
	if err := parent.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s: timed out after %s with %d of %d responses", ErrQuorumNotAvailable, op, q.timeout, received, len(q.connections))
}
