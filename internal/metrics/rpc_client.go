package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of node JSON-RPC operations.",
	}, []string{"chain", "endpoint", "method", "status"})
	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of node JSON-RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"chain", "endpoint", "method", "status"})
)

// RPCClient tracks metrics for JSON-RPC calls to chain nodes.
type RPCClient struct {
	chain string
}

// NewRPCClient constructs a metrics collector for RPC calls of one chain.
func NewRPCClient(chain string) *RPCClient {
	return &RPCClient{chain: orUnknown(chain)}
}

// Observe records a single RPC call outcome and duration.
func (m RPCClient) Observe(endpoint, method string, err error, started time.Time) {
	s := status(err)
	rpcRequestsTotal.WithLabelValues(m.chain, endpoint, method, s).Inc()
	rpcRequestDuration.WithLabelValues(m.chain, endpoint, method, s).Observe(time.Since(started).Seconds())
}
