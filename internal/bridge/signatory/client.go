package signatory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRetry "github.com/grpc-ecosystem/go-grpc-middleware/retry"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	defaultClientRetries    = 2
	defaultClientRetryDelay = 200 * time.Millisecond
)

// Client calls one remote signatory.
type Client struct {
	conn      grpc.ClientConnInterface
	closer    func() error
	publicKey common.Hash
}

var _ BundleSigner = (*Client)(nil)

// NewClient wraps an existing connection. publicKey is the key the signatory must sign with.
func NewClient(conn grpc.ClientConnInterface, publicKey common.Hash) *Client {
	return &Client{conn: conn, publicKey: publicKey, closer: func() error { return nil }}
}

// Dial opens a connection with retry, prometheus and zap client interceptors.
func Dial(target string, publicKey common.Hash, logger *zap.Logger, opts ...grpc.DialOption) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	chain := []grpc.UnaryClientInterceptor{
		grpcRetry.UnaryClientInterceptor(
			grpcRetry.WithMax(defaultClientRetries),
			grpcRetry.WithCodes(codes.Unavailable),
			grpcRetry.WithBackoff(grpcRetry.BackoffLinear(defaultClientRetryDelay)),
		),
		grpcPrometheus.UnaryClientInterceptor,
		grpcZap.UnaryClientInterceptor(logger.Named("signatory_client")),
	}
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(grpcMiddleware.ChainUnaryClient(chain...)),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial signatory %s: %w", target, err)
	}
	return &Client{conn: conn, publicKey: publicKey, closer: conn.Close}, nil
}

func (c *Client) PublicKey() common.Hash { return c.publicKey }

func (c *Client) Close() error { return c.closer() }

func (c *Client) SignBundle(ctx context.Context, summary BundleSummary) (model.Signature, error) {
	var resp SignResponse
	if err := c.conn.Invoke(ctx, validateAndSignMethod, &summary, &resp, grpc.CallContentSubtype(codecName)); err != nil {
		return model.Signature{}, err
	}
	if resp.PublicKey != c.publicKey {
		return model.Signature{}, fmt.Errorf("%w: got %s, want %s", ErrUnexpectedSigner, resp.PublicKey.Hex(), c.publicKey.Hex())
	}
	return model.NewSignature(resp.Signature, resp.PublicKey)
}

// ParseEndpoint splits a "pubkey@host:port" signatory endpoint.
func ParseEndpoint(endpoint string) (common.Hash, string, error) {
	key, target, ok := strings.Cut(endpoint, "@")
	if !ok || target == "" {
		return common.Hash{}, "", fmt.Errorf("signatory endpoint %q: want pubkey@host:port", endpoint)
	}
	raw, err := hexutil.Decode(key)
	if err != nil {
		return common.Hash{}, "", fmt.Errorf("signatory endpoint %q: public key: %w", endpoint, err)
	}
	if len(raw) != common.HashLength {
		return common.Hash{}, "", errors.New("signatory public key must be 32 bytes")
	}
	return common.BytesToHash(raw), target, nil
}
