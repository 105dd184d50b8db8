package signatory

import (
	"context"
	"errors"

	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server signs every bundle its validator accepts.
type Server struct {
	validator BundleValidator
	signer    Signer
	logger    *zap.Logger
}

var _ SignatoryServer = (*Server)(nil)

func NewServer(validator BundleValidator, signer Signer, logger *zap.Logger) (*Server, error) {
	if validator == nil {
		return nil, errors.New("bundle validator is required")
	}
	if signer == nil {
		return nil, errors.New("signer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{validator: validator, signer: signer, logger: logger.Named("signatory")}, nil
}

func (s *Server) ValidateAndSign(ctx context.Context, req *BundleSummary) (*SignResponse, error) {
	if err := s.validator.Validate(ctx, *req); err != nil {
		s.logger.Warn("bundle rejected",
			zap.Uint64("source_block_number", req.SourceBlockNumber),
			zap.Uint32("index_in_block", req.IndexInSourceBlock),
			zap.Error(err))
		return nil, statusError(err)
	}
	sig, err := s.signer.Sign(ctx, req.BundleHash.Bytes())
	if err != nil {
		s.logger.Error("sign bundle hash", zap.Error(err))
		return nil, status.Error(codes.Internal, "signer failed")
	}
	return &SignResponse{Signature: sig, PublicKey: s.signer.PublicKey()}, nil
}

func statusError(err error) error {
	switch {
	case errors.Is(err, ErrBundleInvalid):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}

// NewGRPCServer builds a gRPC server with the recovery, tags, prometheus and
// zap interceptors and registers srv on it.
func NewGRPCServer(srv SignatoryServer, logger *zap.Logger) *grpc.Server {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	RegisterSignatoryServer(grpcServer, srv)
	grpcPrometheus.Register(grpcServer)
	return grpcServer
}
