package signatory

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"google.golang.org/grpc"
)

const (
	serviceName           = "signatory.SignatoryService"
	validateAndSignMethod = "/" + serviceName + "/ValidateAndSign"
)

// SignResponse is the signatory's answer to a BundleSummary.
type SignResponse struct {
	Signature hexutil.Bytes `json:"signature"`
	PublicKey common.Hash   `json:"publicKey"`
}

// SignatoryServer is implemented by Server.
type SignatoryServer interface {
	ValidateAndSign(ctx context.Context, req *BundleSummary) (*SignResponse, error)
}

func RegisterSignatoryServer(s grpc.ServiceRegistrar, srv SignatoryServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SignatoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ValidateAndSign",
			Handler:    validateAndSignHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "signatory.proto",
}

func validateAndSignHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BundleSummary)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SignatoryServer).ValidateAndSign(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: validateAndSignMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SignatoryServer).ValidateAndSign(ctx, req.(*BundleSummary))
	}
	return interceptor(ctx, in, info, handler)
}
