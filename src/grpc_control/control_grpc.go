package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service only uses well-known message types, so the descriptor is
// declared by hand instead of generated from a .proto file. Views travel as
// their JSON encoding so int64 cents and timestamps stay exact:
//
//	service PortfolioControl {
//	  rpc GetState(google.protobuf.Empty) returns (google.protobuf.BytesValue);
//	  rpc Load(google.protobuf.Empty) returns (google.protobuf.BytesValue);
//	  rpc Search(google.protobuf.StringValue) returns (google.protobuf.BytesValue);
//	}
const (
	ServiceName        = "portfolio.PortfolioControl"
	getStateFullMethod = "/" + ServiceName + "/GetState"
	loadFullMethod     = "/" + ServiceName + "/Load"
	searchFullMethod   = "/" + ServiceName + "/Search"
)

// -----------------------------------------------------------------------------
// Server API
// -----------------------------------------------------------------------------

type PortfolioControlServer interface {
	GetState(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
	Load(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
	Search(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedPortfolioControlServer can be embedded for forward compatibility.
type UnimplementedPortfolioControlServer struct{}

func (UnimplementedPortfolioControlServer) GetState(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetState not implemented")
}
func (UnimplementedPortfolioControlServer) Load(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Load not implemented")
}
func (UnimplementedPortfolioControlServer) Search(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Search not implemented")
}

// -----------------------------------------------------------------------------

func RegisterPortfolioControlServer(s grpc.ServiceRegistrar, srv PortfolioControlServer) {
	s.RegisterService(&PortfolioControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

func _PortfolioControl_GetState_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioControlServer).GetState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getStateFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioControlServer).GetState(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _PortfolioControl_Load_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioControlServer).Load(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: loadFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioControlServer).Load(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _PortfolioControl_Search_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioControlServer).Search(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: searchFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioControlServer).Search(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var PortfolioControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetState", Handler: _PortfolioControl_GetState_Handler},
		{MethodName: "Load", Handler: _PortfolioControl_Load_Handler},
		{MethodName: "Search", Handler: _PortfolioControl_Search_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "portfolio_control.proto",
}

// -----------------------------------------------------------------------------
// Client API
// -----------------------------------------------------------------------------

type PortfolioControlClient interface {
	GetState(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Load(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Search(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type portfolioControlClient struct {
	cc grpc.ClientConnInterface
}

func NewPortfolioControlClient(cc grpc.ClientConnInterface) PortfolioControlClient {
	return &portfolioControlClient{cc}
}

func (c *portfolioControlClient) GetState(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, getStateFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *portfolioControlClient) Load(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, loadFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *portfolioControlClient) Search(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, searchFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
