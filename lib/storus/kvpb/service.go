package kvpb

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified name of the KvService. The contract is
// declared without a proto package.
const ServiceName = "KvService"

// full method names of the KvService
const (
	MethodGet                      = "/" + ServiceName + "/GetService"
	MethodSetKey                   = "/" + ServiceName + "/SetKeyService"
	MethodSetSecretKey             = "/" + ServiceName + "/SetSecretKeyService"
	MethodDeleteKey                = "/" + ServiceName + "/DeleteKeyService"
	MethodGetByNamespaceAndProfile = "/" + ServiceName + "/GetServiceByNamespaceAndProfile"
)

// KvServiceClient is the client side of the KvService.
type KvServiceClient interface {
	GetService(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*StringResponse, error)
	SetKeyService(ctx context.Context, in *SetKeyRequest, opts ...grpc.CallOption) (*StringResponse, error)
	SetSecretKeyService(ctx context.Context, in *SetKeyRequest, opts ...grpc.CallOption) (*StringResponse, error)
	DeleteKeyService(ctx context.Context, in *DeleteKeyRequest, opts ...grpc.CallOption) (*StringResponse, error)
	GetServiceByNamespaceAndProfile(ctx context.Context, in *GetByNamespaceAndProfileRequest,
		opts ...grpc.CallOption) (*MapResponse, error)
}

type kvServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewKvServiceClient makes a KvService client on top of cc. Every call forces Codec.
func NewKvServiceClient(cc grpc.ClientConnInterface) KvServiceClient {
	return &kvServiceClient{cc: cc}
}

func (c *kvServiceClient) GetService(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*StringResponse, error) {
	out := new(StringResponse)
	if err := c.cc.Invoke(ctx, MethodGet, in, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvServiceClient) SetKeyService(ctx context.Context, in *SetKeyRequest, opts ...grpc.CallOption) (*StringResponse, error) {
	out := new(StringResponse)
	if err := c.cc.Invoke(ctx, MethodSetKey, in, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvServiceClient) SetSecretKeyService(ctx context.Context, in *SetKeyRequest,
	opts ...grpc.CallOption) (*StringResponse, error) {
	out := new(StringResponse)
	if err := c.cc.Invoke(ctx, MethodSetSecretKey, in, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvServiceClient) DeleteKeyService(ctx context.Context, in *DeleteKeyRequest,
	opts ...grpc.CallOption) (*StringResponse, error) {
	out := new(StringResponse)
	if err := c.cc.Invoke(ctx, MethodDeleteKey, in, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvServiceClient) GetServiceByNamespaceAndProfile(ctx context.Context, in *GetByNamespaceAndProfileRequest,
	opts ...grpc.CallOption) (*MapResponse, error) {
	out := new(MapResponse)
	if err := c.cc.Invoke(ctx, MethodGetByNamespaceAndProfile, in, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvServiceClient) callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
}

// KvServiceServer is the server side of the KvService.
type KvServiceServer interface {
	GetService(ctx context.Context, in *GetRequest) (*StringResponse, error)
	SetKeyService(ctx context.Context, in *SetKeyRequest) (*StringResponse, error)
	SetSecretKeyService(ctx context.Context, in *SetKeyRequest) (*StringResponse, error)
	DeleteKeyService(ctx context.Context, in *DeleteKeyRequest) (*StringResponse, error)
	GetServiceByNamespaceAndProfile(ctx context.Context, in *GetByNamespaceAndProfileRequest) (*MapResponse, error)
}

// RegisterKvServiceServer registers srv on s. The grpc.Server must be created
// with grpc.ForceServerCodec(Codec{}).
func RegisterKvServiceServer(s grpc.ServiceRegistrar, srv KvServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the KvService for grpc.ServiceRegistrar.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KvServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetService",
			Handler: func(srv any, ctx context.Context, dec func(any) error, ic grpc.UnaryServerInterceptor) (any, error) {
				in := new(GetRequest)
				return handle(ctx, dec, ic, in, MethodGet, srv, func(ctx context.Context) (any, error) {
					return srv.(KvServiceServer).GetService(ctx, in)
				})
			},
		},
		{
			MethodName: "SetKeyService",
			Handler: func(srv any, ctx context.Context, dec func(any) error, ic grpc.UnaryServerInterceptor) (any, error) {
				in := new(SetKeyRequest)
				return handle(ctx, dec, ic, in, MethodSetKey, srv, func(ctx context.Context) (any, error) {
					return srv.(KvServiceServer).SetKeyService(ctx, in)
				})
			},
		},
		{
			MethodName: "SetSecretKeyService",
			Handler: func(srv any, ctx context.Context, dec func(any) error, ic grpc.UnaryServerInterceptor) (any, error) {
				in := new(SetKeyRequest)
				return handle(ctx, dec, ic, in, MethodSetSecretKey, srv, func(ctx context.Context) (any, error) {
					return srv.(KvServiceServer).SetSecretKeyService(ctx, in)
				})
			},
		},
		{
			MethodName: "DeleteKeyService",
			Handler: func(srv any, ctx context.Context, dec func(any) error, ic grpc.UnaryServerInterceptor) (any, error) {
				in := new(DeleteKeyRequest)
				return handle(ctx, dec, ic, in, MethodDeleteKey, srv, func(ctx context.Context) (any, error) {
					return srv.(KvServiceServer).DeleteKeyService(ctx, in)
				})
			},
		},
		{
			MethodName: "GetServiceByNamespaceAndProfile",
			Handler: func(srv any, ctx context.Context, dec func(any) error, ic grpc.UnaryServerInterceptor) (any, error) {
				in := new(GetByNamespaceAndProfileRequest)
				return handle(ctx, dec, ic, in, MethodGetByNamespaceAndProfile, srv, func(ctx context.Context) (any, error) {
					return srv.(KvServiceServer).GetServiceByNamespaceAndProfile(ctx, in)
				})
			},
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kv.proto",
}

// handle decodes the request into in and runs call, through the interceptor if one is set.
func handle(ctx context.Context, dec func(any) error, ic grpc.UnaryServerInterceptor, in Message,
	method string, srv any, call func(ctx context.Context) (any, error)) (any, error) {
	if err := dec(in); err != nil {
		return nil, err
	}
	if ic == nil {
		return call(ctx)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
	return ic(ctx, in, info, func(ctx context.Context, _ any) (any, error) { return call(ctx) })
}
