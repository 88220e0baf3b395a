// Package catalogv1 defines the catalog gRPC API: request and response
// messages plus service descriptors. Messages are plain structs carried by the
// JSON codec (content subtype "json"); there is no .proto source.
package catalogv1

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/pkg/grpcjson"
	"google.golang.org/grpc"
)

const packageName = "omnipos.catalog.v1"

func fullMethod(service, method string) string {
	return "/" + service + "/" + method
}

// unary builds the method descriptor for a server method expression such as
// CategoryServiceServer.GetCategory.
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	name := fullMethod(service, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: name}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, service, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(grpcjson.Name)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(service, method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
