// Package grpc exposes guarded operations over gRPC. The dashboard service
// is described by hand with well-known protobuf types, so no generated code
// is needed: the request is a structpb.Struct identity record and the reply
// a wrapperspb.StringValue.
package grpc

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/guard"
	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	DashboardServiceName  = "gatekeeper.Dashboard"
	DashboardAccessMethod = "/gatekeeper.Dashboard/Access"
)

// DashboardServer is the server API of the gatekeeper.Dashboard service.
type DashboardServer interface {
	Access(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error)
}

// DashboardServiceDesc describes gatekeeper.Dashboard for grpc.Server registration.
var DashboardServiceDesc = grpc.ServiceDesc{
	ServiceName: DashboardServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Access",
			Handler:    dashboardAccessHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterDashboardServer registers srv under DashboardServiceDesc.
func RegisterDashboardServer(s grpc.ServiceRegistrar, srv DashboardServer) {
	s.RegisterService(&DashboardServiceDesc, srv)
}

func dashboardAccessHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).Access(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DashboardAccessMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DashboardServer).Access(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// DashboardService implements DashboardServer on top of a guard.Operation.
type DashboardService struct {
	op     guard.Operation[string]
	logger logging.Logger
}

// NewDashboardService creates a DashboardService. A nil logger disables logging.
func NewDashboardService(op guard.Operation[string], l logging.Logger) *DashboardService {
	if l == nil {
		l = logging.Nop()
	}
	return &DashboardService{op: op, logger: l.With("module", "grpc_dashboard")}
}

// Access runs the operation for the record attached by GuardInterceptor,
// falling back to the request itself.
func (s *DashboardService) Access(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	rec, ok := RecordFromContext(ctx)
	if !ok {
		rec = identity.FromStruct(req)
	}

	msg, err := s.op(ctx, rec)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, status.Error(codes.Internal, "internal error")
	}

	return wrapperspb.String(msg), nil
}

// NewServer builds a gRPC server with the dashboard registered behind
// GuardInterceptor. The caller owns serving and stopping it.
func NewServer(g *guard.Guard, key []byte, op guard.Operation[string], l logging.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(GuardInterceptor(g, key, DashboardAccessMethod)))
	srv := grpc.NewServer(opts...)
	RegisterDashboardServer(srv, NewDashboardService(op, l))
	return srv
}

// DashboardClient calls gatekeeper.Dashboard over a client connection.
type DashboardClient struct {
	cc grpc.ClientConnInterface
}

// NewDashboardClient creates a DashboardClient using cc.
func NewDashboardClient(cc grpc.ClientConnInterface) *DashboardClient {
	return &DashboardClient{cc: cc}
}

// Access sends rec and returns the dashboard reply.
func (c *DashboardClient) Access(ctx context.Context, rec identity.Record, opts ...grpc.CallOption) (string, error) {
	in, err := rec.ToStruct()
	if err != nil {
		return "", err
	}

	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, DashboardAccessMethod, in, out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}
