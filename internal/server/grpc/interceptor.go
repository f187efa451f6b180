package grpc

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/guard"
	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type ctxKey string

const recordKey ctxKey = "identityRecord"

// RecordFromContext returns the identity record attached by GuardInterceptor.
func RecordFromContext(ctx context.Context) (identity.Record, bool) {
	rec, ok := ctx.Value(recordKey).(identity.Record)
	return rec, ok
}

// GuardInterceptor rejects calls whose caller is not logged in with
// codes.PermissionDenied and guard.DeniedMarker. Only the listed full method
// names are guarded; with none listed, every method is.
//
// The caller's record comes from the access_token metadata when present,
// otherwise from a *structpb.Struct request.
func GuardInterceptor(g *guard.Guard, key []byte, methods ...string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

		if len(methods) > 0 && !slices.Contains(methods, info.FullMethod) {
			return handler(ctx, req)
		}

		rec, err := resolveRecord(ctx, req, key)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		if !g.Permits(ctx, rec).Allowed {
			return nil, status.Error(codes.PermissionDenied, guard.DeniedMarker)
		}

		return handler(context.WithValue(ctx, recordKey, rec), req)
	}
}

func resolveRecord(ctx context.Context, req interface{}, key []byte) (identity.Record, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 && values[0] != "" {
			return auth.RecordFromToken(values[0], key)
		}
	}

	if s, ok := req.(*structpb.Struct); ok {
		return identity.FromStruct(s), nil
	}

	return identity.Record{}, nil
}
