package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	HeaderMerchantID     = "x-merchant-id"
	HeaderUserID         = "x-user-id"
	HeaderAcceptLanguage = "accept-language"

	TracerName = "github.com/fekuna/omnipos-catalog-service"
)

type ctxKey int

const (
	merchantIDKey ctxKey = iota
	userIDKey
	localeKey
)

func WithMerchantID(ctx context.Context, merchantID string) context.Context {
	return context.WithValue(ctx, merchantIDKey, merchantID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

func MerchantIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(merchantIDKey).(string)
	return v, ok && v != ""
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok && v != ""
}

func LocaleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(localeKey).(string)
	return v, ok && v != ""
}

// ContextInterceptor copies caller identity and locale from incoming metadata into the context.
func ContextInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := first(md, HeaderMerchantID); v != "" {
				ctx = WithMerchantID(ctx, v)
			}
			if v := first(md, HeaderUserID); v != "" {
				ctx = WithUserID(ctx, v)
			}
			if v := first(md, HeaderAcceptLanguage); v != "" {
				ctx = WithLocale(ctx, v)
			}
		}
		return handler(ctx, req)
	}
}

func TracingInterceptor() grpc.UnaryServerInterceptor {
	tracer := otel.Tracer(TracerName)
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx, span := tracer.Start(ctx, info.FullMethod, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		if merchantID, ok := MerchantIDFromContext(ctx); ok {
			span.SetAttributes(attribute.String("omnipos.merchant_id", merchantID))
		}

		resp, err := handler(ctx, req)
		if err != nil {
			st, _ := status.FromError(err)
			span.SetAttributes(attribute.String("rpc.grpc.status_code", st.Code().String()))
			span.SetStatus(otelcodes.Error, st.Message())
		}
		return resp, err
	}
}

func LoggingInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
		}
		if merchantID, ok := MerchantIDFromContext(ctx); ok {
			fields = append(fields, zap.String("merchant_id", merchantID))
		}

		switch code {
		case codes.OK:
			log.Debug("rpc handled", fields...)
		case codes.Internal, codes.Unknown, codes.DataLoss:
			log.Error("rpc failed", append(fields, zap.Error(err))...)
		default:
			log.Info("rpc rejected", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}

func RecoveryInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in rpc handler",
					zap.String("method", info.FullMethod),
					zap.String("panic", fmt.Sprint(r)),
					zap.ByteString("stack", debug.Stack()),
				)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// ServerOptions is the interceptor chain every service is registered behind.
func ServerOptions(log logger.ZapLogger) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(log),
			ContextInterceptor(),
			TracingInterceptor(),
			LoggingInterceptor(log),
		),
	}
}

func first(md metadata.MD, key string) string {
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
