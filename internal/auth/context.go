package auth

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/middleware"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
)

const defaultLocale = "en"

// GetMerchantID prefers the value set by the context interceptor and falls back to raw metadata.
func GetMerchantID(ctx context.Context) string {
	if val, ok := middleware.MerchantIDFromContext(ctx); ok {
		return val
	}
	return fromMetadata(ctx, middleware.HeaderMerchantID)
}

func GetUserID(ctx context.Context) string {
	if val, ok := middleware.UserIDFromContext(ctx); ok {
		return val
	}
	return fromMetadata(ctx, middleware.HeaderUserID)
}

func GetLocale(ctx context.Context) string {
	if val, ok := middleware.LocaleFromContext(ctx); ok {
		return val
	}
	if val := fromMetadata(ctx, middleware.HeaderAcceptLanguage); val != "" {
		return val
	}
	return defaultLocale
}

func fromMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(key); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

var ErrMissingMerchant = apperror.New(codes.Unauthenticated, apperror.MsgUnauthenticated)

// RequireMerchantID is GetMerchantID for handlers that cannot run without a tenant.
func RequireMerchantID(ctx context.Context) (string, error) {
	merchantID := GetMerchantID(ctx)
	if merchantID == "" {
		return "", ErrMissingMerchant
	}
	return merchantID, nil
}
