package main

import (
	"context"
	"testing"

	pb "github.com/fekuna/omnipos-catalog-service/api/catalogv1"
	catH "github.com/fekuna/omnipos-catalog-service/internal/category/handler"
	loyH "github.com/fekuna/omnipos-catalog-service/internal/loyalty/handler"
	prodH "github.com/fekuna/omnipos-catalog-service/internal/product/handler"
	promoH "github.com/fekuna/omnipos-catalog-service/internal/promotion/handler"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestNewGRPCServerRegistersServices(t *testing.T) {
	log := logger.NewNop()
	srv, healthServer := newGRPCServer(log, services{
		Category:  catH.NewCategoryHandler(nil, nil, log),
		Product:   prodH.NewProductHandler(nil, nil, log),
		Promotion: promoH.NewPromotionHandler(nil, nil, log),
		Loyalty:   loyH.NewLoyaltyHandler(nil, nil, log),
	})
	t.Cleanup(srv.Stop)

	var names []string
	for name := range srv.GetServiceInfo() {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{
		pb.CategoryServiceName,
		pb.ProductServiceName,
		pb.PromotionServiceName,
		pb.LoyaltyServiceName,
		healthpb.Health_ServiceDesc.ServiceName,
	}, names)

	for _, name := range []string{pb.CategoryServiceName, pb.PromotionServiceName} {
		res, err := healthServer.Check(context.Background(), &healthpb.HealthCheckRequest{Service: name})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.Status)
	}
}
