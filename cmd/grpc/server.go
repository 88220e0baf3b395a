package main

import (
	pb "github.com/fekuna/omnipos-catalog-service/api/catalogv1"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/middleware"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type services struct {
	Category  pb.CategoryServiceServer
	Product   pb.ProductServiceServer
	Promotion pb.PromotionServiceServer
	Loyalty   pb.LoyaltyServiceServer
}

// newGRPCServer registers the catalog services and a health server reporting
// each of them as serving.
func newGRPCServer(log logger.ZapLogger, svc services) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(middleware.ServerOptions(log)...)

	pb.RegisterCategoryServiceServer(srv, svc.Category)
	pb.RegisterProductServiceServer(srv, svc.Product)
	pb.RegisterPromotionServiceServer(srv, svc.Promotion)
	pb.RegisterLoyaltyServiceServer(srv, svc.Loyalty)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthServer)
	for _, name := range []string{pb.CategoryServiceName, pb.ProductServiceName, pb.PromotionServiceName, pb.LoyaltyServiceName} {
		healthServer.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	return srv, healthServer
}
