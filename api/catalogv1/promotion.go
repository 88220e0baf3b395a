package catalogv1

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const PromotionServiceName = packageName + ".PromotionService"

type Promotion struct {
	ID            string           `json:"id"`
	MerchantID    string           `json:"merchant_id"`
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinOrderValue *decimal.Decimal `json:"min_order_value,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	IsActive      bool             `json:"is_active"`
	UsageLimit    *int32           `json:"usage_limit,omitempty"`
	UsageCount    int32            `json:"usage_count"`
	// Evaluated at response time.
	CurrentlyActive bool      `json:"currently_active"`
	RemainingDays   int32     `json:"remaining_days"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreatePromotionRequest struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinOrderValue *decimal.Decimal `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	UsageLimit    *int32           `json:"usage_limit"`
}

type PromotionResponse struct {
	Promotion *Promotion `json:"promotion"`
}

// GetPromotionRequest looks a promotion up by ID, or by Code when ID is empty.
type GetPromotionRequest struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

type ListPromotionsRequest struct {
	ActiveOnly bool  `json:"active_only"`
	Page       int32 `json:"page"`
	PageSize   int32 `json:"page_size"`
}

type ListPromotionsResponse struct {
	Promotions []*Promotion `json:"promotions"`
	Total      int32        `json:"total"`
}

type UpdatePromotionRequest struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinOrderValue *decimal.Decimal `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	UsageLimit    *int32           `json:"usage_limit"`
	IsActive      bool             `json:"is_active"`
}

type DeletePromotionRequest struct {
	ID string `json:"id"`
}

type ApplyPromotionRequest struct {
	Code       string          `json:"code"`
	OrderValue decimal.Decimal `json:"order_value"`
}

type ApplyPromotionResponse struct {
	Promotion     *Promotion      `json:"promotion"`
	OrderValue    decimal.Decimal `json:"order_value"`
	Discount      decimal.Decimal `json:"discount"`
	FinalTotal    decimal.Decimal `json:"final_total"`
	RemainingDays int32           `json:"remaining_days"`
}

type RedeemPromotionRequest struct {
	Code       string          `json:"code"`
	OrderID    string          `json:"order_id"`
	OrderValue decimal.Decimal `json:"order_value"`
}

type RedeemPromotionResponse struct {
	RedemptionID string          `json:"redemption_id"`
	Discount     decimal.Decimal `json:"discount"`
	FinalTotal   decimal.Decimal `json:"final_total"`
	UsageCount   int32           `json:"usage_count"`
}

type PromotionServiceServer interface {
	CreatePromotion(context.Context, *CreatePromotionRequest) (*PromotionResponse, error)
	GetPromotion(context.Context, *GetPromotionRequest) (*PromotionResponse, error)
	ListPromotions(context.Context, *ListPromotionsRequest) (*ListPromotionsResponse, error)
	UpdatePromotion(context.Context, *UpdatePromotionRequest) (*PromotionResponse, error)
	DeletePromotion(context.Context, *DeletePromotionRequest) (*emptypb.Empty, error)
	ApplyPromotion(context.Context, *ApplyPromotionRequest) (*ApplyPromotionResponse, error)
	RedeemPromotion(context.Context, *RedeemPromotionRequest) (*RedeemPromotionResponse, error)
}

var PromotionServiceDesc = grpc.ServiceDesc{
	ServiceName: PromotionServiceName,
	HandlerType: (*PromotionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(PromotionServiceName, "CreatePromotion", PromotionServiceServer.CreatePromotion),
		unary(PromotionServiceName, "GetPromotion", PromotionServiceServer.GetPromotion),
		unary(PromotionServiceName, "ListPromotions", PromotionServiceServer.ListPromotions),
		unary(PromotionServiceName, "UpdatePromotion", PromotionServiceServer.UpdatePromotion),
		unary(PromotionServiceName, "DeletePromotion", PromotionServiceServer.DeletePromotion),
		unary(PromotionServiceName, "ApplyPromotion", PromotionServiceServer.ApplyPromotion),
		unary(PromotionServiceName, "RedeemPromotion", PromotionServiceServer.RedeemPromotion),
	},
	Metadata: "omnipos/catalog/v1/promotion",
}

func RegisterPromotionServiceServer(s grpc.ServiceRegistrar, srv PromotionServiceServer) {
	s.RegisterService(&PromotionServiceDesc, srv)
}

type PromotionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPromotionServiceClient(cc grpc.ClientConnInterface) *PromotionServiceClient {
	return &PromotionServiceClient{cc: cc}
}

func (c *PromotionServiceClient) CreatePromotion(ctx context.Context, in *CreatePromotionRequest, opts ...grpc.CallOption) (*PromotionResponse, error) {
	return invoke[PromotionResponse](ctx, c.cc, PromotionServiceName, "CreatePromotion", in, opts)
}

func (c *PromotionServiceClient) GetPromotion(ctx context.Context, in *GetPromotionRequest, opts ...grpc.CallOption) (*PromotionResponse, error) {
	return invoke[PromotionResponse](ctx, c.cc, PromotionServiceName, "GetPromotion", in, opts)
}

func (c *PromotionServiceClient) ListPromotions(ctx context.Context, in *ListPromotionsRequest, opts ...grpc.CallOption) (*ListPromotionsResponse, error) {
	return invoke[ListPromotionsResponse](ctx, c.cc, PromotionServiceName, "ListPromotions", in, opts)
}

func (c *PromotionServiceClient) UpdatePromotion(ctx context.Context, in *UpdatePromotionRequest, opts ...grpc.CallOption) (*PromotionResponse, error) {
	return invoke[PromotionResponse](ctx, c.cc, PromotionServiceName, "UpdatePromotion", in, opts)
}

func (c *PromotionServiceClient) DeletePromotion(ctx context.Context, in *DeletePromotionRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, PromotionServiceName, "DeletePromotion", in, opts)
}

func (c *PromotionServiceClient) ApplyPromotion(ctx context.Context, in *ApplyPromotionRequest, opts ...grpc.CallOption) (*ApplyPromotionResponse, error) {
	return invoke[ApplyPromotionResponse](ctx, c.cc, PromotionServiceName, "ApplyPromotion", in, opts)
}

func (c *PromotionServiceClient) RedeemPromotion(ctx context.Context, in *RedeemPromotionRequest, opts ...grpc.CallOption) (*RedeemPromotionResponse, error) {
	return invoke[RedeemPromotionResponse](ctx, c.cc, PromotionServiceName, "RedeemPromotion", in, opts)
}
