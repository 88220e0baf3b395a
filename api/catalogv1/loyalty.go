package catalogv1

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
)

const LoyaltyServiceName = packageName + ".LoyaltyService"

type LoyaltyAccount struct {
	MerchantID       string  `json:"merchant_id"`
	CustomerID       string  `json:"customer_id"`
	PointsBalance    int64   `json:"points_balance"`
	LifetimePoints   int64   `json:"lifetime_points"`
	Tier             string  `json:"tier"`
	NextTier         string  `json:"next_tier,omitempty"`
	PointsToNextTier int64   `json:"points_to_next_tier"`
	TierProgress     float64 `json:"tier_progress"`
	EarnMultiplier   string  `json:"earn_multiplier"`
}

type LoyaltyTransaction struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customer_id"`
	TxType        string    `json:"tx_type"`
	PointsChange  int64     `json:"points_change"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type GetAccountRequest struct {
	CustomerID string `json:"customer_id"`
}

type AccountResponse struct {
	Account *LoyaltyAccount `json:"account"`
}

type AdjustPointsRequest struct {
	CustomerID    string `json:"customer_id"`
	Points        int64  `json:"points"`
	Reason        string `json:"reason"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   string `json:"reference_id"`
}

type RedeemPointsRequest struct {
	CustomerID string `json:"customer_id"`
	Points     int64  `json:"points"`
	OrderID    string `json:"order_id"`
}

type ListTransactionsRequest struct {
	CustomerID string `json:"customer_id"`
	TxType     string `json:"tx_type"`
	Page       int32  `json:"page"`
	PageSize   int32  `json:"page_size"`
}

type ListTransactionsResponse struct {
	Transactions []*LoyaltyTransaction `json:"transactions"`
	Total        int32                 `json:"total"`
}

type QuoteEarnRequest struct {
	CustomerID string          `json:"customer_id"`
	OrderValue decimal.Decimal `json:"order_value"`
}

type QuoteEarnResponse struct {
	Points int64  `json:"points"`
	Tier   string `json:"tier"`
}

type LoyaltyServiceServer interface {
	GetAccount(context.Context, *GetAccountRequest) (*AccountResponse, error)
	AdjustPoints(context.Context, *AdjustPointsRequest) (*AccountResponse, error)
	RedeemPoints(context.Context, *RedeemPointsRequest) (*AccountResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	QuoteEarn(context.Context, *QuoteEarnRequest) (*QuoteEarnResponse, error)
}

var LoyaltyServiceDesc = grpc.ServiceDesc{
	ServiceName: LoyaltyServiceName,
	HandlerType: (*LoyaltyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(LoyaltyServiceName, "GetAccount", LoyaltyServiceServer.GetAccount),
		unary(LoyaltyServiceName, "AdjustPoints", LoyaltyServiceServer.AdjustPoints),
		unary(LoyaltyServiceName, "RedeemPoints", LoyaltyServiceServer.RedeemPoints),
		unary(LoyaltyServiceName, "ListTransactions", LoyaltyServiceServer.ListTransactions),
		unary(LoyaltyServiceName, "QuoteEarn", LoyaltyServiceServer.QuoteEarn),
	},
	Metadata: "omnipos/catalog/v1/loyalty",
}

func RegisterLoyaltyServiceServer(s grpc.ServiceRegistrar, srv LoyaltyServiceServer) {
	s.RegisterService(&LoyaltyServiceDesc, srv)
}

type LoyaltyServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLoyaltyServiceClient(cc grpc.ClientConnInterface) *LoyaltyServiceClient {
	return &LoyaltyServiceClient{cc: cc}
}

func (c *LoyaltyServiceClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, c.cc, LoyaltyServiceName, "GetAccount", in, opts)
}

func (c *LoyaltyServiceClient) AdjustPoints(ctx context.Context, in *AdjustPointsRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, c.cc, LoyaltyServiceName, "AdjustPoints", in, opts)
}

func (c *LoyaltyServiceClient) RedeemPoints(ctx context.Context, in *RedeemPointsRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, c.cc, LoyaltyServiceName, "RedeemPoints", in, opts)
}

func (c *LoyaltyServiceClient) ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c.cc, LoyaltyServiceName, "ListTransactions", in, opts)
}

func (c *LoyaltyServiceClient) QuoteEarn(ctx context.Context, in *QuoteEarnRequest, opts ...grpc.CallOption) (*QuoteEarnResponse, error) {
	return invoke[QuoteEarnResponse](ctx, c.cc, LoyaltyServiceName, "QuoteEarn", in, opts)
}
