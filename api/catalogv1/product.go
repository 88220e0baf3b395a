package catalogv1

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ProductServiceName = packageName + ".ProductService"

type Product struct {
	ID             string          `json:"id"`
	MerchantID     string          `json:"merchant_id"`
	CategoryID     string          `json:"category_id,omitempty"`
	SKU            string          `json:"sku"`
	Barcode        string          `json:"barcode,omitempty"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	BasePrice      decimal.Decimal `json:"base_price"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TrackInventory bool            `json:"track_inventory"`
	ImageURL       string          `json:"image_url,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CreateProductRequest struct {
	CategoryID     string          `json:"category_id"`
	SKU            string          `json:"sku"`
	Barcode        string          `json:"barcode"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	BasePrice      decimal.Decimal `json:"base_price"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TrackInventory bool            `json:"track_inventory"`
	ImageURL       string          `json:"image_url"`
}

type ProductResponse struct {
	Product *Product `json:"product"`
}

type GetProductRequest struct {
	ID string `json:"id"`
}

type ListProductsRequest struct {
	CategoryID           string `json:"category_id"`
	IncludeSubcategories bool   `json:"include_subcategories"`
	IsActive             bool   `json:"is_active"`
	SortBy               string `json:"sort_by"`
	SortOrder            string `json:"sort_order"`
	Page                 int32  `json:"page"`
	PageSize             int32  `json:"page_size"`
}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
	Total    int32      `json:"total"`
	Page     int32      `json:"page"`
	PageSize int32      `json:"page_size"`
}

type SearchProductsRequest struct {
	Query string `json:"query"`
	Limit int32  `json:"limit"`
}

type UpdateProductRequest struct {
	ID             string          `json:"id"`
	CategoryID     string          `json:"category_id"`
	SKU            string          `json:"sku"`
	Barcode        string          `json:"barcode"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	BasePrice      decimal.Decimal `json:"base_price"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TrackInventory bool            `json:"track_inventory"`
	ImageURL       string          `json:"image_url"`
	IsActive       bool            `json:"is_active"`
}

type DeleteProductRequest struct {
	ID string `json:"id"`
}

type ProductServiceServer interface {
	CreateProduct(context.Context, *CreateProductRequest) (*ProductResponse, error)
	GetProduct(context.Context, *GetProductRequest) (*ProductResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	SearchProducts(context.Context, *SearchProductsRequest) (*ListProductsResponse, error)
	UpdateProduct(context.Context, *UpdateProductRequest) (*ProductResponse, error)
	DeleteProduct(context.Context, *DeleteProductRequest) (*emptypb.Empty, error)
}

var ProductServiceDesc = grpc.ServiceDesc{
	ServiceName: ProductServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ProductServiceName, "CreateProduct", ProductServiceServer.CreateProduct),
		unary(ProductServiceName, "GetProduct", ProductServiceServer.GetProduct),
		unary(ProductServiceName, "ListProducts", ProductServiceServer.ListProducts),
		unary(ProductServiceName, "SearchProducts", ProductServiceServer.SearchProducts),
		unary(ProductServiceName, "UpdateProduct", ProductServiceServer.UpdateProduct),
		unary(ProductServiceName, "DeleteProduct", ProductServiceServer.DeleteProduct),
	},
	Metadata: "omnipos/catalog/v1/product",
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductServiceDesc, srv)
}

type ProductServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProductServiceClient(cc grpc.ClientConnInterface) *ProductServiceClient {
	return &ProductServiceClient{cc: cc}
}

func (c *ProductServiceClient) CreateProduct(ctx context.Context, in *CreateProductRequest, opts ...grpc.CallOption) (*ProductResponse, error) {
	return invoke[ProductResponse](ctx, c.cc, ProductServiceName, "CreateProduct", in, opts)
}

func (c *ProductServiceClient) GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*ProductResponse, error) {
	return invoke[ProductResponse](ctx, c.cc, ProductServiceName, "GetProduct", in, opts)
}

func (c *ProductServiceClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	return invoke[ListProductsResponse](ctx, c.cc, ProductServiceName, "ListProducts", in, opts)
}

func (c *ProductServiceClient) SearchProducts(ctx context.Context, in *SearchProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	return invoke[ListProductsResponse](ctx, c.cc, ProductServiceName, "SearchProducts", in, opts)
}

func (c *ProductServiceClient) UpdateProduct(ctx context.Context, in *UpdateProductRequest, opts ...grpc.CallOption) (*ProductResponse, error) {
	return invoke[ProductResponse](ctx, c.cc, ProductServiceName, "UpdateProduct", in, opts)
}

func (c *ProductServiceClient) DeleteProduct(ctx context.Context, in *DeleteProductRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, ProductServiceName, "DeleteProduct", in, opts)
}
