package catalogv1

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const CategoryServiceName = packageName + ".CategoryService"

type Category struct {
	ID          string      `json:"id"`
	MerchantID  string      `json:"merchant_id"`
	ParentID    string      `json:"parent_id,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	SortOrder   int32       `json:"sort_order"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Children    []*Category `json:"children,omitempty"`
}

type CreateCategoryRequest struct {
	ParentID    string `json:"parent_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SortOrder   int32  `json:"sort_order"`
}

type CategoryResponse struct {
	Category *Category `json:"category"`
}

type GetCategoryRequest struct {
	ID string `json:"id"`
}

type ListCategoriesRequest struct {
	ParentID        string `json:"parent_id"`
	IsActive        bool   `json:"is_active"`
	IncludeChildren bool   `json:"include_children"`
	Page            int32  `json:"page"`
	PageSize        int32  `json:"page_size"`
}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
	Total      int32       `json:"total"`
}

type GetCategoryTreeRequest struct {
	ActiveOnly bool `json:"active_only"`
}

type GetCategoryTreeResponse struct {
	Categories []*Category `json:"categories"`
	NodeCount  int32       `json:"node_count"`
}

type UpdateCategoryRequest struct {
	ID          string `json:"id"`
	ParentID    string `json:"parent_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SortOrder   int32  `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

type DeleteCategoryRequest struct {
	ID string `json:"id"`
}

type CategoryServiceServer interface {
	CreateCategory(context.Context, *CreateCategoryRequest) (*CategoryResponse, error)
	GetCategory(context.Context, *GetCategoryRequest) (*CategoryResponse, error)
	ListCategories(context.Context, *ListCategoriesRequest) (*ListCategoriesResponse, error)
	GetCategoryTree(context.Context, *GetCategoryTreeRequest) (*GetCategoryTreeResponse, error)
	UpdateCategory(context.Context, *UpdateCategoryRequest) (*CategoryResponse, error)
	DeleteCategory(context.Context, *DeleteCategoryRequest) (*emptypb.Empty, error)
}

var CategoryServiceDesc = grpc.ServiceDesc{
	ServiceName: CategoryServiceName,
	HandlerType: (*CategoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(CategoryServiceName, "CreateCategory", CategoryServiceServer.CreateCategory),
		unary(CategoryServiceName, "GetCategory", CategoryServiceServer.GetCategory),
		unary(CategoryServiceName, "ListCategories", CategoryServiceServer.ListCategories),
		unary(CategoryServiceName, "GetCategoryTree", CategoryServiceServer.GetCategoryTree),
		unary(CategoryServiceName, "UpdateCategory", CategoryServiceServer.UpdateCategory),
		unary(CategoryServiceName, "DeleteCategory", CategoryServiceServer.DeleteCategory),
	},
	Metadata: "omnipos/catalog/v1/category",
}

func RegisterCategoryServiceServer(s grpc.ServiceRegistrar, srv CategoryServiceServer) {
	s.RegisterService(&CategoryServiceDesc, srv)
}

type CategoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCategoryServiceClient(cc grpc.ClientConnInterface) *CategoryServiceClient {
	return &CategoryServiceClient{cc: cc}
}

func (c *CategoryServiceClient) CreateCategory(ctx context.Context, in *CreateCategoryRequest, opts ...grpc.CallOption) (*CategoryResponse, error) {
	return invoke[CategoryResponse](ctx, c.cc, CategoryServiceName, "CreateCategory", in, opts)
}

func (c *CategoryServiceClient) GetCategory(ctx context.Context, in *GetCategoryRequest, opts ...grpc.CallOption) (*CategoryResponse, error) {
	return invoke[CategoryResponse](ctx, c.cc, CategoryServiceName, "GetCategory", in, opts)
}

func (c *CategoryServiceClient) ListCategories(ctx context.Context, in *ListCategoriesRequest, opts ...grpc.CallOption) (*ListCategoriesResponse, error) {
	return invoke[ListCategoriesResponse](ctx, c.cc, CategoryServiceName, "ListCategories", in, opts)
}

func (c *CategoryServiceClient) GetCategoryTree(ctx context.Context, in *GetCategoryTreeRequest, opts ...grpc.CallOption) (*GetCategoryTreeResponse, error) {
	return invoke[GetCategoryTreeResponse](ctx, c.cc, CategoryServiceName, "GetCategoryTree", in, opts)
}

func (c *CategoryServiceClient) UpdateCategory(ctx context.Context, in *UpdateCategoryRequest, opts ...grpc.CallOption) (*CategoryResponse, error) {
	return invoke[CategoryResponse](ctx, c.cc, CategoryServiceName, "UpdateCategory", in, opts)
}

func (c *CategoryServiceClient) DeleteCategory(ctx context.Context, in *DeleteCategoryRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, CategoryServiceName, "DeleteCategory", in, opts)
}
