package grpc

import (
	"context"
	"encoding/json"
	"skincare_service/internal/domain"
	"skincare_service/internal/usecase"

	"google.golang.org/grpc"
)

const ServiceName = "skincare.v1.Catalog"

type GetProductRequest struct {
	ID string `json:"id"`
}

type ListProductsRequest struct {
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SkinIssue string `json:"skin_issue,omitempty"`
}

type ListProductsResponse struct {
	Products []domain.Product `json:"products"`
}

type GetSkinIssueRequest struct {
	Issue string `json:"issue"`
}

type RecommendRequest struct {
	SkinIssues   []string `json:"skin_issues"`
	ProductCount int      `json:"product_count"`
	MinRating    *float64 `json:"min_rating,omitempty"`
}

type RecommendResponse struct {
	Recommendations []usecase.IssueRecommendation `json:"recommendations"`
}

type ResolveRouteRequest struct {
	Screen string          `json:"screen"`
	Params json.RawMessage `json:"params,omitempty"`
}

// ResolveRouteResponse carries the canonical route; Params is null for
// parameterless screens.
type ResolveRouteResponse struct {
	Screen domain.Screen   `json:"screen"`
	Params json.RawMessage `json:"params"`
}

type CatalogServer interface {
	GetProduct(ctx context.Context, req *GetProductRequest) (*domain.Product, error)
	ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error)
	GetSkinIssue(ctx context.Context, req *GetSkinIssueRequest) (*domain.SkinIssueInfo, error)
	Recommend(ctx context.Context, req *RecommendRequest) (*RecommendResponse, error)
	ResolveRoute(ctx context.Context, req *ResolveRouteRequest) (*ResolveRouteResponse, error)
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodDesc.
func unaryHandler[Req any, Resp any](method string, call func(CatalogServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CatalogServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CatalogServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetProduct", CatalogServer.GetProduct),
		unaryHandler("ListProducts", CatalogServer.ListProducts),
		unaryHandler("GetSkinIssue", CatalogServer.GetSkinIssue),
		unaryHandler("Recommend", CatalogServer.Recommend),
		unaryHandler("ResolveRoute", CatalogServer.ResolveRoute),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "skincare/v1/catalog",
}

// CatalogClient calls the catalog service with the JSON codec.
type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) GetProduct(ctx context.Context, req *GetProductRequest, opts ...grpc.CallOption) (*domain.Product, error) {
	return invoke[domain.Product](ctx, c.cc, "GetProduct", req, opts)
}

func (c *CatalogClient) ListProducts(ctx context.Context, req *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	return invoke[ListProductsResponse](ctx, c.cc, "ListProducts", req, opts)
}

func (c *CatalogClient) GetSkinIssue(ctx context.Context, req *GetSkinIssueRequest, opts ...grpc.CallOption) (*domain.SkinIssueInfo, error) {
	return invoke[domain.SkinIssueInfo](ctx, c.cc, "GetSkinIssue", req, opts)
}

func (c *CatalogClient) Recommend(ctx context.Context, req *RecommendRequest, opts ...grpc.CallOption) (*RecommendResponse, error) {
	return invoke[RecommendResponse](ctx, c.cc, "Recommend", req, opts)
}

func (c *CatalogClient) ResolveRoute(ctx context.Context, req *ResolveRouteRequest, opts ...grpc.CallOption) (*ResolveRouteResponse, error) {
	return invoke[ResolveRouteResponse](ctx, c.cc, "ResolveRoute", req, opts)
}
