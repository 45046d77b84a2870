package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"skincare_service/internal/domain"
	"skincare_service/internal/usecase"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type CatalogHandler struct {
	productUseCase        usecase.ProductUseCase
	issueUseCase          usecase.SkinIssueUseCase
	recommendationUseCase usecase.RecommendationUseCase
	log                   *logrus.Logger
}

func NewCatalogHandler(puc usecase.ProductUseCase, iuc usecase.SkinIssueUseCase, ruc usecase.RecommendationUseCase, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		productUseCase:        puc,
		issueUseCase:          iuc,
		recommendationUseCase: ruc,
		log:                   logger,
	}
}

func (h *CatalogHandler) GetProduct(ctx context.Context, req *GetProductRequest) (*domain.Product, error) {
	h.log.Infof("gRPC Handler: Received GetProduct request: ID=%s", req.ID)
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "Product ID is required")
	}

	product, err := h.productUseCase.GetProductByID(ctx, req.ID)
	if err != nil {
		h.log.Warnf("gRPC Handler: GetProduct use case error for ID %s: %v", req.ID, err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}
	return product, nil
}

func (h *CatalogHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	h.log.Infof("gRPC Handler: Received ListProducts request: Limit=%d, Offset=%d, SkinIssue=%s", req.Limit, req.Offset, req.SkinIssue)

	var (
		products []domain.Product
		err      error
	)
	if req.SkinIssue != "" {
		issue, parseErr := domain.ParseSkinIssue(req.SkinIssue)
		if parseErr != nil {
			return nil, mapDomainErrorToGrpcStatus(parseErr)
		}
		products, err = h.productUseCase.ListProductsBySkinIssue(ctx, issue, req.Limit, req.Offset)
	} else {
		products, err = h.productUseCase.ListProducts(ctx, req.Limit, req.Offset)
	}
	if err != nil {
		h.log.Errorf("gRPC Handler: ListProducts use case error: %v", err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}

	if products == nil {
		products = []domain.Product{}
	}
	h.log.Infof("gRPC Handler: Listed %d products successfully", len(products))
	return &ListProductsResponse{Products: products}, nil
}

func (h *CatalogHandler) GetSkinIssue(ctx context.Context, req *GetSkinIssueRequest) (*domain.SkinIssueInfo, error) {
	h.log.Infof("gRPC Handler: Received GetSkinIssue request: Issue=%s", req.Issue)

	info, err := h.issueUseCase.GetSkinIssue(req.Issue)
	if err != nil {
		h.log.Warnf("gRPC Handler: GetSkinIssue use case error for %s: %v", req.Issue, err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}
	return info, nil
}

func (h *CatalogHandler) Recommend(ctx context.Context, req *RecommendRequest) (*RecommendResponse, error) {
	h.log.Infof("gRPC Handler: Received Recommend request: Issues=%v, Count=%d", req.SkinIssues, req.ProductCount)

	issues := make([]domain.SkinIssue, 0, len(req.SkinIssues))
	for _, label := range req.SkinIssues {
		issue, err := domain.ParseSkinIssue(label)
		if err != nil {
			return nil, mapDomainErrorToGrpcStatus(err)
		}
		issues = append(issues, issue)
	}

	recs, err := h.recommendationUseCase.RecommendMany(ctx, issues, req.ProductCount, req.MinRating)
	if err != nil {
		h.log.Errorf("gRPC Handler: Recommend use case error: %v", err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}
	return &RecommendResponse{Recommendations: recs}, nil
}

func (h *CatalogHandler) ResolveRoute(ctx context.Context, req *ResolveRouteRequest) (*ResolveRouteResponse, error) {
	h.log.Infof("gRPC Handler: Received ResolveRoute request: Screen=%s", req.Screen)

	route, err := domain.DecodeRoute(req.Screen, req.Params)
	if err != nil {
		h.log.Warnf("gRPC Handler: Rejected route to %s: %v", req.Screen, err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}

	raw, err := json.Marshal(route)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "Internal server error: %v", err)
	}
	var resp ResolveRouteResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, status.Errorf(codes.Internal, "Internal server error: %v", err)
	}
	return &resp, nil
}

func mapDomainErrorToGrpcStatus(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case domain.IsValidationError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Errorf(codes.Internal, "Internal server error: %v", err)
	}
}
