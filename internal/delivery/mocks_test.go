package delivery

import (
	"context"
	"skincare_service/internal/domain"
	"skincare_service/internal/usecase"

	"github.com/stretchr/testify/mock"
)

type mockProductUseCase struct {
	mock.Mock
}

func (m *mockProductUseCase) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *mockProductUseCase) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *mockProductUseCase) UpdateProduct(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error) {
	args := m.Called(ctx, id, update)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *mockProductUseCase) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductUseCase) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, limit, offset)
	out, _ := args.Get(0).([]domain.Product)
	return out, args.Error(1)
}

func (m *mockProductUseCase) ListProductsBySkinIssue(ctx context.Context, issue domain.SkinIssue, limit, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, issue, limit, offset)
	out, _ := args.Get(0).([]domain.Product)
	return out, args.Error(1)
}

func (m *mockProductUseCase) UpsertProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *mockProductUseCase) ScrapeProducts(ctx context.Context, urls []string) ([]usecase.ScrapedListing, error) {
	args := m.Called(ctx, urls)
	out, _ := args.Get(0).([]usecase.ScrapedListing)
	return out, args.Error(1)
}

type mockRecommendationUseCase struct {
	mock.Mock
}

func (m *mockRecommendationUseCase) Recommend(ctx context.Context, issue domain.SkinIssue, count int, minRating *float64) ([]domain.Product, error) {
	args := m.Called(ctx, issue, count, minRating)
	out, _ := args.Get(0).([]domain.Product)
	return out, args.Error(1)
}

func (m *mockRecommendationUseCase) RecommendMany(ctx context.Context, issues []domain.SkinIssue, count int, minRating *float64) ([]usecase.IssueRecommendation, error) {
	args := m.Called(ctx, issues, count, minRating)
	out, _ := args.Get(0).([]usecase.IssueRecommendation)
	return out, args.Error(1)
}

func (m *mockRecommendationUseCase) AnalyzeAndRecommend(ctx context.Context, scores map[string]float64, count int, minRating *float64) (*usecase.AnalysisRecommendation, error) {
	args := m.Called(ctx, scores, count, minRating)
	out, _ := args.Get(0).(*usecase.AnalysisRecommendation)
	return out, args.Error(1)
}

func (m *mockRecommendationUseCase) IssueWithProducts(ctx context.Context, issue domain.SkinIssue, count int) (*usecase.IssueRecommendation, error) {
	args := m.Called(ctx, issue, count)
	out, _ := args.Get(0).(*usecase.IssueRecommendation)
	return out, args.Error(1)
}
