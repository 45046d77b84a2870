package usecase

import (
	"context"
	"skincare_service/internal/domain"
	"skincare_service/internal/scraper"

	"github.com/stretchr/testify/mock"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *mockProductRepo) UpsertProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *mockProductRepo) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *mockProductRepo) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *mockProductRepo) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepo) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, limit, offset)
	out, _ := args.Get(0).([]domain.Product)
	return out, args.Error(1)
}

func (m *mockProductRepo) ListProductsBySkinIssue(ctx context.Context, issue domain.SkinIssue, limit, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, issue, limit, offset)
	out, _ := args.Get(0).([]domain.Product)
	return out, args.Error(1)
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, url string) scraper.Listing {
	return m.Called(ctx, url).Get(0).(scraper.Listing)
}

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, query string, num int) ([]string, error) {
	args := m.Called(ctx, query, num)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]domain.Product, bool, error) {
	args := m.Called(ctx, key)
	out, _ := args.Get(0).([]domain.Product)
	return out, args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, key string, products []domain.Product) error {
	return m.Called(ctx, key, products).Error(0)
}
