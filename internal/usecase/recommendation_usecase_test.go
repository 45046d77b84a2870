package usecase

import (
	"context"
	"errors"
	"skincare_service/internal/domain"
	"skincare_service/internal/scraper"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recommendationFixture struct {
	searcher  *mockSearcher
	extractor *mockExtractor
	repo      *mockProductRepo
	cache     *mockCache
	uc        *recommendationUseCase
}

func newRecommendationFixture(t *testing.T) *recommendationFixture {
	f := &recommendationFixture{
		searcher:  new(mockSearcher),
		extractor: new(mockExtractor),
		repo:      new(mockProductRepo),
		cache:     new(mockCache),
	}
	issues := skinIssueRepo(t)
	catalog := NewProductUseCase(f.repo, issues, f.extractor, quietLogger())
	uc := NewRecommendationUseCase(f.searcher, f.extractor, issues, catalog, f.cache,
		NewAnalysisUseCase(quietLogger()), quietLogger()).(*recommendationUseCase)
	uc.shuffle = func([]string) {}
	uc.pick = func(int) int { return 0 }
	f.uc = uc

	f.repo.On("UpsertProduct", mock.Anything, mock.Anything).Return(&domain.Product{}, nil).Maybe()
	return f
}

func (f *recommendationFixture) missCache() {
	f.cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)
	f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (f *recommendationFixture) page(link, name, brand string, rating float64) {
	r := rating
	f.extractor.On("Extract", mock.Anything, link).Return(scraper.Listing{
		Name:         name,
		PurchaseLink: link,
		Price:        "199,90",
		Rating:       &r,
		ImageURL:     "https://cdn.dsmcdn.com/" + name + ".jpg",
		Brand:        brand,
	})
}

func names(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestRecommendAppliesSelectionRules(t *testing.T) {
	f := newRecommendationFixture(t)
	f.missCache()

	f.searcher.On("Search", mock.Anything, "acne Akne Serumu site:trendyol.com", 10).Return([]string{
		"https://www.hepsiburada.com/a-p-1",
		"https://www.trendyol.com/sr?q=akne",
		"https://www.trendyol.com/x/one-p-1",
		"https://www.trendyol.com/x/two-p-2",
		"https://www.trendyol.com/x/three-p-3",
		"https://www.trendyol.com/y/dup-p-4",
		"https://www.trendyol.com/x/one-p-1",
	}, nil).Once()
	f.searcher.On("Search", mock.Anything, "akne karşıtı krem trendyol", 10).Return([]string{
		"https://www.trendyol.com/x/one-p-1",
		"https://www.trendyol.com/z/other-p-5",
	}, nil).Once()

	f.page("https://www.trendyol.com/x/one-p-1", "Brand X Jel", "Brand X", 4.5)
	f.page("https://www.trendyol.com/x/two-p-2", "Brand X Tonik", "brand x", 4.1)
	f.page("https://www.trendyol.com/x/three-p-3", "Brand X Krem", "Brand X", 4.8)
	f.page("https://www.trendyol.com/y/dup-p-4", "BRAND X  jel", "Brand Y", 4.0)
	f.page("https://www.trendyol.com/z/other-p-5", "Zeta Serum", "Zeta", 3.9)

	products, err := f.uc.Recommend(context.Background(), domain.SkinIssueAcne, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brand X Jel", "Brand X Tonik", "Zeta Serum"}, names(products))

	first := products[0]
	assert.Equal(t, uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.trendyol.com/x/one-p-1")).String(), first.ID)
	assert.Equal(t, domain.RemoteImage("https://cdn.dsmcdn.com/Brand X Jel.jpg"), first.Image)
	assert.Equal(t, domain.SkinIssueAcne, first.SkinIssue)
	require.NoError(t, first.Validate())

	f.extractor.AssertNumberOfCalls(t, "Extract", 5)
	f.repo.AssertNumberOfCalls(t, "UpsertProduct", 3)
	f.cache.AssertCalled(t, "Set", mock.Anything, "acne:3:any", products)
}

func TestRecommendServesCache(t *testing.T) {
	f := newRecommendationFixture(t)
	cached := []domain.Product{*storedProduct()}
	f.cache.On("Get", mock.Anything, "stain:5:4.00").Return(cached, true, nil)

	minRating := 4.0
	products, err := f.uc.Recommend(context.Background(), domain.SkinIssueStain, 5, &minRating)
	require.NoError(t, err)
	assert.Equal(t, cached, products)
	f.searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecommendRetriesDarkCircleAndFiltersRating(t *testing.T) {
	f := newRecommendationFixture(t)
	f.missCache()

	f.searcher.On("Search", mock.Anything, "black_circle Göz Kremi site:trendyol.com", 5).Return([]string{}, nil).Once()
	f.searcher.On("Search", mock.Anything, "göz altı morluk kremi site:trendyol.com", 10).Return([]string{
		"https://www.trendyol.com/a/low-p-1",
		"https://www.trendyol.com/b/high-p-2",
	}, nil).Once()
	f.searcher.On("Search", mock.Anything, mock.Anything, 10).Return([]string{}, nil)

	f.page("https://www.trendyol.com/a/low-p-1", "Low Göz Kremi", "A", 3.2)
	f.page("https://www.trendyol.com/b/high-p-2", "High Göz Kremi", "B", 4.7)

	minRating := 4.5
	products, err := f.uc.Recommend(context.Background(), domain.SkinIssueBlackCircle, 1, &minRating)
	require.NoError(t, err)
	assert.Equal(t, []string{"High Göz Kremi"}, names(products))
}

func TestRecommendSkipsListingsThatFailValidation(t *testing.T) {
	f := newRecommendationFixture(t)
	f.missCache()

	f.searcher.On("Search", mock.Anything, "stain Leke Kremi site:trendyol.com", 10).Return([]string{
		"https://www.trendyol.com/a/reviews-p-1",
		"https://www.trendyol.com/b/fine-p-2",
	}, nil).Once()
	f.searcher.On("Search", mock.Anything, mock.Anything, 10).Return([]string{}, nil)

	f.page("https://www.trendyol.com/a/reviews-p-1", "Sayım Kremi", "A", 12)
	f.page("https://www.trendyol.com/b/fine-p-2", "Leke Serumu", "B", 4.2)

	products, err := f.uc.Recommend(context.Background(), domain.SkinIssueStain, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Leke Serumu"}, names(products))
	for _, p := range products {
		require.NoError(t, p.Validate())
	}
	f.repo.AssertNumberOfCalls(t, "UpsertProduct", 1)
}

func TestSelectionOfferRejectsOutOfRangeRating(t *testing.T) {
	sel := newSelection(domain.SkinIssueAcne, 3, nil)
	rating := 12.0
	listing := scraper.Listing{
		Name:         "Sebium Jel",
		PurchaseLink: "https://www.trendyol.com/x/jel-p-1",
		Price:        "329,50",
		Rating:       &rating,
		ImageURL:     "https://cdn.dsmcdn.com/jel.jpg",
		Brand:        "Bioderma",
	}
	assert.False(t, sel.offer(listing))
	assert.Empty(t, sel.products)

	rating = 4.6
	assert.True(t, sel.offer(listing))
	require.Len(t, sel.products, 1)
}

func TestRecommendNoResultsWithoutRetry(t *testing.T) {
	f := newRecommendationFixture(t)
	f.missCache()
	f.searcher.On("Search", mock.Anything, "wrinkle Retinol site:trendyol.com", 10).Return([]string{}, nil).Once()

	products, err := f.uc.Recommend(context.Background(), domain.SkinIssueWrinkle, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
	f.searcher.AssertNumberOfCalls(t, "Search", 1)
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecommendSearchFailure(t *testing.T) {
	f := newRecommendationFixture(t)
	f.missCache()
	f.searcher.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

	products, err := f.uc.Recommend(context.Background(), domain.SkinIssueAcne, 3, nil)
	require.NoError(t, err)
	assert.Empty(t, products)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.uc.Recommend(ctx, domain.SkinIssueAcne, 3, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecommendValidatesInput(t *testing.T) {
	f := newRecommendationFixture(t)

	_, err := f.uc.Recommend(context.Background(), "freckles", 3, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSkinIssue)

	bad := 6.0
	_, err = f.uc.Recommend(context.Background(), domain.SkinIssueAcne, 3, &bad)
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	_, err = f.uc.RecommendMany(context.Background(), nil, 3, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSkinIssue)
}

func TestNormalizeCount(t *testing.T) {
	assert.Equal(t, DefaultProductCount, NormalizeCount(0))
	assert.Equal(t, DefaultProductCount, NormalizeCount(-4))
	assert.Equal(t, 7, NormalizeCount(7))
	assert.Equal(t, MaxProductCount, NormalizeCount(50))
}

func TestRecommendManyKeepsOrderAndInfo(t *testing.T) {
	f := newRecommendationFixture(t)
	cached := map[domain.SkinIssue][]domain.Product{
		domain.SkinIssueStain:   {{ID: "s"}},
		domain.SkinIssueHealthy: {{ID: "h"}},
	}
	f.cache.On("Get", mock.Anything, "stain:3:any").Return(cached[domain.SkinIssueStain], true, nil)
	f.cache.On("Get", mock.Anything, "healthy:3:any").Return(cached[domain.SkinIssueHealthy], true, nil)

	recs, err := f.uc.RecommendMany(context.Background(),
		[]domain.SkinIssue{domain.SkinIssueStain, domain.SkinIssueHealthy}, 3, nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, domain.SkinIssueStain, recs[0].SkinIssue)
	require.NotNil(t, recs[0].Info)
	assert.Equal(t, "Leke", recs[0].Info.Title)
	assert.Equal(t, "s", recs[0].Products[0].ID)

	assert.Equal(t, domain.SkinIssueHealthy, recs[1].SkinIssue)
	assert.Nil(t, recs[1].Info)
	assert.Equal(t, "h", recs[1].Products[0].ID)
}

func TestAnalyzeAndRecommend(t *testing.T) {
	f := newRecommendationFixture(t)
	f.cache.On("Get", mock.Anything, "acne:2:any").Return([]domain.Product{{ID: "a"}}, true, nil)

	result, err := f.uc.AnalyzeAndRecommend(context.Background(), map[string]float64{"acne": 0.8, "stain": 0.3}, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.SkinIssue{domain.SkinIssueAcne}, result.DetectedSkinIssues)
	assert.Equal(t, []domain.SkinType{domain.SkinTypeAcne}, result.SkinTypes)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "a", result.Recommendations[0].Products[0].ID)

	_, err = f.uc.AnalyzeAndRecommend(context.Background(), map[string]float64{"acne": 2}, 2, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidScores)
}

func TestIssueWithProducts(t *testing.T) {
	f := newRecommendationFixture(t)
	f.cache.On("Get", mock.Anything, "wrinkle:3:any").Return([]domain.Product{{ID: "w"}}, true, nil)

	rec, err := f.uc.IssueWithProducts(context.Background(), domain.SkinIssueWrinkle, 0)
	require.NoError(t, err)
	assert.Equal(t, "Kırışıklık", rec.Info.Title)
	assert.Equal(t, "w", rec.Products[0].ID)

	_, err = f.uc.IssueWithProducts(context.Background(), domain.SkinIssueHealthy, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
