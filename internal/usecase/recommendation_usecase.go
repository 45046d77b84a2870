package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"skincare_service/internal/domain"
	"skincare_service/internal/scraper"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultProductCount = 3
	MaxProductCount     = 10

	maxBrandProducts = 2
	maxSearchResults = 10
	searchSite       = " site:trendyol.com"
	fanOutLimit      = 4
)

// IssueRecommendation groups the products found for one skin issue. Info is
// absent for issues without a catalog entry.
type IssueRecommendation struct {
	SkinIssue domain.SkinIssue      `json:"skin_issue"`
	Info      *domain.SkinIssueInfo `json:"info,omitempty"`
	Products  []domain.Product      `json:"products"`
}

type AnalysisRecommendation struct {
	AnalysisResult
	Recommendations []IssueRecommendation `json:"recommendations"`
}

type RecommendationUseCase interface {
	Recommend(ctx context.Context, issue domain.SkinIssue, count int, minRating *float64) ([]domain.Product, error)
	RecommendMany(ctx context.Context, issues []domain.SkinIssue, count int, minRating *float64) ([]IssueRecommendation, error)
	AnalyzeAndRecommend(ctx context.Context, scores map[string]float64, count int, minRating *float64) (*AnalysisRecommendation, error)
	IssueWithProducts(ctx context.Context, issue domain.SkinIssue, count int) (*IssueRecommendation, error)
}

type recommendationUseCase struct {
	searcher  ProductSearcher
	extractor ListingExtractor
	issues    domain.SkinIssueRepository
	catalog   ProductUseCase
	cache     domain.RecommendationCache
	analysis  AnalysisUseCase
	log       *logrus.Logger

	shuffle func(links []string)
	pick    func(n int) int
}

func NewRecommendationUseCase(
	searcher ProductSearcher,
	extractor ListingExtractor,
	issues domain.SkinIssueRepository,
	catalog ProductUseCase,
	cache domain.RecommendationCache,
	analysis AnalysisUseCase,
	logger *logrus.Logger,
) RecommendationUseCase {
	return &recommendationUseCase{
		searcher:  searcher,
		extractor: extractor,
		issues:    issues,
		catalog:   catalog,
		cache:     cache,
		analysis:  analysis,
		log:       logger,
		shuffle: func(links []string) {
			rand.Shuffle(len(links), func(i, j int) { links[i], links[j] = links[j], links[i] })
		},
		pick: rand.Intn,
	}
}

// NormalizeCount applies the default and the upper bound to a requested
// product count.
func NormalizeCount(count int) int {
	if count <= 0 {
		return DefaultProductCount
	}
	if count > MaxProductCount {
		return MaxProductCount
	}
	return count
}

func validateMinRating(minRating *float64) error {
	if minRating != nil && (*minRating < 0 || *minRating > 5) {
		return fmt.Errorf("%w: min_rating %.2f out of range 0-5", domain.ErrInvalidProduct, *minRating)
	}
	return nil
}

func cacheKey(issue domain.SkinIssue, count int, minRating *float64) string {
	rating := "any"
	if minRating != nil {
		rating = fmt.Sprintf("%.2f", *minRating)
	}
	return fmt.Sprintf("%s:%d:%s", issue, count, rating)
}

func (uc *recommendationUseCase) Recommend(ctx context.Context, issue domain.SkinIssue, count int, minRating *float64) ([]domain.Product, error) {
	if !issue.Valid() {
		uc.log.Warnf("Use Case: Recommendation requested for unknown skin issue %q", issue)
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSkinIssue, issue)
	}
	if err := validateMinRating(minRating); err != nil {
		return nil, err
	}
	count = NormalizeCount(count)

	key := cacheKey(issue, count, minRating)
	if cached, ok, err := uc.cache.Get(ctx, key); err != nil {
		uc.log.Warnf("Use Case: Recommendation cache read failed for %s: %v", key, err)
	} else if ok {
		uc.log.Infof("Use Case: Serving %d cached recommendations for %s", len(cached), key)
		return cached, nil
	}

	products, err := uc.collect(ctx, issue, count, minRating)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if _, err := uc.catalog.UpsertProduct(ctx, &products[i]); err != nil {
			uc.log.Warnf("Use Case: Failed to store recommended product %s: %v", products[i].ID, err)
		}
	}
	if len(products) > 0 {
		if err := uc.cache.Set(ctx, key, products); err != nil {
			uc.log.Warnf("Use Case: Recommendation cache write failed for %s: %v", key, err)
		}
	}

	uc.log.Infof("Use Case: Recommended %d products for %s", len(products), issue)
	return products, nil
}

// collect runs the primary search and, when it falls short, the issue's
// alternative queries, which are sent as written. A failed search counts as
// an empty one; only cancellation aborts.
func (uc *recommendationUseCase) collect(ctx context.Context, issue domain.SkinIssue, count int, minRating *float64) ([]domain.Product, error) {
	sel := newSelection(issue, count, minRating)

	productTypes := uc.issues.ProductTypes(issue)
	query := string(issue)
	if len(productTypes) > 0 {
		query += " " + productTypes[0]
	}

	links, err := uc.search(ctx, query+searchSite, min(count*5, maxSearchResults))
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		retries := uc.issues.RetryQueries(issue)
		if len(retries) == 0 {
			uc.log.Infof("Use Case: No search results for %s", issue)
			return []domain.Product{}, nil
		}
		retry := retries[uc.pick(len(retries))]
		uc.log.Infof("Use Case: Retrying %s search with %q", issue, retry)
		if links, err = uc.search(ctx, retry, maxSearchResults); err != nil {
			return nil, err
		}
	}

	uc.consider(ctx, sel, links)

	if !sel.full() {
		alternatives := uc.issues.AlternativeQueries(issue)
		uc.shuffle(alternatives)
		for _, alt := range alternatives {
			if sel.full() {
				break
			}
			links, err := uc.search(ctx, alt, maxSearchResults)
			if err != nil {
				return nil, err
			}
			uc.consider(ctx, sel, links)
		}
	}

	return sel.products, nil
}

// search hides upstream failures from the caller unless the request itself
// was cancelled.
func (uc *recommendationUseCase) search(ctx context.Context, query string, num int) ([]string, error) {
	links, err := uc.searcher.Search(ctx, query, num)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		uc.log.Warnf("Use Case: Search for %q failed: %v", query, err)
		return nil, nil
	}
	return links, nil
}

func (uc *recommendationUseCase) consider(ctx context.Context, sel *selection, links []string) {
	candidates := sel.freshProductLinks(links)
	uc.shuffle(candidates)
	for _, link := range candidates {
		if sel.full() || ctx.Err() != nil {
			return
		}
		sel.offer(uc.extractor.Extract(ctx, link))
	}
}

func (uc *recommendationUseCase) RecommendMany(ctx context.Context, issues []domain.SkinIssue, count int, minRating *float64) ([]IssueRecommendation, error) {
	if len(issues) == 0 {
		return nil, fmt.Errorf("%w: no skin issues given", domain.ErrInvalidSkinIssue)
	}
	for _, issue := range issues {
		if !issue.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSkinIssue, issue)
		}
	}

	results := make([]IssueRecommendation, len(issues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, issue := range issues {
		i, issue := i, issue
		g.Go(func() error {
			products, err := uc.Recommend(gctx, issue, count, minRating)
			if err != nil {
				return err
			}
			results[i] = IssueRecommendation{SkinIssue: issue, Info: uc.infoOrNil(issue), Products: products}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uc.log.Errorf("Use Case: Recommendation fan-out failed: %v", err)
		return nil, err
	}
	return results, nil
}

func (uc *recommendationUseCase) AnalyzeAndRecommend(ctx context.Context, scores map[string]float64, count int, minRating *float64) (*AnalysisRecommendation, error) {
	if err := validateMinRating(minRating); err != nil {
		return nil, err
	}
	analysis, err := uc.analysis.Analyze(scores)
	if err != nil {
		return nil, err
	}
	recs, err := uc.RecommendMany(ctx, analysis.DetectedSkinIssues, count, minRating)
	if err != nil {
		return nil, err
	}
	return &AnalysisRecommendation{AnalysisResult: *analysis, Recommendations: recs}, nil
}

func (uc *recommendationUseCase) IssueWithProducts(ctx context.Context, issue domain.SkinIssue, count int) (*IssueRecommendation, error) {
	info, err := uc.issues.GetInfo(issue)
	if err != nil {
		uc.log.Warnf("Use Case: No information for skin issue %q: %v", issue, err)
		return nil, err
	}
	products, err := uc.Recommend(ctx, issue, count, nil)
	if err != nil {
		return nil, err
	}
	return &IssueRecommendation{SkinIssue: issue, Info: info, Products: products}, nil
}

func (uc *recommendationUseCase) infoOrNil(issue domain.SkinIssue) *domain.SkinIssueInfo {
	info, err := uc.issues.GetInfo(issue)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Skin issue info lookup for %s failed: %v", issue, err)
		}
		return nil
	}
	return info
}

// selection accumulates accepted listings for one recommendation request.
type selection struct {
	issue     domain.SkinIssue
	count     int
	minRating *float64

	seenLinks map[string]struct{}
	seenNames map[string]struct{}
	brands    map[string]int
	products  []domain.Product
}

func newSelection(issue domain.SkinIssue, count int, minRating *float64) *selection {
	return &selection{
		issue:     issue,
		count:     count,
		minRating: minRating,
		seenLinks: make(map[string]struct{}),
		seenNames: make(map[string]struct{}),
		brands:    make(map[string]int),
		products:  []domain.Product{},
	}
}

func (s *selection) full() bool {
	return len(s.products) >= s.count
}

// freshProductLinks keeps Trendyol product pages not offered before and
// marks them as seen.
func (s *selection) freshProductLinks(links []string) []string {
	var out []string
	for _, link := range links {
		if !isTrendyolProduct(link) {
			continue
		}
		if _, dup := s.seenLinks[link]; dup {
			continue
		}
		s.seenLinks[link] = struct{}{}
		out = append(out, link)
	}
	return out
}

func (s *selection) offer(l scraper.Listing) bool {
	if !l.Complete() {
		return false
	}
	name := normalizeText(l.Name)
	if _, dup := s.seenNames[name]; dup {
		return false
	}
	brand := normalizeText(l.Brand)
	if brand != "" && s.brands[brand] >= maxBrandProducts {
		return false
	}
	if s.minRating != nil && (l.Rating == nil || *l.Rating < *s.minRating) {
		return false
	}
	product := ListingToProduct(l, s.issue)
	if err := product.Validate(); err != nil {
		return false
	}

	s.seenNames[name] = struct{}{}
	if brand != "" {
		s.brands[brand]++
	}
	s.products = append(s.products, product)
	return true
}

// ListingToProduct converts a complete listing; the id is derived from the
// purchase link so repeated scrapes map to the same product.
func ListingToProduct(l scraper.Listing, issue domain.SkinIssue) domain.Product {
	var rating *float64
	if l.Rating != nil {
		r := *l.Rating
		rating = &r
	}
	return domain.Product{
		ID:           uuid.NewSHA1(uuid.NameSpaceURL, []byte(l.PurchaseLink)).String(),
		Name:         l.Name,
		Image:        domain.RemoteImage(l.ImageURL),
		Price:        l.Price,
		Brand:        l.Brand,
		PurchaseLink: l.PurchaseLink,
		Rating:       rating,
		SkinIssue:    issue,
	}
}

func isTrendyolProduct(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host != "trendyol.com" && !strings.HasSuffix(host, ".trendyol.com") {
		return false
	}
	return scraper.IsProductPage(link)
}
