package usecase

import (
	"context"
	"fmt"
	"skincare_service/internal/domain"
	"skincare_service/internal/scraper"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ListingExtractor turns a product page URL into a scraped listing.
type ListingExtractor interface {
	Extract(ctx context.Context, url string) scraper.Listing
}

// ProductSearcher returns result links for a web search query.
type ProductSearcher interface {
	Search(ctx context.Context, query string, num int) ([]string, error)
}

const maxScrapeURLs = 20

// ScrapedListing is a scraped page plus the skin issue its name suggests.
type ScrapedListing struct {
	scraper.Listing
	SkinIssue domain.SkinIssue `json:"skin_issue,omitempty"`
}

type ProductUseCase interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error)
	ListProductsBySkinIssue(ctx context.Context, issue domain.SkinIssue, limit, offset int) ([]domain.Product, error)
	UpsertProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	ScrapeProducts(ctx context.Context, urls []string) ([]ScrapedListing, error)
}

type productUseCase struct {
	productRepo domain.ProductRepository
	issueRepo   domain.SkinIssueRepository
	extractor   ListingExtractor
	log         *logrus.Logger
}

func NewProductUseCase(pRepo domain.ProductRepository, iRepo domain.SkinIssueRepository, extractor ListingExtractor, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo: pRepo,
		issueRepo:   iRepo,
		extractor:   extractor,
		log:         logger,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: empty body", domain.ErrInvalidProduct)
	}
	if strings.TrimSpace(product.ID) == "" {
		product.ID = uuid.NewString()
	}
	if err := product.Validate(); err != nil {
		uc.log.Warnf("Use Case: Rejected product '%s': %v", product.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create product '%s'", product.Name)
	created, err := uc.productRepo.CreateProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", product.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product '%s' created successfully with ID %s", created.Name, created.ID)
	return created, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		uc.log.Warn("Use Case: Attempted to get product with empty ID")
		return nil, fmt.Errorf("%w: missing id", domain.ErrInvalidProduct)
	}

	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product ID %s: %v", id, err)
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies a partial update and revalidates the result. An
// empty update returns the stored product unchanged.
func (uc *productUseCase) UpdateProduct(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error) {
	current, err := uc.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Empty() {
		uc.log.Warnf("Use Case: Update for product ID %s has no fields", id)
		return current, nil
	}

	next := update.Apply(*current)
	if err := next.Validate(); err != nil {
		uc.log.Warnf("Use Case: Update for product ID %s rejected: %v", id, err)
		return nil, err
	}

	updated, err := uc.productRepo.UpdateProduct(ctx, &next)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update product ID %s: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product ID %s updated successfully", id)
	return updated, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: missing id", domain.ErrInvalidProduct)
	}
	if err := uc.productRepo.DeleteProduct(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete product ID %s: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product ID %s deleted successfully", id)
	return nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	products, err := uc.productRepo.ListProducts(ctx, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, err
	}
	return products, nil
}

func (uc *productUseCase) ListProductsBySkinIssue(ctx context.Context, issue domain.SkinIssue, limit, offset int) ([]domain.Product, error) {
	if !issue.Valid() {
		uc.log.Warnf("Use Case: Attempted to list products for unknown skin issue %q", issue)
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSkinIssue, issue)
	}
	products, err := uc.productRepo.ListProductsBySkinIssue(ctx, issue, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products for %s: %v", issue, err)
		return nil, err
	}
	return products, nil
}

func (uc *productUseCase) UpsertProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	saved, err := uc.productRepo.UpsertProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to upsert product ID %s: %v", product.ID, err)
		return nil, err
	}
	return saved, nil
}

// ScrapeProducts extracts each URL in order. Failed pages come back carrying
// only their purchase link.
func (uc *productUseCase) ScrapeProducts(ctx context.Context, urls []string) ([]ScrapedListing, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no urls to scrape", domain.ErrInvalidProduct)
	}
	if len(urls) > maxScrapeURLs {
		return nil, fmt.Errorf("%w: at most %d urls per request", domain.ErrInvalidProduct, maxScrapeURLs)
	}

	listings := make([]ScrapedListing, 0, len(urls))
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		listing := uc.extractor.Extract(ctx, u)
		listings = append(listings, ScrapedListing{
			Listing:   listing,
			SkinIssue: MatchSkinIssue(uc.issueRepo, listing.Name),
		})
	}

	uc.log.Infof("Use Case: Scraped %d product pages", len(listings))
	return listings, nil
}
