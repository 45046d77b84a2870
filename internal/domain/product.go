package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type ImageKind string

const (
	ImageLocal  ImageKind = "local"
	ImageRemote ImageKind = "remote"
)

// ImageRef points at a product image that is either bundled with the client
// (Handle) or served from a URL (URI). Exactly one of the two is set,
// according to Kind.
type ImageRef struct {
	Kind   ImageKind `json:"kind"`
	Handle string    `json:"handle,omitempty"`
	URI    string    `json:"uri,omitempty"`
}

func LocalImage(handle string) ImageRef {
	return ImageRef{Kind: ImageLocal, Handle: handle}
}

// RemoteImage builds a remote reference, upgrading protocol-relative URLs
// to https.
func RemoteImage(uri string) ImageRef {
	if strings.HasPrefix(uri, "//") {
		uri = "https:" + uri
	}
	return ImageRef{Kind: ImageRemote, URI: uri}
}

// ImageFromString classifies a loose image value: http(s) and
// protocol-relative URLs are remote, everything else is a local handle.
func ImageFromString(s string) ImageRef {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(s, "//") {
		return RemoteImage(s)
	}
	return LocalImage(s)
}

// Value returns the handle or URI, whichever the kind selects.
func (r ImageRef) Value() string {
	if r.Kind == ImageRemote {
		return r.URI
	}
	return r.Handle
}

func (r ImageRef) IsZero() bool {
	return r.Kind == "" && r.Handle == "" && r.URI == ""
}

func (r ImageRef) Validate() error {
	switch r.Kind {
	case ImageLocal:
		if r.Handle == "" || r.URI != "" {
			return fmt.Errorf("%w: local image needs a handle and no uri", ErrInvalidProduct)
		}
	case ImageRemote:
		if r.URI == "" || r.Handle != "" {
			return fmt.Errorf("%w: remote image needs a uri and no handle", ErrInvalidProduct)
		}
	default:
		return fmt.Errorf("%w: unknown image kind %q", ErrInvalidProduct, r.Kind)
	}
	return nil
}

// UnmarshalJSON accepts the tagged object form and, for older clients, a
// bare string.
func (r *ImageRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = ImageFromString(s)
		return nil
	}
	type plain ImageRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: image: %v", ErrInvalidProduct, err)
	}
	*r = ImageRef(p)
	if r.Kind == ImageRemote {
		*r = RemoteImage(r.URI)
	}
	return nil
}

// Product is a purchasable item. ID, Name, Image and Price are required;
// Price is display text, never parsed into a number.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Image        ImageRef  `json:"imageUrl"`
	Price        string    `json:"price"`
	Brand        string    `json:"brand,omitempty"`
	PurchaseLink string    `json:"purchase_link,omitempty"`
	Rating       *float64  `json:"rating,omitempty"`
	SkinIssue    SkinIssue `json:"skin_issue,omitempty"`
}

// Validate checks the four required fields and the optional ones that
// carry constraints.
func (p *Product) Validate() error {
	var missing []string
	if strings.TrimSpace(p.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if p.Image.IsZero() {
		missing = append(missing, "imageUrl")
	}
	if strings.TrimSpace(p.Price) == "" {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidProduct, strings.Join(missing, ", "))
	}
	if err := p.Image.Validate(); err != nil {
		return err
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		return fmt.Errorf("%w: rating %.2f out of range 0-5", ErrInvalidProduct, *p.Rating)
	}
	if p.SkinIssue != "" && !p.SkinIssue.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSkinIssue, p.SkinIssue)
	}
	return nil
}

// ProductUpdate carries the fields of a partial update; nil means unchanged.
type ProductUpdate struct {
	Name         *string
	Image        *ImageRef
	Price        *string
	Brand        *string
	PurchaseLink *string
	Rating       *float64
	SkinIssue    *SkinIssue
}

func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Image == nil && u.Price == nil && u.Brand == nil &&
		u.PurchaseLink == nil && u.Rating == nil && u.SkinIssue == nil
}

// Apply returns a copy of p with the update applied.
func (u ProductUpdate) Apply(p Product) Product {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Brand != nil {
		p.Brand = *u.Brand
	}
	if u.PurchaseLink != nil {
		p.PurchaseLink = *u.PurchaseLink
	}
	if u.Rating != nil {
		r := *u.Rating
		p.Rating = &r
	}
	if u.SkinIssue != nil {
		p.SkinIssue = *u.SkinIssue
	}
	return p
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	UpsertProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	UpdateProduct(ctx context.Context, product *Product) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, limit, offset int) ([]Product, error)
	ListProductsBySkinIssue(ctx context.Context, issue SkinIssue, limit, offset int) ([]Product, error)
}

// RecommendationCache stores recommendation results for a query key.
// Get reports ok=false on a miss.
type RecommendationCache interface {
	Get(ctx context.Context, key string) ([]Product, bool, error)
	Set(ctx context.Context, key string, products []Product) error
}
