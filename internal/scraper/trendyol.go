package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
)

// Selector fallbacks, tried in order; the first match wins.
var (
	nameSelectors = []string{
		".pr-new-br", ".prdct-desc-cntnr-name", "h1.pr-new-br",
		".product-name", ".product-detail-name",
	}
	priceSelectors = []string{
		".prc-dsc", ".product-price", ".price-container",
		".pr-bx-w .prc-dsc", ".pr-bx-nm .prc-dsc",
		".pr-bx-w .prc-org", "[data-testid='price-current-price']",
		".product-price-container .prc-dsc",
	}
	ratingSelectors = []string{
		".tltp-avg", ".rating-score", ".star-w .rt",
		"[data-testid='rating-score']",
	}
	imageSelectors = []string{
		".product-slide img", ".gallery-modal-content img",
		".base-product-image", ".product-img",
		"[data-testid='product-image']", ".ph-gl-img",
	}
	brandSelectors = []string{
		".pr-new-br", ".prdct-desc-cntnr-ttl",
		".product-brand", ".brand-name",
	}

	priceNoise    = regexp.MustCompile(`[^\d,.]`)
	ratingPattern = regexp.MustCompile(`\d+\.\d+|\d+`)
	strictPolicy  = bluemonday.StrictPolicy()
)

var productPageMarkers = []string{"/p-", "-p-", "/urun/", "/product/"}

// IsProductPage reports whether url looks like a product detail page
// rather than a listing or search page.
func IsProductPage(url string) bool {
	for _, marker := range productPageMarkers {
		if strings.Contains(url, marker) {
			return true
		}
	}
	return false
}

// Listing is what could be read from a product page. Only PurchaseLink is
// always set.
type Listing struct {
	Name         string   `json:"name,omitempty"`
	PurchaseLink string   `json:"purchase_link"`
	Price        string   `json:"price,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Brand        string   `json:"brand,omitempty"`
}

// Complete reports whether the listing carries everything a catalog
// product needs.
func (l Listing) Complete() bool {
	return l.Name != "" && l.Price != "" && l.ImageURL != ""
}

type Extractor struct {
	client *Client
	log    *logrus.Logger
}

func NewExtractor(client *Client, logger *logrus.Logger) *Extractor {
	return &Extractor{client: client, log: logger}
}

// Extract fetches and parses a product page. Failures are logged and yield
// a listing that only carries the link.
func (e *Extractor) Extract(ctx context.Context, url string) Listing {
	listing := Listing{PurchaseLink: url}

	req, err := e.client.Request(ctx)
	if err != nil {
		e.log.Warnf("Scraper: Could not schedule request for %s: %v", url, err)
		return listing
	}
	resp, err := req.Get(url)
	if err != nil {
		e.log.Errorf("Scraper: Trendyol data extraction error for %s: %v", url, err)
		return listing
	}
	if resp.StatusCode() != http.StatusOK {
		e.log.Errorf("Scraper: Could not access URL: %s, Status code: %d", url, resp.StatusCode())
		return listing
	}

	parsed, err := ParseListing(url, bytes.NewReader(resp.Body()))
	if err != nil {
		e.log.Errorf("Scraper: Could not parse %s: %v", url, err)
		return listing
	}
	e.log.Debugf("Scraper: Extracted %q from %s", parsed.Name, url)
	return parsed
}

// ParseListing reads a product page from body.
func ParseListing(pageURL string, body io.Reader) (Listing, error) {
	listing := Listing{PurchaseLink: pageURL}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return listing, fmt.Errorf("parse failed: %w", err)
	}

	if sel, ok := firstMatch(doc, nameSelectors); ok {
		listing.Name = strings.TrimSpace(sel.Text())
	}
	if sel, ok := firstMatch(doc, priceSelectors); ok {
		listing.Price = normalizePrice(sel.Text())
	}
	for _, selector := range ratingSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if r, ok := parseRating(sel.Text()); ok {
			listing.Rating = &r
			break
		}
	}
	for _, selector := range imageSelectors {
		if src, ok := doc.Find(selector).First().Attr("src"); ok && src != "" {
			listing.ImageURL = normalizeImageURL(src)
			break
		}
	}
	if sel, ok := firstMatch(doc, brandSelectors); ok {
		listing.Brand = strings.TrimSpace(sel.Text())
	}

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		return !applyJSONLD(&listing, s.Text())
	})

	if listing.Brand == "" && listing.Name != "" {
		if first := strings.Fields(listing.Name); len(first) > 0 && utf8.RuneCountInString(first[0]) > 2 {
			listing.Brand = first[0]
		}
	}
	return listing, nil
}

func firstMatch(doc *goquery.Document, selectors []string) (*goquery.Selection, bool) {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			return sel, true
		}
	}
	return nil, false
}

func normalizePrice(text string) string {
	return priceNoise.ReplaceAllString(strings.TrimSpace(text), "")
}

func parseRating(text string) (float64, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	match := ratingPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func normalizeImageURL(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}

func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// applyJSONLD fills fields still missing from a product JSON-LD block.
// It returns true when the block was a parseable object.
func applyJSONLD(listing *Listing, raw string) bool {
	var data map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &data); err != nil {
		return false
	}

	if listing.Name == "" {
		if name, ok := data["name"].(string); ok {
			listing.Name = cleanText(name)
		}
	}
	if listing.Price == "" {
		if offers, ok := data["offers"].(map[string]any); ok {
			if price := scalarString(offers["price"]); price != "" {
				listing.Price = price
			}
		}
	}
	if listing.Rating == nil {
		if agg, ok := data["aggregateRating"].(map[string]any); ok {
			if r, ok := parseRating(scalarString(agg["ratingValue"])); ok {
				listing.Rating = &r
			}
		}
	}
	if listing.ImageURL == "" {
		switch img := data["image"].(type) {
		case string:
			listing.ImageURL = normalizeImageURL(img)
		case []any:
			if len(img) > 0 {
				if s, ok := img[0].(string); ok {
					listing.ImageURL = normalizeImageURL(s)
				}
			}
		}
	}
	if listing.Brand == "" {
		switch brand := data["brand"].(type) {
		case map[string]any:
			if name, ok := brand["name"].(string); ok {
				listing.Brand = cleanText(name)
			}
		case string:
			listing.Brand = cleanText(brand)
		}
	}
	return true
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}
