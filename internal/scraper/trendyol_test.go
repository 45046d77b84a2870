package scraper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<!DOCTYPE html>
<html><head><title>x</title></head>
<body>
  <h1 class="pr-new-br"><a>The Ordinary</a> Niacinamide 10% + Zinc 1% 30 ml</h1>
  <div class="pr-bx-w"><span class="prc-dsc">449,90 TL</span></div>
  <div class="rating-line-count"><span class="tltp-avg">4,6</span></div>
  <div class="gallery-modal-content"><img src="//cdn.dsmcdn.com/ty1/niacinamide.jpg"></div>
</body></html>`

const jsonLDPage = `<!DOCTYPE html>
<html><head>
<script type="application/ld+json">
{"@type":"Product","name":"Bioderma Sébium <b>Gel</b> Moussant &amp; Temizleyici",
 "offers":{"price":329.5},
 "aggregateRating":{"ratingValue":"4.3"},
 "image":["https://cdn.dsmcdn.com/ty2/sebium.jpg"],
 "brand":{"name":"Bioderma"}}
</script>
</head><body><div>no selectors here</div></body></html>`

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testClient() *Client {
	return NewClient(ClientConfig{
		Timeout:      2 * time.Second,
		MaxRetries:   2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}, testLogger())
}

func TestIsProductPage(t *testing.T) {
	assert.True(t, IsProductPage("https://www.trendyol.com/the-ordinary/niacinamide-p-3175425"))
	assert.True(t, IsProductPage("https://example.com/urun/krem"))
	assert.True(t, IsProductPage("https://example.com/product/42"))
	assert.False(t, IsProductPage("https://www.trendyol.com/sr?q=akne"))
	assert.False(t, IsProductPage("https://www.trendyol.com/cilt-bakim-x-c1339"))
}

func TestParseListingSelectors(t *testing.T) {
	link := "https://www.trendyol.com/the-ordinary/niacinamide-p-1"
	listing, err := ParseListing(link, strings.NewReader(productPage))
	require.NoError(t, err)

	assert.Equal(t, link, listing.PurchaseLink)
	assert.Equal(t, "The Ordinary Niacinamide 10% + Zinc 1% 30 ml", listing.Name)
	assert.Equal(t, "449,90", listing.Price)
	require.NotNil(t, listing.Rating)
	assert.InDelta(t, 4.6, *listing.Rating, 1e-9)
	assert.Equal(t, "https://cdn.dsmcdn.com/ty1/niacinamide.jpg", listing.ImageURL)
	assert.Equal(t, "The Ordinary Niacinamide 10% + Zinc 1% 30 ml", listing.Brand)
	assert.True(t, listing.Complete())
}

func TestParseListingJSONLDFallback(t *testing.T) {
	listing, err := ParseListing("https://www.trendyol.com/bioderma/sebium-p-2", strings.NewReader(jsonLDPage))
	require.NoError(t, err)

	assert.Equal(t, "Bioderma Sébium Gel Moussant & Temizleyici", listing.Name)
	assert.Equal(t, "329.5", listing.Price)
	require.NotNil(t, listing.Rating)
	assert.InDelta(t, 4.3, *listing.Rating, 1e-9)
	assert.Equal(t, "https://cdn.dsmcdn.com/ty2/sebium.jpg", listing.ImageURL)
	assert.Equal(t, "Bioderma", listing.Brand)
}

func TestParseListingBrandFromName(t *testing.T) {
	page := `<html><body><h1 class="product-detail-name">Avène Cicalfate+ Krem</h1></body></html>`
	listing, err := ParseListing("u", strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Avène", listing.Brand)
	assert.False(t, listing.Complete())

	page = `<html><body><h1 class="product-detail-name">Ax krem</h1></body></html>`
	listing, err = ParseListing("u", strings.NewReader(page))
	require.NoError(t, err)
	assert.Empty(t, listing.Brand)
}

func TestParseRating(t *testing.T) {
	r, ok := parseRating(" 4,8 (120 değerlendirme)")
	require.True(t, ok)
	assert.InDelta(t, 4.8, r, 1e-9)

	r, ok = parseRating("5")
	require.True(t, ok)
	assert.InDelta(t, 5.0, r, 1e-9)

	_, ok = parseRating("yok")
	assert.False(t, ok)
}

func TestExtractFetchesPage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, productPage)
	}))
	defer srv.Close()

	extractor := NewExtractor(testClient(), testLogger())
	listing := extractor.Extract(context.Background(), srv.URL+"/the-ordinary/niacinamide-p-1")

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "449,90", listing.Price)
	assert.True(t, listing.Complete())
}

func TestExtractNonOKKeepsLinkOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	link := srv.URL + "/gone-p-9"
	listing := NewExtractor(testClient(), testLogger()).Extract(context.Background(), link)
	assert.Equal(t, Listing{PurchaseLink: link}, listing)
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	listing := NewExtractor(testClient(), testLogger()).Extract(ctx, "http://127.0.0.1:1/x-p-1")
	assert.Equal(t, "http://127.0.0.1:1/x-p-1", listing.PurchaseLink)
	assert.Empty(t, listing.Name)
}
