package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sephora-scraper/internal/parser"
)

type stubFetcher struct {
	html string
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return s.html, s.err
}

const productPage = `
<html><head>
<script type="application/ld+json">
{"@type": "Product", "name": "Cream Blush", "sku": "P300"}
</script>
</head><body></body></html>`

func newHandlers(fetcher *stubFetcher) *Handlers {
	products := parser.NewProductParser(parser.Options{MaxReviews: 10, MaxQuestions: 10}, nil)
	return NewHandlers(fetcher, products, nil)
}

func TestScrapeProduct(t *testing.T) {
	h := newHandlers(&stubFetcher{html: productPage})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scrape",
		strings.NewReader(`{"url": "https://www.sephora.com/product/cream-blush-P300"}`))
	rec := httptest.NewRecorder()
	h.ScrapeProduct(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScrapeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Product)
	assert.Equal(t, "P300", resp.Product.Info.ID)
	assert.Equal(t, "Cream Blush", resp.Product.Info.Name)
	assert.Empty(t, resp.Error)
}

func TestScrapeProductRejectsBadRequests(t *testing.T) {
	h := newHandlers(&stubFetcher{html: productPage})

	tests := []struct {
		name string
		body string
	}{
		{"missing url", `{}`},
		{"invalid json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/scrape", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ScrapeProduct(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestScrapeProductFetchFailure(t *testing.T) {
	h := newHandlers(&stubFetcher{err: errors.New("upstream returned 503")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scrape",
		strings.NewReader(`{"url": "https://www.sephora.com/product/gone-P1"}`))
	rec := httptest.NewRecorder()
	h.ScrapeProduct(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ScrapeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "503")
}

func TestCategoryLinks(t *testing.T) {
	h := newHandlers(&stubFetcher{html: `
		<html><body>
		<a href="/product/cream-blush-P300">Cream Blush</a>
		<a href="/shop/face">Face</a>
		</body></html>`})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/category-links",
		strings.NewReader(`{"url": "https://www.sephora.com/shop/blush"}`))
	rec := httptest.NewRecorder()
	h.CategoryLinks(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp LinksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"https://www.sephora.com/product/cream-blush-P300"}, resp.Links)
}

func TestCategoryLinksEmptyPage(t *testing.T) {
	h := newHandlers(&stubFetcher{html: `<html><body></body></html>`})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/category-links",
		strings.NewReader(`{"url": "https://www.sephora.com/shop/empty"}`))
	rec := httptest.NewRecorder()
	h.CategoryLinks(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"links": []}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	h := newHandlers(&stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
