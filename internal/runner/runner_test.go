package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sephora-scraper/internal/config"
	"sephora-scraper/internal/models"
	"sephora-scraper/internal/parser"
	"sephora-scraper/internal/queue"
)

type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	page, ok := f.pages[url]
	if !ok {
		return "", errors.New("503 from upstream")
	}
	return page, nil
}

type captureSink struct {
	saved []models.ProductRecord
}

func (c *captureSink) SaveRecords(_ context.Context, dataset []models.ProductRecord) error {
	c.saved = append(c.saved, dataset...)
	return nil
}

const productPage = `
<html><head>
<script type="application/ld+json">
{"@type": "Product", "name": "Lip Oil", "sku": "P100", "brand": {"name": "Glow Lab"}}
</script>
</head><body></body></html>`

const productPageWithSimilar = `
<html><head>
<script type="application/ld+json">
{"@type": "Product", "name": "Blush", "sku": "P200"}
</script>
</head><body>
<section><h2>You May Also Like</h2>
<a href="/product/lip-oil-P100">Lip Oil</a>
</section>
</body></html>`

const categoryPage = `
<html><body>
<a href="/product/lip-oil-P100">Lip Oil</a>
<a href="/product/blush-P200">Blush</a>
<a href="/shop/skincare">Skincare</a>
</body></html>`

func newTestRunner(t *testing.T, fetcher *fakeFetcher, sink RecordSink) *Runner {
	t.Helper()
	products := parser.NewProductParser(parser.Options{MaxReviews: 50, MaxQuestions: 30}, nil)
	worklist := queue.NewWorklist(queue.NewInMemoryQueue())
	return New(fetcher, products, worklist, sink, nil)
}

func TestRunScrapesSeededProducts(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.sephora.com/product/lip-oil-P100": productPage,
	}}
	r := newTestRunner(t, fetcher, nil)

	dataset, err := r.Run(context.Background(), &config.Inputs{
		ProductURLs: []string{"https://www.sephora.com/product/lip-oil-P100"},
	})
	require.NoError(t, err)
	require.Len(t, dataset, 1)
	assert.Equal(t, "P100", dataset[0].Info.ID)
	assert.Equal(t, "Lip Oil", dataset[0].Info.Name)
	assert.Equal(t, "https://www.sephora.com/product/lip-oil-P100", dataset[0].SourceURL)
}

func TestRunExpandsCategoryPages(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.sephora.com/shop/lips":            categoryPage,
		"https://www.sephora.com/product/lip-oil-P100": productPage,
		"https://www.sephora.com/product/blush-P200":   productPage,
	}}
	r := newTestRunner(t, fetcher, nil)

	dataset, err := r.Run(context.Background(), &config.Inputs{
		CategoryURLs: []string{"https://www.sephora.com/shop/lips"},
	})
	require.NoError(t, err)
	assert.Len(t, dataset, 2)
}

func TestRunSkipsFailingURLs(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.sephora.com/product/lip-oil-P100": productPage,
	}}
	r := newTestRunner(t, fetcher, nil)

	dataset, err := r.Run(context.Background(), &config.Inputs{
		ProductURLs: []string{
			"https://www.sephora.com/product/broken-P999",
			"https://www.sephora.com/product/lip-oil-P100",
		},
	})
	require.NoError(t, err)
	require.Len(t, dataset, 1)
	assert.Equal(t, "P100", dataset[0].Info.ID)
}

func TestRunDeduplicatesAcrossSources(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.sephora.com/shop/lips":            categoryPage,
		"https://www.sephora.com/product/lip-oil-P100": productPage,
		"https://www.sephora.com/product/blush-P200":   productPage,
	}}
	r := newTestRunner(t, fetcher, nil)

	dataset, err := r.Run(context.Background(), &config.Inputs{
		ProductURLs:  []string{"https://www.sephora.com/product/lip-oil-P100"},
		CategoryURLs: []string{"https://www.sephora.com/shop/lips"},
	})
	require.NoError(t, err)
	assert.Len(t, dataset, 2)

	fetches := map[string]int{}
	for _, url := range fetcher.calls {
		fetches[url]++
	}
	assert.Equal(t, 1, fetches["https://www.sephora.com/product/lip-oil-P100"])
}

func TestRunFollowsSimilarProducts(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.sephora.com/product/blush-P200":   productPageWithSimilar,
		"https://www.sephora.com/product/lip-oil-P100": productPage,
	}}
	r := newTestRunner(t, fetcher, nil)

	dataset, err := r.Run(context.Background(), &config.Inputs{
		ProductURLs:            []string{"https://www.sephora.com/product/blush-P200"},
		IncludeSimilarProducts: true,
	})
	require.NoError(t, err)
	require.Len(t, dataset, 2)
	assert.Equal(t, "P200", dataset[0].Info.ID)
	assert.Equal(t, "P100", dataset[1].Info.ID)
}

func TestRunIgnoresSimilarProductsWhenDisabled(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.sephora.com/product/blush-P200": productPageWithSimilar,
	}}
	r := newTestRunner(t, fetcher, nil)

	dataset, err := r.Run(context.Background(), &config.Inputs{
		ProductURLs: []string{"https://www.sephora.com/product/blush-P200"},
	})
	require.NoError(t, err)
	assert.Len(t, dataset, 1)
}

func TestRunSkipsUnfetchableCategory(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{}}
	r := newTestRunner(t, fetcher, nil)

	dataset, err := r.Run(context.Background(), &config.Inputs{
		CategoryURLs: []string{"https://www.sephora.com/shop/unreachable"},
	})
	require.NoError(t, err)
	assert.Empty(t, dataset)
}

type fakeExporter struct {
	exported []models.ProductRecord
	basePath string
	formats  []string
}

func (f *fakeExporter) Export(dataset []models.ProductRecord, basePath string, formats []string) error {
	f.exported = dataset
	f.basePath = basePath
	f.formats = formats
	return nil
}

func TestFinishExportsAndPersists(t *testing.T) {
	sink := &captureSink{}
	r := newTestRunner(t, &fakeFetcher{}, sink)

	dataset := []models.ProductRecord{{SourceURL: "https://www.sephora.com/product/a-P1"}}
	exporter := &fakeExporter{}

	err := r.Finish(context.Background(), dataset, exporter, config.ExportConfig{
		OutputDir: "out",
		Formats:   []string{"json", "csv"},
	})
	require.NoError(t, err)
	assert.Len(t, exporter.exported, 1)
	assert.Equal(t, []string{"json", "csv"}, exporter.formats)
	assert.Len(t, sink.saved, 1)
}

func TestFinishSkipsEmptyDataset(t *testing.T) {
	r := newTestRunner(t, &fakeFetcher{}, nil)
	exporter := &fakeExporter{formats: nil}

	err := r.Finish(context.Background(), nil, exporter, config.ExportConfig{OutputDir: "out", Formats: []string{"json"}})
	require.NoError(t, err)
	assert.Nil(t, exporter.exported)
}
