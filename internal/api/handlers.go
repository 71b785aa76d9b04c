// Package api exposes the parser over HTTP for one-off scrapes.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"sephora-scraper/internal/fetch"
	"sephora-scraper/internal/models"
	"sephora-scraper/internal/parser"
)

type Handlers struct {
	fetcher  fetch.Fetcher
	products *parser.ProductParser
	category *parser.CategoryParser
	logger   *slog.Logger
}

func NewHandlers(fetcher fetch.Fetcher, products *parser.ProductParser, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		fetcher:  fetcher,
		products: products,
		category: parser.NewCategoryParser(logger),
		logger:   logger.With("component", "api"),
	}
}

// ScrapeRequest asks for a single product page scrape.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// ScrapeResponse carries the scraped record, or an error message when
// the page could not be fetched.
type ScrapeResponse struct {
	Product *models.ProductRecord `json:"product,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// ScrapeProduct fetches and parses one product URL synchronously.
func (h *Handlers) ScrapeProduct(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	html, err := h.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		h.logger.Error("failed to fetch product page", "url", req.URL, "error", err)
		h.respondJSON(w, http.StatusBadGateway, ScrapeResponse{Error: err.Error()})
		return
	}

	record, err := h.products.ParseProduct(html, req.URL)
	if err != nil {
		h.logger.Error("failed to parse product page", "url", req.URL, "error", err)
		h.respondJSON(w, http.StatusUnprocessableEntity, ScrapeResponse{Error: err.Error()})
		return
	}

	h.respondJSON(w, http.StatusOK, ScrapeResponse{Product: record})
}

// LinksResponse lists the product URLs discovered on a category page.
type LinksResponse struct {
	Links []string `json:"links"`
	Error string   `json:"error,omitempty"`
}

// CategoryLinks fetches a category page and returns its product links.
func (h *Handlers) CategoryLinks(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	html, err := h.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		h.logger.Error("failed to fetch category page", "url", req.URL, "error", err)
		h.respondJSON(w, http.StatusBadGateway, LinksResponse{Error: err.Error()})
		return
	}

	links, err := h.category.ExtractProductLinks(html, req.URL)
	if err != nil {
		h.respondJSON(w, http.StatusUnprocessableEntity, LinksResponse{Error: err.Error()})
		return
	}
	if links == nil {
		links = []string{}
	}

	h.respondJSON(w, http.StatusOK, LinksResponse{Links: links})
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
