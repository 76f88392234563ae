// Package ingest fetches articles from a NewsAPI-compatible endpoint and
// writes the processed, pre-tokenized corpus file the loader consumes.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds the ingestion settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Language   string
	PageSize   int
	Pages      int
	WindowDays int
}

// Service fetches article listings, scrapes and tokenizes each article,
// and persists the processed corpus file. Fetches are single-shot: a failed
// article degrades to an empty token list and a warning, never a retry.
type Service struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// New creates an ingestion service.
func New(cfg Config, client *http.Client, logger *zap.Logger) *Service {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Service{cfg: cfg, client: client, logger: logger, now: time.Now}
}

// articleMeta is one article entry from the news API listing.
type articleMeta struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// listingResponse is the news API response envelope.
type listingResponse struct {
	Status   string        `json:"status"`
	Articles []articleMeta `json:"articles"`
}

// processedDoc matches the corpus loader's on-disk document shape.
type processedDoc struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Title  string   `json:"title"`
	Tokens []string `json:"tokens"`
}

// Run fetches up to cfg.Pages listing pages for query, scrapes and
// tokenizes every article, and writes <query>_<timestamp>.json into
// outDir. Returns the written path and the document count.
func (s *Service) Run(ctx context.Context, query, outDir string) (string, int, error) {
	var all []articleMeta
	for page := 1; page <= s.cfg.Pages; page++ {
		articles, err := s.fetchListing(ctx, query, page)
		if err != nil {
			return "", 0, fmt.Errorf("fetch listing page %d: %w", page, err)
		}
		if len(articles) == 0 {
			break
		}
		all = append(all, articles...)
	}
	if len(all) == 0 {
		return "", 0, fmt.Errorf("no articles retrieved for query %q", query)
	}

	processed := make([]processedDoc, 0, len(all))
	for i, art := range all {
		text := s.fetchArticleText(ctx, art.URL)
		processed = append(processed, processedDoc{
			ID:     "article_" + strconv.Itoa(i+1),
			URL:    art.URL,
			Title:  art.Title,
			Tokens: cleanText(text),
		})
	}

	path, err := s.write(processed, query, outDir)
	if err != nil {
		return "", 0, err
	}
	return path, len(processed), nil
}

// fetchListing retrieves one page of article metadata.
func (s *Service) fetchListing(ctx context.Context, query string, page int) ([]articleMeta, error) {
	to := s.now()
	from := to.AddDate(0, 0, -s.cfg.WindowDays)

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("language", s.cfg.Language)
	params.Set("pageSize", strconv.Itoa(s.cfg.PageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("apiKey", s.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news api request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news api status %d", resp.StatusCode)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	if listing.Status != "ok" {
		s.logger.Warn("news api returned non-ok status",
			zap.String("status", listing.Status),
			zap.Int("page", page),
		)
		return nil, nil
	}
	return listing.Articles, nil
}

// fetchArticleText downloads one article page and extracts its paragraph
// text. Any failure yields an empty string; the article still enters the
// corpus with no tokens.
func (s *Service) fetchArticleText(ctx context.Context, articleURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		s.logger.Warn("skip article", zap.String("url", articleURL), zap.Error(err))
		return ""
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("fetch article failed", zap.String("url", articleURL), zap.Error(err))
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Warn("read article failed", zap.String("url", articleURL), zap.Error(err))
		return ""
	}
	return extractParagraphs(string(body))
}

// write persists the processed corpus under a timestamped filename, the
// format the corpus loader sorts on.
func (s *Service) write(docs []processedDoc, query, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create corpus dir %s: %w", outDir, err)
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode corpus: %w", err)
	}

	path := filepath.Join(outDir, fmt.Sprintf("%s_%s.json", query, s.now().Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write corpus %s: %w", path, err)
	}
	return path, nil
}
