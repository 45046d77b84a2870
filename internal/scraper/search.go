package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

const DefaultSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

var ErrSearchNotConfigured = errors.New("search credentials not configured")

type SearchConfig struct {
	Endpoint string
	APIKey   string
	EngineID string
}

type searchResponse struct {
	Items []struct {
		Link  string `json:"link"`
		Title string `json:"title"`
	} `json:"items"`
}

// Searcher queries the Google Custom Search JSON API.
type Searcher struct {
	client *Client
	cfg    SearchConfig
	log    *logrus.Logger
}

func NewSearcher(client *Client, cfg SearchConfig, logger *logrus.Logger) *Searcher {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultSearchEndpoint
	}
	return &Searcher{client: client, cfg: cfg, log: logger}
}

// Search returns result links for query, at most num (capped at 10 by the
// API). An empty slice means the query had no results.
func (s *Searcher) Search(ctx context.Context, query string, num int) ([]string, error) {
	if s.cfg.APIKey == "" || s.cfg.EngineID == "" {
		return nil, ErrSearchNotConfigured
	}
	if num <= 0 {
		num = 10
	}
	if num > 10 {
		num = 10
	}

	req, err := s.client.Request(ctx)
	if err != nil {
		return nil, err
	}
	var result searchResponse
	resp, err := req.
		SetQueryParams(map[string]string{
			"key": s.cfg.APIKey,
			"cx":  s.cfg.EngineID,
			"q":   query,
			"num": strconv.Itoa(num),
		}).
		SetResult(&result).
		Get(s.cfg.Endpoint)
	if err != nil {
		s.log.Errorf("Scraper: Search request failed for %q: %v", query, err)
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		s.log.Errorf("Scraper: Search API error: %d", resp.StatusCode())
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode())
	}

	links := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}
	if len(links) == 0 {
		s.log.Warnf("Scraper: No search results found for %q", query)
	}
	return links, nil
}
