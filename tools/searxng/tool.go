package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bububa/lifelog-agent/tools"
)

type Category = string

const (
	GeneralCategory     Category = "general"
	NewsCategory        Category = "news"
	SocialMediaCategory Category = "social_media"
)

// SearchResultItem represents a single search result item
type SearchResultItem struct {
	// URL The URL of the search result
	URL string `json:"url"`
	// Title The title of the search result
	Title string `json:"title"`
	// Content The content snippet of the search result
	Content string `json:"content,omitempty"`
	// PublishedDate is set by news engines
	PublishedDate string `json:"publishedDate,omitempty"`
	// Query The query used to obtain this search result
	Query string `json:"query,omitempty"`
}

func (s SearchResultItem) String() string {
	line := s.Title + " (" + s.URL + ")"
	if s.PublishedDate != "" {
		line += " [" + s.PublishedDate + "]"
	}
	if s.Content != "" {
		line += "\n" + s.Content
	}
	return line
}

// SearchResponse represents the entire response from the search engine
type SearchResponse struct {
	Query           string             `json:"query"`
	NumberOfResults int                `json:"number_of_results"`
	Results         []SearchResultItem `json:"results"`
}

type Config struct {
	tools.Config
	language   string
	baseURL    string
	category   Category
	maxResults int
	httpClient *http.Client
}

// Search is a web search tool backed by a SearxNG instance
type Search struct {
	Config
}

var _ tools.Tool = (*Search)(nil)

func New(opts ...Option) *Search {
	ret := new(Search)
	ret.SetTitle(tools.WebSearch)
	ret.SetDescription("searches the internet for up-to-date public information")
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.category == "" {
		ret.category = GeneralCategory
	}
	if ret.maxResults == 0 {
		ret.maxResults = 10
	}
	if ret.httpClient == nil {
		ret.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return ret
}

func (t *Search) Invoke(ctx context.Context, query string) (string, error) {
	results, err := t.Run(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return tools.NotFound("No web results found."), nil
	}
	parts := make([]string, 0, len(results))
	for idx, res := range results {
		parts = append(parts, fmt.Sprintf("%d. %s", idx+1, res.String()))
	}
	return strings.Join(parts, "\n"), nil
}

// Run returns up to maxResults results having both a title and a URL
func (t *Search) Run(ctx context.Context, query string) ([]SearchResultItem, error) {
	items, err := t.fetchSearchResults(ctx, query)
	if err != nil {
		return nil, err
	}
	results := make([]SearchResultItem, 0, min(len(items), t.maxResults))
	for _, item := range items {
		if item.Title == "" || item.URL == "" {
			continue
		}
		results = append(results, item)
		if len(results) >= t.maxResults {
			break
		}
	}
	return results, nil
}

// fetchSearchResults queries the search engine and returns the parsed search response
func (t *Search) fetchSearchResults(ctx context.Context, query string) ([]SearchResultItem, error) {
	// Encode the query parameter
	values := url.Values{}
	values.Set("q", query)
	values.Set("safesearch", "0")
	values.Set("format", "json")
	values.Set("engines", "bing,duckduckgo,google,startpage,yandex")
	if t.language != "" {
		values.Set("language", t.language)
	}
	if t.category != "" {
		values.Set("categories", t.category)
	}
	searchURL := fmt.Sprintf("%s/search?%s", strings.TrimSuffix(t.baseURL, "/"), values.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying search engine: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response from search engine: %d", httpResp.StatusCode)
	}

	var searchResponse SearchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&searchResponse); err != nil {
		return nil, err
	}
	for idx := range searchResponse.Results {
		searchResponse.Results[idx].Query = query
	}

	return searchResponse.Results, nil
}
