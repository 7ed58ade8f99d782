// Package duckduckgo searches the web through the DuckDuckGo HTML endpoint.
package duckduckgo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/bububa/lifelog-agent/tools"
)

// Result is one organic search result
type Result struct {
	Title   string
	URL     string
	Snippet string
}

type Config struct {
	tools.Config
	baseURL    string
	userAgent  string
	maxResults int
	httpClient *http.Client
}

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
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	if ret.userAgent == "" {
		ret.userAgent = DefaultUserAgent
	}
	if ret.maxResults == 0 {
		ret.maxResults = 5
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
		parts = append(parts, fmt.Sprintf("%d. %s (%s)\n%s", idx+1, res.Title, res.URL, res.Snippet))
	}
	return strings.Join(parts, "\n"), nil
}

// Run returns up to maxResults organic results for query
func (t *Search) Run(ctx context.Context, query string) ([]Result, error) {
	doc, err := t.fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find(".result__a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return true
		}
		snippetHTML, _ := s.Find(".result__snippet").First().Html()
		snippet, err := htmltomarkdown.ConvertString(snippetHTML)
		if err != nil {
			snippet = s.Find(".result__snippet").First().Text()
		}
		results = append(results, Result{
			Title:   title,
			URL:     resolveLink(href),
			Snippet: cleanSnippet(snippet),
		})
		return len(results) < t.maxResults
	})
	return results, nil
}

func (t *Search) fetch(ctx context.Context, query string) (*goquery.Document, error) {
	values := url.Values{}
	values.Set("q", query)
	searchURL := fmt.Sprintf("%s/html/?%s", strings.TrimSuffix(t.baseURL, "/"), values.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.Header.Set("Accept", DefaultAccept)
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying duckduckgo: %w", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response from duckduckgo: %d", httpResp.StatusCode)
	}
	return goquery.NewDocumentFromReader(httpResp.Body)
}

// resolveLink unwraps the duckduckgo redirect link into the target URL
func resolveLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		u.Scheme = "https"
		return u.String()
	}
	return href
}

var multiSpaceRegex = regexp.MustCompile(`\s+`)

func cleanSnippet(s string) string {
	return strings.TrimSpace(multiSpaceRegex.ReplaceAllString(s, " "))
}
