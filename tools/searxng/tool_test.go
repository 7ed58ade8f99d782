package searxng

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func startSearxngServer(t *testing.T, results []SearchResultItem) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if format := r.URL.Query().Get("format"); format != "json" {
			t.Errorf("expect format json, but got %s", format)
		}
		json.NewEncoder(w).Encode(SearchResponse{Query: r.URL.Query().Get("q"), Results: results})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearxngSearchMissingFields(t *testing.T) {
	mockQuery := "query with missing fields"
	srv := startSearxngServer(t, []SearchResultItem{
		{Title: "Result Missing Content", URL: "https://example.com/1"},
		{Content: "Result Missing Title", URL: "https://example.com/2"},
		{Title: "Result Missing URL", Content: "Some content"},
		{Title: "Valid Result", Content: "Some content", URL: "https://example.com/5"},
	})
	tool := New(WithBaseURL(srv.URL))
	result, err := tool.Run(context.Background(), mockQuery)
	if err != nil {
		t.Fatalf("Error running SearxngSearch: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Error number of results, expect 2, but got %d", len(result))
	}
	if title := result[0].Title; title != "Result Missing Content" {
		t.Errorf("Expect title Result Missing Content, but got %s", title)
	}
	if title := result[1].Title; title != "Valid Result" {
		t.Errorf("Expect title Valid Result, but got %s", title)
	}
	if q := result[1].Query; q != mockQuery {
		t.Errorf("Expect query %s, but got %s", mockQuery, q)
	}
}

func TestSearxngSearchWithMaxResults(t *testing.T) {
	srv := startSearxngServer(t, []SearchResultItem{
		{Title: "Result with Published Date", Content: "Content with published date", URL: "https://example.com/published-data", PublishedDate: "2022-01-01"},
		{Title: "Result without dates", Content: "Content without dates", URL: "https://example.com/no-dates"},
		{Title: "Third", URL: "https://example.com/third"},
	})
	tool := New(WithBaseURL(srv.URL), WithMaxResults(2))
	got, err := tool.Invoke(context.Background(), "query with max results")
	if err != nil {
		t.Fatalf("Error running SearxngSearch: %v", err)
	}
	expect := "1. Result with Published Date (https://example.com/published-data) [2022-01-01]\nContent with published date\n2. Result without dates (https://example.com/no-dates)\nContent without dates"
	if got != expect {
		t.Errorf("Expect\n%s\nbut got\n%s", expect, got)
	}
}

func TestSearxngSearchWithNoResults(t *testing.T) {
	srv := startSearxngServer(t, nil)
	got, err := New(WithBaseURL(srv.URL)).Invoke(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Error running SearxngSearch: %v", err)
	}
	if got != "No web results found." {
		t.Errorf("Expect no results marker, but got %s", got)
	}
}
