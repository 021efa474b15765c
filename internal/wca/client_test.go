package wca

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
)

func TestClient_Page(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "compcal") {
			t.Errorf("User-Agent = %q, should contain 'compcal'", ua)
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":"A","announced_at":"2026-10-16T08:00:00.000Z"},{"id":"B"}]`)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)

	query := url.Values{}
	query.Set("q", "")
	query.Set("announced_after", "2026-10-16T06:00:00.000Z")

	comps, err := client.Page(context.Background(), query, 3)
	if err != nil {
		t.Fatalf("Page() error: %v", err)
	}

	if len(comps) != 2 || comps[0].ID != "A" || comps[1].ID != "B" {
		t.Errorf("Page() = %+v", comps)
	}
	if gotQuery.Get("page") != "3" {
		t.Errorf("page param = %q, want 3", gotQuery.Get("page"))
	}
	if gotQuery.Get("announced_after") != "2026-10-16T06:00:00.000Z" {
		t.Errorf("announced_after param = %q", gotQuery.Get("announced_after"))
	}
	if query.Has("page") {
		t.Error("Page() must not modify the caller's query")
	}
}

func TestClient_PageErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: ""},
		{name: "not found", status: http.StatusNotFound, body: "missing"},
		{name: "malformed body", status: http.StatusOK, body: "<html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, nil).Page(context.Background(), url.Values{}, 1)
			if err == nil {
				t.Error("Page() expected error, got nil")
			}
		})
	}
}

func TestFetchAll_AgainstServer(t *testing.T) {
	total := PageSize + 4
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		start := (page - 1) * PageSize
		end := start + PageSize
		if end > total {
			end = total
		}
		items := make([]string, 0)
		for i := start; i < end; i++ {
			items = append(items, fmt.Sprintf(`{"id":"C%d"}`, i))
		}
		fmt.Fprintf(w, "[%s]", strings.Join(items, ","))
	}))
	defer server.Close()

	comps, err := FetchAll(context.Background(), NewClient(server.URL, nil), url.Values{}, 10, nil)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if len(comps) != total {
		t.Fatalf("FetchAll() returned %d, want %d", len(comps), total)
	}
	if comps[PageSize].ID != fmt.Sprintf("C%d", PageSize) {
		t.Errorf("first item of page 2 = %q", comps[PageSize].ID)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", nil)
	if c.baseURL != CompetitionsURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, CompetitionsURL)
	}
	if c.httpClient == nil {
		t.Error("httpClient is nil")
	}
}
