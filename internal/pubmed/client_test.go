package pubmed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const esearchBody = `{"esearchresult": {"count": "2", "webenv": "MCID_abc", "querykey": "1"}}`

const efetchBody = `PMID- 1
TI  - First record
DP  - 2020 Jan

PMID- 2
TI  - Second record
DP  - 2020 Feb
`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(WithBaseURL(srv.URL), WithEmail("reviewer@example.org"))
	c.retryBase = time.Millisecond
	return c, srv
}

func TestSearch(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/esearch.fcgi" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("term")
		if r.URL.Query().Get("usehistory") != "y" {
			t.Error("usehistory not set")
		}
		if r.URL.Query().Get("email") != "reviewer@example.org" {
			t.Error("email not sent")
		}
		fmt.Fprint(w, esearchBody)
	}))

	sr, err := c.Search(context.Background(), "aspirin AND headache", 100)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "aspirin AND headache" {
		t.Errorf("term = %q", gotQuery)
	}
	if sr.Count != 2 || sr.WebEnv != "MCID_abc" || sr.QueryKey != "1" {
		t.Errorf("result = %+v", sr)
	}
}

func TestFetch(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/efetch.fcgi" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("WebEnv") != "MCID_abc" || q.Get("query_key") != "1" {
			t.Errorf("history params = %v", q)
		}
		if q.Get("rettype") != "medline" || q.Get("retmode") != "text" {
			t.Errorf("format params = %v", q)
		}
		fmt.Fprint(w, efetchBody)
	}))

	fields, err := c.Fetch(context.Background(), &SearchResult{WebEnv: "MCID_abc", QueryKey: "1"}, 0, 100)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("got %d records, want 2", len(fields))
	}
	if fields[0].Get("TI") != "First record" {
		t.Errorf("TI = %q", fields[0].Get("TI"))
	}
}

func TestHarvest(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/esearch.fcgi":
			fmt.Fprint(w, esearchBody)
		case "/efetch.fcgi":
			fmt.Fprint(w, efetchBody)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))

	var updates []int
	records, err := c.Harvest(context.Background(), "aspirin", 100, 100, func(fetched, total int) {
		updates = append(updates, fetched)
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
	})
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Title != "First record" || records[0].PublicationYear != "2020" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if len(updates) != 1 || updates[0] != 2 {
		t.Errorf("progress updates = %v", updates)
	}
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, esearchBody)
	}))

	if _, err := c.Search(context.Background(), "aspirin", 10); err != nil {
		t.Fatalf("Search after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	attempts := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))

	if _, err := c.Search(context.Background(), "aspirin", 10); err == nil {
		t.Fatal("expected error for HTTP 400")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (400 is not retryable)", attempts)
	}
}

func TestRetryGivesUp(t *testing.T) {
	attempts := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	if _, err := c.Search(context.Background(), "aspirin", 10); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != maxAttempts {
		t.Errorf("attempts = %d, want %d", attempts, maxAttempts)
	}
}
