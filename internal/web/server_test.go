package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/solvetrace/solvetrace/pkg/solvetrace"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/history"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/history/memstore"
)

func newTestServer(journal history.Store) http.Handler {
	s := New(Options{
		Solver:  solvetrace.New(solvetrace.Options{}),
		Journal: journal,
	})
	return s.Handler()
}

// parsePage parses a response body and returns the document root.
func parsePage(t *testing.T, body []byte) *html.Node {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// pageText collects all text nodes of a document.
func pageText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// findElement returns the first element with the given tag for which
// match reports true, or nil.
func findElement(n *html.Node, tag string, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && (match == nil || match(n)) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func countElements(n *html.Node, tag string) int {
	count := 0
	if n.Type == html.ElementNode && n.Data == tag {
		count++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countElements(c, tag)
	}
	return count
}

func TestIndexGet(t *testing.T) {
	h := newTestServer(nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want %d", rec.Code, http.StatusOK)
	}

	doc := parsePage(t, rec.Body.Bytes())
	input := findElement(doc, "input", func(n *html.Node) bool { return attr(n, "name") == "query" })
	if input == nil {
		t.Fatal("expected a query input on the page")
	}
	if findElement(doc, "select", nil) == nil {
		t.Error("expected a kind select on the page")
	}
	if findElement(doc, "ol", nil) != nil {
		t.Error("expected no step list before a query is answered")
	}
}

func TestIndexPostRendersSteps(t *testing.T) {
	h := newTestServer(nil)

	form := url.Values{"query": {"x**2 - 5*x + 6 = 0"}, "kind": {"auto"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST / status = %d, want %d", rec.Code, http.StatusOK)
	}

	doc := parsePage(t, rec.Body.Bytes())
	input := findElement(doc, "input", func(n *html.Node) bool { return attr(n, "name") == "query" })
	if input == nil {
		t.Fatal("expected a query input on the page")
	}
	if got := attr(input, "value"); got != "x**2 - 5*x + 6 = 0" {
		t.Errorf("echoed query = %q, want %q", got, "x**2 - 5*x + 6 = 0")
	}

	if n := countElements(doc, "li"); n != 5 {
		t.Errorf("expected 5 step items, got %d", n)
	}

	text := pageText(doc)
	if !strings.Contains(text, "Discriminant") {
		t.Error("expected a discriminant step on the page")
	}
	if !strings.Contains(text, "3, 2") {
		t.Errorf("expected result %q on the page, got:\n%s", "3, 2", text)
	}
}

func TestIndexPostUnresolved(t *testing.T) {
	h := newTestServer(nil)

	form := url.Values{"query": {"x + 1"}, "kind": {"solve"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	text := pageText(parsePage(t, rec.Body.Bytes()))
	if !strings.Contains(text, "no result") {
		t.Error("expected the no-result marker on the page")
	}
	if !strings.Contains(text, "exactly one '='") {
		t.Error("expected the equals-sign step on the page")
	}
}

func TestIndexNotFound(t *testing.T) {
	h := newTestServer(nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func postSolve(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPISolveEquation(t *testing.T) {
	h := newTestServer(nil)
	rec := postSolve(t, h, `{"query": "x**2 - 5*x + 6 = 0"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var resp struct {
		Result []string `json:"result"`
		Steps  []string `json:"steps"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Result) != 2 || resp.Result[0] != "3" || resp.Result[1] != "2" {
		t.Errorf("result = %v, want [3 2]", resp.Result)
	}
	if len(resp.Steps) != 5 {
		t.Errorf("expected 5 steps, got %d", len(resp.Steps))
	}
}

func TestAPISolveSingle(t *testing.T) {
	h := newTestServer(nil)
	rec := postSolve(t, h, `{"query": "diff(x**2, x)"}`)

	var resp struct {
		Result any `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got, ok := resp.Result.(string); !ok || got != "2*x" {
		t.Errorf("result = %v, want %q", resp.Result, "2*x")
	}
}

func TestAPISolveAbsentIsNull(t *testing.T) {
	h := newTestServer(nil)
	rec := postSolve(t, h, `{"query": "x + = 0", "kind": "solve"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(resp["result"]) != "null" {
		t.Errorf("result = %s, want null", resp["result"])
	}
	var steps []string
	if err := json.Unmarshal(resp["steps"], &steps); err != nil || len(steps) == 0 {
		t.Errorf("expected explanatory steps, got %s", resp["steps"])
	}
}

func TestAPISolveEmptyQuery(t *testing.T) {
	h := newTestServer(nil)
	rec := postSolve(t, h, `{"query": ""}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "No query provided" {
		t.Errorf("error = %q, want %q", resp["error"], "No query provided")
	}
}

func TestAPISolveBadJSON(t *testing.T) {
	h := newTestServer(nil)

	for _, body := range []string{`{`, `{"query": "x", "bogus": 1}`, `{"query":"x"} trailing`} {
		rec := postSolve(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestAPISolveMethodNotAllowed(t *testing.T) {
	h := newTestServer(nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/solve", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHistoryDisabled(t *testing.T) {
	h := newTestServer(nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp historyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Enabled {
		t.Error("expected enabled=false without a journal")
	}
	if resp.Records == nil || len(resp.Records) != 0 {
		t.Errorf("expected an empty record array, got %v", resp.Records)
	}
}

func TestHistoryRecordsQueries(t *testing.T) {
	journal := memstore.New()
	h := newTestServer(journal)

	postSolve(t, h, `{"query": "2*x + 3 = 7"}`)
	postSolve(t, h, `{"query": "diff(x**3, x)"}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=1", nil))

	var resp historyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Enabled {
		t.Error("expected enabled=true with a journal")
	}
	if len(resp.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(resp.Records))
	}

	got := resp.Records[0]
	if got.Query != "diff(x**3, x)" {
		t.Errorf("newest record query = %q, want %q", got.Query, "diff(x**3, x)")
	}
	if got.Kind != "differentiate" {
		t.Errorf("record kind = %q, want %q", got.Kind, "differentiate")
	}
	if !got.Resolved {
		t.Error("expected record to be resolved")
	}
	if len(got.Result) != 1 || got.Result[0] != "3*x**2" {
		t.Errorf("record result = %v, want [3*x**2]", got.Result)
	}
}

func TestFormPostAlsoJournals(t *testing.T) {
	journal := memstore.New()
	h := newTestServer(journal)

	form := url.Values{"query": {"x + 1 = 0"}, "kind": {"solve"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), req)

	records, err := journal.Recent(req.Context(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 journal record, got %d", len(records))
	}
	if records[0].Mode != "solve" {
		t.Errorf("record mode = %q, want %q", records[0].Mode, "solve")
	}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want %q", resp["status"], "ok")
	}
	if resp["time"] == "" {
		t.Error("expected a timestamp")
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestServer(nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	id := rec.Header().Get("X-Request-Id")
	if len(id) != 26 {
		t.Errorf("expected a 26-char ULID request id, got %q", id)
	}
}
