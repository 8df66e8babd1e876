package e2etest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// MockBalance is one account row served on a balances page
type MockBalance struct {
	Account string
	Balance string
}

// MockToken describes a token known to the mock mirror node
type MockToken struct {
	TotalSupply string
	Decimals    string
	Pages       [][]MockBalance // served in order through links.next cursors
}

// MockServer simulates the Hedera mirror node REST API
type MockServer struct {
	server *httptest.Server

	mu       sync.RWMutex
	tokens   map[string]*MockToken
	failures map[string]int    // path -> status to answer with
	bodies   map[string]string // path -> raw body override
	requests []string
}

// NewMockServer creates and starts a mock mirror node
func NewMockServer() *MockServer {
	ms := &MockServer{
		tokens:   make(map[string]*MockToken),
		failures: make(map[string]int),
		bodies:   make(map[string]string),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handle))
	return ms
}

// Host returns host:port of the mock, the form the mirror client expects
func (ms *MockServer) Host() string {
	return strings.TrimPrefix(ms.server.URL, "http://")
}

func (ms *MockServer) Close() {
	ms.server.Close()
}

// AddToken registers token under id
func (ms *MockServer) AddToken(id string, token *MockToken) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.tokens[id] = token
}

// FailPath makes every request to path answer with status
func (ms *MockServer) FailPath(path string, status int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.failures[path] = status
}

// SetBody makes every request to path answer 200 with body
func (ms *MockServer) SetBody(path, body string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.bodies[path] = body
}

// Requests returns the request URIs received so far
func (ms *MockServer) Requests() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]string, len(ms.requests))
	copy(out, ms.requests)
	return out
}

// RequestsFor returns received request URIs whose path starts with prefix
func (ms *MockServer) RequestsFor(prefix string) []string {
	var out []string
	for _, uri := range ms.Requests() {
		if strings.HasPrefix(uri, prefix) {
			out = append(out, uri)
		}
	}
	return out
}

func (ms *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	ms.requests = append(ms.requests, r.URL.RequestURI())
	status, failing := ms.failures[r.URL.Path]
	body, overridden := ms.bodies[r.URL.Path]
	ms.mu.Unlock()

	switch {
	case failing:
		writeJSON(w, status, map[string]any{"_status": map[string]any{"messages": []map[string]string{{"message": http.StatusText(status)}}}})
		return
	case overridden:
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
		return
	}

	rest, ok := strings.CutPrefix(r.URL.Path, "/api/v1/tokens/")
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"_status": "not found"})
		return
	}

	id, resource, _ := strings.Cut(rest, "/")

	ms.mu.RLock()
	token, known := ms.tokens[id]
	ms.mu.RUnlock()
	if !known {
		writeJSON(w, http.StatusNotFound, map[string]any{"_status": map[string]any{"messages": []map[string]string{{"message": "Not found"}}}})
		return
	}

	switch resource {
	case "":
		writeJSON(w, http.StatusOK, map[string]any{
			"token_id":     id,
			"total_supply": token.TotalSupply,
			"decimals":     token.Decimals,
			"type":         "FUNGIBLE_COMMON",
		})
	case "balances":
		ms.handleBalances(w, r, id, token)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"_status": "not found"})
	}
}

func (ms *MockServer) handleBalances(w http.ResponseWriter, r *http.Request, id string, token *MockToken) {
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, _ = strconv.Atoi(raw)
	}

	balances := []map[string]any{}
	if page < len(token.Pages) {
		for _, entry := range token.Pages[page] {
			balances = append(balances, map[string]any{
				"account": entry.Account,
				// mirror nodes send balances as bare numbers
				"balance": json.Number(entry.Balance),
			})
		}
	}

	var next *string
	if page+1 < len(token.Pages) {
		cursor := fmt.Sprintf("/api/v1/tokens/%s/balances?timestamp=%s&page=%d", id, r.URL.Query().Get("timestamp"), page+1)
		next = &cursor
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp": r.URL.Query().Get("timestamp"),
		"balances":  balances,
		"links":     map[string]any{"next": next},
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
