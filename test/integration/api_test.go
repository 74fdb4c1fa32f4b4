package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/jescojido/partition-balancer/internal/api"
	"github.com/jescojido/partition-balancer/internal/partition"
	"github.com/jescojido/partition-balancer/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	solver := partition.NewService()
	handler := api.NewHandler(solver, store)
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	updatePayload := map[string]any{"defaultBins": 3, "maxItems": 1000}
	payload, _ := json.Marshal(updatePayload)
	rec = performRequest(t, handler, http.MethodPut, "/api/settings", payload, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from settings update, got %d", rec.Code)
	}

	solvePayload := map[string]any{"values": []float64{1, 3, 3, 4, 4, 5, 5, 5}}
	body, _ := json.Marshal(solvePayload)
	rec = performRequest(t, handler, http.MethodPost, "/api/partition", body, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from partition, got %d", rec.Code)
	}

	var response struct {
		Bins   int         `json:"bins"`
		Merges int         `json:"merges"`
		Groups [][]float64 `json:"groups"`
		Sums   []float64   `json:"sums"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if response.Bins != 3 {
		t.Fatalf("expected partition across 3 bins, got %d", response.Bins)
	}
	if response.Merges != 7 {
		t.Fatalf("expected exactly 7 merges for 8 items, got %d", response.Merges)
	}
	if want := []float64{9, 10, 11}; !reflect.DeepEqual(response.Sums, want) {
		t.Fatalf("unexpected sums: got %v, want %v", response.Sums, want)
	}

	total := 0.0
	for _, group := range response.Groups {
		for _, v := range group {
			total += v
		}
	}
	if total != 30 {
		t.Fatalf("expected total weight 30 conserved, got %v", total)
	}
}
