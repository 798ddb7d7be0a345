package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sweet_shop/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func (f *fakeES) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[{"_source":{"id":7}},{"_source":{"id":3}}]}}`))
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	default:
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}
}

func newIndex(t *testing.T) (*ProductIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &ProductIndex{ES: client, Index: "products"}, fake
}

func TestIndexProduct(t *testing.T) {
	idx, fake := newIndex(t)

	err := idx.IndexProduct(context.Background(), &models.Product{
		ID: 5, Name: "Torta Tres Leches", Slug: "torta-tres-leches",
		BasePrice: decimal.NewFromInt(20), IsActive: true,
	})
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, "PUT /products/_doc/5", fake.requests[0])

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(fake.bodies[0]), &doc))
	assert.Equal(t, "Torta Tres Leches", doc["name"])
	assert.Equal(t, true, doc["isActive"])
}

func TestSearchProductIDs(t *testing.T) {
	idx, fake := newIndex(t)

	ids, err := idx.SearchProductIDs(context.Background(), "tres lechez", 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{7, 3}, ids)
	assert.Contains(t, fake.bodies[0], `"fuzziness":"AUTO"`)
	assert.Contains(t, fake.bodies[0], `"name^2"`)
}

func TestRemoveMissingProduct(t *testing.T) {
	idx, _ := newIndex(t)
	require.NoError(t, idx.RemoveProduct(context.Background(), 99))
}
