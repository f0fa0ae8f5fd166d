package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

func TestSearchProductsUsesProductsEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[{"id":1,"type":"BOOK","name":"Math","book":{"id":9,"title":"Math","class_name":"V"}}]}`))
	}))
	defer srv.Close()

	c := NewLegacyClient(srv.URL, "tok")
	result, err := c.SearchProducts(context.Background(), "math")
	require.NoError(t, err)
	assert.False(t, result.Degraded)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Math", result.Products[0].DisplayTitle())
}

func TestSearchProductsFallsBackToBooksOn404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			w.WriteHeader(http.StatusNotFound)
		case "/api/books":
			// books endpoint answers with the rows envelope
			w.Write([]byte(`{"rows":[{"id":3,"title":"Science","class_name":"VI","price":120}]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewLegacyClient(srv.URL, "")
	result, err := c.SearchProducts(context.Background(), "sci")
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	require.Len(t, result.Products, 1)

	p := result.Products[0]
	assert.Equal(t, KindBook, p.Kind())
	assert.Equal(t, "Science", p.DisplayTitle())
	require.NotNil(t, p.SellingPrice)
	assert.Equal(t, 120.0, *p.SellingPrice)
	require.NotNil(t, p.Book)
	assert.Equal(t, "VI", p.Book.ClassName)
}

func TestSearchProductsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewLegacyClient(srv.URL, "expired")
	_, err := c.SearchProducts(context.Background(), "")
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestSearchProductsSurfacesUpstreamMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"catalogue index rebuilding"}`))
	}))
	defer srv.Close()

	c := NewLegacyClient(srv.URL, "")
	_, err := c.SearchProducts(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalogue index rebuilding")
}

func TestProductKindFailSafe(t *testing.T) {
	assert.Equal(t, KindBook, Product{Type: "BOOK"}.Kind())
	assert.Equal(t, KindMaterial, Product{Type: "material"}.Kind())
	assert.Equal(t, KindMaterial, Product{Type: "MATERIAL"}.Kind())
	assert.Equal(t, KindBook, Product{Type: "GADGET"}.Kind())
	assert.Equal(t, KindBook, Product{}.Kind())
}
