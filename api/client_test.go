package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchProductsWrappedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"id":"p-1","name":"Tea","price":1200},{"productId":7,"name":"Gel","price":"850"}]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	products, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p-1", products[0].ID)
	// Numeric and string-typed fields normalize at the decode boundary.
	assert.Equal(t, "7", products[1].ID)
	assert.Equal(t, 850.0, float64(products[1].Price))
}

func TestFetchProductsBareArrayResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p-1","name":"Tea","price":1200}]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	products, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Tea", products[0].Name)
}

func TestBearerTokenAttached(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"summary":{},"directTeam":[]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	client.SetToken("tok-123")
	_, err := client.FetchTeamOverview(context.Background())
	require.NoError(t, err)
}

func TestLoginStoresToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		w.Write([]byte(`{"token":"tok-456"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	token, err := client.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-456", token)
	assert.Equal(t, "tok-456", client.Token())
}

func TestErrorResponsesDecode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Product not found"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	_, err := client.FetchProduct(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Product not found", apiErr.Message)
}

func TestPlainTextErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	_, err := client.FetchReferralInfo(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Unauthorized", apiErr.Message)
}

func TestFetchProfileWrappedAndBare(t *testing.T) {
	wrapped := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"userId":"u-1","email":"a@example.com","role":"user"}}`))
	}))
	defer wrapped.Close()

	user, err := NewClient(wrapped.URL).FetchProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)

	bare := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u-2","email":"b@example.com","role":"user"}`))
	}))
	defer bare.Close()

	user, err = NewClient(bare.URL).FetchProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-2", user.ID)
}

func TestFetchReferralAnalytics(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"teamStats":{"directReferrals":5}}`))
	}))
	defer ts.Close()

	analytics, err := NewClient(ts.URL).FetchReferralAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, analytics.TotalReferrals())
}
