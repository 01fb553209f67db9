package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tillsync/pkg/types"
)

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]types.Document{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "till-secret", time.Second)
	_, err := c.List(context.Background(), "products")
	require.NoError(t, err)
	assert.Equal(t, "Bearer till-secret", gotAuth)
}

func TestClientList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]types.Document{
			{"id": "p1", "name": "Espresso"},
			{"id": "p2", "name": "Doppio"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "t", time.Second) // Trailing slash is trimmed.
	docs, err := c.List(context.Background(), "products")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p1", docs[0].ID())
}

func TestClientCreateEchoesEntity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var doc types.Document
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		doc.SetID("srv-9")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(doc)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", time.Second)
	out, err := c.Create(context.Background(), "products", types.Document{"name": "Espresso"})
	require.NoError(t, err)
	assert.Equal(t, "srv-9", out.ID())
	assert.Equal(t, "Espresso", out["name"])
}

func TestClientUpdateTargetsID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/p1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.Document{"id": "p1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", time.Second)
	out, err := c.Update(context.Background(), "products", "p1", types.Document{"price": 2.8})
	require.NoError(t, err)
	assert.Equal(t, "p1", out.ID())
}

func TestClientDeleteIgnoresBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/products/p1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", time.Second)
	assert.NoError(t, c.Delete(context.Background(), "products", "p1"))
}

func TestClientNon2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "stock conflict", http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", time.Second)
	_, err := c.Get(context.Background(), "products", "p1")
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "stock conflict", httpErr.Body)
}

func TestClientTransportErrorIsNotHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed server: connection refused.

	c := NewClient(srv.URL, "t", time.Second)
	_, err := c.List(context.Background(), "products")
	require.Error(t, err)

	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
}
