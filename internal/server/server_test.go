package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tillsync/internal/connectivity"
	"github.com/mesh-intelligence/tillsync/internal/gateway"
	"github.com/mesh-intelligence/tillsync/internal/sqlite"
	"github.com/mesh-intelligence/tillsync/internal/status"
	"github.com/mesh-intelligence/tillsync/pkg/types"
)

type fakeSyncer struct {
	forced int
}

func (f *fakeSyncer) Syncing() bool                     { return false }
func (f *fakeSyncer) LastSync() time.Time               { return time.Time{} }
func (f *fakeSyncer) SyncNow(ctx context.Context) error { f.forced++; return nil }

// newTestServer wires a server over a real local store with the probe
// offline, so every request is served without a remote.
func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store, *fakeSyncer) {
	t.Helper()
	store := sqlite.New(types.Config{DataDir: t.TempDir()})
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	probe := connectivity.NewManual(false)
	gw := gateway.New(store, nil, probe, logger)
	syncer := &fakeSyncer{}
	obs := status.New(probe, syncer, store)

	srv := httptest.NewServer(New(gw, obs, logger).Handler())
	t.Cleanup(srv.Close)
	return srv, store, syncer
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCollectionCRUD(t *testing.T) {
	srv, _, _ := newTestServer(t)
	client := srv.Client()

	// Create.
	resp, err := client.Post(srv.URL+"/api/products", "application/json",
		strings.NewReader(`{"name":"Espresso","price":2.4,"barcode":"4006381333931"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created types.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	id := created.ID()
	require.True(t, strings.HasPrefix(id, "offline_"))
	assert.False(t, created.Synced())

	// Get.
	var got types.Document
	resp = getJSON(t, srv.URL+"/api/products/"+id, &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Espresso", got["name"])

	// List.
	var listed []types.Document
	resp = getJSON(t, srv.URL+"/api/products", &listed)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, listed, 1)

	// Update.
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/products/"+id,
		strings.NewReader(`{"price":2.8}`))
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	var updated types.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2.8, updated["price"])
	assert.Equal(t, "Espresso", updated["name"])

	// Delete.
	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/products/"+id, nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	var ack gateway.DeletionAck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, ack.Success)

	resp = getJSON(t, srv.URL+"/api/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownCollectionIs404(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := getJSON(t, srv.URL+"/api/receipts", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidBodyIs400(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api/products", "application/json",
		strings.NewReader(`{not json`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEmptyListIsJSONArray(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)), "empty listing must encode as [], not null")
}

func TestStatusEndpoint(t *testing.T) {
	srv, store, _ := newTestServer(t)

	q, err := store.Queue()
	require.NoError(t, err)
	_, err = q.Enqueue(context.Background(), types.QueuedOperation{
		Kind:       types.OpCreate,
		Collection: types.ProductsCollection,
		Payload:    types.Document{"id": "p1"},
	})
	require.NoError(t, err)

	var st status.Status
	resp := getJSON(t, srv.URL+"/api/status", &st)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, st.Online)
	assert.Equal(t, 1, st.Pending)
}

func TestForceSyncEndpoint(t *testing.T) {
	srv, _, syncer := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/sync", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, syncer.forced)
}

func TestBarcodeValidateEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var result struct {
		Code    string `json:"code"`
		Format  string `json:"format"`
		IsValid bool   `json:"isValid"`
	}
	resp := getJSON(t, srv.URL+"/api/barcode/validate?code=4006381333931", &result)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "EAN-13", result.Format)
	assert.True(t, result.IsValid)
}

func TestBarcodeLookupEndpoint(t *testing.T) {
	srv, store, _ := newTestServer(t)

	col, err := store.Collection(types.ProductsCollection)
	require.NoError(t, err)
	require.NoError(t, col.Put(context.Background(),
		types.Document{"id": "p1", "name": "Espresso", "barcode": "4006381333931"}))

	var docs []types.Document
	resp := getJSON(t, srv.URL+"/api/products/barcode/4006381333931", &docs)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, docs, 1)
	assert.Equal(t, "p1", docs[0].ID())

	docs = nil
	resp = getJSON(t, srv.URL+"/api/products/barcode/0000000000000", &docs)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, docs)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "tillsync_")
}
