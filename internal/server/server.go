// Package server exposes the gateway, the status observer, and the barcode
// validator over a local HTTP API for the point-of-sale UI.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesh-intelligence/tillsync/internal/gateway"
	"github.com/mesh-intelligence/tillsync/internal/status"
	"github.com/mesh-intelligence/tillsync/pkg/barcode"
	"github.com/mesh-intelligence/tillsync/pkg/types"
)

// Server serves the local UI-facing API.
type Server struct {
	gateway  *gateway.Gateway
	observer *status.Observer
	logger   *slog.Logger
}

// New creates a Server.
func New(gw *gateway.Gateway, obs *status.Observer, logger *slog.Logger) *Server {
	return &Server{gateway: gw, observer: obs, logger: logger}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/sync", s.handleForceSync)
		r.Get("/barcode/validate", s.handleBarcodeValidate)
		r.Get("/products/barcode/{code}", s.handleBarcodeLookup)

		r.Route("/{collection}", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Get("/{id}", s.handleGet)
			r.Put("/{id}", s.handleUpdate)
			r.Delete("/{id}", s.handleDelete)
		})
	})

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("local API listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.gateway.List(r.Context(), chi.URLParam(r, "collection"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if docs == nil {
		docs = []types.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.gateway.Get(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	doc, err := s.gateway.Create(r.Context(), chi.URLParam(r, "collection"), body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	doc, err := s.gateway.Update(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"), body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ack, err := s.gateway.Delete(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.observer.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleForceSync(w http.ResponseWriter, r *http.Request) {
	if err := s.observer.ForceSync(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.observer.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleBarcodeValidate(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	writeJSON(w, http.StatusOK, barcode.Validate(code))
}

func (s *Server) handleBarcodeLookup(w http.ResponseWriter, r *http.Request) {
	docs, err := s.gateway.FindByBarcode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if docs == nil {
		docs = []types.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// writeError maps engine errors to HTTP statuses. Storage failures surface
// as 500s; the offline path never produces a connectivity error here.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrCollectionNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrInvalidID), errors.Is(err, gateway.ErrUnknownMethod):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request) (types.Document, bool) {
	var body types.Document
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
