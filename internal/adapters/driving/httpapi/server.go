package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/core/ports/driving"
	"github.com/custodia-labs/clipmind/internal/logger"
)

// maxBodyBytes bounds request bodies. Transcripts of long videos run to a few MB.
const maxBodyBytes = 16 << 20

// Services are the ports the API calls. Search and Indexing are required.
type Services struct {
	Search   driving.SearchService
	Indexing driving.IndexingService
	Answer   driving.AnswerService
	Videos   driven.VideoRegistry
	History  driven.SearchHistoryReader
}

// Server routes HTTP requests to the services.
type Server struct {
	services Services
	owner    OwnerResolver
	router   *mux.Router
}

// NewServer builds the router. A nil resolver means HeaderOwner.
func NewServer(services Services, owner OwnerResolver) (*Server, error) {
	if services.Search == nil || services.Indexing == nil {
		return nil, errors.New("httpapi: search and indexing services are required")
	}
	if owner == nil {
		owner = HeaderOwner
	}

	s := &Server{services: services, owner: owner, router: mux.NewRouter()}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/search", s.withOwner(s.handleSearch)).Methods(http.MethodPost)
	v1.HandleFunc("/ask", s.withOwner(s.handleAsk)).Methods(http.MethodPost)
	v1.HandleFunc("/videos/{videoId}", s.withOwner(s.handleRegisterVideo)).Methods(http.MethodPut)
	v1.HandleFunc("/videos/{videoId}", s.withOwner(s.handleDeleteVideo)).Methods(http.MethodDelete)
	v1.HandleFunc("/videos/{videoId}/content/{contentType}", s.withOwner(s.handleIndexContent)).Methods(http.MethodPut)
	v1.HandleFunc("/videos/{videoId}/conversation", s.withOwner(s.handleConversation)).Methods(http.MethodPost)
	v1.HandleFunc("/collections/{collectionId}/videos/{videoId}", s.withOwner(s.handleAddToCollection)).Methods(http.MethodPut)
	v1.HandleFunc("/history", s.withOwner(s.handleHistory)).Methods(http.MethodGet)
}

// Handler returns the traced root handler.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "clipmind",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type ownerHandler func(w http.ResponseWriter, r *http.Request, owner domain.OwnerKey)

func (s *Server) withOwner(h ownerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := s.owner(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing or invalid "+HeaderUserID+" / "+HeaderSessionID)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		h(w, r, owner)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(domain.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Writing response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps domain errors to status codes.
func fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrInvalidOwner),
		errors.Is(err, domain.ErrBatchTooLarge):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrQueryEmbedding),
		errors.Is(err, domain.ErrRateLimited):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed: %v", err)
	}
	writeError(w, status, err.Error())
}
