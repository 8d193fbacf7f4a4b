package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"itemstore/internal/config"
	"itemstore/internal/database"
	"itemstore/internal/domain"
	"itemstore/internal/metrics"
	"itemstore/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "x-request-id"

// HTTPServer exposes the item CRUD API over JSON.
type HTTPServer struct {
	cfg    *config.APIConfig
	items  domain.ItemService
	server *http.Server
	auth   *HTTPAuth
	log    zerolog.Logger
}

func NewHTTPServer(cfg *config.APIConfig, items domain.ItemService, logger *zerolog.Logger) *HTTPServer {
	serverLogger := zerolog.Nop()
	if logger != nil {
		serverLogger = logger.With().Str("component", "http").Logger()
	}

	srv := &HTTPServer{cfg: cfg, items: items, log: serverLogger}
	srv.auth = NewHTTPAuth(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/items", srv.handleItems)
	mux.HandleFunc("/items/", srv.handleItems)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// handleItems dispatches /items, /items/, /items/export and /items/{id}.
func (s *HTTPServer) handleItems(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/items")
	rest = strings.Trim(rest, "/")

	switch {
	case rest == "":
		s.handleCollection(w, r)
	case rest == "export":
		s.handleExport(w, r)
	default:
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid item id")
			return
		}
		s.handleItem(w, r, id)
	}
}

func (s *HTTPServer) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.items.ListItems(r.Context())
		if err != nil {
			s.writeItemError(w, err)
			return
		}
		if items == nil {
			items = []models.Item{}
		}
		writeJSON(w, http.StatusOK, items)

	case http.MethodPost:
		var body struct {
			Name        string  `json:"name"`
			Description *string `json:"description"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		if strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		item := models.Item{Name: body.Name, Description: body.Description}
		if err := s.items.CreateItem(r.Context(), &item); err != nil {
			s.writeItemError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleItem(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		item, err := s.items.GetItemByID(r.Context(), id)
		if err != nil {
			s.writeItemError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	case http.MethodPatch:
		var patch models.ItemPatch
		if !decodeJSON(w, r, &patch) {
			return
		}
		if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
			writeError(w, http.StatusBadRequest, "name must not be blank")
			return
		}

		item, err := s.items.UpdateItemPartial(r.Context(), id, patch)
		if err != nil {
			s.writeItemError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	case http.MethodDelete:
		if err := s.items.DeleteItem(r.Context(), id); err != nil {
			s.writeItemError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeItemError maps CRUD-layer errors to HTTP responses. Store failures
// are logged with their cause but reach the client as a generic message.
func (s *HTTPServer) writeItemError(w http.ResponseWriter, err error) {
	if errors.Is(err, database.ErrItemNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	var crudErr *database.CRUDError
	if errors.As(err, &crudErr) {
		s.log.Error().Err(crudErr.Err).Str("op", crudErr.Op).Msg("item crud operation failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.log.Error().Err(err).Msg("unexpected error")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		metrics.IncHTTP(endpointLabel(r.URL.Path), recorder.status)
		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

// endpointLabel collapses item ids to keep metric cardinality bounded.
func endpointLabel(path string) string {
	rest := strings.TrimPrefix(path, "/items")
	rest = strings.Trim(rest, "/")
	switch {
	case !strings.HasPrefix(path, "/items"):
		return path
	case rest == "" || rest == "export":
		return path
	default:
		return "/items/{id}"
	}
}

// decodeJSON parses the request body, rejecting unknown fields. It writes
// a 400 response and returns false when the body is invalid.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
