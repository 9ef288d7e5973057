package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/finsum/pkg/aggregate"
	"github.com/yurifrl/finsum/pkg/ingest"
	"github.com/yurifrl/finsum/pkg/parser"
	"github.com/yurifrl/finsum/pkg/report"
	"github.com/yurifrl/finsum/pkg/store"
)

// maxUploadSize bounds the multipart form kept in memory.
const maxUploadSize = 32 << 20

// Server exposes the ingest pipeline over HTTP.
type Server struct {
	logger   *log.Logger
	mux      *http.ServeMux
	pipeline *ingest.Pipeline
}

func New(logger *log.Logger, pipeline *ingest.Pipeline) *Server {
	s := &Server{
		logger:   logger,
		mux:      http.NewServeMux(),
		pipeline: pipeline,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("POST /api/process", s.withLogging(s.handleProcess))
	s.mux.HandleFunc("GET /api/summary", s.withLogging(s.handleSummary))
	s.mux.HandleFunc("GET /api/transactions.csv", s.withLogging(s.handleTransactionsCSV))
	s.mux.HandleFunc("PATCH /api/transactions/{id}", s.withLogging(s.handleRecategorize))
}

func userFrom(r *http.Request) string {
	if user := r.FormValue("user"); user != "" {
		return user
	}
	return store.DefaultUser
}

// handleProcess ingests every file of the "statements" form field.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid upload", err)
		return
	}
	headers := r.MultipartForm.File["statements"]
	if len(headers) == 0 {
		s.respondError(w, r, http.StatusBadRequest, "statements required", nil)
		return
	}

	sources := make([]ingest.Source, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
			return
		}
		sources = append(sources, ingest.Source{Name: header.Filename, Data: data})
	}

	result, err := s.pipeline.RunSources(r.Context(), userFrom(r), sources)
	if err != nil {
		s.respondPipelineError(w, r, err)
		return
	}

	s.logger.Info("processed upload", "batch", result.BatchID, "files", len(sources), "transactions", len(result.Transactions))
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"batchId":      result.BatchID,
		"transactions": result.Transactions,
		"data":         result.Data,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	txs, data, err := s.pipeline.Load(r.Context(), userFrom(r))
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to load transactions", err)
		return
	}

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid year", err)
			return
		}
	}

	body := map[string]any{
		"status":       "success",
		"transactions": txs,
		"data":         data,
		"buckets":      aggregate.Buckets(txs),
		"spotlights":   aggregate.Spotlights(txs, year, aggregate.DefaultSpotlights),
	}
	if snapshot, ok := aggregate.CashFlow(data); ok {
		body["cashFlow"] = snapshot
	}
	if interest, ok := aggregate.InterestImpact(txs); ok {
		body["interest"] = interest
	}
	if err := s.writeJSON(w, http.StatusOK, body); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleTransactionsCSV serves the stored transactions as a CSV download.
func (s *Server) handleTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	txs, _, err := s.pipeline.Load(r.Context(), userFrom(r))
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to load transactions", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\"transactions.csv\"")
	if err := report.WriteTransactionsCSV(w, txs, nil); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}

func (s *Server) handleRecategorize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Category == "" {
		s.respondError(w, r, http.StatusBadRequest, "category required", err)
		return
	}

	data, err := s.pipeline.Recategorize(r.Context(), userFrom(r), r.PathValue("id"), body.Category)
	if err != nil {
		s.respondPipelineError(w, r, err)
		return
	}
	if err := s.writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": data}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// --- helpers ---

func (s *Server) respondPipelineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ingest.ErrNotFound):
		s.respondError(w, r, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, parser.ErrUnrecognizedFormat), errors.Is(err, parser.ErrNoTransactions), errors.Is(err, ingest.ErrNothingParsed):
		s.respondError(w, r, http.StatusUnprocessableEntity, err.Error(), err)
	default:
		s.respondError(w, r, http.StatusInternalServerError, "failed to process statements", err)
	}
}

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log requests and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
