package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/edi834-generator/internal/history"
	"github.com/ginjaninja78/edi834-generator/internal/logging"
	"github.com/ginjaninja78/edi834-generator/internal/storage"
	"github.com/ginjaninja78/edi834-generator/internal/types"
)

// SuccessMessage is returned with every generated document.
const SuccessMessage = "EDI 834 generated successfully"

const defaultHistoryLimit = 20

// Generator converts an input file on the server's filesystem.
type Generator interface {
	GenerateFromPath(ctx context.Context, inputPath, outputDest string) (*types.Summary, error)
}

// HistoryLister lists recent generations.
type HistoryLister interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// GenerateService serves the generation API.
type GenerateService struct {
	Generator Generator
	History   HistoryLister
	Logger    *zap.Logger
}

// NewGenerateService creates a GenerateService. history may be nil.
func NewGenerateService(gen Generator, hist HistoryLister, logger *zap.Logger) *GenerateService {
	if logger == nil {
		logger = logging.Logger()
	}
	return &GenerateService{Generator: gen, History: hist, Logger: logger}
}

type generateRequest struct {
	ExcelPath  string `json:"excelPath"`
	OutputPath string `json:"outputPath"`
}

type generateResponse struct {
	Message string `json:"message"`
	types.Summary
}

type errorResponse struct {
	Error string `json:"error"`
}

// GenerateFromPath handles POST /api/generate-from-path.
//
// Body: {"excelPath": "...", "outputPath": "..."}. outputPath is optional.
// Relative local paths are resolved against the server's working directory.
func (h *GenerateService) GenerateFromPath(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if req.ExcelPath == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "excelPath is required"})
		return
	}

	inputPath, err := filepath.Abs(req.ExcelPath)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	outputDest := req.OutputPath
	if outputDest != "" && !storage.IsS3URL(outputDest) {
		abs, err := filepath.Abs(outputDest)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		// Keep a trailing separator: it marks a directory that may not exist yet.
		if last := outputDest[len(outputDest)-1]; last == '/' || last == filepath.Separator {
			abs += string(filepath.Separator)
		}
		outputDest = abs
	}

	summary, err := h.Generator.GenerateFromPath(r.Context(), inputPath, outputDest)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{Message: SuccessMessage, Summary: *summary})
}

// ListHistory handles GET /api/history?limit=N.
func (h *GenerateService) ListHistory(w http.ResponseWriter, r *http.Request) {
	if h.History == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "history is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := h.History.Recent(r.Context(), limit)
	if err != nil {
		h.Logger.Error("failed to list history", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to retrieve history"})
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Health handles GET /healthz.
func (h *GenerateService) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound answers every unknown route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "Route not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// logRequests logs one line per request.
func logRequests(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
