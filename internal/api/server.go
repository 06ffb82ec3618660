// Package api serves the sentiment service over JSON HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/cognicore/sentiment/internal/htmltext"
	"github.com/cognicore/sentiment/pkg/sentiment"
	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
	"github.com/cognicore/sentiment/pkg/sentiment/preprocess"
)

const (
	maxBodyBytes = 1 << 20
	maxHistory   = 500

	msgNoInput  = "No input provided"
	msgInternal = "internal server error"

	headerRequestID = "X-Request-ID"
)

// Service is the subset of *sentiment.Service the handlers use.
type Service interface {
	Predict(ctx context.Context, text string) (sentiment.Prediction, error)
	WordFrequency(text string) []preprocess.WordCount
	Health() string
	Stats(ctx context.Context) (sentiment.Stats, error)
	History(ctx context.Context, limit int) ([]sentiment.Prediction, error)
	Lookup(ctx context.Context, id string) (sentiment.Prediction, error)
}

// Options configures the HTTP handler.
type Options struct {
	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string
	Logger      *zap.Logger
}

// ---- JSON shapes --------------------------------------------------------

type predictResponse struct {
	ID               string    `json:"id"`
	Text             string    `json:"text"`
	PreprocessedText string    `json:"preprocessed_text"`
	Sentiment        string    `json:"sentiment"`
	Confidence       []float64 `json:"confidence"`
}

type frequencyResponse struct {
	FrequencyData []preprocess.WordCount `json:"frequency_data"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type historyResponse struct {
	Predictions []sentiment.Prediction `json:"predictions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler returns the routed handler wrapped in CORS and request
// logging middleware.
func NewHandler(svc Service, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/predict", handlePredict(svc, logger))
	mux.HandleFunc("/api/word-frequency", handleWordFrequency(svc, logger))
	mux.HandleFunc("/api/stats", handleStats(svc, logger))
	mux.HandleFunc("/api/history", handleHistory(svc, logger))
	mux.HandleFunc("/api/history/", handleLookup(svc, logger))
	mux.HandleFunc("/health", handleHealth(svc))

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", headerRequestID},
		ExposedHeaders: []string{headerRequestID},
	})
	return withRequestLog(c.Handler(mux), logger)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps a service error to a status. Only input errors
// carry their message to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, internalerr.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, internalerr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", w.Header().Get(headerRequestID)),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// decodeText reads {"text": string, "format"?: string}. A missing body,
// a missing text field or a non-string text is an input error.
func decodeText(r *http.Request) (text, format string, ok bool) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", "", false
	}
	raw, found := body["text"]
	// JSON null decodes into a string without error
	if !found || string(raw) == "null" {
		return "", "", false
	}
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", "", false
	}
	if f, found := body["format"]; found {
		if err := json.Unmarshal(f, &format); err != nil {
			return "", "", false
		}
	}
	return text, format, true
}

// ---- handlers -----------------------------------------------------------

func handlePredict(svc Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		text, format, ok := decodeText(r)
		if !ok {
			writeError(w, http.StatusBadRequest, msgNoInput)
			return
		}
		input, err := htmltext.Normalize(text, format)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		p, err := svc.Predict(r.Context(), input)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, predictResponse{
			ID:               p.ID,
			Text:             text,
			PreprocessedText: p.PreprocessedText,
			Sentiment:        p.Sentiment,
			Confidence:       p.Confidence,
		})
	}
}

func handleWordFrequency(svc Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		text, format, ok := decodeText(r)
		if !ok {
			writeError(w, http.StatusBadRequest, msgNoInput)
			return
		}
		input, err := htmltext.Normalize(text, format)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, frequencyResponse{FrequencyData: svc.WordFrequency(input)})
	}
}

func handleHealth(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: svc.Health()})
	}
}

func handleStats(svc Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		st, err := svc.Stats(r.Context())
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func handleHistory(svc Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		limit := 0
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxHistory)
		}
		preds, err := svc.History(r.Context(), limit)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, historyResponse{Predictions: preds})
	}
}

func handleLookup(svc Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/history/")
		if _, err := ulid.ParseStrict(id); err != nil {
			writeError(w, http.StatusBadRequest, "invalid prediction id")
			return
		}
		p, err := svc.Lookup(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// ---- middleware ---------------------------------------------------------

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withRequestLog tags every request with an X-Request-ID (kept from the
// client when it is a valid ULID) and logs its outcome.
func withRequestLog(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if _, err := ulid.ParseStrict(id); err != nil {
			id = ulid.Make().String()
		}
		w.Header().Set(headerRequestID, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
