package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/iho/porket/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"
	processingMarker        = "processing"
)

// replayedHeaders are copied into the stored response and restored on replay.
var replayedHeaders = []string{"Content-Type", "HX-Trigger", "HX-Reswap", "X-Change-Sequence", "Location"}

// storedResponse is the stored form of a successful response.
type storedResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body"`
}

// IdempotencyMiddleware replays the first successful response of a
// request carrying an Idempotency-Key.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	replays prometheus.Counter
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// means usecase.IdempotencyKeyTTL; replays may be nil.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, replays prometheus.Counter) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, replays: replays}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		scoped := r.Method + ":" + r.URL.Path + ":" + key
		logger := zerolog.Ctx(r.Context()).With().Str("idempotency_key", key).Logger()

		exists, cached, err := m.store.CheckAndSet(r.Context(), scoped, nil, m.ttl)
		if err != nil {
			logger.Error().Err(err).Msg("idempotency check failed")
			alertHTMX(w, r)
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists {
			if cached == nil || string(cached) == processingMarker {
				alertHTMX(w, r)
				http.Error(w, "request with this idempotency key is in progress", http.StatusConflict)
				return
			}
			m.replay(w, r, cached, logger)
			return
		}

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// The store write must outlive a client that already hung up.
		storeCtx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
		defer cancel()

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			if err := m.store.Release(storeCtx, scoped); err != nil {
				logger.Warn().Err(err).Msg("failed to release idempotency key")
			}
			return
		}

		data, err := json.Marshal(recorder.stored())
		if err != nil {
			logger.Warn().Err(err).Msg("failed to encode idempotent response")
			return
		}
		if err := m.store.Update(storeCtx, scoped, data, m.ttl); err != nil {
			logger.Warn().Err(err).Msg("failed to store idempotent response")
		}
	})
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, r *http.Request, cached []byte, logger zerolog.Logger) {
	var resp storedResponse
	if err := json.Unmarshal(cached, &resp); err != nil || resp.Status == 0 {
		logger.Warn().Err(err).Msg("unreadable idempotent response")
		alertHTMX(w, r)
		http.Error(w, "idempotency check failed", http.StatusInternalServerError)
		return
	}

	if m.replays != nil {
		m.replays.Inc()
	}
	logger.Info().Int("status", resp.Status).Msg("replaying idempotent response")

	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) stored() storedResponse {
	resp := storedResponse{
		Status:  r.statusCode,
		Headers: make(map[string]string),
		Body:    r.body.Bytes(),
	}
	for _, name := range replayedHeaders {
		if v := r.Header().Get(name); v != "" {
			resp.Headers[name] = v
		}
	}
	return resp
}
