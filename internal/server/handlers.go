package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JohnBasrai/aws-lambda-action-filter/internal/decode"
	"github.com/JohnBasrai/aws-lambda-action-filter/internal/logger"
	"github.com/JohnBasrai/aws-lambda-action-filter/internal/pipeline"
	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

const defaultMaxBodyBytes = 1 << 20 // 1 MiB

// handleFilter is POST /actionfilter/filter: a wire-format batch in, the
// deduplicated, windowed, priority-ordered batch out. The optional
// reference_time query parameter (RFC 3339) pins the evaluation instant;
// without it the server clock's current UTC time is used.
func (s *HTTPServer) handleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.New().String()
	w.Header().Set("X-Request-ID", requestID)
	start := time.Now()

	snapshot := s.store.Snapshot()
	settings := snapshot.Application

	if !authorized(r, settings) {
		logger.L().Warn("Rejected filter request: bad or missing bearer token", "request_id", requestID, "remote", r.RemoteAddr)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if !s.allow() {
		logger.L().Warn("Rejected filter request: rate limit exceeded", "request_id", requestID, "remote", r.RemoteAddr)
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	referenceTime := time.Now().UTC()
	if param := r.URL.Query().Get("reference_time"); param != "" {
		parsed, err := time.Parse(time.RFC3339, param)
		if err != nil {
			logger.L().Warn("Rejected filter request: invalid reference_time", "request_id", requestID, "value", param, "error", err)
			http.Error(w, "Bad Request: invalid reference_time: "+err.Error(), http.StatusBadRequest)
			return
		}
		referenceTime = parsed
	}

	maxBody := settings.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.L().Warn("Rejected filter request: body too large", "request_id", requestID, "limit", maxBody)
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		logger.L().Error("Failed to read filter request body", "request_id", requestID, "error", err)
		http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
		return
	}

	actions, err := decode.Batch(body)
	if err != nil {
		// The error already names the offending record and field; hand it
		// back so the producer can find the bad data.
		logger.L().Warn("Rejected filter request: undecodable batch", "request_id", requestID, "error", err)
		http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := pipeline.Process(actions, referenceTime, snapshot.Filter.HorizonDays, snapshot.Filter.CooldownDays)
	if err != nil {
		logger.L().Warn("Rejected filter request: unusable reference time", "request_id", requestID, "error", err)
		http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L().Error("Failed to encode filter response", "request_id", requestID, "error", err)
		return
	}

	logger.L().Info("Filter request completed",
		"request_id", requestID,
		"records_in", len(actions),
		"records_out", len(result),
		"duration", time.Since(start))
}

// handleHealthz is GET /actionfilter/healthz, the liveness probe.
func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// handleReload is POST /actionfilter/reload: re-read the config file and
// apply it. When the new file is invalid the running config stays active
// and the error comes back in the response body.
func (s *HTTPServer) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if !authorized(r, s.store.Snapshot().Application) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	logger.L().Info("Reload requested over HTTP", "remote", r.RemoteAddr)
	if err := s.store.Reload(); err != nil {
		logger.L().Error("Reload via HTTP failed", "error", err)
		http.Error(w, "Reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Configuration reloaded\n"))
}

// authorized checks the bearer token when one is configured. An empty
// configured token leaves the endpoint open.
func authorized(r *http.Request, settings models.ApplicationSettings) bool {
	if settings.AuthToken == "" {
		return true
	}
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	return header[len(prefix):] == settings.AuthToken
}
