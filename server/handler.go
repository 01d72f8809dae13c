package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/munnerz/goautoneg"

	"github.com/synqronlabs/mockingbird"
)

// Wire-level messages. Clients match on the 400 strings, so they are
// part of the contract.
const (
	msgEmptyHeaders   = "Headers are empty."
	msgNoFromAddress  = "Could not find a valid 'From' address in the headers."
	msgInvalidBody    = "Invalid request body."
	msgBodyTooLarge   = "Request body too large."
	msgAnalysisFailed = "Analysis failed."
	msgInternalError  = "Internal server error."
)

const (
	contentTypeJSON    = "application/json"
	contentTypeMsgpack = "application/msgpack"
)

type analyzeRequest struct {
	Headers string `json:"headers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleAnalyze handles POST /analyze requests.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	report, err := s.analyzer.Analyze(ctx, req.Headers)
	if err != nil {
		switch {
		case errors.Is(err, mockingbird.ErrEmptyHeaders):
			writeError(w, http.StatusBadRequest, msgEmptyHeaders)
		case errors.Is(err, mockingbird.ErrNoFromDomain):
			writeError(w, http.StatusBadRequest, msgNoFromAddress)
		default:
			s.logger.ErrorContext(ctx, "analysis failed",
				slog.String("request_id", GetRequestID(ctx)),
				slog.Any("error", err),
			)
			writeError(w, http.StatusInternalServerError, msgAnalysisFailed)
		}
		return
	}

	s.metrics.ObserveAnalysis(report.Verdict.Category)
	s.logger.InfoContext(ctx, "analysis completed",
		slog.String("request_id", GetRequestID(ctx)),
		slog.String("from_domain", report.FromDomain),
		slog.String("verdict", string(report.Verdict.Category)),
		slog.Duration("duration", time.Since(start)),
	)

	if acceptsMessagePack(r) {
		data, err := report.ToMessagePack()
		if err != nil {
			writeError(w, http.StatusInternalServerError, msgInternalError)
			return
		}
		w.Header().Set("Content-Type", contentTypeMsgpack)
		_, _ = w.Write(data)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleHealthz handles GET /healthz requests.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// acceptsMessagePack reports whether the request prefers a MessagePack
// response over the default JSON.
func acceptsMessagePack(r *http.Request) bool {
	for _, clause := range goautoneg.ParseAccept(r.Header.Get("Accept")) {
		switch clause.Type + "/" + clause.SubType {
		case "application/msgpack", "application/x-msgpack":
			return true
		case "application/json", "application/*", "*/*":
			return false
		}
	}
	return false
}
