package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/kubepilot/kubepilot/pkg/cli"
	"github.com/kubepilot/kubepilot/pkg/gitops"
	"github.com/kubepilot/kubepilot/pkg/logger"
)

// Handler serves the UI-facing API. It owns no state of its own; every
// request is answered from the services it wraps.
type Handler struct {
	Detection *gitops.DetectionService
	Query     *gitops.ResourceQueryService
	Syncer    *gitops.Syncer
}

func NewHandler(detection *gitops.DetectionService, query *gitops.ResourceQueryService, syncer *gitops.Syncer) *Handler {
	return &Handler{
		Detection: detection,
		Query:     query,
		Syncer:    syncer,
	}
}

type ErrorResponse struct {
	Error          string `json:"error"`
	Classification string `json:"classification,omitempty"`
	Diagnostic     string `json:"diagnostic,omitempty"`
}

func JSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error(err)
		w.WriteHeader(500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Error writes err with a status code derived from its classification. The
// raw stderr text rides along so the UI can decide between a quiet retry, a
// banner, or logging only.
func Error(w http.ResponseWriter, err error) {
	logger.Error(err)

	classification := cli.ClassificationOf(err)

	code := http.StatusInternalServerError
	switch classification {
	case cli.ClassificationPermissionDenied:
		code = http.StatusForbidden
	case cli.ClassificationNotFound:
		code = http.StatusNotFound
	case cli.ClassificationTimeout, cli.ClassificationConnectionFailed:
		code = http.StatusServiceUnavailable
	}

	response := ErrorResponse{
		Error:          err.Error(),
		Classification: string(classification),
	}

	runErr := &cli.RunError{}
	if errors.As(err, &runErr) {
		response.Diagnostic = runErr.Stderr
	}

	JSON(w, code, response)
}

type loggingResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.StatusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		logger.Debugf("%d %s %s", lrw.StatusCode, r.Method, r.RequestURI)
	})
}
