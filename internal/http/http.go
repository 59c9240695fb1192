package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"adte.com/adte/tv-agent/internal/api"
	"adte.com/adte/tv-agent/internal/auth"
	"adte.com/adte/tv-agent/internal/backend"
)

// HTTPHandler exposes the forwarded operations over plain HTTP, next to the
// MCP transport.
type HTTPHandler struct {
	client *backend.Client
	logger *slog.Logger
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(client *backend.Client, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{client: client, logger: logger}
}

// RootHandler serves the discovery document: agent identity and the
// registered operations with their descriptions.
func (h *HTTPHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	type operation struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	ops := make([]operation, 0, len(backend.Operations))
	for _, name := range backend.OperationNames() {
		ops = append(ops, operation{Name: name, Description: backend.Operations[name].Description})
	}

	w.Header().Set("Content-Type", "application/json")
	doc := map[string]any{
		"agent":      "ADTE TV Agent",
		"protocol":   "adcp",
		"version":    api.ProtocolVersion,
		"operations": ops,
		"call":       "/call/{operation}",
	}
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		h.logger.Error("encode discovery document failed", "error", err)
	}
}

// HealthHandler reports process liveness and the configured backend.
func (h *HTTPHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"agent":   "ADTE TV Agent",
		"backend": h.client.BaseURL(),
	}); err != nil {
		h.logger.Error("encode health response failed", "error", err)
	}
}

// CallHandler dispatches POST /call/{operation} through the operation
// registry. Backend failures stay inside the Result envelope and still
// return 200; only dispatch faults (unknown operation, bad arguments,
// missing permission) map to HTTP errors.
func (h *HTTPHandler) CallHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendErrorResponse(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/call/")
	op, ok := backend.Operations[name]
	if !ok {
		h.sendErrorResponse(w, "Unknown operation: "+name, "UNKNOWN_OPERATION", http.StatusNotFound)
		return
	}

	principal, _ := auth.GetPrincipalFromContext(r.Context())
	if err := auth.CheckOperationPermissions(principal, name); err != nil {
		h.sendErrorResponse(w, err.Error(), "INSUFFICIENT_PERMISSIONS", http.StatusForbidden)
		return
	}

	args, err := io.ReadAll(r.Body)
	if err != nil {
		h.sendDetailedErrorResponse(w, "Failed to read request body", "INVALID_BODY", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := op.Invoke(r.Context(), h.client, args)
	if err != nil {
		h.sendDetailedErrorResponse(w, "Invalid arguments for "+name, "INVALID_ARGUMENTS", err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("encode result failed", "operation", name, "error", err)
	}
}

// Sends a structured error response
func (h *HTTPHandler) sendErrorResponse(w http.ResponseWriter, message string, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(api.ErrorResponse{
		Error: message,
		Code:  code,
	}); err != nil {
		h.logger.Error("encode error response failed", "code", code, "error", err)
	}
}

// Sends an error with additional details
func (h *HTTPHandler) sendDetailedErrorResponse(w http.ResponseWriter, message string, code string, details string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(api.ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}); err != nil {
		h.logger.Error("encode detailed error response failed", "code", code, "error", err)
	}
}
