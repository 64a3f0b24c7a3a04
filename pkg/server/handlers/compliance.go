package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"northgate/sentinel/pkg/posture/store"
)

// ComplianceHandler evaluates a device's latest stored posture on demand.
type ComplianceHandler struct {
	store     PostureStore
	evaluator Evaluator
	logger    *slog.Logger
}

// NewComplianceHandler creates the GET /v1/devices/{id}/compliance handler.
func NewComplianceHandler(st PostureStore, ev Evaluator, logger *slog.Logger) *ComplianceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComplianceHandler{store: st, evaluator: ev, logger: logger.With("component", "api")}
}

// ServeHTTP handles GET /v1/devices/{id}/compliance.
func (h *ComplianceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("id")
	if deviceID == "" {
		writeError(w, http.StatusBadRequest, "missing_device_id", "device id is required")
		return
	}

	rec, err := h.store.Get(r.Context(), deviceID)
	if err != nil {
		var notFound *store.NotFoundError
		if errors.As(err, &notFound) {
			writeError(w, http.StatusNotFound, "unknown_device", "no posture record for device "+deviceID)
			return
		}
		h.logger.ErrorContext(r.Context(), "posture store read failed",
			"device_id", deviceID, "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to read posture record")
		return
	}

	result, err := h.evaluator.Evaluate(r.Context(), rec)
	if err != nil && result == nil {
		h.logger.ErrorContext(r.Context(), "evaluation failed",
			"device_id", deviceID, "error", err)
		writeError(w, http.StatusBadGateway, "resolution_error", "failed to resolve applicable policies")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
