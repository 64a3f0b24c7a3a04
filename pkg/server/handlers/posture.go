package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"northgate/sentinel/pkg/engine"
	"northgate/sentinel/pkg/posture"
	"northgate/sentinel/pkg/posture/store"
)

// maxPostureBody caps the accepted posture payload size.
const maxPostureBody = 1 << 20

// PostureHandler ingests device posture snapshots. Each accepted snapshot
// is stored and immediately evaluated; the response carries the full
// evaluation result.
type PostureHandler struct {
	store     PostureStore
	evaluator Evaluator
	logger    *slog.Logger
}

// NewPostureHandler creates the POST /v1/postures handler.
func NewPostureHandler(st PostureStore, ev Evaluator, logger *slog.Logger) *PostureHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostureHandler{store: st, evaluator: ev, logger: logger.With("component", "api")}
}

// ServeHTTP handles POST /v1/postures.
func (h *PostureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var rec posture.Record
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPostureBody))
	if err := dec.Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body is not a valid posture record: "+err.Error())
		return
	}

	if err := posture.Validate(&rec); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_posture", err.Error())
		return
	}

	if err := h.store.Put(r.Context(), &rec); err != nil {
		var stale *store.StaleRecordError
		if errors.As(err, &stale) {
			writeError(w, http.StatusConflict, "stale_record", stale.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "posture store write failed",
			"device_id", rec.DeviceID, "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to store posture record")
		return
	}

	result, err := h.evaluator.Evaluate(r.Context(), &rec)
	if err != nil {
		var evalErr *engine.EvaluationError
		if errors.As(err, &evalErr) && evalErr.Kind == engine.KindMalformedPosture {
			// The stored record passed validation, so this is unexpected;
			// the fail-closed result still describes the device.
			writeJSON(w, http.StatusOK, result)
			return
		}
		h.logger.ErrorContext(r.Context(), "evaluation failed",
			"device_id", rec.DeviceID, "error", err)
		writeError(w, http.StatusBadGateway, "resolution_error", "failed to resolve applicable policies")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
