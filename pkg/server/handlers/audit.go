package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"northgate/sentinel/pkg/audit"
)

// auditQueryMaxLimit caps the page size for audit queries.
const auditQueryMaxLimit = 1000

// AuditTrailResponse is the response for a device audit query.
type AuditTrailResponse struct {
	DeviceID string         `json:"deviceId"`
	Count    int            `json:"count"`
	Events   []*audit.Event `json:"events"`
}

// AuditHandler reads a device's compliance transition history.
type AuditHandler struct {
	storage audit.Storage
	logger  *slog.Logger
}

// NewAuditHandler creates the GET /v1/devices/{id}/audit handler.
func NewAuditHandler(storage audit.Storage, logger *slog.Logger) *AuditHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditHandler{storage: storage, logger: logger.With("component", "api")}
}

// ServeHTTP handles GET /v1/devices/{id}/audit. Supported query
// parameters: status, since (RFC3339), limit, offset.
func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("id")
	if deviceID == "" {
		writeError(w, http.StatusBadRequest, "missing_device_id", "device id is required")
		return
	}

	query := &audit.Query{DeviceID: deviceID}

	params := r.URL.Query()
	if status := params.Get("status"); status != "" {
		query.NewStatus = status
	}
	if since := params.Get("since"); since != "" {
		start, err := time.Parse(time.RFC3339, since)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_since", "since must be an RFC3339 timestamp")
			return
		}
		query.StartTime = &start
	}
	if limit := params.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > auditQueryMaxLimit {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 1000")
			return
		}
		query.Limit = n
	}
	if offset := params.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_offset", "offset must not be negative")
			return
		}
		query.Offset = n
	}

	events, err := h.storage.Query(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "audit query failed",
			"device_id", deviceID, "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to query audit events")
		return
	}

	writeJSON(w, http.StatusOK, AuditTrailResponse{
		DeviceID: deviceID,
		Count:    len(events),
		Events:   events,
	})
}
