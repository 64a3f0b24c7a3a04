package handlers

import (
	"net/http"

	"northgate/sentinel/pkg/policy"
)

// PolicySetResponse describes the currently loaded policy set.
type PolicySetResponse struct {
	Count       int                  `json:"count"`
	Fingerprint string               `json:"fingerprint"`
	Policies    []*policy.Definition `json:"policies"`
}

// PoliciesHandler exposes the loaded policy set for inspection.
type PoliciesHandler struct {
	catalog PolicyCatalog
}

// NewPoliciesHandler creates the GET /v1/policies handler.
func NewPoliciesHandler(catalog PolicyCatalog) *PoliciesHandler {
	return &PoliciesHandler{catalog: catalog}
}

// ServeHTTP handles GET /v1/policies.
func (h *PoliciesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	policies := h.catalog.Policies()
	writeJSON(w, http.StatusOK, PolicySetResponse{
		Count:       len(policies),
		Fingerprint: h.catalog.Fingerprint(),
		Policies:    policies,
	})
}
