package handler

import (
	"net/http"

	"github.com/orderhub/orderhub/internal/openapi"
)

// OpenAPIHandler serves the generated API document.
type OpenAPIHandler struct {
	baseURL string
	version string
}

func NewOpenAPIHandler(baseURL, version string) *OpenAPIHandler {
	return &OpenAPIHandler{baseURL: baseURL, version: version}
}

// ServeSpec returns the OpenAPI document for the whole API.
// GET /openapi.json
func (h *OpenAPIHandler) ServeSpec(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, openapi.Generate(h.baseURL, h.version))
}
