package handlers

import (
	"net/http"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/api/response"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// Health reports liveness together with the last upstream probe result.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with service.Health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.systemService.CheckHealth())
}

// Version handles GET requests to retrieve version information.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with service.VersionInfo
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.systemService.CheckVersion())
}
