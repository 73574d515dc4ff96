package service

import (
	"github.com/elankeeran/Companies-House-MCP-Server/internal/monitor"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/version"
)

// Upstream states reported by CheckHealth.
const (
	UpstreamDisabled = "disabled"
	UpstreamPending  = "pending"
)

// Health describes the server and the last known registry state.
type Health struct {
	Status   string          `json:"status"`
	Upstream string          `json:"upstream"`
	Probe    *monitor.Status `json:"probe,omitempty"`
}

// VersionInfo describes the running build.
type VersionInfo struct {
	AppVersion string `json:"app_version"`
	Commit     string `json:"commit"`
	ServerName string `json:"server_name"`
}

// SystemService handles system-related operations
type SystemService struct {
	probe *monitor.Probe
}

// NewSystemService creates a new SystemService. probe may be nil when the
// upstream probe is disabled.
func NewSystemService(probe *monitor.Probe) *SystemService {
	return &SystemService{
		probe: probe,
	}
}

// CheckHealth reports the server as healthy whenever it can answer. A failed
// probe is reported, not treated as unhealthy, because callers may still
// succeed with their own credential.
func (s *SystemService) CheckHealth() Health {
	health := Health{Status: "healthy", Upstream: UpstreamDisabled}
	if s.probe == nil {
		return health
	}

	last, ok := s.probe.Last()
	if !ok {
		health.Upstream = UpstreamPending
		return health
	}

	health.Upstream = last.Status
	health.Probe = &last
	return health
}

func (s *SystemService) CheckVersion() VersionInfo {
	return VersionInfo{
		AppVersion: version.Version,
		Commit:     version.Commit,
		ServerName: version.ServerName,
	}
}
