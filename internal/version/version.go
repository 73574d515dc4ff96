// Package version holds build metadata, overridable at link time:
//
//	go build -ldflags "-X github.com/elankeeran/Companies-House-MCP-Server/internal/version.Version=1.2.0"
package version

// Version is the application version.
var Version = "0.1.0"

// Commit is the VCS revision the binary was built from.
var Commit = "unknown"

// ServerName is the name announced to MCP clients.
const ServerName = "CompaniesHouseTools"
