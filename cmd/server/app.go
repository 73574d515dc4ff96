package main

import (
	"github.com/rs/zerolog"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/config"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/logging"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/mcp"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/monitor"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/service"
)

// app holds the wired components shared by every command.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	client   *companieshouse.Client
	registry *service.RegistryService
	reports  *service.ReportService
	system   *service.SystemService
	tools    *mcp.Toolset
	mcp      *mcp.Server

	// probe is nil when the schedule is empty or no default key is configured.
	probe *monitor.Probe
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})
	logging.SetGlobalLogger(log)

	client := companieshouse.NewClient(cfg.CompaniesHouse.APIKey, log,
		companieshouse.WithBaseURL(cfg.CompaniesHouse.BaseURL),
		companieshouse.WithTimeout(cfg.CompaniesHouse.Timeout),
	)
	if !client.HasDefaultCredential() {
		log.Warn().Msg("No default API key configured; every call must supply api_key")
	}

	var probe *monitor.Probe
	if cfg.Probe.Schedule != "" && client.HasDefaultCredential() {
		probe = monitor.NewProbe(client, log)
	}

	registry := service.NewRegistryService(client)
	reports := service.NewReportService(client, log)
	tools := mcp.NewToolset(registry, reports, log)

	return &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		registry: registry,
		reports:  reports,
		system:   service.NewSystemService(probe),
		tools:    tools,
		mcp:      mcp.NewServer(tools, log),
		probe:    probe,
	}, nil
}
