// Package monitor checks that the registry is reachable on a schedule, so the
// health endpoint can report upstream state without a client request.
package monitor

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
)

// Probe outcomes.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Status is the outcome of the most recent probe run.
type Status struct {
	Status    string                   `json:"status"`
	Kind      companieshouse.ErrorKind `json:"kind,omitempty"`
	CheckedAt time.Time                `json:"checked_at"`
}

// Probe performs a one-result company search with the default credential
// and remembers the outcome.
type Probe struct {
	fetcher companieshouse.Fetcher
	log     zerolog.Logger
	now     func() time.Time

	mu   sync.RWMutex
	last *Status
}

// NewProbe creates a new Probe reading through fetcher.
func NewProbe(fetcher companieshouse.Fetcher, log zerolog.Logger) *Probe {
	return &Probe{
		fetcher: fetcher,
		log:     log.With().Str("component", "probe").Logger(),
		now:     time.Now,
	}
}

// Name implements Job.
func (p *Probe) Name() string {
	return "upstream_probe"
}

// Run implements Job. It probes the registry once and records the result.
// The returned error is the registry failure, if any.
func (p *Probe) Run(ctx context.Context) error {
	params := url.Values{
		"q":              {"probe"},
		"items_per_page": {"1"},
	}
	_, err := p.fetcher.Fetch(ctx, "", companieshouse.PathSearchCompanies, params)

	status := Status{Status: StatusOK, CheckedAt: p.now().UTC()}
	if err != nil {
		status.Status = StatusError
		status.Kind = companieshouse.KindOf(err)
		p.log.Warn().Str("kind", string(status.Kind)).Msg("Registry probe failed")
	}

	p.mu.Lock()
	p.last = &status
	p.mu.Unlock()

	return err
}

// Last returns the most recent result; ok is false before the first run.
func (p *Probe) Last() (status Status, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return Status{}, false
	}
	return *p.last, true
}
