package monitor

import "time"

// SetProbeNow overrides the clock of p, for tests in package monitor_test.
func SetProbeNow(p *Probe, now func() time.Time) { p.now = now }
