package monitor_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/monitor"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestProbe_Check(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("records success", func(t *testing.T) {
		mock := testutil.NewMockFetcher().WithJSON(companieshouse.PathSearchCompanies, `{"items":[]}`)
		probe := monitor.NewProbe(mock, zerolog.Nop())
		monitor.SetProbeNow(probe, func() time.Time { return fixed })

		_, ok := probe.Last()
		assert.False(t, ok, "no result before the first run")

		require.NoError(t, probe.Run(context.Background()))

		status, ok := probe.Last()
		require.True(t, ok)
		assert.Equal(t, monitor.Status{Status: monitor.StatusOK, CheckedAt: fixed}, status)

		calls := mock.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "/search/companies", calls[0].Path)
		assert.Equal(t, "probe", calls[0].Params.Get("q"))
		assert.Equal(t, "1", calls[0].Params.Get("items_per_page"))
		assert.Empty(t, calls[0].Credential, "the probe uses the default credential")
	})

	t.Run("records failure kind", func(t *testing.T) {
		mock := testutil.NewMockFetcher().WithErrorKind(companieshouse.PathSearchCompanies, companieshouse.KindUnauthorised)
		probe := monitor.NewProbe(mock, zerolog.Nop())
		monitor.SetProbeNow(probe, func() time.Time { return fixed })

		err := probe.Run(context.Background())
		assert.Equal(t, companieshouse.KindUnauthorised, companieshouse.KindOf(err))

		status, ok := probe.Last()
		require.True(t, ok)
		assert.Equal(t, monitor.StatusError, status.Status)
		assert.Equal(t, companieshouse.KindUnauthorised, status.Kind)
	})

	t.Run("latest run wins", func(t *testing.T) {
		mock := testutil.NewMockFetcher().WithErrorKind(companieshouse.PathSearchCompanies, companieshouse.KindRateLimit)
		probe := monitor.NewProbe(mock, zerolog.Nop())

		_ = probe.Run(context.Background())
		mock.WithJSON(companieshouse.PathSearchCompanies, `{}`)
		require.NoError(t, probe.Run(context.Background()))

		status, _ := probe.Last()
		assert.Equal(t, monitor.StatusOK, status.Status)
		assert.Empty(t, status.Kind)
	})
}

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := monitor.NewScheduler(zerolog.Nop())

	require.NoError(t, s.AddJob("@every 10m", &countingJob{}))
	require.NoError(t, s.AddJob("*/5 * * * *", &countingJob{}))
	assert.Equal(t, 2, s.Len())

	assert.Error(t, s.AddJob("every ten minutes", &countingJob{}))
	assert.Equal(t, 2, s.Len())
}

func TestScheduler_RunNow(t *testing.T) {
	s := monitor.NewScheduler(zerolog.Nop())
	job := &countingJob{err: errors.New("failed")}

	assert.EqualError(t, s.RunNow(job), "failed")
	assert.Equal(t, int32(1), job.runs.Load())
}

// blockingJob runs until its context is cancelled.
type blockingJob struct {
	started chan struct{}
}

func (j *blockingJob) Name() string { return "blocking" }

func (j *blockingJob) Run(ctx context.Context) error {
	close(j.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestScheduler_StopCancelsRunningJobs(t *testing.T) {
	s := monitor.NewScheduler(zerolog.Nop())
	job := &blockingJob{started: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- s.Run(ctx) }()

	jobDone := make(chan error, 1)
	go func() { jobDone <- s.RunNow(job) }()
	<-job.started

	cancel()
	select {
	case err := <-jobDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("running job was not cancelled")
	}
	select {
	case err := <-runDone:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

// blockingFetcher answers only when the request context is cancelled.
type blockingFetcher struct {
	started chan struct{}
}

func (f *blockingFetcher) Fetch(ctx context.Context, _, _ string, _ url.Values) (json.RawMessage, error) {
	close(f.started)
	<-ctx.Done()
	return nil, companieshouse.AsAPIError(ctx.Err())
}

func TestProbe_RunCancelledByStop(t *testing.T) {
	fetcher := &blockingFetcher{started: make(chan struct{})}
	probe := monitor.NewProbe(fetcher, zerolog.Nop())
	s := monitor.NewScheduler(zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- s.RunNow(probe) }()
	<-fetcher.started

	s.Stop()
	select {
	case err := <-done:
		assert.Equal(t, companieshouse.KindException, companieshouse.KindOf(err))
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("probe was not cancelled by Stop")
	}

	status, ok := probe.Last()
	require.True(t, ok)
	assert.Equal(t, monitor.StatusError, status.Status)
}
