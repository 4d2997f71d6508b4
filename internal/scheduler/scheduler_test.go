package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutlab/scout/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	err      error
	ran      chan struct{}
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(context.Context) error {
	defer func() { j.ran <- struct{}{} }()
	return j.err
}

func newFakeJob(name string) *fakeJob {
	// A schedule that never fires during the test
	return &fakeJob{name: name, schedule: "0 0 0 1 1 *", ran: make(chan struct{}, 10)}
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(logger.NewNop())

	job := newFakeJob("scan")
	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job), "duplicate names are rejected")

	bad := newFakeJob("bad")
	bad.schedule = "not a cron expression"
	assert.Error(t, s.AddJob(bad))

	assert.Equal(t, []string{"scan"}, s.Jobs())
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond

	job := newFakeJob("scan")
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunNow("scan"))

	select {
	case <-job.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	// Wait for the record to land
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.History("scan")) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	records := s.History("scan")
	require.Len(t, records, 1)
	assert.True(t, records[0].Success)

	assert.Error(t, s.RunNow("unknown"))
}

func TestScheduler_RecordsFailureAfterRetries(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond

	job := newFakeJob("flaky")
	job.err = errors.New("upstream down")
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunNow("flaky"))

	// One initial attempt plus maxRetries
	for i := 0; i <= s.maxRetries; i++ {
		select {
		case <-job.ran:
		case <-time.After(2 * time.Second):
			t.Fatal("expected retry attempt")
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.History("flaky")) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	records := s.History("flaky")
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Contains(t, records[0].Error, "upstream down")
}
