package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitStatus(t *testing.T, s *Scheduler, name string, want JobStatus) *TaskResult {
	t.Helper()
	var res *TaskResult
	require.Eventually(t, func() bool {
		var err error
		res, err = s.GetTask(name)
		return err == nil && res.Status == want
	}, 2*time.Second, 10*time.Millisecond)
	return res
}

func TestRegisterRejectsBadSchedule(t *testing.T) {
	s := New(nil)
	err := s.Register(Job{Name: "bad", Schedule: "not a schedule", Fn: func(context.Context) error { return nil }})
	assert.Error(t, err)
	assert.Empty(t, s.List())
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	s := New(nil)
	job := Job{Name: "dup", Schedule: "@hourly", Fn: func(context.Context) error { return nil }}
	require.NoError(t, s.Register(job))
	assert.Error(t, s.Register(job))
}

func TestRunUnknownJob(t *testing.T) {
	s := New(nil)
	err := s.Run(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrJobNotFound))

	_, err = s.GetTask("missing")
	assert.True(t, errors.Is(err, ErrJobNotFound))
}

func TestRunRecordsOutcome(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Register(Job{Name: "ok", Schedule: "@hourly", Fn: func(context.Context) error { return nil }}))
	require.NoError(t, s.Register(Job{Name: "fail", Schedule: "@hourly", Fn: func(context.Context) error { return errors.New("feed unreachable") }}))

	res, err := s.GetTask("ok")
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, res.Status)

	require.NoError(t, s.Run(context.Background(), "ok"))
	require.NoError(t, s.Run(context.Background(), "fail"))

	waitStatus(t, s, "ok", StatusFulfill)
	res = waitStatus(t, s, "fail", StatusReject)
	assert.Equal(t, "feed unreachable", res.Message)
}

func TestRunDoesNotOverlap(t *testing.T) {
	s := New(nil)
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	require.NoError(t, s.Register(Job{Name: "slow", Schedule: "@hourly", Fn: func(context.Context) error {
		started <- struct{}{}
		<-release
		return nil
	}}))

	require.NoError(t, s.Run(context.Background(), "slow"))
	<-started
	waitStatus(t, s, "slow", StatusRunning)

	err := s.Run(context.Background(), "slow")
	assert.True(t, errors.Is(err, ErrAlreadyRunning))

	close(release)
	waitStatus(t, s, "slow", StatusFulfill)
	assert.Len(t, started, 0)
}

func TestManualRunSurvivesCallerCancel(t *testing.T) {
	s := New(nil)
	gotErr := make(chan error, 1)
	require.NoError(t, s.Register(Job{Name: "detached", Schedule: "@hourly", Fn: func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		gotErr <- ctx.Err()
		return nil
	}}))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Run(ctx, "detached"))
	cancel()

	assert.NoError(t, <-gotErr)
}

func TestListReportsNextDateOnceStarted(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Register(Job{Name: "b_sweep", Description: "sweep", Schedule: "@every 1h", Fn: func(context.Context) error { return nil }}))
	require.NoError(t, s.Register(Job{Name: "a_scrape", Description: "scrape", Schedule: "@every 4h", Fn: func(context.Context) error { return nil }}))

	items := s.List()
	require.Len(t, items, 2)
	assert.Equal(t, "a_scrape", items[0].Name)
	assert.Nil(t, items[0].NextDate)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	items = s.List()
	require.NotNil(t, items[0].NextDate)
	assert.WithinDuration(t, time.Now().Add(4*time.Hour), *items[0].NextDate, time.Minute)
	assert.Equal(t, "@every 4h", items[0].Schedule)
}
