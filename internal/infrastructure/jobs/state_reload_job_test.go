package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls atomic.Int32
	err   error
}

func (l *countingLoader) Load(context.Context) error {
	l.calls.Add(1)
	return l.err
}

func TestStateReloadJob_RunsOnInterval(t *testing.T) {
	loader := &countingLoader{}
	job := NewStateReloadJob(loader, 20*time.Millisecond)

	require.NoError(t, job.Start(context.Background()))
	defer job.Stop()

	assert.Eventually(t, func() bool { return loader.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestStateReloadJob_Disabled(t *testing.T) {
	loader := &countingLoader{}
	job := NewStateReloadJob(loader, 0)

	require.NoError(t, job.Start(context.Background()))
	assert.Nil(t, job.scheduler)
	job.Stop()
	assert.Zero(t, loader.calls.Load())
}

func TestStateReloadJob_ExecuteSwallowsErrors(t *testing.T) {
	loader := &countingLoader{err: errors.New("store down")}
	job := NewStateReloadJob(loader, time.Minute)

	job.Execute(context.Background())
	assert.EqualValues(t, 1, loader.calls.Load())
}

func TestStateReloadJob_SchedulerError(t *testing.T) {
	orig := newScheduler
	t.Cleanup(func() { newScheduler = orig })
	newScheduler = func() (gocron.Scheduler, error) { return nil, errors.New("no scheduler") }

	job := NewStateReloadJob(&countingLoader{}, time.Minute)
	err := job.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create scheduler")
}

func TestStateReloadJob_StopIsIdempotent(t *testing.T) {
	job := NewStateReloadJob(&countingLoader{}, time.Minute)
	require.NoError(t, job.Start(context.Background()))
	job.Stop()
	job.Stop()
}
