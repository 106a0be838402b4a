package reminders

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Run(context.Context) ([]LeadResult, error) {
	j.runs.Add(1)
	return []LeadResult{{LeadHours: 24, Processed: 1}}, j.err
}

func TestSchedulerRunsUntilCancelled(t *testing.T) {
	job := &countingJob{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewScheduler(job, 5*time.Millisecond).Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return job.runs.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestSchedulerSurvivesFailedPass(t *testing.T) {
	job := &countingJob{err: errors.New("db down")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go NewScheduler(job, 5*time.Millisecond).Start(ctx)

	assert.Eventually(t, func() bool { return job.runs.Load() >= 2 }, time.Second, time.Millisecond)
}
