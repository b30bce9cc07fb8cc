package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/GuildStatsBot_Go/internal/testing/leaktest"
	"github.com/osse101/GuildStatsBot_Go/internal/worker"
)

// MockJob is a simple job for testing
type MockJob struct {
	Done chan struct{}
}

func (m *MockJob) Process(ctx context.Context) error {
	select {
	case m.Done <- struct{}{}:
	default:
	}
	return nil
}

func TestScheduler(t *testing.T) {
	pool := worker.NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	job := &MockJob{
		Done: make(chan struct{}, 10),
	}

	assert.True(t, sched.Schedule(10*time.Millisecond, job))

	// Wait for at least 2 runs
	timeout := time.After(time.Second)
	runCount := 0

	for runCount < 2 {
		select {
		case <-job.Done:
			runCount++
		case <-timeout:
			t.Fatal("Timeout waiting for job execution")
		}
	}

	assert.GreaterOrEqual(t, runCount, 2)
}

func TestScheduler_DisabledInterval(t *testing.T) {
	pool := worker.NewPool(1, 1)
	sched := New(pool)

	assert.False(t, sched.Schedule(0, &MockJob{Done: make(chan struct{}, 1)}))

	sched.Stop()
	sched.Stop()
}

func TestScheduler_StopReleasesTickers(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		pool := worker.NewPool(1, 1)
		pool.Start()
		sched := New(pool)
		sched.Schedule(time.Hour, &MockJob{Done: make(chan struct{}, 1)})
		sched.Schedule(time.Hour, &MockJob{Done: make(chan struct{}, 1)})

		sched.Stop()
		pool.Stop()
	})
}
