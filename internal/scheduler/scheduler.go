package scheduler

import (
	"sync"
	"time"

	"github.com/osse101/GuildStatsBot_Go/internal/logger"
	"github.com/osse101/GuildStatsBot_Go/internal/worker"
)

// LogMsgJobSkipped is logged when a tick finds the worker queue full
const LogMsgJobSkipped = "Worker queue full, skipping scheduled run"

// Scheduler manages scheduled jobs
type Scheduler struct {
	workerPool *worker.Pool
	quit       chan struct{}
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// New creates a new scheduler
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. A non-positive interval
// disables the job.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) bool {
	if interval <= 0 {
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				// A slow job must not stall the ticker; the next tick retries.
				if !s.workerPool.TryEnqueue(job) {
					logger.Warn(LogMsgJobSkipped, "interval", interval)
				}
			case <-s.quit:
				return
			}
		}
	}()
	return true
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
	})
	s.wg.Wait()
}
