package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// JobKind selects the maintenance operation a job performs.
type JobKind string

const (
	// JobCompact runs a compression sweep over an owner's persisted records.
	JobCompact JobKind = "compact"

	// JobEndSession transfers a session into an agent and destroys it.
	JobEndSession JobKind = "end_session"

	// JobEvictSessions removes every expired session.
	JobEvictSessions JobKind = "evict_sessions"
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	Kind   JobKind
	Owner  string
	Target string
}

// PoolConfig is the configuration options for the worker pool.
type PoolConfig struct {
	// Manager executes the jobs.
	Manager *Manager

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided slog logger
	Logger *slog.Logger
}

// Pool processes maintenance jobs asynchronously so compression sweeps and
// session transfers never run on the caller's path.
type Pool struct {
	config *PoolConfig
	queue  chan Job
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewPool creates a new pool and starts its worker goroutines.
func NewPool(c *PoolConfig) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			"kind", job.Kind,
			"owner", job.Owner,
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			"kind", job.Kind,
			"owner", job.Owner,
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after enqueueing has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("maintenance worker stopped", "worker_id", id)
}

// processJob dispatches a Job to the owning manager.
func (p *Pool) processJob(job Job) {
	ctx := context.Background()

	switch job.Kind {
	case JobCompact:
		result, err := p.config.Manager.Compact(ctx, job.Owner)
		if err != nil {
			p.logger.Error("async compression sweep failed",
				"owner", job.Owner,
				"error", err,
			)
			return
		}

		p.logger.Info("compression sweep finished",
			"owner", job.Owner,
			"original_count", result.Stats.OriginalCount,
			"compressed_count", result.Stats.CompressedCount,
			"ratio", result.Stats.Ratio,
		)

	case JobEndSession:
		result, err := p.config.Manager.EndSession(ctx, job.Owner, job.Target)
		if err != nil {
			p.logger.Error("async session transfer failed",
				"session", job.Owner,
				"agent", job.Target,
				"error", err,
			)
			return
		}

		p.logger.Info("session transferred",
			"session", job.Owner,
			"agent", job.Target,
			"transferred", result.Transferred,
		)

	case JobEvictSessions:
		evicted := p.config.Manager.EvictExpiredSessions()
		if evicted > 0 {
			p.logger.Info("expired sessions evicted", "count", evicted)
		}

	default:
		p.logger.Error("unknown job kind dropped", "kind", job.Kind)
	}
}
