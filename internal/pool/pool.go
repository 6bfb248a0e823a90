package pool

import (
	"context"
	"errors"
	"sync"
	"time"

	"igprofiler/pkg/logger"
	"igprofiler/pkg/models"
)

// ErrPoolStopped is returned by Submit once the pool is shutting down
var ErrPoolStopped = errors.New("worker pool is shutting down")

// FetchJob represents a single profile to fetch
type FetchJob struct {
	Username string
}

// FetchResult represents the outcome of a fetch job.
// Profile is nil when the fetch failed.
type FetchResult struct {
	Job      FetchJob
	Profile  *models.ProfileRecord
	Duration time.Duration
}

// ProfileFetcher fetches and parses one profile
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string) *models.ProfileRecord
}

// WorkerPool runs a fixed number of concurrent fetch workers.
// Results are delivered in completion order.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan FetchJob
	resultQueue chan FetchResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	fetcher     ProfileFetcher
	logger      logger.Logger
}

// NewWorkerPool creates a new fetch worker pool bound to ctx
func NewWorkerPool(ctx context.Context, numWorkers int, fetcher ProfileFetcher, log logger.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan FetchJob, numWorkers*2), // Buffer size = 2x workers
		resultQueue: make(chan FetchResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		fetcher:     fetcher,
		logger:      logger.OrNop(log),
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for in-flight jobs and closes Results.
// Results must be drained concurrently or Stop can block.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Worker pool stopped")
}

// Submit adds a new fetch job to the queue
func (wp *WorkerPool) Submit(job FetchJob) error {
	select {
	case <-wp.ctx.Done():
		return ErrPoolStopped
	default:
	}

	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return ErrPoolStopped
	}
}

// Results returns the result channel for consuming fetch results
func (wp *WorkerPool) Results() <-chan FetchResult {
	return wp.resultQueue
}

// worker is the main worker routine
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			wp.logger.DebugWithFields("Worker stopping - context cancelled", map[string]interface{}{
				"worker_id": id,
			})
			return
		default:
		}

		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			wp.logger.DebugWithFields("Worker stopping - context cancelled while sending result", map[string]interface{}{
				"worker_id": id,
			})
			return
		}
	}
}

// processJob handles a single fetch job
func (wp *WorkerPool) processJob(job FetchJob, workerID int) FetchResult {
	start := time.Now()

	wp.logger.DebugWithFields("Worker processing job", map[string]interface{}{
		"worker_id": workerID,
		"username":  job.Username,
	})

	profile := wp.fetcher.FetchProfile(wp.ctx, job.Username)

	return FetchResult{
		Job:      job,
		Profile:  profile,
		Duration: time.Since(start),
	}
}

// NumWorkers returns the number of workers
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}
