package queue

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var ErrQueueClosed = errors.New("queue: shut down")

type Job struct {
	Fn   func() error
	Errc chan error
}

// RequestQueueManager runs jobs on a fixed pool of workers. It backs both the
// HTTP handlers and the asynchronous audit writer.
type RequestQueueManager struct {
	JobQueue   chan Job
	MaxWorkers int
	log        *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewRequestQueueManager(queueSize int, maxWorkers int, logger *slog.Logger) *RequestQueueManager {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	manager := &RequestQueueManager{
		JobQueue:   make(chan Job, queueSize),
		MaxWorkers: maxWorkers,
		log:        logger,
	}
	manager.startWorkers()
	return manager
}

func (rqm *RequestQueueManager) startWorkers() {
	for i := 0; i < rqm.MaxWorkers; i++ {
		rqm.wg.Add(1)
		go func(workerID int) {
			defer rqm.wg.Done()
			rqm.log.Debug("worker started", "worker", workerID)
			for job := range rqm.JobQueue {
				err := rqm.run(job)
				if job.Errc != nil {
					job.Errc <- err
				}
			}
			rqm.log.Debug("worker stopped", "worker", workerID)
		}(i)
	}
}

func (rqm *RequestQueueManager) run(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			rqm.log.Error("job panicked", "panic", r)
			err = fmt.Errorf("queue: job panicked: %v", r)
		}
	}()
	return job.Fn()
}

// EnqueueJob blocks until a slot is free. Jobs submitted after Shutdown fail
// immediately through Errc.
func (rqm *RequestQueueManager) EnqueueJob(job Job) {
	rqm.mu.RLock()
	defer rqm.mu.RUnlock()
	if rqm.closed {
		if job.Errc != nil {
			job.Errc <- ErrQueueClosed
		}
		return
	}
	rqm.JobQueue <- job
}

// TryEnqueueJob never blocks; it reports false when the queue is full or shut down.
func (rqm *RequestQueueManager) TryEnqueueJob(job Job) bool {
	rqm.mu.RLock()
	defer rqm.mu.RUnlock()
	if rqm.closed {
		return false
	}
	select {
	case rqm.JobQueue <- job:
		return true
	default:
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
func (rqm *RequestQueueManager) Shutdown() {
	rqm.mu.Lock()
	if rqm.closed {
		rqm.mu.Unlock()
		return
	}
	rqm.closed = true
	close(rqm.JobQueue)
	rqm.mu.Unlock()
	rqm.wg.Wait()
}
