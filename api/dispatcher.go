package api

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"kanban-api/domain"
)

var errDispatcherClosed = errors.New("dispatcher closed")

// DispatcherConfig tunes the command dispatcher.
type DispatcherConfig struct {
	Workers        int
	Buffer         int
	EnqueueTimeout time.Duration
	HandoffTimeout time.Duration
}

func (c DispatcherConfig) withDefaults() DispatcherConfig {
	if c.Workers <= 0 {
		c.Workers = 8
	}
	if c.Buffer < 0 {
		c.Buffer = 0
	}
	if c.EnqueueTimeout <= 0 {
		c.EnqueueTimeout = 60 * time.Second
	}
	if c.HandoffTimeout < 0 {
		c.HandoffTimeout = 0
	}
	return c
}

type dispatchJob struct {
	tenantID string
	module   string
	cmds     []domain.Command
	// keys recorded in the deduper, removed again when the enqueue fails
	keys []string
}

// Dispatcher hands board commands to a pool of workers that write them to
// the command queue. When every worker is busy and the buffer stays full for
// the handoff timeout, the command is written inline by the caller.
type Dispatcher struct {
	cfg     DispatcherConfig
	store   Storage
	deduper Deduper
	logger  *log.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan dispatchJob
	wg     sync.WaitGroup
}

// NewDispatcher starts the worker pool. A nil deduper disables key rollback.
func NewDispatcher(store Storage, deduper Deduper, logger *log.Logger, cfg DispatcherConfig) *Dispatcher {
	if store == nil {
		panic("storage is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	cfg = cfg.withDefaults()
	d := &Dispatcher{
		cfg:     cfg,
		store:   store,
		deduper: deduper,
		logger:  logger,
		jobs:    make(chan dispatchJob, cfg.Buffer),
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	logger.Infof("command dispatcher started, workers: %d, buffer: %d, timeout: %v, handoff: %v",
		cfg.Workers, cfg.Buffer, cfg.EnqueueTimeout, cfg.HandoffTimeout)
	return d
}

// Dispatch queues job for a worker, falling back to an inline write. It
// returns an error only when the inline write fails or the dispatcher is
// closed; in both cases the job's idempotency keys are removed.
func (d *Dispatcher) Dispatch(job dispatchJob) error {
	if d.handoff(job) {
		return nil
	}
	d.mu.RLock()
	closed := d.closed
	d.mu.RUnlock()
	if closed {
		d.rollback(job)
		return errDispatcherClosed
	}

	d.logger.Warn("dispatch buffer saturated; processing inline")
	return d.enqueue(job)
}

func (d *Dispatcher) handoff(job dispatchJob) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.jobs <- job:
		return true
	default:
	}
	if d.cfg.HandoffTimeout <= 0 {
		return false
	}
	timer := time.NewTimer(d.cfg.HandoffTimeout)
	defer timer.Stop()
	select {
	case d.jobs <- job:
		return true
	case <-timer.C:
		return false
	}
}

// Close stops accepting jobs and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for job := range d.jobs {
		if err := d.enqueue(job); err != nil {
			d.logger.WithFields(log.Fields{
				"tenant": job.tenantID,
				"module": job.module,
				"count":  len(job.cmds),
				"worker": id,
			}).WithError(err).Error("enqueue failed")
		}
	}
}

func (d *Dispatcher) enqueue(job dispatchJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.EnqueueTimeout)
	err := d.store.EnqueueCommands(ctx, job.tenantID, job.module, job.cmds)
	cancel()
	if err == nil {
		return nil
	}
	d.rollback(job)
	return err
}

// rollback forgets the idempotency keys of a job that was not enqueued so a
// retry with the same key is accepted.
func (d *Dispatcher) rollback(job dispatchJob) {
	if d.deduper == nil {
		return
	}
	for _, k := range job.keys {
		if err := d.deduper.Remove(context.Background(), job.tenantID, k); err != nil {
			d.logger.Errorf("dedupe rollback failed, err: %v, key: %s, tenant: %s", err, k, job.tenantID)
		}
	}
}

var lastTimestamp int64

// nextTimestamp returns a strictly increasing unix-nano timestamp so commands
// issued by this instance keep their submission order downstream.
func nextTimestamp() int64 {
	for {
		now := time.Now().UnixNano()
		last := atomic.LoadInt64(&lastTimestamp)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastTimestamp, last, now) {
			return now
		}
	}
}
