package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/app-organizer/internal/logging"
	"github.com/ytget/app-organizer/internal/model"
)

// ErrShutDown is the panic value for using a coordinator after Shutdown
var ErrShutDown = errors.New("fetch coordinator already shut down")

// State is the lifecycle state of a Coordinator
type State string

const (
	// StateIdle means no worker has been started yet
	StateIdle State = "Idle"

	// StateRunning means the worker is alive and draining the inbox
	StateRunning State = "Running"

	// StateStopped means Shutdown was called; the coordinator cannot restart
	StateStopped State = "Stopped"
)

const waitPollInterval = 20 * time.Millisecond

// request is a batch to dispatch, or the stop sentinel
type request struct {
	batch model.FetchBatch
	stop  bool
}

// Coordinator keeps icons cached for batches of app identifiers.
//
// Lifecycle is strictly Idle -> Running -> Stopped. EnsureCached after
// Shutdown, or a second Shutdown, panics with ErrShutDown.
//
// Shutdown cancels in-flight fetches and waits for them, so no cache write
// happens after it returns. Fetch results that arrive after cancellation are
// discarded.
type Coordinator struct {
	fetcher IconFetcher
	cache   Cache
	logger  zerolog.Logger
	slots   chan struct{} // nil when unlimited

	mu          sync.Mutex
	state       State
	queue       []request
	dispatching bool
	onStored    func(id string)

	wake       chan struct{}
	workerDone chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	inflight   sync.WaitGroup
	active     atomic.Int64
}

// NewCoordinator creates an idle coordinator. maxParallel caps concurrent
// fetches; zero or less means unlimited.
func NewCoordinator(fetcher IconFetcher, cache Cache, maxParallel int, logger zerolog.Logger) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		fetcher: fetcher,
		cache:   cache,
		logger:  logging.Component(logger, "fetch"),
		state:   StateIdle,
		wake:    make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	if maxParallel > 0 {
		c.slots = make(chan struct{}, maxParallel)
	}
	return c
}

// SetStoredCallback sets the function called after an icon lands in the
// cache. It runs on a fetch goroutine.
func (c *Coordinator) SetStoredCallback(callback func(id string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStored = callback
}

// State returns the lifecycle state
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// EnsureCached queues a batch without blocking. The first call starts the
// worker.
func (c *Coordinator) EnsureCached(ids []string) {
	batch := model.NewFetchBatch(ids)

	c.mu.Lock()
	switch c.state {
	case StateStopped:
		c.mu.Unlock()
		panic(ErrShutDown)
	case StateIdle:
		c.startLocked()
	}
	c.queue = append(c.queue, request{batch: batch})
	c.mu.Unlock()

	c.logger.Debug().
		Str("batch", batch.ID).
		Int("ids", batch.Len()).
		Msg("batch queued")
	c.signal()
}

// Shutdown stops the worker and blocks until it and every in-flight fetch
// have returned. Call it at most once, at exit.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	switch c.state {
	case StateStopped:
		c.mu.Unlock()
		panic(ErrShutDown)
	case StateIdle:
		c.state = StateStopped
		c.mu.Unlock()
		c.cancel()
		return
	}
	c.state = StateStopped
	c.queue = append(c.queue, request{stop: true})
	c.mu.Unlock()

	c.signal()
	<-c.workerDone

	c.cancel()
	c.inflight.Wait()
	c.logger.Info().Msg("fetch worker stopped")
}

// Busy reports whether batches are queued or fetches are in flight
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	pending := len(c.queue) > 0 || c.dispatching
	c.mu.Unlock()
	return pending || c.active.Load() > 0
}

// Wait blocks until the coordinator is no longer busy or ctx is done
func (c *Coordinator) Wait(ctx context.Context) error {
	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	for c.Busy() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func (c *Coordinator) startLocked() {
	c.state = StateRunning
	c.workerDone = make(chan struct{})
	go c.run()
	c.logger.Info().Msg("fetch worker started")
}

// signal wakes the worker without blocking
func (c *Coordinator) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// run is the worker loop: one request at a time, oldest first
func (c *Coordinator) run() {
	defer close(c.workerDone)

	for {
		req := c.next()
		if req.stop {
			return
		}
		c.dispatch(req.batch)

		c.mu.Lock()
		c.dispatching = false
		c.mu.Unlock()
	}
}

// next blocks until a request is queued and pops it
func (c *Coordinator) next() request {
	for {
		c.mu.Lock()
		if len(c.queue) > 0 {
			req := c.queue[0]
			c.queue[0] = request{}
			c.queue = c.queue[1:]
			c.dispatching = !req.stop
			c.mu.Unlock()
			return req
		}
		c.mu.Unlock()
		<-c.wake
	}
}

// dispatch reserves every uncached id of the batch and spawns its fetch.
// It does not wait for the fetches to finish.
func (c *Coordinator) dispatch(batch model.FetchBatch) {
	dispatched := 0
	for _, id := range batch.IDs {
		if !c.cache.Reserve(id) {
			continue
		}
		dispatched++
		c.inflight.Add(1)
		c.active.Add(1)
		go c.fetchOne(batch.ID, id)
	}

	c.logger.Debug().
		Str("batch", batch.ID).
		Int("ids", batch.Len()).
		Int("dispatched", dispatched).
		Dur("queued_for", time.Since(batch.SubmittedAt)).
		Msg("batch dispatched")
}

func (c *Coordinator) fetchOne(batchID, id string) {
	defer c.inflight.Done()
	defer c.active.Add(-1)

	if c.slots != nil {
		select {
		case c.slots <- struct{}{}:
			defer func() { <-c.slots }()
		case <-c.ctx.Done():
			c.cache.Release(id)
			return
		}
	}

	pixels, err := c.fetcher.FetchIcon(c.ctx, id)
	if err == nil && c.ctx.Err() != nil {
		err = c.ctx.Err()
	}
	if err == nil && pixels.IsZero() {
		err = errors.New("fetcher returned empty image")
	}
	if err != nil {
		c.cache.Release(id)
		c.logger.Debug().
			Str("batch", batchID).
			Str("id", id).
			Err(err).
			Msg("icon fetch failed")
		return
	}

	if !c.cache.InsertIfAbsent(id, pixels) {
		return
	}
	c.logger.Debug().
		Str("id", id).
		Int("width", pixels.Width).
		Int("height", pixels.Height).
		Msg("icon cached")

	c.mu.Lock()
	onStored := c.onStored
	c.mu.Unlock()
	if onStored != nil {
		onStored(id)
	}
}
