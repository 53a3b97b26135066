package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// writeTimeout bounds each persistence write so a wedged backend can't
// stall the queue forever.
const writeTimeout = 10 * time.Second

// writer is the per-collection persistence queue. Mutations enqueue a
// save for their collection key; the queue serializes writes in issuance
// order and coalesces rapid successive writes to the same key into the
// latest value, so a later write can never be overtaken by an earlier
// one. Failures are logged, never propagated — the in-memory state is
// already the source of truth for the session.
type writer struct {
	logger *log.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending map[string]*pendingSave
	order   []string // keys with a pending save, in first-issuance order
	busy    bool     // a save is currently executing
	closed  bool

	done chan struct{}
}

// pendingSave is one queued write. Re-enqueueing the same key replaces
// save but keeps the waiters: a superseded write's callers are notified
// when the newer value lands, since that value subsumes theirs.
type pendingSave struct {
	save    func(context.Context) error
	waiters []chan<- error
}

func newWriter(logger *log.Logger) *writer {
	w := &writer{
		logger:  logger,
		pending: map[string]*pendingSave{},
		done:    make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// enqueue schedules a save for key. If a save for the same key is
// already pending, it is replaced by this one and keeps its place in
// line.
func (w *writer) enqueue(key string, save func(context.Context) error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enqueueLocked(key, save)
}

// enqueueAndWait schedules a save for key and blocks until it has been
// written, returning the write error. The save runs behind every
// earlier queued save, so a stale pending snapshot can never land after
// an awaited write and overwrite it.
func (w *writer) enqueueAndWait(key string, save func(context.Context) error) error {
	errc := make(chan error, 1)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return fmt.Errorf("write for %s dropped, store is closed", key)
	}
	w.enqueueLocked(key, save)
	w.pending[key].waiters = append(w.pending[key].waiters, errc)
	w.mu.Unlock()

	return <-errc
}

func (w *writer) enqueueLocked(key string, save func(context.Context) error) {
	if w.closed {
		w.logger.Printf("WARNING: write for %s dropped, store is closed", key)
		return
	}
	if p, ok := w.pending[key]; ok {
		p.save = save
	} else {
		w.pending[key] = &pendingSave{save: save}
		w.order = append(w.order, key)
	}
	w.cond.Broadcast()
}

func (w *writer) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for len(w.order) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.order) == 0 && w.closed {
			w.mu.Unlock()
			return
		}

		key := w.order[0]
		w.order = w.order[1:]
		p := w.pending[key]
		delete(w.pending, key)
		w.busy = true
		w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := p.save(ctx)
		if err != nil {
			w.logger.Printf("WARNING: persist %s failed: %v", key, err)
		}
		cancel()
		for _, errc := range p.waiters {
			errc <- err
		}

		w.mu.Lock()
		w.busy = false
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}

// flush blocks until every pending and in-flight save has completed.
func (w *writer) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.order) > 0 || w.busy {
		w.cond.Wait()
	}
}

// close drains the queue and stops the worker. Further enqueues are
// dropped with a warning.
func (w *writer) close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}
