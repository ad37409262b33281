package server

import (
	"context"
	"sync"

	"wordduel/internal/model"
	"wordduel/internal/protocol"
)

// task is one decoded frame waiting for a worker.
type task struct {
	client *Client
	frame  protocol.Frame
}

// frameHandler consumes one decoded frame from one connection.
type frameHandler interface {
	Handle(ctx context.Context, c *Client, frame protocol.Frame)
}

// Dispatcher runs a fixed worker pool over incoming frames. At most one
// frame per connection is in flight at a time; later frames from the
// same connection queue behind it, so replies always come back in
// request order while different connections proceed in parallel.
type Dispatcher struct {
	handler frameHandler
	workers int
	workCh  chan task

	mu       sync.Mutex
	pending  map[model.ConnID][]protocol.Frame
	inFlight map[model.ConnID]bool

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given pool size.
func NewDispatcher(handler frameHandler, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		handler:  handler,
		workers:  workers,
		workCh:   make(chan task, queueSize),
		pending:  make(map[model.ConnID][]protocol.Frame),
		inFlight: make(map[model.ConnID]bool),
	}
}

// Start launches the worker goroutines. They exit when ctx is done.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Submit hands a decoded frame to the pool. If the connection already
// has a frame in flight the new one queues behind it.
func (d *Dispatcher) Submit(ctx context.Context, c *Client, frame protocol.Frame) {
	d.mu.Lock()
	if d.inFlight[c.ID] {
		d.pending[c.ID] = append(d.pending[c.ID], frame)
		d.mu.Unlock()
		return
	}
	d.inFlight[c.ID] = true
	d.mu.Unlock()

	select {
	case d.workCh <- task{client: c, frame: frame}:
	case <-ctx.Done():
	}
}

// Forget drops any queued frames for a disconnected connection.
func (d *Dispatcher) Forget(id model.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, id)
	delete(d.inFlight, id)
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-d.workCh:
			d.handler.Handle(ctx, t.client, t.frame)
			// Drain this connection's backlog in the same worker.
			// Re-queueing through workCh could deadlock the pool when
			// every worker blocks on a full queue at once.
			for {
				next, ok := d.release(t.client)
				if !ok {
					break
				}
				d.handler.Handle(ctx, t.client, next)
			}
		}
	}
}

// release pops the connection's next queued frame, or marks it idle.
func (d *Dispatcher) release(c *Client) (protocol.Frame, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	queue := d.pending[c.ID]
	if len(queue) == 0 || c.Closed() {
		delete(d.pending, c.ID)
		delete(d.inFlight, c.ID)
		return protocol.Frame{}, false
	}
	next := queue[0]
	if len(queue) == 1 {
		delete(d.pending, c.ID)
	} else {
		d.pending[c.ID] = queue[1:]
	}
	return next, true
}
