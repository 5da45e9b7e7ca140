package dispatch

import (
	"sync"

	"github.com/longplay45/swissgrid/pkg/layout"
)

// Pool sizing defaults, used when NewPool is given non-positive values.
const (
	DefaultWorkers    = 2
	DefaultQueueDepth = 32
)

// work pairs a request with its Pending so workers never need a lookup.
type work struct {
	req  Request
	pend *Pending
}

// Pool runs requests on a fixed set of worker goroutines behind a bounded
// queue. A full queue, a closed pool, or a panicking worker all mark the
// Pending failed, which turns the caller's Wait into a synchronous run
// with an identical result. Submit therefore never blocks and never loses
// a request.
type Pool struct {
	runner Runner
	queue  chan work

	mu     sync.RWMutex // guards closed against sends on queue
	closed bool

	pmu     sync.Mutex
	pending map[uint64]*Pending

	wg sync.WaitGroup
}

// NewPool starts workers goroutines draining a queue of the given depth.
func NewPool(workers, depth int, measure layout.MeasureFunc) *Pool {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if depth < 1 {
		depth = DefaultQueueDepth
	}
	p := &Pool{
		runner:  Runner{Measure: measure},
		queue:   make(chan work, depth),
		pending: make(map[uint64]*Pending),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit enqueues the request and returns its Pending without blocking.
func (p *Pool) Submit(req Request) *Pending {
	pend := newPending(p.runner, req)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		pend.fail()
		return pend
	}

	p.register(req.ID, pend)
	select {
	case p.queue <- work{req: req, pend: pend}:
	default:
		p.unregister(req.ID)
		pend.fail()
	}
	return pend
}

// Cancel discards the request with the given ID if a worker has not
// resolved it yet. A canceled request's Wait returns ok=false; if a worker
// had already started it, the late result is dropped.
func (p *Pool) Cancel(id uint64) bool {
	p.pmu.Lock()
	pend, ok := p.pending[id]
	delete(p.pending, id)
	p.pmu.Unlock()
	if !ok {
		return false
	}
	return pend.cancel()
}

// Close stops accepting work and waits for the workers to drain the
// queue. Requests still queued are resolved normally before Close returns.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for w := range p.queue {
		p.run(w)
	}
}

// run resolves one work item, converting a panic in the engine into a
// failed Pending so the caller falls back to a synchronous run.
func (p *Pool) run(w work) {
	defer p.unregister(w.req.ID)
	defer func() {
		if r := recover(); r != nil {
			w.pend.fail()
		}
	}()
	w.pend.resolve(p.runner.Run(w.req))
}

func (p *Pool) register(id uint64, pend *Pending) {
	p.pmu.Lock()
	p.pending[id] = pend
	p.pmu.Unlock()
}

func (p *Pool) unregister(id uint64) {
	p.pmu.Lock()
	delete(p.pending, id)
	p.pmu.Unlock()
}

var _ Executor = (*Pool)(nil)
var _ Executor = (*Inline)(nil)
