package dispatch

import "github.com/longplay45/swissgrid/pkg/layout"

// Inline is the no-concurrency executor: Submit runs the request on the
// calling goroutine and returns an already-resolved Pending. It is the
// drop-in used when no worker pool is wanted, and the reference the pool
// is tested against.
type Inline struct {
	runner Runner
}

// NewInline returns an executor that resolves every request during Submit.
func NewInline(measure layout.MeasureFunc) *Inline {
	return &Inline{runner: Runner{Measure: measure}}
}

func (e *Inline) Submit(req Request) *Pending {
	p := newPending(e.runner, req)
	p.resolve(e.runner.Run(req))
	return p
}

// Cancel always reports false: inline requests resolve before Submit
// returns, so there is never anything left to cancel.
func (e *Inline) Cancel(id uint64) bool { return false }

func (e *Inline) Close() error { return nil }
