// Package dispatch moves layout work onto executors so callers can keep
// interacting while plans and fits compute elsewhere. The engine itself is
// synchronous; this package owns every concurrency decision around it.
//
// An Executor accepts requests and hands back a Pending per request. When
// an executor cannot deliver (its queue is full, a worker panicked, it was
// closed) the Pending falls back to running the work synchronously on the
// waiting goroutine, so callers always get an answer and the answer never
// depends on which path produced it.
package dispatch

import (
	"context"
	"sync"

	"github.com/longplay45/swissgrid/pkg/layout"
)

// Kind selects which engine operation a request carries.
type Kind string

const (
	KindPlan Kind = "plan"
	KindFit  Kind = "fit"
)

// PlanRequest carries the full input of a placement plan.
type PlanRequest struct {
	Shape     layout.Shape               `json:"shape"`
	Order     []string                   `json:"order"`
	Spans     map[string]int             `json:"spans"`
	Positions map[string]layout.Position `json:"positions"`
}

// FitRequest carries the full input of a fit resolution.
type FitRequest struct {
	Shape layout.Shape      `json:"shape"`
	Fit   layout.FitRequest `json:"fit"`
}

// Request is one unit of layout work. Exactly one of Plan and Fit is set,
// matching Kind. IDs are assigned by the caller (or a Site) and echo back
// in the Response so stale answers can be told apart from current ones.
type Request struct {
	ID   uint64       `json:"id"`
	Kind Kind         `json:"kind"`
	Plan *PlanRequest `json:"plan,omitempty"`
	Fit  *FitRequest  `json:"fit,omitempty"`
}

// Response is the answer to one Request. Plan is set for plan requests.
// Fit is set for fit requests that resolved; a nil Fit on a fit response
// means the style does not reflow or the text was empty.
type Response struct {
	ID   uint64            `json:"id"`
	Plan *layout.Plan      `json:"plan,omitempty"`
	Fit  *layout.FitResult `json:"fit,omitempty"`
}

// Runner executes requests against the engine. The measurer is fixed at
// construction because it cannot travel with a request; every executor
// built from the same Runner therefore produces identical responses for
// identical requests.
type Runner struct {
	Measure layout.MeasureFunc
}

// Run executes one request synchronously. It is total: malformed requests
// (unknown kind, missing payload) yield an empty response with the
// request's ID.
func (r Runner) Run(req Request) Response {
	out := Response{ID: req.ID}
	switch req.Kind {
	case KindPlan:
		if req.Plan != nil {
			plan := layout.PlanGrid(req.Plan.Shape, req.Plan.Order, req.Plan.Spans, req.Plan.Positions)
			out.Plan = &plan
		}
	case KindFit:
		if req.Fit != nil {
			if res, ok := layout.Fit(req.Fit.Shape, req.Fit.Fit, r.Measure); ok {
				out.Fit = &res
			}
		}
	}
	return out
}

// Executor runs layout requests somewhere else. Submit never blocks on the
// work itself; Cancel reports whether the request was still undelivered.
type Executor interface {
	Submit(req Request) *Pending
	Cancel(id uint64) bool
	Close() error
}

// Pending is one submitted request's future answer. It resolves exactly
// once: with a response, with a delivery failure (which Wait repairs by
// running the work locally), or with a cancellation.
type Pending struct {
	req    Request
	runner Runner

	once     sync.Once
	resp     chan Response
	failed   chan struct{}
	canceled chan struct{}
}

func newPending(runner Runner, req Request) *Pending {
	return &Pending{
		req:      req,
		runner:   runner,
		resp:     make(chan Response, 1),
		failed:   make(chan struct{}),
		canceled: make(chan struct{}),
	}
}

// Wait blocks until the request resolves. It returns ok=false when the
// request was canceled or ctx ended first. When the executor could not
// deliver, Wait runs the request synchronously on the calling goroutine
// and returns that answer; the result is identical to the asynchronous
// one.
func (p *Pending) Wait(ctx context.Context) (Response, bool) {
	select {
	case out := <-p.resp:
		return out, true
	case <-p.failed:
		return p.runner.Run(p.req), true
	case <-p.canceled:
		return Response{}, false
	case <-ctx.Done():
		return Response{}, false
	}
}

// resolve delivers the response. Later transitions are ignored, so a
// worker finishing a canceled request discards its answer.
func (p *Pending) resolve(out Response) {
	p.once.Do(func() { p.resp <- out })
}

// fail marks the request undeliverable, routing Wait to the synchronous
// fallback.
func (p *Pending) fail() {
	p.once.Do(func() { close(p.failed) })
}

// cancel reports whether this call performed the transition.
func (p *Pending) cancel() bool {
	did := false
	p.once.Do(func() {
		close(p.canceled)
		did = true
	})
	return did
}
