package dispatch

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/longplay45/swissgrid/pkg/layout"
)

func testShape(cols int) layout.Shape {
	return layout.Shape{
		Cols:         cols,
		Rows:         6,
		ModuleWidth:  164,
		ModuleHeight: 48,
		GutterH:      12,
		GutterV:      12,
		BaselineUnit: 12,
		PageHeight:   420,
		MarginTop:    24,
		MarginBottom: 36,
	}
}

func planReq(id uint64) Request {
	return Request{
		ID:   id,
		Kind: KindPlan,
		Plan: &PlanRequest{
			Shape: testShape(3),
			Order: []string{"headline-1", "body-1"},
			Spans: map[string]int{"headline-1": 3, "body-1": 2},
			Positions: map[string]layout.Position{
				"headline-1": {Col: 0, Row: 0},
				"body-1":     {Col: 0, Row: 10},
			},
		},
	}
}

func fitReq(id uint64) Request {
	return Request{
		ID:   id,
		Kind: KindFit,
		Fit: &FitRequest{
			Shape: testShape(4),
			Fit: layout.FitRequest{
				Text:    strings.TrimSpace(strings.Repeat("typeset ", 30)),
				Style:   layout.FitStyle{Name: "body", Size: 10, BaselineMultiplier: 1, Reflow: true},
				RowSpan: 1,
			},
		},
	}
}

func measureRatio(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.55
}

func TestRunner_Run(t *testing.T) {
	r := Runner{Measure: measureRatio}

	plan := r.Run(planReq(7))
	if plan.ID != 7 {
		t.Errorf("plan response ID = %d, want 7", plan.ID)
	}
	if plan.Plan == nil {
		t.Error("plan response has nil Plan")
	}
	if plan.Fit != nil {
		t.Error("plan response has non-nil Fit")
	}

	fit := r.Run(fitReq(8))
	if fit.Fit == nil {
		t.Error("fit response has nil Fit for reflowing text")
	}

	noReflow := fitReq(9)
	noReflow.Fit.Fit.Style.Reflow = false
	if out := r.Run(noReflow); out.Fit != nil {
		t.Error("fit response should carry nil Fit when the style does not reflow")
	}
}

func TestRunner_RunMalformed(t *testing.T) {
	r := Runner{}
	tests := []struct {
		name string
		req  Request
	}{
		{"unknown kind", Request{ID: 1, Kind: "resize"}},
		{"plan without payload", Request{ID: 2, Kind: KindPlan}},
		{"fit without payload", Request{ID: 3, Kind: KindFit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.Run(tt.req)
			if out.ID != tt.req.ID {
				t.Errorf("ID = %d, want %d", out.ID, tt.req.ID)
			}
			if out.Plan != nil || out.Fit != nil {
				t.Errorf("malformed request produced a payload: %+v", out)
			}
		})
	}
}

func TestInline_SubmitResolvesImmediately(t *testing.T) {
	e := NewInline(measureRatio)
	defer e.Close()

	p := e.Submit(planReq(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	out, ok := p.Wait(ctx)
	if !ok {
		t.Fatal("Wait returned ok=false")
	}
	if out.ID != 1 || out.Plan == nil {
		t.Errorf("response = %+v, want resolved plan with ID 1", out)
	}
	if e.Cancel(1) {
		t.Error("Cancel returned true for an already resolved request")
	}
}

func TestPool_MatchesInline(t *testing.T) {
	inline := NewInline(measureRatio)
	pool := NewPool(4, 0, measureRatio)
	defer pool.Close()

	reqs := []Request{planReq(1), fitReq(2), planReq(3), fitReq(4)}
	ctx := context.Background()

	want := map[uint64]Response{}
	for _, req := range reqs {
		out, ok := inline.Submit(req).Wait(ctx)
		if !ok {
			t.Fatalf("inline Wait failed for request %d", req.ID)
		}
		want[req.ID] = out
	}

	pendings := make([]*Pending, len(reqs))
	for i, req := range reqs {
		pendings[i] = pool.Submit(req)
	}
	for i, p := range pendings {
		out, ok := p.Wait(ctx)
		if !ok {
			t.Fatalf("pool Wait failed for request %d", reqs[i].ID)
		}
		if !reflect.DeepEqual(out, want[out.ID]) {
			t.Errorf("pool response %d differs from inline:\npool   = %+v\ninline = %+v",
				out.ID, out, want[out.ID])
		}
	}
}

func TestPool_CancelQueuedRequest(t *testing.T) {
	gate := make(chan struct{})
	blocked := func(text string, size float64) float64 {
		<-gate
		return measureRatio(text, size)
	}
	pool := NewPool(1, 2, blocked)

	// The single worker parks on the gated measurer; the second request
	// stays queued and can be withdrawn.
	busy := pool.Submit(fitReq(1))
	queued := pool.Submit(fitReq(2))

	if !pool.Cancel(2) {
		t.Fatal("Cancel(2) = false, want true for a queued request")
	}
	if pool.Cancel(2) {
		t.Error("second Cancel(2) = true, want false")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, ok := queued.Wait(ctx); ok {
		t.Error("canceled request resolved with ok=true")
	}

	close(gate)
	if out, ok := busy.Wait(ctx); !ok || out.Fit == nil {
		t.Errorf("busy request resolved (%+v, %v), want a fit response", out, ok)
	}
	pool.Close()
}

func TestPool_CancelRunningRequestDropsResult(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{}, 1)
	blocked := func(text string, size float64) float64 {
		select {
		case started <- struct{}{}:
		default:
		}
		<-gate
		return measureRatio(text, size)
	}
	pool := NewPool(1, 2, blocked)

	p := pool.Submit(fitReq(1))
	<-started

	if !pool.Cancel(1) {
		t.Fatal("Cancel(1) = false while the worker was mid-request")
	}
	close(gate)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, ok := p.Wait(ctx); ok {
		t.Error("canceled request resolved with ok=true")
	}
	pool.Close()
}

func TestPool_FullQueueFallsBackSynchronously(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{}, 1)
	blocked := func(text string, size float64) float64 {
		select {
		case started <- struct{}{}:
		default:
		}
		<-gate
		return measureRatio(text, size)
	}
	pool := NewPool(1, 1, blocked)
	defer func() {
		close(gate)
		pool.Close()
	}()

	// Worker parked, queue holding one more: the third submission cannot
	// be delivered and must resolve on the waiting goroutine.
	pool.Submit(fitReq(1))
	<-started
	pool.Submit(fitReq(2))
	overflow := pool.Submit(planReq(3))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, ok := overflow.Wait(ctx)
	if !ok {
		t.Fatal("overflow Wait returned ok=false")
	}
	if out.Plan == nil {
		t.Fatal("overflow response has nil Plan")
	}

	want, _ := NewInline(measureRatio).Submit(planReq(3)).Wait(ctx)
	if !reflect.DeepEqual(out, want) {
		t.Errorf("fallback response differs from inline:\nfallback = %+v\ninline   = %+v", out, want)
	}
}

func TestPool_SubmitAfterClose(t *testing.T) {
	pool := NewPool(1, 1, measureRatio)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}

	p := pool.Submit(planReq(1))
	out, ok := p.Wait(context.Background())
	if !ok {
		t.Fatal("Wait returned ok=false after close")
	}
	if out.Plan == nil {
		t.Error("synchronous fallback returned nil Plan")
	}
}

func TestPending_WaitHonorsContext(t *testing.T) {
	p := newPending(Runner{}, planReq(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := p.Wait(ctx); ok {
		t.Error("Wait returned ok=true on a canceled context")
	}
}

// recordingExec captures executor traffic so Site semantics can be
// asserted without timing.
type recordingExec struct {
	submitted []Request
	canceled  []uint64
	pendings  map[uint64]*Pending
}

func newRecordingExec() *recordingExec {
	return &recordingExec{pendings: map[uint64]*Pending{}}
}

func (e *recordingExec) Submit(req Request) *Pending {
	e.submitted = append(e.submitted, req)
	p := newPending(Runner{}, req)
	e.pendings[req.ID] = p
	return p
}

func (e *recordingExec) Cancel(id uint64) bool {
	e.canceled = append(e.canceled, id)
	if p, ok := e.pendings[id]; ok {
		delete(e.pendings, id)
		return p.cancel()
	}
	return false
}

func (e *recordingExec) Close() error { return nil }

func TestSite_LatestWins(t *testing.T) {
	exec := newRecordingExec()
	site := NewSite(exec)

	first := site.Submit(planReq(0))
	second := site.Submit(planReq(0))

	if len(exec.submitted) != 2 {
		t.Fatalf("submitted %d requests, want 2", len(exec.submitted))
	}
	if exec.submitted[0].ID != 1 || exec.submitted[1].ID != 2 {
		t.Errorf("assigned IDs %d, %d, want 1, 2", exec.submitted[0].ID, exec.submitted[1].ID)
	}
	if !reflect.DeepEqual(exec.canceled, []uint64{1}) {
		t.Errorf("canceled = %v, want [1]", exec.canceled)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, ok := first.Wait(ctx); ok {
		t.Error("superseded request resolved with ok=true")
	}

	// Only the newest request's answer lands.
	exec.pendings[2].resolve(Response{ID: 2})
	out, ok := second.Wait(ctx)
	if !ok || out.ID != 2 {
		t.Errorf("newest request resolved (%+v, %v), want ID 2", out, ok)
	}
}

func TestSite_CancelCurrent(t *testing.T) {
	exec := newRecordingExec()
	site := NewSite(exec)

	if site.Cancel() {
		t.Error("Cancel() = true with nothing submitted")
	}
	p := site.Submit(planReq(0))
	if !site.Cancel() {
		t.Error("Cancel() = false with a request in flight")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, ok := p.Wait(ctx); ok {
		t.Error("canceled request resolved with ok=true")
	}
}

func ExampleSite() {
	exec := NewInline(nil)
	site := NewSite(exec)

	// Each grid change supersedes the one before it.
	p := site.Submit(Request{Kind: KindPlan, Plan: &PlanRequest{
		Shape: layout.Shape{Cols: 3, Rows: 6, ModuleWidth: 164, ModuleHeight: 48,
			GutterH: 12, GutterV: 12, BaselineUnit: 12, PageHeight: 420, MarginTop: 24, MarginBottom: 36},
		Order: []string{"headline-1"},
		Spans: map[string]int{"headline-1": 2},
	}})

	out, ok := p.Wait(context.Background())
	fmt.Println("ok:", ok)
	fmt.Println("id:", out.ID)
	fmt.Println("moved:", out.Plan.MovedCount)
	// Output:
	// ok: true
	// id: 1
	// moved: 0
}
