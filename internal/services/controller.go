package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"service-area-service/internal/domain"
	"service-area-service/internal/ports"
)

// ErrClosed is returned when an operation is posted to a closed controller.
var ErrClosed = errors.New("interaction controller is closed")

// SolveOutcome is the settled result of one dispatched solve: exactly one of
// Result or Err is set.
type SolveOutcome struct {
	Result *domain.ServiceAreaResult
	Err    error
}

// BreakChange reports the effect of a time-break control change. Outcome is
// non-nil only when a prior click existed and the interaction was replayed.
type BreakChange struct {
	BreakMinutes float64
	Label        string
	Replayed     bool
	Outcome      <-chan SolveOutcome
}

// CanvasSnapshot is a point-in-time copy of the render state.
type CanvasSnapshot struct {
	Graphics     []domain.Graphic
	ClickPoint   *domain.Coordinates
	BreakMinutes float64
	BreakLabel   string
	State        string // "idle" or "solving"
}

type clickEvent struct {
	pt    domain.Coordinates
	reply chan SolveOutcome
}

type breakEvent struct {
	value float64
	reply chan BreakChange
}

type settleEvent struct {
	outcome SolveOutcome
	reply   chan SolveOutcome
}

type canvasEvent struct {
	reply chan CanvasSnapshot
}

// Controller wires map clicks to service-area solves and renders the results
// onto a graphics layer. All shared state (click point, parameter bag,
// graphics) is owned by a single event-loop goroutine, so none of it needs
// locking. Solves run asynchronously and post their settlement back as an
// event; a click while a solve is in flight is not blocked, so two solves may
// both render, the last-settled polygons layered on top.
//
// Constructed once at startup, closed never in this demo (Close exists for
// tests).
type Controller struct {
	solver ports.ServiceAreaSolver
	mapSR  domain.SpatialReference

	// Event-loop-owned state.
	params     *domain.ServiceAreaParameters
	clickPoint *domain.Coordinates
	layer      *domain.GraphicsLayer
	breakLabel string
	inFlight   int

	events chan any
	quit   chan struct{}
	done   chan struct{}
}

// NewController starts the event loop and returns a ready controller.
// initialBreakMinutes seeds the shared break value; profile names the
// routing profile handed to the solver.
func NewController(solver ports.ServiceAreaSolver, initialBreakMinutes float64, profile string) *Controller {
	c := &Controller{
		solver:     solver,
		mapSR:      domain.WGS84,
		params:     domain.NewServiceAreaParameters(initialBreakMinutes, profile),
		layer:      domain.NewGraphicsLayer(),
		breakLabel: breakLabel(initialBreakMinutes),
		events:     make(chan any),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go c.loop()
	return c
}

// Close stops the event loop. In-flight solves finish but never render.
func (c *Controller) Close() {
	close(c.quit)
	<-c.done
}

// Click records pt as the new click point, clears the layer, draws the
// marker, and dispatches a solve. The returned channel yields that solve's
// outcome exactly once.
func (c *Controller) Click(ctx context.Context, pt domain.Coordinates) (<-chan SolveOutcome, error) {
	reply := make(chan SolveOutcome, 1)
	if err := c.send(ctx, clickEvent{pt: pt, reply: reply}); err != nil {
		return nil, err
	}
	return reply, nil
}

// ChangeBreak stores value/60 as the shared break (the control reports
// seconds; the solver takes minutes), updates the label, and replays the
// last interaction when a click point exists.
func (c *Controller) ChangeBreak(ctx context.Context, value float64) (BreakChange, error) {
	reply := make(chan BreakChange, 1)
	if err := c.send(ctx, breakEvent{value: value, reply: reply}); err != nil {
		return BreakChange{}, err
	}
	select {
	case ch := <-reply:
		return ch, nil
	case <-ctx.Done():
		return BreakChange{}, ctx.Err()
	case <-c.quit:
		return BreakChange{}, ErrClosed
	}
}

// Canvas returns a snapshot of the current render state.
func (c *Controller) Canvas(ctx context.Context) (CanvasSnapshot, error) {
	reply := make(chan CanvasSnapshot, 1)
	if err := c.send(ctx, canvasEvent{reply: reply}); err != nil {
		return CanvasSnapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return CanvasSnapshot{}, ctx.Err()
	case <-c.quit:
		return CanvasSnapshot{}, ErrClosed
	}
}

func (c *Controller) send(ctx context.Context, ev any) error {
	select {
	case c.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.quit:
		return ErrClosed
	}
}

func (c *Controller) loop() {
	defer close(c.done)

	for {
		select {
		case <-c.quit:
			return
		case ev := <-c.events:
			switch e := ev.(type) {
			case clickEvent:
				c.handleClick(e.pt, e.reply)
			case breakEvent:
				c.handleBreak(e.value, e.reply)
			case settleEvent:
				c.handleSettle(e)
			case canvasEvent:
				e.reply <- c.snapshot()
			}
		}
	}
}

// handleClick runs the full click interaction: clear, marker, facility,
// solve dispatch. Also the replay path for break changes.
func (c *Controller) handleClick(pt domain.Coordinates, reply chan SolveOutcome) {
	cp := pt
	c.clickPoint = &cp

	c.layer.Clear()
	c.layer.Add(domain.Graphic{Point: &cp, Symbol: domain.ClickMarkerSymbol})

	c.params.SetFacility(pt, c.mapSR)

	c.dispatchSolve(reply)
}

func (c *Controller) handleBreak(value float64, reply chan BreakChange) {
	minutes := value / 60
	c.params.SetBreak(minutes)
	c.breakLabel = breakLabel(minutes)

	change := BreakChange{
		BreakMinutes: minutes,
		Label:        c.breakLabel,
	}

	// Replay only when a prior click exists.
	if c.clickPoint != nil {
		outcome := make(chan SolveOutcome, 1)
		c.handleClick(*c.clickPoint, outcome)
		change.Replayed = true
		change.Outcome = outcome
	}

	reply <- change
}

// dispatchSolve snapshots the parameter bag and starts the solve in its own
// goroutine. No cancellation, timeout, or de-duplication: overlapping solves
// all run to settlement.
func (c *Controller) dispatchSolve(reply chan SolveOutcome) {
	snap := c.params.Copy()

	c.inFlight++
	if c.inFlight == 1 {
		log.Printf("controller state=solving")
	}

	go func() {
		result, err := c.solver.Solve(context.Background(), snap)
		select {
		case c.events <- settleEvent{outcome: SolveOutcome{Result: result, Err: err}, reply: reply}:
		case <-c.quit:
		}
	}()
}

func (c *Controller) handleSettle(e settleEvent) {
	c.inFlight--
	if c.inFlight == 0 {
		log.Printf("controller state=idle")
	}

	if e.outcome.Err != nil {
		// Terminal for this interaction: log and leave the layer untouched.
		log.Printf("solve failed: %v", e.outcome.Err)
		e.reply <- e.outcome
		return
	}

	for i := range e.outcome.Result.Polygons {
		c.layer.Add(domain.Graphic{
			Polygon: &e.outcome.Result.Polygons[i],
			Symbol:  domain.ServiceAreaFillSymbol,
		})
	}

	e.reply <- e.outcome
}

func (c *Controller) snapshot() CanvasSnapshot {
	state := "idle"
	if c.inFlight > 0 {
		state = "solving"
	}

	var cp *domain.Coordinates
	if c.clickPoint != nil {
		v := *c.clickPoint
		cp = &v
	}

	var minutes float64
	if len(c.params.DefaultBreaks) > 0 {
		minutes = c.params.DefaultBreaks[0]
	}

	return CanvasSnapshot{
		Graphics:     c.layer.Snapshot(),
		ClickPoint:   cp,
		BreakMinutes: minutes,
		BreakLabel:   c.breakLabel,
		State:        state,
	}
}

func breakLabel(minutes float64) string {
	return fmt.Sprintf("%g min", minutes)
}
