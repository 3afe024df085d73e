package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"service-area-service/internal/adapters/isochrone"
	"service-area-service/internal/domain"
)

func testPolygons(n int) []domain.Polygon {
	polys := make([]domain.Polygon, 0, n)
	for i := 0; i < n; i++ {
		polys = append(polys, domain.Polygon{
			Rings: [][]domain.Coordinates{{
				{Lon: float64(i), Lat: 0},
				{Lon: float64(i) + 1, Lat: 0},
				{Lon: float64(i) + 1, Lat: 1},
				{Lon: float64(i), Lat: 0},
			}},
			SpatialReference: domain.WGS84,
		})
	}
	return polys
}

func waitOutcome(t *testing.T, ch <-chan SolveOutcome) SolveOutcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for solve outcome")
		return SolveOutcome{}
	}
}

func TestClickSetsSingleFacility(t *testing.T) {
	solver := &isochrone.MockSolver{Polygons: testPolygons(1)}
	c := NewController(solver, 5, "driving-car")
	defer c.Close()

	pt := domain.Coordinates{Lon: -112.074, Lat: 33.4484}
	outcome, err := c.Click(context.Background(), pt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o := waitOutcome(t, outcome); o.Err != nil {
		t.Fatalf("solve failed: %v", o.Err)
	}

	calls := solver.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 solve, got %d", len(calls))
	}

	params := calls[0]
	if len(params.Facilities) != 1 {
		t.Fatalf("expected exactly 1 facility, got %d", len(params.Facilities))
	}
	if params.Facilities[0].Location != pt {
		t.Fatalf("facility = %v, want %v", params.Facilities[0].Location, pt)
	}
	if params.Facilities[0].SpatialReference != domain.WGS84 {
		t.Fatalf("facility spatial reference = %v, want %v", params.Facilities[0].SpatialReference, domain.WGS84)
	}
}

func TestSecondClickReplacesFacility(t *testing.T) {
	solver := &isochrone.MockSolver{Polygons: testPolygons(1)}
	c := NewController(solver, 5, "driving-car")
	defer c.Close()

	first := domain.Coordinates{Lon: 1, Lat: 2}
	second := domain.Coordinates{Lon: 3, Lat: 4}

	out1, err := c.Click(context.Background(), first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitOutcome(t, out1)

	out2, err := c.Click(context.Background(), second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitOutcome(t, out2)

	calls := solver.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 solves, got %d", len(calls))
	}
	if len(calls[1].Facilities) != 1 {
		t.Fatalf("expected exactly 1 facility, got %d", len(calls[1].Facilities))
	}
	if calls[1].Facilities[0].Location != second {
		t.Fatalf("facility = %v, want %v", calls[1].Facilities[0].Location, second)
	}
}

func TestBreakScaling(t *testing.T) {
	solver := &isochrone.MockSolver{Polygons: testPolygons(1)}
	c := NewController(solver, 5, "driving-car")
	defer c.Close()

	// 300 seconds on the control stores a 5 minute break.
	change, err := c.ChangeBreak(context.Background(), 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if change.BreakMinutes != 5 {
		t.Fatalf("break = %g, want 5", change.BreakMinutes)
	}
	if change.Label != "5 min" {
		t.Fatalf("label = %q, want %q", change.Label, "5 min")
	}
	if change.Replayed {
		t.Fatal("break change replayed without a prior click")
	}
	if calls := solver.Calls(); len(calls) != 0 {
		t.Fatalf("expected no solves without a click, got %d", len(calls))
	}
}

func TestSuccessfulSolveRendersPolygons(t *testing.T) {
	solver := &isochrone.MockSolver{Polygons: testPolygons(2)}
	c := NewController(solver, 5, "driving-car")
	defer c.Close()

	outcome, err := c.Click(context.Background(), domain.Coordinates{Lon: 1, Lat: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := waitOutcome(t, outcome)
	if o.Err != nil {
		t.Fatalf("solve failed: %v", o.Err)
	}

	snap, err := c.Canvas(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One marker plus one fill graphic per result polygon.
	if len(snap.Graphics) != 3 {
		t.Fatalf("expected 3 graphics, got %d", len(snap.Graphics))
	}
	if snap.Graphics[0].Point == nil || snap.Graphics[0].Symbol != domain.ClickMarkerSymbol {
		t.Fatalf("first graphic should be the click marker, got %+v", snap.Graphics[0])
	}
	for i, g := range snap.Graphics[1:] {
		if g.Polygon == nil {
			t.Fatalf("graphic #%d missing polygon", i+1)
		}
		if g.Symbol != domain.ServiceAreaFillSymbol {
			t.Fatalf("graphic #%d symbol = %+v, want fixed fill symbol", i+1, g.Symbol)
		}
	}
	if snap.State != "idle" {
		t.Fatalf("state = %q, want idle", snap.State)
	}
}

func TestSolveFailureAddsNothingAndStaysInteractive(t *testing.T) {
	solver := &isochrone.MockSolver{Err: errors.New("service fault")}
	c := NewController(solver, 5, "driving-car")
	defer c.Close()

	outcome, err := c.Click(context.Background(), domain.Coordinates{Lon: 1, Lat: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := waitOutcome(t, outcome)
	if o.Err == nil {
		t.Fatal("expected solve error")
	}

	snap, err := c.Canvas(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The marker from the click survives; no polygons were added.
	if len(snap.Graphics) != 1 {
		t.Fatalf("expected only the marker graphic, got %d graphics", len(snap.Graphics))
	}

	// The controller remains interactive after the failure.
	change, err := c.ChangeBreak(context.Background(), 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !change.Replayed {
		t.Fatal("expected replay after a prior click")
	}
	if o := waitOutcome(t, change.Outcome); o.Err == nil {
		t.Fatal("expected replayed solve to fail too")
	}
}

func TestBreakReplayReusesClickPoint(t *testing.T) {
	solver := &isochrone.MockSolver{Polygons: testPolygons(1)}
	c := NewController(solver, 5, "driving-car")
	defer c.Close()

	pt := domain.Coordinates{Lon: -112.1, Lat: 33.5}
	outcome, err := c.Click(context.Background(), pt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitOutcome(t, outcome)

	change, err := c.ChangeBreak(context.Background(), 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !change.Replayed {
		t.Fatal("expected replay with a prior click")
	}
	if o := waitOutcome(t, change.Outcome); o.Err != nil {
		t.Fatalf("replayed solve failed: %v", o.Err)
	}

	calls := solver.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 solves, got %d", len(calls))
	}

	replay := calls[1]
	if replay.Facilities[0].Location != pt {
		t.Fatalf("replay facility = %v, want original click %v", replay.Facilities[0].Location, pt)
	}
	if len(replay.DefaultBreaks) != 1 || replay.DefaultBreaks[0] != 10 {
		t.Fatalf("replay breaks = %v, want [10]", replay.DefaultBreaks)
	}
}

// Overlapping solves are deliberately not mutually excluded: a second click
// while the first solve is in flight starts a second solve, and both settles
// render. This test documents the behavior rather than fixing it.
func TestRapidClicksBothRender(t *testing.T) {
	block := make(chan struct{})
	solver := &isochrone.MockSolver{Polygons: testPolygons(2), Block: block}
	c := NewController(solver, 5, "driving-car")
	defer c.Close()

	out1, err := c.Click(context.Background(), domain.Coordinates{Lon: 1, Lat: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out2, err := c.Click(context.Background(), domain.Coordinates{Lon: 2, Lat: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, err := c.Canvas(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State != "solving" {
		t.Fatalf("state = %q, want solving while solves are in flight", snap.State)
	}

	close(block)
	if o := waitOutcome(t, out1); o.Err != nil {
		t.Fatalf("first solve failed: %v", o.Err)
	}
	if o := waitOutcome(t, out2); o.Err != nil {
		t.Fatalf("second solve failed: %v", o.Err)
	}

	snap, err = c.Canvas(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The second click cleared the first marker, then both settles appended
	// their polygons: 1 marker + 2 polygons per solve.
	if len(snap.Graphics) != 5 {
		t.Fatalf("expected 5 graphics (marker + 2x2 polygons), got %d", len(snap.Graphics))
	}
	if snap.State != "idle" {
		t.Fatalf("state = %q, want idle", snap.State)
	}
}

func TestClosedControllerRejectsEvents(t *testing.T) {
	solver := &isochrone.MockSolver{Polygons: testPolygons(1)}
	c := NewController(solver, 5, "driving-car")
	c.Close()

	if _, err := c.Click(context.Background(), domain.Coordinates{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if _, err := c.ChangeBreak(context.Background(), 300); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}
