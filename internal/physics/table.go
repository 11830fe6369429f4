package physics

import (
	"errors"
	"fmt"
	"log"
)

// ErrStepUnresolvable is returned when Advance cannot reach a consistent
// state within the hard retry cap. It signals a geometry or configuration
// defect, not a transient physics state; callers abort the current shot or
// candidate, never the whole process.
var ErrStepUnresolvable = errors.New("physics: step unresolvable after retry cap")

// ballPair is one unordered pair of ball indices, i < j.
type ballPair struct {
	a, b int
}

// stepPhase is the Advance state machine.
type stepPhase int

const (
	phaseScanning stepPhase = iota
	phaseResolved
	phaseEmergencySeparated
	phaseFatal
)

// Table owns the full ball list, every unordered ball pair, the cue aim and
// the append-only outcome log for the current shot. The pair set is computed
// once at construction and only rebuilt on re-initialization.
type Table struct {
	Balls     []*Ball
	Geometry  *TableGeometry
	Cue       Aim
	CueBallID int
	Model     CushionModel
	Mode      string
	Overrides ContextOverrides

	// Outcomes is append-only and ordered by detection time within the
	// shot. Consumers read by index range; entries are never rewritten.
	Outcomes []Outcome

	pairs []ballPair
	now   float64 // simulation time since last ResetOutcomes
}

// NewTable builds a table for a game mode with balls at the given cloth
// positions. Ball ids are their creation order.
func NewTable(mode string, positions [][2]float64) *Table {
	ctx := ContextFor(mode)
	balls := make([]*Ball, len(positions))
	for i, p := range positions {
		balls[i] = NewBall(i, p[0], p[1], ctx)
	}
	t := &Table{
		Balls:    balls,
		Geometry: GeometryFor(mode, ctx),
		Model:    CushionUniform,
		Mode:     mode,
	}
	t.rebuildPairs()
	return t
}

// NewCaromTable is the standard three-cushion start: cue ball and two object
// balls on the long axis spots.
func NewCaromTable() *Table {
	return NewTable("carom", [][2]float64{
		{-0.71, 0.1775}, // cue ball
		{-0.71, 0},      // opponent white/yellow spot
		{0.71, 0},       // red spot
	})
}

func (t *Table) rebuildPairs() {
	t.pairs = t.pairs[:0]
	for i := 0; i < len(t.Balls); i++ {
		for j := i + 1; j < len(t.Balls); j++ {
			t.pairs = append(t.pairs, ballPair{a: i, b: j})
		}
	}
}

// CueBall returns the ball the cue acts on, resolved by id with a positional
// fallback for stale snapshots.
func (t *Table) CueBall() *Ball {
	for _, b := range t.Balls {
		if b.ID == t.CueBallID {
			return b
		}
	}
	if len(t.Balls) > 0 {
		return t.Balls[0]
	}
	return nil
}

// BallByID returns the ball with the given id, or nil.
func (t *Table) BallByID(id int) *Ball {
	for _, b := range t.Balls {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// AllStationary reports whether every on-table ball has come to rest.
func (t *Table) AllStationary() bool {
	for _, b := range t.Balls {
		if b.OnTable() && b.State != StateStationary {
			return false
		}
		if b.State == StateFalling {
			return false
		}
	}
	return true
}

// ResetOutcomes clears the log before a new shot. Past shots' outcomes are
// the caller's to keep; the engine only guarantees order within one shot.
func (t *Table) ResetOutcomes() {
	t.Outcomes = t.Outcomes[:0]
	t.now = 0
}

// OutcomesSince returns the log entries appended at or after index from,
// the index-range read pattern consumers use instead of diffing.
func (t *Table) OutcomesSince(from int) []Outcome {
	if from < 0 || from > len(t.Outcomes) {
		return nil
	}
	return t.Outcomes[from:]
}

// Hit applies the current aim to the cue ball and starts a new outcome log.
func (t *Table) Hit() {
	cue := t.CueBall()
	if cue == nil || !cue.OnTable() {
		return
	}
	t.ResetOutcomes()
	ApplyPose(cue, PoseFromAim(t.Cue, cue))
}

// Advance resolves one fixed timestep. It repeatedly rescans every ball pair
// and every ball boundary from scratch; any resolution mutates velocities
// and restarts the scan, because resolving one contact can create or remove
// others. A clean scan accepts the step and integrates every ball by dt.
//
// The retry loop is a bounded state machine: Scanning → Resolved (rescan) |
// EmergencySeparated (rescan) | Fatal. At the soft threshold an emergency
// separation pass breaks deadlocked multi-ball clusters; at the hard cap the
// step is unresolvable and ErrStepUnresolvable is returned.
func (t *Table) Advance(dt float64) error {
	retries := 0
	for {
		phase := t.scan(dt)
		switch phase {
		case phaseScanning:
			// Clean scan: the step is consistent, integrate.
			for _, b := range t.Balls {
				b.Step(dt)
			}
			t.now = fround(t.now + dt)
			return nil
		case phaseResolved:
			retries++
		}

		if retries == SoftRetryLimit {
			log.Printf("[PHYSICS] emergency separation after %d retries (t=%.3f)", retries, t.now)
			t.emergencySeparate()
		}
		if retries >= HardRetryLimit {
			return fmt.Errorf("%w (retries=%d, t=%.3f)", ErrStepUnresolvable, retries, t.now)
		}
	}
}

// scan runs one full pass over pairs then boundaries. The first violated
// test is resolved immediately (mutating state and the outcome log) and the
// scan reports phaseResolved so Advance restarts from scratch.
func (t *Table) scan(dt float64) stepPhase {
	for _, p := range t.pairs {
		a, b := t.Balls[p.a], t.Balls[p.b]
		if !WillCollide(a, b, dt) {
			continue
		}
		SeparateAtImpact(a, b)
		speed := Collide(a, b)
		t.Outcomes = append(t.Outcomes, collisionOutcome(a, b, speed, t.now))
		return phaseResolved
	}

	for _, b := range t.Balls {
		hit, ok := ResolveBoundary(b, t.Geometry, t.Model, dt)
		if !ok {
			continue
		}
		switch hit.kind {
		case OutcomePot:
			t.Outcomes = append(t.Outcomes, potOutcome(b, hit.speed, t.now))
		default:
			t.Outcomes = append(t.Outcomes, cushionOutcome(b, hit.speed, t.now))
		}
		return phaseResolved
	}

	return phaseScanning
}

// emergencySeparate pushes every overlapping pair apart along its separation
// axis by a fraction of the penetration depth and imparts a minimum
// separation speed. This is a recoverable degradation path for
// near-simultaneous multi-ball clusters; it must converge the step before
// the hard cap.
func (t *Table) emergencySeparate() {
	for _, p := range t.pairs {
		a, b := t.Balls[p.a], t.Balls[p.b]
		if !a.OnTable() || !b.OnTable() {
			continue
		}
		depth := Penetration(a, b)
		if depth == 0 {
			continue
		}
		ctx := a.Ctx
		axis := b.Pos.Minus(a.Pos).Normalize()
		if axis.IsZero() {
			axis = Vec3{X: 1}
		}
		shift := axis.Times(depth * ctx.CollisionSeparationBias / 2)
		a.Pos = a.Pos.Minus(shift)
		b.Pos = b.Pos.Plus(shift)

		kick := axis.Times(ctx.MinSeparationSpeed)
		a.Vel = a.Vel.Minus(kick)
		b.Vel = b.Vel.Plus(kick)
		wake(a)
		wake(b)
		a.round()
		b.round()
	}
}
