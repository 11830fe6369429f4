// Package predictor shadow-simulates a shot for preview display: it clones
// the live table into a headless copy, applies the same shot pose a live
// strike would, and records a sparse time-stamped path per ball plus
// first-impact metadata. Prediction never leaks into the live game — the
// shadow table is rebuilt from a plain snapshot with no shared references.
package predictor

import (
	"math"

	"github.com/osmane/billiards-sub001/internal/physics"
)

// PathSample is one recorded point of a ball's predicted path.
type PathSample struct {
	T   float64      `json:"t"`
	Pos physics.Vec3 `json:"pos"`
}

// ImpactInfo describes the first collision or cushion event involving the
// struck ball.
type ImpactInfo struct {
	Type      physics.OutcomeType `json:"type"`
	OtherBall int                 `json:"other_ball"` // -1 for cushion
	Pos       physics.Vec3        `json:"pos"`
	T         float64             `json:"t"`
	Distance  float64             `json:"distance"` // cue travel to this point
}

// Prediction is the result handed to the aiming view. Fallback marks a
// straight-line projection used when no event occurred before the horizon or
// the shadow simulation failed — a preview always has a usable endpoint.
type Prediction struct {
	Paths       map[int][]PathSample `json:"paths"`
	FirstImpact *ImpactInfo          `json:"first_impact,omitempty"`
	Fallback    bool                 `json:"fallback,omitempty"`
	Horizon     float64              `json:"horizon"`
}

// Predictor holds the sampling policy. The zero value is not usable; use New.
type Predictor struct {
	// Horizon bounds the shadow simulation (seconds of simulated time).
	Horizon float64
	// ShortHorizon is used when only a short preview is requested.
	ShortHorizon float64
	// SampleInterval is the coarse sampling period after first impact.
	SampleInterval float64
}

func New() *Predictor {
	return &Predictor{
		Horizon:        6.0,
		ShortHorizon:   1.5,
		SampleInterval: 0.05,
	}
}

// Predict shadow-simulates the aim against the snapshot. The snapshot is
// plain data, so the live table is untouched regardless of what happens in
// here.
func (p *Predictor) Predict(snap physics.TableSnapshot, aim physics.Aim, short bool) *Prediction {
	horizon := p.Horizon
	if short {
		horizon = p.ShortHorizon
	}

	table := physics.FromSnapshot(snap)
	table.Cue = aim

	pred := &Prediction{
		Paths:   make(map[int][]PathSample),
		Horizon: horizon,
	}

	cue := table.CueBall()
	if cue == nil || !cue.OnTable() {
		pred.Fallback = true
		return pred
	}
	start := cue.Pos

	table.Hit()
	pred.sample(0, cue)

	var (
		t           float64
		processed   int
		lastCoarse  float64
		impactSeen  bool
		travel      float64
		prevCuePos  = cue.Pos
		simFailed   bool
	)

	for t < horizon && !table.AllStationary() {
		if err := table.Advance(physics.FixedDt); err != nil {
			simFailed = true
			break
		}
		t += physics.FixedDt

		if !impactSeen {
			travel += cue.Pos.Minus(prevCuePos).Magnitude()
			prevCuePos = cue.Pos
		}

		// Unconditional extra sample exactly at each impact event, and
		// first-impact tracking for the struck ball.
		for _, o := range table.OutcomesSince(processed) {
			if b := table.BallByID(o.BallA); b != nil {
				pred.sample(t, b)
			}
			if o.Type == physics.OutcomeCollision {
				if b := table.BallByID(o.BallB); b != nil {
					pred.sample(t, b)
				}
			}
			if !impactSeen && (o.BallA == cue.ID || o.BallB == cue.ID) && o.Type != physics.OutcomePot {
				impactSeen = true
				pred.FirstImpact = &ImpactInfo{
					Type:      o.Type,
					OtherBall: otherBall(o, cue.ID),
					Pos:       cue.Pos,
					T:         t,
					Distance:  travel,
				}
			}
		}
		processed = len(table.Outcomes)

		// Continuous path for the struck ball until its first impact,
		// then coarse samples for every moving ball.
		if !impactSeen {
			pred.sample(t, cue)
		} else if t-lastCoarse >= p.SampleInterval {
			lastCoarse = t
			for _, b := range table.Balls {
				if b.InMotion() {
					pred.sample(t, b)
				}
			}
		}
	}

	for _, b := range table.Balls {
		if b.OnTable() {
			pred.sample(t, b)
		}
	}

	if pred.FirstImpact == nil || simFailed {
		p.straightLineFallback(pred, snap, aim, start)
	}
	return pred
}

func (pred *Prediction) sample(t float64, b *physics.Ball) {
	path := pred.Paths[b.ID]
	if n := len(path); n > 0 && path[n-1].T == t && path[n-1].Pos.IsEqualTo(b.Pos) {
		return
	}
	pred.Paths[b.ID] = append(path, PathSample{T: t, Pos: b.Pos})
}

func otherBall(o physics.Outcome, cueID int) int {
	if o.Type != physics.OutcomeCollision {
		return -1
	}
	if o.BallA == cueID {
		return o.BallB
	}
	return o.BallA
}

// straightLineFallback replaces the cue path with a projection along the aim
// direction, capped by the nearest analytically computed object-ball
// intercept so the preview endpoint is still meaningful.
func (p *Predictor) straightLineFallback(pred *Prediction, snap physics.TableSnapshot, aim physics.Aim, start physics.Vec3) {
	pred.Fallback = true

	dir := physics.NewVec3(math.Cos(aim.Angle), math.Sin(aim.Angle), 0)
	ctx := physics.ContextWith(snap.Mode, snap.Overrides)

	limit := 4.0 // longer than any table diagonal
	for _, bs := range snap.Balls {
		if bs.ID == snap.CueBallID || bs.State == physics.StateInPocket {
			continue
		}
		if d, ok := rayBallIntercept(start, dir, bs.Pos, ctx.ContactRange); ok && d < limit {
			limit = d
		}
	}

	end := start.Plus(dir.Times(limit))
	pred.Paths[snap.CueBallID] = []PathSample{
		{T: 0, Pos: start},
		{T: pred.Horizon, Pos: end},
	}
}

// rayBallIntercept returns the distance along dir at which a ball traveling
// from origin first comes within contact range of a target center.
func rayBallIntercept(origin, dir, center physics.Vec3, contact float64) (float64, bool) {
	to := center.Minus(origin)
	proj := to.Dot(dir)
	if proj <= 0 {
		return 0, false
	}
	perpSq := to.MagnitudeSquared() - proj*proj
	maxPerpSq := contact * contact
	if perpSq >= maxPerpSq {
		return 0, false
	}
	return proj - math.Sqrt(maxPerpSq-perpSq), true
}
