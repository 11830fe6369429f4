package search

import (
	"math"

	"github.com/osmane/billiards-sub001/internal/physics"
)

// Kiss policy constants. These encode three-cushion judgment calls rather
// than physics; see the policy notes in DESIGN.md.
const (
	// requiredCushions is the carom win condition: cushion contacts by the
	// cue ball before it reaches the second object ball.
	requiredCushions = 3
	// earlyObjectContact flags an object-object collision this soon after
	// the strike as a kiss proxy.
	earlyObjectContact = 0.6 // seconds
)

// Scoring weights. Ball-first contact is strongly preferred over
// cushion-first (~90/10), and the penalties discourage spin, elevation and
// raw power the shot does not need.
const (
	ballFirstBias    = 0.9
	cushionFirstBias = 0.1
	offsetPenalty    = 0.2
	elevationPenalty = 0.15
	powerPenalty     = 0.1
	kissPenalty      = 0.35
	failureFloor     = -1.0
)

// outcomeClass is what one candidate's shadow simulation amounted to.
type outcomeClass struct {
	success           bool
	kiss              bool
	firstContactBall  bool
	cushionsBeforeHit int // cue cushion contacts before second object contact
	objectsContacted  int
	failed            bool // simulation error; candidate is excluded
}

// evaluate shadow-simulates one candidate to completion or the sim cap and
// classifies the result. A failed simulation is caught here and scored out
// rather than propagated — one bad candidate never aborts a batch.
func evaluate(snap physics.TableSnapshot, c Candidate, cfg Config) outcomeClass {
	table := physics.FromSnapshot(snap)
	table.Cue = physics.Aim{
		Angle:     c.Angle,
		OffsetX:   c.OffsetX,
		OffsetY:   c.OffsetY,
		Elevation: c.Elevation,
		Power:     c.Power,
	}
	table.Hit()

	var t float64
	for t < cfg.SimCap && !table.AllStationary() {
		if err := table.Advance(physics.FixedDt); err != nil {
			return outcomeClass{failed: true}
		}
		t += physics.FixedDt
	}

	return classify(table.Outcomes, table.CueBallID)
}

// classify walks the ordered outcome log and applies the three-cushion
// rules: success is at least requiredCushions cushion contacts by the cue
// ball before its first contact with the second distinct object ball.
//
// Kiss heuristics, each a proxy for an illegal or unlucky contact pattern:
// the cue ball meeting the same object twice before completing the point,
// the second object arriving before the cushion count is in, or two object
// balls colliding with each other suspiciously early.
func classify(outcomes []physics.Outcome, cueID int) outcomeClass {
	var (
		cls          outcomeClass
		cushions     int
		firstObject  = -1
		secondObject = -1
		firstEvent   = true
	)

	for _, o := range outcomes {
		cueInvolved := o.BallA == cueID || o.BallB == cueID

		if firstEvent && cueInvolved && o.Type != physics.OutcomePot {
			cls.firstContactBall = o.Type == physics.OutcomeCollision
			firstEvent = false
		}

		switch o.Type {
		case physics.OutcomeCushion:
			if o.BallA == cueID {
				cushions++
			}
		case physics.OutcomeCollision:
			if !cueInvolved {
				// Object-object contact early in the shot is a kiss proxy.
				if o.Time < earlyObjectContact {
					cls.kiss = true
				}
				continue
			}
			obj := o.BallA
			if obj == cueID {
				obj = o.BallB
			}
			switch {
			case firstObject == -1:
				firstObject = obj
				cls.objectsContacted = 1
			case obj == firstObject && secondObject == -1:
				// Same object twice before the second is reached.
				cls.kiss = true
			case obj != firstObject && secondObject == -1:
				secondObject = obj
				cls.objectsContacted = 2
				cls.cushionsBeforeHit = cushions
				if cushions >= requiredCushions {
					cls.success = true
				} else {
					// Second object before the cushion count: the
					// multi-object contact that disallows the point.
					cls.kiss = true
				}
			}
		}
	}

	if secondObject == -1 {
		cls.cushionsBeforeHit = min(cushions, requiredCushions)
	}
	return cls
}

// score maps a classification onto a comparable value; higher is better.
// Successes score from the contact bias minus effort penalties; failures
// sit below failureFloor scaled by how much of the point was achieved, so
// a fallback candidate still orders sensibly.
func score(c Candidate, cls outcomeClass, cfg Config) float64 {
	if cls.failed {
		return math.Inf(-1)
	}

	offMag := math.Sqrt(c.OffsetX*c.OffsetX + c.OffsetY*c.OffsetY)
	penalties := offsetPenalty*offMag +
		elevationPenalty*safeRatio(c.Elevation, cfg.MaxElevation) +
		powerPenalty*safeRatio(c.Power, cfg.PowerMax)
	if cls.kiss {
		penalties += kissPenalty
	}

	if cls.success {
		bias := cushionFirstBias
		if cls.firstContactBall {
			bias = ballFirstBias
		}
		return bias - penalties
	}

	progress := 0.04*float64(cls.cushionsBeforeHit) + 0.03*float64(cls.objectsContacted)
	return failureFloor + progress - penalties
}

func safeRatio(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return math.Abs(n) / d
}
