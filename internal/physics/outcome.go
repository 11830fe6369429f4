package physics

// OutcomeType discriminates the physical events logged during stepping.
type OutcomeType string

const (
	OutcomeCollision OutcomeType = "collision"
	OutcomeCushion   OutcomeType = "cushion"
	OutcomePot       OutcomeType = "pot"
)

// Outcome is an immutable record of one physical event. Outcomes are appended
// to the table log in the exact temporal order they are detected within a
// step and are never rewritten, removed or reordered. Consumers (scoring,
// AI search, telemetry) read the log by index range.
type Outcome struct {
	Type          OutcomeType `json:"type"`
	BallA         int         `json:"ball_a"`
	BallB         int         `json:"ball_b,omitempty"` // collision partner, -1 otherwise
	IncidentSpeed float64     `json:"incident_speed"`
	Time          float64     `json:"time"` // simulation time of detection (s)
}

func collisionOutcome(a, b *Ball, speed, at float64) Outcome {
	return Outcome{Type: OutcomeCollision, BallA: a.ID, BallB: b.ID, IncidentSpeed: speed, Time: at}
}

func cushionOutcome(b *Ball, speed, at float64) Outcome {
	return Outcome{Type: OutcomeCushion, BallA: b.ID, BallB: -1, IncidentSpeed: speed, Time: at}
}

func potOutcome(b *Ball, speed, at float64) Outcome {
	return Outcome{Type: OutcomePot, BallA: b.ID, BallB: -1, IncidentSpeed: speed, Time: at}
}
