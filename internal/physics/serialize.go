package physics

// BallSnapshot is the structural serialization of one ball.
type BallSnapshot struct {
	ID    int       `json:"id"`
	Pos   Vec3      `json:"pos"`
	Vel   Vec3      `json:"vel"`
	RVel  Vec3      `json:"rvel"`
	State BallState `json:"state"`

	MagnusEnabled bool    `json:"magnus_enabled,omitempty"`
	ShotElevation float64 `json:"shot_elevation,omitempty"`
	InitialSpeed  float64 `json:"initial_speed,omitempty"`
}

// TableSnapshot is the plain structural snapshot exchanged with rendering,
// networking and persistence. It carries no live references; FromSnapshot
// reconstructs a fully independent table, which is also how the predictor
// and search obtain their headless shadow copies.
type TableSnapshot struct {
	Mode      string           `json:"mode"`
	Balls     []BallSnapshot   `json:"balls"`
	Aim       Aim              `json:"aim"`
	Model     string           `json:"cushion_model"`
	CueBallID int              `json:"cueball_id"`
	Overrides ContextOverrides `json:"physics,omitempty"`
}

// Snapshot serializes the table. All kinematic values are already held at
// fixed precision, so Snapshot → FromSnapshot reproduces state bit-for-bit.
func (t *Table) Snapshot() TableSnapshot {
	balls := make([]BallSnapshot, len(t.Balls))
	for i, b := range t.Balls {
		balls[i] = BallSnapshot{
			ID:            b.ID,
			Pos:           b.Pos,
			Vel:           b.Vel,
			RVel:          b.RVel,
			State:         b.State,
			MagnusEnabled: b.MagnusEnabled,
			ShotElevation: b.ShotElevation,
			InitialSpeed:  b.InitialSpeed,
		}
	}
	return TableSnapshot{
		Mode:      t.Mode,
		Balls:     balls,
		Aim:       t.Cue,
		Model:     string(t.Model),
		CueBallID: t.CueBallID,
		Overrides: t.Overrides,
	}
}

// FromSnapshot rebuilds a table from a snapshot. Snapshots arrive from
// network and replay paths that may be partially stale, so malformed fields
// degrade instead of failing: an unknown mode falls back to defaults, an
// unknown ball state becomes Stationary, and a missing cue ball id resolves
// positionally to the first ball.
func FromSnapshot(snap TableSnapshot) *Table {
	mode := snap.Mode
	if mode == "" {
		mode = "carom"
	}
	ctx := ContextWith(mode, snap.Overrides)

	balls := make([]*Ball, len(snap.Balls))
	for i, bs := range snap.Balls {
		b := &Ball{
			ID:            bs.ID,
			Pos:           bs.Pos,
			Vel:           bs.Vel,
			RVel:          bs.RVel,
			State:         normalizeState(bs.State),
			Ctx:           ctx,
			MagnusEnabled: bs.MagnusEnabled,
			ShotElevation: bs.ShotElevation,
			InitialSpeed:  bs.InitialSpeed,
		}
		if b.State == StateStationary {
			// Uphold the Stationary invariant against stale data.
			b.Vel = Vec3{}
			b.RVel = Vec3{}
		}
		balls[i] = b
	}

	t := &Table{
		Balls:     balls,
		Geometry:  GeometryFor(mode, ctx),
		Cue:       normalizeAim(snap.Aim),
		CueBallID: snap.CueBallID,
		Model:     CushionModelFor(snap.Model),
		Mode:      mode,
		Overrides: snap.Overrides,
	}
	t.rebuildPairs()

	if t.BallByID(t.CueBallID) == nil && len(balls) > 0 {
		t.CueBallID = balls[0].ID
	}
	return t
}

func normalizeState(s BallState) BallState {
	switch s {
	case StateStationary, StateSliding, StateRolling, StateFalling, StateInPocket:
		return s
	}
	return StateStationary
}

func normalizeAim(a Aim) Aim {
	a.Power = clamp(a.Power, 0, MaxPower)
	a.OffsetX = clamp(a.OffsetX, -1, 1)
	a.OffsetY = clamp(a.OffsetY, -1, 1)
	return a
}

// CloneForSimulation is the headless shadow copy the predictor and search
// step. Isolation is by value copying, not synchronization: nothing mutable
// is shared with the live table.
func (t *Table) CloneForSimulation() *Table {
	return FromSnapshot(t.Snapshot())
}
