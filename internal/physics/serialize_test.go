package physics

import (
	"encoding/json"
	"testing"
)

func TestSnapshotRoundTripIsBitForBit(t *testing.T) {
	table := NewCaromTable()
	table.Cue = Aim{Angle: 0.3, OffsetX: 0.2, OffsetY: -0.1, Power: 3.5, Elevation: 0.1}
	table.Hit()
	for i := 0; i < 64; i++ {
		if err := table.Advance(FixedDt); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}

	snap := table.Snapshot()
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded TableSnapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored := FromSnapshot(decoded)
	if len(restored.Balls) != len(table.Balls) {
		t.Fatalf("ball count %d, want %d", len(restored.Balls), len(table.Balls))
	}
	for i, b := range table.Balls {
		r := restored.Balls[i]
		if !r.Pos.IsEqualTo(b.Pos) {
			t.Errorf("ball %d pos %+v, want %+v", b.ID, r.Pos, b.Pos)
		}
		if !r.Vel.IsEqualTo(b.Vel) {
			t.Errorf("ball %d vel %+v, want %+v", b.ID, r.Vel, b.Vel)
		}
		if !r.RVel.IsEqualTo(b.RVel) {
			t.Errorf("ball %d rvel %+v, want %+v", b.ID, r.RVel, b.RVel)
		}
		if r.State != b.State {
			t.Errorf("ball %d state %s, want %s", b.ID, r.State, b.State)
		}
	}
	if restored.Cue != table.Cue {
		t.Errorf("aim %+v, want %+v", restored.Cue, table.Cue)
	}
	if restored.Model != table.Model {
		t.Errorf("model %s, want %s", restored.Model, table.Model)
	}
}

func TestRestoredTableContinuesIdentically(t *testing.T) {
	table := NewCaromTable()
	table.Cue = Aim{Angle: 0.05, Power: 3.0}
	table.Hit()
	for i := 0; i < 32; i++ {
		if err := table.Advance(FixedDt); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}

	shadow := table.CloneForSimulation()
	for i := 0; i < 128; i++ {
		if err := table.Advance(FixedDt); err != nil {
			t.Fatalf("live Advance failed: %v", err)
		}
		if err := shadow.Advance(FixedDt); err != nil {
			t.Fatalf("shadow Advance failed: %v", err)
		}
	}

	for i, b := range table.Balls {
		s := shadow.Balls[i]
		if !s.Pos.IsEqualTo(b.Pos) || !s.Vel.IsEqualTo(b.Vel) {
			t.Errorf("ball %d diverged: live pos=%+v vel=%+v, shadow pos=%+v vel=%+v",
				b.ID, b.Pos, b.Vel, s.Pos, s.Vel)
		}
	}
}

func TestCueBallResolvedByIDNotIndex(t *testing.T) {
	snap := TableSnapshot{
		Mode: "carom",
		Balls: []BallSnapshot{
			{ID: 7, Pos: NewVec3(0.71, 0, 0.0615), State: StateStationary},
			{ID: 3, Pos: NewVec3(-0.71, 0.1775, 0.0615), State: StateStationary},
		},
		CueBallID: 3,
	}
	table := FromSnapshot(snap)
	cue := table.CueBall()
	if cue == nil || cue.ID != 3 {
		t.Fatalf("cue ball resolved to %+v, want id 3", cue)
	}
	if cue.Pos.X >= 0 {
		t.Errorf("wrong ball picked: pos %+v", cue.Pos)
	}
}

func TestMissingCueBallIDFallsBackToFirstBall(t *testing.T) {
	snap := TableSnapshot{
		Mode: "carom",
		Balls: []BallSnapshot{
			{ID: 4, Pos: NewVec3(0, 0, 0.0615), State: StateStationary},
			{ID: 5, Pos: NewVec3(0.5, 0, 0.0615), State: StateStationary},
		},
		CueBallID: 99,
	}
	table := FromSnapshot(snap)
	if cue := table.CueBall(); cue == nil || cue.ID != 4 {
		t.Fatalf("stale cue ball id should fall back to first ball, got %+v", cue)
	}
}

func TestMalformedSnapshotDegradesGracefully(t *testing.T) {
	snap := TableSnapshot{
		Mode:  "moon-billiards",
		Model: "no-such-model",
		Balls: []BallSnapshot{
			{ID: 0, Pos: NewVec3(0, 0, 0.0615), State: BallState("levitating"),
				Vel: NewVec3(1, 0, 0)},
		},
		Aim: Aim{Power: 500, OffsetX: 4, OffsetY: -4},
	}
	table := FromSnapshot(snap)

	b := table.Balls[0]
	if b.State != StateStationary {
		t.Errorf("unknown state normalized to %s, want stationary", b.State)
	}
	if !b.Vel.IsZero() {
		t.Errorf("stationary ball kept velocity %+v", b.Vel)
	}
	if table.Model != CushionUniform {
		t.Errorf("unknown cushion model mapped to %s", table.Model)
	}
	if table.Cue.Power != MaxPower {
		t.Errorf("power clamped to %.2f, want %.2f", table.Cue.Power, MaxPower)
	}
	if table.Cue.OffsetX != 1 || table.Cue.OffsetY != -1 {
		t.Errorf("offsets clamped to (%.2f, %.2f)", table.Cue.OffsetX, table.Cue.OffsetY)
	}
	if table.Geometry == nil {
		t.Fatal("unknown mode produced no geometry")
	}
}
