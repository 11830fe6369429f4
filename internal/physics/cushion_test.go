package physics

import (
	"math"
	"testing"
)

func TestCushionBounceReflectsAndLogs(t *testing.T) {
	table := NewTable("carom", [][2]float64{{1.0, 0}})
	b := table.Balls[0]
	b.Strike(Vec3{X: 2.0}, Vec3{}, 0)

	var elapsed float64
	for elapsed < 5 && len(table.Outcomes) == 0 {
		if err := table.Advance(FixedDt); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		elapsed += FixedDt
	}

	if len(table.Outcomes) == 0 {
		t.Fatal("ball never reached the cushion")
	}
	o := table.Outcomes[0]
	if o.Type != OutcomeCushion {
		t.Fatalf("first outcome = %s, want cushion", o.Type)
	}
	if o.IncidentSpeed <= 0 {
		t.Errorf("cushion outcome incident speed = %.4f, want > 0", o.IncidentSpeed)
	}
	if b.Vel.X >= 0 {
		t.Errorf("velocity not reflected off right cushion: vx=%.4f", b.Vel.X)
	}
	if b.Pos.X > table.Geometry.HalfWidth-b.Ctx.R+1e-9 {
		t.Errorf("ball outside playable area after bounce: x=%.4f", b.Pos.X)
	}
}

func TestCushionRestitutionDampsSpeed(t *testing.T) {
	table := NewTable("carom", [][2]float64{{1.3, 0}})
	b := table.Balls[0]
	b.Strike(Vec3{X: 2.0}, Vec3{}, 0)

	before := 0.0
	var elapsed float64
	for elapsed < 5 && len(table.Outcomes) == 0 {
		before = b.Vel.FlatMagnitude()
		if err := table.Advance(FixedDt); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		elapsed += FixedDt
	}
	if len(table.Outcomes) == 0 {
		t.Fatal("ball never reached the cushion")
	}
	if after := math.Abs(b.Vel.X); after >= before {
		t.Errorf("normal speed not damped by restitution: %.4f -> %.4f", before, after)
	}
}

func TestSpeedBlendModelDampsHardHitsMore(t *testing.T) {
	ctx := ContextFor("carom")
	slow := CushionSpeedBlend.restitution(ctx, 0.5)
	fast := CushionSpeedBlend.restitution(ctx, MaxPower)
	if fast >= slow {
		t.Errorf("speed-blend restitution should fall with speed: slow=%.3f fast=%.3f", slow, fast)
	}
	if u := CushionUniform.restitution(ctx, MaxPower); u != ctx.CushionRestitution {
		t.Errorf("uniform model restitution = %.3f, want %.3f", u, ctx.CushionRestitution)
	}
}

func TestCushionModelForDegradesGracefully(t *testing.T) {
	if m := CushionModelFor("speedblend"); m != CushionSpeedBlend {
		t.Errorf("CushionModelFor(speedblend) = %s", m)
	}
	if m := CushionModelFor("no-such-model"); m != CushionUniform {
		t.Errorf("unknown model should degrade to uniform, got %s", m)
	}
}

func TestPocketCaptureMarksBallOffTable(t *testing.T) {
	table := NewTable("pool", [][2]float64{{0, 0}})
	b := table.Balls[0]

	// Aim straight at the right middle of the top-right corner pocket.
	pocket := table.Geometry.Pockets[5]
	dir := pocket.Pos.Minus(b.Pos).Normalize()
	b.Strike(dir.Times(3.0), Vec3{}, 0)

	var elapsed float64
	for elapsed < 10 && b.OnTable() {
		if err := table.Advance(FixedDt); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		elapsed += FixedDt
	}

	if b.OnTable() {
		t.Fatal("ball aimed at pocket was never captured")
	}
	var pot *Outcome
	for i := range table.Outcomes {
		if table.Outcomes[i].Type == OutcomePot {
			pot = &table.Outcomes[i]
			break
		}
	}
	if pot == nil {
		t.Fatal("no pot outcome recorded")
	}
	if pot.BallA != b.ID {
		t.Errorf("pot outcome ball = %d, want %d", pot.BallA, b.ID)
	}
	if pot.IncidentSpeed <= 0 {
		t.Errorf("pot fall speed = %.4f, want > 0", pot.IncidentSpeed)
	}
}

func TestSideSpinThrowsBallOffCushion(t *testing.T) {
	run := func(spin float64) float64 {
		table := NewTable("carom", [][2]float64{{1.3, 0}})
		b := table.Balls[0]
		b.Strike(Vec3{X: 2.0}, Vec3{Z: spin}, 0)
		var elapsed float64
		for elapsed < 5 && len(table.Outcomes) == 0 {
			if err := table.Advance(FixedDt); err != nil {
				t.Fatalf("Advance failed: %v", err)
			}
			elapsed += FixedDt
		}
		return table.Balls[0].Vel.Y
	}

	straight := run(0)
	spun := run(15)
	if math.Abs(spun-straight) < 1e-6 {
		t.Error("vertical spin had no effect on rebound direction")
	}
}
