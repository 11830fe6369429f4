package physics

import (
	"math"
	"testing"
)

func TestCenterHitSpeedEqualsPower(t *testing.T) {
	table := NewCaromTable()
	table.Cue = Aim{Angle: 0, Power: 3.0}
	table.Hit()

	cue := table.CueBall()
	if cue.State != StateSliding {
		t.Errorf("struck ball state = %s, want sliding", cue.State)
	}
	if got := cue.Vel.Magnitude(); math.Abs(got-3.0) > 1e-6 {
		t.Errorf("center hit speed = %.6f, want 3.0", got)
	}
	if cue.RVel.Z != 0 {
		t.Errorf("center hit produced vertical spin %.6f, want 0", cue.RVel.Z)
	}
	if cue.InitialSpeed != cue.Vel.Magnitude() {
		t.Errorf("telemetry initial speed %.6f != actual %.6f", cue.InitialSpeed, cue.Vel.Magnitude())
	}
}

func TestOffsetContactStaysOnSphere(t *testing.T) {
	axis := Vec3{X: -1}
	cases := [][2]float64{
		{0, 0}, {0.5, 0}, {0, 0.5}, {-0.7, 0.7}, {1, 0}, {0, -1}, {1, 1},
	}
	for _, c := range cases {
		dir := OffsetToContactDirection(c[0], c[1], axis)
		if m := dir.Magnitude(); math.Abs(m-1) > 1e-5 {
			t.Errorf("offset (%.2f,%.2f): contact direction magnitude %.6f, want 1", c[0], c[1], m)
		}
	}
}

func TestSideOffsetProducesVerticalSpin(t *testing.T) {
	table := NewCaromTable()
	table.Cue = Aim{Angle: 0, OffsetX: 0.5, Power: 2.0}
	table.Hit()

	cue := table.CueBall()
	if cue.RVel.Z == 0 {
		t.Error("side offset produced no vertical spin")
	}
}

func TestLowOffsetProducesBackspin(t *testing.T) {
	table := NewCaromTable()
	table.Cue = Aim{Angle: 0, OffsetY: -0.5, Power: 2.0}
	table.Hit()

	// Shooting along +x with a below-center strike: backspin is rotation
	// whose contact-point velocity adds forward, i.e. negative ωy for +x
	// travel under the rolling convention ωy = vx/R.
	cue := table.CueBall()
	if cue.RVel.Y >= 0 {
		t.Errorf("below-center strike spin ωy = %.4f, want negative (backspin)", cue.RVel.Y)
	}
}

func TestCueToSpinIsSingleSourceOfSpin(t *testing.T) {
	ctx := ContextFor("carom")
	center := NewVec3(0, 0, ctx.R)
	vel := Vec3{X: 2}

	// Center contact: zero spin.
	contact := center.Plus(Vec3{X: -ctx.R})
	if spin := CueToSpin(contact, center, vel, ctx); !spin.IsZero() {
		t.Errorf("center contact spin = %+v, want zero", spin)
	}

	// Off-center contact: spin perpendicular to both offset and velocity.
	contact = center.Plus(Vec3{X: -ctx.R * 0.8, Z: -ctx.R * 0.6})
	spin := CueToSpin(contact, center, vel, ctx)
	if spin.IsZero() {
		t.Fatal("off-center contact produced no spin")
	}
	if spin.X != 0 || spin.Z != 0 {
		t.Errorf("x-travel low hit should spin about y only, got %+v", spin)
	}
}

func TestElevationAttenuatesSpeed(t *testing.T) {
	flat := NewCaromTable()
	flat.Cue = Aim{Angle: 0, Power: 3.0}
	flat.Hit()

	raised := NewCaromTable()
	raised.Cue = Aim{Angle: 0, Power: 3.0, Elevation: 0.5}
	raised.Hit()

	if raised.CueBall().Vel.Magnitude() >= flat.CueBall().Vel.Magnitude() {
		t.Errorf("elevated shot speed %.4f not below flat shot speed %.4f",
			raised.CueBall().Vel.Magnitude(), flat.CueBall().Vel.Magnitude())
	}
}

func TestPowerIsClamped(t *testing.T) {
	table := NewCaromTable()
	table.Cue = Aim{Angle: 0, Power: 50}
	table.Hit()
	if got := table.CueBall().Vel.Magnitude(); got > MaxPower {
		t.Errorf("shot speed %.4f exceeds max power %.1f", got, MaxPower)
	}
}
