package physics

import "testing"

func TestStateTransitionsAreMonotone(t *testing.T) {
	ctx := ContextFor("carom")
	b := NewBall(0, 0, 0, ctx)
	b.Strike(Vec3{X: 1.0}, Vec3{}, 0)

	rank := map[BallState]int{StateSliding: 0, StateRolling: 1, StateStationary: 2}
	last := rank[b.State]
	for i := 0; i < 256*30 && b.State != StateStationary; i++ {
		b.Step(FixedDt)
		r, ok := rank[b.State]
		if !ok {
			t.Fatalf("unexpected state %s for a cloth ball", b.State)
		}
		if r < last {
			t.Fatalf("state went backwards: %s", b.State)
		}
		last = r
	}
	if b.State != StateStationary {
		t.Fatal("ball never came to rest")
	}
}

func TestStationaryInvariant(t *testing.T) {
	ctx := ContextFor("carom")
	b := NewBall(0, 0, 0, ctx)
	b.Strike(Vec3{X: 0.5}, Vec3{}, 0)

	for i := 0; i < 256*30 && b.State != StateStationary; i++ {
		b.Step(FixedDt)
	}
	if !b.Vel.IsZero() {
		t.Errorf("stationary ball has velocity %+v", b.Vel)
	}
	if !b.RVel.IsZero() {
		t.Errorf("stationary ball has spin %+v", b.RVel)
	}
}

func TestSlidingDeceleratesFasterThanRolling(t *testing.T) {
	ctx := ContextFor("carom")

	slide := NewBall(0, 0, 0, ctx)
	slide.Strike(Vec3{X: 2.0}, Vec3{}, 0) // struck center: full slip

	roll := NewBall(1, 0, 0, ctx)
	roll.Strike(Vec3{X: 2.0}, Vec3{}, 0)
	roll.beginRolling() // force the rolling constraint immediately

	for i := 0; i < 32; i++ {
		slide.Step(FixedDt)
		roll.Step(FixedDt)
	}
	if slide.Vel.FlatMagnitude() >= roll.Vel.FlatMagnitude() {
		t.Errorf("sliding ball speed %.4f not below rolling ball speed %.4f",
			slide.Vel.FlatMagnitude(), roll.Vel.FlatMagnitude())
	}
}

func TestRollingBallKeepsConstraint(t *testing.T) {
	ctx := ContextFor("carom")
	b := NewBall(0, 0, 0, ctx)
	b.Strike(Vec3{X: 1.0}, Vec3{}, 0)

	for i := 0; i < 256*10 && b.State != StateRolling; i++ {
		b.Step(FixedDt)
	}
	if b.State != StateRolling {
		t.Fatal("ball never transitioned to rolling")
	}

	b.Step(FixedDt)
	slip := b.slipVelocity()
	if slip.FlatMagnitude() > ctx.RollingTransition {
		t.Errorf("rolling ball has slip %.5f beyond transition %.5f", slip.FlatMagnitude(), ctx.RollingTransition)
	}
}

func TestVerticalSpinDecays(t *testing.T) {
	ctx := ContextFor("carom")
	b := NewBall(0, 0, 0, ctx)
	b.Strike(Vec3{X: 1.0}, Vec3{Z: 20}, 0)

	initial := b.RVel.Z
	for i := 0; i < 256; i++ {
		b.Step(FixedDt)
	}
	if b.RVel.Z >= initial {
		t.Errorf("vertical spin did not decay: %.4f -> %.4f", initial, b.RVel.Z)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	ctx := ContextFor("carom")
	b := NewBall(0, 0.1, 0.2, ctx)
	b.Strike(Vec3{X: 1}, Vec3{Z: 3}, 0)

	c := b.Clone()
	c.Vel = Vec3{Y: -1}
	c.Pos = Vec3{X: 9, Z: ctx.R}

	if b.Vel.X != 1 || b.Pos.X == 9 {
		t.Error("mutating the clone changed the original")
	}
	if c.Ctx != b.Ctx {
		t.Error("clone should share the interned context")
	}
}
