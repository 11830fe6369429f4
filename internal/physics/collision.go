package physics

import "math"

// WillCollide predicts whether the two sphere surfaces interpenetrate within
// dt, from a closed-form root of the relative-motion quadratic against the
// contact distance 2R.
//
// Policy: a pair that is currently separated but predicted to touch is
// deferred to the next step — only actual penetration (beyond the context
// velocity epsilon) triggers resolution. Future-only contacts would otherwise
// cause false-positive retries.
func WillCollide(a, b *Ball, dt float64) bool {
	if !a.OnTable() || !b.OnTable() {
		return false
	}

	ctx := a.Ctx
	sep := b.Pos.Minus(a.Pos)
	dist := sep.Magnitude()
	relVel := b.Vel.Minus(a.Vel)
	diverging := relVel.Dot(sep) > 0

	// Already penetrating beyond tolerance: resolve now, even for a pair at
	// rest — spawned and emergency overlaps must still separate. The
	// exception is a diverging overlap, a contact already resolved (or an
	// emergency kick in flight); re-colliding it would feed energy in.
	if dist < ctx.ContactRange-ctx.CollisionVelocityEpsilon {
		return !diverging
	}

	if !a.InMotion() && !b.InMotion() {
		return false
	}
	// Diverging pairs never collide this step.
	if diverging || relVel.IsZero() {
		return false
	}

	t, ok := timeToContact(sep, relVel, ctx.ContactRange)
	if !ok || t > dt {
		return false
	}

	// Predicted contact within the step while currently separated: defer.
	// The accepted integration will create the penetration the next scan
	// resolves at the exact backed-off impact position.
	return false
}

// timeToContact solves |sep + relVel·t| = contact for the earliest t ≥ 0.
func timeToContact(sep, relVel Vec3, contact float64) (float64, bool) {
	a := relVel.MagnitudeSquared()
	if a == 0 {
		return 0, false
	}
	b := 2 * sep.Dot(relVel)
	c := sep.MagnitudeSquared() - contact*contact
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	if t < 0 {
		return 0, false
	}
	return t, true
}

// rewindToContact solves |sep - relVel·t| = contact for the smallest t ≥ 0,
// the time elapsed since a penetrating pair's surfaces first touched. With
// the pair inside each other (c < 0) the quadratic has one root on each side
// of zero; the positive one is the rewind.
func rewindToContact(sep, relVel Vec3, contact float64) (float64, bool) {
	a := relVel.MagnitudeSquared()
	if a == 0 {
		return 0, false
	}
	b := 2 * sep.Dot(relVel)
	c := sep.MagnitudeSquared() - contact*contact
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	t := (b + math.Sqrt(disc)) / (2 * a)
	if t < 0 {
		return 0, false
	}
	return t, true
}

// SeparateAtImpact backs an interpenetrating pair off along their relative
// motion to the moment the surfaces touched, so the impulse is applied at
// the true contact geometry. Each ball rewinds along its own velocity, so a
// stationary object ball stays put. When the overlap was not created by this
// step's motion (a spawned overlap), the balls are pushed apart along the
// center axis instead.
func SeparateAtImpact(a, b *Ball) {
	ctx := a.Ctx
	sep := b.Pos.Minus(a.Pos)
	relVel := b.Vel.Minus(a.Vel)

	t, ok := rewindToContact(sep, relVel, ctx.ContactRange)
	if ok && t <= FixedDt {
		a.Pos = a.Pos.Minus(a.Vel.Times(t))
		b.Pos = b.Pos.Minus(b.Vel.Times(t))
		a.round()
		b.round()
		return
	}

	dist := sep.Magnitude()
	if dist == 0 {
		sep = Vec3{X: ctx.ContactRange}
		dist = ctx.ContactRange
	}
	push := sep.Normalize().Times((ctx.ContactRange - dist) / 2)
	a.Pos = a.Pos.Minus(push)
	b.Pos = b.Pos.Plus(push)
	a.round()
	b.round()
}

// Collide exchanges normal momentum between two balls of equal mass with the
// context restitution, transfers spin per the contact geometry, and returns
// the incident speed for the outcome log.
func Collide(a, b *Ball) float64 {
	ctx := a.Ctx
	n := b.Pos.Minus(a.Pos).Normalize()

	relNormalSpeed := a.Vel.Minus(b.Vel).Dot(n)
	incident := math.Abs(relNormalSpeed)

	// Equal-mass impulse along the contact normal, damped by restitution.
	j := (1 + ctx.BallRestitution) / 2 * relNormalSpeed
	a.Vel = a.Vel.Minus(n.Times(j))
	b.Vel = b.Vel.Plus(n.Times(j))

	// Contact friction drags a fraction of vertical spin onto the struck
	// ball, opposed on the striker.
	if math.Abs(b.RVel.Z) < math.Abs(a.RVel.Z) {
		transfer := fround(0.5 * a.RVel.Z)
		b.RVel.Z = fround(b.RVel.Z - transfer)
		a.RVel.Z = fround(a.RVel.Z - transfer)
	}

	wake(a)
	wake(b)
	a.round()
	b.round()
	return fround(incident)
}

// wake puts a ball that gained velocity from a contact back into the motion
// state machine.
func wake(b *Ball) {
	if !b.OnTable() {
		return
	}
	if b.Vel.IsZero() && b.RVel.IsZero() {
		b.State = StateStationary
		return
	}
	if b.State == StateStationary || b.State == StateRolling {
		b.State = StateSliding
	}
}

// Penetration returns how deeply two ball surfaces overlap, zero when apart.
func Penetration(a, b *Ball) float64 {
	d := b.Pos.Minus(a.Pos).Magnitude()
	if d >= a.Ctx.ContactRange {
		return 0
	}
	return fround(a.Ctx.ContactRange - d)
}
