package physics

import "math"

// CushionModel selects how cushion restitution responds to incident speed.
type CushionModel string

const (
	// CushionUniform applies the context restitution at any speed.
	CushionUniform CushionModel = "uniform"
	// CushionSpeedBlend blends restitution down as incident speed rises,
	// matching the duller rebound of a hard-struck rail.
	CushionSpeedBlend CushionModel = "speedblend"
)

// CushionModelFor maps a serialized model identifier onto a known model,
// degrading to the uniform model for unrecognized names.
func CushionModelFor(name string) CushionModel {
	if CushionModel(name) == CushionSpeedBlend {
		return CushionSpeedBlend
	}
	return CushionUniform
}

func (m CushionModel) restitution(ctx *PhysicsContext, incident float64) float64 {
	e := ctx.CushionRestitution
	if m == CushionSpeedBlend {
		// Linear blend: full restitution at rest, 70% of it at max power.
		e = e * (1 - 0.3*clamp(incident/MaxPower, 0, 1))
	}
	return e
}

// boundaryHit describes a resolved boundary event for the outcome log.
type boundaryHit struct {
	kind  OutcomeType
	speed float64
}

// ResolveBoundary tests a ball whose free motion would exit the playable
// rectangle, in priority order: straight cushions, knuckles, pockets.
// At most one applies per ball per step. On a hit the ball's state is
// mutated and the event returned; the caller invalidates the step.
func ResolveBoundary(b *Ball, geom *TableGeometry, model CushionModel, dt float64) (boundaryHit, bool) {
	if !b.OnTable() || b.State == StateFalling || !b.InMotion() {
		return boundaryHit{}, false
	}

	future := b.FuturePosition(dt)

	if hit, ok := bounceAnyCushion(b, geom, model, future); ok {
		return hit, true
	}
	if hit, ok := bounceKnuckle(b, geom, model, future); ok {
		return hit, true
	}
	if hit, ok := capturePocket(b, geom, future); ok {
		return hit, true
	}
	return boundaryHit{}, false
}

// bounceAnyCushion reflects the ball off whichever straight cushion its
// future position crosses, unless that crossing happens inside a pocket
// mouth where the cushion is interrupted.
func bounceAnyCushion(b *Ball, geom *TableGeometry, model CushionModel, future Vec3) (boundaryHit, bool) {
	r := b.Ctx.R
	limX := geom.HalfWidth - r
	limY := geom.HalfHeight - r

	var normal Vec3
	switch {
	case future.X > limX && b.Vel.X > 0:
		normal = Vec3{X: -1}
	case future.X < -limX && b.Vel.X < 0:
		normal = Vec3{X: 1}
	case future.Y > limY && b.Vel.Y > 0:
		normal = Vec3{Y: -1}
	case future.Y < -limY && b.Vel.Y < 0:
		normal = Vec3{Y: 1}
	default:
		return boundaryHit{}, false
	}

	if geom.nearPocketMouth(future) {
		return boundaryHit{}, false
	}

	incident := math.Abs(b.Vel.Dot(normal))
	e := model.restitution(b.Ctx, incident)

	reflectOffNormal(b, normal, e)

	// Clamp back inside the rail face.
	b.Pos = NewVec3(clamp(b.Pos.X, -limX, limX), clamp(b.Pos.Y, -limY, limY), b.Pos.Z)
	b.round()

	return boundaryHit{kind: OutcomeCushion, speed: fround(incident)}, true
}

// bounceKnuckle deflects the ball off a pocket jaw. Geometrically this is a
// bounce off a fixed post: the normal runs from the knuckle center to the
// ball, so glancing contacts deflect rather than mirror.
func bounceKnuckle(b *Ball, geom *TableGeometry, model CushionModel, future Vec3) (boundaryHit, bool) {
	r := b.Ctx.R
	for i := range geom.Knuckles {
		k := &geom.Knuckles[i]
		sep := future.Flat().Minus(k.Pos.Flat())
		reach := r + k.Radius
		if sep.MagnitudeSquared() >= reach*reach {
			continue
		}
		normal := b.Pos.Flat().Minus(k.Pos.Flat()).Normalize()
		if normal.IsZero() || b.Vel.Dot(normal) >= 0 {
			continue
		}

		incident := math.Abs(b.Vel.Dot(normal))
		e := model.restitution(b.Ctx, incident)
		reflectOffNormal(b, normal, e)

		// Push the ball clear of the post.
		b.Pos = NewVec3(k.Pos.X+normal.X*reach, k.Pos.Y+normal.Y*reach, b.Pos.Z)
		b.round()

		return boundaryHit{kind: OutcomeCushion, speed: fround(incident)}, true
	}
	return boundaryHit{}, false
}

// capturePocket drops the ball once its center passes inside a pocket's
// capture radius. The ball keeps its fall speed for the outcome record and
// transitions to Falling; it is off the table from this point on.
func capturePocket(b *Ball, geom *TableGeometry, future Vec3) (boundaryHit, bool) {
	if !geom.HasPockets {
		return boundaryHit{}, false
	}
	for i := range geom.Pockets {
		p := &geom.Pockets[i]
		sep := future.Flat().Minus(p.Pos.Flat())
		if sep.MagnitudeSquared() >= p.Radius*p.Radius {
			continue
		}
		fallSpeed := b.Vel.Magnitude()
		b.State = StateFalling
		b.Pos = NewVec3(p.Pos.X, p.Pos.Y, b.Pos.Z)
		b.Vel = Vec3{Z: fround(-0.5 * fallSpeed)}
		b.RVel = Vec3{}
		return boundaryHit{kind: OutcomePot, speed: fround(fallSpeed)}, true
	}
	return boundaryHit{}, false
}

// reflectOffNormal reverses the normal velocity component with restitution e
// and applies the vertical-spin english to the tangential component, the way
// side spin throws a ball coming off a rail.
func reflectOffNormal(b *Ball, normal Vec3, e float64) {
	vn := normal.Times(b.Vel.Dot(normal))
	vt := b.Vel.Minus(vn)

	if b.RVel.Z != 0 {
		tangent := normal.Cross(up)
		english := tangent.Times(0.12 * b.RVel.Z * b.Ctx.R)
		vt = vt.Plus(english)
		b.RVel.Z = fround(0.7 * b.RVel.Z)
	}

	b.Vel = vt.Minus(vn.Times(e))

	// Rail contact breaks the rolling constraint.
	if b.State == StateRolling {
		b.State = StateSliding
	}
	b.round()
}
