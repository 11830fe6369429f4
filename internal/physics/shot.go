package physics

import "math"

// Aim is the cue state carried by a table: horizontal angle, tip offset on
// the ball face in [-1,1]², strike power and cue elevation.
type Aim struct {
	Angle     float64 `json:"angle"`     // radians in the cloth plane
	OffsetX   float64 `json:"offset_x"`  // side offset, -1..1
	OffsetY   float64 `json:"offset_y"`  // height offset, -1..1
	Power     float64 `json:"power"`     // m/s imparted at center hit
	Elevation float64 `json:"elevation"` // radians, cue butt raised
	I         int     `json:"i"`         // UI cycling index, carried opaquely
}

// ShotPose is the resolved strike: a unit cue direction, the world-space
// contact point on the ball surface, elevation and power. It is computed
// once per shot and consumed immediately; it has no lifecycle beyond that.
type ShotPose struct {
	Direction Vec3 // unit vector the cue drives the ball along
	Contact   Vec3 // world-space contact point on the ball surface
	Elevation float64
	Power     float64
}

// OffsetToContactDirection maps the aim offsets to a unit vector from the
// ball center toward the cue-tip contact point. The offsets are arcsine
// angular deflections off the base cue axis rather than linear displacements,
// so the contact point stays on the sphere at any offset magnitude.
//
// This single mapping is shared by shot application, the trajectory
// predictor and the best-shot search; the aiming view uses the same math,
// which is what keeps preview, AI and real shots in parity.
func OffsetToContactDirection(offsetX, offsetY float64, baseAxis Vec3) Vec3 {
	ox := clamp(offsetX, -1, 1)
	oy := clamp(offsetY, -1, 1)

	axis := baseAxis.Normalize()
	right := axis.Cross(up).Normalize()
	if right.IsZero() {
		right = Vec3{X: 1}
	}
	vert := right.Cross(axis).Normalize()

	// sin(asin(o)) == o: the offsets are direction cosines along the side
	// and vertical frame axes, with the remainder along the cue axis.
	depth := math.Sqrt(math.Max(0, 1-ox*ox-oy*oy))
	return axis.Times(depth).Plus(right.Times(ox)).Plus(vert.Times(oy)).Normalize()
}

// CueToSpin is the one cue-to-spin transform. Spin is always derived from
// (contact point, ball center, resulting velocity) through this function and
// never assigned ad hoc, so preview and real shots can never drift apart.
//
// The impulse J = m·v applied at contact offset r gives Δω = (r × J)/I with
// I = 2/5·m·R²; a center hit has r parallel to v and produces zero spin.
func CueToSpin(contact, center, vel Vec3, ctx *PhysicsContext) Vec3 {
	r := contact.Minus(center)
	return r.Cross(vel).Times(5 / (2 * ctx.RSquared))
}

// PoseFromAim resolves an aim into the strike pose for the given ball. The
// cue direction is the horizontal aim angle rotated up by the elevation; the
// contact point comes from the shared offset mapping on the axis opposing
// the cue direction.
func PoseFromAim(aim Aim, ball *Ball) ShotPose {
	sinE, cosE := froundSinCos(aim.Elevation)
	sinA, cosA := froundSinCos(aim.Angle)

	dir := NewVec3(cosA*cosE, sinA*cosE, 0)

	// The cue approaches from behind the ball: the contact axis opposes
	// the travel direction.
	contactDir := OffsetToContactDirection(aim.OffsetX, aim.OffsetY, dir.Invert())
	contact := ball.Pos.Plus(contactDir.Times(ball.Ctx.R))

	// Elevation redirects part of the impulse vertically. The directional
	// gain flips with contact height: striking below center with an
	// elevated cue lofts the ball, striking above pins it to the cloth.
	verticalGain := 0.3
	if aim.OffsetY > 0 {
		verticalGain = 0.1
	}
	dir = NewVec3(dir.X, dir.Y, sinE*verticalGain).Normalize()

	return ShotPose{
		Direction: dir,
		Contact:   contact,
		Elevation: aim.Elevation,
		Power:     clamp(aim.Power, 0, MaxPower),
	}
}

// ApplyPose strikes the ball: Sliding state, velocity along the effective
// direction attenuated by elevation, spin from the cue-to-spin transform.
func ApplyPose(ball *Ball, pose ShotPose) {
	_, cosE := froundSinCos(pose.Elevation)
	speed := fround(pose.Power * (1 - 0.3*(1-cosE)))

	vel := pose.Direction.Times(speed)
	rvel := CueToSpin(pose.Contact, ball.Pos, vel, ball.Ctx)
	ball.Strike(vel, rvel, pose.Elevation)
}
