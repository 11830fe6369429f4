package physics

import "math"

// BallState is the discrete motion state of a ball. Transitions within a shot
// are monotone: Sliding → Rolling → Stationary, with Falling/InPocket as the
// terminal pocket branch.
type BallState string

const (
	StateStationary BallState = "stationary"
	StateSliding    BallState = "sliding"
	StateRolling    BallState = "rolling"
	StateFalling    BallState = "falling"
	StateInPocket   BallState = "inpocket"
)

// Ball is the per-ball kinematic state. IDs are assigned at creation and
// never reused. A ball is never destroyed mid-game, only flagged InPocket.
//
// Invariant: State == StateStationary implies Vel and RVel are both zero.
type Ball struct {
	ID    int       `json:"id"`
	Pos   Vec3      `json:"pos"`  // z == R resting on cloth, > R airborne
	Vel   Vec3      `json:"vel"`  // linear velocity (m/s)
	RVel  Vec3      `json:"rvel"` // angular velocity (rad/s)
	State BallState `json:"state"`

	Ctx *PhysicsContext `json:"-"`

	// MagnusEnabled gates the spin-induced lateral force; it is set on an
	// elevated strike and on airborne flight.
	MagnusEnabled bool `json:"magnus_enabled,omitempty"`
	// ShotElevation is the cue elevation the ball was last struck with.
	ShotElevation float64 `json:"shot_elevation,omitempty"`
	// InitialSpeed records the speed imparted by the last strike (telemetry).
	InitialSpeed float64 `json:"initial_speed,omitempty"`
}

// NewBall creates a resting ball at the given cloth position.
func NewBall(id int, x, y float64, ctx *PhysicsContext) *Ball {
	return &Ball{
		ID:    id,
		Pos:   NewVec3(x, y, ctx.R),
		State: StateStationary,
		Ctx:   ctx,
	}
}

// OnTable reports whether the ball still participates in play.
func (b *Ball) OnTable() bool {
	return b.State != StateInPocket
}

// InMotion reports whether the ball needs stepping.
func (b *Ball) InMotion() bool {
	switch b.State {
	case StateSliding, StateRolling, StateFalling:
		return true
	}
	return false
}

// Airborne reports whether the ball has left the cloth.
func (b *Ball) Airborne() bool {
	return b.Pos.Z > b.Ctx.R+1e-9 && b.State != StateFalling && b.State != StateInPocket
}

// slipVelocity is the velocity of the cloth contact point: the residual
// between translation and rolling rotation. Zero slip means pure rolling.
func (b *Ball) slipVelocity() Vec3 {
	r := b.Ctx.R
	return Vec3{
		X: fround(b.Vel.X - r*b.RVel.Y),
		Y: fround(b.Vel.Y + r*b.RVel.X),
	}
}

// Step integrates the ball forward by dt. Collision and boundary response
// happen in Table.Advance before any ball is stepped; Step itself only
// applies free motion, friction, spin decay and the Magnus force.
func (b *Ball) Step(dt float64) {
	switch b.State {
	case StateStationary, StateInPocket:
		return
	case StateFalling:
		b.stepFalling(dt)
		return
	}

	if b.Airborne() {
		b.stepAirborne(dt)
		return
	}

	// Magnus lateral force for elevated strikes, before friction so the
	// curve decays together with the spin driving it.
	if b.MagnusEnabled && math.Abs(b.ShotElevation) > magnusElevationThreshold {
		magnus := b.RVel.Cross(b.Vel).Times(b.Ctx.MagnusCoefficient * dt)
		b.Vel = b.Vel.Plus(magnus.Flat())
	}

	slip := b.slipVelocity()
	if b.State == StateSliding && slip.FlatMagnitude() > b.Ctx.RollingTransition {
		b.stepSliding(dt, slip)
	} else {
		if b.State == StateSliding {
			b.beginRolling()
		}
		b.stepRolling(dt)
	}

	b.translate(dt)
	b.decayVerticalSpin(dt)
	b.settle()
	b.round()
}

// stepSliding applies sliding friction along the slip direction. Friction
// decelerates translation and torques the ball toward pure rolling; slip
// magnitude decays at 7/2·μs·g.
func (b *Ball) stepSliding(dt float64, slip Vec3) {
	dir := slip.Normalize()
	decel := b.Ctx.MuS * b.Ctx.G

	b.Vel = b.Vel.Minus(dir.Times(decel * dt))

	// Contact torque: dω = 5·μs·g/(2R) · (-ŝy, ŝx).
	spinRate := 5 * decel / (2 * b.Ctx.R)
	b.RVel = b.RVel.Plus(Vec3{
		X: fround(-dir.Y * spinRate * dt),
		Y: fround(dir.X * spinRate * dt),
	})
}

// beginRolling snaps the angular velocity onto the rolling constraint,
// keeping the vertical spin component.
func (b *Ball) beginRolling() {
	b.State = StateRolling
	r := b.Ctx.R
	b.RVel = Vec3{
		X: fround(-b.Vel.Y / r),
		Y: fround(b.Vel.X / r),
		Z: b.RVel.Z,
	}
}

// stepRolling applies rolling friction opposite travel and keeps the angular
// velocity locked to the rolling constraint.
func (b *Ball) stepRolling(dt float64) {
	speed := b.Vel.FlatMagnitude()
	if speed == 0 {
		return
	}
	decel := b.Ctx.Mu * b.Ctx.G * dt
	if decel >= speed {
		b.Vel = Vec3{}
	} else {
		b.Vel = b.Vel.Times((speed - decel) / speed)
	}
	r := b.Ctx.R
	b.RVel = Vec3{
		X: fround(-b.Vel.Y / r),
		Y: fround(b.Vel.X / r),
		Z: b.RVel.Z,
	}
}

func (b *Ball) stepAirborne(dt float64) {
	b.MagnusEnabled = true
	if math.Abs(b.ShotElevation) > magnusElevationThreshold {
		magnus := b.RVel.Cross(b.Vel).Times(b.Ctx.MagnusCoefficient * dt)
		b.Vel = b.Vel.Plus(magnus)
	}
	b.Vel.Z = fround(b.Vel.Z - b.Ctx.G*dt)
	b.translate(dt)
	if b.Pos.Z <= b.Ctx.R {
		// Landed. Vertical energy is absorbed by the cloth.
		b.Pos.Z = b.Ctx.R
		b.Vel.Z = 0
		b.State = StateSliding
	}
	b.round()
}

// stepFalling drops a captured ball below the slate, then parks it.
func (b *Ball) stepFalling(dt float64) {
	b.Vel.Z = fround(b.Vel.Z - b.Ctx.G*dt)
	b.Vel = b.Vel.Times(0.9) // pocket liner drag
	b.translate(dt)
	if b.Pos.Z < -2*b.Ctx.R {
		b.State = StateInPocket
		b.Vel = Vec3{}
		b.RVel = Vec3{}
	}
	b.round()
}

func (b *Ball) translate(dt float64) {
	b.Pos = b.Pos.Plus(b.Vel.Times(dt))
}

func (b *Ball) decayVerticalSpin(dt float64) {
	b.RVel.Z = fround(b.RVel.Z * math.Exp(-b.Ctx.Rho*dt))
	if math.Abs(b.RVel.Z) < b.Ctx.SpinStopThreshold {
		b.RVel.Z = 0
	}
}

// settle forces Stationary once translation drops below the stop threshold,
// zeroing residual spin to uphold the Stationary invariant.
func (b *Ball) settle() {
	if b.State != StateSliding && b.State != StateRolling {
		return
	}
	if b.Vel.FlatMagnitude() < b.Ctx.SpinStopThreshold && math.Abs(b.Vel.Z) < b.Ctx.SpinStopThreshold {
		b.Vel = Vec3{}
		b.RVel = Vec3{}
		b.State = StateStationary
	}
}

func (b *Ball) round() {
	b.Pos = NewVec3(b.Pos.X, b.Pos.Y, b.Pos.Z)
	b.Vel = NewVec3(b.Vel.X, b.Vel.Y, b.Vel.Z)
	b.RVel = NewVec3(b.RVel.X, b.RVel.Y, b.RVel.Z)
}

// FuturePosition is where free motion would put the ball after dt.
func (b *Ball) FuturePosition(dt float64) Vec3 {
	return b.Pos.Plus(b.Vel.Times(dt))
}

// Strike sets the post-cue state: Sliding, with velocity and spin assigned
// by the shot pose. Records telemetry and Magnus gating.
func (b *Ball) Strike(vel, rvel Vec3, elevation float64) {
	b.State = StateSliding
	b.Vel = vel
	b.RVel = rvel
	b.ShotElevation = elevation
	b.MagnusEnabled = math.Abs(elevation) > magnusElevationThreshold
	b.InitialSpeed = vel.Magnitude()
	b.round()
}

// Clone returns an independent copy sharing the interned context.
func (b *Ball) Clone() *Ball {
	c := *b
	return &c
}
