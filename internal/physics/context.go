package physics

import "math"

// PhysicsContext is the immutable bag of coefficients a ball simulates under.
// Balls of the same game mode share one interned context; a context is never
// mutated while a shot is resolving. There is no ambient global state — every
// ball and table receives its context at construction.
type PhysicsContext struct {
	R   float64 `json:"R"`   // ball radius (m)
	M   float64 `json:"m"`   // ball mass (kg)
	Mu  float64 `json:"mu"`  // rolling friction coefficient
	MuS float64 `json:"muS"` // sliding friction coefficient
	Rho float64 `json:"rho"` // vertical spin decay rate (1/s)
	G   float64 `json:"g"`   // gravity (m/s²)

	BallRestitution    float64 `json:"ballRestitution"`
	CushionRestitution float64 `json:"cushionRestitution"`
	MagnusCoefficient  float64 `json:"magnusCoefficient"`

	SpinStopThreshold        float64 `json:"spinStopThreshold"`        // speed below which a ball stops dead
	RollingTransition        float64 `json:"rollingTransition"`        // slip speed below which sliding becomes rolling
	CollisionSeparationBias  float64 `json:"collisionSeparationBias"`  // fraction of penetration recovered per emergency push
	MinSeparationSpeed       float64 `json:"minSeparationSpeed"`       // floor speed imparted by emergency separation
	CollisionVelocityEpsilon float64 `json:"collisionVelocityEpsilon"` // penetration tolerance before a contact resolves

	// Derived quantities, refreshed by Refresh.
	RSquared     float64 `json:"-"`
	ContactRange float64 `json:"-"` // 2R, sphere contact distance
}

// Refresh recomputes the derived quantities after any field assignment.
// Call it once before the context is shared; contexts are immutable afterwards.
func (pc *PhysicsContext) Refresh() {
	pc.RSquared = pc.R * pc.R
	pc.ContactRange = 2 * pc.R
}

// defaultContext is the baseline every mode derives from. Unset fields in a
// mode override fall back to these values.
func defaultContext() PhysicsContext {
	pc := PhysicsContext{
		R:                        0.03275,
		M:                        0.23,
		Mu:                       0.015,
		MuS:                      0.2,
		Rho:                      0.9,
		G:                        9.81,
		BallRestitution:          0.94,
		CushionRestitution:       0.8,
		MagnusCoefficient:        0.012,
		SpinStopThreshold:        0.02,
		RollingTransition:        0.01,
		CollisionSeparationBias:  0.5,
		MinSeparationSpeed:       0.025,
		CollisionVelocityEpsilon: 0.001,
	}
	pc.Refresh()
	return pc
}

// contextRegistry maps game-mode names to their default contexts.
// Built once at package init; lookups return shared interned values.
var contextRegistry = buildRegistry()

func buildRegistry() map[string]*PhysicsContext {
	reg := make(map[string]*PhysicsContext)

	pool := defaultContext()
	pool.R = 0.028575
	pool.M = 0.17
	pool.Refresh()
	reg["pool"] = &pool

	snooker := defaultContext()
	snooker.R = 0.02625
	snooker.M = 0.142
	snooker.Mu = 0.02
	snooker.Refresh()
	reg["snooker"] = &snooker

	carom := defaultContext()
	carom.R = 0.0305
	carom.M = 0.21
	carom.Mu = 0.012
	carom.Refresh()
	reg["carom"] = &carom
	reg["threecushion"] = &carom

	base := defaultContext()
	reg["default"] = &base

	return reg
}

// ContextFor returns the shared context for a game mode, falling back to the
// default context for unrecognized names.
func ContextFor(mode string) *PhysicsContext {
	if pc, ok := contextRegistry[mode]; ok {
		return pc
	}
	return contextRegistry["default"]
}

// ContextOverrides holds optional per-field overrides sourced from config or
// a serialized snapshot. Zero-valued fields keep the mode default.
type ContextOverrides struct {
	R                        float64 `json:"R,omitempty"`
	M                        float64 `json:"m,omitempty"`
	Mu                       float64 `json:"mu,omitempty"`
	MuS                      float64 `json:"muS,omitempty"`
	Rho                      float64 `json:"rho,omitempty"`
	SpinStopThreshold        float64 `json:"spinStopThreshold,omitempty"`
	RollingTransition        float64 `json:"rollingTransition,omitempty"`
	CollisionSeparationBias  float64 `json:"collisionSeparationBias,omitempty"`
	MinSeparationSpeed       float64 `json:"minSeparationSpeed,omitempty"`
	CollisionVelocityEpsilon float64 `json:"collisionVelocityEpsilon,omitempty"`
}

// ContextWith builds a context for a mode with overrides applied. The result
// is a fresh value; registry defaults are never mutated.
func ContextWith(mode string, ov ContextOverrides) *PhysicsContext {
	pc := *ContextFor(mode)
	if ov.R > 0 {
		pc.R = ov.R
	}
	if ov.M > 0 {
		pc.M = ov.M
	}
	if ov.Mu > 0 {
		pc.Mu = ov.Mu
	}
	if ov.MuS > 0 {
		pc.MuS = ov.MuS
	}
	if ov.Rho > 0 {
		pc.Rho = ov.Rho
	}
	if ov.SpinStopThreshold > 0 {
		pc.SpinStopThreshold = ov.SpinStopThreshold
	}
	if ov.RollingTransition > 0 {
		pc.RollingTransition = ov.RollingTransition
	}
	if ov.CollisionSeparationBias > 0 {
		pc.CollisionSeparationBias = ov.CollisionSeparationBias
	}
	if ov.MinSeparationSpeed > 0 {
		pc.MinSeparationSpeed = ov.MinSeparationSpeed
	}
	if ov.CollisionVelocityEpsilon > 0 {
		pc.CollisionVelocityEpsilon = ov.CollisionVelocityEpsilon
	}
	pc.Refresh()
	return &pc
}

// FixedDt is the engine timestep. A power of two keeps the fround rounding
// of accumulated time exact across long simulations.
const FixedDt = 1.0 / 256.0

// Retry thresholds for Table.Advance. Past the soft limit an emergency
// separation pass runs; past the hard limit the step is unresolvable.
const (
	SoftRetryLimit = 80
	HardRetryLimit = 100
)

// MaxPower is the highest cue speed (m/s) a shot may impart.
const MaxPower = 6.0

// magnusElevationThreshold is the cue elevation (rad) above which the Magnus
// force applies to an enabled ball.
const magnusElevationThreshold = 0.2

// sin/cos helpers kept here so callers share one rounding path.
func froundSinCos(rad float64) (sin, cos float64) {
	return fround(math.Sin(rad)), fround(math.Cos(rad))
}
