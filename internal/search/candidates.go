package search

import (
	"math"
	"sort"

	"github.com/osmane/billiards-sub001/internal/physics"
)

// Config bounds the candidate grid and the evaluation policy.
type Config struct {
	AngleCount     int     `json:"angle_count"`     // uniform fallback angles over 2π
	PowerMin       float64 `json:"power_min"`       // m/s
	PowerMax       float64 `json:"power_max"`       // m/s
	PowerSteps     int     `json:"power_steps"`
	MaxElevation   float64 `json:"max_elevation"`   // radians
	ElevationSteps int     `json:"elevation_steps"` // 1 = flat cue only
	OffsetSamples  int     `json:"offset_samples"`
	LegalHitRadius float64 `json:"legal_hit_radius"` // max offset magnitude before miscue
	StrictKiss     bool    `json:"strict_kiss"`      // never fall back to kiss-tolerant successes
	SimCap         float64 `json:"sim_cap"`          // seconds of simulated time per candidate
	EarlyExitScore float64 `json:"early_exit_score"`
}

// DefaultConfig is the three-cushion search the NPC player runs.
func DefaultConfig() Config {
	return Config{
		AngleCount:     36,
		PowerMin:       1.5,
		PowerMax:       4.5,
		PowerSteps:     3,
		MaxElevation:   0.35,
		ElevationSteps: 2,
		OffsetSamples:  9,
		LegalHitRadius: 0.55,
		SimCap:         12.0,
		EarlyExitScore: 0.8,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.AngleCount <= 0 {
		c.AngleCount = d.AngleCount
	}
	if c.PowerMax <= 0 {
		c.PowerMin, c.PowerMax = d.PowerMin, d.PowerMax
	}
	if c.PowerSteps <= 0 {
		c.PowerSteps = d.PowerSteps
	}
	if c.ElevationSteps <= 0 {
		c.ElevationSteps = d.ElevationSteps
	}
	if c.OffsetSamples <= 0 {
		c.OffsetSamples = d.OffsetSamples
	}
	if c.LegalHitRadius <= 0 {
		c.LegalHitRadius = d.LegalHitRadius
	}
	if c.SimCap <= 0 {
		c.SimCap = d.SimCap
	}
	if c.EarlyExitScore <= 0 {
		c.EarlyExitScore = d.EarlyExitScore
	}
	return c
}

// Candidate is one evaluated shot. It is also the wire shape of the worker
// protocol result.
type Candidate struct {
	Angle     float64 `json:"angle"`
	OffsetX   float64 `json:"offset_x"`
	OffsetY   float64 `json:"offset_y"`
	Elevation float64 `json:"elevation"`
	Power     float64 `json:"power"`

	Score   float64 `json:"score"`
	Success bool    `json:"success"`
	HadKiss bool    `json:"had_kiss,omitempty"`
}

// angleDedupeTolerance collapses near-identical aim angles from different
// contact-fraction derivations.
const angleDedupeTolerance = 1e-3

// goldenAngle drives the equal-area polar offset pattern.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// candidateAngles builds the aim-angle set: contact-fraction angles toward
// the first two reachable object balls, biased toward thin and half-ball
// hits, plus a uniform fallback sweep. Angles are deduplicated within
// tolerance and returned in a deterministic order.
func candidateAngles(snap physics.TableSnapshot, cfg Config) []float64 {
	var cue *physics.BallSnapshot
	for i := range snap.Balls {
		if snap.Balls[i].ID == snap.CueBallID {
			cue = &snap.Balls[i]
			break
		}
	}
	if cue == nil && len(snap.Balls) > 0 {
		cue = &snap.Balls[0]
	}

	ctx := physics.ContextWith(snap.Mode, snap.Overrides)

	var angles []float64
	if cue != nil {
		type objDist struct {
			pos  physics.Vec3
			dist float64
		}
		var objects []objDist
		for _, bs := range snap.Balls {
			if bs.ID == cue.ID || bs.State == physics.StateInPocket {
				continue
			}
			objects = append(objects, objDist{pos: bs.Pos, dist: bs.Pos.Minus(cue.Pos).Magnitude()})
		}
		sort.Slice(objects, func(i, j int) bool { return objects[i].dist < objects[j].dist })
		if len(objects) > 2 {
			objects = objects[:2]
		}

		// Contact fractions: full, half-ball and thin hits on each side.
		fractions := []float64{0, 0.5, -0.5, 0.85, -0.85}
		for _, o := range objects {
			if o.dist <= ctx.ContactRange {
				continue
			}
			center := math.Atan2(o.pos.Y-cue.Pos.Y, o.pos.X-cue.Pos.X)
			for _, f := range fractions {
				cut := math.Asin(ctx.ContactRange * f / o.dist)
				angles = append(angles, normAngle(center+cut))
			}
		}
	}

	// Uniform fallback sweep.
	for i := 0; i < cfg.AngleCount; i++ {
		angles = append(angles, normAngle(2*math.Pi*float64(i)/float64(cfg.AngleCount)))
	}

	return dedupeAngles(angles)
}

func normAngle(a float64) float64 {
	for a < 0 {
		a += 2 * math.Pi
	}
	for a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

func dedupeAngles(angles []float64) []float64 {
	sort.Float64s(angles)
	out := angles[:0]
	for _, a := range angles {
		if len(out) == 0 || a-out[len(out)-1] > angleDedupeTolerance {
			out = append(out, a)
		}
	}
	return out
}

// candidateOffsets samples the legal hit area on the ball face with a
// golden-angle equal-area polar pattern. The radius bound mirrors the
// aiming view's miscue exclusion zone.
func candidateOffsets(cfg Config) [][2]float64 {
	out := make([][2]float64, 0, cfg.OffsetSamples)
	for i := 0; i < cfg.OffsetSamples; i++ {
		r := cfg.LegalHitRadius * math.Sqrt((float64(i)+0.5)/float64(cfg.OffsetSamples))
		theta := float64(i) * goldenAngle
		out = append(out, [2]float64{r * math.Cos(theta), r * math.Sin(theta)})
	}
	return out
}

// Candidates expands the full deterministic candidate grid for a snapshot.
// The order is stable across invocations, which is what makes slice
// parallelism (index mod sliceCount) and idempotent search results work.
func Candidates(snap physics.TableSnapshot, cfg Config) []Candidate {
	cfg = cfg.withDefaults()

	angles := candidateAngles(snap, cfg)
	offsets := candidateOffsets(cfg)

	var powers []float64
	if cfg.PowerSteps == 1 {
		powers = []float64{cfg.PowerMax}
	} else {
		for i := 0; i < cfg.PowerSteps; i++ {
			p := cfg.PowerMin + (cfg.PowerMax-cfg.PowerMin)*float64(i)/float64(cfg.PowerSteps-1)
			powers = append(powers, p)
		}
	}

	var elevations []float64
	if cfg.ElevationSteps == 1 {
		elevations = []float64{0}
	} else {
		for i := 0; i < cfg.ElevationSteps; i++ {
			elevations = append(elevations, cfg.MaxElevation*float64(i)/float64(cfg.ElevationSteps-1))
		}
	}

	out := make([]Candidate, 0, len(angles)*len(offsets)*len(powers)*len(elevations))
	for _, a := range angles {
		for _, off := range offsets {
			for _, e := range elevations {
				for _, p := range powers {
					out = append(out, Candidate{
						Angle:     a,
						OffsetX:   off[0],
						OffsetY:   off[1],
						Elevation: e,
						Power:     p,
					})
				}
			}
		}
	}
	return out
}
