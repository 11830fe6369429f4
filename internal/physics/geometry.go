package physics

// Pocket is a capture region at the table edge.
type Pocket struct {
	ID     int     `json:"id"`
	Pos    Vec3    `json:"pos"`
	Radius float64 `json:"radius"`
}

// Knuckle is the rounded jaw at a pocket mouth. It deflects like a fixed
// post, distinct in behavior from the straight cushions beside it.
type Knuckle struct {
	Pos    Vec3    `json:"pos"`
	Radius float64 `json:"radius"`
}

// TableGeometry is the fixed boundary of the playable area: an axis-aligned
// rectangle of cushions, plus pockets and knuckles for pocketed game modes.
// Geometry is immutable once built.
type TableGeometry struct {
	HalfWidth  float64   `json:"half_width"`  // cushion face distance from center, x
	HalfHeight float64   `json:"half_height"` // cushion face distance from center, y
	HasPockets bool      `json:"has_pockets"`
	Pockets    []Pocket  `json:"pockets,omitempty"`
	Knuckles   []Knuckle `json:"knuckles,omitempty"`
}

// CaromGeometry is the pocketless three-cushion table: 2.84 m × 1.42 m
// between cushion faces.
func CaromGeometry() *TableGeometry {
	return &TableGeometry{
		HalfWidth:  1.42,
		HalfHeight: 0.71,
	}
}

// PoolGeometry is a 9-foot pocket table with six pockets and two knuckles
// per pocket mouth, sized from the ball radius.
func PoolGeometry(r float64) *TableGeometry {
	hw, hh := 1.27, 0.635
	pr := 2.0 * r  // pocket capture radius
	mouth := 1.6 * pr

	pockets := []Pocket{
		{ID: 0, Pos: NewVec3(-hw, -hh, 0), Radius: pr},
		{ID: 1, Pos: NewVec3(0, -hh-pr/2, 0), Radius: pr},
		{ID: 2, Pos: NewVec3(hw, -hh, 0), Radius: pr},
		{ID: 3, Pos: NewVec3(-hw, hh, 0), Radius: pr},
		{ID: 4, Pos: NewVec3(0, hh+pr/2, 0), Radius: pr},
		{ID: 5, Pos: NewVec3(hw, hh, 0), Radius: pr},
	}

	kr := 0.4 * r
	var knuckles []Knuckle
	for _, p := range pockets {
		if p.Pos.X == 0 {
			// Middle pockets: jaws left and right of the mouth.
			knuckles = append(knuckles,
				Knuckle{Pos: NewVec3(p.Pos.X-mouth, p.Pos.Y/abs(p.Pos.Y)*hh, 0), Radius: kr},
				Knuckle{Pos: NewVec3(p.Pos.X+mouth, p.Pos.Y/abs(p.Pos.Y)*hh, 0), Radius: kr},
			)
			continue
		}
		// Corner pockets: one jaw on each adjoining cushion.
		sx := p.Pos.X / abs(p.Pos.X)
		sy := p.Pos.Y / abs(p.Pos.Y)
		knuckles = append(knuckles,
			Knuckle{Pos: NewVec3(p.Pos.X-sx*mouth, sy*hh, 0), Radius: kr},
			Knuckle{Pos: NewVec3(sx*hw, p.Pos.Y-sy*mouth, 0), Radius: kr},
		)
	}

	return &TableGeometry{
		HalfWidth:  hw,
		HalfHeight: hh,
		HasPockets: true,
		Pockets:    pockets,
		Knuckles:   knuckles,
	}
}

// GeometryFor returns the standard geometry for a game mode.
func GeometryFor(mode string, ctx *PhysicsContext) *TableGeometry {
	switch mode {
	case "carom", "threecushion":
		return CaromGeometry()
	default:
		return PoolGeometry(ctx.R)
	}
}

// nearPocketMouth reports whether a cloth position sits within any pocket's
// mouth span, where the straight cushion is interrupted.
func (g *TableGeometry) nearPocketMouth(p Vec3) bool {
	if !g.HasPockets {
		return false
	}
	for _, pk := range g.Pockets {
		dx := p.X - pk.Pos.X
		dy := p.Y - pk.Pos.Y
		if dx*dx+dy*dy < (1.8*pk.Radius)*(1.8*pk.Radius) {
			return true
		}
	}
	return false
}

func abs(n float64) float64 {
	if n < 0 {
		return -n
	}
	return n
}
