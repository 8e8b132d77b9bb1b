package sim

// fieldMargin is the inset between the canvas edge and the playable boundary.
const fieldMargin = 20.0

// zoneGap separates each half's zone from the centre line.
const zoneGap = 10.0

// spawnInset is how far above the raider-zone floor the raider spawns.
const spawnInset = 30.0

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Clamp returns p moved to the nearest point inside r.
func (r Rect) Clamp(p Position) Position {
	return Position{X: clamp(p.X, r.X, r.Right()), Y: clamp(p.Y, r.Y, r.Bottom())}
}

// Bounds is the outer playable box.
type Bounds struct {
	Top, Bottom, Left, Right float64
}

// Contains reports whether p lies inside the box (edges inclusive).
func (b Bounds) Contains(p Position) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Top && p.Y <= b.Bottom
}

// Clamp returns p moved to the nearest point inside the box.
func (b Bounds) Clamp(p Position) Position {
	return Position{X: clamp(p.X, b.Left, b.Right), Y: clamp(p.Y, b.Top, b.Bottom)}
}

// Inset shrinks the box by d on every side.
func (b Bounds) Inset(d float64) Bounds {
	return Bounds{Top: b.Top + d, Bottom: b.Bottom - d, Left: b.Left + d, Right: b.Right - d}
}

// GameField is the static pitch geometry derived from a GameConfig.
//
// Defender territory is y < CenterLine (top half), raider territory is
// y > CenterLine (bottom half).
type GameField struct {
	CenterLine    float64
	BoundaryLines Bounds
	RaiderZone    Rect
	DefenderZone  Rect
}

// InDefenderTerritory reports whether p is past the centre line on the defenders' side.
func (f GameField) InDefenderTerritory(p Position) bool {
	return p.Y < f.CenterLine
}

// CreateGameField derives the pitch geometry from cfg.
func CreateGameField(cfg GameConfig) GameField {
	center := cfg.CanvasHeight / 2
	half := cfg.PitchHeight/2 - zoneGap
	return GameField{
		CenterLine: center,
		BoundaryLines: Bounds{
			Top:    fieldMargin,
			Bottom: cfg.CanvasHeight - fieldMargin,
			Left:   fieldMargin,
			Right:  cfg.CanvasWidth - fieldMargin,
		},
		DefenderZone: Rect{X: fieldMargin, Y: fieldMargin, W: cfg.PitchWidth, H: half},
		RaiderZone:   Rect{X: fieldMargin, Y: center + zoneGap, W: cfg.PitchWidth, H: half},
	}
}

// RaiderSpawn is where the raider starts every raid: centred, 30px above the
// raider-zone floor. The default 800x600 field gives (400, 550).
func RaiderSpawn(f GameField, cfg GameConfig) Position {
	return Position{X: cfg.CanvasWidth / 2, Y: f.RaiderZone.Bottom() - spawnInset}
}

// SafeLine is the y coordinate past which a returning raider has made it home.
func (f GameField) SafeLine() float64 {
	return f.RaiderZone.Bottom() - 50
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
