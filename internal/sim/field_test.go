package sim

import "testing"

func TestCreateGameField_Default(t *testing.T) {
	f := CreateGameField(DefaultGameConfig())

	if f.CenterLine != 300 {
		t.Fatalf("center line: want 300, got %.1f", f.CenterLine)
	}
	wantBounds := Bounds{Top: 20, Bottom: 580, Left: 20, Right: 780}
	if f.BoundaryLines != wantBounds {
		t.Fatalf("boundary: want %+v, got %+v", wantBounds, f.BoundaryLines)
	}
	wantDef := Rect{X: 20, Y: 20, W: 760, H: 270}
	if f.DefenderZone != wantDef {
		t.Fatalf("defender zone: want %+v, got %+v", wantDef, f.DefenderZone)
	}
	wantRaid := Rect{X: 20, Y: 310, W: 760, H: 270}
	if f.RaiderZone != wantRaid {
		t.Fatalf("raider zone: want %+v, got %+v", wantRaid, f.RaiderZone)
	}
}

func TestCreateGameField_ZonesOnOppositeSides(t *testing.T) {
	f := CreateGameField(DefaultGameConfig())
	if f.DefenderZone.Bottom() >= f.CenterLine {
		t.Fatalf("defender zone should end above the centre line, bottom=%.1f", f.DefenderZone.Bottom())
	}
	if f.RaiderZone.Y <= f.CenterLine {
		t.Fatalf("raider zone should start below the centre line, y=%.1f", f.RaiderZone.Y)
	}
	if !f.InDefenderTerritory(Position{X: 400, Y: 299}) {
		t.Fatal("y=299 should be defender territory")
	}
	if f.InDefenderTerritory(Position{X: 400, Y: 300}) {
		t.Fatal("a point on the centre line is not defender territory")
	}
}

func TestCreateGameField_Deterministic(t *testing.T) {
	cfg := DefaultGameConfig()
	cfg.CanvasWidth = 1024
	cfg.PitchWidth = 980
	if CreateGameField(cfg) != CreateGameField(cfg) {
		t.Fatal("field geometry should be a pure function of the config")
	}
}

func TestRaiderSpawn_InsideRaiderZoneAndBoundary(t *testing.T) {
	cfg := DefaultGameConfig()
	f := CreateGameField(cfg)
	spawn := RaiderSpawn(f, cfg)

	if spawn.X != 400 || spawn.Y != 550 {
		t.Fatalf("spawn: want (400,550), got (%.1f,%.1f)", spawn.X, spawn.Y)
	}
	if !f.RaiderZone.Contains(spawn) {
		t.Fatal("spawn should be inside the raider zone")
	}
	if !f.BoundaryLines.Inset(raiderSize).Contains(spawn) {
		t.Fatal("spawn should leave room for the raider's body inside the boundary")
	}
	if f.SafeLine() != 530 {
		t.Fatalf("safe line: want 530, got %.1f", f.SafeLine())
	}
}

func TestRect_Clamp(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 100, H: 50}
	tests := []struct {
		in, want Position
	}{
		{Position{X: 50, Y: 30}, Position{X: 50, Y: 30}},
		{Position{X: -5, Y: 30}, Position{X: 10, Y: 30}},
		{Position{X: 500, Y: 500}, Position{X: 110, Y: 60}},
		{Position{X: 50, Y: 0}, Position{X: 50, Y: 10}},
	}
	for _, tc := range tests {
		if got := r.Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp(%+v): want %+v, got %+v", tc.in, tc.want, got)
		}
	}
}

func TestBounds_ContainsEdges(t *testing.T) {
	b := Bounds{Top: 20, Bottom: 580, Left: 20, Right: 780}
	if !b.Contains(Position{X: 20, Y: 580}) {
		t.Fatal("edges should be inclusive")
	}
	if b.Contains(Position{X: 19.9, Y: 300}) {
		t.Fatal("point left of the boundary should be outside")
	}
}
