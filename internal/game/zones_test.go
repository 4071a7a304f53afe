package game

import (
	"math/rand"
	"testing"
)

func newTestZones(cfg Config) *HazardZoneManager {
	return NewHazardZoneManager(cfg, rand.New(rand.NewSource(42)))
}

func TestZoneSpawnCadenceAndWidth(t *testing.T) {
	cfg := DefaultConfig()
	m := newTestZones(cfg)

	for i := 0; i < cfg.SpawnInterval; i++ {
		m.Advance()
	}
	if n := len(m.Zones()); n != 0 {
		t.Fatalf("zones before interval elapsed = %d, want 0", n)
	}

	m.Advance()
	zones := m.Zones()
	if len(zones) != 1 {
		t.Fatalf("zones after interval = %d, want 1", len(zones))
	}
	if want := cfg.WorldWidth - cfg.ZoneSpeed; zones[0].Position != want {
		t.Fatalf("spawned zone at %v, want %v", zones[0].Position, want)
	}

	for i := 0; i < 50*cfg.SpawnInterval; i++ {
		m.Advance()
		for _, z := range m.Zones() {
			if z.Width < cfg.MinZoneWidth || z.Width >= cfg.MaxZoneWidth {
				t.Fatalf("zone width %v outside [%v, %v)", z.Width, cfg.MinZoneWidth, cfg.MaxZoneWidth)
			}
		}
	}
}

func TestZonesSameSeedSameWidths(t *testing.T) {
	cfg := DefaultConfig()
	a, b := newTestZones(cfg), newTestZones(cfg)
	for i := 0; i < 10*cfg.SpawnInterval; i++ {
		a.Advance()
		b.Advance()
	}
	za, zb := a.Zones(), b.Zones()
	if len(za) != len(zb) {
		t.Fatalf("zone counts differ: %d vs %d", len(za), len(zb))
	}
	for i := range za {
		if za[i] != zb[i] {
			t.Fatalf("zone %d differs: %+v vs %+v", i, za[i], zb[i])
		}
	}
}

func TestZonesCulledOnlyPastMargin(t *testing.T) {
	cfg := DefaultConfig()
	m := newTestZones(cfg)
	m.zones = []HazardZone{{Position: -cfg.CullMargin + cfg.ZoneSpeed + 1, Width: cfg.MaxZoneWidth}}

	m.Advance()
	if len(m.Zones()) != 1 {
		t.Fatal("zone culled before passing the margin")
	}
	m.Advance()
	if len(m.Zones()) != 0 {
		t.Fatal("zone kept after passing the margin")
	}
}

func TestCheckOverlapUnion(t *testing.T) {
	m := newTestZones(DefaultConfig())
	m.zones = []HazardZone{
		{Position: 100, Width: 50},
		{Position: 120, Width: 50},
		{Position: 400, Width: 50},
	}

	tests := []struct {
		x      float64
		danger Danger
		inZone bool
		unsafe bool
	}{
		{90, Panic, false, false},
		{100, Panic, true, true},
		{130, Safe, true, false},
		{165, Panic, true, true},
		{170, Panic, false, false},
		{449, Safe, true, false},
		{450, Panic, false, false},
	}
	for _, tt := range tests {
		in, unsafe := m.CheckOverlap(tt.x, tt.danger)
		if in != tt.inZone || unsafe != tt.unsafe {
			t.Errorf("CheckOverlap(%v, %v) = %v, %v; want %v, %v", tt.x, tt.danger, in, unsafe, tt.inZone, tt.unsafe)
		}
	}
}

func TestScoreOnUnionExit(t *testing.T) {
	m := newTestZones(DefaultConfig())
	score := 0
	for tick := 0; tick <= 20; tick++ {
		inZone := tick >= 10 && tick <= 15
		scored := m.ConsumeScoreEvent(inZone, false)
		if scored {
			score++
		}
		if scored != (tick == 16) {
			t.Fatalf("tick %d: scored = %v", tick, scored)
		}
	}
	if score != 1 {
		t.Fatalf("score = %d, want 1", score)
	}
}

func TestScoreSuppressedWhileCrashed(t *testing.T) {
	m := newTestZones(DefaultConfig())
	m.ConsumeScoreEvent(true, false)
	if m.ConsumeScoreEvent(false, true) {
		t.Fatal("scored while crashed")
	}
	if m.ConsumeScoreEvent(false, false) {
		t.Fatal("exit was scored twice")
	}
}

func TestZoneReset(t *testing.T) {
	cfg := DefaultConfig()
	m := newTestZones(cfg)
	for i := 0; i < 3*cfg.SpawnInterval; i++ {
		m.Advance()
	}
	m.ConsumeScoreEvent(true, false)
	m.Reset()
	if len(m.Zones()) != 0 {
		t.Fatal("zones survived reset")
	}
	if m.ConsumeScoreEvent(false, false) {
		t.Fatal("in-zone flag survived reset")
	}
	for i := 0; i < cfg.SpawnInterval; i++ {
		m.Advance()
	}
	if len(m.Zones()) != 0 {
		t.Fatal("spawn timer survived reset")
	}
}
