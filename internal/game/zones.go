package game

import (
	"math/rand"

	"github.com/tomz197/turbulence/internal/physics"
)

// HazardZone is a vertical band of turbulence moving right to left.
type HazardZone struct {
	Position float64 // Leading (left) edge in world x
	Width    float64
}

// HazardZoneManager spawns, moves and culls zones and turns the vehicle's
// passage through them into score events.
type HazardZoneManager struct {
	spawnX        float64
	spawnInterval int
	speed         float64
	minWidth      float64
	maxWidth      float64
	cullMargin    float64
	rng           *rand.Rand

	zones      []HazardZone
	spawnTimer int
	wasInZone  bool
}

// NewHazardZoneManager creates an empty manager. rng supplies zone widths.
func NewHazardZoneManager(cfg Config, rng *rand.Rand) *HazardZoneManager {
	return &HazardZoneManager{
		spawnX:        cfg.WorldWidth,
		spawnInterval: cfg.SpawnInterval,
		speed:         cfg.ZoneSpeed,
		minWidth:      cfg.MinZoneWidth,
		maxWidth:      cfg.MaxZoneWidth,
		cullMargin:    cfg.CullMargin,
		rng:           rng,
	}
}

// Advance runs one tick of spawning, movement and culling.
func (m *HazardZoneManager) Advance() {
	m.spawnTimer++
	if m.spawnTimer > m.spawnInterval {
		m.spawnTimer = 0
		m.zones = append(m.zones, HazardZone{
			Position: m.spawnX,
			Width:    m.minWidth + m.rng.Float64()*(m.maxWidth-m.minWidth),
		})
	}

	kept := m.zones[:0]
	for _, z := range m.zones {
		z.Position -= m.speed
		if z.Position > -m.cullMargin {
			kept = append(kept, z)
		}
	}
	m.zones = kept
}

// CheckOverlap reports whether x is inside the union of all zones, and
// whether that overlap happens while the danger state is Panic.
func (m *HazardZoneManager) CheckOverlap(x float64, danger Danger) (inZone, unsafe bool) {
	for _, z := range m.zones {
		if physics.InSpan(x, z.Position, z.Width) {
			inZone = true
			break
		}
	}
	return inZone, inZone && danger == Panic
}

// ConsumeScoreEvent reports a score on the tick the vehicle leaves the zone
// union. The previous flag is updated on every call.
func (m *HazardZoneManager) ConsumeScoreEvent(inZone, crashed bool) bool {
	scored := m.wasInZone && !inZone && !crashed
	m.wasInZone = inZone
	return scored
}

// Zones returns the live zones. The slice is reused across ticks.
func (m *HazardZoneManager) Zones() []HazardZone { return m.zones }

// Reset empties the zone list and restarts the spawn timer.
func (m *HazardZoneManager) Reset() {
	m.zones = m.zones[:0]
	m.spawnTimer = 0
	m.wasInZone = false
}
