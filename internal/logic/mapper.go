package logic

import (
	"math"
	"time"
)

// Geometry describes the candle scene in viewbox units.
type Geometry struct {
	WaxY          float64
	WaxHeight     float64
	MinWaxHeight  float64
	OuterFlameCy  float64
	OuterFlameRx  float64
	OuterFlameRy  float64
	InnerFlameCy  float64
	InnerFlameRx  float64
	InnerFlameRy  float64
	WickY1        float64
	WickY2        float64
	GlowCy        float64
	GlowOpacity   float64
	FlameAboveWax float64 // distance from wax top to the outer flame centre
	Smoothing     float64 // exponential smoothing factor per Map call
}

// DefaultGeometry is the 100x200 candle viewbox.
func DefaultGeometry() Geometry {
	return Geometry{
		WaxY:          65,
		WaxHeight:     115,
		MinWaxHeight:  6,
		OuterFlameCy:  45,
		OuterFlameRx:  12,
		OuterFlameRy:  20,
		InnerFlameCy:  48,
		InnerFlameRx:  8,
		InnerFlameRy:  12,
		WickY1:        45,
		WickY2:        65,
		GlowCy:        50,
		GlowOpacity:   0.6,
		FlameAboveWax: 20,
		Smoothing:     0.18,
	}
}

// Mapper turns remaining fraction and elapsed time into render attributes.
// The only state it keeps is the smoothed flame offset.
type Mapper struct {
	geo      Geometry
	seed     float64
	smoothed float64
}

// NewMapper creates a mapper. seed shifts the flicker phase so two candles
// never flicker in lockstep.
func NewMapper(geo Geometry, seed float64) *Mapper {
	return &Mapper{geo: geo, seed: seed}
}

// Geometry returns the scene geometry.
func (m *Mapper) Geometry() Geometry {
	return m.geo
}

// Reset drops accumulated smoothing so a fresh run starts from rest.
func (m *Mapper) Reset() {
	m.smoothed = 0
}

// Smoothed returns the current smoothed flame offset.
func (m *Mapper) Smoothed() float64 {
	return m.smoothed
}

// Target returns the unsmoothed flame offset for a remaining fraction.
func (m *Mapper) Target(fraction float64) float64 {
	waxY, _ := m.wax(clamp01(fraction))
	g := m.geo
	target := waxY - g.FlameAboveWax - g.OuterFlameCy
	maxDy := math.Max(0, g.WaxHeight-g.MinWaxHeight+18)
	return math.Min(math.Max(target, 0), maxDy)
}

// Map computes the attributes for one frame and advances the smoothing.
func (m *Mapper) Map(fraction float64, elapsed time.Duration) RenderAttributes {
	g := m.geo
	fraction = clamp01(fraction)
	waxY, waxH := m.wax(fraction)

	m.smoothed += (m.Target(fraction) - m.smoothed) * g.Smoothing
	dy := m.smoothed

	t := float64(elapsed.Milliseconds()) + m.seed
	flicker := 1 + 0.03*math.Sin(t/120) + 0.015*math.Sin(t/40)
	inner := 0.98 + (flicker-1)*0.8

	return RenderAttributes{
		WaxY:      waxY,
		WaxHeight: waxH,

		FlameDy:      dy,
		FlameJitterX: math.Sin(t/150) * 0.6,
		Flicker:      flicker,

		OuterFlameCy: g.OuterFlameCy + dy,
		OuterFlameRx: math.Max(6, g.OuterFlameRx*flicker),
		OuterFlameRy: math.Max(8, g.OuterFlameRy*flicker),
		InnerFlameCy: g.InnerFlameCy + dy,
		InnerFlameRx: math.Max(4, g.InnerFlameRx*inner),
		InnerFlameRy: math.Max(6, g.InnerFlameRy*inner),

		WickY1: g.WickY1 + dy,
		WickY2: g.WickY2 + dy,

		GlowCy:      g.GlowCy + dy,
		GlowOpacity: math.Max(0, g.GlowOpacity*fraction),

		FlameOpacity: clamp01(fraction * 1.2),
	}
}

func (m *Mapper) wax(fraction float64) (y, h float64) {
	g := m.geo
	h = math.Max(g.MinWaxHeight, math.Round(g.WaxHeight*fraction))
	return g.WaxY + (g.WaxHeight - h), h
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
