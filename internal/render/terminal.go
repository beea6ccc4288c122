package render

import (
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/sweeney/nightfall-candle/internal/logic"
	"github.com/sweeney/nightfall-candle/internal/particle"
)

// Scene size in viewbox units.
const (
	sceneWidth  = 100
	sceneHeight = 200
)

// Smallest terminal the scene is drawn into.
const (
	minCols    = 24
	minRows    = 16
	statusRows = 3
)

// Screen is the subset of tcell.Screen the terminal sink draws with.
type Screen interface {
	Size() (width, height int)
	Clear()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

// Terminal draws the candle with tcell. State is buffered by the Sink
// methods and painted on Flush.
type Terminal struct {
	mu     sync.Mutex
	screen Screen
	title  string

	attrs     logic.RenderAttributes
	remaining time.Duration
	controls  Controls
	exit      logic.ExitFrame
	smoke     bool
	message   string
	note      string
	particles map[uint64]particle.Particle

	tooSmall bool
}

// NewTerminal creates a sink that draws onto screen.
func NewTerminal(screen Screen, title string) *Terminal {
	t := &Terminal{
		screen:    screen,
		title:     title,
		exit:      logic.ExitFrame{Opacity: 1, Scale: 1},
		particles: make(map[uint64]particle.Particle),
	}
	t.attrs = logic.NewMapper(logic.DefaultGeometry(), 0).Map(1, 0)
	return t
}

func (t *Terminal) Mount(p particle.Particle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.particles[p.ID] = p
}

func (t *Terminal) Update(p particle.Particle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.particles[p.ID]; ok {
		t.particles[p.ID] = p
	}
}

func (t *Terminal) Unmount(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.particles, id)
}

func (t *Terminal) Apply(a logic.RenderAttributes) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attrs = a
}

func (t *Terminal) ShowTime(remaining time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = remaining
}

func (t *Terminal) SetControls(c Controls) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.controls = c
}

func (t *Terminal) ApplyExit(f logic.ExitFrame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exit = f
}

func (t *Terminal) ShowSmoke() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.smoke = true
}

func (t *Terminal) ShowMessage(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.message = msg
}

func (t *Terminal) ClearEffects() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exit = logic.ExitFrame{Opacity: 1, Scale: 1}
	t.smoke = false
	t.message = ""
}

// SetNote sets the short right-aligned status note (e.g. "muted").
func (t *Terminal) SetNote(note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.note = note
}

// Flush paints the buffered state.
func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	t.screen.Clear()
	if w < minCols || h < minRows {
		if !t.tooSmall {
			log.Printf("render: terminal %dx%d too small, need at least %dx%d", w, h, minCols, minRows)
			t.tooSmall = true
		}
		t.text(0, 0, "terminal too small", tcell.StyleDefault)
		t.screen.Show()
		return
	}
	t.tooSmall = false

	v := newViewport(w, h-statusRows)
	t.drawScene(v)
	t.drawStatus(w, h)
	t.screen.Show()
}

func (t *Terminal) drawScene(v viewport) {
	a := t.attrs

	// Glow behind everything.
	if a.GlowOpacity > 0.01 {
		t.ellipse(v, 50, a.GlowCy, 45, 60, '░', rgb(0xff, 0xcc, 0x66, a.GlowOpacity*0.5))
	}

	// Holder.
	t.rect(v, 25, 180, 75, 195, '█', rgb(0x8b, 0x45, 0x13, 1))

	// Wax, lighter at the top.
	top, bottom := a.WaxY, a.WaxY+a.WaxHeight
	r0, _ := v.cell(0, top)
	_, r1 := v.cell(0, bottom)
	for row := r0; row < max(r1, r0+1); row++ {
		f := 0.0
		if r1 > r0+1 {
			f = float64(row-r0) / float64(r1-r0-1)
		}
		style := rgb(lerp(0xff, 0xcc, f), lerp(0xd6, 0x88, f), lerp(0x99, 0x44, f), 1)
		c0, _ := v.cell(30, 0)
		c1, _ := v.cell(70, 0)
		for col := c0; col < max(c1, c0+1); col++ {
			t.screen.SetContent(col, row, '█', nil, style)
		}
	}

	// Wick.
	t.rect(v, 49.5, a.WickY1, 50.5, a.WickY2, '│', rgb(0x66, 0x66, 0x66, 1))

	// Flame, scaled around its centre by the exit animation.
	op := a.FlameOpacity * t.exit.Opacity
	if op > 0.02 {
		cx := 50 + a.FlameJitterX
		s := t.exit.Scale
		t.ellipse(v, cx, a.OuterFlameCy, a.OuterFlameRx*s, a.OuterFlameRy*s, '▓', rgb(0xff, 0x99, 0x33, op))
		t.ellipse(v, cx, a.InnerFlameCy, a.InnerFlameRx*s, a.InnerFlameRy*s, '█', rgb(0xff, 0xf5, 0xe6, op*0.8))
	}

	if t.smoke {
		t.ellipse(v, 50, a.OuterFlameCy-12, 8, 4, '≈', rgb(0x88, 0x88, 0x88, 0.6))
	}

	ids := make([]uint64, 0, len(t.particles))
	for id := range t.particles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		t.drawParticle(v, t.particles[id])
	}

	t.text(1, 0, t.title, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

func (t *Terminal) drawParticle(v viewport, p particle.Particle) {
	col, row := v.cell(p.X, p.Y)
	switch p.Kind {
	case particle.KindDrip:
		t.screen.SetContent(col, row, '•', nil, rgb(0xcc, 0x88, 0x44, p.Opacity))
	case particle.KindTrail:
		_, end := v.cell(p.X, p.Y+p.Length)
		for r := row; r <= end; r++ {
			t.screen.SetContent(col, r, '╎', nil, rgb(0xd4, 0xa5, 0x74, p.Opacity))
		}
	case particle.KindSplash:
		t.screen.SetContent(col, row, '·', nil, rgb(0xcc, 0x88, 0x44, p.Opacity))
	case particle.KindBuildup:
		t.screen.SetContent(col, row, '▂', nil, rgb(0xd4, 0xa5, 0x74, p.Opacity))
	case particle.KindMote:
		r, g, b := hueToRGB(p.Hue)
		t.screen.SetContent(col, row, '*', nil, rgb(r, g, b, p.Opacity))
	}
}

func (t *Terminal) drawStatus(w, h int) {
	c := t.controls
	base := tcell.StyleDefault
	dim := base.Foreground(tcell.ColorDimGray)
	bright := base.Foreground(tcell.ColorWhite).Bold(true)

	line := h - statusRows
	status := FormatClock(t.remaining)
	if c.Phase != "" {
		status += "  " + strings.ToLower(string(c.Phase))
	}
	if c.Duration > 0 {
		status += "  of " + FormatClock(c.Duration)
	}
	t.text(1, line, status, bright)
	if t.note != "" {
		t.text(w-len(t.note)-1, line, t.note, dim)
	}

	x := 1
	startLabel := "[s] start"
	if c.Resume {
		startLabel = "[s] resume"
	}
	for _, k := range []struct {
		label   string
		enabled bool
	}{
		{"[1-6] duration", c.Phase != logic.PhaseRunning && c.Phase != logic.PhasePaused},
		{startLabel, c.Start},
		{"[p] pause", c.Pause},
		{"[r] reset", true},
		{"[m] mute", true},
		{"[q] quit", true},
	} {
		style := dim
		if k.enabled {
			style = base
		}
		x = t.text(x, line+1, k.label, style) + 2
	}

	if t.message != "" {
		msgX := (w - len([]rune(t.message))) / 2
		t.text(max(msgX, 0), line+2, t.message, base.Foreground(tcell.NewRGBColor(0xff, 0xcc, 0x66)).Italic(true))
	}
}

// text writes s at (x, y) and returns the column after it.
func (t *Terminal) text(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func (t *Terminal) rect(v viewport, x0, y0, x1, y1 float64, r rune, style tcell.Style) {
	c0, r0 := v.cell(x0, y0)
	c1, r1 := v.cell(x1, y1)
	for row := r0; row < max(r1, r0+1); row++ {
		for col := c0; col < max(c1, c0+1); col++ {
			t.screen.SetContent(col, row, r, nil, style)
		}
	}
}

func (t *Terminal) ellipse(v viewport, cx, cy, rx, ry float64, r rune, style tcell.Style) {
	if rx <= 0 || ry <= 0 {
		return
	}
	c0, r0 := v.cell(cx-rx, cy-ry)
	c1, r1 := v.cell(cx+rx, cy+ry)
	drawn := false
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			x, y := v.scene(col, row)
			dx, dy := (x-cx)/rx, (y-cy)/ry
			if dx*dx+dy*dy <= 1 {
				t.screen.SetContent(col, row, r, nil, style)
				drawn = true
			}
		}
	}
	if !drawn {
		col, row := v.cell(cx, cy)
		t.screen.SetContent(col, row, r, nil, style)
	}
}

// viewport maps scene units onto terminal cells. Cells are roughly twice
// as tall as they are wide.
type viewport struct {
	ox     int
	sx, sy float64
}

func newViewport(w, h int) viewport {
	sy := float64(h) / sceneHeight
	sx := sy * 2
	if sx*sceneWidth > float64(w) {
		sx = float64(w) / sceneWidth
	}
	return viewport{ox: (w - int(sx*sceneWidth)) / 2, sx: sx, sy: sy}
}

func (v viewport) cell(x, y float64) (col, row int) {
	return v.ox + int(math.Floor(x*v.sx)), int(math.Floor(y * v.sy))
}

// scene returns the scene coordinates of a cell centre.
func (v viewport) scene(col, row int) (x, y float64) {
	return (float64(col-v.ox) + 0.5) / v.sx, (float64(row) + 0.5) / v.sy
}

func rgb(r, g, b int32, opacity float64) tcell.Style {
	o := math.Min(1, math.Max(0, opacity))
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(
		int32(float64(r)*o), int32(float64(g)*o), int32(float64(b)*o)))
}

func lerp(a, b int32, f float64) int32 {
	return a + int32(float64(b-a)*f)
}

// hueToRGB converts a hue in degrees at 70% saturation, 60% lightness.
func hueToRGB(h float64) (r, g, b int32) {
	const s, l = 0.7, 0.6
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r1, g1, b1 float64
	switch {
	case hp < 1:
		r1, g1 = c, x
	case hp < 2:
		r1, g1 = x, c
	case hp < 3:
		g1, b1 = c, x
	case hp < 4:
		g1, b1 = x, c
	case hp < 5:
		r1, b1 = x, c
	default:
		r1, b1 = c, x
	}
	m := l - c/2
	return int32((r1 + m) * 255), int32((g1 + m) * 255), int32((b1 + m) * 255)
}
