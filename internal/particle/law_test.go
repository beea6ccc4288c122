package particle

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 1))
}

func TestDripLawFallsAndAccelerates(t *testing.T) {
	rng := newRand()
	law := DefaultDripLaw()
	p := &Particle{Y: 70, VY: 0.5, AY: 0.08, Opacity: 0.95, Law: law}

	lastY, lastVY := p.Y, p.VY
	for i := 0; i < 10; i++ {
		alive, spawn := law.Step(p, 1, rng)
		if !alive || spawn != nil {
			t.Fatalf("frame %d: drip should still be falling", i)
		}
		if p.Y <= lastY || p.VY <= lastVY {
			t.Fatalf("frame %d: expected acceleration, y %v->%v vy %v->%v", i, lastY, p.Y, lastVY, p.VY)
		}
		if p.Stretch != 1+p.VY*0.15 {
			t.Errorf("stretch: got %v, want %v", p.Stretch, 1+p.VY*0.15)
		}
		lastY, lastVY = p.Y, p.VY
	}
}

func TestDripLawOpacityFloor(t *testing.T) {
	law := DefaultDripLaw()
	p := &Particle{Y: 70, Opacity: 0.36, Law: law}
	for i := 0; i < 5; i++ {
		law.Step(p, 1, newRand())
	}
	if p.Opacity != 0.35 {
		t.Errorf("opacity: got %v, want floor 0.35", p.Opacity)
	}
}

func TestDripLawSplashesAtFloor(t *testing.T) {
	law := DefaultDripLaw()
	p := &Particle{X: 42, Y: 179, VY: 2, Opacity: 0.9, Law: law}

	alive, spawn := law.Step(p, 1, newRand())
	if alive {
		t.Fatal("drip should retire at the floor")
	}
	if p.Y != 180 {
		t.Errorf("drip y: got %v, want clamped to 180", p.Y)
	}
	if len(spawn) != 6 {
		t.Fatalf("spawned: got %d, want 6", len(spawn))
	}
	if spawn[0].Kind != KindBuildup {
		t.Errorf("first spawn: got %s, want buildup", spawn[0].Kind)
	}
	for i, s := range spawn[1:] {
		if s.Kind != KindSplash {
			t.Errorf("spawn %d: got %s, want splash", i+1, s.Kind)
		}
		if s.OriginX != 42 || s.OriginY != 180 {
			t.Errorf("spawn %d: origin got (%v,%v)", i+1, s.OriginX, s.OriginY)
		}
		if math.Abs(s.Angle) > math.Pi/2 {
			t.Errorf("spawn %d: angle %v outside half circle", i+1, s.Angle)
		}
		if s.Distance < 3 || s.Distance > 7 {
			t.Errorf("spawn %d: distance %v outside [3,7]", i+1, s.Distance)
		}
	}
}

func TestSplashLawFadesOut(t *testing.T) {
	var law SplashLaw
	p := &Particle{OriginX: 50, OriginY: 180, Angle: 0, Distance: 5, Opacity: 0.7}

	for i := 1; i <= 23; i++ {
		if alive, _ := law.Step(p, 1, nil); !alive {
			t.Fatalf("splash retired early at frame %d", i)
		}
	}
	if math.Abs(p.X-(50+5*2.3)) > 1e-9 {
		t.Errorf("x at t=2.3: got %v", p.X)
	}
	if alive, _ := law.Step(p, 1, nil); alive {
		t.Error("splash should retire once opacity reaches 0")
	}
	if p.Opacity != 0 {
		t.Errorf("opacity: got %v, want 0", p.Opacity)
	}
}

func TestBuildupLawFades(t *testing.T) {
	law := BuildupLaw{Fade: 0.1}
	p := &Particle{X: 10, Y: 180, Opacity: 0.8}
	frames := 0
	for {
		frames++
		alive, _ := law.Step(p, 1, nil)
		if !alive {
			break
		}
		if p.X != 10 || p.Y != 180 {
			t.Fatal("buildup must not move")
		}
	}
	if frames != 8 && frames != 9 {
		t.Errorf("buildup lived %d frames, want about 8", frames)
	}
}

func TestMoteLawRisesAndDecays(t *testing.T) {
	var law MoteLaw
	p := &Particle{X: 50, Y: 100, VX: 0.1, VY: -0.5, Life: 1, Decay: 0.25, Opacity: 1}

	alive, _ := law.Step(p, 1, nil)
	if !alive {
		t.Fatal("mote retired early")
	}
	if p.Y >= 100 {
		t.Errorf("mote should rise, y=%v", p.Y)
	}
	if p.Opacity != p.Life || p.Life != 0.75 {
		t.Errorf("life/opacity: got %v/%v, want 0.75", p.Life, p.Opacity)
	}

	for i := 0; i < 2; i++ {
		law.Step(p, 1, nil)
	}
	if alive, _ := law.Step(p, 1, nil); alive {
		t.Error("mote should retire when life reaches 0")
	}
}

func TestMoteLawFrameRateIndependent(t *testing.T) {
	var law MoteLaw
	a := &Particle{X: 50, Y: 100, VX: 0.3, VY: -0.7, Life: 1, Decay: 0.01}
	b := *a

	law.Step(a, 1, nil)
	law.Step(&b, 0.5, nil)
	law.Step(&b, 0.5, nil)

	if math.Abs(a.X-b.X) > 1e-9 || math.Abs(a.Y-b.Y) > 1e-9 || math.Abs(a.Life-b.Life) > 1e-9 {
		t.Errorf("one frame vs two half frames differ: %+v vs %+v", *a, b)
	}
}

func TestSpawnersAreBounded(t *testing.T) {
	rng := newRand()
	drip := DripSpawner(DefaultDripLaw())
	mote := MoteSpawner()
	for i := 0; i < 100; i++ {
		batch := drip(rng, 65)
		if len(batch) != 2 || batch[0].Kind != KindDrip || !batch[1].Attached {
			t.Fatalf("drip batch: %+v", batch)
		}
		if x := batch[0].X; x < 30 || x > 70 {
			t.Errorf("drip x %v outside [30,70]", x)
		}
		m := mote(rng, 80)[0]
		if m.Hue < 170 || m.Hue > 190 {
			t.Errorf("mote hue %v outside teal range", m.Hue)
		}
		if m.VY >= 0 {
			t.Errorf("mote should rise, vy=%v", m.VY)
		}
	}
}
