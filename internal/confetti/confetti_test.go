package confetti

import (
	"math"
	"math/rand"
	"slices"
	"testing"
)

func TestNewFieldRanges(t *testing.T) {
	const w, h = 800, 600
	f := NewField(DefaultCount, w, h, rand.New(rand.NewSource(42)))

	ps := f.Particles()
	if len(ps) != DefaultCount {
		t.Fatalf("particles = %d, want %d", len(ps), DefaultCount)
	}

	for i, p := range ps {
		if p.X < 0 || p.X >= w {
			t.Errorf("particle %d: x = %v out of [0,%v)", i, p.X, w)
		}
		if p.Y < -h || p.Y >= 0 {
			t.Errorf("particle %d: y = %v out of [-%v,0)", i, p.Y, h)
		}
		if p.Size < 4 || p.Size >= 12 {
			t.Errorf("particle %d: size = %v", i, p.Size)
		}
		if p.SpeedY < 2 || p.SpeedY >= 5 {
			t.Errorf("particle %d: speedY = %v", i, p.SpeedY)
		}
		if p.SpeedX < -1 || p.SpeedX >= 1 {
			t.Errorf("particle %d: speedX = %v", i, p.SpeedX)
		}
		if p.Rotation < 0 || p.Rotation >= 360 {
			t.Errorf("particle %d: rotation = %v", i, p.Rotation)
		}
		if p.RotationSpeed < -2.5 || p.RotationSpeed >= 2.5 {
			t.Errorf("particle %d: rotationSpeed = %v", i, p.RotationSpeed)
		}
		if !slices.Contains(Palette, p.Color) {
			t.Errorf("particle %d: color %q not in palette", i, p.Color)
		}
	}
}

func TestStepAdvances(t *testing.T) {
	f := NewField(10, 800, 600, rand.New(rand.NewSource(1)))
	before := f.Particles()
	f.Step()
	after := f.Particles()

	for i := range before {
		b, a := before[i], after[i]
		if a.Y != b.Y+b.SpeedY {
			t.Errorf("particle %d: y = %v, want %v", i, a.Y, b.Y+b.SpeedY)
		}
		if a.X != b.X+b.SpeedX {
			t.Errorf("particle %d: x = %v, want %v", i, a.X, b.X+b.SpeedX)
		}
		if a.Rotation != b.Rotation+b.RotationSpeed {
			t.Errorf("particle %d: rotation = %v", i, a.Rotation)
		}
	}
}

func TestStepWrapsBelowBottom(t *testing.T) {
	f := NewField(1, 300, 100, rand.New(rand.NewSource(7)))
	f.particles[0].Y = 99
	f.particles[0].SpeedY = 2

	f.Step()

	p := f.Particles()[0]
	if p.Y != reentryY {
		t.Errorf("y = %v, want %v", p.Y, reentryY)
	}
	if p.X < 0 || p.X >= 300 {
		t.Errorf("x = %v out of surface", p.X)
	}
}

func TestStepLoopsForever(t *testing.T) {
	f := NewField(DefaultCount, 200, 200, rand.New(rand.NewSource(3)))
	for range 10_000 {
		f.Step()
	}
	for i, p := range f.Particles() {
		if p.Y > 200 || p.Y < -200 {
			t.Errorf("particle %d escaped: y = %v", i, p.Y)
		}
	}
}

func TestResizeKeepsParticles(t *testing.T) {
	f := NewField(20, 800, 600, rand.New(rand.NewSource(9)))
	f.Step()
	before := f.Particles()

	f.Resize(1024, 768)

	if w, h := f.Size(); w != 1024 || h != 768 {
		t.Errorf("size = %vx%v, want 1024x768", w, h)
	}
	if !slices.Equal(before, f.Particles()) {
		t.Error("resize reset particle state")
	}
}

func TestDrawFrame(t *testing.T) {
	f := NewField(3, 640, 480, rand.New(rand.NewSource(5)))
	f.particles[0].Rotation = 180

	var fr Frame
	f.Draw(&fr)

	if fr.Width != 640 || fr.Height != 480 {
		t.Errorf("frame size = %vx%v", fr.Width, fr.Height)
	}
	if len(fr.Squares) != 3 {
		t.Fatalf("squares = %d, want 3", len(fr.Squares))
	}
	if got := fr.Squares[0].Angle; math.Abs(got-math.Pi) > 0.01 {
		t.Errorf("angle = %v, want pi", got)
	}

	f.Draw(&fr)
	if len(fr.Squares) != 3 {
		t.Errorf("redraw kept stale squares: %d", len(fr.Squares))
	}
}
