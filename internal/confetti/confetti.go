// Package confetti simulates the falling-squares rain shown after the
// proposal is revealed.
//
// # Loop
//
// A Field holds a fixed pool of particles. Each Step advances every particle
// by its velocity; a particle that falls below the surface re-enters just
// above the top at a new random x, so the rain never ends.
//
// # Drawing
//
// Draw clears the Canvas and fills one rotated square per particle. The
// Field never talks to a real drawing surface; callers provide a Canvas,
// such as Frame, that records or forwards the calls.
package confetti

import (
	"math"
	"math/rand"
)

// DefaultCount is the size of the particle pool.
const DefaultCount = 100

// reentryY is where a wrapped particle restarts, just above the top edge.
const reentryY = -20

// Palette lists the particle colors.
var Palette = []string{"#FC033D", "#B103A4", "#FFD700", "#FFFFFF"}

// Particle is one square of confetti. Rotation is in degrees.
type Particle struct {
	X, Y          float64
	Size          float64
	Color         string
	SpeedX        float64
	SpeedY        float64
	Rotation      float64
	RotationSpeed float64
}

// Canvas is the subset of a 2D drawing surface the Field needs.
type Canvas interface {
	Clear(width, height float64)
	// FillSquare fills a square of side size centered at (x, y) and
	// rotated by angle radians.
	FillSquare(x, y, size, angle float64, color string)
}

// Field owns the particle pool and the surface dimensions.
type Field struct {
	particles []Particle
	width     float64
	height    float64
	rng       *rand.Rand
}

// NewField seeds count particles for a surface of the given size. Particles
// start above the visible area so the rain falls in from the top.
func NewField(count int, width, height float64, rng *rand.Rand) *Field {
	f := &Field{
		particles: make([]Particle, count),
		width:     width,
		height:    height,
		rng:       rng,
	}
	for i := range f.particles {
		f.particles[i] = f.spawn()
	}
	return f
}

func (f *Field) spawn() Particle {
	return Particle{
		X:             f.rng.Float64() * f.width,
		Y:             f.rng.Float64()*f.height - f.height,
		Size:          f.rng.Float64()*8 + 4,
		Color:         Palette[f.rng.Intn(len(Palette))],
		SpeedY:        f.rng.Float64()*3 + 2,
		SpeedX:        f.rng.Float64()*2 - 1,
		Rotation:      f.rng.Float64() * 360,
		RotationSpeed: f.rng.Float64()*5 - 2.5,
	}
}

// Step advances the simulation by one frame.
func (f *Field) Step() {
	for i := range f.particles {
		p := &f.particles[i]
		p.Y += p.SpeedY
		p.X += p.SpeedX
		p.Rotation += p.RotationSpeed

		if p.Y > f.height {
			p.Y = reentryY
			p.X = f.rng.Float64() * f.width
		}
	}
}

// Resize changes the surface dimensions. Particle state is kept.
func (f *Field) Resize(width, height float64) {
	f.width = width
	f.height = height
}

func (f *Field) Size() (width, height float64) { return f.width, f.height }

// Particles returns a copy of the pool.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// Draw renders the current state onto c.
func (f *Field) Draw(c Canvas) {
	c.Clear(f.width, f.height)
	for _, p := range f.particles {
		c.FillSquare(p.X, p.Y, p.Size, p.Rotation*math.Pi/180, p.Color)
	}
}

// Square is one filled square of a Frame.
type Square struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"s"`
	Angle float64 `json:"a"`
	Color string  `json:"c"`
}

// Frame is a Canvas that records one rendered frame so it can be shipped to
// a remote drawing surface.
type Frame struct {
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Squares []Square `json:"squares"`
}

func (fr *Frame) Clear(width, height float64) {
	fr.Width = width
	fr.Height = height
	fr.Squares = fr.Squares[:0]
}

func (fr *Frame) FillSquare(x, y, size, angle float64, color string) {
	fr.Squares = append(fr.Squares, Square{
		X:     round2(x),
		Y:     round2(y),
		Size:  round2(size),
		Angle: round2(angle),
		Color: color,
	})
}

// round2 trims coordinates to two decimals; the surface draws in pixels.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
