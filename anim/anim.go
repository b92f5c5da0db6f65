// Package anim assembles rendered frames into an animated GIF that loops
// forever.
package anim

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Animation is a sequence of frames shown Delay hundredths of a second each.
type Animation struct {
	Delay  int
	frames []*image.Paletted
}

// New returns an empty animation with the given per-frame delay.
func New(delay int) *Animation {
	if delay < 0 {
		panic("anim: negative delay")
	}
	return &Animation{Delay: delay}
}

// Add quantizes img to the Plan 9 palette with Floyd-Steinberg dithering and
// appends it.
func (a *Animation) Add(img image.Image) {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	a.frames = append(a.frames, p)
}

// Len returns the number of frames.
func (a *Animation) Len() int {
	return len(a.frames)
}

// Encode writes the animation as a GIF.
func (a *Animation) Encode(w io.Writer) error {
	if len(a.frames) == 0 {
		return errors.New("animation has no frames")
	}
	g := &gif.GIF{
		Image:     a.frames,
		Delay:     make([]int, len(a.frames)),
		LoopCount: 0,
	}
	for i := range g.Delay {
		g.Delay[i] = a.Delay
	}
	return errors.Wrap(gif.EncodeAll(w, g), "failed to encode gif")
}

// Save writes the animation to path.
func (a *Animation) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create gif")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrap(cerr, "failed to close gif")
		}
	}()
	return a.Encode(f)
}
