// Package display renders text for a small monochrome OLED into an off-screen
// framebuffer and pushes finished frames to one or more sinks: the OLED
// itself and an MJPEG stream mirroring it.
package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 128
	Height = 64
)

// Sink receives complete frames. The image must not be retained after Show
// returns.
type Sink interface {
	Show(img image.Image) error
}

// Framebuffer is a Width x Height monochrome frame. It is not safe for
// concurrent use; callers serialize drawing and flushing.
type Framebuffer struct {
	Sinks []Sink

	img  *image.Gray
	face font.Face
}

func NewFramebuffer(sinks ...Sink) *Framebuffer {
	return &Framebuffer{
		Sinks: sinks,
		img:   image.NewGray(image.Rect(0, 0, Width, Height)),
		face:  basicfont.Face7x13,
	}
}

var (
	off = image.NewUniform(color.Gray{Y: 0})
	on  = image.NewUniform(color.Gray{Y: 0xff})
)

// ClearRegion turns off every pixel of the w x h rectangle at (x, y).
func (f *Framebuffer) ClearRegion(x, y, w, h int) {
	r := image.Rect(x, y, x+w, y+h).Intersect(f.img.Bounds())
	draw.Draw(f.img, r, off, image.Point{}, draw.Src)
}

// Fill sets every pixel of the frame.
func (f *Framebuffer) Fill(lit bool) {
	src := off
	if lit {
		src = on
	}
	draw.Draw(f.img, f.img.Bounds(), src, image.Point{}, draw.Src)
}

// DrawText draws s with its top left corner at (x, y).
func (f *Framebuffer) DrawText(x, y int, s string) {
	d := font.Drawer{
		Dst:  f.img,
		Src:  on,
		Face: f.face,
		Dot:  fixed.P(x, y+f.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// TextSize returns the pixel size of s in the framebuffer font.
func (f *Framebuffer) TextSize(s string) (w, h int) {
	return font.MeasureString(f.face, s).Ceil(), f.face.Metrics().Height.Ceil()
}

// HLine lights the pixels from (x0, y) to (x1, y).
func (f *Framebuffer) HLine(x0, x1, y int) {
	r := image.Rect(x0, y, x1+1, y+1).Intersect(f.img.Bounds())
	draw.Draw(f.img, r, on, image.Point{}, draw.Src)
}

// Rect draws the outline of the w x h rectangle at (x, y).
func (f *Framebuffer) Rect(x, y, w, h int) {
	f.HLine(x, x+w-1, y)
	f.HLine(x, x+w-1, y+h-1)

	for _, col := range []int{x, x + w - 1} {
		r := image.Rect(col, y, col+1, y+h).Intersect(f.img.Bounds())
		draw.Draw(f.img, r, on, image.Point{}, draw.Src)
	}
}

// Lit reports whether the pixel at (x, y) is on.
func (f *Framebuffer) Lit(x, y int) bool {
	return f.img.GrayAt(x, y).Y != 0
}

// Flush hands a copy of the frame to every sink. All sinks are tried; the
// first error is returned.
func (f *Framebuffer) Flush() error {
	frame := image.NewGray(f.img.Bounds())
	copy(frame.Pix, f.img.Pix)

	var first error
	for _, s := range f.Sinks {
		if err := s.Show(frame); err != nil && first == nil {
			first = fmt.Errorf("unable to show frame: %w", err)
		}
	}

	return first
}
