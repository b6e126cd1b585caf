package display

import (
	"errors"
	"image"
	"testing"
)

type captureSink struct {
	frames []image.Image
	err    error
}

func (c *captureSink) Show(img image.Image) error {
	c.frames = append(c.frames, img)
	return c.err
}

func litIn(f *Framebuffer, r image.Rectangle) int {
	var n int
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if f.Lit(x, y) {
				n++
			}
		}
	}
	return n
}

func TestFramebufferText(t *testing.T) {
	f := NewFramebuffer()

	f.DrawText(20, 24, "11 occupants")
	w, h := f.TextSize("11 occupants")
	if w != 12*7 || h != 13 {
		t.Fatalf("text size %dx%d, want 84x13", w, h)
	}

	region := image.Rect(20, 24, 20+w, 24+h)
	if litIn(f, region) == 0 {
		t.Fatal("no pixels lit by text")
	}
	if lit := litIn(f, f.img.Bounds()) - litIn(f, region); lit != 0 {
		t.Fatalf("%d pixels lit outside the text box", lit)
	}

	f.ClearRegion(20, 24, w, h)
	if litIn(f, region) != 0 {
		t.Fatal("clear left pixels lit")
	}
}

func TestFramebufferLayout(t *testing.T) {
	f := NewFramebuffer()

	f.Rect(0, 0, Width, Height)
	f.HLine(0, Width-1, 20)

	for _, p := range []image.Point{{0, 0}, {Width - 1, 0}, {0, Height - 1}, {Width - 1, Height - 1}, {64, 20}} {
		if !f.Lit(p.X, p.Y) {
			t.Errorf("pixel %v not lit", p)
		}
	}
	if f.Lit(64, 10) {
		t.Error("pixel inside the frame lit")
	}

	f.Fill(false)
	if litIn(f, f.img.Bounds()) != 0 {
		t.Error("fill left pixels lit")
	}
}

func TestFramebufferFlush(t *testing.T) {
	good := &captureSink{}
	bad := &captureSink{err: errors.New("i2c timeout")}
	f := NewFramebuffer(bad, good)

	f.DrawText(0, 0, "x")
	if err := f.Flush(); !errors.Is(err, bad.err) {
		t.Fatalf("got %v, want %v", err, bad.err)
	}
	if len(good.frames) != 1 {
		t.Fatal("failing sink stopped the others")
	}

	f.Fill(false)
	frame := good.frames[0].(*image.Gray)
	var lit bool
	for _, p := range frame.Pix {
		if p != 0 {
			lit = true
		}
	}
	if !lit {
		t.Fatal("flushed frame changed after drawing continued")
	}
}

func TestStreamShow(t *testing.T) {
	s := NewStream()

	f := NewFramebuffer(s)
	f.DrawText(20, 24, "0 occupants")
	if err := f.Flush(); err != nil {
		t.Fatal(err)
	}
}
