package display

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/hybridgroup/mjpeg"
)

// Stream mirrors frames to an MJPEG stream, scaled up so the 128x64 panel is
// readable in a browser.
type Stream struct {
	Stream *mjpeg.Stream
	Scale  int
}

var _ Sink = &Stream{}

func NewStream() *Stream {
	return &Stream{Stream: mjpeg.NewStream(), Scale: 4}
}

func (s *Stream) Show(img image.Image) error {
	scale := s.Scale
	if scale < 1 {
		scale = 1
	}

	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < out.Rect.Dy(); y++ {
		for x := 0; x < out.Rect.Dx(); x++ {
			out.Set(x, y, img.At(b.Min.X+x/scale, b.Min.Y+y/scale))
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	s.Stream.UpdateJPEG(buf.Bytes())

	return nil
}
