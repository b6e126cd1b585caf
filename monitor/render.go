package monitor

import (
	"fmt"
	"sync"

	"github.com/gloworm-vision/labaccess/hardware"
	"github.com/gloworm-vision/labaccess/occupancy"
)

// Screen positions of the regions the renderer owns.
const (
	occupancyX, occupancyY = 20, 24
	statusX, statusY       = 8, 44
	titleX, titleY         = 20, 4

	lineHeight = 13
	screenW    = 128
	screenH    = 64
)

// DefaultTitle is drawn in the header when no title is configured.
const DefaultTitle = "LAB A"

// RenderState is what the display currently shows.
type RenderState struct {
	Occupancy int              `json:"occupancy"`
	Status    occupancy.Status `json:"status"`
}

// OccupancyText is the occupancy line of the display.
func (r RenderState) OccupancyText() string {
	return fmt.Sprintf("%d occupants", r.Occupancy)
}

// StatusText is the status line of the display.
func (r RenderState) StatusText() string {
	return "Status: " + r.Status.Label()
}

// framer describes displays that can draw the static screen layout.
type framer interface {
	Rect(x, y, w, h int)
	HLine(x0, x1, y int)
}

// Renderer owns the display. Every drawing operation happens while holding
// its mutex, so the occupancy and status lines always show one sample.
type Renderer struct {
	Display hardware.TextDisplay

	mu   sync.Mutex
	last RenderState
}

func NewRenderer(display hardware.TextDisplay) *Renderer {
	return &Renderer{Display: display}
}

// Layout draws the frame, the separators and the title, then the current
// state.
func (r *Renderer) Layout(title string, n int) error {
	if title == "" {
		title = DefaultTitle
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.Display.ClearRegion(0, 0, screenW, screenH)
	if f, ok := r.Display.(framer); ok {
		f.Rect(0, 0, screenW, screenH)
		f.HLine(0, screenW-1, 20)
		f.HLine(0, screenW-1, 40)
	}
	r.Display.DrawText(titleX, titleY, title)

	_, err := r.draw(n)
	return err
}

// Refresh reads the counter and draws it. The read happens inside the
// critical section, so a concurrent writer can't draw an older sample over a
// newer one.
func (r *Renderer) Refresh(c *occupancy.Counter) (RenderState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.draw(c.Read())
}

// Render draws n regardless of the counter.
func (r *Renderer) Render(n int) (RenderState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.draw(n)
}

// Last returns the state drawn by the latest render.
func (r *Renderer) Last() RenderState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.last
}

// draw must be called with mu held.
func (r *Renderer) draw(n int) (RenderState, error) {
	state := RenderState{Occupancy: n, Status: occupancy.StatusOf(n)}

	r.Display.ClearRegion(occupancyX, occupancyY, screenW-occupancyX-4, lineHeight)
	r.Display.ClearRegion(statusX, statusY, screenW-statusX-4, lineHeight)
	r.Display.DrawText(occupancyX, occupancyY, state.OccupancyText())
	r.Display.DrawText(statusX, statusY, state.StatusText())

	r.last = state

	if err := r.Display.Flush(); err != nil {
		return state, fmt.Errorf("unable to flush display: %w", err)
	}

	return state, nil
}
