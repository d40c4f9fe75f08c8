package sketch

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"nadebook/pkg/geometry"
)

// CaptureConfig tunes the stroke capture engine.
type CaptureConfig struct {
	// NativeSize bounds the accepted coordinate space; points outside
	// [0, NativeSize] on either axis are rejected outright.
	NativeSize float64

	// MinPointDistance is the decimation threshold: a point closer than
	// this to the last accepted raw point is dropped.
	MinPointDistance float64

	// SmoothingWindow is the length of the trailing moving average applied
	// to raw points before they become visible stroke points.
	SmoothingWindow int
}

// DefaultCaptureConfig returns the standard capture tuning for the given
// native space size.
func DefaultCaptureConfig(nativeSize float64) CaptureConfig {
	return CaptureConfig{
		NativeSize:       nativeSize,
		MinPointDistance: 2.0,
		SmoothingWindow:  4,
	}
}

// Capture incrementally builds one stroke from a pointer-down/move/up
// sequence. It is idle until Start succeeds and returns to idle on Finish
// or Cancel. The engine keeps the raw accepted points (the smoothing
// source) separate from the smoothed points it publishes on the live
// stroke.
type Capture struct {
	cfg CaptureConfig

	raw  []geometry.Point2D
	live *Stroke
}

// NewCapture creates an idle capture engine.
func NewCapture(cfg CaptureConfig) *Capture {
	if cfg.SmoothingWindow < 1 {
		cfg.SmoothingWindow = 1
	}
	return &Capture{cfg: cfg}
}

// SetNativeSize adjusts the accepted coordinate space, used when switching
// to a map with a different native resolution. Non-positive values are
// ignored. Any capture in progress keeps running; its remaining points are
// judged against the new bounds.
func (c *Capture) SetNativeSize(n float64) {
	if n > 0 {
		c.cfg.NativeSize = n
	}
}

// Active reports whether a stroke is being captured.
func (c *Capture) Active() bool {
	return c.live != nil
}

// Live returns the in-progress stroke for rendering, or nil when idle.
// Callers must not mutate it; ownership stays with the engine until Finish.
func (c *Capture) Live() *Stroke {
	return c.live
}

// Start begins a new stroke at the given native point with the given pen
// width. It reports false, staying idle, if a capture is already active or
// the point is out of bounds.
func (c *Capture) Start(p geometry.Point2D, width float64) bool {
	if c.live != nil || !c.inBounds(p) {
		return false
	}
	c.raw = append(c.raw[:0], p)
	c.live = &Stroke{
		ID:     uuid.NewString(),
		Tool:   ToolPen,
		Width:  width,
		Points: []float64{p.X, p.Y},
	}
	return true
}

// Append records a pointer movement. The point is dropped, reporting false,
// when idle, out of bounds, or within the decimation threshold of the last
// raw point. Accepted points are smoothed with a trailing moving average
// over the last min(SmoothingWindow, rawCount) raw points before being
// appended to the live stroke.
func (c *Capture) Append(p geometry.Point2D) bool {
	if c.live == nil || !c.inBounds(p) {
		return false
	}
	last := c.raw[len(c.raw)-1]
	if p.Distance(last) < c.cfg.MinPointDistance {
		return false
	}

	c.raw = append(c.raw, p)
	smoothed := c.smoothTail()
	c.live.Points = append(c.live.Points, smoothed.X, smoothed.Y)
	return true
}

// Finish completes the capture and returns the finalized stroke. It reports
// false when no capture is active. The engine is idle afterwards.
func (c *Capture) Finish() (Stroke, bool) {
	if c.live == nil {
		return Stroke{}, false
	}
	done := *c.live
	c.reset()
	return done, true
}

// Cancel discards the in-progress stroke, if any. Used when the interaction
// mode changes away from drawing mid-gesture.
func (c *Capture) Cancel() {
	c.reset()
}

func (c *Capture) reset() {
	c.raw = c.raw[:0]
	c.live = nil
}

func (c *Capture) inBounds(p geometry.Point2D) bool {
	return p.X >= 0 && p.X <= c.cfg.NativeSize &&
		p.Y >= 0 && p.Y <= c.cfg.NativeSize
}

// smoothTail averages the trailing window of raw points.
func (c *Capture) smoothTail() geometry.Point2D {
	window := c.cfg.SmoothingWindow
	if len(c.raw) < window {
		window = len(c.raw)
	}
	tail := c.raw[len(c.raw)-window:]

	xs := make([]float64, len(tail))
	ys := make([]float64, len(tail))
	for i, pt := range tail {
		xs[i] = pt.X
		ys[i] = pt.Y
	}
	return geometry.NewPoint2D(stat.Mean(xs, nil), stat.Mean(ys, nil))
}
