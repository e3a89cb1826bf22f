// Package overlay turns a hex dataset into styled polygons on a map canvas.
package overlay

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hexmap/internal/geom"
	"hexmap/internal/hexes"
	"hexmap/internal/metrics"
)

// StrokeStyle names a dash pattern as understood by map widgets.
type StrokeStyle string

const (
	StrokeSolid     StrokeStyle = "solid"
	StrokeDash      StrokeStyle = "dash"
	StrokeShortDash StrokeStyle = "shortdash"
)

// Dashed reports whether s draws a broken line.
func (s StrokeStyle) Dashed() bool {
	return s != "" && s != StrokeSolid
}

// Style is the look of one polygon. Only FillColor varies per hex.
type Style struct {
	FillColor   RGB
	StrokeColor RGB
	Opacity     float64
	StrokeWidth int
	StrokeStyle StrokeStyle
}

// DefaultStyle is the fixed part of every hex style.
func DefaultStyle() Style {
	return Style{
		StrokeColor: MustParseRGB("#0000FF"),
		Opacity:     0.3,
		StrokeWidth: 1,
		StrokeStyle: StrokeShortDash,
	}
}

// Metadata travels with a polygon to the canvas popup.
type Metadata struct {
	Label string
	ID    string
	Count int
}

// Label formats the popup text for a hex.
func Label(id string, count int) string {
	return fmt.Sprintf("hex %s: %d objects", id, count)
}

// Canvas accepts polygons. Geometry is a closed ring of (lat, lon) pairs.
type Canvas interface {
	AddPolygon(geometry []geom.Coord, style Style, meta Metadata)
}

// ReadyCanvas is a Canvas that finishes initialising on its own schedule and
// runs fn once when it does.
type ReadyCanvas interface {
	Canvas
	OnReady(fn func())
}

// CountPolicy decides what happens to counts above MaxCount.
type CountPolicy int

const (
	// RejectOutOfRange fails the pass with ErrInvalidCount.
	RejectOutOfRange CountPolicy = iota
	// ClampOutOfRange draws the hex as if its count were MaxCount.
	ClampOutOfRange
)

// ParseCountPolicy reads "reject" or "clamp".
func ParseCountPolicy(s string) (CountPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return RejectOutOfRange, nil
	case "clamp":
		return ClampOutOfRange, nil
	}
	return 0, fmt.Errorf("unknown count policy %q", s)
}

func (p CountPolicy) String() string {
	if p == ClampOutOfRange {
		return "clamp"
	}
	return "reject"
}

// Renderer draws hex datasets. The zero value is not usable; use NewRenderer.
type Renderer struct {
	style  Style
	policy CountPolicy
	log    *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStyle sets the fixed stroke and opacity settings. FillColor is ignored.
func WithStyle(s Style) Option { return func(r *Renderer) { r.style = s } }

// WithCountPolicy sets the handling of counts above MaxCount.
func WithCountPolicy(p CountPolicy) Option { return func(r *Renderer) { r.policy = p } }

// WithLogger sets the logger for pass summaries.
func WithLogger(l *slog.Logger) Option { return func(r *Renderer) { r.log = l } }

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{style: DefaultStyle(), policy: RejectOutOfRange, log: slog.Default()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Style returns the fixed style applied to every hex.
func (r *Renderer) Style() Style { return r.style }

// Render submits one polygon per hex to c, in index order. The whole dataset
// is validated first: on error nothing is submitted.
func (r *Renderer) Render(d *hexes.Dataset, c Canvas) error {
	start := time.Now()
	fills, err := r.validate(d)
	if err != nil {
		metrics.RenderFailuresTotal.WithLabelValues(reason(err)).Inc()
		r.log.Error("render_rejected", "err", err)
		return err
	}
	n := d.Len()
	for i := 0; i < n; i++ {
		st := r.style
		st.FillColor = fills[i]
		rec := d.Record(i)
		c.AddPolygon(geom.Closed(rec.Corners), st, Metadata{
			Label: Label(rec.ID, rec.Count),
			ID:    rec.ID,
			Count: rec.Count,
		})
	}
	metrics.PolygonsTotal.Add(float64(n))
	metrics.RenderPassesTotal.Inc()
	dur := time.Since(start)
	metrics.RenderDurationMs.Observe(float64(dur.Microseconds()) / 1000)
	r.log.Info("render_done", "hexes", n, "duration_ms", dur.Milliseconds())
	return nil
}

// RenderOnReady defers Render until c signals readiness. done, if not nil,
// receives the result of the pass.
func (r *Renderer) RenderOnReady(d *hexes.Dataset, c ReadyCanvas, done func(error)) {
	c.OnReady(func() {
		err := r.Render(d, c)
		if done != nil {
			done(err)
		}
	})
}

// validate checks every row and returns the fill color of each hex.
func (r *Renderer) validate(d *hexes.Dataset) ([]RGB, error) {
	if !d.Aligned() {
		return nil, fmt.Errorf("%w: columns have %d corner0, %d corners, %d ids, %d counts",
			ErrInvalidDataset, len(d.Corner0), len(d.Corners), len(d.HexID), len(d.Count))
	}
	n := d.Len()
	fills := make([]RGB, n)
	for i := 0; i < n; i++ {
		rec := d.Record(i)
		if k := geom.DistinctCount(rec.Corners); k < 3 {
			return nil, fmt.Errorf("%w: hex %d (%s) has %d distinct corners", ErrInvalidGeometry, i, rec.ID, k)
		}
		ch, err := r.channel(rec.Count)
		if err != nil {
			return nil, fmt.Errorf("%w: hex %d (%s): %v", ErrInvalidCount, i, rec.ID, err)
		}
		fills[i] = ColorForCount(ch)
	}
	return fills, nil
}

func (r *Renderer) channel(count int) (uint8, error) {
	switch {
	case count < 0:
		return 0, fmt.Errorf("count %d is negative", count)
	case count > MaxCount && r.policy == ClampOutOfRange:
		return MaxCount, nil
	case count > MaxCount:
		return 0, fmt.Errorf("count %d exceeds %d", count, MaxCount)
	}
	return uint8(count), nil
}
