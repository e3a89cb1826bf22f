package overlay

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"hexmap/internal/geom"
	"hexmap/internal/hexes"
)

type call struct {
	geometry []geom.Coord
	style    Style
	meta     Metadata
}

type recordingCanvas struct {
	calls []call
	ready func()
}

func (c *recordingCanvas) AddPolygon(g []geom.Coord, s Style, m Metadata) {
	c.calls = append(c.calls, call{g, s, m})
}

func (c *recordingCanvas) OnReady(fn func()) { c.ready = fn }

func quietRenderer(opts ...Option) *Renderer {
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return NewRenderer(opts...)
}

var unitSquare = []geom.Coord{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

func TestColorForCount(t *testing.T) {
	for c := 0; c <= MaxCount; c++ {
		got := ColorForCount(uint8(c))
		if int(got.R) != c || got.G != 0 || int(got.B) != 255-c {
			t.Fatalf("ColorForCount(%d) = %v", c, got)
		}
		if int(got.R)+int(got.B) != 255 {
			t.Fatalf("ColorForCount(%d): red+blue = %d", c, int(got.R)+int(got.B))
		}
	}
	if got := ColorForCount(0); got != (RGB{0, 0, 255}) || got.Hex() != "#0000ff" {
		t.Errorf("ColorForCount(0) = %v %s", got, got.Hex())
	}
	if got := ColorForCount(255); got != (RGB{255, 0, 0}) || got.Hex() != "#ff0000" {
		t.Errorf("ColorForCount(255) = %v %s", got, got.Hex())
	}
	if got := ColorForCount(10).Hex(); got != "#0a00f5" {
		t.Errorf("ColorForCount(10).Hex() = %s", got)
	}
}

func TestParseRGB(t *testing.T) {
	c, err := ParseRGB("#0000FF")
	if err != nil || c != (RGB{0, 0, 255}) {
		t.Fatalf("ParseRGB = %v, %v", c, err)
	}
	if _, err := ParseRGB("blue"); err == nil {
		t.Error("expected error for named color")
	}
}

func TestRenderSingleHex(t *testing.T) {
	d := hexes.FromRecords([]hexes.Record{{ID: "A", Count: 10, Corners: unitSquare}})
	var c recordingCanvas
	if err := quietRenderer().Render(d, &c); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(c.calls) != 1 {
		t.Fatalf("AddPolygon called %d times, want 1", len(c.calls))
	}
	got := c.calls[0]
	if got.style.FillColor != (RGB{10, 0, 245}) {
		t.Errorf("fill = %v", got.style.FillColor)
	}
	if got.meta.Label != "hex A: 10 objects" {
		t.Errorf("label = %q", got.meta.Label)
	}
	want := DefaultStyle()
	want.FillColor = RGB{10, 0, 245}
	if got.style != want {
		t.Errorf("style = %+v, want %+v", got.style, want)
	}
	if len(got.geometry) != 5 || got.geometry[4] != unitSquare[0] {
		t.Errorf("geometry not closed: %v", got.geometry)
	}
}

func TestRenderOrderAndCount(t *testing.T) {
	recs := make([]hexes.Record, 20)
	for i := range recs {
		recs[i] = hexes.Record{ID: string(rune('a' + i)), Count: i * 10, Corners: unitSquare}
	}
	var c recordingCanvas
	if err := quietRenderer().Render(hexes.FromRecords(recs), &c); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(c.calls) != len(recs) {
		t.Fatalf("AddPolygon called %d times, want %d", len(c.calls), len(recs))
	}
	for i, call := range c.calls {
		if call.meta.ID != recs[i].ID || call.meta.Count != recs[i].Count {
			t.Errorf("call %d = %+v, want hex %s", i, call.meta, recs[i].ID)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	var c recordingCanvas
	if err := quietRenderer().Render(hexes.FromRecords(nil), &c); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := quietRenderer().Render(nil, &c); err != nil {
		t.Fatalf("Render(nil): %v", err)
	}
	if len(c.calls) != 0 {
		t.Fatalf("AddPolygon called %d times", len(c.calls))
	}
}

func TestRenderFailsFast(t *testing.T) {
	good := hexes.Record{ID: "ok", Count: 1, Corners: unitSquare}
	tests := []struct {
		name string
		data *hexes.Dataset
		want error
	}{
		{
			name: "mismatched columns",
			data: &hexes.Dataset{
				Corners: [][]geom.Coord{unitSquare, unitSquare},
				HexID:   []string{"a", "b"},
				Count:   []int{1},
			},
			want: ErrInvalidDataset,
		},
		{
			name: "corner0 longer than data",
			data: &hexes.Dataset{
				Corner0: make([]geom.Coord, 3),
				Corners: [][]geom.Coord{unitSquare},
				HexID:   []string{"a"},
				Count:   []int{1},
			},
			want: ErrInvalidDataset,
		},
		{
			name: "two corners",
			data: hexes.FromRecords([]hexes.Record{good, {ID: "bad", Count: 1, Corners: unitSquare[:2]}}),
			want: ErrInvalidGeometry,
		},
		{
			name: "repeated corners",
			data: hexes.FromRecords([]hexes.Record{good, {ID: "bad", Count: 1, Corners: []geom.Coord{{0, 0}, {1, 1}, {0, 0}, {1, 1}}}}),
			want: ErrInvalidGeometry,
		},
		{
			name: "negative count",
			data: hexes.FromRecords([]hexes.Record{good, {ID: "bad", Count: -1, Corners: unitSquare}}),
			want: ErrInvalidCount,
		},
		{
			name: "count above 255",
			data: hexes.FromRecords([]hexes.Record{good, {ID: "bad", Count: 256, Corners: unitSquare}}),
			want: ErrInvalidCount,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var c recordingCanvas
			err := quietRenderer().Render(tc.data, &c)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if len(c.calls) != 0 {
				t.Errorf("AddPolygon called %d times after a validation error", len(c.calls))
			}
		})
	}
}

func TestRenderClampPolicy(t *testing.T) {
	d := hexes.FromRecords([]hexes.Record{{ID: "big", Count: 300, Corners: unitSquare}})
	var c recordingCanvas
	if err := quietRenderer(WithCountPolicy(ClampOutOfRange)).Render(d, &c); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(c.calls) != 1 || c.calls[0].style.FillColor != (RGB{255, 0, 0}) {
		t.Fatalf("calls = %+v", c.calls)
	}
	if c.calls[0].meta.Label != "hex big: 300 objects" {
		t.Errorf("label should keep the raw count: %q", c.calls[0].meta.Label)
	}

	d = hexes.FromRecords([]hexes.Record{{ID: "neg", Count: -5, Corners: unitSquare}})
	err := quietRenderer(WithCountPolicy(ClampOutOfRange)).Render(d, &c)
	if !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("negative count under clamp: err = %v", err)
	}
}

func TestRenderCustomStyle(t *testing.T) {
	st := Style{FillColor: RGB{1, 2, 3}, StrokeColor: RGB{9, 9, 9}, Opacity: 0.5, StrokeWidth: 2, StrokeStyle: StrokeSolid}
	d := hexes.FromRecords([]hexes.Record{{ID: "A", Count: 0, Corners: unitSquare}})
	var c recordingCanvas
	if err := quietRenderer(WithStyle(st)).Render(d, &c); err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := c.calls[0].style
	if got.FillColor != (RGB{0, 0, 255}) || got.StrokeColor != st.StrokeColor || got.Opacity != 0.5 || got.StrokeStyle.Dashed() {
		t.Errorf("style = %+v", got)
	}
}

func TestRenderOnReady(t *testing.T) {
	d := hexes.FromRecords([]hexes.Record{{ID: "A", Count: 1, Corners: unitSquare}})
	var c recordingCanvas
	var result error = errors.New("not called")
	quietRenderer().RenderOnReady(d, &c, func(err error) { result = err })
	if len(c.calls) != 0 {
		t.Fatal("rendered before the canvas was ready")
	}
	if c.ready == nil {
		t.Fatal("no ready callback registered")
	}
	c.ready()
	if result != nil || len(c.calls) != 1 {
		t.Fatalf("after ready: err = %v, calls = %d", result, len(c.calls))
	}
}

func TestParseCountPolicy(t *testing.T) {
	for in, want := range map[string]CountPolicy{"": RejectOutOfRange, "reject": RejectOutOfRange, "Clamp": ClampOutOfRange} {
		got, err := ParseCountPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseCountPolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseCountPolicy("wrap"); err == nil {
		t.Error("expected error")
	}
}
