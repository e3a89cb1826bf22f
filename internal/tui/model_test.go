package tui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"hexmap/internal/geom"
	"hexmap/internal/overlay"
)

const twoHexes = `[
 {"hex_id": "a", "count": 10, "corners": [[56.79,60.54],[56.80,60.54],[56.80,60.55],[56.79,60.55]]},
 {"hex_id": "b", "count": 200, "corners": [[56.79,60.55],[56.80,60.55],[56.80,60.56],[56.79,60.56]]}
]`

func writeDataset(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "hexes.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newModel() Model {
	l := quiet()
	return New(overlay.NewRenderer(overlay.WithLogger(l)), l)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func resize(t *testing.T, m Model) Model {
	return update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func TestLoadWaitsForFirstResize(t *testing.T) {
	l := quiet()
	m := NewWithPath(overlay.NewRenderer(overlay.WithLogger(l)), l, writeDataset(t, twoHexes))
	if len(m.layer.polys) != 0 {
		t.Fatalf("drawn before ready: %d", len(m.layer.polys))
	}
	if !strings.HasPrefix(m.status, "waiting for terminal") {
		t.Errorf("status = %q", m.status)
	}
	m = resize(t, m)
	if len(m.layer.polys) != 2 {
		t.Fatalf("after resize: %d polygons", len(m.layer.polys))
	}
	if m.status != "loaded: hexes.json  hexes=2" {
		t.Errorf("status = %q", m.status)
	}
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if len(m.layer.polys) != 2 {
		t.Errorf("second resize re-rendered: %d polygons", len(m.layer.polys))
	}
}

func TestLoadAfterReady(t *testing.T) {
	m := resize(t, newModel())
	p := writeDataset(t, twoHexes)
	m.loadPath(p)
	m.loadPath(p)
	if len(m.layer.polys) != 2 {
		t.Fatalf("got %d polygons", len(m.layer.polys))
	}
	first := m.layer.polys[0]
	if first.meta.Label != "hex a: 10 objects" {
		t.Errorf("label = %q", first.meta.Label)
	}
	if len(first.ring) != 5 || first.ring[0] != first.ring[4] {
		t.Errorf("ring not closed: %v", first.ring)
	}
}

func TestLoadRejectsBadCount(t *testing.T) {
	m := resize(t, newModel())
	m.loadPath(writeDataset(t, `[{"hex_id": "x", "count": 300, "corners": [[0,0],[0,1],[1,1]]}]`))
	if len(m.layer.polys) != 0 {
		t.Errorf("got %d polygons", len(m.layer.polys))
	}
	if !strings.HasPrefix(m.status, "render error:") {
		t.Errorf("status = %q", m.status)
	}
}

func cellOf(t *testing.T, m Model, c geom.Coord) (int, int) {
	t.Helper()
	lo := m.layout()
	p, ok := m.projection(lo.mapW, lo.mapH)
	if !ok {
		t.Fatal("no projection")
	}
	mx, my := p.micro(c)
	return lo.mapX + mx/2, lo.mapY + my/4
}

func TestClickShowsLabel(t *testing.T) {
	m := resize(t, newModel())
	m.loadPath(writeDataset(t, twoHexes))

	x, y := cellOf(t, m, geom.Coord{56.795, 60.555})
	m = update(t, m, tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if !strings.HasPrefix(m.inspectPopup, "hex b: 200 objects") {
		t.Fatalf("popup = %q", m.inspectPopup)
	}
	if !strings.Contains(m.inspectPopup, "fill: #c80037") {
		t.Errorf("popup = %q", m.inspectPopup)
	}
	if m.hoverHex != "hex b: 200 objects" {
		t.Errorf("hover = %q", m.hoverHex)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.inspectPopup != "" {
		t.Errorf("popup not closed: %q", m.inspectPopup)
	}

	lo := m.layout()
	m = update(t, m, tea.MouseMsg{X: lo.mapX, Y: lo.mapY, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.inspectPopup != "" || !strings.HasPrefix(m.status, "no hex at") {
		t.Errorf("popup = %q status = %q", m.inspectPopup, m.status)
	}
}

func TestInspectKeyUsesCenter(t *testing.T) {
	m := resize(t, newModel())
	m.loadPath(writeDataset(t, twoHexes))
	// the shared edge sits on the center column; shift onto hex a
	m.offsetX = 4
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	if !strings.HasPrefix(m.inspectPopup, "hex a: 10 objects") {
		t.Errorf("popup = %q", m.inspectPopup)
	}
}

func TestAttributesTable(t *testing.T) {
	m := resize(t, newModel())
	m.loadPath(writeDataset(t, twoHexes))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if !m.showAttrs {
		t.Fatal("attrs hidden")
	}
	rows := m.tbl.Rows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0][1] != "a" || rows[0][2] != "10" || rows[0][3] != "#0a00f5" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1][1] != "b" || rows[1][2] != "200" {
		t.Errorf("row 1 = %v", rows[1])
	}
}

func TestLayerOnReady(t *testing.T) {
	l := newLayer()
	n := 0
	l.OnReady(func() { n++ })
	if n != 0 {
		t.Fatal("ran before ready")
	}
	l.markReady()
	l.markReady()
	if n != 1 {
		t.Fatalf("ran %d times", n)
	}
	l.OnReady(func() { n++ })
	if n != 2 {
		t.Errorf("ready layer did not run immediately: %d", n)
	}
}

func TestLayerHitTopmost(t *testing.T) {
	l := newLayer()
	sq := geom.Closed([]geom.Coord{{0, 0}, {0, 2}, {2, 2}, {2, 0}})
	l.AddPolygon(sq, overlay.DefaultStyle(), overlay.Metadata{ID: "under"})
	l.AddPolygon(sq, overlay.DefaultStyle(), overlay.Metadata{ID: "over"})
	hp, ok := l.hit(geom.Coord{1, 1})
	if !ok || hp.meta.ID != "over" {
		t.Errorf("hit = %v %v", hp.meta.ID, ok)
	}
	if _, ok := l.hit(geom.Coord{3, 3}); ok {
		t.Error("hit outside")
	}
	if l.bbox != (geom.BBox{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}) {
		t.Errorf("bbox = %+v", l.bbox)
	}
}

func TestRenderMapDrawsBraille(t *testing.T) {
	m := resize(t, newModel())
	if out := m.renderMap(40, 10); strings.ContainsFunc(out, isBraille) {
		t.Error("empty layer drew glyphs")
	}
	m.loadPath(writeDataset(t, twoHexes))
	if out := m.renderMap(40, 10); !strings.ContainsFunc(out, isBraille) {
		t.Error("no braille glyphs")
	}
}

func isBraille(r rune) bool { return r > 0x2800 && r <= 0x28FF }

func TestDashPattern(t *testing.T) {
	if on, off := dashPattern(overlay.StrokeSolid); on != 0 || off != 0 {
		t.Errorf("solid = %d/%d", on, off)
	}
	if on, off := dashPattern(overlay.StrokeShortDash); on != 3 || off != 2 {
		t.Errorf("shortdash = %d/%d", on, off)
	}
	br := newBrailleBuf(10, 1)
	br.drawLineMicro(0, 0, 19, 0, "#0000ff", 3, 2)
	set := 0
	for _, v := range br.m[0] {
		for ; v != 0; v &= v - 1 {
			set++
		}
	}
	if set != 12 {
		t.Errorf("dashed line set %d pixels", set)
	}
}

func TestClipSpan(t *testing.T) {
	tests := []struct {
		x0, x1, w int
		lo, hi    int
	}{
		{-5, 3, 10, 0, 3},
		{2, 1 << 30, 10, 2, 9},
		{-1 << 30, 1 << 30, 10, 0, 9},
	}
	for _, tt := range tests {
		lo, hi := clipSpan(tt.x0, tt.x1, tt.w)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("clipSpan(%d, %d, %d) = %d, %d", tt.x0, tt.x1, tt.w, lo, hi)
		}
	}
	if lo, hi := clipSpan(12, 20, 10); lo <= hi {
		t.Errorf("off-screen span not empty: %d, %d", lo, hi)
	}

	// a hex far larger than the screen fills every cell
	br := newBrailleBuf(4, 2)
	ring := [][2]int{{-1 << 20, -1 << 20}, {1 << 20, -1 << 20}, {1 << 20, 1 << 20}, {-1 << 20, 1 << 20}, {-1 << 20, -1 << 20}}
	fillRing(br, ring, "#ff0000")
	for y, row := range br.m {
		for x, v := range row {
			if v != 0xFF {
				t.Fatalf("cell %d,%d = %#x", x, y, v)
			}
		}
	}
}
