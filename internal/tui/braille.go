package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type brailleBuf struct {
	w, h  int        // in cells
	m     [][]uint8  // per-cell 8-bit mask
	col   [][]string // per-cell foreground, last writer wins
	glyph [][]rune   // per-cell override drawn instead of the mask
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	col := make([][]string, h)
	glyph := make([][]rune, h)
	for i := range m {
		m[i] = make([]uint8, w)
		col[i] = make([]string, w)
		glyph[i] = make([]rune, w)
	}
	return &brailleBuf{w: w, h: h, m: m, col: col, glyph: glyph}
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell) and colors its cell
func (b *brailleBuf) setPixel(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	b.m[cy][cx] |= bit
	if color != "" {
		b.col[cy][cx] = color
	}
}

// drawLineMicro draws a line on the microgrid using Bresenham. With on > 0 the
// line is dashed: on pixels drawn, off pixels skipped.
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, color string, on, off int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for step := 0; ; step++ {
		if on <= 0 || step%(on+off) < on {
			b.setPixel(x0, y0, color)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// mark replaces a cell with a colored glyph
func (b *brailleBuf) mark(cx, cy int, r rune, color string) {
	if cx < 0 || cy < 0 || cx >= b.w || cy >= b.h {
		return
	}
	b.glyph[cy][cx] = r
	b.col[cy][cx] = color
}

// toLines renders each row, grouping runs of equal color into one style.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		var run []rune
		runCol := ""
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runCol == "" {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runCol)).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			r := ' '
			c := ""
			switch {
			case b.glyph[y][x] != 0:
				r, c = b.glyph[y][x], b.col[y][x]
			case b.m[y][x] != 0:
				r, c = rune(0x2800+int(b.m[y][x])), b.col[y][x]
			}
			if c != runCol {
				flush()
				runCol = c
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}
