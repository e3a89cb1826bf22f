package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"hexmap/internal/geom"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
		// the first size message makes the map ready and runs a queued pass
		if !m.layer.ready {
			m.layer.markReady()
			m.afterRender()
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			m.zoomIn()
		case "-", "_":
			m.zoomOut()
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
			}
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrsFromCurrent()
			}
		case "i":
			lo := m.layout()
			cx, cy := lo.mapW/2, lo.mapH/2
			if m.hovering {
				cx, cy = m.hoverCellX, m.hoverCellY
			}
			m.inspectCell(cx, cy)
		case "esc":
			m.inspectPopup = ""
		case "r":
			if m.selPath != "" {
				m.loadPath(m.selPath)
			}
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		lo := m.layout()
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, lo.contentH-2)
		}
		cx, cy := msg.X, msg.Y
		inMap := cx >= lo.mapX && cx < lo.mapX+lo.mapW && cy >= lo.mapY && cy < lo.mapY+lo.mapH
		if !inMap {
			m.hovering = false
			m.hoverHex = ""
			break
		}
		m.hovering = true
		m.hoverCellX = cx - lo.mapX
		m.hoverCellY = cy - lo.mapY
		m.hoverHex = ""
		if c, ok := m.cellToCoord(m.hoverCellX, m.hoverCellY, lo.mapW, lo.mapH); ok {
			m.hoverHasGeo = true
			m.hoverLon, m.hoverLat = c.Lon(), c.Lat()
			if hp, ok := m.layer.hit(c); ok {
				m.hoverHex = hp.meta.Label
			}
		} else {
			m.hoverHasGeo = false
		}
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.zoomIn()
		case msg.Button == tea.MouseButtonWheelDown:
			m.zoomOut()
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			m.inspectCell(m.hoverCellX, m.hoverCellY)
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) zoomIn() {
	if m.zoom < 64 {
		m.zoom *= 1.2
		m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
	}
}

func (m *Model) zoomOut() {
	if m.zoom > 0.05 {
		m.zoom /= 1.2
		m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
	}
}

// inspectCell opens the popup for the hex under a map cell, the terminal
// counterpart of a balloon.
func (m *Model) inspectCell(cx, cy int) {
	lo := m.layout()
	c, ok := m.cellToCoord(cx, cy, lo.mapW, lo.mapH)
	if !ok {
		m.inspectPopup = "nothing rendered"
		m.status = m.inspectPopup
		return
	}
	hp, ok := m.layer.hit(c)
	if !ok {
		m.inspectPopup = ""
		m.status = fmt.Sprintf("no hex at lat=%.5f lon=%.5f", c.Lat(), c.Lon())
		return
	}
	m.inspectPopup = popupText(hp)
	m.status = hp.meta.Label
}

func popupText(hp hexPolygon) string {
	center := hp.bbox.Center()
	lines := []string{
		hp.meta.Label,
		fmt.Sprintf("fill: %s  opacity: %.2f", hp.style.FillColor.Hex(), hp.style.Opacity),
		fmt.Sprintf("corners: %d", geom.DistinctCount(hp.ring)),
		fmt.Sprintf("center: lat=%.6f lon=%.6f", center.Lat(), center.Lon()),
	}
	return strings.Join(lines, "\n")
}
