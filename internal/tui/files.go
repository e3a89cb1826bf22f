package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"hexmap/internal/hexes"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !hexes.Supported(name) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no hex datasets in current directory"
	}
}

// loadPath reads a dataset and starts a render pass on a cleared layer. The
// pass runs now if the terminal is ready, otherwise on the first resize.
func (m *Model) loadPath(p string) {
	d, err := hexes.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		m.log.Error("dataset_load_error", "path", p, "err", err)
		return
	}
	m.selPath = p
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.inspectPopup = ""
	m.layer.reset()
	name := filepath.Base(p)
	bb := d.BBox()
	m.log.Info("dataset_loaded", "path", p, "hexes", d.Len(),
		"bbox", fmt.Sprintf("%.5f,%.5f,%.5f,%.5f", bb.MinX, bb.MinY, bb.MaxX, bb.MaxY))
	lay := m.layer
	m.renderer.RenderOnReady(d, lay, func(err error) {
		lay.report(name, d.Len(), err)
	})
	if lay.ready {
		m.afterRender()
	} else {
		m.status = "waiting for terminal: " + name
	}
}

// afterRender copies the pass outcome into the model.
func (m *Model) afterRender() {
	if m.layer.status != "" {
		m.status = m.layer.status
	}
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}
