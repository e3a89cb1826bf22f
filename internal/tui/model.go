package tui

import (
	"log/slog"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"hexmap/internal/overlay"
)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	renderer *overlay.Renderer
	layer    *layer
	log      *slog.Logger

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64
	hoverHex    string

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(r *overlay.Renderer, log *slog.Logger) Model {
	m := Model{
		showSidebar: false,
		helpVisible: true,
		zoom:        1.0,
		status:      "hexmap ready",
		renderer:    r,
		layer:       newLayer(),
		log:         log,
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Datasets"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a dataset; it is drawn once the terminal is ready.
func NewWithPath(r *overlay.Renderer, log *slog.Logger, path string) Model {
	m := New(r, log)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }
