// Package tui renders a live view of the daemon's display in the terminal.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/ipc"
)

// DefaultInterval is how often the viewer polls the daemon.
const DefaultInterval = 250 * time.Millisecond

// Source is the part of the IPC client the viewer needs.
type Source interface {
	Snapshot() (*ipc.SnapshotData, error)
	ListWindows() (*ipc.WindowsData, error)
	GetStatus() (*ipc.StatusData, error)
}

type tickMsg time.Time

type frameMsg struct {
	snap    *ipc.SnapshotData
	windows *ipc.WindowsData
	status  *ipc.StatusData
	err     error
}

type model struct {
	src      Source
	interval time.Duration

	snap    *ipc.SnapshotData
	windows *ipc.WindowsData
	status  *ipc.StatusData
	err     error

	width  int
	height int
}

func newModel(src Source, interval time.Duration) model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return model{src: src, interval: interval}
}

func (m model) fetch() tea.Cmd {
	src := m.src
	return func() tea.Msg {
		var f frameMsg
		f.status, f.err = src.GetStatus()
		if f.err != nil {
			return f
		}
		if f.snap, f.err = src.Snapshot(); f.err != nil {
			return f
		}
		f.windows, f.err = src.ListWindows()
		return f
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.fetch()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetch()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		return m, m.fetch()
	case frameMsg:
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
			m.windows = msg.windows
			m.status = msg.status
		}
		return m, m.tick()
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(renderStatusBar(m.status, m.err, m.width))
	sb.WriteString("\n")
	if m.snap != nil {
		sb.WriteString(renderScreen(m.snap, m.width, m.height-4))
		sb.WriteString("\n")
	}
	if m.windows != nil {
		sb.WriteString(renderWindowList(m.windows))
	}
	sb.WriteString(renderHelpBar(m.width))
	return sb.String()
}

// renderScreen draws two display rows per terminal line using the upper half
// block: foreground is the top pixel, background the bottom one. Pixels
// beyond maxCols columns or 2*maxRows rows are cropped; zero means no limit.
func renderScreen(snap *ipc.SnapshotData, maxCols, maxRows int) string {
	w, h := snap.Width, snap.Height
	if maxCols > 0 && w > maxCols {
		w = maxCols
	}
	if maxRows > 0 && h > 2*maxRows {
		h = 2 * maxRows
	}

	styles := make(map[[2]byte]lipgloss.Style)
	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := snap.Pixels[y*snap.Width+x]
			bottom := top
			if y+1 < snap.Height {
				bottom = snap.Pixels[(y+1)*snap.Width+x]
			}
			key := [2]byte{top, bottom}
			st, ok := styles[key]
			if !ok {
				st = lipgloss.NewStyle().
					Foreground(lipgloss.Color(paletteHex(snap, top))).
					Background(lipgloss.Color(paletteHex(snap, bottom)))
				styles[key] = st
			}
			sb.WriteString(st.Render("▀"))
		}
		if y+2 < h {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func paletteHex(snap *ipc.SnapshotData, idx byte) string {
	if int(idx) < len(snap.Palette) {
		return snap.Palette[idx]
	}
	return "#000000"
}

func renderStatusBar(status *ipc.StatusData, err error, width int) string {
	var line string
	switch {
	case err != nil:
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("●")
		line = dot + " " + err.Error()
	case status == nil:
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		line = dot + " connecting"
	default:
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		line = fmt.Sprintf("%s %s %dx%d  windows:%d  rebuilds:%d  renders:%d  policy:%s",
			dot, status.Backend, status.Width, status.Height,
			status.Stats.Windows, status.Stats.Rebuilds, status.Stats.Renders, status.Stats.Policy)
	}
	style := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(line)
}

func renderWindowList(data *ipc.WindowsData) string {
	if len(data.Windows) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("no windows") + "\n"
	}
	var sb strings.Builder
	for _, w := range data.Windows {
		swatch := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.Hex(w.Color))).
			Render("■")
		fmt.Fprintf(&sb, "%s %3d %-16q canvas %dx%d at %d,%d  nodes %d hidden %d\n",
			swatch, w.ID, w.Title, w.Canvas.Width, w.Canvas.Height, w.Canvas.X, w.Canvas.Y,
			w.Tree.Nodes, w.Tree.HiddenLeaves)
	}
	return sb.String()
}

func renderHelpBar(width int) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render("r: refresh  q/ctrl-c: quit")
}

// Run starts the viewer and blocks until the user quits.
func Run(src Source, interval time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("viewer requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	p := tea.NewProgram(newModel(src, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
