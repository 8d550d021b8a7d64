package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/quadwm/internal/compositor"
	"github.com/1broseidon/quadwm/internal/ipc"
)

type fakeSource struct {
	snap *ipc.SnapshotData
	err  error
}

func (f *fakeSource) Snapshot() (*ipc.SnapshotData, error) { return f.snap, f.err }

func (f *fakeSource) ListWindows() (*ipc.WindowsData, error) {
	return &ipc.WindowsData{Windows: []compositor.WindowInfo{{ID: 3, Title: "term"}}}, f.err
}

func (f *fakeSource) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{Backend: "memory", Width: 4, Height: 3, DaemonRunning: true}, nil
}

func testSnapshot() *ipc.SnapshotData {
	return &ipc.SnapshotData{
		Width:   4,
		Height:  3,
		Pixels:  []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		Palette: []string{"#000000", "#0000aa", "#00aa00"},
	}
}

func TestRenderScreen_HalfBlocks(t *testing.T) {
	out := renderScreen(testSnapshot(), 0, 0)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("3 pixel rows should fold into 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if got := strings.Count(line, "▀"); got != 4 {
			t.Fatalf("line %d has %d cells, want 4", i, got)
		}
	}
}

func TestRenderScreen_Crops(t *testing.T) {
	out := renderScreen(testSnapshot(), 2, 1)
	if strings.Contains(out, "\n") {
		t.Fatalf("expected a single line, got %q", out)
	}
	if got := strings.Count(out, "▀"); got != 2 {
		t.Fatalf("cropped line has %d cells, want 2", got)
	}
}

func TestPaletteHex_OutOfRange(t *testing.T) {
	snap := testSnapshot()
	if got := paletteHex(snap, 2); got != "#00aa00" {
		t.Fatalf("paletteHex(2) = %q", got)
	}
	if got := paletteHex(snap, 40); got != "#000000" {
		t.Fatalf("paletteHex(40) = %q", got)
	}
}

func TestModel_FetchAndView(t *testing.T) {
	m := newModel(&fakeSource{snap: testSnapshot()}, 0)
	msg := m.Init()()
	next, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("a frame should schedule the next tick")
	}
	view := next.(model).View()
	for _, want := range []string{"memory 4x3", "term", "▀", "q/ctrl-c"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_ErrorKeepsLastFrame(t *testing.T) {
	src := &fakeSource{snap: testSnapshot()}
	m := newModel(src, 0)
	next, _ := m.Update(m.Init()())

	src.err = errors.New("daemon not running")
	next, _ = next.Update(next.(model).fetch()())
	got := next.(model)
	if got.snap == nil {
		t.Fatal("error should not discard the last snapshot")
	}
	if !strings.Contains(got.View(), "daemon not running") {
		t.Fatal("status bar should show the error")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newModel(&fakeSource{}, 0)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should return tea.Quit")
	}
}
