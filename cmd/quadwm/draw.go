package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/1broseidon/quadwm/internal/ipc"
)

// intArgs parses exactly len(names) positional integers.
func intArgs(fs *flag.FlagSet, names ...string) ([]int, error) {
	if fs.NArg() != len(names) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(names), fs.NArg())
	}
	out := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(fs.Arg(i))
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, fs.Arg(i), err)
		}
		out[i] = v
	}
	return out, nil
}

func parseWindowID(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	return uint32(v), nil
}

func reportApplied(applied bool, id uint32) int {
	if !applied {
		fmt.Printf("window %d: no change\n", id)
		return 0
	}
	fmt.Println("ok")
	return 0
}

func runCreate(args []string) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := socketFlag(fs)
	title := fs.String("title", "", "Window title")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quadwm create [--title TITLE] <x> <y> <width> <height>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Create a window whose canvas starts at (x, y). Prints the window id.")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	v, err := intArgs(fs, "x", "y", "width", "height")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return 2
	}

	id, err := newClient(*socket).CreateWindow(ipc.CreateWindowPayload{
		X: v[0], Y: v[1], Width: v[2], Height: v[3], Title: *title,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(id)
	return 0
}

func runPixel(args []string) int {
	fs := flag.NewFlagSet("pixel", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := socketFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quadwm pixel <window> <x> <y> <color>")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	v, err := intArgs(fs, "window", "x", "y", "color")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return 2
	}
	id := uint32(v[0])
	applied, err := newClient(*socket).DrawPixel(ipc.DrawPixelPayload{WindowID: id, X: v[1], Y: v[2], Color: v[3]})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return reportApplied(applied, id)
}

func runLine(args []string) int {
	fs := flag.NewFlagSet("line", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := socketFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quadwm line <window> <x0> <y0> <x1> <y1> <color>")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	v, err := intArgs(fs, "window", "x0", "y0", "x1", "y1", "color")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return 2
	}
	id := uint32(v[0])
	applied, err := newClient(*socket).DrawLine(ipc.DrawLinePayload{
		WindowID: id, X0: v[1], Y0: v[2], X1: v[3], Y1: v[4], Color: v[5],
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return reportApplied(applied, id)
}

func runText(args []string) int {
	fs := flag.NewFlagSet("text", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := socketFlag(fs)
	fg := fs.Int("fg", 15, "Foreground color index")
	bg := fs.Int("bg", 0, "Background color index")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quadwm text [--fg N] [--bg N] <window> <x> <y> <text>")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 4 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	x, errX := strconv.Atoi(fs.Arg(1))
	y, errY := strconv.Atoi(fs.Arg(2))
	if errX != nil || errY != nil {
		fmt.Fprintln(os.Stderr, "x and y must be integers")
		return 2
	}

	applied, err := newClient(*socket).DrawText(ipc.DrawTextPayload{
		WindowID: id, X: x, Y: y, BG: *bg, FG: *fg, Text: fs.Arg(3),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return reportApplied(applied, id)
}

func runRaise(args []string) int {
	fs := flag.NewFlagSet("raise", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := socketFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quadwm raise <window>")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	applied, err := newClient(*socket).RaiseWindow(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return reportApplied(applied, id)
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := socketFlag(fs)
	jsonOut := fs.Bool("json", false, "Print JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	data, err := newClient(*socket).ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data.Windows); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if len(data.Windows) == 0 {
		fmt.Println("no windows")
		return 0
	}
	fmt.Printf("%-4s %-4s %-20s %-18s %-6s %s\n", "POS", "ID", "TITLE", "CANVAS", "NODES", "HIDDEN")
	for _, w := range data.Windows {
		canvas := fmt.Sprintf("%dx%d+%d+%d", w.Canvas.Width, w.Canvas.Height, w.Canvas.X, w.Canvas.Y)
		fmt.Printf("%-4d %-4d %-20s %-18s %-6d %d\n", w.Position, w.ID, w.Title, canvas, w.Tree.Nodes, w.Tree.HiddenLeaves)
	}
	return 0
}

func runOccluded(args []string) int {
	fs := flag.NewFlagSet("occluded", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := socketFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quadwm occluded <window> <x> <y>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Report whether screen pixel (x, y) of a window is covered by a window above it.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	v, err := intArgs(fs, "window", "x", "y")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return 2
	}
	res, err := newClient(*socket).QueryOcclusion(ipc.QueryOcclusionPayload{WindowID: uint32(v[0]), X: v[1], Y: v[2]})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !res.Known {
		fmt.Fprintf(os.Stderr, "window %d not found\n", v[0])
		return 1
	}
	fmt.Println(res.Occluded)
	return 0
}
