package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/ipc"
	"github.com/1broseidon/quadwm/internal/tui"
)

// snapshotImage wraps snapshot pixels in a paletted image using the display
// palette.
func snapshotImage(snap *ipc.SnapshotData) (*image.Paletted, error) {
	if len(snap.Pixels) != snap.Width*snap.Height {
		return nil, fmt.Errorf("snapshot has %d pixels, want %dx%d", len(snap.Pixels), snap.Width, snap.Height)
	}
	img := image.NewPaletted(image.Rect(0, 0, snap.Width, snap.Height), colors.Palette())
	copy(img.Pix, snap.Pixels)
	return img, nil
}

func writeSnapshotPNG(w io.Writer, snap *ipc.SnapshotData) error {
	img, err := snapshotImage(snap)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func runSnapshot(args []string) int {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := socketFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quadwm snapshot <file.png|->")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	snap, err := newClient(*socket).Snapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if fs.Arg(0) == "-" {
		if err := writeSnapshotPNG(os.Stdout, snap); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	f, err := os.Create(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := writeSnapshotPNG(f, snap); err != nil {
		f.Close()
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := f.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("wrote %dx%d snapshot to %s\n", snap.Width, snap.Height, fs.Arg(0))
	return 0
}

func runView(args []string) int {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := socketFlag(fs)
	interval := fs.Duration("interval", tui.DefaultInterval, "Refresh interval")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quadwm view [--interval DURATION]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the daemon's display live in the terminal.")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if *interval < 10*time.Millisecond {
		fmt.Fprintln(os.Stderr, "interval must be at least 10ms")
		return 2
	}
	if err := tui.Run(newClient(*socket), *interval); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
