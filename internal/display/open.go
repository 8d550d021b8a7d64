package display

import (
	"fmt"
	"log"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFBDev  = "fbdev"
	BackendX11    = "x11"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Device  string // fbdev device path
	Scale   int    // x11 pixel scale
	Mode    Mode
}

// Open creates the requested device and programs its mode.
func Open(opts Options) (Device, error) {
	var (
		dev Device
		err error
	)
	switch opts.Backend {
	case "", BackendMemory:
		dev = NewMemory(opts.Mode)
	case BackendFBDev:
		dev, err = OpenFBDev(opts.Device)
	case BackendX11:
		dev, err = OpenX11(opts.Scale)
	default:
		return nil, fmt.Errorf("unknown display backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	if ms, ok := dev.(ModeSetter); ok {
		if err := ms.SetMode(opts.Mode); err != nil {
			dev.Close()
			return nil, fmt.Errorf("failed to set %dx%d mode on %s: %w", opts.Mode.Width, opts.Mode.Height, opts.Backend, err)
		}
	}
	log.Printf("Display %s ready (%dx%d, %d colors)", backendName(opts.Backend), opts.Mode.Width, opts.Mode.Height, opts.Mode.Colors)
	return dev, nil
}

func backendName(b string) string {
	if b == "" {
		return BackendMemory
	}
	return b
}
