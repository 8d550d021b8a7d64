package display

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil"
)

// MaxAutoScale caps the zoom picked for scale 0.
const MaxAutoScale = 8

// Monitor is one active RandR output.
type Monitor struct {
	Name   string
	X, Y   int
	Width  int
	Height int
}

// monitors lists the active CRTCs of the X screen.
func monitors(xu *xgbutil.XUtil) ([]Monitor, error) {
	if err := randr.Init(xu.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	resources, err := randr.GetScreenResources(xu.Conn(), xu.RootWin()).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var out []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		name := fmt.Sprintf("Monitor%d", i)
		if oi, err := randr.GetOutputInfo(xu.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(oi.Name)
		}
		out = append(out, Monitor{
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return out, nil
}

// fitScale returns the largest integer zoom at which m fits on every
// monitor, between 1 and MaxAutoScale. With no monitors it returns 1.
func fitScale(mons []Monitor, m Mode) int {
	if len(mons) == 0 || m.Width <= 0 || m.Height <= 0 {
		return 1
	}
	scale := MaxAutoScale
	for _, mon := range mons {
		scale = min(scale, mon.Width/m.Width, mon.Height/m.Height)
	}
	return max(scale, 1)
}
