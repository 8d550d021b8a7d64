package display

import (
	"fmt"
	"image"
	"log"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/geom"
)

// X11 previews the display in a window on an X server. Every logical pixel
// is drawn as a Scale x Scale block.
type X11 struct {
	xu    *xgbutil.XUtil
	img   *xgraphics.Image
	win   *xwindow.Window
	mode  Mode
	scale int
}

// OpenX11 connects to $DISPLAY. The window is created by SetMode. A scale
// of 0 picks the largest zoom that fits the attached monitors.
func OpenX11(scale int) (*X11, error) {
	if scale < 0 {
		scale = 1
	}
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	return &X11{xu: xu, scale: scale}, nil
}

// SetMode creates and maps the preview window sized for m.
func (d *X11) SetMode(m Mode) error {
	if d.win != nil {
		return fmt.Errorf("x11 mode already set")
	}
	d.mode = m
	if d.scale == 0 {
		mons, err := monitors(d.xu)
		if err != nil {
			log.Printf("Warning: %v; using scale 1", err)
		}
		d.scale = fitScale(mons, m)
	}
	d.img = xgraphics.New(d.xu, image.Rect(0, 0, m.Width*d.scale, m.Height*d.scale))
	d.win = d.img.XShowExtra("quadwm", true)
	go xevent.Main(d.xu)
	return nil
}

func (d *X11) Bounds() geom.Bound { return d.mode.Bounds() }

func (d *X11) Poke(x, y int, c colors.Index) {
	rgb := colors.RGBA(c)
	px := xgraphics.BGRA{B: rgb.B, G: rgb.G, R: rgb.R, A: 0xff}
	for dy := 0; dy < d.scale; dy++ {
		for dx := 0; dx < d.scale; dx++ {
			d.img.SetBGRA(x*d.scale+dx, y*d.scale+dy, px)
		}
	}
}

// Flush uploads the image and repaints the window.
func (d *X11) Flush() error {
	if d.win == nil {
		return nil
	}
	d.img.XDraw()
	d.img.XPaint(d.win.Id)
	return nil
}

func (d *X11) Close() error {
	if d.win != nil {
		d.win.Destroy()
	}
	if d.img != nil {
		d.img.Destroy()
	}
	xevent.Quit(d.xu)
	d.xu.Conn().Close()
	return nil
}
