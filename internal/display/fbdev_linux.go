package display

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/geom"
)

// <linux/fb.h> ioctls
const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// struct fb_var_screeninfo
type fbVarScreenInfo struct {
	XRes, YRes                 uint32
	XResVirtual, YResVirtual   uint32
	XOffset, YOffset           uint32
	BitsPerPixel               uint32
	Grayscale                  uint32
	Red, Green, Blue, Transp   fbBitfield
	NonStd                     uint32
	Activate                   uint32
	Height, Width              uint32
	AccelFlags                 uint32
	PixClock                   uint32
	LeftMargin, RightMargin    uint32
	UpperMargin, LowerMargin   uint32
	HSyncLen, VSyncLen         uint32
	Sync, VMode, Rotate, Space uint32
	Reserved                   [4]uint32
}

// struct fb_fix_screeninfo
type fbFixScreenInfo struct {
	ID           [16]byte
	SMemStart    uintptr
	SMemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// FBDev writes straight into a mapped Linux framebuffer device. The logical
// surface occupies the top-left corner of the physical screen.
type FBDev struct {
	file   *os.File
	mem    []byte
	vinfo  fbVarScreenInfo
	stride int
	bpp    int
	mode   Mode
	// pre-encoded palette entries in the device's pixel format
	encoded [colors.Usable]uint32
}

// OpenFBDev opens and maps path (default /dev/fb0).
func OpenFBDev(path string) (*FBDev, error) {
	if path == "" {
		path = "/dev/fb0"
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open framebuffer %s: %w", path, err)
	}

	fb := &FBDev{file: f}
	if err := ioctl(f, fbioGetVScreenInfo, unsafe.Pointer(&fb.vinfo)); err != nil {
		f.Close()
		return nil, fmt.Errorf("FBIOGET_VSCREENINFO on %s: %w", path, err)
	}
	var finfo fbFixScreenInfo
	if err := ioctl(f, fbioGetFScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		f.Close()
		return nil, fmt.Errorf("FBIOGET_FSCREENINFO on %s: %w", path, err)
	}

	fb.stride = int(finfo.LineLength)
	fb.bpp = int(fb.vinfo.BitsPerPixel) / 8
	switch fb.bpp {
	case 1, 2, 3, 4:
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported framebuffer depth %d bpp", fb.vinfo.BitsPerPixel)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(finfo.SMemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to map framebuffer %s: %w", path, err)
	}
	fb.mem = mem
	for i := range fb.encoded {
		fb.encoded[i] = fb.encode(colors.Index(i))
	}
	return fb, nil
}

func ioctl(f *os.File, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// SetMode checks that the kernel mode can hold m. Resolution changes are
// left to the kernel (fbset, video= boot args).
func (fb *FBDev) SetMode(m Mode) error {
	if int(fb.vinfo.XRes) < m.Width || int(fb.vinfo.YRes) < m.Height {
		return fmt.Errorf("framebuffer is %dx%d, need at least %dx%d", fb.vinfo.XRes, fb.vinfo.YRes, m.Width, m.Height)
	}
	fb.mode = m
	return nil
}

func (fb *FBDev) Bounds() geom.Bound { return fb.mode.Bounds() }

func (fb *FBDev) Poke(x, y int, c colors.Index) {
	x += int(fb.vinfo.XOffset)
	y += int(fb.vinfo.YOffset)
	off := y*fb.stride + x*fb.bpp
	if off < 0 || off+fb.bpp > len(fb.mem) {
		return
	}
	v := fb.encoded[int(c)%colors.Usable]
	for i := 0; i < fb.bpp; i++ {
		fb.mem[off+i] = byte(v >> (8 * i))
	}
}

// encode packs a palette color using the device's channel bitfields. At
// 8 bpp the index is written as-is and the hardware palette applies.
func (fb *FBDev) encode(i colors.Index) uint32 {
	if fb.bpp == 1 {
		return uint32(i)
	}
	rgb := colors.RGBA(i)
	pack := func(v uint8, f fbBitfield) uint32 {
		if f.Length == 0 {
			return 0
		}
		return (uint32(v) >> (8 - min(f.Length, 8))) << f.Offset
	}
	return pack(rgb.R, fb.vinfo.Red) | pack(rgb.G, fb.vinfo.Green) | pack(rgb.B, fb.vinfo.Blue)
}

func (fb *FBDev) Close() error {
	var err error
	if fb.mem != nil {
		err = unix.Munmap(fb.mem)
		fb.mem = nil
	}
	if cerr := fb.file.Close(); err == nil {
		err = cerr
	}
	return err
}
