package framebuffer

import (
	"fmt"
	"image/draw"
	"os"
	"syscall"

	"github.com/BeatGlow/panel/internal/ioctl"
	"github.com/BeatGlow/panel/pixel"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

type device struct {
	f      *os.File
	mem    []byte
	img    draw.Image
	format pixel.Format
}

// open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func open(name string) (*device, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	var (
		fd     = f.Fd()
		info   fixScreenInfo
		screen varScreenInfo
	)
	if err = ioctl.Do(fd, fbioGetFScreenInfo, &info); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Do(fd, fbioGetVScreenInfo, &screen); err != nil {
		_ = f.Close()
		return nil, err
	}

	format, err := parseFormat(screen.BitsPerPixel, screen.Red, screen.Green, screen.Blue, screen.Alpha)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	mem, err := syscall.Mmap(int(fd), 0, int(info.SmemLen), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	var (
		stride = int(info.LineLength)
		offset = int(screen.Yoffset)*stride + int(screen.Xoffset)*int((screen.BitsPerPixel+7)/8)
	)
	if offset > len(mem) {
		_ = syscall.Munmap(mem)
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: offset %d,%d outside of %d bytes of memory", screen.Xoffset, screen.Yoffset, len(mem))
	}
	img, err := newImage(format, mem[offset:], stride, int(screen.Xres), int(screen.Yres))
	if err != nil {
		_ = syscall.Munmap(mem)
		_ = f.Close()
		return nil, err
	}
	if !pixel.Valid(img) {
		_ = syscall.Munmap(mem)
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: %d bytes of memory is too small for %dx%d", len(mem), screen.Xres, screen.Yres)
	}

	return &device{
		f:      f,
		mem:    mem,
		img:    img,
		format: format,
	}, nil
}

// close unmaps the pixel memory and closes the device.
func (d *device) close() error {
	if err := syscall.Munmap(d.mem); err != nil {
		_ = d.f.Close()
		return err
	}
	return d.f.Close()
}

type fixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// varScreenInfo contains device independent changeable information about a frame buffer device and a specific video mode.
type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}
