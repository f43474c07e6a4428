//go:build !linux

package framebuffer

import (
	"image/draw"

	"github.com/BeatGlow/panel/pixel"
)

type device struct {
	img    draw.Image
	format pixel.Format
}

func open(string) (*device, error) {
	return nil, ErrNotSupported
}

func (*device) close() error {
	return nil
}
