// Package draw has drawing primitives for display frames: lines, boxes, text and the test
// pattern of the panel command.
package draw

import "image/draw"

// Image is an alias for [image/draw.Image].
type Image = draw.Image
