// Package pixel implements a color and image library suitable for OLED and LCD pixel displays.
//
// This module provides additional color models, compatible with Go's native [color.Color] and
// [image.Image] / [draw.Image] interfaces, and the raster operations used by the display
// frame buffers: [Blank], [Copy], [Paste] and [Rotate].
package pixel
