package pixel

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by most image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func (p *Buffer) clone() Buffer {
	pix := make([]byte, len(p.Pix))
	copy(pix, p.Pix)
	return Buffer{
		Rect:   p.Rect,
		Pix:    pix,
		Stride: p.Stride,
	}
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// MonoImage is a 1-bit per pixel monochrome image.
type MonoImage struct {
	Buffer
}

func NewMonoImage(w, h int) *MonoImage {
	stride := ((w + 7) & ^7) / 8 // round up to whole bytes
	return &MonoImage{
		Buffer: makeBuffer(w, h, stride, stride*h),
	}
}

func (p *MonoImage) ColorModel() color.Model {
	return MonoModel
}

func (p *MonoImage) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)/8
}

func (p *MonoImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	bit := byte(1) << uint((x-p.Rect.Min.X)%8)
	return Mono{On: p.Pix[p.PixOffset(x, y)]&bit != 0}
}

func (p *MonoImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	index := p.PixOffset(x, y)
	bit := byte(1) << uint((x-p.Rect.Min.X)%8)
	if monoModel(c).(Mono).On {
		p.Pix[index] |= bit
	} else {
		p.Pix[index] &^= bit
	}
}

func (p *MonoImage) Fill(c color.Color) {
	var value byte
	if monoModel(c).(Mono).On {
		value = 0xff
	}
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

// MonoVerticalLSBImage is a 1-bit per pixel monochrome image.
//
// Each byte holds a column of 8 vertically adjacent pixels (a page), least significant bit
// on top. This is the native memory layout of SSD1xxx OLED controllers.
type MonoVerticalLSBImage struct {
	Buffer
}

func NewMonoVerticalLSBImage(w, h int) *MonoVerticalLSBImage {
	bands := ((h + 7) & ^7) / 8 // round up to whole bytes
	return &MonoVerticalLSBImage{
		Buffer: makeBuffer(w, h, w, bands*w),
	}
}

func (p *MonoVerticalLSBImage) ColorModel() color.Model {
	return MonoModel
}

func (p *MonoVerticalLSBImage) offset(x, y int) (int, byte) {
	x, y = x-p.Rect.Min.X, y-p.Rect.Min.Y
	return y/8*p.Stride + x, byte(1) << uint(y&7)
}

func (p *MonoVerticalLSBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	pos, bit := p.offset(x, y)
	return Mono{
		On: p.Pix[pos]&bit != 0,
	}
}

func (p *MonoVerticalLSBImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	pos, bit := p.offset(x, y)
	if monoModel(c).(Mono).On {
		p.Pix[pos] |= bit
	} else {
		p.Pix[pos] &^= bit
	}
}

func (p *MonoVerticalLSBImage) Fill(c color.Color) {
	var value byte
	if monoModel(c).(Mono).On {
		value = 0xff
	}
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

// Page returns the bytes of one 8 pixel high band.
func (p *MonoVerticalLSBImage) Page(n int) []byte {
	off := n * p.Stride
	if n < 0 || off+p.Stride > len(p.Pix) {
		return nil
	}
	return p.Pix[off : off+p.Stride]
}

// Gray4Image is a 4-bits per pixel gray scale image.
type Gray4Image struct {
	Buffer
}

func NewGray4Image(w, h int) *Gray4Image {
	return &Gray4Image{
		Buffer: makeBuffer(w, h, (w+1)/2, h*((w+1)/2)),
	}
}

func (p *Gray4Image) ColorModel() color.Model {
	return Gray4Model
}

func (p *Gray4Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	x, y = x-p.Rect.Min.X, y-p.Rect.Min.Y
	index := y*p.Stride + x>>1
	if x%2 == 0 {
		return Gray4{Y: p.Pix[index] >> 4}
	}
	return Gray4{Y: p.Pix[index] & 0xf}
}

func (p *Gray4Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	x, y = x-p.Rect.Min.X, y-p.Rect.Min.Y
	index := y*p.Stride + x>>1
	v := gray4Model(c).(Gray4).Y & 0xf
	if x%2 == 0 {
		p.Pix[index] = (p.Pix[index] & 0x0f) | v<<4
	} else {
		p.Pix[index] = (p.Pix[index] & 0xf0) | v
	}
}

func (p *Gray4Image) Fill(c color.Color) {
	value := gray4Model(c).(Gray4).Y & 0xf
	value |= value << 4
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

// CRGB15Image is a 15-bits per pixel 5-5-5-bit RGB image.
type CRGB15Image struct {
	Buffer
	Order binary.ByteOrder
}

func NewCRGB15Image(w, h int) *CRGB15Image {
	return &CRGB15Image{
		Buffer: makeBuffer(w, h, w*2, w*2*h),
		Order:  binary.BigEndian,
	}
}

func (p *CRGB15Image) ColorModel() color.Model {
	return CRGB15Model
}

func (p *CRGB15Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *CRGB15Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	v := p.Order.Uint16(p.Pix[p.PixOffset(x, y):])
	return CRGB15{v & 0x7fff}
}

func (p *CRGB15Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	v := crgb15Model(c).(CRGB15).V
	p.Order.PutUint16(p.Pix[p.PixOffset(x, y):], v)
}

func (p *CRGB15Image) Fill(c color.Color) {
	fill16(p.Pix, p.Order, crgb15Model(c).(CRGB15).V)
}

// CRGB16Image is a 16-bits per pixel 5-6-5-bit RGB image.
type CRGB16Image struct {
	Buffer
	Order binary.ByteOrder
}

func NewCRGB16Image(w, h int) *CRGB16Image {
	return &CRGB16Image{
		Buffer: makeBuffer(w, h, w*2, w*2*h),
		Order:  binary.BigEndian,
	}
}

func (p *CRGB16Image) ColorModel() color.Model {
	return CRGB16Model
}

func (p *CRGB16Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *CRGB16Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	v := p.Order.Uint16(p.Pix[p.PixOffset(x, y):])
	return CRGB16{v}
}

func (p *CRGB16Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	v := crgb16Model(c).(CRGB16).V
	p.Order.PutUint16(p.Pix[p.PixOffset(x, y):], v)
}

func (p *CRGB16Image) Fill(c color.Color) {
	fill16(p.Pix, p.Order, crgb16Model(c).(CRGB16).V)
}

func fill16(pix []byte, order binary.ByteOrder, value uint16) {
	bytes := make([]byte, 2)
	order.PutUint16(bytes, value)
	for i, l := 0, len(pix); i+1 < l; i += 2 {
		copy(pix[i:], bytes)
	}
}

// Interface checks.
var (
	_ Image = (*MonoImage)(nil)
	_ Image = (*MonoVerticalLSBImage)(nil)
	_ Image = (*Gray4Image)(nil)
	_ Image = (*CRGB15Image)(nil)
	_ Image = (*CRGB16Image)(nil)
)
