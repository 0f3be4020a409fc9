// Package pick provides the math half of element picking: a codec that
// assigns each element index a unique color, an id-buffer holding decoded
// indices per pixel, and a CPU ray-casting fallback. Drawing the colored
// elements and reading pixels back stay with the rendering collaborator.
package pick

import "image/color"

// Background is the id reported where no element was drawn. White encodes
// it, so clearing the pick pass to white makes empty pixels decode to -1.
const Background = -1

// EncodeIndex maps an element index to its pick color. The index bytes
// fill red, green, blue and alpha from the low end, so indices up to
// 2^24-1 keep a distinctive alpha of zero and -1 encodes to white.
func EncodeIndex(i int) color.NRGBA {
	u := uint32(int32(i))
	return color.NRGBA{
		R: uint8(u),
		G: uint8(u >> 8),
		B: uint8(u >> 16),
		A: uint8(u >> 24),
	}
}

// DecodeIndex recovers the element index from a pick color.
func DecodeIndex(c color.NRGBA) int {
	u := uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
	return int(int32(u))
}

// Buffer is a per-pixel element id map, the read-back result of a color
// pick pass. A fresh buffer holds Background everywhere.
type Buffer struct {
	w, h int
	ids  []int32
}

// NewBuffer returns a w by h buffer filled with Background.
func NewBuffer(w, h int) *Buffer {
	b := &Buffer{w: w, h: h, ids: make([]int32, w*h)}
	for i := range b.ids {
		b.ids[i] = Background
	}
	return b
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.w }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.h }

// Set stores an element id at (x, y). The pixel must be in range.
func (b *Buffer) Set(x, y, id int) {
	b.ids[y*b.w+x] = int32(id)
}

// SetColor stores a read-back pixel at (x, y), decoding it first.
func (b *Buffer) SetColor(x, y int, c color.NRGBA) {
	b.Set(x, y, DecodeIndex(c))
}

// At returns the element id at (x, y). The pixel must be in range.
func (b *Buffer) At(x, y int) int {
	return int(b.ids[y*b.w+x])
}

// Pick returns the element id under the pixel, or Background when the
// pixel lies outside the buffer.
func (b *Buffer) Pick(x, y int) int {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return Background
	}
	return b.At(x, y)
}
