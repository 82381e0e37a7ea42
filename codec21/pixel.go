/*
NAME
  pixel.go

DESCRIPTION
  pixel.go provides the Pixel and Frame types that the codec21 block
  codec operates on.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package codec21 implements the block codec described by the Codec21
// inter-frame codec: a greedy block selector and a symmetric decoder
// that reconstruct 24-bit RGB pixels relative to a previously decoded
// reference frame.
package codec21

import "fmt"

// Pixel is a 24-bit RGB triple. Arithmetic over Pixels is component-wise.
type Pixel struct {
	X, Y, Z uint8 // Red, green, blue.
}

// String implements fmt.Stringer for diagnostic output.
func (p Pixel) String() string {
	return fmt.Sprintf("[%#02x,%#02x,%#02x]", p.X, p.Y, p.Z)
}

// squaredDistance returns the sum of squared per-component signed
// differences between a and b, the distance metric used to cluster
// similar colours and to measure reconstruction error.
func squaredDistance(a, b Pixel) uint32 {
	dx := int32(a.X) - int32(b.X)
	dy := int32(a.Y) - int32(b.Y)
	dz := int32(a.Z) - int32(b.Z)
	return uint32(dx*dx + dy*dy + dz*dz)
}

// Frame is a caller-owned, frame-sized Pixel buffer. Width and Height
// are carried for the convenience of callers outside the core codec
// (collab, cmd/); the block codec itself has no row-boundary
// dependency and operates on arbitrary contiguous spans of Pixels.
type Frame struct {
	Width, Height int
	Pix           []Pixel
}

// NewFrame allocates a zeroed Frame of the given dimensions.
func NewFrame(width, height int) Frame {
	return Frame{Width: width, Height: height, Pix: make([]Pixel, width*height)}
}

// Row returns the slice of Pixels making up row y.
func (f Frame) Row(y int) []Pixel {
	return f.Pix[y*f.Width : (y+1)*f.Width]
}

// Clone returns a deep copy of f.
func (f Frame) Clone() Frame {
	cp := Frame{Width: f.Width, Height: f.Height, Pix: make([]Pixel, len(f.Pix))}
	copy(cp.Pix, f.Pix)
	return cp
}
