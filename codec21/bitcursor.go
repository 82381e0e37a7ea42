/*
NAME
  bitcursor.go

DESCRIPTION
  bitcursor.go provides LSB-first bit packing and unpacking helpers used
  by the LOOKUP palette-index payload and the QUANT plane payload, each
  as a small value type with a writer and a reader side.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codec21

// bitWriter packs fixed-width fields into a byte slice, LSB-first
// within each byte, matching the LOOKUP and QUANT payload layouts.
type bitWriter struct {
	out  []byte
	acc  uint32
	nbit uint
}

// newBitWriter returns a bitWriter that appends to out.
func newBitWriter(out []byte) *bitWriter {
	return &bitWriter{out: out}
}

// writeBits appends the low n bits of v (n <= 8), LSB-first.
func (w *bitWriter) writeBits(v uint8, n uint) {
	w.acc |= (uint32(v) & (1<<n - 1)) << w.nbit
	w.nbit += n
	for w.nbit >= 8 {
		w.out = append(w.out, byte(w.acc))
		w.acc >>= 8
		w.nbit -= 8
	}
}

// flush pads the final partial byte with zero bits and appends it if
// any bits are pending, returning the accumulated output.
func (w *bitWriter) flush() []byte {
	if w.nbit > 0 {
		w.out = append(w.out, byte(w.acc))
		w.acc = 0
		w.nbit = 0
	}
	return w.out
}

// bitReader unpacks fixed-width fields from a byte slice, LSB-first
// within each byte, the inverse of bitWriter.
type bitReader struct {
	in   []byte
	pos  int
	acc  uint32
	nbit uint
}

// newBitReader returns a bitReader over in.
func newBitReader(in []byte) *bitReader {
	return &bitReader{in: in}
}

// readBits returns the next n bits (n <= 8), LSB-first, and whether
// enough input remained to satisfy the read.
func (r *bitReader) readBits(n uint) (uint8, bool) {
	for r.nbit < n {
		if r.pos >= len(r.in) {
			return 0, false
		}
		r.acc |= uint32(r.in[r.pos]) << r.nbit
		r.pos++
		r.nbit += 8
	}
	v := uint8(r.acc & (1<<n - 1))
	r.acc >>= n
	r.nbit -= n
	return v, true
}
