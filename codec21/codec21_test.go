/*
NAME
  codec21_test.go

DESCRIPTION
  codec21_test.go exercises the worked scenarios (S1-S6) and the
  codec's quantified properties against the public
  EncodeBlock/DecodeBlocks surface.

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

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func uniform(p Pixel, n int) []Pixel {
	out := make([]Pixel, n)
	for i := range out {
		out[i] = p
	}
	return out
}

// S1: all SKIP.
func TestScenarioAllSkip(t *testing.T) {
	p := Pixel{0x3F, 0x3D, 0x3E}
	input := uniform(p, 40)
	reference := uniform(p, 40)

	out := make([]byte, 256)
	n, err := EncodeBlock(input, reference, out)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	h, hlen, ok := readHeader(out[:n])
	if !ok || h.verb != verbSkip || h.length != 40 {
		t.Fatalf("got header %+v (ok=%v), want a single SKIP record of length 40", h, ok)
	}
	if hlen != 2 {
		t.Errorf("length 40 should use the extension byte, header was %d bytes", hlen)
	}

	decoded := make([]Pixel, 40)
	dn, err := DecodeBlocks(out[:n], decoded, reference)
	if err != nil {
		t.Fatalf("DecodeBlocks: %v", err)
	}
	if dn != 40 {
		t.Errorf("decoded %d pixels, want 40", dn)
	}
	if diff := cmp.Diff(input, decoded); diff != "" {
		t.Errorf("decoded mismatch (-input +decoded):\n%s", diff)
	}
}

// S2: LINEAR grayscale ramp.
func TestScenarioLinearRamp(t *testing.T) {
	input := make([]Pixel, linearLen)
	for i := range input {
		v := uint8(0x10 + i*(0xA0-0x10)/(linearLen-1))
		input[i] = Pixel{v, v, v}
	}
	reference := uniform(Pixel{}, linearLen)

	out := make([]byte, 256)
	n, err := EncodeBlock(input, reference, out)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	h, _, ok := readHeader(out[:n])
	if !ok || h.verb != verbLinear || h.length != linearLen {
		t.Fatalf("got header %+v, want a single LINEAR record of length %d", h, linearLen)
	}

	decoded := make([]Pixel, linearLen)
	if _, err := DecodeBlocks(out[:n], decoded, reference); err != nil {
		t.Fatalf("DecodeBlocks: %v", err)
	}
	if decoded[0] != (Pixel{0x10, 0x10, 0x10}) {
		t.Errorf("start endpoint = %v, want [0x10,0x10,0x10]", decoded[0])
	}
	if decoded[len(decoded)-1] != (Pixel{0xA0, 0xA0, 0xA0}) {
		t.Errorf("end endpoint = %v, want [0xA0,0xA0,0xA0]", decoded[len(decoded)-1])
	}
	for i := range decoded {
		if d := maxAbsChannelDiff(decoded[i], input[i]); d > 1 {
			t.Errorf("pixel %d: decoded %v differs from input %v by %d (want <= 1)", i, decoded[i], input[i], d)
		}
	}
}

// S3: LOOKUP dominance.
func TestScenarioLookupDominance(t *testing.T) {
	palette := []Pixel{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0}}
	input := make([]Pixel, lookupLen)
	for i := range input {
		input[i] = palette[i%len(palette)]
	}
	reference := uniform(Pixel{}, lookupLen)

	out := make([]byte, 256)
	n, err := EncodeBlock(input, reference, out)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	h, _, ok := readHeader(out[:n])
	if !ok || h.verb != verbLookup || h.length != lookupLen {
		t.Fatalf("got header %+v, want a single LOOKUP record of length %d", h, lookupLen)
	}

	decoded := make([]Pixel, lookupLen)
	if _, err := DecodeBlocks(out[:n], decoded, reference); err != nil {
		t.Fatalf("DecodeBlocks: %v", err)
	}
	if diff := cmp.Diff(input, decoded); diff != "" {
		t.Errorf("decoded mismatch (-input +decoded):\n%s", diff)
	}
}

// S4: QUANT plane 7..6, including the mandatory dither pattern.
func TestScenarioQuantHighPlane(t *testing.T) {
	input := uniform(Pixel{0xC0, 0x00, 0x00}, quantLen)
	reference := uniform(Pixel{0x00, 0x00, 0x00}, quantLen)

	out := make([]byte, 64)
	n, err := EncodeBlock(input, reference, out)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	h, _, ok := readHeader(out[:n])
	if !ok || h.verb != verbQuant76 || h.length != quantLen {
		t.Fatalf("got header %+v, want a single QUANT76 record of length %d", h, quantLen)
	}

	decoded := make([]Pixel, quantLen)
	if _, err := DecodeBlocks(out[:n], decoded, reference); err != nil {
		t.Fatalf("DecodeBlocks: %v", err)
	}
	for i, p := range decoded {
		if p.X&0xC0 != 0xC0 {
			t.Errorf("pixel %d: high bits of X = %#02x, want 0xC0", i, p.X&0xC0)
		}
		wantLow := uint8(0x3F & 0xAA)
		if i%2 != 0 {
			wantLow = 0x3F & 0x55
		}
		if p.X&0x3F != wantLow {
			t.Errorf("pixel %d: dithered low bits of X = %#02x, want %#02x", i, p.X&0x3F, wantLow)
		}
	}
}

// S5: greedy fall-through across a short span with a single differing
// bit; the union of the emitted blocks must cover all 8 pixels.
func TestScenarioGreedyFallThrough(t *testing.T) {
	reference := uniform(Pixel{0x10, 0x10, 0x10}, 8)
	input := uniform(Pixel{0x10, 0x10, 0x10}, 8)
	input[4].X ^= 0x01 // Flip the low bit of one pixel.

	out := make([]byte, 64)
	n, err := EncodeBlock(input, reference, out)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}

	decoded := make([]Pixel, 8)
	dn, err := DecodeBlocks(out[:n], decoded, reference)
	if err != nil {
		t.Fatalf("DecodeBlocks: %v", err)
	}
	if dn != 8 {
		t.Errorf("decoded %d pixels, want 8", dn)
	}
	if diff := cmp.Diff(input, decoded); diff != "" {
		t.Errorf("decoded mismatch (-input +decoded):\n%s", diff)
	}
}

// S6: progressive convergence smoke test over a uniform grey frame.
func TestScenarioProgressiveConvergence(t *testing.T) {
	const n = 1024
	input := uniform(Pixel{0x3F, 0x3D, 0x3E}, n)
	reference := uniform(Pixel{}, n)

	var prevMSE = -1.0
	for iter := 0; iter < 6; iter++ {
		out := make([]byte, 4*n)
		nb, err := EncodeBlock(input, reference, out)
		if err != nil {
			t.Fatalf("iteration %d: EncodeBlock: %v", iter, err)
		}
		decoded := make([]Pixel, n)
		if _, err := DecodeBlocks(out[:nb], decoded, reference); err != nil {
			t.Fatalf("iteration %d: DecodeBlocks: %v", iter, err)
		}

		mse := meanSquaredError(input, decoded)
		if prevMSE >= 0 && mse > prevMSE+1e-9 {
			t.Errorf("iteration %d: MSE increased from %f to %f", iter, prevMSE, mse)
		}
		prevMSE = mse
		reference = decoded
	}
	if prevMSE > 1.0 {
		t.Errorf("after 6 iterations, MSE = %f, want <= 1.0", prevMSE)
	}
}

func meanSquaredError(a, b []Pixel) float64 {
	var sum float64
	for i := range a {
		d := float64(squaredDistance(a[i], b[i]))
		sum += d / 3
	}
	return sum / float64(len(a))
}

// Length conservation: sum of block lengths equals pixels written.
func TestLengthConservation(t *testing.T) {
	reference := uniform(Pixel{1, 2, 3}, 100)
	input := append([]Pixel{}, reference...)
	for i := 0; i < 100; i += 7 {
		input[i].X += uint8(i)
	}

	out := make([]byte, 1024)
	n, err := EncodeBlock(input, reference, out)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}

	var total int
	for pos := 0; pos < n; {
		h, hlen, ok := readHeader(out[pos:])
		if !ok {
			t.Fatalf("readHeader failed at offset %d", pos)
		}
		pos += hlen
		total += h.length
		switch h.verb {
		case verbLinear:
			pos += 6
		case verbLookup:
			pos += 3*lookupK + (2*h.length+7)/8
		case verbQuant76, verbQuant54, verbQuant32, verbQuant10:
			pos += (6*h.length + 7) / 8
		}
	}
	if total != 100 {
		t.Errorf("sum of block lengths = %d, want 100", total)
	}
}

// CapacityExceeded: the encoder stops cleanly without emitting a
// partial block.
func TestCapacityExceeded(t *testing.T) {
	p := Pixel{0x3F, 0x3D, 0x3E}
	input := uniform(p, 100)
	reference := uniform(Pixel{}, 100)
	for i := 0; i < 100; i++ {
		input[i].X = uint8(i)
	}

	out := make([]byte, 3) // Too small for the whole span.
	n, err := EncodeBlock(input, reference, out)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("got err=%v, want ErrCapacityExceeded", err)
	}
	if n > len(out) {
		t.Errorf("wrote %d bytes into a %d-byte buffer", n, len(out))
	}
	// What was written must still be a valid, decodable prefix.
	decoded := make([]Pixel, 100)
	reference2 := uniform(Pixel{}, 100)
	if _, err := DecodeBlocks(out[:n], decoded, reference2); err != nil {
		t.Errorf("the partial stream written on overflow should still decode cleanly: %v", err)
	}
}

// CorruptStream: unknown verb is fatal and reports pixels written so far.
func TestCorruptStreamUnknownVerb(t *testing.T) {
	reference := uniform(Pixel{}, 8)
	stream := []byte{
		byte(verbSkip)<<5 | 4, // Valid SKIP of length 4.
		byte(verbReserved) << 5,
	}
	decoded := make([]Pixel, 8)
	n, err := DecodeBlocks(stream, decoded, reference)
	if n != 4 {
		t.Errorf("pixels written = %d, want 4", n)
	}
	var cse *CorruptStreamError
	if !errors.As(err, &cse) {
		t.Fatalf("got err=%v, want *CorruptStreamError", err)
	}
}

// CorruptStream: a length overrunning the remaining span is fatal.
func TestCorruptStreamLengthOverrun(t *testing.T) {
	reference := uniform(Pixel{}, 4)
	stream := []byte{byte(verbSkip)<<5 | 8} // Claims 8 pixels, only 4 available.
	decoded := make([]Pixel, 4)
	_, err := DecodeBlocks(stream, decoded, reference)
	var cse *CorruptStreamError
	if !errors.As(err, &cse) {
		t.Fatalf("got err=%v, want *CorruptStreamError", err)
	}
}

// Determinism: repeated encodes of the same input produce identical bytes.
func TestEncodeDeterministic(t *testing.T) {
	reference := uniform(Pixel{10, 20, 30}, 200)
	input := append([]Pixel{}, reference...)
	for i := 0; i < 200; i++ {
		input[i].Y = uint8(i * 3)
	}

	out1 := make([]byte, 2048)
	n1, err := EncodeBlock(input, reference, out1)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	out2 := make([]byte, 2048)
	n2, err := EncodeBlock(input, reference, out2)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	if n1 != n2 || !bytes.Equal(out1[:n1], out2[:n2]) {
		t.Error("EncodeBlock produced different output across identical runs")
	}
}

// Bounded bitstream growth.
func TestBoundedGrowth(t *testing.T) {
	reference := uniform(Pixel{}, 256)
	input := make([]Pixel, 256)
	for i := range input {
		input[i] = Pixel{uint8(i), uint8(i * 2), uint8(i * 3)}
	}
	out := make([]byte, 256*8)
	n, err := EncodeBlock(input, reference, out)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	const headerBound = 2
	if n > 2*256*3+headerBound*256 {
		t.Errorf("bytes_written = %d exceeds the bound for 256 pixels", n)
	}
}
