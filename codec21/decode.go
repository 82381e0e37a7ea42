/*
NAME
  decode.go

DESCRIPTION
  decode.go implements DecodeBlocks, the symmetric peer to EncodeBlock:
  it reads block headers and payloads and reconstructs pixels using
  both the bitstream and the reference frame.

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

// DecodeBlocks reads bitstream and reconstructs pixels into out, using
// reference wherever a block defers to it. It returns the number of
// pixels written. DecodeBlocks is a pure function of (bitstream,
// reference): it never reads outside reference[:len(out)] or writes
// outside out.
//
// On a corrupt bitstream, whether an unknown verb, a length that
// would overrun out or reference, or a payload truncated mid-block,
// DecodeBlocks stops and returns the pixel count written so far
// alongside a *CorruptStreamError.
func DecodeBlocks(bitstream []byte, out []Pixel, reference []Pixel) (int, error) {
	pos, outPos := 0, 0
	for pos < len(bitstream) {
		headerOffset := pos
		h, hlen, ok := readHeader(bitstream[pos:])
		if !ok {
			return outPos, corrupt(headerOffset, errTruncated)
		}
		pos += hlen

		if h.verb == verbReserved {
			return outPos, corrupt(headerOffset, errUnknownVerb)
		}
		if outPos+h.length > len(out) || outPos+h.length > len(reference) {
			return outPos, corrupt(headerOffset, errLengthOverrun)
		}

		var err error
		switch h.verb {
		case verbSkip:
			copy(out[outPos:outPos+h.length], reference[outPos:outPos+h.length])
		case verbLinear:
			pos, err = decodeLinear(bitstream, pos, h.length, out[outPos:outPos+h.length])
		case verbLookup:
			pos, err = decodeLookup(bitstream, pos, h.length, out[outPos:outPos+h.length])
		case verbQuant76, verbQuant54, verbQuant32, verbQuant10:
			pos, err = decodeQuant(bitstream, pos, h.verb, h.length, out[outPos:outPos+h.length], reference[outPos:outPos+h.length], outPos)
		default:
			return outPos, corrupt(headerOffset, errUnknownVerb)
		}
		if err != nil {
			return outPos, corrupt(headerOffset, err)
		}
		outPos += h.length
	}
	return outPos, nil
}

// decodeLinear reconstructs a LINEAR block's interpolated gradient.
func decodeLinear(bitstream []byte, pos, length int, dst []Pixel) (int, error) {
	if pos+6 > len(bitstream) {
		return pos, errTruncated
	}
	start := Pixel{bitstream[pos], bitstream[pos+1], bitstream[pos+2]}
	end := Pixel{bitstream[pos+3], bitstream[pos+4], bitstream[pos+5]}
	pos += 6

	denom := float32(length - 1)
	for i := 0; i < length; i++ {
		t := float32(i) / denom
		dst[i] = Pixel{
			X: lerp8(start.X, end.X, t),
			Y: lerp8(start.Y, end.Y, t),
			Z: lerp8(start.Z, end.Z, t),
		}
	}
	return pos, nil
}

// lerp8 linearly interpolates between a and b at t in single precision
// and truncates the result to uint8.
func lerp8(a, b uint8, t float32) uint8 {
	return uint8(float32(a) + t*(float32(b)-float32(a)))
}

// decodeLookup reconstructs a LOOKUP block from its 4-entry palette and
// packed 2-bit indices.
func decodeLookup(bitstream []byte, pos, length int, dst []Pixel) (int, error) {
	if pos+3*lookupK > len(bitstream) {
		return pos, errTruncated
	}
	var palette [lookupK]Pixel
	for i := range palette {
		palette[i] = Pixel{bitstream[pos], bitstream[pos+1], bitstream[pos+2]}
		pos += 3
	}

	idxBytes := (2*length + 7) / 8
	if pos+idxBytes > len(bitstream) {
		return pos, errTruncated
	}
	br := newBitReader(bitstream[pos : pos+idxBytes])
	for i := 0; i < length; i++ {
		idx, ok := br.readBits(2)
		if !ok {
			return pos, errTruncated
		}
		dst[i] = palette[idx]
	}
	return pos + idxBytes, nil
}

// decodeQuant reconstructs a QUANT block: the decoded plane's 2 bits
// replace the corresponding bits of the reference pixel, the bits
// above the plane are kept from the reference, and the bits below are
// filled with the mandatory dither pattern (see ditherByte).
func decodeQuant(bitstream []byte, pos int, v verb, length int, dst, reference []Pixel, basePos int) (int, error) {
	plane := planeFor(v)

	nBytes := (6*length + 7) / 8
	if pos+nBytes > len(bitstream) {
		return pos, errTruncated
	}
	br := newBitReader(bitstream[pos : pos+nBytes])

	for i := 0; i < length; i++ {
		xb, ok1 := br.readBits(2)
		yb, ok2 := br.readBits(2)
		zb, ok3 := br.readBits(2)
		if !ok1 || !ok2 || !ok3 {
			return pos, errTruncated
		}

		d := ditherByte(plane, basePos+i)
		ref := reference[i]
		dst[i] = Pixel{
			X: (ref.X & plane.high) | (xb << plane.shift) | d,
			Y: (ref.Y & plane.high) | (yb << plane.shift) | d,
			Z: (ref.Z & plane.high) | (zb << plane.shift) | d,
		}
	}
	return pos + nBytes, nil
}

// ditherByte computes the low-bit fill pattern the QUANT decoder
// injects below the decoded plane: an alternating 0xAA/0x55 pattern by
// output-position parity, masked to the bits strictly below the plane.
// This dither is part of the decoder contract, not an aesthetic
// nicety: the encoder's next-pass thresholds compare against these
// dithered low bits, so omitting it breaks progressive convergence.
func ditherByte(plane quantPlane, pos int) uint8 {
	lowMask := ^(plane.high | plane.mask)
	if pos%2 == 0 {
		return lowMask & 0xAA
	}
	return lowMask & 0x55
}

// planeFor returns the quantPlanes entry matching v.
func planeFor(v verb) quantPlane {
	for _, p := range quantPlanes {
		if p.verb == v {
			return p
		}
	}
	panic("codec21: planeFor called with non-quant verb")
}
