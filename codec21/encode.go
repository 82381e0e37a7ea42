/*
NAME
  encode.go

DESCRIPTION
  encode.go implements the greedy block selector: EncodeBlock scans a
  span of input pixels against a reference and emits a bitstream of
  SKIP/LINEAR/LOOKUP/QUANT block records.

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

import "fmt"

// EncodeBlock encodes input against reference into out, producing a
// valid block-record bitstream. It returns the number of bytes
// written. If out is exhausted before the full span is encoded, the
// stream already written remains valid and describes only a prefix;
// EncodeBlock returns ErrCapacityExceeded alongside the partial byte
// count.
//
// EncodeBlock panics if len(input) != len(reference); that mismatch is
// a programmer error, not a runtime condition the codec can recover
// from.
func EncodeBlock(input, reference []Pixel, out []byte) (int, error) {
	if len(input) != len(reference) {
		panic(fmt.Sprintf("codec21: len(input)=%d != len(reference)=%d", len(input), len(reference)))
	}

	n := len(input)
	pos, written := 0, 0
	for pos < n {
		record, consumed := selectBlock(input, reference, pos, n-pos)
		if written+len(record) > len(out) {
			return written, ErrCapacityExceeded
		}
		copy(out[written:], record)
		written += len(record)
		pos += consumed
	}
	return written, nil
}

// selectBlock chooses and encodes the next block for position pos,
// following the fixed priority order SKIP, LINEAR, LOOKUP, then QUANT
// as a fallback that always succeeds.
func selectBlock(input, reference []Pixel, pos, remaining int) (record []byte, consumed int) {
	if input[pos] == reference[pos] {
		return encodeSkipRun(input, reference, pos, remaining)
	}

	if remaining >= linearLen {
		span := input[pos : pos+linearLen]
		if linearFit(span, linearTol) {
			return encodeLinear(span), linearLen
		}
	}

	if remaining >= lookupLen {
		span := input[pos : pos+lookupLen]
		refSpan := reference[pos : pos+lookupLen]
		if record := tryEncodeLookup(span, refSpan); record != nil {
			return record, lookupLen
		}
	}

	qLen := quantLen
	if qLen > remaining {
		qLen = remaining
	}
	return encodeQuant(input[pos:pos+qLen], reference[pos:pos+qLen]), qLen
}

// encodeSkipRun extends a run of reference-identical pixels as far as
// possible, up to the 12-bit length-field maximum or the end of the
// span.
func encodeSkipRun(input, reference []Pixel, pos, remaining int) ([]byte, int) {
	run := 1
	for run < remaining && run < maxLongLen && input[pos+run] == reference[pos+run] {
		run++
	}
	return writeHeader(nil, verbSkip, run), run
}

// encodeLinear builds a LINEAR block record from a span already known
// to pass the linear-fit test; its length is always linearLen.
func encodeLinear(span []Pixel) []byte {
	rec := writeHeader(nil, verbLinear, linearLen)
	rec = appendPixel(rec, span[0])
	rec = appendPixel(rec, span[len(span)-1])
	return rec
}

// lookupDiffGate reports whether any pixel in span differs from its
// reference by more than 32 in any channel, the gate a LOOKUP block
// must pass before it is even considered.
func lookupDiffGate(span, reference []Pixel) bool {
	for i := range span {
		if maxAbsChannelDiff(span[i], reference[i]) > 32 {
			return true
		}
	}
	return false
}

// tryEncodeLookup attempts to build a LOOKUP block record for span. It
// returns nil if the diff gate fails or the top-lookupK clusters do not
// cover every pixel in span.
func tryEncodeLookup(span, reference []Pixel) []byte {
	if !lookupDiffGate(span, reference) {
		return nil
	}
	clusters, coverage := freqCluster(span, lookupK)
	if coverage != len(span) {
		return nil
	}

	var palette [lookupK]Pixel
	for i := range palette {
		if i < len(clusters) {
			palette[i] = clusters[i].rep
		} else {
			palette[i] = palette[i-1]
		}
	}

	rec := writeHeader(nil, verbLookup, len(span))
	for _, p := range palette {
		rec = appendPixel(rec, p)
	}

	bw := newBitWriter(rec)
	for _, p := range span {
		bw.writeBits(nearestPaletteIndex(p, palette), 2)
	}
	return bw.flush()
}

// nearestPaletteIndex returns the index of the palette entry closest
// to p by squared distance, the lowest index winning ties.
func nearestPaletteIndex(p Pixel, palette [lookupK]Pixel) uint8 {
	best, bestDist := uint8(0), squaredDistance(p, palette[0])
	for i := 1; i < len(palette); i++ {
		d := squaredDistance(p, palette[i])
		if d < bestDist {
			best, bestDist = uint8(i), d
		}
	}
	return best
}

// encodeQuant scans the four 2-bit planes, most-significant first, and
// encodes the first one that differs from reference anywhere in span.
// If none differ, it falls back to SKIP.
func encodeQuant(span, reference []Pixel) []byte {
	for _, plane := range quantPlanes {
		if !planeDiffers(span, reference, plane.mask) {
			continue
		}
		rec := writeHeader(nil, plane.verb, len(span))
		bw := newBitWriter(rec)
		for _, p := range span {
			bw.writeBits((p.X&plane.mask)>>plane.shift, 2)
			bw.writeBits((p.Y&plane.mask)>>plane.shift, 2)
			bw.writeBits((p.Z&plane.mask)>>plane.shift, 2)
		}
		return bw.flush()
	}
	return writeHeader(nil, verbSkip, len(span))
}

// planeDiffers reports whether any pixel in span differs from
// reference within the bits selected by mask.
func planeDiffers(span, reference []Pixel, mask uint8) bool {
	for i := range span {
		if (span[i].X^reference[i].X)&mask != 0 {
			return true
		}
		if (span[i].Y^reference[i].Y)&mask != 0 {
			return true
		}
		if (span[i].Z^reference[i].Z)&mask != 0 {
			return true
		}
	}
	return false
}

// appendPixel appends p's three components to b in x, y, z order.
func appendPixel(b []byte, p Pixel) []byte {
	return append(b, p.X, p.Y, p.Z)
}
