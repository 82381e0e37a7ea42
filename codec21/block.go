/*
NAME
  block.go

DESCRIPTION
  block.go defines the block-record header grammar: the 3-bit verb,
  the length-extension flag, and the fixed lengths and tolerances that
  govern each block kind.

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

// verb identifies a block kind in the 3 high bits of a block header.
type verb uint8

// Block verbs. verbReserved must never be emitted; decoders treat it
// as fatal.
const (
	verbSkip verb = iota
	verbLinear
	verbLookup
	verbQuant76
	verbQuant54
	verbQuant32
	verbQuant10
	verbReserved
)

func (v verb) String() string {
	switch v {
	case verbSkip:
		return "SKIP"
	case verbLinear:
		return "LINEAR"
	case verbLookup:
		return "LOOKUP"
	case verbQuant76:
		return "QUANT76"
	case verbQuant54:
		return "QUANT54"
	case verbQuant32:
		return "QUANT32"
	case verbQuant10:
		return "QUANT10"
	default:
		return "RESERVED"
	}
}

// Fixed block lengths and tolerances. Changing any of these changes
// the wire format; see config.Config.Validate.
const (
	linearLen   = 20       // L_lin
	linearTol   = 6        // T_lin
	lookupLen   = 30       // L_lut
	lookupK     = 4        // number of palette entries
	quantLen    = 8        // L_q
	clusterTol  = 8 * 8 * 3 // T_clust: squared-distance clustering threshold
	maxShortLen = 15       // largest length representable without the extension byte
	maxLongLen  = 4095     // largest length representable with the extension byte
)

// quantPlane describes one of the four 2-bit QUANT planes scanned by
// QUANT block selection, most-significant pair first: mask is the
// plane's own bits (M_m) and high is the mask of bits more significant
// than the plane (H_m).
type quantPlane struct {
	verb  verb
	mask  uint8 // M_m
	high  uint8 // H_m
	shift uint
}

var quantPlanes = [4]quantPlane{
	{verbQuant76, 0xC0, 0x00, 6},
	{verbQuant54, 0x30, 0xC0, 4},
	{verbQuant32, 0x0C, 0xF0, 2},
	{verbQuant10, 0x03, 0xFC, 0},
}

// blockHeader is the decoded form of a block record's 1- or 2-byte
// header: a verb and a pixel length.
type blockHeader struct {
	verb   verb
	length int
}

// writeHeader appends the header for (v, length) to out, using the
// length-extension byte when length exceeds the 4-bit field.
func writeHeader(out []byte, v verb, length int) []byte {
	if length <= maxShortLen {
		return append(out, byte(v)<<5|byte(length))
	}
	b0 := byte(v)<<5 | 1<<4 | byte(length&0x0F)
	b1 := byte(length >> 4)
	return append(out, b0, b1)
}

// readHeader parses a block header from the front of b, returning the
// header and the number of bytes consumed. It returns ok=false if b is
// too short to contain a complete header.
func readHeader(b []byte) (h blockHeader, n int, ok bool) {
	if len(b) < 1 {
		return blockHeader{}, 0, false
	}
	h.verb = verb(b[0] >> 5)
	ext := b[0]&0x10 != 0
	low := int(b[0] & 0x0F)
	if !ext {
		h.length = low
		return h, 1, true
	}
	if len(b) < 2 {
		return blockHeader{}, 0, false
	}
	h.length = low | int(b[1])<<4
	return h, 2, true
}
