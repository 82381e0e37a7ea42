/*
NAME
  framing.go

DESCRIPTION
  framing.go implements a row/frame delimiter scheme: Writer appends a
  line terminator after every row packet and an empty frame-terminator
  packet at the end of a frame; Scanner does the inverse, splitting a
  stream back into row packets and frame boundaries. It is deliberately
  thin: it owns only the two terminator bytes, never bitstream content,
  the same division of labour codec/codecutil.ByteScanner draws between
  NAL delimiting and NAL content.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package framing implements the line/frame terminator scheme codec21
// streams use to delimit row packets and frame boundaries over a byte
// stream transport.
package framing

import (
	"io"

	"github.com/ausocean/codec21/codec/codecutil"
	"github.com/pkg/errors"
)

// Terminator bytes. codec21 reserves neither: a block record may
// contain either value (a SKIP header of length 9 is 0x09, one of
// length 11 is 0x0B, and payload bytes are arbitrary).
const (
	LineTerm  byte = 0x0B // Vertical tab: ends a row packet.
	FrameTerm byte = 0x09 // Horizontal tab: stands alone as a frame-end packet.
)

// Writer wraps an io.Writer, appending LineTerm after each row packet
// written via WriteRow and emitting a bare FrameTerm packet from
// EndFrame.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer that frames packets onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRow writes row followed by LineTerm. row must not itself
// contain LineTerm, and must not begin with FrameTerm, for Scanner to
// read it back intact; WriteRow does not check this, and an encoded
// codec21 row can contain either byte.
func (w *Writer) WriteRow(row []byte) error {
	if _, err := w.w.Write(row); err != nil {
		return errors.Wrap(err, "framing: writing row")
	}
	if _, err := w.w.Write([]byte{LineTerm}); err != nil {
		return errors.Wrap(err, "framing: writing line terminator")
	}
	return nil
}

// EndFrame writes a bare FrameTerm byte, signalling that the rows
// written since the last EndFrame (or since the Writer was created)
// make up one complete frame. Unlike WriteRow, no LineTerm follows:
// FrameTerm is its own packet's delimiter, not a row's content.
func (w *Writer) EndFrame() error {
	if _, err := w.w.Write([]byte{FrameTerm}); err != nil {
		return errors.Wrap(err, "framing: writing frame terminator")
	}
	return nil
}

// Packet is one unit read back from a Scanner: either a row packet's
// bytes (FrameEnd false; Data is nil for an empty row) or a frame
// boundary marker (Data nil, FrameEnd true).
type Packet struct {
	Data     []byte
	FrameEnd bool
}

// Scanner reads packets framed by a Writer back out of an io.Reader,
// built the same way codec/codecutil.ByteScanner wraps an io.Reader
// with a reusable read buffer; it reads one byte at a time with the
// scanner's ReadByte, since a packet boundary is either of two
// distinct delimiter bytes, not one.
type Scanner struct {
	sc *codecutil.ByteScanner
}

// NewScanner returns a Scanner reading framed packets from r, using
// buf as the underlying codecutil.ByteScanner's read buffer (a nil or
// zero-capacity buf is replaced with a 4096-byte buffer).
func NewScanner(r io.Reader, buf []byte) *Scanner {
	if cap(buf) == 0 {
		buf = make([]byte, 4096)
	}
	return &Scanner{sc: codecutil.NewByteScanner(r, buf)}
}

// Next returns the next Packet: either the bytes of a row packet (with
// its LineTerm stripped) or a FrameEnd marker for a bare FrameTerm
// byte. It returns io.EOF once the underlying reader is exhausted with
// no further packet available.
func (s *Scanner) Next() (Packet, error) {
	var buf []byte
	for {
		b, err := s.sc.ReadByte()
		if err != nil {
			if len(buf) == 0 {
				return Packet{}, err
			}
			return Packet{}, errors.Wrap(err, "framing: stream ended mid-packet")
		}
		if len(buf) == 0 && b == FrameTerm {
			return Packet{FrameEnd: true}, nil
		}
		if b == LineTerm {
			return Packet{Data: buf}, nil
		}
		buf = append(buf, b)
	}
}
