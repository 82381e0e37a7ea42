/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the codec's two runtime error kinds: a recoverable
  capacity-exceeded signal from the encoder, and a fatal corrupt-stream
  signal from the decoder.

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
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrCapacityExceeded is returned by EncodeBlock when the output
// capacity was exhausted before the full span could be encoded. This
// is recoverable: the stream already written is valid, just short.
var ErrCapacityExceeded = errors.New("codec21: output capacity exceeded")

// CorruptStreamError is returned by DecodeBlocks on a fatal bitstream
// violation: an unknown verb, a length field that overruns the
// remaining reference/output span, or a truncated header or payload.
type CorruptStreamError struct {
	Offset int // Byte offset of the offending header.
	reason error
}

func (e *CorruptStreamError) Error() string {
	return fmt.Sprintf("codec21: corrupt stream at byte %d: %v", e.Offset, e.reason)
}

func (e *CorruptStreamError) Unwrap() error { return e.reason }

// corrupt wraps reason for a fatal bitstream violation detected at
// offset, using pkg/errors.Wrap so the call site is visible in the
// wrapped chain the same way codec/h264/h264dec annotates its parse
// errors.
func corrupt(offset int, reason error) error {
	return &CorruptStreamError{Offset: offset, reason: pkgerrors.Wrap(reason, "decode")}
}

var (
	errUnknownVerb   = errors.New("unknown verb")
	errLengthOverrun = errors.New("length exceeds remaining span")
	errTruncated     = errors.New("payload truncated")
)
