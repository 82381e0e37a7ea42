/*
NAME
  collab.go

DESCRIPTION
  collab.go declares the seams codec21 leaves for out-of-scope
  collaborators: frame I/O and a lossy datagram transport. Neither
  frame capture/display nor the transport itself is part of this
  repo's scope; only the interfaces a caller wires a real
  implementation into are defined here, the same role device.Device
  plays as a seam for revid's camera/file inputs.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package collab declares the interfaces codec21 callers implement to
// supply frames and a transport; it contains no implementations of its
// own.
package collab

import "github.com/ausocean/codec21/codec21"

// FrameSource loads a decoded RGB frame (e.g. from PNG, a camera, or a
// capture card) into a codec21.Frame.
type FrameSource interface {
	ReadFrame() (codec21.Frame, error)
}

// FrameSink displays or persists a decoded codec21.Frame, e.g. to a
// window or a PNG file.
type FrameSink interface {
	WriteFrame(codec21.Frame) error
}

// DatagramConn is the minimal shape of the lossy, unordered transport
// codec21's bitstream is designed to tolerate: datagrams may be
// dropped, but never reordered-and-silently-merged or corrupted in a
// way RecvPacket fails to detect.
type DatagramConn interface {
	SendPacket([]byte) error
	RecvPacket() ([]byte, error)
}
