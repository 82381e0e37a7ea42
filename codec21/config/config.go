/*
NAME
  config.go

DESCRIPTION
  config.go provides codec21's fixed block-length and tolerance
  constants and the Config struct that holds the refinement driver's
  tunables together with the Logger used throughout the codec's
  ambient tooling, in the style of revid/config.Config.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the configuration settings for the codec21
// refinement driver and its cmd-line tooling.
package config

import (
	"fmt"

	"github.com/ausocean/utils/logging"
)

// Block lengths and tolerances mandated by the bitstream format. An
// encoder and decoder pair must agree on them, so they are compile-time
// constants rather than Config fields. They are exposed here, rather
// than hidden in codec21, so diagnostic tooling can report the values
// a given stream was produced with.
const (
	LinearLen  = 20
	LinearTol  = 6
	LookupLen  = 30
	QuantLen   = 8
	ClusterTol = 8 * 8 * 3
)

// Default tuning for the refinement driver.
const (
	DefaultWorkers       = 4
	DefaultRowHeight     = 1
	DefaultMaxBlockBytes = 4 * 1024
)

// Config holds the tunables for a codec21 refinement session: the
// worker fan-out width used by refine.Refiner, and the Logger every
// component threads through, matching the way revid.Revid's config
// also carries its Logger.
type Config struct {
	// Logger receives diagnostic output from refine.Refiner and the
	// cmd-line tools. It must not be nil; use logging.New to build one.
	Logger logging.Logger

	// Workers is the number of goroutines refine.Refiner fans a frame's
	// rows out across. Zero means DefaultWorkers.
	Workers int

	// RowHeight is the number of pixel rows grouped into a single
	// EncodeBlock/DecodeBlocks span. Zero means DefaultRowHeight (one
	// row per span, the finest-grained fan-out).
	RowHeight int

	// MaxBlockBytes bounds the capacity handed to EncodeBlock per span.
	// Zero means DefaultMaxBlockBytes.
	MaxBlockBytes int
}

// Validate fills in zero-valued fields with their defaults and rejects
// an invalid configuration. It does not and cannot validate the
// block-length constants above; those are compile-time constants
// precisely because changing them changes the wire format outside any
// runtime check.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("config: Logger must be set")
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: Workers must be >= 0, got %d", c.Workers)
	}
	if c.RowHeight == 0 {
		c.RowHeight = DefaultRowHeight
	}
	if c.RowHeight < 0 {
		return fmt.Errorf("config: RowHeight must be >= 0, got %d", c.RowHeight)
	}
	if c.MaxBlockBytes == 0 {
		c.MaxBlockBytes = DefaultMaxBlockBytes
	}
	if c.MaxBlockBytes < 0 {
		return fmt.Errorf("config: MaxBlockBytes must be >= 0, got %d", c.MaxBlockBytes)
	}
	return nil
}
