/*
NAME
  refine.go

DESCRIPTION
  refine.go implements the progressive-refinement driver: a Refiner
  fans the encoding of a frame out across a bounded worker pool, one
  goroutine per row span, decodes each span as its result arrives,
  and folds the decoded result back in as the
  next pass's reference. This mirrors the async-error-channel
  concurrency idiom of revid.Revid.reset/handleErrors, adapted from a
  pipeline of io.Writers to a bounded fan-out over row spans.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package refine drives codec21's progressive-refinement convergence
// loop: repeated encode/decode passes against an evolving reference
// frame, fanned out across a bounded worker pool.
package refine

import (
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/codec21/codec21"
	"github.com/ausocean/codec21/codec21/config"
)

// StepStats reports the outcome of a single Step call: how many bytes
// the encoded bitstream occupied, and the mean squared error between
// the decoded frame and the true input.
type StepStats struct {
	Bytes int
	MSE   float64
}

// Refiner drives encode/decode passes for a fixed frame geometry,
// encoding each contiguous row span in its own goroutine with at most
// cfg.Workers of them running at once. A Refiner is safe for reuse across frames of
// the same geometry but is not safe for concurrent calls to Step or
// Converge on the same instance.
type Refiner struct {
	cfg    config.Config
	width  int
	height int
}

// New validates cfg and returns a Refiner for frames of the given
// dimensions.
func New(cfg config.Config, width, height int) (*Refiner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "refine: invalid config")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("refine: invalid frame geometry %dx%d", width, height)
	}
	return &Refiner{cfg: cfg, width: width, height: height}, nil
}

// rowSpan is a contiguous, row-aligned slice of a frame's pixel
// buffer handed to a single worker.
type rowSpan struct {
	start, end int // Pixel offsets, end exclusive.
}

// spans partitions the frame into row-aligned spans of r.cfg.RowHeight
// rows each, the last span absorbing any remainder.
func (r *Refiner) spans() []rowSpan {
	rowsPer := r.cfg.RowHeight
	pixelsPerRow := r.width
	var out []rowSpan
	for y := 0; y < r.height; y += rowsPer {
		rows := rowsPer
		if y+rows > r.height {
			rows = r.height - y
		}
		out = append(out, rowSpan{start: y * pixelsPerRow, end: (y + rows) * pixelsPerRow})
	}
	return out
}

// workResult carries one span's outcome back to the fan-in side of
// Step, mirroring revid's pattern of a buffered channel carrying
// asynchronous outcomes (there errors alone, here a payload too since
// a span's encoded bytes must be collected, not merely observed for
// failure).
type workResult struct {
	span  rowSpan
	bytes []byte
	err   error
}

// Step runs one encode/decode pass of input against reference, with
// the per-span encoding fanned out across the worker pool and each
// span decoded on the calling goroutine, and returns the reconstructed frame
// alongside stats for the pass. reference is never mutated; the
// returned Frame is a fresh buffer, so callers implementing a
// convergence loop must feed it back in as next round's reference
// themselves. Step does not do this implicitly, since a caller
// inspecting divergence may choose to abort instead.
func (r *Refiner) Step(input, reference codec21.Frame) (codec21.Frame, StepStats, error) {
	if len(input.Pix) != r.width*r.height || len(reference.Pix) != r.width*r.height {
		return codec21.Frame{}, StepStats{}, errors.Errorf("refine: frame size mismatch: want %d pixels", r.width*r.height)
	}

	spans := r.spans()
	results := make(chan workResult, len(spans))
	sem := make(chan struct{}, r.cfg.Workers)
	var wg sync.WaitGroup

	for _, sp := range spans {
		wg.Add(1)
		sem <- struct{}{}
		go func(sp rowSpan) {
			defer wg.Done()
			defer func() { <-sem }()

			buf := make([]byte, r.cfg.MaxBlockBytes)
			n, err := codec21.EncodeBlock(input.Pix[sp.start:sp.end], reference.Pix[sp.start:sp.end], buf)
			if err != nil {
				results <- workResult{span: sp, err: err}
				return
			}
			results <- workResult{span: sp, bytes: buf[:n]}
		}(sp)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	decoded := codec21.NewFrame(r.width, r.height)
	totalBytes := 0
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(res.err, "refine: row span [%d:%d]", res.span.start, res.span.end)
			}
			continue
		}
		totalBytes += len(res.bytes)
		dst := decoded.Pix[res.span.start:res.span.end]
		refSpan := reference.Pix[res.span.start:res.span.end]
		if _, err := codec21.DecodeBlocks(res.bytes, dst, refSpan); err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "refine: decode of row span [%d:%d]", res.span.start, res.span.end)
			}
		}
	}
	if firstErr != nil {
		return codec21.Frame{}, StepStats{}, firstErr
	}

	mse := meanSquaredError(input, decoded)
	return decoded, StepStats{Bytes: totalBytes, MSE: mse}, nil
}

// Converge runs iterations passes of Step, each time folding the
// previous pass's decoded frame back in as the next reference:
// reference := decoded, never := source. It returns the per-iteration
// stats and the final decoded frame.
func (r *Refiner) Converge(input codec21.Frame, initial codec21.Frame, iterations int) ([]StepStats, codec21.Frame, error) {
	reference := initial
	stats := make([]StepStats, 0, iterations)
	for i := 0; i < iterations; i++ {
		decoded, s, err := r.Step(input, reference)
		if err != nil {
			return stats, reference, errors.Wrapf(err, "refine: iteration %d", i)
		}
		stats = append(stats, s)
		r.cfg.Logger.Debug("refine iteration", "iteration", i, "bytes", s.Bytes, "mse", s.MSE)
		reference = decoded
	}
	return stats, reference, nil
}

// meanSquaredError computes the mean, over all pixels and channels, of
// the squared per-channel difference between a and b, using
// gonum.org/v1/gonum/stat.Mean the way cmd/rv/probe.go derives its
// summary statistics from raw sample slices.
func meanSquaredError(a, b codec21.Frame) float64 {
	samples := make([]float64, 0, len(a.Pix)*3)
	for i := range a.Pix {
		dx := float64(a.Pix[i].X) - float64(b.Pix[i].X)
		dy := float64(a.Pix[i].Y) - float64(b.Pix[i].Y)
		dz := float64(a.Pix[i].Z) - float64(b.Pix[i].Z)
		samples = append(samples, dx*dx, dy*dy, dz*dz)
	}
	if len(samples) == 0 {
		return 0
	}
	return stat.Mean(samples, nil)
}
