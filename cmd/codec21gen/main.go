/*
NAME
  codec21gen is a command-line tool that writes the six synthetic
  test-pattern frames used by codec21's original conformance suite
  (all-zero, grayscale ramp, alternating black/white bars, flat grey,
  near-flat grey, and uniform random noise) out as PNG files.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is codec21gen, a generator for the synthetic frames
// codec21's test suite exercises the encoder against.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/ausocean/codec21/codec21"
)

// pattern is one of the six synthetic generators, each filling a
// width*height Frame the way the original's unit_test_N functions fill
// a flat Vector3D buffer.
type pattern struct {
	name string
	fill func(f codec21.Frame, rng *rand.Rand)
}

var patterns = []pattern{
	{"flat_zero", fillFlatZero},
	{"grayscale_ramp", fillGrayscaleRamp},
	{"alternating_bars", fillAlternatingBars},
	{"flat_grey", fillFlatGrey},
	{"near_flat_grey", fillNearFlatGrey},
	{"uniform_random", fillUniformRandom},
}

func main() {
	outDir := flag.String("out", ".", "directory to write generated PNGs into")
	width := flag.Int("width", 32, "frame width in pixels")
	height := flag.Int("height", 32, "frame height in pixels")
	seed := flag.Int64("seed", 1, "seed for the patterns that use randomness")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	for _, p := range patterns {
		frame := codec21.NewFrame(*width, *height)
		p.fill(frame, rng)

		path := filepath.Join(*outDir, p.name+".png")
		if err := writePNG(path, frame); err != nil {
			fmt.Fprintf(os.Stderr, "codec21gen: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
	}
}

// fillFlatZero leaves every pixel at its zero value, mirroring
// unit_test_0's no-op fill.
func fillFlatZero(f codec21.Frame, _ *rand.Rand) {}

// fillGrayscaleRamp fills f with a linear grayscale ramp from 0x10 to
// 0xA0 across the whole pixel buffer, mirroring unit_test_1.
func fillGrayscaleRamp(f codec21.Frame, _ *rand.Rand) {
	const start, end = 0x10, 0xA0
	n := len(f.Pix)
	step := float64(end-start) / float64(n-1)
	for i := range f.Pix {
		v := uint8(start + step*float64(i))
		f.Pix[i] = codec21.Pixel{X: v, Y: v, Z: v}
	}
}

// fillAlternatingBars fills f with alternating runs of white and black
// pixels, each run between 5 and 124 pixels long (the last run is cut
// short at the end of the frame), mirroring
// unit_test_2.
func fillAlternatingBars(f codec21.Frame, rng *rand.Rand) {
	pos := 0
	white := true
	for pos < len(f.Pix) {
		runLen := 5 + rng.Intn(120)
		if pos+runLen > len(f.Pix) {
			runLen = len(f.Pix) - pos
		}
		v := uint8(0x00)
		if white {
			v = 0xFF
		}
		for i := 0; i < runLen; i++ {
			f.Pix[pos+i] = codec21.Pixel{X: v, Y: v, Z: v}
		}
		pos += runLen
		white = !white
	}
}

// fillFlatGrey fills f with a uniform grey the LINEAR/SKIP path
// trivially matches, mirroring unit_test_3.
func fillFlatGrey(f codec21.Frame, _ *rand.Rand) {
	for i := range f.Pix {
		f.Pix[i] = codec21.Pixel{X: 0x3F, Y: 0x3D, Z: 0x3E}
	}
}

// fillNearFlatGrey fills f with a uniform colour whose blue channel
// sits far from its red/green channels, mirroring unit_test_4's probe
// of per-channel QUANT plane selection.
func fillNearFlatGrey(f codec21.Frame, _ *rand.Rand) {
	for i := range f.Pix {
		f.Pix[i] = codec21.Pixel{X: 0x3F, Y: 0x3D, Z: 0x04}
	}
}

// fillUniformRandom fills f with uniform random noise per channel,
// mirroring unit_test_5.
func fillUniformRandom(f codec21.Frame, rng *rand.Rand) {
	for i := range f.Pix {
		f.Pix[i] = codec21.Pixel{
			X: uint8(rng.Intn(256)),
			Y: uint8(rng.Intn(256)),
			Z: uint8(rng.Intn(256)),
		}
	}
}

func writePNG(path string, f codec21.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			p := f.Row(y)[x]
			img.SetRGBA(x, y, color.RGBA{R: p.X, G: p.Y, B: p.Z, A: 0xFF})
		}
	}
	return png.Encode(out, img)
}
