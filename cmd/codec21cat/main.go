/*
NAME
  codec21cat is a command-line tool that encodes one PNG frame against
  another as a codec21 bitstream, optionally running the progressive
  refinement loop, and reports the resulting compression ratio and mean
  squared error.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is codec21cat, a demo CLI gluing stdlib PNG I/O to the
// codec21 core the way cmd/rv glues device/transport packages to revid.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/codec21/codec21"
	"github.com/ausocean/codec21/codec21/config"
	"github.com/ausocean/codec21/codec21/refine"
	"github.com/ausocean/utils/logging"
)

// Logging configuration, in the style of cmd/rv's logPath/logMaxSize block.
const (
	logPath      = "codec21cat.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 3
	logMaxAge    = 7 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	referencePath := flag.String("reference", "", "path to the reference PNG frame")
	inputPath := flag.String("input", "", "path to the input PNG frame to encode against reference")
	iterations := flag.Int("iterations", 1, "number of progressive-refinement passes to run")
	workers := flag.Int("workers", config.DefaultWorkers, "row-span worker pool size")
	outputPath := flag.String("output", "", "optional path to write the final decoded frame as a PNG")
	flag.Parse()

	if *referencePath == "" || *inputPath == "" {
		fmt.Fprintln(os.Stderr, "codec21cat: -reference and -input are both required")
		os.Exit(2)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	reference, err := readPNGFrame(*referencePath)
	if err != nil {
		log.Error("reading reference frame", "error", err.Error())
		os.Exit(1)
	}
	input, err := readPNGFrame(*inputPath)
	if err != nil {
		log.Error("reading input frame", "error", err.Error())
		os.Exit(1)
	}
	if input.Width != reference.Width || input.Height != reference.Height {
		log.Error("frame size mismatch",
			"referenceWidth", reference.Width, "referenceHeight", reference.Height,
			"inputWidth", input.Width, "inputHeight", input.Height)
		os.Exit(1)
	}

	cfg := config.Config{Logger: log, Workers: *workers}
	r, err := refine.New(cfg, input.Width, input.Height)
	if err != nil {
		log.Error("setting up refiner", "error", err.Error())
		os.Exit(1)
	}

	stats, decoded, err := r.Converge(input, reference, *iterations)
	if err != nil {
		log.Error("running convergence", "error", err.Error())
		os.Exit(1)
	}

	rawBytes := len(input.Pix) * 3
	for i, s := range stats {
		ratio := float64(rawBytes) / float64(s.Bytes)
		log.Info("iteration complete", "iteration", i, "bytes", s.Bytes, "ratio", ratio, "mse", s.MSE)
		fmt.Printf("iteration %d: %d bytes, ratio %.2fx, mse %.4f\n", i, s.Bytes, ratio, s.MSE)
	}

	if *outputPath != "" {
		if err := writePNGFrame(*outputPath, decoded); err != nil {
			log.Error("writing decoded frame", "error", err.Error())
			os.Exit(1)
		}
	}
}

// readPNGFrame decodes a PNG file into a codec21.Frame. It fills the
// frame-source role for this CLI as a plain function; it does not
// implement collab.FrameSource.
func readPNGFrame(path string) (codec21.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return codec21.Frame{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return codec21.Frame{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	bounds := img.Bounds()
	frame := codec21.NewFrame(bounds.Dx(), bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			frame.Pix[y*bounds.Dx()+x] = codec21.Pixel{
				X: uint8(r >> 8),
				Y: uint8(g >> 8),
				Z: uint8(b >> 8),
			}
		}
	}
	return frame, nil
}

// writePNGFrame encodes a codec21.Frame as a PNG file. It fills the
// frame-sink role for this CLI as a plain function; it does not
// implement collab.FrameSink.
func writePNGFrame(path string, frame codec21.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			p := frame.Row(y)[x]
			img.SetRGBA(x, y, color.RGBA{R: p.X, G: p.Y, B: p.Z, A: 0xFF})
		}
	}
	return png.Encode(f, img)
}
