// Command mkframe converts between packed panel frames and PNG images.
//
// A packed frame holds two 4-bit palette indices per byte, left pixel in the
// high nibble, rows top to bottom, exactly as the panel receives it.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"inkdo/internal/epd"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Input file (.frame for decode, .png/.jpg for encode).")
		outPath = flag.String("out", "", "Output file (.png for decode, .frame for encode).")
		mode    = flag.String("mode", "decode", "decode|encode.")
		width   = flag.Int("w", epd.PanelWidth, "Frame width in pixels.")
		height  = flag.Int("h", epd.PanelHeight, "Frame height in pixels.")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fatalf("usage: mkframe -mode decode -in inkdo.frame -out frame.png [-w 600 -h 448]\n       mkframe -mode encode -in picture.png -out picture.frame [-w 600 -h 448]")
	}

	switch strings.ToLower(*mode) {
	case "decode":
		if err := decodeFrame(*inPath, *outPath, *width, *height); err != nil {
			fatalf("decode: %v", err)
		}
	case "encode":
		if err := encodeFrame(*inPath, *outPath, *width, *height); err != nil {
			fatalf("encode: %v", err)
		}
	default:
		fatalf("unknown mode: %s", *mode)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func decodeFrame(inPath, outPath string, w, h int) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	fb, err := epd.Wrap(w, h, data)
	if err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := png.Encode(out, fb.Image()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// encodeFrame quantizes an image onto the panel palette. Pixels outside the
// frame are dropped and uncovered pixels stay white.
func encodeFrame(inPath, outPath string, w, h int) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()
	img, _, err := image.Decode(in)
	if err != nil {
		return err
	}
	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		_, _ = fmt.Fprintf(os.Stderr, "mkframe: image is %dx%d, frame is %dx%d; cropping\n", b.Dx(), b.Dy(), w, h)
	}

	fb, err := epd.New(w, h)
	if err != nil {
		return err
	}
	fb.Clear(epd.White)
	fb.Draw(img)
	return os.WriteFile(outPath, fb.Bytes(), 0o644)
}
