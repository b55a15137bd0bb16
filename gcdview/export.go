package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"fortio.org/progressbar"
	"fortio.org/safecast"
	"github.com/corrodedHash/lukasbrot"
	"github.com/loov/hrtime"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type encodeFunc func(io.Writer, image.Image) error

func encoderFor(path string) (encodeFunc, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q, use .png, .bmp or .tif", ext)
	}
}

// Export renders a width x height window starting at startX/startY to
// path, one image pixel per cell, with a progress bar on stderr.
func Export(path, startX, startY string, width, height uint, r lukasbrot.Renderer) int {
	err := ExportTo(path, startX, startY, width, height, r, os.Stderr)
	if err != nil {
		return log.FErrf("Export to %s failed: %v", path, err)
	}
	return 0
}

func ExportTo(path, startX, startY string, width, height uint, r lukasbrot.Renderer, progress io.Writer) error {
	encode, err := encoderFor(path)
	if err != nil {
		return err
	}
	w, err := safecast.Convert[uint32](width)
	if err != nil {
		return fmt.Errorf("width %d: %w", width, err)
	}
	h, err := safecast.Convert[uint32](height)
	if err != nil {
		return fmt.Errorf("height %d: %w", height, err)
	}
	o, err := lukasbrot.ParseWindow(startX, startY, w, h)
	if err != nil {
		return err
	}
	cfg := progressbar.DefaultConfig()
	cfg.ScreenWriter = progress
	bar := cfg.NewBar()
	r.OnProgress = func(done, total uint32) {
		bar.Progress(100. * float64(done) / float64(total))
	}
	start := hrtime.Now()
	buf, err := r.Draw(o, w, h)
	bar.End()
	if err != nil {
		return err
	}
	log.Infof("Computed %dx%d cells from %s in %v", w, h, o, hrtime.Since(start))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = encode(f, lukasbrot.NewImage(buf, w, h))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.Infof("Wrote %s", path)
	return nil
}
