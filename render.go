package lukasbrot

import (
	"errors"
	"image"
	"image/color"
	"math/bits"
	"sync"
	"sync/atomic"

	"fortio.org/log"
	"fortio.org/safecast"
)

// The only 2 colors of the field.
var (
	Coprime    = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	NotCoprime = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// ErrWindowTooLarge is returned when 4*width*height doesn't fit in memory addressing.
var ErrWindowTooLarge = errors.New("window too large for a pixel buffer")

// DefaultBandRows is the number of rows each worker fills at a time.
const DefaultBandRows = 16

func CellColor(coprime bool) color.RGBA {
	if coprime {
		return Coprime
	}
	return NotCoprime
}

func setCell(px []byte, coprime bool) {
	c := CellColor(coprime)
	px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
}

// BufferSize is the length of the RGBA buffer for a width x height window.
func BufferSize(width, height uint32) (int, error) {
	hi, lo := bits.Mul64(uint64(width)*uint64(height), 4)
	if hi != 0 {
		return 0, ErrWindowTooLarge
	}
	n, err := safecast.Convert[int](lo)
	if err != nil {
		return 0, ErrWindowTooLarge
	}
	return n, nil
}

// Renderer fills windows of the field, optionally from several goroutines each
// owning disjoint bands of rows. The zero value renders sequentially.
type Renderer struct {
	// Workers is the number of goroutines, 0 or 1 renders in the calling goroutine.
	Workers int
	// BandRows is the band height, defaults to DefaultBandRows.
	BandRows uint32
	// OnProgress, if set, is called (never concurrently) after each band with
	// the number of rows completed so far and the total.
	OnProgress func(done, total uint32)
}

// Draw returns the row-major RGBA buffer of the width x height window
// anchored at o. On error no buffer is returned.
func (r *Renderer) Draw(o Origin, width, height uint32) ([]byte, error) {
	if err := o.Check(width, height); err != nil {
		return nil, err
	}
	size, err := BufferSize(width, height)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if size == 0 {
		return buf, nil
	}
	band := r.BandRows
	if band == 0 {
		band = DefaultBandRows
	}
	numBands := height / band
	if height%band != 0 {
		numBands++
	}
	stride := 4 * safecast.MustConvert[int](width)
	var mu sync.Mutex
	var done uint32
	fillBand := func(b uint32) {
		first := b * band
		last := first + min(band, height-first)
		o.fillRows(buf[int(first)*stride:int(last)*stride], width, first, last)
		if r.OnProgress == nil {
			return
		}
		mu.Lock()
		done += last - first
		r.OnProgress(done, height)
		mu.Unlock()
	}
	workers := min(r.Workers, safecast.MustConvert[int](numBands))
	log.Debugf("Drawing %dx%d from %s with %d workers", width, height, o, workers)
	if workers <= 1 {
		for b := range numBands {
			fillBand(b)
		}
		return buf, nil
	}
	var next atomic.Uint32
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				b := next.Add(1) - 1
				if b >= numBands {
					return
				}
				fillBand(b)
			}
		}()
	}
	wg.Wait()
	return buf, nil
}

// DrawField renders sequentially, rows top to bottom, each left to right.
func DrawField(o Origin, width, height uint32) ([]byte, error) {
	r := Renderer{}
	return r.Draw(o, width, height)
}

// Render is the single call entry point: parses both base 10 start coordinates,
// picks the fixed or arbitrary precision path and returns the 4*width*height
// bytes RGBA buffer.
func Render(startX, startY string, width, height uint32) ([]byte, error) {
	o, err := ParseWindow(startX, startY, width, height)
	if err != nil {
		return nil, err
	}
	return DrawField(o, width, height)
}

// NewImage wraps (without copy) a buffer returned by [Render] or [Renderer.Draw].
func NewImage(buf []byte, width, height uint32) *image.RGBA {
	w := safecast.MustConvert[int](width)
	h := safecast.MustConvert[int](height)
	return &image.RGBA{Pix: buf, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
}
