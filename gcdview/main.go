// gcdview shows the coprimality field in the terminal, or exports a window of
// it to an image file with -out.
package main

import (
	"errors"
	"flag"
	"os"
	"runtime"

	"fortio.org/cli"
	"fortio.org/log"
	"github.com/corrodedHash/lukasbrot"
	"github.com/corrodedHash/lukasbrot/ansipixels"
	"github.com/corrodedHash/lukasbrot/gcdview/view"
)

func main() {
	os.Exit(Main())
}

func Main() int {
	zoomFlag := flag.Int("zoom", view.MaxZoom, "Terminal pixels per field cell (1 to 6)")
	trueColorFlag := flag.Bool("truecolor", ansipixels.DetectTrueColor(), "Use 24 bits colors, otherwise mono half blocks")
	workersFlag := flag.Int("workers", runtime.NumCPU(), "Number of goroutines computing the field")
	noMouseFlag := flag.Bool("nomouse", false, "Disable mouse tracking")
	outFlag := flag.String("out", "", "Write a `file` (.png, .bmp or .tif) of -width x -height cells instead of the terminal viewer")
	widthFlag := flag.Uint("width", 1024, "Width in cells for -out")
	heightFlag := flag.Uint("height", 1024, "Height in cells for -out")
	cli.MinArgs = 0
	cli.MaxArgs = 2
	cli.ArgsHelp = " [start_x [start_y]]\nStart coordinates are non-negative base 10 integers of any size, default 1 1"
	cli.Main()
	startX, startY := "1", "1"
	if flag.NArg() > 0 {
		startX = flag.Arg(0)
	}
	if flag.NArg() > 1 {
		startY = flag.Arg(1)
	}
	renderer := lukasbrot.Renderer{Workers: *workersFlag}
	if *outFlag != "" {
		return Export(*outFlag, startX, startY, *widthFlag, *heightFlag, renderer)
	}
	ap := ansipixels.NewAnsiPixels()
	ap.TrueColor = *trueColorFlag
	v, err := view.New(ap, startX, startY, *zoomFlag)
	if err != nil {
		return log.FErrf("Invalid start coordinates: %v", err)
	}
	v.Renderer = renderer
	v.HasMouse = !*noMouseFlag
	if err = ap.Open(); err != nil {
		return log.FErrf("Error opening terminal: %v", err)
	}
	log.SetOutput(&ansipixels.CRLFWriter{Out: os.Stderr})
	return Run(v)
}

// Run is the interactive loop, redrawing only when the view changed.
func Run(v *view.View) int {
	ap := v.AP
	defer func() {
		ap.MouseTrackingOff()
		ap.MouseClickOff()
		ap.ShowCursor()
		ap.MoveCursor(0, ap.H-1)
		ap.Restore()
	}()
	ap.HideCursor()
	if v.HasMouse {
		ap.MouseClickOn() // tracking of motion is only turned on while dragging.
	}
	ap.OnResize = func() error {
		v.Draw()
		return nil
	}
	v.ShowHelp = true
	v.Draw()
	for {
		err := ap.ReadOrResizeOrSignal()
		if errors.Is(err, ansipixels.ErrSignal) {
			return 0
		}
		if err != nil {
			return log.FErrf("Error reading: %v", err)
		}
		redraw := false
		if ap.Mouse {
			redraw = v.HandleMouse()
		}
		cont, keyRedraw := v.HandleKey(ap.Data)
		if !cont {
			return 0
		}
		if redraw || keyRedraw {
			v.Draw()
		}
	}
}
