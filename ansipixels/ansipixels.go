// Package ansipixels is the terminal drawing surface of the field viewer:
// raw mode, cursor/text helpers, half block image output and keyboard, mouse
// and resize input.
package ansipixels // import "github.com/corrodedHash/lukasbrot/ansipixels"

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"fortio.org/log"
	"fortio.org/safecast"
	"github.com/rivo/uniseg"
	"golang.org/x/term"
)

// ErrSignal is returned by [AnsiPixels.ReadOrResizeOrSignal] for termination signals.
var ErrSignal = errors.New("signal received")

type input struct {
	data []byte
	err  error
}

type AnsiPixels struct {
	fd    int
	fdOut int
	Out   *bufio.Writer
	In    io.Reader
	state *term.State
	Data  []byte
	W, H  int // Width and Height
	C     chan os.Signal
	// OnResize is called after the new size is read on resize signals.
	OnResize func() error
	// TrueColor selects 24 bits colors in [AnsiPixels.ShowScaledImage], mono otherwise.
	TrueColor bool
	// Foreground used by mono images.
	MonoColor string
	// Mouse event decoded from the last read.
	Mouse    bool
	Mx, My   int
	Mbuttons int
	// OnMouse is called for each decoded mouse event.
	OnMouse func()
	reads   chan input
}

func NewAnsiPixels() *AnsiPixels {
	return &AnsiPixels{
		fd:        safecast.MustConvert[int](os.Stdin.Fd()),
		fdOut:     safecast.MustConvert[int](os.Stdout.Fd()),
		Out:       bufio.NewWriter(os.Stdout),
		In:        os.Stdin,
		TrueColor: DetectTrueColor(),
		MonoColor: White,
	}
}

// DetectTrueColor checks COLORTERM like most terminal programs do.
func DetectTrueColor() bool {
	ct := os.Getenv("COLORTERM")
	return ct == "truecolor" || ct == "24bit"
}

// Open switches to raw mode, reads the size and starts listening for signals.
func (ap *AnsiPixels) Open() (err error) {
	ap.state, err = term.MakeRaw(ap.fd)
	if err != nil {
		return err
	}
	ap.SignalChannel()
	return ap.GetSize()
}

func (ap *AnsiPixels) GetSize() (err error) {
	ap.W, ap.H, err = term.GetSize(ap.fdOut)
	return
}

func (ap *AnsiPixels) Restore() {
	ap.Out.Flush()
	if ap.state == nil {
		return
	}
	err := term.Restore(ap.fd, ap.state)
	if err != nil {
		log.Fatalf("Error restoring terminal: %v", err)
	}
	ap.state = nil
}

func (ap *AnsiPixels) WriteString(s string) {
	_, _ = ap.Out.WriteString(s)
}

func (ap *AnsiPixels) WriteRune(r rune) {
	_, _ = ap.Out.WriteRune(r)
}

func (ap *AnsiPixels) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(ap.Out, format, args...)
}

func (ap *AnsiPixels) ClearScreen() {
	_, err := ap.Out.WriteString("\033[2J")
	if err != nil {
		log.Errf("Error clearing screen: %v", err)
	}
}

func (ap *AnsiPixels) MoveCursor(x, y int) {
	_, err := ap.Out.WriteString("\033[" + strconv.Itoa(y+1) + ";" + strconv.Itoa(x+1) + "H")
	if err != nil {
		log.Errf("Error moving cursor: %v", err)
	}
}

func (ap *AnsiPixels) WriteAtStr(x, y int, msg string) {
	ap.MoveCursor(x, y)
	ap.WriteString(msg)
}

func (ap *AnsiPixels) WriteAt(x, y int, msg string, args ...any) {
	ap.MoveCursor(x, y)
	ap.Printf(msg, args...)
}

// ScreenWidth is the number of terminal columns s occupies.
func ScreenWidth(s string) int {
	return uniseg.StringWidth(s)
}

func (ap *AnsiPixels) WriteCentered(y int, msg string, args ...any) {
	s := fmt.Sprintf(msg, args...)
	x := (ap.W - ScreenWidth(s)) / 2
	ap.MoveCursor(max(0, x), y)
	ap.WriteString(s)
}

func (ap *AnsiPixels) WriteRight(y int, msg string, args ...any) {
	s := fmt.Sprintf(msg, args...)
	ap.MoveCursor(max(0, ap.W-ScreenWidth(s)), y)
	ap.WriteString(s)
}

// WriteBoxed writes the (possibly multi line) message centered at line y
// inside a rounded box.
func (ap *AnsiPixels) WriteBoxed(y int, msg string, args ...any) {
	lines := strings.Split(fmt.Sprintf(msg, args...), "\n")
	width := 0
	for _, l := range lines {
		width = max(width, ScreenWidth(l))
	}
	x := max(0, (ap.W-width)/2-1)
	y -= (len(lines) + 1) / 2
	bar := strings.Repeat(Horizontal, width)
	ap.WriteAtStr(x, y, RoundTopLeft+bar+RoundTopRight)
	for i, l := range lines {
		pad := width - ScreenWidth(l)
		ap.WriteAtStr(x, y+1+i, Vertical+strings.Repeat(" ", pad/2)+l+strings.Repeat(" ", pad-pad/2)+Vertical)
	}
	ap.WriteAtStr(x, y+1+len(lines), RoundBottomLeft+bar+RoundBottomRight)
}

func (ap *AnsiPixels) ClearEndOfLine() {
	ap.WriteString("\033[K")
}

func (ap *AnsiPixels) HideCursor() {
	ap.WriteString("\033[?25l")
}

func (ap *AnsiPixels) ShowCursor() {
	ap.WriteString("\033[?25h")
}

// StartSyncMode starts a synchronized update, the terminal shows the frame
// at [AnsiPixels.EndSyncMode].
func (ap *AnsiPixels) StartSyncMode() {
	ap.WriteString("\033[?2026h")
}

func (ap *AnsiPixels) EndSyncMode() {
	ap.WriteString("\033[?2026l")
	_ = ap.Out.Flush()
}

func (ap *AnsiPixels) SignalChannel() {
	ap.C = make(chan os.Signal, 1)
	signal.Notify(ap.C, signalList...)
}

func (ap *AnsiPixels) startReader() {
	if ap.reads != nil {
		return
	}
	// Capacity 1 so the final error doesn't block the reader once nobody reads.
	ap.reads = make(chan input, 1)
	go func() {
		for {
			buf := make([]byte, 256)
			n, err := ap.In.Read(buf)
			if n > 0 {
				ap.reads <- input{data: buf[:n]}
			}
			if err != nil {
				ap.reads <- input{err: err}
				return
			}
		}
	}()
}

// ReadOrResizeOrSignal flushes the output and blocks until there is input in
// Data (mouse events are decoded into Mouse, Mx, My, Mbuttons),
// a resize (W, H are updated and OnResize is called, Data is empty)
// or a termination signal ([ErrSignal]).
func (ap *AnsiPixels) ReadOrResizeOrSignal() error {
	ap.startReader()
	_ = ap.Out.Flush()
	ap.Data = ap.Data[:0]
	ap.Mouse = false
	select {
	case s := <-ap.C:
		if !ap.IsResizeSignal(s) {
			log.LogVf("Signal received: %v", s)
			return ErrSignal
		}
		if err := ap.GetSize(); err != nil {
			return err
		}
		log.LogVf("Resized to %dx%d", ap.W, ap.H)
		if ap.OnResize != nil {
			return ap.OnResize()
		}
		return nil
	case in := <-ap.reads:
		if in.err != nil {
			return in.err
		}
		ap.Data = append(ap.Data, in.data...)
		ap.MouseDecodeAll()
		return nil
	}
}
