// Package view is the interactive state of the terminal field viewer:
// top-left coordinates, zoom, drag panning and drawing through ansipixels.
package view

import (
	"bytes"
	"math/big"
	"time"

	"fortio.org/log"
	"fortio.org/safecast"
	"github.com/corrodedHash/lukasbrot"
	"github.com/corrodedHash/lukasbrot/ansipixels"
	"github.com/loov/hrtime"
)

const (
	MinZoom = 1
	MaxZoom = 6
)

// Coordinates never go below this (same as the web version).
var minCoord = big.NewInt(1)

type View struct {
	AP       *ansipixels.AnsiPixels
	X, Y     *big.Int // top-left field cell
	Zoom     int      // terminal pixels per field cell
	Renderer lukasbrot.Renderer
	ShowInfo bool
	ShowHelp bool
	HasMouse bool
	// Duration of the last field computation.
	LastRender time.Duration
	// Path used for the last frame, "fixed" or "big".
	LastPath               string
	startX, startY         *big.Int
	dragging               bool
	dragX, dragY           *big.Int
	dragStartX, dragStartY int
}

// New parses the start coordinates, ones below 1 are moved to 1.
func New(ap *ansipixels.AnsiPixels, startX, startY string, zoom int) (*View, error) {
	o, err := lukasbrot.Parse(startX, startY)
	if err != nil {
		return nil, err
	}
	var b lukasbrot.Big
	switch v := o.(type) {
	case lukasbrot.Fixed:
		b = v.Widen()
	case lukasbrot.Big:
		b = lukasbrot.Big{X: new(big.Int).Set(v.X), Y: new(big.Int).Set(v.Y)}
	}
	v := &View{AP: ap, X: b.X, Y: b.Y, ShowInfo: true}
	v.clamp()
	v.SetZoom(zoom)
	v.startX = new(big.Int).Set(v.X)
	v.startY = new(big.Int).Set(v.Y)
	return v, nil
}

func (v *View) clamp() {
	if v.X.Cmp(minCoord) < 0 {
		v.X.Set(minCoord)
	}
	if v.Y.Cmp(minCoord) < 0 {
		v.Y.Set(minCoord)
	}
}

// Position is the top-left cell as "x/y".
func (v *View) Position() string {
	return v.X.Text(10) + "/" + v.Y.Text(10)
}

// Size is the field window shown, in cells. Each terminal line is 2 pixels high.
func (v *View) Size() (uint32, uint32) {
	w := max(0, v.AP.W/v.Zoom)
	h := max(0, 2*v.AP.H/v.Zoom)
	return safecast.MustConvert[uint32](w), safecast.MustConvert[uint32](h)
}

func (v *View) SetZoom(zoom int) {
	v.Zoom = min(MaxZoom, max(MinZoom, zoom))
}

// Pan moves the top-left corner by dx, dy cells.
func (v *View) Pan(dx, dy int64) {
	v.X.Add(v.X, big.NewInt(dx))
	v.Y.Add(v.Y, big.NewInt(dy))
	v.clamp()
}

// Reset goes back to the starting coordinates.
func (v *View) Reset() {
	v.X.Set(v.startX)
	v.Y.Set(v.startY)
}

// Draw computes the visible window and paints it. A window that fails to
// render is never painted, the error is shown instead.
func (v *View) Draw() {
	w, h := v.Size()
	start := hrtime.Now()
	buf, err := v.render(w, h)
	v.LastRender = hrtime.Since(start)
	ap := v.AP
	ap.StartSyncMode()
	ap.ClearScreen()
	if err != nil {
		log.Errf("Render of %s failed: %v", v.Position(), err)
		ap.WriteBoxed(ap.H/2, "Can't draw %s:\n%v", v.Position(), err)
	} else {
		img := ansipixels.ScaleImage(lukasbrot.NewImage(buf, w, h), v.Zoom)
		if err = ap.ShowScaledImage(img); err != nil {
			log.Errf("Error drawing: %v", err)
		}
	}
	if v.ShowInfo {
		ap.WriteString(ansipixels.Reverse)
		ap.WriteRight(ap.H-1, " %s zoom %d %s %v ", v.Position(), v.Zoom, v.LastPath, v.LastRender.Round(time.Microsecond))
		ap.WriteString(ansipixels.Reset)
	}
	if v.ShowHelp {
		help := "Arrows or hjkl to move, HJKL by a screen, +/- to zoom\n" +
			"r to go back to start, i for info, t for true color, q to quit"
		if v.HasMouse {
			help += "\nDrag with the left button to move, wheel to zoom"
		}
		ap.WriteBoxed(ap.H/2, "%s", help)
		v.ShowHelp = false
	}
	ap.EndSyncMode()
}

func (v *View) render(w, h uint32) ([]byte, error) {
	o, err := lukasbrot.ParseWindow(v.X.Text(10), v.Y.Text(10), w, h)
	if err != nil {
		return nil, err
	}
	v.LastPath = "fixed"
	if _, ok := o.(lukasbrot.Big); ok {
		v.LastPath = "big"
	}
	return v.Renderer.Draw(o, w, h)
}

var (
	arrowUp    = []byte("\033[A")
	arrowDown  = []byte("\033[B")
	arrowRight = []byte("\033[C")
	arrowLeft  = []byte("\033[D")
)

// HandleKey applies keyboard input, returns false when the viewer should exit
// and whether a redraw is needed.
func (v *View) HandleKey(data []byte) (cont, redraw bool) {
	w, h := v.Size()
	pageX := int64(max(1, w))
	pageY := int64(max(1, h))
	switch {
	case len(data) == 0:
		return true, false
	case bytes.HasPrefix(data, arrowUp):
		v.Pan(0, -1)
	case bytes.HasPrefix(data, arrowDown):
		v.Pan(0, 1)
	case bytes.HasPrefix(data, arrowRight):
		v.Pan(1, 0)
	case bytes.HasPrefix(data, arrowLeft):
		v.Pan(-1, 0)
	default:
		switch data[0] {
		case 'q', 'Q', 3, 4: // ^C ^D
			return false, false
		case 'h':
			v.Pan(-1, 0)
		case 'l':
			v.Pan(1, 0)
		case 'k':
			v.Pan(0, -1)
		case 'j':
			v.Pan(0, 1)
		case 'H':
			v.Pan(-pageX, 0)
		case 'L':
			v.Pan(pageX, 0)
		case 'K':
			v.Pan(0, -pageY)
		case 'J':
			v.Pan(0, pageY)
		case '+', '=':
			v.SetZoom(v.Zoom + 1)
		case '-', '_':
			v.SetZoom(v.Zoom - 1)
		case 'r', 'R':
			v.Reset()
		case 'i', 'I':
			v.ShowInfo = !v.ShowInfo
		case 't', 'T':
			v.AP.TrueColor = !v.AP.TrueColor
		case '?':
			v.ShowHelp = true
		default:
			return true, false
		}
	}
	return true, true
}

// HandleMouse drags the field with the left button, the cell grabbed stays
// under the pointer. The wheel zooms. Returns whether a redraw is needed.
func (v *View) HandleMouse() bool {
	ap := v.AP
	switch {
	case ap.MouseWheelUp():
		v.SetZoom(v.Zoom + 1)
		return true
	case ap.MouseWheelDown():
		v.SetZoom(v.Zoom - 1)
		return true
	case ap.LeftClick():
		v.dragging = true
		v.dragX = new(big.Int).Set(v.X)
		v.dragY = new(big.Int).Set(v.Y)
		v.dragStartX, v.dragStartY = ap.Mx, ap.My
		ap.MouseTrackingOn()
		log.LogVf("Drag start at %d, %d from %s", ap.Mx, ap.My, v.Position())
		return false
	case ap.LeftDrag() && v.dragging:
		dx := int64((ap.Mx - v.dragStartX) / v.Zoom)
		dy := int64(2 * (ap.My - v.dragStartY) / v.Zoom)
		v.X.Sub(v.dragX, big.NewInt(dx))
		v.Y.Sub(v.dragY, big.NewInt(dy))
		v.clamp()
		return true
	case ap.MouseRelease():
		if v.dragging {
			v.dragging = false
			ap.MouseTrackingOff()
			ap.MouseClickOn()
		}
		return false
	default:
		return false
	}
}
