package ansipixels

import (
	"bytes"

	"fortio.org/log"
)

// MouseClickOn reports button presses and releases (and the wheel).
func (ap *AnsiPixels) MouseClickOn() {
	ap.WriteString("\033[>1s") // xtshiftescape, so shift modifiers are reported.
	ap.WriteString("\033[?1000h")
}

func (ap *AnsiPixels) MouseClickOff() {
	ap.WriteString("\033[?1000l")
}

// MouseTrackingOn also reports motion, needed for drags.
func (ap *AnsiPixels) MouseTrackingOn() {
	ap.WriteString("\033[>1s")
	ap.WriteString("\033[?1003h")
}

func (ap *AnsiPixels) MouseTrackingOff() {
	ap.WriteString("\033[?1003l")
}

var mouseDataPrefix = []byte{0x1b, '[', 'M'}

type MouseStatus int

const (
	NoMouse MouseStatus = iota
	MouseComplete
	MousePrefix
)

// MouseDecode decodes a single X10 mouse event from Data, removing it from Data.
// It is called through [AnsiPixels.MouseDecodeAll] by [AnsiPixels.ReadOrResizeOrSignal]
// so callers typically just check the Mouse, Mx, My, Mbuttons fields.
// Mx and My are 1 based terminal coordinates.
func (ap *AnsiPixels) MouseDecode() MouseStatus {
	idx := bytes.Index(ap.Data, mouseDataPrefix)
	if idx == -1 {
		return NoMouse
	}
	start := idx + len(mouseDataPrefix)
	if start+3 > len(ap.Data) {
		log.LogVf("Incomplete mouse event %q", ap.Data[idx:])
		ap.Data = ap.Data[:idx]
		return MousePrefix
	}
	b := ap.Data[start]
	x := ap.Data[start+1]
	y := ap.Data[start+2]
	ap.Data = append(ap.Data[:idx], ap.Data[start+3:]...)
	ap.Mx = int(x) - 32
	ap.My = int(y) - 32
	ap.Mbuttons = int(b) - 32
	return MouseComplete
}

// MouseDecodeAll decodes all mouse events available, the last one wins.
// OnMouse, when set, is called for each of them.
func (ap *AnsiPixels) MouseDecodeAll() {
	for ap.MouseDecode() == MouseComplete {
		ap.Mouse = true
		if ap.OnMouse != nil {
			ap.OnMouse()
		}
	}
}

const (
	MouseLeft       = 0b00
	MouseMiddle     = 0b01
	MouseRight      = 0b10
	MouseRelease    = 0b11 // X10 doesn't say which button was released.
	MouseMove       = 0b100000
	MouseWheelUp    = 0b1000000
	MouseWheelDown  = 0b1000001
	Shift           = 0b000100
	Alt             = 0b001000
	Ctrl            = 0b010000
	AllModifiers    = Shift | Alt | Ctrl
	AnyModifierMask = ^AllModifiers
	// On a mac with a physical mouse, shift mousewheel is translated to button 6,7 which
	// here looks like we set the MouseRight bit (when shift-mousewheeling).
	MouseWheelMask = ^(AllModifiers | MouseRight)
)

func (ap *AnsiPixels) MouseWheelUp() bool {
	return ap.Mouse && ((ap.Mbuttons & MouseWheelMask) == MouseWheelUp)
}

func (ap *AnsiPixels) MouseWheelDown() bool {
	return ap.Mouse && ((ap.Mbuttons & MouseWheelMask) == MouseWheelDown)
}

func (ap *AnsiPixels) AnyModifier() bool {
	return ap.Mbuttons&AllModifiers != 0
}

func (ap *AnsiPixels) LeftClick() bool {
	return ap.Mouse && ((ap.Mbuttons & AnyModifierMask) == MouseLeft)
}

func (ap *AnsiPixels) RightClick() bool {
	return ap.Mouse && ((ap.Mbuttons & AnyModifierMask) == MouseRight)
}

func (ap *AnsiPixels) LeftDrag() bool {
	return ap.Mouse && ((ap.Mbuttons & AnyModifierMask) == MouseMove|MouseLeft)
}

func (ap *AnsiPixels) MouseRelease() bool {
	return ap.Mouse && ((ap.Mbuttons & AnyModifierMask) == MouseRelease)
}
