package view

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/corrodedHash/lukasbrot/ansipixels"
)

func newTestView(t *testing.T, x, y string, zoom int) (*View, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	ap := &ansipixels.AnsiPixels{Out: bufio.NewWriter(out), W: 12, H: 6, MonoColor: ansipixels.White}
	v, err := New(ap, x, y, zoom)
	if err != nil {
		t.Fatalf("New(%q, %q) error = %v", x, y, err)
	}
	return v, out
}

func TestNewClampsAndSizes(t *testing.T) {
	tests := []struct {
		x, y     string
		zoom     int
		pos      string
		wantZoom int
		wantW    uint32
		wantH    uint32
	}{
		{"0", "0", 1, "1/1", 1, 12, 12},
		{"5", "7", 3, "5/7", 3, 4, 4},
		{"5", "7", 0, "5/7", 1, 12, 12},
		{"5", "7", 42, "5/7", 6, 2, 2},
		{"18446744073709551616", "2", 2, "18446744073709551616/2", 2, 6, 6},
	}
	for _, tt := range tests {
		v, _ := newTestView(t, tt.x, tt.y, tt.zoom)
		if v.Position() != tt.pos {
			t.Errorf("Position() = %q, want %q", v.Position(), tt.pos)
		}
		if v.Zoom != tt.wantZoom {
			t.Errorf("Zoom = %d, want %d", v.Zoom, tt.wantZoom)
		}
		w, h := v.Size()
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("Size() = %d, %d, want %d, %d", w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestNewInvalid(t *testing.T) {
	ap := &ansipixels.AnsiPixels{W: 10, H: 10}
	if _, err := New(ap, "abc", "1", 1); err == nil {
		t.Errorf("New(abc) should fail")
	}
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		keys   string
		pos    string
		zoom   int
		cont   bool
		redraw bool
	}{
		{"\033[C", "11/10", 2, true, true},
		{"\033[D", "9/10", 2, true, true},
		{"\033[A", "10/9", 2, true, true},
		{"\033[B", "10/11", 2, true, true},
		{"l", "11/10", 2, true, true},
		{"L", "16/10", 2, true, true}, // 12/2 cells
		{"H", "4/10", 2, true, true},
		{"K", "10/4", 2, true, true},
		{"J", "10/16", 2, true, true},
		{"+", "10/10", 3, true, true},
		{"-", "10/10", 1, true, true},
		{"z", "10/10", 2, true, false},
		{"q", "10/10", 2, false, false},
		{"\x03", "10/10", 2, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			v, _ := newTestView(t, "10", "10", 2)
			cont, redraw := v.HandleKey([]byte(tt.keys))
			if cont != tt.cont || redraw != tt.redraw {
				t.Errorf("HandleKey(%q) = %t, %t, want %t, %t", tt.keys, cont, redraw, tt.cont, tt.redraw)
			}
			if v.Position() != tt.pos || v.Zoom != tt.zoom {
				t.Errorf("after %q at %s zoom %d, want %s zoom %d", tt.keys, v.Position(), v.Zoom, tt.pos, tt.zoom)
			}
		})
	}
}

func TestPanStopsAtOne(t *testing.T) {
	v, _ := newTestView(t, "2", "3", 1)
	v.Pan(-10, -1)
	if v.Position() != "1/2" {
		t.Errorf("Position() = %s, want 1/2", v.Position())
	}
	v.HandleKey([]byte("r"))
	if v.Position() != "2/3" {
		t.Errorf("after reset Position() = %s, want 2/3", v.Position())
	}
}

func TestDrag(t *testing.T) {
	v, _ := newTestView(t, "100", "100", 2)
	ap := v.AP
	ap.Mouse = true
	ap.Mbuttons = ansipixels.MouseLeft
	ap.Mx, ap.My = 5, 3
	if v.HandleMouse() {
		t.Errorf("click alone shouldn't redraw")
	}
	ap.Mbuttons = ansipixels.MouseMove | ansipixels.MouseLeft
	ap.Mx, ap.My = 9, 4 // 4 columns right = 2 cells, 1 line down = 2 pixels = 1 cell
	if !v.HandleMouse() {
		t.Errorf("drag should redraw")
	}
	if v.Position() != "98/99" {
		t.Errorf("after drag Position() = %s, want 98/99", v.Position())
	}
	ap.Mx, ap.My = 5, 3 // back to the start, back to the same cell
	v.HandleMouse()
	if v.Position() != "100/100" {
		t.Errorf("after drag back Position() = %s, want 100/100", v.Position())
	}
	ap.Mbuttons = ansipixels.MouseRelease
	v.HandleMouse()
	ap.Mbuttons = ansipixels.MouseMove | ansipixels.MouseLeft
	ap.Mx = 30
	if v.HandleMouse() {
		t.Errorf("motion after release shouldn't pan")
	}
	ap.Mbuttons = ansipixels.MouseWheelUp
	if !v.HandleMouse() || v.Zoom != 3 {
		t.Errorf("wheel up should zoom in, zoom %d", v.Zoom)
	}
}

func TestDraw(t *testing.T) {
	v, out := newTestView(t, "2", "3", 6)
	v.Draw()
	s := out.String()
	if !strings.Contains(s, " 2/3 zoom 6 fixed ") {
		t.Errorf("missing status line in %q", s)
	}
	// 2x2 cells: (2,3) black (3,3) white / (2,4) white (3,4) black, 6 pixels each.
	// First line is 2 pixel rows of the top cells: 6 blanks then 6 full blocks.
	if !strings.Contains(s, "      ██████") {
		t.Errorf("missing top cells in %q", s)
	}
	out.Reset()
	v.X.SetString("18446744073709551615", 10)
	v.Draw()
	if !strings.Contains(out.String(), " big ") {
		t.Errorf("window crossing 2^64 should use the big path: %q", out.String())
	}
}
