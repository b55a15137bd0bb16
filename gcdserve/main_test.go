package main

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func get(t *testing.T, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/field?"+query, nil)
	rec := httptest.NewRecorder()
	fieldHandler(rec, req)
	return rec
}

func TestFieldStatus(t *testing.T) {
	tests := []struct {
		query  string
		status int
	}{
		{"x=1&y=1&w=2&h=2", http.StatusOK},
		{"", http.StatusOK},
		{"x=18446744073709551615&y=1&w=3&h=3&format=text", http.StatusOK},
		{"x=-1&y=1", http.StatusBadRequest},
		{"x=1&y=0x10", http.StatusBadRequest},
		{"w=abc", http.StatusBadRequest},
		{"h=-3", http.StatusBadRequest},
		{"w=4294967296", http.StatusBadRequest},
		{"w=4294967295&h=0&format=ansi", http.StatusOK},
		{"format=gif", http.StatusBadRequest},
		{"w=100000&h=100000", http.StatusRequestEntityTooLarge},
		{"w=0&h=5&format=text", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, tt.query)
			if rec.Code != tt.status {
				t.Errorf("GET /field?%s = %d, want %d: %s", tt.query, rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestFieldPNG(t *testing.T) {
	rec := get(t, "x=2&y=2&w=2&h=2")
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("png decode error = %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	want := [2][2]uint32{{0xffff, 0}, {0, 0xffff}} // (2,2) (3,2) / (2,3) (3,3)
	for y := range 2 {
		for x := range 2 {
			if r, _, _, _ := img.At(x, y).RGBA(); r != want[y][x] {
				t.Errorf("pixel %d,%d red = %#x, want %#x", x, y, r, want[y][x])
			}
		}
	}
}

func TestFieldText(t *testing.T) {
	// (2,2) white (3,2) black / (2,3) black (3,3) white.
	rec := get(t, "x=2&y=2&w=2&h=2&format=text")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if got, want := rec.Body.String(), "▀▄\n"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestFieldANSI(t *testing.T) {
	rec := get(t, "x=1&y=1&w=4&h=3&format=ansi")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "\033[38;2;") || !strings.HasSuffix(body, "\r\n") {
		t.Errorf("unexpected ansi output %q", body)
	}
}
