package ansipixels_test

import (
	"strings"
	"testing"

	"github.com/corrodedHash/lukasbrot/ansipixels"
)

type countingWriter struct {
	count   int
	builder strings.Builder
}

func (t *countingWriter) Write(p []byte) (n int, err error) {
	t.count++
	return t.builder.Write(p)
}

func TestCRLFWriter(t *testing.T) {
	tests := []struct {
		input     string
		want      string
		numWrites int
	}{
		{"Hello, World!", "Hello, World!", 1},
		{"", "", 0},
		{"\n", "\r\n", 2}, // empty chunk then the \r\n
		{"Hello, World!\n", "Hello, World!\r\n", 2},
		{"a\nb", "a\r\nb", 3},
		{"\nx\n", "\r\nx\r\n", 4},
	}
	for _, tt := range tests {
		out := countingWriter{}
		w := &ansipixels.CRLFWriter{Out: &out}
		n, err := w.Write([]byte(tt.input))
		if err != nil {
			t.Errorf("Write(%q) error = %v", tt.input, err)
		}
		if n != len(tt.input) {
			t.Errorf("Write(%q) = %d, want %d", tt.input, n, len(tt.input))
		}
		if out.count != tt.numWrites {
			t.Errorf("Write(%q) did %d writes, want %d", tt.input, out.count, tt.numWrites)
		}
		if got := out.builder.String(); got != tt.want {
			t.Errorf("Write(%q) wrote %q, want %q", tt.input, got, tt.want)
		}
	}
}
