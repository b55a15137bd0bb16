package ansipixels

import (
	"bufio"
	"bytes"
	"io"
	"testing"
	"time"
)

// dataAndEOF returns its data together with io.EOF in a single Read.
type dataAndEOF struct {
	data []byte
}

func (r *dataAndEOF) Read(p []byte) (int, error) {
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, io.EOF
}

func TestReaderEndsWithoutSecondRead(t *testing.T) {
	ap := &AnsiPixels{Out: bufio.NewWriter(&bytes.Buffer{}), In: &dataAndEOF{data: []byte("q")}}
	if err := ap.ReadOrResizeOrSignal(); err != nil {
		t.Fatalf("ReadOrResizeOrSignal() error = %v", err)
	}
	if string(ap.Data) != "q" {
		t.Fatalf("Data = %q, want q", ap.Data)
	}
	// The reader goroutine must be able to hand off its final error and return
	// even though ReadOrResizeOrSignal is never called again.
	deadline := time.Now().Add(5 * time.Second)
	for len(ap.reads) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("reader goroutine still blocked on its final error")
		}
		time.Sleep(time.Millisecond)
	}
	if in := <-ap.reads; in.err != io.EOF {
		t.Errorf("final read error = %v, want EOF", in.err)
	}
}
