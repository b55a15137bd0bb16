package ansipixels

import (
	"bytes"
	"io"
)

// CRLFWriter adds the \r raw mode terminals need before each \n,
// typically for the logger output: log.SetOutput(&ansipixels.CRLFWriter{Out: os.Stderr}).
type CRLFWriter struct {
	Out io.Writer
}

type FlushWriter interface {
	io.Writer
	Flush() error
}

func (w *CRLFWriter) Write(buf []byte) (n int, err error) {
	for len(buf) > 0 {
		i := bytes.IndexByte(buf, '\n')
		todo := len(buf)
		if i >= 0 {
			todo = i
		}
		var nn int
		nn, err = w.Out.Write(buf[:todo])
		n += nn
		if err != nil {
			return n, err
		}
		buf = buf[todo:]
		if i >= 0 {
			if _, err = w.Out.Write([]byte{'\r', '\n'}); err != nil {
				return n, err
			}
			n++
			buf = buf[1:]
		}
	}
	if flusher, ok := w.Out.(FlushWriter); ok {
		err = flusher.Flush()
	}
	return n, err
}
