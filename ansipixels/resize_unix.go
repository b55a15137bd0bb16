//go:build unix

package ansipixels

import (
	"os"

	"golang.org/x/sys/unix"
)

var signalList = []os.Signal{os.Interrupt, unix.SIGTERM, unix.SIGWINCH}

func (ap *AnsiPixels) IsResizeSignal(s os.Signal) bool {
	return s == unix.SIGWINCH
}
