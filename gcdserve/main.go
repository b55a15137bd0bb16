// Serve windows of the coprimality field over http.
//
//	curl 'localhost:8080/field?x=1&y=1&w=40&h=20&format=text'
//
// format is png (default), text (half blocks) or ansi (24 bits colors).
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"runtime"
	"strconv"

	"fortio.org/fortio/fhttp"
	"fortio.org/log"
	"fortio.org/safecast"
	"fortio.org/scli"
	"github.com/corrodedHash/lukasbrot"
	"github.com/corrodedHash/lukasbrot/ansipixels"
)

func main() {
	os.Exit(Main())
}

var (
	maxAreaFlag = flag.Uint64("max-area", 1<<22, "Largest w*h accepted per request")
	workersFlag = flag.Int("workers", runtime.NumCPU(), "Goroutines computing each window")
)

func Main() int {
	portFlag := flag.String("port", ":8080", "Port to listen on")
	scli.ServerMain()
	mux, _ := fhttp.HTTPServer("gcdserve", *portFlag)
	if mux == nil {
		return 1 // already logged by fhttp
	}
	mux.HandleFunc("GET /field", log.LogAndCall("field", fieldHandler))
	scli.UntilInterrupted()
	return 0
}

var errTooLarge = errors.New("window too large")

type fieldRequest struct {
	x, y   string
	w, h   uint32
	format string
}

func dimension(r *http.Request, name string, def uint32) (uint32, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return safecast.MustConvert[uint32](v), nil
}

func parseRequest(r *http.Request) (fieldRequest, error) {
	q := r.URL.Query()
	req := fieldRequest{x: q.Get("x"), y: q.Get("y"), format: q.Get("format")}
	if req.x == "" {
		req.x = "1"
	}
	if req.y == "" {
		req.y = "1"
	}
	switch req.format {
	case "":
		req.format = "png"
	case "png", "text", "ansi":
	default:
		return req, fmt.Errorf("unknown format %q", req.format)
	}
	var err error
	if req.w, err = dimension(r, "w", 64); err != nil {
		return req, err
	}
	if req.h, err = dimension(r, "h", 64); err != nil {
		return req, err
	}
	if uint64(req.w)*uint64(req.h) > *maxAreaFlag {
		return req, fmt.Errorf("%w: %dx%d above %d cells", errTooLarge, req.w, req.h, *maxAreaFlag)
	}
	return req, nil
}

func fieldHandler(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if errors.Is(err, errTooLarge) {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o, err := lukasbrot.ParseWindow(req.x, req.y, req.w, req.h)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	renderer := lukasbrot.Renderer{Workers: *workersFlag}
	buf, err := renderer.Draw(o, req.w, req.h)
	if err != nil {
		log.S(log.Error, "Render failed", log.Str("origin", o.String()), log.Any("err", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	img := lukasbrot.NewImage(buf, req.w, req.h)
	switch req.format {
	case "png":
		w.Header().Set("Content-Type", "image/png")
		err = png.Encode(w, img)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, err = w.Write([]byte(ansipixels.ImageString(img)))
	case "ansi":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		ww := bufio.NewWriter(w)
		ap := &ansipixels.AnsiPixels{Out: ww, W: safecast.MustConvert[int](req.w), H: safecast.MustConvert[int](req.h/2 + req.h%2)}
		if err = ap.DrawTrueColorImage(0, 0, img); err == nil {
			ap.WriteString("\r\n")
			err = ww.Flush()
		}
	}
	if err != nil {
		log.LogVf("Error writing %s response: %v", req.format, err)
	}
}
