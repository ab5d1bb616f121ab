package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

type contextKey int

const (
	loadContextKey contextKey = iota
	modeKey
)

// Framework is the single entry point the adapter calls to process a request.
type Framework interface {
	HandleRequest(req *http.Request, loadContext any) (*http.Response, error)
}

// FrameworkFunc adapts a function to the Framework interface.
type FrameworkFunc func(req *http.Request, loadContext any) (*http.Response, error)

// HandleRequest calls f(req, loadContext).
func (f FrameworkFunc) HandleRequest(req *http.Request, loadContext any) (*http.Response, error) {
	return f(req, loadContext)
}

// LoadContextFrom returns the value produced by the load context function, or
// nil when none was configured.
func LoadContextFrom(ctx context.Context) any {
	return ctx.Value(loadContextKey)
}

// ModeFromContext returns the deployment mode the framework was created with.
func ModeFromContext(ctx context.Context) string {
	mode, _ := ctx.Value(modeKey).(string)
	return mode
}

type handlerFramework struct {
	build http.Handler
	mode  string
}

// NewFramework serves requests with build. The handler's output is buffered
// and returned as a standard response whose body can be read once.
func NewFramework(build http.Handler, mode string) Framework {
	return &handlerFramework{build: build, mode: mode}
}

func (f *handlerFramework) HandleRequest(req *http.Request, loadContext any) (res *http.Response, err error) {
	ctx := context.WithValue(req.Context(), modeKey, f.mode)
	ctx = context.WithValue(ctx, loadContextKey, loadContext)
	req = req.WithContext(ctx)

	w := newBufferedResponse()
	defer func() {
		if r := recover(); r != nil {
			if r == http.ErrAbortHandler {
				panic(r)
			}
			res, err = nil, fmt.Errorf("handler panic: %v", r)
		}
	}()

	f.build.ServeHTTP(w, req)
	return w.result(req), nil
}

// bufferedResponse collects what a handler writes.
type bufferedResponse struct {
	header      http.Header
	snapHeader  http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (w *bufferedResponse) Header() http.Header {
	return w.header
}

func (w *bufferedResponse) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = code
	w.snapHeader = w.header.Clone()
}

func (w *bufferedResponse) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		if w.header.Get("Content-Type") == "" && len(b) > 0 {
			w.header.Set("Content-Type", http.DetectContentType(b))
		}
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(b)
}

func (w *bufferedResponse) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush is a no-op; the whole body is delivered at once.
func (w *bufferedResponse) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
}

func (w *bufferedResponse) result(req *http.Request) *http.Response {
	header := w.snapHeader
	if header == nil {
		header = w.header.Clone()
	}

	res := &http.Response{
		Status:        strconv.Itoa(w.status) + " " + http.StatusText(w.status),
		StatusCode:    w.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Request:       req,
		ContentLength: int64(w.body.Len()),
	}

	if w.body.Len() == 0 || req.Method == http.MethodHead {
		res.Body = http.NoBody
		res.ContentLength = 0
	} else {
		res.Body = io.NopCloser(bytes.NewReader(w.body.Bytes()))
	}

	return res
}
