package request

import "net/http"

// ClientWriter wraps a http.ResponseWriter and remembers the status code that
// was written, so middleware can report it after the handler returns.
type ClientWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
}

// NewClientWriter creates a new ClientWriter.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
	}
}

func (w *ClientWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.status = code
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *ClientWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// StatusCode returns the status code that was written, defaulting to 200 when
// the handler never wrote one.
func (w *ClientWriter) StatusCode() int {
	if !w.wroteHeader {
		return http.StatusOK
	}
	return w.status
}
