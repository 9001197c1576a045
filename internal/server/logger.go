package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// RequestLogger is a middleware to log HTTP requests. Requests under
// /layers/ are tagged with the canonical layer name they resolved to.
func (s *Context) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &countingWriter{ResponseWriter: w}
		next.ServeHTTP(ww, r)

		evt := log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.status()).
			Int("bytes", ww.written).
			Str("ip", r.RemoteAddr).
			Dur("duration", time.Since(start))

		if name := s.layerNameFromPath(r.URL.Path); name != "" {
			evt = evt.Str("layer", name)
		}

		evt.Msg("Request processed")
	})
}

// layerNameFromPath resolves /layers/{name}... to the canonical layer name,
// or "" when the path does not address a known layer.
func (s *Context) layerNameFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] != "layers" {
		return ""
	}

	name := strings.TrimSuffix(parts[1], ".geojson")

	return s.Resolver[name]
}

// countingWriter captures the status code and payload size of a response.
type countingWriter struct {
	http.ResponseWriter
	code    int
	written int
}

func (w *countingWriter) WriteHeader(code int) {
	if w.code == 0 {
		w.code = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *countingWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n

	return n, err
}

func (w *countingWriter) status() int {
	if w.code == 0 {
		return http.StatusOK
	}

	return w.code
}
