package http

import (
	"net/http"
)

// unmatchedWriter captures the status and headers ServeMux writes for requests
// that match no pattern, discarding its plain-text body.
type unmatchedWriter struct {
	header http.Header
	status int
}

func (w *unmatchedWriter) Header() http.Header {
	return w.header
}

func (w *unmatchedWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
}

func (w *unmatchedWriter) Write(b []byte) (int, error) {
	w.WriteHeader(http.StatusOK)

	return len(b), nil
}

// ServeMuxJSON dispatches r through mux. Requests that match no pattern get the
// mux's status (404, or 405 with its Allow header) with an ErrorResponse body.
func ServeMuxJSON(mux *http.ServeMux, w http.ResponseWriter, r *http.Request) error {
	handler, pattern := mux.Handler(r)
	if pattern != "" {
		mux.ServeHTTP(w, r)

		return nil
	}

	uw := &unmatchedWriter{header: make(http.Header)}
	handler.ServeHTTP(uw, r)

	if allow := uw.header.Get("Allow"); allow != "" {
		w.Header().Set("Allow", allow)
	}

	status := uw.status
	if status == 0 {
		status = http.StatusNotFound
	}

	return WriteError(w, status, http.StatusText(status), "")
}
