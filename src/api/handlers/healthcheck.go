package handlers

import (
	"net/http"
)

// Healthcheck reports that the process is serving. It does not touch storage
// or the quote provider.
func Healthcheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
