// Package httpserver builds the API server with project timeouts.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server. Syncs triggered over HTTP can take a while, so
// the write timeout is generous.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
