// Package customhttpclient provides a shared pooled transport for the
// outbound HTTP backends.
package customhttpclient

import (
	"net/http"

	"github.com/rizkyfm/docchat/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// Pooled returns a client that reuses connections across completion
// calls. Chat turns hit the same host every time, so the handshake cost
// is worth sharing.
func Pooled() *http.Client {
	return &http.Client{Transport: customTransport}
}
