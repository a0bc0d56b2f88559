package catalog

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// TransportConfig tunes the connection pool towards the catalog host.
type TransportConfig struct {
	ConnectionTimeout   time.Duration
	IdleTimeout         time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
}

// DefaultTransportConfig returns sensible defaults
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		ConnectionTimeout:   5 * time.Second,
		IdleTimeout:         90 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}
}

// NewTransport builds a pooled transport. Only one catalog host is ever
// dialled, so the per-host limit is the one that matters.
func NewTransport(cfg TransportConfig) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectionTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}
