package tool

import (
	"context"
	"net"
	"net/http"
	"time"
)

const (
	// ProbeTimeout bounds each background discovery probe.
	ProbeTimeout = 500 * time.Millisecond
	// ConnectionTestTimeout bounds a user-initiated connection test.
	ConnectionTestTimeout = 5 * time.Second
	// UploadTimeout bounds one document upload.
	UploadTimeout = 30 * time.Second
)

var (
	ProbeHttpClient  *http.Client
	UploadHttpClient *http.Client
)

func init() {
	InitHTTPClients(nil)
}

// newHTTPClientWithBindAddr creates an HTTP client. When bindAddr is non-nil, outgoing connections
// are bound to that local address (e.g. to force use of the wifi interface).
func newHTTPClientWithBindAddr(bindAddr *net.TCPAddr, maxIdlePerHost int) *http.Client {
	dialer := &net.Dialer{
		Timeout:   UploadTimeout,
		KeepAlive: 30 * time.Second,
	}
	if bindAddr != nil {
		dialer.LocalAddr = bindAddr
	}
	transport := &http.Transport{
		Proxy:               nil, // LAN only, never route through a proxy
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: maxIdlePerHost,
		IdleConnTimeout:     30 * time.Second,
		DisableKeepAlives:   maxIdlePerHost == 0,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}
	return &http.Client{
		Transport: transport,
	}
}

// InitHTTPClients (re)initializes the HTTP clients with optional bind address.
// Probes never reuse connections since each candidate is a different host.
func InitHTTPClients(bindAddr *net.TCPAddr) {
	ProbeHttpClient = newHTTPClientWithBindAddr(bindAddr, 0)
	UploadHttpClient = newHTTPClientWithBindAddr(bindAddr, 2)
}

// NewHTTPReqWithApplication sets the JSON headers the discovery endpoint expects.
func NewHTTPReqWithApplication(req *http.Request, err error) (*http.Request, error) {
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
