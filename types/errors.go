package types

import "errors"

var (
	// ErrNoLocalAddress means the network-info reading had no usable IPv4 address; discovery is skipped.
	ErrNoLocalAddress = errors.New("no local address available")
	// ErrDiscoveryExhausted means every candidate was probed and none answered.
	ErrDiscoveryExhausted = errors.New("server not detected")
	// ErrNoEndpointConfigured means an upload was attempted with neither a discovered nor a saved endpoint.
	ErrNoEndpointConfigured = errors.New("no server endpoint configured")
	// ErrEmptyEndpoint rejects blank endpoint saves.
	ErrEmptyEndpoint = errors.New("endpoint must not be empty")

	ErrShareUnavailable = errors.New("sharing is not available on this device")
	ErrNoImages         = errors.New("no images captured")
	ErrUploadBusy       = errors.New("an upload is already in progress")
)
