package tool

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeEndpoint trims whitespace, an http:// prefix and trailing slashes from a host:port string.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return strings.TrimRight(endpoint, "/")
}

func buildEndpointURL(endpoint, path string) (string, error) {
	endpoint = NormalizeEndpoint(endpoint)
	if endpoint == "" {
		return "", fmt.Errorf("empty endpoint")
	}
	u, err := url.Parse("http://" + endpoint + path)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %v", endpoint, err)
	}
	if u.Host == "" || u.Path != path {
		return "", fmt.Errorf("invalid endpoint %q", endpoint)
	}
	return u.String(), nil
}

// BuildDiscoverURL builds the liveness probe URL.
func BuildDiscoverURL(endpoint string) (string, error) {
	return buildEndpointURL(endpoint, "/discover")
}

// BuildUploadURL builds the document upload URL.
func BuildUploadURL(endpoint string) (string, error) {
	return buildEndpointURL(endpoint, "/upload")
}

// BuildStatusURL builds the server status URL.
func BuildStatusURL(endpoint string) (string, error) {
	return buildEndpointURL(endpoint, "/status")
}

// BuildBaseURL returns http://host:port, used for QR codes.
func BuildBaseURL(endpoint string) string {
	return "http://" + NormalizeEndpoint(endpoint)
}
