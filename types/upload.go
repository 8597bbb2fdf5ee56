package types

import "fmt"

// ImageReference is an opaque locator for a captured image: a plain path or a file:// URI.
type ImageReference string

// UploadKind classifies an upload outcome.
type UploadKind string

const (
	UploadSuccess              UploadKind = "success"
	UploadNoEndpointConfigured UploadKind = "no_endpoint_configured"
	UploadServerRejected       UploadKind = "server_rejected"
	UploadTransportFailure     UploadKind = "transport_failure"
	UploadImageUnavailable     UploadKind = "image_unavailable"
)

// UploadResult is what the delivery client reports back to the caller.
type UploadResult struct {
	Kind       UploadKind `json:"kind"`
	Endpoint   string     `json:"endpoint,omitempty"`
	StatusCode int        `json:"status_code,omitempty"`
	FileName   string     `json:"file_name,omitempty"`
	Bytes      int64      `json:"bytes,omitempty"`
	Timeout    bool       `json:"timeout,omitempty"`
	Cause      error      `json:"-"`
}

func (r UploadResult) OK() bool {
	return r.Kind == UploadSuccess
}

// Err converts a failed result into an error, nil on success.
func (r UploadResult) Err() error {
	switch r.Kind {
	case UploadSuccess:
		return nil
	case UploadNoEndpointConfigured:
		return ErrNoEndpointConfigured
	case UploadServerRejected:
		return fmt.Errorf("server rejected upload: status %d", r.StatusCode)
	case UploadTransportFailure:
		return fmt.Errorf("upload transport failure: %w", r.Cause)
	case UploadImageUnavailable:
		return fmt.Errorf("image unavailable: %w", r.Cause)
	default:
		return fmt.Errorf("unknown upload result %q", r.Kind)
	}
}

// ServerStatus is the companion server's GET /status answer.
type ServerStatus struct {
	Status       string            `json:"status"`
	Network      ServerNetworkInfo `json:"network"`
	UploadFolder string            `json:"upload_folder"`
	RecentFiles  []string          `json:"recent_files"`
	FileCount    int               `json:"file_count"`
	Message      string            `json:"message,omitempty"`
}

type ServerNetworkInfo struct {
	IP       string `json:"ip"`
	Hostname string `json:"hostname"`
	URL      string `json:"url"`
}
