package types

// Notification represents a notification message structure
type Notification struct {
	Id      string         `json:"id,omitempty"`
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "upload_end", "server_discovered"
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}

const (
	NotifyTypeServerDiscovered = "server_discovered"
	NotifyTypeServerNotFound   = "server_not_found"
	NotifyTypeEndpointSaved    = "endpoint_saved"
	NotifyTypeUploadStart      = "upload_start"
	NotifyTypeUploadEnd        = "upload_end"
	NotifyTypeUploadFailed     = "upload_failed"
	NotifyTypeShared           = "shared"
	NotifyTypeShareFailed      = "share_failed"
)
