package notify

import (
	"github.com/dustin/go-humanize"

	"github.com/moyoez/docscan-go/types"
)

// User-facing texts. Status codes go to Data, never into the text.
const (
	MessageUploadSuccess    = "Document sent successfully!"
	MessageNoEndpoint       = "Enter your computer's IP address and port (e.g., 192.168.1.100:5000) in Settings or make sure the server is running."
	MessageUploadFailed     = "Failed to send document. Please check your connection and try again."
	MessageImageMissing     = "The captured image could not be read. Please retake it."
	MessageShareUnavailable = "Sharing is not available on this device"
)

// UploadResultMessage returns the title and text shown to the user for result.
func UploadResultMessage(result types.UploadResult) (string, string) {
	switch result.Kind {
	case types.UploadSuccess:
		return "Success", MessageUploadSuccess
	case types.UploadNoEndpointConfigured:
		return "Server Not Found", MessageNoEndpoint
	case types.UploadImageUnavailable:
		return "Error", MessageImageMissing
	default:
		return "Error", MessageUploadFailed
	}
}

// SendUploadStartNotification announces that image is about to be sent to endpoint.
func SendUploadStartNotification(endpoint string, image types.ImageReference) error {
	return Notify(&types.Notification{
		Type:    types.NotifyTypeUploadStart,
		Title:   "Sending...",
		Message: endpoint,
		Data: map[string]any{
			"endpoint": endpoint,
			"image":    string(image),
		},
	})
}

// SendUploadResultNotification escalates an upload outcome to the user.
func SendUploadResultNotification(result types.UploadResult) error {
	title, message := UploadResultMessage(result)
	eventType := types.NotifyTypeUploadEnd
	if !result.OK() {
		eventType = types.NotifyTypeUploadFailed
	}
	data := map[string]any{
		"kind":     string(result.Kind),
		"endpoint": result.Endpoint,
	}
	if result.FileName != "" {
		data["fileName"] = result.FileName
	}
	if result.Bytes > 0 {
		data["size"] = humanize.Bytes(uint64(result.Bytes))
	}
	if result.StatusCode != 0 {
		data["statusCode"] = result.StatusCode
	}
	if result.Cause != nil {
		data["cause"] = result.Cause.Error()
	}
	return Notify(&types.Notification{
		Type:    eventType,
		Title:   title,
		Message: message,
		Data:    data,
	})
}

// SendShareNotification reports a local share outcome.
func SendShareNotification(path string, err error) error {
	if err != nil {
		return Notify(&types.Notification{
			Type:    types.NotifyTypeShareFailed,
			Title:   "Sharing not available",
			Message: MessageShareUnavailable,
			Data:    map[string]any{"cause": err.Error()},
		})
	}
	return Notify(&types.Notification{
		Type:    types.NotifyTypeShared,
		Title:   "Shared",
		Message: path,
		Data:    map[string]any{"path": path},
	})
}
