package types

// SessionState is the JSON view of the capture session.
type SessionState struct {
	SessionId string           `json:"session_id"`
	Images    []ImageReference `json:"images"`
	Current   int              `json:"current"`
	Total     int              `json:"total"`
}

// AddImageRequest is the body for POST /api/self/v1/session/images.
type AddImageRequest struct {
	Image ImageReference `json:"image" binding:"required"`
}

// TestConnectionRequest is the body for POST /api/self/v1/test-connection.
type TestConnectionRequest struct {
	Endpoint string `json:"endpoint"`
}
