package notify

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// NotifyWriteChunkSize is both the write chunk and the maximum payload size.
const NotifyWriteChunkSize = 32 * 1024 // 32KB

// Hub receives every notification, e.g. the websocket hub of the control API.
type Hub interface {
	Broadcast(notification *types.Notification)
}

var (
	// DefaultUnixSocketPath is the default Unix socket path for IPC
	DefaultUnixSocketPath = "/tmp/docscan-notify.sock"
	// UnixSocketTimeout is the timeout for Unix socket operations
	UnixSocketTimeout = 3 * time.Second
	UseNotify         = true

	hubMu sync.RWMutex
	hub   Hub
)

// SetUseNotify sets whether to use the unix socket
func SetUseNotify(use bool) {
	UseNotify = use
}

// SetHub installs the hub that receives broadcasts. nil disables it.
func SetHub(h Hub) {
	hubMu.Lock()
	defer hubMu.Unlock()
	hub = h
}

// NotifyWSEnabled reports whether a websocket hub is installed.
func NotifyWSEnabled() bool {
	hubMu.RLock()
	defer hubMu.RUnlock()
	return hub != nil
}

// Notify broadcasts to the hub and forwards to the unix socket when enabled.
// Delivery failures are returned for logging only.
func Notify(notification *types.Notification) error {
	if notification == nil {
		return nil
	}
	if notification.Id == "" {
		notification.Id = tool.GenerateShortID()
	}
	hubMu.RLock()
	h := hub
	hubMu.RUnlock()
	if h != nil {
		h.Broadcast(notification)
	}
	return SendNotification(notification, "")
}

// SendNotification sends notification via Unix Domain Socket: a 4-byte little-endian length
// followed by the JSON payload, then reads an optional JSON reply.
func SendNotification(notification *types.Notification, socketPath string) error {
	if !UseNotify {
		return nil
	}
	if socketPath == "" {
		socketPath = DefaultUnixSocketPath
	}

	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		return fmt.Errorf("unix socket not found: %s", socketPath)
	}

	var payload []byte
	var err error
	if notification != nil {
		payload, err = sonic.Marshal(notification)
		if err != nil {
			return fmt.Errorf("failed to serialize notification data: %v", err)
		}
	} else {
		payload = []byte("{}")
	}
	if len(payload) > NotifyWriteChunkSize {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), NotifyWriteChunkSize)
	}

	conn, err := net.DialTimeout("unix", socketPath, UnixSocketTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to Unix socket %s: %v", socketPath, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close Unix socket connection: %v", err)
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set deadline: %v", err)
	}

	frame := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(frame, uint32(len(payload)))
	frame = append(frame, payload...)
	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("failed to write notification to Unix socket: %v", err)
	}
	tool.DefaultLogger.Debugf("Sent notification to Unix socket (len=%d): %s", len(payload), string(payload))

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read response from Unix socket: %v", err)
	}
	if n > 0 {
		var response map[string]any
		if err := sonic.Unmarshal(buf[:n], &response); err != nil {
			tool.DefaultLogger.Debugf("Unix socket response (raw): %s", string(buf[:n]))
		} else if errMsg, ok := response["error"].(string); ok && errMsg != "" {
			return fmt.Errorf("notify server returned error: %s", errMsg)
		}
	}
	return nil
}
