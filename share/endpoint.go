package share

import (
	"fmt"
	"strings"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/moyoez/docscan-go/notify"
	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

const (
	// DefaultTTL bounds how long an active endpoint outlives its session.
	DefaultTTL = 12 * time.Hour
	activeKey  = "active"
)

var (
	// one key only: at most one endpoint is active at a time
	activeEndpoint = ttlworker.NewCache[string, types.ActiveEndpoint](DefaultTTL)
	now            = time.Now
)

// SetActiveEndpoint replaces the active endpoint wholesale.
func SetActiveEndpoint(endpoint string, source types.EndpointSource) types.ActiveEndpoint {
	existing, exists := GetActiveEndpoint()
	item := types.ActiveEndpoint{
		Endpoint:  tool.NormalizeEndpoint(endpoint),
		Source:    source,
		UpdatedAt: now(),
	}
	activeEndpoint.Set(activeKey, item)
	tool.DefaultLogger.Debugf("Set active endpoint: %s (%s)", item.Endpoint, source)

	if exists && existing.Endpoint == item.Endpoint && existing.Source == item.Source {
		return item
	}
	eventType := types.NotifyTypeServerDiscovered
	title := "Server Discovered"
	if source != types.EndpointSourceDiscovered {
		eventType = types.NotifyTypeEndpointSaved
		title = "Server Endpoint Saved"
	}
	notification := &types.Notification{
		Type:    eventType,
		Title:   title,
		Message: fmt.Sprintf("Connected (%s)", item.Endpoint),
		Data: map[string]any{
			"endpoint": item.Endpoint,
			"source":   string(source),
		},
	}
	if err := notify.Notify(notification); err != nil {
		tool.DefaultLogger.Debugf("Failed to send endpoint notification: %v", err)
	}
	return item
}

// GetActiveEndpoint returns the active endpoint, if any.
func GetActiveEndpoint() (types.ActiveEndpoint, bool) {
	item := activeEndpoint.Get(activeKey)
	return item, item.Endpoint != ""
}

// ClearActiveEndpoint drops the active endpoint.
func ClearActiveEndpoint() {
	activeEndpoint.Delete(activeKey)
}

// SeedFromSaved activates the persisted endpoint at session start. An endpoint that is already
// active is left alone.
func SeedFromSaved(saved string, source types.EndpointSource) bool {
	saved = strings.TrimSpace(saved)
	if saved == "" {
		return false
	}
	if _, ok := GetActiveEndpoint(); ok {
		return false
	}
	SetActiveEndpoint(saved, source)
	return true
}

// ResolveEndpoint returns the endpoint an upload should go to: the active one, else the saved one.
// An empty string means nothing is configured.
func ResolveEndpoint() string {
	if item, ok := GetActiveEndpoint(); ok {
		return item.Endpoint
	}
	return tool.NormalizeEndpoint(tool.GetCurrentConfig().ServerEndpoint)
}

// NotifyServerNotFound surfaces the "server not detected" state without treating it as an error.
func NotifyServerNotFound(reason string) {
	notification := &types.Notification{
		Type:    types.NotifyTypeServerNotFound,
		Title:   "Server Not Detected",
		Message: "Server not found automatically",
		Data: map[string]any{
			"reason": reason,
		},
	}
	if err := notify.Notify(notification); err != nil {
		tool.DefaultLogger.Debugf("Failed to send discovery notification: %v", err)
	}
}
