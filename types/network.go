package types

// Connection types reported by the network-info collaborator.
const (
	ConnectionWifi     = "wifi"
	ConnectionEthernet = "ethernet"
	ConnectionNone     = "none"
	ConnectionUnknown  = "unknown"
)

// NetworkInfo is the device's current connectivity reading.
type NetworkInfo struct {
	Type          string `json:"type"`
	InterfaceName string `json:"interface_name,omitempty"`
	IPAddress     string `json:"ip_address,omitempty"`
	Connected     bool   `json:"connected"`
}
