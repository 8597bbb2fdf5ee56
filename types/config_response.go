package types

// ConfigResponse is the JSON shape for GET/PATCH /api/self/v1/config.
type ConfigResponse struct {
	ServerEndpoint   string `json:"server_endpoint"`
	DiscoveryPort    int    `json:"discovery_port"`
	AllowWired       bool   `json:"allow_wired"`
	NetworkInterface string `json:"network_interface"`
	IcmpPrecheck     bool   `json:"icmp_precheck"`
	ProbeRatePPS     int    `json:"probe_rate_pps"`
	ShareFolder      string `json:"share_folder"`
}

// ConfigPatchRequest is the JSON body for PATCH /api/self/v1/config (partial update, all fields optional).
type ConfigPatchRequest struct {
	ServerEndpoint *string `json:"server_endpoint"`
	AllowWired     *bool   `json:"allow_wired"`
	IcmpPrecheck   *bool   `json:"icmp_precheck"`
	ShareFolder    *string `json:"share_folder"`
}
