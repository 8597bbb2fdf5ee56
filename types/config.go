package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	ServerEndpoint   string `yaml:"scanner_server_ip"` // the single user-saved endpoint, host:port
	DiscoveryPort    int    `yaml:"discoveryPort"`     // port paired with every guessed candidate
	AllowWired       bool   `yaml:"allowWired"`        // treat ethernet like wifi when picking a local address
	NetworkInterface string `yaml:"networkInterface,omitempty"`
	IcmpPrecheck     bool   `yaml:"icmpPrecheck"`
	ProbeRatePPS     int    `yaml:"probeRatePPS"` // 0 = no pacing
	ShareFolder      string `yaml:"shareFolder,omitempty"`
	ApiPort          int    `yaml:"apiPort"`
	Notify           bool   `yaml:"notify"`
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log                      string
	UseConfigPath            string
	UseReferNetworkInterface string // e.g. "wlan0"; "*" picks the first usable interface
	UseAllowWired            bool
	UseShareFolder           string
	UseApiPort               int
	SkipNotify               bool

	// one-shot commands, run instead of the control API
	Discover bool
	Send     string
	Share    string
	Test     string
	Save     string
	Status   bool
}
