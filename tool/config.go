package tool

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/docscan-go/types"
)

const (
	DefaultDiscoveryPort = 5000
	DefaultApiPort       = 53318
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
	configMu      sync.RWMutex

	// fileConfig mirrors the YAML file; CurrentConfig is fileConfig with flagOverrides applied.
	fileConfig    types.AppConfig
	flagOverrides types.Config
)

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		ServerEndpoint: "",
		DiscoveryPort:  DefaultDiscoveryPort,
		AllowWired:     false,
		IcmpPrecheck:   false, // hosts that drop ICMP would never be found
		ProbeRatePPS:   0,
		ApiPort:        DefaultApiPort,
		Notify:         true,
	}
}

// LoadConfig reads the YAML config at path, writing a default one when the file does not exist yet.
func LoadConfig(path string) (types.AppConfig, error) {
	configMu.Lock()
	defer configMu.Unlock()
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			fileConfig = cfg
			CurrentConfig = withOverrides(cfg, flagOverrides)
			return CurrentConfig, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}
	if cfg.DiscoveryPort <= 0 {
		cfg.DiscoveryPort = DefaultDiscoveryPort
	}
	if cfg.ApiPort <= 0 {
		cfg.ApiPort = DefaultApiPort
	}

	fileConfig = cfg
	CurrentConfig = withOverrides(cfg, flagOverrides)
	return CurrentConfig, nil
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetCurrentConfig returns a copy of the in-memory config.
func GetCurrentConfig() types.AppConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return CurrentConfig
}

// ApplyFlagOverrides layers CLI overrides over the file config. Nothing is written to disk, and
// later saves keep the overrides out of the file.
func ApplyFlagOverrides(flags types.Config) types.AppConfig {
	configMu.Lock()
	defer configMu.Unlock()
	flagOverrides = flags
	CurrentConfig = withOverrides(fileConfig, flagOverrides)
	return CurrentConfig
}

func withOverrides(cfg types.AppConfig, flags types.Config) types.AppConfig {
	if flags.UseAllowWired {
		cfg.AllowWired = true
	}
	if flags.UseShareFolder != "" {
		cfg.ShareFolder = flags.UseShareFolder
	}
	if flags.UseApiPort > 0 {
		cfg.ApiPort = flags.UseApiPort
	}
	if flags.UseReferNetworkInterface != "" && flags.UseReferNetworkInterface != "*" {
		cfg.NetworkInterface = flags.UseReferNetworkInterface
	}
	if flags.SkipNotify {
		cfg.Notify = false
	}
	return cfg
}

// SaveServerEndpoint persists the user-entered endpoint, replacing the previous value wholesale.
// Blank input is rejected and nothing is written.
func SaveServerEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", types.ErrEmptyEndpoint
	}
	if _, err := UpdateFileConfig(func(cfg *types.AppConfig) error {
		cfg.ServerEndpoint = endpoint
		return nil
	}); err != nil {
		return "", fmt.Errorf("failed to save server endpoint: %w", err)
	}
	DefaultLogger.Infof("Saved server endpoint %s to %s", endpoint, ConfigPath)
	return endpoint, nil
}

// UpdateFileConfig applies update to a copy of the file config and writes it in one go. When
// update or the write fails, neither the file nor memory changes. Returns the effective config.
func UpdateFileConfig(update func(cfg *types.AppConfig) error) (types.AppConfig, error) {
	configMu.Lock()
	defer configMu.Unlock()
	next := fileConfig
	if err := update(&next); err != nil {
		return CurrentConfig, err
	}
	if err := writeConfig(ConfigPath, next); err != nil {
		return CurrentConfig, fmt.Errorf("failed to persist config: %w", err)
	}
	fileConfig = next
	CurrentConfig = withOverrides(next, flagOverrides)
	return CurrentConfig, nil
}
