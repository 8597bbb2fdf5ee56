package discover

import (
	"context"
	"errors"

	"github.com/moyoez/docscan-go/share"
	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// Scanner ties the network-info collaborator, the engine and the active endpoint together.
type Scanner struct {
	Engine      *Engine
	NetworkInfo func() types.NetworkInfo
	AllowWired  bool
}

// NewScanner builds a scanner reading the live network interfaces.
func NewScanner(cfg types.AppConfig) *Scanner {
	preferred := cfg.NetworkInterface
	return &Scanner{
		Engine: NewEngine(cfg),
		NetworkInfo: func() types.NetworkInfo {
			return tool.GetNetworkInfo(preferred)
		},
		AllowWired: cfg.AllowWired,
	}
}

// ScanNow performs one discovery run. A hit replaces the active endpoint; a miss leaves it alone
// so a saved endpoint keeps working.
func (s *Scanner) ScanNow(ctx context.Context) types.ScanResult {
	info := s.NetworkInfo()
	result := types.ScanResult{Network: info}

	localAddress, err := LocalAddress(info, s.AllowWired)
	if err != nil {
		// not retried; the caller falls back to the saved endpoint or asks the user
		tool.DefaultLogger.Infof("Skipping discovery: %v", err)
		result.Reason = reasonFor(err)
		share.NotifyServerNotFound(result.Reason)
		return result
	}
	tool.DefaultLogger.Info("Performing server discovery...")
	endpoint, ok := s.Engine.Discover(ctx, localAddress)
	if !ok {
		result.Reason = reasonFor(types.ErrDiscoveryExhausted)
		share.NotifyServerNotFound(result.Reason)
		return result
	}
	share.SetActiveEndpoint(endpoint, types.EndpointSourceDiscovered)
	result.Found = true
	result.Endpoint = endpoint
	return result
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, types.ErrNoLocalAddress):
		return "no_local_address"
	case errors.Is(err, types.ErrDiscoveryExhausted):
		return "discovery_exhausted"
	default:
		return err.Error()
	}
}

// TestConnection runs the user-initiated probe against endpoint.
func (s *Scanner) TestConnection(ctx context.Context, endpoint string) types.ProbeResult {
	return s.Engine.TestConnection(ctx, endpoint)
}
