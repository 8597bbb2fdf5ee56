package discover

import (
	"fmt"

	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// CandidateSuffixes are the host parts tried on the local /24, in order. Earlier entries win ties.
var CandidateSuffixes = []int{1, 100, 101, 254, 2}

// BuildCandidates turns a local IPv4 address into the ordered list of endpoints to probe.
func BuildCandidates(localAddress string, port int) ([]types.CandidateEndpoint, error) {
	ip, ok := tool.ParseIPv4(localAddress)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an IPv4 address", types.ErrNoLocalAddress, localAddress)
	}
	if port <= 0 || port > 65535 {
		port = tool.DefaultDiscoveryPort
	}
	prefix := fmt.Sprintf("%d.%d.%d", ip[0], ip[1], ip[2])
	candidates := make([]types.CandidateEndpoint, 0, len(CandidateSuffixes))
	for _, suffix := range CandidateSuffixes {
		candidates = append(candidates, types.CandidateEndpoint{
			Prefix: prefix,
			Suffix: suffix,
			Port:   port,
		})
	}
	return candidates, nil
}

// LocalAddress extracts the address discovery should scan from a network-info reading.
// Only wifi readings qualify unless allowWired is set.
func LocalAddress(info types.NetworkInfo, allowWired bool) (string, error) {
	switch {
	case !info.Connected:
		return "", fmt.Errorf("%w: not connected", types.ErrNoLocalAddress)
	case info.Type == types.ConnectionWifi:
	case info.Type == types.ConnectionEthernet && allowWired:
	default:
		return "", fmt.Errorf("%w: connection type %q", types.ErrNoLocalAddress, info.Type)
	}
	if _, ok := tool.ParseIPv4(info.IPAddress); !ok {
		return "", fmt.Errorf("%w: %q is not an IPv4 address", types.ErrNoLocalAddress, info.IPAddress)
	}
	return info.IPAddress, nil
}
