package tool

import (
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/moyoez/docscan-go/types"
)

// sysClassNet is where linux exposes per-interface attributes.
var sysClassNet = "/sys/class/net"

// RejectUnsupportNetworkInterface filters interfaces that can never reach the LAN server.
func RejectUnsupportNetworkInterface(iface *net.Interface) bool {
	if iface.Flags&net.FlagUp == 0 {
		return true
	}
	if iface.Flags&net.FlagLoopback != 0 {
		return true
	}
	if iface.Flags&net.FlagPointToPoint != 0 {
		return true // utun / tun / vpn
	}
	return firstIPv4(iface) == nil
}

func firstIPv4(iface *net.Interface) net.IP {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok {
			if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
				return ip
			}
		}
	}
	return nil
}

// IsWirelessInterface guesses whether iface is a wifi adapter.
func IsWirelessInterface(name string) bool {
	if runtime.GOOS == "linux" {
		if _, err := os.Stat(filepath.Join(sysClassNet, name, "wireless")); err == nil {
			return true
		}
		if _, err := os.Stat(filepath.Join(sysClassNet, name, "phy80211")); err == nil {
			return true
		}
	}
	lower := strings.ToLower(name)
	for _, prefix := range []string{"wl", "wifi", "ath"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	// macOS puts the built-in wifi on en0 for laptops.
	return runtime.GOOS == "darwin" && lower == "en0"
}

// GetNetworkInfo reports the current connectivity reading. When preferred names an interface,
// only that one is considered; otherwise wifi interfaces win over wired ones.
func GetNetworkInfo(preferred string) types.NetworkInfo {
	interfaces, err := net.Interfaces()
	if err != nil {
		DefaultLogger.Errorf("Failed to get network interfaces: %v", err)
		return types.NetworkInfo{Type: types.ConnectionUnknown}
	}
	var wired *types.NetworkInfo
	for i := range interfaces {
		iface := &interfaces[i]
		if preferred != "" && preferred != "*" && iface.Name != preferred {
			continue
		}
		if RejectUnsupportNetworkInterface(iface) {
			continue
		}
		ip := firstIPv4(iface)
		info := types.NetworkInfo{
			Type:          types.ConnectionEthernet,
			InterfaceName: iface.Name,
			IPAddress:     ip.String(),
			Connected:     true,
		}
		if IsWirelessInterface(iface.Name) {
			info.Type = types.ConnectionWifi
			return info
		}
		if wired == nil {
			wired = &info
		}
	}
	if wired != nil {
		return *wired
	}
	return types.NetworkInfo{Type: types.ConnectionNone}
}

// InterfaceBindAddr returns a TCP address bound to the named interface's IPv4, or nil.
func InterfaceBindAddr(name string) *net.TCPAddr {
	if name == "" || name == "*" {
		return nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		DefaultLogger.Warnf("Network interface %s not found: %v", name, err)
		return nil
	}
	ip := firstIPv4(iface)
	if ip == nil {
		DefaultLogger.Warnf("Network interface %s has no IPv4 address", name)
		return nil
	}
	return &net.TCPAddr{IP: ip}
}

// ParseIPv4 returns the four octets of a dotted quad, rejecting anything else (including IPv6 and
// IPv4-mapped forms).
func ParseIPv4(address string) (net.IP, bool) {
	address = strings.TrimSpace(address)
	if strings.Count(address, ".") != 3 || strings.Contains(address, ":") {
		return nil, false
	}
	ip := net.ParseIP(address)
	if ip == nil {
		return nil, false
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, false
	}
	return ip4, true
}
