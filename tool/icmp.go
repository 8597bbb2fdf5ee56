package tool

import (
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// QuickICMPProbe sends a single echo request and reports whether a reply came back within timeout.
// Unprivileged (UDP) ping is used; if the pinger cannot be created the host is assumed reachable
// so HTTP probing still decides.
func QuickICMPProbe(host string, timeout time.Duration) bool {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		DefaultLogger.Debugf("QuickICMPProbe: cannot create pinger for %s: %v", host, err)
		return true
	}
	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(false)
	if err := pinger.Run(); err != nil {
		DefaultLogger.Debugf("QuickICMPProbe: ping %s failed: %v", host, err)
		return true
	}
	return pinger.Statistics().PacketsRecv > 0
}
