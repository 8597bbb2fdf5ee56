package discover

import (
	"errors"
	"testing"

	"github.com/moyoez/docscan-go/types"
)

func TestBuildCandidates(t *testing.T) {
	candidates, err := BuildCandidates("192.168.1.57", 5000)
	if err != nil {
		t.Fatalf("BuildCandidates returned error: %v", err)
	}
	want := []string{
		"192.168.1.1:5000",
		"192.168.1.100:5000",
		"192.168.1.101:5000",
		"192.168.1.254:5000",
		"192.168.1.2:5000",
	}
	if len(candidates) != len(want) {
		t.Fatalf("Expected %d candidates, got %d", len(want), len(candidates))
	}
	for i, c := range candidates {
		if c.String() != want[i] {
			t.Errorf("candidate %d: expected %s, got %s", i, want[i], c.String())
		}
		if c.Prefix != "192.168.1" {
			t.Errorf("candidate %d: expected prefix 192.168.1, got %s", i, c.Prefix)
		}
	}
}

func TestBuildCandidatesInvalidPortFallsBack(t *testing.T) {
	candidates, err := BuildCandidates("10.0.0.9", 0)
	if err != nil {
		t.Fatalf("BuildCandidates returned error: %v", err)
	}
	for _, c := range candidates {
		if c.Port != 5000 {
			t.Errorf("Expected port 5000, got %d", c.Port)
		}
	}
}

func TestBuildCandidatesRejectsNonIPv4(t *testing.T) {
	for _, addr := range []string{"", "192.168.1", "fe80::1", "not-an-ip", "::ffff:192.168.1.4"} {
		if _, err := BuildCandidates(addr, 5000); !errors.Is(err, types.ErrNoLocalAddress) {
			t.Errorf("BuildCandidates(%q): expected ErrNoLocalAddress, got %v", addr, err)
		}
	}
}

func TestLocalAddress(t *testing.T) {
	tests := []struct {
		name       string
		info       types.NetworkInfo
		allowWired bool
		want       string
		wantErr    bool
	}{
		{
			name: "wifi",
			info: types.NetworkInfo{Type: types.ConnectionWifi, IPAddress: "192.168.0.23", Connected: true},
			want: "192.168.0.23",
		},
		{
			name:    "disconnected",
			info:    types.NetworkInfo{Type: types.ConnectionWifi, IPAddress: "192.168.0.23"},
			wantErr: true,
		},
		{
			name:    "ethernet rejected",
			info:    types.NetworkInfo{Type: types.ConnectionEthernet, IPAddress: "10.1.2.3", Connected: true},
			wantErr: true,
		},
		{
			name:       "ethernet allowed",
			info:       types.NetworkInfo{Type: types.ConnectionEthernet, IPAddress: "10.1.2.3", Connected: true},
			allowWired: true,
			want:       "10.1.2.3",
		},
		{
			name:    "malformed address",
			info:    types.NetworkInfo{Type: types.ConnectionWifi, IPAddress: "192.168.0", Connected: true},
			wantErr: true,
		},
		{
			name:    "no reading",
			info:    types.NetworkInfo{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocalAddress(tt.info, tt.allowWired)
			if tt.wantErr {
				if !errors.Is(err, types.ErrNoLocalAddress) {
					t.Fatalf("Expected ErrNoLocalAddress, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
