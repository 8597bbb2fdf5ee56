package tool

import "testing"

func TestNormalizeEndpoint(t *testing.T) {
	tests := map[string]string{
		"192.168.1.100:5000":         "192.168.1.100:5000",
		"  192.168.1.100:5000  ":     "192.168.1.100:5000",
		"http://192.168.1.100:5000/": "192.168.1.100:5000",
		"":                           "",
	}
	for in, want := range tests {
		if got := NormalizeEndpoint(in); got != want {
			t.Errorf("NormalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildEndpointURLs(t *testing.T) {
	got, err := BuildDiscoverURL("192.168.1.100:5000")
	if err != nil || got != "http://192.168.1.100:5000/discover" {
		t.Errorf("BuildDiscoverURL = %q, %v", got, err)
	}
	got, err = BuildUploadURL("http://192.168.1.100:5000")
	if err != nil || got != "http://192.168.1.100:5000/upload" {
		t.Errorf("BuildUploadURL = %q, %v", got, err)
	}
	got, err = BuildStatusURL("10.0.0.2:8080")
	if err != nil || got != "http://10.0.0.2:8080/status" {
		t.Errorf("BuildStatusURL = %q, %v", got, err)
	}
	if got := BuildBaseURL("10.0.0.2:8080"); got != "http://10.0.0.2:8080" {
		t.Errorf("BuildBaseURL = %q", got)
	}
}

func TestBuildEndpointURLRejectsBadInput(t *testing.T) {
	for _, endpoint := range []string{"", "   ", "host:5000/extra", "bad host:5000"} {
		if got, err := BuildUploadURL(endpoint); err == nil {
			t.Errorf("BuildUploadURL(%q) = %q, expected error", endpoint, got)
		}
	}
}
