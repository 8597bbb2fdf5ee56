package tool

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/moyoez/docscan-go/types"
)

// ResolveImagePath turns an ImageReference into a local filesystem path.
// Only plain paths and file:// URIs are supported.
func ResolveImagePath(ref types.ImageReference) (string, error) {
	raw := strings.TrimSpace(string(ref))
	if raw == "" {
		return "", fmt.Errorf("empty image reference")
	}
	if !strings.Contains(raw, "://") {
		return raw, nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid image reference: %v", err)
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("only file:// protocol is supported for image references, got %s", parsed.Scheme)
	}
	if parsed.Path == "" {
		return "", fmt.Errorf("image reference %q has no path", raw)
	}
	return parsed.Path, nil
}

// OpenImage opens the referenced image as a byte source. The caller closes it.
func OpenImage(ref types.ImageReference) (io.ReadCloser, int64, error) {
	path, err := ResolveImagePath(ref)
	if err != nil {
		return nil, 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("image reference %s is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open image: %w", err)
	}
	return f, info.Size(), nil
}
