package share

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// Sharer hands an image to a local share target instead of uploading it.
type Sharer interface {
	IsAvailable() bool
	Share(ctx context.Context, image types.ImageReference) (string, error)
}

// FolderSharer exports images into a folder, the desktop stand-in for a share sheet.
type FolderSharer struct {
	Folder string
}

var _ Sharer = (*FolderSharer)(nil)

// maxCreateAttempts bounds how often a name taken by a concurrent writer is skipped.
const maxCreateAttempts = 16

var nextAvailablePath = tool.NextAvailablePath

// NewFolderSharer returns a sharer for folder; an empty folder yields an unavailable sharer.
func NewFolderSharer(folder string) *FolderSharer {
	return &FolderSharer{Folder: strings.TrimSpace(folder)}
}

// IsAvailable reports whether the share folder is configured and usable.
func (s *FolderSharer) IsAvailable() bool {
	if s == nil || s.Folder == "" {
		return false
	}
	if err := os.MkdirAll(s.Folder, 0o755); err != nil {
		tool.DefaultLogger.Debugf("Share folder %s unusable: %v", s.Folder, err)
		return false
	}
	return true
}

// Share copies the image into the folder and returns the path it landed at.
func (s *FolderSharer) Share(ctx context.Context, image types.ImageReference) (string, error) {
	if !s.IsAvailable() {
		return "", types.ErrShareUnavailable
	}
	src, _, err := tool.OpenImage(image)
	if err != nil {
		return "", err
	}
	defer src.Close()

	srcPath, _ := tool.ResolveImagePath(image)
	dst, dstPath, err := s.create(filepath.Base(srcPath))
	if err != nil {
		return "", err
	}
	written, copyErr := tool.CopyWithContext(ctx, dst, src)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(dstPath)
		if copyErr != nil {
			return "", fmt.Errorf("failed to export image: %w", copyErr)
		}
		return "", fmt.Errorf("failed to export image: %w", closeErr)
	}
	tool.DefaultLogger.Infof("Shared %s to %s (%d bytes)", srcPath, dstPath, written)
	return dstPath, nil
}

// create opens a fresh file for fileName in the folder, moving on to the next free name when
// another writer claims the chosen one first.
func (s *FolderSharer) create(fileName string) (*os.File, string, error) {
	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		dstPath := nextAvailablePath(s.Folder, fileName)
		dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return dst, dstPath, nil
		}
		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("failed to create %s: %w", dstPath, err)
		}
		lastErr = err
	}
	return nil, "", fmt.Errorf("failed to find a free name for %s: %w", fileName, lastErr)
}
