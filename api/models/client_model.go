package models

import (
	"context"
	"sync"

	"github.com/moyoez/docscan-go/share"
	"github.com/moyoez/docscan-go/types"
)

// Scanner runs a discovery pass and tests single endpoints.
type Scanner interface {
	ScanNow(ctx context.Context) types.ScanResult
	TestConnection(ctx context.Context, endpoint string) types.ProbeResult
}

// Uploader delivers one image and reads server status.
type Uploader interface {
	Upload(ctx context.Context, endpoint string, image types.ImageReference) types.UploadResult
	FetchServerStatus(ctx context.Context, endpoint string) (*types.ServerStatus, error)
}

var (
	clientsMu sync.RWMutex
	scanner   Scanner
	uploader  Uploader
	sharer    share.Sharer
	// uploadMu allows one upload at a time.
	uploadMu sync.Mutex
)

// SetClients installs the collaborators the controllers use.
func SetClients(sc Scanner, up Uploader, sh share.Sharer) {
	clientsMu.Lock()
	defer clientsMu.Unlock()
	scanner, uploader, sharer = sc, up, sh
}

func GetScanner() Scanner {
	clientsMu.RLock()
	defer clientsMu.RUnlock()
	return scanner
}

func GetUploader() Uploader {
	clientsMu.RLock()
	defer clientsMu.RUnlock()
	return uploader
}

func GetSharer() share.Sharer {
	clientsMu.RLock()
	defer clientsMu.RUnlock()
	return sharer
}

// TryBeginUpload claims the single upload slot. The returned func releases it.
func TryBeginUpload() (func(), bool) {
	if !uploadMu.TryLock() {
		return nil, false
	}
	return uploadMu.Unlock, true
}

// ClientFactory builds the collaborators from a config.
type ClientFactory func(cfg types.AppConfig) (Scanner, Uploader, share.Sharer)

var clientFactory ClientFactory

// SetClientFactory installs factory and builds the collaborators from cfg right away.
func SetClientFactory(factory ClientFactory, cfg types.AppConfig) {
	clientsMu.Lock()
	clientFactory = factory
	clientsMu.Unlock()
	RebuildClients(cfg)
}

// RebuildClients re-creates the collaborators after a config change. No-op without a factory.
func RebuildClients(cfg types.AppConfig) {
	clientsMu.RLock()
	factory := clientFactory
	clientsMu.RUnlock()
	if factory == nil {
		return
	}
	SetClients(factory(cfg))
}
