package models

import (
	"sync"

	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// DocumentSession is the ordered list of captured images and the page being viewed.
type DocumentSession struct {
	mu      sync.RWMutex
	id      string
	images  []types.ImageReference
	current int
}

// NewDocumentSession starts an empty session with a fresh id.
func NewDocumentSession() *DocumentSession {
	return &DocumentSession{id: tool.GenerateRandomUUID()}
}

// AddImage appends a capture and returns the new page count.
func (s *DocumentSession) AddImage(image types.ImageReference) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = append(s.images, image)
	return len(s.images)
}

// Next moves one page forward, stopping at the last page.
func (s *DocumentSession) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < len(s.images)-1 {
		s.current++
	}
	return s.current
}

// Prev moves one page back, stopping at the first page.
func (s *DocumentSession) Prev() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current > 0 {
		s.current--
	}
	return s.current
}

// Current returns the image on the current page.
func (s *DocumentSession) Current() (types.ImageReference, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.images) == 0 {
		return "", false
	}
	return s.images[s.current], true
}

// First returns the image that send and share act on.
func (s *DocumentSession) First() (types.ImageReference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.images) == 0 {
		return "", types.ErrNoImages
	}
	return s.images[0], nil
}

// Reset drops every capture (retake) and rotates the session id.
func (s *DocumentSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = tool.GenerateRandomUUID()
	s.images = nil
	s.current = 0
}

// State returns a snapshot for the API.
func (s *DocumentSession) State() types.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	images := make([]types.ImageReference, len(s.images))
	copy(images, s.images)
	return types.SessionState{
		SessionId: s.id,
		Images:    images,
		Current:   s.current,
		Total:     len(images),
	}
}

var (
	currentSessionMu sync.RWMutex
	currentSession   = NewDocumentSession()
)

// GetSession returns the process-wide capture session.
func GetSession() *DocumentSession {
	currentSessionMu.RLock()
	defer currentSessionMu.RUnlock()
	return currentSession
}

// SetSession replaces the capture session; used by tests and the CLI.
func SetSession(s *DocumentSession) {
	currentSessionMu.Lock()
	defer currentSessionMu.Unlock()
	currentSession = s
}
