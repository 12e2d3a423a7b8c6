// Package app provides application lifecycle management, state and events.
package app

import (
	"sync"

	"github.com/jkjkil4/pdf-clip/internal/clip"
	"github.com/jkjkil4/pdf-clip/internal/doc"
)

// State holds the application state: the opened document and the segments
// clipped from it so far.
type State struct {
	mu sync.RWMutex

	// Document
	FilePath string
	Document *doc.Document

	// Segments in the order they were clipped, which is also their
	// paint order on the target pages.
	Segments []*clip.Segment

	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventSegmentsChanged
	EventExported
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState() *State {
	return &State{
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetDocument replaces the opened document, closing the previous one and
// discarding all segments.
func (s *State) SetDocument(path string, document *doc.Document) {
	s.mu.Lock()
	if s.Document != nil {
		s.Document.Close()
	}
	s.FilePath = path
	s.Document = document
	s.Segments = nil
	s.mu.Unlock()

	s.Emit(EventDocumentLoaded, path)
}

// AddSegment appends a clipped segment.
func (s *State) AddSegment(seg *clip.Segment) {
	s.mu.Lock()
	s.Segments = append(s.Segments, seg)
	s.mu.Unlock()

	s.Emit(EventSegmentsChanged, seg)
}

// HasDocument reports whether a document is open.
func (s *State) HasDocument() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Document != nil
}

// SegmentCount returns the number of clipped segments.
func (s *State) SegmentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Segments)
}
