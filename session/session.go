// Package session holds the operator's configuration, the append-only activity log and one
// status slot per operation kind. A Session is safe for concurrent use.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Configuration is what the operator edits. PaidAmount is kept as typed so a bad value can be
// reported when a dispatch is attempted.
type Configuration struct {
	BaseURL       string
	TransactionID string
	PaidAmount    string
	AuthToken     string
}

// LogEntry is immutable once appended.
type LogEntry struct {
	Timestamp time.Time
	Text      string
	Marker    bool // true for the entry Clear leaves behind
}

// String formats the entry the way the log panel shows it.
func (e LogEntry) String() string { return "[" + e.Timestamp.Format(time.TimeOnly) + "] " + e.Text }

// ClearedText is the text of the marker entry left by Clear.
const ClearedText = "🧹 Log cleared"

type Options struct {
	DefaultBaseURL string
	Initial        Configuration
	Now            func() time.Time
	// OnStatus, if set, is called synchronously on every status transition.
	OnStatus func(Kind, Status)
}

type Session struct {
	mu       sync.Mutex
	opts     Options
	cfg      Configuration
	entries  []LogEntry
	statuses [kindCount]Status
	updates  chan struct{}
}

func New(opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultBaseURL == "" {
		opts.DefaultBaseURL = opts.Initial.BaseURL
	}
	s := &Session{opts: opts, updates: make(chan struct{}, 1)}
	s.cfg = s.normalize(opts.Initial)
	return s
}

// Config returns a snapshot of the current configuration.
func (s *Session) Config() Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetConfig replaces the configuration. An empty base URL falls back to the default.
func (s *Session) SetConfig(cfg Configuration) {
	s.mu.Lock()
	s.cfg = s.normalize(cfg)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) normalize(cfg Configuration) Configuration {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = s.opts.DefaultBaseURL
	}
	return cfg
}

// Append adds a timestamped entry. Multi-line text becomes one entry.
func (s *Session) Append(text string) {
	s.mu.Lock()
	s.entries = append(s.entries, LogEntry{Timestamp: s.opts.Now(), Text: text})
	s.mu.Unlock()
	s.notify()
}

func (s *Session) Appendf(format string, a ...any) { s.Append(fmt.Sprintf(format, a...)) }

// Clear empties the log and leaves a single marker entry. Status slots are untouched.
func (s *Session) Clear() {
	s.mu.Lock()
	s.entries = []LogEntry{{Timestamp: s.opts.Now(), Text: ClearedText, Marker: true}}
	s.mu.Unlock()
	s.notify()
}

// Entries returns a copy of the log in insertion order.
func (s *Session) Entries() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LogEntry(nil), s.entries...)
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Updates delivers a signal after any change. Signals coalesce: a reader that falls behind
// sees one pending signal, never a blocked writer.
func (s *Session) Updates() <-chan struct{} { return s.updates }

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
