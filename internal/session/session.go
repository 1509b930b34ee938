// Package session holds the volatile per-browser-session state: the turn
// history and the request configuration.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrInvalidSettings = errors.New("invalid settings")
)

// Turn is one user prompt paired with the model response and the model
// that produced it.
type Turn struct {
	UserInput   string `json:"user_input"`
	ModelOutput string `json:"model_output"`
	ModelID     string `json:"model_id"`
}

// Settings is the request configuration, read fresh on every submission.
type Settings struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	ShowModel   bool    `json:"show_model"`
}

// Validate checks the temperature range and asks known whether the model
// is in the catalog.
func (s Settings) Validate(known func(model string) bool) error {
	if s.Temperature < MinTemperature || s.Temperature > MaxTemperature {
		return fmt.Errorf("%w: temperature %v outside [%v, %v]", ErrInvalidSettings, s.Temperature, MinTemperature, MaxTemperature)
	}
	if known != nil && !known(s.Model) {
		return fmt.Errorf("%w: unknown model %q", ErrInvalidSettings, s.Model)
	}
	return nil
}

// Session is the state of one browser tab. The three history slices
// always have the same length; index i in each belongs to turn i.
type Session struct {
	id string

	mu        sync.Mutex
	past      []string
	generated []string
	engines   []string
	settings  Settings
	lastSeen  time.Time

	busy sync.Mutex
}

func newSession(id string, settings Settings, now time.Time) *Session {
	return &Session{id: id, settings: settings, lastSeen: now}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Session) SetSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// Append records a finished turn.
func (s *Session) Append(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.past = append(s.past, t.UserInput)
	s.generated = append(s.generated, t.ModelOutput)
	s.engines = append(s.engines, t.ModelID)
}

// Turns returns a copy of the history in order.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.generated))
	for i := range s.generated {
		out[i] = Turn{UserInput: s.past[i], ModelOutput: s.generated[i], ModelID: s.engines[i]}
	}
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.generated)
}

// TryBegin marks the session busy for one submission. The returned func
// releases it; ok is false when another submission is still running.
func (s *Session) TryBegin() (end func(), ok bool) {
	if !s.busy.TryLock() {
		return nil, false
	}
	return s.busy.Unlock, true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
