// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dbarwick10/VoterTurnout/render"
)

var ErrNotFound = errors.New("session not found")

// Session is one viewer's selection and the last frame drawn for it
type Session struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	coord  *render.Coordinator
	frames *render.FrameRenderer

	// unix nanos, read without mu so pruning never waits on a busy session
	lastSeen atomic.Int64
}

// Do runs fn against the session's coordinator and returns the resulting
// frame. Calls on one session never overlap.
func (s *Session) Do(fn func(c *render.Coordinator) error) (render.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(time.Now())
	if fn != nil {
		if err := fn(s.coord); err != nil {
			return render.Frame{}, err
		}
	}
	return s.frame(), nil
}

// Frame returns the last drawn frame
func (s *Session) Frame() render.Frame {
	f, _ := s.Do(nil)
	return f
}

func (s *Session) frame() render.Frame {
	f := s.frames.Last()
	f.State = s.coord.Snapshot()
	return f
}

func (s *Session) touch(t time.Time) {
	s.lastSeen.Store(t.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Registry holds the live sessions of one scene
type Registry struct {
	mu       sync.RWMutex
	scene    *render.Scene
	sessions map[string]*Session
}

// NewRegistry returns an empty registry
func NewRegistry(scene *render.Scene) *Registry {
	return &Registry{
		scene:    scene,
		sessions: make(map[string]*Session),
	}
}

// Scene returns the scene every session draws
func (r *Registry) Scene() *render.Scene {
	return r.scene
}

// Create starts a session at the default selection and draws its first frame
func (r *Registry) Create() (*Session, render.Frame, error) {
	frames := render.NewFrameRenderer()
	coord := render.NewCoordinator(r.scene, frames)
	if err := coord.Redraw(); err != nil {
		return nil, render.Frame{}, fmt.Errorf("failed to draw initial frame: %w", err)
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		coord:     coord,
		frames:    frames,
	}
	s.touch(now)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	slog.Info("session created", "session_id", s.ID)
	return s, s.Frame(), nil
}

// Get returns a live session
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Delete ends a session
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.sessions, id)
	slog.Info("session deleted", "session_id", id)
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Prune ends sessions idle for longer than maxIdle and returns how many
func (r *Registry) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.RLock()
	var idle []string
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			idle = append(idle, id)
		}
	}
	r.mu.RUnlock()

	if len(idle) == 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for _, id := range idle {
		// a request may have arrived since the scan
		if s, ok := r.sessions[id]; ok && s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			pruned++
		}
	}
	if pruned > 0 {
		slog.Info("idle sessions pruned", "count", pruned, "remaining", len(r.sessions))
	}
	return pruned
}
