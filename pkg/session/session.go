// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package session holds the per-upload review state: the original document,
// the scan result, and the reviewer's accept/reject toggles. Sessions live
// in memory for the lifetime of the process; there is no persistence.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/flarecheck/pkg/apply"
	"github.com/walteh/flarecheck/pkg/suggest"
	"gitlab.com/tozd/go/errors"
)

// 📄 Session is one document under review
type Session struct {
	ID        string
	Name      string // uploaded filename
	Original  string // the document as uploaded, immutable
	Scan      *suggest.ScanResult
	Decisions apply.Decisions
	Applied   *apply.Result // set once Apply has run; re-applying replaces it
	CreatedAt time.Time
}

// Suggestion looks up a suggestion in the session's scan by key.
func (s *Session) Suggestion(key string) (suggest.Suggestion, bool) {
	for _, sg := range s.Scan.Suggestions {
		if sg.Key() == key {
			return sg, true
		}
	}
	return suggest.Suggestion{}, false
}

// snapshot copies the session's mutable state. The decisions map is written
// in place by the setters, so the copy owns its own map. Scan never changes
// after Create and Applied is replaced wholesale, so sharing those pointers
// is safe.
func (s *Session) snapshot() *Session {
	cp := *s
	cp.Decisions = make(apply.Decisions, len(s.Decisions))
	for k, v := range s.Decisions {
		cp.Decisions[k] = v
	}
	return &cp
}

// 🗃️ Store is a mutex-guarded collection of live sessions. All reads and
// writes of session state go through the store: lookups return detached
// snapshots, so callers never touch a session another request is mutating.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// 🏭 NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		sessions: map[string]*Session{},
	}
}

// ➕ Create registers a new session for an uploaded document
func (st *Store) Create(ctx context.Context, name, original string, scan *suggest.ScanResult) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Original:  original,
		Scan:      scan,
		Decisions: apply.Decisions{},
		CreatedAt: time.Now(),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	snap := s.snapshot()
	st.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Str("session", s.ID).
		Str("name", name).
		Int("suggestions", len(scan.Suggestions)).
		Msg("created review session")

	return snap
}

// 🔍 Get returns a point-in-time snapshot of a session. The snapshot is
// safe to read while other requests keep mutating the live session through
// the setters.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, errors.Errorf("session %s not found", id)
	}
	return s.snapshot(), nil
}

// ✅ SetDecision records one accept/reject toggle
func (st *Store) SetDecision(id, key string, accepted bool) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return errors.Errorf("session %s not found", id)
	}
	if _, ok := s.Suggestion(key); !ok {
		return errors.Errorf("session %s has no suggestion %s", id, key)
	}
	s.Decisions[key] = accepted
	return nil
}

// 📝 SetDecisions replaces the session's decision map, keeping only keys
// that identify suggestions from this session's scan
func (st *Store) SetDecisions(id string, decisions apply.Decisions) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return errors.Errorf("session %s not found", id)
	}

	next := apply.Decisions{}
	for key, accepted := range decisions {
		if _, ok := s.Suggestion(key); ok {
			next[key] = accepted
		}
	}
	s.Decisions = next
	return nil
}

// 🎯 SetAll accepts or rejects every suggestion in the session
func (st *Store) SetAll(id string, accepted bool) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return errors.Errorf("session %s not found", id)
	}
	for _, sg := range s.Scan.Suggestions {
		s.Decisions[sg.Key()] = accepted
	}
	return nil
}

// ⚙️ Apply runs the review/apply pipeline over the session's current
// decisions and stores the result on the session
func (st *Store) Apply(ctx context.Context, id string) (*apply.Result, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, errors.Errorf("session %s not found", id)
	}

	res, err := apply.Apply(s.Original, s.Scan.Suggestions, s.Decisions)
	if err != nil {
		return nil, errors.Errorf("applying decisions for session %s: %w", id, err)
	}
	s.Applied = res

	zerolog.Ctx(ctx).Info().
		Str("session", id).
		Int("applied", len(res.Applied)).
		Int("conflicts", len(res.Conflicts)).
		Msg("applied accepted suggestions")

	return res, nil
}

// 🗑️ Delete removes a session
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
