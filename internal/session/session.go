// Package session owns the client's authentication state: tokens, the
// signed-in user and the display language. Every reader and writer goes
// through a Store so changes are observed in one place.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"esgboard/internal/dto"
	"esgboard/internal/i18n"
)

// State is a snapshot of the session.
type State struct {
	AccessToken  string       `yaml:"access_token,omitempty"`
	RefreshToken string       `yaml:"refresh_token,omitempty"`
	User         *dto.Profile `yaml:"user,omitempty"`
	Lang         i18n.Lang    `yaml:"lang,omitempty"`
}

// LoggedIn reports whether the state holds a refresh path back to the API.
func (s State) LoggedIn() bool {
	return s.AccessToken != "" || s.RefreshToken != ""
}

// Store is safe for concurrent use. A Store with a path persists every change
// to that file.
type Store struct {
	mu     sync.RWMutex
	state  State
	path   string
	nextID int
	subs   map[int]func(State)
}

// New returns an in-memory store.
func New() *Store {
	return &Store{state: State{Lang: i18n.Default}, subs: make(map[int]func(State))}
}

// Open loads the store persisted at path. A missing file yields an empty
// session that will be created on the first change.
func Open(path string) (*Store, error) {
	s := New()
	s.path = path
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	if s.state.Lang == "" {
		s.state.Lang = i18n.Default
	}
	return s, nil
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RefreshToken
}

func (s *Store) Lang() i18n.Lang {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Lang
}

// SetTokens replaces both tokens.
func (s *Store) SetTokens(access, refresh string) error {
	return s.update(func(st *State) {
		st.AccessToken = access
		st.RefreshToken = refresh
	})
}

// SetLogin stores a login or registration result.
func (s *Store) SetLogin(res dto.AuthResult) error {
	return s.update(func(st *State) {
		st.AccessToken = res.AccessToken
		st.RefreshToken = res.RefreshToken
		u := res.User
		st.User = &u
	})
}

func (s *Store) SetUser(p dto.Profile) error {
	return s.update(func(st *State) {
		st.User = &p
	})
}

func (s *Store) SetLang(l i18n.Lang) error {
	return s.update(func(st *State) {
		st.Lang = l
	})
}

// Clear drops tokens and user and keeps the language.
func (s *Store) Clear() error {
	return s.update(func(st *State) {
		*st = State{Lang: st.Lang}
	})
}

// Subscribe registers fn to run after every change with the new state. The
// returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) update(change func(*State)) error {
	s.mu.Lock()
	change(&s.state)
	snapshot := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	err := s.persistLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return err
}

func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(&s.state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}
