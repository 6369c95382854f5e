package state

import (
	"fmt"
	"sync"

	"github.com/lazyvibe/vidjob/internal/logging"
	"github.com/lazyvibe/vidjob/internal/model"
)

// ThemeSaver persists the theme preference.
type ThemeSaver interface {
	SaveTheme(theme model.Theme) error
}

// Store owns the session state. All writes go through Dispatch.
type Store struct {
	mu        sync.Mutex
	state     State
	prefs     ThemeSaver
	logger    *logging.Logger
	listeners map[int]chan struct{}
	nextID    int
}

// New creates the session store. prefs may be nil.
func New(initial State, prefs ThemeSaver, logger *logging.Logger) *Store {
	return &Store{
		state:     initial.Clone(),
		prefs:     prefs,
		logger:    logging.OrNop(logger).Component("store"),
		listeners: make(map[int]chan struct{}),
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies action and notifies subscribers.
// SetTheme is also written to the preference store.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	theme := s.state.Theme
	listeners := make([]chan struct{}, 0, len(s.listeners))
	for _, ch := range s.listeners {
		listeners = append(listeners, ch)
	}
	s.mu.Unlock()

	s.logger.Debug().Str("action", fmt.Sprintf("%T", action)).Msg("dispatch")

	if a, ok := action.(SetTheme); ok && a.Theme == theme && s.prefs != nil {
		if err := s.prefs.SaveTheme(theme); err != nil {
			s.logger.Warn().Err(err).Str("theme", string(theme)).Msg("persist theme")
		}
	}

	for _, ch := range listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe returns a channel that receives a signal after each dispatch.
// Signals are coalesced; call cancel to stop receiving.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.listeners[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}
