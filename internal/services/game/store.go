package game

import "sync"

type roundKey struct {
	userID uint
	game   string
}

// roundStore keeps open rounds in memory, one per user per game. Round state
// never survives a restart; an open bet lost to a restart stays debited,
// matching a crash mid-round.
type roundStore struct {
	mu     sync.Mutex
	rounds map[roundKey]interface{}
}

func newRoundStore() *roundStore {
	return &roundStore{rounds: make(map[roundKey]interface{})}
}

// open stores a new round, failing when one is already in flight.
func (s *roundStore) open(userID uint, game string, round interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := roundKey{userID: userID, game: game}
	if _, exists := s.rounds[key]; exists {
		return ErrRoundInProgress
	}
	s.rounds[key] = round
	return nil
}

// update runs fn against the open round while holding the store lock, so
// every mid-round read and mutation is serialized per process. fn reports
// whether the round stays open; returning false consumes it, and no later
// caller can observe it again.
func (s *roundStore) update(userID uint, game string, fn func(round interface{}) (keep bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := roundKey{userID: userID, game: game}
	round, ok := s.rounds[key]
	if !ok {
		return false
	}
	if !fn(round) {
		delete(s.rounds, key)
	}
	return true
}

// take removes and returns the round, so terminal actions consume it exactly
// once even under concurrent cash-out attempts.
func (s *roundStore) take(userID uint, game string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := roundKey{userID: userID, game: game}
	round, ok := s.rounds[key]
	if ok {
		delete(s.rounds, key)
	}
	return round, ok
}
