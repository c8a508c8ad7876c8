package cache

import (
	"runtime"
	"sync"
)

// lockstepStore is a cache shared by a fixed number of participants that advance a
// logical clock together. Every participant calls wait once per round, and the clock only
// moves when all of them have. Tests use it to order concurrent GetOrCreate calls exactly.
type lockstepStore[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]

	clockMu      sync.Mutex
	round        int
	lastRound    int
	participants int
	arrived      int
}

type lockstepParticipant[T any] struct {
	store       *lockstepStore[T]
	targetRound int
}

func (p *lockstepParticipant[T]) getOrClaim(key string) hitResult[T] {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if existing, ok := p.store.entries[key]; ok {
		return hitResult[T]{entry: existing}
	}

	p.store.entries[key] = entry[T]{}
	return hitResult[T]{claimed: true}
}

func (p *lockstepParticipant[T]) set(key string, data T) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	p.store.entries[key] = entry[T]{data: data, valid: true}
}

func (p *lockstepParticipant[T]) delete(key string) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	delete(p.store.entries, key)
}

// wait blocks until every participant has finished the current round
func (p *lockstepParticipant[T]) wait() {
	if p.store.finished() {
		panic("wait() called after the last round")
	}

	p.store.clockMu.Lock()
	p.store.arrived++
	p.store.clockMu.Unlock()

	p.targetRound++
	for p.store.currentRound() < p.targetRound {
		runtime.Gosched()
	}
}

func (p *lockstepParticipant[T]) waitUntilFinished() {
	for !p.store.finished() {
		p.wait()
	}
}

func (s *lockstepStore[T]) currentRound() int {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	return s.round
}

func (s *lockstepStore[T]) finished() bool {
	return s.currentRound() >= s.lastRound
}

// run advances the clock until the last round. Call it from the test goroutine.
func (s *lockstepStore[T]) run() {
	for !s.finished() {
		s.clockMu.Lock()
		if s.arrived == s.participants {
			s.arrived = 0
			s.round++
		}
		s.clockMu.Unlock()
		runtime.Gosched()
	}
}

func newLockstepStore[T any](participants int, lastRound int) (*lockstepStore[T], []*lockstepParticipant[T]) {
	store := &lockstepStore[T]{
		entries:      make(map[string]entry[T]),
		lastRound:    lastRound,
		participants: participants,
	}

	clients := make([]*lockstepParticipant[T], participants)
	for i := range clients {
		clients[i] = &lockstepParticipant[T]{store: store}
	}
	return store, clients
}
