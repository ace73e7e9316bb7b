package usecase_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/iho/draftledger/internal/domain"
)

// fakeInference answers from a text-keyed table and records how many calls overlap.
type fakeInference struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	calls       int

	delay     time.Duration
	responses map[string]string
	failures  map[string]error
	image     string
}

func (f *fakeInference) enter() {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
}

func (f *fakeInference) leave() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeInference) wait(ctx context.Context) error {
	if f.delay == 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeInference) ExtractFromText(ctx context.Context, text, _ string) (string, error) {
	f.enter()
	defer f.leave()

	if err := f.wait(ctx); err != nil {
		return "", err
	}
	if err, ok := f.failures[text]; ok {
		return "", err
	}
	return f.responses[text], nil
}

func (f *fakeInference) ExtractFromImage(ctx context.Context, _ domain.Image, _ string) (string, error) {
	f.enter()
	defer f.leave()

	if err := f.wait(ctx); err != nil {
		return "", err
	}
	return f.image, nil
}

func (f *fakeInference) peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// memSessions is an in-memory ImportSessionRepository.
type memSessions struct {
	mu       sync.Mutex
	sessions map[string]domain.ImportSession
	saves    int
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]domain.ImportSession)}
}

func (m *memSessions) Save(_ context.Context, s *domain.ImportSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*domain.ImportSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrImportNotFound
	}
	return &s, nil
}

// seqIDs returns deterministic ids: prefix-1, prefix-2, ...
type seqIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *seqIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.prefix + "-" + strconv.Itoa(g.n)
}

var errUpstream = errors.New("upstream unavailable")
