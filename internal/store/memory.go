package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/youruser/speakerpack/internal/event"
)

// MemoryStore keeps all documents in process memory. Insertion order is
// preserved so query results are deterministic. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	events   map[string]event.Event
	talks    []event.Talk
	speakers map[string]event.Speaker
	feedback []event.Feedback
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:   make(map[string]event.Event),
		speakers: make(map[string]event.Speaker),
	}
}

func (s *MemoryStore) AddEvent(ev event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.ID] = ev
}

func (s *MemoryStore) AddTalk(t event.Talk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.talks = append(s.talks, t)
}

func (s *MemoryStore) AddSpeaker(sp event.Speaker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speakers[sp.ID] = sp
}

func (s *MemoryStore) AddFeedback(f event.Feedback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, f)
}

func (s *MemoryStore) EventByID(_ context.Context, id string) (event.Event, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	return ev, ok, nil
}

func (s *MemoryStore) AcceptedTalks(_ context.Context, eventID string) ([]event.Talk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []event.Talk
	for _, t := range s.talks {
		if t.EventID == eventID && t.Status == event.StatusAccepted {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStore) SpeakerByID(_ context.Context, id string) (event.Speaker, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.speakers[id]
	return sp, ok, nil
}

func (s *MemoryStore) AllTalks(_ context.Context) ([]event.Talk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]event.Talk, len(s.talks))
	copy(out, s.talks)
	return out, nil
}

func (s *MemoryStore) AllSpeakers(_ context.Context) ([]event.Speaker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]event.Speaker, 0, len(s.speakers))
	for _, sp := range s.speakers {
		out = append(out, sp)
	}
	return out, nil
}

func (s *MemoryStore) AllFeedback(_ context.Context) ([]event.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]event.Feedback, len(s.feedback))
	copy(out, s.feedback)
	return out, nil
}

// seedFile is the on-disk shape of a development fixture.
type seedFile struct {
	Events   []event.Event    `json:"events"`
	Talks    []event.Talk     `json:"talks"`
	Speakers []event.Speaker  `json:"speakers"`
	Feedback []event.Feedback `json:"feedback"`
}

// LoadSeed populates the store from a JSON fixture file.
func (s *MemoryStore) LoadSeed(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	for _, ev := range seed.Events {
		s.AddEvent(ev)
	}
	for _, t := range seed.Talks {
		s.AddTalk(t)
	}
	for _, sp := range seed.Speakers {
		s.AddSpeaker(sp)
	}
	for _, f := range seed.Feedback {
		s.AddFeedback(f)
	}
	return nil
}
