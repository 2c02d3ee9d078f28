package api

import (
	"context"
	"sync"
	"time"

	"github.com/orci-tz/mafunzo/internal/services"
)

// MemoryStore keeps responses and users in process memory. Reads hand out
// deep copies so callers can aggregate without holding the lock.
type MemoryStore struct {
	mu        sync.RWMutex
	responses []services.ResponseRecord
	ids       map[string]struct{}
	users     map[string]*services.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		responses: []services.ResponseRecord{},
		ids:       map[string]struct{}{},
		users:     map[string]*services.User{},
	}
}

func (s *MemoryStore) AddResponse(_ context.Context, r *services.ResponseRecord) error {
	if r == nil {
		return services.NewInvalidError("response required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.ids[r.ID]; dup && r.ID != "" {
		return services.NewInvalidError("duplicate response id " + r.ID)
	}
	s.ids[r.ID] = struct{}{}
	s.responses = append(s.responses, cloneRecord(*r))
	return nil
}

func (s *MemoryStore) ListResponses(context.Context) ([]services.ResponseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]services.ResponseRecord, len(s.responses))
	for i, r := range s.responses {
		out[i] = cloneRecord(r)
	}
	return out, nil
}

func (s *MemoryStore) FindUserByUsername(_ context.Context, username string) (*services.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) UpsertUser(_ context.Context, u *services.User) error {
	if u == nil || u.Username == "" {
		return services.NewInvalidError("username required")
	}
	cp := *u
	if cp.ID == "" {
		cp.ID = cp.Username
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[cp.Username] = &cp
	return nil
}

func cloneRecord(r services.ResponseRecord) services.ResponseRecord {
	if r.NoTrainingReasons != nil {
		r.NoTrainingReasons = append([]string{}, r.NoTrainingReasons...)
	}
	if r.TrainingHistory != nil {
		r.TrainingHistory = append([]services.TrainingEntry{}, r.TrainingHistory...)
	}
	return r
}
