// Package memory holds in-memory store implementations used by tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/bridgeapp/bridge/internal/models"
	"github.com/bridgeapp/bridge/internal/store"
)

type UserStore struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{nextID: 1, users: make(map[uint]models.User)}
}

func (s *UserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Save(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) FindByID(id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *UserStore) FindByGoogleID(googleID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if googleID == "" {
		return nil, store.ErrNotFound
	}
	for _, user := range s.users {
		if user.GoogleID == googleID {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

type SummaryStore struct {
	mu        sync.RWMutex
	nextID    uint
	summaries map[uint]models.Summary
}

func NewSummaryStore() *SummaryStore {
	return &SummaryStore{nextID: 1, summaries: make(map[uint]models.Summary)}
}

func (s *SummaryStore) Create(summary *models.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary.ID = s.nextID
	s.nextID++
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}
	s.summaries[summary.ID] = *summary
	return nil
}

func (s *SummaryStore) ListByUser(userID uint) ([]models.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Summary
	for _, summary := range s.summaries {
		if summary.UserID == userID {
			out = append(out, summary)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *SummaryStore) DeleteOwned(userID, id uint) (*models.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.summaries[id]
	if !ok || summary.UserID != userID {
		return nil, store.ErrNotFound
	}
	delete(s.summaries, id)
	return &summary, nil
}
