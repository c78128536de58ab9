package notifications

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-dashboard/models"
)

// Store holds the owner's notification feed, newest first, and mirrors
// every mutation to the durable cache. Persistence and alert failures are
// logged and never touch the in-memory sequence.
type Store struct {
	mu      sync.Mutex
	items   []models.Notification
	cache   Cache
	alerter Alerter
	log     *logrus.Logger

	// Now is injectable so tests get stable ids and timestamps.
	Now func() time.Time
}

// NewStore rehydrates the feed from the cache. A missing or corrupted
// blob yields an empty feed, never an error.
func NewStore(cache Cache, alerter Alerter, log *logrus.Logger) *Store {
	s := &Store{
		cache:   cache,
		alerter: alerter,
		log:     log,
		Now:     time.Now,
	}

	blob, ok, err := cache.Load(FeedKey)
	if err != nil {
		log.Printf("failed to load notifications from cache: %v", err)
		return s
	}
	if !ok {
		return s
	}
	var items []models.Notification
	if err := json.Unmarshal(blob, &items); err != nil {
		log.Printf("discarding corrupted notification cache: %v", err)
		return s
	}
	s.items = items
	return s
}

// Append turns a push event into a feed entry, prepends it, persists, and
// fires the local alert. Returns the stored record.
func (s *Store) Append(ev models.NewOrderEvent) models.Notification {
	s.mu.Lock()
	n := models.NewNotification(ev, s.Now())
	s.items = append([]models.Notification{n}, s.items...)
	s.persistLocked()
	s.mu.Unlock()

	if s.alerter != nil {
		s.alerter.NewOrder(n)
	}
	return n
}

// MarkRead flips one entry to read. Unknown ids are a no-op.
func (s *Store) MarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			s.persistLocked()
			return
		}
	}
}

func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		s.items[i].Read = true
	}
	s.persistLocked()
}

// Dismiss removes one entry. Unknown ids are a no-op.
func (s *Store) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// UnreadCount recomputes on every call; it is never cached.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// All returns a copy of the feed, newest first.
func (s *Store) All() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) persistLocked() {
	blob, err := json.Marshal(s.items)
	if err != nil {
		s.log.Printf("failed to serialize notifications: %v", err)
		return
	}
	if err := s.cache.Save(FeedKey, blob); err != nil {
		s.log.Printf("failed to save notifications to cache: %v", err)
	}
}
