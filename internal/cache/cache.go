package cache

import (
	"sync"
	"time"
)

// Cache tags. Writes revalidate the tags of everything they may affect.
const (
	TagArticles    = "articles"
	TagGuides      = "guides"
	TagGames       = "games"
	TagTags        = "tags"
	TagVideos      = "videos"
	TagTierLists   = "tier-lists"
	TagMaintenance = "maintenance"
)

// Tags lists every known tag.
var Tags = []string{TagArticles, TagGuides, TagGames, TagTags, TagVideos, TagTierLists, TagMaintenance}

// IsTag reports whether tag is known.
func IsTag(tag string) bool {
	for _, t := range Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Entry is a cached value.
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
	Value       any

	expires time.Time
	tags    []string
}

// Store keeps entries in memory and indexes them by tag.
type Store struct {
	entries map[string]*Entry
	tags    map[string]map[string]bool
	mu      sync.RWMutex
	now     func() time.Time
}

// Default is the process-wide store.
var Default = NewStore()

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*Entry),
		tags:    make(map[string]map[string]bool),
		now:     time.Now,
	}
}

// Get returns the entry for key unless it is missing or expired.
func (s *Store) Get(key string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok || !s.now().Before(entry.expires) {
		return nil, false
	}
	return entry, true
}

// Set stores entry under key for ttl and indexes it under tags.
func (s *Store) Set(key string, entry Entry, ttl time.Duration, tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(key)

	entry.expires = s.now().Add(ttl)
	entry.tags = append([]string(nil), tags...)
	s.entries[key] = &entry

	for _, tag := range tags {
		if _, ok := s.tags[tag]; !ok {
			s.tags[tag] = make(map[string]bool)
		}
		s.tags[tag][key] = true
	}
}

// Revalidate drops every entry carrying one of tags and returns how many went.
func (s *Store) Revalidate(tags ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, tag := range tags {
		for key := range s.tags[tag] {
			if s.removeLocked(key) {
				removed++
			}
		}
		delete(s.tags, tag)
	}
	return removed
}

// Sweep removes entries that expired before now.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if !now.Before(entry.expires) {
			s.removeLocked(key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Flush empties the store.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*Entry)
	s.tags = make(map[string]map[string]bool)
}

func (s *Store) removeLocked(key string) bool {
	entry, ok := s.entries[key]
	if !ok {
		return false
	}
	delete(s.entries, key)
	for _, tag := range entry.tags {
		if keys, ok := s.tags[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(s.tags, tag)
			}
		}
	}
	return true
}
