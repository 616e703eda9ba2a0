package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/sfa/backend/internal/domain/preference"
)

const (
	defaultPreferencePrefix = "sfa:prefs:"
	maxUpdateAttempts       = 5
)

// RedisPreferenceStore keeps one JSON document per user in Redis. Preferences
// do not expire.
type RedisPreferenceStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisPreferenceStore creates a store over an existing client
func NewRedisPreferenceStore(client redis.UniversalClient, keyPrefix string) *RedisPreferenceStore {
	if keyPrefix == "" {
		keyPrefix = defaultPreferencePrefix
	}
	return &RedisPreferenceStore{client: client, keyPrefix: keyPrefix}
}

// Get returns the stored preferences, or empty ones when nothing is stored
func (s *RedisPreferenceStore) Get(ctx context.Context, referenceID string) (*preference.Preferences, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+referenceID).Bytes()
	if errors.Is(err, redis.Nil) {
		return preference.New(referenceID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return decodePreferences(referenceID, data)
}

// Put stores the whole document
func (s *RedisPreferenceStore) Put(ctx context.Context, prefs *preference.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+prefs.ReferenceID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store preferences: %w", err)
	}
	return nil
}

// Update runs a read-modify-write under WATCH. The MULTI block is discarded
// when another client writes the key first, and the update is retried.
func (s *RedisPreferenceStore) Update(ctx context.Context, referenceID string, fn func(*preference.Preferences)) (*preference.Preferences, error) {
	key := s.keyPrefix + referenceID
	var updated *preference.Preferences
	txf := func(tx *redis.Tx) error {
		prefs := preference.New(referenceID)
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("failed to load preferences: %w", err)
		default:
			if prefs, err = decodePreferences(referenceID, data); err != nil {
				return err
			}
		}

		fn(prefs)
		prefs.ReferenceID = referenceID
		encoded, err := json.Marshal(prefs)
		if err != nil {
			return fmt.Errorf("failed to encode preferences: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		if err == nil {
			updated = prefs
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, preference.ErrUpdateContended
}

// Delete removes a user's preferences
func (s *RedisPreferenceStore) Delete(ctx context.Context, referenceID string) error {
	return s.client.Del(ctx, s.keyPrefix+referenceID).Err()
}

// InMemoryPreferenceStore implements preference.Store in process memory.
// Documents are stored encoded so callers never share mutable state.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewInMemoryPreferenceStore creates an empty store
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{docs: make(map[string][]byte)}
}

// Get returns the stored preferences, or empty ones when nothing is stored
func (s *InMemoryPreferenceStore) Get(_ context.Context, referenceID string) (*preference.Preferences, error) {
	s.mu.RLock()
	data, ok := s.docs[referenceID]
	s.mu.RUnlock()
	if !ok {
		return preference.New(referenceID), nil
	}
	return decodePreferences(referenceID, data)
}

// Put stores the whole document
func (s *InMemoryPreferenceStore) Put(_ context.Context, prefs *preference.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	s.mu.Lock()
	s.docs[prefs.ReferenceID] = data
	s.mu.Unlock()
	return nil
}

// Update holds the store lock across the read-modify-write
func (s *InMemoryPreferenceStore) Update(_ context.Context, referenceID string, fn func(*preference.Preferences)) (*preference.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := preference.New(referenceID)
	if data, ok := s.docs[referenceID]; ok {
		var err error
		if prefs, err = decodePreferences(referenceID, data); err != nil {
			return nil, err
		}
	}
	fn(prefs)
	prefs.ReferenceID = referenceID
	data, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}
	s.docs[referenceID] = data
	return prefs, nil
}

// Delete removes a user's preferences
func (s *InMemoryPreferenceStore) Delete(_ context.Context, referenceID string) error {
	s.mu.Lock()
	delete(s.docs, referenceID)
	s.mu.Unlock()
	return nil
}

func decodePreferences(referenceID string, data []byte) (*preference.Preferences, error) {
	prefs := preference.New(referenceID)
	if err := json.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	if prefs.RecentEmails == nil {
		prefs.RecentEmails = make([]string, 0)
	}
	if prefs.ExpandedFiltersState == nil {
		prefs.ExpandedFiltersState = make(map[string]bool)
	}
	prefs.ReferenceID = referenceID
	return prefs, nil
}

var (
	_ preference.Store = (*RedisPreferenceStore)(nil)
	_ preference.Store = (*InMemoryPreferenceStore)(nil)
)
