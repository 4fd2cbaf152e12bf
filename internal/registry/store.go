/*
 * Store - persistence of server targets.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package registry

import (
	"context"
	"sort"
	"sync"
)

// Store keeps server targets. Implementations return ErrTargetNotFound for
// unknown ids.
type Store interface {
	Create(ctx context.Context, t *ServerTarget) error
	Get(ctx context.Context, id string) (*ServerTarget, error)
	// List returns the targets by creation time.
	List(ctx context.Context) ([]*ServerTarget, error)
	// Update writes the settings of t. The stored active flag is left as it
	// is; only SetActive changes it.
	Update(ctx context.Context, t *ServerTarget) error
	Delete(ctx context.Context, id string) error
	// SetActive flags id as the active target and clears the flag on all
	// the others.
	SetActive(ctx context.Context, id string) error
}

// MemoryStore is a thread-safe in-memory Store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*ServerTarget
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*ServerTarget)}
}

func (s *MemoryStore) Create(_ context.Context, t *ServerTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = NewTargetID()
	}
	s.items[t.ID] = t.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*ServerTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	if !ok {
		return nil, ErrTargetNotFound
	}
	return v.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]*ServerTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ServerTarget, 0, len(s.items))
	for _, v := range s.items {
		out = append(out, v.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, t *ServerTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.items[t.ID]
	if !ok {
		return ErrTargetNotFound
	}
	c := t.Clone()
	c.Active = old.Active
	s.items[t.ID] = c
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrTargetNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) SetActive(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrTargetNotFound
	}
	for k, v := range s.items {
		v.Active = k == id
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
