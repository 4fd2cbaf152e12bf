/*
 * Lock - exclusive access to one zone file.
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
package commit

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// lockKey identifies a zone file on a server target.
type lockKey struct {
	target string
	path   string
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// lockTable hands out one exclusive lock per key. Entries live only while
// someone holds or waits for them.
type lockTable struct {
	mu      sync.Mutex
	entries map[lockKey]*lockEntry
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[lockKey]*lockEntry)}
}

// acquire waits for the lock of key. The wait ends early with the error of
// ctx. On success the returned function releases the lock.
func (t *lockTable) acquire(ctx context.Context, key lockKey) (func(), error) {
	t.mu.Lock()
	e, ok := t.entries[key]
	if !ok {
		e = &lockEntry{sem: semaphore.NewWeighted(1)}
		t.entries[key] = e
	}
	e.refs++
	t.mu.Unlock()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		t.unref(key, e)
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			t.unref(key, e)
		})
	}, nil
}

// unref drops a reference and forgets unused entries.
func (t *lockTable) unref(key lockKey, e *lockEntry) {
	t.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(t.entries, key)
	}
	t.mu.Unlock()
}

// size returns the number of live entries.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
