// Copyright (c) 2025, Atlas Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package facts memoizes expensive, slowly changing host facts.
//
// Each fact is keyed by name and carries its own expiry policy: TTLNever
// for facts that cannot change during process lifetime (machine id, CPU
// brand) and a short time bound for facts that drift (disk usage).
// Concurrent readers never block each other, and concurrent first access
// to the same key computes the fact at most once per expiry epoch.
package facts

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TTLNever marks a fact that stays valid for the process lifetime.
const TTLNever time.Duration = -1

type entry struct {
	value   any
	expires time.Time // zero when the entry never expires
}

func (e entry) valid(now time.Time) bool {
	return e.expires.IsZero() || now.Before(e.expires)
}

// Cache is a key-value store with get-or-compute semantics and per-key
// expiry. The zero value is not usable; create instances with New.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group

	// now is a seam for expiry tests.
	now func() time.Time
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key, computing and storing it when the
// key is missing or expired. ttl bounds the lifetime of a freshly computed
// value; pass TTLNever for facts that cannot change while the process runs.
// Compute errors are returned to the caller and nothing is stored, so a
// failed fact is retried on the next access.
func (c *Cache) Get(key string, ttl time.Duration, compute func() (any, error)) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	now := c.now()
	c.mu.RUnlock()
	if ok && e.valid(now) {
		return e.value, nil
	}

	// singleflight collapses concurrent misses on the same key into one
	// compute call.
	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		e, ok := c.entries[key]
		now := c.now()
		c.mu.RUnlock()
		if ok && e.valid(now) {
			return e.value, nil
		}

		value, err := compute()
		if err != nil {
			return nil, err
		}

		stored := entry{value: value}
		if ttl != TTLNever {
			stored.expires = now.Add(ttl)
		}

		c.mu.Lock()
		c.entries[key] = stored
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Invalidate removes the entry for key, forcing the next access to recompute.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Get is the typed wrapper around Cache.Get. It fails when a previously
// stored value for key has a different type, which indicates two facts
// sharing one name.
func Get[T any](c *Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	var zero T
	v, err := c.Get(key, ttl, func() (any, error) {
		return compute()
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("fact %q holds %T, not %T", key, v, zero)
	}
	return typed, nil
}
