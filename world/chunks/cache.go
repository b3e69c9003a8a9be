/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package chunks holds loaded world chunks in memory, keyed by chunk
// position, and persists them through resolved handlers.
package chunks

import (
	"sort"
	"sync"

	"dirpx.dev/typehandling/mathtypes"
)

// Cache is a concurrency-safe map from chunk position to chunk. It has no
// eviction policy; entries stay until removed or cleared.
type Cache[C any] struct {
	mu     sync.RWMutex
	chunks map[mathtypes.Vector3i]C
}

// New returns an empty cache.
func New[C any]() *Cache[C] {
	return &Cache[C]{chunks: make(map[mathtypes.Vector3i]C)}
}

// Get returns the chunk at pos.
func (c *Cache[C]) Get(pos mathtypes.Vector3i) (C, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chunk, ok := c.chunks[pos]
	return chunk, ok
}

// Put stores chunk at pos, replacing any previous chunk there.
func (c *Cache[C]) Put(pos mathtypes.Vector3i, chunk C) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chunks == nil {
		c.chunks = make(map[mathtypes.Vector3i]C)
	}
	c.chunks[pos] = chunk
}

// Contains reports whether a chunk is cached at pos.
func (c *Cache[C]) Contains(pos mathtypes.Vector3i) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.chunks[pos]
	return ok
}

// Remove drops the chunk at pos, if any.
func (c *Cache[C]) Remove(pos mathtypes.Vector3i) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.chunks, pos)
}

// Clear drops every chunk.
func (c *Cache[C]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.chunks)
}

// Len returns the number of cached chunks.
func (c *Cache[C]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.chunks)
}

// Positions returns a snapshot of the cached positions ordered by X, then
// Y, then Z.
func (c *Cache[C]) Positions() []mathtypes.Vector3i {
	c.mu.RLock()
	out := make([]mathtypes.Vector3i, 0, len(c.chunks))
	for pos := range c.chunks {
		out = append(out, pos)
	}
	c.mu.RUnlock()
	sortPositions(out)
	return out
}

// All returns a snapshot of the cached chunks in Positions order.
func (c *Cache[C]) All() []C {
	c.mu.RLock()
	defer c.mu.RUnlock()
	positions := make([]mathtypes.Vector3i, 0, len(c.chunks))
	for pos := range c.chunks {
		positions = append(positions, pos)
	}
	sortPositions(positions)
	out := make([]C, len(positions))
	for i, pos := range positions {
		out[i] = c.chunks[pos]
	}
	return out
}

func sortPositions(p []mathtypes.Vector3i) {
	sort.Slice(p, func(i, j int) bool {
		a, b := p[i], p[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
}
