// seehuhn.de/go/sld - render styled layer descriptors
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package graphic

import (
	"hash/fnv"
	"image"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

const (
	shardCount = 16
	shardMask  = shardCount - 1
)

// Key identifies a decoded image.  W and H are zero for raster images used
// at their natural size, and give the target size for rendered SVG.
type Key struct {
	URL  string
	W, H int
}

func (k Key) String() string {
	return k.URL + "@" + strconv.Itoa(k.W) + "x" + strconv.Itoa(k.H)
}

func (k Key) hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(k.URL))
	var buf [8]byte
	for i := range 4 {
		buf[i] = byte(k.W >> (8 * i))
		buf[4+i] = byte(k.H >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// Cache holds decoded images.  Entries are never evicted.  A Cache is safe
// for concurrent use, and concurrent requests for the same key share a
// single load.  Use [NewCache] to create a Cache.
type Cache struct {
	shards [shardCount]*cacheShard
	group  singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

type cacheShard struct {
	mu      sync.RWMutex
	entries map[Key]image.Image
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	c := &Cache{}
	for i := range c.shards {
		c.shards[i] = &cacheShard{entries: make(map[Key]image.Image)}
	}
	return c
}

func (c *Cache) shard(key Key) *cacheShard {
	return c.shards[key.hash()&shardMask]
}

// Get returns the cached image for key.
func (c *Cache) Get(key Key) (image.Image, bool) {
	s := c.shard(key)
	s.mu.RLock()
	img, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return img, ok
}

// Set stores an image.  The image must not be modified afterwards.
func (c *Cache) Set(key Key, img image.Image) {
	s := c.shard(key)
	s.mu.Lock()
	s.entries[key] = img
	s.mu.Unlock()
}

// GetOrLoad returns the cached image for key, calling load if there is
// none.  At most one load per key runs at any time, and successful results
// are stored.  Errors are not cached, so that a later call tries again.
func (c *Cache) GetOrLoad(key Key, load func() (image.Image, error)) (image.Image, error) {
	if img, ok := c.Get(key); ok {
		return img, nil
	}
	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		s := c.shard(key)
		s.mu.RLock()
		img, ok := s.entries[key]
		s.mu.RUnlock()
		if ok {
			return img, nil
		}
		img, err := load()
		if err != nil {
			return nil, err
		}
		c.Set(key, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Stats returns the number of cache hits and misses seen by Get.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
