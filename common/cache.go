// This file is part of DarkFi-Go (https://dark.fi)
//
// Copyright (C) 2020-2026 Dyne.org foundation
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package common

import (
	"errors"

	lru "github.com/hashicorp/golang-lru"
)

// CacheType selects the eviction policy NewCache builds, the way the
// teacher's cache picks between LRU and ARC backends per call site.
type CacheType int

const (
	LRUCacheType CacheType = iota
	ARCCacheType
)

// Cache is the bounded key/value store eventgraph/store layers in front of
// its badger lookups for recently-seen headers and events, and that
// validator/txverify could equally share a zkas verifying-key cache
// through.
type Cache interface {
	Add(key, value interface{}) (evicted bool)
	Get(key interface{}) (value interface{}, ok bool)
	Contains(key interface{}) bool
	Purge()
}

type lruCache struct {
	lru *lru.Cache
}

func (c *lruCache) Add(key, value interface{}) (evicted bool) {
	return c.lru.Add(key, value)
}

func (c *lruCache) Get(key interface{}) (value interface{}, ok bool) {
	return c.lru.Get(key)
}

func (c *lruCache) Contains(key interface{}) bool {
	return c.lru.Contains(key)
}

func (c *lruCache) Purge() {
	c.lru.Purge()
}

type arcCache struct {
	arc *lru.ARCCache
}

func (c *arcCache) Add(key, value interface{}) (evicted bool) {
	c.arc.Add(key, value)
	return false
}

func (c *arcCache) Get(key interface{}) (value interface{}, ok bool) {
	return c.arc.Get(key)
}

func (c *arcCache) Contains(key interface{}) bool {
	return c.arc.Contains(key)
}

func (c *arcCache) Purge() {
	c.arc.Purge()
}

// NewCache builds a Cache of the given kind and size, backed by
// golang-lru. size must be positive.
func NewCache(kind CacheType, size int) (Cache, error) {
	if size <= 0 {
		return nil, errors.New("common: cache size must be positive")
	}
	switch kind {
	case LRUCacheType:
		backing, err := lru.New(size)
		if err != nil {
			return nil, err
		}
		return &lruCache{backing}, nil
	case ARCCacheType:
		backing, err := lru.NewARC(size)
		if err != nil {
			return nil, err
		}
		return &arcCache{backing}, nil
	default:
		return nil, errors.New("common: unknown cache type")
	}
}
