// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

type dbOperation int

const (
	dbPut dbOperation = iota
	dbDelete
)

const (
	cacheExpiration = 2 * time.Minute
	cacheCleanup    = 1 * time.Minute
)

// a pending write in a transaction, or a remembered committed read
type cacheData struct {
	op    dbOperation
	value []byte
}

// committed read cache keyed by prefixed key
//
// absent keys are remembered too, so a repeated Has or Get of a
// missing record does not reach LevelDB; entries only change on a
// read of committed data or after a successful commit
type readCache struct {
	entries *cache.Cache
}

func newReadCache() *readCache {
	return &readCache{
		entries: cache.New(cacheExpiration, cacheCleanup),
	}
}

// lookup - known is false when LevelDB must be consulted
func (c *readCache) lookup(key []byte) (value []byte, present bool, known bool) {
	obj, found := c.entries.Get(string(key))
	if !found {
		return nil, false, false
	}
	data := obj.(cacheData)
	if dbDelete == data.op {
		return nil, false, true
	}
	return data.value, true, true
}

func (c *readCache) remember(key []byte, value []byte) {
	if nil == value {
		c.entries.SetDefault(string(key), cacheData{op: dbDelete})
		return
	}
	c.entries.SetDefault(string(key), cacheData{op: dbPut, value: value})
}

// apply - the operations of a committed transaction
func (c *readCache) apply(ops map[string]cacheData) {
	for key, data := range ops {
		c.entries.SetDefault(key, data)
	}
}

func (c *readCache) clear() {
	c.entries.Flush()
}
