// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package guard - at most one execution in flight per pool
package guard

import (
	"sync"
)

// Guard - the set of keys currently being executed
type Guard struct {
	sync.Mutex
	held map[string]struct{}
}

// Token - releasable hold on one key
type Token struct {
	guard *Guard
	key   string
	once  sync.Once
}

// New - create an empty guard
func New() *Guard {
	return &Guard{
		held: make(map[string]struct{}),
	}
}

// Acquire - hold a key
//
// returns nil if the key is already held
func (g *Guard) Acquire(key string) *Token {
	g.Lock()
	defer g.Unlock()
	if _, ok := g.held[key]; ok {
		return nil
	}
	g.held[key] = struct{}{}
	return &Token{
		guard: g,
		key:   key,
	}
}

// Held - check if a key is held
func (g *Guard) Held(key string) bool {
	g.Lock()
	defer g.Unlock()
	_, ok := g.held[key]
	return ok
}

// Key - the key held by the token
func (t *Token) Key() string {
	return t.key
}

// Release - give up the key, safe to call more than once
func (t *Token) Release() {
	t.once.Do(func() {
		g := t.guard
		g.Lock()
		delete(g.held, t.key)
		g.Unlock()
	})
}
