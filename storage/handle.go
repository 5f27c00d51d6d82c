// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/logger"
)

// PoolHandle - handle for one prefix pool
type PoolHandle struct {
	prefix byte
	limit  []byte
	store  *Store
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// the full key range of the pool
func (p *PoolHandle) fullRange() *ldb_util.Range {
	return &ldb_util.Range{
		Start: []byte{p.prefix}, // Start of key range, included in the range
		Limit: p.limit,          // Limit of key range, excluded from the range
	}
}

// Get - read a committed value for a given key
//
// returns nil if the key is not present
func (p *PoolHandle) Get(key []byte) []byte {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return nil
	}

	prefixedKey := p.prefixKey(key)
	if value, _, known := p.store.cache.lookup(prefixedKey); known {
		return value
	}

	value, err := p.store.db.Get(prefixedKey, nil)
	if leveldb.ErrNotFound == err {
		value = nil
	} else {
		logger.PanicIfError("pool.Get", err)
	}

	p.store.cache.remember(prefixedKey, value)
	return value
}

// Has - check if a committed key exists
func (p *PoolHandle) Has(key []byte) bool {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return false
	}

	prefixedKey := p.prefixKey(key)
	if _, present, known := p.store.cache.lookup(prefixedKey); known {
		return present
	}

	value, err := p.store.db.Has(prefixedKey, nil)
	logger.PanicIfError("pool.Has", err)
	return value
}

// LastElement - get the last committed element in a pool
func (p *PoolHandle) LastElement() (Element, bool) {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return Element{}, false
	}

	iter := p.store.db.NewIterator(p.fullRange(), nil)
	return lastElement(iter)
}

// Map - run a function on all committed elements in the pool
func (p *PoolHandle) Map(f func(key []byte, value []byte) error) error {
	return p.NewFetchCursor().Map(f)
}

// shared by committed and transactional reads
func lastElement(iter iterator.Iterator) (Element, bool) {
	found := false
	result := Element{}
	if iter.Last() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		result = copyElement(iter.Key(), iter.Value())
		found = true
	}
	iter.Release()
	err := iter.Error()
	logger.PanicIfError("pool.LastElement", err)
	return result, found
}

// strip the prefix and copy out of iterator owned memory
func copyElement(key []byte, value []byte) Element {
	dataKey := make([]byte, len(key)-1) // strip the prefix
	copy(dataKey, key[1:])              // ...

	dataValue := make([]byte, len(value))
	copy(dataValue, value)

	return Element{
		Key:   dataKey,
		Value: dataValue,
	}
}

// run f over every element of an iterator
func mapIterator(iter iterator.Iterator, f func(key []byte, value []byte) error) error {
	var err error
iterating:
	for iter.Next() {
		e := copyElement(iter.Key(), iter.Value())
		err = f(e.Key, e.Value)
		if nil != err {
			break iterating
		}
	}
	iter.Release()
	if nil == err {
		err = iter.Error()
	}
	return err
}
