// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/poolkeeper/fault"
)

// Reader - read access shared by committed data and a transaction
type Reader interface {
	Get(*PoolHandle, []byte) []byte
	Has(*PoolHandle, []byte) bool
	LastElement(*PoolHandle) (Element, bool)
	Map(*PoolHandle, func(key []byte, value []byte) error) error
}

// Transaction - an atomic set of changes
//
// reads through a transaction see its own uncommitted writes
type Transaction interface {
	Reader
	Put(*PoolHandle, []byte, []byte)
	Delete(*PoolHandle, []byte)
	Commit() error
	Abort()
}

// committed reads on the store itself
func (s *Store) Get(p *PoolHandle, key []byte) []byte { return p.Get(key) }
func (s *Store) Has(p *PoolHandle, key []byte) bool  { return p.Has(key) }
func (s *Store) LastElement(p *PoolHandle) (Element, bool) {
	return p.LastElement()
}
func (s *Store) Map(p *PoolHandle, f func(key []byte, value []byte) error) error {
	return p.Map(f)
}

type transaction struct {
	store *Store
	trx   *leveldb.Transaction
	ops   map[string]cacheData
}

// Begin - start a new transaction
//
// only one transaction may be open at any time
func (s *Store) Begin() (Transaction, error) {
	s.trxLock.Lock()
	defer s.trxLock.Unlock()

	if nil != s.trx {
		return nil, fault.ErrTransactionInUse
	}

	s.RLock()
	db := s.db
	s.RUnlock()
	if nil == db {
		return nil, fault.ErrNotInitialised
	}

	trx, err := db.OpenTransaction()
	if nil != err {
		return nil, err
	}

	s.trx = &transaction{
		store: s,
		trx:   trx,
		ops:   make(map[string]cacheData),
	}
	return s.trx, nil
}

func (t *transaction) active() *leveldb.Transaction {
	if nil == t.trx {
		logger.Panic("transaction used after commit or abort")
	}
	return t.trx
}

func (t *transaction) Put(p *PoolHandle, key []byte, value []byte) {
	prefixedKey := p.prefixKey(key)
	err := t.active().Put(prefixedKey, value, nil)
	logger.PanicIfError("transaction.Put", err)

	stored := make([]byte, len(value))
	copy(stored, value)
	t.ops[string(prefixedKey)] = cacheData{op: dbPut, value: stored}
}

func (t *transaction) Delete(p *PoolHandle, key []byte) {
	prefixedKey := p.prefixKey(key)
	err := t.active().Delete(prefixedKey, nil)
	logger.PanicIfError("transaction.Delete", err)

	t.ops[string(prefixedKey)] = cacheData{op: dbDelete}
}

func (t *transaction) Get(p *PoolHandle, key []byte) []byte {
	value, err := t.active().Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("transaction.Get", err)
	return value
}

func (t *transaction) Has(p *PoolHandle, key []byte) bool {
	found, err := t.active().Has(p.prefixKey(key), nil)
	logger.PanicIfError("transaction.Has", err)
	return found
}

func (t *transaction) LastElement(p *PoolHandle) (Element, bool) {
	return lastElement(t.active().NewIterator(p.fullRange(), nil))
}

func (t *transaction) Map(p *PoolHandle, f func(key []byte, value []byte) error) error {
	return mapIterator(t.active().NewIterator(p.fullRange(), nil), f)
}

// Commit - apply all changes atomically
//
// on failure nothing is applied and the transaction is closed
func (t *transaction) Commit() error {
	if nil == t.trx {
		return fault.ErrTransactionNotInUse
	}

	s := t.store
	s.Lock()
	err := t.trx.Commit()
	if nil == err {
		s.cache.apply(t.ops)
	} else {
		t.trx.Discard()
	}
	s.Unlock()

	t.release()
	return err
}

// Abort - discard all changes
func (t *transaction) Abort() {
	if nil == t.trx {
		return
	}
	t.trx.Discard()
	t.release()
}

// close the underlying leveldb transaction without the store lock
func (t *transaction) discard() {
	if nil != t.trx {
		t.trx.Discard()
		t.trx = nil
	}
}

func (t *transaction) release() {
	t.trx = nil
	t.ops = nil

	s := t.store
	s.trxLock.Lock()
	if s.trx == t {
		s.trx = nil
	}
	s.trxLock.Unlock()
}
