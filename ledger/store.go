// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"fmt"

	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/packing"
	"github.com/bitmark-inc/poolkeeper/storage"
)

// Ledger - keyed access to the stored pools
type Ledger struct {
	handle *storage.PoolHandle
	decode StateDecoder
}

// New - ledger over the pools table of a store
func New(store *storage.Store, decode StateDecoder) *Ledger {
	return &Ledger{
		handle: store.Pools,
		decode: decode,
	}
}

// Get - fetch a pool by address
func (l *Ledger) Get(r storage.Reader, address string) (*Pool, error) {
	packed := r.Get(l.handle, []byte(address))
	if nil == packed {
		return nil, fault.ErrPoolNotFound
	}
	pool, err := l.unpack(packed)
	if nil != err {
		return nil, fmt.Errorf("pool: %q: %w", address, err)
	}
	return pool, nil
}

// Has - check if a pool exists
func (l *Ledger) Has(r storage.Reader, address string) bool {
	return r.Has(l.handle, []byte(address))
}

// Insert - store a pool, replacing any previous version
func (l *Ledger) Insert(trx storage.Transaction, pool *Pool) error {
	packed, err := pack(pool)
	if nil != err {
		return fmt.Errorf("pool: %q: %w", pool.Address, err)
	}
	trx.Put(l.handle, []byte(pool.Address), packed)
	return nil
}

// Remove - delete a pool, returning its last stored version
func (l *Ledger) Remove(trx storage.Transaction, address string) (*Pool, error) {
	pool, err := l.Get(trx, address)
	if nil != err {
		return nil, err
	}
	trx.Delete(l.handle, []byte(address))
	return pool, nil
}

// List - all pools in address order
func (l *Ledger) List(r storage.Reader) ([]*Pool, error) {
	pools := make([]*Pool, 0)
	err := r.Map(l.handle, func(key []byte, value []byte) error {
		pool, err := l.unpack(value)
		if nil != err {
			return fmt.Errorf("pool: %q: %w", key, err)
		}
		pools = append(pools, pool)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return pools, nil
}

// record layout:
//   key ++ path count ++ (path element)* ++ name ++ address ++ state count ++ (state)*
func pack(pool *Pool) (packing.Packed, error) {
	record := packing.Packed{}.
		AppendBytes(pool.Key).
		AppendUint64(uint64(len(pool.KeyDerivationPath)))
	for _, p := range pool.KeyDerivationPath {
		record = record.AppendBytes(p)
	}
	record = record.
		AppendString(pool.Name).
		AppendString(pool.Address).
		AppendUint64(uint64(len(pool.States)))

	for _, s := range pool.States {
		data, err := s.MarshalBinary()
		if nil != err {
			return nil, err
		}
		record = record.AppendBytes(data)
	}
	return record, nil
}

func (l *Ledger) unpack(record []byte) (*Pool, error) {
	u := packing.NewUnpacker(record)

	pool := &Pool{}
	var err error

	if pool.Key, err = u.Bytes(); nil != err {
		return nil, err
	}
	pathCount, err := u.Uint64()
	if nil != err {
		return nil, err
	}
	if pathCount > uint64(u.Remaining()) {
		return nil, fault.ErrRecordTruncated
	}
	pool.KeyDerivationPath = make([][]byte, pathCount)
	for i := range pool.KeyDerivationPath {
		if pool.KeyDerivationPath[i], err = u.Bytes(); nil != err {
			return nil, err
		}
	}
	if pool.Name, err = u.String(); nil != err {
		return nil, err
	}
	if pool.Address, err = u.String(); nil != err {
		return nil, err
	}

	stateCount, err := u.Uint64()
	if nil != err {
		return nil, err
	}
	if stateCount > uint64(u.Remaining()) {
		return nil, fault.ErrRecordTruncated
	}
	pool.States = make([]State, stateCount)
	for i := range pool.States {
		data, err := u.Bytes()
		if nil != err {
			return nil, err
		}
		if pool.States[i], err = l.decode(data); nil != err {
			return nil, err
		}
	}
	return pool, nil
}
