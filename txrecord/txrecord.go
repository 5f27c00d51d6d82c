// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txrecord - which pools each transaction touched
//
// a record is either unconfirmed or confirmed, never both; a confirmed
// record also carries the height of the block that confirmed it
package txrecord

import (
	"fmt"

	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/packing"
	"github.com/bitmark-inc/poolkeeper/storage"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// Record - the pools affected by one transaction
type Record struct {
	Txid   txid.Txid `json:"txid"`
	Pools  []string  `json:"pools"`
	Height uint32    `json:"height,omitempty"`
}

// Store - the unconfirmed and confirmed record tables
type Store struct {
	unconfirmed *storage.PoolHandle
	confirmed   *storage.PoolHandle
}

// New - record store over a storage
func New(store *storage.Store) *Store {
	return &Store{
		unconfirmed: store.Unconfirmed,
		confirmed:   store.Confirmed,
	}
}

// GetUnconfirmed - fetch an unconfirmed record
func (s *Store) GetUnconfirmed(r storage.Reader, id txid.Txid) (*Record, bool, error) {
	return get(r, s.unconfirmed, id, false)
}

// GetConfirmed - fetch a confirmed record
func (s *Store) GetConfirmed(r storage.Reader, id txid.Txid) (*Record, bool, error) {
	return get(r, s.confirmed, id, true)
}

// PutUnconfirmed - store an unconfirmed record
func (s *Store) PutUnconfirmed(trx storage.Transaction, record *Record) {
	trx.Put(s.unconfirmed, record.Txid.Bytes(), pack(record, false))
}

// PutConfirmed - store a confirmed record
func (s *Store) PutConfirmed(trx storage.Transaction, record *Record) {
	trx.Put(s.confirmed, record.Txid.Bytes(), pack(record, true))
}

// DeleteUnconfirmed - remove an unconfirmed record
func (s *Store) DeleteUnconfirmed(trx storage.Transaction, id txid.Txid) {
	trx.Delete(s.unconfirmed, id.Bytes())
}

// DeleteConfirmed - remove a confirmed record
func (s *Store) DeleteConfirmed(trx storage.Transaction, id txid.Txid) {
	trx.Delete(s.confirmed, id.Bytes())
}

// AddPool - record that an unconfirmed transaction touched a pool
//
// the record is created if necessary and an address is only listed once
func (s *Store) AddPool(trx storage.Transaction, id txid.Txid, address string) error {
	record, found, err := s.GetUnconfirmed(trx, id)
	if nil != err {
		return err
	}
	if !found {
		record = &Record{
			Txid: id,
		}
	}
	for _, a := range record.Pools {
		if a == address {
			return nil
		}
	}
	record.Pools = append(record.Pools, address)
	s.PutUnconfirmed(trx, record)
	return nil
}

// Confirm - move an unconfirmed record to confirmed at a height
//
// returns false if the txid was not unconfirmed
func (s *Store) Confirm(trx storage.Transaction, id txid.Txid, height uint32) (*Record, bool, error) {
	record, found, err := s.GetUnconfirmed(trx, id)
	if nil != err || !found {
		return nil, false, err
	}
	record.Height = height
	s.DeleteUnconfirmed(trx, id)
	s.PutConfirmed(trx, record)
	return record, true, nil
}

// Unconfirm - move a confirmed record back to unconfirmed
//
// returns false if the txid was not confirmed
func (s *Store) Unconfirm(trx storage.Transaction, id txid.Txid) (*Record, bool, error) {
	record, found, err := s.GetConfirmed(trx, id)
	if nil != err || !found {
		return nil, false, err
	}
	record.Height = 0
	s.DeleteConfirmed(trx, id)
	s.PutUnconfirmed(trx, record)
	return record, true, nil
}

// ListUnconfirmed - all unconfirmed records in txid order
func (s *Store) ListUnconfirmed(r storage.Reader) ([]*Record, error) {
	return list(r, s.unconfirmed, false)
}

// ListConfirmed - all confirmed records in txid order
func (s *Store) ListConfirmed(r storage.Reader) ([]*Record, error) {
	return list(r, s.confirmed, true)
}

// CountUnconfirmed - number of unconfirmed records
func (s *Store) CountUnconfirmed(r storage.Reader) (int, error) {
	n := 0
	err := r.Map(s.unconfirmed, func(key []byte, value []byte) error {
		n += 1
		return nil
	})
	return n, err
}

func get(r storage.Reader, handle *storage.PoolHandle, id txid.Txid, confirmed bool) (*Record, bool, error) {
	packed := r.Get(handle, id.Bytes())
	if nil == packed {
		return nil, false, nil
	}
	record, err := unpack(id, packed, confirmed)
	if nil != err {
		return nil, false, err
	}
	return record, true, nil
}

func list(r storage.Reader, handle *storage.PoolHandle, confirmed bool) ([]*Record, error) {
	records := make([]*Record, 0)
	err := r.Map(handle, func(key []byte, value []byte) error {
		id, err := txid.FromBytes(key)
		if nil != err {
			return err
		}
		record, err := unpack(id, value, confirmed)
		if nil != err {
			return err
		}
		records = append(records, record)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return records, nil
}

// record layout:
//   [height] ++ pool count ++ (address)*
func pack(record *Record, confirmed bool) packing.Packed {
	packed := packing.Packed{}
	if confirmed {
		packed = packed.AppendUint64(uint64(record.Height))
	}
	packed = packed.AppendUint64(uint64(len(record.Pools)))
	for _, address := range record.Pools {
		packed = packed.AppendString(address)
	}
	return packed
}

func unpack(id txid.Txid, packed []byte, confirmed bool) (*Record, error) {
	u := packing.NewUnpacker(packed)
	record := &Record{
		Txid: id,
	}

	if confirmed {
		height, err := u.Uint64()
		if nil != err {
			return nil, fmt.Errorf("txid: %s: %w", id, err)
		}
		record.Height = uint32(height)
	}

	count, err := u.Uint64()
	if nil != err {
		return nil, fmt.Errorf("txid: %s: %w", id, err)
	}
	if count > uint64(u.Remaining()) {
		return nil, fmt.Errorf("txid: %s: %w", id, fault.ErrRecordTruncated)
	}
	record.Pools = make([]string, count)
	for i := range record.Pools {
		if record.Pools[i], err = u.String(); nil != err {
			return nil, fmt.Errorf("txid: %s: %w", id, err)
		}
	}
	return record, nil
}
