// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"encoding/binary"
	"fmt"

	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/packing"
	"github.com/bitmark-inc/poolkeeper/storage"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// Header - identity of a block
type Header struct {
	Height    uint32 `json:"height"`
	Hash      string `json:"hash"`
	Timestamp uint64 `json:"timestamp"`
}

// Block - a stored block and the txids it confirmed
type Block struct {
	Header
	Txids []txid.Txid `json:"txids"`
}

// Announcement - a new block notification
type Announcement struct {
	Height         uint32      `json:"height"`
	Hash           string      `json:"hash"`
	Timestamp      uint64      `json:"timestamp"`
	ConfirmedTxids []txid.Txid `json:"confirmed_txids"`
}

// Header - identity of the announced block
func (a Announcement) Header() Header {
	return Header{
		Height:    a.Height,
		Hash:      a.Hash,
		Timestamp: a.Timestamp,
	}
}

// Store - keyed access to the stored blocks and global states
type Store struct {
	blocks  *storage.PoolHandle
	globals *storage.PoolHandle
}

// New - block store over a storage
func New(store *storage.Store) *Store {
	return &Store{
		blocks:  store.Blocks,
		globals: store.GlobalStates,
	}
}

// big endian so that key order is height order
func heightKey(height uint32) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, height)
	return key
}

// Get - fetch the block at a height
func (s *Store) Get(r storage.Reader, height uint32) (*Block, bool, error) {
	packed := r.Get(s.blocks, heightKey(height))
	if nil == packed {
		return nil, false, nil
	}
	b, err := unpack(height, packed)
	if nil != err {
		return nil, false, err
	}
	return b, true, nil
}

// Last - the highest stored block
func (s *Store) Last(r storage.Reader) (*Block, bool, error) {
	last, found := r.LastElement(s.blocks)
	if !found {
		return nil, false, nil
	}
	if 4 != len(last.Key) {
		return nil, false, fmt.Errorf("block key: %x: %w", last.Key, fault.ErrRecordTruncated)
	}
	b, err := unpack(binary.BigEndian.Uint32(last.Key), last.Value)
	if nil != err {
		return nil, false, err
	}
	return b, true, nil
}

// Put - store a block, replacing any previous one at the same height
func (s *Store) Put(trx storage.Transaction, b *Block) {
	trx.Put(s.blocks, heightKey(b.Height), pack(b))
}

// Delete - remove the block at a height
func (s *Store) Delete(trx storage.Transaction, height uint32) {
	trx.Delete(s.blocks, heightKey(height))
}

// List - all stored blocks in ascending height order
func (s *Store) List(r storage.Reader) ([]*Block, error) {
	blocks := make([]*Block, 0)
	err := r.Map(s.blocks, func(key []byte, value []byte) error {
		if 4 != len(key) {
			return fmt.Errorf("block key: %x: %w", key, fault.ErrRecordTruncated)
		}
		b, err := unpack(binary.BigEndian.Uint32(key), value)
		if nil != err {
			return err
		}
		blocks = append(blocks, b)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return blocks, nil
}

// record layout:
//   hash ++ timestamp ++ txid count ++ (txid)*
func pack(b *Block) packing.Packed {
	record := packing.Packed{}.
		AppendString(b.Hash).
		AppendUint64(b.Timestamp).
		AppendUint64(uint64(len(b.Txids)))
	for _, id := range b.Txids {
		record = record.AppendBytes(id.Bytes())
	}
	return record
}

func unpack(height uint32, record []byte) (*Block, error) {
	u := packing.NewUnpacker(record)

	b := &Block{
		Header: Header{
			Height: height,
		},
	}
	var err error
	if b.Hash, err = u.String(); nil != err {
		return nil, fmt.Errorf("block: %d: %w", height, err)
	}
	if b.Timestamp, err = u.Uint64(); nil != err {
		return nil, fmt.Errorf("block: %d: %w", height, err)
	}
	count, err := u.Uint64()
	if nil != err {
		return nil, fmt.Errorf("block: %d: %w", height, err)
	}
	if count > uint64(u.Remaining()) {
		return nil, fmt.Errorf("block: %d: %w", height, fault.ErrRecordTruncated)
	}
	b.Txids = make([]txid.Txid, count)
	for i := range b.Txids {
		buffer, err := u.Bytes()
		if nil != err {
			return nil, fmt.Errorf("block: %d: %w", height, err)
		}
		if b.Txids[i], err = txid.FromBytes(buffer); nil != err {
			return nil, fmt.Errorf("block: %d: %w", height, err)
		}
	}
	return b, nil
}
