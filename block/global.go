// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"encoding/binary"

	"github.com/bitmark-inc/poolkeeper/storage"
)

// GlobalState - chain wide application payload recorded at a height
type GlobalState struct {
	Height uint32
	Data   []byte
}

// GetGlobal - the snapshot recorded at a height
func (s *Store) GetGlobal(r storage.Reader, height uint32) ([]byte, bool) {
	data := r.Get(s.globals, heightKey(height))
	return data, nil != data
}

// LastGlobal - the newest snapshot
func (s *Store) LastGlobal(r storage.Reader) (*GlobalState, bool) {
	last, found := r.LastElement(s.globals)
	if !found || 4 != len(last.Key) {
		return nil, false
	}
	return &GlobalState{
		Height: binary.BigEndian.Uint32(last.Key),
		Data:   last.Value,
	}, true
}

// PutGlobal - record the snapshot for a height
func (s *Store) PutGlobal(trx storage.Transaction, height uint32, data []byte) {
	trx.Put(s.globals, heightKey(height), data)
}

// DeleteGlobal - remove the snapshot for a height
func (s *Store) DeleteGlobal(trx storage.Transaction, height uint32) {
	trx.Delete(s.globals, heightKey(height))
}

// GlobalHeights - heights of all snapshots in ascending order
func (s *Store) GlobalHeights(r storage.Reader) ([]uint32, error) {
	heights := make([]uint32, 0)
	err := r.Map(s.globals, func(key []byte, value []byte) error {
		if 4 == len(key) {
			heights = append(heights, binary.BigEndian.Uint32(key))
		}
		return nil
	})
	return heights, err
}
