// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"github.com/bitmark-inc/poolkeeper/storage"
)

// View - read only view of the stored chain through one reader
//
// unreadable records are treated as absent; the error is kept and
// reported by Err
type View struct {
	store  *Store
	reader storage.Reader
	err    error
}

// View - chain view through a reader
func (s *Store) View(r storage.Reader) *View {
	return &View{
		store:  s,
		reader: r,
	}
}

// Last - header of the highest stored block
func (v *View) Last() (Header, bool) {
	b, found, err := v.store.Last(v.reader)
	if nil != err {
		v.fail(err)
		return Header{}, false
	}
	if !found {
		return Header{}, false
	}
	return b.Header, true
}

// At - header of the block stored at a height
func (v *View) At(height uint32) (Header, bool) {
	b, found, err := v.store.Get(v.reader, height)
	if nil != err {
		v.fail(err)
		return Header{}, false
	}
	if !found {
		return Header{}, false
	}
	return b.Header, true
}

func (v *View) fail(err error) {
	if nil == v.err {
		v.err = err
	}
}

// Err - first error encountered while reading
func (v *View) Err() error {
	return v.err
}
