// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package packing - length prefixed varint record codec
//
// every field is either a Varint64 or a Varint64(length) followed by
// that number of bytes; records are a plain concatenation of fields
package packing

import (
	"github.com/bitmark-inc/poolkeeper/fault"
)

// Packed - a packed record
type Packed []byte

// AppendUint64 - append a Varint64 to the record
func (buffer Packed) AppendUint64(value uint64) Packed {
	return append(buffer, ToVarint64(value)...)
}

// AppendBytes - append a byte field
//
// the field is prefixed by Varint64(length)
func (buffer Packed) AppendBytes(data []byte) Packed {
	buffer = append(buffer, ToVarint64(uint64(len(data)))...)
	return append(buffer, data...)
}

// AppendString - append a string field
//
// the field is prefixed by Varint64(length)
func (buffer Packed) AppendString(s string) Packed {
	buffer = append(buffer, ToVarint64(uint64(len(s)))...)
	return append(buffer, s...)
}

// Unpacker - sequential reader of a packed record
type Unpacker struct {
	record []byte
	n      int
}

// NewUnpacker - start reading a record from the beginning
func NewUnpacker(record []byte) *Unpacker {
	return &Unpacker{
		record: record,
	}
}

// Uint64 - read a Varint64 field
func (u *Unpacker) Uint64() (uint64, error) {
	value, count := FromVarint64(u.record[u.n:])
	if 0 == count {
		return 0, fault.ErrRecordTruncated
	}
	u.n += count
	return value, nil
}

// Bytes - read a length prefixed byte field
//
// the result is a copy and does not alias the record
func (u *Unpacker) Bytes() ([]byte, error) {
	length, err := u.Uint64()
	if nil != err {
		return nil, err
	}
	if length > uint64(len(u.record)-u.n) {
		return nil, fault.ErrRecordTruncated
	}
	data := make([]byte, length)
	copy(data, u.record[u.n:])
	u.n += int(length)
	return data, nil
}

// String - read a length prefixed string field
func (u *Unpacker) String() (string, error) {
	data, err := u.Bytes()
	if nil != err {
		return "", err
	}
	return string(data), nil
}

// Remaining - number of unread bytes
func (u *Unpacker) Remaining() int {
	return len(u.record) - u.n
}
