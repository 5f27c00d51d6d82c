// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packing_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/packing"
)

var varint64Tests = []struct {
	value   uint64
	encoded []byte
}{
	{0, []byte{0x00}},
	{1, []byte{0x01}},
	{127, []byte{0x7f}},
	{128, []byte{0x80, 0x01}},
	{137, []byte{0x89, 0x01}},
	{255, []byte{0xff, 0x01}},
	{256, []byte{0x80, 0x02}},
	{16383, []byte{0xff, 0x7f}},
	{16384, []byte{0x80, 0x80, 0x01}},
	{0x7fffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}},
	{0x8000000000000000, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}},
	{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
}

var varint64TruncatedTests = [][]byte{
	{},
	{0x80},
	{0xff},
	{0x80, 0x80},
	{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
}

func TestVarint64(t *testing.T) {
	for i, item := range varint64Tests {
		if result := packing.ToVarint64(item.value); !bytes.Equal(result, item.encoded) {
			t.Errorf("%d: ToVarint64(%x) -> %x  expected: %x", i, item.value, result, item.encoded)
		}

		b := append(append([]byte{}, item.encoded...), 0xff, 0x97, 0x23)
		value, count := packing.FromVarint64(b)
		if value != item.value || count != len(item.encoded) {
			t.Errorf("%d: FromVarint64(%x) -> %d, %d  expected: %d, %d", i, b, value, count, item.value, len(item.encoded))
		}
	}
}

func TestVarint64Truncated(t *testing.T) {
	for i, item := range varint64TruncatedTests {
		value, count := packing.FromVarint64(item)
		if 0 != value || 0 != count {
			t.Errorf("%d: FromVarint64(%x) -> %d, %d  expected: 0, 0", i, item, value, count)
		}
	}
}

func TestPackUnpack(t *testing.T) {
	record := packing.Packed{}.
		AppendUint64(1234567).
		AppendString("bc1pool").
		AppendBytes([]byte{0x01, 0x02, 0x03}).
		AppendBytes(nil)

	u := packing.NewUnpacker(record)

	n, err := u.Uint64()
	assert.NoError(t, err, "uint64")
	assert.Equal(t, uint64(1234567), n, "uint64")

	s, err := u.String()
	assert.NoError(t, err, "string")
	assert.Equal(t, "bc1pool", s, "string")

	b, err := u.Bytes()
	assert.NoError(t, err, "bytes")
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, b, "bytes")

	b, err = u.Bytes()
	assert.NoError(t, err, "empty bytes")
	assert.Equal(t, 0, len(b), "empty bytes")

	assert.Equal(t, 0, u.Remaining(), "remaining")
}

func TestUnpackTruncated(t *testing.T) {
	full := packing.Packed{}.AppendUint64(300).AppendString("address")

	// every strict prefix must fail somewhere
	for l := 0; l < len(full); l += 1 {
		u := packing.NewUnpacker(full[:l])
		_, err := u.Uint64()
		if nil == err {
			_, err = u.String()
		}
		assert.Equal(t, fault.ErrRecordTruncated, err, "prefix length: %d", l)
	}
}
