// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/poolkeeper/fault"
)

func TestBeginTwice(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	trx, err := s.Begin()
	assert.Nil(t, err, "first time Begin should not return any error")

	_, err = s.Begin()
	assert.Equal(t, fault.ErrTransactionInUse, err, "second time Begin should return error")

	trx.Abort()

	trx, err = s.Begin()
	assert.Nil(t, err, "Begin after Abort should succeed")
	trx.Abort()
}

func TestReadOwnWrites(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	trx, err := s.Begin()
	require.NoError(t, err, "begin")

	trx.Put(s.TestData, []byte("one"), []byte("data-one"))
	trx.Put(s.TestData, []byte("two"), []byte("data-two"))
	trx.Delete(s.TestData, []byte("two"))

	assert.Equal(t, []byte("data-one"), trx.Get(s.TestData, []byte("one")), "transaction sees its own put")
	assert.True(t, trx.Has(s.TestData, []byte("one")), "transaction has its own put")
	assert.False(t, trx.Has(s.TestData, []byte("two")), "transaction sees its own delete")

	assert.Nil(t, s.TestData.Get([]byte("one")), "uncommitted put visible outside transaction")
	assert.False(t, s.Has(s.TestData, []byte("one")), "uncommitted put visible outside transaction")

	require.NoError(t, trx.Commit(), "commit")

	assert.Equal(t, []byte("data-one"), s.Get(s.TestData, []byte("one")), "committed value")
	assert.False(t, s.TestData.Has([]byte("two")), "deleted key")
}

func TestAbortLeavesCommittedView(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	trx, err := s.Begin()
	require.NoError(t, err, "begin")
	trx.Put(s.TestData, []byte("key"), []byte("original"))
	require.NoError(t, trx.Commit(), "commit")

	// warm the read cache
	assert.Equal(t, []byte("original"), s.TestData.Get([]byte("key")), "committed value")

	trx, err = s.Begin()
	require.NoError(t, err, "begin")
	trx.Put(s.TestData, []byte("key"), []byte("changed"))
	trx.Put(s.TestData, []byte("other"), []byte("new"))
	trx.Abort()

	assert.Equal(t, []byte("original"), s.TestData.Get([]byte("key")), "value after abort")
	assert.False(t, s.TestData.Has([]byte("other")), "key added in aborted transaction")

	assert.Equal(t, fault.ErrTransactionNotInUse, trx.Commit(), "commit after abort")
}

func TestCommitUpdatesCache(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	for i, value := range []string{"first", "second"} {
		trx, err := s.Begin()
		require.NoError(t, err, "begin: %d", i)
		trx.Put(s.TestData, []byte("key"), []byte(value))
		require.NoError(t, trx.Commit(), "commit: %d", i)

		assert.Equal(t, []byte(value), s.TestData.Get([]byte("key")), "value: %d", i)
	}

	trx, err := s.Begin()
	require.NoError(t, err, "begin")
	trx.Delete(s.TestData, []byte("key"))
	require.NoError(t, trx.Commit(), "commit")

	assert.Nil(t, s.TestData.Get([]byte("key")), "deleted value")
	assert.False(t, s.TestData.Has([]byte("key")), "deleted key")
}

func TestAbsentKeyIsForgottenOnCommit(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	// remember the key as missing
	assert.Nil(t, s.TestData.Get([]byte("late")), "missing value")
	assert.False(t, s.TestData.Has([]byte("late")), "missing key")

	trx, err := s.Begin()
	require.NoError(t, err, "begin")
	trx.Put(s.TestData, []byte("late"), []byte{})
	require.NoError(t, trx.Commit(), "commit")

	assert.True(t, s.TestData.Has([]byte("late")), "empty value is present")
	assert.Equal(t, []byte{}, s.TestData.Get([]byte("late")), "empty value")
}

func TestMapAndLastElement(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	_, found := s.TestData.LastElement()
	assert.False(t, found, "empty pool has no last element")

	trx, err := s.Begin()
	require.NoError(t, err, "begin")
	for _, k := range []string{"key-c", "key-a", "key-b"} {
		trx.Put(s.TestData, []byte(k), []byte("data-"+k))
	}
	// other pools must not leak into the iteration
	trx.Put(s.Pools, []byte("key-z"), []byte("pool"))

	last, found := trx.LastElement(s.TestData)
	assert.True(t, found, "last element inside transaction")
	assert.Equal(t, []byte("key-c"), last.Key, "last key inside transaction")

	require.NoError(t, trx.Commit(), "commit")

	keys := []string{}
	err = s.Map(s.TestData, func(key []byte, value []byte) error {
		keys = append(keys, string(key))
		assert.Equal(t, "data-"+string(key), string(value), "value for: %s", key)
		return nil
	})
	assert.NoError(t, err, "map")
	assert.Equal(t, []string{"key-a", "key-b", "key-c"}, keys, "map order")

	last, found = s.LastElement(s.TestData)
	assert.True(t, found, "last element")
	assert.Equal(t, []byte("key-c"), last.Key, "last key")
	assert.Equal(t, []byte("data-key-c"), last.Value, "last value")
}

func TestMapStopsOnError(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	trx, err := s.Begin()
	require.NoError(t, err, "begin")
	for i := 0; i < 5; i += 1 {
		trx.Put(s.TestData, []byte{byte(i)}, []byte{byte(i)})
	}

	stop := fmt.Errorf("stop")
	n := 0
	err = trx.Map(s.TestData, func(key []byte, value []byte) error {
		n += 1
		if 2 == n {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err, "map error")
	assert.Equal(t, 2, n, "map calls")
	trx.Abort()
}
