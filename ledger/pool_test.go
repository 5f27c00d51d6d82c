// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/txid"
)

func makeState(n byte) ledger.State {
	return &ledger.BasicState{
		StateInfo: ledger.StateInfo{
			Txid:        txid.Txid{n},
			Nonce:       uint64(n),
			BtcReserved: 1000 * uint64(n),
			Attributes:  `{"n":1}`,
		},
	}
}

func makePool(count int) *ledger.Pool {
	pool := ledger.NewPool(ledger.Metadata{
		Key:               []byte{0x01, 0x02},
		KeyDerivationPath: [][]byte{[]byte("pool")},
		Name:              "test pool",
		Address:           "bc1ptest",
	})
	for i := 1; i <= count; i += 1 {
		pool.Push(makeState(byte(i)))
	}
	return pool
}

func nonces(states []ledger.State) []uint64 {
	result := make([]uint64, len(states))
	for i, s := range states {
		result[i] = s.Inspect().Nonce
	}
	return result
}

func TestPushLastState(t *testing.T) {
	pool := makePool(0)
	_, ok := pool.LastState()
	assert.False(t, ok, "empty pool has no state")

	pool.Push(makeState(1))
	pool.Push(makeState(2))

	last, ok := pool.LastState()
	assert.True(t, ok, "last state")
	assert.Equal(t, uint64(2), last.Inspect().Nonce, "last nonce")
	assert.Equal(t, 2, len(pool.States), "history length")
}

// rollback of the k-th pushed version leaves k-1 versions and reverts the
// removed suffix in reverse order
func TestRollbackKth(t *testing.T) {
	const n = 6
	for k := 1; k <= n; k += 1 {
		pool := makePool(n)

		reverted, err := pool.Rollback(txid.Txid{byte(k)})
		require.NoError(t, err, "rollback: %d", k)

		assert.Equal(t, k-1, len(pool.States), "remaining history: %d", k)

		expected := []uint64{}
		for j := n; j >= k; j -= 1 {
			expected = append(expected, uint64(j))
		}
		assert.Equal(t, expected, nonces(reverted), "reverted order: %d", k)

		if k > 1 {
			last, _ := pool.LastState()
			assert.Equal(t, uint64(k-1), last.Inspect().Nonce, "current state: %d", k)
		}
	}
}

func TestRollbackFirstClears(t *testing.T) {
	pool := makePool(3)
	reverted, err := pool.Rollback(txid.Txid{1})
	require.NoError(t, err, "rollback")
	assert.Equal(t, 0, len(pool.States), "history cleared")
	assert.Equal(t, []uint64{3, 2, 1}, nonces(reverted), "reverted")
}

func TestRollbackUnknown(t *testing.T) {
	pool := makePool(3)
	_, err := pool.Rollback(txid.Txid{9})
	assert.Equal(t, fault.ErrTxidNotFound, err, "unknown txid")
	assert.Equal(t, 3, len(pool.States), "history untouched")
}

func TestFinalize(t *testing.T) {
	pool := makePool(5)

	err := pool.Finalize(txid.Txid{1})
	require.NoError(t, err, "finalize first")
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, nonces(pool.States), "no-op at index zero")

	err = pool.Finalize(txid.Txid{3})
	require.NoError(t, err, "finalize third")
	assert.Equal(t, []uint64{3, 4, 5}, nonces(pool.States), "compacted history")

	err = pool.Finalize(txid.Txid{1})
	assert.Equal(t, fault.ErrTxidNotFound, err, "finalize discarded txid")
}

func TestFinalizeThenRollbackEarlier(t *testing.T) {
	pool := makePool(4)
	require.NoError(t, pool.Finalize(txid.Txid{3}), "finalize")

	for _, earlier := range []byte{1, 2} {
		_, err := pool.Rollback(txid.Txid{earlier})
		assert.Equal(t, fault.ErrTxidNotFound, err, "rollback of finalized away txid: %d", earlier)
	}

	reverted, err := pool.Rollback(txid.Txid{3})
	require.NoError(t, err, "rollback of finalized txid itself")
	assert.Equal(t, []uint64{4, 3}, nonces(reverted), "reverted")
}

func TestInfo(t *testing.T) {
	pool := makePool(0)
	info := pool.Info()
	assert.Equal(t, "0102", info.Key, "key")
	assert.Equal(t, []string{"706f6f6c"}, info.KeyDerivationPath, "path")
	assert.Equal(t, uint64(0), info.Nonce, "zero nonce")
	assert.Equal(t, "{}", info.Attributes, "empty attributes")
	assert.NotNil(t, info.Utxos, "utxos")
	assert.NotNil(t, info.CoinReserved, "coins")

	pool.Push(makeState(7))
	info = pool.Info()
	assert.Equal(t, uint64(7), info.Nonce, "nonce")
	assert.Equal(t, uint64(7000), info.BtcReserved, "btc reserved")
	assert.Equal(t, `{"n":1}`, info.Attributes, "attributes")

	assert.Equal(t, ledger.PoolBasic{Name: "test pool", Address: "bc1ptest"}, pool.Basic(), "basic")
}
