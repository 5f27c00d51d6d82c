// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/hex"

	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// Metadata - immutable identity of a pool
type Metadata struct {
	Key               []byte
	KeyDerivationPath [][]byte
	Name              string
	Address           string
}

// Pool - identity and state history
type Pool struct {
	Metadata
	States []State
}

// PoolBasic - list entry
type PoolBasic struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// PoolInfo - external projection of a pool
type PoolInfo struct {
	Key               string        `json:"key"`
	KeyDerivationPath []string      `json:"key_derivation_path"`
	Name              string        `json:"name"`
	Address           string        `json:"address"`
	Nonce             uint64        `json:"nonce"`
	CoinReserved      []CoinBalance `json:"coin_reserved"`
	BtcReserved       uint64        `json:"btc_reserved"`
	Utxos             []Utxo        `json:"utxos"`
	Attributes        string        `json:"attributes"`
}

// NewPool - a pool with an empty history
func NewPool(metadata Metadata) *Pool {
	return &Pool{
		Metadata: metadata,
		States:   []State{},
	}
}

// Push - append a new current state
func (pool *Pool) Push(state State) {
	pool.States = append(pool.States, state)
}

// LastState - the current state
func (pool *Pool) LastState() (State, bool) {
	if 0 == len(pool.States) {
		return nil, false
	}
	return pool.States[len(pool.States)-1], true
}

func (pool *Pool) index(id txid.Txid) int {
	for i, s := range pool.States {
		if s.Inspect().Txid == id {
			return i
		}
	}
	return -1
}

// Rollback - remove the version for txid and everything after it
//
// returns the removed versions most recent first
func (pool *Pool) Rollback(id txid.Txid) ([]State, error) {
	i := pool.index(id)
	if i < 0 {
		return nil, fault.ErrTxidNotFound
	}

	reverted := make([]State, 0, len(pool.States)-i)
	for j := len(pool.States) - 1; j >= i; j -= 1 {
		reverted = append(reverted, pool.States[j])
	}

	kept := make([]State, i)
	copy(kept, pool.States[:i])
	pool.States = kept

	return reverted, nil
}

// Finalize - discard every version older than the one for txid
func (pool *Pool) Finalize(id txid.Txid) error {
	i := pool.index(id)
	if i < 0 {
		return fault.ErrTxidNotFound
	}
	if 0 == i {
		return nil
	}

	kept := make([]State, len(pool.States)-i)
	copy(kept, pool.States[i:])
	pool.States = kept

	return nil
}

// Basic - name and address
func (pool *Pool) Basic() PoolBasic {
	return PoolBasic{
		Name:    pool.Name,
		Address: pool.Address,
	}
}

// Info - metadata and the summary of the current state
//
// a pool without any state reports a zero summary
func (pool *Pool) Info() PoolInfo {
	path := make([]string, len(pool.KeyDerivationPath))
	for i, p := range pool.KeyDerivationPath {
		path[i] = hex.EncodeToString(p)
	}

	info := PoolInfo{
		Key:               hex.EncodeToString(pool.Key),
		KeyDerivationPath: path,
		Name:              pool.Name,
		Address:           pool.Address,
		CoinReserved:      []CoinBalance{},
		Utxos:             []Utxo{},
		Attributes:        emptyAttributes,
	}

	state, ok := pool.LastState()
	if !ok {
		return info
	}

	summary := state.Inspect()
	info.Nonce = summary.Nonce
	info.BtcReserved = summary.BtcReserved
	if nil != summary.CoinReserved {
		info.CoinReserved = summary.CoinReserved
	}
	if nil != summary.Utxos {
		info.Utxos = summary.Utxos
	}
	if "" != summary.Attributes {
		info.Attributes = summary.Attributes
	}
	return info
}
