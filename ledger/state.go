// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/poolkeeper/txid"
)

// CoinBalance - amount of one coin
type CoinBalance struct {
	ID    string `json:"id"`
	Value uint64 `json:"value"`
}

// Utxo - an output owned by a pool
type Utxo struct {
	Txid  txid.Txid     `json:"txid"`
	Vout  uint32        `json:"vout"`
	Coins []CoinBalance `json:"coins"`
	Sats  uint64        `json:"sats"`
}

// StateInfo - application supplied summary of a state version
type StateInfo struct {
	Txid         txid.Txid
	Nonce        uint64
	CoinReserved []CoinBalance
	BtcReserved  uint64
	Utxos        []Utxo
	Attributes   string
}

// State - one version of a pool's state
//
// the txid and nonce are carried by the payload itself
type State interface {
	Inspect() StateInfo
	MarshalBinary() ([]byte, error)
}

// StateDecoder - restore a state from its binary form
type StateDecoder func([]byte) (State, error)

// empty JSON object for pools without attributes
const emptyAttributes = "{}"
