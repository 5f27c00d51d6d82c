// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package exchange

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// BtcCoinID - coin id of bitcoin itself, carried by utxo sats
const BtcCoinID = "0:0"

// Action - compute the next state of a pool
//
// the returned state must carry args.Txid
type Action func(ctx context.Context, pool *ledger.Pool, args ActionArgs) (ledger.State, error)

// Actions - registry of actions by name
type Actions map[string]Action

// DefaultActions - the actions available with BasicState pools
func DefaultActions() Actions {
	return Actions{
		"swap":     Transfer,
		"deposit":  Transfer,
		"withdraw": Transfer,
	}
}

// Transfer - move utxos and coins through a BasicState pool
//
// the intention nonce must equal the pool's current nonce; spent
// utxos are removed, received utxos added, input coins credited and
// output coins debited
func Transfer(_ context.Context, pool *ledger.Pool, args ActionArgs) (ledger.State, error) {
	current := ledger.StateInfo{
		Attributes: "{}",
	}
	if last, ok := pool.LastState(); ok {
		current = last.Inspect()
	}

	intention := args.Intention
	if intention.Nonce != current.Nonce {
		return nil, fmt.Errorf("pool: %q  nonce: %d  expected: %d: %w", pool.Address, intention.Nonce, current.Nonce, fault.ErrInvalidNonce)
	}

	utxos, err := spend(current.Utxos, intention.PoolUtxoSpent)
	if nil != err {
		return nil, err
	}
	utxos = append(utxos, intention.PoolUtxoReceived...)

	coins := copyCoins(current.CoinReserved)
	for _, in := range intention.InputCoins {
		if BtcCoinID == in.Coin.ID {
			continue
		}
		coins = credit(coins, in.Coin)
	}
	for _, out := range intention.OutputCoins {
		if BtcCoinID == out.Coin.ID {
			continue
		}
		coins, err = debit(coins, out.Coin)
		if nil != err {
			return nil, err
		}
	}

	sats := uint64(0)
	for _, utxo := range utxos {
		sats += utxo.Sats
	}

	return &ledger.BasicState{
		StateInfo: ledger.StateInfo{
			Txid:         args.Txid,
			Nonce:        current.Nonce + 1,
			CoinReserved: coins,
			BtcReserved:  sats,
			Utxos:        utxos,
			Attributes:   current.Attributes,
		},
	}, nil
}

// remove outpoints "txid:vout" from a utxo set
func spend(utxos []ledger.Utxo, outpoints []string) ([]ledger.Utxo, error) {
	result := make([]ledger.Utxo, len(utxos))
	copy(result, utxos)

outpoints:
	for _, outpoint := range outpoints {
		id, vout, err := parseOutpoint(outpoint)
		if nil != err {
			return nil, err
		}
		for i, utxo := range result {
			if utxo.Txid == id && utxo.Vout == vout {
				result = append(result[:i], result[i+1:]...)
				continue outpoints
			}
		}
		return nil, fmt.Errorf("outpoint: %s: %w", outpoint, fault.ErrUtxoNotFound)
	}
	return result, nil
}

func parseOutpoint(outpoint string) (txid.Txid, uint32, error) {
	parts := strings.Split(outpoint, ":")
	if 2 != len(parts) {
		return txid.Txid{}, 0, fault.ErrInvalidOutpoint
	}
	id, err := txid.FromString(parts[0])
	if nil != err {
		return txid.Txid{}, 0, err
	}
	vout, err := strconv.ParseUint(parts[1], 10, 32)
	if nil != err {
		return txid.Txid{}, 0, fault.ErrInvalidOutpoint
	}
	return id, uint32(vout), nil
}

func copyCoins(coins []ledger.CoinBalance) []ledger.CoinBalance {
	result := make([]ledger.CoinBalance, len(coins))
	copy(result, coins)
	return result
}

func credit(coins []ledger.CoinBalance, coin ledger.CoinBalance) []ledger.CoinBalance {
	for i := range coins {
		if coins[i].ID == coin.ID {
			coins[i].Value += coin.Value
			return coins
		}
	}
	return append(coins, coin)
}

func debit(coins []ledger.CoinBalance, coin ledger.CoinBalance) ([]ledger.CoinBalance, error) {
	for i := range coins {
		if coins[i].ID == coin.ID && coins[i].Value >= coin.Value {
			coins[i].Value -= coin.Value
			return coins, nil
		}
	}
	if 0 == coin.Value {
		return coins, nil
	}
	return nil, fmt.Errorf("coin: %s  value: %d: %w", coin.ID, coin.Value, fault.ErrInsufficientFunds)
}
