// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/packing"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// BasicState - a state that is exactly its own summary
type BasicState struct {
	StateInfo
}

// Inspect - the summary
func (s *BasicState) Inspect() StateInfo {
	return s.StateInfo
}

// MarshalBinary - packed form
func (s *BasicState) MarshalBinary() ([]byte, error) {
	record := packing.Packed{}.
		AppendBytes(s.Txid.Bytes()).
		AppendUint64(s.Nonce)
	record = appendCoins(record, s.CoinReserved)
	record = record.
		AppendUint64(s.BtcReserved).
		AppendUint64(uint64(len(s.Utxos)))
	for _, utxo := range s.Utxos {
		record = record.
			AppendBytes(utxo.Txid.Bytes()).
			AppendUint64(uint64(utxo.Vout))
		record = appendCoins(record, utxo.Coins)
		record = record.AppendUint64(utxo.Sats)
	}
	return record.AppendString(s.Attributes), nil
}

// DecodeBasicState - StateDecoder for BasicState
func DecodeBasicState(data []byte) (State, error) {
	u := packing.NewUnpacker(data)
	s := &BasicState{}

	id, err := unpackTxid(u)
	if nil != err {
		return nil, err
	}
	s.Txid = id

	if s.Nonce, err = u.Uint64(); nil != err {
		return nil, err
	}
	if s.CoinReserved, err = unpackCoins(u); nil != err {
		return nil, err
	}
	if s.BtcReserved, err = u.Uint64(); nil != err {
		return nil, err
	}

	count, err := u.Uint64()
	if nil != err {
		return nil, err
	}
	if count > uint64(u.Remaining()) {
		return nil, fault.ErrRecordTruncated
	}
	s.Utxos = make([]Utxo, count)
	for i := range s.Utxos {
		utxo := &s.Utxos[i]
		if utxo.Txid, err = unpackTxid(u); nil != err {
			return nil, err
		}
		vout, err := u.Uint64()
		if nil != err {
			return nil, err
		}
		utxo.Vout = uint32(vout)
		if utxo.Coins, err = unpackCoins(u); nil != err {
			return nil, err
		}
		if utxo.Sats, err = u.Uint64(); nil != err {
			return nil, err
		}
	}

	if s.Attributes, err = u.String(); nil != err {
		return nil, err
	}
	return s, nil
}

func appendCoins(record packing.Packed, coins []CoinBalance) packing.Packed {
	record = record.AppendUint64(uint64(len(coins)))
	for _, c := range coins {
		record = record.AppendString(c.ID).AppendUint64(c.Value)
	}
	return record
}

func unpackCoins(u *packing.Unpacker) ([]CoinBalance, error) {
	count, err := u.Uint64()
	if nil != err {
		return nil, err
	}
	if count > uint64(u.Remaining()) {
		return nil, fault.ErrRecordTruncated
	}
	coins := make([]CoinBalance, count)
	for i := range coins {
		if coins[i].ID, err = u.String(); nil != err {
			return nil, err
		}
		if coins[i].Value, err = u.Uint64(); nil != err {
			return nil, err
		}
	}
	return coins, nil
}

func unpackTxid(u *packing.Unpacker) (txid.Txid, error) {
	buffer, err := u.Bytes()
	if nil != err {
		return txid.Txid{}, err
	}
	return txid.FromBytes(buffer)
}
