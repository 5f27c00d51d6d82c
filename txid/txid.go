// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txid - 32 byte chain transaction identifier
//
// bytes are held in internal order, which is also the storage key
// order; the text form is byte reversed hex as shown by block explorers
package txid

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bitmark-inc/poolkeeper/fault"
)

// Size - number of bytes in a txid
const Size = chainhash.HashSize

// Txid - a transaction id
type Txid [Size]byte

// FromBytes - convert internal order bytes to a txid
func FromBytes(buffer []byte) (Txid, error) {
	t := Txid{}
	if Size != len(buffer) {
		return t, fault.ErrInvalidTxid
	}
	copy(t[:], buffer)
	return t, nil
}

// FromString - convert byte reversed hex to a txid
func FromString(s string) (Txid, error) {
	if 2*Size != len(s) {
		return Txid{}, fault.ErrInvalidTxid
	}
	h, err := chainhash.NewHashFromStr(s)
	if nil != err {
		return Txid{}, fault.ErrInvalidTxid
	}
	return Txid(*h), nil
}

// Bytes - internal order bytes
func (t Txid) Bytes() []byte {
	return t[:]
}

// String - byte reversed hex
func (t Txid) String() string {
	return chainhash.Hash(t).String()
}

// IsZero - true for the all zero txid
func (t Txid) IsZero() bool {
	return t == Txid{}
}

// Compare - storage order comparison
func (t Txid) Compare(other Txid) int {
	return bytes.Compare(t[:], other[:])
}

// MarshalText - convert to text for JSON
func (t Txid) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText - convert from JSON text
func (t *Txid) UnmarshalText(s []byte) error {
	v, err := FromString(string(s))
	if nil != err {
		return err
	}
	*t = v
	return nil
}
