// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/btcsuite/btcd/chaincfg"
)

// names of all chains
const (
	Bitcoin  = "bitcoin"
	Testnet4 = "testnet4"
	Local    = "local"
)

// default number of blocks after which a block is treated as immutable
const (
	bitcoinFinalizeThreshold  = 32
	testnet4FinalizeThreshold = 64
	localFinalizeThreshold    = 3
)

// Valid - validate a chain name
func Valid(name string) bool {
	switch name {
	case Bitcoin, Testnet4, Local:
		return true
	default:
		return false
	}
}

// FinalizeThreshold - default finalize threshold of a chain
//
// returns zero for an unknown chain
func FinalizeThreshold(name string) uint32 {
	switch name {
	case Bitcoin:
		return bitcoinFinalizeThreshold
	case Testnet4:
		return testnet4FinalizeThreshold
	case Local:
		return localFinalizeThreshold
	default:
		return 0
	}
}

// Params - address and key encoding parameters of a chain
//
// testnet4 shares the "tb" address encoding with testnet3
func Params(name string) *chaincfg.Params {
	switch name {
	case Bitcoin:
		return &chaincfg.MainNetParams
	case Testnet4:
		return &chaincfg.TestNet3Params
	case Local:
		return &chaincfg.RegressionNetParams
	default:
		return nil
	}
}
