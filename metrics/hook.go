// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"github.com/bitmark-inc/poolkeeper/block"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// Hook - counts transaction lifecycle events
type Hook struct{}

func (Hook) PreBlock(block.Announcement) {}

func (Hook) TxConfirmed(string, txid.Txid, block.Header) {
	txEvent("confirmed")
}

func (Hook) TxFinalized(string, txid.Txid, block.Header) {
	txEvent("finalized")
}

func (Hook) TxRolledBack(string, txid.Txid, string, []ledger.State) {
	txEvent("rolled-back")
}

func (Hook) PostBlock(block.Announcement) {}
