// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hook - application observers of the confirmation pipeline
//
// hooks are called synchronously; a hook must not call back into the
// pipeline and anything it panics with is logged and discarded
package hook

//go:generate mockgen -source=hook.go -destination=mocks/hook.go -package=mocks

import (
	"github.com/bitmark-inc/poolkeeper/block"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// Hook - the observer points of the pipeline
type Hook interface {
	// before a block announcement is classified
	PreBlock(announcement block.Announcement)

	// once per pool when a transaction is included in a block
	TxConfirmed(address string, id txid.Txid, header block.Header)

	// once per pool when a transaction's block passes the finalize threshold
	TxFinalized(address string, id txid.Txid, header block.Header)

	// once per pool when an unconfirmed transaction is dropped
	TxRolledBack(address string, id txid.Txid, reason string, reverted []ledger.State)

	// after a block announcement has been handled
	PostBlock(announcement block.Announcement)
}

// Nop - hook that does nothing
type Nop struct{}

func (Nop) PreBlock(block.Announcement) {}
func (Nop) TxConfirmed(string, txid.Txid, block.Header) {}
func (Nop) TxFinalized(string, txid.Txid, block.Header) {}
func (Nop) TxRolledBack(string, txid.Txid, string, []ledger.State) {}
func (Nop) PostBlock(block.Announcement) {}

// Multi - call several hooks in order
type Multi []Hook

func (m Multi) PreBlock(a block.Announcement) {
	for _, h := range m {
		h.PreBlock(a)
	}
}

func (m Multi) TxConfirmed(address string, id txid.Txid, header block.Header) {
	for _, h := range m {
		h.TxConfirmed(address, id, header)
	}
}

func (m Multi) TxFinalized(address string, id txid.Txid, header block.Header) {
	for _, h := range m {
		h.TxFinalized(address, id, header)
	}
}

func (m Multi) TxRolledBack(address string, id txid.Txid, reason string, reverted []ledger.State) {
	for _, h := range m {
		h.TxRolledBack(address, id, reason, reverted)
	}
}

func (m Multi) PostBlock(a block.Announcement) {
	for _, h := range m {
		h.PostBlock(a)
	}
}
