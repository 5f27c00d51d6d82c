// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hook

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/poolkeeper/block"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/metrics"
	"github.com/bitmark-inc/poolkeeper/txid"
)

type eventKind int

const (
	confirmedEvent eventKind = iota
	finalizedEvent
	rolledBackEvent
)

type event struct {
	kind     eventKind
	address  string
	txid     txid.Txid
	header   block.Header
	reason   string
	reverted []ledger.State
}

// Queue - events raised inside a storage transaction
//
// they are only delivered once the transaction has committed
type Queue struct {
	events []event
}

// Confirmed - queue a confirmation
func (q *Queue) Confirmed(address string, id txid.Txid, header block.Header) {
	q.events = append(q.events, event{kind: confirmedEvent, address: address, txid: id, header: header})
}

// Finalized - queue a finalization
func (q *Queue) Finalized(address string, id txid.Txid, header block.Header) {
	q.events = append(q.events, event{kind: finalizedEvent, address: address, txid: id, header: header})
}

// RolledBack - queue a rollback
func (q *Queue) RolledBack(address string, id txid.Txid, reason string, reverted []ledger.State) {
	q.events = append(q.events, event{kind: rolledBackEvent, address: address, txid: id, reason: reason, reverted: reverted})
}

// Len - number of queued events
func (q *Queue) Len() int {
	return len(q.events)
}

// Dispatcher - panic safe delivery to a hook
type Dispatcher struct {
	hook Hook
	log  *logger.L
}

// NewDispatcher - deliver to a hook, Nop if nil
func NewDispatcher(h Hook) *Dispatcher {
	if nil == h {
		h = Nop{}
	}
	return &Dispatcher{
		hook: h,
		log:  logger.New("hook"),
	}
}

// PreBlock - deliver the pre block call
func (d *Dispatcher) PreBlock(a block.Announcement) {
	d.safely("pre block", func() { d.hook.PreBlock(a) })
}

// PostBlock - deliver the post block call
func (d *Dispatcher) PostBlock(a block.Announcement) {
	d.safely("post block", func() { d.hook.PostBlock(a) })
}

// Deliver - deliver queued events in the order they were raised
func (d *Dispatcher) Deliver(q *Queue) {
	for _, e := range q.events {
		e := e
		switch e.kind {
		case confirmedEvent:
			d.safely("tx confirmed", func() { d.hook.TxConfirmed(e.address, e.txid, e.header) })
		case finalizedEvent:
			d.safely("tx finalized", func() { d.hook.TxFinalized(e.address, e.txid, e.header) })
		case rolledBackEvent:
			d.safely("tx rolled back", func() { d.hook.TxRolledBack(e.address, e.txid, e.reason, e.reverted) })
		}
	}
	q.events = nil
}

func (d *Dispatcher) safely(name string, f func()) {
	defer func() {
		if r := recover(); nil != r {
			d.log.Errorf("%s hook panic: %v", name, r)
			metrics.HookPanic()
		}
	}()
	f()
}
