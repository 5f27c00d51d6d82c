// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package confirmation

import (
	"fmt"

	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/storage"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// RecordExecution - append a pool's new state and mark its txid unconfirmed
func (p *Pipeline) RecordExecution(address string, state ledger.State) error {
	return p.record(address, state, nil)
}

// RecordExecutionOn - RecordExecution only while the pool's current
// state is still the one with txid base
//
// a zero base means the pool had no state
func (p *Pipeline) RecordExecutionOn(address string, base txid.Txid, state ledger.State) error {
	return p.record(address, state, &base)
}

func (p *Pipeline) record(address string, state ledger.State, base *txid.Txid) error {
	p.Lock()
	defer p.Unlock()

	id := state.Inspect().Txid

	err := p.atomically(func(trx storage.Transaction) error {
		pool, err := p.pools.Get(trx, address)
		if nil != err {
			return err
		}

		if nil != base {
			current := txid.Txid{}
			if last, ok := pool.LastState(); ok {
				current = last.Inspect().Txid
			}
			if current != *base {
				return fmt.Errorf("pool: %q  base: %s  current: %s: %w", address, *base, current, fault.ErrStateChanged)
			}
		}

		for _, s := range pool.States {
			if s.Inspect().Txid == id {
				return fmt.Errorf("pool: %q  txid: %s: %w", address, id, fault.ErrDuplicateTxid)
			}
		}

		// a record lives in exactly one of U and C
		_, confirmed, err := p.records.GetConfirmed(trx, id)
		if nil != err {
			return err
		}
		if confirmed {
			return fmt.Errorf("pool: %q  txid: %s confirmed: %w", address, id, fault.ErrDuplicateTxid)
		}

		pool.Push(state)
		if err := p.pools.Insert(trx, pool); nil != err {
			return err
		}
		return p.records.AddPool(trx, id, address)
	})
	if nil != err {
		p.log.Warnf("record execution pool: %q  txid: %s  error: %s", address, id, err)
		return err
	}

	p.log.Debugf("record execution pool: %q  txid: %s", address, id)
	return nil
}

// RegisterPool - store a new pool
func (p *Pipeline) RegisterPool(pool *ledger.Pool) error {
	if nil == pool || "" == pool.Address {
		return fault.ErrMissingParameters
	}

	p.Lock()
	defer p.Unlock()

	err := p.atomically(func(trx storage.Transaction) error {
		if p.pools.Has(trx, pool.Address) {
			return fault.ErrPoolExists
		}
		return p.pools.Insert(trx, pool)
	})
	if nil != err {
		return err
	}

	p.log.Infof("registered pool: %q  address: %s", pool.Name, pool.Address)
	return nil
}

// UnconfirmedCount - number of transactions awaiting a block
func (p *Pipeline) UnconfirmedCount() (int, error) {
	return p.records.CountUnconfirmed(p.store)
}
