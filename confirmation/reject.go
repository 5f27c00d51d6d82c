// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package confirmation

import (
	"errors"
	"fmt"

	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/hook"
	"github.com/bitmark-inc/poolkeeper/metrics"
	"github.com/bitmark-inc/poolkeeper/storage"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// RejectTx - drop an unconfirmed transaction and roll back every pool
// it touched
//
// a txid that is not unconfirmed is ignored
func (p *Pipeline) RejectTx(id txid.Txid, reason string) error {
	p.Lock()
	defer p.Unlock()

	queue := &hook.Queue{}
	found := false

	err := p.atomically(func(trx storage.Transaction) error {
		record, ok, err := p.records.GetUnconfirmed(trx, id)
		if nil != err || !ok {
			return err
		}
		found = true

		for _, address := range record.Pools {
			pool, err := p.pools.Get(trx, address)
			if errors.Is(err, fault.ErrPoolNotFound) {
				return fmt.Errorf("reject txid: %s  pool: %q: %w", id, address, fault.ErrDataIntegrity)
			}
			if nil != err {
				return err
			}

			reverted, err := pool.Rollback(id)
			if errors.Is(err, fault.ErrTxidNotFound) {
				// an earlier rejection already cut it out
				p.log.Warnf("reject txid: %s  pool: %q: not in history", id, address)
				continue
			}
			if nil != err {
				return err
			}
			if err := p.pools.Insert(trx, pool); nil != err {
				return err
			}
			queue.RolledBack(address, id, reason, reverted)
		}

		p.records.DeleteUnconfirmed(trx, id)
		return nil
	})

	if nil != err {
		metrics.Rejected("error")
		if fault.IsErrIntegrity(err) {
			p.log.Criticalf("reject txid: %s  error: %s", id, err)
		} else {
			p.log.Errorf("reject txid: %s  error: %s", id, err)
		}
		return err
	}

	if !found {
		metrics.Rejected("ignored")
		p.log.Debugf("reject txid: %s  not unconfirmed", id)
		return nil
	}

	metrics.Rejected("rolled-back")
	p.log.Infof("reject txid: %s  reason: %q  events: %d", id, reason, queue.Len())
	p.dispatch.Deliver(queue)
	return nil
}
