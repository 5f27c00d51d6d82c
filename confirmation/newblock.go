// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package confirmation

import (
	"errors"
	"fmt"

	"github.com/bitmark-inc/poolkeeper/block"
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/hook"
	"github.com/bitmark-inc/poolkeeper/metrics"
	"github.com/bitmark-inc/poolkeeper/reorg"
	"github.com/bitmark-inc/poolkeeper/storage"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// NewBlock - process a block announcement
//
// on error nothing is changed and the same announcement may be retried;
// a duplicate announcement changes nothing, including its txid list
func (p *Pipeline) NewBlock(announcement block.Announcement) error {
	p.Lock()
	defer p.Unlock()

	log := p.log

	p.dispatch.PreBlock(announcement)

	queue := &hook.Queue{}
	var result reorg.Result

	err := p.atomically(func(trx storage.Transaction) error {
		view := p.blocks.View(trx)
		result = reorg.Classify(view, announcement.Header(), p.threshold)
		if err := view.Err(); nil != err {
			return err
		}

		switch result.Kind {
		case reorg.Unrecoverable:
			return fmt.Errorf("block: %d  hash: %s: %w", announcement.Height, announcement.Hash, fault.ErrUnrecoverableReorg)

		case reorg.Duplicate:
			return nil

		case reorg.Recoverable:
			log.Warnf("reorg at block: %d  unwinding: %d..%d", announcement.Height, result.From, result.To)
			n, err := p.unwind(trx, result.From, result.To)
			if nil != err {
				return err
			}
			metrics.BlocksUnwound(n)
		}

		return p.accept(trx, announcement, queue)
	})

	if nil != err {
		metrics.BlockClassified("error")
		if fault.IsErrIntegrity(err) {
			log.Criticalf("block: %d  hash: %s  error: %s", announcement.Height, announcement.Hash, err)
		} else {
			log.Errorf("block: %d  hash: %s  error: %s", announcement.Height, announcement.Hash, err)
		}
		return err
	}

	metrics.BlockClassified(result.Kind.String())
	if reorg.Duplicate == result.Kind {
		log.Warnf("duplicate block: %d  hash: %s", announcement.Height, announcement.Hash)
	} else {
		log.Infof("block: %d  hash: %s  %s  events: %d", announcement.Height, announcement.Hash, result, queue.Len())
	}

	p.dispatch.Deliver(queue)
	p.dispatch.PostBlock(announcement)
	return nil
}

// remove blocks from high down to low, returning their confirmed
// records to unconfirmed; pool histories are left as they are
func (p *Pipeline) unwind(trx storage.Transaction, low uint32, high uint32) (int, error) {
	n := 0
	for height := int64(high); height >= int64(low); height -= 1 {
		h := uint32(height)

		b, found, err := p.blocks.Get(trx, h)
		if nil != err {
			return n, err
		}
		if found {
			for _, id := range b.Txids {
				if _, _, err := p.records.Unconfirm(trx, id); nil != err {
					return n, err
				}
			}
			p.blocks.Delete(trx, h)
			n += 1
		}
		p.blocks.DeleteGlobal(trx, h)
	}
	return n, nil
}

// confirm, record, finalize and garbage collect for a block that
// extends the stored chain
func (p *Pipeline) accept(trx storage.Transaction, announcement block.Announcement, queue *hook.Queue) error {
	header := announcement.Header()

	confirmed := make([]txid.Txid, 0, len(announcement.ConfirmedTxids))
	for _, id := range announcement.ConfirmedTxids {
		record, found, err := p.records.Confirm(trx, id, header.Height)
		if nil != err {
			return err
		}
		if !found {
			continue
		}
		confirmed = append(confirmed, id)
		for _, address := range record.Pools {
			queue.Confirmed(address, id, header)
		}
	}

	p.blocks.Put(trx, &block.Block{
		Header: header,
		Txids:  confirmed,
	})

	if nil != p.producer {
		previous, _ := p.blocks.LastGlobal(trx)
		data, err := p.producer(announcement, previous)
		if nil != err {
			return fmt.Errorf("global state: %d: %w", header.Height, err)
		}
		p.blocks.PutGlobal(trx, header.Height, data)
	}

	// the newest threshold blocks stay open to a reorg
	confirmedHeight := int64(header.Height) - int64(p.threshold)
	if confirmedHeight < 0 {
		return nil
	}

	return p.finalize(trx, uint32(confirmedHeight), queue)
}

// finalize every block at or below a height then drop those blocks and
// all but the newest global state at or below it
func (p *Pipeline) finalize(trx storage.Transaction, confirmedHeight uint32, queue *hook.Queue) error {
	blocks, err := p.blocks.List(trx)
	if nil != err {
		return err
	}

	for _, b := range blocks {
		if b.Height > confirmedHeight {
			break
		}
		for _, id := range b.Txids {
			err := p.finalizeTx(trx, id, b.Header, queue)
			if nil != err {
				return err
			}
		}
		p.blocks.Delete(trx, b.Height)
	}

	heights, err := p.blocks.GlobalHeights(trx)
	if nil != err {
		return err
	}
	for i, height := range heights {
		if height > confirmedHeight || i == len(heights)-1 {
			break
		}
		p.blocks.DeleteGlobal(trx, height)
	}
	return nil
}

func (p *Pipeline) finalizeTx(trx storage.Transaction, id txid.Txid, header block.Header, queue *hook.Queue) error {
	record, found, err := p.records.GetConfirmed(trx, id)
	if nil != err {
		return err
	}
	if !found {
		return nil
	}

	for _, address := range record.Pools {
		pool, err := p.pools.Get(trx, address)
		if errors.Is(err, fault.ErrPoolNotFound) {
			return fmt.Errorf("finalize txid: %s  pool: %q: %w", id, address, fault.ErrDataIntegrity)
		}
		if nil != err {
			return err
		}

		err = pool.Finalize(id)
		if errors.Is(err, fault.ErrTxidNotFound) {
			p.log.Warnf("finalize txid: %s  pool: %q: not in history", id, address)
			continue
		}
		if nil != err {
			return err
		}
		if err := p.pools.Insert(trx, pool); nil != err {
			return err
		}
		queue.Finalized(address, id, header)
	}

	p.records.DeleteConfirmed(trx, id)
	return nil
}
