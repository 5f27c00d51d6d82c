// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package confirmation - the single writer of pools, blocks and records
//
// every mutation runs under one lock inside one storage transaction;
// hook events raised during a call are delivered after it commits
package confirmation

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/poolkeeper/block"
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/hook"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/metrics"
	"github.com/bitmark-inc/poolkeeper/storage"
	"github.com/bitmark-inc/poolkeeper/txrecord"
)

// GlobalStateProducer - compute the chain wide state for a new block
//
// previous is the newest retained snapshot, nil if there is none
type GlobalStateProducer func(announcement block.Announcement, previous *block.GlobalState) ([]byte, error)

// Configuration - collaborators of the pipeline
type Configuration struct {
	Store     *storage.Store
	Ledger    *ledger.Ledger
	Threshold uint32
	Hook      hook.Hook
	Producer  GlobalStateProducer
}

// Pipeline - serialises every chain affecting mutation
type Pipeline struct {
	sync.Mutex

	log       *logger.L
	store     *storage.Store
	pools     *ledger.Ledger
	blocks    *block.Store
	records   *txrecord.Store
	threshold uint32
	producer  GlobalStateProducer
	dispatch  *hook.Dispatcher
}

// New - create a pipeline
func New(configuration Configuration) (*Pipeline, error) {
	if configuration.Threshold < 1 {
		return nil, fault.ErrInvalidThreshold
	}
	if nil == configuration.Store || nil == configuration.Ledger {
		return nil, fault.ErrMissingParameters
	}

	return &Pipeline{
		log:       logger.New("confirmation"),
		store:     configuration.Store,
		pools:     configuration.Ledger,
		blocks:    block.New(configuration.Store),
		records:   txrecord.New(configuration.Store),
		threshold: configuration.Threshold,
		producer:  configuration.Producer,
		dispatch:  hook.NewDispatcher(configuration.Hook),
	}, nil
}

// Threshold - the finalize threshold in use
func (p *Pipeline) Threshold() uint32 {
	return p.threshold
}

// Pools - the pool ledger
func (p *Pipeline) Pools() *ledger.Ledger {
	return p.pools
}

// Store - the underlying storage
func (p *Pipeline) Store() *storage.Store {
	return p.store
}

// Blocks - the block store
func (p *Pipeline) Blocks() *block.Store {
	return p.blocks
}

// Records - the transaction record store
func (p *Pipeline) Records() *txrecord.Store {
	return p.records
}

// run f inside a transaction, committing only if it succeeds
func (p *Pipeline) atomically(f func(trx storage.Transaction) error) error {
	trx, err := p.store.Begin()
	if nil != err {
		return err
	}

	err = f(trx)
	if nil != err {
		trx.Abort()
		return err
	}
	return trx.Commit()
}

// Status - sizes of the committed stores
func (p *Pipeline) Status() (metrics.Status, error) {
	status := metrics.Status{}

	pools, err := p.pools.List(p.store)
	if nil != err {
		return status, err
	}
	status.Pools = len(pools)

	unconfirmed, err := p.records.ListUnconfirmed(p.store)
	if nil != err {
		return status, err
	}
	status.Unconfirmed = len(unconfirmed)

	confirmed, err := p.records.ListConfirmed(p.store)
	if nil != err {
		return status, err
	}
	status.Confirmed = len(confirmed)

	blocks, err := p.blocks.List(p.store)
	if nil != err {
		return status, err
	}
	status.Blocks = len(blocks)
	if len(blocks) > 0 {
		status.HasBlock = true
		status.LastHeight = blocks[len(blocks)-1].Height
	}
	return status, nil
}
