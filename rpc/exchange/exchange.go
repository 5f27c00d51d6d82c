// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package exchange

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/poolkeeper/counter"
	ex "github.com/bitmark-inc/poolkeeper/exchange"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/rpc/ratelimit"
)

const (
	executeTimeout = 30 * time.Second
)

// Exchange - type for RPC calls, bound to one caller
type Exchange struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Start    time.Time
	Version  string
	Chain    string
	identity string
	exchange *ex.Exchange
	counter  *counter.Counter
}

// New - service for one connection
func New(log *logger.L, identity string, e *ex.Exchange, limiter *rate.Limiter, start time.Time, version string, chain string, counter *counter.Counter) *Exchange {
	return &Exchange{
		Log:      log,
		Limiter:  limiter,
		Start:    start,
		Version:  version,
		Chain:    chain,
		identity: identity,
		exchange: e,
		counter:  counter,
	}
}

// ---

// Execute - run an intention and sign the pool inputs
func (e *Exchange) Execute(arguments *ex.ExecuteArgs, reply *ex.ExecuteReply) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), executeTimeout)
	defer cancel()

	result, err := e.exchange.Execute(ctx, e.identity, arguments)
	if nil != err {
		return err
	}
	*reply = *result
	return nil
}

// ---

// NewBlockReply - empty result
type NewBlockReply struct{}

// NewBlock - announce a block
func (e *Exchange) NewBlock(arguments *ex.NewBlockArgs, reply *NewBlockReply) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}
	return e.exchange.NewBlock(e.identity, arguments)
}

// ---

// RejectTxReply - empty result
type RejectTxReply struct{}

// RejectTx - drop an unconfirmed transaction
func (e *Exchange) RejectTx(arguments *ex.RejectTxArgs, reply *RejectTxReply) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}
	return e.exchange.RejectTx(e.identity, arguments)
}

// ---

// PoolListArguments - empty arguments
type PoolListArguments struct{}

// PoolListReply - all pools
type PoolListReply struct {
	Pools []ledger.PoolBasic `json:"pools"`
}

// PoolList - name and address of every pool
func (e *Exchange) PoolList(_ *PoolListArguments, reply *PoolListReply) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	pools, err := e.exchange.PoolList()
	if nil != err {
		return err
	}
	reply.Pools = pools
	return nil
}

// ---

// PoolInfoArguments - which pool
type PoolInfoArguments struct {
	PoolAddress string `json:"pool_address"`
}

// PoolInfoReply - nil pool if unknown
type PoolInfoReply struct {
	Pool *ledger.PoolInfo `json:"pool"`
}

// PoolInfo - metadata and current summary of a pool
func (e *Exchange) PoolInfo(arguments *PoolInfoArguments, reply *PoolInfoReply) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	info, err := e.exchange.PoolInfo(arguments.PoolAddress)
	if nil != err {
		return err
	}
	reply.Pool = info
	return nil
}

// ---

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// BlockInfo - the highest stored block
type BlockInfo struct {
	Height uint32 `json:"height"`
	Hash   string `json:"hash"`
}

// InfoReply - results from info request
type InfoReply struct {
	Chain       string     `json:"chain"`
	Version     string     `json:"version"`
	Uptime      string     `json:"uptime"`
	Identity    string     `json:"identity"`
	Connections uint64     `json:"connections"`
	Threshold   uint32     `json:"finalize_threshold"`
	Unconfirmed int        `json:"unconfirmed"`
	Block       *BlockInfo `json:"block"`
}

// Info - some information about this node
func (e *Exchange) Info(_ *InfoArguments, reply *InfoReply) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	pipeline := e.exchange.Pipeline()

	unconfirmed, err := pipeline.UnconfirmedCount()
	if nil != err {
		return err
	}

	last, found, err := pipeline.Blocks().Last(pipeline.Store())
	if nil != err {
		return err
	}
	if found {
		reply.Block = &BlockInfo{
			Height: last.Height,
			Hash:   last.Hash,
		}
	}

	reply.Chain = e.Chain
	reply.Version = e.Version
	reply.Uptime = time.Since(e.Start).String()
	reply.Identity = e.identity
	reply.Connections = e.counter.Uint64()
	reply.Threshold = pipeline.Threshold()
	reply.Unconfirmed = unconfirmed

	return nil
}
