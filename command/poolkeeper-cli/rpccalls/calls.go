// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	ex "github.com/bitmark-inc/poolkeeper/exchange"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/rpc/exchange"
)

// Info - request status from poolkeeperd
func (c *Client) Info() (*exchange.InfoReply, error) {
	var reply exchange.InfoReply
	if err := c.call("Info", &exchange.InfoArguments{}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// PoolList - name and address of every pool
func (c *Client) PoolList() ([]ledger.PoolBasic, error) {
	var reply exchange.PoolListReply
	if err := c.call("PoolList", &exchange.PoolListArguments{}, &reply); nil != err {
		return nil, err
	}
	return reply.Pools, nil
}

// PoolInfo - nil if the pool is unknown
func (c *Client) PoolInfo(address string) (*ledger.PoolInfo, error) {
	args := &exchange.PoolInfoArguments{
		PoolAddress: address,
	}
	var reply exchange.PoolInfoReply
	if err := c.call("PoolInfo", args, &reply); nil != err {
		return nil, err
	}
	return reply.Pool, nil
}

// NewBlock - announce a block, orchestrator only
func (c *Client) NewBlock(args *ex.NewBlockArgs) error {
	return c.call("NewBlock", args, &exchange.NewBlockReply{})
}

// RejectTx - drop an unconfirmed transaction, orchestrator only
func (c *Client) RejectTx(args *ex.RejectTxArgs) error {
	return c.call("RejectTx", args, &exchange.RejectTxReply{})
}

// Execute - run an intention and return the input signatures
func (c *Client) Execute(args *ex.ExecuteArgs) (*ex.ExecuteReply, error) {
	var reply ex.ExecuteReply
	if err := c.call("Execute", args, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
