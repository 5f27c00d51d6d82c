// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/poolkeeper/counter"
	ex "github.com/bitmark-inc/poolkeeper/exchange"
	"github.com/bitmark-inc/poolkeeper/rpc/exchange"
)

// Factory - create the services for one caller
type Factory struct {
	Log      *logger.L
	Exchange *ex.Exchange
	Limiter  *rate.Limiter
	Version  string
	Chain    string
	Count    *counter.Counter

	start time.Time
}

// NewFactory - start time is now
func NewFactory(log *logger.L, e *ex.Exchange, limiter *rate.Limiter, version string, chain string, count *counter.Counter) *Factory {
	return &Factory{
		Log:      log,
		Exchange: e,
		Limiter:  limiter,
		Version:  version,
		Chain:    chain,
		Count:    count,
		start:    time.Now().UTC(),
	}
}

// Create - an RPC server whose services act as identity
func (f *Factory) Create(identity string) *rpc.Server {
	server := rpc.NewServer()

	_ = server.Register(exchange.New(f.Log, identity, f.Exchange, f.Limiter, f.start, f.Version, f.Chain, f.Count))

	return server
}
