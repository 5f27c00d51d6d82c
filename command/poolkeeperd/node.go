// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/poolkeeper/chain"
	"github.com/bitmark-inc/poolkeeper/configuration"
	"github.com/bitmark-inc/poolkeeper/confirmation"
	"github.com/bitmark-inc/poolkeeper/exchange"
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/hook"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/signer"
	"github.com/bitmark-inc/poolkeeper/storage"
)

// the storage and everything built on it
type node struct {
	store    *storage.Store
	exchange *exchange.Exchange
}

func newNode(log *logger.L, options *configuration.Configuration, h hook.Hook) (*node, error) {
	seed, err := readSeed(options.SeedFile)
	if nil != err {
		return nil, fmt.Errorf("seed file: %q: %w", options.SeedFile, err)
	}

	hd, err := signer.NewHD(seed)
	if nil != err {
		return nil, err
	}

	log.Info("initialise storage")
	store, err := storage.Open(options.Database.Name, storage.ReadWrite)
	if nil != err {
		return nil, err
	}

	pipeline, err := confirmation.New(confirmation.Configuration{
		Store:     store,
		Ledger:    ledger.New(store, ledger.DecodeBasicState),
		Threshold: options.FinalizeThreshold,
		Hook:      h,
	})
	if nil != err {
		store.Close()
		return nil, err
	}

	e, err := exchange.New(exchange.Configuration{
		Pipeline:   pipeline,
		Signer:     hd,
		Authoriser: exchange.NewOrchestrator(options.Orchestrator),
		Params:     chain.Params(options.Chain),
	})
	if nil != err {
		store.Close()
		return nil, err
	}

	return &node{
		store:    store,
		exchange: e,
	}, nil
}

func (n *node) close() {
	n.store.Close()
}

// the seed file holds a single line of hex
func readSeed(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if nil != err {
		return nil, fault.ErrInvalidSeed
	}
	return seed, nil
}
