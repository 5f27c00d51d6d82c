// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package exchange

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/bitmark-inc/logger"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/bitmark-inc/poolkeeper/confirmation"
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/guard"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/metrics"
	"github.com/bitmark-inc/poolkeeper/signer"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// Configuration - collaborators of the exchange
type Configuration struct {
	Pipeline   *confirmation.Pipeline
	Signer     signer.Signer
	Authoriser Authoriser
	Actions    Actions
	Params     *chaincfg.Params
}

// Exchange - the exposed operations
type Exchange struct {
	log        *logger.L
	pipeline   *confirmation.Pipeline
	signer     signer.Signer
	authoriser Authoriser
	actions    Actions
	params     *chaincfg.Params
	guard      *guard.Guard
}

// New - create an exchange
func New(configuration Configuration) (*Exchange, error) {
	if nil == configuration.Pipeline || nil == configuration.Signer || nil == configuration.Authoriser || nil == configuration.Params {
		return nil, fault.ErrMissingParameters
	}

	actions := configuration.Actions
	if nil == actions {
		actions = DefaultActions()
	}

	return &Exchange{
		log:        logger.New("exchange"),
		pipeline:   configuration.Pipeline,
		signer:     configuration.Signer,
		authoriser: configuration.Authoriser,
		actions:    actions,
		params:     configuration.Params,
		guard:      guard.New(),
	}, nil
}

// Execute - run one intention's action and sign the pool inputs
//
// only one execute per pool may be in progress
func (e *Exchange) Execute(ctx context.Context, caller string, arguments *ExecuteArgs) (*ExecuteReply, error) {
	reply, err := e.execute(ctx, caller, arguments)
	if nil != err {
		metrics.Executed(executeResult(err))
		if nil == arguments {
			e.log.Warnf("execute error: %s", err)
		} else {
			e.log.Warnf("execute txid: %s  error: %s", arguments.Txid, err)
		}
		return nil, err
	}
	metrics.Executed("ok")
	return reply, nil
}

func (e *Exchange) execute(ctx context.Context, caller string, arguments *ExecuteArgs) (*ExecuteReply, error) {
	if err := e.authoriser.Authorise(caller); nil != err {
		return nil, err
	}
	if nil == arguments {
		return nil, fault.ErrMissingParameters
	}

	args, err := actionArgs(arguments)
	if nil != err {
		return nil, err
	}

	digests, err := decodeDigests(arguments.Digests)
	if nil != err {
		return nil, err
	}

	address := args.Intention.PoolAddress
	token := e.guard.Acquire(address)
	if nil == token {
		return nil, fault.ErrPoolBeingExecuted
	}
	defer token.Release()

	action, ok := e.actions[args.Intention.Action]
	if !ok {
		return nil, fmt.Errorf("action: %q: %w", args.Intention.Action, fault.ErrUnknownAction)
	}

	pool, err := e.pipeline.Pools().Get(e.pipeline.Store(), address)
	if nil != err {
		return nil, err
	}

	base := txid.Txid{}
	if last, ok := pool.LastState(); ok {
		base = last.Inspect().Txid
	}

	state, err := action(ctx, pool, args)
	if nil != err {
		return nil, err
	}
	if state.Inspect().Txid != args.Txid {
		return nil, fault.ErrTxidMismatch
	}

	signatures := make([]string, len(digests))
	for i, digest := range digests {
		signature, err := e.signer.Sign(ctx, digest, pool.KeyDerivationPath)
		if nil != err {
			return nil, fmt.Errorf("sign input: %d: %w", i, err)
		}
		signatures[i] = hex.EncodeToString(signature)
	}

	err = e.pipeline.RecordExecutionOn(address, base, state)
	if nil != err {
		return nil, err
	}

	e.log.Infof("execute txid: %s  pool: %q  action: %s  nonce: %d", args.Txid, address, args.Intention.Action, state.Inspect().Nonce)

	return &ExecuteReply{
		Signatures: signatures,
	}, nil
}

func decodeDigests(digests []string) ([][32]byte, error) {
	result := make([][32]byte, len(digests))
	for i, d := range digests {
		b, err := hex.DecodeString(d)
		if nil != err || len(b) != len(result[i]) {
			return nil, fmt.Errorf("digest: %d: %w", i, fault.ErrInvalidDigest)
		}
		copy(result[i][:], b)
	}
	return result, nil
}

func executeResult(err error) string {
	switch {
	case errors.Is(err, fault.ErrPoolBeingExecuted):
		return "busy"
	case errors.Is(err, fault.ErrNotAuthorised):
		return "denied"
	default:
		return "error"
	}
}

// NewBlock - announce a block to the pipeline
func (e *Exchange) NewBlock(caller string, arguments *NewBlockArgs) error {
	if err := e.authoriser.Authorise(caller); nil != err {
		return err
	}
	return e.pipeline.NewBlock(*arguments)
}

// RejectTx - drop an unconfirmed transaction
func (e *Exchange) RejectTx(caller string, arguments *RejectTxArgs) error {
	if err := e.authoriser.Authorise(caller); nil != err {
		return err
	}
	return e.pipeline.RejectTx(arguments.Txid, arguments.Reason)
}

// PoolList - name and address of every pool
func (e *Exchange) PoolList() ([]ledger.PoolBasic, error) {
	pools, err := e.pipeline.Pools().List(e.pipeline.Store())
	if nil != err {
		return nil, err
	}
	result := make([]ledger.PoolBasic, len(pools))
	for i, pool := range pools {
		result[i] = pool.Basic()
	}
	return result, nil
}

// PoolInfo - a pool's metadata and current summary, nil if unknown
func (e *Exchange) PoolInfo(address string) (*ledger.PoolInfo, error) {
	pool, err := e.pipeline.Pools().Get(e.pipeline.Store(), address)
	if errors.Is(err, fault.ErrPoolNotFound) {
		return nil, nil
	}
	if nil != err {
		return nil, err
	}
	info := pool.Info()
	return &info, nil
}

// RegisterPool - derive a pool identity and store the empty pool
//
// an empty path derives from the name
func (e *Exchange) RegisterPool(ctx context.Context, name string, path [][]byte) (*ledger.Pool, error) {
	if 0 == len(path) {
		path = [][]byte{[]byte(name)}
	}

	metadata, err := ledger.GenerateMetadata(ctx, e.signer, name, path, e.params)
	if nil != err {
		return nil, err
	}

	pool := ledger.NewPool(metadata)
	err = e.pipeline.RegisterPool(pool)
	if nil != err {
		return nil, err
	}
	return pool, nil
}

// Pipeline - the confirmation pipeline behind the exchange
func (e *Exchange) Pipeline() *confirmation.Pipeline {
	return e.pipeline
}
