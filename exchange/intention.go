// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package exchange

import (
	"github.com/bitmark-inc/poolkeeper/block"
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// InputCoin - a coin paid into the transaction
type InputCoin struct {
	From string             `json:"from"`
	Coin ledger.CoinBalance `json:"coin"`
}

// OutputCoin - a coin paid out by the transaction
type OutputCoin struct {
	To   string             `json:"to"`
	Coin ledger.CoinBalance `json:"coin"`
}

// Intention - what the initiator wants from one pool
type Intention struct {
	ExchangeID       string        `json:"exchange_id"`
	Action           string        `json:"action"`
	ActionParams     string        `json:"action_params"`
	PoolAddress      string        `json:"pool_address"`
	Nonce            uint64        `json:"nonce"`
	PoolUtxoSpent    []string      `json:"pool_utxo_spent"`
	PoolUtxoReceived []ledger.Utxo `json:"pool_utxo_received"`
	InputCoins       []InputCoin   `json:"input_coins"`
	OutputCoins      []OutputCoin  `json:"output_coins"`
}

// IntentionSet - all intentions carried by one transaction
type IntentionSet struct {
	InitiatorAddress string      `json:"initiator_address"`
	TxFeeInSats      uint64      `json:"tx_fee_in_sats"`
	Intentions       []Intention `json:"intentions"`
}

// ExecuteArgs - a request to execute one intention of a transaction
//
// Digests are the hex sighashes of the pool's inputs, computed by the
// orchestrator
type ExecuteArgs struct {
	Txid               txid.Txid    `json:"txid"`
	IntentionSet       IntentionSet `json:"intention_set"`
	IntentionIndex     uint32       `json:"intention_index"`
	UnconfirmedTxCount uint32       `json:"zero_confirmed_tx_queue_length"`
	Digests            []string     `json:"digests"`
}

// ExecuteReply - hex signatures in digest order
type ExecuteReply struct {
	Signatures []string `json:"signatures"`
}

// NewBlockArgs - a block announcement
type NewBlockArgs = block.Announcement

// RejectTxArgs - a dropped transaction
type RejectTxArgs struct {
	Txid   txid.Txid `json:"txid"`
	Reason string    `json:"reason_code"`
}

// ActionArgs - what an action sees of the request
type ActionArgs struct {
	Txid               txid.Txid
	InitiatorAddress   string
	Intention          Intention
	OtherIntentions    []Intention
	UnconfirmedTxCount int
}

// split out the selected intention
func actionArgs(arguments *ExecuteArgs) (ActionArgs, error) {
	intentions := arguments.IntentionSet.Intentions
	index := int(arguments.IntentionIndex)
	if index >= len(intentions) {
		return ActionArgs{}, fault.ErrInvalidIntention
	}

	others := make([]Intention, 0, len(intentions)-1)
	others = append(others, intentions[:index]...)
	others = append(others, intentions[index+1:]...)

	return ActionArgs{
		Txid:               arguments.Txid,
		InitiatorAddress:   arguments.IntentionSet.InitiatorAddress,
		Intention:          intentions[index],
		OtherIntentions:    others,
		UnconfirmedTxCount: int(arguments.UnconfirmedTxCount),
	}, nil
}
