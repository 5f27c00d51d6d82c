// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"encoding/json"

	"github.com/bitmark-inc/poolkeeper/block"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// topics
const (
	TopicBlock      = "block"
	TopicConfirmed  = "confirmed"
	TopicFinalized  = "finalized"
	TopicRolledBack = "rolledback"
)

type message struct {
	topic string
	body  []byte
}

type txMessage struct {
	Pool string    `json:"pool"`
	Txid txid.Txid `json:"txid"`
	block.Header
}

type rollbackMessage struct {
	Pool   string    `json:"pool"`
	Txid   txid.Txid `json:"txid"`
	Reason string    `json:"reason"`
	Nonces []uint64  `json:"nonces"`
}

func blockMessage(a block.Announcement) (message, error) {
	body, err := json.Marshal(a)
	return message{topic: TopicBlock, body: body}, err
}

func transactionMessage(topic string, address string, id txid.Txid, header block.Header) (message, error) {
	body, err := json.Marshal(txMessage{
		Pool:   address,
		Txid:   id,
		Header: header,
	})
	return message{topic: topic, body: body}, err
}

func rolledBackMessage(address string, id txid.Txid, reason string, reverted []ledger.State) (message, error) {
	nonces := make([]uint64, len(reverted))
	for i, s := range reverted {
		nonces[i] = s.Inspect().Nonce
	}
	body, err := json.Marshal(rollbackMessage{
		Pool:   address,
		Txid:   id,
		Reason: reason,
		Nonces: nonces,
	})
	return message{topic: TopicRolledBack, body: body}, err
}
