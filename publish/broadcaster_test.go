// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/poolkeeper/background"
	"github.com/bitmark-inc/poolkeeper/block"
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/hook"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/txid"
)

const (
	testingDirName = "testing"
	timeout        = 2 * time.Second
	tick           = 10 * time.Millisecond
)

func TestMain(m *testing.M) {
	_ = os.Mkdir(testingDirName, 0700)
	_ = logger.Initialise(logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
	rc := m.Run()
	logger.Finalise()
	os.RemoveAll(testingDirName)
	os.Exit(rc)
}

func TestCanonical(t *testing.T) {
	items := []struct {
		address string
		bindTo  string
		v6      bool
		err     error
	}{
		{"127.0.0.1:2130", "tcp://127.0.0.1:2130", false, nil},
		{"*:2130", "tcp://*:2130", false, nil},
		{"[::1]:2130", "tcp://[::1]:2130", true, nil},
		{"localhost:2130", "", false, fault.ErrInvalidIPAddress},
		{"2130", "", false, fault.ErrInvalidIPAddress},
	}

	for i, item := range items {
		bindTo, v6, err := canonical(item.address)
		assert.Equal(t, item.err, err, "%d: error", i)
		assert.Equal(t, item.bindTo, bindTo, "%d: bind to", i)
		assert.Equal(t, item.v6, v6, "%d: v6", i)
	}
}

func TestEventsAreQueued(t *testing.T) {
	brdc, err := New(&Configuration{})
	require.NoError(t, err, "new broadcaster")

	var h hook.Hook = brdc
	header := block.Header{Height: 100, Hash: "h100", Timestamp: 1700000000}

	h.PreBlock(block.Announcement{Height: 100})
	h.TxConfirmed("bc1ppool", txid.Txid{1}, header)
	h.TxFinalized("bc1ppool", txid.Txid{1}, header)
	h.TxRolledBack("bc1ppool", txid.Txid{2}, "dropped", []ledger.State{
		&ledger.BasicState{StateInfo: ledger.StateInfo{Nonce: 3}},
		&ledger.BasicState{StateInfo: ledger.StateInfo{Nonce: 2}},
	})
	h.PostBlock(block.Announcement{Height: 100, Hash: "h100"})

	require.Len(t, brdc.queue, 4, "queued")

	m := <-brdc.queue
	assert.Equal(t, TopicConfirmed, m.topic, "topic")
	tx := txMessage{}
	require.NoError(t, json.Unmarshal(m.body, &tx), "decode")
	assert.Equal(t, "bc1ppool", tx.Pool, "pool")
	assert.Equal(t, txid.Txid{1}, tx.Txid, "txid")
	assert.Equal(t, header, tx.Header, "header")

	m = <-brdc.queue
	assert.Equal(t, TopicFinalized, m.topic, "topic")

	m = <-brdc.queue
	assert.Equal(t, TopicRolledBack, m.topic, "topic")
	rollback := rollbackMessage{}
	require.NoError(t, json.Unmarshal(m.body, &rollback), "decode")
	assert.Equal(t, []uint64{3, 2}, rollback.Nonces, "nonces")
	assert.Equal(t, "dropped", rollback.Reason, "reason")

	m = <-brdc.queue
	assert.Equal(t, TopicBlock, m.topic, "topic")
	a := block.Announcement{}
	require.NoError(t, json.Unmarshal(m.body, &a), "decode")
	assert.Equal(t, uint32(100), a.Height, "height")
}

func TestFullQueueDrops(t *testing.T) {
	brdc, err := New(&Configuration{QueueSize: 1})
	require.NoError(t, err, "new broadcaster")

	brdc.PostBlock(block.Announcement{Height: 1})
	brdc.PostBlock(block.Announcement{Height: 2})
	assert.Len(t, brdc.queue, 1, "second event dropped")
}

func TestRunDrainsQueue(t *testing.T) {
	brdc, err := New(&Configuration{})
	require.NoError(t, err, "new broadcaster")

	brdc.PostBlock(block.Announcement{Height: 1})

	processes := background.Start(background.Processes{brdc}, nil)
	assert.Eventually(t, func() bool { return 0 == len(brdc.queue) }, timeout, tick, "queue drained")
	processes.Stop()
}
