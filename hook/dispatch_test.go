// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hook_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/poolkeeper/block"
	"github.com/bitmark-inc/poolkeeper/hook"
	"github.com/bitmark-inc/poolkeeper/hook/mocks"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/txid"
)

const (
	testingDirName = "testing"
)

func TestMain(m *testing.M) {
	os.RemoveAll(testingDirName)
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

func TestDeliverInOrder(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	h := mocks.NewMockHook(ctl)
	header := block.Header{Height: 100, Hash: "h100"}
	reverted := []ledger.State{&ledger.BasicState{}}

	gomock.InOrder(
		h.EXPECT().TxConfirmed("pool-a", txid.Txid{1}, header),
		h.EXPECT().TxFinalized("pool-b", txid.Txid{2}, header),
		h.EXPECT().TxRolledBack("pool-c", txid.Txid{3}, "dropped", reverted),
	)

	q := &hook.Queue{}
	q.Confirmed("pool-a", txid.Txid{1}, header)
	q.Finalized("pool-b", txid.Txid{2}, header)
	q.RolledBack("pool-c", txid.Txid{3}, "dropped", reverted)
	assert.Equal(t, 3, q.Len(), "queued")

	d := hook.NewDispatcher(h)
	d.Deliver(q)
	assert.Equal(t, 0, q.Len(), "queue drained")
}

func TestPanicIsContained(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	h := mocks.NewMockHook(ctl)
	a := block.Announcement{Height: 5, Hash: "h5"}

	h.EXPECT().PreBlock(a).Do(func(block.Announcement) { panic("pre block failure") })
	h.EXPECT().TxConfirmed("pool-a", txid.Txid{1}, a.Header()).Do(func(string, txid.Txid, block.Header) { panic("confirm failure") })
	h.EXPECT().TxConfirmed("pool-b", txid.Txid{1}, a.Header())
	h.EXPECT().PostBlock(a)

	d := hook.NewDispatcher(h)
	assert.NotPanics(t, func() {
		d.PreBlock(a)
		q := &hook.Queue{}
		q.Confirmed("pool-a", txid.Txid{1}, a.Header())
		q.Confirmed("pool-b", txid.Txid{1}, a.Header())
		d.Deliver(q)
		d.PostBlock(a)
	}, "dispatcher")
}

func TestMulti(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	first := mocks.NewMockHook(ctl)
	second := mocks.NewMockHook(ctl)
	a := block.Announcement{Height: 1}

	gomock.InOrder(
		first.EXPECT().PostBlock(a),
		second.EXPECT().PostBlock(a),
	)
	hook.Multi{first, hook.Nop{}, second}.PostBlock(a)
}

func TestNilHookIsNop(t *testing.T) {
	d := hook.NewDispatcher(nil)
	assert.NotPanics(t, func() {
		d.PreBlock(block.Announcement{})
		q := &hook.Queue{}
		q.Finalized("pool", txid.Txid{}, block.Header{})
		d.Deliver(q)
	}, "nil hook")
}
