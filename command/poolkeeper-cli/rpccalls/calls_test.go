// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls_test

import (
	"bytes"
	"crypto/tls"
	"net/rpc"
	"os"
	"sync"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/poolkeeper/command/poolkeeper-cli/rpccalls"
	"github.com/bitmark-inc/poolkeeper/counter"
	ex "github.com/bitmark-inc/poolkeeper/exchange"
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/rpc/certificate"
	"github.com/bitmark-inc/poolkeeper/rpc/exchange"
	"github.com/bitmark-inc/poolkeeper/rpc/fixtures"
	"github.com/bitmark-inc/poolkeeper/rpc/listeners"
	"github.com/bitmark-inc/poolkeeper/txid"
)

// records the calls made through the client
type fakeExchange struct {
	sync.Mutex
	identity string
	blocks   []ex.NewBlockArgs
	rejects  []ex.RejectTxArgs
}

func (f *fakeExchange) Info(_ *exchange.InfoArguments, reply *exchange.InfoReply) error {
	reply.Chain = "local"
	reply.Identity = f.identity
	reply.Threshold = 3
	return nil
}

func (f *fakeExchange) PoolList(_ *exchange.PoolListArguments, reply *exchange.PoolListReply) error {
	reply.Pools = []ledger.PoolBasic{{Name: "one", Address: "bcrt1pone"}}
	return nil
}

func (f *fakeExchange) PoolInfo(arguments *exchange.PoolInfoArguments, reply *exchange.PoolInfoReply) error {
	if "bcrt1pone" == arguments.PoolAddress {
		reply.Pool = &ledger.PoolInfo{Name: "one", Address: arguments.PoolAddress, Nonce: 7}
	}
	return nil
}

func (f *fakeExchange) NewBlock(arguments *ex.NewBlockArgs, _ *exchange.NewBlockReply) error {
	f.Lock()
	defer f.Unlock()
	f.blocks = append(f.blocks, *arguments)
	return nil
}

func (f *fakeExchange) RejectTx(arguments *ex.RejectTxArgs, _ *exchange.RejectTxReply) error {
	f.Lock()
	defer f.Unlock()
	f.rejects = append(f.rejects, *arguments)
	return nil
}

func (f *fakeExchange) Execute(arguments *ex.ExecuteArgs, reply *ex.ExecuteReply) error {
	if 0 == len(arguments.Digests) {
		return fault.ErrInvalidDigest
	}
	reply.Signatures = append([]string{}, arguments.Digests...)
	return nil
}

type factory struct {
	exchange *fakeExchange
}

func (f factory) Create(identity string) *rpc.Server {
	f.exchange.identity = identity
	s := rpc.NewServer()
	_ = s.RegisterName("Exchange", f.exchange)
	return s
}

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func setupClient(t *testing.T, verbose bool, handle *bytes.Buffer) (*rpccalls.Client, *fakeExchange, tls.Certificate) {
	cer, key, err := fixtures.Certificate("server")
	require.NoError(t, err, "server certificate")
	log := logger.New(fixtures.LogCategory)
	tlsConfig, fin, err := certificate.Get(log, "test", cer, key)
	require.NoError(t, err, "tls configuration")

	fake := &fakeExchange{}
	l, err := listeners.NewRPC(&listeners.RPCConfiguration{
		MaximumConnections: 2,
		Listen:             []string{"127.0.0.1:0"},
	}, log, new(counter.Counter), factory{exchange: fake}, tlsConfig, fin)
	require.NoError(t, err, "listener")
	require.NoError(t, l.Serve(), "serve")
	t.Cleanup(l.Close)

	cer, key, err = fixtures.Certificate("client")
	require.NoError(t, err, "client certificate")
	pair, err := tls.X509KeyPair([]byte(cer), []byte(key))
	require.NoError(t, err, "client key pair")

	client, err := rpccalls.NewClient(l.Addresses()[0].String(), pair, verbose, handle)
	require.NoError(t, err, "new client")
	t.Cleanup(func() { _ = client.Close() })

	return client, fake, pair
}

func TestQueries(t *testing.T) {
	client, _, pair := setupClient(t, false, nil)

	info, err := client.Info()
	require.NoError(t, err, "info")
	fin := certificate.Fingerprint(pair.Certificate[0])
	assert.Equal(t, "local", info.Chain, "chain")
	assert.Equal(t, uint32(3), info.Threshold, "threshold")
	assert.Equal(t, len(fin)*2, len(info.Identity), "hex fingerprint")

	pools, err := client.PoolList()
	require.NoError(t, err, "pool list")
	assert.Equal(t, []ledger.PoolBasic{{Name: "one", Address: "bcrt1pone"}}, pools, "pools")

	pool, err := client.PoolInfo("bcrt1pone")
	require.NoError(t, err, "pool info")
	require.NotNil(t, pool, "found")
	assert.Equal(t, uint64(7), pool.Nonce, "nonce")

	pool, err = client.PoolInfo("bcrt1pnone")
	require.NoError(t, err, "unknown pool")
	assert.Nil(t, pool, "not found")
}

func TestChainCalls(t *testing.T) {
	handle := &bytes.Buffer{}
	client, fake, _ := setupClient(t, true, handle)

	id := txid.Txid{0x01, 0x02}
	err := client.NewBlock(&ex.NewBlockArgs{Height: 10, Hash: "00ff", ConfirmedTxids: []txid.Txid{id}})
	require.NoError(t, err, "new block")

	err = client.RejectTx(&ex.RejectTxArgs{Txid: id, Reason: "double spend"})
	require.NoError(t, err, "reject")

	fake.Lock()
	require.Len(t, fake.blocks, 1, "one block")
	assert.Equal(t, uint32(10), fake.blocks[0].Height, "height")
	assert.Equal(t, []txid.Txid{id}, fake.blocks[0].ConfirmedTxids, "txids")
	require.Len(t, fake.rejects, 1, "one reject")
	assert.Equal(t, "double spend", fake.rejects[0].Reason, "reason")
	fake.Unlock()

	reply, err := client.Execute(&ex.ExecuteArgs{Txid: id, Digests: []string{"aa", "bb"}})
	require.NoError(t, err, "execute")
	assert.Equal(t, []string{"aa", "bb"}, reply.Signatures, "signatures")

	_, err = client.Execute(&ex.ExecuteArgs{Txid: id})
	require.Error(t, err, "no digests")
	assert.Equal(t, fault.ErrInvalidDigest.Error(), err.Error(), "server error text")

	assert.Contains(t, handle.String(), "NewBlock Request:", "verbose output")
	assert.Contains(t, handle.String(), "Execute Reply:", "verbose output")
	assert.Contains(t, handle.String(), "Execute Error:", "verbose error output")
}
