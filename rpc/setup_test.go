// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc_test

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/hex"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/poolkeeper/confirmation"
	ex "github.com/bitmark-inc/poolkeeper/exchange"
	"github.com/bitmark-inc/poolkeeper/ledger"
	poolrpc "github.com/bitmark-inc/poolkeeper/rpc"
	"github.com/bitmark-inc/poolkeeper/rpc/certificate"
	"github.com/bitmark-inc/poolkeeper/rpc/exchange"
	"github.com/bitmark-inc/poolkeeper/rpc/fixtures"
	"github.com/bitmark-inc/poolkeeper/signer"
	"github.com/bitmark-inc/poolkeeper/storage"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

type client struct {
	*rpc.Client
	identity string
}

func newClient(t *testing.T) *tls.Certificate {
	cer, key, err := fixtures.Certificate("client")
	require.NoError(t, err, "client certificate")
	pair, err := tls.X509KeyPair([]byte(cer), []byte(key))
	require.NoError(t, err, "client key pair")
	return &pair
}

func connect(t *testing.T, s *poolrpc.Server, pair *tls.Certificate) *client {
	conn, err := tls.Dial("tcp", s.Listener().Addresses()[0].String(), &tls.Config{
		InsecureSkipVerify: true,
		Certificates:       []tls.Certificate{*pair},
	})
	require.NoError(t, err, "dial")

	c := jsonrpc.NewClient(conn)
	t.Cleanup(func() { c.Close() })

	fin := certificate.Fingerprint(pair.Certificate[0])
	return &client{
		Client:   c,
		identity: hex.EncodeToString(fin[:]),
	}
}

// a running server whose orchestrator holds the returned certificate
func setupServer(t *testing.T) (*poolrpc.Server, *tls.Certificate, *ledger.Pool) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "rpc.leveldb"), storage.ReadWrite)
	require.NoError(t, err, "open storage")
	t.Cleanup(store.Close)

	pipeline, err := confirmation.New(confirmation.Configuration{
		Store:     store,
		Ledger:    ledger.New(store, ledger.DecodeBasicState),
		Threshold: 2,
	})
	require.NoError(t, err, "new pipeline")

	hd, err := signer.NewHD(bytes.Repeat([]byte{0x44}, 32))
	require.NoError(t, err, "new signer")

	orchestrator := newClient(t)
	fin := certificate.Fingerprint(orchestrator.Certificate[0])

	e, err := ex.New(ex.Configuration{
		Pipeline:   pipeline,
		Signer:     hd,
		Authoriser: ex.NewOrchestrator(hex.EncodeToString(fin[:])),
		Params:     &chaincfg.RegressionNetParams,
	})
	require.NoError(t, err, "new exchange")

	pool, err := e.RegisterPool(context.Background(), "pool-one", nil)
	require.NoError(t, err, "register pool")

	cer, key, err := fixtures.Certificate("server")
	require.NoError(t, err, "server certificate")

	s, err := poolrpc.New(&poolrpc.Configuration{
		MaximumConnections: 10,
		Listen:             []string{"127.0.0.1:0"},
		Certificate:        cer,
		PrivateKey:         key,
	}, e, "0.1.0", "regtest")
	require.NoError(t, err, "new server")

	require.NoError(t, s.Start(), "start")
	t.Cleanup(s.Stop)

	return s, orchestrator, pool
}

func TestServerQueries(t *testing.T) {
	s, _, pool := setupServer(t)

	// queries are open to any client with a certificate
	c := connect(t, s, newClient(t))

	var list exchange.PoolListReply
	err := c.Call("Exchange.PoolList", &exchange.PoolListArguments{}, &list)
	require.NoError(t, err, "pool list")
	assert.Equal(t, []ledger.PoolBasic{{Name: "pool-one", Address: pool.Address}}, list.Pools, "pools")

	var info exchange.PoolInfoReply
	err = c.Call("Exchange.PoolInfo", &exchange.PoolInfoArguments{PoolAddress: pool.Address}, &info)
	require.NoError(t, err, "pool info")
	require.NotNil(t, info.Pool, "pool found")
	assert.Equal(t, "pool-one", info.Pool.Name, "name")
	assert.Equal(t, uint64(0), info.Pool.Nonce, "nonce")

	info = exchange.PoolInfoReply{}
	err = c.Call("Exchange.PoolInfo", &exchange.PoolInfoArguments{PoolAddress: "bcrt1unknown"}, &info)
	require.NoError(t, err, "unknown pool")
	assert.Nil(t, info.Pool, "no pool")

	var reply exchange.InfoReply
	err = c.Call("Exchange.Info", &exchange.InfoArguments{}, &reply)
	require.NoError(t, err, "info")
	assert.Equal(t, "regtest", reply.Chain, "chain")
	assert.Equal(t, "0.1.0", reply.Version, "version")
	assert.Equal(t, c.identity, reply.Identity, "identity")
	assert.Equal(t, uint32(2), reply.Threshold, "threshold")
	assert.Equal(t, uint64(1), reply.Connections, "connections")
	assert.Nil(t, reply.Block, "no blocks yet")
}

func TestServerOrchestratorOnly(t *testing.T) {
	s, orchestrator, _ := setupServer(t)

	announcement := &ex.NewBlockArgs{
		Height: 100,
		Hash:   "00aa",
	}

	stranger := connect(t, s, newClient(t))
	err := stranger.Call("Exchange.NewBlock", announcement, &exchange.NewBlockReply{})
	assert.Error(t, err, "stranger cannot announce blocks")

	owner := connect(t, s, orchestrator)
	err = owner.Call("Exchange.NewBlock", announcement, &exchange.NewBlockReply{})
	require.NoError(t, err, "orchestrator announces a block")

	var reply exchange.InfoReply
	err = stranger.Call("Exchange.Info", &exchange.InfoArguments{}, &reply)
	require.NoError(t, err, "info")
	require.NotNil(t, reply.Block, "block stored")
	assert.Equal(t, uint32(100), reply.Block.Height, "height")
	assert.Equal(t, "00aa", reply.Block.Hash, "hash")
	assert.Equal(t, uint64(2), reply.Connections, "connections")
}
