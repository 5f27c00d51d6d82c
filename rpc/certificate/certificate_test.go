// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate_test

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/rpc/certificate"
	"github.com/bitmark-inc/poolkeeper/rpc/fixtures"
)

func TestGet(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	cer, key, err := fixtures.Certificate("server")
	require.NoError(t, err, "generate certificate")

	tlsConfig, fingerprint, err := certificate.Get(
		logger.New(fixtures.LogCategory),
		"test",
		cer,
		key,
	)
	require.NoError(t, err, "wrong Get")

	pair, _ := tls.X509KeyPair([]byte(cer), []byte(key))

	assert.Equal(t, sha3.Sum256(pair.Certificate[0]), fingerprint, "wrong fingerprint")
	assert.Equal(t, pair.Certificate, tlsConfig.Certificates[0].Certificate, "wrong config")
	assert.Equal(t, tls.RequireAnyClientCert, tlsConfig.ClientAuth, "client certificate required")

	_, _, err = certificate.Get(logger.New(fixtures.LogCategory), "test", cer, "junk")
	assert.Error(t, err, "bad key")
}

func TestIdentity(t *testing.T) {
	cer, key, err := fixtures.Certificate("client")
	require.NoError(t, err, "generate certificate")

	pair, err := tls.X509KeyPair([]byte(cer), []byte(key))
	require.NoError(t, err, "key pair")
	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	require.NoError(t, err, "parse")

	identity, err := certificate.Identity(tls.ConnectionState{PeerCertificates: []*x509.Certificate{leaf}})
	require.NoError(t, err, "identity")

	expected := sha3.Sum256(pair.Certificate[0])
	assert.Equal(t, hex.EncodeToString(expected[:]), identity, "identity")

	_, err = certificate.Identity(tls.ConnectionState{})
	assert.Equal(t, fault.ErrMissingCertificate, err, "no certificate")
}

func TestGenerate(t *testing.T) {
	cer, key, err := certificate.Generate("poolkeeperd", []string{"192.0.2.7", "pool.example.org"})
	require.NoError(t, err, "generate")

	pair, err := tls.X509KeyPair([]byte(cer), []byte(key))
	require.NoError(t, err, "key pair")
	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	require.NoError(t, err, "parse")

	assert.Equal(t, []string{"poolkeeper self signed cert for: poolkeeperd"}, leaf.Subject.Organization, "organisation")
	assert.Contains(t, leaf.DNSNames, "localhost", "local name")
	assert.Contains(t, leaf.DNSNames, "pool.example.org", "extra name")
	assert.True(t, leaf.NotAfter.After(time.Now().Add(365*24*time.Hour)), "long lived")
	assert.NoError(t, leaf.VerifyHostname("192.0.2.7"), "usable for its address")
	assert.NoError(t, leaf.VerifyHostname("pool.example.org"), "usable for its host")

	other, _, err := certificate.Generate("poolkeeperd", nil)
	require.NoError(t, err, "generate again")
	assert.NotEqual(t, cer, other, "each certificate is unique")
}
