// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate

import (
	"crypto/tls"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/poolkeeper/fault"
)

// Get - verify that a set of listener parameters are valid
// and return the server configuration
//
// clients must present a certificate, it is not verified against any
// authority: its fingerprint is the caller identity
func Get(log *logger.L, name, certificate, key string) (*tls.Config, [32]byte, error) {
	var fin [32]byte

	keyPair, err := tls.X509KeyPair([]byte(certificate), []byte(key))
	if err != nil {
		log.Errorf("%s failed to load keypair: %v", name, err)
		return nil, fin, err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
		ClientAuth: tls.RequireAnyClientCert,
		MinVersion: tls.VersionTLS12,
	}

	fin = Fingerprint(keyPair.Certificate[0])

	return tlsConfiguration, fin, nil
}

// Fingerprint - compute the fingerprint of a DER certificate
//
// FreeBSD: openssl x509 -outform DER -in poolkeeper-local-rpc.crt | sha3sum -a 256
func Fingerprint(certificate []byte) [32]byte {
	return sha3.Sum256(certificate)
}

// Identity - hex fingerprint of the peer's leaf certificate
func Identity(state tls.ConnectionState) (string, error) {
	if 0 == len(state.PeerCertificates) {
		return "", fault.ErrMissingCertificate
	}
	fin := Fingerprint(state.PeerCertificates[0].Raw)
	return hex.EncodeToString(fin[:]), nil
}
