// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - this is to setup and handle all of the incoming JSON RPC requests
// from the orchestrator and operators
//
// every connection is TLS with a client certificate; the SHA3-256
// fingerprint of that certificate is the caller identity and
// standard golang RPC services can be used on the client side to
// access these services
package rpc
