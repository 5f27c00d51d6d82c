// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - broadcast pipeline events on ZeroMQ PUB sockets
//
// each message is two frames: the topic then a JSON body
//
//   block       - {height, hash, timestamp, confirmed_txids}
//   confirmed   - {pool, txid, height, hash, timestamp}
//   finalized   - {pool, txid, height, hash, timestamp}
//   rolledback  - {pool, txid, reason, nonces}
package publish
