// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package exchange - the operations offered to the orchestrator
//
// execute proposes one new state for one pool and signs the pool's
// inputs; new block and reject are passed to the confirmation
// pipeline after an access check; pool list and pool info are open
// to everyone
package exchange
