// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package block - records of recently announced blocks
//
// only blocks that can still be reorganised away are kept; once a block
// is older than the finalize threshold it is garbage collected together
// with its global state snapshot, except for the newest snapshot
package block
