// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - versioned pool state histories
//
// each pool holds its immutable identity and an ordered list of state
// versions; the last element is the current state
//
// versions are only ever:
//   appended   - after a successful execution
//   truncated  - rollback to before a dropped transaction
//   compacted  - finalize discards everything older than a settled version
package ledger
