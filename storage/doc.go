// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. height       = big endian uint32 (4 bytes)
// 4. txid         = 32 byte transaction id in internal byte order
// 5. address      = pool address as UTF-8 bytes
// 6. *others*     = byte values of various length
//
// Pools:
//
//   P ++ address               - pool metadata ++ state history
//
// Blocks:
//
//   B ++ height                - block hash ++ timestamp ++ confirmed txids
//   G ++ height                - global state snapshot for height
//
// Transactions:
//
//   U ++ txid                  - unconfirmed: list of pool addresses
//   C ++ txid                  - confirmed: height ++ list of pool addresses
//
// Testing:
//
//   Z ++ key                   - value
//
// All writes go through a Transaction which is applied atomically on
// Commit. Reads outside a transaction only ever observe committed data.
package storage
