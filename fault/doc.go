// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.
//
// Errors returned by the ledger may be wrapped with extra context
// using fmt.Errorf("...: %w", err), so always compare with errors.Is
// or use one of the IsErrXXX class functions which unwrap.
package fault
