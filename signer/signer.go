// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signer - key derivation and signing for pool keys
//
// a pool key is identified by a derivation path of opaque byte
// strings; keys are spent through the P2TR key path
package signer

//go:generate mockgen -source=signer.go -destination=mocks/signer.go -package=mocks

import (
	"context"
)

// Signer - derive and sign with pool keys
type Signer interface {
	// x-only public key for a derivation path
	PublicKey(ctx context.Context, path [][]byte) ([]byte, error)

	// BIP340 signature of a digest with the tweaked key for a path
	Sign(ctx context.Context, digest [32]byte, path [][]byte) ([]byte, error)
}
