// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/signer"
)

// GenerateMetadata - derive the identity of a new pool
func GenerateMetadata(ctx context.Context, s signer.Signer, name string, path [][]byte, params *chaincfg.Params) (Metadata, error) {
	if "" == name {
		return Metadata{}, fault.ErrInvalidPoolName
	}

	key, err := s.PublicKey(ctx, path)
	if nil != err {
		return Metadata{}, fmt.Errorf("pool: %q: %w", name, err)
	}

	address, err := signer.Address(key, params)
	if nil != err {
		return Metadata{}, fmt.Errorf("pool: %q: %w", name, err)
	}

	return Metadata{
		Key:               key,
		KeyDerivationPath: path,
		Name:              name,
		Address:           address,
	}, nil
}
