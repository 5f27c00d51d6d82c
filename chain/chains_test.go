// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/poolkeeper/chain"
)

func TestChains(t *testing.T) {
	items := []struct {
		name      string
		valid     bool
		threshold uint32
		hrp       string
	}{
		{chain.Bitcoin, true, 32, "bc"},
		{chain.Testnet4, true, 64, "tb"},
		{chain.Local, true, 3, "bcrt"},
		{"bitmark", false, 0, ""},
		{"", false, 0, ""},
	}

	for _, item := range items {
		assert.Equal(t, item.valid, chain.Valid(item.name), "valid: %q", item.name)
		assert.Equal(t, item.threshold, chain.FinalizeThreshold(item.name), "threshold: %q", item.name)
		params := chain.Params(item.name)
		if item.valid {
			assert.Equal(t, item.hrp, params.Bech32HRPSegwit, "hrp: %q", item.name)
		} else {
			assert.Nil(t, params, "params: %q", item.name)
		}
	}
}
