// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"

	"github.com/bitmark-inc/poolkeeper/fault"
)

// HD - local signer holding a BIP32 master key
type HD struct {
	master *hdkeychain.ExtendedKey
}

// NewHD - create a signer from a seed
func NewHD(seed []byte) (*HD, error) {
	if len(seed) < hdkeychain.MinSeedBytes || len(seed) > hdkeychain.MaxSeedBytes {
		return nil, fault.ErrInvalidSeed
	}

	// network parameters only affect the serialised extended key, not derivation
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if nil != err {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HD{
		master: master,
	}, nil
}

// GenerateSeed - a fresh random seed of the recommended length
func GenerateSeed() ([]byte, error) {
	return hdkeychain.GenerateSeed(hdkeychain.RecommendedSeedLen)
}

// PublicKey - x-only internal public key for a path
func (h *HD) PublicKey(ctx context.Context, path [][]byte) ([]byte, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	privateKey, err := h.derive(path)
	if nil != err {
		return nil, err
	}
	return schnorr.SerializePubKey(privateKey.PubKey()), nil
}

// Sign - BIP340 signature with the taproot tweaked key for a path
func (h *HD) Sign(ctx context.Context, digest [32]byte, path [][]byte) ([]byte, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	privateKey, err := h.derive(path)
	if nil != err {
		return nil, err
	}

	tweaked := txscript.TweakTaprootPrivKey(*privateKey, nil)
	signature, err := schnorr.Sign(tweaked, digest[:])
	if nil != err {
		return nil, fmt.Errorf("schnorr sign: %w", err)
	}
	return signature.Serialize(), nil
}

// every path element selects one hardened child
func (h *HD) derive(path [][]byte) (*btcec.PrivateKey, error) {
	if 0 == len(path) {
		return nil, fault.ErrInvalidPath
	}

	key := h.master
	for _, element := range path {
		child, err := key.Derive(childIndex(element))
		if nil != err {
			return nil, fmt.Errorf("derive: %x: %w", element, err)
		}
		key = child
	}
	return key.ECPrivKey()
}

func childIndex(element []byte) uint32 {
	digest := chainhash.HashB(element)
	return hdkeychain.HardenedKeyStart | binary.BigEndian.Uint32(digest[:4])&0x7fffffff
}

// Address - bech32m P2TR address for an x-only internal key
func Address(publicKey []byte, params *chaincfg.Params) (string, error) {
	internal, err := schnorr.ParsePubKey(publicKey)
	if nil != err {
		return "", fmt.Errorf("parse public key: %w", err)
	}
	output := txscript.ComputeTaprootKeyNoScript(internal)
	address, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(output), params)
	if nil != err {
		return "", err
	}
	return address.EncodeAddress(), nil
}

// Verify - check a signature made by Sign against the internal key
func Verify(publicKey []byte, digest [32]byte, signature []byte) bool {
	internal, err := schnorr.ParsePubKey(publicKey)
	if nil != err {
		return false
	}
	sig, err := schnorr.ParseSignature(signature)
	if nil != err {
		return false
	}
	return sig.Verify(digest[:], txscript.ComputeTaprootKeyNoScript(internal))
}
