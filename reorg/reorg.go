// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reorg - classify an incoming block against the stored chain
package reorg

import (
	"fmt"

	"github.com/bitmark-inc/poolkeeper/block"
)

// Kind - classification of an incoming block
type Kind int

// all kinds
const (
	NextInChain Kind = iota
	Duplicate
	Recoverable
	Unrecoverable
)

// Result - classification and, for Recoverable, the heights to unwind
type Result struct {
	Kind Kind
	From uint32
	To   uint32
}

// Chain - the stored blocks
type Chain interface {
	Last() (block.Header, bool)
	At(height uint32) (block.Header, bool)
}

// Classify - compare an incoming block with the last stored block
//
// a block at or below the last height is a reorg of depth
// last - height + 1 unless the same block is already stored there;
// a height no longer stored can never be a duplicate
func Classify(c Chain, incoming block.Header, threshold uint32) Result {
	last, ok := c.Last()
	if !ok {
		return Result{Kind: NextInChain}
	}

	if incoming.Height > last.Height {
		if incoming.Height-last.Height == 1 {
			return Result{Kind: NextInChain}
		}
		return Result{Kind: Unrecoverable}
	}

	if stored, ok := c.At(incoming.Height); ok && stored.Hash == incoming.Hash {
		return Result{Kind: Duplicate}
	}

	depth := last.Height - incoming.Height + 1
	if depth > threshold {
		return Result{Kind: Unrecoverable}
	}

	return Result{
		Kind: Recoverable,
		From: incoming.Height,
		To:   last.Height,
	}
}

func (k Kind) String() string {
	switch k {
	case NextInChain:
		return "next-in-chain"
	case Duplicate:
		return "duplicate"
	case Recoverable:
		return "recoverable"
	case Unrecoverable:
		return "unrecoverable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (r Result) String() string {
	if Recoverable == r.Kind {
		return fmt.Sprintf("%s[%d..%d]", r.Kind, r.From, r.To)
	}
	return r.Kind.String()
}
