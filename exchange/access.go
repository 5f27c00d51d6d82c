// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package exchange

import (
	"strings"

	"github.com/bitmark-inc/poolkeeper/fault"
)

// Authoriser - decide if a caller may mutate
type Authoriser interface {
	Authorise(caller string) error
}

// Orchestrator - only the configured orchestrator is allowed
type Orchestrator struct {
	identity string
}

// NewOrchestrator - identity is the hex certificate fingerprint
//
// an empty identity refuses every caller
func NewOrchestrator(identity string) *Orchestrator {
	return &Orchestrator{
		identity: strings.ToLower(strings.TrimSpace(identity)),
	}
}

// Authorise - check a caller identity
func (o *Orchestrator) Authorise(caller string) error {
	if "" == o.identity || strings.ToLower(caller) != o.identity {
		return fault.ErrNotAuthorised
	}
	return nil
}
