// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type IntegrityError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised   = ExistsError("already initialised")
	ErrDataIntegrity        = IntegrityError("data integrity error")
	ErrDatabaseVersion      = InvalidError("database version is newer than this program")
	ErrDuplicateTxid        = ExistsError("txid already in pool history")
	ErrInsufficientFunds    = InvalidError("insufficient pool funds")
	ErrInvalidChain         = InvalidError("invalid chain")
	ErrInvalidCount         = InvalidError("invalid count")
	ErrInvalidCursor        = InvalidError("invalid cursor")
	ErrInvalidDigest        = InvalidError("invalid digest")
	ErrInvalidIntention     = InvalidError("invalid intention")
	ErrInvalidIPAddress     = InvalidError("invalid IP address")
	ErrInvalidLoggerChannel = InvalidError("invalid logger channel")
	ErrInvalidNonce         = InvalidError("intention nonce does not match pool")
	ErrInvalidOrchestrator  = InvalidError("orchestrator is not a certificate fingerprint")
	ErrInvalidOutpoint      = InvalidError("invalid outpoint")
	ErrInvalidPath          = InvalidError("invalid key derivation path")
	ErrInvalidPoolName      = InvalidError("invalid pool name")
	ErrInvalidPrefix        = InvalidError("invalid storage prefix")
	ErrInvalidSeed          = InvalidError("invalid seed")
	ErrInvalidStructPointer = InvalidError("invalid struct pointer")
	ErrInvalidThreshold     = InvalidError("finalize threshold must be at least one")
	ErrInvalidTxid          = InvalidError("invalid txid")
	ErrMissingCertificate   = InvalidError("missing client certificate")
	ErrMissingParameters    = InvalidError("missing parameters")
	ErrNotATable            = InvalidError("configuration did not return a table")
	ErrNotAuthorised        = InvalidError("caller is not authorised")
	ErrNotInitialised       = NotFoundError("not initialised")
	ErrPoolBeingExecuted    = ExistsError("pool is being executed")
	ErrPoolExists           = ExistsError("pool already exists")
	ErrPoolNotFound         = NotFoundError("pool not found")
	ErrRateLimiting         = ProcessError("rate limit exceeded")
	ErrRecordTruncated      = InvalidError("record is truncated")
	ErrStateChanged         = ProcessError("pool state changed during execution")
	ErrTransactionInUse     = ProcessError("storage transaction already in use")
	ErrTransactionNotInUse  = ProcessError("storage transaction not begun")
	ErrTxidMismatch         = InvalidError("state txid does not match transaction")
	ErrTxidNotFound         = NotFoundError("txid not found")
	ErrUnknownAction        = InvalidError("unknown action")
	ErrUnrecoverableReorg   = ProcessError("unrecoverable reorg detected")
	ErrUtxoNotFound         = NotFoundError("pool utxo not found")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e IntegrityError) Error() string { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool    { var t ExistsError; return errors.As(e, &t) }
func IsErrIntegrity(e error) bool { var t IntegrityError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool   { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool  { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool   { var t ProcessError; return errors.As(e, &t) }
