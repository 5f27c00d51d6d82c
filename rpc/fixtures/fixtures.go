// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared setup for the rpc tests
package fixtures

import (
	"os"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/poolkeeper/rpc/certificate"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// SetupTestLogger - critical only logging into a throw-away directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0o700)

	logging := logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	_ = os.RemoveAll(dir)
}

// Certificate - a fresh self-signed certificate and key in PEM form
func Certificate(commonName string) (string, string, error) {
	return certificate.Generate(commonName, nil)
}
