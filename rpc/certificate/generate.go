// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate

import (
	"time"

	"github.com/bitmark-inc/certgen"
)

const validity = 10 * 365 * 24 * time.Hour

// Generate - self-signed certificate and key in PEM form
//
// hosts may be IP addresses or DNS names and are added to the local
// host names
func Generate(name string, hosts []string) (string, string, error) {
	org := "poolkeeper self signed cert for: " + name
	validUntil := time.Now().Add(validity)
	cer, key, err := certgen.NewTLSCertPair(org, validUntil, false, hosts)
	if nil != err {
		return "", "", err
	}
	return string(cer), string(key), nil
}
