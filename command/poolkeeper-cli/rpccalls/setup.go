// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpccalls - JSON RPC client for poolkeeperd
package rpccalls

import (
	"crypto/tls"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

const dialTimeout = 10 * time.Second

// Client - one authenticated connection to a poolkeeperd
type Client struct {
	conn    *tls.Conn
	client  *rpc.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// NewClient - connect presenting certificate as the caller identity
//
// poolkeeperd certificates are self-signed so the server is not
// verified
func NewClient(connect string, certificate tls.Certificate, verbose bool, handle io.Writer) (*Client, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		Certificates:       []tls.Certificate{certificate},
	}

	dialer := &net.Dialer{
		Timeout: dialTimeout,
	}
	conn, err := tls.DialWithDialer(dialer, "tcp", connect, tlsConfig)
	if nil != err {
		return nil, err
	}

	return &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		verbose: verbose,
		handle:  handle,
	}, nil
}

// Close - shutdown the poolkeeperd connection
//
// closing the rpc client also closes the connection
func (c *Client) Close() error {
	return c.client.Close()
}
