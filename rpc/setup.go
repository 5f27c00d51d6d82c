// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/poolkeeper/counter"
	ex "github.com/bitmark-inc/poolkeeper/exchange"
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/rpc/certificate"
	"github.com/bitmark-inc/poolkeeper/rpc/listeners"
	"github.com/bitmark-inc/poolkeeper/rpc/server"
)

const (
	tlsName = "client_rpc"

	defaultRequestRate  = 200
	defaultRequestBurst = 100
)

// Configuration - the listener settings with PEM certificate and key
type Configuration = listeners.RPCConfiguration

// Server - the RPC listener and its shared state
type Server struct {
	log      *logger.L
	listener *listeners.Listener
	count    counter.Counter
}

// New - validate the configuration and prepare the listener
func New(configuration *Configuration, e *ex.Exchange, version string, chain string) (*Server, error) {
	if nil == e {
		return nil, fault.ErrMissingParameters
	}

	log := logger.New("rpc")
	log.Info("initialising…")

	tlsConfig, fingerprint, err := certificate.Get(log, tlsName, configuration.Certificate, configuration.PrivateKey)
	if nil != err {
		return nil, err
	}

	requestRate := rate.Limit(configuration.RequestRate)
	if configuration.RequestRate <= 0 {
		requestRate = defaultRequestRate
	}
	burst := configuration.RequestBurst
	if burst <= 0 {
		burst = defaultRequestBurst
	}

	s := &Server{
		log: log,
	}

	factory := server.NewFactory(log, e, rate.NewLimiter(requestRate, burst), version, chain, &s.count)

	s.listener, err = listeners.NewRPC(configuration, log, &s.count, factory, tlsConfig, fingerprint)
	if nil != err {
		return nil, err
	}
	return s, nil
}

// Start - begin accepting connections
func (s *Server) Start() error {
	s.log.Info("starting…")
	return s.listener.Serve()
}

// Stop - stop accepting connections
func (s *Server) Stop() {
	s.log.Info("shutting down…")
	s.listener.Close()
	s.log.Info("finished")
}

// Connections - number of open connections
func (s *Server) Connections() uint64 {
	return s.count.Uint64()
}

// Listener - the underlying listener
func (s *Server) Listener() *listeners.Listener {
	return s.listener
}
