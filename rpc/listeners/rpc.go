// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/poolkeeper/counter"
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/rpc/certificate"
)

const (
	logName            = "client_rpc"
	minConnectionCount = 1
	handshakeTimeout   = 10 * time.Second
)

// RPCConfiguration - configuration file data for RPC setup
type RPCConfiguration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
	RequestRate        float64  `gluamapper:"request_rate" json:"request_rate"`
	RequestBurst       int      `gluamapper:"request_burst" json:"request_burst"`
}

// ServerFactory - build the RPC server for one caller identity
type ServerFactory interface {
	Create(identity string) *rpc.Server
}

// Listener - TLS JSON RPC listener
type Listener struct {
	sync.Mutex

	log             *logger.L
	listeners       []net.Listener
	count           *counter.Counter
	factory         ServerFactory
	maxConnections  uint64
	tlsConfig       *tls.Config
	ipType          []string
	listenIPAndPort []string
	closed          bool
}

// NewRPC - validate the configuration and create a listener
func NewRPC(
	configuration *RPCConfiguration,
	log *logger.L,
	count *counter.Counter,
	factory ServerFactory,
	tlsConfig *tls.Config,
	certificateFingerprint [32]byte,
) (*Listener, error) {
	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", logName, configuration.MaximumConnections)
		return nil, fault.ErrMissingParameters
	}
	if 0 == len(configuration.Listen) {
		log.Errorf("missing %s listen", logName)
		return nil, fault.ErrMissingParameters
	}

	r := &Listener{
		log:             log,
		maxConnections:  configuration.MaximumConnections,
		listenIPAndPort: append([]string{}, configuration.Listen...),
		factory:         factory,
		count:           count,
		tlsConfig:       tlsConfig,
	}

	log.Infof("%s: SHA3-256 fingerprint: %x", logName, certificateFingerprint)

	// validate all listen addresses
	var err error
	r.ipType, err = parseListenAddress(r.listenIPAndPort, r.log)
	if nil != err {
		return nil, err
	}

	return r, nil
}

// Serve - start accepting on every address
func (r *Listener) Serve() error {
	r.Lock()
	defer r.Unlock()

	for i, listen := range r.listenIPAndPort {
		r.log.Infof("starting RPC server: %s", listen)
		listener, err := tls.Listen(r.ipType[i], listen, r.tlsConfig)
		if err != nil {
			r.log.Errorf("rpc server listen error: %s", err)
			r.closeAll()
			return err
		}
		r.listeners = append(r.listeners, listener)

		go r.doServeRPC(listener)
	}
	return nil
}

// Addresses - the bound addresses
func (r *Listener) Addresses() []net.Addr {
	r.Lock()
	defer r.Unlock()

	addresses := make([]net.Addr, len(r.listeners))
	for i, l := range r.listeners {
		addresses[i] = l.Addr()
	}
	return addresses
}

// Close - stop accepting connections
func (r *Listener) Close() {
	r.Lock()
	defer r.Unlock()

	r.closed = true
	r.closeAll()
}

func (r *Listener) closeAll() {
	for _, l := range r.listeners {
		_ = l.Close()
	}
	r.listeners = nil
}

func (r *Listener) isClosed() bool {
	r.Lock()
	defer r.Unlock()
	return r.closed
}

func (r *Listener) doServeRPC(listen net.Listener) {
	log := r.log
	for {
		conn, err := listen.Accept()
		if err != nil {
			if !r.isClosed() {
				log.Errorf("rpc.server terminated: accept error: %s", err)
			}
			break
		}
		if r.count.Increment() <= r.maxConnections {
			go func() {
				r.serve(conn)
				_ = conn.Close()
				r.count.Decrement()
			}()
		} else {
			r.count.Decrement()
			_ = conn.Close()
		}
	}
	_ = listen.Close()
	log.Info("RPC accept terminated")
}

// the caller identity comes from the client certificate
func (r *Listener) serve(conn net.Conn) {
	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return
	}

	_ = tlsConn.SetDeadline(time.Now().Add(handshakeTimeout))
	if err := tlsConn.Handshake(); nil != err {
		r.log.Warnf("handshake from: %s  error: %s", conn.RemoteAddr(), err)
		return
	}
	_ = tlsConn.SetDeadline(time.Time{})

	identity, err := certificate.Identity(tlsConn.ConnectionState())
	if nil != err {
		r.log.Warnf("connection from: %s  error: %s", conn.RemoteAddr(), err)
		return
	}

	r.log.Debugf("connection from: %s  identity: %s", conn.RemoteAddr(), identity)
	r.factory.Create(identity).ServeCodec(jsonrpc.NewServerCodec(conn))
}

func parseListenAddress(addrs []string, log *logger.L) ([]string, error) {
	parsed := make([]string, len(addrs))
	for i, listen := range addrs {
		if !strings.Contains(listen, ":") {
			log.Errorf("rpc server listen: %q  missing port", listen)
			return nil, fault.ErrInvalidIPAddress
		}
		if '*' == listen[0] {
			// change "*:PORT" to "[::]:PORT"
			// on the assumption that this will listen on tcp4 and tcp6
			addrs[i] = "[::]" + ":" + strings.Split(listen, ":")[1]
			listen = "::"
			parsed[i] = "tcp"
		} else if '[' == listen[0] {
			listen = strings.Split(listen[1:], "]:")[0]
			parsed[i] = "tcp6"
		} else {
			listen = strings.Split(listen, ":")[0]
			parsed[i] = "tcp4"
		}

		if ip := net.ParseIP(listen); nil == ip {
			err := fault.ErrInvalidIPAddress
			log.Errorf("rpc server listen error: %s", err)
			return nil, err
		}
	}

	return parsed, nil
}
