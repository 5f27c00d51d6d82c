// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"net"
	"strings"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/poolkeeper/block"
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/ledger"
	"github.com/bitmark-inc/poolkeeper/txid"
)

const (
	defaultQueueSize = 1000
)

// Configuration - broadcast listen addresses
type Configuration struct {
	Broadcast []string `gluamapper:"broadcast" json:"broadcast"`
	QueueSize int      `gluamapper:"queue_size" json:"queue_size"`
}

// Broadcaster - a hook that publishes every event
//
// events are queued and sent by the background process; when the
// queue is full the event is dropped
type Broadcaster struct {
	log     *logger.L
	socket4 *zmq.Socket
	socket6 *zmq.Socket
	queue   chan message
}

// New - bind the broadcast sockets
func New(configuration *Configuration) (*Broadcaster, error) {
	log := logger.New("broadcaster")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	log.Info("initialising…")

	size := configuration.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}

	brdc := &Broadcaster{
		log:   log,
		queue: make(chan message, size),
	}

	err := brdc.bind(configuration.Broadcast)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return nil, err
	}
	return brdc, nil
}

// creates up to 2 sockets for separate IPv4 and IPv6 traffic
func (brdc *Broadcaster) bind(listen []string) error {
	for i, address := range listen {
		bindTo, v6, err := canonical(address)
		if nil != err {
			brdc.close()
			return err
		}

		socket := &brdc.socket4
		if v6 {
			socket = &brdc.socket6
		}
		if nil == *socket {
			*socket, err = newPublisher(v6)
			if nil != err {
				brdc.close()
				return err
			}
		}

		err = (*socket).Bind(bindTo)
		if nil != err {
			brdc.log.Errorf("cannot bind[%d]: %q  error: %s", i, bindTo, err)
			brdc.close()
			return err
		}
		brdc.log.Infof("bind[%d]: %q  IPv6: %v", i, bindTo, v6)
	}
	return nil
}

func newPublisher(v6 bool) (*zmq.Socket, error) {
	socket, err := zmq.NewSocket(zmq.PUB)
	if nil != err {
		return nil, err
	}
	socket.SetIpv6(v6)
	socket.SetLinger(0)
	return socket, nil
}

// convert "IP:port" or "*:port" to a zmq tcp endpoint
func canonical(address string) (string, bool, error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(address))
	if nil != err {
		return "", false, fault.ErrInvalidIPAddress
	}
	if "*" == host {
		return "tcp://*:" + port, false, nil
	}
	ip := net.ParseIP(host)
	if nil == ip {
		return "", false, fault.ErrInvalidIPAddress
	}
	if nil != ip.To4() {
		return "tcp://" + ip.String() + ":" + port, false, nil
	}
	return "tcp://[" + ip.String() + "]:" + port, true, nil
}

func (brdc *Broadcaster) close() {
	if nil != brdc.socket4 {
		brdc.socket4.Close()
		brdc.socket4 = nil
	}
	if nil != brdc.socket6 {
		brdc.socket6.Close()
		brdc.socket6 = nil
	}
}

// Run - send queued events until shutdown
func (brdc *Broadcaster) Run(args interface{}, shutdown <-chan struct{}) {
	log := brdc.log

	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-brdc.queue:
			log.Debugf("sending: %s  data: %s", item.topic, item.body)
			brdc.process(brdc.socket4, item)
			brdc.process(brdc.socket6, item)
		}
	}
	brdc.close()
	log.Info("stopped")
}

func (brdc *Broadcaster) process(socket *zmq.Socket, item message) {
	if nil == socket {
		return
	}

	_, err := socket.Send(item.topic, zmq.SNDMORE|zmq.DONTWAIT)
	if nil == err {
		_, err = socket.SendBytes(item.body, zmq.DONTWAIT)
	}
	if nil != err {
		brdc.log.Warnf("send: %s  error: %s", item.topic, err)
	}
}

func (brdc *Broadcaster) enqueue(m message, err error) {
	if nil != err {
		brdc.log.Errorf("encode: %s  error: %s", m.topic, err)
		return
	}
	select {
	case brdc.queue <- m:
	default:
		brdc.log.Warnf("queue full, dropped: %s", m.topic)
	}
}

// PreBlock - nothing is published before a block is handled
func (brdc *Broadcaster) PreBlock(block.Announcement) {}

func (brdc *Broadcaster) TxConfirmed(address string, id txid.Txid, header block.Header) {
	brdc.enqueue(transactionMessage(TopicConfirmed, address, id, header))
}

func (brdc *Broadcaster) TxFinalized(address string, id txid.Txid, header block.Header) {
	brdc.enqueue(transactionMessage(TopicFinalized, address, id, header))
}

func (brdc *Broadcaster) TxRolledBack(address string, id txid.Txid, reason string, reverted []ledger.State) {
	brdc.enqueue(rolledBackMessage(address, id, reason, reverted))
}

// PostBlock - publish the block once all its events are queued
func (brdc *Broadcaster) PostBlock(a block.Announcement) {
	brdc.enqueue(blockMessage(a))
}
