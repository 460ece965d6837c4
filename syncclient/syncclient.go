// Copyright © 2026 The wallsync Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package syncclient implements the slave side of the sync protocol.
//
// A Listener reads sync messages from its socket in the background and
// queues them. On every tick of the host, a Drainer takes every queued
// message and applies it to the local player, in arrival order, without
// ever waiting for more.
package syncclient

import (
	"context"
	"net"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/ipv4"

	"github.com/scgolang/wallsync/policy"
	"github.com/scgolang/wallsync/syncosc"
)

// DefaultQueueSize is how many messages a Listener holds between ticks.
const DefaultQueueSize = 256

const maxDatagram = 1 << 16

// readBackoff is how long Serve waits after a failed read.
const readBackoff = 10 * time.Millisecond

// Inbox is a queue of received messages.
type Inbox interface {
	// Next returns the oldest queued message, or false if there is none.
	// It never blocks.
	Next() (syncosc.Message, bool)
}

// packetConn is the part of *net.UDPConn a Listener reads from.
type packetConn interface {
	ReadFrom(p []byte) (int, net.Addr, error)
	Close() error
}

// Listener owns the slave's socket.
type Listener struct {
	Port int

	conn   packetConn
	clock  clockwork.Clock
	queue  chan syncosc.Message
	logger zerolog.Logger
}

// Listen binds a socket on port. If group is not empty the socket
// also joins that multicast group.
func Listen(port int, group string) (*Listener, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, errors.Wrapf(err, "listening on port %d", port)
	}
	if group != "" {
		ip := net.ParseIP(group)
		if ip == nil || !ip.IsMulticast() {
			_ = conn.Close()
			return nil, errors.Errorf("%q is not a multicast group", group)
		}
		if err := ipv4.NewPacketConn(conn).JoinGroup(nil, &net.UDPAddr{IP: ip}); err != nil {
			_ = conn.Close()
			return nil, errors.Wrapf(err, "joining multicast group %s", group)
		}
	}
	return newListener(conn, conn.LocalAddr().(*net.UDPAddr).Port), nil
}

func newListener(conn packetConn, port int) *Listener {
	return &Listener{
		Port:   port,
		conn:   conn,
		clock:  clockwork.NewRealClock(),
		queue:  make(chan syncosc.Message, DefaultQueueSize),
		logger: log.Logger,
	}
}

// WithLogger returns a copy of l that logs to logger.
// The copy shares l's socket and queue.
func (l *Listener) WithLogger(logger zerolog.Logger) *Listener {
	cp := *l
	cp.logger = logger
	return &cp
}

// Serve reads datagrams until ctx is done or the listener is closed.
// Read errors are logged and reading resumes after a short pause.
// Datagrams that are not OSC messages are dropped. When the queue is
// full new messages are dropped; the clock re-sends the absolute
// position every second.
func (l *Listener) Serve(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = l.conn.Close()
		case <-done:
		}
	}()

	buf := make([]byte, maxDatagram)
	for {
		n, sender, err := l.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			l.logger.Warn().Err(err).Msg("reading sync message")

			select {
			case <-ctx.Done():
				return nil
			case <-l.clock.After(readBackoff):
			}
			continue
		}
		m, err := syncosc.Decode(buf[:n], sender)
		if err != nil {
			l.logger.Warn().Err(err).Str("sender", addrString(sender)).Msg("dropping datagram")
			continue
		}
		select {
		case l.queue <- m:
		default:
			l.logger.Warn().Str("address", m.Address()).Msg("queue full, dropping message")
		}
	}
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}

// Next returns the oldest queued message.
func (l *Listener) Next() (syncosc.Message, bool) {
	select {
	case m := <-l.queue:
		return m, true
	default:
		return nil, false
	}
}

// Close closes the socket.
func (l *Listener) Close() error {
	err := l.conn.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Drainer applies queued messages once per tick.
type Drainer struct {
	inbox  Inbox
	policy *policy.Policy
}

// NewDrainer creates a drainer.
func NewDrainer(inbox Inbox, p *policy.Policy) *Drainer {
	return &Drainer{inbox: inbox, policy: p}
}

// OnTick applies every queued message in arrival order and returns
// once the inbox is empty.
func (d *Drainer) OnTick() {
	for {
		m, ok := d.inbox.Next()
		if !ok {
			return
		}
		d.policy.Apply(m)
	}
}
