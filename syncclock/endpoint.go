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

package syncclock

import (
	"net"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/net/ipv4"
)

// Endpoint is one destination of the clock's broadcasts.
// Each endpoint owns its socket.
type Endpoint struct {
	Host string
	Port int

	conn *net.UDPConn
}

// Dial opens a socket to host:port.
// If host is a multicast group, ttl (when positive) bounds how many
// routers the broadcasts cross.
func Dial(host string, port, ttl int) (*Endpoint, error) {
	raddr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, errors.Wrap(err, "resolving destination address")
	}
	conn, err := net.DialUDP("udp4", nil, raddr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", raddr)
	}
	if raddr.IP.IsMulticast() && ttl > 0 {
		if err := ipv4.NewPacketConn(conn).SetMulticastTTL(ttl); err != nil {
			_ = conn.Close()
			return nil, errors.Wrap(err, "setting multicast TTL")
		}
	}
	return &Endpoint{Host: host, Port: port, conn: conn}, nil
}

// Send writes one datagram. It never waits for the receiver.
func (ep *Endpoint) Send(data []byte) error {
	if ep.conn == nil {
		return errors.New("endpoint is closed")
	}
	_, err := ep.conn.Write(data)
	return errors.Wrapf(err, "sending to %s", ep)
}

// Close closes the socket.
func (ep *Endpoint) Close() error {
	if ep.conn == nil {
		return nil
	}
	err := ep.conn.Close()
	ep.conn = nil
	return err
}

func (ep *Endpoint) String() string {
	return net.JoinHostPort(ep.Host, strconv.Itoa(ep.Port))
}
