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

// Package syncclock implements the clock side of the sync protocol:
// finding the broadcast address, owning one socket per destination port,
// and broadcasting the playback position once a second.
package syncclock

import (
	"net"
	"strings"

	"github.com/pkg/errors"
)

// AddressFormatError is returned when a local address is not a dotted quad.
type AddressFormatError struct {
	Addr string
}

func (e *AddressFormatError) Error() string {
	return "not a dotted-quad IPv4 address: " + e.Addr
}

// ResolveBroadcastHost replaces the last octet of localIP with 255.
func ResolveBroadcastHost(localIP string) (string, error) {
	i := strings.LastIndex(localIP, ".")
	if i < 0 {
		return "", &AddressFormatError{Addr: localIP}
	}
	return localIP[:i+1] + "255", nil
}

// LocalIPv4 returns the first non-loopback IPv4 address of this host.
func LocalIPv4() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", errors.Wrap(err, "listing interface addresses")
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return "", errors.New("no non-loopback IPv4 address found")
}
