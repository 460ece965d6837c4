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

// Package wall ties a video wall node together: it resolves the node's
// role once at startup and forwards every host tick to either the clock's
// broadcast emitter or the slave's drain loop.
package wall

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/scgolang/wallsync/syncosc"
)

// Role is a node's part in the wall.
type Role int

// Roles. RoleUnset means the configuration did not name one.
const (
	RoleUnset Role = iota
	RoleClock
	RoleSlave
)

// ParseRole parses "clock" or "slave".
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clock":
		return RoleClock, nil
	case "slave":
		return RoleSlave, nil
	}
	return RoleUnset, errors.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleClock:
		return "clock"
	case RoleSlave:
		return "slave"
	}
	return "unset"
}

// Config is a node's sync configuration. It does not change after startup.
type Config struct {
	Role Role
	Mode syncosc.Mode

	// ListenPort is the slave's port.
	ListenPort int

	// SendPorts are the clock's destination ports.
	SendPorts []int

	// LocalIP is the clock's own address. The broadcast host is derived
	// from it. Empty means discover it from the network interfaces.
	LocalIP string

	// MulticastGroup, if set, replaces the derived broadcast host
	// and is joined by slaves.
	MulticastGroup string
	MulticastTTL   int
}
