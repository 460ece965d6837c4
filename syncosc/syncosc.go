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

// Package syncosc defines the OSC messages exchanged between video wall nodes.
//
// A clock node sends either /sync/time (one float argument, seconds) or
// /sync/frame (one int argument, frame index). Slaves seek to whatever
// absolute position they receive.
package syncosc

import (
	"strings"

	"github.com/pkg/errors"
)

// OSC addresses.
const (
	AddressTime  = "/sync/time"
	AddressFrame = "/sync/frame"
)

// Mode says whether a deployment expresses corrections as seconds or frames.
type Mode int

// Sync modes.
const (
	ModeTime Mode = iota
	ModeFrame
)

// DefaultMode is the sync mode of a deployment that does not set one.
// Every node of a wall must run the same mode: nodes do not negotiate it,
// and a slave simply applies whichever tag arrives.
const DefaultMode = ModeTime

// ParseMode parses "time" or "frame".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time":
		return ModeTime, nil
	case "frame":
		return ModeFrame, nil
	}
	return DefaultMode, errors.Errorf("unknown sync mode %q", s)
}

// Address returns the OSC address used by mode m.
func (m Mode) Address() string {
	if m == ModeFrame {
		return AddressFrame
	}
	return AddressTime
}

func (m Mode) String() string {
	switch m {
	case ModeTime:
		return "time"
	case ModeFrame:
		return "frame"
	}
	return "unknown"
}
