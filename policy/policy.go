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

// Package policy applies sync messages to a video player.
package policy

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scgolang/wallsync/playback"
	"github.com/scgolang/wallsync/syncosc"
)

// Result is the outcome of applying one message.
type Result int

// Results.
const (
	Applied Result = iota
	TypeMismatch
	UnknownAddress
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case TypeMismatch:
		return "type mismatch"
	case UnknownAddress:
		return "unknown address"
	}
	return "invalid"
}

// Policy seeks a player to the positions carried by sync messages.
type Policy struct {
	player playback.Controller
	logger zerolog.Logger
}

// New creates a policy that drives player.
func New(player playback.Controller) *Policy {
	return &Policy{player: player, logger: log.Logger}
}

// WithLogger returns a copy of p that logs to logger.
func (p *Policy) WithLogger(logger zerolog.Logger) *Policy {
	cp := *p
	cp.logger = logger
	return &cp
}

// Apply applies m. Bad messages are logged and never seek.
func (p *Policy) Apply(m syncosc.Message) Result {
	switch v := m.(type) {
	case syncosc.Time:
		p.logger.Debug().Float32("seconds", float32(v)).Msg("seek to time")
		p.player.SeekToTime(float64(v))
		return Applied
	case syncosc.Frame:
		p.logger.Debug().Int32("frame", int32(v)).Msg("seek to frame")
		p.player.SeekToFrame(int64(v))
		return Applied
	case syncosc.Mismatch:
		p.logger.Error().Str("address", v.Addr).Str("want", v.Want).Msg("argument has the wrong type")
		return TypeMismatch
	case syncosc.Unknown:
		p.logger.Warn().Str("address", v.Addr).Msg("unknown message address")
		return UnknownAddress
	}
	p.logger.Warn().Msgf("unhandled message %T", m)
	return UnknownAddress
}
