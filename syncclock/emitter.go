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
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scgolang/wallsync/playback"
	"github.com/scgolang/wallsync/syncosc"
)

// Sender is a destination for encoded sync messages.
type Sender interface {
	fmt.Stringer
	Send(data []byte) error
}

// Emitter broadcasts the clock's playback position.
type Emitter struct {
	mode    syncosc.Mode
	player  playback.Controller
	senders []Sender
	logger  zerolog.Logger
}

// NewEmitter creates an emitter that reads positions from player
// and sends them to every sender.
func NewEmitter(mode syncosc.Mode, player playback.Controller, senders ...Sender) *Emitter {
	return &Emitter{
		mode:    mode,
		player:  player,
		senders: senders,
		logger:  log.Logger,
	}
}

// WithLogger returns a copy of e that logs to logger.
func (e *Emitter) WithLogger(logger zerolog.Logger) *Emitter {
	cp := *e
	cp.logger = logger
	return &cp
}

// IsBroadcastTick reports whether tick falls on a whole second.
func IsBroadcastTick(tick int64, ticksPerSecond float64) bool {
	n := int64(math.Round(ticksPerSecond))
	if n <= 0 {
		return false
	}
	return tick%n == 0
}

// TargetFrame converts a tick count to a frame index of a looping movie.
func TargetFrame(tick int64, frameRate, ticksPerSecond float64, frames int64) int64 {
	if frames <= 0 || ticksPerSecond <= 0 {
		return 0
	}
	ratio := frameRate / ticksPerSecond
	return int64(math.Floor(float64(tick)*ratio)) % frames
}

// OnTick broadcasts the current position if tick is a broadcast tick.
// In frame mode the clock first seeks itself to the frame it announces.
func (e *Emitter) OnTick(tick int64, ticksPerSecond float64) {
	if !IsBroadcastTick(tick, ticksPerSecond) {
		return
	}
	var msg syncosc.Message

	switch e.mode {
	case syncosc.ModeFrame:
		frames := e.player.FrameCount()
		if frames <= 0 {
			e.logger.Error().Int64("frames", frames).Msg("movie has no frames, not broadcasting")
			return
		}
		target := TargetFrame(tick, e.player.FrameRate(), ticksPerSecond, frames)
		if target < 0 || target > math.MaxInt32 {
			e.logger.Error().Int64("frame", target).Msg("frame index does not fit in a sync message, not broadcasting")
			return
		}
		e.player.SeekToFrame(target)
		msg = syncosc.Frame(int32(target))
	default:
		msg = syncosc.Time(float32(e.player.CurrentTime()))
	}
	data, err := syncosc.Encode(msg)
	if err != nil {
		e.logger.Error().Err(err).Msg("encoding sync message")
		return
	}
	for _, s := range e.senders {
		if err := s.Send(data); err != nil {
			e.logger.Warn().Err(err).Str("destination", s.String()).Msg("broadcast failed")
		}
	}
	e.logger.Debug().Str("message", fmt.Sprint(msg)).Int("destinations", len(e.senders)).Msg("broadcast")
}
