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

// Package playback describes the video player a sync node drives.
package playback

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"
)

// Controller is the part of a video player the sync protocol needs.
type Controller interface {
	CurrentTime() float64 // seconds
	FrameRate() float64
	FrameCount() int64
	SeekToTime(seconds float64)
	SeekToFrame(index int64)
}

// Movie is a headless looping movie.
// Its position advances with the clock it was created with.
// It is not safe for concurrent use.
type Movie struct {
	clock     clockwork.Clock
	frameRate float64
	frames    int64
	start     time.Time
}

// NewMovie creates a movie that starts playing at frame 0.
func NewMovie(clock clockwork.Clock, frameRate float64, frames int64) *Movie {
	return &Movie{
		clock:     clock,
		frameRate: frameRate,
		frames:    frames,
		start:     clock.Now(),
	}
}

// Duration returns the length of one loop in seconds.
func (m *Movie) Duration() float64 {
	if m.frameRate <= 0 {
		return 0
	}
	return float64(m.frames) / m.frameRate
}

// CurrentTime returns the position within the current loop.
func (m *Movie) CurrentTime() float64 {
	elapsed := m.clock.Since(m.start).Seconds()
	d := m.Duration()
	if d <= 0 {
		return 0
	}
	pos := math.Mod(elapsed, d)
	if pos < 0 {
		pos += d
	}
	return pos
}

// CurrentFrame returns the index of the frame being shown.
func (m *Movie) CurrentFrame() int64 {
	f := int64(m.CurrentTime() * m.frameRate)
	if f >= m.frames && m.frames > 0 {
		f = m.frames - 1
	}
	return f
}

// FrameRate returns frames per second.
func (m *Movie) FrameRate() float64 { return m.frameRate }

// FrameCount returns the number of frames in one loop.
func (m *Movie) FrameCount() int64 { return m.frames }

// SeekToTime moves playback to seconds, wrapping around the loop.
func (m *Movie) SeekToTime(seconds float64) {
	m.start = m.clock.Now().Add(-time.Duration(seconds * float64(time.Second)))
}

// SeekToFrame moves playback to the start of frame index.
func (m *Movie) SeekToFrame(index int64) {
	if m.frameRate <= 0 {
		return
	}
	m.SeekToTime(float64(index) / m.frameRate)
}
