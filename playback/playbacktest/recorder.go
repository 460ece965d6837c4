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

// Package playbacktest provides a playback.Controller that records seeks.
package playbacktest

// Seek is one recorded seek. Exactly one of Time or Frame is set.
type Seek struct {
	Time  *float64
	Frame *int64
}

// Recorder is a playback.Controller for tests.
type Recorder struct {
	Time   float64
	Rate   float64
	Frames int64
	Seeks  []Seek
}

// CurrentTime returns r.Time.
func (r *Recorder) CurrentTime() float64 { return r.Time }

// FrameRate returns r.Rate.
func (r *Recorder) FrameRate() float64 { return r.Rate }

// FrameCount returns r.Frames.
func (r *Recorder) FrameCount() int64 { return r.Frames }

// SeekToTime records the seek and moves r.Time.
func (r *Recorder) SeekToTime(seconds float64) {
	r.Time = seconds
	r.Seeks = append(r.Seeks, Seek{Time: &seconds})
}

// SeekToFrame records the seek and moves r.Time to the frame.
func (r *Recorder) SeekToFrame(index int64) {
	if r.Rate > 0 {
		r.Time = float64(index) / r.Rate
	}
	r.Seeks = append(r.Seeks, Seek{Frame: &index})
}
