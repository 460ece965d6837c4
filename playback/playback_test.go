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

package playback

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestMovieAdvancesAndLoops(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMovie(clock, 30, 300) // 10 second loop

	if got := m.CurrentTime(); got != 0 {
		t.Fatalf("CurrentTime = %g, want 0", got)
	}
	clock.Advance(2500 * time.Millisecond)
	if got := m.CurrentTime(); !near(got, 2.5) {
		t.Fatalf("CurrentTime = %g, want 2.5", got)
	}
	if got := m.CurrentFrame(); got != 75 {
		t.Fatalf("CurrentFrame = %d, want 75", got)
	}
	clock.Advance(10 * time.Second)
	if got := m.CurrentTime(); !near(got, 2.5) {
		t.Fatalf("CurrentTime after loop = %g, want 2.5", got)
	}
}

func TestMovieSeek(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMovie(clock, 25, 250)

	m.SeekToTime(4)
	if got := m.CurrentTime(); !near(got, 4) {
		t.Fatalf("CurrentTime = %g, want 4", got)
	}
	m.SeekToFrame(50)
	if got := m.CurrentFrame(); got != 50 {
		t.Fatalf("CurrentFrame = %d, want 50", got)
	}
	clock.Advance(time.Second)
	if got := m.CurrentFrame(); got != 75 {
		t.Fatalf("CurrentFrame = %d, want 75", got)
	}
	m.SeekToTime(12) // past the end of a 10 second loop
	if got := m.CurrentTime(); !near(got, 2) {
		t.Fatalf("CurrentTime = %g, want 2", got)
	}
}

func TestMovieWithoutFrames(t *testing.T) {
	m := NewMovie(clockwork.NewFakeClock(), 0, 0)
	m.SeekToFrame(10)
	if got := m.CurrentTime(); got != 0 {
		t.Fatalf("CurrentTime = %g, want 0", got)
	}
}
