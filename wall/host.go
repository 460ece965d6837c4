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

package wall

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
)

// DefaultTicksPerSecond is the update rate of a node that does not set one.
const DefaultTicksPerSecond = 60

// Host calls a hook at a fixed rate, standing in for a renderer's
// per-frame update callback.
type Host struct {
	clock          clockwork.Clock
	ticksPerSecond float64
}

// NewHost creates a host that ticks ticksPerSecond times a second.
func NewHost(clock clockwork.Clock, ticksPerSecond float64) *Host {
	return &Host{clock: clock, ticksPerSecond: ticksPerSecond}
}

// Run calls hook with tick 0 immediately, then once per period with an
// increasing tick count, until ctx is done.
func (h *Host) Run(ctx context.Context, hook func(tick int64, ticksPerSecond float64)) error {
	if h.ticksPerSecond <= 0 {
		return errors.Errorf("invalid tick rate %g", h.ticksPerSecond)
	}
	ticker := h.clock.NewTicker(time.Duration(float64(time.Second) / h.ticksPerSecond))
	defer ticker.Stop()

	var tick int64
	hook(tick, h.ticksPerSecond)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			tick++
			hook(tick, h.ticksPerSecond)
		}
	}
}
