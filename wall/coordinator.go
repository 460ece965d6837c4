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

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/scgolang/wallsync/playback"
	"github.com/scgolang/wallsync/policy"
	"github.com/scgolang/wallsync/syncclient"
	"github.com/scgolang/wallsync/syncclock"
)

// Coordinator runs the sync protocol for one node.
// A coordinator whose setup failed keeps running and does nothing:
// an unsynced screen is better than a crashed one.
type Coordinator struct {
	config Config
	role   Role
	err    error
	logger zerolog.Logger

	// clock
	endpoints []*syncclock.Endpoint
	emitter   *syncclock.Emitter

	// slave
	listener *syncclient.Listener
	drainer  *syncclient.Drainer
}

// Setup creates the coordinator for config. Setup problems are logged
// and reported by Err; they never stop the node.
func Setup(config Config, player playback.Controller, logger zerolog.Logger) *Coordinator {
	c := &Coordinator{config: config, logger: logger.With().Str("role", config.Role.String()).Logger()}

	c.logger.Info().Str("mode", config.Mode.String()).Msg("syncing with " + config.Mode.String())

	switch config.Role {
	case RoleClock:
		c.err = c.setupClock(player)
	case RoleSlave:
		c.err = c.setupSlave(player)
	default:
		c.err = errors.New("role is not configured")
	}
	if c.err != nil {
		c.logger.Error().Err(c.err).Msg("sync disabled")
	}
	return c
}

func (c *Coordinator) setupClock(player playback.Controller) error {
	c.role = RoleClock

	if len(c.config.SendPorts) == 0 {
		return errors.New("no send ports configured")
	}
	host, err := c.broadcastHost()
	if err != nil {
		return err
	}
	senders := make([]syncclock.Sender, 0, len(c.config.SendPorts))

	for _, port := range c.config.SendPorts {
		ep, err := syncclock.Dial(host, port, c.config.MulticastTTL)
		if err != nil {
			c.logger.Error().Err(err).Str("host", host).Int("port", port).Msg("could not open send port")
			continue
		}
		c.logger.Info().Str("host", host).Int("port", port).Msg("sending")
		c.endpoints = append(c.endpoints, ep)
		senders = append(senders, ep)
	}
	if len(senders) == 0 {
		return errors.New("could not open any send port")
	}
	c.emitter = syncclock.NewEmitter(c.config.Mode, player, senders...).WithLogger(c.logger)
	return nil
}

func (c *Coordinator) broadcastHost() (string, error) {
	if c.config.MulticastGroup != "" {
		return c.config.MulticastGroup, nil
	}
	ip := c.config.LocalIP
	if ip == "" {
		var err error
		if ip, err = syncclock.LocalIPv4(); err != nil {
			return "", errors.Wrap(err, "finding local address")
		}
	}
	host, err := syncclock.ResolveBroadcastHost(ip)
	return host, errors.Wrap(err, "resolving broadcast host")
}

func (c *Coordinator) setupSlave(player playback.Controller) error {
	c.role = RoleSlave

	if c.config.ListenPort <= 0 {
		return errors.New("no listen port configured")
	}
	l, err := syncclient.Listen(c.config.ListenPort, c.config.MulticastGroup)
	if err != nil {
		return err
	}
	c.logger.Info().Int("port", l.Port).Msg("listening")

	c.listener = l.WithLogger(c.logger)
	c.drainer = syncclient.NewDrainer(c.listener, policy.New(player).WithLogger(c.logger))
	return nil
}

// Role returns the role the node was configured with.
func (c *Coordinator) Role() Role { return c.role }

// Err returns the setup error that disabled syncing, if any.
func (c *Coordinator) Err() error { return c.err }

// OnTick is the host's per-tick hook.
func (c *Coordinator) OnTick(tick int64, ticksPerSecond float64) {
	switch {
	case c.emitter != nil:
		c.emitter.OnTick(tick, ticksPerSecond)
	case c.drainer != nil:
		c.drainer.OnTick()
	}
}

// Run receives sync messages until ctx is done.
// A clock, or a node without a working listener, just waits.
func (c *Coordinator) Run(ctx context.Context) error {
	if c.listener == nil {
		<-ctx.Done()
		return nil
	}
	return errors.Wrap(c.listener.Serve(ctx), "serving sync listener")
}

// Close releases every socket.
func (c *Coordinator) Close() error {
	var first error

	for _, ep := range c.endpoints {
		if err := ep.Close(); err != nil && first == nil {
			first = errors.Wrapf(err, "closing %s", ep)
		}
	}
	if c.listener != nil {
		if err := c.listener.Close(); err != nil && first == nil {
			first = errors.Wrap(err, "closing listener")
		}
	}
	return first
}
