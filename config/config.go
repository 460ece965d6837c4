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

// Package config loads a node's settings file.
//
// Every field is optional. A missing field the node's role needs is
// reported as a problem by SyncConfig, which the caller logs; the node
// still starts, it just does not sync.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/scgolang/wallsync/syncosc"
	"github.com/scgolang/wallsync/wall"
)

// Environment variables that override the settings file.
const (
	EnvRole       = "WALLSYNC_ROLE"
	EnvListenPort = "WALLSYNC_LISTEN_PORT"
	EnvSendPorts  = "WALLSYNC_SEND_PORTS"
	EnvSyncMode   = "WALLSYNC_SYNC_MODE"
	EnvLocalIP    = "WALLSYNC_LOCAL_IP"
)

// Settings is the contents of a settings file.
type Settings struct {
	NodeID         *string  `yaml:"node_id"`
	Role           *string  `yaml:"role"`
	IsClock        *bool    `yaml:"is_clock"`
	ListenPort     *int     `yaml:"listen_port"`
	SendPorts      []int    `yaml:"send_port"`
	SyncMode       *string  `yaml:"sync_mode"`
	LocalIP        *string  `yaml:"local_ip"`
	MulticastGroup *string  `yaml:"multicast_group"`
	MulticastTTL   *int     `yaml:"multicast_ttl"`
	TicksPerSecond *float64 `yaml:"ticks_per_second"`
	Movie          Movie    `yaml:"movie"`
}

// Movie describes the movie a node plays.
type Movie struct {
	Path       *string  `yaml:"path"`
	FrameRate  *float64 `yaml:"frame_rate"`
	FrameCount *int64   `yaml:"frame_count"`
}

// Defaults for the simulated movie.
const (
	DefaultFrameRate  = 30
	DefaultFrameCount = 30 * 60
)

// Load reads the settings file at path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrap(err, "reading settings file")
	}
	return Parse(data)
}

// Parse parses settings from YAML.
func Parse(data []byte) (Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Wrap(err, "parsing settings")
	}
	return s, nil
}

// ApplyEnv overrides settings with any WALLSYNC_* variables that are set.
// Malformed values are returned as problems and ignored.
func (s *Settings) ApplyEnv(getenv func(string) string) []error {
	var problems []error

	if v := getenv(EnvRole); v != "" {
		s.Role = &v
	}
	if v := getenv(EnvSyncMode); v != "" {
		s.SyncMode = &v
	}
	if v := getenv(EnvLocalIP); v != "" {
		s.LocalIP = &v
	}
	if v := getenv(EnvListenPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, errors.Wrapf(err, "parsing %s", EnvListenPort))
		} else {
			s.ListenPort = &port
		}
	}
	if v := getenv(EnvSendPorts); v != "" {
		var ports []int
		for _, field := range strings.Split(v, ",") {
			port, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				problems = append(problems, errors.Wrapf(err, "parsing %s", EnvSendPorts))
				ports = nil
				break
			}
			ports = append(ports, port)
		}
		if ports != nil {
			s.SendPorts = ports
		}
	}
	return problems
}

// SyncConfig resolves the sync configuration. Problems are returned
// alongside a config that leaves the affected part disabled.
func (s Settings) SyncConfig() (wall.Config, []error) {
	var (
		c        = wall.Config{Mode: syncosc.DefaultMode}
		problems []error
	)
	switch {
	case s.Role != nil:
		role, err := wall.ParseRole(*s.Role)
		if err != nil {
			problems = append(problems, err)
		}
		c.Role = role
	case s.IsClock != nil:
		c.Role = wall.RoleSlave
		if *s.IsClock {
			c.Role = wall.RoleClock
		}
	default:
		problems = append(problems, errors.New("could not find role in settings"))
	}
	if s.SyncMode != nil {
		mode, err := syncosc.ParseMode(*s.SyncMode)
		if err != nil {
			problems = append(problems, err)
		}
		c.Mode = mode
	}
	switch c.Role {
	case wall.RoleClock:
		if len(s.SendPorts) == 0 {
			problems = append(problems, errors.New("could not find send_port in settings"))
		}
		for _, port := range s.SendPorts {
			if port <= 0 || port > 65535 {
				problems = append(problems, errors.Errorf("invalid send_port %d", port))
				continue
			}
			c.SendPorts = append(c.SendPorts, port)
		}
	case wall.RoleSlave:
		switch {
		case s.ListenPort == nil:
			problems = append(problems, errors.New("could not find listen_port in settings"))
		case *s.ListenPort <= 0 || *s.ListenPort > 65535:
			problems = append(problems, errors.Errorf("invalid listen_port %d", *s.ListenPort))
		default:
			c.ListenPort = *s.ListenPort
		}
	}
	if s.LocalIP != nil {
		c.LocalIP = *s.LocalIP
	}
	if s.MulticastGroup != nil {
		c.MulticastGroup = *s.MulticastGroup
	}
	if s.MulticastTTL != nil {
		c.MulticastTTL = *s.MulticastTTL
	}
	return c, problems
}

// NodeIDOrNew returns the configured node id or a fresh random one.
func (s Settings) NodeIDOrNew() string {
	if s.NodeID != nil && *s.NodeID != "" {
		return *s.NodeID
	}
	return uuid.NewString()
}

// TickRate returns the host update rate.
func (s Settings) TickRate() float64 {
	if s.TicksPerSecond != nil && *s.TicksPerSecond > 0 {
		return *s.TicksPerSecond
	}
	return wall.DefaultTicksPerSecond
}

// MovieFormat returns the movie's frame rate and frame count.
func (s Settings) MovieFormat() (float64, int64) {
	var (
		rate   float64 = DefaultFrameRate
		frames int64   = DefaultFrameCount
	)
	if s.Movie.FrameRate != nil && *s.Movie.FrameRate > 0 {
		rate = *s.Movie.FrameRate
	}
	if s.Movie.FrameCount != nil && *s.Movie.FrameCount > 0 {
		frames = *s.Movie.FrameCount
	}
	return rate, frames
}
