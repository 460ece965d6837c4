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

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/scgolang/wallsync/config"
	"github.com/scgolang/wallsync/playback"
	"github.com/scgolang/wallsync/wall"
)

var settingsPath string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a video wall node",
	Long: `Run a video wall node as the clock or as a slave, as set in the settings file.
The node plays a headless looping movie and keeps it in sync with the wall.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		settings, err := config.Load(settingsPath)
		if err != nil {
			// A node without settings still runs; it just does not sync.
			log.Error().Err(err).Str("path", settingsPath).Msg("could not load settings")
		}
		return runNode(ctx, settings, clockwork.NewRealClock())
	},
}

func init() {
	runCmd.Flags().StringVarP(&settingsPath, "settings", "s", "settings.yaml", "path to the settings file")
	RootCmd.AddCommand(runCmd)
}

// runNode runs a node until ctx is done.
func runNode(ctx context.Context, settings config.Settings, clock clockwork.Clock) error {
	logger := log.With().Str("node", settings.NodeIDOrNew()).Logger()

	for _, err := range settings.ApplyEnv(os.Getenv) {
		logger.Error().Err(err).Msg("ignoring environment override")
	}
	cfg, problems := settings.SyncConfig()
	for _, err := range problems {
		logger.Error().Err(err).Msg("settings")
	}
	var (
		rate, frames = settings.MovieFormat()
		movie        = playback.NewMovie(clock, rate, frames)
	)
	if settings.Movie.Path != nil {
		logger.Info().Str("path", *settings.Movie.Path).Msg("movie")
	}
	logger.Info().Float64("frame_rate", rate).Int64("frames", frames).Msg("playing")

	coord := wall.Setup(cfg, movie, logger)
	defer func() {
		if err := coord.Close(); err != nil {
			logger.Error().Err(err).Msg("closing sockets")
		}
	}()
	host := wall.NewHost(clock, settings.TickRate())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return coord.Run(gctx)
	})
	g.Go(func() error {
		return host.Run(gctx, coord.OnTick)
	})
	return g.Wait()
}
