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
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/scgolang/wallsync/syncclient"
	"github.com/scgolang/wallsync/syncosc"
)

var listenFlags struct {
	port  int
	group string
	every int
}

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Display sync messages on stdout",
	Long:  `Display the sync messages arriving on a port, one per line`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		l, err := syncclient.Listen(listenFlags.port, listenFlags.group)
		if err != nil {
			return err
		}
		defer l.Close()

		log.Info().Int("port", l.Port).Msg("listening")

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return l.Serve(gctx)
		})
		g.Go(func() error {
			return printMessages(gctx, l, os.Stdout, listenFlags.every)
		})
		return g.Wait()
	},
}

func init() {
	flags := listenCmd.Flags()
	flags.IntVarP(&listenFlags.port, "port", "p", 9000, "port to listen on")
	flags.StringVarP(&listenFlags.group, "group", "g", "", "multicast group to join")
	flags.IntVarP(&listenFlags.every, "every", "n", 1, "only display every n messages")
	RootCmd.AddCommand(listenCmd)
}

// printMessages polls inbox and writes every nth message to w until ctx is done.
func printMessages(ctx context.Context, inbox syncclient.Inbox, w io.Writer, every int) error {
	if every < 1 {
		every = 1
	}
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	var count int
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		for {
			m, ok := inbox.Next()
			if !ok {
				break
			}
			if count%every == 0 {
				if err := printMessage(w, m); err != nil {
					return err
				}
			}
			count++
		}
	}
}

func printMessage(w io.Writer, m syncosc.Message) error {
	_, err := fmt.Fprintln(w, m)
	return err
}
