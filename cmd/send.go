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
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scgolang/wallsync/syncclock"
	"github.com/scgolang/wallsync/syncosc"
)

var sendFlags struct {
	host string
	port int
}

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send (time SECONDS | frame INDEX)",
	Short: "Send one sync message",
	Long:  `Send one /sync/time or /sync/frame message, e.g. to move every slave of a wall by hand.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := parseSyncMessage(args[0], args[1])
		if err != nil {
			return err
		}
		data, err := syncosc.Encode(msg)
		if err != nil {
			return err
		}
		ep, err := syncclock.Dial(sendFlags.host, sendFlags.port, 1)
		if err != nil {
			return err
		}
		defer ep.Close()

		return ep.Send(data)
	},
}

func init() {
	flags := sendCmd.Flags()
	flags.StringVarP(&sendFlags.host, "host", "H", "127.0.0.1", "destination host or broadcast address")
	flags.IntVarP(&sendFlags.port, "port", "p", 9000, "destination port")
	RootCmd.AddCommand(sendCmd)
}

// parseSyncMessage builds a sync message from a mode name and a value.
func parseSyncMessage(mode, value string) (syncosc.Message, error) {
	m, err := syncosc.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	if m == syncosc.ModeFrame {
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return nil, errors.Wrap(err, "parsing frame index")
		}
		return syncosc.Frame(n), nil
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil, errors.Wrap(err, "parsing seconds")
	}
	return syncosc.Time(f), nil
}
