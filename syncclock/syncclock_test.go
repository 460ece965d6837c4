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
	"math"
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/scgolang/wallsync/playback/playbacktest"
	"github.com/scgolang/wallsync/syncosc"
)

func TestResolveBroadcastHost(t *testing.T) {
	for in, want := range map[string]string{
		"10.0.1.42":     "10.0.1.255",
		"192.168.0.1":   "192.168.0.255",
		"172.16.254.3":  "172.16.254.255",
		"127.0.0.1":     "127.0.0.255",
		"10.0.1.255":    "10.0.1.255",
		"192.168.10.10": "192.168.10.255",
	} {
		got, err := ResolveBroadcastHost(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Fatalf("ResolveBroadcastHost(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveBroadcastHostNoDot(t *testing.T) {
	for _, in := range []string{"", "localhost", "fe80::1"} {
		_, err := ResolveBroadcastHost(in)
		if _, ok := errors.Cause(err).(*AddressFormatError); !ok {
			t.Fatalf("%q: expected AddressFormatError, got %v", in, err)
		}
	}
}

func TestIsBroadcastTick(t *testing.T) {
	for _, tick := range []int64{0, 30, 60, 90, 3000} {
		if !IsBroadcastTick(tick, 30) {
			t.Fatalf("tick %d should be a broadcast tick", tick)
		}
	}
	for tick := int64(1); tick < 30; tick++ {
		if IsBroadcastTick(tick, 30) {
			t.Fatalf("tick %d should not be a broadcast tick", tick)
		}
	}
	if !IsBroadcastTick(60, 59.94) {
		t.Fatal("59.94 tps should round to 60")
	}
	if IsBroadcastTick(0, 0) {
		t.Fatal("zero rate never broadcasts")
	}
}

func TestTargetFrameWraps(t *testing.T) {
	if got := TargetFrame(250, 30, 30, 100); got != 50 {
		t.Fatalf("TargetFrame = %d, want 50", got)
	}
	if got := TargetFrame(120, 24, 60, 1000); got != 48 {
		t.Fatalf("TargetFrame = %d, want 48", got)
	}
	if got := TargetFrame(10, 30, 30, 0); got != 0 {
		t.Fatalf("TargetFrame = %d, want 0", got)
	}
}

type fakeSender struct {
	name string
	err  error
	sent [][]byte
}

func (f *fakeSender) String() string { return f.name }

func (f *fakeSender) Send(data []byte) error {
	f.sent = append(f.sent, data)
	return f.err
}

func decode(t *testing.T, data []byte) syncosc.Message {
	t.Helper()
	m, err := syncosc.Decode(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestEmitterTimeMode(t *testing.T) {
	var (
		player = &playbacktest.Recorder{Time: 7.25, Rate: 30, Frames: 300}
		a      = &fakeSender{name: "a"}
		b      = &fakeSender{name: "b"}
		e      = NewEmitter(syncosc.ModeTime, player, a, b).WithLogger(zerolog.Nop())
	)
	for tick := int64(1); tick < 60; tick++ {
		e.OnTick(tick, 60)
	}
	if len(a.sent) != 0 {
		t.Fatalf("sent %d messages on non-broadcast ticks", len(a.sent))
	}
	e.OnTick(60, 60)

	for _, s := range []*fakeSender{a, b} {
		if len(s.sent) != 1 {
			t.Fatalf("%s: sent %d messages, want 1", s.name, len(s.sent))
		}
		if got := decode(t, s.sent[0]); got != syncosc.Time(7.25) {
			t.Fatalf("%s: got %v", s.name, got)
		}
	}
	if len(player.Seeks) != 0 {
		t.Fatal("time mode must not seek the clock")
	}
}

func TestEmitterFrameModeSeeksClock(t *testing.T) {
	var (
		player = &playbacktest.Recorder{Rate: 30, Frames: 100}
		s      = &fakeSender{name: "s"}
		e      = NewEmitter(syncosc.ModeFrame, player, s).WithLogger(zerolog.Nop())
	)
	e.OnTick(270, 30)

	if len(player.Seeks) != 1 || player.Seeks[0].Frame == nil || *player.Seeks[0].Frame != 70 {
		t.Fatalf("seeks = %+v", player.Seeks)
	}
	if len(s.sent) != 1 {
		t.Fatalf("sent %d messages", len(s.sent))
	}
	if got := decode(t, s.sent[0]); got != syncosc.Frame(70) {
		t.Fatalf("got %v", got)
	}
}

func TestEmitterFrameModeWithoutFrames(t *testing.T) {
	s := &fakeSender{name: "s"}
	NewEmitter(syncosc.ModeFrame, &playbacktest.Recorder{Rate: 30}, s).WithLogger(zerolog.Nop()).OnTick(0, 30)
	if len(s.sent) != 0 {
		t.Fatal("expected nothing sent")
	}
}

func TestEmitterSendFailureDoesNotStopOthers(t *testing.T) {
	var (
		bad  = &fakeSender{name: "bad", err: errors.New("network is unreachable")}
		good = &fakeSender{name: "good"}
		e    = NewEmitter(syncosc.ModeTime, &playbacktest.Recorder{Time: 1}, bad, good).WithLogger(zerolog.Nop())
	)
	e.OnTick(0, 30)
	if len(good.sent) != 1 {
		t.Fatalf("good endpoint got %d messages", len(good.sent))
	}
}

func TestEndpointSend(t *testing.T) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	ep, err := Dial("127.0.0.1", conn.LocalAddr().(*net.UDPAddr).Port, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer ep.Close()

	data, err := syncosc.Encode(syncosc.Frame(12))
	if err != nil {
		t.Fatal(err)
	}
	if err := ep.Send(data); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 512)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := decode(t, buf[:n]); got != syncosc.Frame(12) {
		t.Fatalf("got %v", got)
	}
	if err := ep.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ep.Send(data); err == nil {
		t.Fatal("expected error sending on a closed endpoint")
	}
}

func TestEmitterFrameOutOfRange(t *testing.T) {
	var (
		player = &playbacktest.Recorder{Rate: 30, Frames: math.MaxInt32 + 100}
		s      = &fakeSender{name: "s"}
		e      = NewEmitter(syncosc.ModeFrame, player, s).WithLogger(zerolog.Nop())
	)
	// A broadcast tick whose frame is past the int32 range but inside the movie.
	const tick = 30 * (math.MaxInt32/30 + 1)
	e.OnTick(tick, 30)

	if len(s.sent) != 0 {
		t.Fatalf("sent %d messages, want 0", len(s.sent))
	}
	if len(player.Seeks) != 0 {
		t.Fatalf("seeks = %+v", player.Seeks)
	}

	// In range frames of the same movie still go out.
	e.OnTick(60, 30)
	if len(s.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(s.sent))
	}
	if got := decode(t, s.sent[0]); got != syncosc.Frame(60) {
		t.Fatalf("got %v", got)
	}
}
