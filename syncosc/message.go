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

package syncosc

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
	"github.com/scgolang/osc"
)

// ErrNotEncodable is returned when encoding a message that can not be sent.
var ErrNotEncodable = errors.New("only time and frame messages can be encoded")

// Message is a decoded sync message.
// It is one of Time, Frame, Unknown or Mismatch.
type Message interface {
	Address() string
	isMessage()
}

// Time is an absolute playback position in seconds.
type Time float32

// Frame is an absolute frame index.
type Frame int32

// Unknown is a message whose address is not a sync address.
type Unknown struct {
	Addr string
}

// Mismatch is a message with a sync address whose argument
// is missing or has the wrong type.
type Mismatch struct {
	Addr string
	Want string
}

// Address returns AddressTime.
func (Time) Address() string { return AddressTime }

// Address returns AddressFrame.
func (Frame) Address() string { return AddressFrame }

// Address returns the address the message arrived with.
func (u Unknown) Address() string { return u.Addr }

// Address returns the address the message arrived with.
func (m Mismatch) Address() string { return m.Addr }

func (Time) isMessage()     {}
func (Frame) isMessage()    {}
func (Unknown) isMessage()  {}
func (Mismatch) isMessage() {}

func (t Time) String() string     { return fmt.Sprintf("%s %g", AddressTime, float32(t)) }
func (f Frame) String() string    { return fmt.Sprintf("%s %d", AddressFrame, int32(f)) }
func (u Unknown) String() string  { return u.Addr + " (unknown address)" }
func (m Mismatch) String() string { return fmt.Sprintf("%s (expected %s argument)", m.Addr, m.Want) }

// OSC converts a Time or Frame to an OSC message.
func OSC(m Message) (osc.Message, error) {
	switch v := m.(type) {
	case Time:
		return osc.Message{
			Address:   AddressTime,
			Arguments: osc.Arguments{osc.Float(float32(v))},
		}, nil
	case Frame:
		return osc.Message{
			Address:   AddressFrame,
			Arguments: osc.Arguments{osc.Int(int32(v))},
		}, nil
	}
	return osc.Message{}, errors.Wrapf(ErrNotEncodable, "encoding %s", m.Address())
}

// Encode returns the wire form of a Time or Frame message.
func Encode(m Message) ([]byte, error) {
	om, err := OSC(m)
	if err != nil {
		return nil, err
	}
	return om.Bytes(), nil
}

// Decode parses a datagram.
// An error is only returned if data is not an OSC message at all;
// unknown addresses and bad arguments decode to Unknown and Mismatch.
func Decode(data []byte, sender net.Addr) (m Message, err error) {
	// OSC packets are always a multiple of 4 bytes.
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, errors.Errorf("malformed OSC message: %d bytes", len(data))
	}
	// osc.ParseMessage indexes past the end of truncated input.
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, errors.Errorf("malformed OSC message: %v", r)
		}
	}()
	om, err := osc.ParseMessage(data, sender)
	if err != nil {
		return nil, errors.Wrap(err, "parsing OSC message")
	}
	return FromOSC(om), nil
}

// FromOSC classifies an OSC message.
func FromOSC(m osc.Message) Message {
	switch m.Address {
	case AddressTime:
		if len(m.Arguments) < 1 {
			return Mismatch{Addr: m.Address, Want: "float"}
		}
		f, err := m.Arguments[0].ReadFloat32()
		if err != nil {
			return Mismatch{Addr: m.Address, Want: "float"}
		}
		return Time(f)
	case AddressFrame:
		if len(m.Arguments) < 1 {
			return Mismatch{Addr: m.Address, Want: "int"}
		}
		n, err := m.Arguments[0].ReadInt32()
		if err != nil {
			return Mismatch{Addr: m.Address, Want: "int"}
		}
		return Frame(n)
	}
	return Unknown{Addr: m.Address}
}
