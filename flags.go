package libmonado

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// ClientState is the bit set describing a client application's session.
type ClientState uint32

const (
	// ClientPrimaryApp: the client is the primary application.
	ClientPrimaryApp ClientState = 1 << iota
	// ClientSessionActive: the client's session is running.
	ClientSessionActive
	// ClientSessionVisible: the client's frames are visible.
	ClientSessionVisible
	// ClientSessionFocused: the client receives input.
	ClientSessionFocused
	// ClientSessionOverlay: the client is an overlay.
	ClientSessionOverlay
	// ClientIOActive: the client's input/output is enabled.
	ClientIOActive
)

var clientStateNames = []struct {
	flag ClientState
	name string
}{
	{ClientPrimaryApp, "PrimaryApp"},
	{ClientSessionActive, "SessionActive"},
	{ClientSessionVisible, "SessionVisible"},
	{ClientSessionFocused, "SessionFocused"},
	{ClientSessionOverlay, "SessionOverlay"},
	{ClientIOActive, "IOActive"},
}

// AllClientStates lists every known flag in bit order.
func AllClientStates() []ClientState {
	out := make([]ClientState, len(clientStateNames))
	for i, n := range clientStateNames {
		out[i] = n.flag
	}
	return out
}

// Has reports whether every bit of flag is set in s.
func (s ClientState) Has(flag ClientState) bool {
	return s&flag == flag
}

// Len returns the number of set bits.
func (s ClientState) Len() int {
	return bits.OnesCount32(uint32(s))
}

// Names returns the names of the set flags in bit order. Unknown bits are
// rendered as their hexadecimal value.
func (s ClientState) Names() []string {
	names := []string{}
	rest := s
	for _, n := range clientStateNames {
		if s.Has(n.flag) {
			names = append(names, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return names
}

// String joins the flag names with "|". An empty set prints as "(empty)".
func (s ClientState) String() string {
	if s == 0 {
		return "(empty)"
	}
	return strings.Join(s.Names(), "|")
}

// ParseClientState is the inverse of String. Names are matched without
// regard to case; hexadecimal values are accepted for unknown bits.
func ParseClientState(text string) (ClientState, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "(empty)" {
		return 0, nil
	}
	var s ClientState
	for _, part := range strings.Split(text, "|") {
		flag, err := parseClientFlag(strings.TrimSpace(part))
		if err != nil {
			return 0, err
		}
		s |= flag
	}
	return s, nil
}

func parseClientFlag(name string) (ClientState, error) {
	for _, n := range clientStateNames {
		if strings.EqualFold(n.name, name) {
			return n.flag, nil
		}
	}
	if strings.HasPrefix(name, "0x") {
		v, err := strconv.ParseUint(name[2:], 16, 32)
		if err == nil {
			return ClientState(v), nil
		}
	}
	return 0, fmt.Errorf("libmonado: unknown client state flag %q", name)
}

// MarshalJSON encodes the set as a list of flag names.
func (s ClientState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON accepts a list of flag names or a plain number.
func (s *ClientState) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		var raw uint32
		if numErr := json.Unmarshal(data, &raw); numErr != nil {
			return err
		}
		*s = ClientState(raw)
		return nil
	}
	var out ClientState
	for _, name := range names {
		flag, err := parseClientFlag(name)
		if err != nil {
			return err
		}
		out |= flag
	}
	*s = out
	return nil
}

// MarshalYAML encodes the set as a list of flag names.
func (s ClientState) MarshalYAML() (interface{}, error) {
	return s.Names(), nil
}

// Property selects a device property to query.
type Property int32

const (
	PropertyNameString   Property = 1
	PropertySerialString Property = 2
)

func (p Property) String() string {
	switch p {
	case PropertyNameString:
		return "NameString"
	case PropertySerialString:
		return "SerialString"
	default:
		return fmt.Sprintf("Property(%d)", int32(p))
	}
}
