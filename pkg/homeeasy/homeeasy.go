// Package homeeasy decodes and encodes the HomeEasy remote control protocols.
//
// Both protocols send ternary symbols, each symbol is one hex digit of the
// received code. The decoders take the code in the textual form produced by
// ook.Code.String (hex digits, optionally "+" and the packed trailing bits)
// and report false if the code does not fit the protocol.
package homeeasy

import (
	"strings"
)

// Action is the command sent to a device.
type Action string

const (
	ActionUnknown  Action = ""
	ActionOn       Action = "on"
	ActionOff      Action = "off"
	ActionDim      Action = "dim"
	ActionGroupOn  Action = "group on"
	ActionGroupOff Action = "group off"
	ActionGroupDim Action = "group dim"
)

// V1A is a decoded HomeEasyV1A message.
type V1A struct {
	// Symbols are the ternary symbols ('0', '1', '2').
	Symbols string `json:"code"`
	Group   *uint8 `json:"group,omitempty"`
	Device  *uint8 `json:"device,omitempty"`
	Action  Action `json:"action,omitempty"`
}

// V2A is a decoded HomeEasyV2A message.
type V2A struct {
	// Symbols are the ternary symbols ('0', '1', '2').
	Symbols string  `json:"code"`
	Group   *uint32 `json:"group,omitempty"`
	Device  *uint8  `json:"device,omitempty"`
	Action  Action  `json:"action,omitempty"`
	// DimLevel is scaled to 0..100, only present in 36 symbol messages.
	DimLevel *uint8 `json:"dimLevel,omitempty"`
}

var (
	v1aSymbols = map[byte]byte{'5': '0', '6': '1', 'A': '2'}
	v2aSymbols = map[byte]byte{'1': '0', '4': '1', '0': '2'}

	v1aActions = map[string]Action{
		"0111": ActionOn,
		"0110": ActionOff,
		"0021": ActionGroupOn,
		"0020": ActionGroupOff,
	}
)

// DecodeV1A decodes a HomeEasyV1A message: 12 symbols and a short sync bit.
func DecodeV1A(code string) (V1A, bool) {
	var m V1A

	hex, count, value, ok := split(code)
	if !ok || len(hex) != 12 || !syncBit(count, value) {
		return m, false
	}

	if m.Symbols, ok = ternary(hex, v1aSymbols); !ok {
		return m, false
	}

	if v, ok := binary(m.Symbols[0:4]); ok {
		group := uint8(v)
		m.Group = &group
	}

	if v, ok := binary(m.Symbols[4:8]); ok {
		device := uint8(v)
		m.Device = &device
	}

	m.Action = v1aActions[m.Symbols[8:12]]
	return m, true
}

// DecodeV2A decodes a HomeEasyV2A message: 32 symbols (36 with a dim level)
// and a short sync bit.
func DecodeV2A(code string) (V2A, bool) {
	var m V2A

	hex, count, value, ok := split(code)
	if !ok || (len(hex) != 32 && len(hex) != 36) || !(count%2 == 1 && value&1 == 0 || syncBit(count, value)) {
		return m, false
	}

	if m.Symbols, ok = ternary(hex, v2aSymbols); !ok {
		return m, false
	}

	if v, ok := binary(m.Symbols[0:26]); ok {
		group := uint32(v)
		m.Group = &group
	}

	switch m.Symbols[27] {
	case '0':
		m.Action = ActionOff
	case '1':
		m.Action = ActionOn
	case '2':
		m.Action = ActionDim
	}

	switch m.Symbols[26] {
	case '0':
	case '1':
		m.Action = "group " + m.Action
	default:
		m.Action = ActionUnknown
	}

	if v, ok := binary(m.Symbols[28:32]); ok {
		device := uint8(v)
		m.Device = &device
	}

	if len(m.Symbols) == 36 {
		if v, ok := binary(m.Symbols[32:36]); ok {
			level := uint8(v * 67 / 10)
			m.DimLevel = &level
		}
	}

	return m, true
}

// split separates the hex digits from the packed trailing bits.
func split(code string) (hex string, count int, value uint8, ok bool) {
	i := strings.IndexByte(code, '+')
	if i < 0 {
		return code, 0, 0, true
	}

	hex = code[:i]
	if len(code) != i+2 {
		return hex, 0, 0, false
	}

	var packed uint8
	switch c := code[i+1]; {
	case c >= '0' && c <= '9':
		packed = c - '0'
	case c >= 'A' && c <= 'F':
		packed = c - 'A' + 10
	default:
		return hex, 0, 0, false
	}

	switch {
	case packed&0x8 != 0:
		return hex, 3, packed & 0x7, true
	case packed&0x4 != 0:
		return hex, 2, packed & 0x3, true
	case packed&0x2 != 0:
		return hex, 1, packed & 0x1, true
	}
	return hex, 0, 0, true
}

// syncBit reports whether the trailing bits are the short sync bit, either
// alone or followed by the guessed final bit of a finalised code.
func syncBit(count int, value uint8) bool {
	return count == 1 && value == 0 || count == 2 && value == 1
}

// ternary maps every hex digit to its symbol.
func ternary(hex string, symbols map[byte]byte) (string, bool) {
	var sb strings.Builder

	for i := 0; i < len(hex); i++ {
		s, ok := symbols[hex[i]]
		if !ok {
			return "", false
		}
		sb.WriteByte(s)
	}
	return sb.String(), true
}

// binary converts binary symbols, MSB first. It fails on a '2'.
func binary(symbols string) (uint64, bool) {
	var v uint64

	for i := 0; i < len(symbols); i++ {
		switch symbols[i] {
		case '0':
			v <<= 1
		case '1':
			v = v<<1 | 1
		default:
			return 0, false
		}
	}
	return v, true
}
