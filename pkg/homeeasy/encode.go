package homeeasy

import (
	"errors"
	"fmt"
	"strings"
)

// Transmitter presets matching the protocol timings.
const (
	PresetV1A = 0
	PresetV2A = 3
)

// NoDevice addresses the whole group.
const NoDevice = -1

// NoDimLevel sends a plain on/off command.
const NoDimLevel = -1

// sync is the packed trailing "01" sent after the last symbol.
const sync = "+5"

var (
	ErrInvalidGroup    = errors.New("invalid group")
	ErrInvalidDevice   = errors.New("invalid device")
	ErrInvalidDimLevel = errors.New("invalid dim level")
)

// EncodeV1A returns the code literal of a HomeEasyV1A command.
// Group is 0..15, device is 0..15 or NoDevice for a group command.
func EncodeV1A(group, device int, on bool) (string, error) {
	if group < 0 || group > 15 {
		return "", fmt.Errorf("%w: %d", ErrInvalidGroup, group)
	}
	if device != NoDevice && (device < 0 || device > 15) {
		return "", fmt.Errorf("%w: %d", ErrInvalidDevice, device)
	}

	cmd := "11"
	if device == NoDevice {
		device, cmd = 1, "02"
	}

	symbols := fmt.Sprintf("%04b%04b0%s%s", group, device, cmd, onBit(on))
	return encode(symbols, "56A"), nil
}

// EncodeV2A returns the code literal of a HomeEasyV2A command.
// Group is 26 bits, device is 0..15 or NoDevice for a group command,
// level is 0..100 or NoDimLevel.
func EncodeV2A(group uint32, device int, on bool, level int) (string, error) {
	if group >= 1<<26 {
		return "", fmt.Errorf("%w: %d", ErrInvalidGroup, group)
	}
	if device != NoDevice && (device < 0 || device > 15) {
		return "", fmt.Errorf("%w: %d", ErrInvalidDevice, device)
	}
	if level != NoDimLevel && (level < 0 || level > 100) {
		return "", fmt.Errorf("%w: %d", ErrInvalidDimLevel, level)
	}

	groupFlag := "0"
	if device == NoDevice {
		device, groupFlag = 1, "1"
	}

	action := onBit(on)
	if on && level != NoDimLevel {
		action = "2"
	}

	symbols := fmt.Sprintf("%026b%s%s%04b", group, groupFlag, action, device)
	if level != NoDimLevel {
		symbols += fmt.Sprintf("%04b", (level*10/66)%16)
	}
	return encode(symbols, "140"), nil
}

func onBit(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

// encode maps the symbols '0', '1', '2' to the hex digits in digits.
func encode(symbols, digits string) string {
	var sb strings.Builder

	for i := 0; i < len(symbols); i++ {
		sb.WriteByte(digits[symbols[i]-'0'])
	}
	sb.WriteString(sync)
	return sb.String()
}
