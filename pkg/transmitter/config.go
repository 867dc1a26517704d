package transmitter

import (
	"errors"
	"fmt"
)

// Limits of the configuration values in microseconds.
const (
	MaxPreambleUS = 10000
	MaxBitUS      = 5000
	MaxPauseUS    = 50000
	MaxRepeat     = 20
)

var ErrInvalidConfig = errors.New("invalid transmitter config")

// Config holds the timing of a transmission in microseconds.
type Config struct {
	PrePauseTime   uint32    `yaml:"prepause"`
	InterPauseTime uint32    `yaml:"interpause"`
	PostPauseTime  uint32    `yaml:"postpause"`
	PreambleTime   [2]uint32 `yaml:"preamble"`
	BitTime        [2]uint32 `yaml:"bits"`
	Repeat         uint32    `yaml:"repeat"`
}

// Preset is a named timing.
type Preset struct {
	Name   string
	Config Config
}

// Presets are the timings of the HomeEasy remotes, selected with "S=<index>".
var Presets = []Preset{
	{Name: "HomeEasyV1A", Config: preset(3960, [2]uint32{0, 0}, [2]uint32{308, 956}, 5)},
	{Name: "HomeEasyV1", Config: preset(8800, [2]uint32{0, 0}, [2]uint32{292, 980}, 5)},
	{Name: "HomeEasyV2", Config: preset(9828, [2]uint32{0, 0}, [2]uint32{244, 1372}, 5)},
	{Name: "HomeEasyV2A", Config: preset(8912, [2]uint32{172, 2582}, [2]uint32{220, 1304}, 5)},
}

func preset(pause uint32, preamble, bits [2]uint32, repeat uint32) Config {
	return Config{
		PrePauseTime:   pause,
		InterPauseTime: pause,
		PostPauseTime:  pause,
		PreambleTime:   preamble,
		BitTime:        bits,
		Repeat:         repeat,
	}
}

// DefaultConfig returns the power-on configuration.
func DefaultConfig() Config {
	return Config{
		PrePauseTime:   10000,
		InterPauseTime: 10000,
		PostPauseTime:  10000,
		BitTime:        [2]uint32{300, 900},
		Repeat:         5,
	}
}

// Validate checks the limits of all values.
func (c Config) Validate() error {
	switch {
	case c.PrePauseTime > MaxPauseUS, c.InterPauseTime > MaxPauseUS, c.PostPauseTime > MaxPauseUS:
		return fmt.Errorf("%w: pause exceeds %dµs", ErrInvalidConfig, MaxPauseUS)
	case c.PreambleTime[0] > MaxPreambleUS, c.PreambleTime[1] > MaxPreambleUS:
		return fmt.Errorf("%w: preamble exceeds %dµs", ErrInvalidConfig, MaxPreambleUS)
	case c.BitTime[0] > MaxBitUS, c.BitTime[1] > MaxBitUS:
		return fmt.Errorf("%w: bit exceeds %dµs", ErrInvalidConfig, MaxBitUS)
	case c.Repeat == 0 || c.Repeat > MaxRepeat:
		return fmt.Errorf("%w: repeat must be 1..%d", ErrInvalidConfig, MaxRepeat)
	}
	return nil
}

// String renders the configuration in the compact console notation.
func (c Config) String() string {
	return fmt.Sprintf("{prePauseTime: %d,interPauseTime: %d,postPauseTime: %d,preambleTime: [%d,%d],zeroBitDuration: %d,oneBitDuration: %d,repeat: %d}",
		c.PrePauseTime, c.InterPauseTime, c.PostPauseTime,
		c.PreambleTime[0], c.PreambleTime[1],
		c.BitTime[0], c.BitTime[1], c.Repeat)
}
