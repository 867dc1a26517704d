package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rf433ook/pkg/transmitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/womat/debug"
)

func writeConfig(t *testing.T, content string) string {
	name := filepath.Join(t.TempDir(), "rf433ook.yaml")
	require.NoError(t, os.WriteFile(name, []byte(content), 0o600))
	return name
}

func TestLoadConfig(t *testing.T) {
	c := NewConfig()
	c.Flag.ConfigFile = writeConfig(t, `
receiver:
  gpio: 22
  terminator: pulldown
  debounce: 50
  ringsize: 32
  poll: 20
transmitter:
  gpio: 4
  preset: 3
console:
  device: /dev/ttyUSB0
  baudrate: 57600
debug:
  file: stdout
  flag: debug
mqtt:
  connection: tcp://127.0.0.1:1883
  topic: home/rf433
`)
	c.Flag.Debug = "trace"

	require.NoError(t, c.LoadConfig())

	assert.Equal(t, 22, c.Receiver.Gpio)
	assert.Equal(t, "gpiochip0", c.Receiver.Chip)
	assert.Equal(t, "pulldown", c.Receiver.Terminator)
	assert.Equal(t, 50*time.Microsecond, c.Receiver.Debounce)
	assert.Equal(t, 32, c.Receiver.RingSize)
	assert.Equal(t, 20*time.Millisecond, c.Receiver.Poll)
	assert.Equal(t, transmitter.Presets[3].Config, c.Transmitter.Timing)
	assert.Equal(t, "/dev/ttyUSB0", c.Console.Device)
	assert.Equal(t, uint(57600), c.Console.BaudRate)
	assert.Equal(t, "home/rf433", c.MQTT.Topic)
	assert.Equal(t, "rf433ook", c.MQTT.ClientID)
	assert.True(t, c.Webserver.Webservices["transmit"])

	// the command line flag overrides the file
	assert.Equal(t, debug.Full, c.Debug.Flag)
	assert.Equal(t, os.Stdout, c.Debug.File)
}

func TestLoadConfigTiming(t *testing.T) {
	c := NewConfig()
	c.Flag.ConfigFile = writeConfig(t, `
transmitter:
  timing:
    prepause: 5000
    interpause: 6000
    postpause: 7000
    preamble: [100, 2000]
    bits: [250, 750]
    repeat: 3
`)

	require.NoError(t, c.LoadConfig())
	assert.Equal(t, transmitter.Config{
		PrePauseTime:   5000,
		InterPauseTime: 6000,
		PostPauseTime:  7000,
		PreambleTime:   [2]uint32{100, 2000},
		BitTime:        [2]uint32{250, 750},
		Repeat:         3,
	}, c.Transmitter.Timing)
}

func TestLoadConfigErrors(t *testing.T) {
	c := NewConfig()
	c.Flag.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")
	assert.Error(t, c.LoadConfig())

	c = NewConfig()
	c.Flag.ConfigFile = writeConfig(t, "transmitter:\n  preset: 4\n")
	assert.ErrorIs(t, c.LoadConfig(), ErrInvalidPreset)

	c = NewConfig()
	c.Flag.ConfigFile = writeConfig(t, "transmitter:\n  timing:\n    bits: [300, 6000]\n")
	assert.ErrorIs(t, c.LoadConfig(), transmitter.ErrInvalidConfig)
}
