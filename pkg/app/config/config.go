package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"rf433ook/pkg/ook"
	"rf433ook/pkg/transmitter"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"
)

var ErrInvalidPreset = errors.New("invalid transmitter preset")

// Config holds the application configuration.
// Config defines the struct of global config and the struct of the configuration file
type Config struct {
	Flag        FlagConfig        `yaml:"-"`
	Receiver    ReceiverConfig    `yaml:"receiver"`
	Transmitter TransmitterConfig `yaml:"transmitter"`
	Console     ConsoleConfig     `yaml:"console"`
	// Loopback connects the transmitter to the decoder instead of the gpio lines.
	Loopback  bool            `yaml:"loopback"`
	Debug     DebugConfig     `yaml:"debug"`
	Webserver WebserverConfig `yaml:"webserver"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
}

// FlagConfig defines the configured flags (parameters)
type FlagConfig struct {
	Debug      string
	ConfigFile string
}

// ReceiverConfig defines the gpio line of the receiver module and the decoder.
type ReceiverConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Chip        string        `yaml:"chip"`
	Gpio        int           `yaml:"gpio"`
	Terminator  string        `yaml:"terminator"`
	DebounceInt int           `yaml:"debounce"`
	Debounce    time.Duration `yaml:"-"`
	RingSize    int           `yaml:"ringsize"`
	PollInt     int           `yaml:"poll"`
	Poll        time.Duration `yaml:"-"`
	// History is the number of decode records kept for the data web service.
	History int `yaml:"history"`
}

// TransmitterConfig defines the gpio pin of the transmitter module and the pulse timing.
// A Preset >= 0 overwrites the Timing.
type TransmitterConfig struct {
	Enabled bool               `yaml:"enabled"`
	Gpio    int                `yaml:"gpio"`
	Silent  bool               `yaml:"silent"`
	Preset  int                `yaml:"preset"`
	Timing  transmitter.Config `yaml:"timing"`
}

// ConsoleConfig defines the line protocol input, stdin or a serial device.
// An empty device disables the console.
type ConsoleConfig struct {
	Device   string `yaml:"device"`
	BaudRate uint   `yaml:"baudrate"`
}

// WebserverConfig defines the struct of the webserver and webservice configuration and configuration file
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// MQTTConfig defines the struct of the mqtt client configuration and configuration file
type MQTTConfig struct {
	Connection string `yaml:"connection"`
	ClientID   string `yaml:"clientid"`
	Topic      string `yaml:"topic"`
}

// DebugConfig defines the struct of the debug configuration and configuration file
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

func NewConfig() *Config {
	return &Config{
		Flag: FlagConfig{},
		Receiver: ReceiverConfig{
			Enabled:    true,
			Chip:       "gpiochip0",
			Gpio:       27,
			Terminator: "none",
			RingSize:   ook.DefaultRingSize,
			PollInt:    10,
			History:    50,
		},
		Transmitter: TransmitterConfig{
			Enabled: true,
			Gpio:    17,
			Preset:  -1,
			Timing:  transmitter.DefaultConfig(),
		},
		Console: ConsoleConfig{
			BaudRate: 115200,
		},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Webserver: WebserverConfig{
			URL: "http://0.0.0.0:4000",
			Webservices: map[string]bool{
				"version":  true,
				"health":   true,
				"data":     true,
				"transmit": true,
			},
		},
		MQTT: MQTTConfig{
			ClientID: "rf433ook",
			Topic:    "rf433ook/code",
		},
	}
}

func (c *Config) LoadConfig() error {
	if err := c.readConfigFile(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
	}

	if c.Flag.Debug != "" {
		c.Debug.FlagString = c.Flag.Debug
	}
	if err := c.setDebugConfig(); err != nil {
		return fmt.Errorf("unable to open debug file %q: %w", c.Debug.FileString, err)
	}

	c.Receiver.Debounce = time.Duration(c.Receiver.DebounceInt) * time.Microsecond
	c.Receiver.Poll = time.Duration(c.Receiver.PollInt) * time.Millisecond
	if c.Receiver.Poll <= 0 {
		c.Receiver.Poll = 10 * time.Millisecond
	}
	if c.Receiver.RingSize <= 0 {
		c.Receiver.RingSize = ook.DefaultRingSize
	}

	return c.setTransmitterConfig()
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(c); err != nil {
		return err
	}

	return nil
}

func (c *Config) setTransmitterConfig() error {
	t := &c.Transmitter

	if t.Preset >= len(transmitter.Presets) {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, t.Preset)
	}
	if t.Preset >= 0 {
		t.Timing = transmitter.Presets[t.Preset].Config
	}

	if err := t.Timing.Validate(); err != nil {
		return fmt.Errorf("transmitter timing: %w", err)
	}
	return nil
}

func (c *Config) setDebugConfig() (err error) {
	// defines Debug section of global.Config
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = os.Stderr
	case "stdout":
		c.Debug.File = os.Stdout
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}
