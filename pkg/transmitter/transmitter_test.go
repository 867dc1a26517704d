package transmitter_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"rf433ook/pkg/homeeasy"
	"rf433ook/pkg/ook"
	"rf433ook/pkg/port"
	"rf433ook/pkg/raspberry"
	"rf433ook/pkg/transmitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/womat/debug"
)

func TestMain(m *testing.M) {
	debug.SetDebug(os.Stderr, debug.Standard)
	os.Exit(m.Run())
}

// stepClock advances one microsecond per reading.
type stepClock struct {
	now uint32
}

func (c *stepClock) Now() uint32 {
	c.now++
	return c.now
}

// recordPin records the level changes.
type recordPin struct {
	level bool
	edges int
}

func (p *recordPin) Set(high bool) {
	if high != p.level {
		p.level = high
		p.edges++
	}
}

// loopback connects a transmitter to a decoder.
func loopback(config transmitter.Config) (*transmitter.Transmitter, *ook.Decoder) {
	clock := &stepClock{}
	decoder := ook.NewDecoder(ook.DefaultRingSize)
	pin := raspberry.NewEmuPin(clock, func(evt port.Event) {
		decoder.OnEdge(evt.Micros())
	})
	return transmitter.New(pin, clock, config, true), decoder
}

func popAll(t *testing.T, d *ook.Decoder) []ook.Code {
	var codes []ook.Code
	for {
		c, ok := d.Pop()
		if !ok {
			return codes
		}
		require.True(t, c.Finalise())
		codes = append(codes, c)
	}
}

func TestTransmitHomeEasyV1A(t *testing.T) {
	literal, err := homeeasy.EncodeV1A(5, 3, true)
	require.NoError(t, err)
	code, err := ook.ParseCode(literal)
	require.NoError(t, err)

	tx, decoder := loopback(transmitter.Presets[1].Config)
	tx.Transmit(&code)

	codes := popAll(t, decoder)
	require.Len(t, codes, 5)
	for i, c := range codes {
		assert.Equal(t, literal, c.String())
		assert.Equal(t, i == 0, c.PrePauseStandalone)

		r := c.Record()
		require.NotNil(t, r.Decode)
		require.NotNil(t, r.Decode.HomeEasyV1A)
		assert.Equal(t, homeeasy.ActionOn, r.Decode.HomeEasyV1A.Action)
		assert.Equal(t, uint32(292), r.ZeroBitDuration)
		assert.Equal(t, uint32(980), r.OneBitDuration)
	}
	assert.Equal(t, uint64(5), decoder.Stats().Completed)
}

func TestTransmitHomeEasyV2A(t *testing.T) {
	literal, err := homeeasy.EncodeV2A(12345, 2, true, 50)
	require.NoError(t, err)
	code, err := ook.ParseCode(literal)
	require.NoError(t, err)

	config := transmitter.Presets[homeeasy.PresetV2A].Config
	config.Repeat = 2
	tx, decoder := loopback(config)
	tx.Transmit(&code)

	codes := popAll(t, decoder)
	require.Len(t, codes, 2)
	for _, c := range codes {
		assert.Equal(t, literal, c.String())
		// the long second preamble pulse is not a bit
		assert.Equal(t, [2]uint32{172, 2582}, c.PreambleTime)

		r := c.Record()
		require.NotNil(t, r.Decode)
		m := r.Decode.HomeEasyV2A
		require.NotNil(t, m)
		require.NotNil(t, m.Group)
		require.NotNil(t, m.DimLevel)
		assert.Equal(t, uint32(12345), *m.Group)
		assert.Equal(t, homeeasy.ActionDim, m.Action)
		// the 16 dim steps of the protocol quantise level 50 to 46
		assert.Equal(t, uint8(46), *m.DimLevel)
	}
}

func TestTransmitCodePreamble(t *testing.T) {
	code, err := ook.ParseCode("172-2582-11111111111144111111444114141141+5")
	require.NoError(t, err)

	// the preamble of the code replaces the configured one
	config := transmitter.Presets[homeeasy.PresetV2A].Config
	config.PreambleTime = [2]uint32{}
	config.Repeat = 1
	tx, decoder := loopback(config)
	tx.Transmit(&code)

	codes := popAll(t, decoder)
	require.Len(t, codes, 1)
	assert.Equal(t, [2]uint32{172, 2582}, codes[0].PreambleTime)
	assert.Equal(t, "11111111111144111111444114141141+5", codes[0].String())
}

func TestTransmitEdges(t *testing.T) {
	code, err := ook.ParseCode("565655665666+5")
	require.NoError(t, err)

	pin := &recordPin{}
	config := transmitter.Presets[0].Config
	config.Repeat = 3
	tx := transmitter.New(pin, &stepClock{}, config, true)
	tx.Transmit(&code)

	// one edge per bit, the last bit of each repeat is low and runs into the pause
	assert.Equal(t, 3*code.Len(), pin.edges)
	assert.False(t, pin.level)
}

func TestProcessLineConfig(t *testing.T) {
	tx := transmitter.New(&recordPin{}, &stepClock{}, transmitter.DefaultConfig(), false)
	var out bytes.Buffer

	tx.ProcessLine("S=1,?", &out)
	assert.Equal(t, "config: {prePauseTime: 8800,interPauseTime: 8800,postPauseTime: 8800,preambleTime: [0,0],"+
		"zeroBitDuration: 292,oneBitDuration: 980,repeat: 5}\n", out.String())

	out.Reset()
	tx.ProcessLine("0=250, 1=750,H=100,L=3000,R=2,P=5000,B=6000,A=7000", &out)
	assert.Equal(t, transmitter.Config{
		PrePauseTime:   6000,
		InterPauseTime: 5000,
		PostPauseTime:  7000,
		PreambleTime:   [2]uint32{100, 3000},
		BitTime:        [2]uint32{250, 750},
		Repeat:         2,
	}, tx.Config())
	assert.True(t, strings.HasPrefix(out.String(), "config: "))

	out.Reset()
	tx.ProcessLine("I=4000", &out)
	assert.Equal(t, uint32(4000), tx.Config().InterPauseTime)
}

func TestProcessLineInvalid(t *testing.T) {
	tx := transmitter.New(&recordPin{}, &stepClock{}, transmitter.DefaultConfig(), false)
	var out bytes.Buffer

	tx.ProcessLine("0=5001,H=10001,R=0,R=21,P=50001,S=4,X=1,1=abc,xyz,5656", &out)
	assert.Equal(t, transmitter.DefaultConfig(), tx.Config())
	assert.Empty(t, out.String())
}

func TestProcessLineTransmit(t *testing.T) {
	pin := &recordPin{}
	tx := transmitter.New(pin, &stepClock{}, transmitter.DefaultConfig(), false)
	var out bytes.Buffer

	tx.ProcessLine("R=1,565655665666+5", &out)
	assert.Equal(t, "config: {prePauseTime: 10000,interPauseTime: 10000,postPauseTime: 10000,preambleTime: [0,0],"+
		"zeroBitDuration: 300,oneBitDuration: 900,repeat: 1}\n"+
		`transmit: {code: "565655665666+5",decode: {HomeEasyV1A: {code: "010100110111",group: 5,device: 3,action: "on"}}}`+"\n",
		out.String())
	assert.Equal(t, 50, pin.edges)
}

func TestProcessLineSilent(t *testing.T) {
	tx := transmitter.New(&recordPin{}, &stepClock{}, transmitter.DefaultConfig(), true)
	var out bytes.Buffer

	tx.ProcessLine("R=1,?,565655665666+5", &out)
	assert.Empty(t, out.String())
	assert.Equal(t, uint32(1), tx.Config().Repeat)
}

func TestProcessInput(t *testing.T) {
	tx := transmitter.New(&recordPin{}, &stepClock{}, transmitter.DefaultConfig(), false)
	var out bytes.Buffer

	in := strings.NewReader("R=2\r\n" + "R=3," + strings.Repeat("?", transmitter.MaxLineLength) + "\n" + "?\n")
	err := tx.ProcessInput(in, &out)

	assert.Error(t, err)
	// the long line is dropped completely
	assert.Equal(t, uint32(2), tx.Config().Repeat)
	assert.Equal(t, 2, strings.Count(out.String(), "config: "))
}

func TestSetConfig(t *testing.T) {
	tx := transmitter.New(&recordPin{}, &stepClock{}, transmitter.DefaultConfig(), true)

	assert.ErrorIs(t, tx.SetConfig(transmitter.Config{Repeat: 0}), transmitter.ErrInvalidConfig)
	assert.ErrorIs(t, tx.SetConfig(transmitter.Config{Repeat: 1, BitTime: [2]uint32{0, 5001}}), transmitter.ErrInvalidConfig)

	for _, p := range transmitter.Presets {
		require.NoError(t, tx.SetConfig(p.Config), p.Name)
		assert.Equal(t, p.Config, tx.Config())
	}
}
