package transmitter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rf433ook/pkg/ook"

	"github.com/womat/debug"
)

// MaxLineLength is the longest console line processed, longer lines are dropped.
const MaxLineLength = 100

// ProcessInput reads console lines from r until it fails, processing each
// line with ProcessLine. Lines end with '\r' or '\n'.
func (t *Transmitter) ProcessInput(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	line := make([]byte, 0, MaxLineLength)
	valid := true

	for {
		c, err := br.ReadByte()
		if err != nil {
			return err
		}

		switch c {
		case '\r', '\n':
			if valid && len(line) > 0 {
				t.ProcessLine(string(line), w)
			} else if !valid {
				debug.ErrorLog.Printf("console line longer than %d characters dropped", MaxLineLength)
			}
			line = line[:0]
			valid = true
		default:
			if len(line) >= MaxLineLength {
				valid = false
			} else {
				line = append(line, c)
			}
		}
	}
}

// ProcessLine processes a line of comma separated tokens. Each token is a
// configuration directive "<field>=<value>", "?" to print the configuration,
// or a code literal to transmit. Invalid tokens are ignored.
//
//  0=, 1=   0-bit and 1-bit duration
//  H=, L=   preamble high and low duration
//  R=       repeat count
//  P=       all pauses
//  B=, I=, A= pause before, between and after the repeats
//  S=       preset
func (t *Transmitter) ProcessLine(line string, w io.Writer) {
	configured := false

	for _, token := range strings.Split(line, ",") {
		token = strings.TrimSpace(token)

		switch {
		case token == "":
			continue

		case token[0] == '?':
			configured = true

		case len(token) > 2 && token[1] == '=':
			value, err := strconv.ParseUint(token[2:], 10, 32)
			if err != nil {
				debug.DebugLog.Printf("ignore directive %q: %v", token, err)
				continue
			}
			if t.configure(token[0], uint32(value)) {
				configured = true
			} else {
				debug.DebugLog.Printf("ignore directive %q", token)
			}

		default:
			code, err := ook.ParseCode(token)
			if configured {
				t.printConfig(w)
				configured = false
			}

			if err != nil {
				debug.DebugLog.Printf("ignore code %q: %v", token, err)
				continue
			}

			if !t.silent {
				fmt.Fprintf(w, "transmit: %v\n", code.Record())
			}
			debug.InfoLog.Printf("transmit %v", code.String())
			t.Transmit(&code)
		}
	}

	if configured {
		t.printConfig(w)
	}
}

// configure applies a directive and reports whether the value was accepted.
func (t *Transmitter) configure(field byte, value uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := &t.config

	switch field {
	case '0', '1':
		if value > MaxBitUS {
			return false
		}
		c.BitTime[field-'0'] = value
	case 'H':
		if value > MaxPreambleUS {
			return false
		}
		c.PreambleTime[0] = value
	case 'L':
		if value > MaxPreambleUS {
			return false
		}
		c.PreambleTime[1] = value
	case 'R':
		if value == 0 || value > MaxRepeat {
			return false
		}
		c.Repeat = value
	case 'P':
		if value > MaxPauseUS {
			return false
		}
		c.PrePauseTime, c.InterPauseTime, c.PostPauseTime = value, value, value
	case 'B':
		if value > MaxPauseUS {
			return false
		}
		c.PrePauseTime = value
	case 'I':
		if value > MaxPauseUS {
			return false
		}
		c.InterPauseTime = value
	case 'A':
		if value > MaxPauseUS {
			return false
		}
		c.PostPauseTime = value
	case 'S':
		if value >= uint32(len(Presets)) {
			return false
		}
		*c = Presets[value].Config
	default:
		return false
	}

	return true
}

func (t *Transmitter) printConfig(w io.Writer) {
	if !t.silent {
		fmt.Fprintf(w, "config: %v\n", t.Config())
	}
}
