package ook

import (
	"fmt"
	"strings"
	"time"

	"rf433ook/pkg/homeeasy"
)

// Record is the decode record of a code, for logging and publishing.
type Record struct {
	TimeStamp time.Time `json:"timestamp"`
	Code      string    `json:"code"`
	Preamble  []uint32  `json:"preamble,omitempty"`
	Duration  uint32    `json:"duration,omitempty"`
	// PrePause is "standalone" or "following".
	PrePause string `json:"prePause,omitempty"`
	// PostPause is "present" or "missing".
	PostPause       string  `json:"postPause,omitempty"`
	PrePauseTime    uint32  `json:"prePauseTime,omitempty"`
	PostPauseTime   uint32  `json:"postPauseTime,omitempty"`
	ZeroBitDuration uint32  `json:"zeroBitDuration,omitempty"`
	OneBitDuration  uint32  `json:"oneBitDuration,omitempty"`
	Decode          *Decode `json:"decode,omitempty"`
}

// Decode holds the protocol decodes that matched a code.
type Decode struct {
	HomeEasyV1A *homeeasy.V1A `json:"HomeEasyV1A,omitempty"`
	HomeEasyV2A *homeeasy.V2A `json:"HomeEasyV2A,omitempty"`
}

// Record builds the decode record. Protocol decoders run only on codes
// terminated by a pause.
func (c *Code) Record() Record {
	r := Record{
		TimeStamp: time.Now(),
		Code:      c.String(),
	}

	if c.HasPreamble() {
		r.Preamble = []uint32{c.PreambleTime[0], c.PreambleTime[1]}
	}

	if c.Duration != 0 {
		r.Duration = c.Duration
		r.PrePause = "following"
		if c.PrePauseStandalone {
			r.PrePause = "standalone"
		}
		r.PostPause = "missing"
		if c.PostPausePresent {
			r.PostPause = "present"
		}
		r.PrePauseTime = c.PrePauseTime
		r.PostPauseTime = c.PostPauseTime

		t := c.BitTime()
		r.ZeroBitDuration = t[0]
		r.OneBitDuration = t[1]
	}

	if c.PostPausePresent {
		r.Decode = &Decode{}
		if m, ok := homeeasy.DecodeV1A(r.Code); ok {
			r.Decode.HomeEasyV1A = &m
		}
		if m, ok := homeeasy.DecodeV2A(r.Code); ok {
			r.Decode.HomeEasyV2A = &m
		}
	}

	return r
}

// String renders the record in the compact console notation.
func (r Record) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "{code: %q", r.Code)
	if len(r.Preamble) == 2 {
		fmt.Fprintf(&sb, ",preamble: [%d,%d]", r.Preamble[0], r.Preamble[1])
	}

	if r.Duration != 0 {
		fmt.Fprintf(&sb, ",duration: %d,prePause: %q,postPause: %q", r.Duration, r.PrePause, r.PostPause)
		if r.PrePauseTime != 0 {
			fmt.Fprintf(&sb, ",prePauseTime: %d", r.PrePauseTime)
		}
		if r.PostPauseTime != 0 {
			fmt.Fprintf(&sb, ",postPauseTime: %d", r.PostPauseTime)
		}
		if r.ZeroBitDuration != 0 {
			fmt.Fprintf(&sb, ",zeroBitDuration: %d", r.ZeroBitDuration)
		}
		if r.OneBitDuration != 0 {
			fmt.Fprintf(&sb, ",oneBitDuration: %d", r.OneBitDuration)
		}
	}

	if r.Decode != nil {
		var decodes []string
		if m := r.Decode.HomeEasyV1A; m != nil {
			var group *uint64
			if m.Group != nil {
				g := uint64(*m.Group)
				group = &g
			}
			decodes = append(decodes, "HomeEasyV1A: "+fields(m.Symbols, group, m.Device, m.Action, nil))
		}
		if m := r.Decode.HomeEasyV2A; m != nil {
			var group *uint64
			if m.Group != nil {
				g := uint64(*m.Group)
				group = &g
			}
			decodes = append(decodes, "HomeEasyV2A: "+fields(m.Symbols, group, m.Device, m.Action, m.DimLevel))
		}
		fmt.Fprintf(&sb, ",decode: {%s}", strings.Join(decodes, ","))
	}

	sb.WriteByte('}')
	return sb.String()
}

func fields(symbols string, group *uint64, device *uint8, action homeeasy.Action, level *uint8) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "{code: %q", symbols)
	if group != nil {
		fmt.Fprintf(&sb, ",group: %d", *group)
	}
	if device != nil {
		fmt.Fprintf(&sb, ",device: %d", *device)
	}
	if action != homeeasy.ActionUnknown {
		fmt.Fprintf(&sb, ",action: %q", action)
	}
	if level != nil {
		fmt.Fprintf(&sb, ",dimLevel: %d", *level)
	}
	sb.WriteByte('}')
	return sb.String()
}
