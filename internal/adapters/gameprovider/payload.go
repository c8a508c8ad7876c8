package gameprovider

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Amund211/gamelens/internal/domain"
)

// Payload holds the raw game arrays as fetched from each provider's API
type Payload struct {
	PC             []json.RawMessage `json:"pc"`
	ConsoleNetwork []json.RawMessage `json:"console_network"`
	SecondConsole  []json.RawMessage `json:"second_console"`
	Retro          []json.RawMessage `json:"retro"`
}

func (p Payload) Len() int {
	return len(p.PC) + len(p.ConsoleNetwork) + len(p.SecondConsole) + len(p.Retro)
}

// Arrays returns the raw arrays in merge order
func (p Payload) Arrays() [][]json.RawMessage {
	return [][]json.RawMessage{p.PC, p.ConsoleNetwork, p.SecondConsole, p.Retro}
}

func ParsePayload(data []byte) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Payload{}, err
	}
	return payload, nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// flexibleID accepts both JSON strings and numbers
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = flexibleID(strings.TrimSpace(s))
		return nil
	}
	*id = flexibleID(bytes.TrimSpace(data))
	return nil
}

// flexibleInt accepts JSON numbers and numeric strings.
// Anything else leaves it unset so the caller can fall back.
type flexibleInt struct {
	value int
	set   bool
	valid bool
}

func (i *flexibleInt) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	i.set = true

	raw := string(bytes.TrimSpace(data))
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		raw = strings.TrimSpace(s)
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	if value >= float64(math.MaxInt) || value <= float64(math.MinInt) {
		return nil
	}
	i.value = int(math.Floor(value))
	i.valid = true
	return nil
}

// orZero never returns a negative value
func (i flexibleInt) orZero() int {
	if !i.valid || i.value < 0 {
		return 0
	}
	return i.value
}

// flexibleDate accepts date strings and unix timestamps in seconds
type flexibleDate struct {
	raw  string
	unix int64
	kind dateKind
}

type dateKind int

const (
	dateAbsent dateKind = iota
	dateString
	dateUnix
)

func (d *flexibleDate) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		d.raw = s
		d.kind = dateString
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if unix, err := n.Int64(); err == nil {
			d.unix = unix
			d.kind = dateUnix
			return nil
		}
	}

	// Keep the raw text so parsing reports it as malformed
	d.raw = string(data)
	d.kind = dateString
	return nil
}

func (d flexibleDate) parse() (time.Time, error) {
	switch d.kind {
	case dateUnix:
		if d.unix <= 0 {
			return domain.UnknownTime, nil
		}
		return time.Unix(d.unix, 0).UTC(), nil
	case dateString:
		return domain.ParseDateStrict(d.raw)
	}
	return domain.UnknownTime, nil
}

// flexibleBool accepts JSON booleans, 0/1 and "true"/"false"
type flexibleBool bool

func (b *flexibleBool) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch strings.ToLower(raw) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}
