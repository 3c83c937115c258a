package pilot_userio

import (
	"fmt"
	"strings"
)

// PinCount is the number of user I/O pins on the board.
const PinCount = 4

// AdcMax is the largest value the 12-bit converter reports.
const AdcMax = 4095

var PinIDs = [PinCount]string{"a", "b", "c", "d"}
var PinNames = [PinCount]string{"p30", "p29", "p28", "p27"}

type PinType int

const (
	PinAnalog PinType = iota
	PinDigital
)

var pinTypeNames = map[PinType]string{
	PinAnalog:  "analog",
	PinDigital: "digital",
}

func (t PinType) String() string {
	if name, ok := pinTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PinType(%d)", int(t))
}

func (t PinType) MarshalText() ([]byte, error) {
	if _, ok := pinTypeNames[t]; !ok {
		return nil, fmt.Errorf("unknown pin type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *PinType) UnmarshalText(text []byte) error {
	parsed, ok := ParsePinType(string(text))
	if !ok {
		return fmt.Errorf("unknown pin type %q", text)
	}
	*t = parsed
	return nil
}

// ParsePinType accepts "analog" or "digital" in any case.
func ParsePinType(s string) (PinType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "analog":
		return PinAnalog, true
	case "digital":
		return PinDigital, true
	}
	return PinAnalog, false
}

type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

var directionNames = map[Direction]string{
	DirectionInput:  "input",
	DirectionOutput: "output",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func (d Direction) MarshalText() ([]byte, error) {
	if _, ok := directionNames[d]; !ok {
		return nil, fmt.Errorf("unknown direction %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, ok := ParseDirection(string(text))
	if !ok {
		return fmt.Errorf("unknown direction %q", text)
	}
	*d = parsed
	return nil
}

func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "input", "in":
		return DirectionInput, true
	case "output", "out":
		return DirectionOutput, true
	}
	return DirectionInput, false
}

// Pin is the configuration of one user I/O pin. The ID is the path
// segment clients address it by and Name is the header pin it maps to.
type Pin struct {
	ID        string    `json:"id"`
	Name      string    `json:"pin"`
	Enabled   bool      `json:"enabled"`
	Type      PinType   `json:"type"`
	Direction Direction `json:"direction"`
}

func (p Pin) IsDigitalOutput() bool {
	return p.Type == PinDigital && p.Direction == DirectionOutput
}

// DefaultPins returns the factory configuration: every pin enabled, a and b
// analog inputs, c and d digital inputs.
func DefaultPins() [PinCount]Pin {
	var pins [PinCount]Pin
	for i := range pins {
		pins[i] = Pin{
			ID:        PinIDs[i],
			Name:      PinNames[i],
			Enabled:   true,
			Type:      PinDigital,
			Direction: DirectionInput,
		}
	}
	pins[0].Type = PinAnalog
	pins[1].Type = PinAnalog
	return pins
}

// PinIndex resolves a pin id. The lookup is exact and case-sensitive.
func PinIndex(id string) (int, bool) {
	for i, candidate := range PinIDs {
		if candidate == id {
			return i, true
		}
	}
	return -1, false
}
