package pilot_userio

import "sync"

// Bank owns the pin configuration. Every mutation goes through it so the
// handlers, the console and the store see a consistent view.
type Bank struct {
	mu   sync.RWMutex
	pins [PinCount]Pin
	hw   Hardware
}

// NewBank returns a bank with the factory configuration applied to hw.
func NewBank(hw Hardware) *Bank {
	b := &Bank{pins: DefaultPins(), hw: hw}
	for i := range b.pins {
		b.configure(i)
	}
	return b
}

func (b *Bank) configure(i int) {
	if b.hw != nil && b.pins[i].Enabled {
		b.hw.Configure(i, b.pins[i].Type, b.pins[i].Direction)
	}
}

func (b *Bank) Pin(id string) (Pin, bool) {
	i, ok := PinIndex(id)
	if !ok {
		return Pin{}, false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pins[i], true
}

// Pins returns a copy of every pin in board order.
func (b *Bank) Pins() []Pin {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Pin, PinCount)
	copy(out, b.pins[:])
	return out
}

// EnabledPins returns the enabled pins in board order.
func (b *Bank) EnabledPins() []Pin {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []Pin{}
	for _, p := range b.pins {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// Enable turns a disabled pin on with its stored type and direction.
func (b *Bank) Enable(id string) error {
	i, ok := PinIndex(id)
	if !ok {
		return ErrUnknownPin
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pins[i].Enabled {
		return ErrPinEnabled
	}
	b.pins[i].Enabled = true
	b.configure(i)
	return nil
}

func (b *Bank) Disable(id string) error {
	i, ok := PinIndex(id)
	if !ok {
		return ErrUnknownPin
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pins[i].Enabled {
		return ErrPinDisabled
	}
	b.pins[i].Enabled = false
	return nil
}

// SetType changes the pin type. Analog pins are always inputs.
func (b *Bank) SetType(id string, t PinType) error {
	i, ok := PinIndex(id)
	if !ok {
		return ErrUnknownPin
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pins[i].Type = t
	if t == PinAnalog {
		b.pins[i].Direction = DirectionInput
	}
	b.configure(i)
	return nil
}

func (b *Bank) SetDirection(id string, d Direction) error {
	i, ok := PinIndex(id)
	if !ok {
		return ErrUnknownPin
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pins[i].Type == PinAnalog && d == DirectionOutput {
		return ErrAnalogOutput
	}
	b.pins[i].Direction = d
	b.configure(i)
	return nil
}

// ReadValue reports the converter value of an analog pin, the input level
// of a digital input or the latch of a digital output.
func (b *Bank) ReadValue(id string) (uint16, error) {
	i, ok := PinIndex(id)
	if !ok {
		return 0, ErrUnknownPin
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	p := b.pins[i]
	if !p.Enabled {
		return 0, ErrPinDisabled
	}
	if b.hw == nil {
		return 0, nil
	}
	switch {
	case p.Type == PinAnalog:
		return b.hw.ReadADC(i), nil
	case p.Direction == DirectionOutput:
		return level(b.hw.ReadOutput(i)), nil
	default:
		return level(b.hw.ReadInput(i)), nil
	}
}

// WriteValue drives an enabled digital output low (0) or high (1).
func (b *Bank) WriteValue(id string, value uint16) error {
	i, ok := PinIndex(id)
	if !ok {
		return ErrUnknownPin
	}
	if value > 1 {
		return ErrInvalidValue
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.pins[i]
	if !p.Enabled {
		return ErrPinDisabled
	}
	if !p.IsDigitalOutput() {
		return ErrNotDigitalOutput
	}
	if b.hw != nil {
		b.hw.WriteOutput(i, value == 1)
	}
	return nil
}

// Apply replaces the configuration of the pins named in pins. Unknown ids
// are rejected before anything changes.
func (b *Bank) Apply(pins []Pin) error {
	for _, p := range pins {
		if _, ok := PinIndex(p.ID); !ok {
			return ErrUnknownPin
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range pins {
		i, _ := PinIndex(p.ID)
		b.pins[i].Enabled = p.Enabled
		b.pins[i].Type = p.Type
		b.pins[i].Direction = p.Direction
		if p.Type == PinAnalog {
			b.pins[i].Direction = DirectionInput
		}
		b.configure(i)
	}
	return nil
}

func level(high bool) uint16 {
	if high {
		return 1
	}
	return 0
}
