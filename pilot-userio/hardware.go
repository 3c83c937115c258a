package pilot_userio

import "sync"

// Hardware is the pin driver the bank talks to. Channels are pin indexes.
type Hardware interface {
	Configure(channel int, pinType PinType, direction Direction)
	ReadADC(channel int) uint16
	ReadInput(channel int) bool
	ReadOutput(channel int) bool
	WriteOutput(channel int, level bool)
}

// SimulatedHardware keeps converter values, input levels and output
// latches in memory.
type SimulatedHardware struct {
	mu      sync.Mutex
	adc     [PinCount]uint16
	inputs  [PinCount]bool
	outputs [PinCount]bool
}

func NewSimulatedHardware() *SimulatedHardware {
	return &SimulatedHardware{}
}

func (h *SimulatedHardware) valid(channel int) bool {
	return channel >= 0 && channel < PinCount
}

// Configure drives a newly configured output low.
func (h *SimulatedHardware) Configure(channel int, pinType PinType, direction Direction) {
	if !h.valid(channel) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if pinType == PinDigital && direction == DirectionOutput {
		h.outputs[channel] = false
	}
}

func (h *SimulatedHardware) ReadADC(channel int) uint16 {
	if !h.valid(channel) {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.adc[channel]
}

func (h *SimulatedHardware) ReadInput(channel int) bool {
	if !h.valid(channel) {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inputs[channel]
}

func (h *SimulatedHardware) ReadOutput(channel int) bool {
	if !h.valid(channel) {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outputs[channel]
}

func (h *SimulatedHardware) WriteOutput(channel int, level bool) {
	if !h.valid(channel) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outputs[channel] = level
}

// SetADC sets the converter reading, clamped to 12 bits.
func (h *SimulatedHardware) SetADC(channel int, value uint16) {
	if !h.valid(channel) {
		return
	}
	if value > AdcMax {
		value = AdcMax
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.adc[channel] = value
}

func (h *SimulatedHardware) SetInput(channel int, level bool) {
	if !h.valid(channel) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inputs[channel] = level
}
