package pilot_userio

import "errors"

var (
	ErrUnknownPin       = errors.New("unknown pin")
	ErrPinDisabled      = errors.New("pin is disabled")
	ErrPinEnabled       = errors.New("pin is already enabled")
	ErrNotDigitalOutput = errors.New("pin is not a digital output")
	ErrAnalogOutput     = errors.New("analog pins are input only")
	ErrInvalidValue     = errors.New("digital value must be 0 or 1")
)
