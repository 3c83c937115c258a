package pilot_userio

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultPins(t *testing.T) {
	b := NewBank(NewSimulatedHardware())
	got := b.Pins()
	want := []Pin{
		{ID: "a", Name: "p30", Enabled: true, Type: PinAnalog, Direction: DirectionInput},
		{ID: "b", Name: "p29", Enabled: true, Type: PinAnalog, Direction: DirectionInput},
		{ID: "c", Name: "p28", Enabled: true, Type: PinDigital, Direction: DirectionInput},
		{ID: "d", Name: "p27", Enabled: true, Type: PinDigital, Direction: DirectionInput},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pins() = %v, want %v", got, want)
	}
}

func TestPinIndex(t *testing.T) {
	tests := []struct {
		id     string
		want   int
		wantOk bool
	}{
		{"a", 0, true},
		{"d", 3, true},
		{"A", -1, false},
		{"e", -1, false},
		{"", -1, false},
		{"ab", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := PinIndex(tt.id)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("PinIndex(%q) = %v, %v, want %v, %v", tt.id, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestEnableDisable(t *testing.T) {
	b := NewBank(NewSimulatedHardware())

	if err := b.Enable("a"); !errors.Is(err, ErrPinEnabled) {
		t.Errorf("Enable(a) = %v, want %v", err, ErrPinEnabled)
	}
	if err := b.Disable("a"); err != nil {
		t.Fatalf("Disable(a) = %v", err)
	}
	if err := b.Disable("a"); !errors.Is(err, ErrPinDisabled) {
		t.Errorf("second Disable(a) = %v, want %v", err, ErrPinDisabled)
	}
	if _, err := b.ReadValue("a"); !errors.Is(err, ErrPinDisabled) {
		t.Errorf("ReadValue(a) = %v, want %v", err, ErrPinDisabled)
	}
	if got := len(b.EnabledPins()); got != 3 {
		t.Errorf("len(EnabledPins()) = %v, want 3", got)
	}
	if err := b.Enable("a"); err != nil {
		t.Errorf("Enable(a) = %v", err)
	}
	if err := b.Enable("x"); !errors.Is(err, ErrUnknownPin) {
		t.Errorf("Enable(x) = %v, want %v", err, ErrUnknownPin)
	}
}

func TestSetTypeForcesInput(t *testing.T) {
	b := NewBank(NewSimulatedHardware())
	if err := b.SetDirection("c", DirectionOutput); err != nil {
		t.Fatalf("SetDirection(c) = %v", err)
	}
	if err := b.SetType("c", PinAnalog); err != nil {
		t.Fatalf("SetType(c) = %v", err)
	}
	p, _ := b.Pin("c")
	if p.Direction != DirectionInput {
		t.Errorf("direction = %v, want input", p.Direction)
	}
	if err := b.SetDirection("a", DirectionOutput); !errors.Is(err, ErrAnalogOutput) {
		t.Errorf("SetDirection(a, output) = %v, want %v", err, ErrAnalogOutput)
	}
}

func TestReadValue(t *testing.T) {
	hw := NewSimulatedHardware()
	b := NewBank(hw)
	hw.SetADC(0, 5000)
	hw.SetADC(1, 1234)
	hw.SetInput(2, true)

	tests := []struct {
		id   string
		want uint16
	}{
		{"a", AdcMax},
		{"b", 1234},
		{"c", 1},
		{"d", 0},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := b.ReadValue(tt.id)
			if err != nil {
				t.Fatalf("ReadValue(%q) error = %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("ReadValue(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestWriteValue(t *testing.T) {
	hw := NewSimulatedHardware()
	b := NewBank(hw)

	if err := b.WriteValue("d", 1); !errors.Is(err, ErrNotDigitalOutput) {
		t.Errorf("WriteValue on input = %v, want %v", err, ErrNotDigitalOutput)
	}
	if err := b.WriteValue("a", 1); !errors.Is(err, ErrNotDigitalOutput) {
		t.Errorf("WriteValue on analog = %v, want %v", err, ErrNotDigitalOutput)
	}
	if err := b.SetDirection("d", DirectionOutput); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteValue("d", 2); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("WriteValue(2) = %v, want %v", err, ErrInvalidValue)
	}
	if err := b.WriteValue("d", 1); err != nil {
		t.Fatalf("WriteValue(d, 1) = %v", err)
	}
	// Outputs read back their latch, not the input level.
	hw.SetInput(3, false)
	if got, _ := b.ReadValue("d"); got != 1 {
		t.Errorf("ReadValue(d) = %v, want 1", got)
	}
	if err := b.Disable("d"); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteValue("d", 0); !errors.Is(err, ErrPinDisabled) {
		t.Errorf("WriteValue on disabled = %v, want %v", err, ErrPinDisabled)
	}
}

func TestApply(t *testing.T) {
	b := NewBank(NewSimulatedHardware())
	err := b.Apply([]Pin{
		{ID: "a", Enabled: false, Type: PinAnalog},
		{ID: "c", Enabled: true, Type: PinAnalog, Direction: DirectionOutput},
	})
	if err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	a, _ := b.Pin("a")
	c, _ := b.Pin("c")
	if a.Enabled {
		t.Errorf("a enabled after Apply")
	}
	if c.Type != PinAnalog || c.Direction != DirectionInput {
		t.Errorf("c = %v, want analog input", c)
	}
	if c.Name != "p28" {
		t.Errorf("c name = %v, want p28", c.Name)
	}

	if err := b.Apply([]Pin{{ID: "b"}, {ID: "z"}}); !errors.Is(err, ErrUnknownPin) {
		t.Errorf("Apply(unknown) = %v, want %v", err, ErrUnknownPin)
	}
	if p, _ := b.Pin("b"); !p.Enabled {
		t.Errorf("rejected Apply changed pin b")
	}
}
