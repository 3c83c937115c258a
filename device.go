package pilot

import (
	"context"
	"fmt"
	"log"

	pilot_http "github.com/jacksonzamorano/pilot-io/pilot-http"
	pilot_userio "github.com/jacksonzamorano/pilot-io/pilot-userio"
)

// DefaultTarget is the board name reported by the index resource.
const DefaultTarget = "wizwiki-7500eco"

// Device is the state every resource handler shares.
type Device struct {
	Target  string
	Bank    *pilot_userio.Bank
	Clock   pilot_userio.Clock
	Network pilot_userio.NetInfoProvider
	Store   pilot_userio.ConfigStore
	// AutoSave persists the pin configuration after every change made
	// through the REST interface.
	AutoSave bool
	Debug    bool

	routes *pilot_http.RouteTable[Device]
}

// NewDevice wires a device to its collaborators and builds its routes.
// A nil store keeps the configuration in memory only.
func NewDevice(bank *pilot_userio.Bank, clock pilot_userio.Clock, network pilot_userio.NetInfoProvider, store pilot_userio.ConfigStore) *Device {
	if store == nil {
		store = pilot_userio.NewMemoryStore()
	}
	d := &Device{
		Target:  DefaultTarget,
		Bank:    bank,
		Clock:   clock,
		Network: network,
		Store:   store,
	}
	d.routes = Resources()
	return d
}

// Routes is the route table the device is served with.
func (d *Device) Routes() *pilot_http.RouteTable[Device] {
	if d.routes == nil {
		d.routes = Resources()
	}
	return d.routes
}

// Save writes the current pin configuration to the store.
func (d *Device) Save(ctx context.Context) error {
	if err := d.Store.Save(ctx, d.Bank.Pins()); err != nil {
		return fmt.Errorf("save pin configuration: %w", err)
	}
	return nil
}

// Reset returns every pin to the factory configuration and forgets the
// stored one.
func (d *Device) Reset(ctx context.Context) error {
	defaults := pilot_userio.DefaultPins()
	if err := d.Bank.Apply(defaults[:]); err != nil {
		return err
	}
	if err := d.Store.Clear(ctx); err != nil {
		return fmt.Errorf("clear pin configuration: %w", err)
	}
	return nil
}

func (d *Device) changed(ctx context.Context) {
	if !d.AutoSave {
		return
	}
	if err := d.Save(ctx); err != nil {
		log.Printf("Could not persist pin change: %v\n", err)
	}
}

func (d *Device) debugf(format string, args ...any) {
	if d.Debug {
		log.Printf(format, args...)
	}
}
