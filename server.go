package pilot

import (
	"context"

	pilot_http "github.com/jacksonzamorano/pilot-io/pilot-http"
	pilot_userio "github.com/jacksonzamorano/pilot-io/pilot-userio"
)

// NewServer returns an application serving the device's resources on port.
func NewServer(port string, device *Device, ctx context.Context) *pilot_http.Application[Device] {
	return pilot_http.NewApplication(port, device.Routes(), device, ctx)
}

// Restore loads the stored pin configuration into the device's bank.
func (d *Device) Restore(ctx context.Context) error {
	return pilot_userio.Restore(ctx, d.Store, d.Bank)
}
