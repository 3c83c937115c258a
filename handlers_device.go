package pilot

import (
	"bytes"
	"fmt"

	pilot_http "github.com/jacksonzamorano/pilot-io/pilot-http"
	pilot_userio "github.com/jacksonzamorano/pilot-io/pilot-userio"
)

type indexIO struct {
	ID  string `json:"id"`
	Pin string `json:"pin"`
}

type indexResource struct {
	URI         string `json:"uri"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

type indexBody struct {
	Target   string          `json:"target"`
	IO       []indexIO       `json:"io"`
	Resource []indexResource `json:"resource"`
}

func readIndex(req *pilot_http.RouteRequest[Device], body *bytes.Buffer) (pilot_http.Result, error) {
	d := req.State
	ip := pilot_userio.FormatIPv4(d.Network.NetInfo().IP)

	index := indexBody{Target: d.Target}
	for i := range pilot_userio.PinIDs {
		index.IO = append(index.IO, indexIO{ID: pilot_userio.PinIDs[i], Pin: pilot_userio.PinNames[i]})
	}
	for _, entry := range d.Routes().Entries() {
		index.Resource = append(index.Resource, indexResource{
			URI:         fmt.Sprintf("http://%s/%s", ip, entry.Pattern),
			Method:      entry.Method.String(),
			Description: entry.Description,
		})
	}
	return pilot_http.JsonResult(body, index)
}

func readUptime(req *pilot_http.RouteRequest[Device], body *bytes.Buffer) (pilot_http.Result, error) {
	return pilot_http.JsonResult(body, map[string]pilot_userio.Uptime{
		"uptime": req.State.Clock.Uptime(),
	})
}

type netInfoBody struct {
	MAC  string `json:"mac"`
	IP   string `json:"ip"`
	GW   string `json:"gw"`
	SN   string `json:"sn"`
	DNS  string `json:"dns"`
	DHCP string `json:"dhcp"`
}

func readNetInfo(req *pilot_http.RouteRequest[Device], body *bytes.Buffer) (pilot_http.Result, error) {
	info := req.State.Network.NetInfo()
	return pilot_http.JsonResult(body, map[string]netInfoBody{
		"netinfo": {
			MAC:  info.MACString(),
			IP:   pilot_userio.FormatIPv4(info.IP),
			GW:   pilot_userio.FormatIPv4(info.Gateway),
			SN:   pilot_userio.FormatIPv4(info.Subnet),
			DNS:  pilot_userio.FormatIPv4(info.DNS),
			DHCP: info.DHCPString(),
		},
	})
}
