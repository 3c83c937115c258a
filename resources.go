package pilot

import (
	pilot_http "github.com/jacksonzamorano/pilot-io/pilot-http"
)

// Resources returns the REST resource table in match order.
func Resources() *pilot_http.RouteTable[Device] {
	userio := pilot_http.NewRouteGroup[Device]("userio").
		Get("", readUserIO, "enabled io list").
		Get(":id", readUserIOValue, "get io status or value").
		Post(":id", createUserIO, "enable new io pin").
		Put(":id", updateUserIOValue, "set the io status (digital output only)").
		Delete(":id", deleteUserIO, "disable the io pin").
		Get(":id/info", readUserIOInfo, "get the io configuration, type and direction").
		Put(":id/info", updateUserIOInfo, "set the io configuration, type and direction")

	entries := []pilot_http.RouteEntry[Device]{
		{Method: pilot_http.Get, Pattern: "index", Handler: readIndex, Description: "index page"},
		{Method: pilot_http.Get, Pattern: "uptime", Handler: readUptime, Description: "uptime"},
		{Method: pilot_http.Get, Pattern: "netinfo", Handler: readNetInfo, Description: "network configration"},
	}
	entries = append(entries, userio.Routes...)
	return pilot_http.NewRouteTable(entries...)
}
