package pilot

import (
	"bytes"
	"errors"
	"strconv"

	pilot_http "github.com/jacksonzamorano/pilot-io/pilot-http"
	pilot_json "github.com/jacksonzamorano/pilot-io/pilot-json"
	pilot_userio "github.com/jacksonzamorano/pilot-io/pilot-userio"
)

type userIOEntry struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Direction string `json:"direction"`
}

func entryFor(p pilot_userio.Pin) userIOEntry {
	return userIOEntry{ID: p.ID, Type: p.Type.String(), Direction: p.Direction.String()}
}

// enabledPin resolves the captured id to an enabled pin. Unknown and
// disabled pins are both reported as missing resources.
func enabledPin(req *pilot_http.RouteRequest[Device]) (pilot_userio.Pin, error) {
	p, ok := req.State.Bank.Pin(req.Param)
	if !ok || !p.Enabled {
		return pilot_userio.Pin{}, pilot_http.ErrRouteNotFound
	}
	return p, nil
}

func readUserIO(req *pilot_http.RouteRequest[Device], body *bytes.Buffer) (pilot_http.Result, error) {
	pins := req.State.Bank.EnabledPins()
	if len(pins) == 0 {
		return pilot_http.JsonResult(body, map[string]string{"userio": "NULL"})
	}
	list := make([]userIOEntry, 0, len(pins))
	for _, p := range pins {
		list = append(list, entryFor(p))
	}
	return pilot_http.JsonResult(body, map[string][]userIOEntry{"userio": list})
}

func readUserIOValue(req *pilot_http.RouteRequest[Device], body *bytes.Buffer) (pilot_http.Result, error) {
	p, err := enabledPin(req)
	if err != nil {
		return pilot_http.Result{}, err
	}
	value, err := req.State.Bank.ReadValue(p.ID)
	if err != nil {
		return pilot_http.Result{}, bankError(err)
	}
	return pilot_http.JsonResult(body, map[string]uint16{p.ID: value})
}

func createUserIO(req *pilot_http.RouteRequest[Device], body *bytes.Buffer) (pilot_http.Result, error) {
	if err := req.State.Bank.Enable(req.Param); err != nil {
		return pilot_http.Result{}, bankError(err)
	}
	req.State.changed(req.Context)
	return pilot_http.Created(), nil
}

// updateUserIOValue accepts a value change but does not apply it yet.
func updateUserIOValue(req *pilot_http.RouteRequest[Device], body *bytes.Buffer) (pilot_http.Result, error) {
	if value, ok := requestField(req.Request, "value"); ok {
		req.State.debugf("PUT userio/%s value=%s not applied\n", req.Param, value)
	}
	return pilot_http.NoContent(), nil
}

func deleteUserIO(req *pilot_http.RouteRequest[Device], body *bytes.Buffer) (pilot_http.Result, error) {
	p, err := enabledPin(req)
	if err != nil {
		return pilot_http.Result{}, err
	}
	if err := req.State.Bank.Disable(p.ID); err != nil {
		return pilot_http.Result{}, bankError(err)
	}
	req.State.changed(req.Context)
	return pilot_http.NoContent(), nil
}

func readUserIOInfo(req *pilot_http.RouteRequest[Device], body *bytes.Buffer) (pilot_http.Result, error) {
	p, err := enabledPin(req)
	if err != nil {
		return pilot_http.Result{}, err
	}
	return pilot_http.JsonResult(body, entryFor(p))
}

// updateUserIOInfo accepts a type or direction change but does not apply
// it yet.
func updateUserIOInfo(req *pilot_http.RouteRequest[Device], body *bytes.Buffer) (pilot_http.Result, error) {
	for _, field := range []string{"type", "direction"} {
		if value, ok := requestField(req.Request, field); ok {
			req.State.debugf("PUT userio/%s/info %s=%s not applied\n", req.Param, field, value)
		}
	}
	return pilot_http.NoContent(), nil
}

// requestField reads name from a flat JSON object body, falling back to a
// form-encoded body.
func requestField(request *pilot_http.HttpRequest, name string) (string, bool) {
	if len(request.Body) == 0 {
		return "", false
	}
	obj := pilot_json.NewJsonObject()
	if err := obj.Parse(request.Body); err == nil {
		if s, ferr := obj.GetString(name); ferr == nil {
			return *s, true
		}
		if n, ferr := obj.GetInt64(name); ferr == nil {
			return strconv.FormatInt(*n, 10), true
		}
		return "", false
	}
	return request.FormValue(name)
}

func bankError(err error) error {
	switch {
	case errors.Is(err, pilot_userio.ErrPinEnabled):
		return pilot_http.ErrConflict
	case errors.Is(err, pilot_userio.ErrUnknownPin), errors.Is(err, pilot_userio.ErrPinDisabled):
		return pilot_http.ErrRouteNotFound
	}
	return err
}
