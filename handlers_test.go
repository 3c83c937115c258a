package pilot

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	pilot_http "github.com/jacksonzamorano/pilot-io/pilot-http"
	pilot_userio "github.com/jacksonzamorano/pilot-io/pilot-userio"
)

type fixedClock pilot_userio.Uptime

func (c fixedClock) Uptime() pilot_userio.Uptime {
	return pilot_userio.Uptime(c)
}

func testDevice() (*Device, *pilot_userio.SimulatedHardware) {
	hw := pilot_userio.NewSimulatedHardware()
	d := NewDevice(
		pilot_userio.NewBank(hw),
		fixedClock{Hour: 1, Min: 2, Sec: 3, Msec: 4},
		pilot_userio.StaticNetInfo{Info: pilot_userio.DefaultNetInfo()},
		nil,
	)
	return d, hw
}

// call routes one request through the device's table and composes the
// response the way a connection slot would.
func call(t *testing.T, d *Device, method pilot_http.HttpMethod, path string, body string) (pilot_http.StatusCode, string) {
	t.Helper()
	request := &pilot_http.HttpRequest{Method: method, Path: path, Body: []byte(body), Headers: map[string]string{}}
	var out bytes.Buffer
	var result pilot_http.Result
	match, err := d.Routes().Match(method, path)
	if err == nil {
		entry := d.Routes().Entry(match.Index)
		result, err = entry.Handler(&pilot_http.RouteRequest[Device]{
			Context: context.Background(),
			Request: request,
			Param:   match.Param,
			State:   d,
		}, &out)
	}
	res := pilot_http.ComposeResponse(method, result, err, out.Bytes())
	return res.StatusCode, string(res.Body)
}

func TestResourcesOrder(t *testing.T) {
	want := []string{
		"GET index", "GET uptime", "GET netinfo", "GET userio",
		"GET userio/:id", "POST userio/:id", "PUT userio/:id", "DELETE userio/:id",
		"GET userio/:id/info", "PUT userio/:id/info",
	}
	entries := Resources().Entries()
	if len(entries) != len(want) {
		t.Fatalf("len(Resources()) = %v, want %v", len(entries), len(want))
	}
	for i, e := range entries {
		if got := e.Method.String() + " " + e.Pattern; got != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got, want[i])
		}
	}
}

func TestReadHandlers(t *testing.T) {
	d, hw := testDevice()
	hw.SetADC(0, 2048)
	hw.SetInput(3, true)

	tests := []struct {
		name   string
		path   string
		status pilot_http.StatusCode
		body   string
	}{
		{"uptime", "uptime", pilot_http.StatusOK, `{"uptime":{"hour":1,"min":2,"sec":3,"msec":4}}`},
		{"netinfo", "netinfo", pilot_http.StatusOK, `{"netinfo":{"mac":"00:08:dc:aa:bb:cc","ip":"192.168.11.5","gw":"192.168.11.1","sn":"255.255.255.0","dns":"8.8.8.8","dhcp":"disabled"}}`},
		{"list", "userio", pilot_http.StatusOK, `{"userio":[{"id":"a","type":"analog","direction":"input"},{"id":"b","type":"analog","direction":"input"},{"id":"c","type":"digital","direction":"input"},{"id":"d","type":"digital","direction":"input"}]}`},
		{"analog value", "userio/a", pilot_http.StatusOK, `{"a":2048}`},
		{"digital value", "userio/d", pilot_http.StatusOK, `{"d":1}`},
		{"info", "userio/c/info", pilot_http.StatusOK, `{"id":"c","type":"digital","direction":"input"}`},
		{"unknown pin", "userio/e", pilot_http.StatusNotFound, `{"error":{"message":"Not Found","code":404}}`},
		{"upper case pin", "userio/A/info", pilot_http.StatusNotFound, `{"error":{"message":"Not Found","code":404}}`},
		{"unknown resource", "nothing", pilot_http.StatusNotFound, `{"error":{"message":"Not Found","code":404}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, d, pilot_http.Get, tt.path, "")
			if status != tt.status {
				t.Errorf("status = %v, want %v", status, tt.status)
			}
			if body != tt.body {
				t.Errorf("body = %v, want %v", body, tt.body)
			}
		})
	}
}

func TestReadIndex(t *testing.T) {
	d, _ := testDevice()
	status, body := call(t, d, pilot_http.Get, "index", "")
	if status != pilot_http.StatusOK {
		t.Fatalf("status = %v", status)
	}
	prefix := `{"target":"wizwiki-7500eco","io":[{"id":"a","pin":"p30"},{"id":"b","pin":"p29"},{"id":"c","pin":"p28"},{"id":"d","pin":"p27"}],` +
		`"resource":[{"uri":"http://192.168.11.5/index","method":"GET","description":"index page"},`
	if !strings.HasPrefix(body, prefix) {
		t.Errorf("body = %v, want prefix %v", body, prefix)
	}

	var parsed indexBody
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatal(err)
	}
	if len(parsed.Resource) != 10 {
		t.Errorf("len(resource) = %v, want 10", len(parsed.Resource))
	}
	last := parsed.Resource[9]
	if last.URI != "http://192.168.11.5/userio/:id/info" || last.Method != "PUT" {
		t.Errorf("last resource = %v", last)
	}
}

func TestUserIOLifecycle(t *testing.T) {
	d, _ := testDevice()

	steps := []struct {
		name   string
		method pilot_http.HttpMethod
		path   string
		status pilot_http.StatusCode
		body   string
	}{
		{"create enabled", pilot_http.Post, "userio/a", pilot_http.StatusConflict, `{"error":{"message":"Conflict","code":409}}`},
		{"delete", pilot_http.Delete, "userio/a", pilot_http.StatusNoContent, ""},
		{"read deleted", pilot_http.Get, "userio/a", pilot_http.StatusNotFound, `{"error":{"message":"Not Found","code":404}}`},
		{"info deleted", pilot_http.Get, "userio/a/info", pilot_http.StatusNotFound, `{"error":{"message":"Not Found","code":404}}`},
		{"delete again", pilot_http.Delete, "userio/a", pilot_http.StatusNotFound, `{"error":{"message":"Not Found","code":404}}`},
		{"create", pilot_http.Post, "userio/a", pilot_http.StatusCreated, ""},
		{"read created", pilot_http.Get, "userio/a", pilot_http.StatusOK, `{"a":0}`},
		{"create unknown", pilot_http.Post, "userio/z", pilot_http.StatusNotFound, `{"error":{"message":"Not Found","code":404}}`},
		{"delete unknown", pilot_http.Delete, "userio/z", pilot_http.StatusNotFound, `{"error":{"message":"Not Found","code":404}}`},
		{"list not allowed", pilot_http.Post, "userio", pilot_http.StatusMethodNotAllowed, `{"error":{"message":"Method Not Allowed","code":405}}`},
	}
	for _, tt := range steps {
		status, body := call(t, d, tt.method, tt.path, "")
		if status != tt.status {
			t.Errorf("%s: status = %v, want %v", tt.name, status, tt.status)
		}
		if body != tt.body {
			t.Errorf("%s: body = %v, want %v", tt.name, body, tt.body)
		}
	}
}

func TestUserIOListEmpty(t *testing.T) {
	d, _ := testDevice()
	for _, id := range pilot_userio.PinIDs {
		if err := d.Bank.Disable(id); err != nil {
			t.Fatal(err)
		}
	}
	_, body := call(t, d, pilot_http.Get, "userio", "")
	if body != `{"userio":"NULL"}` {
		t.Errorf("body = %v", body)
	}
}

func TestUpdateStubsDoNotMutate(t *testing.T) {
	d, _ := testDevice()
	d.Debug = true
	before := d.Bank.Pins()

	tests := []struct {
		name string
		path string
		body string
	}{
		{"value json", "userio/c", `{"value":1}`},
		{"value form", "userio/c", "value=1"},
		{"info json", "userio/c/info", `{"type":"analog","direction":"output"}`},
		{"info unknown pin", "userio/z/info", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, d, pilot_http.Put, tt.path, tt.body)
			if status != pilot_http.StatusNoContent || body != "" {
				t.Errorf("PUT %s = %v %q, want 204 with no body", tt.path, status, body)
			}
		})
	}
	after := d.Bank.Pins()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("pin %s changed: %v -> %v", before[i].ID, before[i], after[i])
		}
	}
}

func TestRequestField(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		field  string
		want   string
		wantOk bool
	}{
		{"json string", `{"type":"digital"}`, "type", "digital", true},
		{"json number", `{"value": 1}`, "value", "1", true},
		{"json missing", `{"value": 1}`, "type", "", false},
		{"form", "direction=output&type=digital", "direction", "output", true},
		{"empty", "", "value", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := requestField(&pilot_http.HttpRequest{Body: []byte(tt.body)}, tt.field)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("requestField() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestAutoSave(t *testing.T) {
	d, _ := testDevice()
	d.AutoSave = true
	if status, _ := call(t, d, pilot_http.Delete, "userio/b", ""); status != pilot_http.StatusNoContent {
		t.Fatalf("status = %v", status)
	}
	pins, err := d.Store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pins) != pilot_userio.PinCount || pins[1].Enabled {
		t.Errorf("stored pins = %v", pins)
	}

	restored, _ := testDevice()
	restored.Store = d.Store
	if err := restored.Restore(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p, _ := restored.Bank.Pin("b"); p.Enabled {
		t.Errorf("restored pin b is enabled")
	}
}
