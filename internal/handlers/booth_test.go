package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"booth_dashboard"
	"booth_dashboard/internal/device"
	"booth_dashboard/internal/models"
	"booth_dashboard/internal/service"
)

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{Monitoring: &mockMonitoring{address: "192.168.1.1:502"}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	want := `{"ok":true,"service":"booth-dashboard","status":"online","plc_ip":"192.168.1.1:502"}`
	if got := w.Body.String(); got != want {
		t.Fatalf("body=%s, want %s", got, want)
	}
}

func TestReadOnce(t *testing.T) {
	msg := "connection refused"
	mon := &mockMonitoring{read: booth_dashboard.ReadResponse{
		Values: map[string]models.Value{},
		Error:  &msg,
	}}
	r := newTestRouter(&service.Service{Monitoring: mon})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/read", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if got, want := w.Body.String(), `{"values":{},"error":"connection refused"}`; got != want {
		t.Fatalf("body=%s, want %s", got, want)
	}
	if mon.reads != 1 {
		t.Fatalf("ReadOnce calls=%d", mon.reads)
	}
}

func postWrite(t *testing.T, s *service.Service, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	r := newTestRouter(s)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/write", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestWrite_Success(t *testing.T) {
	ctl := &mockControl{ack: models.Ack{PointID: "M[1].0", Value: 1}}
	w := postWrite(t, &service.Service{Control: ctl}, `{"tag":"M[1].0","value":1,"momentary":true}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if got, want := w.Body.String(), `{"status":"ok","tag":"M[1].0","value":1}`; got != want {
		t.Fatalf("body=%s, want %s", got, want)
	}
	if !ctl.last.Momentary || ctl.last.PointID != "M[1].0" || ctl.last.Value == nil || *ctl.last.Value != 1 {
		t.Fatalf("unexpected command: %+v", ctl.last)
	}
}

func TestWrite_MomentaryDefaultsFalse(t *testing.T) {
	ctl := &mockControl{ack: models.Ack{PointID: "W00[15]", Value: 12000}}
	w := postWrite(t, &service.Service{Control: ctl}, `{"tag":"W00[15]","value":12000}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ctl.last.Momentary {
		t.Fatal("momentary should default to false")
	}
}

func TestWrite_MissingValuePassedAsNil(t *testing.T) {
	ctl := &mockControl{err: fmt.Errorf("%w: missing tag or value", service.ErrInvalidCommand)}
	w := postWrite(t, &service.Service{Control: ctl}, `{"tag":"X"}`, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if ctl.last.Value != nil {
		t.Fatalf("value should be nil, got %v", *ctl.last.Value)
	}
}

func TestWrite_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		wantMsg string
	}{
		{"invalid", fmt.Errorf("%w: missing tag or value", service.ErrInvalidCommand), http.StatusBadRequest, "Missing tag or value"},
		{"rejected", &device.RejectedError{PointID: "X", Status: "Path segment error"}, http.StatusBadGateway, "PLC write failed for X: Path segment error"},
		{"transport", &device.FaultError{Op: "open", Address: "plc", Err: errors.New("dial tcp\nconnection refused")}, http.StatusBadGateway, "connection refused"},
		{"clear", &service.ClearWriteError{PointID: "X", Err: errors.New("timeout")}, http.StatusBadGateway, "clear-write failed for X: timeout"},
		{"other", errors.New("boom"), http.StatusInternalServerError, errWriteFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postWrite(t, &service.Service{Control: &mockControl{err: tc.err}}, `{"tag":"X","value":1}`, nil)
			if w.Code != tc.code {
				t.Fatalf("status=%d, want %d", w.Code, tc.code)
			}
			var out map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out["error"] != tc.wantMsg {
				t.Fatalf("error=%q, want %q", out["error"], tc.wantMsg)
			}
		})
	}
}

func TestWrite_MalformedBody(t *testing.T) {
	ctl := &mockControl{}
	w := postWrite(t, &service.Service{Control: ctl}, `{"tag":"X","value":"on"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if ctl.submits != 0 {
		t.Fatal("Submit must not be called for a malformed body")
	}
}

func TestWrite_Gated(t *testing.T) {
	gate := &mockGate{enabled: true}
	ctl := &mockControl{ack: models.Ack{PointID: "X", Value: 1}}
	s := &service.Service{Control: ctl, Gate: gate}

	w := postWrite(t, s, `{"tag":"X","value":1}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if ctl.submits != 0 {
		t.Fatal("Submit must not run behind a locked gate")
	}

	w = postWrite(t, s, `{"tag":"X","value":1}`, authHeader("good"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if gate.lastParseToken != "good" {
		t.Fatalf("token passed to gate = %q", gate.lastParseToken)
	}
}
