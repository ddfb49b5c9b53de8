package fiware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sensor_dashboard/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(Config{
		STHURL:      srv.URL,
		OrionURL:    srv.URL,
		Service:     "smart",
		ServicePath: "/",
		EntityID:    "urn:ngsi-ld:NEXUScode:001",
		EntityType:  "Lamp",
		Timeout:     time.Second,
	}, nil)
	return c, srv
}

const sthBody = `{
  "contextResponses": [{
    "contextElement": {
      "attributes": [{
        "name": "temperature",
        "values": [
          {"attrValue": "29.5", "recvTime": "2024-01-01T12:00:00.000Z"},
          {"attrValue": 27,     "recvTime": "2024-01-01T11:59:50Z"}
        ]
      }],
      "id": "urn:ngsi-ld:NEXUScode:001",
      "type": "Lamp"
    },
    "statusCode": {"code": "200", "reasonPhrase": "OK"}
  }]
}`

func TestFetchLastN_RequestShapeAndDecode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		wantPath := "/STH/v1/contextEntities/type/Lamp/id/urn:ngsi-ld:NEXUScode:001/attributes/temperature"
		if r.URL.Path != wantPath {
			t.Errorf("path = %s, want %s", r.URL.Path, wantPath)
		}
		if got := r.URL.Query().Get("lastN"); got != "2" {
			t.Errorf("lastN = %q", got)
		}
		if r.Header.Get("fiware-service") != "smart" || r.Header.Get("fiware-servicepath") != "/" {
			t.Errorf("tenant headers missing: %v", r.Header)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sthBody)
	})

	got, err := c.FetchLastN(context.Background(), models.Temperature, 2)
	if err != nil {
		t.Fatalf("FetchLastN: %v", err)
	}
	want := []models.RawRecord{
		{AttrValue: "29.5", RecvTime: "2024-01-01T12:00:00.000Z"},
		{AttrValue: "27", RecvTime: "2024-01-01T11:59:50Z"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFetchLastN_EmptyValuesIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"contextResponses":[{"contextElement":{"attributes":[{"values":[]}]}}]}`)
	})
	got, err := c.FetchLastN(context.Background(), models.Humidity, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %+v", got)
	}
}

func TestFetchLastN_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":           `<html>`,
		"no responses":       `{"contextResponses":[]}`,
		"missing responses":  `{}`,
		"no attributes":      `{"contextResponses":[{"contextElement":{"attributes":[]}}]}`,
		"missing values key": `{"contextResponses":[{"contextElement":{"attributes":[{"name":"x"}]}}]}`,
		"wrong shape":        `{"contextResponses":"oops"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			_, err := c.FetchLastN(context.Background(), models.Luminosity, 1)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("want ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestFetchLastN_NonSuccessStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such entity", http.StatusNotFound)
	})
	_, err := c.FetchLastN(context.Background(), models.Temperature, 1)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("want *StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound || !strings.Contains(se.Body, "no such entity") {
		t.Fatalf("unexpected status error: %+v", se)
	}
}

func TestFetchLastN_Timeout(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	c.http.Timeout = 50 * time.Millisecond

	start := time.Now()
	if _, err := c.FetchLastN(context.Background(), models.Temperature, 1); err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout not honoured")
	}
}

func TestSendCommand_PayloadAndHeaders(t *testing.T) {
	var gotBody map[string]map[string]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/v2/entities/urn:ngsi-ld:NEXUScode:001/attrs" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("fiware-service") != "smart" || r.Header.Get("fiware-servicepath") != "/" {
			t.Errorf("tenant headers missing")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.SendCommand(context.Background(), models.CommandOn); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	attr, ok := gotBody["on"]
	if !ok || len(gotBody) != 1 {
		t.Fatalf("unexpected body: %v", gotBody)
	}
	if attr["type"] != "command" || attr["value"] != "" {
		t.Fatalf("unexpected attr: %v", attr)
	}
}

func TestSendCommand_NonSuccess(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	err := c.SendCommand(context.Background(), models.CommandOff)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("want 422 StatusError, got %v", err)
	}
}

func TestSendCommand_ConnectionRefused(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()
	if err := c.SendCommand(context.Background(), models.CommandOn); err == nil {
		t.Fatalf("expected transport error")
	}
}
