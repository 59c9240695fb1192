package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestOperationsRegistryIsComplete(t *testing.T) {
	want := []string{
		OpGetProducts, OpCreateMediaBuy, OpGetMediaBuyDelivery,
		OpDiscoverSignals, OpActivateSignal, OpSyncCreatives,
		OpGetProperties, OpGetChannels, OpGetEPGShows, OpGetAdBreaks,
		OpGetInventory, OpBookAd, OpGetAPIData,
	}
	if len(Operations) != len(want) {
		t.Fatalf("registry has %d operations, want %d", len(Operations), len(want))
	}
	for _, name := range want {
		if _, ok := Operations[name]; !ok {
			t.Errorf("operation %q missing from registry", name)
		}
	}
}

func TestInvokeSelectsEnvelopePerOperation(t *testing.T) {
	c := New("http://backend.local", WithHTTPClient(&mockHTTPClient{err: errors.New("down")}))

	// Legacy operation: bare error envelope.
	res, err := Operations[OpGetChannels].Invoke(context.Background(), c, nil)
	if err != nil {
		t.Fatalf("invoke get_channels: %v", err)
	}
	if _, ok := res["error"]; !ok {
		t.Errorf("get_channels result = %v, want bare envelope", res)
	}

	// ADCP operation: protocol-tagged envelope.
	res, err = Operations[OpGetProducts].Invoke(context.Background(), c, json.RawMessage(`{"query":"spots"}`))
	if err != nil {
		t.Fatalf("invoke get_products: %v", err)
	}
	if res["protocol"] != "adcp" || res["status"] != "failed" {
		t.Errorf("get_products result = %v, want protocol envelope", res)
	}
}

func TestInvokeEmptyArgsAllowed(t *testing.T) {
	mock := &mockHTTPClient{responses: []*http.Response{newMockResponse(200, `{"adbreaks":[]}`)}}
	c := New("http://backend.local", WithHTTPClient(mock))

	res, err := Operations[OpGetAdBreaks].Invoke(context.Background(), c, nil)
	if err != nil {
		t.Fatalf("invoke with empty args: %v", err)
	}
	if _, ok := res["adbreaks"]; !ok {
		t.Errorf("result = %v", res)
	}
	// No availability filter should have been sent.
	if mock.requests[0].URL.Query().Get("available") != "" {
		t.Errorf("available param sent unexpectedly: %v", mock.requests[0].URL)
	}
}

func TestInvokeRejectsMalformedArgs(t *testing.T) {
	c := New("http://backend.local", WithHTTPClient(&mockHTTPClient{}))
	_, err := Operations[OpCreateMediaBuy].Invoke(context.Background(), c, json.RawMessage(`{"budget":"lots"}`))
	if err == nil {
		t.Fatal("expected decode error for malformed arguments")
	}
	if !strings.Contains(err.Error(), "decoding arguments") {
		t.Errorf("error = %v", err)
	}
}

func TestOperationNamesSorted(t *testing.T) {
	names := OperationNames()
	if len(names) != len(Operations) {
		t.Fatalf("got %d names, want %d", len(names), len(Operations))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted at %d: %v", i, names)
		}
	}
}
