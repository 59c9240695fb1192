package backend

import (
	"encoding/json"
	"net/http"
	"reflect"
	"testing"
	"time"

	"adte.com/adte/tv-agent/internal/api"
)

func bodyJSON(t *testing.T, r *Request) map[string]any {
	t.Helper()
	data, err := json.Marshal(r.Body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	return out
}

func TestBuildProductsDefaultsDateFrom(t *testing.T) {
	r := BuildProducts(api.ProductQuery{Query: "prime time spots"})

	if r.Method != http.MethodPost {
		t.Errorf("Method = %v, want POST", r.Method)
	}
	if r.Path != "/api/v1/adcp/products" {
		t.Errorf("Path = %v", r.Path)
	}
	if r.Timeout != taskTimeout {
		t.Errorf("Timeout = %v, want %v", r.Timeout, taskTimeout)
	}

	body := bodyJSON(t, r)
	want := time.Now().Format("2006-01-02")
	if body["date_from"] != want {
		t.Errorf("date_from = %v, want %v", body["date_from"], want)
	}
	if _, ok := body["date_to"]; ok {
		t.Error("date_to should be omitted when unset")
	}
	if _, ok := body["channel"]; ok {
		t.Error("channel should be omitted when unset")
	}
}

func TestBuildProductsKeepsExplicitDates(t *testing.T) {
	r := BuildProducts(api.ProductQuery{
		Query:    "sports",
		Channel:  "al_aoula",
		DateFrom: "2025-03-01",
		DateTo:   "2025-03-08",
	})
	body := bodyJSON(t, r)
	if body["date_from"] != "2025-03-01" {
		t.Errorf("date_from = %v", body["date_from"])
	}
	if body["date_to"] != "2025-03-08" {
		t.Errorf("date_to = %v", body["date_to"])
	}
	if body["channel"] != "al_aoula" {
		t.Errorf("channel = %v", body["channel"])
	}
}

func TestBuildMediaBuyPackageTransform(t *testing.T) {
	r := BuildMediaBuy(api.MediaBuyOrder{
		Name:       "Summer Sale 2025",
		Advertiser: "Marjane",
		PackageIDs: []string{"a", "b"},
		StartDate:  "2025-06-01",
		EndDate:    "2025-06-30",
		Budget:     500000,
	})

	body := bodyJSON(t, r)
	wantPackages := []any{
		map[string]any{"package_id": "a"},
		map[string]any{"package_id": "b"},
	}
	if !reflect.DeepEqual(body["packages"], wantPackages) {
		t.Errorf("packages = %v, want %v", body["packages"], wantPackages)
	}
}

func TestBuildMediaBuyDefaults(t *testing.T) {
	r := BuildMediaBuy(api.MediaBuyOrder{Name: "c", Advertiser: "a"})
	body := bodyJSON(t, r)

	if !reflect.DeepEqual(body["objectives"], []any{"reach", "awareness"}) {
		t.Errorf("objectives = %v, want default reach+awareness", body["objectives"])
	}
	if body["currency"] != "MAD" {
		t.Errorf("currency = %v, want MAD", body["currency"])
	}
	if !reflect.DeepEqual(body["kpis"], map[string]any{}) {
		t.Errorf("kpis = %v, want empty object", body["kpis"])
	}
}

func TestBuildMediaBuyKeepsExplicitObjectives(t *testing.T) {
	r := BuildMediaBuy(api.MediaBuyOrder{Objectives: []string{"conversions"}, Currency: "USD"})
	body := bodyJSON(t, r)
	if !reflect.DeepEqual(body["objectives"], []any{"conversions"}) {
		t.Errorf("objectives = %v", body["objectives"])
	}
	if body["currency"] != "USD" {
		t.Errorf("currency = %v", body["currency"])
	}
}

func TestBuildDeliveryEscapesID(t *testing.T) {
	r := BuildDelivery(api.DeliveryLookup{MediaBuyID: "mb 01/x"})
	want := "/api/v1/adcp/media-buy/mb%2001%2Fx/delivery"
	if r.Path != want {
		t.Errorf("Path = %v, want %v", r.Path, want)
	}
	if r.Method != http.MethodGet {
		t.Errorf("Method = %v, want GET", r.Method)
	}
}

func TestBuildSignalsDefaults(t *testing.T) {
	r := BuildSignals(api.SignalQuery{Query: "sports fans"})
	body := bodyJSON(t, r)

	if !reflect.DeepEqual(body["signal_types"], []any{"audience", "contextual"}) {
		t.Errorf("signal_types = %v, want default audience+contextual", body["signal_types"])
	}
	if providers, ok := body["providers"]; !ok || providers != nil {
		t.Errorf("providers = %v, want explicit null", providers)
	}
}

func TestBuildActivateSignalPlatformTransform(t *testing.T) {
	r := BuildActivateSignal(api.SignalActivation{
		SignalID:    "sig_1",
		PlatformIDs: []string{"p1", "p2"},
	})
	body := bodyJSON(t, r)

	wantPlatforms := []any{
		map[string]any{"platform_id": "p1"},
		map[string]any{"platform_id": "p2"},
	}
	if !reflect.DeepEqual(body["platforms"], wantPlatforms) {
		t.Errorf("platforms = %v, want %v", body["platforms"], wantPlatforms)
	}
	if !reflect.DeepEqual(body["config"], map[string]any{}) {
		t.Errorf("config = %v, want empty object", body["config"])
	}
}

func TestBuildSyncCreativesTransform(t *testing.T) {
	r := BuildSyncCreatives(api.CreativeSync{
		MediaBuyID:   "mb_1",
		CreativeURLs: []string{"https://cdn.example.com/ad1.mp4"},
	})
	body := bodyJSON(t, r)

	wantCreatives := []any{map[string]any{"url": "https://cdn.example.com/ad1.mp4"}}
	if !reflect.DeepEqual(body["creatives"], wantCreatives) {
		t.Errorf("creatives = %v, want %v", body["creatives"], wantCreatives)
	}
	if !reflect.DeepEqual(body["assignments"], map[string]any{}) {
		t.Errorf("assignments = %v, want empty object", body["assignments"])
	}
}

func TestBuildPropertiesOmitsMissingFilters(t *testing.T) {
	r := BuildProperties(api.PropertyFilter{})
	if len(r.Query) != 0 {
		t.Errorf("Query = %v, want empty", r.Query)
	}

	r = BuildProperties(api.PropertyFilter{PublisherDomain: "snrt.ma", Tags: "premium,sports"})
	if r.Query.Get("publisher_domain") != "snrt.ma" {
		t.Errorf("publisher_domain = %v", r.Query.Get("publisher_domain"))
	}
	if r.Query.Get("tags") != "premium,sports" {
		t.Errorf("tags = %v", r.Query.Get("tags"))
	}
}

func TestBuildScheduleDefaultsDate(t *testing.T) {
	r := BuildSchedule(api.ScheduleFilter{Channel: "al_aoula"})
	want := time.Now().Format("2006-01-02")
	if r.Query.Get("date") != want {
		t.Errorf("date = %v, want %v", r.Query.Get("date"), want)
	}
	if r.Query.Get("channel") != "al_aoula" {
		t.Errorf("channel = %v", r.Query.Get("channel"))
	}
}

func TestBuildAdBreaksAvailabilityFilter(t *testing.T) {
	r := BuildAdBreaks(api.AdBreakFilter{})
	if _, ok := r.Query["available"]; ok {
		t.Error("available should be omitted when unset")
	}

	avail := true
	r = BuildAdBreaks(api.AdBreakFilter{Available: &avail})
	if r.Query.Get("available") != "true" {
		t.Errorf("available = %v, want true", r.Query.Get("available"))
	}

	avail = false
	r = BuildAdBreaks(api.AdBreakFilter{Available: &avail})
	if r.Query.Get("available") != "false" {
		t.Errorf("available = %v, want false", r.Query.Get("available"))
	}
}

func TestBuildInventoryRegionOptional(t *testing.T) {
	r := BuildInventory(api.InventoryFilter{Channel: "2m", Date: "2025-01-15"})
	if _, ok := r.Query["region"]; ok {
		t.Error("region should be omitted when unset")
	}

	r = BuildInventory(api.InventoryFilter{Channel: "2m", Date: "2025-01-15", Region: "casablanca"})
	if r.Query.Get("region") != "casablanca" {
		t.Errorf("region = %v", r.Query.Get("region"))
	}
}

func TestBuildCallDefaultsToGET(t *testing.T) {
	r := BuildCall(api.APICall{URL: "http://example.com/data"})
	if r.Method != http.MethodGet {
		t.Errorf("Method = %v, want GET", r.Method)
	}
	if r.URL != "http://example.com/data" {
		t.Errorf("URL = %v", r.URL)
	}
	if r.Body != nil {
		t.Errorf("Body = %v, want nil", r.Body)
	}
}

func TestBuildCallStringifiesParams(t *testing.T) {
	r := BuildCall(api.APICall{
		URL:    "http://example.com/data",
		Params: api.Params{"limit": 10, "active": true},
	})
	if r.Query.Get("limit") != "10" {
		t.Errorf("limit = %v, want 10", r.Query.Get("limit"))
	}
	if r.Query.Get("active") != "true" {
		t.Errorf("active = %v, want true", r.Query.Get("active"))
	}
}
