package backend

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"adte.com/adte/tv-agent/internal/api"
)

// Operation timeouts. ADCP task endpoints do natural-language matching on
// the backend and get the heavier budget; plain lookups and the passthrough
// stay at ten seconds.
const (
	lookupTimeout = 10 * time.Second
	taskTimeout   = 15 * time.Second
)

// Request describes one outbound backend call: method, target, query,
// headers, JSON body and the timeout bound applied to the call. A Request
// is built fresh per invocation and never reused.
type Request struct {
	Method  string
	Path    string // resolved against the client base URL
	URL     string // absolute target, set by the passthrough builder only
	Query   url.Values
	Headers map[string]string
	Body    any // marshalled to JSON when non-nil
	Timeout time.Duration
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// Wire shapes for the ADCP task bodies. List-of-id arguments are expanded
// into lists of single-key objects, as the protocol expects.

type packageRef struct {
	PackageID string `json:"package_id"`
}

type platformRef struct {
	PlatformID string `json:"platform_id"`
}

type creativeRef struct {
	URL string `json:"url"`
}

type productFilters struct {
	MaxBudget *float64 `json:"max_budget,omitempty"`
}

type productsBody struct {
	Query    string         `json:"query"`
	Channel  string         `json:"channel,omitempty"`
	DateFrom string         `json:"date_from"`
	DateTo   string         `json:"date_to,omitempty"`
	Filters  productFilters `json:"filters"`
}

type mediaBuyBody struct {
	Name       string       `json:"name"`
	Advertiser string       `json:"advertiser"`
	Packages   []packageRef `json:"packages"`
	StartDate  string       `json:"start_date"`
	EndDate    string       `json:"end_date"`
	Budget     float64      `json:"budget"`
	Currency   string       `json:"currency"`
	Objectives []string     `json:"objectives"`
	KPIs       api.Params   `json:"kpis"`
}

type signalFilters struct {
	MinScale *int `json:"min_scale,omitempty"`
}

type signalsBody struct {
	Query       string        `json:"query"`
	SignalTypes []string      `json:"signal_types"`
	Providers   []string      `json:"providers"`
	Filters     signalFilters `json:"filters"`
}

type activateBody struct {
	SignalID  string        `json:"signal_id"`
	Platforms []platformRef `json:"platforms"`
	Config    api.Params    `json:"config"`
}

type syncBody struct {
	MediaBuyID  string        `json:"media_buy_id"`
	Creatives   []creativeRef `json:"creatives"`
	Assignments api.Params    `json:"assignments"`
}

type bookBody struct {
	InventoryID string `json:"inventory_id"`
}

// BuildProducts constructs the descriptor for ADCP product discovery.
// date_from defaults to the current calendar date.
func BuildProducts(q api.ProductQuery) *Request {
	dateFrom := q.DateFrom
	if dateFrom == "" {
		dateFrom = today()
	}
	return &Request{
		Method: http.MethodPost,
		Path:   "/api/v1/adcp/products",
		Body: productsBody{
			Query:    q.Query,
			Channel:  q.Channel,
			DateFrom: dateFrom,
			DateTo:   q.DateTo,
			Filters:  productFilters{MaxBudget: q.MaxBudget},
		},
		Timeout: taskTimeout,
	}
}

// BuildMediaBuy constructs the descriptor for ADCP campaign creation.
// Currency defaults to MAD and objectives to reach+awareness; each package
// id becomes a {"package_id": id} object.
func BuildMediaBuy(o api.MediaBuyOrder) *Request {
	currency := o.Currency
	if currency == "" {
		currency = "MAD"
	}
	objectives := o.Objectives
	if len(objectives) == 0 {
		objectives = []string{"reach", "awareness"}
	}
	packages := make([]packageRef, 0, len(o.PackageIDs))
	for _, id := range o.PackageIDs {
		packages = append(packages, packageRef{PackageID: id})
	}
	return &Request{
		Method: http.MethodPost,
		Path:   "/api/v1/adcp/media-buy",
		Body: mediaBuyBody{
			Name:       o.Name,
			Advertiser: o.Advertiser,
			Packages:   packages,
			StartDate:  o.StartDate,
			EndDate:    o.EndDate,
			Budget:     o.Budget,
			Currency:   currency,
			Objectives: objectives,
			KPIs:       api.Params{},
		},
		Timeout: taskTimeout,
	}
}

// BuildDelivery constructs the descriptor for campaign delivery metrics.
func BuildDelivery(l api.DeliveryLookup) *Request {
	return &Request{
		Method:  http.MethodGet,
		Path:    fmt.Sprintf("/api/v1/adcp/media-buy/%s/delivery", url.PathEscape(l.MediaBuyID)),
		Timeout: lookupTimeout,
	}
}

// BuildSignals constructs the descriptor for ADCP signal discovery.
// signal_types defaults to audience+contextual.
func BuildSignals(q api.SignalQuery) *Request {
	signalTypes := q.SignalTypes
	if len(signalTypes) == 0 {
		signalTypes = []string{"audience", "contextual"}
	}
	return &Request{
		Method: http.MethodPost,
		Path:   "/api/v1/adcp/signals/discover",
		Body: signalsBody{
			Query:       q.Query,
			SignalTypes: signalTypes,
			Filters:     signalFilters{MinScale: q.MinScale},
		},
		Timeout: taskTimeout,
	}
}

// BuildActivateSignal constructs the descriptor for pushing a signal to
// decisioning platforms. Config defaults to an empty object.
func BuildActivateSignal(a api.SignalActivation) *Request {
	platforms := make([]platformRef, 0, len(a.PlatformIDs))
	for _, id := range a.PlatformIDs {
		platforms = append(platforms, platformRef{PlatformID: id})
	}
	config := a.Config
	if config == nil {
		config = api.Params{}
	}
	return &Request{
		Method: http.MethodPost,
		Path:   "/api/v1/adcp/signals/activate",
		Body: activateBody{
			SignalID:  a.SignalID,
			Platforms: platforms,
			Config:    config,
		},
		Timeout: taskTimeout,
	}
}

// BuildSyncCreatives constructs the descriptor for creative assignment.
// Assignments defaults to an empty object.
func BuildSyncCreatives(s api.CreativeSync) *Request {
	creatives := make([]creativeRef, 0, len(s.CreativeURLs))
	for _, u := range s.CreativeURLs {
		creatives = append(creatives, creativeRef{URL: u})
	}
	assignments := s.Assignments
	if assignments == nil {
		assignments = api.Params{}
	}
	return &Request{
		Method: http.MethodPost,
		Path:   "/api/v1/adcp/creatives/sync",
		Body: syncBody{
			MediaBuyID:  s.MediaBuyID,
			Creatives:   creatives,
			Assignments: assignments,
		},
		Timeout: taskTimeout,
	}
}

// BuildProperties constructs the descriptor for the ADCP property catalog.
// Missing filters are omitted from the query, not sent empty.
func BuildProperties(f api.PropertyFilter) *Request {
	query := url.Values{}
	if f.PublisherDomain != "" {
		query.Set("publisher_domain", f.PublisherDomain)
	}
	if f.Tags != "" {
		query.Set("tags", f.Tags)
	}
	return &Request{
		Method:  http.MethodGet,
		Path:    "/api/v1/adcp/properties",
		Query:   query,
		Timeout: lookupTimeout,
	}
}

// BuildChannels constructs the descriptor for the legacy channel list.
func BuildChannels() *Request {
	return &Request{
		Method:  http.MethodGet,
		Path:    "/api/v1/channels",
		Timeout: lookupTimeout,
	}
}

// BuildSchedule constructs the descriptor for the legacy EPG lookup.
// The date defaults to the current calendar date.
func BuildSchedule(f api.ScheduleFilter) *Request {
	date := f.Date
	if date == "" {
		date = today()
	}
	query := url.Values{}
	query.Set("channel", f.Channel)
	query.Set("date", date)
	return &Request{
		Method:  http.MethodGet,
		Path:    "/api/v1/programs",
		Query:   query,
		Timeout: lookupTimeout,
	}
}

// BuildAdBreaks constructs the descriptor for the legacy ad-break lookup.
// An unset availability filter is omitted entirely.
func BuildAdBreaks(f api.AdBreakFilter) *Request {
	query := url.Values{}
	if f.Available != nil {
		query.Set("available", fmt.Sprintf("%t", *f.Available))
	}
	return &Request{
		Method:  http.MethodGet,
		Path:    "/api/v1/adbreaks",
		Query:   query,
		Timeout: lookupTimeout,
	}
}

// BuildInventory constructs the descriptor for the legacy inventory lookup.
func BuildInventory(f api.InventoryFilter) *Request {
	date := f.Date
	if date == "" {
		date = today()
	}
	query := url.Values{}
	query.Set("channel", f.Channel)
	query.Set("date", date)
	if f.Region != "" {
		query.Set("region", f.Region)
	}
	return &Request{
		Method:  http.MethodGet,
		Path:    "/api/v1/inventory",
		Query:   query,
		Timeout: lookupTimeout,
	}
}

// BuildBooking constructs the descriptor for marking an ad break as sold.
func BuildBooking(b api.Booking) *Request {
	return &Request{
		Method:  http.MethodPost,
		Path:    "/api/v1/book_ad",
		Body:    bookBody{InventoryID: b.InventoryID},
		Timeout: lookupTimeout,
	}
}

// BuildCall constructs the descriptor for the generic passthrough
// operation. The caller owns method, target and payload; only the method
// falls back to GET.
func BuildCall(c api.APICall) *Request {
	method := c.Method
	if method == "" {
		method = http.MethodGet
	}
	query := url.Values{}
	for k, v := range c.Params {
		query.Set(k, fmt.Sprint(v))
	}
	r := &Request{
		Method:  method,
		URL:     c.URL,
		Query:   query,
		Headers: c.Headers,
		Timeout: lookupTimeout,
	}
	if c.Body != nil {
		r.Body = c.Body
	}
	return r
}
