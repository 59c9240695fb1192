package api

// ProtocolVersion is the AdCP revision whose task names and payload shapes
// the forwarding layer mirrors.
const ProtocolVersion = "2.3.0"

// Result is the uniform envelope produced by every forwarded operation:
// the backend's decoded JSON body on success, a text fallback for the
// generic passthrough, or one of the two error shapes below. Every call
// yields exactly one Result; failures never surface as raised errors.
type Result map[string]any

// Params is a string-keyed, JSON-compatible mapping. It keeps the generic
// passthrough operation fully general (headers, query parameters, body)
// without giving up typed argument sets everywhere else.
type Params map[string]any

// Error wraps a failure into the bare envelope used by the legacy
// operations and the generic passthrough.
func Error(err error) Result {
	return Result{"error": err.Error()}
}

// Failed wraps a failure into the protocol-tagged envelope used by the
// ADCP task operations. The label identifies the task family, matching the
// messages AdCP clients already parse.
func Failed(label string, err error) Result {
	return Result{
		"protocol": "adcp",
		"version":  ProtocolVersion,
		"status":   "failed",
		"message":  label + ": " + err.Error(),
	}
}

// Text wraps a non-JSON response body for the passthrough operation.
func Text(raw string) Result {
	return Result{"text": raw}
}

// ProductQuery holds the arguments for ADCP product discovery.
type ProductQuery struct {
	Query     string   `json:"query"`
	Channel   string   `json:"channel,omitempty"`
	DateFrom  string   `json:"date_from,omitempty"`
	DateTo    string   `json:"date_to,omitempty"`
	MaxBudget *float64 `json:"max_budget,omitempty"`
}

// MediaBuyOrder holds the arguments for ADCP campaign creation.
type MediaBuyOrder struct {
	Name       string   `json:"name"`
	Advertiser string   `json:"advertiser"`
	PackageIDs []string `json:"package_ids"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Budget     float64  `json:"budget"`
	Currency   string   `json:"currency,omitempty"`
	Objectives []string `json:"objectives,omitempty"`
}

// DeliveryLookup identifies the campaign whose delivery metrics are wanted.
type DeliveryLookup struct {
	MediaBuyID string `json:"media_buy_id"`
}

// SignalQuery holds the arguments for ADCP signal discovery.
type SignalQuery struct {
	Query       string   `json:"query"`
	SignalTypes []string `json:"signal_types,omitempty"`
	MinScale    *int     `json:"min_scale,omitempty"`
}

// SignalActivation holds the arguments for pushing a signal to platforms.
type SignalActivation struct {
	SignalID    string   `json:"signal_id"`
	PlatformIDs []string `json:"platform_ids"`
	Config      Params   `json:"config,omitempty"`
}

// CreativeSync holds the arguments for assigning creatives to a campaign.
type CreativeSync struct {
	MediaBuyID   string   `json:"media_buy_id"`
	CreativeURLs []string `json:"creative_urls"`
	Assignments  Params   `json:"assignments,omitempty"`
}

// PropertyFilter holds the optional filters for the ADCP property catalog.
type PropertyFilter struct {
	PublisherDomain string `json:"publisher_domain,omitempty"`
	Tags            string `json:"tags,omitempty"`
}

// ScheduleFilter holds the arguments for the legacy EPG schedule lookup.
type ScheduleFilter struct {
	Channel string `json:"channel"`
	Date    string `json:"date,omitempty"`
}

// AdBreakFilter holds the optional availability filter for ad breaks.
type AdBreakFilter struct {
	Available *bool `json:"available,omitempty"`
}

// InventoryFilter holds the arguments for the legacy inventory lookup.
type InventoryFilter struct {
	Channel string `json:"channel"`
	Date    string `json:"date,omitempty"`
	Region  string `json:"region,omitempty"`
}

// Booking identifies the ad break to mark as sold.
type Booking struct {
	InventoryID string `json:"inventory_id"`
}

// APICall holds the caller-specified request for the generic passthrough
// operation. No validation or defaulting is applied beyond the GET method
// fallback.
type APICall struct {
	URL     string            `json:"url"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Params  Params            `json:"params,omitempty"`
	Body    Params            `json:"body,omitempty"`
}

// ErrorResponse is the fault format of the HTTP surface itself (bad
// dispatch, auth failures). Backend failures never use it; they travel
// inside a Result envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
