package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"adte.com/adte/tv-agent/internal/api"
)

// Operation names as exposed to hosts, shared by the MCP and HTTP surfaces.
const (
	OpGetProducts         = "get_products"
	OpCreateMediaBuy      = "create_media_buy"
	OpGetMediaBuyDelivery = "get_media_buy_delivery"
	OpDiscoverSignals     = "discover_signals"
	OpActivateSignal      = "activate_signal"
	OpSyncCreatives       = "sync_creatives"
	OpGetProperties       = "get_properties"
	OpGetChannels         = "get_channels"
	OpGetEPGShows         = "get_epg_shows"
	OpGetAdBreaks         = "get_adbreaks"
	OpGetInventory        = "get_inventory"
	OpBookAd              = "book_ad"
	OpGetAPIData          = "get_api_data"
)

// Invoker binds an operation name to its typed descriptor builder. The
// returned error only ever reports undecodable arguments; backend failures
// are already folded into the Result.
type Invoker struct {
	Description string
	Invoke      func(ctx context.Context, c *Client, args json.RawMessage) (api.Result, error)
}

func decodeArgs[T any](args json.RawMessage) (T, error) {
	var in T
	if len(args) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return in, fmt.Errorf("decoding arguments: %w", err)
	}
	return in, nil
}

func invoke[T any](call func(ctx context.Context, c *Client, in T) api.Result) func(context.Context, *Client, json.RawMessage) (api.Result, error) {
	return func(ctx context.Context, c *Client, args json.RawMessage) (api.Result, error) {
		in, err := decodeArgs[T](args)
		if err != nil {
			return nil, err
		}
		return call(ctx, c, in), nil
	}
}

// Operations is the static mapping from operation name to builder used by
// the generic HTTP dispatch surface.
var Operations = map[string]Invoker{
	OpGetProducts: {
		Description: "ADCP: Discover media inventory using natural language",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.ProductQuery) api.Result {
			return c.GetProducts(ctx, in)
		}),
	},
	OpCreateMediaBuy: {
		Description: "ADCP: Create a new TV advertising campaign by purchasing ad spots",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.MediaBuyOrder) api.Result {
			return c.CreateMediaBuy(ctx, in)
		}),
	},
	OpGetMediaBuyDelivery: {
		Description: "ADCP: Get real-time campaign performance and delivery metrics",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.DeliveryLookup) api.Result {
			return c.GetMediaBuyDelivery(ctx, in)
		}),
	},
	OpDiscoverSignals: {
		Description: "ADCP: Discover audience and contextual signals using natural language",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.SignalQuery) api.Result {
			return c.DiscoverSignals(ctx, in)
		}),
	},
	OpActivateSignal: {
		Description: "ADCP: Activate audience signals on decisioning platforms",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.SignalActivation) api.Result {
			return c.ActivateSignal(ctx, in)
		}),
	},
	OpSyncCreatives: {
		Description: "ADCP: Upload and assign creative assets to campaigns",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.CreativeSync) api.Result {
			return c.SyncCreatives(ctx, in)
		}),
	},
	OpGetProperties: {
		Description: "ADCP: Get TV channel/property catalog",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.PropertyFilter) api.Result {
			return c.GetProperties(ctx, in)
		}),
	},
	OpGetChannels: {
		Description: "Legacy: fetch the channel list - prefer get_properties",
		Invoke: invoke(func(ctx context.Context, c *Client, _ struct{}) api.Result {
			return c.GetChannels(ctx)
		}),
	},
	OpGetEPGShows: {
		Description: "Legacy: fetch the EPG schedule - prefer get_products",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.ScheduleFilter) api.Result {
			return c.GetSchedule(ctx, in)
		}),
	},
	OpGetAdBreaks: {
		Description: "Legacy: fetch ad breaks with availability filter - prefer get_products",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.AdBreakFilter) api.Result {
			return c.GetAdBreaks(ctx, in)
		}),
	},
	OpGetInventory: {
		Description: "Legacy: get inventory with audience data",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.InventoryFilter) api.Result {
			return c.GetInventory(ctx, in)
		}),
	},
	OpBookAd: {
		Description: "Legacy: book an ad spot - prefer create_media_buy",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.Booking) api.Result {
			return c.BookAd(ctx, in)
		}),
	},
	OpGetAPIData: {
		Description: "Generic HTTP API caller for non-ADCP endpoints",
		Invoke: invoke(func(ctx context.Context, c *Client, in api.APICall) api.Result {
			return c.CallAPI(ctx, in)
		}),
	},
}

// OperationNames returns the registered operation names in sorted order.
func OperationNames() []string {
	names := make([]string, 0, len(Operations))
	for name := range Operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
