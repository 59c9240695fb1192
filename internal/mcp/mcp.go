package mcp

import (
	"context"

	"adte.com/adte/tv-agent/internal/api"
	"adte.com/adte/tv-agent/internal/backend"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPHandler wraps the request forwarder and provides MCP tool handlers.
type MCPHandler struct {
	client *backend.Client
}

// NewMCPHandler creates a new MCP handler
func NewMCPHandler(client *backend.Client) *MCPHandler {
	return &MCPHandler{client: client}
}

// --- ADCP task tools ---

// HandleGetProducts runs natural-language product discovery.
func (h *MCPHandler) HandleGetProducts(ctx context.Context, _ *sdk.CallToolRequest, input api.ProductQuery) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.GetProducts(ctx, input), nil
}

// HandleCreateMediaBuy launches a TV advertising campaign.
func (h *MCPHandler) HandleCreateMediaBuy(ctx context.Context, _ *sdk.CallToolRequest, input api.MediaBuyOrder) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.CreateMediaBuy(ctx, input), nil
}

// HandleGetMediaBuyDelivery reports campaign delivery metrics.
func (h *MCPHandler) HandleGetMediaBuyDelivery(ctx context.Context, _ *sdk.CallToolRequest, input api.DeliveryLookup) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.GetMediaBuyDelivery(ctx, input), nil
}

// HandleDiscoverSignals runs natural-language signal discovery.
func (h *MCPHandler) HandleDiscoverSignals(ctx context.Context, _ *sdk.CallToolRequest, input api.SignalQuery) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.DiscoverSignals(ctx, input), nil
}

// HandleActivateSignal pushes a signal to decisioning platforms.
func (h *MCPHandler) HandleActivateSignal(ctx context.Context, _ *sdk.CallToolRequest, input api.SignalActivation) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.ActivateSignal(ctx, input), nil
}

// HandleSyncCreatives uploads and assigns creative assets.
func (h *MCPHandler) HandleSyncCreatives(ctx context.Context, _ *sdk.CallToolRequest, input api.CreativeSync) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.SyncCreatives(ctx, input), nil
}

// HandleGetProperties returns the publisher property catalog.
func (h *MCPHandler) HandleGetProperties(ctx context.Context, _ *sdk.CallToolRequest, input api.PropertyFilter) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.GetProperties(ctx, input), nil
}

// --- Legacy tools (backward compatibility) ---

// HandleGetChannels returns the channel list.
func (h *MCPHandler) HandleGetChannels(ctx context.Context, _ *sdk.CallToolRequest, _ struct{}) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.GetChannels(ctx), nil
}

// HandleGetEPGShows returns the EPG schedule for a channel.
func (h *MCPHandler) HandleGetEPGShows(ctx context.Context, _ *sdk.CallToolRequest, input api.ScheduleFilter) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.GetSchedule(ctx, input), nil
}

// HandleGetAdBreaks returns ad breaks with an optional availability filter.
func (h *MCPHandler) HandleGetAdBreaks(ctx context.Context, _ *sdk.CallToolRequest, input api.AdBreakFilter) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.GetAdBreaks(ctx, input), nil
}

// HandleGetInventory returns detailed inventory for a channel and date.
func (h *MCPHandler) HandleGetInventory(ctx context.Context, _ *sdk.CallToolRequest, input api.InventoryFilter) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.GetInventory(ctx, input), nil
}

// HandleBookAd marks a single ad break as sold.
func (h *MCPHandler) HandleBookAd(ctx context.Context, _ *sdk.CallToolRequest, input api.Booking) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.BookAd(ctx, input), nil
}

// HandleGetAPIData performs the generic passthrough call.
func (h *MCPHandler) HandleGetAPIData(ctx context.Context, _ *sdk.CallToolRequest, input api.APICall) (*sdk.CallToolResult, api.Result, error) {
	return nil, h.client.CallAPI(ctx, input), nil
}

// RegisterTools registers all MCP tools with the server
func (h *MCPHandler) RegisterTools(mcpServer *sdk.Server) {
	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpGetProducts,
		Description: "ADCP: Discover media inventory using natural language. Example: 'Find premium video spots during sports programs next week under 50,000 MAD'",
	}, h.HandleGetProducts)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpCreateMediaBuy,
		Description: "ADCP: Create a new TV advertising campaign by purchasing ad spots",
	}, h.HandleCreateMediaBuy)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpGetMediaBuyDelivery,
		Description: "ADCP: Get real-time campaign performance and delivery metrics",
	}, h.HandleGetMediaBuyDelivery)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpDiscoverSignals,
		Description: "ADCP: Discover audience and contextual signals using natural language. Example: 'Find sports enthusiasts aged 25-45 in Casablanca'",
	}, h.HandleDiscoverSignals)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpActivateSignal,
		Description: "ADCP: Activate audience signals on decisioning platforms",
	}, h.HandleActivateSignal)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpSyncCreatives,
		Description: "ADCP: Upload and assign creative assets (videos, images) to campaigns",
	}, h.HandleSyncCreatives)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpGetProperties,
		Description: "ADCP: Get TV channel/property catalog (AdCP v2.3.0)",
	}, h.HandleGetProperties)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpGetChannels,
		Description: "[LEGACY] Get channels list - prefer get_properties for ADCP compliance",
	}, h.HandleGetChannels)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpGetEPGShows,
		Description: "[LEGACY] Fetch EPG schedule - prefer get_products for ADCP compliance",
	}, h.HandleGetEPGShows)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpGetAdBreaks,
		Description: "[LEGACY] Fetch ad breaks - prefer get_products for ADCP compliance",
	}, h.HandleGetAdBreaks)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpGetInventory,
		Description: "[LEGACY] Get inventory with audience data",
	}, h.HandleGetInventory)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpBookAd,
		Description: "[LEGACY] Book an ad spot - prefer create_media_buy for ADCP compliance",
	}, h.HandleBookAd)

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        backend.OpGetAPIData,
		Description: "Generic HTTP API caller for non-ADCP endpoints",
	}, h.HandleGetAPIData)
}
