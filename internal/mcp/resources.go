package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const protocolResourceURI = "adcp://protocol"

const protocolInfo = `Ad Context Protocol (ADCP) v2.3.0

Task-first architecture for advertising automation:
- Media Buy Protocol: get_products, create_media_buy, get_media_buy_delivery
- Signals Activation: discover_signals, activate_signal
- Creative Protocol: sync_creatives
- Property Discovery: get_properties

Natural language queries supported across all discovery tasks.`

const examplesResourceURI = "adcp://examples"

const usageExamples = `ADCP Usage Examples:

1. Product Discovery:
   get_products(query="Find prime time video spots during news programs next week under 30,000 MAD")

2. Campaign Creation:
   create_media_buy(
       name="Spring Sale 2025",
       advertiser="Marjane",
       package_ids=["ab_001", "ab_002"],
       start_date="2025-03-01",
       end_date="2025-03-31",
       budget=500000
   )

3. Audience Signals:
   discover_signals(query="Find sports enthusiasts interested in football, aged 18-35 in Morocco")

4. Creative Upload:
   sync_creatives(
       media_buy_id="mb_20250306",
       creative_urls=["https://cdn.example.com/ad1.mp4"]
   )
`

func textResource(uri, text string) sdk.ResourceHandler {
	return func(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
		return &sdk.ReadResourceResult{
			Contents: []*sdk.ResourceContents{
				{URI: uri, MIMEType: "text/plain", Text: text},
			},
		}, nil
	}
}

// RegisterResources registers the static ADCP reference texts.
func (h *MCPHandler) RegisterResources(mcpServer *sdk.Server) {
	mcpServer.AddResource(&sdk.Resource{
		URI:         protocolResourceURI,
		Name:        "protocol",
		Description: "ADCP protocol overview",
		MIMEType:    "text/plain",
	}, textResource(protocolResourceURI, protocolInfo))

	mcpServer.AddResource(&sdk.Resource{
		URI:         examplesResourceURI,
		Name:        "examples",
		Description: "ADCP usage examples",
		MIMEType:    "text/plain",
	}, textResource(examplesResourceURI, usageExamples))
}

// campaignPlannerPrompt renders the campaign planning prompt template.
func campaignPlannerPrompt(objective, targetAudience, budget, durationDays string) string {
	return fmt.Sprintf(`Plan a TV advertising campaign using ADCP protocols:

Objective: %s
Target Audience: %s
Budget: %s MAD
Duration: %s days

Steps:
1. Use discover_signals to find matching audience segments
2. Use get_products to discover inventory fitting the objective and budget
3. Propose a package selection with expected reach
4. Use create_media_buy to book the selected packages
5. Use sync_creatives to assign creative assets

Provide a campaign plan with package ids, budget split, and flight dates.`,
		objective, targetAudience, budget, durationDays)
}

// inventoryAnalyzerPrompt renders the inventory analysis prompt template.
func inventoryAnalyzerPrompt(channel, dateFrom, dateTo string) string {
	return fmt.Sprintf(`Analyze TV advertising inventory using ADCP:

Channel: %s
Date Range: %s to %s

Use get_products to:
1. Discover all available spots in this timeframe
2. Group by program category (news, sports, entertainment)
3. Analyze pricing patterns (prime time vs. off-peak)
4. Identify premium inventory opportunities
5. Calculate total available impressions

Provide:
- Inventory summary with availability rates
- Pricing recommendations
- Best time slots for different advertiser objectives
- Audience reach estimates`, channel, dateFrom, dateTo)
}

func (h *MCPHandler) handleCampaignPlanner(ctx context.Context, req *sdk.GetPromptRequest) (*sdk.GetPromptResult, error) {
	args := req.Params.Arguments
	text := campaignPlannerPrompt(
		args["objective"],
		args["target_audience"],
		args["budget"],
		args["duration_days"],
	)
	return &sdk.GetPromptResult{
		Description: "ADCP-ready campaign planning prompt",
		Messages: []*sdk.PromptMessage{
			{Role: "user", Content: &sdk.TextContent{Text: text}},
		},
	}, nil
}

func (h *MCPHandler) handleInventoryAnalyzer(ctx context.Context, req *sdk.GetPromptRequest) (*sdk.GetPromptResult, error) {
	args := req.Params.Arguments
	text := inventoryAnalyzerPrompt(args["channel"], args["date_from"], args["date_to"])
	return &sdk.GetPromptResult{
		Description: "Inventory analysis prompt",
		Messages: []*sdk.PromptMessage{
			{Role: "user", Content: &sdk.TextContent{Text: text}},
		},
	}, nil
}

// RegisterPrompts registers the campaign planning and inventory analysis
// prompt generators.
func (h *MCPHandler) RegisterPrompts(mcpServer *sdk.Server) {
	mcpServer.AddPrompt(&sdk.Prompt{
		Name:        "campaign_planner",
		Description: "Generate ADCP-ready campaign planning prompt",
		Arguments: []*sdk.PromptArgument{
			{Name: "objective", Description: "Marketing objective", Required: true},
			{Name: "target_audience", Description: "Audience description", Required: true},
			{Name: "budget", Description: "Total budget in MAD", Required: true},
			{Name: "duration_days", Description: "Campaign length in days", Required: true},
		},
	}, h.handleCampaignPlanner)

	mcpServer.AddPrompt(&sdk.Prompt{
		Name:        "inventory_analyzer",
		Description: "Generate inventory analysis prompt",
		Arguments: []*sdk.PromptArgument{
			{Name: "channel", Description: "Channel code", Required: true},
			{Name: "date_from", Description: "Start date YYYY-MM-DD", Required: true},
			{Name: "date_to", Description: "End date YYYY-MM-DD", Required: true},
		},
	}, h.handleInventoryAnalyzer)
}
