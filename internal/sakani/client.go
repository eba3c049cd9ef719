package sakani

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jimezsa/sakani/internal/models"
	"github.com/jimezsa/sakani/internal/network"
)

const baseURL = "https://sakani.sa"

const (
	projectIDPrefix    = "project_"
	marketUnitIDPrefix = "market_unit_"
)

// Client wraps the Sakani marketplace and analytics services.
type Client struct {
	http   *network.Client
	logger zerolog.Logger
}

func NewClient(httpClient *network.Client, logger zerolog.Logger) *Client {
	return &Client{http: httpClient, logger: logger}
}

// Overview fetches the marketplace-wide analytics overview.
func (c *Client) Overview(ctx context.Context) (models.Item, error) {
	payload, err := c.http.GetJSON(ctx, baseURL+"/analyticCollector/embedded_insights/overview", nil, false)
	if err != nil {
		return nil, err
	}
	return dataAttributes(payload), nil
}

// ProjectIDs fetches all project IDs for a marketplace purpose and product
// type. Individual units returned by the location search are skipped.
func (c *Client) ProjectIDs(ctx context.Context, marketplacePurpose string, productTypes string) ([]string, error) {
	params := url.Values{}
	params.Set("filter[marketplace_purpose]", marketplacePurpose)
	params.Set("filter[mode]", "maps")
	if productTypes != "" {
		params.Set("filter[product_types]", productTypes)
	}

	payload, err := c.http.GetJSON(ctx, baseURL+"/marketplaceApi/search/v3/location", params, false)
	if err != nil {
		return nil, err
	}

	category := productTypes
	if category == "" {
		category = marketplacePurpose
	}

	var ids []string
	for _, item := range dataList(payload) {
		if stringValue(mapValue(mapValue(item, "attributes"), "resource_type")) != "projects" {
			continue
		}
		id := stringValue(mapValue(item, "id"))
		if strings.HasPrefix(id, projectIDPrefix) {
			ids = append(ids, strings.TrimPrefix(id, projectIDPrefix))
		}
	}

	c.logger.Info().Int("count", len(ids)).Str("category", category).Msg("found projects")
	return ids, nil
}

// ProjectDetails fetches the full project document with its includes.
func (c *Client) ProjectDetails(ctx context.Context, projectID string) (models.Item, error) {
	target := baseURL + "/mainIntermediaryApi/v4/projects/" + projectID +
		"?include=amenities,projects_amenities,developer,project_unit_types"
	return c.http.GetJSON(ctx, target, nil, false)
}

func (c *Client) PriceTrends(ctx context.Context, projectID string, monthsBack int) ([]any, error) {
	params := url.Values{}
	params.Set("filter[project_id]", projectID)
	params.Set("filter[months_back_trend]", strconv.Itoa(monthsBack))

	payload, err := c.http.GetJSON(ctx, baseURL+"/analyticCollector/compare_insights/price_trends", params, false)
	if err != nil {
		return nil, err
	}
	return attributesList(payload, "price_trends_data"), nil
}

func (c *Client) Demographics(ctx context.Context, projectID string) (models.Item, error) {
	params := url.Values{}
	params.Set("filter[project_id]", projectID)

	payload, err := c.http.GetJSON(ctx, baseURL+"/analyticCollector/compare_insights/demographic_overview", params, false)
	if err != nil {
		return nil, err
	}
	return dataAttributes(payload), nil
}

func (c *Client) ProjectInsight(ctx context.Context, projectID string) (models.Item, error) {
	payload, err := c.http.GetJSON(ctx, baseURL+"/analyticCollector/embedded_insights/projects/"+projectID, nil, false)
	if err != nil {
		return nil, err
	}
	return dataAttributes(payload), nil
}

func (c *Client) ProjectTransactions(ctx context.Context, projectID string) ([]any, error) {
	params := url.Values{}
	params.Set("filter[project_id]", projectID)

	payload, err := c.http.GetJSON(ctx, baseURL+"/analyticCollector/compare_insights/project_transactions", params, false)
	if err != nil {
		return nil, err
	}
	return attributesList(payload, "project_transactions_data"), nil
}

// AvailableUnits lists the currently bookable units of a project.
func (c *Client) AvailableUnits(ctx context.Context, projectID string) ([]models.Item, error) {
	payload, err := c.http.GetJSON(ctx, baseURL+"/marketplaceApi/search/v1/projects/"+projectID+"/available-units", nil, false)
	if err != nil {
		return nil, err
	}

	var units []models.Item
	for _, item := range dataList(payload) {
		units = append(units, asMap(item))
	}
	return units, nil
}

func (c *Client) UnitModels(ctx context.Context, projectID string) ([]any, error) {
	params := url.Values{}
	params.Set("filter[project_id]", projectID)

	payload, err := c.http.GetJSON(ctx, baseURL+"/mainIntermediaryApi/v4/unit_models", params, false)
	if err != nil {
		return nil, err
	}
	return dataList(payload), nil
}

// UnitInsights tolerates 404: not every unit has analytics.
func (c *Client) UnitInsights(ctx context.Context, unitID string) (models.Item, error) {
	payload, err := c.http.GetJSON(ctx, baseURL+"/analyticCollector/embedded_insights/units/"+unitID, nil, true)
	if err != nil {
		return nil, err
	}
	return dataAttributes(payload), nil
}

func (c *Client) UnitProjectTrends(ctx context.Context, unitID string, monthsBack int) ([]any, error) {
	params := url.Values{}
	params.Set("filter[unit_id]", unitID)
	params.Set("filter[months_back_trend]", strconv.Itoa(monthsBack))

	payload, err := c.http.GetJSON(ctx, baseURL+"/analyticCollector/compare_insights/unit_project_trends", params, false)
	if err != nil {
		return nil, err
	}
	return attributesList(payload, "unit_project_trends_data"), nil
}

func (c *Client) UnitTransactions(ctx context.Context, unitID string) ([]any, error) {
	params := url.Values{}
	params.Set("filter[unit_id]", unitID)

	payload, err := c.http.GetJSON(ctx, baseURL+"/analyticCollector/compare_insights/unit_transactions", params, false)
	if err != nil {
		return nil, err
	}
	return attributesList(payload, "unit_transactions_data"), nil
}

// MarketUnitIDs fetches IDs of individual market units (not part of a
// project) for a purpose and product type.
func (c *Client) MarketUnitIDs(ctx context.Context, marketplacePurpose string, productTypes string) ([]string, error) {
	params := url.Values{}
	params.Set("filter[marketplace_purpose]", marketplacePurpose)
	params.Set("filter[mode]", "maps")
	if productTypes != "" {
		params.Set("filter[product_types]", productTypes)
	}

	payload, err := c.http.GetJSON(ctx, baseURL+"/marketplaceApi/search/v3/location", params, false)
	if err != nil {
		return nil, err
	}

	ids := marketUnitIDs(payload)
	c.logger.Info().Int("count", len(ids)).Str("product_types", productTypes).Msg("found market units")
	return ids, nil
}

// MarketUnitRentIDs fetches rental market unit IDs. Rentals only exist on
// the v2 location search.
func (c *Client) MarketUnitRentIDs(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("filter[marketplace_purpose]", "rent")
	params.Set("filter[mode]", "maps")

	payload, err := c.http.GetJSON(ctx, baseURL+"/marketplaceApi/search/v2/location", params, false)
	if err != nil {
		return nil, err
	}

	ids := marketUnitIDs(payload)
	c.logger.Info().Int("count", len(ids)).Msg("found rental market units")
	return ids, nil
}

func (c *Client) MarketUnitDetails(ctx context.Context, unitID string) (models.Item, error) {
	payload, err := c.http.GetJSON(ctx, baseURL+"/marketUnitsApi/v6/market_units/"+unitID, nil, false)
	if err != nil {
		return nil, err
	}
	return dataAttributes(payload), nil
}

func (c *Client) MegaProjects(ctx context.Context) ([]models.Item, error) {
	target := baseURL + "/marketplaceApi/search/v2/mega-projects?page%5Bsize%5D=100&page%5Bnumber%5D=1"
	payload, err := c.http.GetJSON(ctx, target, nil, false)
	if err != nil {
		return nil, err
	}

	var projects []models.Item
	for _, item := range dataList(payload) {
		projects = append(projects, asMap(item))
	}
	c.logger.Info().Int("count", len(projects)).Msg("found mega projects")
	return projects, nil
}

func marketUnitIDs(payload map[string]any) []string {
	var ids []string
	for _, item := range dataList(payload) {
		id := stringValue(mapValue(item, "id"))
		if !strings.Contains(id, "market_unit") {
			continue
		}
		ids = append(ids, strings.TrimPrefix(id, marketUnitIDPrefix))
	}
	return ids
}

