package collector

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jimezsa/sakani/internal/config"
	"github.com/jimezsa/sakani/internal/models"
	"github.com/jimezsa/sakani/internal/sakani"
	"github.com/jimezsa/sakani/internal/ui"
)

var errNoData = errors.New("no data returned")

// Collector gathers project and market unit records over a worker pool.
// Per-item failures are retried up to MaxRetries and never abort a batch.
type Collector struct {
	api       *sakani.Client
	extractor *sakani.Extractor
	settings  config.Settings
	ui        *ui.UI
	logger    zerolog.Logger

	mu                   sync.Mutex
	processedProjects    map[string]struct{}
	processedMarketUnits map[string]struct{}
}

func New(api *sakani.Client, extractor *sakani.Extractor, settings config.Settings, terminal *ui.UI, logger zerolog.Logger) *Collector {
	return &Collector{
		api:                  api,
		extractor:            extractor,
		settings:             settings,
		ui:                   terminal,
		logger:               logger,
		processedProjects:    map[string]struct{}{},
		processedMarketUnits: map[string]struct{}{},
	}
}

type itemResult struct {
	id   string
	item models.Item
	err  error
}

// ProjectBatch collects full project records for the given IDs.
func (c *Collector) ProjectBatch(ctx context.Context, ids []string, categoryName string) []models.Item {
	results := make([]models.Item, 0, len(ids))
	completed := 0

	c.forEach(ctx, ids, c.collectProject, func(res itemResult) {
		completed++
		switch {
		case res.err != nil:
			c.ui.Errorf("✗ [%d/%d] error processing %s project %s: %v",
				completed, len(ids), strings.ToLower(categoryName), res.id, res.err)
		case res.item == nil:
			c.ui.Warnf("⚠ [%d/%d] no data collected for %s project %s",
				completed, len(ids), strings.ToLower(categoryName), res.id)
		default:
			if !c.markProjectProcessed(res.id) {
				return
			}
			results = append(results, res.item)
			c.ui.Successf("✓ [%d/%d] %s project %s | %d available units, %d unit models",
				completed, len(ids), categoryName, res.id,
				itemCount(res.item["available_units"]), itemCount(res.item["unit_models"]))
		}
	})

	c.ui.Successf("✓ completed %d %s projects", len(results), strings.ToLower(categoryName))
	return results
}

// MarketUnitBatch collects market unit records for the given IDs.
func (c *Collector) MarketUnitBatch(ctx context.Context, ids []string, categoryName string) []models.Item {
	results := make([]models.Item, 0, len(ids))
	completed := 0

	c.forEach(ctx, ids, c.collectMarketUnit, func(res itemResult) {
		completed++
		switch {
		case res.err != nil:
			c.ui.Errorf("✗ [%d/%d] error processing %s market unit %s: %v",
				completed, len(ids), strings.ToLower(categoryName), res.id, res.err)
		case res.item == nil:
			c.ui.Warnf("⚠ [%d/%d] no data collected for %s market unit %s",
				completed, len(ids), strings.ToLower(categoryName), res.id)
		default:
			if !c.markMarketUnitProcessed(res.id) {
				return
			}
			results = append(results, res.item)
			c.ui.Successf("✓ [%d/%d] %s market unit %s", completed, len(ids), categoryName, res.id)
		}
	})

	c.ui.Successf("✓ completed %d %s market units", len(results), strings.ToLower(categoryName))
	return results
}

// forEach runs work for every ID, fanning out over the worker pool when
// concurrency is enabled. done is always called from the calling goroutine.
func (c *Collector) forEach(ctx context.Context, ids []string, work func(context.Context, string) (models.Item, error), done func(itemResult)) {
	if !c.settings.UseConcurrency || c.settings.MaxWorkers <= 1 || len(ids) < 2 {
		for _, id := range ids {
			item, err := work(ctx, id)
			done(itemResult{id: id, item: item, err: err})
		}
		return
	}

	jobs := make(chan string)
	results := make(chan itemResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < c.settings.MaxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				item, err := work(ctx, id)
				results <- itemResult{id: id, item: item, err: err}
			}
		}()
	}

	go func() {
		for _, id := range ids {
			jobs <- id
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for res := range results {
		done(res)
	}
}

func (c *Collector) collectProject(ctx context.Context, projectID string) (models.Item, error) {
	var lastErr error
	for attempt := 0; attempt < c.retries(); attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item, err := c.collectProjectOnce(ctx, projectID)
		if err == nil {
			return item, nil
		}
		lastErr = err

		if attempt < c.retries()-1 {
			c.ui.Warnf("⚠ error in project %s, retrying (attempt %d/%d)...", projectID, attempt+1, c.retries())
		}
	}

	if errors.Is(lastErr, errNoData) {
		return nil, nil
	}
	return nil, lastErr
}

func (c *Collector) collectProjectOnce(ctx context.Context, projectID string) (models.Item, error) {
	payload, err := c.api.ProjectDetails(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, errNoData
	}

	item := c.extractor.ProjectData(payload)

	if c.settings.PriceTrends {
		trends, err := c.api.PriceTrends(ctx, projectID, 12)
		if err != nil {
			return nil, err
		}
		item["price_trends"] = emptySlice(trends)
	} else {
		item["price_trends"] = []any{}
	}

	if c.settings.Demographics {
		demographics, err := c.api.Demographics(ctx, projectID)
		if err != nil {
			return nil, err
		}
		item["demographics"] = demographics
	} else {
		item["demographics"] = models.Item{}
	}

	if c.settings.ProjectInsight {
		insight, err := c.api.ProjectInsight(ctx, projectID)
		if err != nil {
			return nil, err
		}
		item["project_insight"] = insight
	} else {
		item["project_insight"] = models.Item{}
	}

	if c.settings.ProjectTransactions {
		transactions, err := c.api.ProjectTransactions(ctx, projectID)
		if err != nil {
			return nil, err
		}
		item["project_transactions"] = emptySlice(transactions)
	} else {
		item["project_transactions"] = []any{}
	}

	units, err := c.collectAvailableUnits(ctx, projectID)
	if err != nil {
		return nil, err
	}
	item["available_units"] = units

	unitModels, err := c.api.UnitModels(ctx, projectID)
	if err != nil {
		return nil, err
	}
	item["unit_models"] = emptySlice(unitModels)

	if c.settings.ResolveGeoFeatures {
		resolveGeoFeatures(ctx, c.extractor, item)
	}

	return item, nil
}

// collectAvailableUnits lists a project's units and enriches each one with
// its analytics, fanning out over the worker pool.
func (c *Collector) collectAvailableUnits(ctx context.Context, projectID string) ([]models.Item, error) {
	units, err := c.api.AvailableUnits(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return []models.Item{}, nil
	}

	enriched := make([]models.Item, 0, len(units))

	if !c.settings.UseConcurrency || c.settings.MaxWorkers <= 1 || len(units) < 2 {
		for _, unit := range units {
			enriched = append(enriched, c.enrichUnit(ctx, unit))
		}
		return enriched, nil
	}

	jobs := make(chan models.Item)
	results := make(chan models.Item, len(units))

	var wg sync.WaitGroup
	for i := 0; i < c.settings.MaxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for unit := range jobs {
				results <- c.enrichUnit(ctx, unit)
			}
		}()
	}

	go func() {
		for _, unit := range units {
			jobs <- unit
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for unit := range results {
		enriched = append(enriched, unit)
	}
	return enriched, nil
}

func (c *Collector) enrichUnit(ctx context.Context, unit models.Item) models.Item {
	out := withUnitPlaceholders(unit)

	enrichmentWanted := c.settings.UnitInsights || c.settings.UnitProjectTrends || c.settings.UnitTransactions
	unitID := unitIDOf(unit)
	if !enrichmentWanted || unitID == "" {
		return out
	}

	var lastErr error
	for attempt := 0; attempt < c.retries(); attempt++ {
		if ctx.Err() != nil {
			return out
		}

		insights, trends, transactions, err := c.fetchUnitAnalytics(ctx, unitID)
		if err == nil {
			out["unit_insights"] = insights
			out["unit_project_trends"] = trends
			out["unit_transactions"] = transactions
			return out
		}
		lastErr = err

		if attempt < c.retries()-1 {
			c.logger.Warn().Str("unit", unitID).Int("attempt", attempt+1).Msg("error enriching unit, retrying")
		}
	}

	c.logger.Error().Str("unit", unitID).Err(lastErr).Msg("failed to enrich unit")
	return out
}

func (c *Collector) fetchUnitAnalytics(ctx context.Context, unitID string) (models.Item, []any, []any, error) {
	insights := models.Item{}
	trends := []any{}
	transactions := []any{}

	if c.settings.UnitInsights {
		c.logger.Debug().Str("unit", unitID).Msg("fetching unit insights")
		fetched, err := c.api.UnitInsights(ctx, unitID)
		if err != nil {
			return nil, nil, nil, err
		}
		insights = fetched
	}

	if c.settings.UnitProjectTrends {
		c.logger.Debug().Str("unit", unitID).Msg("fetching unit project trends")
		fetched, err := c.api.UnitProjectTrends(ctx, unitID, 12)
		if err != nil {
			return nil, nil, nil, err
		}
		trends = emptySlice(fetched)
	}

	if c.settings.UnitTransactions {
		c.logger.Debug().Str("unit", unitID).Msg("fetching unit transactions")
		fetched, err := c.api.UnitTransactions(ctx, unitID)
		if err != nil {
			return nil, nil, nil, err
		}
		transactions = emptySlice(fetched)
	}

	return insights, trends, transactions, nil
}

func (c *Collector) collectMarketUnit(ctx context.Context, unitID string) (models.Item, error) {
	var lastErr error
	for attempt := 0; attempt < c.retries(); attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		details, err := c.api.MarketUnitDetails(ctx, unitID)
		if err == nil {
			if len(details) == 0 {
				lastErr = errNoData
				continue
			}
			item := models.Item{"unit_id": unitID}
			for key, value := range details {
				item[key] = value
			}
			return item, nil
		}
		lastErr = err

		if attempt < c.retries()-1 {
			c.ui.Warnf("⚠ error in market unit %s, retrying (attempt %d/%d)...", unitID, attempt+1, c.retries())
		}
	}

	if errors.Is(lastErr, errNoData) {
		return nil, nil
	}
	return nil, lastErr
}

func (c *Collector) markProjectProcessed(projectID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.processedProjects[projectID]; exists {
		return false
	}
	c.processedProjects[projectID] = struct{}{}
	return true
}

func (c *Collector) markMarketUnitProcessed(unitID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.processedMarketUnits[unitID]; exists {
		return false
	}
	c.processedMarketUnits[unitID] = struct{}{}
	return true
}

func (c *Collector) retries() int {
	if c.settings.MaxRetries < 1 {
		return 1
	}
	return c.settings.MaxRetries
}

func withUnitPlaceholders(unit models.Item) models.Item {
	out := models.Item{
		"unit_insights":       models.Item{},
		"unit_project_trends": []any{},
		"unit_transactions":   []any{},
	}
	for key, value := range unit {
		out[key] = value
	}
	return out
}

func unitIDOf(unit models.Item) string {
	id, _ := unit["id"].(string)
	return id
}

func resolveGeoFeatures(ctx context.Context, extractor *sakani.Extractor, item models.Item) {
	media, ok := item["media"].(models.Item)
	if !ok {
		return
	}
	if target, ok := media["geo_map"].(string); ok && target != "" {
		media["geo_map_features"] = extractor.GeoJSONFeatures(ctx, target)
	}
}

func itemCount(value any) int {
	switch v := value.(type) {
	case []models.Item:
		return len(v)
	case []any:
		return len(v)
	default:
		return 0
	}
}

func emptySlice(values []any) []any {
	if values == nil {
		return []any{}
	}
	return values
}
