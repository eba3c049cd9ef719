package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jimezsa/sakani/internal/collector"
	"github.com/jimezsa/sakani/internal/config"
	"github.com/jimezsa/sakani/internal/export"
	"github.com/jimezsa/sakani/internal/models"
	"github.com/jimezsa/sakani/internal/network"
	"github.com/jimezsa/sakani/internal/sakani"
)

type CollectCmd struct {
	Categories    string  `help:"Comma-separated categories to collect, or 'all'." default:"all"`
	TestRun       bool    `help:"Limit each category to its first item."`
	Workers       int     `help:"Worker pool size; overrides the settings file."`
	NoConcurrency bool    `help:"Process items sequentially."`
	Retries       int     `help:"Retries per item; overrides the settings file."`
	SpeedFactor   float64 `help:"Base delay between requests in seconds."`
	PauseMinutes  int     `help:"Pause applied after a 403/429 answer, in minutes."`
	Output        string  `short:"o" help:"Output file path." default:"sakani_data.json"`
	Format        string  `help:"Output format." enum:"json,geojson" default:"json"`
	NoProxy       bool    `help:"Connect directly even when USE_PROXY is set."`
}

func (c *CollectCmd) Run(ctx *Context) error {
	settings, err := c.applySettings(ctx.Settings)
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	proxyConfig, err := config.LoadProxy()
	if err != nil {
		return err
	}
	if c.NoProxy {
		proxyConfig = proxyConfig.Disabled()
	}

	limiter := network.NewLimiter(time.Duration(settings.PauseMinutes)*time.Minute, ctx.Logger)
	httpClient, err := network.NewClient(proxyConfig, limiter, settings.SpeedFactor, ctx.Logger)
	if err != nil {
		return err
	}

	api := sakani.NewClient(httpClient, ctx.Logger)
	extractor := sakani.NewExtractor(httpClient, ctx.Logger)
	coll := collector.New(api, extractor, settings, ctx.UI, ctx.Logger)
	orchestrator := collector.NewOrchestrator(api, coll, settings, ctx.UI, ctx.Logger)

	dataset, err := orchestrator.Run(context.Background())
	if err != nil {
		return err
	}
	if dataset.Empty() {
		ctx.UI.Warnf("no data collected; skipping export")
		return nil
	}

	if ctx.JSONOutput {
		return export.WriteDataset(ctx.Out, dataset, format)
	}

	if err := export.WriteFile(c.Output, dataset, format); err != nil {
		return err
	}
	ctx.UI.Successf("✓ data exported to %s", c.Output)
	return export.WriteSummary(ctx.Out, dataset, export.SummaryOptions{ColorEnabled: ctx.UI.ColorEnabled})
}

func (c *CollectCmd) applySettings(base config.Settings) (config.Settings, error) {
	settings, err := applyCategories(base, c.Categories)
	if err != nil {
		return settings, err
	}
	if c.TestRun {
		settings.TestRun = true
	}
	if c.NoConcurrency {
		settings.UseConcurrency = false
	}
	if c.Workers > 0 {
		settings.MaxWorkers = c.Workers
	}
	if c.Retries > 0 {
		settings.MaxRetries = c.Retries
	}
	if c.SpeedFactor > 0 {
		settings.SpeedFactor = c.SpeedFactor
	}
	if c.PauseMinutes > 0 {
		settings.PauseMinutes = c.PauseMinutes
	}
	return settings, nil
}

// applyCategories narrows the enabled categories to the requested ones.
// "all" anywhere in the list keeps the settings file selection.
func applyCategories(settings config.Settings, raw string) (config.Settings, error) {
	requested := models.NormalizeCategories(strings.Split(raw, ","))
	if len(requested) == 0 {
		return settings, fmt.Errorf("no categories requested")
	}
	for _, category := range requested {
		if category == "all" {
			return settings, nil
		}
		if !models.KnownCategory(category) {
			return settings, fmt.Errorf("unknown category %q (known: %s)", category, strings.Join(models.AllCategories(), ", "))
		}
	}

	settings.Overview = false
	settings.MegaProjects = false
	settings.ProjectsUnderConstruction = false
	settings.ProjectsReadymade = false
	settings.MarketUnitBuy = false
	settings.MarketLandsBuy = false
	settings.MarketUnitRent = false

	for _, category := range requested {
		switch category {
		case models.CategoryOverview:
			settings.Overview = true
		case models.CategoryMegaProjects:
			settings.MegaProjects = true
		case models.CategoryUnderConstruction:
			settings.ProjectsUnderConstruction = true
		case models.CategoryReadymade:
			settings.ProjectsReadymade = true
		case models.CategoryMarketUnitBuy:
			settings.MarketUnitBuy = true
		case models.CategoryMarketLandsBuy:
			settings.MarketLandsBuy = true
		case models.CategoryMarketUnitRent:
			settings.MarketUnitRent = true
		}
	}
	return settings, nil
}
