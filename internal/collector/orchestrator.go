package collector

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jimezsa/sakani/internal/config"
	"github.com/jimezsa/sakani/internal/models"
	"github.com/jimezsa/sakani/internal/sakani"
	"github.com/jimezsa/sakani/internal/ui"
)

// Orchestrator drives the category workflow of a collection run.
type Orchestrator struct {
	api       *sakani.Client
	collector *Collector
	settings  config.Settings
	ui        *ui.UI
	logger    zerolog.Logger
}

func NewOrchestrator(api *sakani.Client, collector *Collector, settings config.Settings, terminal *ui.UI, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		api:       api,
		collector: collector,
		settings:  settings,
		ui:        terminal,
		logger:    logger,
	}
}

// Run collects every enabled category and returns the assembled dataset.
func (o *Orchestrator) Run(ctx context.Context) (*models.Dataset, error) {
	o.ui.Stepf("═══ Starting data collection ═══")

	dataset := models.NewDataset()

	if o.settings.Overview {
		o.ui.Stepf("Fetching overview data...")
		overview, err := o.api.Overview(ctx)
		if err != nil {
			return nil, err
		}
		if len(overview) > 0 {
			dataset.Overview = overview
			o.ui.Successf("✓ collected overview data")
		} else {
			o.ui.Warnf("⚠ failed to collect overview data")
		}
	} else {
		o.ui.Skippedf("overview collection disabled in configuration")
	}

	if o.settings.MegaProjects {
		o.ui.Stepf("Fetching mega projects data...")
		megaProjects, err := o.api.MegaProjects(ctx)
		if err != nil {
			return nil, err
		}
		if len(megaProjects) > 0 {
			if o.settings.TestRun {
				megaProjects = megaProjects[:1]
				o.ui.Infof("TEST MODE: limited to first mega project")
			}
			dataset.MegaProjects = megaProjects
			o.ui.Successf("✓ collected %d mega projects", len(megaProjects))
		} else {
			o.ui.Warnf("⚠ failed to collect mega projects data")
		}
	} else {
		o.ui.Skippedf("mega projects collection disabled in configuration")
	}

	if o.settings.ProjectsUnderConstruction {
		o.ui.Stepf("Starting projects under construction data collection...")
		ids, err := o.api.ProjectIDs(ctx, "buy", "units_under_construction")
		if err != nil {
			return nil, err
		}
		dataset.ProjectsUnderConstruction = o.projectCategory(ctx, ids, "Under Construction")
	} else {
		o.ui.Skippedf("projects under construction collection disabled in configuration")
	}

	if o.settings.ProjectsReadymade {
		o.ui.Stepf("Starting readymade projects data collection...")
		ids, err := o.api.ProjectIDs(ctx, "buy", "readymade_units")
		if err != nil {
			return nil, err
		}
		dataset.ProjectsReadymade = o.projectCategory(ctx, ids, "Readymade")
	} else {
		o.ui.Skippedf("readymade projects collection disabled in configuration")
	}

	if o.settings.MarketUnitBuy {
		o.ui.Stepf("Starting market unit buy data collection...")
		ids, err := o.api.MarketUnitIDs(ctx, "buy", "readymade_units")
		if err != nil {
			return nil, err
		}
		dataset.MarketUnitBuy = o.marketUnitCategory(ctx, ids, "Buy")
	} else {
		o.ui.Skippedf("market unit buy collection disabled in configuration")
	}

	if o.settings.MarketLandsBuy {
		o.ui.Stepf("Starting market lands buy data collection...")
		ids, err := o.api.MarketUnitIDs(ctx, "buy", "lands")
		if err != nil {
			return nil, err
		}
		dataset.MarketLandsBuy = o.marketUnitCategory(ctx, ids, "Lands")
	} else {
		o.ui.Skippedf("market lands buy collection disabled in configuration")
	}

	if o.settings.MarketUnitRent {
		o.ui.Stepf("Starting market unit rent data collection...")
		ids, err := o.api.MarketUnitRentIDs(ctx)
		if err != nil {
			return nil, err
		}
		dataset.MarketUnitRent = o.marketUnitCategory(ctx, ids, "Rent")
	} else {
		o.ui.Skippedf("market unit rent collection disabled in configuration")
	}

	o.ui.Stepf("═══ Completed data collection ═══")
	return dataset, nil
}

func (o *Orchestrator) projectCategory(ctx context.Context, ids []string, categoryName string) []models.Item {
	if len(ids) == 0 {
		o.ui.Warnf("⚠ no %s project IDs found", categoryName)
		return []models.Item{}
	}

	ids = o.limitForTestRun(ids, "project")
	o.announceBatch(len(ids), categoryName+" projects")
	return o.collector.ProjectBatch(ctx, ids, categoryName)
}

func (o *Orchestrator) marketUnitCategory(ctx context.Context, ids []string, categoryName string) []models.Item {
	if len(ids) == 0 {
		o.ui.Warnf("⚠ no %s market unit IDs found", categoryName)
		return []models.Item{}
	}

	ids = o.limitForTestRun(ids, "unit")
	o.announceBatch(len(ids), categoryName+" market units")
	return o.collector.MarketUnitBatch(ctx, ids, categoryName)
}

func (o *Orchestrator) limitForTestRun(ids []string, kind string) []string {
	if o.settings.TestRun && len(ids) > 1 {
		o.ui.Infof("TEST MODE: limited to first %s", kind)
		return ids[:1]
	}
	return ids
}

func (o *Orchestrator) announceBatch(count int, what string) {
	if o.settings.UseConcurrency {
		o.ui.Infof("Processing %d %s concurrently with %d workers", count, what, o.settings.MaxWorkers)
	} else {
		o.ui.Infof("Processing %d %s sequentially (concurrency disabled)", count, what)
	}
}
