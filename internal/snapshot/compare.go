// Package snapshot compares collection runs, so recurring scrapes can
// report which projects and market units are new since the last export.
package snapshot

import (
	"strings"

	"github.com/jimezsa/sakani/internal/models"
)

// DiffStats captures stats for new-since-last-run filtering.
type DiffStats struct {
	TotalNew    int
	TotalPrev   int
	InvalidNew  int
	InvalidPrev int
	Unseen      int
}

// InvalidSkipped returns the total keyless records skipped during comparison.
func (s DiffStats) InvalidSkipped() int {
	return s.InvalidNew + s.InvalidPrev
}

// MergeStats captures stats for snapshot history updates.
type MergeStats struct {
	TotalPrev    int
	TotalInput   int
	InvalidPrev  int
	InvalidInput int
	Added        int
	TotalOut     int
}

func (s MergeStats) InvalidSkipped() int {
	return s.InvalidPrev + s.InvalidInput
}

func keyOf(item models.Item, field string) (string, bool) {
	value, _ := item[field].(string)
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

func projectKey(item models.Item) (string, bool)     { return keyOf(item, "project_id") }
func marketUnitKey(item models.Item) (string, bool)  { return keyOf(item, "unit_id") }
func megaProjectKey(item models.Item) (string, bool) { return keyOf(item, "id") }

// Diff returns the records of fresh not present in previous. The overview
// is run-wide analytics and carries no identity, so it is left empty.
func Diff(fresh *models.Dataset, previous *models.Dataset) (*models.Dataset, DiffStats) {
	out := models.NewDataset()
	stats := DiffStats{}

	out.MegaProjects = diffItems(fresh.MegaProjects, previous.MegaProjects, megaProjectKey, &stats)
	out.ProjectsUnderConstruction = diffItems(fresh.ProjectsUnderConstruction, previous.ProjectsUnderConstruction, projectKey, &stats)
	out.ProjectsReadymade = diffItems(fresh.ProjectsReadymade, previous.ProjectsReadymade, projectKey, &stats)
	out.MarketUnitBuy = diffItems(fresh.MarketUnitBuy, previous.MarketUnitBuy, marketUnitKey, &stats)
	out.MarketLandsBuy = diffItems(fresh.MarketLandsBuy, previous.MarketLandsBuy, marketUnitKey, &stats)
	out.MarketUnitRent = diffItems(fresh.MarketUnitRent, previous.MarketUnitRent, marketUnitKey, &stats)

	return out, stats
}

func diffItems(fresh []models.Item, previous []models.Item, key func(models.Item) (string, bool), stats *DiffStats) []models.Item {
	stats.TotalNew += len(fresh)
	stats.TotalPrev += len(previous)

	prevKeys := make(map[string]struct{}, len(previous))
	for _, item := range previous {
		k, ok := key(item)
		if !ok {
			stats.InvalidPrev++
			continue
		}
		prevKeys[k] = struct{}{}
	}

	freshKeys := make(map[string]struct{}, len(fresh))
	unseen := make([]models.Item, 0, len(fresh))
	for _, item := range fresh {
		k, ok := key(item)
		if !ok {
			stats.InvalidNew++
			continue
		}
		if _, dup := freshKeys[k]; dup {
			continue
		}
		freshKeys[k] = struct{}{}
		if _, seen := prevKeys[k]; seen {
			continue
		}
		unseen = append(unseen, item)
	}

	stats.Unseen += len(unseen)
	return unseen
}

// Merge folds new records into a snapshot history. Existing entries win
// collisions; the overview is replaced when the input carries one.
func Merge(previous *models.Dataset, input *models.Dataset) (*models.Dataset, MergeStats) {
	out := models.NewDataset()
	stats := MergeStats{}

	out.Overview = previous.Overview
	if len(input.Overview) > 0 {
		out.Overview = input.Overview
	}

	out.MegaProjects = mergeItems(previous.MegaProjects, input.MegaProjects, megaProjectKey, &stats)
	out.ProjectsUnderConstruction = mergeItems(previous.ProjectsUnderConstruction, input.ProjectsUnderConstruction, projectKey, &stats)
	out.ProjectsReadymade = mergeItems(previous.ProjectsReadymade, input.ProjectsReadymade, projectKey, &stats)
	out.MarketUnitBuy = mergeItems(previous.MarketUnitBuy, input.MarketUnitBuy, marketUnitKey, &stats)
	out.MarketLandsBuy = mergeItems(previous.MarketLandsBuy, input.MarketLandsBuy, marketUnitKey, &stats)
	out.MarketUnitRent = mergeItems(previous.MarketUnitRent, input.MarketUnitRent, marketUnitKey, &stats)

	return out, stats
}

func mergeItems(previous []models.Item, input []models.Item, key func(models.Item) (string, bool), stats *MergeStats) []models.Item {
	stats.TotalPrev += len(previous)
	stats.TotalInput += len(input)

	keys := make(map[string]struct{}, len(previous)+len(input))
	out := make([]models.Item, 0, len(previous)+len(input))

	for _, item := range previous {
		k, ok := key(item)
		if !ok {
			stats.InvalidPrev++
			out = append(out, item)
			continue
		}
		if _, dup := keys[k]; dup {
			continue
		}
		keys[k] = struct{}{}
		out = append(out, item)
	}

	for _, item := range input {
		k, ok := key(item)
		if !ok {
			stats.InvalidInput++
			continue
		}
		if _, dup := keys[k]; dup {
			continue
		}
		keys[k] = struct{}{}
		out = append(out, item)
		stats.Added++
	}

	stats.TotalOut += len(out)
	return out
}
