package snapshot

import (
	"testing"

	"github.com/jimezsa/sakani/internal/models"
)

func datasetWithProjects(ids ...string) *models.Dataset {
	dataset := models.NewDataset()
	for _, id := range ids {
		dataset.ProjectsReadymade = append(dataset.ProjectsReadymade, models.Item{"project_id": id})
	}
	return dataset
}

func TestDiffReturnsOnlyUnseenProjects(t *testing.T) {
	fresh := datasetWithProjects("1", "2", "3")
	previous := datasetWithProjects("2")

	out, stats := Diff(fresh, previous)
	if len(out.ProjectsReadymade) != 2 {
		t.Fatalf("unseen = %d, want 2", len(out.ProjectsReadymade))
	}
	if stats.Unseen != 2 || stats.TotalNew != 3 || stats.TotalPrev != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestDiffSkipsKeylessRecords(t *testing.T) {
	fresh := datasetWithProjects("1")
	fresh.ProjectsReadymade = append(fresh.ProjectsReadymade, models.Item{"project_name": "no id"})
	previous := models.NewDataset()
	previous.ProjectsReadymade = []models.Item{{"project_id": ""}}

	out, stats := Diff(fresh, previous)
	if len(out.ProjectsReadymade) != 1 {
		t.Fatalf("unseen = %d, want 1", len(out.ProjectsReadymade))
	}
	if stats.InvalidNew != 1 || stats.InvalidPrev != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.InvalidSkipped() != 2 {
		t.Fatalf("InvalidSkipped() = %d", stats.InvalidSkipped())
	}
}

func TestDiffDedupesWithinFreshRun(t *testing.T) {
	fresh := datasetWithProjects("7", "7")
	out, _ := Diff(fresh, models.NewDataset())
	if len(out.ProjectsReadymade) != 1 {
		t.Fatalf("duplicate ids in one run should collapse, got %d", len(out.ProjectsReadymade))
	}
}

func TestDiffCoversMarketUnitsAndMegaProjects(t *testing.T) {
	fresh := models.NewDataset()
	fresh.MarketUnitBuy = []models.Item{{"unit_id": "u1"}, {"unit_id": "u2"}}
	fresh.MegaProjects = []models.Item{{"id": "m1"}}

	previous := models.NewDataset()
	previous.MarketUnitBuy = []models.Item{{"unit_id": "u1"}}
	previous.MegaProjects = []models.Item{{"id": "m1"}}

	out, stats := Diff(fresh, previous)
	if len(out.MarketUnitBuy) != 1 || out.MarketUnitBuy[0]["unit_id"] != "u2" {
		t.Fatalf("market unit diff = %v", out.MarketUnitBuy)
	}
	if len(out.MegaProjects) != 0 {
		t.Fatalf("seen mega project should be filtered")
	}
	if stats.Unseen != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestMergeExistingEntriesWinCollisions(t *testing.T) {
	previous := models.NewDataset()
	previous.ProjectsReadymade = []models.Item{{"project_id": "1", "status": "old"}}

	input := models.NewDataset()
	input.ProjectsReadymade = []models.Item{
		{"project_id": "1", "status": "new"},
		{"project_id": "2"},
	}

	out, stats := Merge(previous, input)
	if len(out.ProjectsReadymade) != 2 {
		t.Fatalf("merged = %d, want 2", len(out.ProjectsReadymade))
	}
	if out.ProjectsReadymade[0]["status"] != "old" {
		t.Fatalf("existing record should win collision")
	}
	if stats.Added != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestMergeReplacesOverviewWhenInputHasOne(t *testing.T) {
	previous := models.NewDataset()
	previous.Overview = models.Item{"total": float64(1)}

	input := models.NewDataset()
	out, _ := Merge(previous, input)
	if out.Overview["total"] != float64(1) {
		t.Fatalf("empty input overview should keep previous")
	}

	input.Overview = models.Item{"total": float64(2)}
	out, _ = Merge(previous, input)
	if out.Overview["total"] != float64(2) {
		t.Fatalf("input overview should replace previous")
	}
}
