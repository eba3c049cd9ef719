package models

import "testing"

func TestDatasetEmpty(t *testing.T) {
	dataset := NewDataset()
	if !dataset.Empty() {
		t.Fatal("NewDataset().Empty() = false, want true")
	}

	dataset.Overview = Item{"analytics": "x"}
	if dataset.Empty() {
		t.Fatal("Empty() = true with overview data")
	}

	dataset = NewDataset()
	dataset.MarketLandsBuy = append(dataset.MarketLandsBuy, Item{"unit_id": "1"})
	if dataset.Empty() {
		t.Fatal("Empty() = true with market lands data")
	}
}

func TestCountsIncludesNestedUnits(t *testing.T) {
	dataset := NewDataset()
	dataset.ProjectsUnderConstruction = []Item{
		{"project_id": "1", "available_units": []Item{{"id": "a"}, {"id": "b"}}},
		{"project_id": "2", "available_units": []any{map[string]any{"id": "c"}}},
		{"project_id": "3"},
	}
	dataset.MarketUnitRent = []Item{{"unit_id": "9"}}

	counts := dataset.Counts()
	if counts.UnderConstruction != 3 {
		t.Fatalf("UnderConstruction = %d, want 3", counts.UnderConstruction)
	}
	if counts.UnderConstructionUnits != 3 {
		t.Fatalf("UnderConstructionUnits = %d, want 3", counts.UnderConstructionUnits)
	}
	if counts.MarketUnitRent != 1 {
		t.Fatalf("MarketUnitRent = %d, want 1", counts.MarketUnitRent)
	}
}

func TestNormalizeCategories(t *testing.T) {
	got := NormalizeCategories([]string{" Overview ", "", "MEGA_PROJECTS"})
	if len(got) != 2 || got[0] != CategoryOverview || got[1] != CategoryMegaProjects {
		t.Fatalf("NormalizeCategories() = %v", got)
	}
}

func TestKnownCategory(t *testing.T) {
	for _, category := range AllCategories() {
		if !KnownCategory(category) {
			t.Fatalf("KnownCategory(%q) = false", category)
		}
	}
	if KnownCategory("villas") {
		t.Fatal(`KnownCategory("villas") = true`)
	}
}
